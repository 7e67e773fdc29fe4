package main

import (
	"fmt"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-grove/internal/storage"
)

var (
	flagRunsLimit int
	flagClear     bool
)

var runsCmd = &cobra.Command{
	Use:   "runs [mode]",
	Short: "Show recorded runs",
	Long: `Display the most recent recorded runs, optionally for one mode,
followed by per-mode totals.

Examples:
  grove runs
  grove runs grove --limit 20
  grove runs hillclimb --clear`,
	Args: cobra.MaximumNArgs(1),
	Run:  runRuns,
}

func init() {
	runsCmd.Flags().IntVar(&flagRunsLimit, "limit", 10, "Number of runs to show")
	runsCmd.Flags().BoolVar(&flagClear, "clear", false, "Delete the recorded runs of the mode")
}

func runRuns(cmd *cobra.Command, args []string) {
	mode := ""
	if len(args) == 1 {
		mode = args[0]
		requireMode(mode)
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening runs database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if flagClear {
		if mode == "" {
			fmt.Fprintln(os.Stderr, "Error: --clear needs a mode")
			os.Exit(1)
		}
		if err := store.ClearRuns(mode); err != nil {
			fmt.Fprintf(os.Stderr, "Error clearing runs: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Cleared runs for %s.\n", mode)
		return
	}

	var runs []storage.Run
	if mode == "" {
		runs, err = store.RecentRuns(flagRunsLimit)
	} else {
		runs, err = store.RunsByMode(mode, flagRunsLimit)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving runs: %v\n", err)
		os.Exit(1)
	}

	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		fmt.Println()
		fmt.Println("Run 'grove simulate <mode>' or 'grove play' to record one.")
		return
	}

	fmt.Printf("  %-8s  %-10s  %-9s  %8s  %6s  %6s  %-8s  %s\n",
		"Run", "Mode", "Source", "Frames", "Actors", "Trees", "End", "Date")
	fmt.Printf("  %-8s  %-10s  %-9s  %8s  %6s  %6s  %-8s  %s\n",
		"---", "----", "------", "------", "------", "-----", "---", "----")
	for _, r := range runs {
		id := r.RunID
		if len(id) > 8 {
			id = id[:8]
		}
		fmt.Printf("  %-8s  %-10s  %-9s  %8d  %6d  %6d  %-8s  %s\n",
			id, r.Mode, r.Source, r.Frames, r.Actors, r.Trees, r.EndReason,
			r.CreatedAt.Format("2006-01-02 15:04"))
	}

	stats, err := store.ModeStats()
	if err != nil || len(stats) == 0 {
		return
	}
	fmt.Println()
	fmt.Println("Totals:")
	modes := make([]string, 0, len(stats))
	for m := range stats {
		modes = append(modes, m)
	}
	slices.Sort(modes)
	for _, m := range modes {
		st := stats[m]
		fmt.Printf("  %-10s  %d runs, %d frames, max %d trees, %.1f bodies on average\n",
			m, st.Runs, st.TotalFrames, st.MaxTrees, st.AvgBodies)
	}
}
