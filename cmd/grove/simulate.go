package main

import (
	"fmt"
	"math"
	"os"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-grove/internal/core"
	"github.com/vovakirdan/tui-grove/internal/registry"
	"github.com/vovakirdan/tui-grove/internal/scenario"
	"github.com/vovakirdan/tui-grove/internal/sim"
	"github.com/vovakirdan/tui-grove/internal/storage"
)

var (
	flagTicks    int
	flagActors   int
	flagScenario string
	flagNoSave   bool
	flagNoPlot   bool
)

var simulateCmd = &cobra.Command{
	Use:   "simulate <mode>",
	Short: "Run a world headless and plot it",
	Long: `Run a world without a terminal UI, print a summary and plots of
actor speed, tree count and body count per tick, and record the run.

Without --scenario, --actors bots join and steer in slow circles for
--ticks ticks. With --scenario, a Lua script drives the world instead;
see the scenario API: ground, crate, ball, tree, seed, join, leave,
controls, step, frame, count, body, actor, log.

Examples:
  grove simulate grove --ticks 3000
  grove simulate grove --preset fast --actors 4 --seed 7
  grove simulate hillclimb --scenario ./climb.lua`,
	Args: cobra.ExactArgs(1),
	Run:  runSimulate,
}

func init() {
	simulateCmd.Flags().IntVar(&flagTicks, "ticks", 600, "Ticks to run without a scenario")
	simulateCmd.Flags().IntVar(&flagActors, "actors", 1, "Bots to join without a scenario")
	simulateCmd.Flags().StringVar(&flagScenario, "scenario", "", "Lua scenario script")
	simulateCmd.Flags().BoolVar(&flagNoSave, "no-save", false, "Do not record the run")
	simulateCmd.Flags().BoolVar(&flagNoPlot, "no-plot", false, "Skip the plots")
}

// series collects one value per tick.
type series struct {
	speed  []float64
	trees  []float64
	bodies []float64
}

func (s *series) sample(sched *sim.Scheduler) {
	snap := sched.Snapshot()
	speed := 0.0
	for _, a := range snap.Actors {
		speed += a.Velocity.Len()
	}
	if n := len(snap.Actors); n > 0 {
		speed /= float64(n)
	}
	s.speed = append(s.speed, speed)
	s.trees = append(s.trees, float64(snap.Counts.Trees))
	s.bodies = append(s.bodies, float64(snap.Counts.Bodies))
}

// botControls steers bot i around a slow circle.
func botControls(i int, frame uint64) core.Controls {
	phase := float64(frame)/120 + float64(i)*math.Pi/3
	dir := core.FromAngle(phase)
	return core.Controls{X: dir.X, Y: dir.Y}
}

func runSimulate(cmd *cobra.Command, args []string) {
	mode := args[0]
	requireMode(mode)

	logger := newLogger("grove-sim")
	seed := resolveSeed()
	opts := schedulerOptions(logger)

	sched, err := registry.NewScheduler(mode, seed, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating world: %v\n", err)
		os.Exit(1)
	}

	var data series
	started := time.Now()
	source := storage.SourceSimulate

	if flagScenario != "" {
		source = storage.SourceScenario
		err = runScenario(sched, &data)
	} else {
		err = runBots(sched, &data)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	elapsed := time.Since(started)

	snap := sched.Snapshot()
	fmt.Printf("Mode:      %s (%s preset)\n", mode, opts.Preset)
	fmt.Printf("Seed:      %d\n", seed)
	fmt.Printf("Frames:    %d in %v\n", snap.Frame, elapsed.Round(time.Millisecond))
	fmt.Printf("Actors:    %d\n", len(snap.Actors))
	fmt.Printf("Bodies:    %d (trees %d, seeds %d, projectiles %d)\n",
		snap.Counts.Bodies, snap.Counts.Trees, snap.Counts.Seeds, snap.Counts.Projectiles)
	fmt.Printf("Hash:      %016x\n", snap.Hash())
	fmt.Println()

	if !flagNoPlot && len(data.speed) > 1 {
		plot(data.speed, "mean actor speed (px/s)")
		plot(data.trees, "trees")
		plot(data.bodies, "bodies")
	}

	if flagNoSave {
		return
	}
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open runs database: %v\n", err)
		return
	}
	defer store.Close()

	if _, err := store.SaveRun(storage.Run{
		Mode:        mode,
		Source:      source,
		Seed:        seed,
		Preset:      string(opts.Preset),
		Frames:      snap.Frame,
		Actors:      len(snap.Actors),
		Bodies:      snap.Counts.Bodies,
		Trees:       snap.Counts.Trees,
		Seeds:       snap.Counts.Seeds,
		Projectiles: snap.Counts.Projectiles,
		Hash:        snap.Hash(),
		EndReason:   "completed",
		Duration:    elapsed,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not save run: %v\n", err)
		return
	}
	fmt.Println("Run recorded. See 'grove runs'.")
}

func runBots(sched *sim.Scheduler, data *series) error {
	bots := make([]core.ActorID, flagActors)
	for i := range bots {
		bots[i] = core.ActorID(fmt.Sprintf("bot-%d", i+1))
		if err := sched.ActorJoined(bots[i]); err != nil {
			return err
		}
	}

	for range flagTicks {
		for i, id := range bots {
			if err := sched.SubmitControls(id, botControls(i, sched.Frame())); err != nil {
				return err
			}
		}
		if err := sched.Tick(); err != nil {
			return err
		}
		data.sample(sched)
	}
	return nil
}

func runScenario(sched *sim.Scheduler, data *series) error {
	engine := scenario.NewEngine(sched, newLogger("scenario"))
	defer engine.Close()
	engine.OnStep(data.sample)
	return engine.RunFile(flagScenario)
}

func plot(values []float64, caption string) {
	graph := asciigraph.Plot(values,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption(caption),
	)
	fmt.Println(graph)
	fmt.Println()
}
