// Package storage provides SQLite-based persistence for simulation runs.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies and
// goose for schema migrations.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/tui-grove/internal/multiplayer"
)

// Run sources
const (
	SourceSimulate = "simulate"
	SourceRoom     = "room"
	SourceScenario = "scenario"
)

// Store manages the SQLite database connection for run persistence.
type Store struct {
	db *sql.DB
}

// Run is one recorded simulation run.
type Run struct {
	ID          int64
	RunID       string
	Mode        string
	Source      string
	Seed        int64
	Preset      string
	Frames      uint64
	Actors      int
	Bodies      int
	Trees       int
	Seeds       int
	Projectiles int
	Hash        uint64
	EndReason   string
	Duration    time.Duration
	CreatedAt   time.Time
}

// ModeStats contains aggregated statistics for one mode.
type ModeStats struct {
	Mode        string
	Runs        int
	TotalFrames int64
	MaxTrees    int
	AvgBodies   float64
	LastRun     time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	if err := migrate(context.Background(), db); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveRun records a run and returns the ID of the inserted record.
// An empty RunID gets a generated one.
func (s *Store) SaveRun(r Run) (int64, error) {
	if r.RunID == "" {
		r.RunID = fmt.Sprintf("%s-%d-%d", r.Mode, r.Seed, time.Now().UnixNano())
	}
	if r.Preset == "" {
		r.Preset = "normal"
	}
	res, err := s.db.Exec(
		`INSERT INTO runs
		 (run_id, mode, source, seed, preset, frames, actors, bodies, trees, seeds, projectiles, state_hash, end_reason, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.RunID, r.Mode, r.Source, r.Seed, r.Preset,
		int64(r.Frames), //#nosec G115 -- frame counts stay far below 2^63
		r.Actors, r.Bodies, r.Trees, r.Seeds, r.Projectiles,
		strconv.FormatUint(r.Hash, 16),
		r.EndReason,
		r.Duration.Milliseconds(),
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save run: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}
	return id, nil
}

const runColumns = `id, run_id, mode, source, seed, preset, frames, actors, bodies, trees, seeds, projectiles, state_hash, end_reason, duration_ms, created_at`

// RunByID retrieves a run by its run ID. It returns nil when none exists.
func (s *Store) RunByID(runID string) (*Run, error) {
	row := s.db.QueryRow(`SELECT `+runColumns+` FROM runs WHERE run_id = ?`, runID)
	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query run: %w", err)
	}
	return &r, nil
}

// RecentRuns retrieves the most recent runs of every mode.
func (s *Store) RecentRuns(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.Query(
		`SELECT `+runColumns+` FROM runs ORDER BY created_at DESC, id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	return collectRuns(rows)
}

// RunsByMode retrieves the most recent runs of one mode.
func (s *Store) RunsByMode(mode string, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.Query(
		`SELECT `+runColumns+` FROM runs WHERE mode = ? ORDER BY created_at DESC, id DESC LIMIT ?`,
		mode, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	return collectRuns(rows)
}

// ClearRuns deletes all runs of the given mode.
func (s *Store) ClearRuns(mode string) error {
	if _, err := s.db.Exec("DELETE FROM runs WHERE mode = ?", mode); err != nil {
		return fmt.Errorf("storage: cannot clear runs: %w", err)
	}
	return nil
}

// ModeStats retrieves aggregated statistics per mode that has runs.
func (s *Store) ModeStats() (map[string]*ModeStats, error) {
	rows, err := s.db.Query(
		`SELECT mode, COUNT(*), SUM(frames), MAX(trees), AVG(bodies), MAX(created_at)
		 FROM runs
		 GROUP BY mode`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get mode stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]*ModeStats)
	for rows.Next() {
		var m ModeStats
		var lastRun any
		if err := rows.Scan(&m.Mode, &m.Runs, &m.TotalFrames, &m.MaxTrees, &m.AvgBodies, &lastRun); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		m.LastRun = parseTime(lastRun)
		stats[m.Mode] = &m
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return stats, nil
}

// SaveRoomResult implements multiplayer.RunSaver.
func (s *Store) SaveRoomResult(res multiplayer.RoomResult) error {
	_, err := s.SaveRun(Run{
		RunID:       string(res.Room),
		Mode:        res.Mode,
		Source:      SourceRoom,
		Seed:        res.Seed,
		Frames:      res.Frames,
		Actors:      res.PeakActors,
		Bodies:      res.Counts.Bodies,
		Trees:       res.Counts.Trees,
		Seeds:       res.Counts.Seeds,
		Projectiles: res.Counts.Projectiles,
		Hash:        res.Hash,
		EndReason:   res.Reason.String(),
		Duration:    res.Duration,
	})
	return err
}

// Ensure Store implements RunSaver
var _ multiplayer.RunSaver = (*Store)(nil)

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (Run, error) {
	var r Run
	var frames, durationMS int64
	var hash string
	var createdAt any
	err := row.Scan(
		&r.ID, &r.RunID, &r.Mode, &r.Source, &r.Seed, &r.Preset,
		&frames, &r.Actors, &r.Bodies, &r.Trees, &r.Seeds, &r.Projectiles,
		&hash, &r.EndReason, &durationMS, &createdAt,
	)
	if err != nil {
		return Run{}, err
	}
	r.Frames = uint64(frames) //#nosec G115 -- stored from a uint64 below 2^63
	r.Hash, _ = strconv.ParseUint(hash, 16, 64)
	r.Duration = time.Duration(durationMS) * time.Millisecond
	r.CreatedAt = parseTime(createdAt)
	return r, nil
}

func collectRuns(rows *sql.Rows) ([]Run, error) {
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return runs, nil
}

// parseTime handles the driver returning DATETIME as time.Time or string.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
