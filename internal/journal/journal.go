// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package journal keeps a SQLite history of conversion runs and of every
// document each run attempted.
package journal

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/doc2pdf/pkg/types"
)

const (
	defaultRunLimit = 20

	// timeLayout is fixed width so stored timestamps sort lexically.
	timeLayout = "2006-01-02T15:04:05.000000000Z07:00"
)

// Journal is an open conversion history database.
type Journal struct {
	db *sql.DB
}

// RunSummary describes one recorded run.
type RunSummary struct {
	ID         string
	Dir        string
	Backend    string
	StartedAt  time.Time
	FinishedAt time.Time // zero while the run is open, or if it crashed or never started
	Converted  int
	Failed     int

	// Error is set when the run aborted before converting anything.
	Error string
}

// Entry is one recorded document conversion.
type Entry struct {
	Input      string
	Output     string
	Status     types.ConversionStatus
	Error      string
	Pages      int
	FinishedAt time.Time
}

// Open opens or creates the journal database at path, creating parent
// directories and the schema as needed.
func Open(path string) (*Journal, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating journal directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening journal %s: %w", path, err)
	}

	j := &Journal{db: db}
	if err := j.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return j, nil
}

// Close releases the database connection.
func (j *Journal) Close() error {
	return j.db.Close()
}

func (j *Journal) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			dir TEXT NOT NULL,
			backend TEXT NOT NULL,
			started_at TEXT NOT NULL,
			finished_at TEXT,
			converted INTEGER NOT NULL DEFAULT 0,
			failed INTEGER NOT NULL DEFAULT 0,
			error TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS conversions (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL REFERENCES runs(id),
			input TEXT NOT NULL,
			output TEXT,
			status TEXT NOT NULL,
			error TEXT,
			pages INTEGER,
			finished_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_conversions_run_id ON conversions(run_id)`,
	}

	for _, stmt := range statements {
		if _, err := j.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return j.addRunErrorColumn()
}

// addRunErrorColumn upgrades journals created before runs.error existed.
func (j *Journal) addRunErrorColumn() error {
	var n int
	if err := j.db.QueryRow(
		`SELECT count(*) FROM pragma_table_info('runs') WHERE name = 'error'`,
	).Scan(&n); err != nil {
		return fmt.Errorf("inspecting runs table: %w", err)
	}
	if n > 0 {
		return nil
	}
	if _, err := j.db.Exec(`ALTER TABLE runs ADD COLUMN error TEXT`); err != nil {
		return fmt.Errorf("adding runs.error: %w", err)
	}
	return nil
}

// Run is an open run. It implements convert.Recorder.
type Run struct {
	j  *Journal
	id string
}

// BeginRun records the start of a run over dir.
func (j *Journal) BeginRun(dir, backend string) (*Run, error) {
	id := uuid.NewString()
	_, err := j.db.Exec(
		`INSERT INTO runs (id, dir, backend, started_at) VALUES (?, ?, ?, ?)`,
		id, dir, backend, formatTime(time.Now()),
	)
	if err != nil {
		return nil, fmt.Errorf("recording run start: %w", err)
	}
	return &Run{j: j, id: id}, nil
}

// ID returns the run identifier.
func (r *Run) ID() string { return r.id }

// Record stores one document result.
func (r *Run) Record(res types.ConversionResult) error {
	finished := res.FinishedAt
	if finished.IsZero() {
		finished = time.Now()
	}
	_, err := r.j.db.Exec(
		`INSERT INTO conversions (run_id, input, output, status, error, pages, finished_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.id, res.Document.Path, res.Output, string(res.Status), res.ErrorMessage(), res.Pages, formatTime(finished),
	)
	if err != nil {
		return fmt.Errorf("recording %s: %w", res.Document.Name, err)
	}
	return nil
}

// Finish closes the run with its final counts. backend replaces the name
// recorded at BeginRun, which may have been "auto".
func (r *Run) Finish(backend string, converted, failed int) error {
	_, err := r.j.db.Exec(
		`UPDATE runs SET backend = ?, finished_at = ?, converted = ?, failed = ? WHERE id = ?`,
		backend, formatTime(time.Now()), converted, failed, r.id,
	)
	if err != nil {
		return fmt.Errorf("recording run finish: %w", err)
	}
	return nil
}

// Fail marks the run as aborted with cause. finished_at stays NULL so an
// aborted run is never mistaken for a completed empty one.
func (r *Run) Fail(backend string, cause error) error {
	_, err := r.j.db.Exec(
		`UPDATE runs SET backend = ?, error = ? WHERE id = ?`,
		backend, cause.Error(), r.id,
	)
	if err != nil {
		return fmt.Errorf("recording run failure: %w", err)
	}
	return nil
}

// Runs returns the most recent runs, newest first. limit <= 0 means 20.
func (j *Journal) Runs(limit int) ([]RunSummary, error) {
	if limit <= 0 {
		limit = defaultRunLimit
	}
	rows, err := j.db.Query(
		`SELECT id, dir, backend, started_at, finished_at, converted, failed, error
		 FROM runs ORDER BY started_at DESC, rowid DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []RunSummary
	for rows.Next() {
		var (
			r        RunSummary
			started  string
			finished sql.NullString
			errMsg   sql.NullString
		)
		if err := rows.Scan(&r.ID, &r.Dir, &r.Backend, &started, &finished, &r.Converted, &r.Failed, &errMsg); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		r.StartedAt = parseTime(started)
		if finished.Valid {
			r.FinishedAt = parseTime(finished.String)
		}
		r.Error = errMsg.String
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Conversions returns the documents recorded for runID in the order they
// were attempted.
func (j *Journal) Conversions(runID string) ([]Entry, error) {
	rows, err := j.db.Query(
		`SELECT input, output, status, error, pages, finished_at
		 FROM conversions WHERE run_id = ? ORDER BY rowid`, runID,
	)
	if err != nil {
		return nil, fmt.Errorf("querying conversions: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e                  Entry
			output, errMsg     sql.NullString
			pages              sql.NullInt64
			status, finishedAt string
		)
		if err := rows.Scan(&e.Input, &output, &status, &errMsg, &pages, &finishedAt); err != nil {
			return nil, fmt.Errorf("scanning conversion: %w", err)
		}
		e.Output = output.String
		e.Status = types.ConversionStatus(status)
		e.Error = errMsg.String
		e.Pages = int(pages.Int64)
		e.FinishedAt = parseTime(finishedAt)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) time.Time {
	t, _ := time.Parse(timeLayout, s)
	return t
}
