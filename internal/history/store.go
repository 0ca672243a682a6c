// Package history records every gptsh run in a local SQLite database.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ziadkadry99/gptsh/internal/config"
	"github.com/ziadkadry99/gptsh/internal/db"
)

// ErrNotFound is returned by Get for an unknown id.
var ErrNotFound = errors.New("run not found")

// Run is one suggestion and what happened to it.
type Run struct {
	ID           string      `json:"id"`
	CreatedAt    time.Time   `json:"created_at"`
	Tool         config.Tool `json:"tool"`
	Instruction  string      `json:"instruction"`
	Target       string      `json:"target,omitempty"` // refactored file
	Answer       string      `json:"answer"`
	Model        string      `json:"model"`
	Executed     bool        `json:"executed"`
	ExitCode     *int        `json:"exit_code,omitempty"`
	InputTokens  int         `json:"input_tokens"`
	OutputTokens int         `json:"output_tokens"`
	Attempts     int         `json:"attempts"`
}

// Filter controls which runs List returns.
type Filter struct {
	Tool  config.Tool
	Limit int
}

// Store provides access to recorded runs.
type Store struct {
	db *db.DB
}

// NewStore creates a Store backed by the given database.
func NewStore(database *db.DB) *Store {
	return &Store{db: database}
}

// Open opens the history database at path.
func Open(path string) (*Store, error) {
	database, err := db.Open(path)
	if err != nil {
		return nil, err
	}
	return NewStore(database), nil
}

// Path returns the database file the runs are kept in.
func (s *Store) Path() string {
	return s.db.Path()
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record inserts a run. An empty ID gets a UUID and a zero CreatedAt the
// current time. The stored run is returned.
func (s *Store) Record(ctx context.Context, run Run) (*Run, error) {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now()
	}
	run.CreatedAt = run.CreatedAt.UTC()

	var exitCode sql.NullInt64
	if run.ExitCode != nil {
		exitCode = sql.NullInt64{Int64: int64(*run.ExitCode), Valid: true}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (
			id, created_at, tool, instruction, target, answer, model,
			executed, exit_code, input_tokens, output_tokens, attempts
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID,
		run.CreatedAt.Format(time.RFC3339Nano),
		string(run.Tool),
		run.Instruction,
		run.Target,
		run.Answer,
		run.Model,
		run.Executed,
		exitCode,
		run.InputTokens,
		run.OutputTokens,
		run.Attempts,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting run: %w", err)
	}
	return &run, nil
}

// Get retrieves a single run.
func (s *Store) Get(ctx context.Context, id string) (*Run, error) {
	row := s.db.QueryRowContext(ctx, selectRuns+" WHERE id = ?", id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return run, err
}

// List returns runs matching the filter, newest first.
func (s *Store) List(ctx context.Context, filter Filter) ([]Run, error) {
	var (
		clauses []string
		args    []any
	)
	if filter.Tool != "" {
		clauses = append(clauses, "tool = ?")
		args = append(args, string(filter.Tool))
	}

	query := selectRuns
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY created_at DESC, rowid DESC"
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}
	return runs, rows.Err()
}

const selectRuns = `SELECT id, created_at, tool, instruction, target, answer, model,
	executed, exit_code, input_tokens, output_tokens, attempts FROM runs`

// scanner is implemented by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (*Run, error) {
	var (
		r        Run
		ts, tool string
		exitCode sql.NullInt64
	)
	err := sc.Scan(
		&r.ID, &ts, &tool, &r.Instruction, &r.Target, &r.Answer, &r.Model,
		&r.Executed, &exitCode, &r.InputTokens, &r.OutputTokens, &r.Attempts,
	)
	if err != nil {
		return nil, err
	}

	r.Tool = config.Tool(tool)
	if t, parseErr := time.Parse(time.RFC3339Nano, ts); parseErr == nil {
		r.CreatedAt = t
	}
	if exitCode.Valid {
		code := int(exitCode.Int64)
		r.ExitCode = &code
	}
	return &r, nil
}
