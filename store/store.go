// Package store keeps a history of planner runs in SQLite.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/katalvlaran/mazeroute/grid"
	"github.com/katalvlaran/mazeroute/route"
)

// ErrRunNotFound is returned by Run for an unknown id.
var ErrRunNotFound = errors.New("store: run not found")

// Status is the outcome of a run.
type Status string

const (
	StatusOK                Status = "ok"
	StatusNoSurvivableRoute Status = "no_survivable_route"
	StatusNoPath            Status = "no_path"
)

// Run is one stored planner invocation.
type Run struct {
	ID        string
	Maze      string
	CreatedAt time.Time
	Status    Status
	Score     int64
	Health    int64
	Steps     int
	Evaluated int
	Order     []grid.Cell
	Path      grid.Path
}

// NewRun records the outcome of route.Plan for maze. planErr must be nil,
// route.ErrNoSurvivableRoute or route.ErrNoGeometricPath; other errors are
// not runs and return false.
func NewRun(maze string, res route.Result, planErr error) (Run, bool) {
	r := Run{Maze: maze, Evaluated: res.Evaluated}
	switch {
	case planErr == nil:
		r.Status = StatusOK
		r.Score, r.Health, r.Steps = res.Score, res.Health, res.Steps
		r.Order, r.Path = res.Order, res.Path
	case errors.Is(planErr, route.ErrNoSurvivableRoute):
		r.Status = StatusNoSurvivableRoute
	case errors.Is(planErr, route.ErrNoGeometricPath):
		r.Status = StatusNoPath
	default:
		return Run{}, false
	}

	return r, true
}

// Store wraps a SQLite database connection.
type Store struct {
	sql *sql.DB
}

// Open opens (or creates) the database at path and runs migrations.
// ":memory:" gives a private in-memory database.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// Each connection to :memory: sees its own database.
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}
	s := &Store{sql: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate db: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.sql.Close()
}

func (s *Store) migrate() error {
	version := 0
	// A fresh database has no schema_version table yet.
	_ = s.sql.QueryRow("SELECT version FROM schema_version ORDER BY version DESC LIMIT 1").Scan(&version)

	if version < 1 {
		_, err := s.sql.Exec(`
			CREATE TABLE IF NOT EXISTS schema_version (version INTEGER PRIMARY KEY);

			CREATE TABLE IF NOT EXISTS runs (
				id         TEXT PRIMARY KEY,
				maze       TEXT NOT NULL,
				created_at TEXT NOT NULL,
				status     TEXT NOT NULL,
				score      INTEGER NOT NULL DEFAULT 0,
				health     INTEGER NOT NULL DEFAULT 0,
				steps      INTEGER NOT NULL DEFAULT 0,
				evaluated  INTEGER NOT NULL DEFAULT 0,
				order_json TEXT NOT NULL DEFAULT '[]',
				path_json  TEXT NOT NULL DEFAULT '[]'
			);
			CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at);

			INSERT OR IGNORE INTO schema_version (version) VALUES (1);
		`)
		if err != nil {
			return fmt.Errorf("migration v1: %w", err)
		}
	}

	return nil
}

// SaveRun inserts r and returns its id. An empty ID gets a new UUID and a
// zero CreatedAt becomes the current time.
func (s *Store) SaveRun(ctx context.Context, r Run) (string, error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}
	order, err := json.Marshal(cellsOrEmpty(r.Order))
	if err != nil {
		return "", fmt.Errorf("encode order: %w", err)
	}
	path, err := json.Marshal(cellsOrEmpty(r.Path))
	if err != nil {
		return "", fmt.Errorf("encode path: %w", err)
	}

	_, err = s.sql.ExecContext(ctx, `
		INSERT INTO runs (id, maze, created_at, status, score, health, steps, evaluated, order_json, path_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Maze, r.CreatedAt.UTC().Format(timeLayout), string(r.Status),
		r.Score, r.Health, r.Steps, r.Evaluated, string(order), string(path),
	)
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}

	return r.ID, nil
}

// timeLayout has fixed width so created_at sorts as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

const runColumns = `id, maze, created_at, status, score, health, steps, evaluated, order_json, path_json`

// Run loads one stored run.
func (s *Store) Run(ctx context.Context, id string) (Run, error) {
	row := s.sql.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}

	return r, err
}

// Recent returns up to limit runs, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.sql.QueryContext(ctx,
		`SELECT `+runColumns+` FROM runs ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}

	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRun(sc scanner) (Run, error) {
	var (
		r                 Run
		created, status   string
		orderJSON, pathJS string
	)
	err := sc.Scan(&r.ID, &r.Maze, &created, &status, &r.Score, &r.Health, &r.Steps, &r.Evaluated, &orderJSON, &pathJS)
	if err != nil {
		return Run{}, err
	}
	r.Status = Status(status)
	if r.CreatedAt, err = time.Parse(timeLayout, created); err != nil {
		return Run{}, fmt.Errorf("run %s: created_at: %w", r.ID, err)
	}
	if err := json.Unmarshal([]byte(orderJSON), &r.Order); err != nil {
		return Run{}, fmt.Errorf("run %s: order: %w", r.ID, err)
	}
	var path []grid.Cell
	if err := json.Unmarshal([]byte(pathJS), &path); err != nil {
		return Run{}, fmt.Errorf("run %s: path: %w", r.ID, err)
	}
	r.Path = path

	return r, nil
}

func cellsOrEmpty(cells []grid.Cell) []grid.Cell {
	if cells == nil {
		return []grid.Cell{}
	}

	return cells
}
