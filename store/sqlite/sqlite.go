/*
Package sqlite provides a SQLite-backed implementation of the storage interface.

PURPOSE:
  Implements engine.Store using SQLite. In production, the same patterns
  apply to PostgreSQL - only minor SQL dialect differences.

KEY TABLES:
  positions:   Skill/role catalog (unique names)
  workers:     Roster, each optionally linked to a position
  tasks:       Dated work items with an hour duration and optional position
  assignments: One row per (worker, task) pairing produced by the engine

INDEXES:
  - idx_assignments_work_date:   Schedule and KPI range queries
  - idx_assignments_worker_date: Per-worker daily load lookups
  - idx_assignments_task:        Unassigned-task anti-joins
  - idx_tasks_date:              Task range queries (the engine's feed)

DATE STORAGE:
  Calendar days are stored as TEXT in ISO form (2006-01-02), so lexicographic
  BETWEEN matches chronological order and no timezone can leak in.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. In production with PostgreSQL,
  database-level concurrency control handles this instead.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better concurrency:
  - Multiple readers don't block
  - Single writer at a time
  - Better crash recovery

USAGE:
  store, err := sqlite.New("./data/workforce.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

MIGRATION:
  Schema is auto-migrated on New(). For production, use a proper
  migration tool (golang-migrate, goose) with versioned migrations.

SEE ALSO:
  - engine/store.go: Interface definition and ordering contract
  - engine/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/warp/workforce-engine/engine"
)

// Store implements engine.Store using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

var _ engine.Store = (*Store)(nil)

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping verifies the database connection is alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Positions (skill catalog)
	CREATE TABLE IF NOT EXISTS positions (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL UNIQUE
	);

	-- Workers (roster)
	CREATE TABLE IF NOT EXISTS workers (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		position_id TEXT REFERENCES positions(id) ON DELETE SET NULL
	);

	CREATE INDEX IF NOT EXISTS idx_workers_position
		ON workers(position_id);

	-- Tasks (dated work items)
	CREATE TABLE IF NOT EXISTS tasks (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		position_id TEXT REFERENCES positions(id) ON DELETE SET NULL,
		duration INTEGER NOT NULL CHECK (duration > 0),
		date TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_tasks_date
		ON tasks(date);
	CREATE INDEX IF NOT EXISTS idx_tasks_position
		ON tasks(position_id);

	-- Assignments (engine output, one row per worker-task pairing)
	-- CRITICAL: a worker can be paired with a given task at most once.
	-- Deleting a task removes its assignments; deleting a worker leaves
	-- the row behind with a NULL worker_id.
	CREATE TABLE IF NOT EXISTS assignments (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		task_id TEXT NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
		worker_id TEXT REFERENCES workers(id) ON DELETE SET NULL,
		work_date TEXT NOT NULL,
		hours INTEGER NOT NULL,
		created_at TEXT NOT NULL,
		UNIQUE(worker_id, task_id)
	);

	CREATE INDEX IF NOT EXISTS idx_assignments_work_date
		ON assignments(work_date);
	CREATE INDEX IF NOT EXISTS idx_assignments_worker_date
		ON assignments(worker_id, work_date);
	CREATE INDEX IF NOT EXISTS idx_assignments_task
		ON assignments(task_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// POSITIONS
// =============================================================================

// ListPositions returns all positions ordered by name.
func (s *Store) ListPositions(ctx context.Context) ([]engine.Position, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name FROM positions ORDER BY name ASC, id ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to query positions: %w", err)
	}
	defer rows.Close()

	var positions []engine.Position
	for rows.Next() {
		var p engine.Position
		if err := rows.Scan(&p.ID, &p.Name); err != nil {
			return nil, fmt.Errorf("failed to scan position: %w", err)
		}
		positions = append(positions, p)
	}

	return positions, rows.Err()
}

// SavePositions inserts or updates positions by ID.
func (s *Store) SavePositions(ctx context.Context, positions []engine.Position) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO positions (id, name) VALUES (?, ?)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name
	`
	for _, p := range positions {
		if p.ID == "" {
			return fmt.Errorf("position %q has no id", p.Name)
		}
		if _, err := tx.ExecContext(ctx, query, p.ID, p.Name); err != nil {
			if isUniqueConstraintError(err) {
				return fmt.Errorf("position name %q already in use: %w", p.Name, engine.ErrConflict)
			}
			return fmt.Errorf("failed to save position %s: %w", p.ID, err)
		}
	}

	return tx.Commit()
}

// =============================================================================
// WORKERS
// =============================================================================

// ListWorkers returns all workers ordered by name.
func (s *Store) ListWorkers(ctx context.Context) ([]engine.Worker, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, position_id FROM workers ORDER BY name ASC, id ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to query workers: %w", err)
	}
	defer rows.Close()

	var workers []engine.Worker
	for rows.Next() {
		var (
			w        engine.Worker
			position sql.NullString
		)
		if err := rows.Scan(&w.ID, &w.Name, &position); err != nil {
			return nil, fmt.Errorf("failed to scan worker: %w", err)
		}
		w.Position = engine.PositionID(position.String)
		workers = append(workers, w)
	}

	return workers, rows.Err()
}

// SaveWorkers inserts or updates workers by ID.
func (s *Store) SaveWorkers(ctx context.Context, workers []engine.Worker) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO workers (id, name, position_id) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name, position_id = excluded.position_id
	`
	for _, w := range workers {
		if w.ID == "" {
			return fmt.Errorf("worker %q has no id", w.Name)
		}
		if _, err := tx.ExecContext(ctx, query, w.ID, w.Name, nullString(string(w.Position))); err != nil {
			if isForeignKeyError(err) {
				return fmt.Errorf("worker %s references unknown position %s: %w",
					w.ID, w.Position, engine.ErrMissingReference)
			}
			return fmt.Errorf("failed to save worker %s: %w", w.ID, err)
		}
	}

	return tx.Commit()
}

// =============================================================================
// TASKS
// =============================================================================

// ListTasks returns all tasks ordered by date, then ID.
func (s *Store) ListTasks(ctx context.Context) ([]engine.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT id, name, position_id, duration, date
		FROM tasks
		ORDER BY date ASC, id ASC
	`
	return s.queryTasks(ctx, query)
}

// TasksInRange returns tasks dated within [from, to], ordered by date then ID.
func (s *Store) TasksInRange(ctx context.Context, from, to engine.Date) ([]engine.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT id, name, position_id, duration, date
		FROM tasks
		WHERE date BETWEEN ? AND ?
		ORDER BY date ASC, id ASC
	`
	return s.queryTasks(ctx, query, from.String(), to.String())
}

// UnassignedTasksInRange returns tasks in [from, to] that have no assignment
// row at all. This is the engine's task feed.
func (s *Store) UnassignedTasksInRange(ctx context.Context, from, to engine.Date) ([]engine.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT t.id, t.name, t.position_id, t.duration, t.date
		FROM tasks t
		LEFT JOIN assignments a ON a.task_id = t.id
		WHERE a.id IS NULL AND t.date BETWEEN ? AND ?
		ORDER BY t.date ASC, t.id ASC
	`
	return s.queryTasks(ctx, query, from.String(), to.String())
}

// SaveTasks inserts or updates tasks by ID.
func (s *Store) SaveTasks(ctx context.Context, tasks []engine.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO tasks (id, name, position_id, duration, date) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			position_id = excluded.position_id,
			duration = excluded.duration,
			date = excluded.date
	`
	for _, t := range tasks {
		if t.ID == "" {
			return fmt.Errorf("task %q has no id", t.Name)
		}
		if t.Duration <= 0 {
			return fmt.Errorf("task %s has non-positive duration %d", t.ID, t.Duration)
		}
		_, err := tx.ExecContext(ctx, query,
			t.ID, t.Name, nullString(string(t.Position)), t.Duration, t.Date.String())
		if err != nil {
			if isForeignKeyError(err) {
				return fmt.Errorf("task %s references unknown position %s: %w",
					t.ID, t.Position, engine.ErrMissingReference)
			}
			return fmt.Errorf("failed to save task %s: %w", t.ID, err)
		}
	}

	return tx.Commit()
}

func (s *Store) queryTasks(ctx context.Context, query string, args ...any) ([]engine.Task, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}
	defer rows.Close()

	var tasks []engine.Task
	for rows.Next() {
		var (
			t        engine.Task
			position sql.NullString
			date     string
		)
		if err := rows.Scan(&t.ID, &t.Name, &position, &t.Duration, &date); err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		t.Position = engine.PositionID(position.String)
		t.Date, err = engine.ParseDate(date)
		if err != nil {
			return nil, fmt.Errorf("task %s has malformed date: %w", t.ID, err)
		}
		tasks = append(tasks, t)
	}

	return tasks, rows.Err()
}

// =============================================================================
// ASSIGNMENTS
// =============================================================================

// AssignmentsInRange returns assignment records with work dates in [from, to],
// joined with their display fields, ordered by work date then task ID.
func (s *Store) AssignmentsInRange(ctx context.Context, from, to engine.Date) ([]engine.AssignmentRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT a.task_id, COALESCE(a.worker_id, ''), a.work_date, a.hours,
		       COALESCE(w.name, ''), t.position_id, COALESCE(p.name, '')
		FROM assignments a
		JOIN tasks t ON t.id = a.task_id
		LEFT JOIN workers w ON w.id = a.worker_id
		LEFT JOIN positions p ON p.id = t.position_id
		WHERE a.work_date BETWEEN ? AND ?
		ORDER BY a.work_date ASC, a.task_id ASC
	`
	rows, err := s.db.QueryContext(ctx, query, from.String(), to.String())
	if err != nil {
		return nil, fmt.Errorf("failed to query assignments: %w", err)
	}
	defer rows.Close()

	var records []engine.AssignmentRecord
	for rows.Next() {
		var (
			r        engine.AssignmentRecord
			workDate string
			position sql.NullString
		)
		err := rows.Scan(&r.TaskID, &r.WorkerID, &workDate, &r.Hours,
			&r.WorkerName, &position, &r.PositionName)
		if err != nil {
			return nil, fmt.Errorf("failed to scan assignment: %w", err)
		}
		r.TaskPosition = engine.PositionID(position.String)
		r.WorkDate, err = engine.ParseDate(workDate)
		if err != nil {
			return nil, fmt.Errorf("assignment for task %s has malformed work date: %w", r.TaskID, err)
		}
		records = append(records, r)
	}

	return records, rows.Err()
}

// SaveAssignments persists assignments, skipping any (worker, task) pair that
// already exists. Returns the number of rows actually inserted.
func (s *Store) SaveAssignments(ctx context.Context, assignments []engine.Assignment) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO assignments (task_id, worker_id, work_date, hours, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(worker_id, task_id) DO NOTHING
	`
	inserted := 0
	now := time.Now().UTC().Format(time.RFC3339)
	for _, a := range assignments {
		res, err := tx.ExecContext(ctx, query,
			a.TaskID, a.WorkerID, a.WorkDate.String(), a.Hours, now)
		if err != nil {
			if isForeignKeyError(err) {
				return 0, fmt.Errorf("assignment %s/%s references unknown task or worker: %w",
					a.WorkerID, a.TaskID, engine.ErrMissingReference)
			}
			return 0, fmt.Errorf("failed to save assignment %s/%s: %w", a.WorkerID, a.TaskID, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("failed to count inserted assignments: %w", err)
		}
		inserted += int(n)
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return inserted, nil
}

// =============================================================================
// UTILITIES
// =============================================================================

// Reset clears all data (for testing/demo).
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Child tables first so foreign keys never block the wipe.
	tables := []string{"assignments", "tasks", "workers", "positions"}
	for _, table := range tables {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}
	return nil
}

// Helper functions

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func isUniqueConstraintError(err error) bool {
	return err != nil && (strings.Contains(err.Error(), "UNIQUE constraint failed") ||
		strings.Contains(err.Error(), "duplicate key"))
}

func isForeignKeyError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}
