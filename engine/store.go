/*
store.go - Persistence contract consumed by the surrounding service layer

PURPOSE:
  The engine itself never touches storage: it takes tasks and a roster and
  returns a result. The layers around it do persist, and this interface
  names what they rely on: the two read queries the engine's callers use
  (tasks in a date range, the current roster), the write paths that record
  produced assignments, and the admin operations for seeding and demos.

ORDERING:
  List and range queries return stable orderings: positions and workers by
  name, tasks by date then ID, assignments by work date then task ID. Both
  implementations uphold this so callers and tests never depend on map
  iteration order.

IMPLEMENTATIONS:
  - engine/store.Memory: map-backed, for tests and ephemeral runs
  - store/sqlite.Store: durable SQLite with WAL and foreign keys

SEE ALSO:
  - engine.go: The pure computation these queries feed
*/
package engine

import "context"

// AssignmentRecord is a stored assignment joined with the display fields
// the schedule aggregation needs: the worker's name, and the position of
// the task that was worked.
type AssignmentRecord struct {
	Assignment
	WorkerName   string
	TaskPosition PositionID // position of the worked task, PositionNone when it had none
	PositionName string     // display name for TaskPosition, empty for PositionNone
}

// Store is the persistence boundary. Implementations are safe for
// concurrent use. Writes are upserts keyed by ID; SaveAssignments skips
// duplicate (worker, task) pairs and reports how many rows it actually
// inserted.
type Store interface {
	ListPositions(ctx context.Context) ([]Position, error)
	SavePositions(ctx context.Context, positions []Position) error

	ListWorkers(ctx context.Context) ([]Worker, error)
	SaveWorkers(ctx context.Context, workers []Worker) error

	ListTasks(ctx context.Context) ([]Task, error)
	SaveTasks(ctx context.Context, tasks []Task) error

	// TasksInRange returns all tasks dated within [from, to] inclusive.
	TasksInRange(ctx context.Context, from, to Date) ([]Task, error)

	// UnassignedTasksInRange returns the in-range tasks that have no
	// assignment row at all; this is the engine's task feed.
	UnassignedTasksInRange(ctx context.Context, from, to Date) ([]Task, error)

	AssignmentsInRange(ctx context.Context, from, to Date) ([]AssignmentRecord, error)
	SaveAssignments(ctx context.Context, assignments []Assignment) (int, error)

	// Reset drops all data. Seeding with truncation and demo-scenario
	// loading are the only callers.
	Reset(ctx context.Context) error

	Ping(ctx context.Context) error
	Close() error
}
