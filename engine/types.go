/*
Package engine implements the workforce task assignment engine.

PURPOSE:
  This package contains the domain model and the two assignment algorithms
  that place dated, duration-bound tasks onto a worker roster under a
  per-worker daily capacity limit. Strategies are interchangeable: an exact
  binary-program optimizer and a greedy heuristic produce the same result
  shape, and the KPI calculator works from either one's output.

KEY CONCEPTS IN THIS FILE (types.go):
  - Position: a named skill category used purely as a matching key
  - Worker: an assignable resource with an optional position
  - Task: a unit of work with a duration, a date, and an optional position
  - Assignment: a committed task/worker pairing (the engine's output)

DESIGN PRINCIPLES:
  1. Inputs are immutable: the engine never mutates tasks or workers
  2. Assignments are atomic: a task is never split across workers or days
  3. Position matching is structural: "no position" is a sentinel that only
     matches "no position" on the other side
  4. Each run is self-contained: fresh ledger in, fresh result out, nothing
     shared between invocations

USAGE:
  eng := engine.New(&solver.BranchBound{})
  result, err := eng.Assign(engine.Input{
      Tasks:    tasks,
      Workers:  workers,
      Strategy: engine.StrategyGreedy,
  })

SEE ALSO:
  - greedy.go: Least-loaded-first heuristic
  - exact.go: Binary-program formulation and decoding
  - kpi.go: Utilization and workload-balance metrics
  - engine.go: Strategy dispatch and result packaging
*/
package engine

// =============================================================================
// IDENTIFIERS
// =============================================================================

type PositionID string
type WorkerID string
type TaskID string

// PositionNone is the sentinel matching key for workers and tasks without a
// position. A task that requires no position can only go to a worker who
// also holds none; the sentinel never matches a real position.
const PositionNone PositionID = ""

// DefaultDailyCapacity is the per-worker daily hour ceiling applied when a
// caller leaves the capacity unset.
const DefaultDailyCapacity = 8

// =============================================================================
// DOMAIN MODEL
// =============================================================================

// Position is a named skill category. It only matches tasks to eligible
// workers; it carries no behavior of its own.
type Position struct {
	ID   PositionID
	Name string
}

// Worker is an assignable resource. Position may be PositionNone. Workers
// are supplied fresh per run from the roster and never mutated.
type Worker struct {
	ID       WorkerID
	Name     string
	Position PositionID
}

// Task is a unit of work: a positive whole-hour duration on a single
// calendar date, optionally requiring a position. Name is display only and
// may be empty. Immutable engine input.
type Task struct {
	ID       TaskID
	Name     string
	Position PositionID
	Duration int
	Date     Date
}

// Assignment pairs one task with one worker for the task's full duration.
// WorkDate always equals the task's date and Hours always equals the task's
// duration; partial fulfillment does not exist.
type Assignment struct {
	TaskID   TaskID
	WorkerID WorkerID
	WorkDate Date
	Hours    int
}
