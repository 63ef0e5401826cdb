/*
Package seed loads demo data from JSON files into a store.

PURPOSE:
  Converts JSON roster and task definitions into engine structs and writes
  them through the store. This enables demo and test fixtures without code
  changes - anyone can edit the JSON files and reload.

FILES:
  A seed directory holds four files, all required:
    positions.json    [{"id": "pos-1", "name": "Welder"}]
    workers.json      [{"id": "w-1", "name": "Mira", "position_id": "pos-1"}]
    tasks.json        [{"id": "t-1", "position_id": "pos-1", "duration": 4,
                        "date": "2026-03-02"}]
    assignments.json  [{"task_id": "t-1", "worker_id": "w-1"}]

DERIVED FIELDS:
  Assignment rows carry only the (task, worker) pairing. Their work date and
  hours are copied from the referenced task, so the seed files cannot drift
  out of sync with the tasks they point at.

VALIDATION:
  Data.Validate checks the whole bundle before anything touches the store:
  non-empty IDs, positive durations, parseable dates, and resolvable
  position/worker/task references. Apply refuses invalid bundles, so a bad
  seed directory never leaves a half-loaded database behind.

USAGE:
  data, err := seed.Load("./seed_data")
  if err != nil {
      log.Fatal(err)
  }
  counts, err := seed.Apply(ctx, store, data, true)

SEE ALSO:
  - engine/store.go: The interface Apply writes through
  - cmd/server/main.go: The -seed-dir / -truncate wiring
*/
package seed

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/warp/workforce-engine/engine"
)

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// PositionJSON is one entry of positions.json.
type PositionJSON struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// WorkerJSON is one entry of workers.json.
type WorkerJSON struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	PositionID string `json:"position_id,omitempty"`
}

// TaskJSON is one entry of tasks.json. Date is ISO (2006-01-02).
type TaskJSON struct {
	ID         string `json:"id"`
	Name       string `json:"name,omitempty"`
	PositionID string `json:"position_id,omitempty"`
	Duration   int    `json:"duration"`
	Date       string `json:"date"`
}

// AssignmentJSON is one entry of assignments.json. Work date and hours are
// derived from the referenced task, not stated here.
type AssignmentJSON struct {
	TaskID   string `json:"task_id"`
	WorkerID string `json:"worker_id"`
}

// Data is a full seed bundle as read from disk.
type Data struct {
	Positions   []PositionJSON
	Workers     []WorkerJSON
	Tasks       []TaskJSON
	Assignments []AssignmentJSON
}

// =============================================================================
// LOADING
// =============================================================================

// Load reads the four seed files from dir. Every file is required.
func Load(dir string) (*Data, error) {
	var data Data
	if err := loadJSON(filepath.Join(dir, "positions.json"), &data.Positions); err != nil {
		return nil, err
	}
	if err := loadJSON(filepath.Join(dir, "workers.json"), &data.Workers); err != nil {
		return nil, err
	}
	if err := loadJSON(filepath.Join(dir, "tasks.json"), &data.Tasks); err != nil {
		return nil, err
	}
	if err := loadJSON(filepath.Join(dir, "assignments.json"), &data.Assignments); err != nil {
		return nil, err
	}
	return &data, nil
}

func loadJSON(path string, out any) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read seed file: %w", err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// Validate checks internal consistency of the bundle: IDs present, durations
// positive, dates parseable, and every reference resolvable within the bundle.
func (d *Data) Validate() error {
	positions := make(map[string]bool, len(d.Positions))
	for i, p := range d.Positions {
		if p.ID == "" {
			return fmt.Errorf("positions[%d] has no id", i)
		}
		if p.Name == "" {
			return fmt.Errorf("position %s has no name", p.ID)
		}
		positions[p.ID] = true
	}

	workers := make(map[string]bool, len(d.Workers))
	for i, w := range d.Workers {
		if w.ID == "" {
			return fmt.Errorf("workers[%d] has no id", i)
		}
		if w.PositionID != "" && !positions[w.PositionID] {
			return fmt.Errorf("worker %s references unknown position %s", w.ID, w.PositionID)
		}
		workers[w.ID] = true
	}

	tasks := make(map[string]bool, len(d.Tasks))
	for i, t := range d.Tasks {
		if t.ID == "" {
			return fmt.Errorf("tasks[%d] has no id", i)
		}
		if t.Duration <= 0 {
			return fmt.Errorf("task %s has non-positive duration %d", t.ID, t.Duration)
		}
		if _, err := engine.ParseDate(t.Date); err != nil {
			return fmt.Errorf("task %s: %w", t.ID, err)
		}
		if t.PositionID != "" && !positions[t.PositionID] {
			return fmt.Errorf("task %s references unknown position %s", t.ID, t.PositionID)
		}
		tasks[t.ID] = true
	}

	for i, a := range d.Assignments {
		if !tasks[a.TaskID] {
			return fmt.Errorf("assignments[%d] references unknown task %s", i, a.TaskID)
		}
		if !workers[a.WorkerID] {
			return fmt.Errorf("assignments[%d] references unknown worker %s", i, a.WorkerID)
		}
	}

	return nil
}

// =============================================================================
// APPLY
// =============================================================================

// Counts reports how many rows Apply wrote per table. Assignments counts
// inserted rows only; duplicate (worker, task) pairs are skipped silently.
type Counts struct {
	Positions   int
	Workers     int
	Tasks       int
	Assignments int
}

// Apply validates the bundle and writes it through the store in dependency
// order: positions, workers, tasks, then assignments. With truncate set, the
// store is wiped first.
func Apply(ctx context.Context, store engine.Store, data *Data, truncate bool) (Counts, error) {
	if err := data.Validate(); err != nil {
		return Counts{}, fmt.Errorf("invalid seed data: %w", err)
	}

	if truncate {
		if err := store.Reset(ctx); err != nil {
			return Counts{}, fmt.Errorf("failed to truncate store: %w", err)
		}
	}

	if err := store.SavePositions(ctx, convertPositions(data.Positions)); err != nil {
		return Counts{}, err
	}
	if err := store.SaveWorkers(ctx, convertWorkers(data.Workers)); err != nil {
		return Counts{}, err
	}

	tasks, err := convertTasks(data.Tasks)
	if err != nil {
		return Counts{}, err
	}
	if err := store.SaveTasks(ctx, tasks); err != nil {
		return Counts{}, err
	}

	byID := make(map[engine.TaskID]engine.Task, len(tasks))
	for _, t := range tasks {
		byID[t.ID] = t
	}
	assignments := make([]engine.Assignment, 0, len(data.Assignments))
	for _, a := range data.Assignments {
		task := byID[engine.TaskID(a.TaskID)]
		assignments = append(assignments, engine.Assignment{
			TaskID:   task.ID,
			WorkerID: engine.WorkerID(a.WorkerID),
			WorkDate: task.Date,
			Hours:    task.Duration,
		})
	}
	inserted, err := store.SaveAssignments(ctx, assignments)
	if err != nil {
		return Counts{}, err
	}

	return Counts{
		Positions:   len(data.Positions),
		Workers:     len(data.Workers),
		Tasks:       len(tasks),
		Assignments: inserted,
	}, nil
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func convertPositions(in []PositionJSON) []engine.Position {
	out := make([]engine.Position, 0, len(in))
	for _, p := range in {
		out = append(out, engine.Position{ID: engine.PositionID(p.ID), Name: p.Name})
	}
	return out
}

func convertWorkers(in []WorkerJSON) []engine.Worker {
	out := make([]engine.Worker, 0, len(in))
	for _, w := range in {
		out = append(out, engine.Worker{
			ID:       engine.WorkerID(w.ID),
			Name:     w.Name,
			Position: engine.PositionID(w.PositionID),
		})
	}
	return out
}

func convertTasks(in []TaskJSON) ([]engine.Task, error) {
	out := make([]engine.Task, 0, len(in))
	for _, t := range in {
		date, err := engine.ParseDate(t.Date)
		if err != nil {
			return nil, fmt.Errorf("task %s: %w", t.ID, err)
		}
		name := t.Name
		if name == "" {
			name = t.ID
		}
		out = append(out, engine.Task{
			ID:       engine.TaskID(t.ID),
			Name:     name,
			Position: engine.PositionID(t.PositionID),
			Duration: t.Duration,
			Date:     date,
		})
	}
	return out, nil
}
