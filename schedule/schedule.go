/*
Package schedule aggregates assignments into the workforce schedule table.

PURPOSE:
  Turns raw assignment and task rows into the grid the schedule view renders:
  one column per calendar day, one row per position with its per-day assigned
  totals, followed by the workers who contributed those hours and, when the
  position still has unassigned work in the window, an "Unassigned Tasks"
  pseudo-worker row carrying the leftover durations.

ROW LAYOUT:
  Position 1      (type "position", assigned totals per day)
    Worker 1      (type "worker")
    Worker 2      (type "worker")
    Unassigned Tasks  (type "worker", unassigned task hours)
  Position 2
    ...

BUCKETING RULES:
  - A worker appears under the position of the TASK they worked, not their
    own position. A worker who covered tasks for two positions shows up
    under both, with the same full daily totals.
  - Assignments and tasks without a position aggregate under the synthetic
    "Unassigned" position bucket.
  - Workers with no assignments in the window do not appear at all.
  - Every row carries a value for every date column, zero-filled.

SEE ALSO:
  - engine/store.go: The queries this aggregation is built from
  - api/handlers.go: The HTTP endpoint serving the table
*/
package schedule

import (
	"context"
	"fmt"
	"sort"

	"github.com/warp/workforce-engine/engine"
)

// Row names and types used in the rendered table.
const (
	RowTypePosition = "position"
	RowTypeWorker   = "worker"

	// UnassignedPosition buckets assignments and tasks that carry no position.
	UnassignedPosition = "Unassigned"
	// UnassignedTasks is the pseudo-worker row holding a position's
	// not-yet-assigned task hours.
	UnassignedTasks = "Unassigned Tasks"
)

// Row is one line of the schedule table. DailyHours is keyed by the
// date-column labels and has an entry for every column.
type Row struct {
	Name       string         `json:"name"`
	Type       string         `json:"type"`
	DailyHours map[string]int `json:"daily_hours"`
}

// Table is the full schedule payload: rows in display order plus the
// column labels, one per day in the requested window.
type Table struct {
	Rows        []Row    `json:"data"`
	DateColumns []string `json:"date_columns"`
}

// Service builds schedule tables from a store.
type Service struct {
	store engine.Store
}

// NewService creates a schedule service backed by the given store.
func NewService(store engine.Store) *Service {
	return &Service{store: store}
}

// Schedule aggregates the window [from, to] into a display table.
// Positions are emitted in name order, workers in name order within their
// position, and the "Unassigned Tasks" row last within its position.
func (s *Service) Schedule(ctx context.Context, from, to engine.Date) (Table, error) {
	columns := make([]string, 0)
	for _, d := range engine.DatesBetween(from, to) {
		columns = append(columns, d.ColumnLabel())
	}

	records, err := s.store.AssignmentsInRange(ctx, from, to)
	if err != nil {
		return Table{}, fmt.Errorf("failed to load assignments: %w", err)
	}
	unassigned, err := s.store.UnassignedTasksInRange(ctx, from, to)
	if err != nil {
		return Table{}, fmt.Errorf("failed to load unassigned tasks: %w", err)
	}
	positions, err := s.store.ListPositions(ctx)
	if err != nil {
		return Table{}, fmt.Errorf("failed to load positions: %w", err)
	}
	positionNames := make(map[engine.PositionID]string, len(positions))
	for _, p := range positions {
		positionNames[p.ID] = p.Name
	}

	// position name -> column -> assigned hours
	positionHours := map[string]map[string]int{}
	// worker name -> column -> hours, across every position they worked
	workerHours := map[string]map[string]int{}
	// position name -> set of worker names that worked its tasks
	workersByPosition := map[string]map[string]bool{}
	// position name -> column -> hours still unassigned
	unassignedHours := map[string]map[string]int{}

	for _, r := range records {
		position := r.PositionName
		if r.TaskPosition == engine.PositionNone {
			position = UnassignedPosition
		}
		column := r.WorkDate.ColumnLabel()

		bump(positionHours, position, column, r.Hours)
		bump(workerHours, r.WorkerName, column, r.Hours)
		if workersByPosition[position] == nil {
			workersByPosition[position] = map[string]bool{}
		}
		workersByPosition[position][r.WorkerName] = true
	}

	for _, t := range unassigned {
		position := positionNames[t.Position]
		if t.Position == engine.PositionNone {
			position = UnassignedPosition
		}
		bump(unassignedHours, position, t.Date.ColumnLabel(), t.Duration)
	}

	names := make([]string, 0, len(positionHours)+len(unassignedHours))
	seen := map[string]bool{}
	for position := range positionHours {
		if !seen[position] {
			seen[position] = true
			names = append(names, position)
		}
	}
	for position := range unassignedHours {
		if !seen[position] {
			seen[position] = true
			names = append(names, position)
		}
	}
	sort.Strings(names)

	rows := make([]Row, 0, len(names))
	for _, position := range names {
		rows = append(rows, Row{
			Name:       position,
			Type:       RowTypePosition,
			DailyHours: fill(positionHours[position], columns),
		})

		workers := make([]string, 0, len(workersByPosition[position]))
		for worker := range workersByPosition[position] {
			workers = append(workers, worker)
		}
		sort.Strings(workers)
		for _, worker := range workers {
			rows = append(rows, Row{
				Name:       worker,
				Type:       RowTypeWorker,
				DailyHours: fill(workerHours[worker], columns),
			})
		}

		if unassignedHours[position] != nil {
			rows = append(rows, Row{
				Name:       UnassignedTasks,
				Type:       RowTypeWorker,
				DailyHours: fill(unassignedHours[position], columns),
			})
		}
	}

	return Table{Rows: rows, DateColumns: columns}, nil
}

func bump(m map[string]map[string]int, name, column string, hours int) {
	if m[name] == nil {
		m[name] = map[string]int{}
	}
	m[name][column] += hours
}

// fill zero-fills a daily-hours map so every column has a value. A nil
// source yields an all-zero row.
func fill(hours map[string]int, columns []string) map[string]int {
	out := make(map[string]int, len(columns))
	for _, column := range columns {
		out[column] = hours[column]
	}
	return out
}
