// Package store provides the in-memory Store implementation.
package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/warp/workforce-engine/engine"
)

// =============================================================================
// MEMORY STORE - Map-backed implementation (for tests and ephemeral runs)
// =============================================================================

type Memory struct {
	mu          sync.RWMutex
	positions   map[engine.PositionID]engine.Position
	workers     map[engine.WorkerID]engine.Worker
	tasks       map[engine.TaskID]engine.Task
	assignments []engine.Assignment
	pairs       map[pairKey]bool // (worker, task) uniqueness
	taskTaken   map[engine.TaskID]bool
}

type pairKey struct {
	Worker engine.WorkerID
	Task   engine.TaskID
}

var _ engine.Store = (*Memory)(nil)

func NewMemory() *Memory {
	m := &Memory{}
	m.resetLocked()
	return m
}

func (m *Memory) resetLocked() {
	m.positions = make(map[engine.PositionID]engine.Position)
	m.workers = make(map[engine.WorkerID]engine.Worker)
	m.tasks = make(map[engine.TaskID]engine.Task)
	m.assignments = nil
	m.pairs = make(map[pairKey]bool)
	m.taskTaken = make(map[engine.TaskID]bool)
}

// =============================================================================
// POSITIONS
// =============================================================================

func (m *Memory) ListPositions(_ context.Context) ([]engine.Position, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]engine.Position, 0, len(m.positions))
	for _, p := range m.positions {
		result = append(result, p)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (m *Memory) SavePositions(_ context.Context, positions []engine.Position) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, p := range positions {
		if p.ID == "" {
			return fmt.Errorf("position %q: empty id", p.Name)
		}
		// Names are unique across positions, matching the SQLite schema.
		for _, existing := range m.positions {
			if existing.Name == p.Name && existing.ID != p.ID {
				return fmt.Errorf("position name %q already used by %s: %w", p.Name, existing.ID, engine.ErrConflict)
			}
		}
		m.positions[p.ID] = p
	}
	return nil
}

// =============================================================================
// WORKERS
// =============================================================================

func (m *Memory) ListWorkers(_ context.Context) ([]engine.Worker, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]engine.Worker, 0, len(m.workers))
	for _, w := range m.workers {
		result = append(result, w)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Name != result[j].Name {
			return result[i].Name < result[j].Name
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

func (m *Memory) SaveWorkers(_ context.Context, workers []engine.Worker) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, w := range workers {
		if w.ID == "" {
			return fmt.Errorf("worker %q: empty id", w.Name)
		}
		if w.Position != engine.PositionNone {
			if _, ok := m.positions[w.Position]; !ok {
				return fmt.Errorf("worker %s: position %q: %w", w.ID, w.Position, engine.ErrMissingReference)
			}
		}
		m.workers[w.ID] = w
	}
	return nil
}

// =============================================================================
// TASKS
// =============================================================================

func (m *Memory) ListTasks(_ context.Context) ([]engine.Task, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.tasksWhere(func(engine.Task) bool { return true }), nil
}

func (m *Memory) SaveTasks(_ context.Context, tasks []engine.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, t := range tasks {
		if t.ID == "" {
			return fmt.Errorf("task %q: empty id", t.Name)
		}
		if t.Duration <= 0 {
			return fmt.Errorf("task %s: duration must be positive, got %d", t.ID, t.Duration)
		}
		if t.Position != engine.PositionNone {
			if _, ok := m.positions[t.Position]; !ok {
				return fmt.Errorf("task %s: position %q: %w", t.ID, t.Position, engine.ErrMissingReference)
			}
		}
		m.tasks[t.ID] = t
	}
	return nil
}

func (m *Memory) TasksInRange(_ context.Context, from, to engine.Date) ([]engine.Task, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.tasksWhere(func(t engine.Task) bool { return inRange(t.Date, from, to) }), nil
}

func (m *Memory) UnassignedTasksInRange(_ context.Context, from, to engine.Date) ([]engine.Task, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.tasksWhere(func(t engine.Task) bool {
		return inRange(t.Date, from, to) && !m.taskTaken[t.ID]
	}), nil
}

// tasksWhere snapshots matching tasks sorted by date then ID. Callers hold
// at least the read lock.
func (m *Memory) tasksWhere(match func(engine.Task) bool) []engine.Task {
	var result []engine.Task
	for _, t := range m.tasks {
		if match(t) {
			result = append(result, t)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].Date.Equal(result[j].Date) {
			return result[i].Date.Before(result[j].Date)
		}
		return result[i].ID < result[j].ID
	})
	return result
}

func inRange(d, from, to engine.Date) bool {
	return !d.Before(from) && !d.After(to)
}

// =============================================================================
// ASSIGNMENTS
// =============================================================================

func (m *Memory) AssignmentsInRange(_ context.Context, from, to engine.Date) ([]engine.AssignmentRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []engine.AssignmentRecord
	for _, a := range m.assignments {
		if !inRange(a.WorkDate, from, to) {
			continue
		}
		rec := engine.AssignmentRecord{Assignment: a}
		if w, ok := m.workers[a.WorkerID]; ok {
			rec.WorkerName = w.Name
		}
		if t, ok := m.tasks[a.TaskID]; ok {
			rec.TaskPosition = t.Position
			if p, ok := m.positions[t.Position]; ok {
				rec.PositionName = p.Name
			}
		}
		result = append(result, rec)
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].WorkDate.Equal(result[j].WorkDate) {
			return result[i].WorkDate.Before(result[j].WorkDate)
		}
		return result[i].TaskID < result[j].TaskID
	})
	return result, nil
}

func (m *Memory) SaveAssignments(_ context.Context, assignments []engine.Assignment) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	inserted := 0
	for _, a := range assignments {
		if _, ok := m.tasks[a.TaskID]; !ok {
			return inserted, fmt.Errorf("assignment: task %q: %w", a.TaskID, engine.ErrMissingReference)
		}
		if _, ok := m.workers[a.WorkerID]; !ok {
			return inserted, fmt.Errorf("assignment: worker %q: %w", a.WorkerID, engine.ErrMissingReference)
		}
		k := pairKey{Worker: a.WorkerID, Task: a.TaskID}
		if m.pairs[k] {
			continue // duplicate (worker, task); ignored like the SQLite upsert
		}
		m.pairs[k] = true
		m.taskTaken[a.TaskID] = true
		m.assignments = append(m.assignments, a)
		inserted++
	}
	return inserted, nil
}

// =============================================================================
// ADMIN
// =============================================================================

func (m *Memory) Reset(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resetLocked()
	return nil
}

func (m *Memory) Ping(_ context.Context) error { return nil }

func (m *Memory) Close() error { return nil }
