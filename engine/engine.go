/*
engine.go - Strategy dispatch and result packaging

PURPOSE:
  The orchestrator. Selects a strategy, runs it over the supplied tasks and
  roster, computes KPIs from the outcome, and returns one uniform result
  regardless of which strategy ran.

CONCURRENCY:
  One call is one synchronous batch computation with no shared mutable
  state: every run builds its own ledger and result. Concurrent calls are
  safe as long as each receives its own input slices.

SEE ALSO:
  - greedy.go / exact.go: The two strategies
  - kpi.go: The report computed after every run
*/
package engine

import (
	"fmt"

	"github.com/warp/workforce-engine/solver"
)

// =============================================================================
// STRATEGY - Closed set of assignment algorithms
// =============================================================================

type Strategy int

const (
	// StrategyExact is the binary-program optimizer, wire name "lp". The
	// zero value, so it is also the default.
	StrategyExact Strategy = iota

	// StrategyGreedy is the least-loaded-first heuristic, wire name "greedy".
	StrategyGreedy
)

const (
	strategyNameExact  = "lp"
	strategyNameGreedy = "greedy"
)

func (s Strategy) String() string {
	if s == StrategyGreedy {
		return strategyNameGreedy
	}
	return strategyNameExact
}

// ParseStrategy maps a caller-supplied name to a Strategy. The empty string
// selects the default ("lp"). Unknown names fail with ErrInvalidStrategy
// before any assignment logic runs.
func ParseStrategy(name string) (Strategy, error) {
	switch name {
	case "", strategyNameExact:
		return StrategyExact, nil
	case strategyNameGreedy:
		return StrategyGreedy, nil
	default:
		return 0, &StrategyError{Name: name}
	}
}

// =============================================================================
// ASSIGNER - The contract both strategies implement
// =============================================================================

// Outcome is the raw triple a strategy produces before KPI computation.
type Outcome struct {
	Assignments []Assignment
	Unassigned  []Task
	Ledger      CapacityLedger
}

// Assigner places tasks onto workers under a daily capacity. After any run,
// for either implementation: every input task is exactly one of assigned or
// unassigned, worker and task positions match (sentinel to sentinel), no
// (worker, date) exceeds the capacity, and hours equal task duration.
type Assigner interface {
	Assign(tasks []Task, workers []Worker, dailyCapacity int) (Outcome, error)
}

var (
	_ Assigner = Greedy{}
	_ Assigner = Exact{}
)

// =============================================================================
// ENGINE - Orchestration
// =============================================================================

// Engine runs assignment computations. Safe for concurrent use; it holds
// only the injected solver.
type Engine struct {
	solver solver.Solver
}

func New(s solver.Solver) *Engine {
	return &Engine{solver: s}
}

// Input is one assignment request. The engine treats Tasks and Workers as
// read-only and never retains them.
type Input struct {
	Tasks   []Task
	Workers []Worker

	// Strategy defaults to StrategyExact (the zero value).
	Strategy Strategy

	// DailyCapacity is the per-worker daily hour ceiling. Zero means
	// DefaultDailyCapacity; a negative value degrades to an all-unassigned
	// result rather than failing.
	DailyCapacity int
}

// Summary is the count view of one run.
type Summary struct {
	AssignedCount     int
	UnassignedCount   int
	UnassignedTaskIDs []TaskID

	// DistinctPositions counts distinct position keys across the roster,
	// the no-position sentinel included when any worker carries it.
	DistinctPositions int
}

// Result packages everything a caller needs from one run.
type Result struct {
	Assignments []Assignment
	Unassigned  []Task
	Ledger      CapacityLedger
	KPIs        KPIReport
	Summary     Summary
}

// Assign runs one synchronous assignment computation: dispatch to the
// strategy, derive KPIs, summarize. Strategy and solver failures are the
// only error paths; empty inputs produce empty results.
func (e *Engine) Assign(in Input) (*Result, error) {
	capacity := in.DailyCapacity
	if capacity == 0 {
		capacity = DefaultDailyCapacity
	}

	assigner, err := e.assigner(in.Strategy)
	if err != nil {
		return nil, err
	}

	outcome, err := assigner.Assign(in.Tasks, in.Workers, capacity)
	if err != nil {
		return nil, err
	}

	return &Result{
		Assignments: outcome.Assignments,
		Unassigned:  outcome.Unassigned,
		Ledger:      outcome.Ledger,
		KPIs:        ComputeKPIs(outcome.Assignments, outcome.Unassigned, outcome.Ledger, in.Workers, capacity),
		Summary:     summarize(outcome, in.Workers),
	}, nil
}

func (e *Engine) assigner(s Strategy) (Assigner, error) {
	switch s {
	case StrategyExact:
		return Exact{Solver: e.solver}, nil
	case StrategyGreedy:
		return Greedy{}, nil
	default:
		return nil, &StrategyError{Name: fmt.Sprintf("strategy(%d)", int(s))}
	}
}

func summarize(outcome Outcome, workers []Worker) Summary {
	ids := make([]TaskID, 0, len(outcome.Unassigned))
	for _, t := range outcome.Unassigned {
		ids = append(ids, t.ID)
	}

	positions := make(map[PositionID]struct{})
	for _, w := range workers {
		positions[w.Position] = struct{}{}
	}

	return Summary{
		AssignedCount:     len(outcome.Assignments),
		UnassignedCount:   len(outcome.Unassigned),
		UnassignedTaskIDs: ids,
		DistinctPositions: len(positions),
	}
}
