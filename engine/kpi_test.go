package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/warp/workforce-engine/engine"
)

// Note: day/task/worker helpers are defined in engine_test.go.

func ledgerOf(entries map[engine.LedgerKey]int) engine.CapacityLedger {
	l := engine.NewLedger()
	for k, hours := range entries {
		l.Commit(k.Worker, k.Date, hours)
	}
	return l
}

// =============================================================================
// UTILIZATION AND LOAD
// =============================================================================

func TestComputeKPIs_Utilization(t *testing.T) {
	// GIVEN: 14 assigned hours, 2 workers, capacity 8, one day
	// WHEN: Computing KPIs
	// THEN: Utilization is 14/16 = 0.875 and peak load is the 8h entry

	assignments := []engine.Assignment{
		{TaskID: "t-1", WorkerID: "w-1", WorkDate: day(10), Hours: 8},
		{TaskID: "t-2", WorkerID: "w-2", WorkDate: day(10), Hours: 6},
	}
	ledger := ledgerOf(map[engine.LedgerKey]int{
		{Worker: "w-1", Date: day(10)}: 8,
		{Worker: "w-2", Date: day(10)}: 6,
	})
	workers := []engine.Worker{worker("w-1", "pos-p"), worker("w-2", "pos-p")}

	kpis := engine.ComputeKPIs(assignments, nil, ledger, workers, 8)

	assert.Equal(t, 2, kpis.TotalWorkers)
	assert.Equal(t, 2, kpis.TotalTasks)
	assert.Equal(t, 14, kpis.TotalAssignedHours)
	assert.Equal(t, 0, kpis.UnassignedHours)
	assert.Equal(t, 1, kpis.NumDays)
	assert.Equal(t, 16, kpis.MaxPossibleHours)
	assert.Equal(t, 0.875, kpis.UtilizationRate)
	assert.Equal(t, 8, kpis.MaxWorkerLoad)
}

func TestComputeKPIs_UtilizationRoundsToThreeDecimals(t *testing.T) {
	// GIVEN: 1 assigned hour against a 3h theoretical maximum
	// WHEN: Computing KPIs
	// THEN: 1/3 is reported as 0.333, not a long binary fraction

	assignments := []engine.Assignment{
		{TaskID: "t-1", WorkerID: "w-1", WorkDate: day(10), Hours: 1},
	}
	ledger := ledgerOf(map[engine.LedgerKey]int{
		{Worker: "w-1", Date: day(10)}: 1,
	})
	workers := []engine.Worker{worker("w-1", "pos-p")}

	kpis := engine.ComputeKPIs(assignments, nil, ledger, workers, 3)

	assert.Equal(t, 0.333, kpis.UtilizationRate)
}

func TestComputeKPIs_MultiDayWindow(t *testing.T) {
	// GIVEN: Assignments spread over two distinct dates
	// WHEN: Computing KPIs
	// THEN: NumDays is 2 and the theoretical maximum scales with it

	assignments := []engine.Assignment{
		{TaskID: "t-1", WorkerID: "w-1", WorkDate: day(10), Hours: 4},
		{TaskID: "t-2", WorkerID: "w-1", WorkDate: day(11), Hours: 7},
	}
	ledger := ledgerOf(map[engine.LedgerKey]int{
		{Worker: "w-1", Date: day(10)}: 4,
		{Worker: "w-1", Date: day(11)}: 7,
	})
	workers := []engine.Worker{worker("w-1", "pos-p")}

	kpis := engine.ComputeKPIs(assignments, nil, ledger, workers, 8)

	assert.Equal(t, 2, kpis.NumDays)
	assert.Equal(t, 16, kpis.MaxPossibleHours)
	assert.Equal(t, 7, kpis.MaxWorkerLoad)
	assert.Equal(t, 0.688, kpis.UtilizationRate) // 11/16
}

// =============================================================================
// GINI COEFFICIENT
// =============================================================================

func TestComputeKPIs_GiniFullyUnequal(t *testing.T) {
	// GIVEN: One worker carrying 8h, one carrying nothing
	// WHEN: Computing KPIs
	// THEN: Gini is 0.5 by the standard formula over [0, 8]

	ledger := ledgerOf(map[engine.LedgerKey]int{
		{Worker: "w-1", Date: day(10)}: 8,
	})
	workers := []engine.Worker{worker("w-1", "pos-p"), worker("w-2", "pos-p")}
	assignments := []engine.Assignment{
		{TaskID: "t-1", WorkerID: "w-1", WorkDate: day(10), Hours: 8},
	}

	kpis := engine.ComputeKPIs(assignments, nil, ledger, workers, 8)

	assert.Equal(t, 0.5, kpis.GiniCoefficient)
}

func TestComputeKPIs_GiniModeratelyUnequal(t *testing.T) {
	// GIVEN: Loads of 8 and 4
	// WHEN: Computing KPIs
	// THEN: Gini = (2*(1*4+2*8))/(2*12) - 3/2 = 0.167 after rounding

	ledger := ledgerOf(map[engine.LedgerKey]int{
		{Worker: "w-1", Date: day(10)}: 8,
		{Worker: "w-2", Date: day(10)}: 4,
	})
	workers := []engine.Worker{worker("w-1", "pos-p"), worker("w-2", "pos-p")}

	kpis := engine.ComputeKPIs(nil, nil, ledger, workers, 8)

	assert.Equal(t, 0.167, kpis.GiniCoefficient)
}

func TestComputeKPIs_GiniZeroCases(t *testing.T) {
	// GIVEN: The degenerate distributions the formula must short-circuit on
	// WHEN: Computing KPIs
	// THEN: Gini is exactly 0.0 in every one of them

	equalLedger := ledgerOf(map[engine.LedgerKey]int{
		{Worker: "w-1", Date: day(10)}: 5,
		{Worker: "w-2", Date: day(10)}: 5,
		{Worker: "w-3", Date: day(10)}: 5,
	})
	three := []engine.Worker{
		worker("w-1", "pos-p"), worker("w-2", "pos-p"), worker("w-3", "pos-p"),
	}

	cases := map[string]struct {
		ledger  engine.CapacityLedger
		workers []engine.Worker
	}{
		"all equal loads": {ledger: equalLedger, workers: three},
		"all zero loads":  {ledger: engine.NewLedger(), workers: three},
		"single worker":   {ledger: engine.NewLedger(), workers: three[:1]},
		"no workers":      {ledger: engine.NewLedger(), workers: nil},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			kpis := engine.ComputeKPIs(nil, nil, tc.ledger, tc.workers, 8)
			assert.Equal(t, 0.0, kpis.GiniCoefficient)
		})
	}
}

func TestComputeKPIs_GiniWithinBounds(t *testing.T) {
	// GIVEN: A clearly skewed distribution over several workers
	// WHEN: Computing KPIs
	// THEN: Gini stays within [0, 1]

	ledger := ledgerOf(map[engine.LedgerKey]int{
		{Worker: "w-1", Date: day(10)}: 8,
		{Worker: "w-1", Date: day(11)}: 8,
		{Worker: "w-2", Date: day(10)}: 1,
	})
	workers := []engine.Worker{
		worker("w-1", "pos-p"), worker("w-2", "pos-p"),
		worker("w-3", "pos-p"), worker("w-4", "pos-p"),
	}

	kpis := engine.ComputeKPIs(nil, nil, ledger, workers, 8)

	assert.GreaterOrEqual(t, kpis.GiniCoefficient, 0.0)
	assert.LessOrEqual(t, kpis.GiniCoefficient, 1.0)
	assert.Greater(t, kpis.GiniCoefficient, 0.5, "three idle workers and one loaded one is heavily unequal")
}

// =============================================================================
// DEGENERATE INPUTS
// =============================================================================

func TestComputeKPIs_EverythingEmpty(t *testing.T) {
	// GIVEN: No assignments, no unassigned tasks, no workers, empty ledger
	// WHEN: Computing KPIs
	// THEN: Zero values throughout, with the division guards applied

	kpis := engine.ComputeKPIs(nil, nil, engine.NewLedger(), nil, 8)

	assert.Equal(t, 0, kpis.TotalWorkers)
	assert.Equal(t, 0, kpis.TotalTasks)
	assert.Equal(t, 0, kpis.TotalAssignedHours)
	assert.Equal(t, 0, kpis.UnassignedHours)
	assert.Equal(t, 1, kpis.NumDays, "empty ledger still counts one day")
	assert.Equal(t, 1, kpis.MaxPossibleHours, "floor guards the division")
	assert.Equal(t, 0.0, kpis.UtilizationRate)
	assert.Equal(t, 0, kpis.MaxWorkerLoad)
	assert.Equal(t, 0.0, kpis.GiniCoefficient)
}

func TestComputeKPIs_UnassignedOnly(t *testing.T) {
	// GIVEN: Only unassigned tasks
	// WHEN: Computing KPIs
	// THEN: Unassigned hours sum the durations; everything else is zero

	unassigned := []engine.Task{
		task("t-1", "pos-p", 4, 10),
		task("t-2", "pos-p", 5, 10),
	}

	kpis := engine.ComputeKPIs(nil, unassigned, engine.NewLedger(), nil, 8)

	assert.Equal(t, 2, kpis.TotalTasks)
	assert.Equal(t, 9, kpis.UnassignedHours)
	assert.Equal(t, 0, kpis.TotalAssignedHours)
	assert.Equal(t, 0.0, kpis.UtilizationRate)
}
