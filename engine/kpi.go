/*
kpi.go - Utilization and workload-balance metrics

PURPOSE:
  Pure derivation of the standard report from one run's output: utilization
  against theoretical capacity, peak single-day load, unassigned hours, and
  the Gini coefficient over per-worker totals. Degenerate inputs (no tasks,
  no workers, empty ledger) yield zero-valued metrics, never errors.

PRECISION:
  The two ratios are computed in decimal and rounded to 3 places before
  conversion to float64, so an all-equal load vector reports a Gini of
  exactly 0 and rates carry no binary-arithmetic drift.

SEE ALSO:
  - ledger.go: NumDays, MaxEntry, WorkerTotals
  - engine.go: Where the report is attached to the result
*/
package engine

import (
	"sort"

	"github.com/shopspring/decimal"
)

// KPIReport is the metric set computed after every run, identical in shape
// for both strategies.
type KPIReport struct {
	TotalWorkers       int
	TotalTasks         int
	TotalAssignedHours int
	UnassignedHours    int
	NumDays            int
	MaxPossibleHours   int
	UtilizationRate    float64
	MaxWorkerLoad      int
	GiniCoefficient    float64
}

// ComputeKPIs derives the report from a strategy's outcome plus the roster.
// It mutates nothing.
func ComputeKPIs(assignments []Assignment, unassigned []Task, ledger CapacityLedger, workers []Worker, dailyCapacity int) KPIReport {
	report := KPIReport{
		TotalWorkers: len(workers),
		TotalTasks:   len(assignments) + len(unassigned),
	}
	for _, a := range assignments {
		report.TotalAssignedHours += a.Hours
	}
	for _, t := range unassigned {
		report.UnassignedHours += t.Duration
	}

	report.NumDays = ledger.NumDays()
	if report.NumDays == 0 {
		report.NumDays = 1
	}

	report.MaxPossibleHours = report.TotalWorkers * dailyCapacity * report.NumDays
	if report.MaxPossibleHours < 1 {
		report.MaxPossibleHours = 1
	}

	report.UtilizationRate = decimal.NewFromInt(int64(report.TotalAssignedHours)).
		Div(decimal.NewFromInt(int64(report.MaxPossibleHours))).
		Round(3).
		InexactFloat64()

	report.MaxWorkerLoad = ledger.MaxEntry()
	report.GiniCoefficient = gini(workerLoads(workers, ledger))
	return report
}

// workerLoads expands the ledger's totals over the full roster so that
// zero-load workers count toward inequality.
func workerLoads(workers []Worker, ledger CapacityLedger) []int {
	totals := ledger.WorkerTotals()
	loads := make([]int, 0, len(workers))
	for _, w := range workers {
		loads = append(loads, totals[w.ID])
	}
	return loads
}

// gini computes the Gini inequality coefficient over per-worker loads:
// values sorted ascending and 1-indexed,
//
//	(2 * sum(i * v_i)) / (n * sum(v)) - (n + 1) / n
//
// Exactly 0 for n <= 1 or an all-zero vector; always within [0, 1].
func gini(loads []int) float64 {
	n := len(loads)
	if n <= 1 {
		return 0
	}

	sorted := append([]int(nil), loads...)
	sort.Ints(sorted)

	sum := 0
	weighted := 0
	for i, v := range sorted {
		sum += v
		weighted += (i + 1) * v
	}
	if sum == 0 {
		return 0
	}

	nd := decimal.NewFromInt(int64(n))
	lhs := decimal.NewFromInt(int64(2 * weighted)).
		Div(nd.Mul(decimal.NewFromInt(int64(sum))))
	rhs := nd.Add(decimal.NewFromInt(1)).Div(nd)
	return lhs.Sub(rhs).Round(3).InexactFloat64()
}
