/*
ledger.go - Per-worker-per-day committed-hours tracking

PURPOSE:
  The capacity ledger is the one piece of mutable state an assignment run
  owns. Both strategies write it while placing tasks, the KPI calculator
  reads it afterwards, and it is discarded with the result. It is never
  persisted and never shared between runs.

INVARIANT:
  For every entry, 0 <= hours <= dailyCapacity. Strategies uphold this by
  checking Load before Commit (greedy) or by construction of the capacity
  constraints (exact).

SEE ALSO:
  - greedy.go: Incremental commits during placement
  - exact.go: Ledger reconstruction from the solved program
  - kpi.go: NumDays, MaxEntry, and WorkerTotals feed the report
*/
package engine

// LedgerKey addresses one worker's committed hours on one day.
type LedgerKey struct {
	Worker WorkerID
	Date   Date
}

// CapacityLedger maps (worker, date) to hours already committed that day.
type CapacityLedger map[LedgerKey]int

func NewLedger() CapacityLedger {
	return make(CapacityLedger)
}

// Load returns the hours already committed for a worker on a date, 0 when
// nothing has been committed yet.
func (l CapacityLedger) Load(worker WorkerID, date Date) int {
	return l[LedgerKey{Worker: worker, Date: date}]
}

// Commit adds hours for a worker on a date.
func (l CapacityLedger) Commit(worker WorkerID, date Date, hours int) {
	l[LedgerKey{Worker: worker, Date: date}] += hours
}

// NumDays counts the distinct dates present in the ledger.
func (l CapacityLedger) NumDays() int {
	seen := make(map[Date]struct{}, len(l))
	for k := range l {
		seen[k.Date] = struct{}{}
	}
	return len(seen)
}

// MaxEntry returns the largest single (worker, date) entry, 0 when empty.
func (l CapacityLedger) MaxEntry() int {
	max := 0
	for _, hours := range l {
		if hours > max {
			max = hours
		}
	}
	return max
}

// WorkerTotals sums each worker's committed hours across all dates. Workers
// absent from the ledger are absent from the map; callers that need
// zero-load workers included (the Gini computation does) merge against the
// roster.
func (l CapacityLedger) WorkerTotals() map[WorkerID]int {
	totals := make(map[WorkerID]int, len(l))
	for k, hours := range l {
		totals[k.Worker] += hours
	}
	return totals
}
