/*
greedy.go - Least-loaded-first heuristic assignment

PURPOSE:
  The fast strategy. Groups tasks by (date, position), matches each group
  against the workers holding that position, and places tasks shortest-first
  onto whichever eligible worker currently carries the lightest load for
  that day. Local choices only: no backtracking, no global objective.

POLICY NOTES:
  Shortest-first maximizes the COUNT of tasks that fit before capacity
  runs out, not total assigned hours. Ties on equal load keep the first
  worker encountered in roster order; the roster's iteration order is the
  only tie-break, a documented non-guarantee rather than a specified sort.

SEE ALSO:
  - exact.go: The globally optimal strategy with the same contract
  - ledger.go: Where per-day loads are tracked
*/
package engine

import "sort"

// Greedy is the heuristic Assigner. Stateless; the zero value is ready.
type Greedy struct{}

// groupKey indexes tasks by the day they occur and the position they
// require. PositionNone groups only match workers holding no position.
type groupKey struct {
	Date     Date
	Position PositionID
}

// Assign places tasks group by group. It never fails: tasks that cannot be
// placed are reported in the outcome's unassigned set.
func (Greedy) Assign(tasks []Task, workers []Worker, dailyCapacity int) (Outcome, error) {
	outcome := Outcome{Ledger: NewLedger()}

	groups := make(map[groupKey][]Task)
	var keys []groupKey
	for _, task := range tasks {
		k := groupKey{Date: task.Date, Position: task.Position}
		if _, ok := groups[k]; !ok {
			keys = append(keys, k)
		}
		groups[k] = append(groups[k], task)
	}
	// Groups are independent, so visit order cannot change what gets
	// assigned; sorting just makes the output slices deterministic.
	sort.Slice(keys, func(i, j int) bool {
		if !keys[i].Date.Equal(keys[j].Date) {
			return keys[i].Date.Before(keys[j].Date)
		}
		return keys[i].Position < keys[j].Position
	})

	byPosition := make(map[PositionID][]Worker)
	for _, w := range workers {
		byPosition[w.Position] = append(byPosition[w.Position], w)
	}

	for _, key := range keys {
		group := groups[key]
		eligible := byPosition[key.Position]
		if len(eligible) == 0 {
			outcome.Unassigned = append(outcome.Unassigned, group...)
			continue
		}

		// Shortest first, stable for equal durations.
		sort.SliceStable(group, func(i, j int) bool {
			return group[i].Duration < group[j].Duration
		})

		for _, task := range group {
			best := -1
			bestLoad := 0
			for i, w := range eligible {
				load := outcome.Ledger.Load(w.ID, key.Date)
				if load+task.Duration > dailyCapacity {
					continue
				}
				if best == -1 || load < bestLoad {
					best = i
					bestLoad = load
				}
			}
			if best == -1 {
				outcome.Unassigned = append(outcome.Unassigned, task)
				continue
			}

			worker := eligible[best]
			outcome.Ledger.Commit(worker.ID, key.Date, task.Duration)
			outcome.Assignments = append(outcome.Assignments, Assignment{
				TaskID:   task.ID,
				WorkerID: worker.ID,
				WorkDate: task.Date,
				Hours:    task.Duration,
			})
		}
	}

	return outcome, nil
}
