/*
exact.go - Binary-program formulation of the assignment problem

PURPOSE:
  The optimal strategy. Builds one binary variable per position-matched
  (task, worker) pair, maximizes total assigned hours, and decodes the
  solved program back into assignments. Cross-position pairs are never
  created, so position matching holds structurally rather than through
  constraints.

FORMULATION:
  maximize   sum(duration * x[task,worker])
  subject to sum over workers of x[task,*]          <= 1     per task
             sum over tasks-of-day of duration * x  <= cap   per (worker, day)
             x binary

FAILURE:
  A solver that stops without a usable solution is fatal for the call and
  surfaces as a SolverError. Tasks that are merely unassignable are not a
  failure; they come back as data in the outcome.

SEE ALSO:
  - greedy.go: The heuristic strategy with the same contract
  - ../solver/branchbound.go: The backing search
*/
package engine

import (
	"github.com/warp/workforce-engine/solver"
)

// Exact is the optimizing Assigner. Total assigned hours from Exact are
// always >= the greedy result on identical input.
type Exact struct {
	Solver solver.Solver
}

// Assign formulates, solves, and decodes one assignment run.
func (e Exact) Assign(tasks []Task, workers []Worker, dailyCapacity int) (Outcome, error) {
	type pair struct{ task, worker int }

	byPosition := make(map[PositionID][]int)
	for i, w := range workers {
		byPosition[w.Position] = append(byPosition[w.Position], i)
	}

	// One variable per matched pair. A task with no variables never enters
	// the program and is trivially unassigned.
	var pairs []pair
	taskVars := make([][]int, len(tasks))
	for ti, task := range tasks {
		for _, wi := range byPosition[task.Position] {
			taskVars[ti] = append(taskVars[ti], len(pairs))
			pairs = append(pairs, pair{task: ti, worker: wi})
		}
	}

	if len(pairs) == 0 || dailyCapacity <= 0 {
		// Nothing the program could ever place; skip the solver entirely.
		outcome := Outcome{Ledger: NewLedger()}
		outcome.Unassigned = append(outcome.Unassigned, tasks...)
		return outcome, nil
	}

	objective := make([]float64, len(pairs))
	for v, p := range pairs {
		objective[v] = float64(tasks[p.task].Duration)
	}

	var constraints []solver.Constraint

	// Constraint A: at most one worker per task.
	for ti := range tasks {
		vars := taskVars[ti]
		if len(vars) == 0 {
			continue
		}
		terms := make([]solver.Term, 0, len(vars))
		for _, v := range vars {
			terms = append(terms, solver.Term{Var: v, Coeff: 1})
		}
		constraints = append(constraints, solver.Constraint{Terms: terms, Bound: 1})
	}

	// Constraint B: daily capacity per (worker, date) holding at least one
	// candidate task. First-encounter ordering keeps the program, and with
	// it the solved vertex, deterministic.
	type workerDay struct {
		worker int
		date   Date
	}
	dayTerms := make(map[workerDay][]solver.Term)
	var dayOrder []workerDay
	for v, p := range pairs {
		k := workerDay{worker: p.worker, date: tasks[p.task].Date}
		if _, ok := dayTerms[k]; !ok {
			dayOrder = append(dayOrder, k)
		}
		dayTerms[k] = append(dayTerms[k], solver.Term{
			Var:   v,
			Coeff: float64(tasks[p.task].Duration),
		})
	}
	for _, k := range dayOrder {
		constraints = append(constraints, solver.Constraint{
			Terms: dayTerms[k],
			Bound: float64(dailyCapacity),
		})
	}

	sol, err := e.Solver.Solve(solver.Problem{Objective: objective, Constraints: constraints})
	if err != nil {
		return Outcome{}, &SolverError{
			Strategy: strategyNameExact,
			Reason:   "binary program did not solve",
			Err:      err,
		}
	}

	// Decode: a variable above one half is an assignment. The ledger is
	// rebuilt from the chosen pairs so KPIs read identically to greedy runs.
	outcome := Outcome{Ledger: NewLedger()}
	for ti, task := range tasks {
		assigned := false
		for _, v := range taskVars[ti] {
			if sol.Values[v] > 0.5 {
				worker := workers[pairs[v].worker]
				outcome.Ledger.Commit(worker.ID, task.Date, task.Duration)
				outcome.Assignments = append(outcome.Assignments, Assignment{
					TaskID:   task.ID,
					WorkerID: worker.ID,
					WorkDate: task.Date,
					Hours:    task.Duration,
				})
				assigned = true
				break
			}
		}
		if !assigned {
			outcome.Unassigned = append(outcome.Unassigned, task)
		}
	}
	return outcome, nil
}
