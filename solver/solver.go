/*
Package solver provides a small 0-1 integer-program solver boundary.

PURPOSE:
  The exact assignment algorithm formulates its decision problem as a binary
  program: maximize a linear objective over 0-1 variables subject to
  less-than-or-equal constraints. This package isolates the solving of that
  program behind a narrow interface so the backend can be swapped without
  touching constraint construction or result decoding.

KEY CONCEPTS IN THIS FILE (solver.go):
  - Problem: objective coefficients plus <= constraints over binary variables
  - Solution: integral variable values, achieved objective, explored nodes
  - Solver: the one-method contract the engine consumes

CONTRACT:
  Solve is blocking and potentially expensive (worst case exponential in the
  number of variables). It either returns a provably optimal integral
  solution or an error; it never returns a partial or silently empty result.
  Callers needing responsiveness impose an external budget and treat
  ErrNodeLimit as a failure.

SEE ALSO:
  - branchbound.go: The depth-first branch-and-bound implementation
*/
package solver

import (
	"errors"
	"fmt"
)

// =============================================================================
// PROBLEM MODEL - A pure <=-form 0-1 maximization program
// =============================================================================

// Term is one coefficient of one variable inside a constraint.
type Term struct {
	Var   int
	Coeff float64
}

// Constraint is sum(Coeff_i * x_i) <= Bound over the listed terms.
type Constraint struct {
	Terms []Term
	Bound float64
}

// Problem is a binary maximization program. Objective has one coefficient
// per variable; every variable is implicitly bounded to {0, 1}.
type Problem struct {
	Objective   []float64
	Constraints []Constraint
}

// Vars returns the number of decision variables.
func (p Problem) Vars() int {
	return len(p.Objective)
}

func (p Problem) validate() error {
	for ci, c := range p.Constraints {
		for _, t := range c.Terms {
			if t.Var < 0 || t.Var >= len(p.Objective) {
				return fmt.Errorf("%w: constraint %d references variable %d, program has %d",
					ErrBadProblem, ci, t.Var, len(p.Objective))
			}
		}
	}
	return nil
}

// =============================================================================
// SOLUTION
// =============================================================================

// Solution is a feasible, optimal integral point of the program.
type Solution struct {
	// Values holds one value per variable, each integral within tolerance.
	Values []float64

	// Objective is the achieved objective value.
	Objective float64

	// Nodes is the number of branch-and-bound nodes explored.
	Nodes int
}

// =============================================================================
// SOLVER CONTRACT
// =============================================================================

// Solver solves 0-1 maximization programs to optimality.
type Solver interface {
	Solve(p Problem) (Solution, error)
}

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInfeasible is returned when the program has no feasible integral
	// point at all.
	ErrInfeasible = errors.New("no feasible solution")

	// ErrNodeLimit is returned when the node budget is exhausted before the
	// search proves optimality. The unproven incumbent is not returned;
	// Solve hands back proven optima only.
	ErrNodeLimit = errors.New("node budget exhausted")

	// ErrBadProblem is returned for structurally malformed programs, e.g. a
	// constraint referencing a variable that does not exist.
	ErrBadProblem = errors.New("malformed problem")
)
