/*
branchbound.go - Depth-first branch and bound over LP relaxations

PURPOSE:
  Solves the 0-1 program exactly. Each node relaxes the remaining free
  variables to [0, 1] and solves the relaxation with Gonum's simplex; the
  relaxation value is an upper bound on every integral point below the node,
  which drives pruning.

SEARCH ORDER:
  Depth first, exploring the x=1 branch before the x=0 branch. With a
  maximization objective of positive coefficients this reaches a good
  incumbent quickly, which tightens pruning for the rest of the search.

STANDARD FORM:
  lp.Simplex wants min c'x subject to Ax = b, x >= 0. Each <= constraint
  gets a slack column, each free variable gets a unit upper-bound row with
  its own slack, and the objective is negated. Variables fixed to 1 by
  branching are substituted into the right-hand sides; variables fixed to 0
  simply drop out.
*/
package solver

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"
)

// DefaultNodeLimit caps the search when BranchBound.NodeLimit is unset.
const DefaultNodeLimit = 200_000

const (
	defaultIntTol = 1e-6  // distance from an integer that still counts as integral
	simplexTol    = 1e-10 // convergence tolerance handed to lp.Simplex
	pruneEps      = 1e-9  // bound comparisons ignore noise below this
)

// BranchBound is a Solver. The zero value is ready to use.
type BranchBound struct {
	// NodeLimit caps the number of explored nodes; 0 means DefaultNodeLimit.
	NodeLimit int

	// IntTol is the integrality tolerance; 0 means 1e-6.
	IntTol float64
}

var _ Solver = (*BranchBound)(nil)

// Branching state per variable.
const (
	fixedFree int8 = iota - 1 // -1
	fixedZero                 // 0
	fixedOne                  // 1
)

type node struct {
	fixed []int8
}

// Solve runs the search to proven optimality.
func (bb *BranchBound) Solve(p Problem) (Solution, error) {
	if err := p.validate(); err != nil {
		return Solution{}, err
	}
	n := p.Vars()
	if n == 0 {
		// Nothing to decide; the empty assignment is optimal.
		return Solution{Values: []float64{}}, nil
	}

	limit := bb.NodeLimit
	if limit <= 0 {
		limit = DefaultNodeLimit
	}

	var best []float64
	bestVal := math.Inf(-1)
	nodes := 0

	root := make([]int8, n)
	for i := range root {
		root[i] = fixedFree
	}
	stack := []node{{fixed: root}}

	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		nodes++
		if nodes > limit {
			return Solution{}, fmt.Errorf("branch and bound explored %d nodes: %w", limit, ErrNodeLimit)
		}

		rel, err := bb.relax(p, cur.fixed)
		if err != nil {
			return Solution{}, fmt.Errorf("lp relaxation: %w", err)
		}
		if !rel.feasible || rel.bound <= bestVal+pruneEps {
			continue
		}
		if rel.integral {
			if val := value(p, rel.values); val > bestVal {
				bestVal = val
				best = rel.values
			}
			continue
		}

		branch := mostFractional(cur.fixed, rel.values)
		zero := append([]int8(nil), cur.fixed...)
		zero[branch] = fixedZero
		one := append([]int8(nil), cur.fixed...)
		one[branch] = fixedOne
		// Pushed zero first so the one-branch pops first.
		stack = append(stack, node{fixed: zero}, node{fixed: one})
	}

	if best == nil {
		return Solution{}, ErrInfeasible
	}
	return Solution{Values: best, Objective: value(p, best), Nodes: nodes}, nil
}

func value(p Problem, x []float64) float64 {
	v := 0.0
	for j, xv := range x {
		v += p.Objective[j] * xv
	}
	return v
}

// relaxation is the outcome of solving one node's LP.
type relaxation struct {
	feasible bool
	integral bool
	bound    float64   // best objective reachable below this node
	values   []float64 // full-length values, meaningful only when feasible
}

func (bb *BranchBound) relax(p Problem, fixed []int8) (relaxation, error) {
	n := p.Vars()
	m := len(p.Constraints)

	col := make([]int, n) // variable -> relaxation column, -1 when fixed
	var free []int
	fixedObj := 0.0
	for j, f := range fixed {
		col[j] = -1
		switch f {
		case fixedFree:
			col[j] = len(free)
			free = append(free, j)
		case fixedOne:
			fixedObj += p.Objective[j]
		}
	}

	nf := len(free)
	if nf == 0 {
		// Fully fixed by branching; evaluate directly, no LP needed.
		x := fixedValues(fixed)
		if !satisfies(p, x) {
			return relaxation{}, nil
		}
		return relaxation{feasible: true, integral: true, bound: fixedObj, values: x}, nil
	}

	// Columns: free variables, one slack per constraint, one slack per
	// upper-bound row. Every row owns an identity column, so A always has
	// full row rank.
	rows := m + nf
	cols := nf + m + nf

	obj := make([]float64, cols)
	for i, j := range free {
		obj[i] = -p.Objective[j]
	}

	a := mat.NewDense(rows, cols, nil)
	b := make([]float64, rows)
	for i, c := range p.Constraints {
		rhs := c.Bound
		for _, t := range c.Terms {
			switch fixed[t.Var] {
			case fixedOne:
				rhs -= t.Coeff
			case fixedFree:
				j := col[t.Var]
				a.Set(i, j, a.At(i, j)+t.Coeff)
			}
		}
		a.Set(i, nf+i, 1)
		b[i] = rhs
	}
	for i := range free {
		a.Set(m+i, i, 1)
		a.Set(m+i, nf+m+i, 1)
		b[m+i] = 1
	}

	optF, optX, err := lp.Simplex(obj, a, b, simplexTol, nil)
	if err != nil {
		if errors.Is(err, lp.ErrInfeasible) {
			return relaxation{}, nil
		}
		return relaxation{}, err
	}

	values := fixedValues(fixed)
	integral := true
	tol := bb.intTol()
	for i, j := range free {
		v := optX[i]
		values[j] = v
		if math.Abs(v-math.Round(v)) > tol {
			integral = false
		}
	}
	if integral {
		for j := range values {
			values[j] = math.Round(math.Abs(values[j]))
		}
	}
	return relaxation{feasible: true, integral: integral, bound: fixedObj - optF, values: values}, nil
}

func (bb *BranchBound) intTol() float64 {
	if bb.IntTol > 0 {
		return bb.IntTol
	}
	return defaultIntTol
}

// mostFractional picks the free variable farthest from an integer value.
func mostFractional(fixed []int8, values []float64) int {
	branch := -1
	worst := 0.0
	for j, f := range fixed {
		if f != fixedFree {
			continue
		}
		if d := math.Abs(values[j] - math.Round(values[j])); d > worst {
			worst = d
			branch = j
		}
	}
	return branch
}

func fixedValues(fixed []int8) []float64 {
	x := make([]float64, len(fixed))
	for j, f := range fixed {
		if f == fixedOne {
			x[j] = 1
		}
	}
	return x
}

func satisfies(p Problem, x []float64) bool {
	for _, c := range p.Constraints {
		sum := 0.0
		for _, t := range c.Terms {
			sum += t.Coeff * x[t.Var]
		}
		if sum > c.Bound+defaultIntTol {
			return false
		}
	}
	return true
}
