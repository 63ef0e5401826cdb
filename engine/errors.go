/*
errors.go - Centralized error types for the assignment engine

PURPOSE:
  All engine error types in one place for consistency and discoverability.
  The surrounding layers (API, seed, stores) wrap these with their own
  context but match on the sentinels defined here.

ERROR CATEGORIES:
  1. Caller-input errors - Unknown strategy names, broken references
  2. Solver errors - The exact algorithm terminated without a usable result

NOT ERRORS:
  An unassignable task (no eligible worker, no remaining capacity) is data,
  not an error. It is reported in the result's unassigned set and never
  raised.

USAGE:
  result, err := eng.Assign(input)
  switch {
  case engine.IsClientError(err):   // 400: fix the request
  case engine.IsSolverFailure(err): // 500: solver gave up, nothing persisted
  }

SEE ALSO:
  - engine.go: Where strategy names are validated
  - exact.go: Where solver failures are wrapped
*/
package engine

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidStrategy is returned when the requested strategy name is not
	// one of the known values. The request is rejected before any assignment
	// logic runs.
	ErrInvalidStrategy = errors.New("invalid strategy")

	// ErrSolverFailure is returned when the exact algorithm's solver stops
	// without a usable solution. Fatal for that call: the engine never
	// degrades a solver failure into a silent empty assignment set.
	ErrSolverFailure = errors.New("solver failure")

	// ErrMissingReference is returned when stored or seeded data points at a
	// position, worker, or task that does not exist.
	ErrMissingReference = errors.New("missing reference")

	// ErrConflict is returned when a write collides with an existing record,
	// such as a second position claiming an already-used name.
	ErrConflict = errors.New("conflict")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// StrategyError reports an unknown strategy name.
type StrategyError struct {
	Name string
}

func (e *StrategyError) Error() string {
	return fmt.Sprintf("invalid strategy %q: known strategies are %q and %q",
		e.Name, strategyNameExact, strategyNameGreedy)
}

func (e *StrategyError) Unwrap() error {
	return ErrInvalidStrategy
}

// SolverError carries the context of a failed exact-assignment solve.
type SolverError struct {
	Strategy string
	Reason   string
	Err      error
}

func (e *SolverError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s strategy: %s: %v", e.Strategy, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s strategy: %s", e.Strategy, e.Reason)
}

func (e *SolverError) Unwrap() error {
	return ErrSolverFailure
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid caller input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidStrategy) ||
		errors.Is(err, ErrMissingReference)
}

// IsSolverFailure returns true if the exact algorithm failed to solve.
func IsSolverFailure(err error) bool {
	return errors.Is(err, ErrSolverFailure)
}

// IsConflict returns true if the error is a write colliding with existing data.
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}
