/*
scenarios_test.go - Unit tests for demo scenarios

PURPOSE:
	Tests that each scenario correctly sets up the expected state:
	- Positions, workers, and tasks are created
	- Tasks start out unassigned
	- The engine produces the behavior the scenario is meant to demonstrate

These tests double as integration tests of the load -> assign flow.
*/
package api

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/workforce-engine/engine"
)

func TestListScenarios(t *testing.T) {
	h := setupTestHandler(t)
	router := NewRouter(h, RouterOptions{})

	rec := doRequest(t, router, http.MethodGet, "/api/scenarios", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var dtos []ScenarioDTO
	decodeJSON(t, rec, &dtos)
	require.Len(t, dtos, 3)

	ids := make([]string, len(dtos))
	for i, s := range dtos {
		ids[i] = s.ID
	}
	assert.ElementsMatch(t, []string{"balanced-week", "crunch", "open-floor"}, ids)
}

func TestScenario_BalancedWeek(t *testing.T) {
	// GIVEN: The balanced-week scenario
	// THEN: A full roster exists and every task starts unassigned
	h := setupTestHandler(t)
	ctx := context.Background()

	require.NoError(t, h.loadBalancedWeekScenario(ctx))

	positions, err := h.Store.ListPositions(ctx)
	require.NoError(t, err)
	assert.Len(t, positions, 3)

	workers, err := h.Store.ListWorkers(ctx)
	require.NoError(t, err)
	assert.Len(t, workers, 5)

	tasks, err := h.Store.ListTasks(ctx)
	require.NoError(t, err)
	assert.Len(t, tasks, 25)

	today := engine.Today()
	pending, err := h.Store.UnassignedTasksInRange(ctx, today, today.AddDays(4))
	require.NoError(t, err)
	assert.Len(t, pending, 25)
}

func TestScenario_CrunchLeavesWorkUnassigned(t *testing.T) {
	// GIVEN: The crunch scenario (overbooked, and no inspector at all)
	h := setupTestHandler(t)
	ctx := context.Background()
	require.NoError(t, h.loadCrunchScenario(ctx))

	// WHEN: Assigning greedily over the three scenario days
	today := engine.Today()
	result, err := h.runAssignment(ctx, today, today.AddDays(2), engine.StrategyGreedy, engine.DefaultDailyCapacity)
	require.NoError(t, err)

	// THEN: Each day drops one assembly, one welding, and one inspection task
	assert.Equal(t, 9, result.Summary.AssignedCount)
	assert.Equal(t, 9, result.Summary.UnassignedCount)

	// The inspection tasks can never be assigned: nobody holds the position
	for _, id := range []engine.TaskID{"t-cr-006", "t-cr-012", "t-cr-018"} {
		assert.Contains(t, result.Summary.UnassignedTaskIDs, id)
	}
}

func TestScenario_OpenFloorFullyAssignable(t *testing.T) {
	// GIVEN: The open-floor scenario (positionless crew, spare capacity)
	h := setupTestHandler(t)
	ctx := context.Background()
	require.NoError(t, h.loadOpenFloorScenario(ctx))

	// WHEN: Assigning over the five scenario days
	today := engine.Today()
	result, err := h.runAssignment(ctx, today, today.AddDays(4), engine.StrategyGreedy, engine.DefaultDailyCapacity)
	require.NoError(t, err)

	// THEN: Everything fits
	assert.Equal(t, 30, result.Summary.AssignedCount)
	assert.Equal(t, 0, result.Summary.UnassignedCount)

	records, err := h.Store.AssignmentsInRange(ctx, today, today.AddDays(4))
	require.NoError(t, err)
	assert.Len(t, records, 30)
}

func TestLoadScenario_HTTPFlow(t *testing.T) {
	h := setupTestHandler(t)
	router := NewRouter(h, RouterOptions{})

	// Load a known scenario
	rec := doRequest(t, router, http.MethodPost, "/api/scenarios/load",
		map[string]string{"scenario_id": "crunch"})
	require.Equal(t, http.StatusOK, rec.Code, "body: %s", rec.Body.String())

	var resp map[string]string
	decodeJSON(t, rec, &resp)
	assert.Equal(t, "loaded", resp["status"])
	assert.Equal(t, "crunch", resp["scenario"])

	// The loaded scenario is reported back
	rec = doRequest(t, router, http.MethodGet, "/api/scenarios/current", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var current *ScenarioDTO
	decodeJSON(t, rec, &current)
	require.NotNil(t, current)
	assert.Equal(t, "crunch", current.ID)

	// Unknown scenarios are rejected (after the reset, matching LoadScenario)
	rec = doRequest(t, router, http.MethodPost, "/api/scenarios/load",
		map[string]string{"scenario_id": "night-shift"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, router, http.MethodGet, "/api/scenarios/current", nil)
	var cleared *ScenarioDTO
	decodeJSON(t, rec, &cleared)
	assert.Nil(t, cleared)
}

func TestLoadScenario_ReplacesPreviousData(t *testing.T) {
	h := setupTestHandler(t)
	router := NewRouter(h, RouterOptions{})
	ctx := context.Background()

	rec := doRequest(t, router, http.MethodPost, "/api/scenarios/load",
		map[string]string{"scenario_id": "balanced-week"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, router, http.MethodPost, "/api/scenarios/load",
		map[string]string{"scenario_id": "open-floor"})
	require.Equal(t, http.StatusOK, rec.Code)

	// Only open-floor data remains: no positions, four positionless workers
	positions, err := h.Store.ListPositions(ctx)
	require.NoError(t, err)
	assert.Empty(t, positions)

	workers, err := h.Store.ListWorkers(ctx)
	require.NoError(t, err)
	require.Len(t, workers, 4)
	for _, w := range workers {
		assert.Equal(t, engine.PositionNone, w.Position)
	}
}
