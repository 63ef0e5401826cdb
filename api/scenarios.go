/*
scenarios.go - Demo scenario loaders for testing and demonstrations

PURPOSE:

	Provides pre-built scenarios that populate the database with realistic
	rosters and task backlogs for testing and demos. Each scenario creates
	positions, workers, and tasks that demonstrate a specific engine
	behavior. Tasks are left unassigned so the demo flow is:
	load scenario -> POST /api/assign-tasks -> GET /api/workforce-schedule.

AVAILABLE SCENARIOS:

	balanced-week: Capacity comfortably covers demand, assignments even out
	crunch:        Demand exceeds capacity, tasks spill into unassigned
	open-floor:    Positionless crew, any worker can take any task

HOW SCENARIOS WORK:
 1. Reset database (clear all data)
 2. Create positions
 3. Create workers
 4. Create tasks dated relative to today

USAGE VIA API:

	POST /api/scenarios/load
	{"scenario_id": "crunch"}

ADDING NEW SCENARIOS:
 1. Add to 'scenarios' slice with ID, name, description
 2. Create loader function: loadXxxScenario(ctx)
 3. Add case to LoadScenario handler

NOTE:

	Scenarios reset the database. Only use in development/demo environments.

SEE ALSO:
  - handlers.go: AssignTasks, GetWorkforceSchedule handlers
  - engine/engine.go: The matching rules the scenarios demonstrate
*/
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/warp/workforce-engine/engine"
)

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

var scenarios = []ScenarioDTO{
	{
		ID:          "balanced-week",
		Name:        "Balanced Week",
		Description: "Five workers, five days, demand well under capacity",
	},
	{
		ID:          "crunch",
		Name:        "Crunch",
		Description: "Three workers against an overbooked backlog plus tasks nobody is qualified for",
	},
	{
		ID:          "open-floor",
		Name:        "Open Floor",
		Description: "Positionless crew where any worker can take any task",
	},
}

// ListScenarios returns available scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scenarios)
}

// GetCurrentScenario returns the currently loaded scenario, if any.
func (h *Handler) GetCurrentScenario(w http.ResponseWriter, r *http.Request) {
	if h.currentScenario == "" {
		writeJSON(w, http.StatusOK, nil)
		return
	}

	for _, s := range scenarios {
		if s.ID == h.currentScenario {
			writeJSON(w, http.StatusOK, s)
			return
		}
	}

	// Scenario ID exists but not in list (shouldn't happen)
	writeJSON(w, http.StatusOK, ScenarioDTO{
		ID:          h.currentScenario,
		Name:        h.currentScenario,
		Description: "Currently loaded scenario",
	})
}

// LoadScenario loads a predefined scenario.
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ScenarioID string `json:"scenario_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	ctx := r.Context()

	// Reset first
	if err := h.Store.Reset(ctx); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset database", err)
		return
	}
	h.currentScenario = ""

	var err error
	switch req.ScenarioID {
	case "balanced-week":
		err = h.loadBalancedWeekScenario(ctx)
	case "crunch":
		err = h.loadCrunchScenario(ctx)
	case "open-floor":
		err = h.loadOpenFloorScenario(ctx)
	default:
		writeError(w, http.StatusBadRequest, "Unknown scenario", nil)
		return
	}

	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to load scenario: %v", err), err)
		return
	}

	h.currentScenario = req.ScenarioID

	writeJSON(w, http.StatusOK, map[string]string{"status": "loaded", "scenario": req.ScenarioID})
}

// =============================================================================
// SCENARIO LOADERS
// =============================================================================

func (h *Handler) loadBalancedWeekScenario(ctx context.Context) error {
	positions := []engine.Position{
		{ID: "pos-assembly", Name: "Assembly"},
		{ID: "pos-welding", Name: "Welding"},
		{ID: "pos-inspection", Name: "Inspection"},
	}
	if err := h.Store.SavePositions(ctx, positions); err != nil {
		return err
	}

	// Eli has no position and can only pick up the positionless floor tasks.
	workers := []engine.Worker{
		{ID: "w-001", Name: "Amara Okafor", Position: "pos-assembly"},
		{ID: "w-002", Name: "Ben Castillo", Position: "pos-assembly"},
		{ID: "w-003", Name: "Chen Wei", Position: "pos-welding"},
		{ID: "w-004", Name: "Dana Petrov", Position: "pos-inspection"},
		{ID: "w-005", Name: "Eli Navarro"},
	}
	if err := h.Store.SaveWorkers(ctx, workers); err != nil {
		return err
	}

	// 17h of demand per day against 40h of capacity: everything fits.
	today := engine.Today()
	var tasks []engine.Task
	for i := 0; i < 5; i++ {
		day := today.AddDays(i)
		n := i * 5
		tasks = append(tasks,
			engine.Task{ID: taskID("bw", n+1), Name: "Frame assembly", Position: "pos-assembly", Duration: 4, Date: day},
			engine.Task{ID: taskID("bw", n+2), Name: "Panel fitting", Position: "pos-assembly", Duration: 3, Date: day},
			engine.Task{ID: taskID("bw", n+3), Name: "Seam welding", Position: "pos-welding", Duration: 5, Date: day},
			engine.Task{ID: taskID("bw", n+4), Name: "Quality check", Position: "pos-inspection", Duration: 3, Date: day},
			engine.Task{ID: taskID("bw", n+5), Name: "Floor logistics", Duration: 2, Date: day},
		)
	}
	return h.Store.SaveTasks(ctx, tasks)
}

func (h *Handler) loadCrunchScenario(ctx context.Context) error {
	positions := []engine.Position{
		{ID: "pos-assembly", Name: "Assembly"},
		{ID: "pos-welding", Name: "Welding"},
		{ID: "pos-inspection", Name: "Inspection"},
	}
	if err := h.Store.SavePositions(ctx, positions); err != nil {
		return err
	}

	// No inspector on the roster: every inspection task stays unassigned.
	workers := []engine.Worker{
		{ID: "w-101", Name: "Rosa Ibarra", Position: "pos-assembly"},
		{ID: "w-102", Name: "Sam Decker", Position: "pos-assembly"},
		{ID: "w-103", Name: "Tomas Lindgren", Position: "pos-welding"},
	}
	if err := h.Store.SaveWorkers(ctx, workers); err != nil {
		return err
	}

	// 34h of demand per day against 24h of capacity.
	today := engine.Today()
	var tasks []engine.Task
	for i := 0; i < 3; i++ {
		day := today.AddDays(i)
		n := i * 6
		tasks = append(tasks,
			engine.Task{ID: taskID("cr", n+1), Name: "Chassis build", Position: "pos-assembly", Duration: 8, Date: day},
			engine.Task{ID: taskID("cr", n+2), Name: "Subframe assembly", Position: "pos-assembly", Duration: 7, Date: day},
			engine.Task{ID: taskID("cr", n+3), Name: "Bracket assembly", Position: "pos-assembly", Duration: 6, Date: day},
			engine.Task{ID: taskID("cr", n+4), Name: "Pipe welding", Position: "pos-welding", Duration: 8, Date: day},
			engine.Task{ID: taskID("cr", n+5), Name: "Tack welding", Position: "pos-welding", Duration: 4, Date: day},
			engine.Task{ID: taskID("cr", n+6), Name: "Final inspection", Position: "pos-inspection", Duration: 5, Date: day},
		)
	}
	return h.Store.SaveTasks(ctx, tasks)
}

func (h *Handler) loadOpenFloorScenario(ctx context.Context) error {
	workers := []engine.Worker{
		{ID: "w-201", Name: "Ingrid Haas"},
		{ID: "w-202", Name: "Jamal Reed"},
		{ID: "w-203", Name: "Kaja Nilsen"},
		{ID: "w-204", Name: "Luis Mendes"},
	}
	if err := h.Store.SaveWorkers(ctx, workers); err != nil {
		return err
	}

	// 20h of demand per day against 32h of capacity, all positionless, so
	// the strategies differ only in how evenly they spread the load.
	today := engine.Today()
	var tasks []engine.Task
	for i := 0; i < 5; i++ {
		day := today.AddDays(i)
		n := i * 6
		tasks = append(tasks,
			engine.Task{ID: taskID("of", n+1), Name: "Stock intake", Duration: 6, Date: day},
			engine.Task{ID: taskID("of", n+2), Name: "Order packing", Duration: 4, Date: day},
			engine.Task{ID: taskID("of", n+3), Name: "Shelf restock", Duration: 3, Date: day},
			engine.Task{ID: taskID("of", n+4), Name: "Returns triage", Duration: 3, Date: day},
			engine.Task{ID: taskID("of", n+5), Name: "Cycle count", Duration: 2, Date: day},
			engine.Task{ID: taskID("of", n+6), Name: "Staging cleanup", Duration: 2, Date: day},
		)
	}
	return h.Store.SaveTasks(ctx, tasks)
}

func taskID(prefix string, n int) engine.TaskID {
	return engine.TaskID(fmt.Sprintf("t-%s-%03d", prefix, n))
}
