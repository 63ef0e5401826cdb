/*
handlers.go - HTTP API handlers for the workforce assignment system

PURPOSE:
  Exposes the assignment engine via REST API. Handles HTTP
  request/response, JSON serialization, and delegates to domain logic.

ENDPOINTS:
  Roster:
    GET    /api/positions              List all positions
    POST   /api/positions              Create position
    GET    /api/workers                List all workers
    POST   /api/workers                Create worker
    GET    /api/tasks                  List tasks (optionally by date range)
    POST   /api/tasks                  Create task

  Assignment:
    POST   /api/assign-tasks           Run the engine over a date window
    GET    /api/assignments            List persisted assignments in a window
    GET    /api/workforce-schedule     Pivoted schedule table for the UI

  Scenarios:
    GET    /api/scenarios              List demo scenarios
    GET    /api/scenarios/current      Currently loaded scenario
    POST   /api/scenarios/load         Load a demo scenario

  Admin:
    POST   /api/scenarios/reset        Wipe all data
    GET    /health                     Liveness + store reachability

ARCHITECTURE:
  Handler struct holds all dependencies:
  - Store: Database access (engine.Store, SQLite in production)
  - Engine: The assignment engine
  - Schedule: Pivot-table builder for the schedule endpoint

REQUEST FLOW:
  1. Parse HTTP request
  2. Validate input
  3. Call domain logic (engine, schedule, store)
  4. Serialize response
  5. Handle errors

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input, unknown references
  - 409: Conflict (duplicate position name)
  - 500: Internal errors, solver failures
  Machine-readable codes ("invalid_strategy", "solver_failure") accompany
  the errors clients are expected to branch on.

SECURITY NOTE:
  Currently NO authentication or authorization. All endpoints are public.

SEE ALSO:
  - dto.go: Request/response data structures
  - scenarios.go: Demo scenario loaders
  - server.go: Router setup and middleware
*/
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/warp/workforce-engine/engine"
	"github.com/warp/workforce-engine/metrics"
	"github.com/warp/workforce-engine/schedule"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store    engine.Store
	Engine   *engine.Engine
	Schedule *schedule.Service

	// Per-request defaults; query parameters override them per call.
	DefaultStrategy engine.Strategy
	DefaultCapacity int

	// Track currently loaded scenario
	currentScenario string
}

// NewHandler creates a new handler with the given store and engine.
func NewHandler(store engine.Store, eng *engine.Engine) *Handler {
	return &Handler{
		Store:           store,
		Engine:          eng,
		Schedule:        schedule.NewService(store),
		DefaultStrategy: engine.StrategyExact,
		DefaultCapacity: engine.DefaultDailyCapacity,
	}
}

// =============================================================================
// HEALTH
// =============================================================================

// Health reports liveness and store reachability.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.Ping(r.Context()); err != nil {
		writeError(w, http.StatusServiceUnavailable, "Store unavailable", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// SCHEDULE HANDLERS
// =============================================================================

// GetWorkforceSchedule returns the pivoted schedule table for a date window.
// start_date defaults to today, end_date defaults to start_date.
func (h *Handler) GetWorkforceSchedule(w http.ResponseWriter, r *http.Request) {
	from, ok, err := parseDateParam(r, "start_date")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid start_date format (use YYYY-MM-DD)", err)
		return
	}
	if !ok {
		from = engine.Today()
	}

	to, ok, err := parseDateParam(r, "end_date")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid end_date format (use YYYY-MM-DD)", err)
		return
	}
	if !ok {
		to = from
	}

	table, err := h.Schedule.Schedule(r.Context(), from, to)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to build schedule", err)
		return
	}

	writeJSON(w, http.StatusOK, table)
}

// =============================================================================
// ASSIGNMENT HANDLERS
// =============================================================================

// AssignTasks runs the engine over the unassigned tasks in a date window and
// persists the resulting assignments. start_date and end_date are required;
// strategy and daily_capacity fall back to the handler defaults.
func (h *Handler) AssignTasks(w http.ResponseWriter, r *http.Request) {
	from, ok, err := parseDateParam(r, "start_date")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid start_date format (use YYYY-MM-DD)", err)
		return
	}
	if !ok {
		writeError(w, http.StatusBadRequest, "start_date is required", nil)
		return
	}

	to, ok, err := parseDateParam(r, "end_date")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid end_date format (use YYYY-MM-DD)", err)
		return
	}
	if !ok {
		writeError(w, http.StatusBadRequest, "end_date is required", nil)
		return
	}

	// Strategy is validated before any data is loaded so a typo never
	// triggers a solver run.
	strategy := h.DefaultStrategy
	if name := r.URL.Query().Get("strategy"); name != "" {
		strategy, err = engine.ParseStrategy(name)
		if err != nil {
			writeErrorCode(w, http.StatusBadRequest, "invalid_strategy", "Unknown assignment strategy", err)
			return
		}
	}

	capacity := h.DefaultCapacity
	if raw := r.URL.Query().Get("daily_capacity"); raw != "" {
		capacity, err = strconv.Atoi(raw)
		if err != nil || capacity < 1 {
			writeError(w, http.StatusBadRequest, "daily_capacity must be a positive integer", err)
			return
		}
	}

	result, err := h.runAssignment(r.Context(), from, to, strategy, capacity)
	if err != nil {
		switch {
		case engine.IsClientError(err):
			writeErrorCode(w, http.StatusBadRequest, "invalid_strategy", "Invalid assignment request", err)
		case engine.IsSolverFailure(err):
			writeErrorCode(w, http.StatusInternalServerError, "solver_failure", "Assignment solver failed", err)
		default:
			writeError(w, http.StatusInternalServerError, "Failed to assign tasks", err)
		}
		return
	}

	writeJSON(w, http.StatusOK, AssignTasksResponse{
		Assignments: toAssignmentDTOs(result.Assignments),
		KPIMetrics:  toKPIReportDTO(result.KPIs),
		Summary:     toSummaryDTO(result.Summary),
	})
}

// runAssignment is the shared engine invocation used by AssignTasks and the
// auto-assign scheduler: load the feed, solve, persist, record metrics.
func (h *Handler) runAssignment(ctx context.Context, from, to engine.Date, strategy engine.Strategy, capacity int) (*engine.Result, error) {
	tasks, err := h.Store.UnassignedTasksInRange(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to load unassigned tasks: %w", err)
	}
	workers, err := h.Store.ListWorkers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load workers: %w", err)
	}

	start := time.Now()
	result, err := h.Engine.Assign(engine.Input{
		Tasks:         tasks,
		Workers:       workers,
		Strategy:      strategy,
		DailyCapacity: capacity,
	})

	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	metrics.AssignmentRuns.WithLabelValues(strategy.String(), outcome).Inc()
	metrics.AssignmentDuration.WithLabelValues(strategy.String()).Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, err
	}

	metrics.TasksAssigned.WithLabelValues(strategy.String()).Add(float64(result.Summary.AssignedCount))
	metrics.TasksUnassigned.WithLabelValues(strategy.String()).Add(float64(result.Summary.UnassignedCount))

	if _, err := h.Store.SaveAssignments(ctx, result.Assignments); err != nil {
		return nil, fmt.Errorf("failed to persist assignments: %w", err)
	}
	return result, nil
}

// ListAssignments returns the persisted assignments in a date window.
// start_date defaults to today, end_date defaults to start_date.
func (h *Handler) ListAssignments(w http.ResponseWriter, r *http.Request) {
	from, ok, err := parseDateParam(r, "start_date")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid start_date format (use YYYY-MM-DD)", err)
		return
	}
	if !ok {
		from = engine.Today()
	}

	to, ok, err := parseDateParam(r, "end_date")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid end_date format (use YYYY-MM-DD)", err)
		return
	}
	if !ok {
		to = from
	}

	records, err := h.Store.AssignmentsInRange(r.Context(), from, to)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list assignments", err)
		return
	}

	writeJSON(w, http.StatusOK, toAssignmentRecordDTOs(records))
}

// =============================================================================
// POSITION HANDLERS
// =============================================================================

// ListPositions returns all positions.
func (h *Handler) ListPositions(w http.ResponseWriter, r *http.Request) {
	positions, err := h.Store.ListPositions(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list positions", err)
		return
	}

	dtos := make([]PositionDTO, len(positions))
	for i, p := range positions {
		dtos[i] = toPositionDTO(p)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreatePosition creates a new position.
func (h *Handler) CreatePosition(w http.ResponseWriter, r *http.Request) {
	var req CreatePositionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required", nil)
		return
	}
	if req.ID == "" {
		req.ID = uuid.New().String()
	}

	p := engine.Position{ID: engine.PositionID(req.ID), Name: req.Name}
	if err := h.Store.SavePositions(r.Context(), []engine.Position{p}); err != nil {
		if engine.IsConflict(err) {
			writeError(w, http.StatusConflict, "Position name already in use", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to create position", err)
		return
	}

	writeJSON(w, http.StatusCreated, toPositionDTO(p))
}

// =============================================================================
// WORKER HANDLERS
// =============================================================================

// ListWorkers returns all workers.
func (h *Handler) ListWorkers(w http.ResponseWriter, r *http.Request) {
	workers, err := h.Store.ListWorkers(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list workers", err)
		return
	}

	dtos := make([]WorkerDTO, len(workers))
	for i, wk := range workers {
		dtos[i] = toWorkerDTO(wk)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateWorker creates a new worker. position_id is optional; when present it
// must reference an existing position.
func (h *Handler) CreateWorker(w http.ResponseWriter, r *http.Request) {
	var req CreateWorkerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required", nil)
		return
	}
	if req.ID == "" {
		req.ID = uuid.New().String()
	}

	wk := engine.Worker{
		ID:       engine.WorkerID(req.ID),
		Name:     req.Name,
		Position: engine.PositionID(req.PositionID),
	}
	if err := h.Store.SaveWorkers(r.Context(), []engine.Worker{wk}); err != nil {
		if engine.IsClientError(err) {
			writeError(w, http.StatusBadRequest, "Unknown position_id", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to create worker", err)
		return
	}

	writeJSON(w, http.StatusCreated, toWorkerDTO(wk))
}

// =============================================================================
// TASK HANDLERS
// =============================================================================

// ListTasks returns tasks, optionally filtered to a date window. With a
// start_date, end_date defaults to start_date; without one, all tasks.
func (h *Handler) ListTasks(w http.ResponseWriter, r *http.Request) {
	from, hasFrom, err := parseDateParam(r, "start_date")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid start_date format (use YYYY-MM-DD)", err)
		return
	}
	to, hasTo, err := parseDateParam(r, "end_date")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid end_date format (use YYYY-MM-DD)", err)
		return
	}

	var tasks []engine.Task
	if hasFrom {
		if !hasTo {
			to = from
		}
		tasks, err = h.Store.TasksInRange(r.Context(), from, to)
	} else {
		tasks, err = h.Store.ListTasks(r.Context())
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list tasks", err)
		return
	}

	dtos := make([]TaskDTO, len(tasks))
	for i, t := range tasks {
		dtos[i] = toTaskDTO(t)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateTask creates a new task. duration is whole hours and must be
// positive; a missing name falls back to the ID.
func (h *Handler) CreateTask(w http.ResponseWriter, r *http.Request) {
	var req CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Duration < 1 {
		writeError(w, http.StatusBadRequest, "duration must be a positive integer", nil)
		return
	}

	date, err := engine.ParseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date format (use YYYY-MM-DD)", err)
		return
	}

	if req.ID == "" {
		req.ID = uuid.New().String()
	}
	if req.Name == "" {
		req.Name = req.ID
	}

	task := engine.Task{
		ID:       engine.TaskID(req.ID),
		Name:     req.Name,
		Position: engine.PositionID(req.PositionID),
		Duration: req.Duration,
		Date:     date,
	}
	if err := h.Store.SaveTasks(r.Context(), []engine.Task{task}); err != nil {
		if engine.IsClientError(err) {
			writeError(w, http.StatusBadRequest, "Unknown position_id", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to create task", err)
		return
	}

	writeJSON(w, http.StatusCreated, toTaskDTO(task))
}

// =============================================================================
// ADMIN HANDLERS
// =============================================================================

// ResetDatabase clears all data.
func (h *Handler) ResetDatabase(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.Reset(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset database", err)
		return
	}

	h.currentScenario = ""

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// HELPERS
// =============================================================================

// parseDateParam reads an optional ISO date query parameter. The second
// return reports whether the parameter was present.
func parseDateParam(r *http.Request, name string) (engine.Date, bool, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return engine.Date{}, false, nil
	}
	d, err := engine.ParseDate(raw)
	if err != nil {
		return engine.Date{}, false, err
	}
	return d, true, nil
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

func writeErrorCode(w http.ResponseWriter, status int, code, message string, err error) {
	resp := ErrorResponse{Error: message, Code: code}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
