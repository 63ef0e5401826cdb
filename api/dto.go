/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract, allowing:
  - Field renaming without breaking clients
  - API-specific validation
  - Version evolution

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients
  - *Response: Complex response wrappers

TYPES:
  Roster:
    PositionDTO, CreatePositionRequest
    WorkerDTO, CreateWorkerRequest
    TaskDTO, CreateTaskRequest

  Assignment:
    AssignmentDTO (engine output)
    AssignmentRecordDTO (persisted row with display fields)
    AssignTasksResponse (assignments + kpi_metrics + summary)

  Metrics:
    KPIReportDTO, SummaryDTO

  Scenarios:
    ScenarioDTO

VALIDATION:
  Validation is done in handlers, not in DTOs. DTOs are pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
  - engine/types.go: The domain types these mirror
*/
package api

import (
	"github.com/warp/workforce-engine/engine"
)

// =============================================================================
// REQUEST/RESPONSE TYPES
// =============================================================================

// PositionDTO represents a position in API responses.
type PositionDTO struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// CreatePositionRequest is the request to create a position. A missing ID
// is generated server-side.
type CreatePositionRequest struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
}

// WorkerDTO represents a worker in API responses.
type WorkerDTO struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	PositionID string `json:"position_id,omitempty"`
}

// CreateWorkerRequest is the request to create a worker.
type CreateWorkerRequest struct {
	ID         string `json:"id,omitempty"`
	Name       string `json:"name"`
	PositionID string `json:"position_id,omitempty"`
}

// TaskDTO represents a task in API responses. Date is ISO (2006-01-02).
type TaskDTO struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	PositionID string `json:"position_id,omitempty"`
	Duration   int    `json:"duration"`
	Date       string `json:"date"`
}

// CreateTaskRequest is the request to create a task.
type CreateTaskRequest struct {
	ID         string `json:"id,omitempty"`
	Name       string `json:"name,omitempty"`
	PositionID string `json:"position_id,omitempty"`
	Duration   int    `json:"duration"`
	Date       string `json:"date"`
}

// AssignmentDTO represents one engine-produced pairing.
type AssignmentDTO struct {
	TaskID   string `json:"task_id"`
	WorkerID string `json:"worker_id"`
	WorkDate string `json:"work_date"`
	Hours    int    `json:"hours"`
}

// AssignmentRecordDTO represents a persisted assignment joined with its
// display fields.
type AssignmentRecordDTO struct {
	TaskID     string `json:"task_id"`
	WorkerID   string `json:"worker_id"`
	WorkerName string `json:"worker_name"`
	WorkDate   string `json:"work_date"`
	Hours      int    `json:"hours"`
	Position   string `json:"position,omitempty"`
}

// KPIReportDTO carries the workload metrics of one engine run.
type KPIReportDTO struct {
	TotalWorkers       int     `json:"total_workers"`
	TotalTasks         int     `json:"total_tasks"`
	TotalAssignedHours int     `json:"total_assigned_hours"`
	UnassignedHours    int     `json:"unassigned_hours"`
	NumDays            int     `json:"num_days"`
	MaxPossibleHours   int     `json:"max_possible_hours"`
	UtilizationRate    float64 `json:"utilization_rate"`
	MaxWorkerLoad      int     `json:"max_worker_load"`
	GiniCoefficient    float64 `json:"gini_coefficient"`
}

// SummaryDTO carries the headline counts of one engine run.
type SummaryDTO struct {
	AssignedCount     int      `json:"assigned_count"`
	UnassignedCount   int      `json:"unassigned_count"`
	UnassignedTaskIDs []string `json:"unassigned_task_ids"`
	DistinctPositions int      `json:"distinct_position_count_among_workers"`
}

// AssignTasksResponse is the full payload of POST /api/assign-tasks.
type AssignTasksResponse struct {
	Assignments []AssignmentDTO `json:"assignments"`
	KPIMetrics  KPIReportDTO    `json:"kpi_metrics"`
	Summary     SummaryDTO      `json:"summary"`
}

// ScenarioDTO represents a demo scenario.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func toPositionDTO(p engine.Position) PositionDTO {
	return PositionDTO{ID: string(p.ID), Name: p.Name}
}

func toWorkerDTO(w engine.Worker) WorkerDTO {
	return WorkerDTO{ID: string(w.ID), Name: w.Name, PositionID: string(w.Position)}
}

func toTaskDTO(t engine.Task) TaskDTO {
	return TaskDTO{
		ID:         string(t.ID),
		Name:       t.Name,
		PositionID: string(t.Position),
		Duration:   t.Duration,
		Date:       t.Date.String(),
	}
}

func toAssignmentDTO(a engine.Assignment) AssignmentDTO {
	return AssignmentDTO{
		TaskID:   string(a.TaskID),
		WorkerID: string(a.WorkerID),
		WorkDate: a.WorkDate.String(),
		Hours:    a.Hours,
	}
}

func toAssignmentDTOs(assignments []engine.Assignment) []AssignmentDTO {
	dtos := make([]AssignmentDTO, len(assignments))
	for i, a := range assignments {
		dtos[i] = toAssignmentDTO(a)
	}
	return dtos
}

func toAssignmentRecordDTOs(records []engine.AssignmentRecord) []AssignmentRecordDTO {
	dtos := make([]AssignmentRecordDTO, len(records))
	for i, r := range records {
		dtos[i] = AssignmentRecordDTO{
			TaskID:     string(r.TaskID),
			WorkerID:   string(r.WorkerID),
			WorkerName: r.WorkerName,
			WorkDate:   r.WorkDate.String(),
			Hours:      r.Hours,
			Position:   r.PositionName,
		}
	}
	return dtos
}

func toKPIReportDTO(k engine.KPIReport) KPIReportDTO {
	return KPIReportDTO{
		TotalWorkers:       k.TotalWorkers,
		TotalTasks:         k.TotalTasks,
		TotalAssignedHours: k.TotalAssignedHours,
		UnassignedHours:    k.UnassignedHours,
		NumDays:            k.NumDays,
		MaxPossibleHours:   k.MaxPossibleHours,
		UtilizationRate:    k.UtilizationRate,
		MaxWorkerLoad:      k.MaxWorkerLoad,
		GiniCoefficient:    k.GiniCoefficient,
	}
}

func toSummaryDTO(s engine.Summary) SummaryDTO {
	ids := make([]string, len(s.UnassignedTaskIDs))
	for i, id := range s.UnassignedTaskIDs {
		ids[i] = string(id)
	}
	return SummaryDTO{
		AssignedCount:     s.AssignedCount,
		UnassignedCount:   s.UnassignedCount,
		UnassignedTaskIDs: ids,
		DistinctPositions: s.DistinctPositions,
	}
}
