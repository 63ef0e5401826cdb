package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry is the dedicated Prometheus registry for the server.
	Registry = prometheus.NewRegistry()

	// HTTPRequests counts requests by method, path, and status.
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "http_requests_total", Help: "Total HTTP requests."},
		[]string{"method", "path", "status"},
	)
	// HTTPDuration records request durations in seconds.
	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "http_request_duration_seconds", Help: "HTTP request duration in seconds.", Buckets: prometheus.DefBuckets},
		[]string{"method", "path", "status"},
	)

	// AssignmentRuns counts engine runs by strategy and outcome.
	AssignmentRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "assignment_runs_total", Help: "Assignment engine runs by strategy and outcome."},
		[]string{"strategy", "outcome"},
	)
	// AssignmentDuration records engine run durations in seconds.
	AssignmentDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "assignment_duration_seconds", Help: "Assignment engine run duration in seconds.", Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10}},
		[]string{"strategy"},
	)
	// TasksAssigned counts tasks the engine paired with a worker.
	TasksAssigned = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "tasks_assigned_total", Help: "Tasks assigned to workers, by strategy."},
		[]string{"strategy"},
	)
	// TasksUnassigned counts tasks left without a worker after a run.
	TasksUnassigned = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "tasks_unassigned_total", Help: "Tasks left unassigned after a run, by strategy."},
		[]string{"strategy"},
	)
	// SolverNodes tracks branch-and-bound nodes explored per exact solve.
	SolverNodes = prometheus.NewHistogram(
		prometheus.HistogramOpts{Name: "solver_nodes_explored", Help: "Branch-and-bound nodes explored per exact solve.", Buckets: prometheus.ExponentialBuckets(1, 4, 10)},
	)
)

var regOnce sync.Once

// RegisterDefault registers all collectors on the package registry.
func RegisterDefault() {
	regOnce.Do(func() {
		Registry.MustRegister(HTTPRequests)
		Registry.MustRegister(HTTPDuration)
		Registry.MustRegister(AssignmentRuns)
		Registry.MustRegister(AssignmentDuration)
		Registry.MustRegister(TasksAssigned)
		Registry.MustRegister(TasksUnassigned)
		Registry.MustRegister(SolverNodes)
		// Go/process collectors on our registry
		Registry.MustRegister(collectors.NewGoCollector())
		Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	})
}

// Handler serves the registry in Prometheus exposition format.
func Handler() http.Handler {
	RegisterDefault()
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}
