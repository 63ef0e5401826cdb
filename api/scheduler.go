/*
scheduler.go - Automated assignment scheduler

PURPOSE:
  Periodically runs the engine over the upcoming task window so the
  schedule fills itself without anyone calling the assign endpoint.

DESIGN:
  - Runs a background goroutine with configurable check interval
  - Each pass covers [today, today+Horizon] inclusive
  - Skips passes where the window holds no unassigned tasks
  - Shares runAssignment with the HTTP handler, so persistence and
    metrics behave identically to a manual run

CONFIGURATION:
  - CheckInterval: How often to run (default: 1 hour)
  - Horizon: Days past today each pass covers (default: 7)
  - Enabled: Whether the scheduler is active (default: false)

USAGE:
  aa := NewAutoAssigner(handler)
  aa.Start()
  // ... later
  aa.Stop()

SEE ALSO:
  - handlers.go: runAssignment, AssignTasks (manual trigger)
  - config/config.go: The autoassign section that tunes this
*/
package api

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/warp/workforce-engine/engine"
)

// AutoAssigner periodically assigns the upcoming task backlog.
type AutoAssigner struct {
	Handler       *Handler
	CheckInterval time.Duration
	Horizon       int
	Enabled       bool

	ticker *time.Ticker
	stop   chan bool
	wg     sync.WaitGroup
	mu     sync.Mutex
}

// NewAutoAssigner creates a new auto-assigner. Disabled by default; callers
// flip Enabled and tune the interval before Start.
func NewAutoAssigner(handler *Handler) *AutoAssigner {
	return &AutoAssigner{
		Handler:       handler,
		CheckInterval: 1 * time.Hour,
		Horizon:       7,
		stop:          make(chan bool),
	}
}

// Start begins the scheduler.
func (a *AutoAssigner) Start() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.Enabled {
		log.Println("[AutoAssign] Disabled, not starting")
		return
	}

	a.ticker = time.NewTicker(a.CheckInterval)
	a.wg.Add(1)

	go a.run()

	log.Printf("[AutoAssign] Started with check interval: %v, horizon: %d days", a.CheckInterval, a.Horizon)
}

// Stop stops the scheduler.
func (a *AutoAssigner) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.ticker != nil {
		a.ticker.Stop()
		close(a.stop)
		a.wg.Wait()
		log.Println("[AutoAssign] Stopped")
	}
}

func (a *AutoAssigner) run() {
	defer a.wg.Done()

	// Run immediately on start
	a.checkAndAssign()

	for {
		select {
		case <-a.ticker.C:
			a.checkAndAssign()
		case <-a.stop:
			return
		}
	}
}

func (a *AutoAssigner) checkAndAssign() {
	ctx := context.Background()

	from := engine.Today()
	to := from.AddDays(a.Horizon)

	pending, err := a.Handler.Store.UnassignedTasksInRange(ctx, from, to)
	if err != nil {
		log.Printf("[AutoAssign] Error listing unassigned tasks: %v", err)
		return
	}
	if len(pending) == 0 {
		return
	}

	result, err := a.Handler.runAssignment(ctx, from, to, a.Handler.DefaultStrategy, a.Handler.DefaultCapacity)
	if err != nil {
		log.Printf("[AutoAssign] Assignment run failed: %v", err)
		return
	}

	log.Printf("[AutoAssign] Window %s..%s: %d assigned, %d unassigned",
		from, to, result.Summary.AssignedCount, result.Summary.UnassignedCount)
}

// RunNow triggers an immediate pass (for testing/admin).
func (a *AutoAssigner) RunNow() {
	a.checkAndAssign()
}
