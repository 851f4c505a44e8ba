package pairing

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// ErrReportInProgress is the user-visible rejection when a second report
// run is attempted while one is active. Safe to retry later.
var ErrReportInProgress = errors.New("a pairing report is already running")

// Guard is the process-wide single-flight state for pairing report runs.
// Exactly two states, idle and running; at most one run is ever active.
type Guard struct {
	mu        sync.Mutex
	running   bool
	startedAt time.Time
	cancel    context.CancelFunc
}

func NewGuard() *Guard {
	return &Guard{}
}

// Start transitions idle to running and returns a context the run must
// observe for cancellation. Fails with the elapsed running time when a
// run is already active.
func (g *Guard) Start(ctx context.Context) (context.Context, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.running {
		elapsed := time.Since(g.startedAt).Round(time.Second)
		return nil, fmt.Errorf("%w (started %s ago)", ErrReportInProgress, elapsed)
	}

	runCtx, cancel := context.WithCancel(ctx)
	g.running = true
	g.startedAt = time.Now()
	g.cancel = cancel
	return runCtx, nil
}

// Finish transitions back to idle unconditionally. The run's cleanup
// path must always call it, error or not, so the guard never wedges.
func (g *Guard) Finish() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.cancel != nil {
		g.cancel()
		g.cancel = nil
	}
	g.running = false
}

// Cancel signals the active run to stop. The state stays running until
// the run observes the signal and calls Finish.
func (g *Guard) Cancel() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.cancel != nil {
		g.cancel()
	}
}

// Status reports whether a run is active and for how long.
func (g *Guard) Status() (running bool, elapsed time.Duration) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.running {
		return false, 0
	}
	return true, time.Since(g.startedAt)
}
