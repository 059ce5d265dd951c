// internal/app/system/workers/statecleanup.go
package workers

import (
	"context"
	"sync"
	"time"

	oauthstatestore "github.com/fittedapp/fitted/internal/app/store/oauthstate"
	"go.uber.org/zap"
)

// StateCleanup is a background worker that reaps OAuth state tokens
// whose sign-in flow never came back.
type StateCleanup struct {
	states   *oauthstatestore.Store
	log      *zap.Logger
	interval time.Duration
	stopCh   chan struct{}
	wg       sync.WaitGroup
}

// NewStateCleanup creates a new state cleanup worker. The interval
// controls how often expired states are swept (e.g., 10 minutes).
func NewStateCleanup(states *oauthstatestore.Store, logger *zap.Logger, interval time.Duration) *StateCleanup {
	return &StateCleanup{
		states:   states,
		log:      logger,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Start begins the background sweep loop.
func (w *StateCleanup) Start() {
	w.wg.Add(1)
	go w.run()
	w.log.Info("oauth state cleanup worker started",
		zap.Duration("interval", w.interval))
}

// Stop signals the worker to stop and waits for it to finish.
func (w *StateCleanup) Stop() {
	close(w.stopCh)
	w.wg.Wait()
	w.log.Info("oauth state cleanup worker stopped")
}

func (w *StateCleanup) run() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.sweep()
		}
	}
}

func (w *StateCleanup) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	count, err := w.states.DeleteExpired(ctx)
	if err != nil {
		w.log.Error("failed to delete expired oauth states", zap.Error(err))
		return
	}
	if count > 0 {
		w.log.Debug("expired oauth states deleted", zap.Int64("count", count))
	}
}
