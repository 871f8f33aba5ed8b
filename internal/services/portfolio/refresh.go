package portfolio

import (
	"context"
	"sync"
	"time"

	"github.com/dobbo22/StockTradingApp/internal/common"
	"github.com/dobbo22/StockTradingApp/internal/interfaces"
)

// Refresher periodically recomputes snapshots for tracked users with an
// at-most-one-in-flight-per-user guard: a tick that finds a computation
// still outstanding for a user skips that user rather than queueing a
// second request against the quote provider.
type Refresher struct {
	service  interfaces.PortfolioService
	interval time.Duration
	logger   *common.Logger

	mu       sync.Mutex
	tracked  map[string]bool
	inFlight map[string]bool
}

// NewRefresher creates a refresher driving the given portfolio service.
func NewRefresher(service interfaces.PortfolioService, interval time.Duration, logger *common.Logger) *Refresher {
	return &Refresher{
		service:  service,
		interval: interval,
		logger:   logger,
		tracked:  make(map[string]bool),
		inFlight: make(map[string]bool),
	}
}

// Track registers a user for periodic recomputation.
func (r *Refresher) Track(userID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tracked[userID] = true
}

// IsTracked reports whether a user is registered for periodic recomputation.
func (r *Refresher) IsTracked(userID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.tracked[userID]
}

// Untrack stops periodic recomputation for a user.
func (r *Refresher) Untrack(userID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.tracked, userID)
}

// Run drives the refresh loop until the context is cancelled. Blocking;
// callers launch it in a goroutine.
func (r *Refresher) Run(ctx context.Context) {
	if r.interval <= 0 {
		r.logger.Info().Msg("Snapshot refresher disabled")
		return
	}

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.logger.Info().Dur("interval", r.interval).Msg("Snapshot refresher started")

	for {
		select {
		case <-ctx.Done():
			r.logger.Info().Msg("Snapshot refresher stopped")
			return
		case <-ticker.C:
			r.refreshAll(ctx)
		}
	}
}

func (r *Refresher) refreshAll(ctx context.Context) {
	r.mu.Lock()
	users := make([]string, 0, len(r.tracked))
	for u := range r.tracked {
		users = append(users, u)
	}
	r.mu.Unlock()

	for _, userID := range users {
		r.refreshOne(ctx, userID)
	}
}

// refreshOne recomputes a single user's snapshot unless one is already in
// flight for them.
func (r *Refresher) refreshOne(ctx context.Context, userID string) {
	r.mu.Lock()
	if r.inFlight[userID] {
		r.mu.Unlock()
		r.logger.Debug().Str("user", userID).Msg("Refresh still in flight, skipping tick")
		return
	}
	r.inFlight[userID] = true
	r.mu.Unlock()

	go func() {
		defer func() {
			r.mu.Lock()
			delete(r.inFlight, userID)
			r.mu.Unlock()
		}()

		if _, err := r.service.ComputeSnapshot(ctx, userID); err != nil {
			r.logger.Warn().Err(err).Str("user", userID).Msg("Scheduled snapshot refresh failed")
		}
	}()
}
