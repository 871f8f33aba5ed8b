package portfolio

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/dobbo22/StockTradingApp/internal/common"
	"github.com/dobbo22/StockTradingApp/internal/models"
)

// blockingPortfolioService counts ComputeSnapshot calls and holds each one
// until release is closed.
type blockingPortfolioService struct {
	mu      sync.Mutex
	calls   int
	release chan struct{}
}

func (b *blockingPortfolioService) ComputeSnapshot(ctx context.Context, userID string) (*models.PortfolioSnapshot, error) {
	b.mu.Lock()
	b.calls++
	b.mu.Unlock()
	select {
	case <-b.release:
	case <-ctx.Done():
	}
	return &models.PortfolioSnapshot{UserID: userID}, nil
}

func (b *blockingPortfolioService) callCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls
}

func TestRefresher_SingleFlightPerUser(t *testing.T) {
	svc := &blockingPortfolioService{release: make(chan struct{})}
	r := NewRefresher(svc, time.Minute, common.NewSilentLogger())
	r.Track("u1")

	ctx := context.Background()

	// First tick starts a computation that blocks; further ticks must skip
	// the user instead of stacking requests.
	r.refreshAll(ctx)
	waitFor(t, func() bool { return svc.callCount() == 1 })

	r.refreshAll(ctx)
	r.refreshAll(ctx)
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 1, svc.callCount(), "overlapping ticks must not start a second computation")

	// Once the in-flight computation finishes, the next tick runs again.
	close(svc.release)
	waitFor(t, func() bool {
		r.mu.Lock()
		defer r.mu.Unlock()
		return !r.inFlight["u1"]
	})

	r.refreshAll(ctx)
	waitFor(t, func() bool { return svc.callCount() == 2 })
}

func TestRefresher_UntrackedUserNotRefreshed(t *testing.T) {
	svc := &blockingPortfolioService{release: make(chan struct{})}
	close(svc.release)

	r := NewRefresher(svc, time.Minute, common.NewSilentLogger())
	r.Track("u1")
	r.Untrack("u1")

	r.refreshAll(context.Background())
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 0, svc.callCount())
}

func TestRefresher_ZeroIntervalDisablesLoop(t *testing.T) {
	svc := &blockingPortfolioService{release: make(chan struct{})}
	r := NewRefresher(svc, 0, common.NewSilentLogger())
	r.Track("u1")

	done := make(chan struct{})
	go func() {
		r.Run(context.Background())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run should return immediately with a zero interval")
	}
	assert.Equal(t, 0, svc.callCount())
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met within deadline")
}
