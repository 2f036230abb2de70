package workers

import (
	"context"
	"time"

	"servifast_backend/internal/logger"
	"servifast_backend/internal/repositories"
)

// SubscriptionSweeper periodically expires lapsed Plus periods and clears the
// stale priority flags. The Status endpoint also downgrades lazily, so the
// sweeper only bounds how long a stale flag survives without traffic.
type SubscriptionSweeper struct {
	subRepo    repositories.SubscriptionRepository
	workerRepo repositories.WorkerRepository
	interval   time.Duration
}

func NewSubscriptionSweeper(
	subRepo repositories.SubscriptionRepository,
	workerRepo repositories.WorkerRepository,
	interval time.Duration,
) *SubscriptionSweeper {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	return &SubscriptionSweeper{
		subRepo:    subRepo,
		workerRepo: workerRepo,
		interval:   interval,
	}
}

// Run blocks until the context is cancelled. Call it in a goroutine.
func (s *SubscriptionSweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.sweep()
	for {
		select {
		case <-ctx.Done():
			logger.Info("subscription sweeper stopped")
			return
		case <-ticker.C:
			s.sweep()
		}
	}
}

func (s *SubscriptionSweeper) sweep() {
	now := time.Now()

	expired, err := s.subRepo.ExpireLapsed(now)
	if err != nil {
		logger.Error("failed to expire lapsed subscriptions", "error", err)
		return
	}

	cleared, err := s.workerRepo.ClearExpiredPlusFlags(now)
	if err != nil {
		logger.Error("failed to clear stale plus flags", "error", err)
		return
	}

	if expired > 0 || cleared > 0 {
		logger.Info("subscription sweep finished", "expired", expired, "flags_cleared", cleared)
	}
}
