package services

import (
	"context"
	"sync"
	"time"

	"github.com/quizmaster/quizmaster-backend/internal/logger"
)

// LeaderboardRefresher periodically rebuilds every profile's aggregates
// and the rank ordering, repairing any staleness left by submissions whose
// post-commit recompute failed. It can be started and stopped at runtime
// through the maintenance endpoints.
type LeaderboardRefresher struct {
	log         *logger.Logger
	leaderboard LeaderboardService
	interval    time.Duration

	mu     sync.Mutex
	cancel context.CancelFunc
}

func NewLeaderboardRefresher(log *logger.Logger, leaderboard LeaderboardService, interval time.Duration) *LeaderboardRefresher {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &LeaderboardRefresher{
		log:         log.With("service", "LeaderboardRefresher"),
		leaderboard: leaderboard,
		interval:    interval,
	}
}

func (r *LeaderboardRefresher) Interval() time.Duration {
	return r.interval
}

func (r *LeaderboardRefresher) Running() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cancel != nil
}

// Start launches the refresh loop. It reports false when the loop is
// already running.
func (r *LeaderboardRefresher) Start() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cancel != nil {
		return false
	}
	ctx, cancel := context.WithCancel(context.Background())
	r.cancel = cancel
	go r.run(ctx)
	return true
}

// Stop halts the refresh loop. It reports false when the loop was not
// running.
func (r *LeaderboardRefresher) Stop() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cancel == nil {
		return false
	}
	r.cancel()
	r.cancel = nil
	return true
}

func (r *LeaderboardRefresher) run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	r.log.Info("Leaderboard refresher started", "interval", r.interval.String())
	for {
		select {
		case <-ctx.Done():
			r.log.Info("Leaderboard refresher stopped")
			return
		case <-ticker.C:
			r.refreshOnce(ctx)
		}
	}
}

func (r *LeaderboardRefresher) refreshOnce(ctx context.Context) {
	updated, err := r.leaderboard.RecomputeAllStats(ctx)
	if err != nil {
		r.log.Error("Scheduled stats recompute failed", "error", err)
		return
	}
	if err := r.leaderboard.RecomputeAllRanks(ctx); err != nil {
		r.log.Error("Scheduled rank recompute failed", "error", err)
		return
	}
	r.log.Info("Scheduled leaderboard refresh completed", "profiles_updated", updated)
}
