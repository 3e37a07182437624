package service

import (
	"context"
	"log/slog"
	"time"
)

// HousekeepingService periodically sweeps terminal invites past retention
// and drops idle rate limit buckets, keeping both tables bounded.
type HousekeepingService struct {
	Invites  *InviteService
	Logger   *slog.Logger
	Interval time.Duration

	// Internal channels for lifecycle management
	stopCh chan struct{}
	doneCh chan struct{}
}

// NewHousekeepingService creates a new housekeeping service with the given
// interval. If interval is 0 or negative, defaults to 1 hour.
func NewHousekeepingService(invites *InviteService, logger *slog.Logger, interval time.Duration) *HousekeepingService {
	if interval <= 0 {
		interval = 1 * time.Hour
	}

	return &HousekeepingService{
		Invites:  invites,
		Logger:   logger,
		Interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start begins the background worker that periodically runs cleanup.
// This is non-blocking and should be called after the database is ready.
// Call Stop() to gracefully shutdown the worker.
func (s *HousekeepingService) Start() {
	go s.run()
	s.Logger.Info("housekeeping service started", "interval", s.Interval)
}

// Stop gracefully shuts down the background worker.
// Blocks until the worker has finished any in-progress cleanup.
func (s *HousekeepingService) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("housekeeping service stopped")
}

func (s *HousekeepingService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	// Run cleanup immediately on startup
	s.cleanup()

	for {
		select {
		case <-ticker.C:
			s.cleanup()
		case <-s.stopCh:
			return
		}
	}
}

// cleanup runs the sweeps. Each is independent; a failure in one does not
// stop the others.
func (s *HousekeepingService) cleanup() {
	ctx := context.Background()
	s.Logger.Debug("starting housekeeping cleanup")

	swept, err := s.Invites.CleanupExpiredInvites(ctx)
	if err != nil {
		s.Logger.Error("failed to sweep terminal invites", "error", err)
	} else if swept > 0 {
		s.Logger.Info("terminal invites soft-deleted", "count", swept)
	}

	cutoff := s.Invites.now().Add(-24 * time.Hour)
	dropped, err := s.Invites.Store.RateLimits().DeleteIdleBuckets(ctx, cutoff)
	if err != nil {
		s.Logger.Error("failed to drop idle rate limit buckets", "error", err)
	} else if dropped > 0 {
		s.Logger.Debug("idle rate limit buckets dropped", "count", dropped)
	}
}
