package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aussiebroadwan/hubsite/internal/auth/store"
	"github.com/aussiebroadwan/hubsite/pkg/metricsx"
	"github.com/robfig/cron/v3"
)

const (
	DefaultCleanupSchedule = "@weekly"

	// usedResetTokenRetention is how long consumed reset tokens are kept.
	usedResetTokenRetention = 24 * time.Hour
)

// CleanupResult counts the rows removed by one cleanup pass.
type CleanupResult struct {
	Sessions           int64 `json:"sessions"`
	ExpiredResetTokens int64 `json:"expiredResetTokens"`
	UsedResetTokens    int64 `json:"usedResetTokens"`
}

func (r CleanupResult) Total() int64 {
	return r.Sessions + r.ExpiredResetTokens + r.UsedResetTokens
}

// HousekeepingService deletes expired sessions and reset tokens on a cron
// schedule. It only deletes rows that can no longer be used, so it can run
// alongside live traffic.
type HousekeepingService struct {
	Store    store.Store
	Logger   *slog.Logger
	Schedule string // cron expression, defaults to @weekly
	Metrics  *metricsx.Metrics
	Now      func() time.Time

	cron *cron.Cron
	wg   sync.WaitGroup
}

// NewHousekeepingService creates a housekeeping service. An empty schedule
// defaults to weekly.
func NewHousekeepingService(st store.Store, logger *slog.Logger, schedule string) *HousekeepingService {
	if schedule == "" {
		schedule = DefaultCleanupSchedule
	}
	return &HousekeepingService{
		Store:    st,
		Logger:   logger,
		Schedule: schedule,
	}
}

func (s *HousekeepingService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Start schedules the cleanup job and runs one pass immediately in the
// background. It returns an error if the schedule cannot be parsed.
func (s *HousekeepingService) Start() error {
	c := cron.New()
	if _, err := c.AddFunc(s.Schedule, s.run); err != nil {
		return fmt.Errorf("invalid cleanup schedule %q: %w", s.Schedule, err)
	}
	s.cron = c

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.run()
	}()

	c.Start()
	s.Logger.Info("housekeeping service started", slog.String("schedule", s.Schedule))
	return nil
}

// Stop halts the scheduler and waits for running passes to finish or for ctx
// to be done, whichever comes first.
func (s *HousekeepingService) Stop(ctx context.Context) {
	if s.cron == nil {
		return
	}
	cronDone := s.cron.Stop()

	done := make(chan struct{})
	go func() {
		<-cronDone.Done()
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.Logger.Info("housekeeping service stopped")
	case <-ctx.Done():
		s.Logger.Warn("housekeeping service stop timed out")
	}
}

func (s *HousekeepingService) run() {
	if _, err := s.Cleanup(context.Background()); err != nil {
		s.Logger.Error("housekeeping cleanup failed", slog.Any("error", err))
	}
}

// Cleanup runs one pass. Each delete is independent: a failure is reported
// but does not stop the others.
func (s *HousekeepingService) Cleanup(ctx context.Context) (CleanupResult, error) {
	now := s.now()
	var (
		res  CleanupResult
		errs []error
	)

	s.Logger.Info("starting housekeeping cleanup")

	if n, err := s.Store.Sessions().DeleteExpiredSessions(ctx, now); err != nil {
		errs = append(errs, fmt.Errorf("delete expired sessions: %w", err))
	} else {
		res.Sessions = n
	}

	if n, err := s.Store.PasswordResets().DeleteExpiredResetTokens(ctx, now); err != nil {
		errs = append(errs, fmt.Errorf("delete expired reset tokens: %w", err))
	} else {
		res.ExpiredResetTokens = n
	}

	if n, err := s.Store.PasswordResets().DeleteUsedResetTokens(ctx, now.Add(-usedResetTokenRetention)); err != nil {
		errs = append(errs, fmt.Errorf("delete used reset tokens: %w", err))
	} else {
		res.UsedResetTokens = n
	}

	result := "success"
	if len(errs) > 0 {
		result = "error"
	}
	s.Metrics.CleanupRun(result, map[string]int64{
		"sessions":             res.Sessions,
		"expired_reset_tokens": res.ExpiredResetTokens,
		"used_reset_tokens":    res.UsedResetTokens,
	})

	s.Logger.Info("housekeeping cleanup completed",
		slog.Int64("sessions", res.Sessions),
		slog.Int64("expired_reset_tokens", res.ExpiredResetTokens),
		slog.Int64("used_reset_tokens", res.UsedResetTokens),
		slog.Int64("total", res.Total()),
	)
	return res, errors.Join(errs...)
}
