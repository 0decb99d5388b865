package services

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"room-scheduler/internal/core/domain"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// DefaultRefreshSchedule refreshes the schedule every 15 minutes
const DefaultRefreshSchedule = "*/15 * * * *"

const refreshTimeout = 30 * time.Second

// ErrRefresherRunning is returned by StartRefresher until Stop is called
var ErrRefresherRunning = errors.New("schedule refresher already running")

// RowCache keeps the latest schedule rows in memory. Concurrent refreshes
// share one fetch, and a failed refresh leaves the previous rows in place.
type RowCache struct {
	source ScheduleSource
	now    func() time.Time
	logger *zap.Logger

	group singleflight.Group

	mu        sync.RWMutex
	rows      []domain.ScheduleRow
	loaded    bool
	fetchedAt time.Time

	cron *cron.Cron
}

// NewRowCache creates a new row cache over source
func NewRowCache(source ScheduleSource, now func() time.Time, logger *zap.Logger) *RowCache {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RowCache{source: source, now: now, logger: logger}
}

// Rows returns the cached rows, fetching them on first use
func (c *RowCache) Rows(ctx context.Context) ([]domain.ScheduleRow, error) {
	c.mu.RLock()
	if c.loaded {
		rows := slices.Clone(c.rows)
		c.mu.RUnlock()
		return rows, nil
	}
	c.mu.RUnlock()

	return c.Refresh(ctx)
}

// Refresh fetches from the source and replaces the cached rows
func (c *RowCache) Refresh(ctx context.Context) ([]domain.ScheduleRow, error) {
	// the shared fetch must not die with whichever caller started it
	fetchCtx := context.WithoutCancel(ctx)

	v, err, shared := c.group.Do("rows", func() (any, error) {
		fetchCtx, cancel := context.WithTimeout(fetchCtx, refreshTimeout)
		defer cancel()

		rows, err := c.source.FetchRows(fetchCtx)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.rows = rows
		c.loaded = true
		c.fetchedAt = c.now()
		c.mu.Unlock()

		c.logger.Info("schedule rows refreshed", zap.Int("rows", len(rows)))
		return rows, nil
	})
	if err != nil {
		c.logger.Warn("schedule refresh failed", zap.Bool("shared", shared), zap.Error(err))
		return nil, err
	}

	return slices.Clone(v.([]domain.ScheduleRow)), nil
}

// FetchedAt reports when rows were last loaded
func (c *RowCache) FetchedAt() (time.Time, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.fetchedAt, c.loaded
}

// StartRefresher refreshes the cache in the background on a cron schedule.
// Only one refresher runs at a time.
func (c *RowCache) StartRefresher(schedule string) error {
	if schedule == "" {
		schedule = DefaultRefreshSchedule
	}

	cr := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	_, err := cr.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
		defer cancel()
		_, _ = c.Refresh(ctx)
	})
	if err != nil {
		return err
	}

	c.mu.Lock()
	if c.cron != nil {
		c.mu.Unlock()
		return ErrRefresherRunning
	}
	c.cron = cr
	c.mu.Unlock()

	c.logger.Info("schedule refresher started", zap.String("schedule", schedule))
	cr.Start()
	return nil
}

// Stop halts the refresher and waits for a running refresh to finish
func (c *RowCache) Stop(ctx context.Context) {
	c.mu.Lock()
	cr := c.cron
	c.cron = nil
	c.mu.Unlock()

	if cr == nil {
		return
	}

	select {
	case <-cr.Stop().Done():
	case <-ctx.Done():
	}
}
