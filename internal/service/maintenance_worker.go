package service

import (
	"context"
	"log"
	"time"
)

// Read notifications older than this are eligible for pruning.
const notificationRetentionDays = 30

// MaintenanceWorker is a periodic background job that prunes old read
// notifications and keeps the trending feed cache warm.
type MaintenanceWorker struct {
	notifications *NotificationService
	videos        *VideoService
	cache         *CacheService
	interval      time.Duration
	stopCh        chan struct{}
}

// NewMaintenanceWorker creates a worker that ticks every interval.
func NewMaintenanceWorker(notifications *NotificationService, videos *VideoService, cache *CacheService, interval time.Duration) *MaintenanceWorker {
	return &MaintenanceWorker{
		notifications: notifications,
		videos:        videos,
		cache:         cache,
		interval:      interval,
		stopCh:        make(chan struct{}),
	}
}

// Start begins the periodic maintenance loop. It runs one tick immediately,
// then every interval.
func (w *MaintenanceWorker) Start(ctx context.Context) {
	log.Printf("maintenance-worker: starting (interval=%s)", w.interval)

	w.tick(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.tick(ctx)
		case <-ctx.Done():
			log.Println("maintenance-worker: stopping (context cancelled)")
			return
		case <-w.stopCh:
			log.Println("maintenance-worker: stopping (stop signal)")
			return
		}
	}
}

// Stop signals the worker to stop.
func (w *MaintenanceWorker) Stop() {
	close(w.stopCh)
}

// tick runs one cycle: prune read notifications, then refresh the trend feed.
func (w *MaintenanceWorker) tick(ctx context.Context) {
	start := time.Now()

	pruned, err := w.notifications.PruneRead(ctx, notificationRetentionDays)
	if err != nil {
		log.Printf("maintenance-worker: notification prune error: %v", err)
	}

	if err := w.refreshTrend(ctx); err != nil {
		log.Printf("maintenance-worker: trend refresh error: %v", err)
	}

	elapsed := time.Since(start)
	log.Printf("maintenance-worker: tick complete, %d notifications pruned (%s)",
		pruned, elapsed.Round(time.Millisecond))
}

// refreshTrend rewrites the trending feed cache entry so interactive requests
// rarely pay for the ranking query.
func (w *MaintenanceWorker) refreshTrend(ctx context.Context) error {
	if w.cache == nil || w.cache.Client() == nil {
		return nil
	}
	videos, err := w.videos.repo.Trend(ctx, feedLimit)
	if err != nil {
		return err
	}
	return w.cache.Set(ctx, TrendKey, videos, TrendCacheTTL)
}
