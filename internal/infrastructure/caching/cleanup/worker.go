// Package cleanup provides the background cache maintenance worker
package cleanup

import (
	"context"
	"time"

	"github.com/NaijaReels/naijareels-go/internal/infrastructure/caching/interfaces"
	"github.com/NaijaReels/naijareels-go/internal/infrastructure/observability/logging"
)

// Worker ages out cache entries in the background so a long-lived client
// session never serves arbitrarily old data as fresh.
type Worker struct {
	cache  interfaces.MaintenanceCache
	config *Config
	logger *logging.ChanneledLogger
}

// NewWorker creates a new cleanup worker with injected configuration
func NewWorker(cache interfaces.MaintenanceCache, config *Config, logger *logging.ChanneledLogger) *Worker {
	return &Worker{
		cache:  cache,
		config: config,
		logger: logger,
	}
}

// Start begins the cleanup worker routine, using the configured interval.
// It blocks until the context is cancelled; run it in its own goroutine.
func (w *Worker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.config.CleanupInterval)
	defer ticker.Stop()

	if w.logger != nil {
		w.logger.Cleanup().Info("Cache cleanup worker started",
			"interval", w.config.CleanupInterval, "entryTTL", w.config.EntryTTL)
	}

	for {
		select {
		case <-ctx.Done():
			if w.logger != nil {
				w.logger.Cleanup().Info("Cache cleanup worker stopping")
			}
			return
		case <-ticker.C:
			w.performCleanup()
		}
	}
}

// performCleanup marks entries past the TTL as stale
func (w *Worker) performCleanup() {
	start := time.Now()
	aged := w.cache.MarkStaleOlderThan(w.config.EntryTTL)
	duration := time.Since(start)

	if w.logger == nil {
		return
	}
	if aged > 0 {
		w.logger.Cleanup().Info("Cache cleanup finished",
			"agedEntries", aged, "totalEntries", w.cache.Len(), "duration", duration)
	} else if w.config.VerboseReporting {
		w.logger.Cleanup().Debug("Cache cleanup completed, nothing to age out",
			"totalEntries", w.cache.Len(), "duration", duration)
	}
}
