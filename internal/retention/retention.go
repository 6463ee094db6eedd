package retention

import (
	"context"
	"time"

	"github.com/go-co-op/gocron"
	"go.uber.org/zap"

	"github.com/ParapenteColina/weather-api/internal/weather"
)

// Pruner periodically deletes snapshot rows older than the retention window.
// Freshness for reads is evaluated per request; pruning only keeps the
// append-only tables from growing without bound.
type Pruner struct {
	scheduler *gocron.Scheduler
	store     weather.Store
	maxAge    time.Duration
	interval  time.Duration
	log       *zap.SugaredLogger
}

// New creates a Pruner that removes rows older than maxAge every interval.
func New(store weather.Store, maxAge, interval time.Duration, log *zap.SugaredLogger) *Pruner {
	return &Pruner{
		scheduler: gocron.NewScheduler(time.UTC),
		store:     store,
		maxAge:    maxAge,
		interval:  interval,
		log:       log,
	}
}

// Start schedules the pruning job and starts the underlying scheduler.
func (p *Pruner) Start() error {
	_, err := p.scheduler.Every(p.interval).Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		cutoff := time.Now().UTC().Add(-p.maxAge)
		removed, err := p.store.PruneBefore(ctx, cutoff)
		if err != nil {
			p.log.Warnw("snapshot pruning failed", "error", err)
			return
		}
		if removed > 0 {
			p.log.Infow("pruned expired snapshots", "removed", removed, "cutoff", cutoff)
		}
	})
	if err != nil {
		return err
	}

	p.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler and cancels any future runs.
func (p *Pruner) Stop() {
	if p.scheduler != nil {
		p.scheduler.Stop()
	}
}
