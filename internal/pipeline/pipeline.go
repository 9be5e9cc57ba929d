package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	sharedretry "github.com/couchcryptid/storm-data-shared/retry"

	"github.com/couchcryptid/pachawayra-service/internal/domain"
	"github.com/couchcryptid/pachawayra-service/internal/observability"
)

const (
	initialBackoff = 200 * time.Millisecond
	maxBackoff     = 5 * time.Second
	drainTimeout   = 5 * time.Second
)

// BatchLoader writes multiple activity events to the destination.
type BatchLoader interface {
	LoadBatch(ctx context.Context, events []domain.ActivityEvent) error
}

// Pipeline buffers activity events recorded by request handlers and publishes
// them in batches. Recording never blocks; a full queue drops the event.
type Pipeline struct {
	loader        BatchLoader
	logger        *slog.Logger
	metrics       *observability.Metrics
	queue         chan domain.ActivityEvent
	batchSize     int
	flushInterval time.Duration
	running       atomic.Bool
}

// New creates a Pipeline with the given loader and observability.
func New(l BatchLoader, logger *slog.Logger, metrics *observability.Metrics, batchSize int, flushInterval time.Duration, queueSize int) *Pipeline {
	return &Pipeline{
		loader:        l,
		logger:        logger,
		metrics:       metrics,
		queue:         make(chan domain.ActivityEvent, queueSize),
		batchSize:     batchSize,
		flushInterval: flushInterval,
	}
}

// Record enqueues an event for publishing.
func (p *Pipeline) Record(e domain.ActivityEvent) {
	select {
	case p.queue <- e:
	default:
		p.metrics.ActivityDropped.Inc()
		p.logger.Warn("activity queue full, dropping event", "type", e.Type, "id", e.ID)
	}
}

// CheckReadiness returns nil while the publish loop is running.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.running.Load() {
		return errors.New("activity pipeline is not running")
	}
	return nil
}

// Run publishes batches until the context is cancelled, then drains the queue.
func (p *Pipeline) Run(ctx context.Context) error {
	p.logger.Info("pipeline started", "batch_size", p.batchSize, "flush_interval", p.flushInterval)
	p.metrics.PipelineRunning.Set(1)
	p.running.Store(true)
	defer func() {
		p.running.Store(false)
		p.metrics.PipelineRunning.Set(0)
	}()

	ticker := time.NewTicker(p.flushInterval)
	defer ticker.Stop()

	batch := make([]domain.ActivityEvent, 0, p.batchSize)
	for {
		select {
		case <-ctx.Done():
			p.logger.Info("pipeline stopping", "reason", ctx.Err())
			p.drain(batch)
			return nil
		case e := <-p.queue:
			batch = append(batch, e)
			if len(batch) >= p.batchSize {
				batch = p.flush(ctx, batch)
			}
		case <-ticker.C:
			batch = p.flush(ctx, batch)
		}
	}
}

// flush publishes batch, retrying with exponential backoff until it succeeds or
// ctx ends. It returns the emptied batch for reuse.
func (p *Pipeline) flush(ctx context.Context, batch []domain.ActivityEvent) []domain.ActivityEvent {
	if len(batch) == 0 {
		return batch
	}
	start := time.Now()
	backoff := initialBackoff

	for {
		err := p.loader.LoadBatch(ctx, batch)
		if err == nil {
			p.metrics.ActivityPublished.Add(float64(len(batch)))
			p.metrics.BatchSize.Observe(float64(len(batch)))
			p.metrics.BatchProcessingDuration.Observe(time.Since(start).Seconds())
			return batch[:0]
		}

		p.metrics.ActivityPublishErrors.Inc()
		p.logger.Error("load batch failed", "error", err, "batch_size", len(batch))
		if ctx.Err() != nil || !sharedretry.SleepWithContext(ctx, backoff) {
			// The drain on shutdown gets one more attempt at these events.
			return batch
		}
		backoff = sharedretry.NextBackoff(backoff, maxBackoff)
	}
}

// drain makes a final bounded attempt to publish what is pending.
func (p *Pipeline) drain(batch []domain.ActivityEvent) {
	// Run is the only consumer, so the length check cannot race.
	for len(p.queue) > 0 {
		batch = append(batch, <-p.queue)
	}
	if len(batch) == 0 {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), drainTimeout)
	defer cancel()
	if err := p.loader.LoadBatch(ctx, batch); err != nil {
		p.metrics.ActivityPublishErrors.Inc()
		p.logger.Error("final flush failed, events lost", "error", err, "count", len(batch))
		return
	}
	p.metrics.ActivityPublished.Add(float64(len(batch)))
	p.logger.Info("pipeline drained", "count", len(batch))
}

// Discard is a recorder that drops every event. It stands in when the activity
// stream is disabled.
type Discard struct{}

func (Discard) Record(domain.ActivityEvent) {}
