package pipeline_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/pachawayra-service/internal/domain"
	"github.com/couchcryptid/pachawayra-service/internal/observability"
	"github.com/couchcryptid/pachawayra-service/internal/pipeline"
)

// --- mocks ---

type mockLoader struct {
	mu       sync.Mutex
	batches  [][]domain.ActivityEvent
	failures int // fail this many calls before succeeding
}

func (m *mockLoader) LoadBatch(_ context.Context, events []domain.ActivityEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failures > 0 {
		m.failures--
		return errors.New("broker unavailable")
	}
	m.batches = append(m.batches, append([]domain.ActivityEvent(nil), events...))
	return nil
}

func (m *mockLoader) loaded() []domain.ActivityEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.ActivityEvent
	for _, b := range m.batches {
		out = append(out, b...)
	}
	return out
}

func (m *mockLoader) batchCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.batches)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func event(siteID string) domain.ActivityEvent {
	return domain.NewActivityEvent(domain.ActivityFavoriteAdded, siteID, "Cusco", time.Now())
}

func start(t *testing.T, p *pipeline.Pipeline) (cancel func()) {
	t.Helper()
	ctx, cancelCtx := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		assert.NoError(t, p.Run(ctx))
	}()
	require.Eventually(t, func() bool { return p.CheckReadiness(context.Background()) == nil },
		time.Second, 5*time.Millisecond)
	return func() {
		cancelCtx()
		<-done
	}
}

// --- tests ---

func TestPipeline_FlushesFullBatch(t *testing.T) {
	ldr := &mockLoader{}
	metrics := observability.NewMetricsForTesting()
	p := pipeline.New(ldr, discardLogger(), metrics, 2, time.Hour, 10)
	stop := start(t, p)
	defer stop()

	p.Record(event("1"))
	p.Record(event("2"))

	require.Eventually(t, func() bool { return ldr.batchCount() == 1 }, time.Second, 5*time.Millisecond)
	assert.Len(t, ldr.loaded(), 2)
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.ActivityPublished))
}

func TestPipeline_FlushesOnInterval(t *testing.T) {
	ldr := &mockLoader{}
	p := pipeline.New(ldr, discardLogger(), observability.NewMetricsForTesting(), 100, 20*time.Millisecond, 10)
	stop := start(t, p)
	defer stop()

	p.Record(event("12"))

	require.Eventually(t, func() bool { return len(ldr.loaded()) == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, "12", ldr.loaded()[0].SiteID)
}

func TestPipeline_RetriesFailedBatch(t *testing.T) {
	ldr := &mockLoader{failures: 1}
	metrics := observability.NewMetricsForTesting()
	p := pipeline.New(ldr, discardLogger(), metrics, 1, time.Hour, 10)
	stop := start(t, p)
	defer stop()

	p.Record(event("12"))

	require.Eventually(t, func() bool { return len(ldr.loaded()) == 1 }, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.ActivityPublishErrors))
}

func TestPipeline_DrainsOnShutdown(t *testing.T) {
	ldr := &mockLoader{}
	p := pipeline.New(ldr, discardLogger(), observability.NewMetricsForTesting(), 100, time.Hour, 10)
	stop := start(t, p)

	p.Record(event("1"))
	p.Record(event("2"))
	stop()

	assert.Len(t, ldr.loaded(), 2)
	assert.Error(t, p.CheckReadiness(context.Background()))
}

func TestPipeline_RecordDropsWhenQueueFull(t *testing.T) {
	metrics := observability.NewMetricsForTesting()
	p := pipeline.New(&mockLoader{}, discardLogger(), metrics, 10, time.Hour, 1)

	p.Record(event("1"))
	p.Record(event("2"))

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.ActivityDropped))
}

func TestPipeline_NotReadyBeforeRun(t *testing.T) {
	p := pipeline.New(&mockLoader{}, discardLogger(), observability.NewMetricsForTesting(), 10, time.Second, 1)

	assert.Error(t, p.CheckReadiness(context.Background()))
}

func TestPipeline_CancelledContextReturnsNil(t *testing.T) {
	ldr := &mockLoader{}
	p := pipeline.New(ldr, discardLogger(), observability.NewMetricsForTesting(), 10, time.Second, 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.NoError(t, p.Run(ctx))
	assert.Empty(t, ldr.loaded())
}

func TestDiscard(t *testing.T) {
	assert.NotPanics(t, func() { pipeline.Discard{}.Record(event("1")) })
}
