package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "pachawayra"

// Metrics holds the Prometheus counters, histograms, and gauges for the planner service.
type Metrics struct {
	// Planner metrics.
	Projections *prometheus.CounterVec // labels: view={overview,weather,recommendations,alerts,sites,site_detail,export,greeting}
	NoData      *prometheus.CounterVec // labels: lookup={weather,sites,alerts,department,site}

	// Place search metrics.
	PlaceSearchRequests *prometheus.CounterVec   // labels: provider, outcome={success,error,empty}
	PlaceSearchCache    *prometheus.CounterVec   // labels: result={hit,miss}
	PlaceSearchDuration *prometheus.HistogramVec // labels: provider
	PlaceSearchEnabled  prometheus.Gauge

	// Favorites and export metrics.
	FavoritesMutations   *prometheus.CounterVec // labels: op={add,remove,clear}
	PDFExports           *prometheus.CounterVec // labels: outcome={success,error}
	PDFImagePlaceholders prometheus.Counter

	// Activity stream metrics.
	ActivityPublished       prometheus.Counter
	ActivityDropped         prometheus.Counter
	ActivityPublishErrors   prometheus.Counter
	PipelineRunning         prometheus.Gauge
	BatchSize               prometheus.Histogram
	BatchProcessingDuration prometheus.Histogram
}

func newMetrics() *Metrics {
	return &Metrics{
		Projections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "projections_total",
			Help:      "View-models computed by view.",
		}, []string{"view"}),
		NoData: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "no_data_total",
			Help:      "Reference-data lookups that found nothing, by lookup.",
		}, []string{"lookup"}),
		PlaceSearchRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "place_search_requests_total",
			Help:      "Place search provider requests by provider and outcome.",
		}, []string{"provider", "outcome"}),
		PlaceSearchCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "place_search_cache_total",
			Help:      "Place search cache lookups by result.",
		}, []string{"result"}),
		PlaceSearchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "place_search_duration_seconds",
			Help:      "Place search provider request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"provider"}),
		PlaceSearchEnabled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "place_search_enabled",
			Help:      "1 when a place search provider is configured, 0 otherwise.",
		}),
		FavoritesMutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "favorites_mutations_total",
			Help:      "Favorites list mutations by operation.",
		}, []string{"op"}),
		PDFExports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pdf_exports_total",
			Help:      "PDF trip sheet exports by outcome.",
		}, []string{"outcome"}),
		PDFImagePlaceholders: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pdf_image_placeholders_total",
			Help:      "Site images replaced by a placeholder during PDF export.",
		}),
		ActivityPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "activity_events_published_total",
			Help:      "Activity events written to the activity topic.",
		}),
		ActivityDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "activity_events_dropped_total",
			Help:      "Activity events dropped because the queue was full.",
		}),
		ActivityPublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "activity_publish_errors_total",
			Help:      "Failed activity batch writes and serialization errors.",
		}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pipeline_running",
			Help:      "1 when the activity pipeline is active, 0 when shut down.",
		}),
		BatchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_size",
			Help:      "Number of activity events per published batch.",
			Buckets:   []float64{1, 5, 10, 20, 30, 40, 50, 75, 100},
		}),
		BatchProcessingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_processing_duration_seconds",
			Help:      "Duration of a complete activity batch publish.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		}),
	}
}

// NewMetrics creates and registers all service metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(m.collectors()...)
	return m
}

// NewMetricsForTesting creates unregistered Metrics to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func (m *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.Projections,
		m.NoData,
		m.PlaceSearchRequests,
		m.PlaceSearchCache,
		m.PlaceSearchDuration,
		m.PlaceSearchEnabled,
		m.FavoritesMutations,
		m.PDFExports,
		m.PDFImagePlaceholders,
		m.ActivityPublished,
		m.ActivityDropped,
		m.ActivityPublishErrors,
		m.PipelineRunning,
		m.BatchSize,
		m.BatchProcessingDuration,
	}
}
