package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "landslide_risk"

// Metrics holds the Prometheus counters, histograms, and gauges for the risk service.
type Metrics struct {
	Assessments        *prometheus.CounterVec // labels: outcome={success,invalid_request,location_not_found,...}
	RiskTiers          *prometheus.CounterVec // labels: tier={SAFE,LOW,MEDIUM,HIGH}
	AssessmentDuration prometheus.Histogram

	// Terrain index metrics.
	TerrainSamples  prometheus.Gauge
	NearestDistance prometheus.Histogram

	// Upstream metrics.
	UpstreamRequests *prometheus.CounterVec   // labels: upstream={geocoder,weather,classifier}, outcome={success,error,empty}
	UpstreamDuration *prometheus.HistogramVec // labels: upstream
	GeocodeCache     *prometheus.CounterVec   // labels: result={hit,miss}

	// Assessment stream metrics.
	PublishErrors prometheus.Counter
}

// NewMetrics creates and registers all service metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics(true)

	prometheus.MustRegister(
		m.Assessments,
		m.RiskTiers,
		m.AssessmentDuration,
		m.TerrainSamples,
		m.NearestDistance,
		m.UpstreamRequests,
		m.UpstreamDuration,
		m.GeocodeCache,
		m.PublishErrors,
	)

	return m
}

// NewMetricsForTesting creates Metrics without registering them, to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics(false)
}

func newMetrics(withHelp bool) *Metrics {
	help := func(s string) string {
		if withHelp {
			return s
		}
		return ""
	}

	return &Metrics{
		Assessments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "assessments_total",
			Help:      help("Risk assessments by outcome."),
		}, []string{"outcome"}),
		RiskTiers: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "risk_tier_total",
			Help:      help("Successful assessments by risk tier."),
		}, []string{"tier"}),
		AssessmentDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "assessment_duration_seconds",
			Help:      help("End-to-end duration of a risk assessment."),
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		TerrainSamples: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "terrain_samples",
			Help:      help("Number of terrain samples loaded into the index."),
		}),
		NearestDistance: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "nearest_terrain_distance_degrees",
			Help:      help("Planar distance between the query point and the matched terrain sample."),
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}),
		UpstreamRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_requests_total",
			Help:      help("Outbound requests by upstream and outcome."),
		}, []string{"upstream", "outcome"}),
		UpstreamDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "upstream_duration_seconds",
			Help:      help("Outbound request duration in seconds."),
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"upstream"}),
		GeocodeCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "geocode_cache_total",
			Help:      help("Geocoding cache lookups by result."),
		}, []string{"result"}),
		PublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "publish_errors_total",
			Help:      help("Assessments that failed to reach the event stream."),
		}),
	}
}
