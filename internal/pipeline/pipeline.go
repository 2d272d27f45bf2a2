package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/terrainalert/landslide-risk-service/internal/domain"
	"github.com/terrainalert/landslide-risk-service/internal/observability"
	"github.com/terrainalert/landslide-risk-service/internal/terrain"
)

// Publisher receives every successful assessment.
type Publisher interface {
	Publish(ctx context.Context, a domain.RiskAssessment) error
}

// readinessChecker is implemented by collaborators that can report whether
// they are able to serve.
type readinessChecker interface {
	CheckReadiness(ctx context.Context) error
}

// Pipeline runs a place name through geocoding, terrain lookup, weather,
// feature assembly, and classification. It holds no per-request state and
// is safe for concurrent use.
type Pipeline struct {
	index        *terrain.Index
	geocoder     domain.Geocoder
	weather      domain.WeatherGateway
	classifier   domain.Classifier
	publisher    Publisher
	clock        clockwork.Clock
	warnDistance float64
	logger       *slog.Logger
	metrics      *observability.Metrics
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithClock sets the clock used for assessment timestamps and durations.
func WithClock(c clockwork.Clock) Option {
	return func(p *Pipeline) { p.clock = c }
}

// WithPublisher forwards successful assessments to pub.
func WithPublisher(pub Publisher) Option {
	return func(p *Pipeline) { p.publisher = pub }
}

// WithWarnDistance logs a warning when the matched terrain sample is
// further than d degrees from the resolved location. Zero disables it.
func WithWarnDistance(d float64) Option {
	return func(p *Pipeline) { p.warnDistance = d }
}

// New creates a Pipeline over a built terrain index and its collaborators.
func New(index *terrain.Index, geocoder domain.Geocoder, weather domain.WeatherGateway, classifier domain.Classifier, logger *slog.Logger, metrics *observability.Metrics, opts ...Option) *Pipeline {
	p := &Pipeline{
		index:      index,
		geocoder:   geocoder,
		weather:    weather,
		classifier: classifier,
		clock:      clockwork.NewRealClock(),
		logger:     logger,
		metrics:    metrics,
	}
	for _, opt := range opts {
		opt(p)
	}
	if index != nil {
		metrics.TerrainSamples.Set(float64(index.Len()))
	}
	return p
}

// CheckReadiness returns nil when the terrain index is loaded and the
// classifier, if it can tell, is able to score.
func (p *Pipeline) CheckReadiness(ctx context.Context) error {
	if p.index == nil || p.index.Len() == 0 {
		return errors.New("terrain index is not loaded")
	}
	if rc, ok := p.classifier.(readinessChecker); ok {
		if err := rc.CheckReadiness(ctx); err != nil {
			return fmt.Errorf("classifier not ready: %w", err)
		}
	}
	return nil
}

// Assess produces a risk assessment for place. It either returns a complete
// assessment or an error matching exactly one of the domain error kinds.
func (p *Pipeline) Assess(ctx context.Context, place string) (domain.RiskAssessment, error) {
	start := p.clock.Now()
	a, err := p.assess(ctx, place)
	p.metrics.AssessmentDuration.Observe(p.clock.Since(start).Seconds())
	p.metrics.Assessments.WithLabelValues(domain.Kind(err)).Inc()

	if err != nil {
		p.logFailure(place, err)
		return domain.RiskAssessment{}, err
	}

	p.metrics.RiskTiers.WithLabelValues(string(a.RiskTier)).Inc()
	p.logger.Info("assessment complete",
		"id", a.ID,
		"place", a.Place,
		"lat", a.Latitude,
		"lon", a.Longitude,
		"terrain_distance", a.TerrainDistance,
		"probability", a.Probability,
		"tier", a.RiskTier,
	)
	p.publish(ctx, a)
	return a, nil
}

func (p *Pipeline) assess(ctx context.Context, place string) (domain.RiskAssessment, error) {
	name, err := trimPlace(place)
	if err != nil {
		return domain.RiskAssessment{}, err
	}
	if p.index == nil || p.index.Len() == 0 {
		return domain.RiskAssessment{}, fmt.Errorf("%w: terrain index is not loaded", domain.ErrDataError)
	}

	loc, err := p.geocoder.Geocode(ctx, name)
	if err != nil {
		return domain.RiskAssessment{}, fmt.Errorf("%w: %w", domain.ErrLocationNotFound, err)
	}
	if !loc.Matched {
		return domain.RiskAssessment{}, fmt.Errorf("%w: no match for %q", domain.ErrLocationNotFound, name)
	}

	match := p.index.Nearest(loc.Lat, loc.Lon)
	p.metrics.NearestDistance.Observe(match.Distance)
	if p.warnDistance > 0 && match.Distance > p.warnDistance {
		p.logger.Warn("nearest terrain sample is far from location",
			"place", name,
			"distance", match.Distance,
			"threshold", p.warnDistance,
		)
	}

	weather, err := p.weather.CurrentWeather(ctx, loc.Lat, loc.Lon)
	if err != nil {
		return domain.RiskAssessment{}, fmt.Errorf("%w: %w", domain.ErrWeatherUnavailable, err)
	}
	if err := weather.Validate(); err != nil {
		return domain.RiskAssessment{}, fmt.Errorf("%w: %w", domain.ErrWeatherUnavailable, err)
	}

	fv, err := buildFeatures(match.Sample, weather)
	if err != nil {
		return domain.RiskAssessment{}, err
	}

	prob, err := p.score(ctx, fv)
	if err != nil {
		return domain.RiskAssessment{}, err
	}
	tier := domain.TierFor(prob)

	return domain.RiskAssessment{
		ID:              uuid.NewString(),
		Place:           displayPlace(name),
		Latitude:        loc.Lat,
		Longitude:       loc.Lon,
		RiskTier:        tier,
		Risk:            tier.Label(),
		Probability:     prob,
		Weather:         weather,
		Terrain:         match.Sample,
		TerrainDistance: match.Distance,
		AssessedAt:      p.clock.Now().UTC(),
	}, nil
}

func (p *Pipeline) score(ctx context.Context, fv domain.FeatureVector) (float64, error) {
	start := p.clock.Now()
	prob, err := p.classifier.Score(ctx, fv)
	p.metrics.UpstreamDuration.WithLabelValues("classifier").Observe(p.clock.Since(start).Seconds())
	if err != nil {
		p.metrics.UpstreamRequests.WithLabelValues("classifier", "error").Inc()
		if errors.Is(err, domain.ErrClassifierContract) {
			return 0, err
		}
		return 0, fmt.Errorf("%w: %w", domain.ErrClassifier, err)
	}
	p.metrics.UpstreamRequests.WithLabelValues("classifier", "success").Inc()

	if err := domain.ValidateProbability(prob); err != nil {
		return 0, err
	}
	return prob, nil
}

// logFailure logs expected failures quietly and classifier faults loudly.
func (p *Pipeline) logFailure(place string, err error) {
	kind := domain.Kind(err)
	switch kind {
	case "classifier_contract_error", "classifier_error":
		p.logger.Error("classifier failed", "kind", kind, "place", place, "error", err)
	case "weather_unavailable", "data_error":
		p.logger.Warn("assessment failed", "kind", kind, "place", place, "error", err)
	default:
		p.logger.Info("assessment rejected", "kind", kind, "place", place, "error", err)
	}
}

// publish forwards the assessment. Delivery problems never fail the request.
func (p *Pipeline) publish(ctx context.Context, a domain.RiskAssessment) {
	if p.publisher == nil {
		return
	}
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := p.publisher.Publish(pubCtx, a); err != nil {
		p.metrics.PublishErrors.Inc()
		p.logger.Warn("publish assessment failed", "id", a.ID, "error", err)
	}
}
