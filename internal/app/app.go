// Package app assembles the risk pipeline and its collaborators from
// configuration. It is shared by the server and the CLI.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"

	"github.com/terrainalert/landslide-risk-service/internal/adapter/kafka"
	"github.com/terrainalert/landslide-risk-service/internal/adapter/nominatim"
	"github.com/terrainalert/landslide-risk-service/internal/adapter/weatherapi"
	"github.com/terrainalert/landslide-risk-service/internal/classifier"
	"github.com/terrainalert/landslide-risk-service/internal/config"
	"github.com/terrainalert/landslide-risk-service/internal/domain"
	"github.com/terrainalert/landslide-risk-service/internal/observability"
	"github.com/terrainalert/landslide-risk-service/internal/pipeline"
	"github.com/terrainalert/landslide-risk-service/internal/terrain"
)

// Env holds the built pipeline and the resources it owns.
type Env struct {
	Pipeline   *pipeline.Pipeline
	Index      *terrain.Index
	Classifier domain.Classifier
	Publisher  *kafka.Publisher // nil when the event stream is disabled
}

// Close releases resources held by the environment.
func (e *Env) Close() error {
	if e.Publisher != nil {
		return e.Publisher.Close()
	}
	return nil
}

// Build loads the terrain index and classifier concurrently, then wires the
// upstream clients and pipeline. Callers should defer env.Close().
func Build(ctx context.Context, cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) (*Env, error) {
	var (
		idx *terrain.Index
		clf domain.Classifier
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		idx, err = LoadTerrain(gctx, cfg, logger)
		return err
	})
	g.Go(func() error {
		var err error
		clf, err = NewClassifier(cfg, logger)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var geocoder domain.Geocoder = nominatim.NewClient(cfg.GeocoderBaseURL, cfg.GeocoderUserAgent,
		cfg.GeocoderTimeout, cfg.GeocoderRateLimit, metrics, logger)
	if cfg.GeocoderCacheTTL > 0 {
		geocoder = nominatim.NewCachedGeocoder(geocoder, cfg.GeocoderCacheTTL, metrics)
		logger.Info("geocode cache enabled", "ttl", cfg.GeocoderCacheTTL)
	}
	weather := weatherapi.NewClient(cfg.WeatherBaseURL, cfg.WeatherAPIKey, cfg.WeatherTimeout, metrics, logger)

	env := &Env{Index: idx, Classifier: clf}
	opts := []pipeline.Option{pipeline.WithWarnDistance(cfg.TerrainWarnDistance)}
	if cfg.KafkaEnabled {
		env.Publisher = kafka.NewPublisher(cfg, metrics, logger)
		opts = append(opts, pipeline.WithPublisher(env.Publisher))
		logger.Info("assessment stream enabled", "topic", cfg.KafkaTopic, "brokers", cfg.KafkaBrokers)
	} else {
		logger.Info("assessment stream disabled")
	}

	env.Pipeline = pipeline.New(idx, geocoder, weather, clf, logger, metrics, opts...)
	return env, nil
}

// LoadTerrain reads the configured terrain source and builds the index.
// An empty dataset is a domain.ErrDataError.
func LoadTerrain(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*terrain.Index, error) {
	var (
		samples []domain.TerrainSample
		stats   terrain.LoadStats
		err     error
		source  string
	)
	switch cfg.TerrainSource {
	case config.TerrainSourcePostgres:
		source = "postgres"
		samples, stats, err = loadPostgres(ctx, cfg.DatabaseURL)
	default:
		source = cfg.TerrainCSVPath
		samples, stats, err = terrain.LoadCSVFile(cfg.TerrainCSVPath)
	}
	if err != nil {
		return nil, err
	}

	idx, err := terrain.Build(samples)
	if err != nil {
		return nil, err
	}
	b := idx.Bounds()
	logger.Info("terrain index loaded",
		"source", source,
		"samples", idx.Len(),
		"rows_read", stats.Read,
		"rows_skipped", stats.Skipped,
		"lat_range", []float64{b.MinLat, b.MaxLat},
		"lon_range", []float64{b.MinLon, b.MaxLon},
	)
	return idx, nil
}

func loadPostgres(ctx context.Context, url string) ([]domain.TerrainSample, terrain.LoadStats, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, terrain.LoadStats{}, fmt.Errorf("connect terrain database: %w", err)
	}
	defer pool.Close()
	return terrain.LoadPostgres(ctx, pool)
}

// NewClassifier builds the configured classifier.
func NewClassifier(cfg *config.Config, logger *slog.Logger) (domain.Classifier, error) {
	switch cfg.ClassifierKind {
	case config.ClassifierRemote:
		logger.Info("remote classifier", "url", cfg.ClassifierURL, "timeout", cfg.ClassifierTimeout)
		return classifier.NewRemote(cfg.ClassifierURL, cfg.ClassifierTimeout), nil
	case config.ClassifierLogistic, "":
		clf, err := classifier.LoadLogistic(cfg.ClassifierModelPath)
		if err != nil {
			return nil, err
		}
		m := clf.Model()
		logger.Info("logistic classifier loaded", "path", cfg.ClassifierModelPath, "name", m.Name, "version", m.Version)
		return clf, nil
	default:
		return nil, fmt.Errorf("unknown classifier kind %q", cfg.ClassifierKind)
	}
}
