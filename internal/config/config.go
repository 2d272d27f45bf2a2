package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Terrain dataset sources.
const (
	TerrainSourceCSV      = "csv"
	TerrainSourcePostgres = "postgres"
)

// Classifier implementations.
const (
	ClassifierLogistic = "logistic"
	ClassifierRemote   = "remote"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	CORSAllowedOrigins []string
	StaticDir          string

	// Terrain dataset configuration.
	TerrainSource       string
	TerrainCSVPath      string
	DatabaseURL         string
	TerrainWarnDistance float64

	// Nominatim geocoding configuration.
	GeocoderBaseURL   string
	GeocoderUserAgent string
	GeocoderTimeout   time.Duration
	GeocoderRateLimit float64
	GeocoderCacheTTL  time.Duration

	// WeatherAPI configuration.
	WeatherAPIKey  string
	WeatherBaseURL string
	WeatherTimeout time.Duration

	// Classifier configuration.
	ClassifierKind      string
	ClassifierModelPath string
	ClassifierURL       string
	ClassifierTimeout   time.Duration

	// Assessment event stream configuration.
	KafkaEnabled bool
	KafkaBrokers []string
	KafkaTopic   string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	geocoderTimeout, err := parseDuration("GEOCODER_TIMEOUT", "5s")
	if err != nil {
		return nil, err
	}
	weatherTimeout, err := parseDuration("WEATHER_TIMEOUT", "5s")
	if err != nil {
		return nil, err
	}
	classifierTimeout, err := parseDuration("CLASSIFIER_TIMEOUT", "5s")
	if err != nil {
		return nil, err
	}

	cacheTTL, err := time.ParseDuration(sharedcfg.EnvOrDefault("GEOCODER_CACHE_TTL", "24h"))
	if err != nil || cacheTTL < 0 {
		return nil, errors.New("invalid GEOCODER_CACHE_TTL")
	}

	rateLimit, err := parsePositiveFloat("GEOCODER_RATE_LIMIT", "1")
	if err != nil {
		return nil, err
	}
	warnDistance, err := parseNonNegativeFloat("TERRAIN_WARN_DISTANCE", "0.5")
	if err != nil {
		return nil, err
	}

	kafkaBrokers := sharedcfg.ParseBrokers(os.Getenv("KAFKA_BROKERS"))
	kafkaEnabled := len(kafkaBrokers) > 0
	if v := os.Getenv("KAFKA_ENABLED"); v != "" {
		kafkaEnabled = v == "true"
	}

	cfg := &Config{
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		CORSAllowedOrigins: sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("CORS_ALLOWED_ORIGINS", "*")),
		StaticDir:          os.Getenv("STATIC_DIR"),

		TerrainSource:       strings.ToLower(sharedcfg.EnvOrDefault("TERRAIN_SOURCE", TerrainSourceCSV)),
		TerrainCSVPath:      sharedcfg.EnvOrDefault("TERRAIN_CSV_PATH", "extracted_features.csv"),
		DatabaseURL:         os.Getenv("DATABASE_URL"),
		TerrainWarnDistance: warnDistance,

		GeocoderBaseURL:   sharedcfg.EnvOrDefault("GEOCODER_BASE_URL", "https://nominatim.openstreetmap.org"),
		GeocoderUserAgent: sharedcfg.EnvOrDefault("GEOCODER_USER_AGENT", "TerrainAlert-App"),
		GeocoderTimeout:   geocoderTimeout,
		GeocoderRateLimit: rateLimit,
		GeocoderCacheTTL:  cacheTTL,

		WeatherAPIKey:  os.Getenv("WEATHER_API_KEY"),
		WeatherBaseURL: sharedcfg.EnvOrDefault("WEATHER_BASE_URL", "http://api.weatherapi.com/v1"),
		WeatherTimeout: weatherTimeout,

		ClassifierKind:      strings.ToLower(sharedcfg.EnvOrDefault("CLASSIFIER_KIND", ClassifierLogistic)),
		ClassifierModelPath: sharedcfg.EnvOrDefault("CLASSIFIER_MODEL_PATH", "model/landslide_model.yaml"),
		ClassifierURL:       os.Getenv("CLASSIFIER_URL"),
		ClassifierTimeout:   classifierTimeout,

		KafkaEnabled: kafkaEnabled,
		KafkaBrokers: kafkaBrokers,
		KafkaTopic:   sharedcfg.EnvOrDefault("KAFKA_TOPIC", "landslide-assessments"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.TerrainSource {
	case TerrainSourceCSV:
		if c.TerrainCSVPath == "" {
			return errors.New("TERRAIN_CSV_PATH is required")
		}
	case TerrainSourcePostgres:
		if c.DatabaseURL == "" {
			return errors.New("TERRAIN_SOURCE is postgres but DATABASE_URL is not set")
		}
	default:
		return fmt.Errorf("invalid TERRAIN_SOURCE %q", c.TerrainSource)
	}

	switch c.ClassifierKind {
	case ClassifierLogistic:
		if c.ClassifierModelPath == "" {
			return errors.New("CLASSIFIER_MODEL_PATH is required")
		}
	case ClassifierRemote:
		if c.ClassifierURL == "" {
			return errors.New("CLASSIFIER_KIND is remote but CLASSIFIER_URL is not set")
		}
	default:
		return fmt.Errorf("invalid CLASSIFIER_KIND %q", c.ClassifierKind)
	}

	if c.WeatherAPIKey == "" {
		return errors.New("WEATHER_API_KEY is required")
	}
	if c.KafkaEnabled && len(c.KafkaBrokers) == 0 {
		return errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is not set")
	}
	if c.KafkaEnabled && c.KafkaTopic == "" {
		return errors.New("KAFKA_TOPIC is required")
	}
	return nil
}

func parseDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(sharedcfg.EnvOrDefault(key, def))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parseNonNegativeFloat(key, def string) (float64, error) {
	v, err := strconv.ParseFloat(sharedcfg.EnvOrDefault(key, def), 64)
	if err != nil || v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return v, nil
}

func parsePositiveFloat(key, def string) (float64, error) {
	v, err := strconv.ParseFloat(sharedcfg.EnvOrDefault(key, def), 64)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return v, nil
}
