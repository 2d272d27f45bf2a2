// Package weatherapi implements domain.WeatherGateway against the
// WeatherAPI.com current conditions endpoint.
package weatherapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/terrainalert/landslide-risk-service/internal/domain"
	"github.com/terrainalert/landslide-risk-service/internal/observability"
)

const upstream = "weather"

var errNoCurrent = errors.New("response has no current conditions")

// Client implements domain.WeatherGateway.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a WeatherAPI client with the given request timeout.
func NewClient(baseURL, apiKey string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		metrics: metrics,
		logger:  logger,
	}
}

// CurrentWeather returns the current rainfall, temperature and humidity at
// the given coordinate. Fields missing from an otherwise valid response are
// reported as zero.
func (c *Client) CurrentWeather(ctx context.Context, lat, lon float64) (domain.WeatherObservation, error) {
	params := url.Values{
		"key": {c.apiKey},
		"q":   {formatCoord(lat) + "," + formatCoord(lon)},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/current.json?"+params.Encode(), nil)
	if err != nil {
		return domain.WeatherObservation{}, fmt.Errorf("create request: %w", err)
	}

	start := time.Now()
	obs, err := c.do(req)
	c.metrics.UpstreamDuration.WithLabelValues(upstream).Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.UpstreamRequests.WithLabelValues(upstream, "error").Inc()
		c.logger.Debug("weather request failed", "lat", lat, "lon", lon, "error", err)
		return domain.WeatherObservation{}, err
	}
	c.metrics.UpstreamRequests.WithLabelValues(upstream, "success").Inc()
	return obs, nil
}

func (c *Client) do(req *http.Request) (domain.WeatherObservation, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.WeatherObservation{}, fmt.Errorf("weather request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var apiErr errorResponse
		_ = json.NewDecoder(io.LimitReader(resp.Body, 1<<10)).Decode(&apiErr)
		if apiErr.Error.Message != "" {
			return domain.WeatherObservation{}, fmt.Errorf("weather API error: status %d: %s", resp.StatusCode, apiErr.Error.Message)
		}
		return domain.WeatherObservation{}, fmt.Errorf("weather API error: status %d", resp.StatusCode)
	}

	var body response
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&body); err != nil {
		return domain.WeatherObservation{}, fmt.Errorf("decode response: %w", err)
	}
	if body.Current == nil {
		return domain.WeatherObservation{}, errNoCurrent
	}

	obs := domain.WeatherObservation{
		RainfallMM:      deref(body.Current.PrecipMM),
		TemperatureC:    deref(body.Current.TempC),
		HumidityPercent: deref(body.Current.Humidity),
	}
	if err := obs.Validate(); err != nil {
		return domain.WeatherObservation{}, err
	}
	return obs, nil
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

// WeatherAPI response types. Only the fields the model consumes are decoded.

type response struct {
	Current *current `json:"current"`
}

type current struct {
	PrecipMM *float64 `json:"precip_mm"`
	TempC    *float64 `json:"temp_c"`
	Humidity *float64 `json:"humidity"`
}

type errorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}
