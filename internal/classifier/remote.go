package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/terrainalert/landslide-risk-service/internal/domain"
)

// Remote delegates scoring to an HTTP model server.
type Remote struct {
	baseURL    string
	httpClient *http.Client
}

// NewRemote creates a client for the model server at baseURL.
func NewRemote(baseURL string, timeout time.Duration) *Remote {
	return &Remote{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

type scoreRequest struct {
	Features map[string]float64 `json:"features"`
	Values   []float64          `json:"values"`
}

type scoreResponse struct {
	Probability *float64 `json:"probability"`
}

// Score posts the feature vector to /score and returns the probability.
func (r *Remote) Score(ctx context.Context, fv domain.FeatureVector) (float64, error) {
	body, err := json.Marshal(scoreRequest{Features: fv.Named(), Values: fv.Values()})
	if err != nil {
		return 0, fmt.Errorf("marshal score request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+"/score", bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("score request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<10))
		return 0, fmt.Errorf("model server error: status %d: %s", resp.StatusCode, msg)
	}

	var out scoreResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return 0, fmt.Errorf("decode score response: %w", err)
	}
	if out.Probability == nil {
		return 0, errors.New("score response has no probability")
	}
	return *out.Probability, nil
}

// CheckReadiness reports whether the model server answers its health probe.
func (r *Remote) CheckReadiness(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("create health request: %w", err)
	}
	resp, err := r.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("model server health: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("model server health: status %d", resp.StatusCode)
	}
	return nil
}
