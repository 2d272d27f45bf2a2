package pipeline

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/terrainalert/landslide-risk-service/internal/domain"
)

// trimPlace collapses whitespace in the place name, or returns
// ErrInvalidRequest when nothing is left. Case is preserved for the geocoder.
func trimPlace(place string) (string, error) {
	trimmed := strings.Join(strings.Fields(place), " ")
	if trimmed == "" {
		return "", fmt.Errorf("%w: place is required", domain.ErrInvalidRequest)
	}
	return trimmed, nil
}

// displayPlace title-cases a trimmed place name for the response.
func displayPlace(name string) string {
	// Casers keep state between calls and must not be shared across goroutines.
	return cases.Title(language.Und).String(name)
}

// buildFeatures assembles the classifier input and rejects vectors the
// classifier cannot accept.
func buildFeatures(sample domain.TerrainSample, weather domain.WeatherObservation) (domain.FeatureVector, error) {
	fv := domain.Assemble(sample, weather)
	if err := fv.Validate(); err != nil {
		return domain.FeatureVector{}, fmt.Errorf("%w: %w", domain.ErrClassifierContract, err)
	}
	return fv, nil
}
