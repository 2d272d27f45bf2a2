package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKind(t *testing.T) {
	cause := errors.New("boom")

	assert.Equal(t, "success", Kind(nil))
	assert.Equal(t, "invalid_request", Kind(fmt.Errorf("%w: place is required", ErrInvalidRequest)))
	assert.Equal(t, "location_not_found", Kind(fmt.Errorf("%w: %w", ErrLocationNotFound, cause)))
	assert.Equal(t, "data_error", Kind(ErrDataError))
	assert.Equal(t, "weather_unavailable", Kind(fmt.Errorf("%w: %w", ErrWeatherUnavailable, cause)))
	assert.Equal(t, "classifier_error", Kind(fmt.Errorf("%w: %w", ErrClassifier, cause)))
	assert.Equal(t, "classifier_contract_error", Kind(ValidateProbability(1.5)))
	assert.Equal(t, "internal_error", Kind(cause))
}
