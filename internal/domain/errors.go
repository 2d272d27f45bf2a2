package domain

import "errors"

// Failure kinds surfaced by the inference pipeline. Each is joined to its
// cause so callers can match with errors.Is.
var (
	ErrInvalidRequest     = errors.New("invalid request")
	ErrLocationNotFound   = errors.New("location not found")
	ErrDataError          = errors.New("terrain data error")
	ErrWeatherUnavailable = errors.New("weather unavailable")
	ErrClassifier         = errors.New("classifier error")
	ErrClassifierContract = errors.New("classifier contract violation")
)

// Kind returns a stable label for err, used in metrics and logs.
func Kind(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, ErrInvalidRequest):
		return "invalid_request"
	case errors.Is(err, ErrLocationNotFound):
		return "location_not_found"
	case errors.Is(err, ErrDataError):
		return "data_error"
	case errors.Is(err, ErrWeatherUnavailable):
		return "weather_unavailable"
	case errors.Is(err, ErrClassifierContract):
		return "classifier_contract_error"
	case errors.Is(err, ErrClassifier):
		return "classifier_error"
	default:
		return "internal_error"
	}
}
