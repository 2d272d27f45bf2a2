package domain

import "context"

// Classifier scores a feature vector with the probability of a landslide.
// Implementations must be safe for concurrent use.
type Classifier interface {
	Score(ctx context.Context, fv FeatureVector) (float64, error)
}
