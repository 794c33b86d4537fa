// Package ports defines the interfaces the scoring pipeline consumes.
// The classifier is injected so the pipeline never touches process-wide
// credentials and can be swapped or faked in tests.
package ports

import "context"

// Analysis is the classifier's verdict on a minutes text.
type Analysis struct {
	Score             int
	Status            string
	Reasoning         string
	DealBreakersFound bool
}

// Classifier scores free-text meeting minutes.
type Classifier interface {
	// Configured reports whether the classifier can issue real requests.
	// An unconfigured classifier triggers the simulated fallback path.
	Configured() bool
	// Classify scores the minutes text.
	Classify(ctx context.Context, text string) (Analysis, error)
}
