// Package classify implements the hybrid intent classification stack:
// a regex/keyword pattern matcher (fast path), a term-frequency cosine
// similarity matcher, and the ensemble resolver that merges both into one
// decision with ranked alternatives.
package classify

import "github.com/falaconta/falaconta/nlu/catalog"

// Method tags which classifier produced a result.
type Method string

const (
	MethodPattern    Method = "pattern"
	MethodSimilarity Method = "similarity"
	MethodEnsemble   Method = "ensemble"
)

// Result is the output of a single classifier or of the ensemble.
type Result struct {
	Intent     catalog.Intent `json:"intent"`
	Confidence float32        `json:"confidence"`
	Method     Method         `json:"method"`
	// Alternatives is a ranked list of competing intents, highest
	// confidence first, never including unknown. Populated by the ensemble.
	Alternatives []Alternative `json:"alternatives,omitempty"`
}

// Alternative is a competing intent with the best confidence either
// classifier assigned to it.
type Alternative struct {
	Intent     catalog.Intent `json:"intent"`
	Confidence float32        `json:"confidence"`
}

// unknownResult is the shared no-match result.
func unknownResult(method Method) Result {
	return Result{Intent: catalog.Unknown, Confidence: 0, Method: method}
}
