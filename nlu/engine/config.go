package engine

import (
	"time"

	"github.com/pkg/errors"

	"github.com/falaconta/falaconta/nlu/classify"
	"github.com/falaconta/falaconta/nlu/normalizer"
)

// Config holds the engine's tunables with documented defaults. Validated at
// construction and on every runtime update.
type Config struct {
	// HighThreshold: at or above it the decision is accepted as-is.
	HighThreshold float32 `json:"high_threshold"`
	// MediumThreshold: between medium and high the user is asked to confirm.
	MediumThreshold float32 `json:"medium_threshold"`
	// LowThreshold marks the floor below which a result is treated as noise
	// by downstream dialogue policy.
	LowThreshold float32 `json:"low_threshold"`
	// FastPathThreshold: a pattern-classifier confidence at or above it
	// skips the similarity classifier entirely.
	FastPathThreshold float32 `json:"fast_path_threshold"`

	// CacheTTL is the result-cache entry lifetime.
	CacheTTL time.Duration `json:"cache_ttl"`
	// CacheCapacity bounds the result cache.
	CacheCapacity int `json:"cache_capacity"`

	// MaxInputChars caps utterance length before tokenization.
	MaxInputChars int `json:"max_input_chars"`
	// ProcessingBudget is the soft latency budget; overruns are flagged in
	// result metadata, never aborted. Zero disables the check.
	ProcessingBudget time.Duration `json:"processing_budget"`

	// Ensemble carries the voting constants.
	Ensemble classify.EnsembleConfig `json:"ensemble"`
	// Normalizer toggles the normalization steps.
	Normalizer normalizer.Options `json:"normalizer"`
}

// DefaultConfig returns the stock configuration.
func DefaultConfig() Config {
	return Config{
		HighThreshold:     0.8,
		MediumThreshold:   0.6,
		LowThreshold:      0.4,
		FastPathThreshold: 0.9,
		CacheTTL:          time.Hour,
		CacheCapacity:     1000,
		MaxInputChars:     1000,
		ProcessingBudget:  200 * time.Millisecond,
		Ensemble:          classify.DefaultEnsembleConfig(),
		Normalizer:        normalizer.DefaultOptions(),
	}
}

// Validate rejects configurations that would break the confidence and cache
// invariants.
func (c Config) Validate() error {
	for name, v := range map[string]float32{
		"high_threshold":      c.HighThreshold,
		"medium_threshold":    c.MediumThreshold,
		"low_threshold":       c.LowThreshold,
		"fast_path_threshold": c.FastPathThreshold,
	} {
		if v < 0 || v > 1 {
			return errors.Errorf("%s %f out of range [0,1]", name, v)
		}
	}
	if !(c.LowThreshold <= c.MediumThreshold && c.MediumThreshold < c.HighThreshold) {
		return errors.Errorf("thresholds must satisfy low <= medium < high, got %f/%f/%f",
			c.LowThreshold, c.MediumThreshold, c.HighThreshold)
	}
	if c.CacheTTL <= 0 {
		return errors.New("cache TTL must be positive")
	}
	if c.CacheCapacity <= 0 {
		return errors.New("cache capacity must be positive")
	}
	if c.MaxInputChars <= 0 {
		return errors.New("max input chars must be positive")
	}
	if c.ProcessingBudget < 0 {
		return errors.New("processing budget must not be negative")
	}
	if !c.Ensemble.Validate() {
		return errors.New("invalid ensemble configuration")
	}
	return nil
}

// ConfigPatch is a partial runtime update; nil fields keep current values.
// Only threshold, cache and budget tunables are patchable at runtime —
// normalizer options and ensemble weights are baked into the similarity
// vectors and rule closures at construction.
type ConfigPatch struct {
	HighThreshold      *float32 `json:"high_threshold,omitempty"`
	MediumThreshold    *float32 `json:"medium_threshold,omitempty"`
	LowThreshold       *float32 `json:"low_threshold,omitempty"`
	FastPathThreshold  *float32 `json:"fast_path_threshold,omitempty"`
	CacheTTLSeconds    *int     `json:"cache_ttl_seconds,omitempty"`
	CacheCapacity      *int     `json:"cache_capacity,omitempty"`
	ProcessingBudgetMS *int     `json:"processing_budget_ms,omitempty"`
}

// apply merges the patch into a copy of cfg.
func (p ConfigPatch) apply(cfg Config) Config {
	if p.HighThreshold != nil {
		cfg.HighThreshold = *p.HighThreshold
	}
	if p.MediumThreshold != nil {
		cfg.MediumThreshold = *p.MediumThreshold
	}
	if p.LowThreshold != nil {
		cfg.LowThreshold = *p.LowThreshold
	}
	if p.FastPathThreshold != nil {
		cfg.FastPathThreshold = *p.FastPathThreshold
	}
	if p.CacheTTLSeconds != nil {
		cfg.CacheTTL = time.Duration(*p.CacheTTLSeconds) * time.Second
	}
	if p.CacheCapacity != nil {
		cfg.CacheCapacity = *p.CacheCapacity
	}
	if p.ProcessingBudgetMS != nil {
		cfg.ProcessingBudget = time.Duration(*p.ProcessingBudgetMS) * time.Millisecond
	}
	return cfg
}
