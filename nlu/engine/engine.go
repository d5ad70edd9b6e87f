// Package engine orchestrates the NLU pipeline end to end: input validation,
// result cache, normalization, hybrid classification and the
// confirmation/disambiguation policy.
package engine

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/falaconta/falaconta/internal/strutil"
	"github.com/falaconta/falaconta/nlu/cache"
	"github.com/falaconta/falaconta/nlu/catalog"
	"github.com/falaconta/falaconta/nlu/classify"
	"github.com/falaconta/falaconta/nlu/entity"
	"github.com/falaconta/falaconta/nlu/metrics"
	"github.com/falaconta/falaconta/nlu/normalizer"
)

// Sentinel errors for the two failure conditions callers can branch on.
var (
	// ErrEmptyInput: the utterance was empty or whitespace-only. The engine
	// still returns a clarification NLUResult alongside this error.
	ErrEmptyInput = errors.New("empty input")
	// ErrInternal wraps any unexpected pipeline failure. Surfaced to the
	// caller, never swallowed, never crashes the process.
	ErrInternal = errors.New("unknown error")
)

// clarificationPrompt is the "please repeat" line returned for unusable input.
const clarificationPrompt = "desculpa, não entendi. pode repetir?"

// healthCheckUtterance must resolve to check_balance for the engine to be
// considered live.
const healthCheckUtterance = "qual é meu saldo?"

// Deps are the engine's injected collaborators.
type Deps struct {
	// Registry is the intent catalog; nil uses the built-in defaults.
	Registry *catalog.Registry
	// Recorder receives pipeline metrics; nil disables them.
	Recorder *metrics.Recorder
}

// Engine is the NLU orchestrator. Safe for concurrent use: the similarity
// vectors and catalog are read-only after construction, the cache guards
// itself, and the runtime config sits behind a RWMutex.
type Engine struct {
	mu  sync.RWMutex
	cfg Config

	registry   *catalog.Registry
	norm       *normalizer.Normalizer
	pattern    *classify.PatternMatcher
	similarity *classify.SimilarityMatcher
	ensemble   *classify.Ensemble
	cache      *cache.Cache[*NLUResult]
	recorder   *metrics.Recorder
}

// New creates an engine, building the similarity vectors from the catalog.
func New(cfg Config, deps Deps) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid engine config")
	}
	registry := deps.Registry
	if registry == nil {
		registry = catalog.Default()
	}

	norm := normalizer.New(cfg.Normalizer)
	return &Engine{
		cfg:        cfg,
		registry:   registry,
		norm:       norm,
		pattern:    classify.NewPatternMatcher(registry),
		similarity: classify.NewSimilarityMatcher(registry, norm),
		ensemble:   classify.NewEnsemble(cfg.Ensemble),
		cache:      cache.New[*NLUResult](cfg.CacheCapacity, cfg.CacheTTL),
		recorder:   deps.Recorder,
	}, nil
}

// Process converts a transcribed utterance into a structured decision.
//
// entities come from the external extractor collaborator; the engine only
// checks their presence against the winning intent's required slots.
//
// Flow: reject empty input, consult the cache, normalize, classify (pattern
// fast path, else pattern+similarity ensemble), compute the policy flags,
// cache and return. A panic anywhere in the pipeline is recovered and
// surfaced as ErrInternal.
func (e *Engine) Process(ctx context.Context, text string, entities []entity.Entity) (res *NLUResult, err error) {
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			slog.Error("nlu pipeline panic", "panic", r, "input", strutil.Truncate(text, 50))
			res = nil
			err = errors.Wrapf(ErrInternal, "panic: %v", r)
			e.recorder.ObserveRequest("", "error", time.Since(start))
		}
	}()

	if strings.TrimSpace(text) == "" {
		e.recorder.ObserveRequest(string(catalog.Unknown), "invalid", time.Since(start))
		return e.clarificationResult(text, start), ErrEmptyInput
	}

	cfg := e.Config()
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, "context done before classification")
	}

	text = strutil.Cap(text, cfg.MaxInputChars)
	key := strings.ToLower(text)

	if cached, ok := e.cache.Get(key); ok {
		e.recorder.ObserveCache(true)
		e.recorder.ObserveRequest(string(cached.Intent), "ok", time.Since(start))
		slog.Debug("utterance served from cache",
			"input", strutil.Truncate(text, 50),
			"intent", cached.Intent)
		return cached, nil
	}
	e.recorder.ObserveCache(false)

	normRes := e.norm.Normalize(text)
	patternRes := e.pattern.Match(text)

	var final classify.Result
	if patternRes.Confidence >= cfg.FastPathThreshold {
		// Fast path: a near-certain pattern hit makes the similarity pass
		// redundant.
		final = patternRes
	} else {
		simRes := e.similarity.Match(normRes.Tokens)
		simRes.Alternatives = e.similarity.Scores(normRes.Tokens)
		final = e.ensemble.Resolve(patternRes, simRes)
	}

	duration := time.Since(start)
	res = &NLUResult{
		Intent:                 final.Intent,
		Confidence:             final.Confidence,
		Entities:               entities,
		OriginalText:           text,
		NormalizedText:         normRes.Normalized,
		ProcessingTime:         duration,
		RequiresConfirmation:   e.requiresConfirmation(final, cfg),
		RequiresDisambiguation: e.requiresDisambiguation(final, cfg),
		MissingSlots:           e.missingSlots(final.Intent, entities),
		Metadata: Metadata{
			Method:       final.Method,
			Alternatives: final.Alternatives,
			Locale:       Locale,
		},
	}
	if cfg.ProcessingBudget > 0 && duration > cfg.ProcessingBudget {
		res.Metadata.BudgetExceeded = true
		slog.Warn("processing budget exceeded",
			"input", strutil.Truncate(text, 50),
			"budget_ms", cfg.ProcessingBudget.Milliseconds(),
			"latency_ms", duration.Milliseconds())
	}

	// Cache write failures (capacity pressure) silently skip; returning the
	// result must never block on the cache.
	e.cache.Set(key, res)

	e.recorder.ObserveRequest(string(res.Intent), "ok", duration)
	slog.Debug("utterance classified",
		"input", strutil.Truncate(text, 50),
		"intent", res.Intent,
		"confidence", res.Confidence,
		"method", res.Metadata.Method,
		"requires_confirmation", res.RequiresConfirmation,
		"requires_disambiguation", res.RequiresDisambiguation,
		"latency_ms", duration.Milliseconds())
	return res, nil
}

// ClassifyIntent is the convenience wrapper returning only the winning intent.
func (e *Engine) ClassifyIntent(ctx context.Context, text string) catalog.Intent {
	res, err := e.Process(ctx, text, nil)
	if err != nil || res == nil {
		return catalog.Unknown
	}
	return res.Intent
}

// HealthCheck runs a canned utterance through the full pipeline and asserts
// it resolves to check_balance. Used by liveness probes.
func (e *Engine) HealthCheck(ctx context.Context) bool {
	res, err := e.Process(ctx, healthCheckUtterance, nil)
	return err == nil && res != nil && res.Intent == catalog.CheckBalance
}

// ClearCache drops all cached results and resets the hit/miss counters.
func (e *Engine) ClearCache() {
	e.cache.Clear()
}

// CacheStats returns the result-cache counters.
func (e *Engine) CacheStats() cache.Stats {
	return e.cache.Stats()
}

// Config returns a copy of the current configuration.
func (e *Engine) Config() Config {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.cfg
}

// UpdateConfig applies a partial configuration update after validating the
// merged result, and resizes the cache accordingly. Returns the new config.
func (e *Engine) UpdateConfig(patch ConfigPatch) (Config, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	merged := patch.apply(e.cfg)
	if err := merged.Validate(); err != nil {
		return e.cfg, errors.Wrap(err, "invalid config update")
	}
	e.cfg = merged
	e.cache.Resize(merged.CacheCapacity, merged.CacheTTL)
	slog.Info("engine config updated",
		"high", merged.HighThreshold,
		"medium", merged.MediumThreshold,
		"cache_ttl", merged.CacheTTL,
		"cache_capacity", merged.CacheCapacity)
	return merged, nil
}

// requiresConfirmation: high-risk intents always confirm; otherwise confirm
// inside the [medium, high) confidence band.
func (e *Engine) requiresConfirmation(final classify.Result, cfg Config) bool {
	if catalog.IsHighRisk(final.Intent) {
		return true
	}
	return final.Confidence >= cfg.MediumThreshold && final.Confidence < cfg.HighThreshold
}

// requiresDisambiguation: never at high confidence; always below medium;
// in between, only when more than one alternative is itself plausible.
func (e *Engine) requiresDisambiguation(final classify.Result, cfg Config) bool {
	if final.Confidence >= cfg.HighThreshold {
		return false
	}
	if final.Confidence < cfg.MediumThreshold {
		return true
	}
	plausible := 0
	for _, alt := range final.Alternatives {
		if alt.Confidence >= cfg.MediumThreshold {
			plausible++
		}
	}
	return plausible > 1
}

// missingSlots returns the winning intent's required slot names for which no
// entity of that type was supplied.
func (e *Engine) missingSlots(intent catalog.Intent, entities []entity.Entity) []string {
	required := e.registry.RequiredSlots(intent)
	if len(required) == 0 {
		return nil
	}
	present := entity.TypesPresent(entities)
	var missing []string
	for _, slot := range required {
		if _, ok := present[slot]; !ok {
			missing = append(missing, slot)
		}
	}
	return missing
}

// clarificationResult is the dedicated "please repeat" result for empty or
// whitespace-only input. It never touches the cache or the classifiers.
func (e *Engine) clarificationResult(text string, start time.Time) *NLUResult {
	return &NLUResult{
		Intent:                 catalog.Unknown,
		Confidence:             0,
		OriginalText:           text,
		ProcessingTime:         time.Since(start),
		RequiresDisambiguation: true,
		Metadata: Metadata{
			Locale: Locale,
			Prompt: clarificationPrompt,
		},
	}
}
