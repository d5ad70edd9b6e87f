package classify

import (
	"slices"

	"github.com/falaconta/falaconta/nlu/catalog"
)

// EnsembleConfig holds the voting constants. The weights and damping factor
// are empirically chosen; treat them as tunables, not invariants.
type EnsembleConfig struct {
	// PatternWeight and SimilarityWeight blend disagreeing classifiers.
	PatternWeight    float32
	SimilarityWeight float32
	// TrustThreshold is the confidence at which a single classifier is
	// trusted outright when the two disagree.
	TrustThreshold float32
	// DisagreementDamping scales the losing classifier's contribution to the
	// blended confidence.
	DisagreementDamping float32
	// MaxAlternatives bounds the ranked alternatives list.
	MaxAlternatives int
}

// DefaultEnsembleConfig returns the stock voting constants.
func DefaultEnsembleConfig() EnsembleConfig {
	return EnsembleConfig{
		PatternWeight:       0.6,
		SimilarityWeight:    0.4,
		TrustThreshold:      0.85,
		DisagreementDamping: 0.5,
		MaxAlternatives:     3,
	}
}

// Validate rejects configurations that would break the [0,1] confidence
// invariant.
func (c EnsembleConfig) Validate() bool {
	if c.PatternWeight <= 0 || c.SimilarityWeight <= 0 {
		return false
	}
	if c.PatternWeight+c.SimilarityWeight > 1 {
		return false
	}
	if c.TrustThreshold < 0 || c.TrustThreshold > 1 {
		return false
	}
	if c.DisagreementDamping < 0 || c.DisagreementDamping > 1 {
		return false
	}
	return c.MaxAlternatives > 0
}

// ensembleRule is one step of the resolution policy. Rules are evaluated in
// order; the first whose applies() returns true decides the result.
type ensembleRule struct {
	name    string
	applies func(pattern, similarity Result) bool
	resolve func(pattern, similarity Result) Result
}

// Ensemble merges the two classifier outputs into one decision.
//
// The policy is an explicit ordered rule list (first match wins) so each
// branch stays auditable and testable on its own:
//
//  1. agreement: both name the same intent -> that intent, max confidence
//  2. trust-pattern: pattern confidence >= trust threshold
//  3. trust-similarity: similarity confidence >= trust threshold
//  4. weighted-blend: compare weighted confidences; the winner's confidence
//     is recomputed with the loser's contribution damped, since they disagree
type Ensemble struct {
	cfg   EnsembleConfig
	rules []ensembleRule
}

// NewEnsemble creates a resolver; invalid configs fall back to defaults.
func NewEnsemble(cfg EnsembleConfig) *Ensemble {
	if !cfg.Validate() {
		cfg = DefaultEnsembleConfig()
	}
	e := &Ensemble{cfg: cfg}
	e.rules = []ensembleRule{
		{
			name: "agreement",
			applies: func(p, s Result) bool {
				return p.Intent == s.Intent
			},
			resolve: func(p, s Result) Result {
				return Result{Intent: p.Intent, Confidence: max(p.Confidence, s.Confidence), Method: MethodEnsemble}
			},
		},
		{
			name: "trust-pattern",
			applies: func(p, _ Result) bool {
				return p.Confidence >= cfg.TrustThreshold
			},
			resolve: func(p, _ Result) Result {
				return Result{Intent: p.Intent, Confidence: p.Confidence, Method: MethodPattern}
			},
		},
		{
			name: "trust-similarity",
			applies: func(_, s Result) bool {
				return s.Confidence >= cfg.TrustThreshold
			},
			resolve: func(_, s Result) Result {
				return Result{Intent: s.Intent, Confidence: s.Confidence, Method: MethodSimilarity}
			},
		},
		{
			name:    "weighted-blend",
			applies: func(_, _ Result) bool { return true },
			resolve: e.blend,
		},
	}
	return e
}

// Resolve applies the rule list and attaches the ranked alternatives.
func (e *Ensemble) Resolve(pattern, similarity Result) Result {
	for _, rule := range e.rules {
		if !rule.applies(pattern, similarity) {
			continue
		}
		res := rule.resolve(pattern, similarity)
		res.Alternatives = e.alternatives(pattern, similarity)
		return res
	}
	// Unreachable: the blend rule always applies.
	return unknownResult(MethodEnsemble)
}

// blend decides between disagreeing low-confidence classifiers by weighted
// score. The loser still contributes, damped, because its signal is evidence
// of ambiguity rather than noise.
func (e *Ensemble) blend(p, s Result) Result {
	patternScore := p.Confidence * e.cfg.PatternWeight
	similarityScore := s.Confidence * e.cfg.SimilarityWeight

	winner, loser := p, s
	winnerWeight, loserWeight := e.cfg.PatternWeight, e.cfg.SimilarityWeight
	method := MethodPattern
	if similarityScore > patternScore {
		winner, loser = s, p
		winnerWeight, loserWeight = e.cfg.SimilarityWeight, e.cfg.PatternWeight
		method = MethodSimilarity
	}

	confidence := winner.Confidence*winnerWeight + loser.Confidence*loserWeight*e.cfg.DisagreementDamping
	return Result{Intent: winner.Intent, Confidence: clamp01(confidence), Method: method}
}

// alternatives deduplicates intents across both classifier outputs
// (excluding unknown), keeps the max confidence seen per intent, sorts
// descending and returns up to MaxAlternatives entries.
func (e *Ensemble) alternatives(results ...Result) []Alternative {
	bestByIntent := make(map[catalog.Intent]float32)
	var order []catalog.Intent
	consider := func(intent catalog.Intent, confidence float32) {
		if intent == catalog.Unknown || confidence <= 0 {
			return
		}
		if prev, seen := bestByIntent[intent]; !seen || confidence > prev {
			if !seen {
				order = append(order, intent)
			}
			bestByIntent[intent] = confidence
		}
	}
	for _, r := range results {
		consider(r.Intent, r.Confidence)
		for _, alt := range r.Alternatives {
			consider(alt.Intent, alt.Confidence)
		}
	}

	alts := make([]Alternative, 0, len(order))
	for _, intent := range order {
		alts = append(alts, Alternative{Intent: intent, Confidence: bestByIntent[intent]})
	}
	slices.SortStableFunc(alts, func(a, b Alternative) int {
		switch {
		case a.Confidence > b.Confidence:
			return -1
		case a.Confidence < b.Confidence:
			return 1
		default:
			return 0
		}
	})
	if len(alts) > e.cfg.MaxAlternatives {
		alts = alts[:e.cfg.MaxAlternatives]
	}
	return alts
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
