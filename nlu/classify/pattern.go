package classify

import (
	"strings"

	"github.com/falaconta/falaconta/nlu/catalog"
)

// Pattern-matcher confidence constants. A regex hit is near-certain; keyword
// hits scale with match count but never reach regex confidence, so a pattern
// match always dominates keyword scoring.
const (
	patternMatchConfidence   float32 = 0.95
	keywordBaseConfidence    float32 = 0.6
	keywordPerMatchBonus     float32 = 0.1
	keywordCeilingConfidence float32 = 0.85
)

// PatternMatcher is the rule-based fast path: precompiled regexes first,
// substring keyword counting second. Stateless beyond the read-only catalog;
// safe for concurrent use.
type PatternMatcher struct {
	reg *catalog.Registry
}

// NewPatternMatcher creates a pattern matcher over a frozen catalog.
func NewPatternMatcher(reg *catalog.Registry) *PatternMatcher {
	return &PatternMatcher{reg: reg}
}

// Match classifies raw (or lightly normalized) text.
//
// Per intent: any regex match scores 0.95; otherwise n>0 keyword substring
// hits score min(0.85, 0.6+0.1n). The single best (intent, confidence) pair
// wins across the catalog; ties keep the first intent in catalog iteration
// order. No signal at all yields (unknown, 0).
func (m *PatternMatcher) Match(text string) Result {
	best := unknownResult(MethodPattern)
	lower := strings.ToLower(text)

	for _, def := range m.reg.All() {
		score := scoreDefinition(def, text, lower)
		if score > best.Confidence {
			best.Intent = def.Intent
			best.Confidence = score
		}
	}
	return best
}

func scoreDefinition(def catalog.Definition, raw, lower string) float32 {
	for _, p := range def.Patterns {
		if p.MatchString(raw) {
			return patternMatchConfidence
		}
	}

	matches := 0
	for _, kw := range def.Keywords {
		if strings.Contains(lower, strings.ToLower(kw)) {
			matches++
		}
	}
	if matches == 0 {
		return 0
	}
	score := keywordBaseConfidence + keywordPerMatchBonus*float32(matches)
	if score > keywordCeilingConfidence {
		score = keywordCeilingConfidence
	}
	return score
}
