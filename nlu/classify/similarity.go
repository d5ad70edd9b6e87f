package classify

import (
	"math"

	"github.com/falaconta/falaconta/nlu/catalog"
	"github.com/falaconta/falaconta/nlu/normalizer"
)

// termVector is a term-frequency bag with its precomputed Euclidean norm.
type termVector struct {
	terms map[string]float32
	norm  float32
}

// SimilarityMatcher scores input tokens against one precomputed
// term-frequency vector per intent using cosine similarity.
//
// Vectors are built once at construction from each intent's canonical
// examples and keyword list, normalized exactly like query input. After
// construction the matcher is read-only and safe for concurrent use.
type SimilarityMatcher struct {
	order   []catalog.Intent
	vectors map[catalog.Intent]termVector
}

// NewSimilarityMatcher builds the per-intent vectors from a frozen catalog.
// The normalizer must be the same one used for query input, otherwise the
// vocabularies drift apart.
func NewSimilarityMatcher(reg *catalog.Registry, norm *normalizer.Normalizer) *SimilarityMatcher {
	m := &SimilarityMatcher{
		vectors: make(map[catalog.Intent]termVector, reg.Len()),
	}
	for _, def := range reg.All() {
		var bag []string
		for _, example := range def.Examples {
			bag = append(bag, norm.Normalize(example).Tokens...)
		}
		for _, kw := range def.Keywords {
			bag = append(bag, norm.Normalize(kw).Tokens...)
		}
		m.order = append(m.order, def.Intent)
		m.vectors[def.Intent] = buildVector(bag)
	}
	return m
}

// Match vectorizes the normalized input tokens and returns the intent with
// the highest cosine similarity; the similarity doubles as confidence.
// A zero input vector (or an intent with no vocabulary) scores exactly 0.
func (m *SimilarityMatcher) Match(tokens []string) Result {
	best := unknownResult(MethodSimilarity)
	input := buildVector(tokens)
	if input.norm == 0 {
		return best
	}

	for _, intent := range m.order {
		score := cosineSimilarity(input, m.vectors[intent])
		if score > best.Confidence {
			best.Intent = intent
			best.Confidence = score
		}
	}
	return best
}

// Scores returns the cosine similarity of the input against every intent,
// used by the ensemble to surface alternatives.
func (m *SimilarityMatcher) Scores(tokens []string) []Alternative {
	input := buildVector(tokens)
	if input.norm == 0 {
		return nil
	}
	alts := make([]Alternative, 0, len(m.order))
	for _, intent := range m.order {
		if score := cosineSimilarity(input, m.vectors[intent]); score > 0 {
			alts = append(alts, Alternative{Intent: intent, Confidence: score})
		}
	}
	return alts
}

func buildVector(tokens []string) termVector {
	terms := make(map[string]float32, len(tokens))
	for _, tok := range tokens {
		terms[tok]++
	}
	var sumSquares float64
	for _, freq := range terms {
		sumSquares += float64(freq) * float64(freq)
	}
	return termVector{terms: terms, norm: float32(math.Sqrt(sumSquares))}
}

// cosineSimilarity computes dot(a,b)/(||a||*||b||), treating missing terms
// as zero. Either zero vector yields 0. The result is clamped: for identical
// vectors float32 rounding can push the ratio a hair above 1, and the score
// doubles as a confidence that must stay in [0,1].
func cosineSimilarity(a, b termVector) float32 {
	if a.norm == 0 || b.norm == 0 {
		return 0
	}

	// Iterate the smaller map.
	small, large := a, b
	if len(small.terms) > len(large.terms) {
		small, large = large, small
	}

	var dot float32
	for term, freq := range small.terms {
		if other, ok := large.terms[term]; ok {
			dot += freq * other
		}
	}
	return clamp01(dot / (a.norm * b.norm))
}
