// Package normalizer implements Brazilian-Portuguese text normalization for
// the voice-command pipeline: lowercasing, slang and contraction expansion,
// diacritic folding, punctuation stripping, tokenization and stopword removal.
//
// Normalization is pure and deterministic: no I/O, no shared mutable state.
// A Normalizer is safe for concurrent use.
package normalizer

import (
	"strings"
	"unicode"
)

// Options toggles individual normalization steps.
type Options struct {
	// KeepAccents skips the diacritic-folding step.
	KeepAccents bool
	// KeepStopwords skips the stopword-removal step.
	KeepStopwords bool
	// ExpandContractions enables slang/contraction expansion.
	ExpandContractions bool
}

// DefaultOptions returns the options used by the NLU engine: fold accents,
// drop stopwords, expand contractions.
func DefaultOptions() Options {
	return Options{ExpandContractions: true}
}

// Result is the derived value produced by one normalization pass.
type Result struct {
	// Original is the input text, untouched.
	Original string `json:"original"`
	// Normalized is the space-joined form of the surviving tokens.
	Normalized string `json:"normalized"`
	// Tokens is the ordered list of non-empty tokens after all enabled steps.
	Tokens []string `json:"tokens"`
	// RemovedStopwords lists the stopwords dropped, in input order.
	RemovedStopwords []string `json:"removed_stopwords,omitempty"`
	// Expansions records every contraction substitution made (slang -> canonical).
	Expansions map[string]string `json:"expansions,omitempty"`
}

// Normalizer applies the configured normalization steps.
type Normalizer struct {
	opts Options
}

// New creates a Normalizer with the given options.
func New(opts Options) *Normalizer {
	return &Normalizer{opts: opts}
}

// Normalize runs the full pipeline over raw text.
//
// Step order is fixed: lowercase, contraction expansion (whole-word,
// longest-match-first), accent folding, punctuation stripping, whitespace
// collapsing, tokenization, stopword removal. Each step after lowercasing is
// independently toggleable via Options.
func (n *Normalizer) Normalize(raw string) Result {
	res := Result{Original: raw}

	text := strings.ToLower(raw)

	if n.opts.ExpandContractions {
		res.Expansions = make(map[string]string)
		text = expandContractions(text, res.Expansions)
		if len(res.Expansions) == 0 {
			res.Expansions = nil
		}
	}

	if !n.opts.KeepAccents {
		text = FoldAccents(text)
	}

	text = stripPunctuation(text)

	tokens := strings.Fields(text)
	if !n.opts.KeepStopwords {
		kept := tokens[:0]
		for _, tok := range tokens {
			if isStopword(tok) {
				res.RemovedStopwords = append(res.RemovedStopwords, tok)
				continue
			}
			kept = append(kept, tok)
		}
		tokens = kept
	}

	res.Tokens = tokens
	res.Normalized = strings.Join(tokens, " ")
	return res
}

// NormalizeForComparison applies only lowercase, accent folding and
// punctuation stripping. Used for fast equality-style comparisons where
// stopword removal and contraction expansion would be wasted work.
func NormalizeForComparison(raw string) string {
	text := FoldAccents(strings.ToLower(raw))
	text = stripPunctuation(text)
	return strings.Join(strings.Fields(text), " ")
}

// FoldAccents maps accented characters to their unaccented Latin equivalents
// using the fixed character table, preserving case.
func FoldAccents(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if folded, ok := accentFold[r]; ok {
			r = folded
		}
		b.WriteRune(r)
	}
	return b.String()
}

// expandContractions replaces every whole-word occurrence of a known
// contraction, iterating keys longest-first so "tbm" wins over "tb" and a
// shorter key can never clip a longer one. Substitutions are recorded in seen.
func expandContractions(text string, seen map[string]string) string {
	for _, key := range contractionKeys {
		replaced, hit := replaceWholeWord(text, key, contractions[key])
		if hit {
			seen[key] = contractions[key]
			text = replaced
		}
	}
	return text
}

// replaceWholeWord replaces occurrences of word in text when bounded by
// non-alphanumeric runes (or the string edges). Returns the rewritten text
// and whether at least one replacement happened.
func replaceWholeWord(text, word, replacement string) (string, bool) {
	var b strings.Builder
	hit := false
	start := 0
	for {
		idx := strings.Index(text[start:], word)
		if idx < 0 {
			break
		}
		idx += start

		if !boundedBefore(text, idx) || !boundedAfter(text, idx+len(word)) {
			// Substring of a larger word; skip past this occurrence.
			b.WriteString(text[start : idx+len(word)])
			start = idx + len(word)
			continue
		}

		b.WriteString(text[start:idx])
		b.WriteString(replacement)
		start = idx + len(word)
		hit = true
	}
	if !hit {
		return text, false
	}
	b.WriteString(text[start:])
	return b.String(), true
}

func boundedBefore(text string, idx int) bool {
	if idx == 0 {
		return true
	}
	r, _ := lastRune(text[:idx])
	return !isWordRune(r)
}

func boundedAfter(text string, idx int) bool {
	if idx >= len(text) {
		return true
	}
	for _, r := range text[idx:] {
		return !isWordRune(r)
	}
	return true
}

func lastRune(s string) (rune, int) {
	var r rune
	var size int
	for i, rr := range s {
		r = rr
		size = i
	}
	return r, size
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// stripPunctuation replaces every rune that is neither alphanumeric nor
// whitespace with a single space.
func stripPunctuation(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
			continue
		}
		b.WriteRune(' ')
	}
	return b.String()
}

// isStopword reports whether a token belongs to the fixed stopword set.
// Tokens are folded before lookup so the check works whether or not the
// accent-removal step ran.
func isStopword(tok string) bool {
	_, ok := stopwords[FoldAccents(tok)]
	return ok
}
