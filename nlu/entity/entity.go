// Package entity defines the entity-extraction collaborator contract the
// NLU engine consumes, plus a regex reference extractor for amounts,
// recipients and due dates in Brazilian-Portuguese utterances.
//
// The engine only checks the presence of required entity types; it never
// validates entity values. Extraction grammars beyond the reference
// implementation live with the collaborator, not here.
package entity

import (
	"context"
	"regexp"
	"strings"
)

// Entity is one typed value extracted from an utterance, independent of
// intent classification.
type Entity struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// Extractor is the upstream collaborator contract.
type Extractor interface {
	Extract(ctx context.Context, text string) ([]Entity, error)
}

// Types produced by the reference extractor. These names match the required
// slot names in the intent catalog.
const (
	TypeAmount    = "amount"
	TypeRecipient = "recipient"
	TypeDueDate   = "due_date"
)

var (
	// "R$ 100", "100 reais", "100,50", bare "100"
	amountRegex = regexp.MustCompile(`(?i)(?:r\$\s*)?(\d+(?:[.,]\d{1,2})?)(?:\s*(?:reais|real|conto?s?|pila))?`)
	// "para joão", "pro carlos", "pra maria"
	recipientRegex = regexp.MustCompile(`(?i)\b(?:para|pra|pro)\s+(?:o\s+|a\s+)?(\p{L}+)`)
	// "dia 15", "15/03", "15/03/2026", "amanhã", "hoje".
	// The closing boundary is spelled out instead of \b: RE2's \b is
	// ASCII-only, so it never matches right after an accented rune like the
	// "ã" in "amanhã".
	dueDateRegex = regexp.MustCompile(`(?i)\b(dia\s+\d{1,2}|\d{1,2}/\d{1,2}(?:/\d{2,4})?|amanh[ãa]|hoje)(?:$|[^\p{L}\p{N}])`)
)

// RegexExtractor is a self-contained extractor good enough for the default
// server wiring and for tests. Real deployments plug in their own Extractor.
type RegexExtractor struct{}

// NewRegexExtractor creates the reference extractor.
func NewRegexExtractor() *RegexExtractor {
	return &RegexExtractor{}
}

// Extract returns the typed entities found in text. Never returns an error;
// the signature carries one for parity with remote extractor implementations.
func (x *RegexExtractor) Extract(_ context.Context, text string) ([]Entity, error) {
	var entities []Entity

	if m := amountRegex.FindStringSubmatch(text); m != nil && m[1] != "" {
		entities = append(entities, Entity{Type: TypeAmount, Value: m[1]})
	}
	if m := recipientRegex.FindStringSubmatch(text); m != nil {
		entities = append(entities, Entity{Type: TypeRecipient, Value: strings.ToLower(m[1])})
	}
	if m := dueDateRegex.FindStringSubmatch(text); m != nil {
		entities = append(entities, Entity{Type: TypeDueDate, Value: strings.ToLower(m[1])})
	}

	return entities, nil
}

// TypesPresent collects the distinct entity types in a list.
func TypesPresent(entities []Entity) map[string]struct{} {
	present := make(map[string]struct{}, len(entities))
	for _, e := range entities {
		present[e.Type] = struct{}{}
	}
	return present
}

var _ Extractor = (*RegexExtractor)(nil)
