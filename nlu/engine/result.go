package engine

import (
	"time"

	"github.com/falaconta/falaconta/nlu/catalog"
	"github.com/falaconta/falaconta/nlu/classify"
	"github.com/falaconta/falaconta/nlu/entity"
)

// Locale is the only locale this engine understands.
const Locale = "pt-BR"

// NLUResult is the engine's public output: one structured decision per
// utterance. Immutable after creation; cached entries are returned as-is.
type NLUResult struct {
	Intent         catalog.Intent  `json:"intent"`
	Confidence     float32         `json:"confidence"`
	Entities       []entity.Entity `json:"entities,omitempty"`
	OriginalText   string          `json:"original_text"`
	NormalizedText string          `json:"normalized_text"`
	// ProcessingTime is the wall-clock duration of this classification, in
	// nanoseconds. Served-from-cache results keep the original duration.
	ProcessingTime time.Duration `json:"processing_time_ns"`

	// RequiresConfirmation: the dispatcher must ask the user to approve
	// before executing. Always true for high-risk intents.
	RequiresConfirmation bool `json:"requires_confirmation"`
	// RequiresDisambiguation: the dispatcher should offer the alternatives
	// instead of acting. Never true at high confidence.
	RequiresDisambiguation bool `json:"requires_disambiguation"`
	// MissingSlots lists required slot names with no matching entity.
	MissingSlots []string `json:"missing_slots,omitempty"`

	Metadata Metadata `json:"metadata"`
}

// Metadata is the result's classification context bag.
type Metadata struct {
	// Method tags which classification path produced the decision.
	Method classify.Method `json:"method"`
	// Alternatives ranks competing intents for the disambiguation dialogue.
	Alternatives []classify.Alternative `json:"alternatives,omitempty"`
	Locale       string                 `json:"locale"`
	// BudgetExceeded flags a processing-budget overrun for observability.
	BudgetExceeded bool `json:"budget_exceeded,omitempty"`
	// Prompt carries the clarification question for unprocessable input.
	Prompt string `json:"prompt,omitempty"`
}
