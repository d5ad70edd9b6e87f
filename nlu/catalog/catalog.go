// Package catalog defines the static intent catalog: every financial action
// the assistant understands, with its detection patterns, trigger keywords,
// canonical example utterances and required argument slots.
//
// The catalog is data-driven: classification code never switches on a
// specific intent, it only iterates Definitions. A Registry is immutable
// after Freeze and safe for concurrent read-only use.
package catalog

import (
	"regexp"
	"slices"

	"github.com/pkg/errors"
)

// Intent is the category of financial action a user's utterance expresses.
type Intent string

const (
	CheckBalance        Intent = "check_balance"
	CheckBudget         Intent = "check_budget"
	PayBill             Intent = "pay_bill"
	CheckIncome         Intent = "check_income"
	FinancialProjection Intent = "financial_projection"
	TransferMoney       Intent = "transfer_money"
	Unknown             Intent = "unknown"
)

// Slot names shared between the catalog and the entity extractor contract.
const (
	SlotAmount    = "amount"
	SlotRecipient = "recipient"
	SlotDueDate   = "due_date"
)

// highRisk is the fixed set of intents that always require explicit user
// confirmation before execution, at any confidence level.
var highRisk = map[Intent]struct{}{
	PayBill:       {},
	TransferMoney: {},
}

// IsHighRisk reports whether an intent triggers mandatory confirmation.
func IsHighRisk(intent Intent) bool {
	_, ok := highRisk[intent]
	return ok
}

// Definition holds the static detection data for a single intent.
// Created once at startup, never mutated afterwards.
type Definition struct {
	Intent        Intent
	Patterns      []*regexp.Regexp
	Keywords      []string
	Examples      []string
	RequiredSlots []string
	// Priority orders catalog iteration; higher is checked first.
	// Ties keep registration order.
	Priority int
}

// Registry maps intents to their definitions and fixes the iteration order
// used by the classifiers.
type Registry struct {
	defs    map[Intent]Definition
	ordered []Definition
	frozen  bool
}

// NewRegistry creates an empty, unfrozen registry.
func NewRegistry() *Registry {
	return &Registry{defs: make(map[Intent]Definition)}
}

// Register adds or replaces a definition. Returns an error once the registry
// is frozen.
func (r *Registry) Register(def Definition) error {
	if r.frozen {
		return errors.Errorf("registry is frozen, cannot register %q", def.Intent)
	}
	if _, exists := r.defs[def.Intent]; !exists {
		r.ordered = append(r.ordered, def)
	} else {
		for i := range r.ordered {
			if r.ordered[i].Intent == def.Intent {
				r.ordered[i] = def
				break
			}
		}
	}
	r.defs[def.Intent] = def
	return nil
}

// Freeze validates the catalog and locks it against further mutation.
// The ordered view is sorted by priority descending, registration order
// preserved within equal priorities.
func (r *Registry) Freeze() error {
	if err := r.Validate(); err != nil {
		return err
	}
	slices.SortStableFunc(r.ordered, func(a, b Definition) int {
		return b.Priority - a.Priority
	})
	r.frozen = true
	return nil
}

// Validate rejects malformed definitions: an intent with no detection signal
// at all, or a nil compiled pattern.
func (r *Registry) Validate() error {
	for _, def := range r.ordered {
		if def.Intent == "" {
			return errors.New("definition with empty intent")
		}
		if def.Intent == Unknown {
			return errors.New("the unknown intent must not carry a definition")
		}
		if len(def.Patterns) == 0 && len(def.Keywords) == 0 && len(def.Examples) == 0 {
			return errors.Errorf("intent %q has no patterns, keywords or examples", def.Intent)
		}
		for _, p := range def.Patterns {
			if p == nil {
				return errors.Errorf("intent %q has a nil pattern", def.Intent)
			}
		}
	}
	return nil
}

// Get returns the definition for an intent.
func (r *Registry) Get(intent Intent) (Definition, bool) {
	def, ok := r.defs[intent]
	return def, ok
}

// All returns the definitions in catalog iteration order (priority desc).
// Callers must treat the slice as read-only.
func (r *Registry) All() []Definition {
	return r.ordered
}

// Len returns the number of registered intents.
func (r *Registry) Len() int {
	return len(r.defs)
}

// RequiredSlots returns the required slot names for an intent, nil when the
// intent is unknown or has none.
func (r *Registry) RequiredSlots(intent Intent) []string {
	def, ok := r.defs[intent]
	if !ok {
		return nil
	}
	return def.RequiredSlots
}
