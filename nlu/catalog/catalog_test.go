package catalog

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_CoversAllIntents(t *testing.T) {
	r := Default()

	for _, intent := range []Intent{
		CheckBalance, CheckBudget, PayBill, CheckIncome, FinancialProjection, TransferMoney,
	} {
		def, ok := r.Get(intent)
		require.True(t, ok, "missing definition for %s", intent)
		assert.NotEmpty(t, def.Examples, "%s needs canonical examples", intent)
		assert.NotEmpty(t, def.Keywords, "%s needs trigger keywords", intent)
	}

	_, ok := r.Get(Unknown)
	assert.False(t, ok, "unknown must not carry a definition")
	assert.NoError(t, r.Validate())
}

func TestDefault_RequiredSlots(t *testing.T) {
	r := Default()

	assert.Equal(t, []string{SlotAmount, SlotRecipient}, r.RequiredSlots(TransferMoney))
	assert.Equal(t, []string{SlotAmount, SlotDueDate}, r.RequiredSlots(PayBill))
	assert.Nil(t, r.RequiredSlots(CheckBalance))
	assert.Nil(t, r.RequiredSlots(Unknown))
}

func TestIsHighRisk(t *testing.T) {
	assert.True(t, IsHighRisk(PayBill))
	assert.True(t, IsHighRisk(TransferMoney))
	assert.False(t, IsHighRisk(CheckBalance))
	assert.False(t, IsHighRisk(Unknown))
}

func TestRegistry_FrozenRejectsRegister(t *testing.T) {
	r := Default()
	err := r.Register(Definition{Intent: CheckBalance, Keywords: []string{"saldo"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "frozen")
}

func TestRegistry_OrderedByPriority(t *testing.T) {
	r := Default()
	all := r.All()
	require.NotEmpty(t, all)
	for i := 1; i < len(all); i++ {
		assert.GreaterOrEqual(t, all[i-1].Priority, all[i].Priority,
			"catalog iteration order must be priority-descending")
	}
}

func TestRegistry_ValidateRejectsEmptyDefinition(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(Definition{Intent: CheckBalance}))
	assert.Error(t, r.Validate())
	assert.Error(t, r.Freeze())
}

func TestRegistry_ValidateRejectsNilPattern(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(Definition{
		Intent:   CheckBalance,
		Patterns: []*regexp.Regexp{nil},
		Keywords: []string{"saldo"},
	}))
	assert.Error(t, r.Validate())
}

func TestOverlay_AppendsKeywordsAndExamples(t *testing.T) {
	overlayYAML := `
check_balance:
  keywords: ["cascalho"]
  examples: ["quanto de cascalho eu tenho"]
`
	overlay, err := ParseOverlay(strings.NewReader(overlayYAML))
	require.NoError(t, err)

	r := unfrozenDefaults()
	require.NoError(t, overlay.Apply(r))
	require.NoError(t, r.Freeze())

	def, ok := r.Get(CheckBalance)
	require.True(t, ok)
	assert.Contains(t, def.Keywords, "cascalho")
	assert.Contains(t, def.Examples, "quanto de cascalho eu tenho")
	// Built-in signal survives.
	assert.Contains(t, def.Keywords, "saldo")
}

func TestOverlay_RejectsUnknownIntent(t *testing.T) {
	overlay := Overlay{"win_lottery": {Keywords: []string{"loteria"}}}
	err := overlay.Apply(unfrozenDefaults())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown intent")
}

func TestDefaultWithOverlay_EmptyPathUsesDefaults(t *testing.T) {
	r, err := DefaultWithOverlay("")
	require.NoError(t, err)
	assert.Equal(t, Default().Len(), r.Len())
}
