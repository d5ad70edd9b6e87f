package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/falaconta/falaconta/nlu/catalog"
)

func TestEnsemble_Agreement(t *testing.T) {
	e := NewEnsemble(DefaultEnsembleConfig())

	p := Result{Intent: catalog.CheckBalance, Confidence: 0.7, Method: MethodPattern}
	s := Result{Intent: catalog.CheckBalance, Confidence: 0.55, Method: MethodSimilarity}

	res := e.Resolve(p, s)
	assert.Equal(t, catalog.CheckBalance, res.Intent)
	assert.InDelta(t, 0.7, res.Confidence, 1e-6, "agreement keeps the max of the two confidences")
	assert.Equal(t, MethodEnsemble, res.Method)
}

func TestEnsemble_TrustPattern(t *testing.T) {
	e := NewEnsemble(DefaultEnsembleConfig())

	p := Result{Intent: catalog.PayBill, Confidence: 0.95, Method: MethodPattern}
	s := Result{Intent: catalog.CheckBudget, Confidence: 0.5, Method: MethodSimilarity}

	res := e.Resolve(p, s)
	assert.Equal(t, catalog.PayBill, res.Intent)
	assert.InDelta(t, 0.95, res.Confidence, 1e-6)
	assert.Equal(t, MethodPattern, res.Method)
}

func TestEnsemble_TrustSimilarity(t *testing.T) {
	e := NewEnsemble(DefaultEnsembleConfig())

	p := Result{Intent: catalog.CheckBudget, Confidence: 0.7, Method: MethodPattern}
	s := Result{Intent: catalog.CheckIncome, Confidence: 0.9, Method: MethodSimilarity}

	res := e.Resolve(p, s)
	assert.Equal(t, catalog.CheckIncome, res.Intent)
	assert.InDelta(t, 0.9, res.Confidence, 1e-6)
	assert.Equal(t, MethodSimilarity, res.Method)
}

func TestEnsemble_WeightedBlend(t *testing.T) {
	e := NewEnsemble(DefaultEnsembleConfig())

	p := Result{Intent: catalog.CheckBudget, Confidence: 0.7, Method: MethodPattern}
	s := Result{Intent: catalog.CheckIncome, Confidence: 0.5, Method: MethodSimilarity}

	res := e.Resolve(p, s)
	assert.Equal(t, catalog.CheckBudget, res.Intent, "pattern wins: 0.7*0.6 > 0.5*0.4")
	// 0.7*0.6 + 0.5*0.4*0.5
	assert.InDelta(t, 0.52, res.Confidence, 1e-6)
	assert.Equal(t, MethodPattern, res.Method)
	assert.Less(t, res.Confidence, p.Confidence, "disagreement must lower confidence")
}

func TestEnsemble_WeightedBlendSimilarityWins(t *testing.T) {
	e := NewEnsemble(DefaultEnsembleConfig())

	p := Result{Intent: catalog.CheckBudget, Confidence: 0.3, Method: MethodPattern}
	s := Result{Intent: catalog.CheckIncome, Confidence: 0.8, Method: MethodSimilarity}

	res := e.Resolve(p, s)
	assert.Equal(t, catalog.CheckIncome, res.Intent, "similarity wins: 0.8*0.4 > 0.3*0.6")
	// 0.8*0.4 + 0.3*0.6*0.5
	assert.InDelta(t, 0.41, res.Confidence, 1e-6)
	assert.Equal(t, MethodSimilarity, res.Method)
}

func TestEnsemble_ConfidenceAlwaysInRange(t *testing.T) {
	e := NewEnsemble(DefaultEnsembleConfig())

	confidences := []float32{0, 0.1, 0.4, 0.6, 0.85, 0.95, 1}
	intents := []catalog.Intent{catalog.CheckBalance, catalog.PayBill, catalog.Unknown}

	for _, pc := range confidences {
		for _, sc := range confidences {
			for _, pi := range intents {
				for _, si := range intents {
					res := e.Resolve(
						Result{Intent: pi, Confidence: pc, Method: MethodPattern},
						Result{Intent: si, Confidence: sc, Method: MethodSimilarity},
					)
					require.GreaterOrEqual(t, res.Confidence, float32(0))
					require.LessOrEqual(t, res.Confidence, float32(1))
				}
			}
		}
	}
}

func TestEnsemble_Alternatives(t *testing.T) {
	e := NewEnsemble(DefaultEnsembleConfig())

	p := Result{Intent: catalog.CheckBudget, Confidence: 0.7, Method: MethodPattern}
	s := Result{
		Intent:     catalog.CheckIncome,
		Confidence: 0.5,
		Method:     MethodSimilarity,
		Alternatives: []Alternative{
			{Intent: catalog.CheckIncome, Confidence: 0.5},
			{Intent: catalog.CheckBudget, Confidence: 0.45},
			{Intent: catalog.CheckBalance, Confidence: 0.3},
			{Intent: catalog.FinancialProjection, Confidence: 0.2},
			{Intent: catalog.Unknown, Confidence: 0.1},
		},
	}

	res := e.Resolve(p, s)
	require.Len(t, res.Alternatives, 3, "capped at MaxAlternatives")

	// Deduplicated per intent at the max confidence seen, sorted descending.
	assert.Equal(t, Alternative{Intent: catalog.CheckBudget, Confidence: 0.7}, res.Alternatives[0])
	assert.Equal(t, Alternative{Intent: catalog.CheckIncome, Confidence: 0.5}, res.Alternatives[1])
	assert.Equal(t, Alternative{Intent: catalog.CheckBalance, Confidence: 0.3}, res.Alternatives[2])
	for _, alt := range res.Alternatives {
		assert.NotEqual(t, catalog.Unknown, alt.Intent)
	}
}

func TestEnsemble_BothUnknown(t *testing.T) {
	e := NewEnsemble(DefaultEnsembleConfig())

	res := e.Resolve(
		Result{Intent: catalog.Unknown, Method: MethodPattern},
		Result{Intent: catalog.Unknown, Method: MethodSimilarity},
	)
	assert.Equal(t, catalog.Unknown, res.Intent)
	assert.Zero(t, res.Confidence)
	assert.Empty(t, res.Alternatives)
}

func TestEnsembleConfig_Validate(t *testing.T) {
	assert.True(t, DefaultEnsembleConfig().Validate())

	testCases := []struct {
		name   string
		mutate func(*EnsembleConfig)
	}{
		{"zero pattern weight", func(c *EnsembleConfig) { c.PatternWeight = 0 }},
		{"negative similarity weight", func(c *EnsembleConfig) { c.SimilarityWeight = -0.1 }},
		{"weights exceed one", func(c *EnsembleConfig) { c.PatternWeight, c.SimilarityWeight = 0.7, 0.5 }},
		{"trust threshold above one", func(c *EnsembleConfig) { c.TrustThreshold = 1.5 }},
		{"negative damping", func(c *EnsembleConfig) { c.DisagreementDamping = -0.2 }},
		{"zero alternatives", func(c *EnsembleConfig) { c.MaxAlternatives = 0 }},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultEnsembleConfig()
			tc.mutate(&cfg)
			assert.False(t, cfg.Validate())
		})
	}
}

func TestNewEnsemble_InvalidConfigFallsBack(t *testing.T) {
	e := NewEnsemble(EnsembleConfig{})

	// With stock constants, a disagreeing pair blends to 0.52.
	res := e.Resolve(
		Result{Intent: catalog.CheckBudget, Confidence: 0.7, Method: MethodPattern},
		Result{Intent: catalog.CheckIncome, Confidence: 0.5, Method: MethodSimilarity},
	)
	assert.InDelta(t, 0.52, res.Confidence, 1e-6)
}
