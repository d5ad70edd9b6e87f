package entity

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func extract(t *testing.T, text string) []Entity {
	t.Helper()
	entities, err := NewRegexExtractor().Extract(context.Background(), text)
	require.NoError(t, err)
	return entities
}

func TestRegexExtractor_Amount(t *testing.T) {
	testCases := []struct {
		input string
		value string
	}{
		{"transferir 100 reais", "100"},
		{"pagar R$ 250", "250"},
		{"manda 99,90 para ela", "99,90"},
		{"uns 50 contos", "50"},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			entities := extract(t, tc.input)
			present := TypesPresent(entities)
			require.Contains(t, present, TypeAmount)
			for _, e := range entities {
				if e.Type == TypeAmount {
					assert.Equal(t, tc.value, e.Value)
				}
			}
		})
	}
}

func TestRegexExtractor_Recipient(t *testing.T) {
	testCases := []struct {
		input string
		value string
	}{
		{"transferir 100 reais para joão", "joão"},
		{"faz um pix pra Maria", "maria"},
		{"manda pro o carlos", "carlos"},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			entities := extract(t, tc.input)
			var got string
			for _, e := range entities {
				if e.Type == TypeRecipient {
					got = e.Value
				}
			}
			assert.Equal(t, tc.value, got)
		})
	}
}

func TestRegexExtractor_DueDate(t *testing.T) {
	testCases := []struct {
		input string
		value string
	}{
		{"pagar o boleto dia 15", "dia 15"},
		{"boleto do dia 5 vence", "dia 5"},
		{"vence em 15/03", "15/03"},
		{"vence em 15/03/2026", "15/03/2026"},
		{"pagar a conta amanhã", "amanhã"},
		{"paga amanhã cedo", "amanhã"},
		{"pagar hoje", "hoje"},
		{"planejar amanhãzinha", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			entities := extract(t, tc.input)
			var got string
			for _, e := range entities {
				if e.Type == TypeDueDate {
					got = e.Value
				}
			}
			assert.Equal(t, tc.value, got)
		})
	}
}

func TestRegexExtractor_CombinedUtterance(t *testing.T) {
	entities := extract(t, "pagar 120 reais da conta de luz amanhã para joana")
	present := TypesPresent(entities)
	assert.Contains(t, present, TypeAmount)
	assert.Contains(t, present, TypeRecipient)
	assert.Contains(t, present, TypeDueDate)
}

func TestRegexExtractor_NoEntities(t *testing.T) {
	entities := extract(t, "qual é o meu saldo")
	assert.Empty(t, entities)
}

func TestTypesPresent(t *testing.T) {
	present := TypesPresent([]Entity{
		{Type: TypeAmount, Value: "100"},
		{Type: TypeAmount, Value: "200"},
		{Type: TypeRecipient, Value: "ana"},
	})
	assert.Len(t, present, 2)
	assert.Contains(t, present, TypeAmount)
	assert.Contains(t, present, TypeRecipient)
	assert.NotContains(t, present, TypeDueDate)
}
