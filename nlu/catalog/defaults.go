package catalog

import "regexp"

// Default builds the built-in Brazilian-Portuguese financial catalog,
// frozen and ready for classification.
//
// Patterns run against raw (non-normalized) text, hence the (?i) flag and
// the accent alternations. Keywords and examples feed both the keyword
// scorer and the similarity vectors, so they are written the way users
// actually speak, slang included.
func Default() *Registry {
	r := unfrozenDefaults()
	if err := r.Freeze(); err != nil {
		// The built-in catalog is validated by tests; a failure here is a
		// programming error, not a runtime condition.
		panic(err)
	}
	return r
}

// unfrozenDefaults registers the built-in definitions without freezing,
// leaving room for an overlay to add keywords and examples.
func unfrozenDefaults() *Registry {
	r := NewRegistry()

	mustRegister(r, Definition{
		Intent: CheckBalance,
		Patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\b(qual|quanto|ver|mostra|consultar?)\b.*\bsaldo\b`),
			regexp.MustCompile(`(?i)\bsaldo\b.*\b(conta|atual|dispon[ií]vel)\b`),
			regexp.MustCompile(`(?i)\bquanto\b.*\b(tenho|sobrou|resta)\b`),
		},
		Keywords: []string{"saldo", "quanto tenho", "quanto sobrou", "dinheiro na conta", "extrato"},
		Examples: []string{
			"qual é meu saldo",
			"quanto tenho na conta",
			"me mostra o saldo",
			"saldo atual por favor",
			"quanto dinheiro sobrou",
			"consultar saldo da conta",
		},
		Priority: 100,
	})

	mustRegister(r, Definition{
		Intent: CheckBudget,
		Patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\b(como|qual)\b.*\bor[cç]amento\b`),
			regexp.MustCompile(`(?i)\bquanto\b.*\b(gastei|gasto)\b`),
		},
		Keywords: []string{"orçamento", "orcamento", "gastos", "gastei", "despesas", "limite de gastos"},
		Examples: []string{
			"como está meu orçamento",
			"quanto gastei esse mês",
			"quais foram minhas despesas",
			"quanto sobra do meu limite de gastos",
			"me mostra os gastos da semana",
		},
		Priority: 90,
	})

	mustRegister(r, Definition{
		Intent: PayBill,
		Patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\bpagar?\b.*\b(conta|boleto|fatura)\b`),
			regexp.MustCompile(`(?i)\b(boleto|fatura)\b.*\b(vence|vencendo|vencimento)\b`),
		},
		Keywords: []string{"pagar", "boleto", "fatura", "vencimento", "pagamento"},
		Examples: []string{
			"pagar a conta de luz",
			"quero pagar o boleto",
			"paga a fatura do cartão",
			"pagar boleto de 200 reais dia 15",
		},
		RequiredSlots: []string{SlotAmount, SlotDueDate},
		Priority:      110,
	})

	mustRegister(r, Definition{
		Intent: CheckIncome,
		Patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\bquanto\b.*\b(recebi|ganhei|entrou)\b`),
			regexp.MustCompile(`(?i)\b(sal[aá]rio|renda|receita)\b.*\b(m[eê]s|caiu|entrou)\b`),
		},
		Keywords: []string{"recebi", "salário", "renda", "receita", "ganhos", "entradas"},
		Examples: []string{
			"quanto recebi esse mês",
			"meu salário já caiu",
			"qual foi minha renda",
			"quanto entrou na conta esse mês",
		},
		Priority: 90,
	})

	mustRegister(r, Definition{
		Intent: FinancialProjection,
		Patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\b(proje[cç][aã]o|previs[aã]o)\b`),
			regexp.MustCompile(`(?i)\bcomo\b.*\b(vai estar|ficar[áa]?)\b.*\b(conta|dinheiro|saldo)\b`),
		},
		Keywords: []string{"projeção", "previsão", "planejamento", "futuro", "fim do mês"},
		Examples: []string{
			"como vai estar minha conta no fim do mês",
			"faz uma projeção dos meus gastos",
			"previsão de saldo para o próximo mês",
			"consigo fechar o mês no azul",
		},
		Priority: 80,
	})

	mustRegister(r, Definition{
		Intent: TransferMoney,
		Patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\btransf(erir|ere|iro)\b`),
			regexp.MustCompile(`(?i)\b(fazer|faz)\b.*\btransfer[eê]ncia\b`),
			regexp.MustCompile(`(?i)\bpix\b.*\b(para|pro|pra)\b`),
			regexp.MustCompile(`(?i)\b(manda|enviar?|envia)\b.*\b(dinheiro|reais|grana)\b`),
		},
		Keywords: []string{"transferir", "transferência", "pix", "mandar dinheiro", "enviar dinheiro"},
		Examples: []string{
			"transferir 100 reais para joão",
			"faz um pix para maria",
			"manda dinheiro para minha mãe",
			"fazer uma transferência de 50 reais",
		},
		RequiredSlots: []string{SlotAmount, SlotRecipient},
		Priority:      110,
	})

	return r
}

func mustRegister(r *Registry, def Definition) {
	if err := r.Register(def); err != nil {
		panic(err)
	}
}
