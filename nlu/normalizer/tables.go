package normalizer

import "sort"

// contractions maps informal Brazilian-Portuguese tokens (chat slang, spoken
// contractions, fintech jargon) to their canonical written form. Matching is
// whole-word only; ordering is handled by contractionKeys.
var contractions = map[string]string{
	"vc":       "você",
	"vcs":      "vocês",
	"tb":       "também",
	"tbm":      "também",
	"pra":      "para",
	"pro":      "para o",
	"pq":       "porque",
	"q":        "que",
	"qdo":      "quando",
	"qto":      "quanto",
	"qnt":      "quanto",
	"hj":       "hoje",
	"amanha":   "amanhã",
	"vlw":      "valeu",
	"blz":      "beleza",
	"ta":       "está",
	"tá":       "está",
	"to":       "estou",
	"tô":       "estou",
	"tava":     "estava",
	"né":       "não é",
	"ne":       "não é",
	"n":        "não",
	"nao":      "não",
	"msm":      "mesmo",
	"mto":      "muito",
	"mt":       "muito",
	"cmg":      "comigo",
	"ctz":      "certeza",
	"fds":      "fim de semana",
	"obg":      "obrigado",
	"pfv":      "por favor",
	"pf":       "por favor",
	"dnv":      "de novo",
	"agr":      "agora",
	"dps":      "depois",
	"grana":    "dinheiro",
	"bufunfa":  "dinheiro",
	"tutu":     "dinheiro",
	"conto":    "real",
	"contos":   "reais",
	"pila":     "real",
	"milao":    "mil reais",
	"milão":    "mil reais",
	"salario":  "salário",
	"transf":   "transferência",
	"deposito": "depósito",
	"cartao":   "cartão",
}

// contractionKeys holds the contraction keys in longest-first order so a
// longer slang token is never shadowed by a shorter one that happens to be
// its prefix.
var contractionKeys = func() []string {
	keys := make([]string, 0, len(contractions))
	for k := range contractions {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})
	return keys
}()

// stopwords is the fixed Brazilian-Portuguese stopword set.
// Entries are stored unaccented and lowercased; lookups happen after the
// accent-folding step so both "é" and "e" resolve here.
var stopwords = map[string]struct{}{
	"a": {}, "o": {}, "as": {}, "os": {}, "um": {}, "uma": {}, "uns": {}, "umas": {},
	"de": {}, "da": {}, "do": {}, "das": {}, "dos": {}, "em": {}, "na": {}, "no": {},
	"nas": {}, "nos": {}, "por": {}, "pela": {}, "pelo": {}, "com": {}, "sem": {},
	"para": {}, "ate": {}, "sobre": {}, "entre": {}, "e": {}, "ou": {}, "mas": {},
	"que": {}, "se": {}, "ja": {}, "ainda": {}, "tambem": {}, "muito": {}, "mais": {},
	"menos": {}, "bem": {}, "la": {}, "aqui": {}, "ai": {}, "isso": {}, "isto": {},
	"aquilo": {}, "ele": {}, "ela": {}, "eles": {}, "elas": {}, "eu": {}, "tu": {},
	"meu": {}, "minha": {}, "meus": {}, "minhas": {}, "seu": {}, "sua": {},
	"ser": {}, "estar": {}, "esta": {}, "sao": {}, "foi": {}, "era": {}, "ter": {},
	"tem": {}, "tinha": {}, "ao": {}, "aos": {}, "num": {}, "numa": {}, "me": {},
	"te": {}, "lhe": {}, "favor": {}, "oi": {}, "ola": {},
}

// accentFold maps each accented character used in Brazilian Portuguese to its
// unaccented Latin equivalent, preserving case. Characters outside the table
// pass through unchanged.
var accentFold = map[rune]rune{
	'á': 'a', 'à': 'a', 'â': 'a', 'ã': 'a', 'ä': 'a',
	'é': 'e', 'è': 'e', 'ê': 'e', 'ë': 'e',
	'í': 'i', 'ì': 'i', 'î': 'i', 'ï': 'i',
	'ó': 'o', 'ò': 'o', 'ô': 'o', 'õ': 'o', 'ö': 'o',
	'ú': 'u', 'ù': 'u', 'û': 'u', 'ü': 'u',
	'ç': 'c', 'ñ': 'n',
	'Á': 'A', 'À': 'A', 'Â': 'A', 'Ã': 'A', 'Ä': 'A',
	'É': 'E', 'È': 'E', 'Ê': 'E', 'Ë': 'E',
	'Í': 'I', 'Ì': 'I', 'Î': 'I', 'Ï': 'I',
	'Ó': 'O', 'Ò': 'O', 'Ô': 'O', 'Õ': 'O', 'Ö': 'O',
	'Ú': 'U', 'Ù': 'U', 'Û': 'U', 'Ü': 'U',
	'Ç': 'C', 'Ñ': 'N',
}
