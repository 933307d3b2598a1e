package category

// Kind identifies one of the fixed category sets.
type Kind string

const (
	KindIncome     Kind = "income"
	KindExpense    Kind = "expense"
	KindInvestment Kind = "investment"
	KindTax        Kind = "tax"
)

// Category is the display metadata attached to a category id.
type Category struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
	Icon  string `json:"icon"`
}

// Fallback ids per kind.
const (
	OtherIncome     = "other_income"
	OtherExpense    = "other_expense"
	OtherInvestment = "other_invest"
	OtherTax        = "tax_other"
)

var income = []Category{
	{ID: "salary", Name: "Salário", Color: "#34C759", Icon: "💰"},
	{ID: "freelance", Name: "Freelance", Color: "#5856D6", Icon: "💻"},
	{ID: "investments", Name: "Investimentos", Color: "#007AFF", Icon: "📈"},
	{ID: OtherIncome, Name: "Outros", Color: "#8E8E93", Icon: "✨"},
}

var expense = []Category{
	{ID: "food", Name: "Alimentação", Color: "#FF9500", Icon: "🍔"},
	{ID: "rent", Name: "Moradia", Color: "#FF3B30", Icon: "🏠"},
	{ID: "transport", Name: "Transporte", Color: "#5AC8FA", Icon: "🚗"},
	{ID: "entertainment", Name: "Lazer", Color: "#AF52DE", Icon: "🍿"},
	{ID: "health", Name: "Saúde", Color: "#FF2D55", Icon: "🏥"},
	{ID: OtherExpense, Name: "Outros", Color: "#8E8E93", Icon: "📦"},
}

var investment = []Category{
	{ID: "stocks", Name: "Ações", Color: "#007AFF", Icon: "📊"},
	{ID: "fixed_income", Name: "Renda Fixa", Color: "#34C759", Icon: "🛡️"},
	{ID: "fiis", Name: "FIIs", Color: "#FF9500", Icon: "🏢"},
	{ID: "crypto", Name: "Cripto", Color: "#5856D6", Icon: "₿"},
	{ID: "treasury", Name: "Tesouro", Color: "#FF3B30", Icon: "🇧🇷"},
	{ID: OtherInvestment, Name: "Outros", Color: "#8E8E93", Icon: "🪙"},
}

var tax = []Category{
	{ID: "irpf", Name: "IRPF", Color: "#34C759", Icon: "🦁"},
	{ID: "iptu", Name: "IPTU", Color: "#5856D6", Icon: "🏠"},
	{ID: "ipva", Name: "IPVA", Color: "#007AFF", Icon: "🚗"},
	{ID: "iss", Name: "ISS/MEI", Color: "#FF9500", Icon: "💼"},
	{ID: OtherTax, Name: "Taxas/Outros", Color: "#8E8E93", Icon: "📜"},
}

var (
	sets = map[Kind][]Category{
		KindIncome:     income,
		KindExpense:    expense,
		KindInvestment: investment,
		KindTax:        tax,
	}

	fallbacks = map[Kind]string{
		KindIncome:     OtherIncome,
		KindExpense:    OtherExpense,
		KindInvestment: OtherInvestment,
		KindTax:        OtherTax,
	}

	index = buildIndex()
)

func buildIndex() map[Kind]map[string]Category {
	idx := make(map[Kind]map[string]Category, len(sets))
	for kind, cats := range sets {
		byID := make(map[string]Category, len(cats))
		for _, c := range cats {
			byID[c.ID] = c
		}

		idx[kind] = byID
	}

	return idx
}

// List returns a copy of the categories of the given kind in display order.
func List(kind Kind) []Category {
	return append([]Category(nil), sets[kind]...)
}

// Known reports whether id belongs to the set of the given kind.
func Known(kind Kind, id string) bool {
	_, ok := index[kind][id]
	return ok
}

// Resolve returns the metadata for id within kind. Unknown ids resolve to the
// kind's "Other" entry; unknown kinds resolve to the expense fallback.
func Resolve(kind Kind, id string) Category {
	byID, ok := index[kind]
	if !ok {
		return index[KindExpense][OtherExpense]
	}

	if c, ok := byID[id]; ok {
		return c
	}

	return byID[fallbacks[kind]]
}

// IsIncome reports whether id is one of the income-bearing categories.
func IsIncome(id string) bool {
	return Known(KindIncome, id)
}
