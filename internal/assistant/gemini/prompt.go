package gemini

import (
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/MrJamesThe3rd/financia/internal/assistant"
	"github.com/MrJamesThe3rd/financia/internal/category"
)

func systemInstruction(b assistant.Brief) string {
	var sb strings.Builder

	sb.WriteString("You are the Financia assistant, in charge of the user's personal bookkeeping.\n")
	fmt.Fprintf(&sb, "Today is %s.\n\n", b.Today)

	sb.WriteString("Capabilities:\n")
	fmt.Fprintf(&sb, "1. Regular income and expenses: '%s'.\n", assistant.ToolSaveTransaction)
	fmt.Fprintf(&sb, "2. Investments and contributions: '%s'.\n", assistant.ToolSaveInvestment)
	fmt.Fprintf(&sb, "3. Taxes and fees: '%s'.\n\n", assistant.ToolSaveTax)

	sb.WriteString("Current context:\n")
	sb.WriteString("- Transactions: ")
	writeGroups(&sb, b.TransactionGroups())
	sb.WriteString("- Taxes: ")
	writeGroups(&sb, b.TaxGroups())

	sb.WriteString("\nStyle:\n")
	sb.WriteString("- Short, elegant answers.\n")
	sb.WriteString("- Help the user not to miss tax due dates.\n")
	sb.WriteString("- Use bold for **amounts** and **dates**.\n")

	return sb.String()
}

func writeGroups(sb *strings.Builder, groups []assistant.Group) {
	if len(groups) == 0 {
		sb.WriteString("none\n")
		return
	}

	parts := make([]string, len(groups))
	for i, g := range groups {
		parts[i] = fmt.Sprintf("%s = %s", g.Label, g.Amount.StringFixed(2))
	}

	sb.WriteString(strings.Join(parts, "; "))
	sb.WriteString("\n")
}

func categoryIDs(kind category.Kind) string {
	cats := category.List(kind)

	ids := make([]string, len(cats))
	for i, c := range cats {
		ids[i] = c.ID
	}

	return strings.Join(ids, ", ")
}

func str(description string) *genai.Schema {
	return &genai.Schema{Type: genai.TypeString, Description: description}
}

func num(description string) *genai.Schema {
	return &genai.Schema{Type: genai.TypeNumber, Description: description}
}

func declarations() []*genai.FunctionDeclaration {
	return []*genai.FunctionDeclaration{
		{
			Name:        assistant.ToolSaveTransaction,
			Description: "Records a new income or expense described by the user.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"description": str("Short description of what was bought or received."),
					"amount":      num("Total amount of the transaction."),
					"category": str("Best matching category: " +
						categoryIDs(category.KindIncome) + ", " + categoryIDs(category.KindExpense) + "."),
					"type":          str(`Either "income" or "expense".`),
					"paymentMethod": str("Payment method: pix, credit, debit, cash."),
					"date":          str("Date in YYYY-MM-DD format."),
				},
				Required: []string{"description", "amount", "category", "type", "paymentMethod"},
			},
		},
		{
			Name:        assistant.ToolSaveInvestment,
			Description: "Records a new investment made by the user.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"name":     str("Asset or institution name (e.g. Petrobras, Tesouro Selic, Bitcoin)."),
					"ticker":   str("Asset ticker when there is one (e.g. PETR4, BTC)."),
					"amount":   num("Amount invested."),
					"category": str("Investment category: " + categoryIDs(category.KindInvestment) + "."),
					"date":     str("Date in YYYY-MM-DD format."),
				},
				Required: []string{"name", "amount", "category"},
			},
		},
		{
			Name:        assistant.ToolSaveTax,
			Description: "Records a new tax or fee to keep track of.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"name":     str("Tax name (e.g. IPTU, IPVA, IRPF)."),
					"amount":   num("Tax amount."),
					"dueDate":  str("Due date in YYYY-MM-DD format."),
					"category": str("Category: " + categoryIDs(category.KindTax) + "."),
					"status":   str(`Either "paid" or "pending". When the user says they paid, use "paid".`),
				},
				Required: []string{"name", "amount", "dueDate", "category", "status"},
			},
		},
	}
}
