package analytics

import (
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/financia/internal/transaction"
)

// Score classifies overall financial health from the savings rate.
type Score string

const (
	ScoreExcellent Score = "Excellent"
	ScoreStable    Score = "Stable"
	ScoreCritical  Score = "Critical"
)

const (
	InsightOverspending = "Your spending exceeded your income. Review your expenses."
	InsightCredit       = "Watch out for your dependency on credit."
	InsightSaving       = "Excellent savings rate!"
	InsightKeepLogging  = "Keep logging consistently for deeper analysis."
)

// efficiencySentinel is reported when there is income but no expense.
const efficiencySentinel = 100

var hundred = decimal.NewFromInt(100)

// Health is the metric suite derived from a filtered transaction set.
// Percentages are in the 0-100 scale and nothing is rounded.
type Health struct {
	DaysDiff         int
	SavingsRate      float64
	DailyBurn        float64
	AvgTicket        float64
	CreditDependency float64
	SurvivalDays     float64
	EfficiencyRatio  float64
	Concentration    float64
	TransactionCount int
	Score            Score
	Insight          string
}

// ComputeHealth derives the metrics in dependency order. Each ratio has a
// guarded default so empty or one-sided data never divides by zero.
func ComputeHealth(filtered []transaction.Transaction, totals Totals, r Range) Health {
	h := Health{
		DaysDiff:         r.Days(),
		TransactionCount: len(filtered),
	}

	income, expense, balance := totals.Income, totals.Expense, totals.Balance
	days := decimal.NewFromInt(int64(h.DaysDiff))

	savingsRate := decimal.Zero
	if income.IsPositive() {
		savingsRate = balance.Div(income).Mul(hundred)
	}

	h.SavingsRate = savingsRate.InexactFloat64()

	dailyBurn := expense.Div(days)
	h.DailyBurn = dailyBurn.InexactFloat64()

	var (
		expenseCount int
		creditTotal  decimal.Decimal
	)

	for _, tx := range filtered {
		if tx.Type != transaction.TypeExpense {
			continue
		}

		expenseCount++

		if tx.PaymentMethod == transaction.PaymentCredit {
			creditTotal = creditTotal.Add(tx.Amount)
		}
	}

	if expenseCount > 0 {
		h.AvgTicket = expense.Div(decimal.NewFromInt(int64(expenseCount))).InexactFloat64()
	}

	creditDependency := decimal.Zero
	if expense.IsPositive() {
		creditDependency = creditTotal.Div(expense).Mul(hundred)
	}

	h.CreditDependency = creditDependency.InexactFloat64()

	if dailyBurn.IsPositive() {
		h.SurvivalDays = balance.Div(dailyBurn).InexactFloat64()
	}

	switch {
	case expense.IsPositive():
		h.EfficiencyRatio = income.Div(expense).InexactFloat64()
	case income.IsPositive():
		h.EfficiencyRatio = efficiencySentinel
	}

	if expense.IsPositive() {
		largest := decimal.Zero
		for _, amount := range CategoryBreakdown(filtered, transaction.TypeExpense) {
			largest = decimal.Max(largest, amount)
		}

		h.Concentration = largest.Div(expense).Mul(hundred).InexactFloat64()
	}

	h.Score = scoreFor(savingsRate)
	h.Insight = insightFor(savingsRate, creditDependency)

	return h
}

func scoreFor(savingsRate decimal.Decimal) Score {
	switch {
	case savingsRate.GreaterThan(decimal.NewFromInt(20)):
		return ScoreExcellent
	case savingsRate.IsPositive():
		return ScoreStable
	}

	return ScoreCritical
}

// insightFor returns the first matching advice.
func insightFor(savingsRate, creditDependency decimal.Decimal) string {
	switch {
	case savingsRate.IsNegative():
		return InsightOverspending
	case creditDependency.GreaterThan(decimal.NewFromInt(60)):
		return InsightCredit
	case savingsRate.GreaterThan(decimal.NewFromInt(25)):
		return InsightSaving
	}

	return InsightKeepLogging
}
