package summary

import (
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/financia/internal/analytics"
	"github.com/MrJamesThe3rd/financia/internal/calendar"
	"github.com/MrJamesThe3rd/financia/internal/tax"
)

type totalsResponse struct {
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Balance decimal.Decimal `json:"balance"`
}

type sliceResponse struct {
	Category string          `json:"category"`
	Name     string          `json:"name"`
	Color    string          `json:"color"`
	Icon     string          `json:"icon"`
	Amount   decimal.Decimal `json:"amount"`
}

type pointResponse struct {
	Key     string          `json:"key"`
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
}

type healthResponse struct {
	DaysDiff         int     `json:"days_diff"`
	SavingsRate      float64 `json:"savings_rate"`
	DailyBurn        float64 `json:"daily_burn"`
	AvgTicket        float64 `json:"avg_ticket"`
	CreditDependency float64 `json:"credit_dependency"`
	SurvivalDays     float64 `json:"survival_days"`
	EfficiencyRatio  float64 `json:"efficiency_ratio"`
	Concentration    float64 `json:"concentration"`
	TransactionCount int     `json:"transaction_count"`
	Score            string  `json:"score"`
	Insight          string  `json:"insight"`
}

type summaryResponse struct {
	StartDate        calendar.Date              `json:"start_date"`
	EndDate          calendar.Date              `json:"end_date"`
	Totals           totalsResponse             `json:"totals"`
	ExpenseBreakdown map[string]decimal.Decimal `json:"expense_breakdown"`
	IncomeBreakdown  map[string]decimal.Decimal `json:"income_breakdown"`
	ExpenseSlices    []sliceResponse            `json:"expense_slices"`
	Daily            []pointResponse            `json:"daily"`
	Monthly          []pointResponse            `json:"monthly"`
	Health           healthResponse             `json:"health"`
}

type allocationResponse struct {
	Total      decimal.Decimal            `json:"total"`
	ByCategory map[string]decimal.Decimal `json:"by_category"`
	Slices     []sliceResponse            `json:"slices"`
}

type nextDueResponse struct {
	ID      string          `json:"id"`
	Name    string          `json:"name"`
	Amount  decimal.Decimal `json:"amount"`
	DueDate calendar.Date   `json:"due_date"`
}

type taxOverviewResponse struct {
	Paid     decimal.Decimal                `json:"paid"`
	Pending  decimal.Decimal                `json:"pending"`
	ByStatus map[tax.Status]decimal.Decimal `json:"by_status"`
	NextDue  *nextDueResponse               `json:"next_due,omitempty"`
	Overdue  int                            `json:"overdue"`
}

func toSlices(slices []analytics.Slice) []sliceResponse {
	resp := make([]sliceResponse, len(slices))
	for i, s := range slices {
		resp[i] = sliceResponse{
			Category: s.Category.ID,
			Name:     s.Category.Name,
			Color:    s.Category.Color,
			Icon:     s.Category.Icon,
			Amount:   s.Amount,
		}
	}

	return resp
}

func toPoints(points []analytics.Point) []pointResponse {
	resp := make([]pointResponse, len(points))
	for i, p := range points {
		resp[i] = pointResponse{Key: p.Key, Income: p.Income, Expense: p.Expense}
	}

	return resp
}

func toSummaryResponse(s analytics.Summary) summaryResponse {
	h := s.Health

	return summaryResponse{
		StartDate: s.Range.Start,
		EndDate:   s.Range.End,
		Totals: totalsResponse{
			Income:  s.Totals.Income,
			Expense: s.Totals.Expense,
			Balance: s.Totals.Balance,
		},
		ExpenseBreakdown: s.ExpenseBreakdown,
		IncomeBreakdown:  s.IncomeBreakdown,
		ExpenseSlices:    toSlices(s.ExpenseSlices),
		Daily:            toPoints(s.Daily),
		Monthly:          toPoints(s.Monthly),
		Health: healthResponse{
			DaysDiff:         h.DaysDiff,
			SavingsRate:      h.SavingsRate,
			DailyBurn:        h.DailyBurn,
			AvgTicket:        h.AvgTicket,
			CreditDependency: h.CreditDependency,
			SurvivalDays:     h.SurvivalDays,
			EfficiencyRatio:  h.EfficiencyRatio,
			Concentration:    h.Concentration,
			TransactionCount: h.TransactionCount,
			Score:            string(h.Score),
			Insight:          h.Insight,
		},
	}
}

func toAllocationResponse(a analytics.Allocation) allocationResponse {
	return allocationResponse{
		Total:      a.Total,
		ByCategory: a.ByCategory,
		Slices:     toSlices(a.Slices),
	}
}

func toTaxOverviewResponse(o analytics.TaxOverview) taxOverviewResponse {
	resp := taxOverviewResponse{
		Paid:     o.Paid,
		Pending:  o.Pending,
		ByStatus: o.ByStatus,
		Overdue:  o.Overdue,
	}

	if o.NextDue != nil {
		resp.NextDue = &nextDueResponse{
			ID:      o.NextDue.ID,
			Name:    o.NextDue.Name,
			Amount:  o.NextDue.Amount,
			DueDate: o.NextDue.DueDate,
		}
	}

	return resp
}
