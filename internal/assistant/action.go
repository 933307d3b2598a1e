package assistant

import (
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/financia/internal/calendar"
	"github.com/MrJamesThe3rd/financia/internal/category"
	"github.com/MrJamesThe3rd/financia/internal/investment"
	"github.com/MrJamesThe3rd/financia/internal/settings"
	"github.com/MrJamesThe3rd/financia/internal/tax"
	"github.com/MrJamesThe3rd/financia/internal/transaction"
)

// Tool names understood by Decode.
const (
	ToolSaveTransaction = "save_transaction"
	ToolSaveInvestment  = "save_investment"
	ToolSaveTax         = "save_tax"
)

var (
	ErrUnknownTool  = errors.New("unknown tool")
	ErrMissingField = errors.New("missing required field")
	ErrInvalidField = errors.New("invalid field")
)

// Action is a validated record request. The set of implementations is closed:
// RecordTransaction, RecordInvestment and RecordTax.
type Action interface {
	// Confirmation is the message sent back to the model once the action is
	// applied. Amounts are written in the user's currency.
	Confirmation(c settings.Currency) string
	// Fallback is shown to the user when the model does not answer the confirmation.
	Fallback() string

	action()
}

type RecordTransaction struct {
	Params transaction.CreateParams
}

type RecordInvestment struct {
	Params investment.CreateParams
}

type RecordTax struct {
	Params tax.CreateParams
}

func (RecordTransaction) action() {}
func (RecordInvestment) action()  {}
func (RecordTax) action()         {}

func (a RecordTransaction) Confirmation(c settings.Currency) string {
	return fmt.Sprintf("Confirmed the record of %s.", c.Format(a.Params.Amount))
}

func (a RecordInvestment) Confirmation(settings.Currency) string {
	return fmt.Sprintf("Investment in %s saved.", a.Params.Name)
}

func (a RecordTax) Confirmation(settings.Currency) string {
	return fmt.Sprintf("Tax %s recorded for tracking.", a.Params.Name)
}

func (RecordTransaction) Fallback() string { return "Transaction recorded!" }
func (RecordInvestment) Fallback() string  { return "Investment recorded!" }
func (RecordTax) Fallback() string         { return "Tax recorded!" }

// Decode validates every call and converts it into an action. A single invalid
// call rejects the whole batch. Missing dates default to today.
func Decode(calls []Call, today calendar.Date) ([]Action, error) {
	actions := make([]Action, 0, len(calls))

	for i, call := range calls {
		a, err := decodeCall(call, today)
		if err != nil {
			return nil, fmt.Errorf("decoding call %d (%s): %w", i, call.Name, err)
		}

		actions = append(actions, a)
	}

	return actions, nil
}

func decodeCall(call Call, today calendar.Date) (Action, error) {
	args := arguments(call.Args)

	switch call.Name {
	case ToolSaveTransaction:
		return decodeTransaction(args, today)
	case ToolSaveInvestment:
		return decodeInvestment(args, today)
	case ToolSaveTax:
		return decodeTax(args)
	}

	return nil, fmt.Errorf("%w: %q", ErrUnknownTool, call.Name)
}

func decodeTransaction(args arguments, today calendar.Date) (Action, error) {
	p := transaction.CreateParams{}

	var err error

	if p.Description, err = args.requiredString("description"); err != nil {
		return nil, err
	}

	if p.Amount, err = args.amount("amount"); err != nil {
		return nil, err
	}

	if p.Category, err = args.requiredString("category"); err != nil {
		return nil, err
	}

	method, err := args.requiredString("paymentMethod")
	if err != nil {
		return nil, err
	}

	// The model may omit the type; it is then inferred from the category.
	p.Type = transaction.Type(strings.ToLower(args.optionalString("type")))
	p.PaymentMethod = transaction.PaymentMethod(strings.ToLower(method))
	p.Date = args.date("date", today)

	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidField, err)
	}

	return RecordTransaction{Params: p}, nil
}

func decodeInvestment(args arguments, today calendar.Date) (Action, error) {
	p := investment.CreateParams{}

	var err error

	if p.Name, err = args.requiredString("name"); err != nil {
		return nil, err
	}

	if p.Amount, err = args.amount("amount"); err != nil {
		return nil, err
	}

	cat, err := args.requiredString("category")
	if err != nil {
		return nil, err
	}

	p.Category = category.Resolve(category.KindInvestment, cat).ID
	p.Ticker = strings.ToUpper(args.optionalString("ticker"))
	p.Date = args.date("date", today)

	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidField, err)
	}

	return RecordInvestment{Params: p}, nil
}

func decodeTax(args arguments) (Action, error) {
	p := tax.CreateParams{}

	var err error

	if p.Name, err = args.requiredString("name"); err != nil {
		return nil, err
	}

	if p.Amount, err = args.amount("amount"); err != nil {
		return nil, err
	}

	due, err := args.requiredString("dueDate")
	if err != nil {
		return nil, err
	}

	cat, err := args.requiredString("category")
	if err != nil {
		return nil, err
	}

	status, err := args.requiredString("status")
	if err != nil {
		return nil, err
	}

	p.DueDate = calendar.Date(due)
	p.Category = category.Resolve(category.KindTax, cat).ID
	p.Status = tax.Status(strings.ToLower(status))

	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidField, err)
	}

	return RecordTax{Params: p}, nil
}

type arguments map[string]any

func (a arguments) optionalString(name string) string {
	s, _ := a[name].(string)
	return strings.TrimSpace(s)
}

func (a arguments) requiredString(name string) (string, error) {
	v, ok := a[name]
	if !ok || v == nil {
		return "", fmt.Errorf("%w: %s", ErrMissingField, name)
	}

	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%w: %s is %T, want string", ErrInvalidField, name, v)
	}

	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("%w: %s", ErrMissingField, name)
	}

	return s, nil
}

// amount accepts JSON numbers as decoded by encoding/json and numeric strings.
func (a arguments) amount(name string) (decimal.Decimal, error) {
	v, ok := a[name]
	if !ok || v == nil {
		return decimal.Zero, fmt.Errorf("%w: %s", ErrMissingField, name)
	}

	switch n := v.(type) {
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return decimal.Zero, fmt.Errorf("%w: %s is not finite", ErrInvalidField, name)
		}

		return decimal.RequireFromString(strconv.FormatFloat(n, 'f', -1, 64)), nil
	case int:
		return decimal.NewFromInt(int64(n)), nil
	case int64:
		return decimal.NewFromInt(n), nil
	case json.Number:
		return decimal.NewFromString(n.String())
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(n))
		if err != nil {
			return decimal.Zero, fmt.Errorf("%w: %s: %w", ErrInvalidField, name, err)
		}

		return d, nil
	}

	return decimal.Zero, fmt.Errorf("%w: %s is %T, want number", ErrInvalidField, name, v)
}

func (a arguments) date(name string, fallback calendar.Date) calendar.Date {
	s := a.optionalString(name)
	if s == "" {
		return fallback
	}

	return calendar.Date(s)
}

// describe renders call arguments for logs.
func (c Call) describe() string {
	parts := make([]string, 0, len(c.Args))
	for _, k := range slices.Sorted(maps.Keys(c.Args)) {
		parts = append(parts, k+"="+strconv.Quote(fmt.Sprint(c.Args[k])))
	}

	return c.Name + "(" + strings.Join(parts, " ") + ")"
}
