// Package settings holds per-user display preferences.
package settings

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Currency is an ISO 4217 code the amounts of a user are shown in.
type Currency string

const (
	BRL Currency = "BRL"
	USD Currency = "USD"
	EUR Currency = "EUR"
	GBP Currency = "GBP"

	DefaultCurrency = BRL
)

var ErrUnknownCurrency = errors.New("currency must be one of BRL, USD, EUR or GBP")

var symbols = map[Currency]string{
	BRL: "R$",
	USD: "US$",
	EUR: "€",
	GBP: "£",
}

// Amounts are grouped the Brazilian way whatever the currency: 1.234,56.
var printer = message.NewPrinter(language.BrazilianPortuguese)

func Currencies() []Currency {
	return []Currency{BRL, USD, EUR, GBP}
}

// ParseCurrency is case-insensitive.
func ParseCurrency(s string) (Currency, error) {
	c := Currency(strings.ToUpper(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownCurrency, s)
	}

	return c, nil
}

func (c Currency) Valid() bool {
	_, ok := symbols[c]
	return ok
}

func (c Currency) Symbol() string {
	if s, ok := symbols[c]; ok {
		return s
	}

	return symbols[DefaultCurrency]
}

// Format renders d with two decimals, e.g. "R$ 1.234,56" or "-US$ 10,00".
func (c Currency) Format(d decimal.Decimal) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
	}

	return sign + c.Symbol() + " " + printer.Sprintf("%.2f", d.Abs().Round(2).InexactFloat64())
}

// Settings are the preferences of one user.
type Settings struct {
	Currency Currency `json:"currency"`
}

func Default() Settings {
	return Settings{Currency: DefaultCurrency}
}

// Normalize replaces unknown values with their defaults.
func (s Settings) Normalize() Settings {
	if !s.Currency.Valid() {
		s.Currency = DefaultCurrency
	}

	return s
}

type Patch struct {
	Currency *Currency
}

func (p Patch) Validate() error {
	if p.Currency != nil && !p.Currency.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownCurrency, *p.Currency)
	}

	return nil
}

func (p Patch) Apply(s Settings) Settings {
	if p.Currency != nil {
		s.Currency = *p.Currency
	}

	return s
}
