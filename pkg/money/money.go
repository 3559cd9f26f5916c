// Package money renders catalog prices and order totals for display.
// Amounts stay decimal end to end; formatting happens once, at the edge,
// and formatted strings are never parsed back into numbers.
package money

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// DefaultSymbol prefixes formatted amounts unless the formatter overrides it.
const DefaultSymbol = "₹"

// DefaultLocale drives digit grouping when no locale is configured.
const DefaultLocale = "en"

// Formatter renders decimal amounts as currency strings with a fixed symbol
// and exactly two fraction digits.
type Formatter struct {
	symbol  string
	printer *message.Printer
}

// NewFormatter builds a formatter for the given currency symbol and BCP 47
// locale tag. Empty values and malformed locales fall back to the defaults.
func NewFormatter(symbol, locale string) *Formatter {
	if symbol == "" {
		symbol = DefaultSymbol
	}
	if locale == "" {
		locale = DefaultLocale
	}
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.MustParse(DefaultLocale)
	}
	return &Formatter{symbol: symbol, printer: message.NewPrinter(tag)}
}

// Format renders the amount as symbol plus grouped digits, rounded half-up
// to two decimal places.
func (f *Formatter) Format(amount decimal.Decimal) string {
	value, _ := amount.Round(2).Float64()
	return f.symbol + f.printer.Sprint(number.Decimal(value, number.Scale(2)))
}

// Symbol returns the configured currency symbol.
func (f *Formatter) Symbol() string {
	return f.symbol
}
