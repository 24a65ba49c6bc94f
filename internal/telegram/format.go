package telegram

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Formatter renders numbers for the locale of the bot.
type Formatter struct {
	printer *message.Printer
}

// NewFormatter returns a formatter for the BCP 47 locale, e.g. "ru".
// Unknown locales fall back to the root locale.
func NewFormatter(locale string) Formatter {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.Und
	}

	return Formatter{printer: message.NewPrinter(tag)}
}

// Number formats the amount with at most two fraction digits.
func (f Formatter) Number(amount decimal.Decimal) string {
	v, _ := amount.Round(2).Float64()
	return f.printer.Sprint(number.Decimal(v, number.MaxFractionDigits(2)))
}

// Money formats the amount followed by the narrow symbol of the currency.
func (f Formatter) Money(amount decimal.Decimal, code string) string {
	unit, err := currency.ParseISO(code)
	if err != nil {
		return f.Number(amount) + " " + code
	}

	return f.printer.Sprintf("%s %v", f.Number(amount), currency.NarrowSymbol(unit))
}

// Percent formats a percentage value, e.g. 12.5%.
func (f Formatter) Percent(value decimal.Decimal) string {
	return f.Number(value) + "%"
}
