package telegram

import (
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// ParseAmount parses an amount typed by a person.
//
// Spaces group digits ("50 000") and a single comma is read as the decimal
// separator ("1,5"). When both commas and dots occur, commas group digits.
// Other characters such as currency symbols are ignored. The amount must be positive.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || r == '_' || r == '\'' {
			return -1
		}
		return r
	}, s)

	if strings.Contains(s, ".") {
		s = strings.ReplaceAll(s, ",", "")
	} else if strings.Count(s, ",") == 1 {
		s = strings.Replace(s, ",", ".", 1)
	} else {
		s = strings.ReplaceAll(s, ",", "")
	}

	s = strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) || r == '.' || r == '-' {
			return r
		}
		return -1
	}, s)

	amount, err := decimal.NewFromString(s)
	if err != nil || !amount.IsPositive() {
		return decimal.Zero, ErrAmountInvalid
	}

	return amount, nil
}
