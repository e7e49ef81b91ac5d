// Package format renders engine values the way Brazilian users read them.
package format

import (
	"fmt"
	"math"

	"github.com/iwvelando/erp-engines/pkg/mathutil"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

func printer() *message.Printer {
	return message.NewPrinter(language.BrazilianPortuguese)
}

// BRL returns an amount in reais with Brazilian separators (e.g. "-R$ 1.234,56").
// Halves round away from zero, as the engines round.
func BRL(amount float64) string {
	amount = mathutil.Round(amount)
	formatted := printer().Sprintf("%.2f", math.Abs(amount))
	if amount < 0 && formatted != "0,00" {
		return "-R$ " + formatted
	}
	return "R$ " + formatted
}

// Number formats a value with the given decimals and Brazilian separators.
func Number(value float64, decimals int) string {
	if decimals < 0 {
		decimals = 0
	}
	return printer().Sprintf(fmt.Sprintf("%%.%df", decimals), mathutil.RoundTo(value, decimals))
}

// Percent formats a percentage with two decimals (e.g. "28,33%").
func Percent(value float64) string {
	return Number(value, 2) + "%"
}
