// Package mathutil provides common mathematical utility functions.
package mathutil

import (
	"math"

	"github.com/iwvelando/erp-engines/pkg/constants"
)

// Round rounds a value to two decimals, i.e. to represent real currency.
// Every monetary field produced by the engines passes through it.
func Round(val float64) float64 {
	return math.Round(val*constants.DecimalPrecision) / constants.DecimalPrecision
}

// RoundTo rounds a value to the given number of decimals. Negative decimals
// are treated as zero.
func RoundTo(val float64, decimals int) float64 {
	if decimals <= 0 {
		return math.Round(val)
	}
	factor := math.Pow(10, float64(decimals))
	return math.Round(val*factor) / factor
}

// ToCents converts a currency value into integer centavos.
func ToCents(val float64) int64 {
	return int64(math.Round(val * constants.DecimalPrecision))
}

// FromCents converts integer centavos back into a currency value.
func FromCents(cents int64) float64 {
	return float64(cents) / constants.DecimalPrecision
}

// Max returns the maximum of two float64 values
func Max(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

// CalculatePercentage calculates what percentage value is of total
func CalculatePercentage(value, total float64) float64 {
	if total == 0 {
		return 0
	}
	return (value / total) * constants.PercentageMultiplier
}

// ApplyPercentage applies a percentage to a value
func ApplyPercentage(value, percentage float64) float64 {
	return value * (percentage / constants.PercentageMultiplier)
}

// ReducePercentage removes a percentage from a value, e.g. a base reduction.
func ReducePercentage(value, percentage float64) float64 {
	return value * (1 - percentage/constants.PercentageMultiplier)
}

// Deref returns the value behind an optional float or zero when absent.
func Deref(val *float64) float64 {
	if val == nil {
		return 0
	}
	return *val
}
