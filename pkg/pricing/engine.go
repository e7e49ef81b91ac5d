package pricing

import (
	"fmt"
	"math"
	"strings"

	"github.com/iwvelando/erp-engines/pkg/constants"
	"github.com/iwvelando/erp-engines/pkg/mathutil"
)

// CalculateTotalCost sums the per-unit cost components.
func CalculateTotalCost(in Inputs) float64 {
	return in.BaseCost + in.Freight + in.Packaging + in.OtherCosts
}

// CalculateTotalTaxesPercent returns the aggregate tax burden when one is
// given, otherwise the sum of the individual rates. The two never combine.
func CalculateTotalTaxesPercent(in Inputs) float64 {
	if in.TaxBurdenPercent > 0 {
		return in.TaxBurdenPercent
	}
	return in.ICMSRate + in.PISRate + in.COFINSRate + in.ISSRate
}

// CalculateTotalFeesPercent sums the percentage fees charged on the price.
func CalculateTotalFeesPercent(in Inputs) float64 {
	return in.GatewayFeePercent + in.MarketplaceFeePercent + in.CommissionPercent
}

// psychologicalEnding maps an ending token to its fractional value. Unknown
// tokens fall back to .99 and report false.
func psychologicalEnding(token string) (float64, bool) {
	normalized := strings.TrimLeft(strings.TrimSpace(token), "0")
	normalized = strings.TrimPrefix(normalized, ".")
	switch normalized {
	case constants.PsychologicalEnding99:
		return 0.99, true
	case constants.PsychologicalEnding95:
		return 0.95, true
	default:
		return 0.99, false
	}
}

// ApplyRounding rounds a price according to the policy. Psychological
// rounding keeps the integer part and replaces the fraction with the ending,
// whatever the decimal count.
func ApplyRounding(price float64, policy RoundingPolicy) float64 {
	switch policy.Kind {
	case RoundingNormal:
		return mathutil.RoundTo(price, policy.Decimals)
	case RoundingPsychological:
		ending, _ := psychologicalEnding(policy.Ending)
		return math.Floor(price) + ending
	default:
		return price
	}
}

// calculation accumulates the trail and advisories of one pricing run.
type calculation struct {
	steps    []string
	warnings []string
}

func (c *calculation) step(format string, args ...interface{}) {
	c.steps = append(c.steps, fmt.Sprintf(format, args...))
}

func (c *calculation) warn(format string, args ...interface{}) {
	c.warnings = append(c.warnings, fmt.Sprintf(format, args...))
}

// grossUp divides the amount by (1 - deductions). A non-positive denominator
// leaves the amount as is and records a warning.
func (c *calculation) grossUp(amount, deductionsPercent float64) float64 {
	denominator := 1 - deductionsPercent/constants.PercentageMultiplier
	if denominator <= 0 {
		c.warn("price cannot absorb deductions of %.2f%%; using %.2f without gross-up", deductionsPercent, amount)
		c.step("Gross-up skipped: 1 - %.4f = %.4f is not positive", deductionsPercent/constants.PercentageMultiplier, denominator)
		return amount
	}
	price := amount / denominator
	c.step("Gross-up: %.2f / (1 - %.4f) = %.4f", amount, deductionsPercent/constants.PercentageMultiplier, price)
	return price
}

// CalculatePricing derives a suggested price for the mode, rounds it and
// recomputes every metric from the rounded price. Problems are reported as
// warnings alongside a best-effort result.
func CalculatePricing(in Inputs, mode Mode, policy RoundingPolicy) Result {
	calc := &calculation{}

	totalCost := CalculateTotalCost(in)
	taxes := CalculateTotalTaxesPercent(in)
	fees := CalculateTotalFeesPercent(in)

	calc.step("Total cost: %.2f = base %.2f + freight %.2f + packaging %.2f + other %.2f",
		totalCost, in.BaseCost, in.Freight, in.Packaging, in.OtherCosts)
	if totalCost <= 0 {
		calc.warn("total cost is %.2f; margin and markup are not meaningful", totalCost)
	}

	taxSource := "individual rates"
	if in.TaxBurdenPercent > 0 {
		taxSource = "aggregate burden"
	}
	calc.step("Deductions: taxes %.2f%% (%s) + fees %.2f%% = %.2f%% of price, fixed fee %.2f",
		taxes, taxSource, fees, taxes+fees, in.FixedFee)
	if taxes+fees >= constants.PercentageMultiplier {
		calc.warn("taxes and fees add up to %.2f%% of the price", taxes+fees)
	}

	var price float64
	switch mode {
	case ModeMarkup:
		gross := totalCost * (1 + in.MarkupPercent/constants.PercentageMultiplier)
		calc.step("Markup %.2f%%: %.2f x %.4f = %.2f",
			in.MarkupPercent, totalCost, 1+in.MarkupPercent/constants.PercentageMultiplier, gross)
		price = calc.grossUp(gross+in.FixedFee, taxes+fees)
	case ModeMargin:
		calc.step("Target margin %.2f%% over cost %.2f plus fixed fee %.2f",
			in.MarginPercent, totalCost, in.FixedFee)
		price = calc.grossUp(totalCost+in.FixedFee, in.MarginPercent+taxes+fees)
	case ModeTargetPrice:
		price = in.TargetPrice
		calc.step("Target price: %.2f", price)
	default:
		calc.warn("unknown pricing mode %q; falling back to cost plus fixed fee", mode)
		price = totalCost + in.FixedFee
		calc.step("Cost plus fixed fee: %.2f", price)
	}

	rounded := ApplyRounding(price, policy)
	if policy.Kind == RoundingPsychological {
		if _, ok := psychologicalEnding(policy.Ending); !ok {
			calc.warn("unknown psychological ending %q; using .99", policy.Ending)
		}
	}
	if rounded != price {
		calc.step("Rounding (%s): %.4f -> %.2f", policy.Kind, price, rounded)
	}

	taxAmount := mathutil.ApplyPercentage(rounded, taxes)
	feeAmount := mathutil.ApplyPercentage(rounded, fees) + in.FixedFee
	profit := rounded - totalCost - taxAmount - feeAmount

	margin := mathutil.CalculatePercentage(profit, rounded)
	markup := mathutil.CalculatePercentage(profit, totalCost)

	if margin < 0 {
		calc.warn("price is below cost: realized margin %.2f%%", margin)
	}
	if margin < constants.ThinMarginPercent {
		calc.warn("thin margin: realized margin %.2f%% is under %.0f%%", margin, constants.ThinMarginPercent)
	}

	return Result{
		SuggestedPrice: rounded,
		MarginPercent:  mathutil.Round(margin),
		MarkupPercent:  mathutil.Round(markup),
		Profit:         mathutil.Round(profit),
		TotalCost:      mathutil.Round(totalCost),
		TaxesPercent:   taxes,
		FeesPercent:    fees,
		Breakdown: Breakdown{
			Cost:      mathutil.Round(totalCost),
			TaxAmount: mathutil.Round(taxAmount),
			FeeAmount: mathutil.Round(feeAmount),
			Profit:    mathutil.Round(profit),
			Steps:     calc.steps,
		},
		Warnings: calc.warnings,
	}
}
