// Package validation provides input validation utilities. The engines do not
// validate their inputs; callers run these checks before invoking them.
package validation

import (
	"fmt"
	"math"
	"strings"

	"github.com/iwvelando/erp-engines/pkg/constants"
	"github.com/iwvelando/erp-engines/pkg/pricing"
	"github.com/iwvelando/erp-engines/pkg/replenishment"
	"github.com/iwvelando/erp-engines/pkg/tax"
)

func validPercent(name string, value float64) error {
	if math.IsNaN(value) || math.IsInf(value, 0) || value < 0 || value > 100 {
		return fmt.Errorf("%s must be a percentage between 0 and 100, got %v", name, value)
	}
	return nil
}

func validOptionalPercent(name string, value *float64) error {
	if value == nil {
		return nil
	}
	return validPercent(name, *value)
}

func nonNegative(name string, value float64) error {
	if math.IsNaN(value) || math.IsInf(value, 0) || value < 0 {
		return fmt.Errorf("%s must be a finite non-negative number, got %v", name, value)
	}
	return nil
}

// ValidateFiscalContext checks the regime and both jurisdictions.
func ValidateFiscalContext(ctx tax.FiscalContext) error {
	switch ctx.Regime {
	case tax.RegimeSimplified, tax.RegimeStandard:
	default:
		return fmt.Errorf("expected regime of %s or %s, got %q", tax.RegimeSimplified, tax.RegimeStandard, ctx.Regime)
	}

	if strings.TrimSpace(ctx.Origin) == "" {
		return fmt.Errorf("origin jurisdiction is required")
	}
	if strings.TrimSpace(ctx.Destination) == "" {
		return fmt.Errorf("destination jurisdiction is required")
	}

	switch ctx.Operation {
	case tax.OperationSale, tax.OperationBonus, tax.OperationTransfer, tax.OperationReturn:
	default:
		return fmt.Errorf("unsupported operation kind %q", ctx.Operation)
	}
	return nil
}

// ValidateTaxParameters checks that every supplied rate is a percentage.
func ValidateTaxParameters(params tax.TaxParameters) error {
	rates := []struct {
		name  string
		value *float64
	}{
		{"icmsRate", params.ICMSRate},
		{"icmsBaseReduction", params.ICMSBaseReduction},
		{"substitutionMarkup", params.SubstitutionMarkup},
		{"povertyFundRate", params.PovertyFundRate},
		{"pisRate", params.PISRate},
		{"cofinsRate", params.COFINSRate},
		{"ipiRate", params.IPIRate},
		{"effectiveBurdenRate", params.EffectiveBurdenRate},
	}
	for _, r := range rates {
		if err := validOptionalPercent(r.name, r.value); err != nil {
			return err
		}
	}

	if service := params.ServiceTax; service != nil {
		if err := validPercent("serviceTax.rate", service.Rate); err != nil {
			return err
		}
		if err := validOptionalPercent("serviceTax.baseReduction", service.BaseReduction); err != nil {
			return err
		}
	}
	return nil
}

// ValidateLineItem checks quantities and currency amounts of a line.
func ValidateLineItem(item tax.LineItem) error {
	if math.IsNaN(item.Quantity) || item.Quantity <= 0 {
		return fmt.Errorf("quantity must be positive, got %v", item.Quantity)
	}
	amounts := []struct {
		name  string
		value float64
	}{
		{"unitPrice", item.UnitPrice},
		{"discount", item.Discount},
		{"freight", item.Freight},
		{"otherCharges", item.OtherCharges},
	}
	for _, a := range amounts {
		if err := nonNegative(a.name, a.value); err != nil {
			return err
		}
	}
	if base := tax.ProductBase(item); base < 0 {
		return fmt.Errorf("discount exceeds the line value, product base would be %.2f", base)
	}
	return nil
}

// ValidateDocument validates a whole document and returns advisory warnings
// for CFOP codes that do not fit the operation's jurisdictions.
func ValidateDocument(ctx tax.FiscalContext, lines []tax.DocumentLine) ([]string, error) {
	if err := ValidateFiscalContext(ctx); err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("document has no lines")
	}

	var warnings []string
	for i, line := range lines {
		if err := ValidateLineItem(line.Item); err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		if err := ValidateTaxParameters(line.Parameters); err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		if warning := CFOPWarning(line.Parameters.CFOP, ctx); warning != "" {
			warnings = append(warnings, fmt.Sprintf("line %d: %s", i+1, warning))
		}
	}
	return warnings, nil
}

// CFOPWarning describes why a CFOP does not fit the context, or returns an
// empty string when it fits or is absent.
func CFOPWarning(code string, ctx tax.FiscalContext) string {
	if strings.TrimSpace(code) == "" {
		return ""
	}
	if tax.ValidateCFOP(code, ctx.Operation, ctx.Origin, ctx.Destination) {
		return ""
	}
	return fmt.Sprintf("CFOP %s does not fit %s -> %s (expected prefix %c)",
		code, ctx.Origin, ctx.Destination, tax.ExpectedCFOPPrefix(ctx.Origin, ctx.Destination))
}

// ValidatePricing checks the pricing inputs, mode and rounding policy.
func ValidatePricing(in pricing.Inputs, mode pricing.Mode, policy pricing.RoundingPolicy) error {
	switch mode {
	case pricing.ModeMarkup, pricing.ModeMargin, pricing.ModeTargetPrice:
	default:
		return fmt.Errorf("expected pricing mode of %s, %s or %s, got %q",
			pricing.ModeMarkup, pricing.ModeMargin, pricing.ModeTargetPrice, mode)
	}

	switch policy.Kind {
	case pricing.RoundingNone, pricing.RoundingNormal, pricing.RoundingPsychological:
	default:
		return fmt.Errorf("unsupported rounding kind %q", policy.Kind)
	}
	if policy.Decimals < 0 {
		return fmt.Errorf("rounding decimals must not be negative, got %d", policy.Decimals)
	}

	amounts := []struct {
		name  string
		value float64
	}{
		{"baseCost", in.BaseCost},
		{"freight", in.Freight},
		{"packaging", in.Packaging},
		{"otherCosts", in.OtherCosts},
		{"markupPercent", in.MarkupPercent},
		{"targetPrice", in.TargetPrice},
		{"fixedFee", in.FixedFee},
	}
	for _, a := range amounts {
		if err := nonNegative(a.name, a.value); err != nil {
			return err
		}
	}

	percents := []struct {
		name  string
		value float64
	}{
		{"marginPercent", in.MarginPercent},
		{"icmsRate", in.ICMSRate},
		{"pisRate", in.PISRate},
		{"cofinsRate", in.COFINSRate},
		{"issRate", in.ISSRate},
		{"taxBurdenPercent", in.TaxBurdenPercent},
		{"gatewayFeePercent", in.GatewayFeePercent},
		{"marketplaceFeePercent", in.MarketplaceFeePercent},
		{"commissionPercent", in.CommissionPercent},
	}
	for _, p := range percents {
		if err := validPercent(p.name, p.value); err != nil {
			return err
		}
	}

	if mode == pricing.ModeTargetPrice && in.TargetPrice <= 0 {
		return fmt.Errorf("target_price mode requires a positive targetPrice")
	}
	return nil
}

// ValidateReplenishment checks the policy and inventory position.
func ValidateReplenishment(policy replenishment.Policy, inventory replenishment.Inventory) error {
	switch policy.Kind {
	case replenishment.PolicyReorderPoint, replenishment.PolicyMinMax, replenishment.PolicyPeriodicReview:
	default:
		return fmt.Errorf("expected policy of %s, %s or %s, got %q",
			replenishment.PolicyReorderPoint, replenishment.PolicyMinMax, replenishment.PolicyPeriodicReview, policy.Kind)
	}

	if policy.ZFactor == nil {
		if err := validPercent("serviceLevel", policy.ServiceLevel); err != nil {
			return err
		}
	}

	values := []struct {
		name  string
		value float64
	}{
		{"demandDaily", policy.DemandDaily},
		{"sigmaDemand", policy.SigmaDemand},
		{"leadTimeDays", policy.LeadTimeDays},
		{"reviewPeriodDays", policy.ReviewPeriodDays},
		{"onHand", inventory.OnHand},
		{"reserved", inventory.Reserved},
		{"inTransit", inventory.InTransit},
	}
	for _, v := range values {
		if err := nonNegative(v.name, v.value); err != nil {
			return err
		}
	}

	if policy.MOQ < 0 || policy.PackMultiple < 0 {
		return fmt.Errorf("moq and packMultiple must not be negative")
	}
	if policy.Min != nil && policy.Max != nil && *policy.Min > *policy.Max {
		return fmt.Errorf("min %.2f exceeds max %.2f", *policy.Min, *policy.Max)
	}
	return nil
}

// ReplenishmentWarnings returns advisories for a policy that is valid but
// likely misconfigured.
func ReplenishmentWarnings(policy replenishment.Policy) []string {
	var warnings []string
	if policy.ZFactor == nil {
		if _, ok := replenishment.LookupZFactor(policy.ServiceLevel); !ok {
			warnings = append(warnings, fmt.Sprintf("service level %.2f%% is not tabulated", policy.ServiceLevel))
		}
	}
	if policy.DemandDaily == 0 {
		warnings = append(warnings, "daily demand is zero; no stockout date can be projected")
	}
	if policy.Kind == replenishment.PolicyPeriodicReview && policy.ReviewPeriodDays == 0 {
		warnings = append(warnings, "periodic review without a review period behaves like an order-up-to lead time")
	}
	return warnings
}

// ValidateOutputFormat checks if the output format is one of the supported formats.
func ValidateOutputFormat(format string) error {
	if format != constants.OutputFormatPretty && format != constants.OutputFormatCSV {
		return fmt.Errorf("expected output format of %s or %s, got %s",
			constants.OutputFormatPretty, constants.OutputFormatCSV, format)
	}
	return nil
}
