package config

import (
	"strings"

	"github.com/iwvelando/erp-engines/pkg/pricing"
	"github.com/iwvelando/erp-engines/pkg/replenishment"
	"github.com/iwvelando/erp-engines/pkg/tax"
)

// FiscalContext converts the document header into the tax engine context.
// Jurisdictions are upper-cased so "sp" and "SP" compare equal.
func (d *Document) FiscalContext() tax.FiscalContext {
	return tax.FiscalContext{
		Regime:       tax.Regime(d.Regime),
		Origin:       strings.ToUpper(strings.TrimSpace(d.Origin)),
		Destination:  strings.ToUpper(strings.TrimSpace(d.Destination)),
		Operation:    tax.OperationKind(d.Operation),
		ICMSTaxpayer: d.ICMSTaxpayer,
	}
}

// DocumentLines converts the configured lines into tax engine lines.
func (d *Document) DocumentLines() []tax.DocumentLine {
	lines := make([]tax.DocumentLine, 0, len(d.Lines))
	for _, line := range d.Lines {
		lines = append(lines, line.DocumentLine())
	}
	return lines
}

// DocumentLine splits a configured line into the item and its tax parameters.
func (l Line) DocumentLine() tax.DocumentLine {
	params := tax.TaxParameters{
		NCM:                 l.NCM,
		CEST:                l.CEST,
		CFOP:                l.CFOP,
		CST:                 l.CST,
		ICMSRate:            l.ICMSRate,
		ICMSBaseReduction:   l.ICMSBaseReduction,
		SubstitutionMarkup:  l.SubstitutionMarkup,
		PovertyFundRate:     l.PovertyFundRate,
		PISRate:             l.PISRate,
		COFINSRate:          l.COFINSRate,
		IPIRate:             l.IPIRate,
		EffectiveBurdenRate: l.EffectiveBurdenRate,
	}
	if l.Service != nil {
		params.ServiceTax = &tax.ServiceTaxParameters{
			Jurisdiction:  l.Service.Jurisdiction,
			Rate:          l.Service.Rate,
			BaseReduction: l.Service.BaseReduction,
		}
	}

	return tax.DocumentLine{
		Item: tax.LineItem{
			Quantity:     l.Quantity,
			Unit:         l.Unit,
			UnitPrice:    l.UnitPrice,
			Discount:     l.Discount,
			Freight:      l.Freight,
			OtherCharges: l.OtherCharges,
		},
		Parameters: params,
	}
}

// RoundingPolicy converts the rounding section, defaulting to normal rounding
// to two decimals.
func (r RoundingConfig) RoundingPolicy() pricing.RoundingPolicy {
	policy := pricing.DefaultRoundingPolicy()
	if r.Kind != "" {
		policy.Kind = pricing.RoundingKind(r.Kind)
	}
	if r.Decimals != nil {
		policy.Decimals = *r.Decimals
	}
	policy.Ending = r.Ending
	return policy
}

// PricingInputs converts the scenario inputs into pricing engine inputs.
func (s *PricingScenario) PricingInputs() pricing.Inputs {
	in := s.Inputs
	return pricing.Inputs{
		BaseCost:              in.BaseCost,
		Freight:               in.Freight,
		Packaging:             in.Packaging,
		OtherCosts:            in.OtherCosts,
		MarkupPercent:         in.MarkupPercent,
		MarginPercent:         in.MarginPercent,
		TargetPrice:           in.TargetPrice,
		ICMSRate:              in.ICMSRate,
		PISRate:               in.PISRate,
		COFINSRate:            in.COFINSRate,
		ISSRate:               in.ISSRate,
		TaxBurdenPercent:      in.TaxBurdenPercent,
		GatewayFeePercent:     in.GatewayFeePercent,
		MarketplaceFeePercent: in.MarketplaceFeePercent,
		CommissionPercent:     in.CommissionPercent,
		FixedFee:              in.FixedFee,
	}
}

// PricingMode returns the configured mode, markup when none is given.
func (s *PricingScenario) PricingMode() pricing.Mode {
	if s.Mode == "" {
		return pricing.ModeMarkup
	}
	return pricing.Mode(s.Mode)
}

// ReplenishmentPolicy converts the configured plan into an engine policy.
func (r *ReplenishmentItem) ReplenishmentPolicy() replenishment.Policy {
	p := r.Policy
	return replenishment.Policy{
		Kind:             replenishment.PolicyKind(p.Kind),
		ServiceLevel:     p.ServiceLevel,
		ZFactor:          p.ZFactor,
		DemandDaily:      p.DemandDaily,
		SigmaDemand:      p.SigmaDemand,
		LeadTimeDays:     p.LeadTimeDays,
		ReviewPeriodDays: p.ReviewPeriodDays,
		Min:              p.Min,
		Max:              p.Max,
		EOQ:              p.EOQ,
		MOQ:              p.MOQ,
		PackMultiple:     p.PackMultiple,
	}.WithDefaults()
}

// ReplenishmentInventory converts the configured inventory position.
func (r *ReplenishmentItem) ReplenishmentInventory() replenishment.Inventory {
	return replenishment.Inventory{
		OnHand:    r.Inventory.OnHand,
		Reserved:  r.Inventory.Reserved,
		InTransit: r.Inventory.InTransit,
	}
}

// Label identifies the item in reports: the SKU, followed by the name when set.
func (r *ReplenishmentItem) Label() string {
	if r.Name != "" {
		return r.SKU + " " + r.Name
	}
	return r.SKU
}
