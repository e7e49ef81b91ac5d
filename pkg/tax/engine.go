package tax

import (
	"github.com/iwvelando/erp-engines/pkg/mathutil"
)

// ProductBase returns quantity×unit price − discount + freight + other
// charges, rounded to centavos. A negative result is not clamped.
func ProductBase(item LineItem) float64 {
	return mathutil.Round(item.Quantity*item.UnitPrice - item.Discount + item.Freight + item.OtherCharges)
}

// ComputeLineItem derives the tax amounts of a single line. Each monetary
// field is rounded when it is computed and later fields build on the rounded
// value, so identical inputs always give identical outputs.
func ComputeLineItem(ctx FiscalContext, params TaxParameters, item LineItem) LineResult {
	base := ProductBase(item)
	result := LineResult{Regime: ctx.Regime, ProductBase: base}

	if ctx.Regime == RegimeSimplified && params.EffectiveBurdenRate != nil {
		result.Simplified = &SimplifiedTaxes{
			EffectiveBurden: mathutil.Round(mathutil.ApplyPercentage(base, *params.EffectiveBurdenRate)),
		}
	} else {
		result.Regime = RegimeStandard
		result.Standard = computeStandard(params, base)
	}

	if params.ServiceTax != nil {
		result.Service = computeService(*params.ServiceTax, base)
	}

	return result
}

func computeStandard(params TaxParameters, base float64) *StandardTaxes {
	taxes := &StandardTaxes{}

	if params.ICMSRate != nil {
		rate := *params.ICMSRate
		icmsBase := mathutil.Round(mathutil.ReducePercentage(base, mathutil.Deref(params.ICMSBaseReduction)))
		taxes.ICMSBase = amount(icmsBase)
		taxes.ICMS = amount(mathutil.ApplyPercentage(icmsBase, rate))

		// ST and FCP are both levied on top of the ICMS base.
		if params.SubstitutionMarkup != nil {
			stBase := mathutil.Round(base*(1+*params.SubstitutionMarkup/100) - icmsBase)
			taxes.SubstitutionBase = amount(stBase)
			taxes.Substitution = amount(mathutil.ApplyPercentage(stBase, rate))
		}
		if params.PovertyFundRate != nil {
			taxes.PovertyFund = amount(mathutil.ApplyPercentage(icmsBase, *params.PovertyFundRate))
		}
	}

	if params.IPIRate != nil {
		taxes.IPI = amount(mathutil.ApplyPercentage(base, *params.IPIRate))
	}
	if params.PISRate != nil {
		taxes.PIS = amount(mathutil.ApplyPercentage(base, *params.PISRate))
	}
	if params.COFINSRate != nil {
		taxes.COFINS = amount(mathutil.ApplyPercentage(base, *params.COFINSRate))
	}

	return taxes
}

func computeService(params ServiceTaxParameters, base float64) *ServiceTaxes {
	serviceBase := mathutil.Round(mathutil.ReducePercentage(base, mathutil.Deref(params.BaseReduction)))
	return &ServiceTaxes{
		Jurisdiction: params.Jurisdiction,
		Base:         serviceBase,
		Amount:       mathutil.Round(mathutil.ApplyPercentage(serviceBase, params.Rate)),
	}
}

// amount rounds a value and returns it as a populated optional field.
func amount(val float64) *float64 {
	rounded := mathutil.Round(val)
	return &rounded
}

// AggregateTotals sums every category across line results. Values are
// accumulated in integer centavos, so the reduction does not depend on the
// order of lines. Absent fields count as zero.
func AggregateTotals(lines []LineResult) Totals {
	var acc struct {
		productBase, icmsBase, icms, stBase, st, fcp, ipi, pis, cofins int64
		serviceBase, service, burden                                  int64
	}

	add := func(dst *int64, val *float64) {
		if val != nil {
			*dst += mathutil.ToCents(*val)
		}
	}

	for _, line := range lines {
		acc.productBase += mathutil.ToCents(line.ProductBase)
		if line.Simplified != nil {
			acc.burden += mathutil.ToCents(line.Simplified.EffectiveBurden)
		}
		if std := line.Standard; std != nil {
			add(&acc.icmsBase, std.ICMSBase)
			add(&acc.icms, std.ICMS)
			add(&acc.stBase, std.SubstitutionBase)
			add(&acc.st, std.Substitution)
			add(&acc.fcp, std.PovertyFund)
			add(&acc.ipi, std.IPI)
			add(&acc.pis, std.PIS)
			add(&acc.cofins, std.COFINS)
		}
		if line.Service != nil {
			acc.serviceBase += mathutil.ToCents(line.Service.Base)
			acc.service += mathutil.ToCents(line.Service.Amount)
		}
	}

	taxes := acc.icms + acc.st + acc.fcp + acc.ipi + acc.pis + acc.cofins + acc.service + acc.burden

	return Totals{
		ProductBase:      mathutil.FromCents(acc.productBase),
		ICMSBase:         mathutil.FromCents(acc.icmsBase),
		ICMS:             mathutil.FromCents(acc.icms),
		SubstitutionBase: mathutil.FromCents(acc.stBase),
		Substitution:     mathutil.FromCents(acc.st),
		PovertyFund:      mathutil.FromCents(acc.fcp),
		IPI:              mathutil.FromCents(acc.ipi),
		PIS:              mathutil.FromCents(acc.pis),
		COFINS:           mathutil.FromCents(acc.cofins),
		ServiceBase:      mathutil.FromCents(acc.serviceBase),
		Service:          mathutil.FromCents(acc.service),
		EffectiveBurden:  mathutil.FromCents(acc.burden),
		TotalTaxes:       mathutil.FromCents(taxes),
	}
}

// ComputeDocument computes every line of a document under one context and
// aggregates the totals.
func ComputeDocument(ctx FiscalContext, lines []DocumentLine) DocumentResult {
	results := make([]LineResult, 0, len(lines))
	for _, line := range lines {
		results = append(results, ComputeLineItem(ctx, line.Parameters, line.Item))
	}
	return DocumentResult{Lines: results, Totals: AggregateTotals(results)}
}
