package validation

import (
	"math"
	"strings"
	"testing"

	"github.com/iwvelando/erp-engines/pkg/pricing"
	"github.com/iwvelando/erp-engines/pkg/replenishment"
	"github.com/iwvelando/erp-engines/pkg/tax"
)

func ptr(v float64) *float64 { return &v }

var validContext = tax.FiscalContext{
	Regime:      tax.RegimeStandard,
	Origin:      "SP",
	Destination: "RJ",
	Operation:   tax.OperationSale,
}

func TestValidateFiscalContext(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*tax.FiscalContext)
		expectErr bool
	}{
		{"Valid", func(c *tax.FiscalContext) {}, false},
		{"Simplified", func(c *tax.FiscalContext) { c.Regime = tax.RegimeSimplified }, false},
		{"Unknown regime", func(c *tax.FiscalContext) { c.Regime = "presumed" }, true},
		{"Empty regime", func(c *tax.FiscalContext) { c.Regime = "" }, true},
		{"Blank origin", func(c *tax.FiscalContext) { c.Origin = "  " }, true},
		{"Missing destination", func(c *tax.FiscalContext) { c.Destination = "" }, true},
		{"Unknown operation", func(c *tax.FiscalContext) { c.Operation = "consignment" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := validContext
			tt.mutate(&ctx)
			err := ValidateFiscalContext(ctx)
			if (err != nil) != tt.expectErr {
				t.Errorf("ValidateFiscalContext() error = %v, expectErr %v", err, tt.expectErr)
			}
		})
	}
}

func TestValidateTaxParameters(t *testing.T) {
	tests := []struct {
		name      string
		params    tax.TaxParameters
		expectErr bool
	}{
		{"Empty", tax.TaxParameters{}, false},
		{"Bounds inclusive", tax.TaxParameters{ICMSRate: ptr(0), IPIRate: ptr(100)}, false},
		{"Negative rate", tax.TaxParameters{PISRate: ptr(-1)}, true},
		{"Infinite rate", tax.TaxParameters{ICMSRate: ptr(math.Inf(1))}, true},
		{"Rate above 100", tax.TaxParameters{COFINSRate: ptr(100.01)}, true},
		{"Service tax valid", tax.TaxParameters{ServiceTax: &tax.ServiceTaxParameters{Rate: 5, BaseReduction: ptr(20)}}, false},
		{"Service tax invalid rate", tax.TaxParameters{ServiceTax: &tax.ServiceTaxParameters{Rate: 120}}, true},
		{"Service tax invalid reduction", tax.TaxParameters{ServiceTax: &tax.ServiceTaxParameters{Rate: 5, BaseReduction: ptr(-3)}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTaxParameters(tt.params)
			if (err != nil) != tt.expectErr {
				t.Errorf("ValidateTaxParameters() error = %v, expectErr %v", err, tt.expectErr)
			}
		})
	}
}

func TestValidateLineItem(t *testing.T) {
	tests := []struct {
		name      string
		item      tax.LineItem
		expectErr bool
	}{
		{"Valid", tax.LineItem{Quantity: 1, UnitPrice: 10, Discount: 2}, false},
		{"Free item", tax.LineItem{Quantity: 1, UnitPrice: 0}, false},
		{"Zero quantity", tax.LineItem{Quantity: 0, UnitPrice: 10}, true},
		{"Negative price", tax.LineItem{Quantity: 1, UnitPrice: -10}, true},
		{"Negative freight", tax.LineItem{Quantity: 1, UnitPrice: 10, Freight: -1}, true},
		{"Infinite price", tax.LineItem{Quantity: 1, UnitPrice: math.Inf(1)}, true},
		{"Discount above value", tax.LineItem{Quantity: 1, UnitPrice: 10, Discount: 11}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateLineItem(tt.item)
			if (err != nil) != tt.expectErr {
				t.Errorf("ValidateLineItem() error = %v, expectErr %v", err, tt.expectErr)
			}
		})
	}
}

func TestValidateDocument(t *testing.T) {
	lines := []tax.DocumentLine{
		{Item: tax.LineItem{Quantity: 1, UnitPrice: 10}, Parameters: tax.TaxParameters{CFOP: "6102"}},
		{Item: tax.LineItem{Quantity: 1, UnitPrice: 10}, Parameters: tax.TaxParameters{CFOP: "5102"}},
		{Item: tax.LineItem{Quantity: 1, UnitPrice: 10}},
	}

	warnings, err := ValidateDocument(validContext, lines)
	if err != nil {
		t.Fatalf("ValidateDocument() unexpected error = %v", err)
	}
	if len(warnings) != 1 || !strings.HasPrefix(warnings[0], "line 2:") {
		t.Errorf("expected a single CFOP warning for line 2, got %v", warnings)
	}

	if _, err := ValidateDocument(validContext, nil); err == nil {
		t.Error("expected an error for a document without lines")
	}

	bad := append([]tax.DocumentLine(nil), lines...)
	bad[2].Item.Quantity = -1
	_, err = ValidateDocument(validContext, bad)
	if err == nil || !strings.HasPrefix(err.Error(), "line 3:") {
		t.Errorf("expected line 3 error, got %v", err)
	}
}

func TestValidatePricing(t *testing.T) {
	valid := pricing.Inputs{BaseCost: 100, MarkupPercent: 150, ICMSRate: 18}

	tests := []struct {
		name      string
		in        pricing.Inputs
		mode      pricing.Mode
		policy    pricing.RoundingPolicy
		expectErr bool
	}{
		{"Valid markup", valid, pricing.ModeMarkup, pricing.DefaultRoundingPolicy(), false},
		{"Markup above 100 allowed", pricing.Inputs{BaseCost: 10, MarkupPercent: 400}, pricing.ModeMarkup, pricing.RoundingPolicy{Kind: pricing.RoundingNone}, false},
		{"Unknown mode", valid, "cost_plus", pricing.DefaultRoundingPolicy(), true},
		{"Unknown rounding", valid, pricing.ModeMarkup, pricing.RoundingPolicy{Kind: "ceil"}, true},
		{"Negative decimals", valid, pricing.ModeMarkup, pricing.RoundingPolicy{Kind: pricing.RoundingNormal, Decimals: -1}, true},
		{"Negative cost", pricing.Inputs{BaseCost: -1}, pricing.ModeMarkup, pricing.DefaultRoundingPolicy(), true},
		{"Infinite cost", pricing.Inputs{BaseCost: math.Inf(1)}, pricing.ModeMarkup, pricing.DefaultRoundingPolicy(), true},
		{"Infinite fee", pricing.Inputs{BaseCost: 1, GatewayFeePercent: math.Inf(-1)}, pricing.ModeMarkup, pricing.DefaultRoundingPolicy(), true},
		{"Fee above 100", pricing.Inputs{BaseCost: 1, CommissionPercent: 101}, pricing.ModeMarkup, pricing.DefaultRoundingPolicy(), true},
		{"Target mode without target", valid, pricing.ModeTargetPrice, pricing.DefaultRoundingPolicy(), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePricing(tt.in, tt.mode, tt.policy)
			if (err != nil) != tt.expectErr {
				t.Errorf("ValidatePricing() error = %v, expectErr %v", err, tt.expectErr)
			}
		})
	}
}

func TestValidateReplenishment(t *testing.T) {
	valid := replenishment.Policy{Kind: replenishment.PolicyMinMax, ServiceLevel: 95, DemandDaily: 10, SigmaDemand: 2, LeadTimeDays: 5}

	tests := []struct {
		name      string
		mutate    func(*replenishment.Policy, *replenishment.Inventory)
		expectErr bool
	}{
		{"Valid", func(p *replenishment.Policy, i *replenishment.Inventory) {}, false},
		{"Unknown kind", func(p *replenishment.Policy, i *replenishment.Inventory) { p.Kind = "kanban" }, true},
		{"Service level above 100", func(p *replenishment.Policy, i *replenishment.Inventory) { p.ServiceLevel = 101 }, true},
		{"Z override skips service level", func(p *replenishment.Policy, i *replenishment.Inventory) { p.ServiceLevel = 0; p.ZFactor = ptr(2) }, false},
		{"Negative lead time", func(p *replenishment.Policy, i *replenishment.Inventory) { p.LeadTimeDays = -1 }, true},
		{"Infinite demand", func(p *replenishment.Policy, i *replenishment.Inventory) { p.DemandDaily = math.Inf(1) }, true},
		{"Infinite on hand", func(p *replenishment.Policy, i *replenishment.Inventory) { i.OnHand = math.Inf(1) }, true},
		{"Negative reserved", func(p *replenishment.Policy, i *replenishment.Inventory) { i.Reserved = -1 }, true},
		{"Negative pack", func(p *replenishment.Policy, i *replenishment.Inventory) { p.PackMultiple = -6 }, true},
		{"Min above max", func(p *replenishment.Policy, i *replenishment.Inventory) { p.Min = ptr(100); p.Max = ptr(50) }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			policy := valid
			inventory := replenishment.Inventory{OnHand: 10}
			tt.mutate(&policy, &inventory)
			err := ValidateReplenishment(policy, inventory)
			if (err != nil) != tt.expectErr {
				t.Errorf("ValidateReplenishment() error = %v, expectErr %v", err, tt.expectErr)
			}
		})
	}
}

func TestReplenishmentWarnings(t *testing.T) {
	policy := replenishment.Policy{Kind: replenishment.PolicyPeriodicReview, ServiceLevel: 96}
	warnings := ReplenishmentWarnings(policy)
	if len(warnings) != 3 {
		t.Errorf("expected 3 warnings, got %v", warnings)
	}

	policy = replenishment.Policy{Kind: replenishment.PolicyReorderPoint, ServiceLevel: 95, DemandDaily: 3}
	if warnings := ReplenishmentWarnings(policy); len(warnings) != 0 {
		t.Errorf("expected no warnings, got %v", warnings)
	}
}

func TestValidateOutputFormat(t *testing.T) {
	tests := []struct {
		name      string
		format    string
		expectErr bool
	}{
		{"Valid pretty format", "pretty", false},
		{"Valid csv format", "csv", false},
		{"Invalid format", "json", true},
		{"Empty format", "", true},
		{"Case sensitive - uppercase", "PRETTY", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOutputFormat(tt.format)
			if (err != nil) != tt.expectErr {
				t.Errorf("ValidateOutputFormat(%q) error = %v, expectErr %v", tt.format, err, tt.expectErr)
			}
		})
	}
}
