// Package pricing suggests sale prices from cost, tax and fee inputs under
// markup, margin or target-price modes, followed by a rounding policy.
package pricing

import "github.com/iwvelando/erp-engines/pkg/constants"

// Mode selects the price derivation formula.
type Mode string

// Supported pricing modes.
const (
	ModeMarkup      Mode = "markup"
	ModeMargin      Mode = "margin"
	ModeTargetPrice Mode = "target_price"
)

// RoundingKind selects how the derived price is rounded.
type RoundingKind string

// Supported rounding kinds.
const (
	RoundingNone          RoundingKind = "none"
	RoundingNormal        RoundingKind = "normal"
	RoundingPsychological RoundingKind = "psychological"
)

// RoundingPolicy configures ApplyRounding. Decimals applies to normal
// rounding and Ending ("99" or "95") to psychological rounding.
type RoundingPolicy struct {
	Kind     RoundingKind `json:"kind"`
	Decimals int          `json:"decimals,omitempty"`
	Ending   string       `json:"ending,omitempty"`
}

// DefaultRoundingPolicy rounds to centavos.
func DefaultRoundingPolicy() RoundingPolicy {
	return RoundingPolicy{Kind: RoundingNormal, Decimals: constants.CurrencyDecimals}
}

// Inputs are the per-unit cost, tax and fee figures of a product. Percentages
// are expressed in [0, 100]; zero means not applicable.
type Inputs struct {
	BaseCost   float64 `json:"baseCost"`
	Freight    float64 `json:"freight,omitempty"`
	Packaging  float64 `json:"packaging,omitempty"`
	OtherCosts float64 `json:"otherCosts,omitempty"`

	MarkupPercent float64 `json:"markupPercent,omitempty"`
	MarginPercent float64 `json:"marginPercent,omitempty"`
	TargetPrice   float64 `json:"targetPrice,omitempty"`

	ICMSRate   float64 `json:"icmsRate,omitempty"`
	PISRate    float64 `json:"pisRate,omitempty"`
	COFINSRate float64 `json:"cofinsRate,omitempty"`
	ISSRate    float64 `json:"issRate,omitempty"`

	// TaxBurdenPercent, when positive, replaces the individual rates.
	TaxBurdenPercent float64 `json:"taxBurdenPercent,omitempty"`

	GatewayFeePercent     float64 `json:"gatewayFeePercent,omitempty"`
	MarketplaceFeePercent float64 `json:"marketplaceFeePercent,omitempty"`
	CommissionPercent     float64 `json:"commissionPercent,omitempty"`
	FixedFee              float64 `json:"fixedFee,omitempty"`
}

// Breakdown itemizes the suggested price.
type Breakdown struct {
	Cost      float64  `json:"cost"`
	TaxAmount float64  `json:"taxAmount"`
	FeeAmount float64  `json:"feeAmount"`
	Profit    float64  `json:"profit"`
	Steps     []string `json:"steps"`
}

// Result is the outcome of CalculatePricing. Margin, markup and profit are
// always consistent with SuggestedPrice.
type Result struct {
	SuggestedPrice float64   `json:"suggestedPrice"`
	MarginPercent  float64   `json:"marginPercent"`
	MarkupPercent  float64   `json:"markupPercent"`
	Profit         float64   `json:"profit"`
	TotalCost      float64   `json:"totalCost"`
	TaxesPercent   float64   `json:"taxesPercent"`
	FeesPercent    float64   `json:"feesPercent"`
	Breakdown      Breakdown `json:"breakdown"`
	Warnings       []string  `json:"warnings,omitempty"`
}
