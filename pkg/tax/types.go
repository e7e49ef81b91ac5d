// Package tax computes Brazilian per-item and per-document tax amounts under
// the simplified (single effective-burden rate) and standard regimes.
package tax

// Regime selects which branch of the line computation applies.
type Regime string

// Supported tax regimes.
const (
	RegimeSimplified Regime = "simplified"
	RegimeStandard   Regime = "standard"
)

// OperationKind describes the nature of a fiscal operation.
type OperationKind string

// Supported operation kinds.
const (
	OperationSale     OperationKind = "sale"
	OperationBonus    OperationKind = "bonus"
	OperationTransfer OperationKind = "transfer"
	OperationReturn   OperationKind = "return"
)

// FiscalContext holds the document-wide facts that drive branching.
type FiscalContext struct {
	Regime       Regime        `json:"regime"`
	Origin       string        `json:"origin"`
	Destination  string        `json:"destination"`
	Operation    OperationKind `json:"operation"`
	ICMSTaxpayer *bool         `json:"icmsTaxpayer,omitempty"`
}

// ServiceTaxParameters configures the municipal service tax (ISS).
type ServiceTaxParameters struct {
	Jurisdiction  string   `json:"jurisdiction"`
	Rate          float64  `json:"rate"`
	BaseReduction *float64 `json:"baseReduction,omitempty"`
}

// TaxParameters holds the classification codes and rates of one item. Rates
// are percentages; a nil rate means the tax does not apply.
type TaxParameters struct {
	NCM  string `json:"ncm,omitempty"`
	CEST string `json:"cest,omitempty"`
	CFOP string `json:"cfop,omitempty"`
	CST  string `json:"cst,omitempty"`

	ICMSRate            *float64 `json:"icmsRate,omitempty"`
	ICMSBaseReduction   *float64 `json:"icmsBaseReduction,omitempty"`
	SubstitutionMarkup  *float64 `json:"substitutionMarkup,omitempty"`
	PovertyFundRate     *float64 `json:"povertyFundRate,omitempty"`
	PISRate             *float64 `json:"pisRate,omitempty"`
	COFINSRate          *float64 `json:"cofinsRate,omitempty"`
	IPIRate             *float64 `json:"ipiRate,omitempty"`
	EffectiveBurdenRate *float64 `json:"effectiveBurdenRate,omitempty"`

	ServiceTax *ServiceTaxParameters `json:"serviceTax,omitempty"`
}

// LineItem is one line of a fiscal document, in currency units.
type LineItem struct {
	Quantity     float64 `json:"quantity"`
	Unit         string  `json:"unit,omitempty"`
	UnitPrice    float64 `json:"unitPrice"`
	Discount     float64 `json:"discount,omitempty"`
	Freight      float64 `json:"freight,omitempty"`
	OtherCharges float64 `json:"otherCharges,omitempty"`
}

// SimplifiedTaxes is the single-rate result of the simplified regime.
type SimplifiedTaxes struct {
	EffectiveBurden float64 `json:"effectiveBurden"`
}

// StandardTaxes is the standard-regime breakdown. Fields are nil when the
// corresponding rate was not supplied.
type StandardTaxes struct {
	ICMSBase         *float64 `json:"icmsBase,omitempty"`
	ICMS             *float64 `json:"icms,omitempty"`
	SubstitutionBase *float64 `json:"substitutionBase,omitempty"`
	Substitution     *float64 `json:"substitution,omitempty"`
	PovertyFund      *float64 `json:"povertyFund,omitempty"`
	IPI              *float64 `json:"ipi,omitempty"`
	PIS              *float64 `json:"pis,omitempty"`
	COFINS           *float64 `json:"cofins,omitempty"`
}

// ServiceTaxes is the ISS result, which may accompany either regime.
type ServiceTaxes struct {
	Jurisdiction string  `json:"jurisdiction,omitempty"`
	Base         float64 `json:"base"`
	Amount       float64 `json:"amount"`
}

// LineResult is the outcome of one line computation. Exactly one of
// Simplified or Standard is set.
type LineResult struct {
	Regime      Regime           `json:"regime"`
	ProductBase float64          `json:"productBase"`
	Simplified  *SimplifiedTaxes `json:"simplified,omitempty"`
	Standard    *StandardTaxes   `json:"standard,omitempty"`
	Service     *ServiceTaxes    `json:"service,omitempty"`
}

// Totals are the document-level sums of every line category.
type Totals struct {
	ProductBase      float64 `json:"productBase"`
	ICMSBase         float64 `json:"icmsBase"`
	ICMS             float64 `json:"icms"`
	SubstitutionBase float64 `json:"substitutionBase"`
	Substitution     float64 `json:"substitution"`
	PovertyFund      float64 `json:"povertyFund"`
	IPI              float64 `json:"ipi"`
	PIS              float64 `json:"pis"`
	COFINS           float64 `json:"cofins"`
	ServiceBase      float64 `json:"serviceBase"`
	Service          float64 `json:"service"`
	EffectiveBurden  float64 `json:"effectiveBurden"`
	TotalTaxes       float64 `json:"totalTaxes"`
}

// DocumentLine pairs an item with its own tax parameters.
type DocumentLine struct {
	Item       LineItem      `json:"item"`
	Parameters TaxParameters `json:"parameters"`
}

// DocumentResult holds every line result and the aggregated totals.
type DocumentResult struct {
	Lines  []LineResult `json:"lines"`
	Totals Totals       `json:"totals"`
}
