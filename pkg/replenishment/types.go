// Package replenishment computes safety stock, reorder points and order
// quantity suggestions for reorder-point, min-max and periodic-review
// stocking policies.
package replenishment

import (
	"time"

	"github.com/iwvelando/erp-engines/pkg/constants"
)

// PolicyKind selects the replenishment decision rule.
type PolicyKind string

// Supported policy kinds.
const (
	PolicyReorderPoint   PolicyKind = "reorder_point"
	PolicyMinMax         PolicyKind = "min_max"
	PolicyPeriodicReview PolicyKind = "periodic_review"
)

// Urgency grades how close an item is to running out.
type Urgency string

// Urgency tiers, most urgent first.
const (
	UrgencyCritical Urgency = "critical"
	UrgencyHigh     Urgency = "high"
	UrgencyMedium   Urgency = "medium"
	UrgencyLow      Urgency = "low"
)

// Policy holds the stocking parameters and demand statistics of an item.
// ZFactor, when set, overrides the service-level lookup.
type Policy struct {
	Kind             PolicyKind `json:"kind"`
	ServiceLevel     float64    `json:"serviceLevel"`
	ZFactor          *float64   `json:"zFactor,omitempty"`
	DemandDaily      float64    `json:"demandDaily"`
	SigmaDemand      float64    `json:"sigmaDemand"`
	LeadTimeDays     float64    `json:"leadTimeDays"`
	ReviewPeriodDays float64    `json:"reviewPeriodDays,omitempty"`
	Min              *float64   `json:"min,omitempty"`
	Max              *float64   `json:"max,omitempty"`
	EOQ              *float64   `json:"eoq,omitempty"`
	MOQ              int        `json:"moq,omitempty"`
	PackMultiple     int        `json:"packMultiple,omitempty"`
}

// WithDefaults returns the policy with an omitted service level set to the
// default, unless a Z override is given.
func (p Policy) WithDefaults() Policy {
	if p.ServiceLevel == 0 && p.ZFactor == nil {
		p.ServiceLevel = constants.DefaultServiceLevel
	}
	return p
}

// Inventory is the current stock position of an item.
type Inventory struct {
	OnHand    float64 `json:"onHand"`
	Reserved  float64 `json:"reserved"`
	InTransit float64 `json:"inTransit"`
}

// NetAvailable returns on-hand stock not committed to orders.
func (i Inventory) NetAvailable() float64 {
	return i.OnHand - i.Reserved
}

// Suggestion is the outcome of GenerateSuggestion. A zero Quantity with an
// empty Reason means no action is needed.
type Suggestion struct {
	Quantity       int        `json:"quantity"`
	ReorderPoint   float64    `json:"reorderPoint"`
	SafetyStock    float64    `json:"safetyStock"`
	TargetLevel    *float64   `json:"targetLevel,omitempty"`
	ProjectedStock float64    `json:"projectedStock"`
	DaysToStockout float64    `json:"daysToStockout"`
	Reason         string     `json:"reason,omitempty"`
	StockoutDate   *time.Time `json:"stockoutDate,omitempty"`
	Urgency        Urgency    `json:"urgency"`
	Warnings       []string   `json:"warnings,omitempty"`
}
