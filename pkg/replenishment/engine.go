package replenishment

import (
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/iwvelando/erp-engines/pkg/constants"
	"github.com/iwvelando/erp-engines/pkg/datetime"
	"github.com/iwvelando/erp-engines/pkg/mathutil"
)

// zTable maps service levels (%) to standard normal Z values.
var zTable = map[float64]float64{
	50:   0.00,
	75:   0.67,
	80:   0.84,
	85:   1.04,
	90:   1.28,
	95:   1.65,
	97.5: 1.96,
	98:   2.05,
	99:   2.33,
	99.5: 2.58,
	99.9: 3.09,
}

// LookupZFactor returns the Z value for a service level and whether the level
// is in the table. Unmapped levels yield the 95% value.
func LookupZFactor(serviceLevel float64) (float64, bool) {
	if z, ok := zTable[serviceLevel]; ok {
		return z, true
	}
	return constants.DefaultZFactor, false
}

// GetZFactor returns the Z value for a service level, silently falling back
// to the 95% value for unmapped levels.
func GetZFactor(serviceLevel float64) float64 {
	z, _ := LookupZFactor(serviceLevel)
	return z
}

func zFactor(policy Policy) float64 {
	if policy.ZFactor != nil {
		return *policy.ZFactor
	}
	return GetZFactor(policy.ServiceLevel)
}

// CalculateSafetyStock returns Z × σ × √leadTime.
func CalculateSafetyStock(policy Policy) float64 {
	return zFactor(policy) * policy.SigmaDemand * math.Sqrt(policy.LeadTimeDays)
}

// CalculateROP returns the reorder point: lead-time demand plus safety stock.
func CalculateROP(policy Policy) float64 {
	return policy.DemandDaily*policy.LeadTimeDays + CalculateSafetyStock(policy)
}

// CalculateEOQ returns the economic order quantity √(2DS/H). The caller must
// supply a positive holding cost.
func CalculateEOQ(annualDemand, orderCost, holdingCostPerUnit float64) float64 {
	return math.Sqrt(2 * annualDemand * orderCost / holdingCostPerUnit)
}

// NormalizeQuantity rounds a quantity up to a whole unit, raises it to the
// minimum order quantity and then up to the next pack multiple. Zero moq or
// packMultiple disables the respective constraint.
func NormalizeQuantity(qty float64, moq, packMultiple int) int {
	normalized := int(math.Ceil(qty))
	if moq > 0 && normalized < moq {
		normalized = moq
	}
	if packMultiple > 0 {
		normalized = int(math.Ceil(float64(normalized)/float64(packMultiple))) * packMultiple
	}
	return normalized
}

func classifyUrgency(projected, safetyStock, rop, daysToStockout, leadTimeDays float64) Urgency {
	switch {
	case projected <= safetyStock:
		return UrgencyCritical
	case projected <= rop:
		return UrgencyHigh
	case daysToStockout <= leadTimeDays+constants.MediumUrgencySlackDays:
		return UrgencyMedium
	default:
		return UrgencyLow
	}
}

// orderQuantity normalizes the quantity of a triggered order. A shortfall at
// or below zero still orders the MOQ.
func orderQuantity(raw float64, policy Policy) int {
	return NormalizeQuantity(mathutil.Max(raw, 0), policy.MOQ, policy.PackMultiple)
}

// GenerateSuggestion evaluates the policy against the inventory position as
// of today.
func GenerateSuggestion(policy Policy, inventory Inventory) Suggestion {
	return GenerateSuggestionAt(policy, inventory, time.Now())
}

// GenerateSuggestionAt evaluates the policy against the inventory position,
// projecting any stockout date from now.
func GenerateSuggestionAt(policy Policy, inventory Inventory, now time.Time) Suggestion {
	safetyStock := CalculateSafetyStock(policy)
	rop := policy.DemandDaily*policy.LeadTimeDays + safetyStock
	projected := inventory.NetAvailable() + inventory.InTransit
	days := projected / policy.DemandDaily

	suggestion := Suggestion{
		ReorderPoint:   rop,
		SafetyStock:    safetyStock,
		ProjectedStock: projected,
		DaysToStockout: days,
		Urgency:        classifyUrgency(projected, safetyStock, rop, days, policy.LeadTimeDays),
	}

	if policy.ZFactor == nil {
		if _, ok := LookupZFactor(policy.ServiceLevel); !ok {
			suggestion.Warnings = append(suggestion.Warnings,
				fmt.Sprintf("service level %.2f%% is not tabulated; using Z %.2f (%.0f%%)",
					policy.ServiceLevel, constants.DefaultZFactor, constants.DefaultServiceLevel))
		}
	}

	switch policy.Kind {
	case PolicyReorderPoint:
		if projected <= rop {
			base := rop
			if policy.EOQ != nil {
				base = *policy.EOQ
			}
			cover := rop + policy.DemandDaily*policy.ReviewPeriodDays - projected
			suggestion.Quantity = orderQuantity(mathutil.Max(base, cover), policy)
			suggestion.Reason = fmt.Sprintf("projected stock %.2f is at or below the reorder point %.2f", projected, rop)
		}
	case PolicyMinMax:
		target := 2 * rop
		if policy.Max != nil {
			target = *policy.Max
		}
		minimum := rop
		if policy.Min != nil {
			minimum = *policy.Min
		}
		suggestion.TargetLevel = &target
		if projected < minimum {
			suggestion.Quantity = orderQuantity(target-projected, policy)
			suggestion.Reason = fmt.Sprintf("projected stock %.2f is below the minimum %.2f; refilling to %.2f", projected, minimum, target)
		}
	case PolicyPeriodicReview:
		target := policy.DemandDaily*(policy.LeadTimeDays+policy.ReviewPeriodDays) + safetyStock
		suggestion.TargetLevel = &target
		if projected < target {
			suggestion.Quantity = orderQuantity(target-projected, policy)
			suggestion.Reason = fmt.Sprintf("projected stock %.2f is below the review target %.2f", projected, target)
		}
	default:
		suggestion.Warnings = append(suggestion.Warnings, fmt.Sprintf("unknown policy kind %q", policy.Kind))
	}

	if suggestion.Quantity == 0 {
		suggestion.Reason = ""
	}

	if days > 0 && days < constants.StockoutHorizonDays {
		stockout := datetime.AddDays(now, int(math.Floor(days)))
		suggestion.StockoutDate = &stockout
	}

	return suggestion
}

// MarshalJSON omits DaysToStockout when it is not finite, as happens with
// zero demand.
func (s Suggestion) MarshalJSON() ([]byte, error) {
	type plain Suggestion
	out := struct {
		plain
		DaysToStockout *float64 `json:"daysToStockout,omitempty"`
	}{plain: plain(s)}
	if !math.IsInf(s.DaysToStockout, 0) && !math.IsNaN(s.DaysToStockout) {
		days := s.DaysToStockout
		out.DaysToStockout = &days
	}
	return json.Marshal(out)
}
