// Package workbook evaluates a workbook configuration: it runs every fiscal
// document through the tax engine, every pricing scenario through the pricing
// engine and every SKU through the replenishment engine.
package workbook

import (
	"fmt"
	"time"

	"github.com/iwvelando/erp-engines/internal/config"
	"github.com/iwvelando/erp-engines/pkg/pricing"
	"github.com/iwvelando/erp-engines/pkg/replenishment"
	"github.com/iwvelando/erp-engines/pkg/tax"
	"go.uber.org/zap"
)

// Report holds the results of one workbook evaluation.
type Report struct {
	AsOf          time.Time             `json:"asOf"`
	Documents     []DocumentReport      `json:"documents"`
	Pricing       []PricingReport       `json:"pricing"`
	Replenishment []ReplenishmentReport `json:"replenishment"`
	Warnings      []string              `json:"warnings,omitempty"`
}

// DocumentReport is the tax calculation of one fiscal document.
type DocumentReport struct {
	Name    string             `json:"name"`
	Context tax.FiscalContext  `json:"context"`
	Result  tax.DocumentResult `json:"result"`
}

// PricingReport is the price suggestion of one scenario.
type PricingReport struct {
	Name     string                 `json:"name"`
	Mode     pricing.Mode           `json:"mode"`
	Rounding pricing.RoundingPolicy `json:"rounding"`
	Result   pricing.Result         `json:"result"`
}

// ReplenishmentReport is the order suggestion for one SKU.
type ReplenishmentReport struct {
	SKU        string                   `json:"sku"`
	Name       string                   `json:"name,omitempty"`
	Policy     replenishment.PolicyKind `json:"policy"`
	Suggestion replenishment.Suggestion `json:"suggestion"`
}

// Evaluate validates and evaluates the workbook as of its configured date,
// or today when none is set.
func Evaluate(logger *zap.Logger, conf config.Configuration) (Report, error) {
	return EvaluateWithFixedTime(logger, conf, time.Now())
}

// EvaluateWithFixedTime evaluates the workbook using fixedTime as the clock
// for an unset asOf date.
func EvaluateWithFixedTime(logger *zap.Logger, conf config.Configuration, fixedTime time.Time) (Report, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	if err := conf.Validate(); err != nil {
		return Report{}, fmt.Errorf("invalid workbook: %w", err)
	}

	asOf, err := conf.AsOfDateWithFixedTime(fixedTime)
	if err != nil {
		return Report{}, err
	}

	report := Report{
		AsOf:          asOf,
		Documents:     make([]DocumentReport, 0, len(conf.Documents)),
		Pricing:       make([]PricingReport, 0, len(conf.Pricing)),
		Replenishment: make([]ReplenishmentReport, 0, len(conf.Replenishment)),
		Warnings:      conf.ValidateConfiguration(),
	}

	for _, warning := range report.Warnings {
		logger.Warn(warning,
			zap.String("op", "workbook.EvaluateWithFixedTime"),
		)
	}

	for i := range conf.Documents {
		doc := &conf.Documents[i]
		ctx := doc.FiscalContext()
		result := tax.ComputeDocument(ctx, doc.DocumentLines())
		logger.Debug(fmt.Sprintf("computed document %s", doc.Name),
			zap.String("op", "workbook.EvaluateWithFixedTime"),
			zap.Int("lines", len(result.Lines)),
			zap.Float64("totalTaxes", result.Totals.TotalTaxes),
		)
		report.Documents = append(report.Documents, DocumentReport{
			Name:    doc.Name,
			Context: ctx,
			Result:  result,
		})
	}

	for i := range conf.Pricing {
		scenario := &conf.Pricing[i]
		mode := scenario.PricingMode()
		policy := scenario.Rounding.RoundingPolicy()
		result := pricing.CalculatePricing(scenario.PricingInputs(), mode, policy)
		logger.Debug(fmt.Sprintf("priced scenario %s", scenario.Name),
			zap.String("op", "workbook.EvaluateWithFixedTime"),
			zap.Float64("suggestedPrice", result.SuggestedPrice),
			zap.Int("warnings", len(result.Warnings)),
		)
		report.Pricing = append(report.Pricing, PricingReport{
			Name:     scenario.Name,
			Mode:     mode,
			Rounding: policy,
			Result:   result,
		})
	}

	for i := range conf.Replenishment {
		item := &conf.Replenishment[i]
		policy := item.ReplenishmentPolicy()
		suggestion := replenishment.GenerateSuggestionAt(policy, item.ReplenishmentInventory(), asOf)
		logger.Debug(fmt.Sprintf("evaluated replenishment for %s", item.SKU),
			zap.String("op", "workbook.EvaluateWithFixedTime"),
			zap.Int("quantity", suggestion.Quantity),
			zap.String("urgency", string(suggestion.Urgency)),
		)
		report.Replenishment = append(report.Replenishment, ReplenishmentReport{
			SKU:        item.SKU,
			Name:       item.Name,
			Policy:     policy.Kind,
			Suggestion: suggestion,
		})
	}

	return report, nil
}
