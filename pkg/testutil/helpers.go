// Package testutil provides common utility functions for testing.
package testutil

import (
	"github.com/iwvelando/erp-engines/internal/workbook"
)

// Float64Ptr returns a pointer to v, for optional rate and limit fields.
func Float64Ptr(v float64) *float64 {
	return &v
}

// FindDocument finds a document report by name.
// Returns nil when no document matches.
func FindDocument(report workbook.Report, name string) *workbook.DocumentReport {
	for i := range report.Documents {
		if report.Documents[i].Name == name {
			return &report.Documents[i]
		}
	}
	return nil
}

// FindPricing finds a pricing report by scenario name.
func FindPricing(report workbook.Report, name string) *workbook.PricingReport {
	for i := range report.Pricing {
		if report.Pricing[i].Name == name {
			return &report.Pricing[i]
		}
	}
	return nil
}

// FindReplenishment finds a replenishment report by SKU.
func FindReplenishment(report workbook.Report, sku string) *workbook.ReplenishmentReport {
	for i := range report.Replenishment {
		if report.Replenishment[i].SKU == sku {
			return &report.Replenishment[i]
		}
	}
	return nil
}
