package workbook

import (
	"testing"
	"time"

	"github.com/iwvelando/erp-engines/internal/config"
	"github.com/iwvelando/erp-engines/pkg/constants"
	"github.com/iwvelando/erp-engines/pkg/replenishment"
	"github.com/iwvelando/erp-engines/pkg/tax"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var fixedTime = time.Date(2026, 10, 19, 14, 30, 0, 0, time.UTC)

func loadWorkbook(t *testing.T) config.Configuration {
	t.Helper()
	conf, err := config.LoadConfiguration("../config/testdata/workbook.yaml")
	require.NoError(t, err)
	return *conf
}

func TestEvaluateWorkbook(t *testing.T) {
	report, err := EvaluateWithFixedTime(zap.NewNop(), loadWorkbook(t), fixedTime)
	require.NoError(t, err)

	assert.Equal(t, "2026-10-19", report.AsOf.Format("2006-01-02"))
	require.Len(t, report.Warnings, 1)

	t.Run("Documents", func(t *testing.T) {
		require.Len(t, report.Documents, 2)

		totals := report.Documents[0].Result.Totals
		assert.InDelta(t, 1180.0, totals.ProductBase, 1e-9)
		assert.InDelta(t, 117.60, totals.ICMS, 1e-9)
		assert.InDelta(t, 16.17, totals.PIS, 1e-9)
		assert.InDelta(t, 74.48, totals.COFINS, 1e-9)
		assert.InDelta(t, 49.00, totals.IPI, 1e-9)
		assert.InDelta(t, 10.00, totals.Service, 1e-9)
		assert.InDelta(t, 267.25, totals.TotalTaxes, 1e-9)

		simplified := report.Documents[1].Result
		require.Len(t, simplified.Lines, 1)
		assert.Equal(t, tax.RegimeSimplified, simplified.Lines[0].Regime)
		assert.InDelta(t, 6.0, simplified.Totals.EffectiveBurden, 1e-9)
	})

	t.Run("Pricing", func(t *testing.T) {
		require.Len(t, report.Pricing, 2)
		assert.InDelta(t, 176.47, report.Pricing[0].Result.SuggestedPrice, 1e-9)
		assert.InDelta(t, 176.99, report.Pricing[1].Result.SuggestedPrice, 1e-9)
	})

	t.Run("Replenishment", func(t *testing.T) {
		require.Len(t, report.Replenishment, 2)

		widget := report.Replenishment[0].Suggestion
		assert.Equal(t, 73, widget.Quantity)
		assert.Equal(t, replenishment.UrgencyCritical, widget.Urgency)
		require.NotNil(t, widget.StockoutDate)
		assert.Equal(t, "2026-10-21", widget.StockoutDate.Format("2006-01-02"))

		minMax := report.Replenishment[1]
		assert.Equal(t, replenishment.PolicyMinMax, minMax.Policy)
		assert.Equal(t, 0, minMax.Suggestion.Quantity)
		assert.Equal(t, replenishment.UrgencyLow, minMax.Suggestion.Urgency)
	})
}

func TestEvaluateUsesClockWithoutAsOf(t *testing.T) {
	conf := loadWorkbook(t)
	conf.AsOf = ""

	report, err := EvaluateWithFixedTime(nil, conf, fixedTime)
	require.NoError(t, err)
	assert.True(t, report.AsOf.Equal(fixedTime))

	stockout := report.Replenishment[1].Suggestion.StockoutDate
	require.NotNil(t, stockout)
	assert.Equal(t, "2026-10-27", stockout.Format("2006-01-02"))
}

func TestEvaluateRejectsInvalidWorkbook(t *testing.T) {
	conf := loadWorkbook(t)
	conf.Pricing[0].Mode = "cost_plus"

	_, err := EvaluateWithFixedTime(zap.NewNop(), conf, fixedTime)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid workbook")
}

func TestEvaluateEmptyWorkbook(t *testing.T) {
	report, err := Evaluate(zap.NewNop(), config.Configuration{})
	require.NoError(t, err)
	assert.Empty(t, report.Documents)
	assert.Empty(t, report.Pricing)
	assert.Empty(t, report.Replenishment)
	assert.Len(t, report.Warnings, 1)
}

func TestEvaluateExampleWorkbook(t *testing.T) {
	conf, err := config.LoadConfiguration("../../" + constants.ExampleConfigFile)
	require.NoError(t, err)

	report, err := EvaluateWithFixedTime(zap.NewNop(), *conf, fixedTime)
	require.NoError(t, err)
	assert.Empty(t, report.Warnings)

	require.Len(t, report.Documents, 2)
	autoParts := report.Documents[0].Result.Lines[1].Standard
	require.NotNil(t, autoParts)
	require.NotNil(t, autoParts.Substitution)
	assert.InDelta(t, 717.80, *autoParts.SubstitutionBase, 1e-9)
	assert.InDelta(t, 86.14, *autoParts.Substitution, 1e-9)
	assert.InDelta(t, 20.0, *autoParts.PovertyFund, 1e-9)

	require.Len(t, report.Pricing, 3)
	for _, p := range report.Pricing {
		assert.Greater(t, p.Result.SuggestedPrice, p.Result.TotalCost, p.Name)
	}

	require.Len(t, report.Replenishment, 3)
	notebook := report.Replenishment[0].Suggestion
	assert.Equal(t, 0, notebook.Quantity%12, "pack multiple is honoured")
	assert.GreaterOrEqual(t, notebook.Quantity, 120)
}
