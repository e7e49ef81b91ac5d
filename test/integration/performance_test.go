package integration

import (
	"reflect"
	"testing"
	"time"

	"github.com/iwvelando/erp-engines/internal/config"
	"github.com/iwvelando/erp-engines/internal/workbook"
	"github.com/iwvelando/erp-engines/pkg/tax"
	"go.uber.org/zap"
)

// TestPerformance tests performance characteristics
func TestPerformance(t *testing.T) {
	logger := zap.NewNop()

	start := time.Now()
	conf, err := config.LoadConfiguration(examplePath)
	if err != nil {
		t.Fatalf("LoadConfiguration failed: %v", err)
	}
	loadTime := time.Since(start)

	start = time.Now()
	if _, err := workbook.EvaluateWithFixedTime(logger, *conf, asOf); err != nil {
		t.Fatalf("EvaluateWithFixedTime failed: %v", err)
	}
	evaluateTime := time.Since(start)

	t.Logf("Performance metrics:")
	t.Logf("  Load workbook: %v", loadTime)
	t.Logf("  Evaluate workbook: %v", evaluateTime)

	if total := loadTime + evaluateTime; total > 5*time.Second {
		t.Errorf("Total processing time %v exceeds 5 second threshold", total)
	}
}

// TestLargeDocument aggregates a document with many lines.
func TestLargeDocument(t *testing.T) {
	ctx := tax.FiscalContext{Regime: tax.RegimeStandard, Origin: "SP", Destination: "MG", Operation: tax.OperationSale}
	rate := 1.65

	lines := make([]tax.DocumentLine, 5000)
	for i := range lines {
		lines[i] = tax.DocumentLine{
			Item:       tax.LineItem{Quantity: 1, UnitPrice: 13.33},
			Parameters: tax.TaxParameters{PISRate: &rate},
		}
	}

	start := time.Now()
	result := tax.ComputeDocument(ctx, lines)
	elapsed := time.Since(start)
	t.Logf("Computed %d lines in %v", len(lines), elapsed)

	// 13.33 x 1.65% = 0.219945 rounds to 0.22 per line.
	if result.Totals.PIS != 1100 {
		t.Errorf("PIS total = %v, expected 1100", result.Totals.PIS)
	}
	if result.Totals.ProductBase != 66650 {
		t.Errorf("product base total = %v, expected 66650", result.Totals.ProductBase)
	}
}

// TestDataConsistency validates that multiple runs produce identical results
func TestDataConsistency(t *testing.T) {
	var first workbook.Report

	for run := 0; run < 3; run++ {
		report := evaluateExample(t)
		if run == 0 {
			first = report
			continue
		}
		if !reflect.DeepEqual(report, first) {
			t.Errorf("run %d produced a different report than the first run", run)
		}
	}
}
