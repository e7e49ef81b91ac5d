package output

import (
	"bytes"
	"encoding/csv"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/iwvelando/erp-engines/internal/workbook"
	"github.com/iwvelando/erp-engines/pkg/pricing"
	"github.com/iwvelando/erp-engines/pkg/replenishment"
	"github.com/iwvelando/erp-engines/pkg/tax"
	"github.com/iwvelando/erp-engines/pkg/testutil"
)

func testReport() workbook.Report {
	ctx := tax.FiscalContext{Regime: tax.RegimeStandard, Origin: "SP", Destination: "RJ", Operation: tax.OperationSale}
	lines := []tax.DocumentLine{
		{
			Item:       tax.LineItem{Quantity: 10, UnitPrice: 123.456},
			Parameters: tax.TaxParameters{ICMSRate: testutil.Float64Ptr(12), PISRate: testutil.Float64Ptr(1.65)},
		},
		{
			Item:       tax.LineItem{Quantity: 1, UnitPrice: 200},
			Parameters: tax.TaxParameters{ServiceTax: &tax.ServiceTaxParameters{Jurisdiction: "3304557", Rate: 5}},
		},
	}

	stockout := time.Date(2026, 10, 21, 0, 0, 0, 0, time.UTC)

	return workbook.Report{
		AsOf: time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC),
		Documents: []workbook.DocumentReport{
			{Name: "NF-e 1001", Context: ctx, Result: tax.ComputeDocument(ctx, lines)},
		},
		Pricing: []workbook.PricingReport{
			{
				Name: "Widget retail",
				Mode: pricing.ModeMarkup,
				Result: pricing.CalculatePricing(pricing.Inputs{BaseCost: 100, MarkupPercent: 50, ICMSRate: 10, GatewayFeePercent: 5},
					pricing.ModeMarkup, pricing.DefaultRoundingPolicy()),
			},
		},
		Replenishment: []workbook.ReplenishmentReport{
			{
				SKU:    "SKU-001",
				Policy: replenishment.PolicyReorderPoint,
				Suggestion: replenishment.Suggestion{
					Quantity:       73,
					ReorderPoint:   73,
					SafetyStock:    33,
					ProjectedStock: 25,
					Reason:         "projected stock 25.00 is at or below the reorder point 73.00",
					StockoutDate:   &stockout,
					Urgency:        replenishment.UrgencyCritical,
				},
			},
		},
		Warnings: []string{"document \"NF-e 1001\" line 2: CFOP 5933 does not fit SP -> RJ (expected prefix 6)"},
	}
}

func TestPrettyFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := PrettyFormat(&buf, testReport()); err != nil {
		t.Fatalf("PrettyFormat() error = %v", err)
	}
	output := buf.String()

	expectedContents := []string{
		"=== Workbook as of 2026-10-19 ===",
		"warning: document \"NF-e 1001\" line 2",
		"--- Document NF-e 1001 (standard, SP -> RJ, sale) ---",
		"R$ 1.234,56",
		"ICMS R$ 148,15",
		"ISS R$ 10,00",
		"--- Pricing ---",
		"Widget retail | markup | R$ 176,47 | 28,33% | 50,00% | R$ 50,00",
		"--- Replenishment ---",
		"SKU-001 | reorder_point | 73 | critical | 25,00 | 73,00 | 2026-10-21",
		"    projected stock 25.00 is at or below the reorder point 73.00",
	}

	for _, expected := range expectedContents {
		if !strings.Contains(output, expected) {
			t.Errorf("Expected output to contain %q, but it didn't. Output:\n%s", expected, output)
		}
	}
}

func TestPrettyFormatEmptySections(t *testing.T) {
	var buf bytes.Buffer
	if err := PrettyFormat(&buf, workbook.Report{}); err != nil {
		t.Fatalf("PrettyFormat() error = %v", err)
	}
	if strings.Contains(buf.String(), "--- Pricing ---") || strings.Contains(buf.String(), "--- Replenishment ---") {
		t.Errorf("expected empty sections to be omitted, got:\n%s", buf.String())
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestPrettyFormatWriteError(t *testing.T) {
	if err := PrettyFormat(failingWriter{}, testReport()); err == nil {
		t.Error("expected the write error to be returned")
	}
}

func TestCsvFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := CsvFormat(&buf, testReport()); err != nil {
		t.Fatalf("CsvFormat() error = %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("CsvFormat() produced invalid csv: %v", err)
	}

	if got := strings.Join(records[0], ","); got != "section,name,field,value" {
		t.Errorf("unexpected header %q", got)
	}

	values := make(map[string]string)
	for _, record := range records[1:] {
		values[record[0]+"/"+record[1]+"/"+record[2]] = record[3]
	}

	tests := []struct {
		key      string
		expected string
	}{
		{"tax/NF-e 1001/productBase", "1434.56"},
		{"tax/NF-e 1001/icms", "148.15"},
		{"tax/NF-e 1001/pis", "20.37"},
		{"tax/NF-e 1001/service", "10.00"},
		{"tax/NF-e 1001/totalTaxes", "178.52"},
		{"pricing/Widget retail/suggestedPrice", "176.47"},
		{"pricing/Widget retail/marginPercent", "28.33"},
		{"replenishment/SKU-001/quantity", "73"},
		{"replenishment/SKU-001/urgency", "critical"},
		{"replenishment/SKU-001/stockoutDate", "2026-10-21"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			if got, ok := values[tt.key]; !ok || got != tt.expected {
				t.Errorf("%s = %q, expected %q", tt.key, got, tt.expected)
			}
		})
	}
}
