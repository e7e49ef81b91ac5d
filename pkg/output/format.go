// Package output provides utilities for formatting and displaying workbook
// results.
package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/iwvelando/erp-engines/internal/workbook"
	"github.com/iwvelando/erp-engines/pkg/datetime"
	"github.com/iwvelando/erp-engines/pkg/format"
	"github.com/iwvelando/erp-engines/pkg/tax"
)

// PrettyFormat writes a human-readable rather than machine-readable report.
func PrettyFormat(w io.Writer, report workbook.Report) error {
	pw := &prettyWriter{w: w}

	pw.printf("=== Workbook as of %s ===\n", report.AsOf.Format(datetime.DateLayout))
	for _, warning := range report.Warnings {
		pw.printf("warning: %s\n", warning)
	}

	for _, doc := range report.Documents {
		ctx := doc.Context
		pw.printf("\n--- Document %s (%s, %s -> %s, %s) ---\n", doc.Name, ctx.Regime, ctx.Origin, ctx.Destination, ctx.Operation)
		pw.printf("Line | Regime     | Base            | Taxes\n")
		pw.printf("____ | __________ | _______________ | _____\n")
		for i, line := range doc.Result.Lines {
			pw.printf("%4d | %-10s | %15s | %s\n", i+1, line.Regime, format.BRL(line.ProductBase), lineTaxes(line))
		}
		totals := doc.Result.Totals
		pw.printf("Total base %s, total taxes %s\n", format.BRL(totals.ProductBase), format.BRL(totals.TotalTaxes))
	}

	if len(report.Pricing) > 0 {
		pw.printf("\n--- Pricing ---\n")
		pw.printf("Scenario | Mode | Price | Margin | Markup | Profit\n")
		pw.printf("________ | ____ | _____ | ______ | ______ | ______\n")
		for _, p := range report.Pricing {
			r := p.Result
			pw.printf("%s | %s | %s | %s | %s | %s\n", p.Name, p.Mode, format.BRL(r.SuggestedPrice),
				format.Percent(r.MarginPercent), format.Percent(r.MarkupPercent), format.BRL(r.Profit))
			for _, warning := range r.Warnings {
				pw.printf("    warning: %s\n", warning)
			}
		}
	}

	if len(report.Replenishment) > 0 {
		pw.printf("\n--- Replenishment ---\n")
		pw.printf("SKU | Policy | Order | Urgency | Projected | ROP | Stockout\n")
		pw.printf("___ | ______ | _____ | _______ | _________ | ___ | ________\n")
		for _, item := range report.Replenishment {
			s := item.Suggestion
			pw.printf("%s | %s | %d | %s | %s | %s | %s\n", item.SKU, item.Policy, s.Quantity, s.Urgency,
				format.Number(s.ProjectedStock, 2), format.Number(s.ReorderPoint, 2), datetime.FormatDate(s.StockoutDate))
			if s.Reason != "" {
				pw.printf("    %s\n", s.Reason)
			}
			for _, warning := range s.Warnings {
				pw.printf("    warning: %s\n", warning)
			}
		}
	}

	return pw.err
}

// prettyWriter keeps the first write error so the report body stays linear.
type prettyWriter struct {
	w   io.Writer
	err error
}

func (pw *prettyWriter) printf(layout string, args ...interface{}) {
	if pw.err != nil {
		return
	}
	_, pw.err = fmt.Fprintf(pw.w, layout, args...)
}

func lineTaxes(line tax.LineResult) string {
	var parts []string
	add := func(label string, value *float64) {
		if value != nil {
			parts = append(parts, label+" "+format.BRL(*value))
		}
	}

	if line.Simplified != nil {
		v := line.Simplified.EffectiveBurden
		add("Simples", &v)
	}
	if std := line.Standard; std != nil {
		add("ICMS", std.ICMS)
		add("ST", std.Substitution)
		add("FCP", std.PovertyFund)
		add("IPI", std.IPI)
		add("PIS", std.PIS)
		add("COFINS", std.COFINS)
	}
	if line.Service != nil {
		v := line.Service.Amount
		add("ISS", &v)
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, ", ")
}

// CsvFormat writes the report in comma-separated value format, one value per
// row: section, name, field, value.
func CsvFormat(w io.Writer, report workbook.Report) error {
	cw := csv.NewWriter(w)
	rows := [][]string{{"section", "name", "field", "value"}}

	money := func(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) }

	for _, doc := range report.Documents {
		t := doc.Result.Totals
		for _, field := range []struct {
			name  string
			value float64
		}{
			{"productBase", t.ProductBase},
			{"icmsBase", t.ICMSBase},
			{"icms", t.ICMS},
			{"substitutionBase", t.SubstitutionBase},
			{"substitution", t.Substitution},
			{"povertyFund", t.PovertyFund},
			{"ipi", t.IPI},
			{"pis", t.PIS},
			{"cofins", t.COFINS},
			{"serviceBase", t.ServiceBase},
			{"service", t.Service},
			{"effectiveBurden", t.EffectiveBurden},
			{"totalTaxes", t.TotalTaxes},
		} {
			rows = append(rows, []string{"tax", doc.Name, field.name, money(field.value)})
		}
	}

	for _, p := range report.Pricing {
		r := p.Result
		rows = append(rows,
			[]string{"pricing", p.Name, "suggestedPrice", money(r.SuggestedPrice)},
			[]string{"pricing", p.Name, "marginPercent", money(r.MarginPercent)},
			[]string{"pricing", p.Name, "markupPercent", money(r.MarkupPercent)},
			[]string{"pricing", p.Name, "profit", money(r.Profit)},
			[]string{"pricing", p.Name, "totalCost", money(r.TotalCost)},
		)
		for _, warning := range r.Warnings {
			rows = append(rows, []string{"pricing", p.Name, "warning", warning})
		}
	}

	for _, item := range report.Replenishment {
		s := item.Suggestion
		rows = append(rows,
			[]string{"replenishment", item.SKU, "quantity", strconv.Itoa(s.Quantity)},
			[]string{"replenishment", item.SKU, "urgency", string(s.Urgency)},
			[]string{"replenishment", item.SKU, "safetyStock", money(s.SafetyStock)},
			[]string{"replenishment", item.SKU, "reorderPoint", money(s.ReorderPoint)},
			[]string{"replenishment", item.SKU, "projectedStock", money(s.ProjectedStock)},
		)
		if s.StockoutDate != nil {
			rows = append(rows, []string{"replenishment", item.SKU, "stockoutDate", datetime.FormatDate(s.StockoutDate)})
		}
	}

	for _, warning := range report.Warnings {
		rows = append(rows, []string{"workbook", "", "warning", warning})
	}

	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}
	return nil
}
