package server

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/iwvelando/erp-engines/internal/config"
	"github.com/iwvelando/erp-engines/internal/workbook"
	"github.com/iwvelando/erp-engines/pkg/constants"
	"github.com/iwvelando/erp-engines/pkg/datetime"
	"github.com/iwvelando/erp-engines/pkg/output"
	"github.com/iwvelando/erp-engines/pkg/pricing"
	"github.com/iwvelando/erp-engines/pkg/replenishment"
	"github.com/iwvelando/erp-engines/pkg/tax"
	"github.com/iwvelando/erp-engines/pkg/validation"
)

type taxLineRequest struct {
	Context    tax.FiscalContext `json:"context"`
	Parameters tax.TaxParameters `json:"parameters"`
	Item       tax.LineItem      `json:"item"`
}

type taxLineResponse struct {
	Result   tax.LineResult `json:"result"`
	Warnings []string       `json:"warnings,omitempty"`
}

type taxDocumentRequest struct {
	Context tax.FiscalContext  `json:"context"`
	Lines   []tax.DocumentLine `json:"lines"`
}

type taxDocumentResponse struct {
	Result   tax.DocumentResult `json:"result"`
	Warnings []string           `json:"warnings,omitempty"`
}

type cfopRequest struct {
	CFOP        string            `json:"cfop"`
	Operation   tax.OperationKind `json:"operation"`
	Origin      string            `json:"origin"`
	Destination string            `json:"destination"`
}

type cfopResponse struct {
	Valid          bool   `json:"valid"`
	ExpectedPrefix string `json:"expectedPrefix"`
}

type pricingRequest struct {
	Inputs   pricing.Inputs          `json:"inputs"`
	Mode     pricing.Mode            `json:"mode"`
	Rounding *pricing.RoundingPolicy `json:"rounding,omitempty"`
}

type replenishmentRequest struct {
	Policy    replenishment.Policy    `json:"policy"`
	Inventory replenishment.Inventory `json:"inventory"`
	AsOf      string                  `json:"asOf,omitempty"`
}

func (h *handler) handleTaxLine(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleTaxLine"

	var req taxLineRequest
	if status, err := decodeJSON(r, &req); err != nil {
		h.respondErrorWithOp(w, status, err.Error(), op)
		return
	}

	if err := validation.ValidateFiscalContext(req.Context); err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}
	if err := validation.ValidateLineItem(req.Item); err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}
	if err := validation.ValidateTaxParameters(req.Parameters); err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	resp := taxLineResponse{Result: tax.ComputeLineItem(req.Context, req.Parameters, req.Item)}
	if warning := validation.CFOPWarning(req.Parameters.CFOP, req.Context); warning != "" {
		resp.Warnings = []string{warning}
	}
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *handler) handleTaxDocument(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleTaxDocument"

	var req taxDocumentRequest
	if status, err := decodeJSON(r, &req); err != nil {
		h.respondErrorWithOp(w, status, err.Error(), op)
		return
	}

	warnings, err := validation.ValidateDocument(req.Context, req.Lines)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	h.writeJSON(w, http.StatusOK, taxDocumentResponse{
		Result:   tax.ComputeDocument(req.Context, req.Lines),
		Warnings: warnings,
	})
}

func (h *handler) handleCFOP(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleCFOP"

	var req cfopRequest
	if status, err := decodeJSON(r, &req); err != nil {
		h.respondErrorWithOp(w, status, err.Error(), op)
		return
	}

	h.writeJSON(w, http.StatusOK, cfopResponse{
		Valid:          tax.ValidateCFOP(req.CFOP, req.Operation, req.Origin, req.Destination),
		ExpectedPrefix: string(tax.ExpectedCFOPPrefix(req.Origin, req.Destination)),
	})
}

func (h *handler) handlePricing(w http.ResponseWriter, r *http.Request) {
	const op = "server.handlePricing"

	var req pricingRequest
	if status, err := decodeJSON(r, &req); err != nil {
		h.respondErrorWithOp(w, status, err.Error(), op)
		return
	}

	policy := pricing.DefaultRoundingPolicy()
	if req.Rounding != nil {
		policy = *req.Rounding
	}

	if err := validation.ValidatePricing(req.Inputs, req.Mode, policy); err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	h.writeJSON(w, http.StatusOK, pricing.CalculatePricing(req.Inputs, req.Mode, policy))
}

func (h *handler) handleReplenishment(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleReplenishment"

	var req replenishmentRequest
	if status, err := decodeJSON(r, &req); err != nil {
		h.respondErrorWithOp(w, status, err.Error(), op)
		return
	}

	req.Policy = req.Policy.WithDefaults()
	if err := validation.ValidateReplenishment(req.Policy, req.Inventory); err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	asOf, err := datetime.ParseDateOr(req.AsOf, h.now())
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("invalid asOf date %q: %v", req.AsOf, err), op)
		return
	}

	h.writeJSON(w, http.StatusOK, replenishment.GenerateSuggestionAt(req.Policy, req.Inventory, asOf))
}

// handleWorkbook evaluates an uploaded YAML workbook. The response is the
// JSON report, or CSV when format=csv is requested.
func (h *handler) handleWorkbook(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleWorkbook"

	format := r.URL.Query().Get("format")
	switch format {
	case "", "json", constants.OutputFormatCSV:
	default:
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("unsupported format %q, expected json or csv", format), op)
		return
	}

	data, status, err := readBody(r)
	if err != nil {
		h.respondErrorWithOp(w, status, err.Error(), op)
		return
	}

	conf, err := config.LoadConfigurationFromReader(bytes.NewReader(data))
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	report, err := workbook.EvaluateWithFixedTime(h.logger, *conf, h.now())
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	if format == constants.OutputFormatCSV {
		var buf bytes.Buffer
		if err := output.CsvFormat(&buf, report); err != nil {
			h.respondErrorWithOp(w, http.StatusInternalServerError, err.Error(), op)
			return
		}
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(buf.Bytes())
		return
	}

	h.writeJSON(w, http.StatusOK, report)
}
