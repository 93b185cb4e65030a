package handler

import (
	"net/http"

	"procurement-service/internal/model"
	"procurement-service/internal/sheets"
	"procurement-service/internal/store"
	"procurement-service/internal/workflow"
	"procurement-service/pkg/logger"
	"procurement-service/prometheus"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// QuotationEntry is one vendor quote captured for an indent.
type QuotationEntry struct {
	VendorName    string `json:"vendor_name" validate:"required"`
	Product       string `json:"product" validate:"required"`
	Rate          string `json:"rate" validate:"required"`
	DeliveryTerms string `json:"delivery_terms"`
	AttachmentURL string `json:"attachment_url"`
}

// QuotationRequest defines the structure for rate-comparison capture requests
type QuotationRequest struct {
	IndentNumber string           `json:"indent_number" validate:"required"`
	Entries      []QuotationEntry `json:"entries" validate:"required,min=1,dive"`
}

// CreateQuotations records vendor quotes for a three-party indent. Each quote
// draws its own QT number from the quotation sequence.
func CreateQuotations(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordWorkflowOperation("quotation", "create")

	var req QuotationRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	rows, err := store.Get().Rows(ctx, model.SheetQuotation)
	if err != nil {
		return gatewayError(c, err)
	}

	existing := make([]string, 0, len(rows))
	for _, q := range model.ParseQuotations(rows) {
		existing = append(existing, q.QuotationNumber)
	}

	ts := timestampNow()
	inserts := make([]map[string]interface{}, 0, len(req.Entries))
	numbers := make([]string, 0, len(req.Entries))
	for _, entry := range req.Entries {
		rate, err := decimal.NewFromString(entry.Rate)
		if err != nil || rate.IsNegative() {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid rate for vendor " + entry.VendorName})
		}
		number := model.QuotationSequence.Next(existing)
		existing = append(existing, number)
		numbers = append(numbers, number)

		quote := model.Quotation{
			QuotationNumber: number,
			IndentNumber:    req.IndentNumber,
			Timestamp:       ts,
			VendorName:      entry.VendorName,
			Product:         entry.Product,
			Rate:            rate,
			DeliveryTerms:   entry.DeliveryTerms,
			AttachmentURL:   entry.AttachmentURL,
		}
		inserts = append(inserts, quote.InsertRow())
	}

	if err := store.Get().Submit(ctx, sheets.ActionInsert, model.SheetQuotation, inserts); err != nil {
		return gatewayError(c, err)
	}

	log.Info("Quotations recorded",
		zap.String("indent_number", req.IndentNumber),
		zap.Int("quotes", len(inserts)))
	return c.JSON(http.StatusCreated, echo.Map{
		"indent_number":     req.IndentNumber,
		"quotation_numbers": numbers,
	})
}

// ListQuotations serves the rate-comparison screen: quotes grouped by indent
// number, most recent indent first. Optional query param indent_number
// narrows to one indent.
func ListQuotations(c echo.Context) error {
	rows, err := store.Get().Rows(c.Request().Context(), model.SheetQuotation)
	if err != nil {
		return gatewayError(c, err)
	}
	quotes := model.ParseQuotations(rows)

	if indentNumber := c.QueryParam("indent_number"); indentNumber != "" {
		filtered := make([]model.Quotation, 0, len(quotes))
		for _, q := range quotes {
			if q.IndentNumber == indentNumber {
				filtered = append(filtered, q)
			}
		}
		quotes = filtered
	}

	// Reverse for most-recent-first, matching the stage views.
	for i, j := 0, len(quotes)-1; i < j; i, j = i+1, j-1 {
		quotes[i], quotes[j] = quotes[j], quotes[i]
	}

	groups := workflow.GroupByKey(quotes, func(q model.Quotation) string { return q.IndentNumber })
	return c.JSON(http.StatusOK, echo.Map{"groups": groups})
}

// QuotationSelectRequest defines the structure for winner selection requests
type QuotationSelectRequest struct {
	IndentNumber    string `json:"indent_number" validate:"required"`
	QuotationNumber string `json:"quotation_number" validate:"required"`
}

// SelectQuotation marks the winning quote and completes the rate-comparison
// stage for every line of the indent, copying the winning vendor and rate
// onto the indent lines.
func SelectQuotation(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordWorkflowOperation("quotation", "select")

	var req QuotationSelectRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	quoteRows, err := store.Get().Rows(ctx, model.SheetQuotation)
	if err != nil {
		return gatewayError(c, err)
	}

	var winner *model.Quotation
	for _, q := range model.ParseQuotations(quoteRows) {
		if q.QuotationNumber == req.QuotationNumber && q.IndentNumber == req.IndentNumber {
			winner = &q
			break
		}
	}
	if winner == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "quotation not found for this indent"})
	}

	indentRows, err := store.Get().Rows(ctx, model.SheetIndent)
	if err != nil {
		return gatewayError(c, err)
	}

	ts := timestampNow()
	patches := []map[string]interface{}{}
	for _, ind := range model.ParseIndents(indentRows) {
		if ind.IndentNumber != req.IndentNumber {
			continue
		}
		if ind.Stage(model.IndentStageRateComparison).State() != workflow.StagePending {
			continue
		}
		amount := ind.Quantity.Mul(winner.Rate).Round(2)
		patches = append(patches, ind.ApprovalPatch(model.IndentStageRateComparison, ts, map[string]interface{}{
			"vendorName": winner.VendorName,
			"rate":       winner.Rate.String(),
			"amount":     amount.String(),
		}))
	}
	if len(patches) == 0 {
		return c.JSON(http.StatusConflict, echo.Map{"error": "no indent lines awaiting rate comparison"})
	}

	if err := store.Get().Submit(ctx, sheets.ActionUpdate, model.SheetQuotation, []map[string]interface{}{winner.SelectPatch()}); err != nil {
		return gatewayError(c, err)
	}
	if err := store.Get().Submit(ctx, sheets.ActionUpdate, model.SheetIndent, patches); err != nil {
		return gatewayError(c, err)
	}

	audit(c, "indent", req.IndentNumber, model.IndentStageRateComparison, "rate-selected", "", winner.VendorName)
	log.Info("Quotation selected",
		zap.String("indent_number", req.IndentNumber),
		zap.String("quotation_number", req.QuotationNumber),
		zap.String("vendor", winner.VendorName),
		zap.Int("lines", len(patches)))
	return c.JSON(http.StatusOK, echo.Map{"updated": len(patches)})
}
