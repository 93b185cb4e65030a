package handler

import (
	"net/http"
	"strconv"

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

// IndentLineRequest is one requested line of a new indent.
type IndentLineRequest struct {
	Product  string `json:"product" validate:"required"`
	Quantity string `json:"quantity" validate:"required"`
	Unit     string `json:"unit" validate:"required"`
	Remarks  string `json:"remarks"`
}

// IndentRequest defines the structure for indent creation requests
type IndentRequest struct {
	Department    string              `json:"department" validate:"required"`
	AttachmentURL string              `json:"attachment_url"`
	Lines         []IndentLineRequest `json:"lines" validate:"required,min=1,dive"`
}

// CreateIndent assigns the next SI number from the current collection and
// inserts one row per requested line. The number is computed client-side as
// max+1 over existing ids; nothing at this layer prevents two concurrent
// submissions from drawing the same number.
func CreateIndent(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordWorkflowOperation("indent", "create")

	var req IndentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	rows, err := store.Get().Rows(ctx, model.SheetIndent)
	if err != nil {
		return gatewayError(c, err)
	}

	existing := make([]string, 0, len(rows))
	for _, ind := range model.ParseIndents(rows) {
		existing = append(existing, ind.IndentNumber)
	}
	indentNumber := model.IndentSequence.Next(existing)

	userName, _ := c.Get("user_name").(string)
	ts := timestampNow()

	inserts := make([]map[string]interface{}, 0, len(req.Lines))
	for _, line := range req.Lines {
		qty, err := decimal.NewFromString(line.Quantity)
		if err != nil || qty.IsNegative() {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid quantity for product " + line.Product})
		}
		indent := model.Indent{
			IndentNumber:  indentNumber,
			Timestamp:     ts,
			Department:    req.Department,
			Product:       line.Product,
			Quantity:      qty,
			Unit:          line.Unit,
			RequestedBy:   userName,
			AttachmentURL: req.AttachmentURL,
			Remarks:       line.Remarks,
		}
		inserts = append(inserts, indent.InsertRow())
	}

	if err := store.Get().Submit(ctx, sheets.ActionInsert, model.SheetIndent, inserts); err != nil {
		return gatewayError(c, err)
	}

	audit(c, "indent", indentNumber, model.IndentStageApproval, "created", "", model.VendorTypePending)
	log.Info("Indent created",
		zap.String("indent_number", indentNumber),
		zap.Int("lines", len(inserts)))

	return c.JSON(http.StatusCreated, echo.Map{
		"indent_number": indentNumber,
		"lines":         len(inserts),
	})
}

// IndentStageView serves one approval screen: the pending/history partition
// of the indent collection for stage :n, most recent first. Optional query
// params: vendor_type narrows both views, grouped=true batches lines by
// indent number.
func IndentStageView(c echo.Context) error {
	log := logger.FromContext(c)

	n, err := strconv.Atoi(c.Param("n"))
	if err != nil || n < 1 || n > workflow.MaxStages {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid stage number"})
	}

	rows, err := store.Get().Rows(c.Request().Context(), model.SheetIndent)
	if err != nil {
		return gatewayError(c, err)
	}
	indents := model.ParseIndents(rows)

	var constraint func(model.Indent) bool
	switch vt := c.QueryParam("vendor_type"); {
	case vt != "":
		constraint = func(i model.Indent) bool { return i.VendorType == vt }
	case n == model.IndentStageRateComparison:
		// Only three-party indents enter rate comparison.
		constraint = model.ThreePartyOnly
	case n > model.IndentStageRateComparison:
		// Rejected lines leave the pipeline at approval.
		constraint = model.NotRejected
	}

	view := workflow.SplitStage(indents, n, constraint)
	prometheus.UpdateStagePending("indent", model.IndentStageNames[n], float64(len(view.Pending)))

	log.Info("Indent stage view",
		zap.Int("stage", n),
		zap.Int("pending", len(view.Pending)),
		zap.Int("history", len(view.History)))

	if c.QueryParam("grouped") == "true" {
		key := func(i model.Indent) string { return i.IndentNumber }
		return c.JSON(http.StatusOK, echo.Map{
			"pending": workflow.GroupByKey(view.Pending, key),
			"history": workflow.GroupByKey(view.History, key),
		})
	}
	return c.JSON(http.StatusOK, view)
}

// IndentApprovalItem is one line decision in a batch approval.
type IndentApprovalItem struct {
	IndentNumber string `json:"indent_number" validate:"required"`
	RowIndex     int    `json:"row_index" validate:"required"`
	VendorType   string `json:"vendor_type" validate:"required,oneof=Reject 'Three Party' Regular"`
}

// IndentApprovalRequest defines the structure for batch approval requests
type IndentApprovalRequest struct {
	Items []IndentApprovalItem `json:"items" validate:"required,min=1,dive"`
}

// ApproveIndents completes stage 1 for a batch of lines, recording the
// vendor-type decision that routes each line down the pipeline.
func ApproveIndents(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordWorkflowOperation("indent", "approve")

	var req IndentApprovalRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	rows, err := store.Get().Rows(ctx, model.SheetIndent)
	if err != nil {
		return gatewayError(c, err)
	}

	byRow := make(map[int]model.Indent)
	for _, ind := range model.ParseIndents(rows) {
		byRow[ind.RowIndex] = ind
	}

	ts := timestampNow()
	patches := make([]map[string]interface{}, 0, len(req.Items))
	for _, item := range req.Items {
		ind, ok := byRow[item.RowIndex]
		if !ok || ind.IndentNumber != item.IndentNumber {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown indent line " + item.IndentNumber})
		}
		if ind.Stage(model.IndentStageApproval).State() != workflow.StagePending {
			return c.JSON(http.StatusConflict, echo.Map{"error": "indent line " + item.IndentNumber + " is not awaiting approval"})
		}
		patches = append(patches, ind.ApprovalPatch(model.IndentStageApproval, ts, map[string]interface{}{
			"vendorType": item.VendorType,
		}))
	}

	if err := store.Get().Submit(ctx, sheets.ActionUpdate, model.SheetIndent, patches); err != nil {
		return gatewayError(c, err)
	}

	for _, item := range req.Items {
		action := "approved"
		if item.VendorType == model.VendorTypeReject {
			action = "rejected"
		}
		audit(c, "indent", item.IndentNumber, model.IndentStageApproval, action, model.VendorTypePending, item.VendorType)
	}

	log.Info("Indents approved", zap.Int("lines", len(patches)))
	return c.JSON(http.StatusOK, echo.Map{"updated": len(patches)})
}

// IndentStageItem is one line advanced through a later pipeline stage.
type IndentStageItem struct {
	IndentNumber string                 `json:"indent_number" validate:"required"`
	RowIndex     int                    `json:"row_index" validate:"required"`
	Fields       map[string]interface{} `json:"fields"`
}

// IndentStageRequest defines the structure for stage completion requests
type IndentStageRequest struct {
	Items []IndentStageItem `json:"items" validate:"required,min=1,dive"`
}

// CompleteIndentStage sets actualN for a batch of lines at stage :n, plus any
// screen-specific payload fields (received quantity at goods receipt, store
// location at store-in). Only actualN and payload fields are ever written;
// plannedN+1 belongs to the external automation layer.
func CompleteIndentStage(c echo.Context) error {
	log := logger.FromContext(c)

	n, err := strconv.Atoi(c.Param("n"))
	if err != nil || n < 2 || n > workflow.MaxStages {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid stage number"})
	}

	var req IndentStageRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	prometheus.RecordWorkflowOperation("indent", "complete-stage-"+strconv.Itoa(n))

	ctx := c.Request().Context()
	rows, err := store.Get().Rows(ctx, model.SheetIndent)
	if err != nil {
		return gatewayError(c, err)
	}

	byRow := make(map[int]model.Indent)
	for _, ind := range model.ParseIndents(rows) {
		byRow[ind.RowIndex] = ind
	}

	ts := timestampNow()
	patches := make([]map[string]interface{}, 0, len(req.Items))
	for _, item := range req.Items {
		ind, ok := byRow[item.RowIndex]
		if !ok || ind.IndentNumber != item.IndentNumber {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown indent line " + item.IndentNumber})
		}
		if ind.Stage(n).State() != workflow.StagePending {
			return c.JSON(http.StatusConflict, echo.Map{"error": "indent line " + item.IndentNumber + " is not pending at this stage"})
		}
		patches = append(patches, ind.ApprovalPatch(n, ts, item.Fields))
	}

	if err := store.Get().Submit(ctx, sheets.ActionUpdate, model.SheetIndent, patches); err != nil {
		return gatewayError(c, err)
	}

	for _, item := range req.Items {
		audit(c, "indent", item.IndentNumber, n, "stage-completed", "", "")
	}

	log.Info("Indent stage completed",
		zap.Int("stage", n),
		zap.Int("lines", len(patches)))
	return c.JSON(http.StatusOK, echo.Map{"updated": len(patches)})
}
