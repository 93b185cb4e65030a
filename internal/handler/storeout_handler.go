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

// StoreOutLineRequest is one requested line of a stock issuance.
type StoreOutLineRequest struct {
	Product  string `json:"product" validate:"required"`
	Quantity string `json:"quantity" validate:"required"`
	Unit     string `json:"unit" validate:"required"`
	Remarks  string `json:"remarks"`
}

// StoreOutRequest defines the structure for store-out creation requests
type StoreOutRequest struct {
	Department string                `json:"department" validate:"required"`
	Lines      []StoreOutLineRequest `json:"lines" validate:"required,min=1,dive"`
}

// CreateStoreOut assigns the next IS number and inserts one row per line.
func CreateStoreOut(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordWorkflowOperation("storeout", "create")

	var req StoreOutRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	rows, err := store.Get().Rows(ctx, model.SheetStoreOut)
	if err != nil {
		return gatewayError(c, err)
	}

	existing := make([]string, 0, len(rows))
	for _, out := range model.ParseStoreOuts(rows) {
		existing = append(existing, out.IssueNumber)
	}
	issueNumber := model.StoreOutSequence.Next(existing)

	userName, _ := c.Get("user_name").(string)
	ts := timestampNow()

	inserts := make([]map[string]interface{}, 0, len(req.Lines))
	for _, line := range req.Lines {
		qty, err := decimal.NewFromString(line.Quantity)
		if err != nil || qty.IsNegative() {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid quantity for product " + line.Product})
		}
		out := model.StoreOut{
			IssueNumber: issueNumber,
			Timestamp:   ts,
			Department:  req.Department,
			Product:     line.Product,
			Quantity:    qty,
			Unit:        line.Unit,
			RequestedBy: userName,
			Remarks:     line.Remarks,
		}
		inserts = append(inserts, out.InsertRow())
	}

	if err := store.Get().Submit(ctx, sheets.ActionInsert, model.SheetStoreOut, inserts); err != nil {
		return gatewayError(c, err)
	}

	audit(c, "storeout", issueNumber, model.StoreOutStageApproval, "created", "", model.StatusPending)
	log.Info("Store-out created",
		zap.String("issue_number", issueNumber),
		zap.Int("lines", len(inserts)))
	return c.JSON(http.StatusCreated, echo.Map{
		"issue_number": issueNumber,
		"lines":        len(inserts),
	})
}

// StoreOutStageView serves one store-out screen: the pending/history
// partition at stage :n, optionally narrowed by status and grouped by issue
// number.
func StoreOutStageView(c echo.Context) error {
	n, err := strconv.Atoi(c.Param("n"))
	if err != nil || n < 1 || n > workflow.MaxStages {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid stage number"})
	}

	rows, err := store.Get().Rows(c.Request().Context(), model.SheetStoreOut)
	if err != nil {
		return gatewayError(c, err)
	}
	outs := model.ParseStoreOuts(rows)

	var constraint func(model.StoreOut) bool
	if status := c.QueryParam("status"); status != "" {
		constraint = func(s model.StoreOut) bool { return s.Status == status }
	} else if n > model.StoreOutStageApproval {
		// Rejected requests never reach the issue stage.
		constraint = func(s model.StoreOut) bool { return s.Status != model.StatusRejected }
	}

	view := workflow.SplitStage(outs, n, constraint)
	prometheus.UpdateStagePending("storeout", model.StoreOutStageNames[n], float64(len(view.Pending)))

	if c.QueryParam("grouped") == "true" {
		key := func(s model.StoreOut) string { return s.IssueNumber }
		return c.JSON(http.StatusOK, echo.Map{
			"pending": workflow.GroupByKey(view.Pending, key),
			"history": workflow.GroupByKey(view.History, key),
		})
	}
	return c.JSON(http.StatusOK, view)
}

// StoreOutApprovalItem is one line decision in a batch approval.
type StoreOutApprovalItem struct {
	IssueNumber string `json:"issue_number" validate:"required"`
	RowIndex    int    `json:"row_index" validate:"required"`
	Status      string `json:"status" validate:"required,oneof=Approved Rejected"`
}

// StoreOutApprovalRequest defines the structure for batch approval requests
type StoreOutApprovalRequest struct {
	Items []StoreOutApprovalItem `json:"items" validate:"required,min=1,dive"`
}

// ApproveStoreOuts completes the approval stage for a batch of lines with an
// Approved/Rejected decision.
func ApproveStoreOuts(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordWorkflowOperation("storeout", "approve")

	var req StoreOutApprovalRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	rows, err := store.Get().Rows(ctx, model.SheetStoreOut)
	if err != nil {
		return gatewayError(c, err)
	}

	byRow := make(map[int]model.StoreOut)
	for _, out := range model.ParseStoreOuts(rows) {
		byRow[out.RowIndex] = out
	}

	ts := timestampNow()
	patches := make([]map[string]interface{}, 0, len(req.Items))
	for _, item := range req.Items {
		out, ok := byRow[item.RowIndex]
		if !ok || out.IssueNumber != item.IssueNumber {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown store-out line " + item.IssueNumber})
		}
		if out.Stage(model.StoreOutStageApproval).State() != workflow.StagePending {
			return c.JSON(http.StatusConflict, echo.Map{"error": "store-out line " + item.IssueNumber + " is not awaiting approval"})
		}
		patches = append(patches, out.StagePatch(model.StoreOutStageApproval, ts, map[string]interface{}{
			"status": item.Status,
		}))
	}

	if err := store.Get().Submit(ctx, sheets.ActionUpdate, model.SheetStoreOut, patches); err != nil {
		return gatewayError(c, err)
	}

	for _, item := range req.Items {
		action := "approved"
		if item.Status == model.StatusRejected {
			action = "rejected"
		}
		audit(c, "storeout", item.IssueNumber, model.StoreOutStageApproval, action, model.StatusPending, item.Status)
	}

	log.Info("Store-outs approved", zap.Int("lines", len(patches)))
	return c.JSON(http.StatusOK, echo.Map{"updated": len(patches)})
}

// StoreOutIssueItem is one line issued from stock.
type StoreOutIssueItem struct {
	IssueNumber string `json:"issue_number" validate:"required"`
	RowIndex    int    `json:"row_index" validate:"required"`
	IssuedQty   string `json:"issued_qty" validate:"required"`
}

// StoreOutIssueRequest defines the structure for stock issue requests
type StoreOutIssueRequest struct {
	Items []StoreOutIssueItem `json:"items" validate:"required,min=1,dive"`
}

// IssueStoreOuts completes the issue stage for approved lines, recording the
// quantity actually issued and the issuing storekeeper.
func IssueStoreOuts(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordWorkflowOperation("storeout", "issue")

	var req StoreOutIssueRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	rows, err := store.Get().Rows(ctx, model.SheetStoreOut)
	if err != nil {
		return gatewayError(c, err)
	}

	byRow := make(map[int]model.StoreOut)
	for _, out := range model.ParseStoreOuts(rows) {
		byRow[out.RowIndex] = out
	}

	userName, _ := c.Get("user_name").(string)
	ts := timestampNow()
	patches := make([]map[string]interface{}, 0, len(req.Items))
	for _, item := range req.Items {
		out, ok := byRow[item.RowIndex]
		if !ok || out.IssueNumber != item.IssueNumber {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown store-out line " + item.IssueNumber})
		}
		if out.Status != model.StatusApproved {
			return c.JSON(http.StatusConflict, echo.Map{"error": "store-out line " + item.IssueNumber + " is not approved"})
		}
		if out.Stage(model.StoreOutStageIssue).State() != workflow.StagePending {
			return c.JSON(http.StatusConflict, echo.Map{"error": "store-out line " + item.IssueNumber + " is not awaiting issue"})
		}
		qty, err := decimal.NewFromString(item.IssuedQty)
		if err != nil || qty.IsNegative() {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid issued quantity for " + item.IssueNumber})
		}
		patches = append(patches, out.StagePatch(model.StoreOutStageIssue, ts, map[string]interface{}{
			"issuedQty": qty.String(),
			"issuedBy":  userName,
		}))
	}

	if err := store.Get().Submit(ctx, sheets.ActionUpdate, model.SheetStoreOut, patches); err != nil {
		return gatewayError(c, err)
	}

	for _, item := range req.Items {
		audit(c, "storeout", item.IssueNumber, model.StoreOutStageIssue, "issued", model.StatusApproved, model.StatusApproved)
	}

	log.Info("Store-outs issued", zap.Int("lines", len(patches)))
	return c.JSON(http.StatusOK, echo.Map{"updated": len(patches)})
}

// StoreOutReceiptItem is one line acknowledged by the requesting department.
type StoreOutReceiptItem struct {
	IssueNumber string `json:"issue_number" validate:"required"`
	RowIndex    int    `json:"row_index" validate:"required"`
}

// StoreOutReceiptRequest defines the structure for receipt acknowledgements
type StoreOutReceiptRequest struct {
	Items []StoreOutReceiptItem `json:"items" validate:"required,min=1,dive"`
}

// AcknowledgeStoreOuts completes the receipt stage for issued lines.
func AcknowledgeStoreOuts(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordWorkflowOperation("storeout", "receipt")

	var req StoreOutReceiptRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	rows, err := store.Get().Rows(ctx, model.SheetStoreOut)
	if err != nil {
		return gatewayError(c, err)
	}

	byRow := make(map[int]model.StoreOut)
	for _, out := range model.ParseStoreOuts(rows) {
		byRow[out.RowIndex] = out
	}

	ts := timestampNow()
	patches := make([]map[string]interface{}, 0, len(req.Items))
	for _, item := range req.Items {
		out, ok := byRow[item.RowIndex]
		if !ok || out.IssueNumber != item.IssueNumber {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown store-out line " + item.IssueNumber})
		}
		if out.Stage(model.StoreOutStageReceipt).State() != workflow.StagePending {
			return c.JSON(http.StatusConflict, echo.Map{"error": "store-out line " + item.IssueNumber + " is not awaiting receipt"})
		}
		patches = append(patches, out.StagePatch(model.StoreOutStageReceipt, ts, nil))
	}

	if err := store.Get().Submit(ctx, sheets.ActionUpdate, model.SheetStoreOut, patches); err != nil {
		return gatewayError(c, err)
	}

	for _, item := range req.Items {
		audit(c, "storeout", item.IssueNumber, model.StoreOutStageReceipt, "received", "", "")
	}

	log.Info("Store-out receipts acknowledged", zap.Int("lines", len(patches)))
	return c.JSON(http.StatusOK, echo.Map{"updated": len(patches)})
}
