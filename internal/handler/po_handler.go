package handler

import (
	"net/http"
	"strconv"

	"procurement-service/internal/docgen"
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

// gateway is the sheet client used for uploads and master options, set at startup.
var gateway *sheets.Client

// Init wires the handlers to the gateway client for file uploads.
func Init(client *sheets.Client) {
	gateway = client
}

// PartyRequest carries one addressed party of the PO document.
type PartyRequest struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	TaxID   string `json:"tax_id"`
}

// GeneratePORequest defines the structure for PO generation requests
type GeneratePORequest struct {
	IndentNumber string       `json:"indent_number" validate:"required"`
	Company      PartyRequest `json:"company"`
	Vendor       PartyRequest `json:"vendor"`
	TaxRate      string       `json:"tax_rate"`
	Terms        []string     `json:"terms"`
	// EmailTo, when set, makes the gateway also mail the generated document.
	EmailTo string `json:"email_to" validate:"omitempty,email"`
}

func toParty(p PartyRequest) docgen.Party {
	return docgen.Party{Name: p.Name, Address: p.Address, Phone: p.Phone, Email: p.Email, TaxID: p.TaxID}
}

// GeneratePurchaseOrder raises a PO for every line of an indent awaiting PO
// generation, renders the order document, uploads it through the gateway and
// completes the indent's PO-generation stage.
func GeneratePurchaseOrder(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordWorkflowOperation("po", "generate")

	var req GeneratePORequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	taxRate := decimal.Zero
	if req.TaxRate != "" {
		var err error
		taxRate, err = decimal.NewFromString(req.TaxRate)
		if err != nil || taxRate.IsNegative() {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid tax rate"})
		}
	}

	ctx := c.Request().Context()
	indentRows, err := store.Get().Rows(ctx, model.SheetIndent)
	if err != nil {
		return gatewayError(c, err)
	}

	var lines []model.Indent
	for _, ind := range model.ParseIndents(indentRows) {
		if ind.IndentNumber == req.IndentNumber &&
			ind.Stage(model.IndentStagePOGeneration).State() == workflow.StagePending &&
			ind.VendorType != model.VendorTypeReject {
			lines = append(lines, ind)
		}
	}
	if len(lines) == 0 {
		return c.JSON(http.StatusConflict, echo.Map{"error": "no indent lines awaiting PO generation"})
	}

	poRows, err := store.Get().Rows(ctx, model.SheetPurchaseOrder)
	if err != nil {
		return gatewayError(c, err)
	}
	existing := make([]string, 0, len(poRows))
	for _, po := range model.ParsePurchaseOrders(poRows) {
		existing = append(existing, po.PONumber)
	}
	poNumber := model.POSequence.Next(existing)

	userName, _ := c.Get("user_name").(string)
	ts := timestampNow()

	orders := make([]model.PurchaseOrder, 0, len(lines))
	for _, ind := range lines {
		orders = append(orders, model.PurchaseOrder{
			PONumber:     poNumber,
			IndentNumber: ind.IndentNumber,
			Timestamp:    ts,
			VendorName:   ind.VendorName,
			Product:      ind.Product,
			Quantity:     ind.Quantity,
			Unit:         ind.Unit,
			Rate:         ind.Rate,
			Amount:       ind.Quantity.Mul(ind.Rate).Round(2),
			PreparedBy:   userName,
		})
	}

	vendor := toParty(req.Vendor)
	if vendor.Name == "" {
		vendor.Name = lines[0].VendorName
	}
	doc := docgen.BuildPODocument(orders, toParty(req.Company), vendor, taxRate, req.Terms)

	content, err := docgen.RenderXLSX(doc)
	if err != nil {
		log.Error("Failed to render PO document", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to render document"})
	}

	docURL, err := gateway.Upload(ctx, sheets.UploadRequest{
		FileName: poNumber + ".xlsx",
		MimeType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		Content:  content,
		Email:    req.EmailTo,
	})
	if err != nil {
		return gatewayError(c, err)
	}

	inserts := make([]map[string]interface{}, 0, len(orders))
	for _, po := range orders {
		po.DocumentURL = docURL
		inserts = append(inserts, po.InsertRow())
	}
	if err := store.Get().Submit(ctx, sheets.ActionInsert, model.SheetPurchaseOrder, inserts); err != nil {
		return gatewayError(c, err)
	}

	patches := make([]map[string]interface{}, 0, len(lines))
	for _, ind := range lines {
		patches = append(patches, ind.ApprovalPatch(model.IndentStagePOGeneration, ts, map[string]interface{}{
			"poNumber": poNumber,
		}))
	}
	if err := store.Get().Submit(ctx, sheets.ActionUpdate, model.SheetIndent, patches); err != nil {
		return gatewayError(c, err)
	}

	audit(c, "po", poNumber, 0, "created", "", model.StatusPending)
	log.Info("Purchase order generated",
		zap.String("po_number", poNumber),
		zap.String("indent_number", req.IndentNumber),
		zap.Int("lines", len(orders)),
		zap.String("document_url", docURL))

	return c.JSON(http.StatusCreated, echo.Map{
		"po_number":    poNumber,
		"document_url": docURL,
		"lines":        len(orders),
		"grand_total":  doc.GrandTotal.String(),
	})
}

// PurchaseOrderView serves the PO approval screen: the pending/history
// partition of the PO collection, grouped by PO number when grouped=true.
func PurchaseOrderView(c echo.Context) error {
	rows, err := store.Get().Rows(c.Request().Context(), model.SheetPurchaseOrder)
	if err != nil {
		return gatewayError(c, err)
	}
	orders := model.ParsePurchaseOrders(rows)

	var constraint func(model.PurchaseOrder) bool
	if status := c.QueryParam("status"); status != "" {
		constraint = func(p model.PurchaseOrder) bool { return p.Status == status }
	}

	view := workflow.SplitStage(orders, 1, constraint)
	prometheus.UpdateStagePending("po", "approval", float64(len(view.Pending)))

	if c.QueryParam("grouped") == "true" {
		key := func(p model.PurchaseOrder) string { return p.PONumber }
		return c.JSON(http.StatusOK, echo.Map{
			"pending": workflow.GroupByKey(view.Pending, key),
			"history": workflow.GroupByKey(view.History, key),
		})
	}
	return c.JSON(http.StatusOK, view)
}

// PODecisionRequest defines the structure for PO approval requests
type PODecisionRequest struct {
	PONumber string `json:"po_number" validate:"required"`
	Status   string `json:"status" validate:"required,oneof=Approved Rejected"`
}

// DecidePurchaseOrder records the approval decision on every line of a PO and,
// on approval, completes the PO-approval stage of the underlying indent.
func DecidePurchaseOrder(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordWorkflowOperation("po", "decide")

	var req PODecisionRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	rows, err := store.Get().Rows(ctx, model.SheetPurchaseOrder)
	if err != nil {
		return gatewayError(c, err)
	}

	ts := timestampNow()
	var indentNumber string
	patches := []map[string]interface{}{}
	for _, po := range model.ParsePurchaseOrders(rows) {
		if po.PONumber != req.PONumber {
			continue
		}
		if po.Stage(1).State() != workflow.StagePending {
			return c.JSON(http.StatusConflict, echo.Map{"error": "purchase order already decided"})
		}
		indentNumber = po.IndentNumber
		patches = append(patches, po.StatusPatch(req.Status, ts))
	}
	if len(patches) == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "purchase order not found"})
	}

	if err := store.Get().Submit(ctx, sheets.ActionUpdate, model.SheetPurchaseOrder, patches); err != nil {
		return gatewayError(c, err)
	}

	// On approval the indent moves past its PO-approval stage as well.
	if req.Status == model.StatusApproved && indentNumber != "" {
		indentRows, err := store.Get().Rows(ctx, model.SheetIndent)
		if err != nil {
			return gatewayError(c, err)
		}
		indentPatches := []map[string]interface{}{}
		for _, ind := range model.ParseIndents(indentRows) {
			if ind.IndentNumber == indentNumber &&
				ind.Stage(model.IndentStagePOApproval).State() == workflow.StagePending {
				indentPatches = append(indentPatches, ind.ApprovalPatch(model.IndentStagePOApproval, ts, nil))
			}
		}
		if len(indentPatches) > 0 {
			if err := store.Get().Submit(ctx, sheets.ActionUpdate, model.SheetIndent, indentPatches); err != nil {
				return gatewayError(c, err)
			}
		}
	}

	action := "approved"
	if req.Status == model.StatusRejected {
		action = "rejected"
	}
	audit(c, "po", req.PONumber, 1, action, model.StatusPending, req.Status)

	log.Info("Purchase order decided",
		zap.String("po_number", req.PONumber),
		zap.String("status", req.Status),
		zap.Int("lines", len(patches)))
	return c.JSON(http.StatusOK, echo.Map{"updated": len(patches)})
}

// DeletePurchaseOrder removes one decided PO line, the only delete path in
// the whole workflow. Pending lines cannot be deleted.
func DeletePurchaseOrder(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordWorkflowOperation("po", "delete")

	poNumber := c.Param("poNumber")
	rowIndex, err := strconv.Atoi(c.QueryParam("row_index"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "row_index query parameter is required"})
	}

	ctx := c.Request().Context()
	rows, err := store.Get().Rows(ctx, model.SheetPurchaseOrder)
	if err != nil {
		return gatewayError(c, err)
	}

	var target *model.PurchaseOrder
	for _, po := range model.ParsePurchaseOrders(rows) {
		if po.PONumber == poNumber && po.RowIndex == rowIndex {
			target = &po
			break
		}
	}
	if target == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "purchase order line not found"})
	}
	if target.Stage(1).State() != workflow.StageDone {
		return c.JSON(http.StatusConflict, echo.Map{"error": "only decided purchase orders can be deleted"})
	}

	if err := store.Get().Submit(ctx, sheets.ActionDelete, model.SheetPurchaseOrder, []map[string]interface{}{target.DeleteRow()}); err != nil {
		return gatewayError(c, err)
	}

	audit(c, "po", poNumber, 0, "deleted", target.Status, "")
	log.Info("Purchase order line deleted",
		zap.String("po_number", poNumber),
		zap.Int("row_index", rowIndex))
	return c.JSON(http.StatusOK, echo.Map{"message": "Purchase order line deleted successfully"})
}
