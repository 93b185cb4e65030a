package model

import (
	"procurement-service/internal/sheets"
	"procurement-service/internal/workflow"

	"github.com/shopspring/decimal"
)

// PurchaseOrder is one line of a generated purchase order. Lines share a PO
// number and reference the indent they were raised for.
type PurchaseOrder struct {
	PONumber     string          `json:"po_number"`
	IndentNumber string          `json:"indent_number"`
	RowIndex     int             `json:"row_index"`
	Timestamp    string          `json:"timestamp"`
	VendorName   string          `json:"vendor_name"`
	Product      string          `json:"product"`
	Quantity     decimal.Decimal `json:"quantity"`
	Unit         string          `json:"unit"`
	Rate         decimal.Decimal `json:"rate"`
	Amount       decimal.Decimal `json:"amount"`
	Status       string          `json:"status"`
	DocumentURL  string          `json:"document_url"`
	PreparedBy   string          `json:"prepared_by"`

	workflow.StageTrack `json:"stages"`
}

// ParsePurchaseOrder builds a PurchaseOrder from a normalized sheet row.
func ParsePurchaseOrder(row sheets.Row) PurchaseOrder {
	return PurchaseOrder{
		PONumber:     row.Get("poNumber", "po number", "po no"),
		IndentNumber: row.Get("indentNumber", "indent number", "indent no"),
		RowIndex:     parseRowIndex(row),
		Timestamp:    row.Get("timestamp", "created at"),
		VendorName:   row.Get("vendorName", "vendor name", "vendor"),
		Product:      row.Get("product", "productName", "item"),
		Quantity:     parseDecimal(row.Get("quantity", "qty")),
		Unit:         row.Get("unit", "uom"),
		Rate:         parseDecimal(row.Get("rate", "price")),
		Amount:       parseDecimal(row.Get("amount", "total")),
		Status:       row.Get("status"),
		DocumentURL:  row.Get("documentUrl", "document url", "pdf url"),
		PreparedBy:   row.Get("preparedBy", "prepared by"),
		StageTrack:   stageTrackFromRow(row),
	}
}

// ParsePurchaseOrders parses a fetched sheet into PO records in fetch order.
func ParsePurchaseOrders(rows []sheets.Row) []PurchaseOrder {
	orders := make([]PurchaseOrder, 0, len(rows))
	for _, row := range rows {
		orders = append(orders, ParsePurchaseOrder(row))
	}
	return orders
}

// InsertRow builds the full insert payload for a new PO line.
func (p PurchaseOrder) InsertRow() map[string]interface{} {
	return map[string]interface{}{
		"poNumber":     p.PONumber,
		"indentNumber": p.IndentNumber,
		"timestamp":    p.Timestamp,
		"vendorName":   p.VendorName,
		"product":      p.Product,
		"quantity":     p.Quantity.String(),
		"unit":         p.Unit,
		"rate":         p.Rate.String(),
		"amount":       p.Amount.String(),
		"status":       StatusPending,
		"documentUrl":  p.DocumentURL,
		"preparedBy":   p.PreparedBy,
		"planned1":     p.Timestamp,
	}
}

// StatusPatch builds the partial update that records the approval decision.
func (p PurchaseOrder) StatusPatch(status, actual string) map[string]interface{} {
	patch := map[string]interface{}{
		"poNumber": p.PONumber,
		"rowIndex": p.RowIndex,
		"status":   status,
	}
	stagePatch(patch, 1, actual)
	return patch
}

// DeleteRow builds the delete payload for this PO line. Deleting history rows
// is the only delete path in the whole workflow.
func (p PurchaseOrder) DeleteRow() map[string]interface{} {
	return map[string]interface{}{
		"poNumber": p.PONumber,
		"rowIndex": p.RowIndex,
	}
}
