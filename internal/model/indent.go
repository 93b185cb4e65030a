package model

import (
	"procurement-service/internal/sheets"
	"procurement-service/internal/workflow"

	"github.com/shopspring/decimal"
)

// Indent is one line of an internal purchase request. Multiple lines share an
// indent number and are approved as a batch.
type Indent struct {
	IndentNumber  string          `json:"indent_number"`
	RowIndex      int             `json:"row_index"`
	Timestamp     string          `json:"timestamp"`
	Department    string          `json:"department"`
	Product       string          `json:"product"`
	Quantity      decimal.Decimal `json:"quantity"`
	Unit          string          `json:"unit"`
	RequestedBy   string          `json:"requested_by"`
	VendorType    string          `json:"vendor_type"`
	VendorName    string          `json:"vendor_name"`
	Rate          decimal.Decimal `json:"rate"`
	Amount        decimal.Decimal `json:"amount"`
	PONumber      string          `json:"po_number"`
	ReceivedQty   decimal.Decimal `json:"received_qty"`
	AttachmentURL string          `json:"attachment_url"`
	Remarks       string          `json:"remarks"`

	workflow.StageTrack `json:"stages"`
}

// ParseIndent builds an Indent from a normalized sheet row.
func ParseIndent(row sheets.Row) Indent {
	return Indent{
		IndentNumber:  row.Get("indentNumber", "indent number", "indent no"),
		RowIndex:      parseRowIndex(row),
		Timestamp:     row.Get("timestamp", "created at"),
		Department:    row.Get("department", "dept"),
		Product:       row.Get("product", "productName", "item"),
		Quantity:      parseDecimal(row.Get("quantity", "qty")),
		Unit:          row.Get("unit", "uom"),
		RequestedBy:   row.Get("requestedBy", "requested by", "requester"),
		VendorType:    row.Get("vendorType", "vendor type"),
		VendorName:    row.Get("vendorName", "vendor name", "vendor"),
		Rate:          parseDecimal(row.Get("rate", "price")),
		Amount:        parseDecimal(row.Get("amount", "total")),
		PONumber:      row.Get("poNumber", "po number", "po no"),
		ReceivedQty:   parseDecimal(row.Get("receivedQty", "received qty")),
		AttachmentURL: row.Get("attachmentUrl", "attachment", "file url"),
		Remarks:       row.Get("remarks", "notes"),
		StageTrack:    stageTrackFromRow(row),
	}
}

// ParseIndents parses a fetched sheet into indent records in fetch order.
func ParseIndents(rows []sheets.Row) []Indent {
	indents := make([]Indent, 0, len(rows))
	for _, row := range rows {
		indents = append(indents, ParseIndent(row))
	}
	return indents
}

// InsertRow builds the full insert payload for a new indent line. The
// planned1 timestamp is stamped at creation so the line arrives at the
// approval stage immediately; later planned columns belong to the external
// automation layer.
func (i Indent) InsertRow() map[string]interface{} {
	return map[string]interface{}{
		"indentNumber":  i.IndentNumber,
		"timestamp":     i.Timestamp,
		"department":    i.Department,
		"product":       i.Product,
		"quantity":      i.Quantity.String(),
		"unit":          i.Unit,
		"requestedBy":   i.RequestedBy,
		"vendorType":    VendorTypePending,
		"attachmentUrl": i.AttachmentURL,
		"remarks":       i.Remarks,
		"planned1":      i.Timestamp,
	}
}

// ApprovalPatch builds the partial update that completes stage n for this
// line, optionally extended with caller-supplied payload fields.
func (i Indent) ApprovalPatch(n int, actual string, fields map[string]interface{}) map[string]interface{} {
	patch := map[string]interface{}{
		"indentNumber": i.IndentNumber,
		"rowIndex":     i.RowIndex,
	}
	stagePatch(patch, n, actual)
	for k, v := range fields {
		patch[k] = v
	}
	return patch
}
