package model

import (
	"procurement-service/internal/sheets"
	"procurement-service/internal/workflow"

	"github.com/shopspring/decimal"
)

// StoreOut is one line of an internal stock issuance request, the parallel
// workflow to purchase indents. Lines share an issue number.
type StoreOut struct {
	IssueNumber string          `json:"issue_number"`
	RowIndex    int             `json:"row_index"`
	Timestamp   string          `json:"timestamp"`
	Department  string          `json:"department"`
	Product     string          `json:"product"`
	Quantity    decimal.Decimal `json:"quantity"`
	Unit        string          `json:"unit"`
	RequestedBy string          `json:"requested_by"`
	Status      string          `json:"status"`
	IssuedQty   decimal.Decimal `json:"issued_qty"`
	IssuedBy    string          `json:"issued_by"`
	Remarks     string          `json:"remarks"`

	workflow.StageTrack `json:"stages"`
}

// ParseStoreOut builds a StoreOut from a normalized sheet row.
func ParseStoreOut(row sheets.Row) StoreOut {
	return StoreOut{
		IssueNumber: row.Get("issueNumber", "issue number", "issue no"),
		RowIndex:    parseRowIndex(row),
		Timestamp:   row.Get("timestamp", "created at"),
		Department:  row.Get("department", "dept"),
		Product:     row.Get("product", "productName", "item"),
		Quantity:    parseDecimal(row.Get("quantity", "qty")),
		Unit:        row.Get("unit", "uom"),
		RequestedBy: row.Get("requestedBy", "requested by", "requester"),
		Status:      row.Get("status"),
		IssuedQty:   parseDecimal(row.Get("issuedQty", "issued qty")),
		IssuedBy:    row.Get("issuedBy", "issued by"),
		Remarks:     row.Get("remarks", "notes"),
		StageTrack:  stageTrackFromRow(row),
	}
}

// ParseStoreOuts parses a fetched sheet into store-out records in fetch order.
func ParseStoreOuts(rows []sheets.Row) []StoreOut {
	outs := make([]StoreOut, 0, len(rows))
	for _, row := range rows {
		outs = append(outs, ParseStoreOut(row))
	}
	return outs
}

// InsertRow builds the full insert payload for a new store-out line.
func (s StoreOut) InsertRow() map[string]interface{} {
	return map[string]interface{}{
		"issueNumber": s.IssueNumber,
		"timestamp":   s.Timestamp,
		"department":  s.Department,
		"product":     s.Product,
		"quantity":    s.Quantity.String(),
		"unit":        s.Unit,
		"requestedBy": s.RequestedBy,
		"status":      StatusPending,
		"remarks":     s.Remarks,
		"planned1":    s.Timestamp,
	}
}

// StagePatch builds the partial update that completes stage n for this line.
func (s StoreOut) StagePatch(n int, actual string, fields map[string]interface{}) map[string]interface{} {
	patch := map[string]interface{}{
		"issueNumber": s.IssueNumber,
		"rowIndex":    s.RowIndex,
	}
	stagePatch(patch, n, actual)
	for k, v := range fields {
		patch[k] = v
	}
	return patch
}
