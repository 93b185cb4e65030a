package model

import (
	"procurement-service/internal/sheets"

	"github.com/shopspring/decimal"
)

// Quotation is one vendor quote captured during three-party rate comparison.
// Quotes are grouped by the indent number they were collected for.
type Quotation struct {
	QuotationNumber string          `json:"quotation_number"`
	IndentNumber    string          `json:"indent_number"`
	RowIndex        int             `json:"row_index"`
	Timestamp       string          `json:"timestamp"`
	VendorName      string          `json:"vendor_name"`
	Product         string          `json:"product"`
	Rate            decimal.Decimal `json:"rate"`
	DeliveryTerms   string          `json:"delivery_terms"`
	Selected        bool            `json:"selected"`
	AttachmentURL   string          `json:"attachment_url"`
}

// ParseQuotation builds a Quotation from a normalized sheet row.
func ParseQuotation(row sheets.Row) Quotation {
	return Quotation{
		QuotationNumber: row.Get("quotationNumber", "quotation number", "quotation no"),
		IndentNumber:    row.Get("indentNumber", "indent number", "indent no"),
		RowIndex:        parseRowIndex(row),
		Timestamp:       row.Get("timestamp", "created at"),
		VendorName:      row.Get("vendorName", "vendor name", "vendor"),
		Product:         row.Get("product", "productName", "item"),
		Rate:            parseDecimal(row.Get("rate", "price")),
		DeliveryTerms:   row.Get("deliveryTerms", "delivery terms"),
		Selected:        row.Get("selected") == "true",
		AttachmentURL:   row.Get("attachmentUrl", "attachment", "file url"),
	}
}

// ParseQuotations parses a fetched sheet into quotations in fetch order.
func ParseQuotations(rows []sheets.Row) []Quotation {
	quotes := make([]Quotation, 0, len(rows))
	for _, row := range rows {
		quotes = append(quotes, ParseQuotation(row))
	}
	return quotes
}

// InsertRow builds the full insert payload for a new quotation.
func (q Quotation) InsertRow() map[string]interface{} {
	return map[string]interface{}{
		"quotationNumber": q.QuotationNumber,
		"indentNumber":    q.IndentNumber,
		"timestamp":       q.Timestamp,
		"vendorName":      q.VendorName,
		"product":         q.Product,
		"rate":            q.Rate.String(),
		"deliveryTerms":   q.DeliveryTerms,
		"selected":        "false",
		"attachmentUrl":   q.AttachmentURL,
	}
}

// SelectPatch builds the partial update that marks this quote as the winner.
func (q Quotation) SelectPatch() map[string]interface{} {
	return map[string]interface{}{
		"quotationNumber": q.QuotationNumber,
		"rowIndex":        q.RowIndex,
		"selected":        "true",
	}
}
