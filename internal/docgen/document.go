package docgen

import (
	"github.com/shopspring/decimal"

	"procurement-service/internal/model"
)

// Party is one addressed party on a purchase order document.
type Party struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	TaxID   string `json:"tax_id"`
}

// Line is one priced line item on the document.
type Line struct {
	Product  string          `json:"product"`
	Quantity decimal.Decimal `json:"quantity"`
	Unit     string          `json:"unit"`
	Rate     decimal.Decimal `json:"rate"`
	Amount   decimal.Decimal `json:"amount"`
}

// PODocument is the structured description of a purchase order handed to the
// rendering layer. Visual layout is the renderer's concern; this type owns
// the content and the totals math.
type PODocument struct {
	PONumber     string          `json:"po_number"`
	IndentNumber string          `json:"indent_number"`
	Date         string          `json:"date"`
	Company      Party           `json:"company"`
	Vendor       Party           `json:"vendor"`
	Lines        []Line          `json:"lines"`
	Subtotal     decimal.Decimal `json:"subtotal"`
	TaxRate      decimal.Decimal `json:"tax_rate"` // percent
	TaxAmount    decimal.Decimal `json:"tax_amount"`
	GrandTotal   decimal.Decimal `json:"grand_total"`
	Terms        []string        `json:"terms"`
	PreparedBy   string          `json:"prepared_by"`
}

// BuildPODocument assembles a document from the PO lines of one order.
// Line amounts are recomputed from quantity and rate; the grand total is
// subtotal plus tax rounded to two places.
func BuildPODocument(orders []model.PurchaseOrder, company, vendor Party, taxRate decimal.Decimal, terms []string) PODocument {
	doc := PODocument{
		Company: company,
		Vendor:  vendor,
		TaxRate: taxRate,
		Terms:   terms,
	}
	if len(orders) > 0 {
		doc.PONumber = orders[0].PONumber
		doc.IndentNumber = orders[0].IndentNumber
		doc.Date = orders[0].Timestamp
		doc.PreparedBy = orders[0].PreparedBy
	}

	subtotal := decimal.Zero
	for _, o := range orders {
		amount := o.Quantity.Mul(o.Rate).Round(2)
		doc.Lines = append(doc.Lines, Line{
			Product:  o.Product,
			Quantity: o.Quantity,
			Unit:     o.Unit,
			Rate:     o.Rate,
			Amount:   amount,
		})
		subtotal = subtotal.Add(amount)
	}

	doc.Subtotal = subtotal
	doc.TaxAmount = subtotal.Mul(taxRate).Div(decimal.NewFromInt(100)).Round(2)
	doc.GrandTotal = doc.Subtotal.Add(doc.TaxAmount)
	return doc
}
