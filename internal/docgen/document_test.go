package docgen

import (
	"testing"

	"github.com/shopspring/decimal"

	"procurement-service/internal/model"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestBuildPODocument_Totals(t *testing.T) {
	orders := []model.PurchaseOrder{
		{
			PONumber:     "PO-007",
			IndentNumber: "SI-0042",
			Timestamp:    "2024-03-01 10:30:00",
			Product:      "Copper Wire",
			Quantity:     dec("12.5"),
			Unit:         "kg",
			Rate:         dec("84.40"),
			PreparedBy:   "purchase@example.com",
		},
		{
			PONumber: "PO-007",
			Product:  "Solder Flux",
			Quantity: dec("3"),
			Unit:     "pcs",
			Rate:     dec("19.99"),
		},
	}

	doc := BuildPODocument(orders, Party{Name: "Acme"}, Party{Name: "Wireco"}, dec("18"), []string{"Payment within 30 days"})

	if doc.PONumber != "PO-007" || doc.IndentNumber != "SI-0042" {
		t.Fatalf("header = %q / %q", doc.PONumber, doc.IndentNumber)
	}
	if doc.PreparedBy != "purchase@example.com" {
		t.Fatalf("preparedBy = %q", doc.PreparedBy)
	}
	if len(doc.Lines) != 2 {
		t.Fatalf("got %d lines", len(doc.Lines))
	}

	// 12.5 * 84.40 = 1055.00, 3 * 19.99 = 59.97
	if !doc.Lines[0].Amount.Equal(dec("1055")) {
		t.Errorf("line 0 amount = %s", doc.Lines[0].Amount)
	}
	if !doc.Lines[1].Amount.Equal(dec("59.97")) {
		t.Errorf("line 1 amount = %s", doc.Lines[1].Amount)
	}
	if !doc.Subtotal.Equal(dec("1114.97")) {
		t.Errorf("subtotal = %s", doc.Subtotal)
	}
	// 18% of 1114.97 = 200.6946 -> 200.69
	if !doc.TaxAmount.Equal(dec("200.69")) {
		t.Errorf("tax = %s", doc.TaxAmount)
	}
	if !doc.GrandTotal.Equal(dec("1315.66")) {
		t.Errorf("grand total = %s", doc.GrandTotal)
	}
}

func TestBuildPODocument_LineAmountRecomputed(t *testing.T) {
	// A stale amount on the source row never survives into the document.
	orders := []model.PurchaseOrder{{
		Product:  "Bolts",
		Quantity: dec("10"),
		Rate:     dec("2.50"),
		Amount:   dec("999"),
	}}

	doc := BuildPODocument(orders, Party{}, Party{}, decimal.Zero, nil)
	if !doc.Lines[0].Amount.Equal(dec("25")) {
		t.Fatalf("amount = %s, want recomputed 25", doc.Lines[0].Amount)
	}
	if !doc.GrandTotal.Equal(dec("25")) {
		t.Fatalf("grand total = %s", doc.GrandTotal)
	}
}

func TestBuildPODocument_Empty(t *testing.T) {
	doc := BuildPODocument(nil, Party{}, Party{}, dec("18"), nil)
	if len(doc.Lines) != 0 {
		t.Fatalf("got %d lines", len(doc.Lines))
	}
	if !doc.Subtotal.Equal(decimal.Zero) || !doc.GrandTotal.Equal(decimal.Zero) {
		t.Fatalf("totals = %s / %s", doc.Subtotal, doc.GrandTotal)
	}
}

func TestRenderXLSX_ProducesWorkbook(t *testing.T) {
	doc := BuildPODocument([]model.PurchaseOrder{{
		PONumber: "PO-001",
		Product:  "Cement",
		Quantity: dec("40"),
		Unit:     "bags",
		Rate:     dec("7.25"),
	}}, Party{Name: "Acme"}, Party{Name: "Buildmat"}, dec("5"), []string{"FOB destination"})

	data, err := RenderXLSX(doc)
	if err != nil {
		t.Fatalf("RenderXLSX: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("empty workbook")
	}
	// xlsx files are zip archives.
	if data[0] != 'P' || data[1] != 'K' {
		t.Fatalf("not a zip archive: % x", data[:4])
	}
}
