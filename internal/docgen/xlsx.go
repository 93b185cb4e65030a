package docgen

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

const poSheet = "Purchase Order"

// RenderXLSX renders the document into an xlsx workbook and returns the
// serialized bytes, ready for upload through the gateway.
func RenderXLSX(doc PODocument) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(poSheet)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	f.SetCellValue(poSheet, "A1", "PURCHASE ORDER")
	f.SetCellValue(poSheet, "A2", "PO Number")
	f.SetCellValue(poSheet, "B2", doc.PONumber)
	f.SetCellValue(poSheet, "A3", "Indent Number")
	f.SetCellValue(poSheet, "B3", doc.IndentNumber)
	f.SetCellValue(poSheet, "A4", "Date")
	f.SetCellValue(poSheet, "B4", doc.Date)

	f.SetCellValue(poSheet, "A6", "From")
	f.SetCellValue(poSheet, "B6", doc.Company.Name)
	f.SetCellValue(poSheet, "B7", doc.Company.Address)
	f.SetCellValue(poSheet, "A8", "To")
	f.SetCellValue(poSheet, "B8", doc.Vendor.Name)
	f.SetCellValue(poSheet, "B9", doc.Vendor.Address)

	// Line item table
	headerRow := 11
	f.SetCellValue(poSheet, cell("A", headerRow), "Product")
	f.SetCellValue(poSheet, cell("B", headerRow), "Quantity")
	f.SetCellValue(poSheet, cell("C", headerRow), "Unit")
	f.SetCellValue(poSheet, cell("D", headerRow), "Rate")
	f.SetCellValue(poSheet, cell("E", headerRow), "Amount")

	row := headerRow + 1
	for _, line := range doc.Lines {
		f.SetCellValue(poSheet, cell("A", row), line.Product)
		f.SetCellValue(poSheet, cell("B", row), line.Quantity.String())
		f.SetCellValue(poSheet, cell("C", row), line.Unit)
		f.SetCellValue(poSheet, cell("D", row), line.Rate.String())
		f.SetCellValue(poSheet, cell("E", row), line.Amount.String())
		row++
	}

	row++
	f.SetCellValue(poSheet, cell("D", row), "Subtotal")
	f.SetCellValue(poSheet, cell("E", row), doc.Subtotal.String())
	row++
	f.SetCellValue(poSheet, cell("D", row), fmt.Sprintf("Tax (%s%%)", doc.TaxRate.String()))
	f.SetCellValue(poSheet, cell("E", row), doc.TaxAmount.String())
	row++
	f.SetCellValue(poSheet, cell("D", row), "Grand Total")
	f.SetCellValue(poSheet, cell("E", row), doc.GrandTotal.String())

	row += 2
	f.SetCellValue(poSheet, cell("A", row), "Terms")
	for _, term := range doc.Terms {
		row++
		f.SetCellValue(poSheet, cell("A", row), term)
	}
	row += 2
	f.SetCellValue(poSheet, cell("A", row), "Prepared By")
	f.SetCellValue(poSheet, cell("B", row), doc.PreparedBy)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func cell(col string, row int) string {
	return col + fmt.Sprint(row)
}
