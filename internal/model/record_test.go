package model

import (
	"testing"

	"procurement-service/internal/sheets"
	"procurement-service/internal/workflow"
)

func TestParseIndent_StageTrackAndNumbers(t *testing.T) {
	row := sheets.NewRow(map[string]interface{}{
		"Indent Number": "SI-0042",
		"rowIndex":      7,
		"Product":       "Cement",
		"Quantity":      "1,250.5",
		"Rate":          nil,
		"Vendor Type":   "Three Party",
		"Planned 1":     "2024-03-01 10:00:00",
		"Actual 1":      "2024-03-01 11:00:00",
		"planned_2":     "2024-03-02 09:00:00",
		"actual2":       "",
	})

	ind := ParseIndent(row)
	if ind.IndentNumber != "SI-0042" {
		t.Fatalf("indent number = %q", ind.IndentNumber)
	}
	if ind.RowIndex != 7 {
		t.Fatalf("rowIndex = %d", ind.RowIndex)
	}
	if ind.Quantity.String() != "1250.5" {
		t.Errorf("quantity = %s, separators not stripped", ind.Quantity)
	}
	if !ind.Rate.IsZero() {
		t.Errorf("blank rate = %s, want zero", ind.Rate)
	}
	if ind.VendorType != VendorTypeThreeParty {
		t.Errorf("vendorType = %q", ind.VendorType)
	}
	if got := ind.Stage(1).State(); got != workflow.StageDone {
		t.Errorf("stage 1 = %v, want done", got)
	}
	if got := ind.Stage(2).State(); got != workflow.StagePending {
		t.Errorf("stage 2 = %v, want pending", got)
	}
	if got := ind.Stage(3).State(); got != workflow.StageNotReached {
		t.Errorf("stage 3 = %v, want not reached", got)
	}
}

func TestIndentInsertRow_StampsApprovalStage(t *testing.T) {
	ind := Indent{
		IndentNumber: "SI-0001",
		Timestamp:    "2024-03-01 10:00:00",
		Product:      "Bolts",
		VendorType:   "Regular", // caller input is ignored, new lines start Pending
	}
	payload := ind.InsertRow()

	if payload["vendorType"] != VendorTypePending {
		t.Errorf("vendorType = %v", payload["vendorType"])
	}
	if payload["planned1"] != ind.Timestamp {
		t.Errorf("planned1 = %v, want creation timestamp", payload["planned1"])
	}
	if _, ok := payload["actual1"]; ok {
		t.Error("insert payload must not pre-complete stage 1")
	}
}

func TestIndentApprovalPatch(t *testing.T) {
	ind := Indent{IndentNumber: "SI-0042", RowIndex: 7}
	patch := ind.ApprovalPatch(1, "2024-03-01 12:00:00", map[string]interface{}{
		"vendorType": VendorTypeRegular,
	})

	if patch["indentNumber"] != "SI-0042" || patch["rowIndex"] != 7 {
		t.Fatalf("addressing fields = %v / %v", patch["indentNumber"], patch["rowIndex"])
	}
	if patch["actual1"] != "2024-03-01 12:00:00" {
		t.Errorf("actual1 = %v", patch["actual1"])
	}
	if patch["vendorType"] != VendorTypeRegular {
		t.Errorf("vendorType = %v", patch["vendorType"])
	}
}

func TestParseDecimal(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", "0"},
		{"  ", "0"},
		{"0", "0"},
		{"1,234.56", "1234.56"},
		{"42", "42"},
		{"not a number", "0"},
	}
	for _, tc := range cases {
		if got := parseDecimal(tc.in).String(); got != tc.want {
			t.Errorf("parseDecimal(%q) = %s, want %s", tc.in, got, tc.want)
		}
	}
}
