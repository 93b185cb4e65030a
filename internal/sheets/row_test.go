package sheets

import "testing"

func TestNormalizeHeader(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Planned 1", "planned1"},
		{"planned_1", "planned1"},
		{"PLANNED-1", "planned1"},
		{"Indent Number", "indentnumber"},
		{"indentNumber", "indentnumber"},
		{"  Vendor  Type ", "vendortype"},
	}
	for _, tt := range tests {
		if got := NormalizeHeader(tt.in); got != tt.want {
			t.Errorf("NormalizeHeader(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNewRow_NormalizesEmptyMarkers(t *testing.T) {
	row := NewRow(map[string]interface{}{
		"Actual 1":  nil,
		"Actual 2":  "null",
		"Actual 3":  "undefined",
		"Actual 4":  "",
		"Actual 5":  "2024-01-02",
		"Quantity":  float64(0),
		"Amount":    float64(12.5),
		"Is Active": true,
	})

	for _, key := range []string{"actual1", "actual2", "actual3", "actual4"} {
		if row[key] != "" {
			t.Errorf("%s = %q, want empty", key, row[key])
		}
	}
	if row["actual5"] != "2024-01-02" {
		t.Errorf("actual5 = %q", row["actual5"])
	}
	// Numeric zero is a value, not an empty marker.
	if row["quantity"] != "0" {
		t.Errorf("quantity = %q, want \"0\"", row["quantity"])
	}
	if row["amount"] != "12.5" {
		t.Errorf("amount = %q, want \"12.5\"", row["amount"])
	}
	if row["isactive"] != "true" {
		t.Errorf("isactive = %q", row["isactive"])
	}
}

func TestRow_GetTriesAlternateSpellings(t *testing.T) {
	row := NewRow(map[string]interface{}{
		"Indent No": "SI-0001",
	})

	if got := row.Get("indentNumber", "indent number", "indent no"); got != "SI-0001" {
		t.Fatalf("Get = %q, want SI-0001", got)
	}
	if got := row.Get("poNumber", "po number"); got != "" {
		t.Fatalf("Get on missing headers = %q, want empty", got)
	}
}

func TestRow_GetSkipsEmptyCandidates(t *testing.T) {
	row := NewRow(map[string]interface{}{
		"vendor":      "",
		"vendor name": "Acme Traders",
	})
	if got := row.Get("vendor", "vendor name"); got != "Acme Traders" {
		t.Fatalf("Get = %q, want the first non-empty candidate", got)
	}
}

func TestRow_SetAndHas(t *testing.T) {
	row := Row{}
	row.Set("Vendor Type", "Regular")
	if !row.Has("vendortype") {
		t.Fatal("Has should match the normalized header")
	}
	if got := row.Get("vendor type"); got != "Regular" {
		t.Fatalf("Get = %q", got)
	}
}
