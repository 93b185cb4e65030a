package model

import (
	"strconv"
	"strings"

	"procurement-service/internal/sheets"
	"procurement-service/internal/workflow"

	"github.com/shopspring/decimal"
)

// Vendor type branch values for the indent pipeline.
const (
	VendorTypePending    = "Pending"
	VendorTypeReject     = "Reject"
	VendorTypeThreeParty = "Three Party"
	VendorTypeRegular    = "Regular"
)

// Status branch values for the store-out and purchase-order pipelines.
const (
	StatusPending  = "Pending"
	StatusApproved = "Approved"
	StatusRejected = "Rejected"
)

// stageTrackFromRow reads the planned1..actual7 column pairs. Header
// spellings vary between sheets ("Planned 1", "planned_1", "PLANNED1").
func stageTrackFromRow(row sheets.Row) workflow.StageTrack {
	var track workflow.StageTrack
	for n := 1; n <= workflow.MaxStages; n++ {
		suffix := strconv.Itoa(n)
		track.SetPlanned(n, row.Get("planned"+suffix, "planned "+suffix, "planned_"+suffix))
		track.SetActual(n, row.Get("actual"+suffix, "actual "+suffix, "actual_"+suffix))
	}
	return track
}

// stagePatch writes one completed stage into a mutation patch.
func stagePatch(patch map[string]interface{}, n int, actual string) {
	patch["actual"+strconv.Itoa(n)] = actual
}

// parseDecimal reads a sheet number cell. Thousands separators are stripped;
// blank cells parse as zero.
func parseDecimal(s string) decimal.Decimal {
	clean := strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if clean == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// parseRowIndex reads the gateway's positional row index. The index is only
// used for addressing mutations back to the gateway, never as record
// identity; the document number is the stable key.
func parseRowIndex(row sheets.Row) int {
	v := row.Get("rowIndex", "row index", "row")
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0
	}
	return n
}
