package sheets

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Row is one sheet row keyed by normalized header name. Values are always
// strings; the gateway's null/undefined markers normalize to the empty string
// so presence checks stay uniform. Numeric zero survives as "0".
type Row map[string]string

// NormalizeHeader lowercases a header and strips everything that is not a
// letter or digit, so "Planned 1", "planned_1" and "PLANNED-1" all match.
func NormalizeHeader(h string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(h) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// NewRow converts a decoded gateway row into a normalized Row.
func NewRow(raw map[string]interface{}) Row {
	row := make(Row, len(raw))
	for k, v := range raw {
		row[NormalizeHeader(k)] = normalizeValue(v)
	}
	return row
}

func normalizeValue(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		// The gateway serializes missing cells inconsistently.
		switch strings.TrimSpace(strings.ToLower(t)) {
		case "null", "undefined":
			return ""
		}
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case json.Number:
		return t.String()
	default:
		return fmt.Sprintf("%v", t)
	}
}

// Get returns the first non-empty value among the candidate header spellings.
// Candidates are normalized before lookup.
func (r Row) Get(names ...string) string {
	for _, name := range names {
		if v, ok := r[NormalizeHeader(name)]; ok && strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// Set stores a value under the normalized header name.
func (r Row) Set(name, value string) {
	r[NormalizeHeader(name)] = value
}

// Has reports whether any candidate header exists, even with an empty value.
func (r Row) Has(names ...string) bool {
	for _, name := range names {
		if _, ok := r[NormalizeHeader(name)]; ok {
			return true
		}
	}
	return false
}
