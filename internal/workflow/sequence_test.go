package workflow

import "testing"

func TestSequenceFormat_Next(t *testing.T) {
	si := SequenceFormat{Prefix: "SI-", Width: 4}

	tests := []struct {
		name     string
		existing []string
		want     string
	}{
		{"max plus one, not count plus one", []string{"SI-0001", "SI-0003"}, "SI-0004"},
		{"empty collection yields seed", nil, "SI-0001"},
		{"unordered input", []string{"SI-0007", "SI-0002", "SI-0005"}, "SI-0008"},
		{"foreign prefixes ignored", []string{"IS-001", "QT-003", "SI-0002"}, "SI-0003"},
		{"malformed suffixes ignored", []string{"SI-abc", "SI-", "SI-0004"}, "SI-0005"},
		{"whitespace trimmed", []string{" SI-0009 "}, "SI-0010"},
		{"only foreign ids yields seed", []string{"PO-001"}, "SI-0001"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := si.Next(tt.existing); got != tt.want {
				t.Fatalf("Next(%v) = %s, want %s", tt.existing, got, tt.want)
			}
		})
	}
}

func TestSequenceFormat_NarrowWidth(t *testing.T) {
	is := SequenceFormat{Prefix: "IS-", Width: 3}
	if got := is.Next(nil); got != "IS-001" {
		t.Fatalf("seed = %s, want IS-001", got)
	}
	if got := is.Next([]string{"IS-999"}); got != "IS-1000" {
		t.Fatalf("overflow = %s, want IS-1000 without truncation", got)
	}
}

func TestSequenceFormat_Format(t *testing.T) {
	qt := SequenceFormat{Prefix: "QT-", Width: 3}
	if got := qt.Format(3); got != "QT-003" {
		t.Fatalf("Format(3) = %s, want QT-003", got)
	}
}

func TestSequenceFormat_SameInputSameOutput(t *testing.T) {
	// The generator is a pure read-then-compute function: two callers that
	// see the same collection draw the same number. Uniqueness is not this
	// layer's job.
	si := SequenceFormat{Prefix: "SI-", Width: 4}
	existing := []string{"SI-0001", "SI-0002"}
	if a, b := si.Next(existing), si.Next(existing); a != b {
		t.Fatalf("generator is not deterministic: %s vs %s", a, b)
	}
}
