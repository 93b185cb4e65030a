package workflow

import (
	"fmt"
	"strconv"
	"strings"
)

// SequenceFormat describes a prefixed, zero-padded document number scheme
// such as SI-0001 or IS-001.
type SequenceFormat struct {
	Prefix string
	Width  int
}

// Format renders n in the scheme, e.g. {SI-, 4}.Format(7) == "SI-0007".
// Numbers wider than Width are rendered without truncation.
func (f SequenceFormat) Format(n int) string {
	return fmt.Sprintf("%s%0*d", f.Prefix, f.Width, n)
}

// Next scans existing identifiers and returns max+1 in the configured format.
// Identifiers that do not carry the prefix or whose suffix is not numeric are
// ignored. An empty collection yields the seed (number 1).
//
// This is a pure read-then-compute function with no locking: two callers that
// observe the same collection will generate the same next number. Uniqueness
// is not enforced at this layer.
func (f SequenceFormat) Next(existing []string) string {
	max := 0
	for _, id := range existing {
		id = strings.TrimSpace(id)
		if !strings.HasPrefix(id, f.Prefix) {
			continue
		}
		n, err := strconv.Atoi(id[len(f.Prefix):])
		if err != nil {
			continue
		}
		if n > max {
			max = n
		}
	}
	return f.Format(max + 1)
}
