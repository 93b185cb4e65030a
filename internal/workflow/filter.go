package workflow

// View is the per-stage partition of a record collection. Records that have
// not reached the stage appear in neither slice.
type View[T Staged] struct {
	Pending []T `json:"pending"`
	History []T `json:"history"`
}

// SplitStage partitions records for stage n. A record is pending when its
// planned timestamp is set and actual is empty, history when both are set.
// The optional constraint narrows both views; nil means no constraint.
//
// Output order is the reverse of input order, most recent first, matching
// the sheet fetch order.
func SplitStage[T Staged](records []T, n int, constraint func(T) bool) View[T] {
	view := View[T]{
		Pending: []T{},
		History: []T{},
	}
	for i := len(records) - 1; i >= 0; i-- {
		rec := records[i]
		if constraint != nil && !constraint(rec) {
			continue
		}
		switch rec.Stage(n).State() {
		case StagePending:
			view.Pending = append(view.Pending, rec)
		case StageDone:
			view.History = append(view.History, rec)
		}
	}
	return view
}

// Pending returns only the pending half of the stage partition.
func Pending[T Staged](records []T, n int, constraint func(T) bool) []T {
	return SplitStage(records, n, constraint).Pending
}

// History returns only the history half of the stage partition.
func History[T Staged](records []T, n int, constraint func(T) bool) []T {
	return SplitStage(records, n, constraint).History
}
