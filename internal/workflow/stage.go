package workflow

import "strings"

// MaxStages is the number of planned/actual column pairs carried by every
// workflow record. Sheets that use fewer stages leave the tail pairs blank.
const MaxStages = 7

// StagePair is one planned/actual timestamp column pair. Planned non-empty
// means the record has arrived at the stage; Actual non-empty means the stage
// is completed. Both are string timestamps as stored in the sheet.
type StagePair struct {
	Planned string `json:"planned"`
	Actual  string `json:"actual"`
}

// StageState is the derived position of a record relative to one stage.
type StageState int

const (
	// StageNotReached means the planned timestamp is empty.
	StageNotReached StageState = iota
	// StagePending means planned is set and actual is empty.
	StagePending
	// StageDone means both planned and actual are set.
	StageDone
)

func (s StageState) String() string {
	switch s {
	case StagePending:
		return "pending"
	case StageDone:
		return "done"
	default:
		return "not_reached"
	}
}

// State derives the stage state from the pair. Timestamps are opaque strings;
// only presence matters. Whitespace-only values count as empty.
func (p StagePair) State() StageState {
	if isBlank(p.Planned) {
		return StageNotReached
	}
	if isBlank(p.Actual) {
		return StagePending
	}
	return StageDone
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// Staged is implemented by workflow records that carry stage pairs.
type Staged interface {
	// Stage returns the pair for stage n (1-based). Out-of-range stages
	// return the zero pair, which reads as not reached.
	Stage(n int) StagePair
}

// StageTrack is a fixed-size set of stage pairs embedded by record types.
type StageTrack [MaxStages]StagePair

// Stage returns the pair for stage n (1-based).
func (t StageTrack) Stage(n int) StagePair {
	if n < 1 || n > MaxStages {
		return StagePair{}
	}
	return t[n-1]
}

// SetPlanned sets the planned timestamp for stage n (1-based). No-op out of range.
func (t *StageTrack) SetPlanned(n int, ts string) {
	if n >= 1 && n <= MaxStages {
		t[n-1].Planned = ts
	}
}

// SetActual sets the actual timestamp for stage n (1-based). No-op out of range.
func (t *StageTrack) SetActual(n int, ts string) {
	if n >= 1 && n <= MaxStages {
		t[n-1].Actual = ts
	}
}
