package workflow

import "testing"

type testRecord struct {
	id         string
	vendorType string
	StageTrack
}

func record(id string, pairs ...StagePair) testRecord {
	rec := testRecord{id: id}
	for i, p := range pairs {
		rec.StageTrack[i] = p
	}
	return rec
}

func ids(records []testRecord) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.id)
	}
	return out
}

func TestStagePairState(t *testing.T) {
	tests := []struct {
		name string
		pair StagePair
		want StageState
	}{
		{"both empty", StagePair{}, StageNotReached},
		{"planned only", StagePair{Planned: "2024-01-01"}, StagePending},
		{"both set", StagePair{Planned: "2024-01-01", Actual: "2024-01-02"}, StageDone},
		{"whitespace planned is empty", StagePair{Planned: "   "}, StageNotReached},
		{"whitespace actual is empty", StagePair{Planned: "2024-01-01", Actual: " "}, StagePending},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.pair.State(); got != tt.want {
				t.Fatalf("State() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSplitStage_PartitionIsExhaustive(t *testing.T) {
	records := []testRecord{
		record("a", StagePair{Planned: "2024-01-01"}),
		record("b", StagePair{Planned: "2024-01-01", Actual: "2024-01-02"}),
		record("c", StagePair{}),
		record("d", StagePair{Planned: "2024-01-03"}),
	}

	view := SplitStage(records, 1, nil)

	// Every record is in exactly one of pending, history, not-yet-reached.
	seen := map[string]int{}
	for _, r := range view.Pending {
		seen[r.id]++
	}
	for _, r := range view.History {
		seen[r.id]++
	}
	for _, r := range records {
		if seen[r.id] > 1 {
			t.Fatalf("record %s appears in both views", r.id)
		}
		notReached := r.Stage(1).State() == StageNotReached
		if notReached && seen[r.id] != 0 {
			t.Fatalf("record %s has empty planned1 but appears in a view", r.id)
		}
		if !notReached && seen[r.id] != 1 {
			t.Fatalf("record %s reached stage 1 but appears in %d views", r.id, seen[r.id])
		}
	}
}

func TestSplitStage_ReversesInputOrder(t *testing.T) {
	records := []testRecord{
		record("old", StagePair{Planned: "2024-01-01"}),
		record("mid", StagePair{Planned: "2024-01-02"}),
		record("new", StagePair{Planned: "2024-01-03"}),
	}

	got := ids(SplitStage(records, 1, nil).Pending)
	want := []string{"new", "mid", "old"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("pending order = %v, want %v", got, want)
		}
	}
}

func TestSplitStage_ConstraintNarrowsBothViews(t *testing.T) {
	records := []testRecord{
		{id: "tp-pending", vendorType: "Three Party", StageTrack: StageTrack{{Planned: "x"}}},
		{id: "tp-done", vendorType: "Three Party", StageTrack: StageTrack{{Planned: "x", Actual: "y"}}},
		{id: "reg-pending", vendorType: "Regular", StageTrack: StageTrack{{Planned: "x"}}},
	}

	view := SplitStage(records, 1, func(r testRecord) bool { return r.vendorType == "Three Party" })
	if len(view.Pending) != 1 || view.Pending[0].id != "tp-pending" {
		t.Fatalf("pending = %v, want only tp-pending", ids(view.Pending))
	}
	if len(view.History) != 1 || view.History[0].id != "tp-done" {
		t.Fatalf("history = %v, want only tp-done", ids(view.History))
	}
}

func TestSplitStage_LaterStageUnaffectedByEarlier(t *testing.T) {
	// Nothing enforces stage order: stage 3 can be pending while stage 1 is
	// untouched. The filter only looks at the requested pair.
	rec := record("x", StagePair{}, StagePair{}, StagePair{Planned: "2024-01-05"})

	view := SplitStage([]testRecord{rec}, 3, nil)
	if len(view.Pending) != 1 {
		t.Fatalf("expected record pending at stage 3, got %v", view)
	}
	if len(SplitStage([]testRecord{rec}, 1, nil).Pending) != 0 {
		t.Fatal("record should not appear at stage 1")
	}
}

func TestSplitStage_ApprovalLifecycle(t *testing.T) {
	// A fresh indent line is pending at the approval stage; once the
	// approver acts it moves to history and leaves pending.
	fresh := testRecord{id: "SI-0001", StageTrack: StageTrack{{Planned: "2024-01-01"}}}

	view := SplitStage([]testRecord{fresh}, 1, nil)
	if len(view.Pending) != 1 || len(view.History) != 0 {
		t.Fatalf("fresh record: pending=%d history=%d, want 1/0", len(view.Pending), len(view.History))
	}

	approved := fresh
	approved.vendorType = "Regular"
	approved.SetActual(1, "2024-01-02")

	view = SplitStage([]testRecord{approved}, 1, nil)
	if len(view.Pending) != 0 || len(view.History) != 1 {
		t.Fatalf("approved record: pending=%d history=%d, want 0/1", len(view.Pending), len(view.History))
	}
}

func TestStageTrack_OutOfRange(t *testing.T) {
	var track StageTrack
	track.SetPlanned(0, "x")
	track.SetActual(MaxStages+1, "y")
	if track.Stage(0) != (StagePair{}) || track.Stage(MaxStages+1) != (StagePair{}) {
		t.Fatal("out-of-range stages must read as the zero pair")
	}
	for n := 1; n <= MaxStages; n++ {
		if track.Stage(n) != (StagePair{}) {
			t.Fatalf("out-of-range writes must not touch stage %d", n)
		}
	}
}
