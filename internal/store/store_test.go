package store

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"procurement-service/internal/sheets"

	"go.uber.org/zap"
)

type fakeGateway struct {
	mu         sync.Mutex
	rows       map[string][]sheets.Row
	fetchCount map[string]int
	submitted  [][]map[string]interface{}
	submitErr  error
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		rows:       map[string][]sheets.Row{},
		fetchCount: map[string]int{},
	}
}

func (f *fakeGateway) FetchRows(_ context.Context, sheetName string) ([]sheets.Row, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetchCount[sheetName]++
	return f.rows[sheetName], nil
}

func (f *fakeGateway) Submit(_ context.Context, _ sheets.Action, _ string, rows []map[string]interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.submitErr != nil {
		return f.submitErr
	}
	f.submitted = append(f.submitted, rows)
	return nil
}

func (f *fakeGateway) fetches(sheetName string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fetchCount[sheetName]
}

func TestStore_RowsFetchesOnceThenCaches(t *testing.T) {
	gw := newFakeGateway()
	gw.rows["Indent"] = []sheets.Row{{"indentnumber": "SI-0001"}}
	s := New(gw, time.Millisecond, zap.NewNop())

	for i := 0; i < 3; i++ {
		rows, err := s.Rows(context.Background(), "Indent")
		if err != nil {
			t.Fatalf("Rows: %v", err)
		}
		if len(rows) != 1 {
			t.Fatalf("got %d rows", len(rows))
		}
	}
	if got := gw.fetches("Indent"); got != 1 {
		t.Fatalf("fetched %d times, want 1", got)
	}
}

func TestStore_SubmitSchedulesDelayedRefresh(t *testing.T) {
	gw := newFakeGateway()
	gw.rows["Indent"] = []sheets.Row{}
	s := New(gw, 10*time.Millisecond, zap.NewNop())

	// Prime the cache, then mutate.
	if _, err := s.Rows(context.Background(), "Indent"); err != nil {
		t.Fatal(err)
	}
	if err := s.Submit(context.Background(), sheets.ActionInsert, "Indent", []map[string]interface{}{{"indentNumber": "SI-0001"}}); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	// The re-fetch fires after the configured delay, not immediately.
	if got := gw.fetches("Indent"); got != 1 {
		t.Fatalf("refresh fired immediately: %d fetches", got)
	}

	deadline := time.Now().Add(2 * time.Second)
	for gw.fetches("Indent") < 2 {
		if time.Now().After(deadline) {
			t.Fatal("delayed refresh never fired")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestStore_SubmitFailureLeavesCacheUntouched(t *testing.T) {
	gw := newFakeGateway()
	gw.rows["Indent"] = []sheets.Row{{"indentnumber": "SI-0001"}}
	s := New(gw, time.Millisecond, zap.NewNop())

	if _, err := s.Rows(context.Background(), "Indent"); err != nil {
		t.Fatal(err)
	}
	gw.submitErr = errors.New("gateway down")

	err := s.Submit(context.Background(), sheets.ActionUpdate, "Indent", nil)
	if err == nil {
		t.Fatal("want submit error")
	}

	// No refresh was scheduled and the cached rows are still served.
	time.Sleep(20 * time.Millisecond)
	if got := gw.fetches("Indent"); got != 1 {
		t.Fatalf("refresh fired after failed submit: %d fetches", got)
	}
	rows, _ := s.Rows(context.Background(), "Indent")
	if len(rows) != 1 {
		t.Fatalf("cache was disturbed: %d rows", len(rows))
	}
}

func TestStore_SubscribersNotifiedOnRefresh(t *testing.T) {
	gw := newFakeGateway()
	gw.rows["StoreOut"] = []sheets.Row{}
	s := New(gw, time.Millisecond, zap.NewNop())

	var mu sync.Mutex
	var notified []string
	s.Subscribe(func(sheetName string) {
		mu.Lock()
		notified = append(notified, sheetName)
		mu.Unlock()
	})

	if _, err := s.Refresh(context.Background(), "StoreOut"); err != nil {
		t.Fatal(err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(notified) != 1 || notified[0] != "StoreOut" {
		t.Fatalf("notified = %v", notified)
	}
}

func TestStore_InvalidateForcesRefetch(t *testing.T) {
	gw := newFakeGateway()
	gw.rows["PurchaseOrders"] = []sheets.Row{}
	s := New(gw, time.Millisecond, zap.NewNop())

	s.Rows(context.Background(), "PurchaseOrders")
	s.Invalidate("PurchaseOrders")
	s.Rows(context.Background(), "PurchaseOrders")

	if got := gw.fetches("PurchaseOrders"); got != 2 {
		t.Fatalf("fetched %d times, want 2", got)
	}
}
