package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"procurement-service/internal/sheets"
	"procurement-service/internal/store"
	"procurement-service/pkg/config"
	"procurement-service/prometheus"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	cfg, _ := config.Load("procurement-test")
	prometheus.InitMetrics(cfg)
	os.Exit(m.Run())
}

type stubGateway struct {
	mu        sync.Mutex
	sheets    map[string][]sheets.Row
	submitted []struct {
		Action sheets.Action
		Sheet  string
		Rows   []map[string]interface{}
	}
}

func (s *stubGateway) FetchRows(_ context.Context, sheetName string) ([]sheets.Row, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sheets[sheetName], nil
}

func (s *stubGateway) Submit(_ context.Context, action sheets.Action, sheetName string, rows []map[string]interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.submitted = append(s.submitted, struct {
		Action sheets.Action
		Sheet  string
		Rows   []map[string]interface{}
	}{action, sheetName, rows})
	return nil
}

func (s *stubGateway) lastSubmit(t *testing.T) (sheets.Action, string, []map[string]interface{}) {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.submitted) == 0 {
		t.Fatal("no mutation was submitted")
	}
	last := s.submitted[len(s.submitted)-1]
	return last.Action, last.Sheet, last.Rows
}

type testValidator struct{ v *validator.Validate }

func (t *testValidator) Validate(i interface{}) error { return t.v.Struct(i) }

func setupEnv(t *testing.T, gw *stubGateway) *echo.Echo {
	t.Helper()
	store.Init(store.New(gw, time.Millisecond, zap.NewNop()))
	e := echo.New()
	e.Validator = &testValidator{v: validator.New()}
	return e
}

func indentRow(indentNumber string, rowIndex, product string, cols map[string]interface{}) sheets.Row {
	raw := map[string]interface{}{
		"indentNumber": indentNumber,
		"rowIndex":     rowIndex,
		"product":      product,
	}
	for k, v := range cols {
		raw[k] = v
	}
	return sheets.NewRow(raw)
}

func TestIndentStageView_PartitionsAndGroups(t *testing.T) {
	gw := &stubGateway{sheets: map[string][]sheets.Row{
		"Indent": {
			indentRow("SI-0001", "2", "Cement", map[string]interface{}{
				"planned1": "2024-01-01 09:00:00",
			}),
			indentRow("SI-0001", "3", "Sand", map[string]interface{}{
				"planned1": "2024-01-01 09:00:00",
			}),
			indentRow("SI-0002", "4", "Steel", map[string]interface{}{
				"planned1": "2024-01-02 09:00:00",
				"actual1":  "2024-01-02 10:00:00",
			}),
		},
	}}
	e := setupEnv(t, gw)

	req := httptest.NewRequest(http.MethodGet, "/?grouped=true", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("n")
	c.SetParamValues("1")

	if err := IndentStageView(c); err != nil {
		t.Fatalf("IndentStageView: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}

	var body struct {
		Pending []struct {
			Key   string            `json:"key"`
			Items []json.RawMessage `json:"items"`
		} `json:"pending"`
		History []struct {
			Key string `json:"key"`
		} `json:"history"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Pending) != 1 || body.Pending[0].Key != "SI-0001" {
		t.Fatalf("pending groups = %+v", body.Pending)
	}
	if len(body.Pending[0].Items) != 2 {
		t.Fatalf("SI-0001 group has %d items, want 2", len(body.Pending[0].Items))
	}
	if len(body.History) != 1 || body.History[0].Key != "SI-0002" {
		t.Fatalf("history groups = %+v", body.History)
	}
}

func TestIndentStageView_RejectsBadStage(t *testing.T) {
	e := setupEnv(t, &stubGateway{sheets: map[string][]sheets.Row{}})

	for _, n := range []string{"0", "8", "x"} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("n")
		c.SetParamValues(n)

		if err := IndentStageView(c); err != nil {
			t.Fatalf("IndentStageView(%s): %v", n, err)
		}
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("stage %s: status = %d, want 400", n, rec.Code)
		}
	}
}

func TestCreateIndent_DrawsNextNumber(t *testing.T) {
	gw := &stubGateway{sheets: map[string][]sheets.Row{
		"Indent": {
			indentRow("SI-0001", "2", "Cement", nil),
			indentRow("SI-0005", "3", "Steel", nil),
		},
	}}
	e := setupEnv(t, gw)
	timeNow = func() time.Time { return time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC) }
	defer func() { timeNow = time.Now }()

	payload := `{"department":"Civil","lines":[{"product":"Bolts","quantity":"10","unit":"pcs"}]}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(payload))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_name", "Asha")

	if err := CreateIndent(c); err != nil {
		t.Fatalf("CreateIndent: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}

	var resp map[string]interface{}
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp["indent_number"] != "SI-0006" {
		t.Fatalf("indent_number = %v, want SI-0006 (max+1 over existing)", resp["indent_number"])
	}

	action, sheet, rows := gw.lastSubmit(t)
	if action != sheets.ActionInsert || sheet != "Indent" {
		t.Fatalf("submitted %s to %s", action, sheet)
	}
	if len(rows) != 1 {
		t.Fatalf("submitted %d rows", len(rows))
	}
	if rows[0]["vendorType"] != "Pending" {
		t.Errorf("vendorType = %v", rows[0]["vendorType"])
	}
	if rows[0]["planned1"] != "2024-03-01 10:00:00" {
		t.Errorf("planned1 = %v", rows[0]["planned1"])
	}
	if rows[0]["requestedBy"] != "Asha" {
		t.Errorf("requestedBy = %v", rows[0]["requestedBy"])
	}
}

func TestApproveIndents_PatchesPendingLines(t *testing.T) {
	gw := &stubGateway{sheets: map[string][]sheets.Row{
		"Indent": {
			indentRow("SI-0001", "2", "Cement", map[string]interface{}{
				"planned1": "2024-01-01 09:00:00",
			}),
		},
	}}
	e := setupEnv(t, gw)

	payload := `{"items":[{"indent_number":"SI-0001","row_index":2,"vendor_type":"Regular"}]}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(payload))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := ApproveIndents(c); err != nil {
		t.Fatalf("ApproveIndents: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}

	action, sheet, rows := gw.lastSubmit(t)
	if action != sheets.ActionUpdate || sheet != "Indent" {
		t.Fatalf("submitted %s to %s", action, sheet)
	}
	if rows[0]["vendorType"] != "Regular" {
		t.Errorf("vendorType = %v", rows[0]["vendorType"])
	}
	if rows[0]["actual1"] == "" || rows[0]["actual1"] == nil {
		t.Error("actual1 was not stamped")
	}
	if rows[0]["rowIndex"] != 2 {
		t.Errorf("rowIndex = %v", rows[0]["rowIndex"])
	}
}

func TestApproveIndents_RejectsNonPendingLine(t *testing.T) {
	gw := &stubGateway{sheets: map[string][]sheets.Row{
		"Indent": {
			indentRow("SI-0001", "2", "Cement", map[string]interface{}{
				"planned1": "2024-01-01 09:00:00",
				"actual1":  "2024-01-01 10:00:00",
			}),
		},
	}}
	e := setupEnv(t, gw)

	payload := `{"items":[{"indent_number":"SI-0001","row_index":2,"vendor_type":"Reject"}]}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(payload))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := ApproveIndents(c); err != nil {
		t.Fatalf("ApproveIndents: %v", err)
	}
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409 for already-approved line", rec.Code)
	}
	if len(gw.submitted) != 0 {
		t.Fatal("no mutation may be submitted when validation fails")
	}
}
