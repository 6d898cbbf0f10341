package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"expenselog/internal/chart"
	"expenselog/internal/core"
	applog "expenselog/internal/log"
	"expenselog/internal/services"
	"expenselog/internal/storage/memory"
)

func fixedClock() time.Time {
	return time.Date(2024, 3, 13, 15, 30, 0, 0, time.Local)
}

func newTestServer(t *testing.T, opts Options) *Server {
	t.Helper()
	svc := services.NewExpenseService(memory.New(), services.WithClock(fixedClock))
	if opts.Logger == nil {
		opts.Logger = applog.New(applog.Config{Level: slog.LevelError, Output: io.Discard})
	}
	srv := NewServer(":0", svc, opts)
	t.Cleanup(func() { _ = srv.Shutdown(context.Background()) })
	return srv
}

func do(t *testing.T, srv *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rdr io.Reader
	if body != "" {
		rdr = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rdr)
	req.RemoteAddr = "203.0.113.7:4000"
	rr := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rr.Body).Decode(&v); err != nil {
		t.Fatalf("decode %q: %v", rr.Body.String(), err)
	}
	return v
}

func TestHealthAndReady(t *testing.T) {
	srv := newTestServer(t, Options{})
	for _, path := range []string{"/healthz", "/readyz"} {
		if rr := do(t, srv, http.MethodGet, path, ""); rr.Code != http.StatusOK {
			t.Fatalf("%s status=%d", path, rr.Code)
		}
	}

	notReady := newTestServer(t, Options{Ready: func(context.Context) error { return errors.New("db gone") }})
	if rr := do(t, notReady, http.MethodGet, "/readyz", ""); rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("readyz status=%d, want 503", rr.Code)
	}
}

func TestCreateAndList(t *testing.T) {
	srv := newTestServer(t, Options{})

	rr := do(t, srv, http.MethodPost, "/api/expenses", `{"amount":"12.50","category":"Food","note":"lunch","date":"20240312"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create status=%d body=%s", rr.Code, rr.Body)
	}
	created := decode[services.SubmitResult](t, rr)
	if created.ID == 0 {
		t.Fatalf("missing id in %+v", created)
	}
	if rr.Header().Get("X-Content-Type-Options") != "nosniff" || rr.Header().Get("X-Request-ID") == "" {
		t.Fatalf("middleware headers missing: %v", rr.Header())
	}

	do(t, srv, http.MethodPost, "/api/expenses", `{"amount":"3","category":"Books"}`)

	rr = do(t, srv, http.MethodGet, "/api/expenses?filter=week", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("list status=%d", rr.Code)
	}
	list := decode[expenseList](t, rr)
	if list.Filter != core.FilterWeek || list.Label != "This Week" {
		t.Fatalf("unexpected filter echo %+v", list)
	}
	if len(list.Records) != 1 || list.Records[0].Date != "2024-03-12" {
		t.Fatalf("unexpected week records %+v", list.Records)
	}
	if list.Counts != (core.FilterCounts{All: 2, Week: 1, Month: 1}) {
		t.Fatalf("counts = %+v", list.Counts)
	}
}

func TestCreateDeclined(t *testing.T) {
	srv := newTestServer(t, Options{})

	rr := do(t, srv, http.MethodPost, "/api/expenses", `{"amount":"-1","category":"Food","note":"keep me"}`)
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status=%d, want 422", rr.Code)
	}
	res := decode[services.SubmitResult](t, rr)
	if !res.Declined || res.Reason == "" || res.Input.Note != "keep me" {
		t.Fatalf("declined response should echo input: %+v", res)
	}

	rr = do(t, srv, http.MethodGet, "/api/expenses", "")
	if list := decode[expenseList](t, rr); len(list.Records) != 0 {
		t.Fatalf("nothing should be stored, got %+v", list.Records)
	}
}

func TestCreateBadRequest(t *testing.T) {
	srv := newTestServer(t, Options{})
	for _, body := range []string{`not json`, `{"amount":"1","category":"Food","extra":true}`, ``} {
		if rr := do(t, srv, http.MethodPost, "/api/expenses", body); rr.Code != http.StatusBadRequest {
			t.Errorf("body %q status=%d, want 400", body, rr.Code)
		}
	}
}

func TestEditUpdateDelete(t *testing.T) {
	srv := newTestServer(t, Options{})
	created := decode[services.SubmitResult](t, do(t, srv, http.MethodPost, "/api/expenses",
		`{"amount":"10","category":"Food","date":"2024-03-01"}`))
	path := "/api/expenses/" + strconv.FormatInt(created.ID, 10)

	rr := do(t, srv, http.MethodGet, path+"/edit", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("edit status=%d", rr.Code)
	}
	form := decode[services.EditForm](t, rr)
	if form.Input.Date != "20240301" || form.DatePreview != "2024-03-01" {
		t.Fatalf("unexpected pre-fill %+v", form)
	}

	rr = do(t, srv, http.MethodPut, path, `{"amount":"15","category":"Rent","date":"20240301"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("update status=%d body=%s", rr.Code, rr.Body)
	}
	if res := decode[services.SubmitResult](t, rr); !res.Updated || res.ID != created.ID {
		t.Fatalf("unexpected update result %+v", res)
	}

	if rr := do(t, srv, http.MethodPut, path, `{"amount":"x","category":"Rent"}`); rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("declined update status=%d", rr.Code)
	}

	if rr := do(t, srv, http.MethodDelete, path, ""); rr.Code != http.StatusNoContent {
		t.Fatalf("delete status=%d", rr.Code)
	}
	if rr := do(t, srv, http.MethodGet, path+"/edit", ""); rr.Code != http.StatusNotFound {
		t.Fatalf("edit after delete status=%d, want 404", rr.Code)
	}
	if rr := do(t, srv, http.MethodPut, path, `{"amount":"1","category":"Rent"}`); rr.Code != http.StatusNotFound {
		t.Fatalf("update after delete status=%d, want 404", rr.Code)
	}
	if rr := do(t, srv, http.MethodDelete, "/api/expenses/abc", ""); rr.Code != http.StatusBadRequest {
		t.Fatalf("bad id status=%d, want 400", rr.Code)
	}
}

func TestSummaryAndChart(t *testing.T) {
	srv := newTestServer(t, Options{})
	for _, body := range []string{
		`{"amount":"20","category":"Food","date":"20240311"}`,
		`{"amount":"60","category":"Rent","date":"20240311"}`,
		`{"amount":"5","category":"Books","date":"20240302"}`,
	} {
		do(t, srv, http.MethodPost, "/api/expenses", body)
	}

	rr := do(t, srv, http.MethodGet, "/api/summary?filter=month", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("summary status=%d", rr.Code)
	}
	var summary struct {
		Sum        string `json:"sum"`
		ByCategory []struct {
			Category string `json:"category"`
		} `json:"by_category"`
		Daily []struct {
			Date    string `json:"date"`
			DayName string `json:"day_name"`
		} `json:"daily"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &summary); err != nil {
		t.Fatalf("decode summary: %v", err)
	}
	if summary.Sum != "$85.00" || len(summary.ByCategory) != 3 || summary.ByCategory[0].Category != "Rent" {
		t.Fatalf("unexpected summary %s", rr.Body)
	}
	if len(summary.Daily) != 2 || summary.Daily[1].Date != "2024-03-11" || summary.Daily[1].DayName != "Monday" {
		t.Fatalf("unexpected daily breakdown %s", rr.Body)
	}

	rr = do(t, srv, http.MethodGet, "/api/chart?filter=week", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("chart status=%d", rr.Code)
	}
	layout := decode[chart.Layout](t, rr)
	if len(layout.Bars) != 1 || layout.Bars[0].TotalLabel != "$80" || layout.Scale.RoundedMax != 80 {
		t.Fatalf("unexpected chart %+v", layout)
	}

	if rr := do(t, srv, http.MethodGet, "/api/summary?filter=year", ""); rr.Code != http.StatusBadRequest {
		t.Fatalf("unknown filter status=%d, want 400", rr.Code)
	}
}

func TestSummaryEmptyListsEncodeAsArrays(t *testing.T) {
	srv := newTestServer(t, Options{})
	for _, filter := range []string{"all", "week", "month"} {
		rr := do(t, srv, http.MethodGet, "/api/summary?filter="+filter, "")
		if rr.Code != http.StatusOK {
			t.Fatalf("%s: summary status=%d", filter, rr.Code)
		}
		var raw map[string]json.RawMessage
		if err := json.Unmarshal(rr.Body.Bytes(), &raw); err != nil {
			t.Fatalf("%s: decode summary: %v", filter, err)
		}
		for _, key := range []string{"records", "by_category", "daily"} {
			if got := string(raw[key]); got != "[]" {
				t.Fatalf("%s: %s = %s, want []", filter, key, got)
			}
		}
	}
}

func TestDatePreview(t *testing.T) {
	srv := newTestServer(t, Options{})
	tests := []struct {
		input string
		want  datePreview
	}{
		{"20240315", datePreview{Input: "20240315", Preview: "2024-03-15", Valid: true}},
		{"2024", datePreview{Input: "2024", Preview: core.InvalidDatePreview}},
		{"", datePreview{}},
	}
	for _, tt := range tests {
		rr := do(t, srv, http.MethodGet, "/api/date-preview?input="+tt.input, "")
		if got := decode[datePreview](t, rr); got != tt.want {
			t.Errorf("preview(%q) = %+v, want %+v", tt.input, got, tt.want)
		}
	}
}

func TestRateLimitAppliesToMutations(t *testing.T) {
	srv := newTestServer(t, Options{RateLimitPerMinute: 1})

	if rr := do(t, srv, http.MethodPost, "/api/expenses", `{"amount":"1","category":"Food"}`); rr.Code != http.StatusCreated {
		t.Fatalf("first create status=%d", rr.Code)
	}
	rr := do(t, srv, http.MethodPost, "/api/expenses", `{"amount":"1","category":"Food"}`)
	if rr.Code != http.StatusTooManyRequests {
		t.Fatalf("second create status=%d, want 429", rr.Code)
	}
	if res := decode[errorResponse](t, rr); res.RequestID == "" {
		t.Fatal("limited response should carry the request id")
	}
	if rr := do(t, srv, http.MethodGet, "/api/summary", ""); rr.Code != http.StatusOK {
		t.Fatalf("reads should not be limited, got %d", rr.Code)
	}
	if srv.Metrics().TotalRequests != 3 {
		t.Fatalf("metrics = %+v", srv.Metrics())
	}
}

func TestSanitizeInput(t *testing.T) {
	if got := sanitizeInput("  Fo\x00od\t "); got != "Food" {
		t.Fatalf("sanitizeInput = %q", got)
	}
	if got := sanitizeInput("line\nbreak"); got != "line\nbreak" {
		t.Fatalf("newlines should be kept, got %q", got)
	}
}
