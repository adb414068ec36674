package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goodtune/apptime/internal/activity"
	"github.com/goodtune/apptime/internal/clock"
	"github.com/goodtune/apptime/internal/probe"
	"github.com/rs/zerolog"
)

const testNow = 100*clock.SecondsPerDay + 3600

func newTestServer(t *testing.T, app string) (*Server, *activity.Ledger, *clock.TestClock) {
	t.Helper()

	clk := clock.Unix(testNow)
	p := probe.Func(func(context.Context) (string, bool) { return app, app != "" })
	ledger := activity.NewLedger(context.Background(), activity.Options{Clock: clk, Probe: p}, zerolog.Nop())
	return NewServer("127.0.0.1:0", ledger, zerolog.Nop()), ledger, clk
}

func do(t *testing.T, s *Server, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestStatsEndpoint(t *testing.T) {
	s, ledger, clk := newTestServer(t, "Terminal")

	clk.Advance(60 * time.Second)
	if _, _, err := ledger.Sample(context.Background()); err != nil {
		t.Fatalf("sample: %v", err)
	}

	rec := do(t, s, http.MethodGet, "/api/activity/stats")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var stats activity.Stats
	if err := json.Unmarshal(rec.Body.Bytes(), &stats); err != nil {
		t.Fatalf("decode stats: %v", err)
	}
	if stats.TotalToday != 60 {
		t.Errorf("expected total_today 60, got %d", stats.TotalToday)
	}
	if len(stats.Today) != 1 || stats.Today[0].Name != "Terminal" {
		t.Errorf("unexpected today ranking: %+v", stats.Today)
	}
	if stats.CurrentApp == nil || *stats.CurrentApp != "Terminal" {
		t.Errorf("expected current app Terminal, got %v", stats.CurrentApp)
	}
}

func TestSampleEndpoint(t *testing.T) {
	tests := []struct {
		name string
		app  string
		want interface{}
	}{
		{"focused app", "Editor", "Editor"},
		{"no app", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _, _ := newTestServer(t, tt.app)

			rec := do(t, s, http.MethodPost, "/api/activity/sample")
			if rec.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d", rec.Code)
			}
			var body map[string]interface{}
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			if body["app"] != tt.want {
				t.Errorf("expected app %v, got %v", tt.want, body["app"])
			}
		})
	}
}

func TestResetAndHistoryEndpoints(t *testing.T) {
	s, ledger, clk := newTestServer(t, "Editor")

	clk.Advance(30 * time.Second)
	if _, _, err := ledger.Sample(context.Background()); err != nil {
		t.Fatalf("sample: %v", err)
	}

	rec := do(t, s, http.MethodPost, "/api/activity/reset")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}

	rec = do(t, s, http.MethodGet, "/api/activity/history")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var list struct {
		Days  []string `json:"days"`
		Count int      `json:"count"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode days: %v", err)
	}
	if list.Count != 1 || list.Days[0] != "100" {
		t.Fatalf("expected day 100 archived, got %+v", list)
	}

	rec = do(t, s, http.MethodGet, "/api/activity/history/100")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var day activity.DayUsage
	if err := json.Unmarshal(rec.Body.Bytes(), &day); err != nil {
		t.Fatalf("decode day: %v", err)
	}
	if day.Total != 30 || day.Apps[0].Name != "Editor" {
		t.Errorf("unexpected day usage: %+v", day)
	}

	rec = do(t, s, http.MethodGet, "/api/activity/history/101")
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	s, _, _ := newTestServer(t, "")

	rec := do(t, s, http.MethodGet, "/api/activity/reset")
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected 405, got %d", rec.Code)
	}
}

func TestHealth(t *testing.T) {
	s, _, _ := newTestServer(t, "")

	rec := do(t, s, http.MethodGet, "/health")
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}
