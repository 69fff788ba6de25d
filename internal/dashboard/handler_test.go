package dashboard

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/Marser321/punta-360-sub001/internal/observability/metrics"
	"github.com/Marser321/punta-360-sub001/pkg/logging"
)

type fakeStats struct {
	stats *Stats
	byDay []DayCount
}

func (f *fakeStats) GetStats(ctx context.Context, start, end time.Time) (*Stats, error) {
	return f.stats, nil
}

func (f *fakeStats) LeadsByDay(ctx context.Context, start, end time.Time) ([]DayCount, error) {
	return f.byDay, nil
}

func TestGetDashboardIncludesLatencySnapshot(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := metrics.NewChatMetrics(registry)
	m.ObserveConcierge("ok", 0.8)
	m.ObserveConcierge("ok", 1.2)

	repo := &fakeStats{stats: &Stats{TotalLeads: 10, UnreadLeads: 2}}
	h := NewHandler(repo, registry, logging.Default())

	req := httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil)
	rec := httptest.NewRecorder()
	h.GetDashboard(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var resp Dashboard
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if resp.Stats.TotalLeads != 10 {
		t.Errorf("TotalLeads = %d, want 10", resp.Stats.TotalLeads)
	}
	if resp.ConciergeLatency.SampleCount != 2 {
		t.Errorf("SampleCount = %d, want 2", resp.ConciergeLatency.SampleCount)
	}
	if resp.ConciergeLatency.AvgSeconds < 0.99 || resp.ConciergeLatency.AvgSeconds > 1.01 {
		t.Errorf("AvgSeconds = %f, want ~1.0", resp.ConciergeLatency.AvgSeconds)
	}
	// Default window: one point per day, gaps filled with zeros.
	if len(resp.LeadsByDay) != defaultWindowDays {
		t.Errorf("LeadsByDay length = %d, want %d", len(resp.LeadsByDay), defaultWindowDays)
	}
}

func TestGetDashboardRejectsBadWindow(t *testing.T) {
	h := NewHandler(&fakeStats{stats: &Stats{}}, prometheus.NewRegistry(), logging.Default())

	for _, days := range []string{"0", "-1", "500", "abc"} {
		req := httptest.NewRequest(http.MethodGet, "/admin/dashboard?days="+days, nil)
		rec := httptest.NewRecorder()
		h.GetDashboard(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("days=%s: status = %d, want 400", days, rec.Code)
		}
	}
}

func TestGetDashboardWithoutRepo(t *testing.T) {
	h := NewHandler(nil, prometheus.NewRegistry(), logging.Default())

	req := httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil)
	rec := httptest.NewRecorder()
	h.GetDashboard(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
}

func TestFillMissingDays(t *testing.T) {
	start := time.Date(2026, 8, 23, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 3)

	filled := fillMissingDays([]DayCount{{Day: "2026-08-24", Leads: 5}}, start, end)
	if len(filled) != 3 {
		t.Fatalf("expected 3 days, got %d", len(filled))
	}
	if filled[0].Leads != 0 || filled[1].Leads != 5 || filled[2].Leads != 0 {
		t.Errorf("unexpected fill: %+v", filled)
	}
}
