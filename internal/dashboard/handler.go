package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/Marser321/punta-360-sub001/internal/observability/metrics"
	"github.com/Marser321/punta-360-sub001/pkg/logging"
)

const (
	defaultWindowDays = 7
	maxWindowDays     = 90
)

// Dashboard is the JSON payload served to the agent panel.
type Dashboard struct {
	Stats            Stats                    `json:"stats"`
	LeadsByDay       []DayCount               `json:"leads_by_day"`
	ConciergeLatency ConciergeLatencySnapshot `json:"concierge_latency"`
}

// ConciergeLatencySnapshot summarizes the concierge latency histogram as
// currently registered, without a Prometheus server in the loop.
type ConciergeLatencySnapshot struct {
	SampleCount uint64                   `json:"sample_count"`
	AvgSeconds  float64                  `json:"avg_seconds"`
	Buckets     []ConciergeLatencyBucket `json:"buckets,omitempty"`
}

// ConciergeLatencyBucket is one cumulative histogram bucket.
type ConciergeLatencyBucket struct {
	UpperBound float64 `json:"upper_bound_seconds"`
	Count      uint64  `json:"count"`
}

type statsSource interface {
	GetStats(ctx context.Context, start, end time.Time) (*Stats, error)
	LeadsByDay(ctx context.Context, start, end time.Time) ([]DayCount, error)
}

// Handler serves the agent dashboard JSON.
type Handler struct {
	repo     statsSource
	gatherer prometheus.Gatherer
	logger   *logging.Logger
}

// NewHandler creates a dashboard handler. A nil gatherer falls back to the
// process default registry.
func NewHandler(repo statsSource, gatherer prometheus.Gatherer, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return &Handler{
		repo:     repo,
		gatherer: gatherer,
		logger:   logger,
	}
}

// GetDashboard returns lead metrics for the agent panel.
// GET /admin/dashboard?days=N (default 7, max 90)
func (h *Handler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	if h.repo == nil {
		http.Error(w, `{"error":"dashboard disabled (db not configured)"}`, http.StatusServiceUnavailable)
		return
	}

	days := defaultWindowDays
	if daysStr := r.URL.Query().Get("days"); daysStr != "" {
		parsed, err := strconv.Atoi(daysStr)
		if err != nil || parsed < 1 || parsed > maxWindowDays {
			http.Error(w, fmt.Sprintf(`{"error":"days must be 1-%d"}`, maxWindowDays), http.StatusBadRequest)
			return
		}
		days = parsed
	}

	end := time.Now().UTC().Truncate(24 * time.Hour).Add(24 * time.Hour)
	start := end.AddDate(0, 0, -days)

	stats, err := h.repo.GetStats(r.Context(), start, end)
	if err != nil {
		h.logger.Error("failed to query dashboard stats", "error", err)
		http.Error(w, `{"error":"internal server error"}`, http.StatusInternalServerError)
		return
	}

	byDay, err := h.repo.LeadsByDay(r.Context(), start, end)
	if err != nil {
		h.logger.Error("failed to query leads by day", "error", err)
		http.Error(w, `{"error":"internal server error"}`, http.StatusInternalServerError)
		return
	}

	resp := Dashboard{
		Stats:            *stats,
		LeadsByDay:       fillMissingDays(byDay, start, end),
		ConciergeLatency: snapshotConciergeLatency(h.gatherer),
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// fillMissingDays pads the window so the chart has a point for every day.
func fillMissingDays(in []DayCount, start, end time.Time) []DayCount {
	byDay := make(map[string]DayCount, len(in))
	for _, day := range in {
		byDay[day.Day] = day
	}

	out := make([]DayCount, 0, len(in))
	for cursor := start.UTC(); cursor.Before(end); cursor = cursor.AddDate(0, 0, 1) {
		key := cursor.Format("2006-01-02")
		if day, ok := byDay[key]; ok {
			out = append(out, day)
			continue
		}
		out = append(out, DayCount{Day: key})
	}
	return out
}

func snapshotConciergeLatency(gatherer prometheus.Gatherer) ConciergeLatencySnapshot {
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	mfs, err := gatherer.Gather()
	if err != nil {
		return ConciergeLatencySnapshot{}
	}

	var family *dto.MetricFamily
	for _, mf := range mfs {
		if mf != nil && mf.GetName() == metrics.ConciergeLatencyMetric {
			family = mf
			break
		}
	}
	if family == nil {
		return ConciergeLatencySnapshot{}
	}

	cumulativeByUpper := map[float64]uint64{}
	var sampleCount uint64
	var sampleSum float64

	for _, metric := range family.Metric {
		if metric == nil {
			continue
		}
		hist := metric.GetHistogram()
		if hist == nil {
			continue
		}
		sampleCount += hist.GetSampleCount()
		sampleSum += hist.GetSampleSum()
		for _, b := range hist.Bucket {
			if b == nil {
				continue
			}
			cumulativeByUpper[b.GetUpperBound()] += b.GetCumulativeCount()
		}
	}

	if sampleCount == 0 {
		return ConciergeLatencySnapshot{}
	}

	uppers := make([]float64, 0, len(cumulativeByUpper))
	for upper := range cumulativeByUpper {
		if !math.IsInf(upper, 1) {
			uppers = append(uppers, upper)
		}
	}
	sort.Float64s(uppers)

	buckets := make([]ConciergeLatencyBucket, 0, len(uppers))
	for _, upper := range uppers {
		buckets = append(buckets, ConciergeLatencyBucket{
			UpperBound: upper,
			Count:      cumulativeByUpper[upper],
		})
	}

	return ConciergeLatencySnapshot{
		SampleCount: sampleCount,
		AvgSeconds:  sampleSum / float64(sampleCount),
		Buckets:     buckets,
	}
}
