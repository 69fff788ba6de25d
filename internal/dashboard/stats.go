package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

// Stats aggregates the lead inbox for the agent dashboard.
type Stats struct {
	TotalLeads     int64  `json:"total_leads"`
	UnreadLeads    int64  `json:"unread_leads"`
	LeadsToday     int64  `json:"leads_today"`
	QualifiedLeads int64  `json:"qualified_leads"`
	PeriodStart    string `json:"period_start"`
	PeriodEnd      string `json:"period_end"`
}

// DayCount is one day of captures inside the dashboard window.
type DayCount struct {
	Day            string `json:"day"` // YYYY-MM-DD
	Leads          int64  `json:"leads"`
	QualifiedLeads int64  `json:"qualified_leads"`
}

// statsDB defines the database interface needed by StatsRepository
type statsDB interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// StatsRepository queries lead metrics from the database.
type StatsRepository struct {
	db statsDB
}

// NewStatsRepository creates a new stats repository. pgxpool.Pool satisfies
// statsDB; tests inject pgxmock.
func NewStatsRepository(db statsDB) *StatsRepository {
	if db == nil {
		panic("dashboard: db required for stats")
	}
	return &StatsRepository{db: db}
}

const qualifiedFilter = `intent_data->>'intent' <> '' AND intent_data->>'timeline' <> '' AND intent_data->>'budget' <> ''`

// GetStats retrieves aggregated lead counts. Totals are all-time; LeadsToday
// covers the current UTC day.
func (r *StatsRepository) GetStats(ctx context.Context, start, end time.Time) (*Stats, error) {
	stats := &Stats{
		PeriodStart: start.UTC().Format(time.RFC3339),
		PeriodEnd:   end.UTC().Format(time.RFC3339),
	}

	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM leads`).Scan(&stats.TotalLeads); err != nil {
		return nil, fmt.Errorf("dashboard stats: count leads: %w", err)
	}

	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM leads WHERE is_read = false`).Scan(&stats.UnreadLeads); err != nil {
		return nil, fmt.Errorf("dashboard stats: count unread: %w", err)
	}

	if err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM leads WHERE created_at >= date_trunc('day', now() AT TIME ZONE 'UTC')`,
	).Scan(&stats.LeadsToday); err != nil {
		return nil, fmt.Errorf("dashboard stats: count today: %w", err)
	}

	if err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM leads WHERE `+qualifiedFilter,
	).Scan(&stats.QualifiedLeads); err != nil {
		return nil, fmt.Errorf("dashboard stats: count qualified: %w", err)
	}

	return stats, nil
}

// LeadsByDay groups captures per UTC day inside [start, end).
func (r *StatsRepository) LeadsByDay(ctx context.Context, start, end time.Time) ([]DayCount, error) {
	query := `
		SELECT to_char(date_trunc('day', created_at), 'YYYY-MM-DD') AS day,
		       COUNT(*) AS leads,
		       COUNT(*) FILTER (WHERE ` + qualifiedFilter + `) AS qualified
		FROM leads
		WHERE created_at >= $1 AND created_at < $2
		GROUP BY 1
		ORDER BY 1
	`
	rows, err := r.db.Query(ctx, query, start.UTC(), end.UTC())
	if err != nil {
		return nil, fmt.Errorf("dashboard stats: leads by day: %w", err)
	}
	defer rows.Close()

	var results []DayCount
	for rows.Next() {
		var day DayCount
		if err := rows.Scan(&day.Day, &day.Leads, &day.QualifiedLeads); err != nil {
			return nil, fmt.Errorf("dashboard stats: scan day: %w", err)
		}
		results = append(results, day)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("dashboard stats: iterate days: %w", err)
	}
	return results, nil
}
