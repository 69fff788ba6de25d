package dashboard

import (
	"context"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
)

func TestGetStats(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM leads$`).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(42)))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM leads WHERE is_read = false`).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(5)))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM leads WHERE created_at >= date_trunc`).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(3)))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM leads WHERE intent_data`).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(17)))

	repo := NewStatsRepository(mock)
	start := time.Date(2026, 8, 23, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 7)

	stats, err := repo.GetStats(context.Background(), start, end)
	if err != nil {
		t.Fatalf("GetStats failed: %v", err)
	}

	if stats.TotalLeads != 42 {
		t.Errorf("TotalLeads = %d, want 42", stats.TotalLeads)
	}
	if stats.UnreadLeads != 5 {
		t.Errorf("UnreadLeads = %d, want 5", stats.UnreadLeads)
	}
	if stats.LeadsToday != 3 {
		t.Errorf("LeadsToday = %d, want 3", stats.LeadsToday)
	}
	if stats.QualifiedLeads != 17 {
		t.Errorf("QualifiedLeads = %d, want 17", stats.QualifiedLeads)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestLeadsByDay(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	start := time.Date(2026, 8, 23, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 3)

	rows := pgxmock.NewRows([]string{"day", "leads", "qualified"}).
		AddRow("2026-08-23", int64(2), int64(1)).
		AddRow("2026-08-25", int64(4), int64(4))

	mock.ExpectQuery(`SELECT to_char\(date_trunc\('day', created_at\)`).
		WithArgs(start, end).
		WillReturnRows(rows)

	repo := NewStatsRepository(mock)
	byDay, err := repo.LeadsByDay(context.Background(), start, end)
	if err != nil {
		t.Fatalf("LeadsByDay failed: %v", err)
	}
	if len(byDay) != 2 {
		t.Fatalf("expected 2 days, got %d", len(byDay))
	}
	if byDay[1].Day != "2026-08-25" || byDay[1].QualifiedLeads != 4 {
		t.Errorf("unexpected day row: %+v", byDay[1])
	}
}
