package leads

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"

	"github.com/Marser321/punta-360-sub001/internal/leadchat"
)

func TestPostgresCreateSerializesIntentData(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	snapshot := leadchat.IntentSnapshot{
		Intent:   "Inversión",
		Timeline: "Próximos 3 meses",
		Budget:   "> 500k",
	}
	intentJSON, _ := json.Marshal(snapshot)
	createdAt := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`INSERT INTO leads`).
		WithArgs(pgxmock.AnyArg(), "prop-1", "ana@mail.com", "Visitante a1b2c3", intentJSON).
		WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(createdAt))

	repo := NewPostgresRepository(mock)
	lead, err := repo.Create(context.Background(), &CreateLeadRequest{
		PropertyID:     "prop-1",
		VisitorContact: "ana@mail.com",
		VisitorName:    "Visitante a1b2c3",
		IntentData:     snapshot,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if lead.IntentData != snapshot {
		t.Errorf("IntentData = %+v, want %+v", lead.IntentData, snapshot)
	}
	if !lead.CreatedAt.Equal(createdAt) {
		t.Errorf("CreatedAt = %v, want %v", lead.CreatedAt, createdAt)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresCreateRejectsEmptyContact(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	repo := NewPostgresRepository(mock)
	if _, err := repo.Create(context.Background(), &CreateLeadRequest{VisitorContact: "   "}); !errors.Is(err, ErrMissingContact) {
		t.Fatalf("expected ErrMissingContact, got %v", err)
	}
}

func TestPostgresListDecodesIntentData(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	intentJSON := []byte(`{"intent":"Vivir","timeline":"Este mes","budget":"< 300k"}`)
	rows := pgxmock.NewRows([]string{"id", "property_id", "visitor_contact", "visitor_name", "intent_data", "is_read", "created_at"}).
		AddRow("lead-1", "prop-1", "59899111222", "Visitante 9f0a1b", intentJSON, false, time.Now().UTC())

	mock.ExpectQuery(`SELECT .+ FROM leads`).
		WithArgs(true, "", 50, 0).
		WillReturnRows(rows)

	repo := NewPostgresRepository(mock)
	leads, err := repo.List(context.Background(), ListLeadsFilter{UnreadOnly: true})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(leads) != 1 {
		t.Fatalf("expected 1 lead, got %d", len(leads))
	}
	if leads[0].IntentData.Intent != "Vivir" || leads[0].IntentData.Budget != "< 300k" {
		t.Errorf("intent data not decoded: %+v", leads[0].IntentData)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresMarkReadNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectExec(`UPDATE leads SET is_read = true`).
		WithArgs("missing").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	repo := NewPostgresRepository(mock)
	if err := repo.MarkRead(context.Background(), "missing"); !errors.Is(err, ErrLeadNotFound) {
		t.Fatalf("expected ErrLeadNotFound, got %v", err)
	}
}

func TestPostgresUnreadCount(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM leads WHERE is_read = false`).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(7))

	repo := NewPostgresRepository(mock)
	count, err := repo.UnreadCount(context.Background())
	if err != nil {
		t.Fatalf("UnreadCount failed: %v", err)
	}
	if count != 7 {
		t.Errorf("count = %d, want 7", count)
	}
}
