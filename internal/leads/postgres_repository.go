package leads

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Querier is the slice of pgxpool.Pool the repository needs; pgxmock
// satisfies it in tests.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresRepository stores leads in the relational database.
type PostgresRepository struct {
	pool Querier
}

// NewPostgresRepository initializes a repo backed by pgxpool.
func NewPostgresRepository(pool Querier) *PostgresRepository {
	if pool == nil {
		panic("leads: pgx pool required")
	}
	return &PostgresRepository{pool: pool}
}

// Create inserts a new row, serializing the qualification data as JSONB.
func (r *PostgresRepository) Create(ctx context.Context, req *CreateLeadRequest) (*Lead, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	intentData, err := json.Marshal(req.IntentData)
	if err != nil {
		return nil, fmt.Errorf("leads: marshal intent data failed: %w", err)
	}

	id := uuid.New()
	query := `
		INSERT INTO leads (id, property_id, visitor_contact, visitor_name, intent_data)
		VALUES ($1, NULLIF($2, ''), $3, $4, $5)
		RETURNING created_at
	`
	var createdAt time.Time
	if err := r.pool.QueryRow(ctx, query,
		id,
		req.PropertyID,
		req.VisitorContact,
		req.VisitorName,
		intentData,
	).Scan(&createdAt); err != nil {
		return nil, fmt.Errorf("leads: insert failed: %w", err)
	}

	return &Lead{
		ID:             id.String(),
		PropertyID:     req.PropertyID,
		VisitorContact: req.VisitorContact,
		VisitorName:    req.VisitorName,
		IntentData:     req.IntentData,
		CreatedAt:      createdAt,
	}, nil
}

// GetByID fetches a single lead.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*Lead, error) {
	query := `
		SELECT id, COALESCE(property_id::text, ''), visitor_contact, visitor_name, intent_data, is_read, created_at
		FROM leads
		WHERE id = $1
	`
	lead, err := scanLead(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrLeadNotFound
		}
		return nil, fmt.Errorf("leads: select failed: %w", err)
	}
	return lead, nil
}

// List returns leads newest first, honoring the filter and paging.
func (r *PostgresRepository) List(ctx context.Context, filter ListLeadsFilter) ([]*Lead, error) {
	query := `
		SELECT id, COALESCE(property_id::text, ''), visitor_contact, visitor_name, intent_data, is_read, created_at
		FROM leads
		WHERE ($1 = false OR is_read = false)
		  AND ($2 = '' OR property_id::text = $2)
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4
	`
	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.pool.Query(ctx, query, filter.UnreadOnly, filter.PropertyID, limit, filter.Offset)
	if err != nil {
		return nil, fmt.Errorf("leads: list failed: %w", err)
	}
	defer rows.Close()

	leads := make([]*Lead, 0, limit)
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, fmt.Errorf("leads: scan failed: %w", err)
		}
		leads = append(leads, lead)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("leads: list failed: %w", err)
	}
	return leads, nil
}

// MarkRead flags a lead as handled by an advisor.
func (r *PostgresRepository) MarkRead(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE leads SET is_read = true WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("leads: mark read failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrLeadNotFound
	}
	return nil
}

// UnreadCount reports how many leads no advisor has opened yet.
func (r *PostgresRepository) UnreadCount(ctx context.Context) (int, error) {
	var count int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM leads WHERE is_read = false`).Scan(&count); err != nil {
		return 0, fmt.Errorf("leads: unread count failed: %w", err)
	}
	return count, nil
}

func scanLead(row pgx.Row) (*Lead, error) {
	var lead Lead
	var intentData []byte
	if err := row.Scan(
		&lead.ID,
		&lead.PropertyID,
		&lead.VisitorContact,
		&lead.VisitorName,
		&intentData,
		&lead.IsRead,
		&lead.CreatedAt,
	); err != nil {
		return nil, err
	}
	if len(intentData) > 0 {
		if err := json.Unmarshal(intentData, &lead.IntentData); err != nil {
			return nil, fmt.Errorf("decode intent data: %w", err)
		}
	}
	return &lead, nil
}
