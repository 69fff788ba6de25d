package properties

import (
	"context"
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

// PostgresRepository stores properties in the relational database.
type PostgresRepository struct {
	pool Querier
}

// NewPostgresRepository initializes a repo backed by pgxpool.
func NewPostgresRepository(pool Querier) *PostgresRepository {
	if pool == nil {
		panic("properties: pgx pool required")
	}
	return &PostgresRepository{pool: pool}
}

const propertyColumns = `id, title, location, price_usd, bedrooms, bathrooms, area_m2,
	summary, COALESCE(description, ''), amenities, media_urls, published, created_at, updated_at`

// Create inserts a new row.
func (r *PostgresRepository) Create(ctx context.Context, req *CreatePropertyRequest) (*Property, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	id := uuid.New()
	query := `
		INSERT INTO properties (id, title, location, price_usd, bedrooms, bathrooms, area_m2, summary, amenities, published)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at, updated_at
	`
	var createdAt, updatedAt time.Time
	if err := r.pool.QueryRow(ctx, query,
		id,
		req.Title,
		req.Location,
		req.PriceUSD,
		req.Bedrooms,
		req.Bathrooms,
		req.AreaM2,
		req.Summary,
		req.Amenities,
		req.Published,
	).Scan(&createdAt, &updatedAt); err != nil {
		return nil, fmt.Errorf("properties: insert failed: %w", err)
	}

	return &Property{
		ID:        id.String(),
		Title:     req.Title,
		Location:  req.Location,
		PriceUSD:  req.PriceUSD,
		Bedrooms:  req.Bedrooms,
		Bathrooms: req.Bathrooms,
		AreaM2:    req.AreaM2,
		Summary:   req.Summary,
		Amenities: req.Amenities,
		Published: req.Published,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}, nil
}

// GetByID fetches a single property.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*Property, error) {
	query := `SELECT ` + propertyColumns + ` FROM properties WHERE id = $1`
	property, err := scanProperty(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrPropertyNotFound
		}
		return nil, fmt.Errorf("properties: select failed: %w", err)
	}
	return property, nil
}

// List returns properties newest first, honoring the filter and paging.
func (r *PostgresRepository) List(ctx context.Context, filter ListPropertiesFilter) ([]*Property, error) {
	query := `
		SELECT ` + propertyColumns + `
		FROM properties
		WHERE ($1 = false OR published = true)
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.pool.Query(ctx, query, filter.PublishedOnly, limit, filter.Offset)
	if err != nil {
		return nil, fmt.Errorf("properties: list failed: %w", err)
	}
	defer rows.Close()

	list := make([]*Property, 0, limit)
	for rows.Next() {
		property, err := scanProperty(rows)
		if err != nil {
			return nil, fmt.Errorf("properties: scan failed: %w", err)
		}
		list = append(list, property)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("properties: list failed: %w", err)
	}
	return list, nil
}

// UpdateDescription replaces the listing's long-form description.
func (r *PostgresRepository) UpdateDescription(ctx context.Context, id, description string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE properties SET description = $2, updated_at = now() WHERE id = $1`,
		id, description,
	)
	if err != nil {
		return fmt.Errorf("properties: update description failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrPropertyNotFound
	}
	return nil
}

// AddMediaURL appends a stored photo or panorama URL to the listing.
func (r *PostgresRepository) AddMediaURL(ctx context.Context, id, url string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE properties SET media_urls = array_append(media_urls, $2), updated_at = now() WHERE id = $1`,
		id, url,
	)
	if err != nil {
		return fmt.Errorf("properties: add media failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrPropertyNotFound
	}
	return nil
}

func scanProperty(row pgx.Row) (*Property, error) {
	var p Property
	if err := row.Scan(
		&p.ID,
		&p.Title,
		&p.Location,
		&p.PriceUSD,
		&p.Bedrooms,
		&p.Bathrooms,
		&p.AreaM2,
		&p.Summary,
		&p.Description,
		&p.Amenities,
		&p.MediaURLs,
		&p.Published,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &p, nil
}
