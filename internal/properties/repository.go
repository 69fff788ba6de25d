package properties

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Repository defines the interface for property storage
type Repository interface {
	Create(ctx context.Context, req *CreatePropertyRequest) (*Property, error)
	GetByID(ctx context.Context, id string) (*Property, error)
	List(ctx context.Context, filter ListPropertiesFilter) ([]*Property, error)
	UpdateDescription(ctx context.Context, id, description string) error
	AddMediaURL(ctx context.Context, id, url string) error
}

// InMemoryRepository is an in-memory Repository used in tests and local runs.
type InMemoryRepository struct {
	mu         sync.RWMutex
	properties map[string]*Property
}

// NewInMemoryRepository creates a new in-memory repository
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		properties: make(map[string]*Property),
	}
}

// Create stores a new listing in memory
func (r *InMemoryRepository) Create(ctx context.Context, req *CreatePropertyRequest) (*Property, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	property := &Property{
		ID:        uuid.New().String(),
		Title:     req.Title,
		Location:  req.Location,
		PriceUSD:  req.PriceUSD,
		Bedrooms:  req.Bedrooms,
		Bathrooms: req.Bathrooms,
		AreaM2:    req.AreaM2,
		Summary:   req.Summary,
		Amenities: append([]string(nil), req.Amenities...),
		Published: req.Published,
		CreatedAt: now,
		UpdatedAt: now,
	}

	r.mu.Lock()
	r.properties[property.ID] = property
	r.mu.Unlock()

	return property, nil
}

// GetByID retrieves a property by ID
func (r *InMemoryRepository) GetByID(ctx context.Context, id string) (*Property, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	property, ok := r.properties[id]
	if !ok {
		return nil, ErrPropertyNotFound
	}

	copied := *property
	copied.Amenities = append([]string(nil), property.Amenities...)
	copied.MediaURLs = append([]string(nil), property.MediaURLs...)
	return &copied, nil
}

// List returns properties newest first, honoring the filter and paging.
func (r *InMemoryRepository) List(ctx context.Context, filter ListPropertiesFilter) ([]*Property, error) {
	r.mu.RLock()
	matched := make([]*Property, 0, len(r.properties))
	for _, property := range r.properties {
		if filter.PublishedOnly && !property.Published {
			continue
		}
		copied := *property
		matched = append(matched, &copied)
	}
	r.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	if filter.Offset >= len(matched) {
		return []*Property{}, nil
	}
	matched = matched[filter.Offset:]
	if filter.Limit > 0 && filter.Limit < len(matched) {
		matched = matched[:filter.Limit]
	}
	return matched, nil
}

// UpdateDescription replaces the listing's long-form description.
func (r *InMemoryRepository) UpdateDescription(ctx context.Context, id, description string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	property, ok := r.properties[id]
	if !ok {
		return ErrPropertyNotFound
	}
	property.Description = description
	property.UpdatedAt = time.Now().UTC()
	return nil
}

// AddMediaURL appends a stored photo or panorama URL to the listing.
func (r *InMemoryRepository) AddMediaURL(ctx context.Context, id, url string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	property, ok := r.properties[id]
	if !ok {
		return ErrPropertyNotFound
	}
	property.MediaURLs = append(property.MediaURLs, url)
	property.UpdatedAt = time.Now().UTC()
	return nil
}
