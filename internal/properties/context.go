package properties

import (
	"context"

	"github.com/Marser321/punta-360-sub001/internal/concierge"
)

// ContextSource exposes listing facts to the chat concierge.
type ContextSource struct {
	repo Repository
}

// NewContextSource wires the repository into the engine's property lookup.
func NewContextSource(repo Repository) *ContextSource {
	if repo == nil {
		panic("properties: repository required")
	}
	return &ContextSource{repo: repo}
}

// PropertyContext returns the prompt-ready view of a listing.
func (s *ContextSource) PropertyContext(ctx context.Context, propertyID string) (*concierge.PropertyContext, error) {
	property, err := s.repo.GetByID(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	return &concierge.PropertyContext{
		Title:     property.Title,
		Location:  property.Location,
		PriceUSD:  property.PriceUSD,
		Bedrooms:  property.Bedrooms,
		Bathrooms: property.Bathrooms,
		AreaM2:    float64(property.AreaM2),
		Summary:   property.Summary,
		Amenities: property.Amenities,
	}, nil
}
