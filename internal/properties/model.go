package properties

import (
	"strings"
	"time"
)

// Property is a listing shown on the public site and referenced by chat
// sessions opened from its detail page.
type Property struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Location    string    `json:"location"`
	PriceUSD    int64     `json:"price_usd"`
	Bedrooms    int       `json:"bedrooms"`
	Bathrooms   int       `json:"bathrooms"`
	AreaM2      int       `json:"area_m2"`
	Summary     string    `json:"summary"`
	Description string    `json:"description"`
	Amenities   []string  `json:"amenities"`
	MediaURLs   []string  `json:"media_urls"`
	Published   bool      `json:"published"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreatePropertyRequest carries a new listing into the repository.
type CreatePropertyRequest struct {
	Title     string   `json:"title"`
	Location  string   `json:"location"`
	PriceUSD  int64    `json:"price_usd"`
	Bedrooms  int      `json:"bedrooms"`
	Bathrooms int      `json:"bathrooms"`
	AreaM2    int      `json:"area_m2"`
	Summary   string   `json:"summary"`
	Amenities []string `json:"amenities"`
	Published bool     `json:"published"`
}

// Validate checks the request before it reaches storage.
func (r *CreatePropertyRequest) Validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return ErrMissingTitle
	}
	if r.PriceUSD < 0 {
		return ErrInvalidPrice
	}
	return nil
}

// ListPropertiesFilter narrows and pages the public listing.
type ListPropertiesFilter struct {
	PublishedOnly bool
	Limit         int
	Offset        int
}
