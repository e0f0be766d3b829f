package search

import (
	"context"
	"errors"
)

// ErrPropertyNotFound indicates the requested listing does not exist.
var ErrPropertyNotFound = errors.New("search: property not found")

// Property is a full listing record.
type Property struct {
	ID           string   `json:"property_id"`
	Location     string   `json:"location"`
	Area         string   `json:"area,omitempty"`
	City         string   `json:"city,omitempty"`
	Bedrooms     int      `json:"bedrooms"`
	Bathrooms    int      `json:"bathrooms"`
	MonthlyRent  float64  `json:"monthly_rent"`
	YearlyRent   float64  `json:"yearly_rent"`
	Sqft         int      `json:"sqft,omitempty"`
	PropertyType string   `json:"property_type,omitempty"`
	Furnished    bool     `json:"furnished"`
	Parking      bool     `json:"parking"`
	Amenities    []string `json:"amenities,omitempty"`
	PetFriendly  bool     `json:"pet_friendly,omitempty"`
	URL          string   `json:"url,omitempty"`
	Description  string   `json:"description,omitempty"`
}

// Summary is a search hit: a listing plus its similarity score.
type Summary struct {
	Property
	Score float64 `json:"score"`
}

// Filters narrows a search to exact-match criteria. Fuzzy attributes
// (location vibes, amenity phrasing) are left to semantic ranking.
type Filters struct {
	Bedrooms       *int     `json:"bedrooms,omitempty"`
	Bathrooms      *int     `json:"bathrooms,omitempty"`
	MinMonthlyRent *float64 `json:"min_monthly_rent,omitempty"`
	MaxMonthlyRent *float64 `json:"max_monthly_rent,omitempty"`
	Furnished      *bool    `json:"furnished,omitempty"`
	Parking        *bool    `json:"parking,omitempty"`
	Amenities      []string `json:"amenities,omitempty"`
	City           string   `json:"city,omitempty"`
	Area           string   `json:"area,omitempty"`
}

// Empty reports whether no exact-match criteria are set.
func (f *Filters) Empty() bool {
	if f == nil {
		return true
	}
	return f.Bedrooms == nil && f.Bathrooms == nil &&
		f.MinMonthlyRent == nil && f.MaxMonthlyRent == nil &&
		f.Furnished == nil && f.Parking == nil &&
		len(f.Amenities) == 0 && f.City == "" && f.Area == ""
}

// Searcher finds listings by semantic query plus optional structured filters.
type Searcher interface {
	Search(ctx context.Context, query string, filters *Filters, limit int, scoreThreshold float64) ([]Summary, error)
}

// DetailFetcher resolves a single listing by ID.
type DetailFetcher interface {
	GetByID(ctx context.Context, propertyID string) (*Property, error)
}
