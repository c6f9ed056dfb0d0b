package domain

import "time"

// PropertyType enumerates the kinds of property that can be listed.
type PropertyType string

const (
	TypeHouse      PropertyType = "HOUSE"
	TypeApartment  PropertyType = "APARTMENT"
	TypeLand       PropertyType = "LAND"
	TypeCommercial PropertyType = "COMMERCIAL"
	TypeVilla      PropertyType = "VILLA"
	TypeTownhouse  PropertyType = "TOWNHOUSE"
)

// IsValid checks if the property type is one of the recognized values.
func (t PropertyType) IsValid() bool {
	switch t {
	case TypeHouse, TypeApartment, TypeLand, TypeCommercial, TypeVilla, TypeTownhouse:
		return true
	}
	return false
}

// ListingType distinguishes sale listings from rentals.
type ListingType string

const (
	ListingSale ListingType = "SALE"
	ListingRent ListingType = "RENT"
)

// IsValid checks if the listing type is one of the recognized values.
func (t ListingType) IsValid() bool {
	return t == ListingSale || t == ListingRent
}

// PropertyStatus enumerates a listing's lifecycle states.
type PropertyStatus string

const (
	StatusAvailable   PropertyStatus = "AVAILABLE"
	StatusSold        PropertyStatus = "SOLD"
	StatusRented      PropertyStatus = "RENTED"
	StatusUnavailable PropertyStatus = "UNAVAILABLE"
)

// IsValid checks if the status is one of the recognized values.
func (s PropertyStatus) IsValid() bool {
	switch s {
	case StatusAvailable, StatusSold, StatusRented, StatusUnavailable:
		return true
	}
	return false
}

// Property represents a real-estate listing.
type Property struct {
	ID            string
	OwnerID       string
	Title         string
	Description   string
	PropertyType  PropertyType
	ListingType   ListingType
	Price         float64
	PricePerMonth *float64
	Address       string
	City          string
	Province      string
	ZipCode       string
	Latitude      *float64
	Longitude     *float64
	Bedrooms      *int
	Bathrooms     *int
	LandArea      *float64
	BuildingArea  *float64
	Floors        *int
	Garage        *int
	YearBuilt     *int
	Furnished     bool
	Certificate   string
	Status        PropertyStatus
	ViewCount     int64
	FavoriteCount int64
	PublishedAt   time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time

	// Hydrated by the usecase layer, not persisted on the property row.
	Owner  *OwnerSummary
	Images []*PropertyImage
}

// PropertyImage is a single gallery entry of a property.
type PropertyImage struct {
	ID         string
	PropertyID string
	URL        string
	Caption    string
	Category   string
	Order      int
	CreatedAt  time.Time
}

// Favorite links a user to a property they bookmarked. The (UserID,
// PropertyID) pair is unique.
type Favorite struct {
	ID         string
	UserID     string
	PropertyID string
	CreatedAt  time.Time
}

// ImageOrder is one entry of a gallery reorder request.
type ImageOrder struct {
	ImageID string
	Order   int
}
