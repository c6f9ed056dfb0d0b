package domain

import (
	"net/url"
	"strconv"
	"strings"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// sortableFields is the whitelist of fields a client may sort by. Keys are
// the public query-parameter names; each backend maps them to its own
// column or document field.
var sortableFields = map[string]bool{
	"createdAt":     true,
	"publishedAt":   true,
	"price":         true,
	"viewCount":     true,
	"favoriteCount": true,
	"bedrooms":      true,
	"bathrooms":     true,
	"landArea":      true,
	"buildingArea":  true,
	"yearBuilt":     true,
	"title":         true,
}

// PropertyFilter is the normalized search predicate applied by both
// repository backends. Zero values and nil pointers mean "no constraint".
type PropertyFilter struct {
	Search       string
	PropertyType PropertyType
	ListingType  ListingType
	City         string
	Province     string
	MinPrice     *float64
	MaxPrice     *float64
	MinBedrooms  *int
	MinBathrooms *int
	Status       PropertyStatus
	OwnerID      string
	SortBy       string
	SortOrder    string
	Page         int
	Limit        int
}

// Offset returns the number of records to skip for the requested page.
func (f PropertyFilter) Offset() int {
	return (f.Page - 1) * f.Limit
}

// ParsePropertyFilter normalizes the raw query bag of a public search into a
// PropertyFilter. Public searches only ever see AVAILABLE listings. Blank
// parameters and numbers that fail to parse are treated as absent, and
// paging is clamped to sane bounds rather than rejected.
func ParsePropertyFilter(q url.Values) PropertyFilter {
	f := PropertyFilter{Status: StatusAvailable}
	f.applyQuery(q)
	return f
}

// ParseOwnerFilter normalizes the query bag of an owner's "my listings"
// view. The owner sees all of their listings regardless of status unless an
// explicit valid status parameter narrows it.
func ParseOwnerFilter(ownerID string, q url.Values) PropertyFilter {
	f := PropertyFilter{OwnerID: ownerID}
	if s := PropertyStatus(strings.TrimSpace(q.Get("status"))); s.IsValid() {
		f.Status = s
	}
	f.applyQuery(q)
	return f
}

func (f *PropertyFilter) applyQuery(q url.Values) {
	f.Search = strings.TrimSpace(q.Get("search"))
	f.City = strings.TrimSpace(q.Get("city"))
	f.Province = strings.TrimSpace(q.Get("province"))

	if pt := PropertyType(strings.TrimSpace(q.Get("propertyType"))); pt.IsValid() {
		f.PropertyType = pt
	}
	if lt := ListingType(strings.TrimSpace(q.Get("listingType"))); lt.IsValid() {
		f.ListingType = lt
	}

	f.MinPrice = parseFloatParam(q.Get("minPrice"))
	f.MaxPrice = parseFloatParam(q.Get("maxPrice"))
	f.MinBedrooms = parseIntParam(q.Get("bedrooms"))
	f.MinBathrooms = parseIntParam(q.Get("bathrooms"))

	f.SortBy = "createdAt"
	if sb := strings.TrimSpace(q.Get("sortBy")); sortableFields[sb] {
		f.SortBy = sb
	}
	f.SortOrder = "desc"
	if strings.EqualFold(strings.TrimSpace(q.Get("sortOrder")), "asc") {
		f.SortOrder = "asc"
	}

	f.Page = 1
	if p := parseIntParam(q.Get("page")); p != nil && *p > 1 {
		f.Page = *p
	}
	f.Limit = DefaultPageSize
	if l := parseIntParam(q.Get("limit")); l != nil && *l > 0 {
		f.Limit = *l
		if f.Limit > MaxPageSize {
			f.Limit = MaxPageSize
		}
	}
}

func parseFloatParam(raw string) *float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &v
}

func parseIntParam(raw string) *int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}
	return &v
}

// TotalPages computes the last page number for a result set.
func TotalPages(total int64, limit int) int {
	if limit <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}
