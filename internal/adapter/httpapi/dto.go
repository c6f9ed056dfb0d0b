package httpapi

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/muhammadegaa/easyhome/internal/domain"
	"github.com/muhammadegaa/easyhome/internal/usecase"
)

// flexFloat accepts a JSON number or a numeric string. Blank or
// unparseable strings are treated as absent, matching how lenient clients
// send form-sourced numbers.
type flexFloat struct {
	value *float64
}

func (f *flexFloat) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}
	var num float64
	if err := json.Unmarshal(b, &num); err == nil {
		f.value = &num
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		s = strings.TrimSpace(s)
		if s == "" {
			return nil
		}
		if v, err := strconv.ParseFloat(s, 64); err == nil {
			f.value = &v
		}
		return nil
	}
	return nil
}

// flexInt accepts a JSON number or a numeric string, like flexFloat.
type flexInt struct {
	value *int
}

func (f *flexInt) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}
	var num float64
	if err := json.Unmarshal(b, &num); err == nil {
		v := int(num)
		f.value = &v
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		s = strings.TrimSpace(s)
		if s == "" {
			return nil
		}
		if v, err := strconv.Atoi(s); err == nil {
			f.value = &v
		}
		return nil
	}
	return nil
}

// flexBool accepts a JSON bool or a "true"/"false" string.
type flexBool struct {
	value *bool
}

func (f *flexBool) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}
	var v bool
	if err := json.Unmarshal(b, &v); err == nil {
		f.value = &v
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		if parsed, err := strconv.ParseBool(strings.TrimSpace(s)); err == nil {
			f.value = &parsed
		}
		return nil
	}
	return nil
}

type registerRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	Name        string `json:"name"`
	Phone       string `json:"phone"`
	Role        string `json:"role"`
	CompanyName string `json:"companyName"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type updateProfileRequest struct {
	Name        *string `json:"name"`
	Phone       *string `json:"phone"`
	Address     *string `json:"address"`
	City        *string `json:"city"`
	Province    *string `json:"province"`
	ZipCode     *string `json:"zipCode"`
	CompanyName *string `json:"companyName"`
}

type propertyRequest struct {
	Title         *string   `json:"title"`
	Description   *string   `json:"description"`
	PropertyType  *string   `json:"propertyType"`
	ListingType   *string   `json:"listingType"`
	Price         flexFloat `json:"price"`
	PricePerMonth flexFloat `json:"pricePerMonth"`
	Address       *string   `json:"address"`
	City          *string   `json:"city"`
	Province      *string   `json:"province"`
	ZipCode       *string   `json:"zipCode"`
	Latitude      flexFloat `json:"latitude"`
	Longitude     flexFloat `json:"longitude"`
	Bedrooms      flexInt   `json:"bedrooms"`
	Bathrooms     flexInt   `json:"bathrooms"`
	LandArea      flexFloat `json:"landArea"`
	BuildingArea  flexFloat `json:"buildingArea"`
	Floors        flexInt   `json:"floors"`
	Garage        flexInt   `json:"garage"`
	YearBuilt     flexInt   `json:"yearBuilt"`
	Furnished     flexBool  `json:"furnished"`
	Certificate   *string   `json:"certificate"`
	Status        *string   `json:"status"`
}

func (r *propertyRequest) toInput() usecase.PropertyInput {
	return usecase.PropertyInput{
		Title:         r.Title,
		Description:   r.Description,
		PropertyType:  r.PropertyType,
		ListingType:   r.ListingType,
		Price:         r.Price.value,
		PricePerMonth: r.PricePerMonth.value,
		Address:       r.Address,
		City:          r.City,
		Province:      r.Province,
		ZipCode:       r.ZipCode,
		Latitude:      r.Latitude.value,
		Longitude:     r.Longitude.value,
		Bedrooms:      r.Bedrooms.value,
		Bathrooms:     r.Bathrooms.value,
		LandArea:      r.LandArea.value,
		BuildingArea:  r.BuildingArea.value,
		Floors:        r.Floors.value,
		Garage:        r.Garage.value,
		YearBuilt:     r.YearBuilt.value,
		Furnished:     r.Furnished.value,
		Certificate:   r.Certificate,
		Status:        r.Status,
	}
}

type reorderRequest struct {
	Images []struct {
		ID    string `json:"id"`
		Order int    `json:"order"`
	} `json:"images"`
}

type updateImageRequest struct {
	Caption  *string `json:"caption"`
	Category *string `json:"category"`
}

type userResponse struct {
	ID             string     `json:"id"`
	Email          string     `json:"email"`
	Name           string     `json:"name"`
	Phone          string     `json:"phone,omitempty"`
	Role           string     `json:"role"`
	IsVerified     bool       `json:"isVerified"`
	Address        string     `json:"address,omitempty"`
	City           string     `json:"city,omitempty"`
	Province       string     `json:"province,omitempty"`
	ZipCode        string     `json:"zipCode,omitempty"`
	CompanyName    string     `json:"companyName,omitempty"`
	MembershipTier string     `json:"membershipTier"`
	MembershipEnd  *time.Time `json:"membershipExpiry,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
}

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:             u.ID,
		Email:          u.Email,
		Name:           u.Name,
		Phone:          u.Phone,
		Role:           string(u.Role),
		IsVerified:     u.IsVerified,
		Address:        u.Address,
		City:           u.City,
		Province:       u.Province,
		ZipCode:        u.ZipCode,
		CompanyName:    u.CompanyName,
		MembershipTier: string(u.MembershipTier),
		MembershipEnd:  u.MembershipExpiry,
		CreatedAt:      u.CreatedAt,
	}
}

type imageResponse struct {
	ID         string    `json:"id"`
	PropertyID string    `json:"propertyId"`
	URL        string    `json:"url"`
	Caption    string    `json:"caption,omitempty"`
	Category   string    `json:"category,omitempty"`
	Order      int       `json:"order"`
	CreatedAt  time.Time `json:"createdAt"`
}

func toImageResponse(img *domain.PropertyImage) imageResponse {
	return imageResponse{
		ID:         img.ID,
		PropertyID: img.PropertyID,
		URL:        img.URL,
		Caption:    img.Caption,
		Category:   img.Category,
		Order:      img.Order,
		CreatedAt:  img.CreatedAt,
	}
}

func toImageResponses(images []*domain.PropertyImage) []imageResponse {
	out := make([]imageResponse, len(images))
	for i, img := range images {
		out[i] = toImageResponse(img)
	}
	return out
}

type propertyResponse struct {
	ID            string               `json:"id"`
	OwnerID       string               `json:"ownerId"`
	Title         string               `json:"title"`
	Description   string               `json:"description"`
	PropertyType  string               `json:"propertyType"`
	ListingType   string               `json:"listingType"`
	Price         float64              `json:"price"`
	PricePerMonth *float64             `json:"pricePerMonth,omitempty"`
	Address       string               `json:"address"`
	City          string               `json:"city"`
	Province      string               `json:"province"`
	ZipCode       string               `json:"zipCode,omitempty"`
	Latitude      *float64             `json:"latitude,omitempty"`
	Longitude     *float64             `json:"longitude,omitempty"`
	Bedrooms      *int                 `json:"bedrooms,omitempty"`
	Bathrooms     *int                 `json:"bathrooms,omitempty"`
	LandArea      *float64             `json:"landArea,omitempty"`
	BuildingArea  *float64             `json:"buildingArea,omitempty"`
	Floors        *int                 `json:"floors,omitempty"`
	Garage        *int                 `json:"garage,omitempty"`
	YearBuilt     *int                 `json:"yearBuilt,omitempty"`
	Furnished     bool                 `json:"furnished"`
	Certificate   string               `json:"certificate,omitempty"`
	Status        string               `json:"status"`
	ViewCount     int64                `json:"viewCount"`
	FavoriteCount int64                `json:"favoriteCount"`
	PublishedAt   time.Time            `json:"publishedAt"`
	CreatedAt     time.Time            `json:"createdAt"`
	UpdatedAt     time.Time            `json:"updatedAt"`
	Owner         *domain.OwnerSummary `json:"owner,omitempty"`
	Images        []imageResponse      `json:"images,omitempty"`
}

func toPropertyResponse(p *domain.Property) propertyResponse {
	return propertyResponse{
		ID:            p.ID,
		OwnerID:       p.OwnerID,
		Title:         p.Title,
		Description:   p.Description,
		PropertyType:  string(p.PropertyType),
		ListingType:   string(p.ListingType),
		Price:         p.Price,
		PricePerMonth: p.PricePerMonth,
		Address:       p.Address,
		City:          p.City,
		Province:      p.Province,
		ZipCode:       p.ZipCode,
		Latitude:      p.Latitude,
		Longitude:     p.Longitude,
		Bedrooms:      p.Bedrooms,
		Bathrooms:     p.Bathrooms,
		LandArea:      p.LandArea,
		BuildingArea:  p.BuildingArea,
		Floors:        p.Floors,
		Garage:        p.Garage,
		YearBuilt:     p.YearBuilt,
		Furnished:     p.Furnished,
		Certificate:   p.Certificate,
		Status:        string(p.Status),
		ViewCount:     p.ViewCount,
		FavoriteCount: p.FavoriteCount,
		PublishedAt:   p.PublishedAt,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
		Owner:         p.Owner,
		Images:        toImageResponses(p.Images),
	}
}

type paginationResponse struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

type propertyListResponse struct {
	Properties []propertyResponse `json:"properties"`
	Pagination paginationResponse `json:"pagination"`
}

func toPropertyListResponse(page *usecase.PropertyPage) propertyListResponse {
	properties := make([]propertyResponse, len(page.Items))
	for i, p := range page.Items {
		properties[i] = toPropertyResponse(p)
	}
	return propertyListResponse{
		Properties: properties,
		Pagination: paginationResponse{
			Page:       page.Page,
			Limit:      page.Limit,
			Total:      page.Total,
			TotalPages: page.TotalPages,
		},
	}
}
