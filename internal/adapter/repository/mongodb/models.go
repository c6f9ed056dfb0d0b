package mongodb

import (
	"time"

	"github.com/muhammadegaa/easyhome/internal/domain"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Document types mirror the domain entities with BSON field names. Domain
// IDs are the hex form of the Mongo ObjectID.

type userDocument struct {
	ID                primitive.ObjectID `bson:"_id,omitempty"`
	Email             string             `bson:"email"`
	PasswordHash      string             `bson:"password_hash"`
	Name              string             `bson:"name"`
	Phone             string             `bson:"phone,omitempty"`
	Role              string             `bson:"role"`
	IsVerified        bool               `bson:"is_verified"`
	VerificationToken string             `bson:"verification_token,omitempty"`
	Address           string             `bson:"address,omitempty"`
	City              string             `bson:"city,omitempty"`
	Province          string             `bson:"province,omitempty"`
	ZipCode           string             `bson:"zip_code,omitempty"`
	CompanyName       string             `bson:"company_name,omitempty"`
	MembershipTier    string             `bson:"membership_tier"`
	MembershipExpiry  *time.Time         `bson:"membership_expiry,omitempty"`
	CreatedAt         time.Time          `bson:"created_at"`
	UpdatedAt         time.Time          `bson:"updated_at"`
}

func fromDomainUser(u *domain.User) (*userDocument, error) {
	doc := &userDocument{
		Email:             u.Email,
		PasswordHash:      u.PasswordHash,
		Name:              u.Name,
		Phone:             u.Phone,
		Role:              string(u.Role),
		IsVerified:        u.IsVerified,
		VerificationToken: u.VerificationToken,
		Address:           u.Address,
		City:              u.City,
		Province:          u.Province,
		ZipCode:           u.ZipCode,
		CompanyName:       u.CompanyName,
		MembershipTier:    string(u.MembershipTier),
		MembershipExpiry:  u.MembershipExpiry,
		CreatedAt:         u.CreatedAt,
		UpdatedAt:         u.UpdatedAt,
	}
	if u.ID != "" {
		oid, err := primitive.ObjectIDFromHex(u.ID)
		if err != nil {
			return nil, domain.ErrInvalidInput
		}
		doc.ID = oid
	}
	return doc, nil
}

func (d *userDocument) toDomainUser() *domain.User {
	return &domain.User{
		ID:                d.ID.Hex(),
		Email:             d.Email,
		PasswordHash:      d.PasswordHash,
		Name:              d.Name,
		Phone:             d.Phone,
		Role:              domain.Role(d.Role),
		IsVerified:        d.IsVerified,
		VerificationToken: d.VerificationToken,
		Address:           d.Address,
		City:              d.City,
		Province:          d.Province,
		ZipCode:           d.ZipCode,
		CompanyName:       d.CompanyName,
		MembershipTier:    domain.MembershipTier(d.MembershipTier),
		MembershipExpiry:  d.MembershipExpiry,
		CreatedAt:         d.CreatedAt,
		UpdatedAt:         d.UpdatedAt,
	}
}

type propertyDocument struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	OwnerID       string             `bson:"owner_id"`
	Title         string             `bson:"title"`
	Description   string             `bson:"description"`
	PropertyType  string             `bson:"property_type"`
	ListingType   string             `bson:"listing_type"`
	Price         float64            `bson:"price"`
	PricePerMonth *float64           `bson:"price_per_month,omitempty"`
	Address       string             `bson:"address"`
	City          string             `bson:"city"`
	Province      string             `bson:"province"`
	ZipCode       string             `bson:"zip_code,omitempty"`
	Latitude      *float64           `bson:"latitude,omitempty"`
	Longitude     *float64           `bson:"longitude,omitempty"`
	Bedrooms      *int               `bson:"bedrooms,omitempty"`
	Bathrooms     *int               `bson:"bathrooms,omitempty"`
	LandArea      *float64           `bson:"land_area,omitempty"`
	BuildingArea  *float64           `bson:"building_area,omitempty"`
	Floors        *int               `bson:"floors,omitempty"`
	Garage        *int               `bson:"garage,omitempty"`
	YearBuilt     *int               `bson:"year_built,omitempty"`
	Furnished     bool               `bson:"furnished"`
	Certificate   string             `bson:"certificate,omitempty"`
	Status        string             `bson:"status"`
	ViewCount     int64              `bson:"view_count"`
	FavoriteCount int64              `bson:"favorite_count"`
	PublishedAt   time.Time          `bson:"published_at"`
	CreatedAt     time.Time          `bson:"created_at"`
	UpdatedAt     time.Time          `bson:"updated_at"`
}

func fromDomainProperty(p *domain.Property) (*propertyDocument, error) {
	doc := &propertyDocument{
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
	}
	if p.ID != "" {
		oid, err := primitive.ObjectIDFromHex(p.ID)
		if err != nil {
			return nil, domain.ErrInvalidInput
		}
		doc.ID = oid
	}
	return doc, nil
}

func (d *propertyDocument) toDomainProperty() *domain.Property {
	return &domain.Property{
		ID:            d.ID.Hex(),
		OwnerID:       d.OwnerID,
		Title:         d.Title,
		Description:   d.Description,
		PropertyType:  domain.PropertyType(d.PropertyType),
		ListingType:   domain.ListingType(d.ListingType),
		Price:         d.Price,
		PricePerMonth: d.PricePerMonth,
		Address:       d.Address,
		City:          d.City,
		Province:      d.Province,
		ZipCode:       d.ZipCode,
		Latitude:      d.Latitude,
		Longitude:     d.Longitude,
		Bedrooms:      d.Bedrooms,
		Bathrooms:     d.Bathrooms,
		LandArea:      d.LandArea,
		BuildingArea:  d.BuildingArea,
		Floors:        d.Floors,
		Garage:        d.Garage,
		YearBuilt:     d.YearBuilt,
		Furnished:     d.Furnished,
		Certificate:   d.Certificate,
		Status:        domain.PropertyStatus(d.Status),
		ViewCount:     d.ViewCount,
		FavoriteCount: d.FavoriteCount,
		PublishedAt:   d.PublishedAt,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
}

type imageDocument struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	PropertyID string             `bson:"property_id"`
	URL        string             `bson:"url"`
	Caption    string             `bson:"caption,omitempty"`
	Category   string             `bson:"category,omitempty"`
	Order      int                `bson:"order"`
	CreatedAt  time.Time          `bson:"created_at"`
}

func fromDomainImage(img *domain.PropertyImage) (*imageDocument, error) {
	doc := &imageDocument{
		PropertyID: img.PropertyID,
		URL:        img.URL,
		Caption:    img.Caption,
		Category:   img.Category,
		Order:      img.Order,
		CreatedAt:  img.CreatedAt,
	}
	if img.ID != "" {
		oid, err := primitive.ObjectIDFromHex(img.ID)
		if err != nil {
			return nil, domain.ErrInvalidInput
		}
		doc.ID = oid
	}
	return doc, nil
}

func (d *imageDocument) toDomainImage() *domain.PropertyImage {
	return &domain.PropertyImage{
		ID:         d.ID.Hex(),
		PropertyID: d.PropertyID,
		URL:        d.URL,
		Caption:    d.Caption,
		Category:   d.Category,
		Order:      d.Order,
		CreatedAt:  d.CreatedAt,
	}
}

type favoriteDocument struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	UserID     string             `bson:"user_id"`
	PropertyID string             `bson:"property_id"`
	CreatedAt  time.Time          `bson:"created_at"`
}
