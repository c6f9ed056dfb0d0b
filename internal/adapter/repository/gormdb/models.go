package gormdb

import (
	"time"

	"github.com/muhammadegaa/easyhome/internal/domain"
)

// Models mirror the domain entities with GORM column definitions. Domain IDs
// are UUID strings assigned by the repositories on insert.

type UserModel struct {
	ID                string `gorm:"primaryKey;size:36"`
	Email             string `gorm:"uniqueIndex;size:255;not null"`
	PasswordHash      string `gorm:"size:255;not null"`
	Name              string `gorm:"size:255;not null"`
	Phone             string `gorm:"size:64"`
	Role              string `gorm:"size:32;not null"`
	IsVerified        bool   `gorm:"not null;default:false"`
	VerificationToken string `gorm:"size:64;index"`
	Address           string `gorm:"size:255"`
	City              string `gorm:"size:128"`
	Province          string `gorm:"size:128"`
	ZipCode           string `gorm:"size:16"`
	CompanyName       string `gorm:"size:255"`
	MembershipTier    string `gorm:"size:32;not null;default:NONE"`
	MembershipExpiry  *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (UserModel) TableName() string { return "users" }

func fromDomainUser(u *domain.User) *UserModel {
	return &UserModel{
		ID:                u.ID,
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
}

func (m *UserModel) toDomainUser() *domain.User {
	return &domain.User{
		ID:                m.ID,
		Email:             m.Email,
		PasswordHash:      m.PasswordHash,
		Name:              m.Name,
		Phone:             m.Phone,
		Role:              domain.Role(m.Role),
		IsVerified:        m.IsVerified,
		VerificationToken: m.VerificationToken,
		Address:           m.Address,
		City:              m.City,
		Province:          m.Province,
		ZipCode:           m.ZipCode,
		CompanyName:       m.CompanyName,
		MembershipTier:    domain.MembershipTier(m.MembershipTier),
		MembershipExpiry:  m.MembershipExpiry,
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
}

type PropertyModel struct {
	ID            string `gorm:"primaryKey;size:36"`
	OwnerID       string `gorm:"size:36;not null;index"`
	Title         string `gorm:"size:255;not null"`
	Description   string `gorm:"type:text;not null"`
	PropertyType  string `gorm:"size:32;not null;index"`
	ListingType   string `gorm:"size:16;not null;index"`
	Price         float64 `gorm:"not null;index"`
	PricePerMonth *float64
	Address       string `gorm:"size:255;not null"`
	City          string `gorm:"size:128;not null;index"`
	Province      string `gorm:"size:128;not null"`
	ZipCode       string `gorm:"size:16"`
	Latitude      *float64
	Longitude     *float64
	Bedrooms      *int
	Bathrooms     *int
	LandArea      *float64
	BuildingArea  *float64
	Floors        *int
	Garage        *int
	YearBuilt     *int
	Furnished     bool   `gorm:"not null;default:false"`
	Certificate   string `gorm:"size:64"`
	Status        string `gorm:"size:32;not null;index"`
	ViewCount     int64  `gorm:"not null;default:0"`
	FavoriteCount int64  `gorm:"not null;default:0"`
	PublishedAt   time.Time
	CreatedAt     time.Time `gorm:"index"`
	UpdatedAt     time.Time
}

func (PropertyModel) TableName() string { return "properties" }

func fromDomainProperty(p *domain.Property) *PropertyModel {
	return &PropertyModel{
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
	}
}

func (m *PropertyModel) toDomainProperty() *domain.Property {
	return &domain.Property{
		ID:            m.ID,
		OwnerID:       m.OwnerID,
		Title:         m.Title,
		Description:   m.Description,
		PropertyType:  domain.PropertyType(m.PropertyType),
		ListingType:   domain.ListingType(m.ListingType),
		Price:         m.Price,
		PricePerMonth: m.PricePerMonth,
		Address:       m.Address,
		City:          m.City,
		Province:      m.Province,
		ZipCode:       m.ZipCode,
		Latitude:      m.Latitude,
		Longitude:     m.Longitude,
		Bedrooms:      m.Bedrooms,
		Bathrooms:     m.Bathrooms,
		LandArea:      m.LandArea,
		BuildingArea:  m.BuildingArea,
		Floors:        m.Floors,
		Garage:        m.Garage,
		YearBuilt:     m.YearBuilt,
		Furnished:     m.Furnished,
		Certificate:   m.Certificate,
		Status:        domain.PropertyStatus(m.Status),
		ViewCount:     m.ViewCount,
		FavoriteCount: m.FavoriteCount,
		PublishedAt:   m.PublishedAt,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

type PropertyImageModel struct {
	ID         string `gorm:"primaryKey;size:36"`
	PropertyID string `gorm:"size:36;not null;index:idx_property_order"`
	URL        string `gorm:"size:512;not null"`
	Caption    string `gorm:"size:255"`
	Category   string `gorm:"size:64"`
	Order      int    `gorm:"column:image_order;not null;index:idx_property_order"`
	CreatedAt  time.Time
}

func (PropertyImageModel) TableName() string { return "property_images" }

func fromDomainImage(img *domain.PropertyImage) *PropertyImageModel {
	return &PropertyImageModel{
		ID:         img.ID,
		PropertyID: img.PropertyID,
		URL:        img.URL,
		Caption:    img.Caption,
		Category:   img.Category,
		Order:      img.Order,
		CreatedAt:  img.CreatedAt,
	}
}

func (m *PropertyImageModel) toDomainImage() *domain.PropertyImage {
	return &domain.PropertyImage{
		ID:         m.ID,
		PropertyID: m.PropertyID,
		URL:        m.URL,
		Caption:    m.Caption,
		Category:   m.Category,
		Order:      m.Order,
		CreatedAt:  m.CreatedAt,
	}
}

type FavoriteModel struct {
	ID         string    `gorm:"primaryKey;size:36"`
	UserID     string    `gorm:"size:36;not null;uniqueIndex:idx_user_property"`
	PropertyID string    `gorm:"size:36;not null;uniqueIndex:idx_user_property"`
	CreatedAt  time.Time `gorm:"index"`
}

func (FavoriteModel) TableName() string { return "favorites" }
