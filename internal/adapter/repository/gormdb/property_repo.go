package gormdb

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/muhammadegaa/easyhome/internal/domain"
	"github.com/muhammadegaa/easyhome/internal/platform/logger"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// propertySortColumns maps public sort parameter names to SQL columns. Only
// whitelisted names reach the ORDER BY clause.
var propertySortColumns = map[string]string{
	"createdAt":     "created_at",
	"publishedAt":   "published_at",
	"price":         "price",
	"viewCount":     "view_count",
	"favoriteCount": "favorite_count",
	"bedrooms":      "bedrooms",
	"bathrooms":     "bathrooms",
	"landArea":      "land_area",
	"buildingArea":  "building_area",
	"yearBuilt":     "year_built",
	"title":         "title",
}

// PropertyRepository implements domain.PropertyRepository on GORM.
type PropertyRepository struct {
	db     *gorm.DB
	logger *logger.Logger
}

func NewPropertyRepository(db *gorm.DB, log *logger.Logger) *PropertyRepository {
	return &PropertyRepository{db: db, logger: log.Named("PropertyRepository")}
}

// Create inserts a new property listing.
func (r *PropertyRepository) Create(ctx context.Context, property *domain.Property) error {
	model := fromDomainProperty(property)
	if model.ID == "" {
		model.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	model.CreatedAt = now
	model.UpdatedAt = now

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		r.logger.Error("Failed to insert property into DB", zap.Error(err))
		return fmt.Errorf("db insert failed: %w", err)
	}

	property.ID = model.ID
	property.CreatedAt = now
	property.UpdatedAt = now
	return nil
}

func (r *PropertyRepository) FindByID(ctx context.Context, id string) (*domain.Property, error) {
	var model PropertyModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		r.logger.Error("Failed to get property by ID from DB", zap.Error(err), zap.String("property_id", id))
		return nil, fmt.Errorf("db query failed: %w", err)
	}
	return model.toDomainProperty(), nil
}

func (r *PropertyRepository) FindByIDs(ctx context.Context, ids []string) ([]*domain.Property, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var models []PropertyModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&models).Error; err != nil {
		r.logger.Error("Failed to find properties by IDs from DB", zap.Error(err))
		return nil, fmt.Errorf("db query failed: %w", err)
	}
	properties := make([]*domain.Property, len(models))
	for i := range models {
		properties[i] = models[i].toDomainProperty()
	}
	return properties, nil
}

// FindByFilter returns one page of matches plus the total match count.
func (r *PropertyRepository) FindByFilter(ctx context.Context, filter domain.PropertyFilter) ([]*domain.Property, int64, error) {
	r.logger.Debug("Finding properties by filter from DB", zap.Any("filter", filter))

	query := r.applyFilter(r.db.WithContext(ctx).Model(&PropertyModel{}), filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		r.logger.Error("Failed to count properties by filter from DB", zap.Error(err))
		return nil, 0, fmt.Errorf("db count failed: %w", err)
	}

	column, ok := propertySortColumns[filter.SortBy]
	if !ok {
		column = "created_at"
	}
	direction := "DESC"
	if filter.SortOrder == "asc" {
		direction = "ASC"
	}
	query = query.Order(column + " " + direction)

	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
		if filter.Page > 0 {
			query = query.Offset(filter.Offset())
		}
	}

	var models []PropertyModel
	if err := query.Find(&models).Error; err != nil {
		r.logger.Error("Failed to find properties by filter from DB", zap.Error(err))
		return nil, 0, fmt.Errorf("db query failed: %w", err)
	}

	properties := make([]*domain.Property, len(models))
	for i := range models {
		properties[i] = models[i].toDomainProperty()
	}
	return properties, total, nil
}

// applyFilter translates the normalized filter into WHERE clauses. LOWER()
// with LIKE keeps substring matching case-insensitive on both Postgres and
// SQLite.
func (r *PropertyRepository) applyFilter(query *gorm.DB, filter domain.PropertyFilter) *gorm.DB {
	if filter.OwnerID != "" {
		query = query.Where("owner_id = ?", filter.OwnerID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", string(filter.Status))
	}
	if filter.PropertyType != "" {
		query = query.Where("property_type = ?", string(filter.PropertyType))
	}
	if filter.ListingType != "" {
		query = query.Where("listing_type = ?", string(filter.ListingType))
	}
	if filter.City != "" {
		query = query.Where("LOWER(city) LIKE ?", ciPattern(filter.City))
	}
	if filter.Province != "" {
		query = query.Where("LOWER(province) LIKE ?", ciPattern(filter.Province))
	}
	if filter.MinPrice != nil {
		query = query.Where("price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		query = query.Where("price <= ?", *filter.MaxPrice)
	}
	if filter.MinBedrooms != nil {
		query = query.Where("bedrooms >= ?", *filter.MinBedrooms)
	}
	if filter.MinBathrooms != nil {
		query = query.Where("bathrooms >= ?", *filter.MinBathrooms)
	}
	if filter.Search != "" {
		pattern := ciPattern(filter.Search)
		query = query.Where(
			"LOWER(title) LIKE ? OR LOWER(description) LIKE ? OR LOWER(address) LIKE ?",
			pattern, pattern, pattern,
		)
	}
	return query
}

func ciPattern(term string) string {
	return "%" + strings.ToLower(term) + "%"
}

// Update persists the property's mutable fields.
func (r *PropertyRepository) Update(ctx context.Context, property *domain.Property) error {
	now := time.Now().UTC()
	result := r.db.WithContext(ctx).Model(&PropertyModel{}).Where("id = ?", property.ID).Updates(map[string]interface{}{
		"title":           property.Title,
		"description":     property.Description,
		"property_type":   string(property.PropertyType),
		"listing_type":    string(property.ListingType),
		"price":           property.Price,
		"price_per_month": property.PricePerMonth,
		"address":         property.Address,
		"city":            property.City,
		"province":        property.Province,
		"zip_code":        property.ZipCode,
		"latitude":        property.Latitude,
		"longitude":       property.Longitude,
		"bedrooms":        property.Bedrooms,
		"bathrooms":       property.Bathrooms,
		"land_area":       property.LandArea,
		"building_area":   property.BuildingArea,
		"floors":          property.Floors,
		"garage":          property.Garage,
		"year_built":      property.YearBuilt,
		"furnished":       property.Furnished,
		"certificate":     property.Certificate,
		"status":          string(property.Status),
		"updated_at":      now,
	})
	if result.Error != nil {
		r.logger.Error("Failed to update property in DB", zap.Error(result.Error), zap.String("property_id", property.ID))
		return fmt.Errorf("db update failed: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	property.UpdatedAt = now
	return nil
}

// Delete removes the property together with its favorites in one
// transaction. Image rows are the image repository's concern so the caller
// can collect blob URLs first.
func (r *PropertyRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("property_id = ?", id).Delete(&FavoriteModel{}).Error; err != nil {
			return fmt.Errorf("db delete favorites failed: %w", err)
		}
		result := tx.Delete(&PropertyModel{}, "id = ?", id)
		if result.Error != nil {
			r.logger.Error("Failed to delete property from DB", zap.Error(result.Error), zap.String("property_id", id))
			return fmt.Errorf("db delete failed: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return domain.ErrNotFound
		}
		return nil
	})
}

// IncrementViewCount bumps the view counter with a store-side expression so
// concurrent fetches never lose an increment.
func (r *PropertyRepository) IncrementViewCount(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Model(&PropertyModel{}).Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + 1"))
	if result.Error != nil {
		r.logger.Error("Failed to increment view count in DB", zap.Error(result.Error), zap.String("property_id", id))
		return fmt.Errorf("db update failed: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
