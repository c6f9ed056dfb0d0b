package gormdb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/muhammadegaa/easyhome/internal/domain"
	"github.com/muhammadegaa/easyhome/internal/platform/logger"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ImageRepository implements domain.ImageRepository on GORM.
type ImageRepository struct {
	db     *gorm.DB
	logger *logger.Logger
}

func NewImageRepository(db *gorm.DB, log *logger.Logger) *ImageRepository {
	return &ImageRepository{db: db, logger: log.Named("ImageRepository")}
}

// CreateBatch inserts a set of gallery entries in one transaction so a
// partial batch never persists.
func (r *ImageRepository) CreateBatch(ctx context.Context, images []*domain.PropertyImage) error {
	if len(images) == 0 {
		return nil
	}
	now := time.Now().UTC()
	models := make([]*PropertyImageModel, len(images))
	for i, img := range images {
		model := fromDomainImage(img)
		if model.ID == "" {
			model.ID = uuid.NewString()
		}
		model.CreatedAt = now
		models[i] = model
	}

	if err := r.db.WithContext(ctx).Create(&models).Error; err != nil {
		r.logger.Error("Failed to insert images into DB", zap.Error(err))
		return fmt.Errorf("db insert failed: %w", err)
	}
	for i, img := range images {
		img.ID = models[i].ID
		img.CreatedAt = now
	}
	return nil
}

func (r *ImageRepository) FindByID(ctx context.Context, id string) (*domain.PropertyImage, error) {
	var model PropertyImageModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		r.logger.Error("Failed to get image by ID from DB", zap.Error(err), zap.String("image_id", id))
		return nil, fmt.Errorf("db query failed: %w", err)
	}
	return model.toDomainImage(), nil
}

// FindByProperty returns a property's gallery ordered ascending.
func (r *ImageRepository) FindByProperty(ctx context.Context, propertyID string) ([]*domain.PropertyImage, error) {
	var models []PropertyImageModel
	err := r.db.WithContext(ctx).
		Where("property_id = ?", propertyID).
		Order("image_order ASC").
		Find(&models).Error
	if err != nil {
		r.logger.Error("Failed to find images by property from DB", zap.Error(err), zap.String("property_id", propertyID))
		return nil, fmt.Errorf("db query failed: %w", err)
	}
	images := make([]*domain.PropertyImage, len(models))
	for i := range models {
		images[i] = models[i].toDomainImage()
	}
	return images, nil
}

// LeadImages returns the lowest-order image per property for card views.
func (r *ImageRepository) LeadImages(ctx context.Context, propertyIDs []string) (map[string]*domain.PropertyImage, error) {
	lead := make(map[string]*domain.PropertyImage, len(propertyIDs))
	if len(propertyIDs) == 0 {
		return lead, nil
	}
	var models []PropertyImageModel
	err := r.db.WithContext(ctx).
		Where("property_id IN ?", propertyIDs).
		Order("property_id ASC").
		Order("image_order ASC").
		Find(&models).Error
	if err != nil {
		r.logger.Error("Failed to find lead images from DB", zap.Error(err))
		return nil, fmt.Errorf("db query failed: %w", err)
	}
	for i := range models {
		img := models[i].toDomainImage()
		if _, seen := lead[img.PropertyID]; !seen {
			lead[img.PropertyID] = img
		}
	}
	return lead, nil
}

// MaxOrder returns the highest order value in a gallery, or -1 when empty.
func (r *ImageRepository) MaxOrder(ctx context.Context, propertyID string) (int, error) {
	var model PropertyImageModel
	err := r.db.WithContext(ctx).
		Where("property_id = ?", propertyID).
		Order("image_order DESC").
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return -1, nil
		}
		r.logger.Error("Failed to find max image order from DB", zap.Error(err), zap.String("property_id", propertyID))
		return 0, fmt.Errorf("db query failed: %w", err)
	}
	return model.Order, nil
}

// Update persists the image's caption and category.
func (r *ImageRepository) Update(ctx context.Context, image *domain.PropertyImage) error {
	result := r.db.WithContext(ctx).Model(&PropertyImageModel{}).Where("id = ?", image.ID).Updates(map[string]interface{}{
		"caption":  image.Caption,
		"category": image.Category,
	})
	if result.Error != nil {
		r.logger.Error("Failed to update image in DB", zap.Error(result.Error), zap.String("image_id", image.ID))
		return fmt.Errorf("db update failed: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ImageRepository) SetOrder(ctx context.Context, id string, order int) error {
	result := r.db.WithContext(ctx).Model(&PropertyImageModel{}).Where("id = ?", id).
		UpdateColumn("image_order", order)
	if result.Error != nil {
		r.logger.Error("Failed to set image order in DB", zap.Error(result.Error), zap.String("image_id", id))
		return fmt.Errorf("db update failed: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ImageRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&PropertyImageModel{}, "id = ?", id)
	if result.Error != nil {
		r.logger.Error("Failed to delete image from DB", zap.Error(result.Error), zap.String("image_id", id))
		return fmt.Errorf("db delete failed: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// DeleteByProperty removes a whole gallery and returns the blob URLs the
// caller should clean up.
func (r *ImageRepository) DeleteByProperty(ctx context.Context, propertyID string) ([]string, error) {
	images, err := r.FindByProperty(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	urls := make([]string, 0, len(images))
	for _, img := range images {
		urls = append(urls, img.URL)
	}

	if err := r.db.WithContext(ctx).Where("property_id = ?", propertyID).Delete(&PropertyImageModel{}).Error; err != nil {
		r.logger.Error("Failed to delete images by property from DB", zap.Error(err), zap.String("property_id", propertyID))
		return nil, fmt.Errorf("db delete failed: %w", err)
	}
	return urls, nil
}
