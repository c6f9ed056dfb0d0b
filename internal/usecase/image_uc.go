package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/muhammadegaa/easyhome/internal/domain"
	"github.com/muhammadegaa/easyhome/internal/platform/logger"
	"go.uber.org/zap"
)

// maxImagesPerUpload caps one upload batch.
const maxImagesPerUpload = 10

// ImageUsecase manages property galleries.
type ImageUsecase struct {
	properties domain.PropertyRepository
	images     domain.ImageRepository
	storage    domain.Storage
	cache      PropertyCache
	logger     *logger.Logger
}

func NewImageUsecase(
	properties domain.PropertyRepository,
	images domain.ImageRepository,
	storage domain.Storage,
	cache PropertyCache,
	log *logger.Logger,
) *ImageUsecase {
	return &ImageUsecase{
		properties: properties,
		images:     images,
		storage:    storage,
		cache:      cache,
		logger:     log.Named("ImageUsecase"),
	}
}

// UploadFile is one file of an upload batch.
type UploadFile struct {
	FileName    string
	ContentType string
	Data        []byte
	Caption     string
}

// Upload stores the blobs first and the gallery rows second. When the row
// insert fails the uploaded blobs are deleted best-effort so no orphans
// accumulate. New entries are appended after the current highest order.
func (uc *ImageUsecase) Upload(ctx context.Context, actorID string, actorRole domain.Role, propertyID string, files []UploadFile, category string) ([]*domain.PropertyImage, error) {
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: at least one image file is required", domain.ErrInvalidInput)
	}
	if len(files) > maxImagesPerUpload {
		return nil, fmt.Errorf("%w: at most %d images per upload", domain.ErrInvalidInput, maxImagesPerUpload)
	}

	property, err := uc.properties.FindByID(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	if err := authorizeOwner(property, actorID, actorRole); err != nil {
		return nil, err
	}

	uploaded := make([]string, 0, len(files))
	for _, file := range files {
		url, err := uc.storage.Upload(ctx, file.FileName, file.Data, file.ContentType)
		if err != nil {
			uc.cleanupBlobs(ctx, uploaded)
			return nil, err
		}
		uploaded = append(uploaded, url)
	}

	maxOrder, err := uc.images.MaxOrder(ctx, propertyID)
	if err != nil {
		uc.cleanupBlobs(ctx, uploaded)
		return nil, err
	}

	images := make([]*domain.PropertyImage, len(files))
	for i, file := range files {
		images[i] = &domain.PropertyImage{
			PropertyID: propertyID,
			URL:        uploaded[i],
			Caption:    strings.TrimSpace(file.Caption),
			Category:   strings.TrimSpace(category),
			Order:      maxOrder + 1 + i,
		}
	}

	if err := uc.images.CreateBatch(ctx, images); err != nil {
		uc.cleanupBlobs(ctx, uploaded)
		return nil, err
	}

	uc.invalidate(ctx, propertyID)
	uc.logger.Info("Images uploaded",
		zap.String("property_id", propertyID),
		zap.Int("count", len(images)),
		zap.String("actor_id", actorID))
	return images, nil
}

// List returns the property's gallery ordered ascending.
func (uc *ImageUsecase) List(ctx context.Context, propertyID string) ([]*domain.PropertyImage, error) {
	if _, err := uc.properties.FindByID(ctx, propertyID); err != nil {
		return nil, err
	}
	return uc.images.FindByProperty(ctx, propertyID)
}

// Delete removes one gallery entry. Ownership is re-derived from the parent
// property; the blob deletion is best-effort after the row is gone.
func (uc *ImageUsecase) Delete(ctx context.Context, actorID string, actorRole domain.Role, imageID string) error {
	image, err := uc.images.FindByID(ctx, imageID)
	if err != nil {
		return err
	}
	property, err := uc.properties.FindByID(ctx, image.PropertyID)
	if err != nil {
		return err
	}
	if err := authorizeOwner(property, actorID, actorRole); err != nil {
		return err
	}

	if err := uc.images.Delete(ctx, imageID); err != nil {
		return err
	}
	if err := uc.storage.Delete(ctx, image.URL); err != nil {
		uc.logger.Warn("Failed to delete image blob", zap.String("url", image.URL), zap.Error(err))
	}

	uc.invalidate(ctx, image.PropertyID)
	uc.logger.Info("Image deleted", zap.String("image_id", imageID), zap.String("actor_id", actorID))
	return nil
}

// Reorder applies the given order values entry by entry, last write wins.
// Entries naming a missing image or one belonging to another property are
// skipped and logged; the remaining entries still apply.
func (uc *ImageUsecase) Reorder(ctx context.Context, actorID string, actorRole domain.Role, propertyID string, orders []domain.ImageOrder) error {
	if len(orders) == 0 {
		return fmt.Errorf("%w: image order list is required", domain.ErrInvalidInput)
	}

	property, err := uc.properties.FindByID(ctx, propertyID)
	if err != nil {
		return err
	}
	if err := authorizeOwner(property, actorID, actorRole); err != nil {
		return err
	}

	for _, entry := range orders {
		image, err := uc.images.FindByID(ctx, entry.ImageID)
		if err != nil || image.PropertyID != propertyID {
			uc.logger.Warn("Skipping reorder entry",
				zap.String("image_id", entry.ImageID),
				zap.String("property_id", propertyID),
				zap.Error(err))
			continue
		}
		if err := uc.images.SetOrder(ctx, entry.ImageID, entry.Order); err != nil {
			uc.logger.Warn("Failed to set image order", zap.String("image_id", entry.ImageID), zap.Error(err))
		}
	}

	uc.invalidate(ctx, propertyID)
	uc.logger.Info("Gallery reordered", zap.String("property_id", propertyID), zap.Int("entries", len(orders)))
	return nil
}

// UpdateImageInput carries the partial image update; nil means keep.
type UpdateImageInput struct {
	Caption  *string
	Category *string
}

// UpdateImage edits an entry's caption and category.
func (uc *ImageUsecase) UpdateImage(ctx context.Context, actorID string, actorRole domain.Role, imageID string, input UpdateImageInput) (*domain.PropertyImage, error) {
	image, err := uc.images.FindByID(ctx, imageID)
	if err != nil {
		return nil, err
	}
	property, err := uc.properties.FindByID(ctx, image.PropertyID)
	if err != nil {
		return nil, err
	}
	if err := authorizeOwner(property, actorID, actorRole); err != nil {
		return nil, err
	}

	if input.Caption != nil {
		image.Caption = strings.TrimSpace(*input.Caption)
	}
	if input.Category != nil {
		image.Category = strings.TrimSpace(*input.Category)
	}
	if err := uc.images.Update(ctx, image); err != nil {
		return nil, err
	}

	uc.invalidate(ctx, image.PropertyID)
	return image, nil
}

func (uc *ImageUsecase) cleanupBlobs(ctx context.Context, urls []string) {
	for _, u := range urls {
		if err := uc.storage.Delete(ctx, u); err != nil {
			uc.logger.Warn("Failed to clean up uploaded blob", zap.String("url", u), zap.Error(err))
		}
	}
}

func (uc *ImageUsecase) invalidate(ctx context.Context, propertyID string) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.DeleteProperty(ctx, propertyID); err != nil {
		uc.logger.Warn("Property cache invalidation failed", zap.String("property_id", propertyID), zap.Error(err))
	}
}
