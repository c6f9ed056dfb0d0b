package gormdb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/muhammadegaa/easyhome/internal/platform/logger"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// FavoriteRepository implements domain.FavoriteRepository on GORM. Toggle
// wraps the ledger row mutation and the counter adjustment in a single
// transaction so the counter can never drift from the row count.
type FavoriteRepository struct {
	db     *gorm.DB
	logger *logger.Logger
}

func NewFavoriteRepository(db *gorm.DB, log *logger.Logger) *FavoriteRepository {
	return &FavoriteRepository{db: db, logger: log.Named("FavoriteRepository")}
}

// Toggle removes the favorite if present, otherwise inserts it, and adjusts
// the property counter by the same delta inside one transaction. It reports
// whether the property is favorited after the call.
func (r *FavoriteRepository) Toggle(ctx context.Context, userID, propertyID string) (bool, error) {
	var favorited bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("user_id = ? AND property_id = ?", userID, propertyID).Delete(&FavoriteModel{})
		if result.Error != nil {
			return fmt.Errorf("db delete failed: %w", result.Error)
		}
		if result.RowsAffected == 1 {
			favorited = false
			return tx.Model(&PropertyModel{}).Where("id = ?", propertyID).
				UpdateColumn("favorite_count", gorm.Expr("favorite_count - 1")).Error
		}

		favorite := FavoriteModel{
			ID:         uuid.NewString(),
			UserID:     userID,
			PropertyID: propertyID,
			CreatedAt:  time.Now().UTC(),
		}
		if err := tx.Create(&favorite).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				// Lost a race against a concurrent toggle for the same
				// pair; that toggle owns the counter adjustment.
				favorited = true
				return nil
			}
			return fmt.Errorf("db insert failed: %w", err)
		}
		favorited = true
		return tx.Model(&PropertyModel{}).Where("id = ?", propertyID).
			UpdateColumn("favorite_count", gorm.Expr("favorite_count + 1")).Error
	})
	if err != nil {
		r.logger.Error("Failed to toggle favorite in DB", zap.Error(err),
			zap.String("user_id", userID), zap.String("property_id", propertyID))
		return false, err
	}
	return favorited, nil
}

// ListByUser returns one page of the user's favorited property IDs, most
// recently favorited first, plus the total favorite count.
func (r *FavoriteRepository) ListByUser(ctx context.Context, userID string, page, limit int) ([]string, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&FavoriteModel{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		r.logger.Error("Failed to count favorites by user from DB", zap.Error(err))
		return nil, 0, fmt.Errorf("db count failed: %w", err)
	}

	query := r.db.WithContext(ctx).Model(&FavoriteModel{}).
		Where("user_id = ?", userID).
		Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
		if page > 1 {
			query = query.Offset((page - 1) * limit)
		}
	}

	var propertyIDs []string
	if err := query.Pluck("property_id", &propertyIDs).Error; err != nil {
		r.logger.Error("Failed to find favorites by user from DB", zap.Error(err), zap.String("user_id", userID))
		return nil, 0, fmt.Errorf("db query failed: %w", err)
	}
	return propertyIDs, total, nil
}

func (r *FavoriteRepository) IsFavorited(ctx context.Context, userID, propertyID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&FavoriteModel{}).
		Where("user_id = ? AND property_id = ?", userID, propertyID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("db count failed: %w", err)
	}
	return count > 0, nil
}
