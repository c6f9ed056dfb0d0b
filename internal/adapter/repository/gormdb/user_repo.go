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

// UserRepository implements domain.UserRepository on GORM.
type UserRepository struct {
	db     *gorm.DB
	logger *logger.Logger
}

func NewUserRepository(db *gorm.DB, log *logger.Logger) *UserRepository {
	return &UserRepository{db: db, logger: log.Named("UserRepository")}
}

// Create inserts a new user. A duplicate email maps to domain.ErrEmailTaken.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	model := fromDomainUser(user)
	if model.ID == "" {
		model.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	model.CreatedAt = now
	model.UpdatedAt = now

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			r.logger.Warn("Duplicate email on user creation", zap.String("email", user.Email))
			return domain.ErrEmailTaken
		}
		r.logger.Error("Failed to insert user into DB", zap.Error(err))
		return fmt.Errorf("db insert failed: %w", err)
	}

	user.ID = model.ID
	user.CreatedAt = now
	user.UpdatedAt = now
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	var model UserModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		r.logger.Error("Failed to get user by ID from DB", zap.Error(err), zap.String("user_id", id))
		return nil, fmt.Errorf("db query failed: %w", err)
	}
	return model.toDomainUser(), nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var model UserModel
	if err := r.db.WithContext(ctx).First(&model, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		r.logger.Error("Failed to get user by email from DB", zap.Error(err))
		return nil, fmt.Errorf("db query failed: %w", err)
	}
	return model.toDomainUser(), nil
}

func (r *UserRepository) FindByVerificationToken(ctx context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, domain.ErrNotFound
	}
	var model UserModel
	if err := r.db.WithContext(ctx).First(&model, "verification_token = ?", token).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		r.logger.Error("Failed to get user by verification token from DB", zap.Error(err))
		return nil, fmt.Errorf("db query failed: %w", err)
	}
	return model.toDomainUser(), nil
}

// FindSummaries resolves public owner summaries for a batch of user IDs.
func (r *UserRepository) FindSummaries(ctx context.Context, ids []string) (map[string]domain.OwnerSummary, error) {
	summaries := make(map[string]domain.OwnerSummary, len(ids))
	if len(ids) == 0 {
		return summaries, nil
	}
	var models []UserModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&models).Error; err != nil {
		r.logger.Error("Failed to find user summaries from DB", zap.Error(err))
		return nil, fmt.Errorf("db query failed: %w", err)
	}
	for i := range models {
		u := models[i].toDomainUser()
		summaries[u.ID] = u.Summary()
	}
	return summaries, nil
}

// Update persists the user's mutable profile fields.
func (r *UserRepository) Update(ctx context.Context, user *domain.User) error {
	now := time.Now().UTC()
	result := r.db.WithContext(ctx).Model(&UserModel{}).Where("id = ?", user.ID).Updates(map[string]interface{}{
		"name":              user.Name,
		"phone":             user.Phone,
		"address":           user.Address,
		"city":              user.City,
		"province":          user.Province,
		"zip_code":          user.ZipCode,
		"company_name":      user.CompanyName,
		"membership_tier":   string(user.MembershipTier),
		"membership_expiry": user.MembershipExpiry,
		"updated_at":        now,
	})
	if result.Error != nil {
		r.logger.Error("Failed to update user in DB", zap.Error(result.Error), zap.String("user_id", user.ID))
		return fmt.Errorf("db update failed: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	user.UpdatedAt = now
	return nil
}

// SetVerificationToken stores a fresh single-use verification token.
func (r *UserRepository) SetVerificationToken(ctx context.Context, id, token string) error {
	result := r.db.WithContext(ctx).Model(&UserModel{}).Where("id = ?", id).Updates(map[string]interface{}{
		"verification_token": token,
		"updated_at":         time.Now().UTC(),
	})
	if result.Error != nil {
		r.logger.Error("Failed to set verification token in DB", zap.Error(result.Error), zap.String("user_id", id))
		return fmt.Errorf("db update failed: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// MarkVerified flips the verified flag and clears the pending token.
func (r *UserRepository) MarkVerified(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Model(&UserModel{}).Where("id = ?", id).Updates(map[string]interface{}{
		"is_verified":        true,
		"verification_token": "",
		"updated_at":         time.Now().UTC(),
	})
	if result.Error != nil {
		r.logger.Error("Failed to mark user verified in DB", zap.Error(result.Error), zap.String("user_id", id))
		return fmt.Errorf("db update failed: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
