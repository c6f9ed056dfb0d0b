package usecase

import (
	"context"

	"github.com/muhammadegaa/easyhome/internal/domain"
	"github.com/muhammadegaa/easyhome/internal/platform/logger"
	"go.uber.org/zap"
)

// FavoriteUsecase maintains each user's favorite ledger.
type FavoriteUsecase struct {
	favorites  domain.FavoriteRepository
	properties domain.PropertyRepository
	images     domain.ImageRepository
	users      domain.UserRepository
	cache      PropertyCache
	logger     *logger.Logger
}

func NewFavoriteUsecase(
	favorites domain.FavoriteRepository,
	properties domain.PropertyRepository,
	images domain.ImageRepository,
	users domain.UserRepository,
	cache PropertyCache,
	log *logger.Logger,
) *FavoriteUsecase {
	return &FavoriteUsecase{
		favorites:  favorites,
		properties: properties,
		images:     images,
		users:      users,
		cache:      cache,
		logger:     log.Named("FavoriteUsecase"),
	}
}

// Toggle flips the favorite state for (userID, propertyID) and reports the
// resulting state with a user-facing message.
func (uc *FavoriteUsecase) Toggle(ctx context.Context, userID, propertyID string) (bool, string, error) {
	if _, err := uc.properties.FindByID(ctx, propertyID); err != nil {
		return false, "", err
	}

	favorited, err := uc.favorites.Toggle(ctx, userID, propertyID)
	if err != nil {
		return false, "", err
	}

	// The cached detail carries favoriteCount, which just changed.
	if uc.cache != nil {
		if err := uc.cache.DeleteProperty(ctx, propertyID); err != nil {
			uc.logger.Warn("Property cache invalidation failed", zap.String("property_id", propertyID), zap.Error(err))
		}
	}

	message := "Removed from favorites"
	if favorited {
		message = "Added to favorites"
	}
	uc.logger.Info("Favorite toggled",
		zap.String("user_id", userID),
		zap.String("property_id", propertyID),
		zap.Bool("favorited", favorited))
	return favorited, message, nil
}

// ListFavorites returns the user's favorites, most recently favorited
// first, hydrated with owner summaries and lead images.
func (uc *FavoriteUsecase) ListFavorites(ctx context.Context, userID string, page, limit int) (*PropertyPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = domain.DefaultPageSize
	} else if limit > domain.MaxPageSize {
		limit = domain.MaxPageSize
	}

	propertyIDs, total, err := uc.favorites.ListByUser(ctx, userID, page, limit)
	if err != nil {
		return nil, err
	}

	properties, err := uc.properties.FindByIDs(ctx, propertyIDs)
	if err != nil {
		return nil, err
	}

	// Restore the ledger's recency order; FindByIDs gives no ordering.
	byID := make(map[string]*domain.Property, len(properties))
	for _, p := range properties {
		byID[p.ID] = p
	}
	items := make([]*domain.Property, 0, len(propertyIDs))
	for _, id := range propertyIDs {
		if p, ok := byID[id]; ok {
			items = append(items, p)
		}
	}

	hydrateOwners(ctx, uc.users, uc.logger, items...)
	hydrateLeadImages(ctx, uc.images, uc.logger, items)

	return &PropertyPage{
		Items:      items,
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: domain.TotalPages(total, limit),
	}, nil
}
