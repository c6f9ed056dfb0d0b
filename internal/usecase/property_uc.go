package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/muhammadegaa/easyhome/internal/domain"
	"github.com/muhammadegaa/easyhome/internal/platform/logger"
	"go.uber.org/zap"
)

// NATS subjects for listing lifecycle events.
const (
	SubjectPropertyCreated = "property.created"
	SubjectPropertyUpdated = "property.updated"
	SubjectPropertyDeleted = "property.deleted"
)

// EventPublisher emits lifecycle events. A nil publisher disables events.
type EventPublisher interface {
	Publish(ctx context.Context, subject string, data interface{}) error
}

// PropertyCache is the read cache for hydrated property details. A nil
// cache disables caching.
type PropertyCache interface {
	GetProperty(ctx context.Context, id string) (*domain.Property, error)
	SetProperty(ctx context.Context, property *domain.Property) error
	DeleteProperty(ctx context.Context, id string) error
}

// PropertyPage is one page of search results.
type PropertyPage struct {
	Items      []*domain.Property
	Page       int
	Limit      int
	Total      int64
	TotalPages int
}

// PropertyUsecase implements listing CRUD and search.
type PropertyUsecase struct {
	properties domain.PropertyRepository
	images     domain.ImageRepository
	users      domain.UserRepository
	storage    domain.Storage
	cache      PropertyCache
	events     EventPublisher
	logger     *logger.Logger
}

func NewPropertyUsecase(
	properties domain.PropertyRepository,
	images domain.ImageRepository,
	users domain.UserRepository,
	storage domain.Storage,
	cache PropertyCache,
	events EventPublisher,
	log *logger.Logger,
) *PropertyUsecase {
	return &PropertyUsecase{
		properties: properties,
		images:     images,
		users:      users,
		storage:    storage,
		cache:      cache,
		events:     events,
		logger:     log.Named("PropertyUsecase"),
	}
}

// PropertyInput carries the create/update payload. Pointer fields are
// optional; on update nil means keep the current value.
type PropertyInput struct {
	Title         *string
	Description   *string
	PropertyType  *string
	ListingType   *string
	Price         *float64
	PricePerMonth *float64
	Address       *string
	City          *string
	Province      *string
	ZipCode       *string
	Latitude      *float64
	Longitude     *float64
	Bedrooms      *int
	Bathrooms     *int
	LandArea      *float64
	BuildingArea  *float64
	Floors        *int
	Garage        *int
	YearBuilt     *int
	Furnished     *bool
	Certificate   *string
	Status        *string
}

// Create validates the payload and persists a new AVAILABLE listing.
func (uc *PropertyUsecase) Create(ctx context.Context, ownerID string, input PropertyInput) (*domain.Property, error) {
	property := &domain.Property{
		OwnerID: ownerID,
		Status:  domain.StatusAvailable,
	}

	if input.Title == nil || strings.TrimSpace(*input.Title) == "" {
		return nil, fmt.Errorf("%w: title is required", domain.ErrInvalidInput)
	}
	if input.Description == nil || strings.TrimSpace(*input.Description) == "" {
		return nil, fmt.Errorf("%w: description is required", domain.ErrInvalidInput)
	}
	if input.PropertyType == nil || *input.PropertyType == "" {
		return nil, fmt.Errorf("%w: propertyType is required", domain.ErrInvalidInput)
	}
	if input.ListingType == nil || *input.ListingType == "" {
		return nil, fmt.Errorf("%w: listingType is required", domain.ErrInvalidInput)
	}
	if input.Price == nil {
		return nil, fmt.Errorf("%w: price is required", domain.ErrInvalidInput)
	}
	if input.Address == nil || strings.TrimSpace(*input.Address) == "" {
		return nil, fmt.Errorf("%w: address is required", domain.ErrInvalidInput)
	}
	if input.City == nil || strings.TrimSpace(*input.City) == "" {
		return nil, fmt.Errorf("%w: city is required", domain.ErrInvalidInput)
	}
	if input.Province == nil || strings.TrimSpace(*input.Province) == "" {
		return nil, fmt.Errorf("%w: province is required", domain.ErrInvalidInput)
	}

	if err := applyPropertyInput(property, input); err != nil {
		return nil, err
	}
	property.PublishedAt = time.Now().UTC()

	if err := uc.properties.Create(ctx, property); err != nil {
		return nil, err
	}

	uc.hydrateOwners(ctx, property)
	uc.publish(ctx, SubjectPropertyCreated, map[string]interface{}{
		"property_id": property.ID,
		"owner_id":    property.OwnerID,
		"title":       property.Title,
		"city":        property.City,
		"price":       property.Price,
	})

	uc.logger.Info("Property created", zap.String("property_id", property.ID), zap.String("owner_id", ownerID))
	return property, nil
}

// applyPropertyInput copies validated input fields onto the entity.
func applyPropertyInput(property *domain.Property, input PropertyInput) error {
	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if len(title) < 10 {
			return fmt.Errorf("%w: title must be at least 10 characters", domain.ErrInvalidInput)
		}
		property.Title = title
	}
	if input.Description != nil {
		description := strings.TrimSpace(*input.Description)
		if len(description) < 50 {
			return fmt.Errorf("%w: description must be at least 50 characters", domain.ErrInvalidInput)
		}
		property.Description = description
	}
	if input.PropertyType != nil {
		propertyType := domain.PropertyType(strings.ToUpper(*input.PropertyType))
		if !propertyType.IsValid() {
			return fmt.Errorf("%w: invalid propertyType %q", domain.ErrInvalidInput, *input.PropertyType)
		}
		property.PropertyType = propertyType
	}
	if input.ListingType != nil {
		listingType := domain.ListingType(strings.ToUpper(*input.ListingType))
		if !listingType.IsValid() {
			return fmt.Errorf("%w: invalid listingType %q", domain.ErrInvalidInput, *input.ListingType)
		}
		property.ListingType = listingType
	}
	if input.Price != nil {
		if *input.Price <= 0 {
			return fmt.Errorf("%w: price must be greater than zero", domain.ErrInvalidInput)
		}
		property.Price = *input.Price
	}
	if input.PricePerMonth != nil {
		property.PricePerMonth = input.PricePerMonth
	}
	if input.Address != nil {
		property.Address = strings.TrimSpace(*input.Address)
	}
	if input.City != nil {
		property.City = strings.TrimSpace(*input.City)
	}
	if input.Province != nil {
		property.Province = strings.TrimSpace(*input.Province)
	}
	if input.ZipCode != nil {
		property.ZipCode = strings.TrimSpace(*input.ZipCode)
	}
	if input.Latitude != nil {
		property.Latitude = input.Latitude
	}
	if input.Longitude != nil {
		property.Longitude = input.Longitude
	}
	if input.Bedrooms != nil {
		property.Bedrooms = input.Bedrooms
	}
	if input.Bathrooms != nil {
		property.Bathrooms = input.Bathrooms
	}
	if input.LandArea != nil {
		property.LandArea = input.LandArea
	}
	if input.BuildingArea != nil {
		property.BuildingArea = input.BuildingArea
	}
	if input.Floors != nil {
		property.Floors = input.Floors
	}
	if input.Garage != nil {
		property.Garage = input.Garage
	}
	if input.YearBuilt != nil {
		property.YearBuilt = input.YearBuilt
	}
	if input.Furnished != nil {
		property.Furnished = *input.Furnished
	}
	if input.Certificate != nil {
		property.Certificate = strings.TrimSpace(*input.Certificate)
	}
	if input.Status != nil {
		status := domain.PropertyStatus(strings.ToUpper(*input.Status))
		if !status.IsValid() {
			return fmt.Errorf("%w: invalid status %q", domain.ErrInvalidInput, *input.Status)
		}
		property.Status = status
	}
	return nil
}

// Search answers a filtered, paginated listing query with hydrated owner
// summaries and lead images.
func (uc *PropertyUsecase) Search(ctx context.Context, filter domain.PropertyFilter) (*PropertyPage, error) {
	items, total, err := uc.properties.FindByFilter(ctx, filter)
	if err != nil {
		return nil, err
	}

	uc.hydrateOwners(ctx, items...)
	uc.hydrateLeadImages(ctx, items)

	return &PropertyPage{
		Items:      items,
		Page:       filter.Page,
		Limit:      filter.Limit,
		Total:      total,
		TotalPages: domain.TotalPages(total, filter.Limit),
	}, nil
}

// GetByID returns a hydrated property detail. Every fetch bumps the view
// counter store-side, cache hit or not.
func (uc *PropertyUsecase) GetByID(ctx context.Context, id string) (*domain.Property, error) {
	if err := uc.properties.IncrementViewCount(ctx, id); err != nil {
		return nil, err
	}

	if uc.cache != nil {
		cached, err := uc.cache.GetProperty(ctx, id)
		if err != nil {
			uc.logger.Warn("Property cache read failed", zap.String("property_id", id), zap.Error(err))
		} else if cached != nil {
			cached.ViewCount++
			return cached, nil
		}
	}

	property, err := uc.properties.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	uc.hydrateOwners(ctx, property)
	images, err := uc.images.FindByProperty(ctx, id)
	if err != nil {
		return nil, err
	}
	property.Images = images

	if uc.cache != nil {
		if err := uc.cache.SetProperty(ctx, property); err != nil {
			uc.logger.Warn("Property cache write failed", zap.String("property_id", id), zap.Error(err))
		}
	}
	return property, nil
}

// Update applies a partial update after the ownership check.
func (uc *PropertyUsecase) Update(ctx context.Context, actorID string, actorRole domain.Role, id string, input PropertyInput) (*domain.Property, error) {
	property, err := uc.properties.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorizeOwner(property, actorID, actorRole); err != nil {
		return nil, err
	}

	if err := applyPropertyInput(property, input); err != nil {
		return nil, err
	}
	if err := uc.properties.Update(ctx, property); err != nil {
		return nil, err
	}

	uc.invalidateCache(ctx, id)
	uc.publish(ctx, SubjectPropertyUpdated, map[string]interface{}{
		"property_id": property.ID,
		"owner_id":    property.OwnerID,
		"status":      string(property.Status),
	})

	uc.hydrateOwners(ctx, property)
	uc.logger.Info("Property updated", zap.String("property_id", id), zap.String("actor_id", actorID))
	return property, nil
}

// Delete removes the listing, its gallery rows and, best-effort, the blobs.
func (uc *PropertyUsecase) Delete(ctx context.Context, actorID string, actorRole domain.Role, id string) error {
	property, err := uc.properties.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := authorizeOwner(property, actorID, actorRole); err != nil {
		return err
	}

	urls, err := uc.images.DeleteByProperty(ctx, id)
	if err != nil {
		return err
	}
	if err := uc.properties.Delete(ctx, id); err != nil {
		return err
	}

	// Blob cleanup must never abort the delete; orphaned blobs are
	// reclaimed out of band.
	for _, u := range urls {
		if err := uc.storage.Delete(ctx, u); err != nil {
			uc.logger.Warn("Failed to delete image blob", zap.String("url", u), zap.Error(err))
		}
	}

	uc.invalidateCache(ctx, id)
	uc.publish(ctx, SubjectPropertyDeleted, map[string]interface{}{
		"property_id": id,
		"owner_id":    property.OwnerID,
	})

	uc.logger.Info("Property deleted", zap.String("property_id", id), zap.String("actor_id", actorID))
	return nil
}

// ListMine answers the owner's listing view, all statuses included unless
// the filter narrows one.
func (uc *PropertyUsecase) ListMine(ctx context.Context, filter domain.PropertyFilter) (*PropertyPage, error) {
	return uc.Search(ctx, filter)
}

// authorizeOwner enforces the ownership rule: only the listing's owner or
// an admin may mutate it.
func authorizeOwner(property *domain.Property, actorID string, actorRole domain.Role) error {
	if property.OwnerID != actorID && actorRole != domain.RoleAdmin {
		return domain.ErrForbidden
	}
	return nil
}

func (uc *PropertyUsecase) hydrateOwners(ctx context.Context, properties ...*domain.Property) {
	hydrateOwners(ctx, uc.users, uc.logger, properties...)
}

func (uc *PropertyUsecase) hydrateLeadImages(ctx context.Context, properties []*domain.Property) {
	hydrateLeadImages(ctx, uc.images, uc.logger, properties)
}

// hydrateOwners attaches public owner summaries. Hydration failures are
// logged and leave the listing without an owner block rather than failing
// the whole request.
func hydrateOwners(ctx context.Context, users domain.UserRepository, log *logger.Logger, properties ...*domain.Property) {
	ids := make([]string, 0, len(properties))
	seen := make(map[string]bool, len(properties))
	for _, p := range properties {
		if p != nil && !seen[p.OwnerID] {
			seen[p.OwnerID] = true
			ids = append(ids, p.OwnerID)
		}
	}
	summaries, err := users.FindSummaries(ctx, ids)
	if err != nil {
		log.Warn("Failed to hydrate owner summaries", zap.Error(err))
		return
	}
	for _, p := range properties {
		if p == nil {
			continue
		}
		if summary, ok := summaries[p.OwnerID]; ok {
			s := summary
			p.Owner = &s
		}
	}
}

// hydrateLeadImages attaches each listing's lowest-order image for card
// views.
func hydrateLeadImages(ctx context.Context, images domain.ImageRepository, log *logger.Logger, properties []*domain.Property) {
	ids := make([]string, len(properties))
	for i, p := range properties {
		ids[i] = p.ID
	}
	lead, err := images.LeadImages(ctx, ids)
	if err != nil {
		log.Warn("Failed to hydrate lead images", zap.Error(err))
		return
	}
	for _, p := range properties {
		if img, ok := lead[p.ID]; ok {
			p.Images = []*domain.PropertyImage{img}
		}
	}
}

func (uc *PropertyUsecase) invalidateCache(ctx context.Context, id string) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.DeleteProperty(ctx, id); err != nil {
		uc.logger.Warn("Property cache invalidation failed", zap.String("property_id", id), zap.Error(err))
	}
}

func (uc *PropertyUsecase) publish(ctx context.Context, subject string, data interface{}) {
	if uc.events == nil {
		return
	}
	if err := uc.events.Publish(ctx, subject, data); err != nil {
		uc.logger.Warn("Failed to publish event", zap.String("subject", subject), zap.Error(err))
	}
}
