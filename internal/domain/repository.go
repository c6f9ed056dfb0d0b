package domain

import "context"

// UserRepository persists accounts. Implementations map their native
// duplicate-key failures on the email index to ErrEmailTaken.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	FindByID(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByVerificationToken(ctx context.Context, token string) (*User, error)
	// FindSummaries resolves public owner summaries for a batch of user IDs.
	FindSummaries(ctx context.Context, ids []string) (map[string]OwnerSummary, error)
	Update(ctx context.Context, user *User) error
	// SetVerificationToken stores a fresh single-use token on the account.
	SetVerificationToken(ctx context.Context, id, token string) error
	// MarkVerified flips the verified flag and clears any pending token.
	MarkVerified(ctx context.Context, id string) error
}

// PropertyRepository persists listings and answers filtered searches.
type PropertyRepository interface {
	Create(ctx context.Context, property *Property) error
	FindByID(ctx context.Context, id string) (*Property, error)
	// FindByIDs returns the listings that exist among ids, in no particular
	// order; callers needing an order must impose it themselves.
	FindByIDs(ctx context.Context, ids []string) ([]*Property, error)
	// FindByFilter returns one page of matches plus the total match count.
	FindByFilter(ctx context.Context, filter PropertyFilter) ([]*Property, int64, error)
	Update(ctx context.Context, property *Property) error
	Delete(ctx context.Context, id string) error
	// IncrementViewCount bumps the view counter atomically in the store.
	IncrementViewCount(ctx context.Context, id string) error
}

// ImageRepository persists gallery entries.
type ImageRepository interface {
	CreateBatch(ctx context.Context, images []*PropertyImage) error
	FindByID(ctx context.Context, id string) (*PropertyImage, error)
	// FindByProperty returns a property's gallery ordered ascending.
	FindByProperty(ctx context.Context, propertyID string) ([]*PropertyImage, error)
	// LeadImages returns the lowest-order image per property for card views.
	LeadImages(ctx context.Context, propertyIDs []string) (map[string]*PropertyImage, error)
	// MaxOrder returns the highest order value in a gallery, or -1 when empty.
	MaxOrder(ctx context.Context, propertyID string) (int, error)
	Update(ctx context.Context, image *PropertyImage) error
	SetOrder(ctx context.Context, id string, order int) error
	Delete(ctx context.Context, id string) error
	// DeleteByProperty removes a whole gallery and returns the blob URLs the
	// caller should clean up.
	DeleteByProperty(ctx context.Context, propertyID string) ([]string, error)
}

// FavoriteRepository maintains the favorite ledger. Toggle must keep the
// ledger row and the property's FavoriteCount in one atomic unit.
type FavoriteRepository interface {
	// Toggle adds the favorite if absent, removes it if present, and adjusts
	// the property's counter accordingly. It reports whether the property is
	// favorited after the call.
	Toggle(ctx context.Context, userID, propertyID string) (bool, error)
	// ListByUser returns one page of the user's favorited property IDs,
	// most recently favorited first, plus the total favorite count.
	ListByUser(ctx context.Context, userID string, page, limit int) ([]string, int64, error)
	IsFavorited(ctx context.Context, userID, propertyID string) (bool, error)
}

// Storage is the image blob store.
type Storage interface {
	// Upload stores the blob and returns its public URL.
	Upload(ctx context.Context, fileName string, data []byte, contentType string) (string, error)
	// Delete removes a blob previously returned by Upload.
	Delete(ctx context.Context, fileURL string) error
}
