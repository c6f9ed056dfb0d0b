package gormdb

import (
	"context"
	"fmt"
	"testing"

	"github.com/muhammadegaa/easyhome/internal/domain"
	"github.com/muhammadegaa/easyhome/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, Migrate(db))
	return db
}

func seedUser(t *testing.T, repo *UserRepository, email string) *domain.User {
	t.Helper()
	user := &domain.User{
		Email:          email,
		PasswordHash:   "x",
		Name:           "Test User",
		Role:           domain.RoleSeller,
		MembershipTier: domain.TierNone,
	}
	require.NoError(t, repo.Create(context.Background(), user))
	return user
}

func seedProperty(t *testing.T, repo *PropertyRepository, ownerID, title, city string, price float64) *domain.Property {
	t.Helper()
	property := &domain.Property{
		OwnerID:      ownerID,
		Title:        title,
		Description:  "A generously sized home with a bright living area and a quiet garden.",
		PropertyType: domain.TypeHouse,
		ListingType:  domain.ListingSale,
		Price:        price,
		Address:      "Jl. Raya 1",
		City:         city,
		Province:     "Bali",
		Status:       domain.StatusAvailable,
	}
	require.NoError(t, repo.Create(context.Background(), property))
	return property
}

func TestUserRepositoryDuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	log := logger.NewLogger()
	repo := NewUserRepository(db, log)

	seedUser(t, repo, "dup@example.com")

	err := repo.Create(context.Background(), &domain.User{
		Email:        "dup@example.com",
		PasswordHash: "y",
		Name:         "Other",
		Role:         domain.RoleBuyer,
	})
	assert.ErrorIs(t, err, domain.ErrEmailTaken)
}

func TestUserRepositoryVerificationLifecycle(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewUserRepository(db, logger.NewLogger())

	user := seedUser(t, repo, "verify@example.com")
	require.NoError(t, repo.SetVerificationToken(ctx, user.ID, "tok-123"))

	found, err := repo.FindByVerificationToken(ctx, "tok-123")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)

	require.NoError(t, repo.MarkVerified(ctx, user.ID))

	_, err = repo.FindByVerificationToken(ctx, "tok-123")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	reloaded, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, reloaded.IsVerified)
}

func TestPropertyCreateDefaultsAndGet(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	log := logger.NewLogger()
	users := NewUserRepository(db, log)
	properties := NewPropertyRepository(db, log)

	owner := seedUser(t, users, "owner@example.com")
	created := seedProperty(t, properties, owner.ID, "Spacious family house", "Denpasar", 2500000000)

	require.NotEmpty(t, created.ID)

	found, err := properties.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusAvailable, found.Status)
	assert.EqualValues(t, 0, found.ViewCount)
	assert.EqualValues(t, 0, found.FavoriteCount)

	_, err = properties.FindByID(ctx, "missing-id")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPropertySearchFilter(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	log := logger.NewLogger()
	users := NewUserRepository(db, log)
	properties := NewPropertyRepository(db, log)

	owner := seedUser(t, users, "search@example.com")
	seedProperty(t, properties, owner.ID, "Modern minimalist villa", "Badung", 4000000000)
	seedProperty(t, properties, owner.ID, "Classic family house", "Denpasar", 1500000000)
	cheap := seedProperty(t, properties, owner.ID, "Modern studio apartment", "Badung", 700000000)
	cheap.Status = domain.StatusSold
	require.NoError(t, properties.Update(ctx, cheap))

	// Substring search is case-insensitive and only sees AVAILABLE listings.
	items, total, err := properties.FindByFilter(ctx, domain.PropertyFilter{
		Search: "MODERN", Status: domain.StatusAvailable,
		SortBy: "createdAt", SortOrder: "desc", Page: 1, Limit: 20,
	})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, items, 1)
	assert.Equal(t, "Modern minimalist villa", items[0].Title)

	// City filter, case-insensitive substring.
	_, total, err = properties.FindByFilter(ctx, domain.PropertyFilter{
		City: "badung", Status: domain.StatusAvailable,
		SortBy: "createdAt", SortOrder: "desc", Page: 1, Limit: 20,
	})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)

	// Inclusive price bounds.
	minPrice := 1500000000.0
	items, total, err = properties.FindByFilter(ctx, domain.PropertyFilter{
		MinPrice: &minPrice, Status: domain.StatusAvailable,
		SortBy: "price", SortOrder: "asc", Page: 1, Limit: 20,
	})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Equal(t, "Classic family house", items[0].Title)

	// Owner view sees every status.
	_, total, err = properties.FindByFilter(ctx, domain.PropertyFilter{
		OwnerID: owner.ID, SortBy: "createdAt", SortOrder: "desc", Page: 1, Limit: 20,
	})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
}

func TestPropertySearchPagination(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	log := logger.NewLogger()
	users := NewUserRepository(db, log)
	properties := NewPropertyRepository(db, log)

	owner := seedUser(t, users, "pages@example.com")
	for i := 0; i < 45; i++ {
		seedProperty(t, properties, owner.ID, fmt.Sprintf("Listing number %02d here", i), "Denpasar", float64(1000+i))
	}

	filter := domain.PropertyFilter{
		Status: domain.StatusAvailable,
		SortBy: "price", SortOrder: "asc",
		Page: 1, Limit: 20,
	}

	items, total, err := properties.FindByFilter(ctx, filter)
	require.NoError(t, err)
	assert.EqualValues(t, 45, total)
	assert.Len(t, items, 20)
	assert.Equal(t, 3, domain.TotalPages(total, filter.Limit))

	filter.Page = 3
	items, _, err = properties.FindByFilter(ctx, filter)
	require.NoError(t, err)
	assert.Len(t, items, 5)
	assert.Equal(t, float64(1040), items[0].Price)
}

func TestPropertyViewCountIncrement(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	log := logger.NewLogger()
	users := NewUserRepository(db, log)
	properties := NewPropertyRepository(db, log)

	owner := seedUser(t, users, "views@example.com")
	property := seedProperty(t, properties, owner.ID, "Viewed listing title", "Denpasar", 100)

	for i := 0; i < 3; i++ {
		require.NoError(t, properties.IncrementViewCount(ctx, property.ID))
	}

	found, err := properties.FindByID(ctx, property.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 3, found.ViewCount)

	assert.ErrorIs(t, properties.IncrementViewCount(ctx, "missing-id"), domain.ErrNotFound)
}

func TestFavoriteToggleKeepsCounterConsistent(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	log := logger.NewLogger()
	users := NewUserRepository(db, log)
	properties := NewPropertyRepository(db, log)
	favorites := NewFavoriteRepository(db, log)

	owner := seedUser(t, users, "fav-owner@example.com")
	property := seedProperty(t, properties, owner.ID, "Favorited listing here", "Denpasar", 100)

	// Several distinct users favorite the same property; the counter must
	// equal the ledger row count afterwards.
	for i := 0; i < 5; i++ {
		user := seedUser(t, users, fmt.Sprintf("fav-%d@example.com", i))
		favorited, err := favorites.Toggle(ctx, user.ID, property.ID)
		require.NoError(t, err)
		assert.True(t, favorited)
	}

	found, err := properties.FindByID(ctx, property.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 5, found.FavoriteCount)

	var rows int64
	require.NoError(t, db.Model(&FavoriteModel{}).Where("property_id = ?", property.ID).Count(&rows).Error)
	assert.Equal(t, found.FavoriteCount, rows)
}

func TestFavoriteToggleIsAnInvolution(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	log := logger.NewLogger()
	users := NewUserRepository(db, log)
	properties := NewPropertyRepository(db, log)
	favorites := NewFavoriteRepository(db, log)

	owner := seedUser(t, users, "toggle-owner@example.com")
	user := seedUser(t, users, "toggle-user@example.com")
	property := seedProperty(t, properties, owner.ID, "Toggled listing title", "Denpasar", 100)

	favorited, err := favorites.Toggle(ctx, user.ID, property.ID)
	require.NoError(t, err)
	assert.True(t, favorited)

	isFav, err := favorites.IsFavorited(ctx, user.ID, property.ID)
	require.NoError(t, err)
	assert.True(t, isFav)

	favorited, err = favorites.Toggle(ctx, user.ID, property.ID)
	require.NoError(t, err)
	assert.False(t, favorited)

	found, err := properties.FindByID(ctx, property.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, found.FavoriteCount)

	isFav, err = favorites.IsFavorited(ctx, user.ID, property.ID)
	require.NoError(t, err)
	assert.False(t, isFav)
}

func TestFavoriteListOrderAndPaging(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	log := logger.NewLogger()
	users := NewUserRepository(db, log)
	properties := NewPropertyRepository(db, log)
	favorites := NewFavoriteRepository(db, log)

	owner := seedUser(t, users, "list-owner@example.com")
	user := seedUser(t, users, "list-user@example.com")

	var ids []string
	for i := 0; i < 3; i++ {
		p := seedProperty(t, properties, owner.ID, fmt.Sprintf("Listed property %02d ok", i), "Denpasar", 100)
		_, err := favorites.Toggle(ctx, user.ID, p.ID)
		require.NoError(t, err)
		ids = append(ids, p.ID)
	}

	got, total, err := favorites.ListByUser(ctx, user.ID, 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, got, 3)
	// Most recently favorited first.
	assert.Equal(t, ids[2], got[0])
	assert.Equal(t, ids[0], got[2])
}

func TestImageOrderingAndReorder(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	log := logger.NewLogger()
	users := NewUserRepository(db, log)
	properties := NewPropertyRepository(db, log)
	images := NewImageRepository(db, log)

	owner := seedUser(t, users, "img-owner@example.com")
	property := seedProperty(t, properties, owner.ID, "Gallery listing title", "Denpasar", 100)

	maxOrder, err := images.MaxOrder(ctx, property.ID)
	require.NoError(t, err)
	assert.Equal(t, -1, maxOrder)

	batch := []*domain.PropertyImage{
		{PropertyID: property.ID, URL: "http://blob/a.jpg", Order: 0},
		{PropertyID: property.ID, URL: "http://blob/b.jpg", Order: 1},
		{PropertyID: property.ID, URL: "http://blob/c.jpg", Order: 2},
	}
	require.NoError(t, images.CreateBatch(ctx, batch))

	maxOrder, err = images.MaxOrder(ctx, property.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, maxOrder)

	// Apply the permutation [3,1,2] and expect b, c, a.
	require.NoError(t, images.SetOrder(ctx, batch[0].ID, 3))
	require.NoError(t, images.SetOrder(ctx, batch[1].ID, 1))
	require.NoError(t, images.SetOrder(ctx, batch[2].ID, 2))

	gallery, err := images.FindByProperty(ctx, property.ID)
	require.NoError(t, err)
	require.Len(t, gallery, 3)
	assert.Equal(t, "http://blob/b.jpg", gallery[0].URL)
	assert.Equal(t, "http://blob/c.jpg", gallery[1].URL)
	assert.Equal(t, "http://blob/a.jpg", gallery[2].URL)

	lead, err := images.LeadImages(ctx, []string{property.ID})
	require.NoError(t, err)
	require.Contains(t, lead, property.ID)
	assert.Equal(t, "http://blob/b.jpg", lead[property.ID].URL)

	urls, err := images.DeleteByProperty(ctx, property.ID)
	require.NoError(t, err)
	assert.Len(t, urls, 3)

	gallery, err = images.FindByProperty(ctx, property.ID)
	require.NoError(t, err)
	assert.Empty(t, gallery)
}
