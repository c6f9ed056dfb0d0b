package mongodb

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/muhammadegaa/easyhome/internal/domain"
	"github.com/muhammadegaa/easyhome/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Exercises the repositories against a live MongoDB. Set TEST_MONGO_URI
// (e.g. mongodb://localhost:27017) to run; skipped otherwise.
func newTestDatabase(t *testing.T) *mongo.Database {
	t.Helper()
	uri := os.Getenv("TEST_MONGO_URI")
	if uri == "" {
		t.Skip("TEST_MONGO_URI not set, skipping MongoDB integration test")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	require.NoError(t, err)
	require.NoError(t, client.Ping(ctx, readpref.Primary()))

	dbName := fmt.Sprintf("easyhome_test_%d", time.Now().UnixNano())
	db := client.Database(dbName)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = db.Drop(ctx)
		_ = client.Disconnect(ctx)
	})
	return db
}

func seedTestUser(t *testing.T, users *UserRepository, email string) *domain.User {
	t.Helper()
	user := &domain.User{
		Email:        email,
		PasswordHash: "hash",
		Name:         "Integration Tester",
		Role:         domain.RoleSeller,
	}
	require.NoError(t, users.Create(context.Background(), user))
	return user
}

func seedTestProperty(t *testing.T, properties *PropertyRepository, ownerID, title string) *domain.Property {
	t.Helper()
	property := &domain.Property{
		OwnerID:      ownerID,
		Title:        title,
		Description:  "A property persisted by the integration test suite to verify round trips.",
		PropertyType: domain.TypeHouse,
		ListingType:  domain.ListingSale,
		Price:        1500000000,
		Address:      "Jl. Raya Kuta 10",
		City:         "Badung",
		Province:     "Bali",
		Status:       domain.StatusAvailable,
		PublishedAt:  time.Now().UTC(),
	}
	require.NoError(t, properties.Create(context.Background(), property))
	return property
}

func TestMongoUserLifecycle(t *testing.T) {
	db := newTestDatabase(t)
	log := logger.NewLogger()
	ctx := context.Background()

	users, err := NewUserRepository(db, log)
	require.NoError(t, err)

	user := seedTestUser(t, users, "integration@example.com")
	require.NotEmpty(t, user.ID)

	dup := &domain.User{Email: "integration@example.com", PasswordHash: "x", Name: "Dup", Role: domain.RoleBuyer}
	assert.ErrorIs(t, users.Create(ctx, dup), domain.ErrEmailTaken)

	require.NoError(t, users.SetVerificationToken(ctx, user.ID, "tok-123"))
	found, err := users.FindByVerificationToken(ctx, "tok-123")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)

	require.NoError(t, users.MarkVerified(ctx, user.ID))
	verified, err := users.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, verified.IsVerified)
	assert.Empty(t, verified.VerificationToken)

	_, err = users.FindByVerificationToken(ctx, "tok-123")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMongoPropertySearchAndCounters(t *testing.T) {
	db := newTestDatabase(t)
	log := logger.NewLogger()
	ctx := context.Background()

	users, err := NewUserRepository(db, log)
	require.NoError(t, err)
	properties, err := NewPropertyRepository(db, log)
	require.NoError(t, err)

	owner := seedTestUser(t, users, "owner@example.com")
	seedTestProperty(t, properties, owner.ID, "Modern villa with a private pool")
	seedTestProperty(t, properties, owner.ID, "Cozy townhouse near the market")

	filter := domain.PropertyFilter{
		Search:    "MODERN",
		Status:    domain.StatusAvailable,
		SortBy:    "createdAt",
		SortOrder: "desc",
		Page:      1,
		Limit:     20,
	}
	items, total, err := properties.FindByFilter(ctx, filter)
	require.NoError(t, err)
	require.Equal(t, int64(1), total, "search is case-insensitive")
	require.Len(t, items, 1)

	target := items[0]
	require.NoError(t, properties.IncrementViewCount(ctx, target.ID))
	require.NoError(t, properties.IncrementViewCount(ctx, target.ID))
	fetched, err := properties.FindByID(ctx, target.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), fetched.ViewCount)
}

func TestMongoFavoriteToggleKeepsCounter(t *testing.T) {
	db := newTestDatabase(t)
	log := logger.NewLogger()
	ctx := context.Background()

	users, err := NewUserRepository(db, log)
	require.NoError(t, err)
	properties, err := NewPropertyRepository(db, log)
	require.NoError(t, err)
	favorites, err := NewFavoriteRepository(db, properties, log)
	require.NoError(t, err)

	owner := seedTestUser(t, users, "owner@example.com")
	listing := seedTestProperty(t, properties, owner.ID, "Listing with a favorite ledger")

	var userIDs []string
	for i := 0; i < 5; i++ {
		u := seedTestUser(t, users, fmt.Sprintf("fan%d@example.com", i))
		userIDs = append(userIDs, u.ID)
	}

	for _, id := range userIDs {
		favorited, err := favorites.Toggle(ctx, id, listing.ID)
		require.NoError(t, err)
		assert.True(t, favorited)
	}

	fetched, err := properties.FindByID(ctx, listing.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(5), fetched.FavoriteCount)

	favorited, err := favorites.Toggle(ctx, userIDs[0], listing.ID)
	require.NoError(t, err)
	assert.False(t, favorited)

	fetched, err = properties.FindByID(ctx, listing.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(4), fetched.FavoriteCount)

	ids, total, err := favorites.ListByUser(ctx, userIDs[1], 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, []string{listing.ID}, ids)
}
