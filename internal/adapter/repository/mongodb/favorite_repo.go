package mongodb

import (
	"context"
	"fmt"
	"time"

	"github.com/muhammadegaa/easyhome/internal/platform/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

const favoriteCollectionName = "favorites"

// FavoriteRepository implements domain.FavoriteRepository on MongoDB. The
// (user_id, property_id) unique index makes the toggle race-safe: at most
// one ledger row can exist per pair, and the counter is adjusted with a
// store-side $inc paired to each successful row mutation.
type FavoriteRepository struct {
	collection *mongo.Collection
	properties *PropertyRepository
	logger     *logger.Logger
}

// NewFavoriteRepository creates the repository and ensures its indexes.
func NewFavoriteRepository(db *mongo.Database, properties *PropertyRepository, log *logger.Logger) (*FavoriteRepository, error) {
	collection := db.Collection(favoriteCollectionName)

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "property_id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		log.Error("Failed to create indexes for favorites collection", zap.Error(err))
	} else {
		log.Info("Successfully ensured indexes for favorites collection")
	}

	return &FavoriteRepository{
		collection: collection,
		properties: properties,
		logger:     log.Named("FavoriteRepository"),
	}, nil
}

// Toggle removes the favorite if present, otherwise inserts it, and adjusts
// the property counter by the same delta. It reports whether the property is
// favorited after the call.
func (r *FavoriteRepository) Toggle(ctx context.Context, userID, propertyID string) (bool, error) {
	filter := bson.M{"user_id": userID, "property_id": propertyID}

	result, err := r.collection.DeleteOne(ctx, filter)
	if err != nil {
		r.logger.Error("Failed to delete favorite from DB", zap.Error(err))
		return false, fmt.Errorf("db delete failed: %w", err)
	}
	if result.DeletedCount == 1 {
		if err := r.properties.adjustFavoriteCount(ctx, propertyID, -1); err != nil {
			r.logger.Error("Failed to decrement favorite count", zap.Error(err), zap.String("property_id", propertyID))
			return false, err
		}
		return false, nil
	}

	doc := favoriteDocument{
		ID:         primitive.NewObjectID(),
		UserID:     userID,
		PropertyID: propertyID,
		CreatedAt:  time.Now().UTC(),
	}
	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			// Lost a race against a concurrent toggle for the same pair;
			// that toggle owns the counter adjustment.
			return true, nil
		}
		r.logger.Error("Failed to insert favorite into DB", zap.Error(err))
		return false, fmt.Errorf("db insert failed: %w", err)
	}
	if err := r.properties.adjustFavoriteCount(ctx, propertyID, 1); err != nil {
		r.logger.Error("Failed to increment favorite count", zap.Error(err), zap.String("property_id", propertyID))
		return true, err
	}
	return true, nil
}

// ListByUser returns one page of the user's favorited property IDs, most
// recently favorited first, plus the total favorite count.
func (r *FavoriteRepository) ListByUser(ctx context.Context, userID string, page, limit int) ([]string, int64, error) {
	query := bson.M{"user_id": userID}

	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		findOptions.SetLimit(int64(limit))
		if page > 1 {
			findOptions.SetSkip(int64(page-1) * int64(limit))
		}
	}

	cursor, err := r.collection.Find(ctx, query, findOptions)
	if err != nil {
		r.logger.Error("Failed to find favorites by user from DB", zap.Error(err), zap.String("user_id", userID))
		return nil, 0, fmt.Errorf("db find failed: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []*favoriteDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, 0, fmt.Errorf("db cursor all failed: %w", err)
	}

	propertyIDs := make([]string, len(docs))
	for i, doc := range docs {
		propertyIDs[i] = doc.PropertyID
	}

	total, err := r.collection.CountDocuments(ctx, query)
	if err != nil {
		r.logger.Error("Failed to count favorites by user from DB", zap.Error(err))
		return nil, 0, fmt.Errorf("db count failed: %w", err)
	}

	return propertyIDs, total, nil
}

func (r *FavoriteRepository) IsFavorited(ctx context.Context, userID, propertyID string) (bool, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{"user_id": userID, "property_id": propertyID})
	if err != nil {
		return false, fmt.Errorf("db count failed: %w", err)
	}
	return count > 0, nil
}
