package mongodb

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/muhammadegaa/easyhome/internal/domain"
	"github.com/muhammadegaa/easyhome/internal/platform/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

const propertyCollectionName = "properties"

// propertySortFields maps public sort parameter names to BSON field names.
var propertySortFields = map[string]string{
	"createdAt":     "created_at",
	"publishedAt":   "published_at",
	"price":         "price",
	"viewCount":     "view_count",
	"favoriteCount": "favorite_count",
	"bedrooms":      "bedrooms",
	"bathrooms":     "bathrooms",
	"landArea":      "land_area",
	"buildingArea":  "building_area",
	"yearBuilt":     "year_built",
	"title":         "title",
}

// PropertyRepository implements domain.PropertyRepository on MongoDB.
type PropertyRepository struct {
	collection *mongo.Collection
	logger     *logger.Logger
}

// NewPropertyRepository creates the repository and ensures its indexes.
func NewPropertyRepository(db *mongo.Database, log *logger.Logger) (*PropertyRepository, error) {
	collection := db.Collection(propertyCollectionName)

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "owner_id", Value: 1}, {Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "city", Value: 1}}},
		{Keys: bson.D{{Key: "property_type", Value: 1}}},
		{Keys: bson.D{{Key: "listing_type", Value: 1}}},
		{Keys: bson.D{{Key: "price", Value: 1}}},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		log.Error("Failed to create indexes for properties collection", zap.Error(err))
	} else {
		log.Info("Successfully ensured indexes for properties collection")
	}

	return &PropertyRepository{
		collection: collection,
		logger:     log.Named("PropertyRepository"),
	}, nil
}

// Create inserts a new property listing.
func (r *PropertyRepository) Create(ctx context.Context, property *domain.Property) error {
	doc, err := fromDomainProperty(property)
	if err != nil {
		return err
	}
	if doc.ID.IsZero() {
		doc.ID = primitive.NewObjectID()
	}
	now := time.Now().UTC()
	doc.CreatedAt = now
	doc.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		r.logger.Error("Failed to insert property into DB", zap.Error(err))
		return fmt.Errorf("db insert failed: %w", err)
	}

	property.ID = doc.ID.Hex()
	property.CreatedAt = now
	property.UpdatedAt = now
	return nil
}

func (r *PropertyRepository) FindByID(ctx context.Context, id string) (*domain.Property, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrNotFound
	}
	var doc propertyDocument
	if err := r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		r.logger.Error("Failed to get property by ID from DB", zap.Error(err), zap.String("property_id", id))
		return nil, fmt.Errorf("db findone failed: %w", err)
	}
	return doc.toDomainProperty(), nil
}

func (r *PropertyRepository) FindByIDs(ctx context.Context, ids []string) ([]*domain.Property, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if oid, err := primitive.ObjectIDFromHex(id); err == nil {
			oids = append(oids, oid)
		}
	}

	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": oids}})
	if err != nil {
		r.logger.Error("Failed to find properties by IDs from DB", zap.Error(err))
		return nil, fmt.Errorf("db find failed: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []*propertyDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("db cursor all failed: %w", err)
	}

	properties := make([]*domain.Property, len(docs))
	for i, doc := range docs {
		properties[i] = doc.toDomainProperty()
	}
	return properties, nil
}

// FindByFilter returns one page of matches plus the total match count.
func (r *PropertyRepository) FindByFilter(ctx context.Context, filter domain.PropertyFilter) ([]*domain.Property, int64, error) {
	r.logger.Debug("Finding properties by filter from DB", zap.Any("filter", filter))

	mongoQuery := buildPropertyQuery(filter)

	findOptions := options.Find()
	if filter.Limit > 0 {
		findOptions.SetLimit(int64(filter.Limit))
		if filter.Page > 0 {
			findOptions.SetSkip(int64(filter.Offset()))
		}
	}
	sortField, ok := propertySortFields[filter.SortBy]
	if !ok {
		sortField = "created_at"
	}
	sortDir := -1
	if filter.SortOrder == "asc" {
		sortDir = 1
	}
	findOptions.SetSort(bson.D{{Key: sortField, Value: sortDir}})

	cursor, err := r.collection.Find(ctx, mongoQuery, findOptions)
	if err != nil {
		r.logger.Error("Failed to find properties by filter from DB", zap.Error(err))
		return nil, 0, fmt.Errorf("db find failed: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []*propertyDocument
	if err := cursor.All(ctx, &docs); err != nil {
		r.logger.Error("Failed to decode properties from DB", zap.Error(err))
		return nil, 0, fmt.Errorf("db cursor all failed: %w", err)
	}

	properties := make([]*domain.Property, len(docs))
	for i, doc := range docs {
		properties[i] = doc.toDomainProperty()
	}

	total, err := r.collection.CountDocuments(ctx, mongoQuery)
	if err != nil {
		r.logger.Error("Failed to count properties by filter from DB", zap.Error(err))
		return nil, 0, fmt.Errorf("db count failed: %w", err)
	}

	return properties, total, nil
}

func buildPropertyQuery(filter domain.PropertyFilter) bson.M {
	query := bson.M{}

	if filter.OwnerID != "" {
		query["owner_id"] = filter.OwnerID
	}
	if filter.Status != "" {
		query["status"] = string(filter.Status)
	}
	if filter.PropertyType != "" {
		query["property_type"] = string(filter.PropertyType)
	}
	if filter.ListingType != "" {
		query["listing_type"] = string(filter.ListingType)
	}
	if filter.City != "" {
		query["city"] = ciSubstring(filter.City)
	}
	if filter.Province != "" {
		query["province"] = ciSubstring(filter.Province)
	}
	if filter.MinPrice != nil || filter.MaxPrice != nil {
		priceRange := bson.M{}
		if filter.MinPrice != nil {
			priceRange["$gte"] = *filter.MinPrice
		}
		if filter.MaxPrice != nil {
			priceRange["$lte"] = *filter.MaxPrice
		}
		query["price"] = priceRange
	}
	if filter.MinBedrooms != nil {
		query["bedrooms"] = bson.M{"$gte": *filter.MinBedrooms}
	}
	if filter.MinBathrooms != nil {
		query["bathrooms"] = bson.M{"$gte": *filter.MinBathrooms}
	}
	if filter.Search != "" {
		pattern := ciSubstring(filter.Search)
		query["$or"] = []bson.M{
			{"title": pattern},
			{"description": pattern},
			{"address": pattern},
		}
	}

	return query
}

// ciSubstring builds a case-insensitive substring match with the user input
// quoted so regex metacharacters cannot alter the query.
func ciSubstring(term string) bson.M {
	return bson.M{"$regex": regexp.QuoteMeta(term), "$options": "i"}
}

// Update persists the property's mutable fields.
func (r *PropertyRepository) Update(ctx context.Context, property *domain.Property) error {
	doc, err := fromDomainProperty(property)
	if err != nil {
		return err
	}
	doc.UpdatedAt = time.Now().UTC()
	property.UpdatedAt = doc.UpdatedAt

	updatePayload := bson.M{
		"$set": bson.M{
			"title":           doc.Title,
			"description":     doc.Description,
			"property_type":   doc.PropertyType,
			"listing_type":    doc.ListingType,
			"price":           doc.Price,
			"price_per_month": doc.PricePerMonth,
			"address":         doc.Address,
			"city":            doc.City,
			"province":        doc.Province,
			"zip_code":        doc.ZipCode,
			"latitude":        doc.Latitude,
			"longitude":       doc.Longitude,
			"bedrooms":        doc.Bedrooms,
			"bathrooms":       doc.Bathrooms,
			"land_area":       doc.LandArea,
			"building_area":   doc.BuildingArea,
			"floors":          doc.Floors,
			"garage":          doc.Garage,
			"year_built":      doc.YearBuilt,
			"furnished":       doc.Furnished,
			"certificate":     doc.Certificate,
			"status":          doc.Status,
			"updated_at":      doc.UpdatedAt,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": doc.ID}, updatePayload)
	if err != nil {
		r.logger.Error("Failed to update property in DB", zap.Error(err), zap.String("property_id", property.ID))
		return fmt.Errorf("db update failed: %w", err)
	}
	if result.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PropertyRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrNotFound
	}
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		r.logger.Error("Failed to delete property from DB", zap.Error(err), zap.String("property_id", id))
		return fmt.Errorf("db delete failed: %w", err)
	}
	if result.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// IncrementViewCount bumps the view counter with a store-side $inc so
// concurrent fetches never lose an increment.
func (r *PropertyRepository) IncrementViewCount(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrNotFound
	}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$inc": bson.M{"view_count": 1}})
	if err != nil {
		r.logger.Error("Failed to increment view count in DB", zap.Error(err), zap.String("property_id", id))
		return fmt.Errorf("db update failed: %w", err)
	}
	if result.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// adjustFavoriteCount applies a store-side $inc to the favorite counter.
// Used by the favorite repository to keep ledger and counter consistent.
func (r *PropertyRepository) adjustFavoriteCount(ctx context.Context, id string, delta int) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrNotFound
	}
	_, err = r.collection.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$inc": bson.M{"favorite_count": delta}})
	if err != nil {
		return fmt.Errorf("db update failed: %w", err)
	}
	return nil
}
