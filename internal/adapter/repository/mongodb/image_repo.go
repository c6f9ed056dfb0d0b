package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/muhammadegaa/easyhome/internal/domain"
	"github.com/muhammadegaa/easyhome/internal/platform/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

const imageCollectionName = "property_images"

// ImageRepository implements domain.ImageRepository on MongoDB.
type ImageRepository struct {
	collection *mongo.Collection
	logger     *logger.Logger
}

// NewImageRepository creates the repository and ensures its indexes.
func NewImageRepository(db *mongo.Database, log *logger.Logger) (*ImageRepository, error) {
	collection := db.Collection(imageCollectionName)

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "property_id", Value: 1}, {Key: "order", Value: 1}}},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		log.Error("Failed to create indexes for property_images collection", zap.Error(err))
	} else {
		log.Info("Successfully ensured indexes for property_images collection")
	}

	return &ImageRepository{
		collection: collection,
		logger:     log.Named("ImageRepository"),
	}, nil
}

// CreateBatch inserts a set of gallery entries in one call.
func (r *ImageRepository) CreateBatch(ctx context.Context, images []*domain.PropertyImage) error {
	if len(images) == 0 {
		return nil
	}
	now := time.Now().UTC()
	docs := make([]interface{}, 0, len(images))
	oids := make([]primitive.ObjectID, 0, len(images))
	for _, img := range images {
		doc, err := fromDomainImage(img)
		if err != nil {
			return err
		}
		if doc.ID.IsZero() {
			doc.ID = primitive.NewObjectID()
		}
		doc.CreatedAt = now
		docs = append(docs, doc)
		oids = append(oids, doc.ID)
	}

	if _, err := r.collection.InsertMany(ctx, docs); err != nil {
		r.logger.Error("Failed to insert images into DB", zap.Error(err))
		return fmt.Errorf("db insertmany failed: %w", err)
	}
	for i, img := range images {
		img.ID = oids[i].Hex()
		img.CreatedAt = now
	}
	return nil
}

func (r *ImageRepository) FindByID(ctx context.Context, id string) (*domain.PropertyImage, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrNotFound
	}
	var doc imageDocument
	if err := r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		r.logger.Error("Failed to get image by ID from DB", zap.Error(err), zap.String("image_id", id))
		return nil, fmt.Errorf("db findone failed: %w", err)
	}
	return doc.toDomainImage(), nil
}

// FindByProperty returns a property's gallery ordered ascending.
func (r *ImageRepository) FindByProperty(ctx context.Context, propertyID string) ([]*domain.PropertyImage, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "order", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"property_id": propertyID}, findOptions)
	if err != nil {
		r.logger.Error("Failed to find images by property from DB", zap.Error(err), zap.String("property_id", propertyID))
		return nil, fmt.Errorf("db find failed: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []*imageDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("db cursor all failed: %w", err)
	}

	images := make([]*domain.PropertyImage, len(docs))
	for i, doc := range docs {
		images[i] = doc.toDomainImage()
	}
	return images, nil
}

// LeadImages returns the lowest-order image per property for card views.
func (r *ImageRepository) LeadImages(ctx context.Context, propertyIDs []string) (map[string]*domain.PropertyImage, error) {
	lead := make(map[string]*domain.PropertyImage, len(propertyIDs))
	if len(propertyIDs) == 0 {
		return lead, nil
	}

	findOptions := options.Find().SetSort(bson.D{{Key: "property_id", Value: 1}, {Key: "order", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"property_id": bson.M{"$in": propertyIDs}}, findOptions)
	if err != nil {
		r.logger.Error("Failed to find lead images from DB", zap.Error(err))
		return nil, fmt.Errorf("db find failed: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []*imageDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("db cursor all failed: %w", err)
	}
	for _, doc := range docs {
		if _, seen := lead[doc.PropertyID]; !seen {
			lead[doc.PropertyID] = doc.toDomainImage()
		}
	}
	return lead, nil
}

// MaxOrder returns the highest order value in a gallery, or -1 when empty.
func (r *ImageRepository) MaxOrder(ctx context.Context, propertyID string) (int, error) {
	findOptions := options.FindOne().SetSort(bson.D{{Key: "order", Value: -1}})
	var doc imageDocument
	err := r.collection.FindOne(ctx, bson.M{"property_id": propertyID}, findOptions).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return -1, nil
		}
		r.logger.Error("Failed to find max image order from DB", zap.Error(err), zap.String("property_id", propertyID))
		return 0, fmt.Errorf("db findone failed: %w", err)
	}
	return doc.Order, nil
}

// Update persists the image's caption and category.
func (r *ImageRepository) Update(ctx context.Context, image *domain.PropertyImage) error {
	oid, err := primitive.ObjectIDFromHex(image.ID)
	if err != nil {
		return domain.ErrNotFound
	}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{
		"$set": bson.M{"caption": image.Caption, "category": image.Category},
	})
	if err != nil {
		r.logger.Error("Failed to update image in DB", zap.Error(err), zap.String("image_id", image.ID))
		return fmt.Errorf("db update failed: %w", err)
	}
	if result.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ImageRepository) SetOrder(ctx context.Context, id string, order int) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrNotFound
	}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{"order": order}})
	if err != nil {
		r.logger.Error("Failed to set image order in DB", zap.Error(err), zap.String("image_id", id))
		return fmt.Errorf("db update failed: %w", err)
	}
	if result.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ImageRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrNotFound
	}
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		r.logger.Error("Failed to delete image from DB", zap.Error(err), zap.String("image_id", id))
		return fmt.Errorf("db delete failed: %w", err)
	}
	if result.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// DeleteByProperty removes a whole gallery and returns the blob URLs the
// caller should clean up.
func (r *ImageRepository) DeleteByProperty(ctx context.Context, propertyID string) ([]string, error) {
	images, err := r.FindByProperty(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	urls := make([]string, 0, len(images))
	for _, img := range images {
		urls = append(urls, img.URL)
	}

	if _, err := r.collection.DeleteMany(ctx, bson.M{"property_id": propertyID}); err != nil {
		r.logger.Error("Failed to delete images by property from DB", zap.Error(err), zap.String("property_id", propertyID))
		return nil, fmt.Errorf("db deletemany failed: %w", err)
	}
	return urls, nil
}
