package mongo

import (
	"context"
	"errors"
	"time"

	"mindmentor/study-craft/internal/domain"
	"mindmentor/study-craft/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const resourceSetCollectionName = "curated_resources"

type mongoResourceSetRepository struct {
	collection *mongo.Collection
}

// NewMongoResourceSetRepository creates a new curated resource set repository.
func NewMongoResourceSetRepository(db *mongo.Database) repository.ResourceSetRepository {
	return &mongoResourceSetRepository{
		collection: db.Collection(resourceSetCollectionName),
	}
}

// Create inserts a new resource set; (userId, topic) is unique.
func (r *mongoResourceSetRepository) Create(ctx context.Context, set *domain.CuratedResourceSet) (primitive.ObjectID, error) {
	if set.UserID == primitive.NilObjectID || set.Topic == "" {
		return primitive.NilObjectID, errors.New("resource set requires userId and topic")
	}
	set.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	set.CreatedAt = now
	set.UpdatedAt = now
	set.LastUpdated = now

	result, err := r.collection.InsertOne(ctx, set)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted resource set ID")
	}
	return insertedID, nil
}

func (r *mongoResourceSetRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.CuratedResourceSet, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

// FindByTopic looks up a user's set by normalized topic.
func (r *mongoResourceSetRepository) FindByTopic(ctx context.Context, userID primitive.ObjectID, topic string) (*domain.CuratedResourceSet, error) {
	return r.findOne(ctx, bson.M{"userId": userID, "topic": topic})
}

func (r *mongoResourceSetRepository) findOne(ctx context.Context, filter bson.M) (*domain.CuratedResourceSet, error) {
	var set domain.CuratedResourceSet
	err := r.collection.FindOne(ctx, filter).Decode(&set)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &set, nil
}

// ListByUser retrieves a user's resource sets, newest first.
func (r *mongoResourceSetRepository) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]domain.CuratedResourceSet, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	sets := []domain.CuratedResourceSet{}
	if err = cursor.All(ctx, &sets); err != nil {
		return nil, err
	}
	return sets, nil
}

// DeleteOwned deletes a resource set only if it belongs to ownerID.
func (r *mongoResourceSetRepository) DeleteOwned(ctx context.Context, id, ownerID primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id, "userId": ownerID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ownershipMiss(ctx, r.collection, id)
	}
	return nil
}

// EnsureResourceSetIndexes creates necessary indexes. Call during startup.
func EnsureResourceSetIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "topic", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_user_topic"),
		},
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index(),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
