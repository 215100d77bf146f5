// internal/repository/mongo/study_plan_repo.go
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

const studyPlanCollectionName = "study_plans"

// mongoStudyPlanRepository implements repository.StudyPlanRepository
type mongoStudyPlanRepository struct {
	collection *mongo.Collection
}

// NewMongoStudyPlanRepository creates a new StudyPlan repository.
func NewMongoStudyPlanRepository(db *mongo.Database) repository.StudyPlanRepository {
	return &mongoStudyPlanRepository{
		collection: db.Collection(studyPlanCollectionName),
	}
}

// Create inserts a new study plan. The partial unique index on
// (userId, normalizedSubject, isActive=true) turns a concurrent duplicate into ErrDuplicate.
func (r *mongoStudyPlanRepository) Create(ctx context.Context, plan *domain.StudyPlan) (primitive.ObjectID, error) {
	if plan.UserID == primitive.NilObjectID || plan.NormalizedSubject == "" {
		return primitive.NilObjectID, errors.New("plan requires userId and subject")
	}
	plan.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	plan.CreatedAt = now
	plan.UpdatedAt = now
	plan.LastUpdated = now

	result, err := r.collection.InsertOne(ctx, plan)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted plan ID")
	}
	return insertedID, nil
}

// GetByID retrieves a single study plan by its ID.
func (r *mongoStudyPlanRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.StudyPlan, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

// FindActiveBySubject returns the active plan of a user for a normalized subject.
func (r *mongoStudyPlanRepository) FindActiveBySubject(ctx context.Context, userID primitive.ObjectID, normalizedSubject string) (*domain.StudyPlan, error) {
	return r.findOne(ctx, bson.M{
		"userId":            userID,
		"normalizedSubject": normalizedSubject,
		"isActive":          true,
	})
}

func (r *mongoStudyPlanRepository) findOne(ctx context.Context, filter bson.M) (*domain.StudyPlan, error) {
	var plan domain.StudyPlan
	err := r.collection.FindOne(ctx, filter).Decode(&plan)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &plan, nil
}

// ListByUser retrieves a user's plans, newest first.
func (r *mongoStudyPlanRepository) ListByUser(ctx context.Context, userID primitive.ObjectID, activeOnly bool) ([]domain.StudyPlan, error) {
	filter := bson.M{"userId": userID}
	if activeOnly {
		filter["isActive"] = true
	}
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	plans := []domain.StudyPlan{}
	if err = cursor.All(ctx, &plans); err != nil {
		return nil, err
	}
	return plans, nil
}

// DeleteOwned deletes a plan only if it belongs to ownerID.
func (r *mongoStudyPlanRepository) DeleteOwned(ctx context.Context, id, ownerID primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id, "userId": ownerID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ownershipMiss(ctx, r.collection, id)
	}
	return nil
}

// UpdateProgress sets the progress counter of an owned plan.
func (r *mongoStudyPlanRepository) UpdateProgress(ctx context.Context, id, ownerID primitive.ObjectID, progress int) error {
	now := time.Now().UTC()
	update := bson.M{"$set": bson.M{
		"progress":    progress,
		"lastUpdated": now,
		"updatedAt":   now,
	}}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id, "userId": ownerID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ownershipMiss(ctx, r.collection, id)
	}
	return nil
}

// DeactivateExpired marks active plans whose exam date is before the given time as inactive.
func (r *mongoStudyPlanRepository) DeactivateExpired(ctx context.Context, before time.Time) (int64, error) {
	filter := bson.M{
		"isActive": true,
		"examAt":   bson.M{"$lt": before},
	}
	now := time.Now().UTC()
	update := bson.M{"$set": bson.M{"isActive": false, "updatedAt": now}}
	result, err := r.collection.UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, err
	}
	return result.ModifiedCount, nil
}

// EnsureStudyPlanIndexes creates necessary indexes. Call during startup.
func EnsureStudyPlanIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			// One active plan per user and subject.
			Keys: bson.D{{Key: "userId", Value: 1}, {Key: "normalizedSubject", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"isActive": true}).
				SetName("uniq_active_subject"),
		},
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "isActive", Value: 1}, {Key: "examAt", Value: 1}},
			Options: options.Index(),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
