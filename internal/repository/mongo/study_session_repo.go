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

const studySessionCollectionName = "study_sessions"

type mongoStudySessionRepository struct {
	collection *mongo.Collection
}

// NewMongoStudySessionRepository creates a new study session repository.
func NewMongoStudySessionRepository(db *mongo.Database) repository.StudySessionRepository {
	return &mongoStudySessionRepository{
		collection: db.Collection(studySessionCollectionName),
	}
}

func (r *mongoStudySessionRepository) Create(ctx context.Context, session *domain.StudySession) (primitive.ObjectID, error) {
	if session.UserID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("study session requires userId")
	}
	session.ID = primitive.NewObjectID()
	session.CreatedAt = time.Now().UTC()

	result, err := r.collection.InsertOne(ctx, session)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted session ID")
	}
	return insertedID, nil
}

// ListByUser returns sessions ended at or after since, oldest first.
func (r *mongoStudySessionRepository) ListByUser(ctx context.Context, userID primitive.ObjectID, since time.Time) ([]domain.StudySession, error) {
	filter := bson.M{
		"userId":  userID,
		"endedAt": bson.M{"$gte": since},
	}
	findOptions := options.Find().SetSort(bson.D{{Key: "endedAt", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	sessions := []domain.StudySession{}
	if err = cursor.All(ctx, &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

func EnsureStudySessionIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "endedAt", Value: 1}},
			Options: options.Index(),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
