package mongo

import (
	"context"
	"errors"

	"mindmentor/study-craft/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// ownershipMiss is called after an owner-scoped write matched nothing.
// It tells apart a missing document from one owned by someone else.
func ownershipMiss(ctx context.Context, collection *mongo.Collection, id primitive.ObjectID) error {
	err := collection.FindOne(ctx, bson.M{"_id": id}).Err()
	switch {
	case err == nil:
		return repository.ErrForbidden
	case errors.Is(err, mongo.ErrNoDocuments):
		return repository.ErrNotFound
	default:
		return err
	}
}
