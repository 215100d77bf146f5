package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	connectTimeout = 10 * time.Second
	pingTimeout    = 5 * time.Second
)

// ConnectDB opens a client for uri and verifies it with a primary ping.
func ConnectDB(ctx context.Context, uri string) (*mongo.Client, error) {
	connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}

	pingCtx, pingCancel := context.WithTimeout(ctx, pingTimeout)
	defer pingCancel()

	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		disconnectCtx, disconnectCancel := context.WithTimeout(context.Background(), pingTimeout)
		defer disconnectCancel()
		_ = client.Disconnect(disconnectCtx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	return client, nil
}

// Ping reports whether the primary is reachable. Used by the health endpoint.
func Ping(ctx context.Context, client *mongo.Client) error {
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	return client.Ping(pingCtx, readpref.Primary())
}

// DisconnectDB gracefully disconnects the MongoDB client.
func DisconnectDB(client *mongo.Client) error {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	return client.Disconnect(ctx)
}

// EnsureIndexes creates every collection index the repositories rely on.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	steps := []struct {
		name   string
		ensure func(context.Context, *mongo.Collection) error
	}{
		{userCollectionName, EnsureUserIndexes},
		{studyPlanCollectionName, EnsureStudyPlanIndexes},
		{resourceSetCollectionName, EnsureResourceSetIndexes},
		{studySessionCollectionName, EnsureStudySessionIndexes},
	}
	for _, step := range steps {
		if err := step.ensure(ctx, db.Collection(step.name)); err != nil {
			return fmt.Errorf("ensure %s indexes: %w", step.name, err)
		}
	}
	return nil
}
