package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Default connection timeout
const defaultTimeout = 10 * time.Second

// ConnectDB establishes a connection to MongoDB using the provided URI and
// verifies it with a ping to the primary.
func ConnectDB(ctx context.Context, uri string) (*mongo.Client, error) {
	connectCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}

	// The initial connection might succeed while the server is unresponsive.
	pingCtx, pingCancel := context.WithTimeout(ctx, 5*time.Second)
	defer pingCancel()

	if err = client.Ping(pingCtx, readpref.Primary()); err != nil {
		disconnectCtx, disconnectCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer disconnectCancel()
		_ = client.Disconnect(disconnectCtx)
		return nil, err
	}

	return client, nil
}

// DisconnectDB gracefully disconnects the MongoDB client.
func DisconnectDB(client *mongo.Client) error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()
	return client.Disconnect(ctx)
}

// IndexEnsurer creates the indexes of one collection.
type IndexEnsurer func(ctx context.Context, db *mongo.Database) error

// AllIndexes lists the index setup of every collection used by the app.
func AllIndexes() map[string]IndexEnsurer {
	return map[string]IndexEnsurer{
		userCollectionName: func(ctx context.Context, db *mongo.Database) error {
			return EnsureUserIndexes(ctx, db.Collection(userCollectionName))
		},
		workoutPlanCollectionName: func(ctx context.Context, db *mongo.Database) error {
			return EnsureWorkoutPlanIndexes(ctx, db.Collection(workoutPlanCollectionName))
		},
		uploadCollectionName: func(ctx context.Context, db *mongo.Database) error {
			return EnsureUploadIndexes(ctx, db.Collection(uploadCollectionName))
		},
	}
}
