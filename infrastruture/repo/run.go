package repo

import (
	"context"
	"fmt"
	"time"

	dmn "github.com/beka-birhanu/torchmaze/domain"
	"github.com/beka-birhanu/torchmaze/service/i"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const defaultRunLimit = 20

var _ i.RunRepo = &RunRepo{}

// RunRepo handles the persistence of finished runs.
type RunRepo struct {
	collection *mongo.Collection
}

// NewRunRepo creates a new RunRepo with the given MongoDB client, database name, and collection name.
func NewRunRepo(client *mongo.Client, dbName, collectionName string) (*RunRepo, error) {
	collection := client.Database(dbName).Collection(collectionName)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, err := collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "playerId", Value: 1}, {Key: "endedAt", Value: -1}},
	})
	if err != nil {
		return nil, fmt.Errorf("creating run index: %w", err)
	}

	return &RunRepo{collection: collection}, nil
}

// Save inserts a run. Runs are immutable once written.
func (r *RunRepo) Save(run *dmn.Run) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if _, err := r.collection.InsertOne(ctx, run); err != nil {
		return fmt.Errorf("unexpected error: %w", err)
	}
	return nil
}

// ByPlayer returns up to limit runs of the player, newest first.
// A non-positive limit falls back to a default page size.
func (r *RunRepo) ByPlayer(playerID uuid.UUID, limit int) ([]*dmn.Run, error) {
	if limit <= 0 {
		limit = defaultRunLimit
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "endedAt", Value: -1}}).
		SetLimit(int64(limit))
	cursor, err := r.collection.Find(ctx, bson.M{"playerId": playerID}, opts)
	if err != nil {
		return nil, fmt.Errorf("unexpected error: %w", err)
	}
	defer cursor.Close(ctx)

	runs := make([]*dmn.Run, 0, limit)
	if err := cursor.All(ctx, &runs); err != nil {
		return nil, fmt.Errorf("decoding runs: %w", err)
	}
	return runs, nil
}
