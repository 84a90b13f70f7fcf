// Package mongostore implements the repository interfaces on MongoDB.
// Teams keep their membership inline as a "members" array.
package mongostore

import (
	"context"
	"errors"
	"fmt"

	"github.com/yukikurage/team-task-api/internal/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	usersCollection = "users"
	tasksCollection = "tasks"
	teamsCollection = "teams"
)

// Open connects to MongoDB, ensures indexes and returns the repositories.
func Open(ctx context.Context, uri, database string) (*repository.Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	db := client.Database(database)
	if err := EnsureIndexes(ctx, db); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}

	store := NewStore(db)
	store.Close = client.Disconnect
	return store, nil
}

// NewStore wires the repositories around an open database handle.
func NewStore(db *mongo.Database) *repository.Store {
	return &repository.Store{
		Users: NewUserRepository(db),
		Tasks: NewTaskRepository(db),
		Teams: NewTeamRepository(db),
		Ping: func(ctx context.Context) error {
			return db.Client().Ping(ctx, nil)
		},
		Close: func(context.Context) error { return nil },
	}
}

// EnsureIndexes creates the unique and lookup indexes used by the repositories.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	specs := map[string][]mongo.IndexModel{
		usersCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		tasksCollection: {
			{Keys: bson.D{{Key: "group_id", Value: 1}, {Key: "is_personal", Value: 1}}},
			{Keys: bson.D{{Key: "creator_id", Value: 1}, {Key: "is_personal", Value: 1}}},
			{Keys: bson.D{{Key: "assigned_user_id", Value: 1}}},
		},
		teamsCollection: {
			{Keys: bson.D{{Key: "members", Value: 1}}},
		},
	}

	for collection, models := range specs {
		if _, err := db.Collection(collection).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("failed to create indexes on %s: %w", collection, err)
		}
	}
	return nil
}

// translate maps the driver's not-found error onto repository.ErrNotFound
func translate(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return repository.ErrNotFound
	}
	return err
}
