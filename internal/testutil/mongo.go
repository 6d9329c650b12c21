//go:build integration

package testutil

import (
	"context"
	"fmt"
	"log"
	"testing"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"storefront/internal/database"
)

// MongoSetup is a single node replica set, so transactions work.
type MongoSetup struct {
	Client  *mongo.Client
	cleanup func()
}

func (m *MongoSetup) Cleanup() {
	m.cleanup()
}

// Database returns a fresh database with every index in place.
func (m *MongoSetup) Database(t *testing.T) *mongo.Database {
	t.Helper()
	db := m.Client.Database("storefront_" + primitive.NewObjectID().Hex())
	if err := database.EnsureIndexes(db); err != nil {
		t.Fatalf("failed to create indexes: %v", err)
	}
	t.Cleanup(func() { _ = db.Drop(context.Background()) })
	return db
}

// StartMongo runs once per test binary, from TestMain, so it reports errors
// instead of failing a test.
func StartMongo(ctx context.Context) (*MongoSetup, error) {
	container, err := mongodb.Run(ctx, "mongo:7", mongodb.WithReplicaSet("rs0"))
	if err != nil {
		return nil, fmt.Errorf("failed to start mongo container: %w", err)
	}

	uri, err := container.ConnectionString(ctx)
	if err != nil {
		_ = testcontainers.TerminateContainer(container)
		return nil, fmt.Errorf("failed to get connection string: %w", err)
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		_ = testcontainers.TerminateContainer(container)
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}

	cleanup := func() {
		_ = client.Disconnect(context.Background())
		if err := testcontainers.TerminateContainer(container); err != nil {
			log.Printf("failed to terminate mongo container: %v", err)
		}
	}

	return &MongoSetup{Client: client, cleanup: cleanup}, nil
}
