// Package mongodb dials the MongoDB deployment backing the default store driver.
package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Connect opens a client for uri, pings it, and returns the named database.
// The caller owns the client and must Disconnect it on shutdown.
func Connect(ctx context.Context, uri, database string) (*mongo.Database, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	opts := options.Client().ApplyURI(uri).
		SetConnectTimeout(5 * time.Second).
		SetServerSelectionTimeout(5 * time.Second).
		SetMaxPoolSize(50)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("mongodb: connect: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongodb: ping: %w", err)
	}

	return client.Database(database), nil
}

// Disconnect closes the client behind db.
func Disconnect(ctx context.Context, db *mongo.Database) error {
	if db == nil {
		return nil
	}
	return db.Client().Disconnect(ctx)
}
