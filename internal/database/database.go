// Package database establishes the MongoDB connection the store runs on.
package database

import (
	"context"
	"fmt"
	"log/slog"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Yoonyesol/Web-Social-Account-Book-backend/internal/config"
)

// Connect establishes and verifies a connection to MongoDB.
func Connect(ctx context.Context, logger *slog.Logger, cfg config.MongoConfig) (*mongo.Client, error) {
	logger.DebugContext(ctx, "connecting to MongoDB", "uri", cfg.URI)

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("ping MongoDB: %w", err)
	}

	logger.InfoContext(ctx, "connected to MongoDB", "database", cfg.Database)
	return client, nil
}
