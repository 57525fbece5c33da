// File: internal/platform/database/mongo.go
package database

import (
	"context"
	"fmt"

	"realestate_backend/internal/config"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// NewMongo opens the process-wide MongoDB connection and returns the database
// handle every repository is constructed with. The handle is owned by the
// entry point: opened once at startup, closed via CloseMongo on shutdown.
func NewMongo(cfg *config.Config, logger *zap.Logger) (*mongo.Database, error) {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.MongoConnectTimeout)
	defer cancel()

	opts := options.Client().ApplyURI(cfg.MongoURI).SetRetryWrites(true)
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	logger.Info("Connected to MongoDB",
		zap.String("database", cfg.MongoDBName),
	)
	return client.Database(cfg.MongoDBName), nil
}

// CloseMongo disconnects the underlying client of the given database handle.
func CloseMongo(db *mongo.Database, logger *zap.Logger) {
	if db == nil {
		return
	}
	if err := db.Client().Disconnect(context.Background()); err != nil {
		logger.Error("Failed to disconnect MongoDB client", zap.Error(err))
		return
	}
	logger.Info("MongoDB connection closed.")
}
