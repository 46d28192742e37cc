package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/Yoonyesol/Web-Social-Account-Book-backend/internal/config"
	"github.com/Yoonyesol/Web-Social-Account-Book-backend/internal/database"
	"github.com/Yoonyesol/Web-Social-Account-Book-backend/internal/router"
	"github.com/Yoonyesol/Web-Social-Account-Book-backend/internal/storage"
)

const connectTimeout = 30 * time.Second

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	if err := run(logger); err != nil {
		logger.Error("application terminated with an error", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	cfg, err := config.Load("config.yaml")
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	client, err := database.Connect(ctx, logger, cfg.Mongo)
	if err != nil {
		return err
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			logger.Error("error disconnecting from MongoDB", "error", err)
		}
	}()

	store, err := storage.NewMongo(ctx, client, cfg.Mongo.Database)
	if err != nil {
		return fmt.Errorf("init store: %w", err)
	}

	r := router.Setup(cfg, store)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Address, cfg.Server.Port)
	logger.Info("server listening", "addr", addr)
	if err := r.Run(addr); err != nil {
		return fmt.Errorf("run server: %w", err)
	}
	return nil
}
