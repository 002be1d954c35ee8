package main

import (
	"context"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"kaaswinkel/internal/config"
	"kaaswinkel/internal/db"
	"kaaswinkel/internal/seed"
)

func main() {
	_ = godotenv.Load()
	cfg := config.FromEnv()
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatal("connect db", zap.Error(err))
	}
	defer pool.Close()

	if err := seed.Apply(ctx, pool, cfg.AdminEmail, cfg.AdminPassword, logger); err != nil {
		logger.Fatal("seed apply", zap.Error(err))
	}

	logger.Info("seed applied")
}
