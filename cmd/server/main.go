package main

import (
	"candlearena.com/tradesim/internal/config"
	"candlearena.com/tradesim/internal/model"
	"candlearena.com/tradesim/internal/server"
	"candlearena.com/tradesim/pkg/database"
	"candlearena.com/tradesim/pkg/logger"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	if err := logger.Init(cfg.AppEnv); err != nil {
		panic(err)
	}
	defer logger.Sync()

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Fatalf("failed to connect database: %v", err)
	}

	if database.IsConfigured(db) {
		if err := migrate(db); err != nil {
			logger.Fatalf("migration failed: %v", err)
		}
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logger.Fatalf("invalid REDIS_URL: %v", err)
		}
		redisClient = redis.NewClient(opts)
	} else {
		logger.Warnf("REDIS_URL is not set, rate limiting and live feed fan-out are disabled")
	}

	srv := server.NewServer(cfg, db, redisClient)

	logger.Infof("leaderboard service listening on :%s", cfg.Port)
	if err := srv.Run(":" + cfg.Port); err != nil {
		logger.Fatalf("server exited with error: %v", err)
	}
}

func migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.Profile{},
		&model.TradingSession{},
	)
}
