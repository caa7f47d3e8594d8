package main

import (
	"context"
	"net/http"
	"time"

	"pontotaxi/backend/internal/api/handler"
	"pontotaxi/backend/internal/auth"
	"pontotaxi/backend/internal/config"
	"pontotaxi/backend/internal/dashboard"
	"pontotaxi/backend/internal/fleet"
	"pontotaxi/backend/internal/livehub"
	"pontotaxi/backend/internal/messages"
	"pontotaxi/backend/internal/notify"
	"pontotaxi/backend/internal/reports"
	"pontotaxi/backend/internal/storage"
	"pontotaxi/backend/internal/surveys"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupDependencies(cfg *config.Config, log *zap.Logger) (*gorm.DB, *redis.Client) {
	db, err := gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect PostgreSQL", zap.Error(err))
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Fatal("failed to connect Redis", zap.Error(err))
	}

	if err := storage.Migrate(db); err != nil {
		log.Fatal("failed to run migrations", zap.Error(err))
	}

	log.Info("database and Redis connections established, migrations complete")
	return db, rdb
}

func setupNotifier(cfg *config.Config, log *zap.Logger) messages.Notifier {
	var fan notify.Fanout
	if cfg.TelegramToken != "" && cfg.TelegramChatID != 0 {
		tg, err := notify.NewTelegramNotifier(cfg.TelegramToken, cfg.TelegramChatID, log)
		if err != nil {
			log.Warn("telegram notifier disabled", zap.Error(err))
		} else {
			fan = append(fan, tg)
		}
	}
	if cfg.WebhookURL != "" {
		fan = append(fan, notify.NewWebhookNotifier(cfg.WebhookURL, log))
	}
	if len(fan) == 0 {
		return nil
	}
	return fan
}

func main() {
	log, _ := zap.NewProduction()
	defer log.Sync()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("invalid configuration", zap.Error(err))
	}
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET is required")
	}

	db, rdb := setupDependencies(cfg, log)
	store := storage.NewService(db, rdb, log)

	hub := livehub.NewManager(store, log)
	msgSvc := messages.NewService(store, setupNotifier(cfg, log), log)
	svySvc := surveys.NewService(store, log)
	dashSvc := dashboard.NewService(store, store, rdb, log)
	repSvc := reports.NewService(store, log)
	authSvc := auth.NewService([]byte(cfg.JWTSecret), store, log)

	go hub.Run()
	go dashSvc.Run()

	if cfg.MQTTBroker != "" {
		ingest := fleet.NewIngestor(store, log)
		if err := ingest.Connect(cfg.MQTTBroker, cfg.MQTTClientID); err != nil {
			log.Warn("fleet ingest disabled", zap.Error(err))
		} else {
			defer ingest.Disconnect()
		}
	}

	handler.RegisterValidators()
	r := gin.Default()
	h := handler.NewHandler(msgSvc, svySvc, dashSvc, repSvc, authSvc, store, hub, log)
	h.RegisterRoutes(r)

	server := &http.Server{
		Addr:           cfg.HTTPAddr,
		Handler:        r,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   30 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	log.Info("listening", zap.String("addr", cfg.HTTPAddr))
	log.Fatal("server stopped", zap.Error(server.ListenAndServe()))
}
