package main

import (
	"context"
	"fmt"
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"symptom-checker-server/internal/chat"
	"symptom-checker-server/internal/config"
	"symptom-checker-server/internal/llm"
	"symptom-checker-server/internal/logger"
	"symptom-checker-server/internal/models"
	"symptom-checker-server/internal/payment"
	"symptom-checker-server/internal/queue"
	"symptom-checker-server/internal/report"
	"symptom-checker-server/internal/routes"
	"symptom-checker-server/internal/twin"
)

func main() {
	// Load environment variables; a missing .env is fine in deployed environments.
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	zlog, err := logger.New(cfg.Environment)
	if err != nil {
		log.Fatalf("Error initializing logger: %v", err)
	}
	defer zlog.Sync()

	db, err := models.InitDB(models.DatabaseConfig{DSN: cfg.Database.DSN})
	if err != nil {
		zlog.Fatal("database connection failed", zap.Error(err))
	}

	// Redis is optional; the rate limiter fails open without it.
	rdb := config.NewRedisClient()
	if rdb == nil {
		zlog.Warn("redis unavailable, rate limiting disabled")
	}

	publisher := queue.NewPublisher(cfg.AMQPURL, zlog)

	reportClient := llm.NewChatClient(cfg.LLM, cfg.LLM.Model)
	chatClient := llm.NewChatClient(cfg.LLM, cfg.LLM.ChatModel)

	cache := report.NewCacheStore(db, cfg.CacheTTL, zlog)
	twins := twin.NewService(db, publisher, zlog)
	reports := report.NewService(db, reportClient, cache, publisher, twins, zlog, cfg.LLM.Model)
	chatService := chat.NewService(db, chatClient, zlog)
	payments := payment.NewService(db, payment.NewClient(cfg.Payment), cfg.Payment, zlog)

	// Expired cache rows are swept in the background for the life of the
	// process.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go cache.PurgeLoop(ctx, cfg.CachePurgeInterval)

	if cfg.Environment != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.Origin}
	corsConfig.AllowCredentials = true
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	router.Use(cors.New(corsConfig))

	routes.SetupRoutes(router, db, cfg, routes.Services{
		Reports:  reports,
		Chat:     chatService,
		Twins:    twins,
		Payments: payments,
		Redis:    rdb,
	})

	serverAddr := fmt.Sprintf(":%s", cfg.Port)
	zlog.Info("server starting", zap.String("addr", serverAddr))
	if err := router.Run(serverAddr); err != nil {
		zlog.Fatal("server failed", zap.Error(err))
	}
}
