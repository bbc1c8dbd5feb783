package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MackG7/TP-Final-Integrador-Back-End/internal/config"
	"github.com/MackG7/TP-Final-Integrador-Back-End/internal/database"
	"github.com/MackG7/TP-Final-Integrador-Back-End/internal/middleware"
	"github.com/MackG7/TP-Final-Integrador-Back-End/internal/migrations"
	"github.com/MackG7/TP-Final-Integrador-Back-End/internal/models"
	"github.com/MackG7/TP-Final-Integrador-Back-End/internal/routes"
	"github.com/MackG7/TP-Final-Integrador-Back-End/internal/seeds"
	"github.com/MackG7/TP-Final-Integrador-Back-End/internal/services"
	"github.com/MackG7/TP-Final-Integrador-Back-End/pkg/logger"
	"github.com/gin-gonic/gin"
)

func main() {
	// 0. Load Config & Initialize Logger
	config.LoadConfig()

	env := os.Getenv("GO_ENV")
	if env == "" {
		env = "development"
	}
	logger.Init(env)

	logger.Info().Str("environment", env).Msg("Starting messaging backend...")

	if env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// 1. Connect Database & Redis
	database.Connect()
	database.InitRedis()

	// 2. Migrate schema once at startup; request handlers never touch
	// model registration.
	logger.Info().Msg("Running database migrations...")
	err := database.DB.AutoMigrate(
		&models.User{},
		&models.Invite{},
		&models.Contact{},
		&models.Conversation{},
		&models.Participant{},
		&models.Message{},
		&models.MessageReceipt{},
	)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to run database migrations")
	}
	if err := migrations.NewMigrator(database.DB).Run(); err != nil {
		logger.Fatal().Err(err).Msg("Failed to run versioned migrations")
	}
	logger.Info().Msg("Database migrations complete")

	if config.AppConfig.SeedDemoData {
		if err := seeds.RunDemo(); err != nil {
			logger.Fatal().Err(err).Msg("Failed to seed demo data")
		}
	}

	// 3. Post-commit fan-out: push sent messages onto the conversation's
	// pub/sub channel for the socket tier.
	services.SubscribeMessages(func(ev services.MessageEvent) {
		if err := database.Publish("conversation:"+ev.ConversationID, ev); err != nil {
			logger.Warn().Err(err).
				Str("conversation_id", ev.ConversationID).
				Msg("Message fan-out publish failed")
		}
	})

	// 4. Setup Router
	r := gin.New()

	r.Use(middleware.LoggingMiddleware())
	r.Use(middleware.ErrorHandlerMiddleware())
	r.Use(gin.Recovery())
	r.Use(middleware.CORSMiddleware())
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.GeneralRateLimit())

	// 5. Register Routes
	api := r.Group("/api")
	{
		routes.RegisterInviteRoutes(api)
		routes.RegisterContactRoutes(api)
		routes.RegisterChatRoutes(api)
		routes.RegisterGroupRoutes(api)
	}

	// Health check with DB and Redis status
	r.GET("/health", func(c *gin.Context) {
		dbStatus := "ok"
		redisStatus := "ok"

		sqlDB, err := database.DB.DB()
		if err != nil || sqlDB.Ping() != nil {
			dbStatus = "error"
		}

		if database.Redis != nil {
			if _, err := database.Redis.Ping(context.Background()).Result(); err != nil {
				redisStatus = "error"
			}
		} else {
			redisStatus = "not configured"
		}

		status := "ok"
		if dbStatus != "ok" || (redisStatus != "ok" && redisStatus != "not configured") {
			status = "degraded"
		}

		c.JSON(http.StatusOK, gin.H{
			"status": status,
			"checks": gin.H{
				"database": dbStatus,
				"redis":    redisStatus,
			},
		})
	})

	// 6. Start Server with graceful shutdown
	port := config.AppConfig.Port

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Str("port", port).Str("env", env).Msg("Server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down server gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Info().Msg("Server exited gracefully")
}
