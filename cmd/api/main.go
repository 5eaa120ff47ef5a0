package main

import (
	"context"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"arcade-rewards-backend/internal/config"
	"arcade-rewards-backend/internal/handlers"
	"arcade-rewards-backend/internal/middleware"
	"arcade-rewards-backend/internal/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	profiles, err := config.LoadLimitProfiles(cfg.LimitsFile)
	if err != nil {
		log.Fatalf("Failed to load limit profiles: %v", err)
	}
	limits := services.NewLimitRegistry(profiles)

	redisService, err := services.NewRedisService(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisService.Close()

	jwtService := services.NewJWTService(cfg)

	tokenManager := services.NewTokenManager(redisService, cfg.TokenExpiry)

	anomalyLogger := services.NewAnomalyLogger(redisService, cfg.AnomalyQueueSize)
	defer anomalyLogger.Close()

	gateway := services.NewIntegrityGateway(
		tokenManager,
		limits,
		redisService,
		anomalyLogger,
		services.LogRewardSink{},
		services.RateLimitRules{
			HourlyCap:    cfg.HourlyCap,
			DailyCap:     cfg.DailyCap,
			MinSubmitGap: cfg.MinSubmitGap,
		},
		cfg.AllowUnknownGameTypes,
	)

	wsHandler := handlers.NewWebSocketHandler()
	gateway.SetBroadcaster(wsHandler)

	// Advisory sweep; Redis TTLs bound token retention on their own.
	go func() {
		ticker := time.NewTicker(10 * time.Minute)
		defer ticker.Stop()

		for range ticker.C {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			if purged, err := tokenManager.Sweep(ctx, cfg.RetentionGrace); err != nil {
				log.Printf("Token sweep failed: %v", err)
			} else if purged > 0 {
				log.Printf("Token sweep purged %d expired tokens", purged)
			}
			cancel()
		}
	}()

	sessionHandler := handlers.NewSessionHandler(tokenManager, gateway, limits, cfg.AllowUnknownGameTypes)
	adminHandler := handlers.NewAdminHandler(redisService)

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()

	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	protected := router.Group("/api")
	protected.Use(middleware.AuthMiddleware(jwtService))
	{
		protected.POST("/sessions", sessionHandler.CreateSession)
		protected.POST("/submissions", sessionHandler.SubmitResult)
	}

	admin := router.Group("/admin")
	admin.Use(middleware.AuthMiddleware(jwtService))
	{
		admin.GET("/anomalies/recent", adminHandler.GetRecentAnomalies)
		admin.GET("/anomalies/flagged", adminHandler.GetFlaggedWallets)
		admin.GET("/anomalies/wallet/:wallet", adminHandler.GetWalletAnomalies)
		admin.GET("/ws", wsHandler.HandleWebSocket)
	}

	log.Printf("Server starting on port %s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
