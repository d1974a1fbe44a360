package main

import (
	"log/slog"
	"os"

	"splitledger-backend/config"
	"splitledger-backend/database"
	"splitledger-backend/handlers"
	"splitledger-backend/ledger"
	"splitledger-backend/logging"
	"splitledger-backend/middleware"
	"splitledger-backend/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	logging.Setup()

	cfg := config.Load()

	db, err := database.Connect(cfg)
	if err != nil {
		slog.Error("failed to connect to database", "err", err)
		os.Exit(1)
	}

	// Redis is optional; a nil-safe cache is returned when unavailable.
	cache := database.ConnectRedis(cfg)

	led := ledger.New(db)
	notif := services.NewNotificationService(cfg)
	h := handlers.New(db, led, cache, notif, cfg.JWTSecret)

	r := gin.Default()
	r.Use(cors.Default())

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": cfg.AppName,
		})
	})

	// ==========================================
	// AUTH ROUTES (public)
	// ==========================================
	auth := r.Group("/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
	}

	// ==========================================
	// API ROUTES (authenticated)
	// ==========================================
	api := r.Group("/api")
	api.Use(middleware.AuthRequired(cfg.JWTSecret))
	{
		// User
		api.GET("/users/me", h.GetProfile)
		api.PUT("/users/me", h.UpdateProfile)
		api.POST("/users/search", h.SearchUsers)

		// Groups
		api.POST("/groups", h.CreateGroup)
		api.GET("/groups", h.GetGroups)
		api.GET("/groups/:id/report", h.GetGroupReport)

		// Expenses
		api.POST("/expenses", h.CreateExpense)
		api.GET("/expenses/:id", h.GetExpenseReport)
		api.PUT("/expenses/:id", h.UpdateExpense)
		api.DELETE("/expenses/:id", h.DeleteExpense)

		// Balances
		api.GET("/friends", h.GetFriendBalances)
		api.GET("/friends/:id/shared", h.GetSharedExpenses)
		api.GET("/settle-up", h.SettleUp)

		// Activity
		api.GET("/activity", h.GetActivity)
	}

	addr := "0.0.0.0:" + cfg.Port
	slog.Info("server starting", "service", cfg.AppName, "addr", addr)
	if err := r.Run(addr); err != nil {
		slog.Error("server exited", "err", err)
		os.Exit(1)
	}
}
