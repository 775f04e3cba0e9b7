package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/bank-management-core/internal/api/handler"
	"github.com/bank-management-core/internal/api/middleware"
	"github.com/gin-gonic/gin"
)

// setupRouter configures API routes and middleware for the application
func setupRouter(
	logger *slog.Logger,
	r *gin.Engine,
	customerHandler *handler.CustomerHandler,
	accountHandler *handler.AccountHandler,
) {
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CorrelationID())

	// API v1 endpoints
	v1 := r.Group("/api/v1")
	{
		// Customer operations
		customers := v1.Group("/customers")
		{
			customers.POST("", customerHandler.Create)
			customers.GET("", customerHandler.List)
			customers.GET("/:id", customerHandler.GetByID)
			customers.PUT("/:id/profile", customerHandler.UpdateProfile)
			customers.PUT("/:id/credentials", customerHandler.SetCredentials)
			customers.POST("/:id/linked-accounts", customerHandler.LinkAccount)
			customers.DELETE("/:id/linked-accounts/:number", customerHandler.UnlinkAccount)
			customers.POST("/:id/accounts", accountHandler.Open)
		}

		// Account operations
		accounts := v1.Group("/accounts")
		{
			accounts.GET("/:number", accountHandler.GetByNumber)
			accounts.POST("/:number/deposits", accountHandler.Deposit)
			accounts.POST("/:number/withdrawals", accountHandler.Withdraw)
			accounts.POST("/:number/close", accountHandler.Close)
			accounts.GET("/:number/transactions", accountHandler.Transactions)
		}

		// Interest accrual trigger
		v1.POST("/interest-runs", accountHandler.RunInterest)
	}

	// Health check endpoint for monitoring
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now().UTC()})
	})
}
