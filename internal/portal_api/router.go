package portal_api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/aeroclub-flight-ledger/internal/auth"
	"github.com/aeroclub-flight-ledger/internal/portal_api/handler"
	"github.com/aeroclub-flight-ledger/internal/portal_api/middleware"
)

// setupRouter configures API routes and middleware for the application
func setupRouter(
	logger *slog.Logger,
	r *gin.Engine,
	jwtManager *auth.JWTManager,
	ledgerHandler *handler.LedgerHandler,
	importHandler *handler.ImportHandler,
) {
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CorrelationID())

	// API v1 endpoints, all behind bearer-token auth
	v1 := r.Group("/api/v1")
	v1.Use(middleware.RequireAuth(jwtManager))
	{
		users := v1.Group("/users")
		{
			users.GET("/:id/ledger", ledgerHandler.GetUserLedger)
		}

		invoices := v1.Group("/invoices")
		{
			invoices.POST("/import", importHandler.Create)
		}
	}

	// Health check endpoint for monitoring
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now().UTC()})
	})
}
