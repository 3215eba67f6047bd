package main

import (
	"database/sql"
	"net/http"
	"time"

	"smarttext/internal/auth"
	"smarttext/internal/config"
	"smarttext/internal/httpapi"
	"smarttext/internal/rbac"
	"smarttext/internal/webhook"
	"smarttext/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

type registerDeps struct {
	cfg      config.Config
	db       *sql.DB
	rdb      *redis.Client
	auth     *auth.Manager
	handlers *httpapi.Handlers
	webhooks *webhook.Handler
}

// registerRoutes wires HTTP routes to handlers.
// Keep this file free of business logic. Handlers should delegate to internal modules.
func registerRoutes(r *gin.Engine, d registerDeps) {
	// public
	r.GET("/healthz", func(c *gin.Context) {
		if err := utils.HealthCheck(c.Request.Context(), d.db, 2*time.Second); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "postgres": err.Error()})
			return
		}
		if err := d.rdb.Ping(c.Request.Context()).Err(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "redis": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Provider webhooks (public, signature-verified inside the group).
	d.webhooks.Register(r.Group("/webhooks/twilio"))

	// AUTH routes (token issuance).
	r.POST("/v1/auth/login", d.handlers.Login)

	// protected API group
	v1 := r.Group("/v1")
	v1.Use(auth.RequireAccessToken(d.auth))
	{
		v1.GET("/me", d.handlers.Me)

		// EVENTS routes
		evs := v1.Group("/events")
		evs.Use(httpapi.RequireBusinessAndAnyRole(rbac.RoleOwner, rbac.RoleStaff, rbac.RoleAnalyst)...)
		{
			evs.GET("", d.handlers.ListEvents)
		}

		// SETTINGS routes
		// Reads are open to staff; writes are owner-only.
		settings := v1.Group("/settings")
		settings.Use(rbac.RequireBusiness())
		{
			settings.GET("", rbac.RequireAnyRole(rbac.RoleOwner, rbac.RoleStaff), d.handlers.GetSettings)
			settings.PUT("", rbac.RequireAnyRole(rbac.RoleOwner), d.handlers.UpdateSettings)
		}

		// REPORTING routes
		reports := v1.Group("/reports")
		reports.Use(httpapi.RequireBusinessAndAnyRole(rbac.RoleOwner, rbac.RoleAnalyst)...)
		{
			reports.GET("/activity", d.handlers.ActivitySummary)
			reports.GET("/missed-calls", d.handlers.MissedCallBreakdown)
		}
	}
}
