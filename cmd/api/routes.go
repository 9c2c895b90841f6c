package main

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/lmdrew96/ChickenScratch-sub001/internal/access"
	"github.com/lmdrew96/ChickenScratch-sub001/internal/roles"
	"github.com/lmdrew96/ChickenScratch-sub001/internal/submission"
	"github.com/lmdrew96/ChickenScratch-sub001/pkg/utils"

	"github.com/gin-gonic/gin"
)

type routeDeps struct {
	db          *sql.DB
	authMW      gin.HandlerFunc
	guard       access.Guard
	submissions submission.HTTPHandler
	roles       roles.HTTPHandler
}

// registerRoutes wires HTTP routes to handlers.
// Keep this file free of business logic. Handlers delegate to internal modules.
func registerRoutes(r *gin.Engine, d routeDeps) {
	// public
	r.GET("/healthz", func(c *gin.Context) {
		if err := utils.HealthCheck(c.Request.Context(), d.db, 2*time.Second); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/gallery", d.submissions.Gallery)

	// Everything below requires a valid access token plus a fresh role
	// resolution; capability checks sit per-route.
	authed := r.Group("/")
	authed.Use(d.authMW)
	authed.Use(d.guard.Resolve())
	{
		subs := authed.Group("/submissions")
		{
			subs.POST("", access.RequireMember(), d.submissions.Create)
			subs.GET("", d.submissions.ListOwn)
			subs.GET("/:id", d.submissions.Get)
			subs.PATCH("/:id", d.submissions.Edit)

			subs.POST("/:id/assign", d.submissions.Assign)
			subs.POST("/:id/notes", d.submissions.SetNotes)
			subs.POST("/:id/status", d.submissions.ChangeStatus)
			subs.POST("/:id/publish", d.submissions.Publish)
			subs.POST("/:id/convert", d.submissions.ConvertToDoc)
			subs.DELETE("/:id", d.submissions.Delete)
		}

		authed.GET("/queue",
			access.Require(func(caps access.Capabilities) bool { return caps.CanReviewQueue }),
			d.submissions.Queue)

		admin := authed.Group("/admin")
		admin.Use(access.Require(func(caps access.Capabilities) bool { return caps.CanManageRoles }))
		{
			admin.POST("/roles", d.roles.UpdateRoles)
		}
	}
}
