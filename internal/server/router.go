package server

import (
	"github.com/gin-gonic/gin"

	"manifest-reconciliation/internal/logger"
)

// SetupRoutes wires the workflow API.
func SetupRoutes(h *Handler, log logger.Logger) *gin.Engine {
	r := gin.New()

	r.Use(RequestID())
	r.Use(AccessLog(log))
	r.Use(Recovery(log))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": "reconciler",
		})
	})

	v1 := r.Group("/api/v1")
	{
		workflows := v1.Group("/workflows/:kind/:branch", h.LoadSession)
		{
			workflows.GET("", h.Report)
			workflows.DELETE("", h.Reset)
			workflows.POST("/scans", h.Scan)
			workflows.POST("/validate", h.Validate)
			workflows.PUT("/overrides/:tracking", h.SetOverride)
			workflows.DELETE("/overrides/:tracking", h.ClearOverride)
			workflows.DELETE("/shipments/:tracking", h.RemoveShipment)
			workflows.PUT("/step", h.SetStep)
			workflows.PUT("/vehicle", h.SetVehicle)
			workflows.GET("/expirations/next", h.NextExpiring)
			workflows.POST("/manifests/refresh", h.RefreshManifests)
			workflows.POST("/submit", h.Submit)
			workflows.GET("/notifications", h.Notifications)
		}
	}

	return r
}
