package approuters

import (
	"github.com/anishverma926/Chat-App/internal/configuration"
	"github.com/gin-gonic/gin"
)

// MonitorRouters sets up monitoring API routes.
func MonitorRouters(router *gin.Engine, container *configuration.Container) {
	monitorGroup := router.Group("/api/monitor")
	{
		// GET /api/monitor/stats - connection registry statistics
		monitorGroup.GET("/stats", container.MonitorHandler.GetHubStats)
	}
}
