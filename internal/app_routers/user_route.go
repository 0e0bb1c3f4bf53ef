package approuters

import (
	"github.com/anishverma926/Chat-App/internal/configuration"
	"github.com/gin-gonic/gin"
)

func UserRouters(router *gin.Engine, container *configuration.Container) {
	userRoute := router.Group("/api/users")
	{
		// GET /api/users/:id/last-seen
		userRoute.GET("/:id/last-seen", container.UserHandler.GetLastSeen)
	}
}
