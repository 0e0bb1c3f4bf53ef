package approuters

import (
	"github.com/anishverma926/Chat-App/internal/configuration"
	"github.com/gin-gonic/gin"
)

func MessageRouters(router *gin.Engine, container *configuration.Container) {
	messageRoute := router.Group("/api/messages")
	{
		messageRoute.GET("/users", container.MessageHandler.GetUsersForSidebar)
		messageRoute.GET("/:id", container.MessageHandler.GetMessages)
		messageRoute.POST("/send/:id", container.MessageHandler.SendMessage)
	}
}
