package handler

import (
	"errors"
	"net/http"

	"github.com/anishverma926/Chat-App/internal/service"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
)

type UserHandler interface {
	GetLastSeen(c *gin.Context)
}

type userHandler struct {
	users service.UserService
}

func NewUserHandler(users service.UserService) UserHandler {
	return &userHandler{
		users: users,
	}
}

// GetLastSeen returns {online, lastSeen} for a user. lastSeen is null while
// the user is online or when they have never disconnected. The snapshot is a
// hint: presence pushes received after this query supersede it.
func (h *userHandler) GetLastSeen(c *gin.Context) {
	userID := c.Param("id")

	snap, err := h.users.LastSeen(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"online":   snap.Online,
		"lastSeen": snap.LastSeen,
	})
}
