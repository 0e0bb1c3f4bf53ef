package handler

import (
	"errors"
	"net/http"

	"github.com/anishverma926/Chat-App/internal/repo"
	"github.com/anishverma926/Chat-App/internal/service"
	"github.com/gin-gonic/gin"
)

// MessageHandler handles the message REST endpoints.
type MessageHandler interface {
	GetUsersForSidebar(c *gin.Context)
	GetMessages(c *gin.Context)
	SendMessage(c *gin.Context)
}

type messageHandler struct {
	chat  service.ChatService
	users service.UserService
}

func NewMessageHandler(chat service.ChatService, users service.UserService) MessageHandler {
	return &messageHandler{
		chat:  chat,
		users: users,
	}
}

// sendMessageRequest is the POST /api/messages/send/:id body. At least one of
// text/image must be present.
type sendMessageRequest struct {
	Text  string `json:"text"`
	Image string `json:"image"`
}

func (h *messageHandler) GetUsersForSidebar(c *gin.Context) {
	requester := requesterID(c)
	if requester == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing user identity"})
		return
	}

	users, err := h.users.Sidebar(c.Request.Context(), requester)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, users)
}

func (h *messageHandler) GetMessages(c *gin.Context) {
	requester := requesterID(c)
	if requester == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing user identity"})
		return
	}
	otherID := c.Param("id")

	messages, err := h.chat.GetMessages(c.Request.Context(), requester, otherID)
	if err != nil {
		if errors.Is(err, repo.ErrInvalidUserID) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, messages)
}

func (h *messageHandler) SendMessage(c *gin.Context) {
	senderID := requesterID(c)
	if senderID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing user identity"})
		return
	}
	receiverID := c.Param("id")

	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	msg, err := h.chat.SendMessage(c.Request.Context(), senderID, receiverID, req.Text, req.Image)
	if err != nil {
		switch {
		case errors.Is(err, repo.ErrEmptyMessage):
			c.JSON(http.StatusBadRequest, gin.H{"error": "text or image is required"})
		case errors.Is(err, repo.ErrInvalidUserID):
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		default:
			// persistence failure: the message was not sent
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	c.JSON(http.StatusCreated, msg)
}

// requesterID returns the authenticated user id established by the external
// auth layer and forwarded on the X-User-ID header.
func requesterID(c *gin.Context) string {
	return c.GetHeader("X-User-ID")
}
