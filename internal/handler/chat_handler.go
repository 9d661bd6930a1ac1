package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"salon-chat/internal/services"
	"salon-chat/internal/transport/httpdto"
	chat_errors "salon-chat/pkg/errors"
)

type ChatHandler struct {
	service *services.ChatService
}

func NewChatHandler(service *services.ChatService) *ChatHandler {
	return &ChatHandler{service: service}
}

// GetOrCreateConversation handles POST /api/chat/conversations/with/:participantId
func (h *ChatHandler) GetOrCreateConversation(c *gin.Context) {
	p, ok := services.PrincipalFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, httpdto.NewErrorResponse("unauthorized", "UNAUTHORIZED"))
		return
	}

	participantID, err := uuid.Parse(c.Param("participantId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid participant id", "INVALID_REQUEST"))
		return
	}

	conv, err := h.service.GetOrCreateConversation(c.Request.Context(), p.ID, participantID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.FromConversation(conv, nil)))
}

// ListConversations handles GET /api/chat/conversations
func (h *ChatHandler) ListConversations(c *gin.Context) {
	p, ok := services.PrincipalFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, httpdto.NewErrorResponse("unauthorized", "UNAUTHORIZED"))
		return
	}

	items, err := h.service.ListConversations(c.Request.Context(), p.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.FromConversationList(items)))
}

// GetChatHistory handles GET /api/chat/conversations/:conversationId/messages
func (h *ChatHandler) GetChatHistory(c *gin.Context) {
	p, ok := services.PrincipalFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, httpdto.NewErrorResponse("unauthorized", "UNAUTHORIZED"))
		return
	}

	conversationID, err := uuid.Parse(c.Param("conversationId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid conversation id", "INVALID_REQUEST"))
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid limit", "INVALID_REQUEST"))
			return
		}
	}

	messages, err := h.service.GetChatHistory(c.Request.Context(), p.ID, conversationID, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.FromMessages(messages)))
}

// MarkConversationRead handles PUT /api/chat/conversations/:conversationId/read
func (h *ChatHandler) MarkConversationRead(c *gin.Context) {
	p, ok := services.PrincipalFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, httpdto.NewErrorResponse("unauthorized", "UNAUTHORIZED"))
		return
	}

	conversationID, err := uuid.Parse(c.Param("conversationId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid conversation id", "INVALID_REQUEST"))
		return
	}

	if err := h.service.MarkConversationRead(c.Request.Context(), p.ID, conversationID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(gin.H{"message": "conversation marked as read"}))
}

// GetUnreadCounts handles GET /api/chat/unread-count
func (h *ChatHandler) GetUnreadCounts(c *gin.Context) {
	p, ok := services.PrincipalFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, httpdto.NewErrorResponse("unauthorized", "UNAUTHORIZED"))
		return
	}

	unreadMessages, err := h.service.UnreadMessageCount(c.Request.Context(), p.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	unreadNotifications, err := h.service.UnreadNotificationCount(c.Request.Context(), p.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.UnreadCountResponse{
		UnreadMessages:      unreadMessages,
		UnreadNotifications: unreadNotifications,
	}))
}

func respondError(c *gin.Context, err error) {
	c.JSON(chat_errors.HTTPStatus(err), httpdto.NewErrorResponse(err.Error(), chat_errors.Code(err)))
}
