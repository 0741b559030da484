package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"slack-service/internal/models"
	"slack-service/internal/service"
	"slack-service/pkg/response"
)

type ConversationHandler struct {
	conversationService service.ConversationService
}

func NewConversationHandler(conversationService service.ConversationService) *ConversationHandler {
	return &ConversationHandler{conversationService: conversationService}
}

// CreateOrGet godoc
// @Summary Open a direct conversation
// @Description Get the 1:1 conversation with another member, creating it on first contact. Idempotent per pair.
// @Tags conversations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.CreateOrGetConversationRequest true "Workspace and other member"
// @Success 200 {object} models.ConversationResponse "The conversation"
// @Failure 403 {object} models.ErrorResponse "Forbidden - caller is not a member"
// @Failure 404 {object} models.ErrorResponse "Other member not found"
// @Router /conversations [post]
func (h *ConversationHandler) CreateOrGet(c *gin.Context) {
	userID := c.GetUint("user_id")

	var req models.CreateOrGetConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	conversation, err := h.conversationService.CreateOrGet(c.Request.Context(), userID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, conversation)
}
