package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"slack-service/internal/models"
	"slack-service/internal/service"
	"slack-service/pkg/response"
)

type ReactionHandler struct {
	reactionService service.ReactionService
}

func NewReactionHandler(reactionService service.ReactionService) *ReactionHandler {
	return &ReactionHandler{reactionService: reactionService}
}

// Toggle godoc
// @Summary Toggle an emoji reaction
// @Description Add the caller's reaction to a message, or remove it when already present
// @Tags reactions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.ToggleReactionRequest true "Reaction value"
// @Success 200 {object} models.ToggleReactionResponse "Affected reaction and whether it was added"
// @Failure 403 {object} models.ErrorResponse "Forbidden - caller is not a member"
// @Failure 404 {object} models.ErrorResponse "Message not found"
// @Router /messages/{id}/reactions [post]
func (h *ReactionHandler) Toggle(c *gin.Context) {
	userID := c.GetUint("user_id")
	messageID, _ := strconv.ParseUint(c.Param("id"), 10, 64)

	var req models.ToggleReactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.reactionService.Toggle(c.Request.Context(), userID, uint(messageID), req.Value)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
