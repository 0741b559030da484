package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"slack-service/internal/models"
	"slack-service/internal/service"
	"slack-service/pkg/response"
)

type MessageHandler struct {
	messageService service.MessageService
}

func NewMessageHandler(messageService service.MessageService) *MessageHandler {
	return &MessageHandler{messageService: messageService}
}

func uintQuery(c *gin.Context, name string) *uint {
	raw := c.Query(name)
	if raw == "" {
		return nil
	}
	parsed, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return nil
	}
	v := uint(parsed)
	return &v
}

// List godoc
// @Summary List messages
// @Description Get one page of an enriched message feed selected by channelId, conversationId or parentMessageId
// @Tags messages
// @Produce json
// @Security BearerAuth
// @Param channelId query int false "Channel id"
// @Param conversationId query int false "Conversation id"
// @Param parentMessageId query int false "Parent message id for thread replies"
// @Param limit query int false "Page size, defaults to 20, capped at 100"
// @Param before query int false "Unix millisecond cursor, returns messages strictly older"
// @Success 200 {object} models.PaginatedMessageResponse "Page of enriched messages, newest first"
// @Failure 404 {object} models.ErrorResponse "Parent message not found"
// @Router /messages [get]
func (h *MessageHandler) List(c *gin.Context) {
	userID := c.GetUint("user_id")

	opts := models.ListMessagesOptions{
		ChannelID:       uintQuery(c, "channelId"),
		ConversationID:  uintQuery(c, "conversationId"),
		ParentMessageID: uintQuery(c, "parentMessageId"),
	}
	if l := c.Query("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil {
			opts.Limit = parsed
		}
	}
	if b := c.Query("before"); b != "" {
		if parsed, err := strconv.ParseInt(b, 10, 64); err == nil {
			opts.Before = &parsed
		}
	}

	page, err := h.messageService.ListMessages(c.Request.Context(), userID, opts)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}

// Create godoc
// @Summary Send a message
// @Description Create a message in a channel, a conversation or a thread
// @Tags messages
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.CreateMessageRequest true "Message data"
// @Success 201 {object} models.IDResponse "Created message id"
// @Failure 403 {object} models.ErrorResponse "Forbidden - caller is not a member"
// @Failure 404 {object} models.ErrorResponse "Parent message not found"
// @Router /messages [post]
func (h *MessageHandler) Create(c *gin.Context) {
	userID := c.GetUint("user_id")

	var req models.CreateMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	id, err := h.messageService.CreateMessage(c.Request.Context(), userID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, models.IDResponse{ID: id})
}

// Update godoc
// @Summary Edit a message body
// @Description Only the author may edit. Sets the edited timestamp.
// @Tags messages
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.UpdateMessageRequest true "New body"
// @Success 200 {object} models.IDResponse "Updated message id"
// @Failure 403 {object} models.ErrorResponse "Forbidden - caller is not the author"
// @Failure 404 {object} models.ErrorResponse "Message not found"
// @Router /messages/{id} [patch]
func (h *MessageHandler) Update(c *gin.Context) {
	userID := c.GetUint("user_id")
	id, _ := strconv.ParseUint(c.Param("id"), 10, 64)

	var req models.UpdateMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	updatedID, err := h.messageService.UpdateMessage(c.Request.Context(), userID, uint(id), &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, models.IDResponse{ID: updatedID})
}

// Delete godoc
// @Summary Delete a message
// @Description Only the author may delete. Removes the message's reactions with it.
// @Tags messages
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.IDResponse "Deleted message id"
// @Failure 403 {object} models.ErrorResponse "Forbidden - caller is not the author"
// @Failure 404 {object} models.ErrorResponse "Message not found"
// @Router /messages/{id} [delete]
func (h *MessageHandler) Delete(c *gin.Context) {
	userID := c.GetUint("user_id")
	id, _ := strconv.ParseUint(c.Param("id"), 10, 64)

	deletedID, err := h.messageService.DeleteMessage(c.Request.Context(), userID, uint(id))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, models.IDResponse{ID: deletedID})
}
