package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"slack-service/internal/models"
	"slack-service/internal/service"
	"slack-service/pkg/response"
)

type ChannelHandler struct {
	channelService service.ChannelService
}

func NewChannelHandler(channelService service.ChannelService) *ChannelHandler {
	return &ChannelHandler{channelService: channelService}
}

// List godoc
// @Summary List workspace channels
// @Description Get all channels of a workspace. Non-members receive an empty list.
// @Tags channels
// @Produce json
// @Security BearerAuth
// @Param workspaceId query int true "Workspace id"
// @Success 200 {array} models.ChannelResponse "Channels ordered by creation"
// @Router /channels [get]
func (h *ChannelHandler) List(c *gin.Context) {
	userID := c.GetUint("user_id")
	workspaceID, _ := strconv.ParseUint(c.Query("workspaceId"), 10, 64)

	channels, err := h.channelService.GetChannels(c.Request.Context(), userID, uint(workspaceID))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, channels)
}

// Get godoc
// @Summary Get a channel
// @Description Get a channel by id. Non-members receive an empty body.
// @Tags channels
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.ChannelResponse "Channel, null when not visible"
// @Router /channels/{id} [get]
func (h *ChannelHandler) Get(c *gin.Context) {
	userID := c.GetUint("user_id")
	id, _ := strconv.ParseUint(c.Param("id"), 10, 64)

	channel, err := h.channelService.GetChannel(c.Request.Context(), userID, uint(id))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, channel)
}

// Create godoc
// @Summary Create a channel
// @Description Create a channel. The name is normalized to lowercase-hyphenated form.
// @Tags channels
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.CreateChannelRequest true "Channel data"
// @Success 201 {object} models.IDResponse "Created channel id"
// @Failure 403 {object} models.ErrorResponse "Forbidden - caller is not an admin"
// @Router /channels [post]
func (h *ChannelHandler) Create(c *gin.Context) {
	userID := c.GetUint("user_id")

	var req models.CreateChannelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	id, err := h.channelService.CreateChannel(c.Request.Context(), userID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, models.IDResponse{ID: id})
}

// Update godoc
// @Summary Rename a channel
// @Tags channels
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.UpdateChannelRequest true "New channel name"
// @Success 200 {object} models.IDResponse "Updated channel id"
// @Failure 403 {object} models.ErrorResponse "Forbidden - caller is not an admin"
// @Failure 404 {object} models.ErrorResponse "Channel not found"
// @Router /channels/{id} [patch]
func (h *ChannelHandler) Update(c *gin.Context) {
	userID := c.GetUint("user_id")
	id, _ := strconv.ParseUint(c.Param("id"), 10, 64)

	var req models.UpdateChannelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	updatedID, err := h.channelService.UpdateChannel(c.Request.Context(), userID, uint(id), &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, models.IDResponse{ID: updatedID})
}

// Delete godoc
// @Summary Delete a channel
// @Description Delete a channel together with its messages and reactions
// @Tags channels
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.IDResponse "Deleted channel id"
// @Failure 403 {object} models.ErrorResponse "Forbidden - caller is not an admin"
// @Failure 404 {object} models.ErrorResponse "Channel not found"
// @Router /channels/{id} [delete]
func (h *ChannelHandler) Delete(c *gin.Context) {
	userID := c.GetUint("user_id")
	id, _ := strconv.ParseUint(c.Param("id"), 10, 64)

	deletedID, err := h.channelService.DeleteChannel(c.Request.Context(), userID, uint(id))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, models.IDResponse{ID: deletedID})
}
