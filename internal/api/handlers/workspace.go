package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"slack-service/internal/models"
	"slack-service/internal/service"
	"slack-service/pkg/response"
)

type WorkspaceHandler struct {
	workspaceService service.WorkspaceService
}

func NewWorkspaceHandler(workspaceService service.WorkspaceService) *WorkspaceHandler {
	return &WorkspaceHandler{workspaceService: workspaceService}
}

// Create godoc
// @Summary Create a workspace
// @Description Create a workspace with the caller as admin and a default general channel
// @Tags workspaces
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.CreateWorkspaceRequest true "Workspace data"
// @Success 201 {object} models.WorkspaceResponse "Workspace created"
// @Failure 400 {object} models.ErrorResponse "Bad request - invalid input data"
// @Failure 401 {object} models.ErrorResponse "Unauthorized"
// @Router /workspaces [post]
func (h *WorkspaceHandler) Create(c *gin.Context) {
	userID := c.GetUint("user_id")

	var req models.CreateWorkspaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	ws, err := h.workspaceService.CreateWorkspace(c.Request.Context(), userID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, ws)
}

// List godoc
// @Summary List the caller's workspaces
// @Description Get all workspaces the current user is a member of
// @Tags workspaces
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.WorkspaceResponse "Workspaces"
// @Router /workspaces [get]
func (h *WorkspaceHandler) List(c *gin.Context) {
	userID := c.GetUint("user_id")

	workspaces, err := h.workspaceService.GetUserWorkspaces(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, workspaces)
}

// Get godoc
// @Summary Get a workspace
// @Description Get a workspace by id. Non-members receive an empty body.
// @Tags workspaces
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.WorkspaceResponse "Workspace, null when not a member"
// @Router /workspaces/{id} [get]
func (h *WorkspaceHandler) Get(c *gin.Context) {
	userID := c.GetUint("user_id")
	id, _ := strconv.ParseUint(c.Param("id"), 10, 64)

	ws, err := h.workspaceService.GetWorkspace(c.Request.Context(), userID, uint(id))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, ws)
}

// Update godoc
// @Summary Rename a workspace
// @Tags workspaces
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.UpdateWorkspaceRequest true "New workspace name"
// @Success 200 {object} models.IDResponse "Updated workspace id"
// @Failure 403 {object} models.ErrorResponse "Forbidden - caller is not an admin"
// @Router /workspaces/{id} [patch]
func (h *WorkspaceHandler) Update(c *gin.Context) {
	userID := c.GetUint("user_id")
	id, _ := strconv.ParseUint(c.Param("id"), 10, 64)

	var req models.UpdateWorkspaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	updatedID, err := h.workspaceService.UpdateWorkspace(c.Request.Context(), userID, uint(id), &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, models.IDResponse{ID: updatedID})
}

// Delete godoc
// @Summary Delete a workspace
// @Description Delete a workspace and everything inside it
// @Tags workspaces
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.IDResponse "Deleted workspace id"
// @Failure 403 {object} models.ErrorResponse "Forbidden - caller is not an admin"
// @Router /workspaces/{id} [delete]
func (h *WorkspaceHandler) Delete(c *gin.Context) {
	userID := c.GetUint("user_id")
	id, _ := strconv.ParseUint(c.Param("id"), 10, 64)

	deletedID, err := h.workspaceService.DeleteWorkspace(c.Request.Context(), userID, uint(id))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, models.IDResponse{ID: deletedID})
}

// NewJoinCode godoc
// @Summary Rotate the workspace join code
// @Tags workspaces
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.WorkspaceResponse "Workspace with the fresh join code"
// @Failure 403 {object} models.ErrorResponse "Forbidden - caller is not an admin"
// @Router /workspaces/{id}/join-code [post]
func (h *WorkspaceHandler) NewJoinCode(c *gin.Context) {
	userID := c.GetUint("user_id")
	id, _ := strconv.ParseUint(c.Param("id"), 10, 64)

	ws, err := h.workspaceService.RotateJoinCode(c.Request.Context(), userID, uint(id))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, ws)
}

// Join godoc
// @Summary Join a workspace with its join code
// @Tags workspaces
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.JoinWorkspaceRequest true "Join code"
// @Success 200 {object} models.MemberResponse "The new membership"
// @Failure 403 {object} models.ErrorResponse "Forbidden - wrong join code"
// @Failure 409 {object} models.ErrorResponse "Conflict - already a member"
// @Router /workspaces/{id}/join [post]
func (h *WorkspaceHandler) Join(c *gin.Context) {
	userID := c.GetUint("user_id")
	id, _ := strconv.ParseUint(c.Param("id"), 10, 64)

	var req models.JoinWorkspaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	member, err := h.workspaceService.JoinWorkspace(c.Request.Context(), userID, uint(id), req.JoinCode)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, member)
}
