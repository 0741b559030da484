package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"slack-service/internal/models"
	"slack-service/internal/service"
	"slack-service/pkg/response"
)

type MemberHandler struct {
	memberService service.MemberService
}

func NewMemberHandler(memberService service.MemberService) *MemberHandler {
	return &MemberHandler{memberService: memberService}
}

// List godoc
// @Summary List workspace members
// @Description Get all members of a workspace with their user profiles. Non-members receive an empty list.
// @Tags members
// @Produce json
// @Security BearerAuth
// @Param workspaceId query int true "Workspace id"
// @Success 200 {array} models.MemberResponse "Members with joined user profiles"
// @Router /members [get]
func (h *MemberHandler) List(c *gin.Context) {
	userID := c.GetUint("user_id")
	workspaceID, _ := strconv.ParseUint(c.Query("workspaceId"), 10, 64)

	members, err := h.memberService.GetMembers(c.Request.Context(), userID, uint(workspaceID))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, members)
}

// Current godoc
// @Summary Get the caller's membership in a workspace
// @Tags members
// @Produce json
// @Security BearerAuth
// @Param workspaceId query int true "Workspace id"
// @Success 200 {object} models.MemberResponse "Membership, null when not a member"
// @Router /members/current [get]
func (h *MemberHandler) Current(c *gin.Context) {
	userID := c.GetUint("user_id")
	workspaceID, _ := strconv.ParseUint(c.Query("workspaceId"), 10, 64)

	member, err := h.memberService.GetCurrentMember(c.Request.Context(), userID, uint(workspaceID))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, member)
}

// Get godoc
// @Summary Get a member
// @Description Get a member by id, visible only to members of the same workspace
// @Tags members
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.MemberResponse "Member, null when not visible"
// @Router /members/{id} [get]
func (h *MemberHandler) Get(c *gin.Context) {
	userID := c.GetUint("user_id")
	id, _ := strconv.ParseUint(c.Param("id"), 10, 64)

	member, err := h.memberService.GetMember(c.Request.Context(), userID, uint(id))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, member)
}

// UpdateRole godoc
// @Summary Change a member's role
// @Tags members
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.UpdateMemberRequest true "New role"
// @Success 200 {object} models.IDResponse "Updated member id"
// @Failure 403 {object} models.ErrorResponse "Forbidden - caller is not an admin"
// @Failure 404 {object} models.ErrorResponse "Member not found"
// @Router /members/{id} [patch]
func (h *MemberHandler) UpdateRole(c *gin.Context) {
	userID := c.GetUint("user_id")
	id, _ := strconv.ParseUint(c.Param("id"), 10, 64)

	var req models.UpdateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	updatedID, err := h.memberService.UpdateMemberRole(c.Request.Context(), userID, uint(id), req.Role)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, models.IDResponse{ID: updatedID})
}

// Remove godoc
// @Summary Remove a member
// @Description Admins remove other non-admin members. Non-admin members may remove themselves to leave.
// @Tags members
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.IDResponse "Removed member id"
// @Failure 403 {object} models.ErrorResponse "Forbidden"
// @Failure 404 {object} models.ErrorResponse "Member not found"
// @Router /members/{id} [delete]
func (h *MemberHandler) Remove(c *gin.Context) {
	userID := c.GetUint("user_id")
	id, _ := strconv.ParseUint(c.Param("id"), 10, 64)

	removedID, err := h.memberService.RemoveMember(c.Request.Context(), userID, uint(id))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, models.IDResponse{ID: removedID})
}
