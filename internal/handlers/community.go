package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/devspacehq/devspace-api/internal/dto"
	apierrors "github.com/devspacehq/devspace-api/internal/errors"
	"github.com/devspacehq/devspace-api/internal/middleware"
	"github.com/devspacehq/devspace-api/internal/models"
	"github.com/devspacehq/devspace-api/internal/services"
	"github.com/gin-gonic/gin"
)

// CommunityHandler coordinates community CRUD and the membership lifecycle.
type CommunityHandler struct {
	communityService *services.CommunityService
	authService      *services.AuthService
}

// NewCommunityHandler creates a new CommunityHandler.
func NewCommunityHandler(communityService *services.CommunityService, authService *services.AuthService) *CommunityHandler {
	return &CommunityHandler{
		communityService: communityService,
		authService:      authService,
	}
}

// CreateCommunity creates a community owned by the caller.
func (h *CommunityHandler) CreateCommunity(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type CreateCommunityRequest struct {
		Name        string `json:"name" binding:"required"`
		Description string `json:"description"`
	}

	var req CreateCommunityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	owner, err := h.authService.GetUser(userID)
	if err != nil {
		respondAuthError(c, err)
		return
	}

	community, err := h.communityService.CreateCommunity(owner, services.CreateCommunityInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		respondCommunityError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToCommunityDTO(*community))
}

// ListCommunities returns the caller's owned communities, joined
// memberships and pending invitations as separate sets.
func (h *CommunityHandler) ListCommunities(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	listing, err := h.communityService.ListForUser(userID)
	if err != nil {
		respondCommunityError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToCommunityListResponse(listing.Owned, listing.Joined, listing.Pending))
}

// GetCommunity returns community details with the member list.
func (h *CommunityHandler) GetCommunity(c *gin.Context) {
	access, ok := middleware.GetCommunityAccess(c)
	if !ok {
		apierrors.InternalError(c, "Community access not resolved")
		return
	}

	community, members, err := h.communityService.GetCommunityWithMembers(access.Community.ID)
	if err != nil {
		respondCommunityError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToCommunityDetailDTO(*community, members))
}

// UpdateCommunity updates a community's name and description. Owner or an
// accepted admin member.
func (h *CommunityHandler) UpdateCommunity(c *gin.Context) {
	access, ok := middleware.GetCommunityAccess(c)
	if !ok {
		apierrors.InternalError(c, "Community access not resolved")
		return
	}
	if !access.IsAdmin() {
		apierrors.Forbidden(c, "Only the owner or an admin can update the community")
		return
	}

	type UpdateCommunityRequest struct {
		Name        string `json:"name" binding:"required"`
		Description string `json:"description"`
	}

	var req UpdateCommunityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	community, err := h.communityService.UpdateCommunity(access.Community.ID, req.Name, req.Description)
	if err != nil {
		respondCommunityError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToCommunityDTO(*community))
}

// DeleteCommunity deletes a community and everything scoped to it. Owner
// only.
func (h *CommunityHandler) DeleteCommunity(c *gin.Context) {
	access, ok := middleware.GetCommunityAccess(c)
	if !ok {
		apierrors.InternalError(c, "Community access not resolved")
		return
	}
	if !access.IsOwner {
		apierrors.Forbidden(c, "Only the community owner can delete the community")
		return
	}

	if err := h.communityService.DeleteCommunity(access.Community.ID); err != nil {
		respondCommunityError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Community deleted successfully",
	})
}

// InviteMember invites a user to the community. Owner or an accepted admin
// member; the entry starts pending.
func (h *CommunityHandler) InviteMember(c *gin.Context) {
	access, ok := middleware.GetCommunityAccess(c)
	if !ok {
		apierrors.InternalError(c, "Community access not resolved")
		return
	}

	userID, _ := middleware.GetUserID(c)

	type InviteRequest struct {
		UserID uint64               `json:"user_id" binding:"required"`
		Role   models.CommunityRole `json:"role" binding:"required"`
	}

	var req InviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	member, err := h.communityService.Invite(access.Community.ID, userID, req.UserID, req.Role)
	if err != nil {
		respondCommunityError(c, err)
		return
	}

	c.JSON(http.StatusCreated, member)
}

// RemoveMember removes a membership, pending or accepted. Allowed for the
// owner, or for a member removing themselves.
func (h *CommunityHandler) RemoveMember(c *gin.Context) {
	access, ok := middleware.GetCommunityAccess(c)
	if !ok {
		apierrors.InternalError(c, "Community access not resolved")
		return
	}

	userID, _ := middleware.GetUserID(c)

	targetUserID, err := strconv.ParseUint(c.Param("user_id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid user ID")
		return
	}

	if err := h.communityService.RemoveMember(access.Community.ID, userID, targetUserID); err != nil {
		respondCommunityError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Member removed successfully",
	})
}

// AcceptInvite accepts the caller's pending invitation. Routed outside the
// access middleware so a caller with no invitation sees 404, not 403.
func (h *CommunityHandler) AcceptInvite(c *gin.Context) {
	communityID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid community ID")
		return
	}

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	member, err := h.communityService.AcceptInvite(communityID, userID)
	if err != nil {
		respondCommunityError(c, err)
		return
	}

	c.JSON(http.StatusOK, member)
}

// DeclineInvite declines and removes the caller's pending invitation.
func (h *CommunityHandler) DeclineInvite(c *gin.Context) {
	communityID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid community ID")
		return
	}

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	if err := h.communityService.DeclineInvite(communityID, userID); err != nil {
		respondCommunityError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Invitation declined",
	})
}

func respondCommunityError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrCommunityNotFound):
		apierrors.NotFound(c, "Community not found")
	case errors.Is(err, services.ErrInviteNotFound),
		errors.Is(err, services.ErrInviteAlreadyResolved):
		apierrors.NotFound(c, "No pending invitation found")
	case errors.Is(err, services.ErrMemberNotFound),
		errors.Is(err, services.ErrInviteeNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrInvalidCommunityName),
		errors.Is(err, services.ErrInvalidMemberRole):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrAlreadyMember):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, services.ErrNotCommunityAdmin),
		errors.Is(err, services.ErrRemoveNotAllowed),
		errors.Is(err, services.ErrAccessDenied):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrPlanLimitReached):
		apierrors.PlanLimit(c, "Community limit reached for the current plan")
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
