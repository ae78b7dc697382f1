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

// ProjectHandler coordinates project CRUD and the sharing lifecycle.
type ProjectHandler struct {
	projectService *services.ProjectService
	authService    *services.AuthService
}

// NewProjectHandler creates a new ProjectHandler.
func NewProjectHandler(projectService *services.ProjectService, authService *services.AuthService) *ProjectHandler {
	return &ProjectHandler{
		projectService: projectService,
		authService:    authService,
	}
}

// CreateProject creates a project owned by the caller.
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type CreateProjectRequest struct {
		Name        string `json:"name" binding:"required"`
		Description string `json:"description"`
	}

	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	owner, err := h.authService.GetUser(userID)
	if err != nil {
		respondAuthError(c, err)
		return
	}

	project, err := h.projectService.CreateProject(owner, services.CreateProjectInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToProjectDTO(*project))
}

// ListProjects returns the caller's owned projects, accepted shares and
// pending invitations as separate sets.
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}
	email, exists := middleware.GetUserEmail(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	listing, err := h.projectService.ListForUser(userID, email)
	if err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectListResponse(listing.Owned, listing.Shared, listing.Pending))
}

// GetProject returns project details with the collaborator list.
func (h *ProjectHandler) GetProject(c *gin.Context) {
	access, ok := middleware.GetProjectAccess(c)
	if !ok {
		apierrors.InternalError(c, "Project access not resolved")
		return
	}

	project, collabs, err := h.projectService.GetProjectWithCollaborators(access.Project.ID)
	if err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectDetailDTO(*project, collabs))
}

// UpdateProject updates a project's name and description. Requires write
// access; pending collaborators are read-only.
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	access, ok := middleware.GetProjectAccess(c)
	if !ok {
		apierrors.InternalError(c, "Project access not resolved")
		return
	}
	if !access.CanWrite() {
		apierrors.Forbidden(c, "Accept the invitation before modifying this project")
		return
	}

	type UpdateProjectRequest struct {
		Name        string `json:"name" binding:"required"`
		Description string `json:"description"`
	}

	var req UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	project, err := h.projectService.UpdateProject(access.Project.ID, req.Name, req.Description)
	if err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectDTO(*project))
}

// DeleteProject deletes a project and everything scoped to it. Owner only.
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	access, ok := middleware.GetProjectAccess(c)
	if !ok {
		apierrors.InternalError(c, "Project access not resolved")
		return
	}
	if !access.IsOwner {
		apierrors.Forbidden(c, "Only the project owner can delete the project")
		return
	}

	if err := h.projectService.DeleteProject(access.Project.ID); err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Project deleted successfully",
	})
}

// ShareProject invites an email to collaborate. Owner only; the entry
// starts pending.
func (h *ProjectHandler) ShareProject(c *gin.Context) {
	access, ok := middleware.GetProjectAccess(c)
	if !ok {
		apierrors.InternalError(c, "Project access not resolved")
		return
	}

	userID, _ := middleware.GetUserID(c)
	userEmail, _ := middleware.GetUserEmail(c)

	type ShareRequest struct {
		Email string             `json:"email" binding:"required,email"`
		Role  models.ProjectRole `json:"role" binding:"required"`
	}

	var req ShareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	collab, err := h.projectService.Share(access.Project.ID, userID, userEmail, req.Email, req.Role)
	if err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToCollaboratorDTO(*collab))
}

// UnshareProject removes a collaborator entry, pending or accepted. Allowed
// for the owner, or for a collaborator removing themselves.
func (h *ProjectHandler) UnshareProject(c *gin.Context) {
	access, ok := middleware.GetProjectAccess(c)
	if !ok {
		apierrors.InternalError(c, "Project access not resolved")
		return
	}

	userID, _ := middleware.GetUserID(c)
	userEmail, _ := middleware.GetUserEmail(c)

	targetEmail := c.Param("email")
	if targetEmail == "" {
		apierrors.BadRequest(c, "Collaborator email is required")
		return
	}

	if err := h.projectService.Unshare(access.Project.ID, userID, userEmail, targetEmail); err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Collaborator removed successfully",
	})
}

// AcceptInvite accepts the caller's pending invitation. Routed outside the
// access middleware so a caller with no invitation sees 404, not 403.
func (h *ProjectHandler) AcceptInvite(c *gin.Context) {
	projectID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid project ID")
		return
	}

	email, exists := middleware.GetUserEmail(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	collab, err := h.projectService.AcceptInvite(projectID, email)
	if err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToCollaboratorDTO(*collab))
}

// DeclineInvite declines and removes the caller's pending invitation.
func (h *ProjectHandler) DeclineInvite(c *gin.Context) {
	projectID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid project ID")
		return
	}

	email, exists := middleware.GetUserEmail(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	if err := h.projectService.DeclineInvite(projectID, email); err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Invitation declined",
	})
}

func respondProjectError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrProjectNotFound):
		apierrors.NotFound(c, "Project not found")
	case errors.Is(err, services.ErrInviteNotFound),
		errors.Is(err, services.ErrInviteAlreadyResolved):
		// Both kinds surface as 404: no pending invitation exists.
		apierrors.NotFound(c, "No pending invitation found")
	case errors.Is(err, services.ErrCollaboratorNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrInvalidProjectName),
		errors.Is(err, services.ErrInvalidRole),
		errors.Is(err, services.ErrInvalidEmail),
		errors.Is(err, services.ErrCannotInviteSelf):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrAlreadyShared):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, services.ErrNotProjectOwner),
		errors.Is(err, services.ErrUnshareNotAllowed),
		errors.Is(err, services.ErrAccessDenied):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrPlanLimitReached):
		apierrors.PlanLimit(c, "Project limit reached for the current plan")
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
