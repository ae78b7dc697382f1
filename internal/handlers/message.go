package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/devspacehq/devspace-api/internal/dto"
	apierrors "github.com/devspacehq/devspace-api/internal/errors"
	"github.com/devspacehq/devspace-api/internal/middleware"
	"github.com/devspacehq/devspace-api/internal/services"
	"github.com/devspacehq/devspace-api/internal/utils"
	"github.com/gin-gonic/gin"
)

// MessageHandler coordinates community chat and project discussion threads.
type MessageHandler struct {
	messageService *services.MessageService
}

// NewMessageHandler creates a new MessageHandler.
func NewMessageHandler(messageService *services.MessageService) *MessageHandler {
	return &MessageHandler{
		messageService: messageService,
	}
}

// PostCommunityMessage posts a chat message to a community.
func (h *MessageHandler) PostCommunityMessage(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	communityID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid community ID")
		return
	}

	type PostRequest struct {
		Body string `json:"body" binding:"required"`
	}

	var req PostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	message, err := h.messageService.PostToCommunity(communityID, caller, req.Body)
	if err != nil {
		respondMessageError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToMessageDTO(*message))
}

// ListCommunityMessages lists a community's chat with pagination.
func (h *MessageHandler) ListCommunityMessages(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	communityID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid community ID")
		return
	}

	params := utils.GetPaginationParams(c)
	messages, total, err := h.messageService.ListCommunity(communityID, caller, params.Page, params.Limit)
	if err != nil {
		respondMessageError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToMessageListResponse(messages, params.Page, params.Limit, total))
}

// PostProjectMessage posts to a project's discussion thread.
func (h *MessageHandler) PostProjectMessage(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	projectID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid project ID")
		return
	}

	type PostRequest struct {
		Body string `json:"body" binding:"required"`
	}

	var req PostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	message, err := h.messageService.PostToProject(projectID, caller, req.Body)
	if err != nil {
		respondMessageError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToMessageDTO(*message))
}

// ListProjectMessages lists a project's discussion thread with pagination.
func (h *MessageHandler) ListProjectMessages(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	projectID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid project ID")
		return
	}

	params := utils.GetPaginationParams(c)
	messages, total, err := h.messageService.ListProject(projectID, caller, params.Page, params.Limit)
	if err != nil {
		respondMessageError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToMessageListResponse(messages, params.Page, params.Limit, total))
}

// UnreadCounts returns the caller's per-community unread message counts.
func (h *MessageHandler) UnreadCounts(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	counts, err := h.messageService.UnreadCounts(userID)
	if err != nil {
		apierrors.InternalError(c, "Failed to compute unread counts")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"unread": counts,
	})
}

// MarkRead advances the caller's read mark in a community chat.
func (h *MessageHandler) MarkRead(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	communityID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid community ID")
		return
	}

	if err := h.messageService.MarkRead(communityID, caller); err != nil {
		respondMessageError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Read mark updated",
	})
}

func respondMessageError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrCommunityNotFound):
		apierrors.NotFound(c, "Community not found")
	case errors.Is(err, services.ErrProjectNotFound):
		apierrors.NotFound(c, "Project not found")
	case errors.Is(err, services.ErrEmptyMessage):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrNotActiveMember),
		errors.Is(err, services.ErrMessageWriteDenied),
		errors.Is(err, services.ErrAccessDenied):
		apierrors.Forbidden(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
