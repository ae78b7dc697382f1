package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/devspacehq/devspace-api/internal/dto"
	apierrors "github.com/devspacehq/devspace-api/internal/errors"
	"github.com/devspacehq/devspace-api/internal/services"
	"github.com/gin-gonic/gin"
)

// MeetingHandler coordinates community meeting HTTP handlers.
type MeetingHandler struct {
	meetingService *services.MeetingService
}

// NewMeetingHandler creates a new MeetingHandler.
func NewMeetingHandler(meetingService *services.MeetingService) *MeetingHandler {
	return &MeetingHandler{
		meetingService: meetingService,
	}
}

// StartMeeting starts a meeting in a community. Owner or an accepted admin
// member.
func (h *MeetingHandler) StartMeeting(c *gin.Context) {
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

	type StartRequest struct {
		Topic string `json:"topic" binding:"required"`
	}

	var req StartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	meeting, err := h.meetingService.Start(communityID, caller, req.Topic)
	if err != nil {
		respondMeetingError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToMeetingDTO(*meeting))
}

// ListMeetings lists a community's meetings; active members only.
func (h *MeetingHandler) ListMeetings(c *gin.Context) {
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

	meetings, err := h.meetingService.List(communityID, caller)
	if err != nil {
		respondMeetingError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"meetings": dto.ToMeetingDTOs(meetings),
	})
}

// EndMeeting ends a meeting. Starter or community owner only.
func (h *MeetingHandler) EndMeeting(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	meetingID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid meeting ID")
		return
	}

	meeting, err := h.meetingService.End(meetingID, caller)
	if err != nil {
		respondMeetingError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToMeetingDTO(*meeting))
}

func respondMeetingError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrMeetingNotFound):
		apierrors.NotFound(c, "Meeting not found")
	case errors.Is(err, services.ErrCommunityNotFound):
		apierrors.NotFound(c, "Community not found")
	case errors.Is(err, services.ErrInvalidMeetingTopic):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrMeetingEnded):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, services.ErrNotCommunityAdmin),
		errors.Is(err, services.ErrNotActiveMember),
		errors.Is(err, services.ErrEndNotAllowed),
		errors.Is(err, services.ErrAccessDenied):
		apierrors.Forbidden(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
