package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/devspacehq/devspace-api/internal/models"
	"github.com/devspacehq/devspace-api/internal/repository"
	"github.com/devspacehq/devspace-api/internal/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrInvalidMeetingTopic = errors.New("meeting topic cannot be empty")
	ErrMeetingNotFound     = errors.New("meeting not found")
	ErrMeetingEnded        = errors.New("meeting has already ended")
	ErrEndNotAllowed       = errors.New("only the starter or the community owner can end a meeting")
	ErrCodeGeneration      = errors.New("failed to generate meeting access code")
)

// MeetingService starts and ends community meetings and fans out the
// meeting-started notifications.
type MeetingService struct {
	meetingRepo  repository.MeetingRepository
	access       *AccessService
	notification *NotificationService
}

// NewMeetingService creates a new MeetingService.
func NewMeetingService(meetingRepo repository.MeetingRepository, access *AccessService, notification *NotificationService) *MeetingService {
	return &MeetingService{
		meetingRepo:  meetingRepo,
		access:       access,
		notification: notification,
	}
}

// Start creates a meeting. The actor must be the community owner or an
// accepted admin member. Every accepted member is notified.
func (s *MeetingService) Start(communityID uint64, caller Caller, topic string) (*models.Meeting, error) {
	if strings.TrimSpace(topic) == "" {
		return nil, ErrInvalidMeetingTopic
	}

	access, err := s.access.ResolveCommunity(communityID, caller.ID)
	if err != nil {
		return nil, err
	}
	if !access.IsAdmin() {
		return nil, ErrNotCommunityAdmin
	}

	code, err := utils.GenerateAccessCode()
	if err != nil {
		return nil, ErrCodeGeneration
	}

	meeting := &models.Meeting{
		CommunityID: communityID,
		Topic:       topic,
		RoomID:      uuid.NewString(),
		AccessCode:  code,
		StartedByID: caller.ID,
		StartedAt:   time.Now(),
	}

	if err := s.meetingRepo.Create(meeting); err != nil {
		return nil, fmt.Errorf("failed to create meeting: %w", err)
	}

	if err := s.notification.NotifyMeetingStarted(access.Community, meeting, caller.ID); err != nil {
		return nil, fmt.Errorf("failed to notify members: %w", err)
	}

	return meeting, nil
}

// List returns a community's meetings; active members only.
func (s *MeetingService) List(communityID uint64, caller Caller) ([]models.Meeting, error) {
	access, err := s.access.ResolveCommunity(communityID, caller.ID)
	if err != nil {
		return nil, err
	}
	if !access.IsActiveMember() {
		return nil, ErrNotActiveMember
	}

	return s.meetingRepo.ListByCommunity(communityID)
}

// End stamps a meeting as ended. Only the starter or the community owner.
func (s *MeetingService) End(meetingID uint64, caller Caller) (*models.Meeting, error) {
	meeting, err := s.meetingRepo.FindByID(meetingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMeetingNotFound
		}
		return nil, fmt.Errorf("failed to find meeting: %w", err)
	}

	if meeting.EndedAt != nil {
		return nil, ErrMeetingEnded
	}

	access, err := s.access.ResolveCommunity(meeting.CommunityID, caller.ID)
	if err != nil {
		return nil, err
	}
	if meeting.StartedByID != caller.ID && !access.IsOwner {
		return nil, ErrEndNotAllowed
	}

	now := time.Now()
	meeting.EndedAt = &now
	if err := s.meetingRepo.Update(meeting); err != nil {
		return nil, fmt.Errorf("failed to end meeting: %w", err)
	}

	return meeting, nil
}
