package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/devspacehq/devspace-api/internal/models"
	"github.com/devspacehq/devspace-api/internal/repository"
)

var (
	ErrEmptyMessage       = errors.New("message body cannot be empty")
	ErrNotActiveMember    = errors.New("user is not an active member of this community")
	ErrMessageWriteDenied = errors.New("write access to the project thread requires an accepted share")
)

// MessageService handles community chat and project discussion threads.
type MessageService struct {
	messageRepo repository.MessageRepository
	access      *AccessService
}

// NewMessageService creates a new MessageService.
func NewMessageService(messageRepo repository.MessageRepository, access *AccessService) *MessageService {
	return &MessageService{
		messageRepo: messageRepo,
		access:      access,
	}
}

// PostToCommunity posts a chat message. Pending invitees are not members
// for chat purposes.
func (s *MessageService) PostToCommunity(communityID uint64, caller Caller, body string) (*models.Message, error) {
	if strings.TrimSpace(body) == "" {
		return nil, ErrEmptyMessage
	}

	access, err := s.access.ResolveCommunity(communityID, caller.ID)
	if err != nil {
		return nil, err
	}
	if !access.IsActiveMember() {
		return nil, ErrNotActiveMember
	}

	message := &models.Message{
		Body:        body,
		AuthorID:    caller.ID,
		CommunityID: &communityID,
	}
	if err := s.messageRepo.Create(message); err != nil {
		return nil, fmt.Errorf("failed to create message: %w", err)
	}

	return message, nil
}

// ListCommunity lists chat messages; active members only.
func (s *MessageService) ListCommunity(communityID uint64, caller Caller, page, pageSize int) ([]models.Message, int64, error) {
	access, err := s.access.ResolveCommunity(communityID, caller.ID)
	if err != nil {
		return nil, 0, err
	}
	if !access.IsActiveMember() {
		return nil, 0, ErrNotActiveMember
	}

	return s.messageRepo.ListByCommunity(communityID, page, pageSize)
}

// PostToProject posts to a project's discussion thread. Requires an
// accepted share; pending collaborators are read-only here.
func (s *MessageService) PostToProject(projectID uint64, caller Caller, body string) (*models.Message, error) {
	if strings.TrimSpace(body) == "" {
		return nil, ErrEmptyMessage
	}

	access, err := s.access.ResolveProject(projectID, caller.ID, caller.Email)
	if err != nil {
		return nil, err
	}
	if !access.CanWrite() {
		return nil, ErrMessageWriteDenied
	}

	message := &models.Message{
		Body:      body,
		AuthorID:  caller.ID,
		ProjectID: &projectID,
	}
	if err := s.messageRepo.Create(message); err != nil {
		return nil, fmt.Errorf("failed to create message: %w", err)
	}

	return message, nil
}

// ListProject lists a project's thread. Read access suffices, so pending
// collaborators may read.
func (s *MessageService) ListProject(projectID uint64, caller Caller, page, pageSize int) ([]models.Message, int64, error) {
	if _, err := s.access.ResolveProject(projectID, caller.ID, caller.Email); err != nil {
		return nil, 0, err
	}

	return s.messageRepo.ListByProject(projectID, page, pageSize)
}

// UnreadCounts returns per-community unread counts for the caller.
func (s *MessageService) UnreadCounts(userID uint64) ([]repository.UnreadCount, error) {
	return s.messageRepo.UnreadCounts(userID)
}

// MarkRead advances the caller's read mark in a community.
func (s *MessageService) MarkRead(communityID uint64, caller Caller) error {
	access, err := s.access.ResolveCommunity(communityID, caller.ID)
	if err != nil {
		return err
	}
	// The owner has no member row to carry a read mark and never accrues
	// unread counts; marking is a no-op for them.
	if access.IsOwner {
		return nil
	}
	if access.Member == nil || !access.Member.IsAccepted() {
		return ErrNotActiveMember
	}

	return s.messageRepo.MarkRead(communityID, caller.ID, time.Now())
}
