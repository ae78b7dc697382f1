package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/devspacehq/devspace-api/internal/models"
	"github.com/devspacehq/devspace-api/internal/repository"
	"gorm.io/gorm"
)

var ErrNotificationNotFound = errors.New("notification not found")

// NotificationService writes notification records for domain events. The
// recipient set is always derived from current membership state.
type NotificationService struct {
	notificationRepo repository.NotificationRepository
	communityRepo    repository.CommunityRepository
	userRepo         repository.UserRepository
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService(notificationRepo repository.NotificationRepository, communityRepo repository.CommunityRepository, userRepo repository.UserRepository) *NotificationService {
	return &NotificationService{
		notificationRepo: notificationRepo,
		communityRepo:    communityRepo,
		userRepo:         userRepo,
	}
}

// NotifyMeetingStarted notifies the community owner and all accepted members
// except the actor who started the meeting.
func (s *NotificationService) NotifyMeetingStarted(community *models.Community, meeting *models.Meeting, actorID uint64) error {
	recipients, err := s.communityRecipients(community, actorID)
	if err != nil {
		return err
	}

	message := fmt.Sprintf("Meeting %q started in %s", meeting.Topic, community.Name)
	notifications := make([]models.Notification, 0, len(recipients))
	for _, userID := range recipients {
		notifications = append(notifications, models.Notification{
			UserID:      userID,
			Kind:        models.NotificationMeetingStarted,
			Message:     message,
			CommunityID: &community.ID,
		})
	}

	return s.notificationRepo.CreateBatch(notifications)
}

// NotifyTaskAssigned notifies assignees that resolve to registered users.
// Emails without an account are skipped.
func (s *NotificationService) NotifyTaskAssigned(task *models.Task, emails []string) error {
	users, err := s.userRepo.FindByEmails(emails)
	if err != nil {
		return fmt.Errorf("failed to resolve assignees: %w", err)
	}

	message := fmt.Sprintf("You were assigned to task %q", task.Title)
	notifications := make([]models.Notification, 0, len(users))
	for _, user := range users {
		notifications = append(notifications, models.Notification{
			UserID:    user.ID,
			Kind:      models.NotificationTaskAssigned,
			Message:   message,
			ProjectID: &task.ProjectID,
		})
	}

	return s.notificationRepo.CreateBatch(notifications)
}

// NotifyBirthdays notifies, for every user whose birthday is today, the
// accepted members of the communities that user belongs to. Intended to be
// run once a day from an operator cron.
func (s *NotificationService) NotifyBirthdays(now time.Time) error {
	celebrants, err := s.userRepo.ListWithBirthday(now.Month(), now.Day())
	if err != nil {
		return fmt.Errorf("failed to list birthdays: %w", err)
	}

	for _, celebrant := range celebrants {
		memberships, err := s.communityRepo.ListMembershipsByUserID(celebrant.ID)
		if err != nil {
			return fmt.Errorf("failed to list memberships: %w", err)
		}

		for _, membership := range memberships {
			if !membership.IsAccepted() {
				continue
			}

			community, err := s.communityRepo.FindByID(membership.CommunityID)
			if err != nil {
				return fmt.Errorf("failed to find community: %w", err)
			}

			recipients, err := s.communityRecipients(community, celebrant.ID)
			if err != nil {
				return err
			}

			message := fmt.Sprintf("It's %s's birthday today!", celebrant.Username)
			notifications := make([]models.Notification, 0, len(recipients))
			for _, userID := range recipients {
				notifications = append(notifications, models.Notification{
					UserID:      userID,
					Kind:        models.NotificationBirthday,
					Message:     message,
					CommunityID: &community.ID,
				})
			}

			if err := s.notificationRepo.CreateBatch(notifications); err != nil {
				return err
			}
		}
	}

	return nil
}

// List returns a user's notifications, newest first.
func (s *NotificationService) List(userID uint64, page, pageSize int) ([]models.Notification, int64, error) {
	return s.notificationRepo.ListByUser(userID, page, pageSize)
}

// MarkRead stamps a notification as read. The notification must belong to
// the caller.
func (s *NotificationService) MarkRead(notificationID, userID uint64) error {
	notification, err := s.notificationRepo.FindByID(notificationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotificationNotFound
		}
		return fmt.Errorf("failed to find notification: %w", err)
	}

	if notification.UserID != userID {
		return ErrNotificationNotFound
	}

	return s.notificationRepo.MarkRead(notificationID, time.Now())
}

// communityRecipients resolves the owner plus accepted members, excluding
// the given actor.
func (s *NotificationService) communityRecipients(community *models.Community, excludeID uint64) ([]uint64, error) {
	members, err := s.communityRepo.ListMembers(community.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}

	recipients := make([]uint64, 0, len(members)+1)
	if community.OwnerID != excludeID {
		recipients = append(recipients, community.OwnerID)
	}
	for _, member := range members {
		if !member.IsAccepted() || member.UserID == excludeID {
			continue
		}
		recipients = append(recipients, member.UserID)
	}

	return recipients, nil
}
