package dto

import (
	"time"

	"github.com/devspacehq/devspace-api/internal/models"
)

// MeetingDTO represents a community meeting in API responses
type MeetingDTO struct {
	ID          uint64     `json:"id"`
	CommunityID uint64     `json:"community_id"`
	Topic       string     `json:"topic"`
	RoomID      string     `json:"room_id"`
	AccessCode  string     `json:"access_code"`
	StartedByID uint64     `json:"started_by_id"`
	StartedBy   *UserDTO   `json:"started_by,omitempty"`
	StartedAt   time.Time  `json:"started_at"`
	EndedAt     *time.Time `json:"ended_at"`
}

// NotificationDTO represents a notification in API responses
type NotificationDTO struct {
	ID          uint64                  `json:"id"`
	Kind        models.NotificationKind `json:"kind"`
	Message     string                  `json:"message"`
	ProjectID   *uint64                 `json:"project_id,omitempty"`
	CommunityID *uint64                 `json:"community_id,omitempty"`
	ReadAt      *time.Time              `json:"read_at"`
	CreatedAt   time.Time               `json:"created_at"`
}

// NotificationListResponse represents a paginated list of notifications
type NotificationListResponse struct {
	Notifications []NotificationDTO `json:"notifications"`
	Page          int               `json:"page"`
	PageSize      int               `json:"page_size"`
	TotalCount    int64             `json:"total_count"`
	TotalPages    int               `json:"total_pages"`
}

// ToMeetingDTO converts a Meeting model to MeetingDTO
func ToMeetingDTO(meeting models.Meeting) MeetingDTO {
	dto := MeetingDTO{
		ID:          meeting.ID,
		CommunityID: meeting.CommunityID,
		Topic:       meeting.Topic,
		RoomID:      meeting.RoomID,
		AccessCode:  meeting.AccessCode,
		StartedByID: meeting.StartedByID,
		StartedAt:   meeting.StartedAt,
		EndedAt:     meeting.EndedAt,
	}

	// Include starter if preloaded
	if meeting.StartedBy.ID != 0 {
		startedBy := ToUserDTO(meeting.StartedBy)
		dto.StartedBy = &startedBy
	}

	return dto
}

// ToMeetingDTOs converts a slice of meetings
func ToMeetingDTOs(meetings []models.Meeting) []MeetingDTO {
	items := make([]MeetingDTO, len(meetings))
	for i, meeting := range meetings {
		items[i] = ToMeetingDTO(meeting)
	}
	return items
}

// ToNotificationDTO converts a Notification model to NotificationDTO
func ToNotificationDTO(notification models.Notification) NotificationDTO {
	return NotificationDTO{
		ID:          notification.ID,
		Kind:        notification.Kind,
		Message:     notification.Message,
		ProjectID:   notification.ProjectID,
		CommunityID: notification.CommunityID,
		ReadAt:      notification.ReadAt,
		CreatedAt:   notification.CreatedAt,
	}
}

// ToNotificationListResponse converts a slice of notifications to
// NotificationListResponse
func ToNotificationListResponse(notifications []models.Notification, page, pageSize int, totalCount int64) NotificationListResponse {
	items := make([]NotificationDTO, len(notifications))
	for i, notification := range notifications {
		items[i] = ToNotificationDTO(notification)
	}

	totalPages := int(totalCount) / pageSize
	if int(totalCount)%pageSize > 0 {
		totalPages++
	}

	return NotificationListResponse{
		Notifications: items,
		Page:          page,
		PageSize:      pageSize,
		TotalCount:    totalCount,
		TotalPages:    totalPages,
	}
}
