package models

import (
	"time"

	"gorm.io/gorm"
)

type NotificationKind string

const (
	NotificationMeetingStarted NotificationKind = "meeting_started"
	NotificationTaskAssigned   NotificationKind = "task_assigned"
	NotificationBirthday       NotificationKind = "birthday"
)

type Notification struct {
	ID          uint64           `gorm:"primarykey" json:"id"`
	UserID      uint64           `gorm:"not null;index" json:"user_id"`
	Kind        NotificationKind `gorm:"type:varchar(30);not null" json:"kind"`
	Message     string           `gorm:"type:varchar(512);not null" json:"message"`
	ProjectID   *uint64          `json:"project_id,omitempty"`
	CommunityID *uint64          `json:"community_id,omitempty"`
	ReadAt      *time.Time       `json:"read_at"`
	CreatedAt   time.Time        `json:"created_at"`
	DeletedAt   gorm.DeletedAt   `gorm:"index" json:"-"`
}
