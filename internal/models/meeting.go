package models

import (
	"time"

	"gorm.io/gorm"
)

type Meeting struct {
	ID          uint64         `gorm:"primarykey" json:"id"`
	CommunityID uint64         `gorm:"not null;index" json:"community_id"`
	Topic       string         `gorm:"type:varchar(255);not null" json:"topic"`
	RoomID      string         `gorm:"type:varchar(36);uniqueIndex;not null" json:"room_id"`
	AccessCode  string         `gorm:"type:varchar(50);not null" json:"access_code"`
	StartedByID uint64         `gorm:"not null" json:"started_by_id"`
	StartedAt   time.Time      `json:"started_at"`
	EndedAt     *time.Time     `json:"ended_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Community Community `gorm:"foreignKey:CommunityID" json:"community,omitempty"`
	StartedBy User      `gorm:"foreignKey:StartedByID" json:"started_by,omitempty"`
}
