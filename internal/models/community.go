package models

import (
	"time"

	"gorm.io/gorm"
)

type Community struct {
	ID          uint64         `gorm:"primarykey" json:"id"`
	Name        string         `gorm:"type:varchar(255);not null" json:"name"`
	Description string         `gorm:"type:text" json:"description"`
	OwnerID     uint64         `gorm:"not null;index" json:"owner_id"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Owner    User              `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	Members  []CommunityMember `gorm:"foreignKey:CommunityID" json:"members,omitempty"`
	Messages []Message         `gorm:"foreignKey:CommunityID" json:"messages,omitempty"`
	Meetings []Meeting         `gorm:"foreignKey:CommunityID" json:"meetings,omitempty"`
}
