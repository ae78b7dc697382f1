package models

import (
	"time"

	"gorm.io/gorm"
)

// Message belongs to exactly one of a project discussion thread or a
// community chat.
type Message struct {
	ID          uint64         `gorm:"primarykey" json:"id"`
	Body        string         `gorm:"type:text;not null" json:"body"`
	AuthorID    uint64         `gorm:"not null" json:"author_id"`
	ProjectID   *uint64        `gorm:"index" json:"project_id,omitempty"`
	CommunityID *uint64        `gorm:"index" json:"community_id,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Author User `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
}
