package models

import (
	"time"

	"gorm.io/gorm"
)

// Command is a saved shell command belonging to a project, e.g. a deploy or
// build one-liner the team shares.
type Command struct {
	ID        uint64         `gorm:"primarykey" json:"id"`
	ProjectID uint64         `gorm:"not null;index" json:"project_id"`
	Label     string         `gorm:"type:varchar(255);not null" json:"label"`
	Command   string         `gorm:"type:text;not null" json:"command"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
