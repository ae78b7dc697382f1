package models

import (
	"time"

	"gorm.io/gorm"
)

type Project struct {
	ID          uint64         `gorm:"primarykey" json:"id"`
	Name        string         `gorm:"type:varchar(255);not null" json:"name"`
	Description string         `gorm:"type:text" json:"description"`
	OwnerID     uint64         `gorm:"not null;index" json:"owner_id"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Owner         User                 `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	Collaborators []ProjectCollaborator `gorm:"foreignKey:ProjectID" json:"collaborators,omitempty"`
	Tasks         []Task               `gorm:"foreignKey:ProjectID" json:"tasks,omitempty"`
	Notes         []Note               `gorm:"foreignKey:ProjectID" json:"notes,omitempty"`
	Commands      []Command            `gorm:"foreignKey:ProjectID" json:"commands,omitempty"`
	Credentials   []Credential         `gorm:"foreignKey:ProjectID" json:"credentials,omitempty"`
}
