package models

import (
	"time"

	"gorm.io/gorm"
)

// Credential stores a project secret. The secret value is AES-GCM encrypted
// before it reaches the database; only the ciphertext is persisted.
type Credential struct {
	ID               uint64         `gorm:"primarykey" json:"id"`
	ProjectID        uint64         `gorm:"not null;index" json:"project_id"`
	Label            string         `gorm:"type:varchar(255);not null" json:"label"`
	Username         string         `gorm:"type:varchar(255)" json:"username"`
	SecretCiphertext string         `gorm:"type:text;not null" json:"-"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`
}
