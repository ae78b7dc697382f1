package models

import (
	"time"

	"gorm.io/gorm"
)

type Plan string

const (
	PlanFree Plan = "free"
	PlanPro  Plan = "pro"
)

type User struct {
	ID           uint64         `gorm:"primarykey" json:"id"`
	Username     string         `gorm:"type:varchar(50);not null" json:"username"`
	Email        string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string         `gorm:"type:varchar(255);not null" json:"-"`
	Plan         Plan           `gorm:"type:varchar(20);not null;default:'free'" json:"plan"`
	Birthday     *time.Time     `json:"birthday"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Projects    []Project         `gorm:"foreignKey:OwnerID" json:"-"`
	Communities []Community       `gorm:"foreignKey:OwnerID" json:"-"`
	Memberships []CommunityMember `gorm:"foreignKey:UserID" json:"-"`
}
