package repository

import (
	"github.com/devspacehq/devspace-api/internal/models"
	"gorm.io/gorm"
)

// MeetingRepository defines the interface for meeting data access
type MeetingRepository interface {
	// Create creates a new meeting
	Create(meeting *models.Meeting) error

	// FindByID finds a meeting by ID
	FindByID(id uint64) (*models.Meeting, error)

	// ListByCommunity lists a community's meetings, newest first
	ListByCommunity(communityID uint64) ([]models.Meeting, error)

	// Update updates a meeting
	Update(meeting *models.Meeting) error
}

// GormMeetingRepository is a GORM implementation of MeetingRepository
type GormMeetingRepository struct {
	db *gorm.DB
}

// NewMeetingRepository creates a new MeetingRepository
func NewMeetingRepository(db *gorm.DB) MeetingRepository {
	return &GormMeetingRepository{db: db}
}

// Create creates a new meeting
func (r *GormMeetingRepository) Create(meeting *models.Meeting) error {
	return r.db.Create(meeting).Error
}

// FindByID finds a meeting by ID
func (r *GormMeetingRepository) FindByID(id uint64) (*models.Meeting, error) {
	var meeting models.Meeting
	if err := r.db.First(&meeting, id).Error; err != nil {
		return nil, err
	}
	return &meeting, nil
}

// ListByCommunity lists a community's meetings, newest first
func (r *GormMeetingRepository) ListByCommunity(communityID uint64) ([]models.Meeting, error) {
	var meetings []models.Meeting
	if err := r.db.Where("community_id = ?", communityID).
		Order("started_at DESC").
		Find(&meetings).Error; err != nil {
		return nil, err
	}
	return meetings, nil
}

// Update updates a meeting
func (r *GormMeetingRepository) Update(meeting *models.Meeting) error {
	return r.db.Save(meeting).Error
}
