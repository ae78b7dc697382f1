package repository

import (
	"github.com/devspacehq/devspace-api/internal/models"
	"gorm.io/gorm"
)

// GormCommunityRepository is a GORM implementation of CommunityRepository
type GormCommunityRepository struct {
	db *gorm.DB
}

// NewCommunityRepository creates a new CommunityRepository
func NewCommunityRepository(db *gorm.DB) CommunityRepository {
	return &GormCommunityRepository{db: db}
}

// Create creates a new community
func (r *GormCommunityRepository) Create(community *models.Community) error {
	return r.db.Create(community).Error
}

// FindByID finds a community by ID
func (r *GormCommunityRepository) FindByID(id uint64) (*models.Community, error) {
	var community models.Community
	if err := r.db.First(&community, id).Error; err != nil {
		return nil, err
	}
	return &community, nil
}

// Update updates a community
func (r *GormCommunityRepository) Update(community *models.Community) error {
	return r.db.Save(community).Error
}

// Delete deletes a community and all of its scoped records in a transaction
func (r *GormCommunityRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		for _, m := range []interface{}{
			&models.Message{},
			&models.Meeting{},
			&models.CommunityMember{},
		} {
			if err := tx.Where("community_id = ?", id).Delete(m).Error; err != nil {
				return err
			}
		}

		return tx.Delete(&models.Community{}, id).Error
	})
}

// CountOwnedBy counts communities owned by a user
func (r *GormCommunityRepository) CountOwnedBy(ownerID uint64) (int64, error) {
	var count int64
	err := r.db.Model(&models.Community{}).Where("owner_id = ?", ownerID).Count(&count).Error
	return count, err
}

// ListOwnedBy lists communities owned by a user
func (r *GormCommunityRepository) ListOwnedBy(ownerID uint64) ([]models.Community, error) {
	var communities []models.Community
	if err := r.db.Where("owner_id = ?", ownerID).Find(&communities).Error; err != nil {
		return nil, err
	}
	return communities, nil
}

// AddMember inserts a member row
func (r *GormCommunityRepository) AddMember(member *models.CommunityMember) error {
	return r.db.Create(member).Error
}

// FindMember finds the member row for (communityID, userID)
func (r *GormCommunityRepository) FindMember(communityID, userID uint64) (*models.CommunityMember, error) {
	var member models.CommunityMember
	if err := r.db.Where("community_id = ? AND user_id = ?", communityID, userID).
		First(&member).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

// UpdateMember persists changes to a member row
func (r *GormCommunityRepository) UpdateMember(member *models.CommunityMember) error {
	return r.db.Model(&models.CommunityMember{}).
		Where("community_id = ? AND user_id = ?", member.CommunityID, member.UserID).
		Updates(map[string]interface{}{
			"accepted":     member.Accepted,
			"last_read_at": member.LastReadAt,
		}).Error
}

// RemoveMember deletes the member row for (communityID, userID)
func (r *GormCommunityRepository) RemoveMember(communityID, userID uint64) error {
	return r.db.Where("community_id = ? AND user_id = ?", communityID, userID).
		Delete(&models.CommunityMember{}).Error
}

// ListMembers lists all member rows of a community
func (r *GormCommunityRepository) ListMembers(communityID uint64) ([]models.CommunityMember, error) {
	var members []models.CommunityMember
	if err := r.db.Preload("User").
		Where("community_id = ?", communityID).
		Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

// ListMembershipsByUserID lists all member rows for a user
func (r *GormCommunityRepository) ListMembershipsByUserID(userID uint64) ([]models.CommunityMember, error) {
	var memberships []models.CommunityMember
	if err := r.db.Preload("Community").
		Where("user_id = ?", userID).
		Find(&memberships).Error; err != nil {
		return nil, err
	}
	return memberships, nil
}
