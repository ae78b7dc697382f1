package repository

import (
	"time"

	"github.com/devspacehq/devspace-api/internal/database"
	"github.com/devspacehq/devspace-api/internal/models"
	"github.com/devspacehq/devspace-api/internal/utils"
	"gorm.io/gorm"
)

// GormMessageRepository is a GORM implementation of MessageRepository
type GormMessageRepository struct {
	db *gorm.DB
}

// NewMessageRepository creates a new MessageRepository
func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &GormMessageRepository{db: db}
}

// Create creates a new message
func (r *GormMessageRepository) Create(message *models.Message) error {
	return r.db.Create(message).Error
}

// ListByCommunity lists community chat messages, newest first
func (r *GormMessageRepository) ListByCommunity(communityID uint64, page, pageSize int) ([]models.Message, int64, error) {
	return r.list(r.db.Model(&models.Message{}).Where("community_id = ?", communityID), page, pageSize)
}

// ListByProject lists project thread messages, newest first
func (r *GormMessageRepository) ListByProject(projectID uint64, page, pageSize int) ([]models.Message, int64, error) {
	return r.list(r.db.Model(&models.Message{}).Where("project_id = ?", projectID), page, pageSize)
}

func (r *GormMessageRepository) list(query *gorm.DB, page, pageSize int) ([]models.Message, int64, error) {
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var messages []models.Message
	listQuery := query.Order("created_at DESC")
	if page > 0 && pageSize > 0 {
		listQuery = listQuery.Scopes(database.Paginate(utils.NewPaginationParams(page, pageSize)))
	}

	if err := listQuery.Preload("Author").Find(&messages).Error; err != nil {
		return nil, 0, err
	}

	return messages, total, nil
}

// UnreadCounts returns per-community unread counts for a user. Pending
// memberships are excluded; a member's own messages never count as unread.
func (r *GormMessageRepository) UnreadCounts(userID uint64) ([]UnreadCount, error) {
	var counts []UnreadCount
	err := r.db.Raw(`
		SELECT m.community_id AS community_id, COUNT(*) AS count
		FROM messages m
		JOIN community_members cm ON cm.community_id = m.community_id
		WHERE cm.user_id = ?
		  AND (cm.accepted IS NULL OR cm.accepted = ?)
		  AND (cm.last_read_at IS NULL OR m.created_at > cm.last_read_at)
		  AND m.author_id <> ?
		  AND m.deleted_at IS NULL
		GROUP BY m.community_id`,
		userID, true, userID,
	).Scan(&counts).Error
	if err != nil {
		return nil, err
	}
	return counts, nil
}

// MarkRead advances a member's last-read mark
func (r *GormMessageRepository) MarkRead(communityID, userID uint64, at time.Time) error {
	return r.db.Model(&models.CommunityMember{}).
		Where("community_id = ? AND user_id = ?", communityID, userID).
		Update("last_read_at", at).Error
}
