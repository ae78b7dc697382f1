package repository

import (
	"time"

	"github.com/devspacehq/devspace-api/internal/models"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(email string) (*models.User, error)

	// FindByEmails finds all users whose email is in the given set
	FindByEmails(emails []string) ([]models.User, error)

	// UpdatePlan updates a user's subscription plan
	UpdatePlan(id uint64, plan models.Plan) error

	// ListWithBirthday lists users whose birthday falls on the given month and day
	ListWithBirthday(month time.Month, day int) ([]models.User, error)
}

// ProjectRepository defines the interface for project and collaborator data access
type ProjectRepository interface {
	// Create creates a new project
	Create(project *models.Project) error

	// FindByID finds a project by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Project, error)

	// Update updates a project
	Update(project *models.Project) error

	// Delete deletes a project and all of its scoped records
	Delete(id uint64) error

	// CountOwnedBy counts projects owned by a user
	CountOwnedBy(ownerID uint64) (int64, error)

	// ListOwnedBy lists projects owned by a user
	ListOwnedBy(ownerID uint64) ([]models.Project, error)

	// AddCollaborator inserts a collaborator row
	AddCollaborator(collab *models.ProjectCollaborator) error

	// FindCollaborator finds the collaborator row for (projectID, email)
	FindCollaborator(projectID uint64, email string) (*models.ProjectCollaborator, error)

	// UpdateCollaborator persists changes to a collaborator row
	UpdateCollaborator(collab *models.ProjectCollaborator) error

	// RemoveCollaborator deletes the collaborator row for (projectID, email)
	RemoveCollaborator(projectID uint64, email string) error

	// ListCollaborators lists all collaborator rows of a project
	ListCollaborators(projectID uint64) ([]models.ProjectCollaborator, error)

	// ListCollaborationsByEmail lists all collaborator rows for an email,
	// with the project preloaded
	ListCollaborationsByEmail(email string) ([]models.ProjectCollaborator, error)
}

// CommunityRepository defines the interface for community and member data access
type CommunityRepository interface {
	// Create creates a new community
	Create(community *models.Community) error

	// FindByID finds a community by ID
	FindByID(id uint64) (*models.Community, error)

	// Update updates a community
	Update(community *models.Community) error

	// Delete deletes a community and all of its scoped records
	Delete(id uint64) error

	// CountOwnedBy counts communities owned by a user
	CountOwnedBy(ownerID uint64) (int64, error)

	// ListOwnedBy lists communities owned by a user
	ListOwnedBy(ownerID uint64) ([]models.Community, error)

	// AddMember inserts a member row
	AddMember(member *models.CommunityMember) error

	// FindMember finds the member row for (communityID, userID)
	FindMember(communityID, userID uint64) (*models.CommunityMember, error)

	// UpdateMember persists changes to a member row
	UpdateMember(member *models.CommunityMember) error

	// RemoveMember deletes the member row for (communityID, userID)
	RemoveMember(communityID, userID uint64) error

	// ListMembers lists all member rows of a community
	ListMembers(communityID uint64) ([]models.CommunityMember, error)

	// ListMembershipsByUserID lists all member rows for a user, with the
	// community preloaded
	ListMembershipsByUserID(userID uint64) ([]models.CommunityMember, error)
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(task *models.Task) error

	// FindByID finds a task by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Task, error)

	// ListByProject retrieves tasks of a project with pagination
	ListByProject(projectID uint64, page, pageSize int) ([]models.Task, int64, error)

	// Update updates a task
	Update(task *models.Task) error

	// Delete soft deletes a task and its assignments
	Delete(id uint64) error

	// AssignEmails assigns emails to a task, skipping existing assignments
	AssignEmails(taskID uint64, emails []string) error

	// UnassignEmails removes assignments from a task
	UnassignEmails(taskID uint64, emails []string) error
}

// UnreadCount is the per-community unread message aggregate for one user.
type UnreadCount struct {
	CommunityID uint64 `json:"community_id"`
	Count       int64  `json:"count"`
}

// MessageRepository defines the interface for message data access
type MessageRepository interface {
	// Create creates a new message
	Create(message *models.Message) error

	// ListByCommunity lists community chat messages, newest first
	ListByCommunity(communityID uint64, page, pageSize int) ([]models.Message, int64, error)

	// ListByProject lists project thread messages, newest first
	ListByProject(projectID uint64, page, pageSize int) ([]models.Message, int64, error)

	// UnreadCounts returns per-community unread counts for a user, based on
	// the member's last-read high-water mark
	UnreadCounts(userID uint64) ([]UnreadCount, error)

	// MarkRead advances a member's last-read mark
	MarkRead(communityID, userID uint64, at time.Time) error
}

// NotificationRepository defines the interface for notification data access
type NotificationRepository interface {
	// CreateBatch inserts notifications for a set of recipients
	CreateBatch(notifications []models.Notification) error

	// ListByUser lists a user's notifications, newest first
	ListByUser(userID uint64, page, pageSize int) ([]models.Notification, int64, error)

	// FindByID finds a notification by ID
	FindByID(id uint64) (*models.Notification, error)

	// MarkRead stamps a notification as read
	MarkRead(id uint64, at time.Time) error
}
