package repository

import (
	"github.com/devspacehq/devspace-api/internal/models"
	"gorm.io/gorm"
)

// GormProjectRepository is a GORM implementation of ProjectRepository
type GormProjectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &GormProjectRepository{db: db}
}

// Create creates a new project
func (r *GormProjectRepository) Create(project *models.Project) error {
	return r.db.Create(project).Error
}

// FindByID finds a project by ID with optional preloading
func (r *GormProjectRepository) FindByID(id uint64, preload ...string) (*models.Project, error) {
	var project models.Project
	query := r.db

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&project, id).Error; err != nil {
		return nil, err
	}

	return &project, nil
}

// Update updates a project
func (r *GormProjectRepository) Update(project *models.Project) error {
	return r.db.Save(project).Error
}

// Delete deletes a project and all of its scoped records in a transaction
func (r *GormProjectRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		taskIDs := tx.Model(&models.Task{}).Select("id").Where("project_id = ?", id)
		if err := tx.Where("task_id IN (?)", taskIDs).Delete(&models.TaskAssignment{}).Error; err != nil {
			return err
		}

		for _, m := range []interface{}{
			&models.Task{},
			&models.Note{},
			&models.Command{},
			&models.Credential{},
			&models.Message{},
			&models.ProjectCollaborator{},
		} {
			if err := tx.Where("project_id = ?", id).Delete(m).Error; err != nil {
				return err
			}
		}

		return tx.Delete(&models.Project{}, id).Error
	})
}

// CountOwnedBy counts projects owned by a user
func (r *GormProjectRepository) CountOwnedBy(ownerID uint64) (int64, error) {
	var count int64
	err := r.db.Model(&models.Project{}).Where("owner_id = ?", ownerID).Count(&count).Error
	return count, err
}

// ListOwnedBy lists projects owned by a user
func (r *GormProjectRepository) ListOwnedBy(ownerID uint64) ([]models.Project, error) {
	var projects []models.Project
	if err := r.db.Where("owner_id = ?", ownerID).Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

// AddCollaborator inserts a collaborator row
func (r *GormProjectRepository) AddCollaborator(collab *models.ProjectCollaborator) error {
	return r.db.Create(collab).Error
}

// FindCollaborator finds the collaborator row for (projectID, email)
func (r *GormProjectRepository) FindCollaborator(projectID uint64, email string) (*models.ProjectCollaborator, error) {
	var collab models.ProjectCollaborator
	if err := r.db.Where("project_id = ? AND email = ?", projectID, email).
		First(&collab).Error; err != nil {
		return nil, err
	}
	return &collab, nil
}

// UpdateCollaborator persists changes to a collaborator row
func (r *GormProjectRepository) UpdateCollaborator(collab *models.ProjectCollaborator) error {
	return r.db.Model(&models.ProjectCollaborator{}).
		Where("project_id = ? AND email = ?", collab.ProjectID, collab.Email).
		Update("accepted", collab.Accepted).Error
}

// RemoveCollaborator deletes the collaborator row for (projectID, email)
func (r *GormProjectRepository) RemoveCollaborator(projectID uint64, email string) error {
	return r.db.Where("project_id = ? AND email = ?", projectID, email).
		Delete(&models.ProjectCollaborator{}).Error
}

// ListCollaborators lists all collaborator rows of a project
func (r *GormProjectRepository) ListCollaborators(projectID uint64) ([]models.ProjectCollaborator, error) {
	var collabs []models.ProjectCollaborator
	if err := r.db.Where("project_id = ?", projectID).
		Order("added_at ASC").
		Find(&collabs).Error; err != nil {
		return nil, err
	}
	return collabs, nil
}

// ListCollaborationsByEmail lists all collaborator rows for an email
func (r *GormProjectRepository) ListCollaborationsByEmail(email string) ([]models.ProjectCollaborator, error) {
	var collabs []models.ProjectCollaborator
	if err := r.db.Preload("Project").
		Where("email = ?", email).
		Find(&collabs).Error; err != nil {
		return nil, err
	}
	return collabs, nil
}
