package repository

import (
	"github.com/devspacehq/devspace-api/internal/database"
	"github.com/devspacehq/devspace-api/internal/models"
	"github.com/devspacehq/devspace-api/internal/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create creates a new task
func (r *GormTaskRepository) Create(task *models.Task) error {
	return r.db.Create(task).Error
}

// FindByID finds a task by ID with optional preloading
func (r *GormTaskRepository) FindByID(id uint64, preload ...string) (*models.Task, error) {
	var task models.Task
	query := r.db

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&task, id).Error; err != nil {
		return nil, err
	}

	return &task, nil
}

// ListByProject retrieves tasks of a project with pagination
func (r *GormTaskRepository) ListByProject(projectID uint64, page, pageSize int) ([]models.Task, int64, error) {
	query := r.db.Model(&models.Task{}).Where("project_id = ?", projectID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var tasks []models.Task
	listQuery := query.Order("created_at DESC")
	if page > 0 && pageSize > 0 {
		listQuery = listQuery.Scopes(database.Paginate(utils.NewPaginationParams(page, pageSize)))
	}

	if err := listQuery.Preload("Creator").Preload("Assignments").Find(&tasks).Error; err != nil {
		return nil, 0, err
	}

	return tasks, total, nil
}

// Update updates a task
func (r *GormTaskRepository) Update(task *models.Task) error {
	return r.db.Save(task).Error
}

// Delete soft deletes a task and removes its assignments
func (r *GormTaskRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", id).Delete(&models.TaskAssignment{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Task{}, id).Error
	})
}

// AssignEmails assigns emails to a task, skipping existing assignments
func (r *GormTaskRepository) AssignEmails(taskID uint64, emails []string) error {
	if len(emails) == 0 {
		return nil
	}

	assignments := make([]models.TaskAssignment, len(emails))
	for i, email := range emails {
		assignments[i] = models.TaskAssignment{
			TaskID: taskID,
			Email:  email,
		}
	}

	return r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&assignments).Error
}

// UnassignEmails removes assignments from a task
func (r *GormTaskRepository) UnassignEmails(taskID uint64, emails []string) error {
	if len(emails) == 0 {
		return nil
	}

	return r.db.Where("task_id = ? AND email IN ?", taskID, emails).
		Delete(&models.TaskAssignment{}).Error
}
