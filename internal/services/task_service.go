package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/devspacehq/devspace-api/internal/models"
	"github.com/devspacehq/devspace-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrTaskNotFound           = errors.New("task not found")
	ErrTaskPermissionDenied   = errors.New("user does not have permission to modify this task")
	ErrTaskRoleRequired       = errors.New("only the owner, an Admin or a Project Lead can manage tasks")
	ErrTitleRequired          = errors.New("title is required")
	ErrNoAssigneesProvided    = errors.New("at least one assignee email is required")
	ErrInvalidAssignee        = errors.New("one or more assignees are not accepted collaborators of the project")
	ErrAIServiceNotConfigured = errors.New("AI service is not configured")
	ErrAINoTasksGenerated     = errors.New("AI did not generate any tasks")
)

// Caller is the explicit identity threaded through every task operation.
type Caller struct {
	ID    uint64
	Email string
}

// TaskService handles task business logic.
type TaskService struct {
	taskRepo     repository.TaskRepository
	projectRepo  repository.ProjectRepository
	access       *AccessService
	notification *NotificationService
	aiService    *AIService
}

// NewTaskService creates a new TaskService.
func NewTaskService(taskRepo repository.TaskRepository, projectRepo repository.ProjectRepository, access *AccessService, notification *NotificationService, aiService *AIService) *TaskService {
	return &TaskService{
		taskRepo:     taskRepo,
		projectRepo:  projectRepo,
		access:       access,
		notification: notification,
		aiService:    aiService,
	}
}

// CreateTaskInput represents parameters to create a new task.
type CreateTaskInput struct {
	Title       string
	Description string
	DueDate     *time.Time
}

// CreateTask creates a task in a project. Requires the owner, an Admin or a
// Project Lead; plain collaborators cannot create tasks.
func (s *TaskService) CreateTask(projectID uint64, caller Caller, input CreateTaskInput) (*models.Task, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, ErrTitleRequired
	}

	access, err := s.access.ResolveProject(projectID, caller.ID, caller.Email)
	if err != nil {
		return nil, err
	}
	if !access.CanManageTasks() {
		return nil, ErrTaskRoleRequired
	}

	task := &models.Task{
		Title:       input.Title,
		Description: input.Description,
		DueDate:     input.DueDate,
		CreatorID:   caller.ID,
		ProjectID:   projectID,
	}

	if err := s.taskRepo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return task, nil
}

// ListTasks returns a project's tasks. Read access suffices; a pending
// collaborator may list tasks.
func (s *TaskService) ListTasks(projectID uint64, caller Caller, page, pageSize int) ([]models.Task, int64, error) {
	if _, err := s.access.ResolveProject(projectID, caller.ID, caller.Email); err != nil {
		return nil, 0, err
	}

	return s.taskRepo.ListByProject(projectID, page, pageSize)
}

// GetTask returns a single task, subject to project read access.
func (s *TaskService) GetTask(taskID uint64, caller Caller) (*models.Task, error) {
	task, err := s.findTask(taskID)
	if err != nil {
		return nil, err
	}

	if _, err := s.access.ResolveProject(task.ProjectID, caller.ID, caller.Email); err != nil {
		return nil, err
	}

	return task, nil
}

// UpdateTaskInput carries optional field updates; nil fields are untouched.
type UpdateTaskInput struct {
	Title       *string
	Description *string
	Status      *models.TaskStatus
	DueDate     *time.Time
	ClearDue    bool
}

// UpdateTask updates a task. Any accepted collaborator or the owner may
// update; pending collaborators may not.
func (s *TaskService) UpdateTask(taskID uint64, caller Caller, input UpdateTaskInput) (*models.Task, error) {
	task, err := s.findTask(taskID)
	if err != nil {
		return nil, err
	}

	access, err := s.access.ResolveProject(task.ProjectID, caller.ID, caller.Email)
	if err != nil {
		return nil, err
	}
	if !access.CanWrite() {
		return nil, ErrTaskPermissionDenied
	}

	if input.Title != nil {
		if strings.TrimSpace(*input.Title) == "" {
			return nil, ErrTitleRequired
		}
		task.Title = *input.Title
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.Status != nil {
		task.Status = *input.Status
	}
	if input.ClearDue {
		task.DueDate = nil
	} else if input.DueDate != nil {
		task.DueDate = input.DueDate
	}

	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return task, nil
}

// DeleteTask deletes a task. Only the creator or the project owner may.
func (s *TaskService) DeleteTask(taskID uint64, caller Caller) error {
	task, err := s.findTask(taskID)
	if err != nil {
		return err
	}

	access, err := s.access.ResolveProject(task.ProjectID, caller.ID, caller.Email)
	if err != nil {
		return err
	}
	if task.CreatorID != caller.ID && !access.IsOwner {
		return ErrTaskPermissionDenied
	}

	if err := s.taskRepo.Delete(taskID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	return nil
}

// AssignTask assigns emails to a task and fans out notifications. Requires
// task-management rights; assignees must be the owner or accepted
// collaborators.
func (s *TaskService) AssignTask(taskID uint64, caller Caller, emails []string) (*models.Task, error) {
	if len(emails) == 0 {
		return nil, ErrNoAssigneesProvided
	}

	task, err := s.findTask(taskID)
	if err != nil {
		return nil, err
	}

	access, err := s.access.ResolveProject(task.ProjectID, caller.ID, caller.Email)
	if err != nil {
		return nil, err
	}
	if !access.CanManageTasks() {
		return nil, ErrTaskRoleRequired
	}

	normalized := uniqueEmails(emails)
	if err := s.verifyAssignees(access.Project, normalized); err != nil {
		return nil, err
	}

	if err := s.taskRepo.AssignEmails(taskID, normalized); err != nil {
		return nil, fmt.Errorf("failed to assign task: %w", err)
	}

	if err := s.notification.NotifyTaskAssigned(task, normalized); err != nil {
		return nil, fmt.Errorf("failed to notify assignees: %w", err)
	}

	return s.findTask(taskID)
}

// UnassignTask removes assignees from a task.
func (s *TaskService) UnassignTask(taskID uint64, caller Caller, emails []string) (*models.Task, error) {
	if len(emails) == 0 {
		return nil, ErrNoAssigneesProvided
	}

	task, err := s.findTask(taskID)
	if err != nil {
		return nil, err
	}

	access, err := s.access.ResolveProject(task.ProjectID, caller.ID, caller.Email)
	if err != nil {
		return nil, err
	}
	if !access.CanManageTasks() {
		return nil, ErrTaskRoleRequired
	}

	if err := s.taskRepo.UnassignEmails(taskID, uniqueEmails(emails)); err != nil {
		return nil, fmt.Errorf("failed to unassign task: %w", err)
	}

	return s.findTask(taskID)
}

// GenerateTasks extracts tasks from free text with the AI service and
// creates them in the project. Same role gate as CreateTask.
func (s *TaskService) GenerateTasks(ctx context.Context, projectID uint64, caller Caller, text string) ([]models.Task, error) {
	if s.aiService == nil {
		return nil, ErrAIServiceNotConfigured
	}
	if strings.TrimSpace(text) == "" {
		return nil, ErrTitleRequired
	}

	access, err := s.access.ResolveProject(projectID, caller.ID, caller.Email)
	if err != nil {
		return nil, err
	}
	if !access.CanManageTasks() {
		return nil, ErrTaskRoleRequired
	}

	generated, err := s.aiService.GenerateTasksFromText(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tasks: %w", err)
	}
	if len(generated) == 0 {
		return nil, ErrAINoTasksGenerated
	}

	var tasks []models.Task
	for _, g := range generated {
		if strings.TrimSpace(g.Title) == "" {
			continue
		}
		task := models.Task{
			Title:       g.Title,
			Description: g.Description,
			DueDate:     g.DueDate,
			CreatorID:   caller.ID,
			ProjectID:   projectID,
		}
		if err := s.taskRepo.Create(&task); err != nil {
			return nil, fmt.Errorf("failed to create generated task: %w", err)
		}
		tasks = append(tasks, task)
	}

	if len(tasks) == 0 {
		return nil, ErrAINoTasksGenerated
	}

	return tasks, nil
}

func (s *TaskService) findTask(taskID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID, "Creator", "Assignments")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return task, nil
}

// verifyAssignees ensures every email is the project owner's or belongs to
// an accepted collaborator.
func (s *TaskService) verifyAssignees(project *models.Project, emails []string) error {
	collabs, err := s.projectRepo.ListCollaborators(project.ID)
	if err != nil {
		return fmt.Errorf("failed to list collaborators: %w", err)
	}

	ownerEmail := ""
	if withOwner, err := s.projectRepo.FindByID(project.ID, "Owner"); err == nil {
		ownerEmail = normalizeEmail(withOwner.Owner.Email)
	}

	accepted := make(map[string]bool, len(collabs))
	for _, c := range collabs {
		if c.IsAccepted() {
			accepted[normalizeEmail(c.Email)] = true
		}
	}

	for _, email := range emails {
		if email == ownerEmail {
			continue
		}
		if !accepted[email] {
			return ErrInvalidAssignee
		}
	}

	return nil
}

func uniqueEmails(emails []string) []string {
	seen := make(map[string]struct{}, len(emails))
	result := make([]string, 0, len(emails))

	for _, e := range emails {
		e = normalizeEmail(e)
		if e == "" {
			continue
		}
		if _, exists := seen[e]; exists {
			continue
		}
		seen[e] = struct{}{}
		result = append(result, e)
	}

	return result
}
