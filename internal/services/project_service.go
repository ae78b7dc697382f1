package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/devspacehq/devspace-api/internal/models"
	"github.com/devspacehq/devspace-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrInvalidProjectName    = errors.New("project name cannot be empty")
	ErrInvalidRole           = errors.New("invalid collaborator role")
	ErrInvalidEmail          = errors.New("invalid email address")
	ErrNotProjectOwner       = errors.New("only the project owner can perform this action")
	ErrAlreadyShared         = errors.New("project is already shared with this email")
	ErrCannotInviteSelf      = errors.New("cannot share a project with yourself")
	ErrInviteNotFound        = errors.New("no invitation found")
	ErrInviteAlreadyResolved = errors.New("invitation has already been resolved")
	ErrCollaboratorNotFound  = errors.New("collaborator not found")
	ErrUnshareNotAllowed     = errors.New("only the owner or the collaborator themselves can remove a share")
)

// ProjectListing is the two-set response of the project listing: resources
// the caller owns or has accepted, and resources with a pending invitation.
type ProjectListing struct {
	Owned   []models.Project
	Shared  []models.ProjectCollaborator
	Pending []models.ProjectCollaborator
}

// ProjectService provides business logic for projects and the collaborator
// invitation lifecycle.
type ProjectService struct {
	projectRepo repository.ProjectRepository
	plan        *PlanService
}

// NewProjectService creates a new ProjectService.
func NewProjectService(projectRepo repository.ProjectRepository, plan *PlanService) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
		plan:        plan,
	}
}

// CreateProjectInput represents parameters to create a new project.
type CreateProjectInput struct {
	Name        string
	Description string
}

// CreateProject creates a project owned by the given user, subject to the
// owner's plan limits.
func (s *ProjectService) CreateProject(owner *models.User, input CreateProjectInput) (*models.Project, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrInvalidProjectName
	}

	if err := s.plan.CheckProjectQuota(owner); err != nil {
		return nil, err
	}

	project := &models.Project{
		Name:        input.Name,
		Description: input.Description,
		OwnerID:     owner.ID,
	}

	if err := s.projectRepo.Create(project); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	return project, nil
}

// ListForUser returns the caller's owned projects, accepted shares and
// pending invitations.
func (s *ProjectService) ListForUser(userID uint64, email string) (*ProjectListing, error) {
	owned, err := s.projectRepo.ListOwnedBy(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list owned projects: %w", err)
	}

	collabs, err := s.projectRepo.ListCollaborationsByEmail(normalizeEmail(email))
	if err != nil {
		return nil, fmt.Errorf("failed to list collaborations: %w", err)
	}

	listing := &ProjectListing{Owned: owned}
	for _, collab := range collabs {
		if collab.IsPending() {
			listing.Pending = append(listing.Pending, collab)
		} else {
			listing.Shared = append(listing.Shared, collab)
		}
	}

	return listing, nil
}

// GetProjectWithCollaborators returns a project and its collaborator rows.
func (s *ProjectService) GetProjectWithCollaborators(projectID uint64) (*models.Project, []models.ProjectCollaborator, error) {
	project, err := s.projectRepo.FindByID(projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrProjectNotFound
		}
		return nil, nil, fmt.Errorf("failed to find project: %w", err)
	}

	collabs, err := s.projectRepo.ListCollaborators(projectID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list collaborators: %w", err)
	}

	return project, collabs, nil
}

// UpdateProject updates a project's name and description.
func (s *ProjectService) UpdateProject(projectID uint64, name, description string) (*models.Project, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrInvalidProjectName
	}

	project, err := s.projectRepo.FindByID(projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}

	project.Name = name
	project.Description = description
	if err := s.projectRepo.Update(project); err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}

	return project, nil
}

// DeleteProject removes a project and everything scoped to it.
func (s *ProjectService) DeleteProject(projectID uint64) error {
	if _, err := s.projectRepo.FindByID(projectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProjectNotFound
		}
		return fmt.Errorf("failed to find project: %w", err)
	}

	if err := s.projectRepo.Delete(projectID); err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}

	return nil
}

// Share creates a pending collaborator entry for the given email. Only the
// owner may share, and at most one entry per email may exist.
func (s *ProjectService) Share(projectID, actorID uint64, actorEmail, email string, role models.ProjectRole) (*models.ProjectCollaborator, error) {
	email = normalizeEmail(email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, ErrInvalidEmail
	}
	if !models.ValidProjectRole(role) {
		return nil, ErrInvalidRole
	}

	project, err := s.projectRepo.FindByID(projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}

	if project.OwnerID != actorID {
		return nil, ErrNotProjectOwner
	}
	if email == normalizeEmail(actorEmail) {
		return nil, ErrCannotInviteSelf
	}

	// Duplicate invite is rejected, not merged.
	if _, err := s.projectRepo.FindCollaborator(projectID, email); err == nil {
		return nil, ErrAlreadyShared
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check existing collaborator: %w", err)
	}

	pending := false
	collab := &models.ProjectCollaborator{
		ProjectID: projectID,
		Email:     email,
		Role:      role,
		Accepted:  &pending,
		AddedAt:   time.Now(),
	}

	if err := s.projectRepo.AddCollaborator(collab); err != nil {
		return nil, fmt.Errorf("failed to add collaborator: %w", err)
	}

	return collab, nil
}

// AcceptInvite transitions the caller's pending entry to accepted.
func (s *ProjectService) AcceptInvite(projectID uint64, email string) (*models.ProjectCollaborator, error) {
	collab, err := s.findPending(projectID, email)
	if err != nil {
		return nil, err
	}

	accepted := true
	collab.Accepted = &accepted
	if err := s.projectRepo.UpdateCollaborator(collab); err != nil {
		return nil, fmt.Errorf("failed to accept invitation: %w", err)
	}

	return collab, nil
}

// DeclineInvite removes the caller's pending entry.
func (s *ProjectService) DeclineInvite(projectID uint64, email string) error {
	collab, err := s.findPending(projectID, email)
	if err != nil {
		return err
	}

	if err := s.projectRepo.RemoveCollaborator(collab.ProjectID, collab.Email); err != nil {
		return fmt.Errorf("failed to decline invitation: %w", err)
	}

	return nil
}

// Unshare removes a collaborator entry, pending or accepted. Permitted for
// the project owner, or for the collaborator removing themselves.
func (s *ProjectService) Unshare(projectID, actorID uint64, actorEmail, targetEmail string) error {
	targetEmail = normalizeEmail(targetEmail)

	project, err := s.projectRepo.FindByID(projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProjectNotFound
		}
		return fmt.Errorf("failed to find project: %w", err)
	}

	if project.OwnerID != actorID && normalizeEmail(actorEmail) != targetEmail {
		return ErrUnshareNotAllowed
	}

	if _, err := s.projectRepo.FindCollaborator(projectID, targetEmail); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCollaboratorNotFound
		}
		return fmt.Errorf("failed to find collaborator: %w", err)
	}

	if err := s.projectRepo.RemoveCollaborator(projectID, targetEmail); err != nil {
		return fmt.Errorf("failed to remove collaborator: %w", err)
	}

	return nil
}

// findPending locates the unique pending entry for (projectID, email). The
// two failure kinds are distinct: no entry at all vs. an entry that is no
// longer pending. Both surface to the API as 404.
func (s *ProjectService) findPending(projectID uint64, email string) (*models.ProjectCollaborator, error) {
	if _, err := s.projectRepo.FindByID(projectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}

	collab, err := s.projectRepo.FindCollaborator(projectID, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInviteNotFound
		}
		return nil, fmt.Errorf("failed to find collaborator: %w", err)
	}

	if !collab.IsPending() {
		return nil, ErrInviteAlreadyResolved
	}

	return collab, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
