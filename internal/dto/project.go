package dto

import (
	"time"

	"github.com/devspacehq/devspace-api/internal/models"
)

// ProjectDTO represents a project in API responses
type ProjectDTO struct {
	ID          uint64    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	OwnerID     uint64    `json:"owner_id"`
	Owner       *UserDTO  `json:"owner,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CollaboratorDTO represents one entry of a project's shared-with list
type CollaboratorDTO struct {
	Email    string             `json:"email"`
	Role     models.ProjectRole `json:"role"`
	Accepted bool               `json:"accepted"`
	AddedAt  time.Time          `json:"added_at"`
}

// SharedProjectDTO represents a project the caller collaborates on,
// carrying the caller's role and acceptance state
type SharedProjectDTO struct {
	ProjectDTO
	Role     models.ProjectRole `json:"role"`
	Accepted bool               `json:"accepted"`
}

// ProjectListResponse is the two-set project listing: owned plus accepted
// shares, and pending invitations
type ProjectListResponse struct {
	Owned          []ProjectDTO       `json:"owned"`
	Shared         []SharedProjectDTO `json:"shared"`
	PendingInvites []SharedProjectDTO `json:"pending_invites"`
}

// ProjectDetailDTO represents detailed project information
type ProjectDetailDTO struct {
	ProjectDTO
	Collaborators []CollaboratorDTO `json:"collaborators"`
}

// ToProjectDTO converts a Project model to ProjectDTO
func ToProjectDTO(project models.Project) ProjectDTO {
	dto := ProjectDTO{
		ID:          project.ID,
		Name:        project.Name,
		Description: project.Description,
		OwnerID:     project.OwnerID,
		CreatedAt:   project.CreatedAt,
		UpdatedAt:   project.UpdatedAt,
	}

	// Include owner if preloaded
	if project.Owner.ID != 0 {
		owner := ToUserDTO(project.Owner)
		dto.Owner = &owner
	}

	return dto
}

// ToCollaboratorDTO converts a collaborator row to DTO
func ToCollaboratorDTO(collab models.ProjectCollaborator) CollaboratorDTO {
	return CollaboratorDTO{
		Email:    collab.Email,
		Role:     collab.Role,
		Accepted: collab.IsAccepted(),
		AddedAt:  collab.AddedAt,
	}
}

// ToSharedProjectDTO converts a collaborator row (with Project preloaded)
// to a shared-project entry
func ToSharedProjectDTO(collab models.ProjectCollaborator) SharedProjectDTO {
	return SharedProjectDTO{
		ProjectDTO: ToProjectDTO(collab.Project),
		Role:       collab.Role,
		Accepted:   collab.IsAccepted(),
	}
}

// ToProjectListResponse converts a listing to the two-set response
func ToProjectListResponse(owned []models.Project, shared, pending []models.ProjectCollaborator) ProjectListResponse {
	resp := ProjectListResponse{
		Owned:          make([]ProjectDTO, len(owned)),
		Shared:         make([]SharedProjectDTO, len(shared)),
		PendingInvites: make([]SharedProjectDTO, len(pending)),
	}
	for i, project := range owned {
		resp.Owned[i] = ToProjectDTO(project)
	}
	for i, collab := range shared {
		resp.Shared[i] = ToSharedProjectDTO(collab)
	}
	for i, collab := range pending {
		resp.PendingInvites[i] = ToSharedProjectDTO(collab)
	}
	return resp
}

// ToProjectDetailDTO converts a project with collaborator rows to a
// detailed DTO
func ToProjectDetailDTO(project models.Project, collabs []models.ProjectCollaborator) ProjectDetailDTO {
	collabDTOs := make([]CollaboratorDTO, len(collabs))
	for i, collab := range collabs {
		collabDTOs[i] = ToCollaboratorDTO(collab)
	}

	return ProjectDetailDTO{
		ProjectDTO:    ToProjectDTO(project),
		Collaborators: collabDTOs,
	}
}
