package models

import "time"

type ProjectRole string

const (
	RoleCollaborator ProjectRole = "Collaborator"
	RoleProjectAdmin ProjectRole = "Admin"
	RoleProjectLead  ProjectRole = "Project Lead"
)

// ValidProjectRole reports whether role is one of the known collaborator roles.
func ValidProjectRole(role ProjectRole) bool {
	switch role {
	case RoleCollaborator, RoleProjectAdmin, RoleProjectLead:
		return true
	}
	return false
}

// ProjectCollaborator is one row of a project's shared-with list, keyed by
// email so that invitations can be issued before the invitee signs up.
type ProjectCollaborator struct {
	ProjectID uint64      `gorm:"primarykey" json:"project_id"`
	Email     string      `gorm:"primarykey;type:varchar(255)" json:"email"`
	Role      ProjectRole `gorm:"type:varchar(20);not null" json:"role"`
	// Accepted is nil on rows created before the invitation flow existed;
	// those legacy rows count as accepted.
	Accepted *bool     `json:"accepted"`
	AddedAt  time.Time `json:"added_at"`

	// Relations
	Project Project `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
}

// IsAccepted treats a missing accepted flag as accepted (accepted != false).
func (c *ProjectCollaborator) IsAccepted() bool {
	return c.Accepted == nil || *c.Accepted
}

// IsPending is true only for rows explicitly awaiting acceptance.
func (c *ProjectCollaborator) IsPending() bool {
	return c.Accepted != nil && !*c.Accepted
}

// CanManageTasks reports whether the collaborator role allows creating and
// assigning tasks. Plain collaborators cannot.
func (c *ProjectCollaborator) CanManageTasks() bool {
	return c.Role == RoleProjectAdmin || c.Role == RoleProjectLead
}
