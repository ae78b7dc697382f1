package services

import (
	"errors"
	"fmt"

	"github.com/devspacehq/devspace-api/internal/models"
	"github.com/devspacehq/devspace-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrProjectNotFound   = errors.New("project not found")
	ErrCommunityNotFound = errors.New("community not found")
	ErrAccessDenied      = errors.New("access denied")
)

// ProjectAccess is the resolved relationship between a caller and a project.
type ProjectAccess struct {
	Project *models.Project
	IsOwner bool
	// Collaborator is nil when the caller is the owner.
	Collaborator *models.ProjectCollaborator
}

// CanWrite reports whether the caller may perform write actions. A pending
// collaborator has read access only.
func (a *ProjectAccess) CanWrite() bool {
	if a.IsOwner {
		return true
	}
	return a.Collaborator != nil && a.Collaborator.IsAccepted()
}

// CanManageTasks reports whether the caller may create and assign tasks:
// owner, Admin or Project Lead.
func (a *ProjectAccess) CanManageTasks() bool {
	if a.IsOwner {
		return true
	}
	return a.Collaborator != nil && a.Collaborator.IsAccepted() && a.Collaborator.CanManageTasks()
}

// CommunityAccess is the resolved relationship between a caller and a
// community.
type CommunityAccess struct {
	Community *models.Community
	IsOwner   bool
	// Member is nil when the caller is the owner.
	Member *models.CommunityMember
}

// IsActiveMember reports whether the caller counts as a member for chat and
// meetings. Pending invitees do not.
func (a *CommunityAccess) IsActiveMember() bool {
	if a.IsOwner {
		return true
	}
	return a.Member != nil && a.Member.IsAccepted()
}

// IsAdmin reports whether the caller may invite members and start meetings.
func (a *CommunityAccess) IsAdmin() bool {
	if a.IsOwner {
		return true
	}
	return a.Member != nil && a.Member.IsAccepted() && a.Member.Role == models.RoleCommunityAdmin
}

// AccessService resolves the caller's relationship to shared resources.
// Every resolution re-reads current persisted state; decisions are
// point-in-time and never cached.
type AccessService struct {
	projectRepo   repository.ProjectRepository
	communityRepo repository.CommunityRepository
}

// NewAccessService creates a new AccessService.
func NewAccessService(projectRepo repository.ProjectRepository, communityRepo repository.CommunityRepository) *AccessService {
	return &AccessService{
		projectRepo:   projectRepo,
		communityRepo: communityRepo,
	}
}

// ResolveProject returns the caller's access to a project. A collaborator
// row grants access even while pending; write privileges are decided by the
// returned ProjectAccess. Returns ErrProjectNotFound or ErrAccessDenied.
func (s *AccessService) ResolveProject(projectID, callerID uint64, callerEmail string) (*ProjectAccess, error) {
	project, err := s.projectRepo.FindByID(projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}

	if project.OwnerID == callerID {
		return &ProjectAccess{Project: project, IsOwner: true}, nil
	}

	collab, err := s.projectRepo.FindCollaborator(projectID, callerEmail)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccessDenied
		}
		return nil, fmt.Errorf("failed to find collaborator: %w", err)
	}

	return &ProjectAccess{Project: project, Collaborator: collab}, nil
}

// ResolveCommunity returns the caller's access to a community. A pending
// member row still resolves; callers that need chat-level access must check
// IsActiveMember. Returns ErrCommunityNotFound or ErrAccessDenied.
func (s *AccessService) ResolveCommunity(communityID, callerID uint64) (*CommunityAccess, error) {
	community, err := s.communityRepo.FindByID(communityID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommunityNotFound
		}
		return nil, fmt.Errorf("failed to find community: %w", err)
	}

	if community.OwnerID == callerID {
		return &CommunityAccess{Community: community, IsOwner: true}, nil
	}

	member, err := s.communityRepo.FindMember(communityID, callerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccessDenied
		}
		return nil, fmt.Errorf("failed to find member: %w", err)
	}

	return &CommunityAccess{Community: community, Member: member}, nil
}
