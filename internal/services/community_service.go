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
	ErrInvalidCommunityName = errors.New("community name cannot be empty")
	ErrInvalidMemberRole    = errors.New("invalid member role")
	ErrNotCommunityAdmin    = errors.New("only the owner or an admin can perform this action")
	ErrAlreadyMember        = errors.New("user is already a member of this community")
	ErrMemberNotFound       = errors.New("community member not found")
	ErrRemoveNotAllowed     = errors.New("only the owner or the member themselves can remove a membership")
	ErrInviteeNotFound      = errors.New("invited user not found")
)

// CommunityListing is the two-set response of the community listing.
type CommunityListing struct {
	Owned   []models.Community
	Joined  []models.CommunityMember
	Pending []models.CommunityMember
}

// CommunityService provides business logic for communities and the member
// invitation lifecycle.
type CommunityService struct {
	communityRepo repository.CommunityRepository
	userRepo      repository.UserRepository
	access        *AccessService
	plan          *PlanService
}

// NewCommunityService creates a new CommunityService.
func NewCommunityService(communityRepo repository.CommunityRepository, userRepo repository.UserRepository, access *AccessService, plan *PlanService) *CommunityService {
	return &CommunityService{
		communityRepo: communityRepo,
		userRepo:      userRepo,
		access:        access,
		plan:          plan,
	}
}

// CreateCommunityInput represents parameters to create a new community.
type CreateCommunityInput struct {
	Name        string
	Description string
}

// CreateCommunity creates a community owned by the given user, subject to
// the owner's plan limits.
func (s *CommunityService) CreateCommunity(owner *models.User, input CreateCommunityInput) (*models.Community, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrInvalidCommunityName
	}

	if err := s.plan.CheckCommunityQuota(owner); err != nil {
		return nil, err
	}

	community := &models.Community{
		Name:        input.Name,
		Description: input.Description,
		OwnerID:     owner.ID,
	}

	if err := s.communityRepo.Create(community); err != nil {
		return nil, fmt.Errorf("failed to create community: %w", err)
	}

	return community, nil
}

// ListForUser returns the caller's owned communities, accepted memberships
// and pending invitations.
func (s *CommunityService) ListForUser(userID uint64) (*CommunityListing, error) {
	owned, err := s.communityRepo.ListOwnedBy(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list owned communities: %w", err)
	}

	memberships, err := s.communityRepo.ListMembershipsByUserID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list memberships: %w", err)
	}

	listing := &CommunityListing{Owned: owned}
	for _, member := range memberships {
		if member.IsPending() {
			listing.Pending = append(listing.Pending, member)
		} else {
			listing.Joined = append(listing.Joined, member)
		}
	}

	return listing, nil
}

// GetCommunityWithMembers returns a community and its member rows.
func (s *CommunityService) GetCommunityWithMembers(communityID uint64) (*models.Community, []models.CommunityMember, error) {
	community, err := s.communityRepo.FindByID(communityID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrCommunityNotFound
		}
		return nil, nil, fmt.Errorf("failed to find community: %w", err)
	}

	members, err := s.communityRepo.ListMembers(communityID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list members: %w", err)
	}

	return community, members, nil
}

// UpdateCommunity updates a community's name and description.
func (s *CommunityService) UpdateCommunity(communityID uint64, name, description string) (*models.Community, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrInvalidCommunityName
	}

	community, err := s.communityRepo.FindByID(communityID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommunityNotFound
		}
		return nil, fmt.Errorf("failed to find community: %w", err)
	}

	community.Name = name
	community.Description = description
	if err := s.communityRepo.Update(community); err != nil {
		return nil, fmt.Errorf("failed to update community: %w", err)
	}

	return community, nil
}

// DeleteCommunity removes a community and everything scoped to it.
func (s *CommunityService) DeleteCommunity(communityID uint64) error {
	if _, err := s.communityRepo.FindByID(communityID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCommunityNotFound
		}
		return fmt.Errorf("failed to find community: %w", err)
	}

	if err := s.communityRepo.Delete(communityID); err != nil {
		return fmt.Errorf("failed to delete community: %w", err)
	}

	return nil
}

// Invite creates a pending member entry for the target user. The actor must
// be the owner or an accepted admin member.
func (s *CommunityService) Invite(communityID, actorID, targetUserID uint64, role models.CommunityRole) (*models.CommunityMember, error) {
	if role != models.RoleCommunityAdmin && role != models.RoleCommunityMember {
		return nil, ErrInvalidMemberRole
	}

	access, err := s.access.ResolveCommunity(communityID, actorID)
	if err != nil {
		return nil, err
	}
	if !access.IsAdmin() {
		return nil, ErrNotCommunityAdmin
	}

	if access.Community.OwnerID == targetUserID {
		return nil, ErrAlreadyMember
	}

	if _, err := s.userRepo.FindByID(targetUserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInviteeNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	// Duplicate invite is rejected, not merged.
	if _, err := s.communityRepo.FindMember(communityID, targetUserID); err == nil {
		return nil, ErrAlreadyMember
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check existing member: %w", err)
	}

	pending := false
	member := &models.CommunityMember{
		CommunityID: communityID,
		UserID:      targetUserID,
		Role:        role,
		Accepted:    &pending,
		JoinedAt:    time.Now(),
	}

	if err := s.communityRepo.AddMember(member); err != nil {
		return nil, fmt.Errorf("failed to add member: %w", err)
	}

	return member, nil
}

// AcceptInvite transitions the caller's pending membership to accepted.
func (s *CommunityService) AcceptInvite(communityID, userID uint64) (*models.CommunityMember, error) {
	member, err := s.findPending(communityID, userID)
	if err != nil {
		return nil, err
	}

	accepted := true
	member.Accepted = &accepted
	if err := s.communityRepo.UpdateMember(member); err != nil {
		return nil, fmt.Errorf("failed to accept invitation: %w", err)
	}

	return member, nil
}

// DeclineInvite removes the caller's pending membership.
func (s *CommunityService) DeclineInvite(communityID, userID uint64) error {
	member, err := s.findPending(communityID, userID)
	if err != nil {
		return err
	}

	if err := s.communityRepo.RemoveMember(member.CommunityID, member.UserID); err != nil {
		return fmt.Errorf("failed to decline invitation: %w", err)
	}

	return nil
}

// RemoveMember removes a membership, pending or accepted. Permitted for the
// community owner, or for a member removing themselves.
func (s *CommunityService) RemoveMember(communityID, actorID, targetUserID uint64) error {
	community, err := s.communityRepo.FindByID(communityID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCommunityNotFound
		}
		return fmt.Errorf("failed to find community: %w", err)
	}

	if community.OwnerID != actorID && actorID != targetUserID {
		return ErrRemoveNotAllowed
	}

	if _, err := s.communityRepo.FindMember(communityID, targetUserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMemberNotFound
		}
		return fmt.Errorf("failed to find member: %w", err)
	}

	if err := s.communityRepo.RemoveMember(communityID, targetUserID); err != nil {
		return fmt.Errorf("failed to remove member: %w", err)
	}

	return nil
}

// findPending locates the pending membership for (communityID, userID),
// distinguishing "never invited" from "already resolved".
func (s *CommunityService) findPending(communityID, userID uint64) (*models.CommunityMember, error) {
	if _, err := s.communityRepo.FindByID(communityID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommunityNotFound
		}
		return nil, fmt.Errorf("failed to find community: %w", err)
	}

	member, err := s.communityRepo.FindMember(communityID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInviteNotFound
		}
		return nil, fmt.Errorf("failed to find member: %w", err)
	}

	if !member.IsPending() {
		return nil, ErrInviteAlreadyResolved
	}

	return member, nil
}
