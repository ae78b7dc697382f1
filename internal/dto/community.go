package dto

import (
	"time"

	"github.com/devspacehq/devspace-api/internal/models"
)

// CommunityDTO represents a community in API responses
type CommunityDTO struct {
	ID          uint64    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	OwnerID     uint64    `json:"owner_id"`
	Owner       *UserDTO  `json:"owner,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CommunityMemberDTO represents one entry of a community's member list
type CommunityMemberDTO struct {
	User     UserDTO              `json:"user"`
	Role     models.CommunityRole `json:"role"`
	Accepted bool                 `json:"accepted"`
	JoinedAt time.Time            `json:"joined_at"`
}

// JoinedCommunityDTO represents a community the caller belongs to,
// carrying the caller's role and acceptance state
type JoinedCommunityDTO struct {
	CommunityDTO
	Role     models.CommunityRole `json:"role"`
	Accepted bool                 `json:"accepted"`
}

// CommunityListResponse is the two-set community listing
type CommunityListResponse struct {
	Owned          []CommunityDTO       `json:"owned"`
	Joined         []JoinedCommunityDTO `json:"joined"`
	PendingInvites []JoinedCommunityDTO `json:"pending_invites"`
}

// CommunityDetailDTO represents detailed community information
type CommunityDetailDTO struct {
	CommunityDTO
	Members []CommunityMemberDTO `json:"members"`
}

// ToCommunityDTO converts a Community model to CommunityDTO
func ToCommunityDTO(community models.Community) CommunityDTO {
	dto := CommunityDTO{
		ID:          community.ID,
		Name:        community.Name,
		Description: community.Description,
		OwnerID:     community.OwnerID,
		CreatedAt:   community.CreatedAt,
		UpdatedAt:   community.UpdatedAt,
	}

	// Include owner if preloaded
	if community.Owner.ID != 0 {
		owner := ToUserDTO(community.Owner)
		dto.Owner = &owner
	}

	return dto
}

// ToCommunityMemberDTO converts a member row (with User preloaded) to DTO
func ToCommunityMemberDTO(member models.CommunityMember) CommunityMemberDTO {
	return CommunityMemberDTO{
		User:     ToUserDTO(member.User),
		Role:     member.Role,
		Accepted: member.IsAccepted(),
		JoinedAt: member.JoinedAt,
	}
}

// ToJoinedCommunityDTO converts a member row (with Community preloaded)
// to a joined-community entry
func ToJoinedCommunityDTO(member models.CommunityMember) JoinedCommunityDTO {
	return JoinedCommunityDTO{
		CommunityDTO: ToCommunityDTO(member.Community),
		Role:         member.Role,
		Accepted:     member.IsAccepted(),
	}
}

// ToCommunityListResponse converts a listing to the two-set response
func ToCommunityListResponse(owned []models.Community, joined, pending []models.CommunityMember) CommunityListResponse {
	resp := CommunityListResponse{
		Owned:          make([]CommunityDTO, len(owned)),
		Joined:         make([]JoinedCommunityDTO, len(joined)),
		PendingInvites: make([]JoinedCommunityDTO, len(pending)),
	}
	for i, community := range owned {
		resp.Owned[i] = ToCommunityDTO(community)
	}
	for i, member := range joined {
		resp.Joined[i] = ToJoinedCommunityDTO(member)
	}
	for i, member := range pending {
		resp.PendingInvites[i] = ToJoinedCommunityDTO(member)
	}
	return resp
}

// ToCommunityDetailDTO converts a community with member rows to a
// detailed DTO
func ToCommunityDetailDTO(community models.Community, members []models.CommunityMember) CommunityDetailDTO {
	memberDTOs := make([]CommunityMemberDTO, len(members))
	for i, member := range members {
		memberDTOs[i] = ToCommunityMemberDTO(member)
	}

	return CommunityDetailDTO{
		CommunityDTO: ToCommunityDTO(community),
		Members:      memberDTOs,
	}
}
