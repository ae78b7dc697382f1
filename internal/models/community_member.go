package models

import "time"

type CommunityRole string

const (
	RoleCommunityAdmin  CommunityRole = "admin"
	RoleCommunityMember CommunityRole = "member"
)

// CommunityMember is one row of a community's member list. The owner is not
// duplicated here; access checks are owner-or-member.
type CommunityMember struct {
	CommunityID uint64        `gorm:"primarykey" json:"community_id"`
	UserID      uint64        `gorm:"primarykey" json:"user_id"`
	Role        CommunityRole `gorm:"type:varchar(20);not null" json:"role"`
	// Accepted is nil on rows that predate the invitation flow; those count
	// as accepted.
	Accepted *bool     `json:"accepted"`
	JoinedAt time.Time `json:"joined_at"`
	// LastReadAt is the chat read high-water mark used for unread counts.
	LastReadAt *time.Time `json:"last_read_at"`

	// Relations
	Community Community `gorm:"foreignKey:CommunityID" json:"community,omitempty"`
	User      User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// IsAccepted treats a missing accepted flag as accepted (accepted != false).
func (m *CommunityMember) IsAccepted() bool {
	return m.Accepted == nil || *m.Accepted
}

// IsPending is true only for rows explicitly awaiting acceptance.
func (m *CommunityMember) IsPending() bool {
	return m.Accepted != nil && !*m.Accepted
}
