package constants

// Session / context keys
const (
	SessionCookieName   = "devspace_session"
	ContextKeyUserID    = "user_id"
	ContextKeyUserEmail = "user_email"
)

// Password rules
const (
	MinPasswordLength = 8
)

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Free plan limits. Pro accounts are not capped.
const (
	FreePlanMaxProjects    = 3
	FreePlanMaxCommunities = 2
)
