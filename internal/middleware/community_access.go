package middleware

import (
	"errors"
	"strconv"

	apierrors "github.com/devspacehq/devspace-api/internal/errors"
	"github.com/devspacehq/devspace-api/internal/services"
	"github.com/gin-gonic/gin"
)

// ContextKeyCommunityAccess is where RequireCommunityAccess stores the
// resolved access decision.
const ContextKeyCommunityAccess = "community_access"

// RequireCommunityAccess resolves the caller's relationship to the
// community in the :id parameter. Pending invitees resolve too; chat-level
// routes check IsActiveMember on the stored decision.
func RequireCommunityAccess(access *services.AccessService) gin.HandlerFunc {
	return func(c *gin.Context) {
		communityID, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid community ID")
			c.Abort()
			return
		}

		userID, ok := GetUserID(c)
		if !ok {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		decision, err := access.ResolveCommunity(communityID, userID)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrCommunityNotFound):
				apierrors.NotFound(c, "Community not found")
			case errors.Is(err, services.ErrAccessDenied):
				apierrors.Forbidden(c, "")
			default:
				apierrors.InternalError(c, "")
			}
			c.Abort()
			return
		}

		c.Set(ContextKeyCommunityAccess, decision)
		c.Next()
	}
}

// GetCommunityAccess retrieves the access decision stored by
// RequireCommunityAccess.
func GetCommunityAccess(c *gin.Context) (*services.CommunityAccess, bool) {
	v, exists := c.Get(ContextKeyCommunityAccess)
	if !exists {
		return nil, false
	}
	decision, ok := v.(*services.CommunityAccess)
	return decision, ok
}
