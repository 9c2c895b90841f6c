package access

import (
	"net/http"

	"github.com/lmdrew96/ChickenScratch-sub001/internal/auth"
	"github.com/lmdrew96/ChickenScratch-sub001/internal/roles"

	"github.com/gin-gonic/gin"
)

const ginCapabilitiesKey = "capabilities"

// Guard resolves the caller's role record on every request and gates routes on
// resolved capabilities. No caching: a revoked position is effective on the
// very next request.
type Guard struct {
	Roles *roles.Service
}

// Resolve authenticates (401 when no actor in context), resolves the role
// record, and stores Capabilities on the gin context for downstream handlers.
// It performs no authorization by itself.
func (g Guard) Resolve() gin.HandlerFunc {
	return func(c *gin.Context) {
		actorID, err := auth.ActorID(c.Request.Context())
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
			return
		}

		rec, err := g.Roles.Resolve(c.Request.Context(), actorID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "role resolution failed"})
			return
		}

		c.Set(ginCapabilitiesKey, Resolve(rec))
		c.Next()
	}
}

// Require denies with 403 unless the resolved capabilities satisfy pick.
// The response never names which role or position would have sufficed.
func Require(pick func(Capabilities) bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		caps, ok := FromGin(c)
		if !ok {
			// Resolve() was not in the chain; treat as unauthenticated.
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
			return
		}
		if !pick(caps) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		c.Next()
	}
}

// RequireMember denies non-members. Authenticated non-members get 403, not 401.
func RequireMember() gin.HandlerFunc {
	return Require(func(caps Capabilities) bool { return caps.IsMember })
}

// FromGin pulls the request's resolved capabilities.
func FromGin(c *gin.Context) (Capabilities, bool) {
	v, ok := c.Get(ginCapabilitiesKey)
	if !ok {
		return Capabilities{}, false
	}
	caps, ok := v.(Capabilities)
	return caps, ok
}
