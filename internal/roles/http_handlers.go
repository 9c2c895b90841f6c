package roles

import (
	"net/http"

	"github.com/lmdrew96/ChickenScratch-sub001/internal/auth"
	"github.com/lmdrew96/ChickenScratch-sub001/pkg/logger"

	"github.com/gin-gonic/gin"
)

// HTTPHandler exposes the admin-only role mutation surface.
// Admin gating happens in the route chain (access.Require on CanManageRoles);
// by the time a request lands here the caller has already been resolved and
// authorized.
type HTTPHandler struct {
	Svc *Service
}

type updateRolesRequest struct {
	UserID  string `json:"userId" binding:"required"`
	Updates Update `json:"updates"`
}

// UpdateRoles handles POST /admin/roles.
func (h HTTPHandler) UpdateRoles(c *gin.Context) {
	var req updateRolesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "userId is required"})
		return
	}

	rec, err := h.Svc.Apply(c.Request.Context(), req.UserID, req.Updates)
	if err != nil {
		if err == ErrInvalidArgument {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid role update"})
			return
		}
		logger.FromGin(c).Error("role update failed", "err", err, "target_user", req.UserID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "role update failed"})
		return
	}

	actor, _ := auth.ActorID(c.Request.Context())
	logger.FromGin(c).Info("roles updated",
		"actor", actor,
		"target_user", rec.UserID,
		"is_member", rec.IsMember,
		"roles", rec.Roles,
		"positions", rec.Positions,
	)
	c.JSON(http.StatusOK, gin.H{"success": true, "record": rec})
}
