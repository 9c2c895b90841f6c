package submission

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/lmdrew96/ChickenScratch-sub001/internal/access"
	"github.com/lmdrew96/ChickenScratch-sub001/internal/auth"
	"github.com/lmdrew96/ChickenScratch-sub001/pkg/logger"

	"github.com/gin-gonic/gin"
)

// HTTPHandler exposes the submission workflow over HTTP. Route-level gating
// (auth middleware + capability requirements) happens in cmd/api; handlers
// bind, delegate, and translate service errors to status codes.
type HTTPHandler struct {
	Svc *Service
}

func (h HTTPHandler) Create(c *gin.Context) {
	actorID, err := auth.ActorID(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}

	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed request body"})
		return
	}

	out, err := h.Svc.Create(c.Request.Context(), actorID, auth.ActorEmail(c.Request.Context()), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	if out.RateLimited {
		retry := int(out.RetryAfter.Seconds())
		if retry < 1 {
			retry = 1
		}
		c.Header("Retry-After", strconv.Itoa(retry))
		c.JSON(http.StatusTooManyRequests, gin.H{
			"error":               "submission rate limit exceeded",
			"retry_after_seconds": retry,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "submission": out.Submission})
}

func (h HTTPHandler) Edit(c *gin.Context) {
	actorID, err := auth.ActorID(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}

	var req EditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed request body"})
		return
	}

	sub, err := h.Svc.Edit(c.Request.Context(), actorID, c.Param("id"), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "submission": sub})
}

type assignRequest struct {
	EditorID *string `json:"editorId"`
}

func (h HTTPHandler) Assign(c *gin.Context) {
	caps, _ := access.FromGin(c)

	var req assignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed request body"})
		return
	}

	sub, err := h.Svc.AssignEditor(c.Request.Context(), caps, c.Param("id"), req.EditorID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "submission": sub})
}

type notesRequest struct {
	EditorNotes string `json:"editorNotes"`
}

func (h HTTPHandler) SetNotes(c *gin.Context) {
	caps, _ := access.FromGin(c)

	var req notesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed request body"})
		return
	}

	sub, err := h.Svc.SetNotes(c.Request.Context(), caps, c.Param("id"), req.EditorNotes)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "submission": sub})
}

type statusRequest struct {
	Status      string `json:"status"`
	EditorNotes string `json:"editorNotes"`
}

func (h HTTPHandler) ChangeStatus(c *gin.Context) {
	caps, _ := access.FromGin(c)

	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed request body"})
		return
	}

	sub, err := h.Svc.ChangeStatus(c.Request.Context(), caps, c.Param("id"), Status(req.Status), req.EditorNotes)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "submission": sub})
}

func (h HTTPHandler) Publish(c *gin.Context) {
	caps, _ := access.FromGin(c)

	var req PublishRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed request body"})
		return
	}

	sub, err := h.Svc.Publish(c.Request.Context(), caps, c.Param("id"), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "submission": sub, "issue": sub.IssueLabel()})
}

type convertRequest struct {
	DocID string `json:"docId"`
}

func (h HTTPHandler) ConvertToDoc(c *gin.Context) {
	caps, _ := access.FromGin(c)

	var req convertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed request body"})
		return
	}

	sub, err := h.Svc.ConvertToDoc(c.Request.Context(), caps, c.Param("id"), req.DocID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "submission": sub})
}

func (h HTTPHandler) Delete(c *gin.Context) {
	caps, _ := access.FromGin(c)

	res, err := h.Svc.Delete(c.Request.Context(), caps, c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"deleted":       res.Deleted,
		"files_deleted": res.FilesDeleted,
	})
}

func (h HTTPHandler) Get(c *gin.Context) {
	caps, _ := access.FromGin(c)

	sub, err := h.Svc.GetForActor(c.Request.Context(), caps, c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"submission": sub})
}

func (h HTTPHandler) ListOwn(c *gin.Context) {
	actorID, err := auth.ActorID(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}

	subs, err := h.Svc.ListOwn(c.Request.Context(), actorID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"submissions": subs})
}

func (h HTTPHandler) Queue(c *gin.Context) {
	subs, err := h.Svc.Queue(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"submissions": subs})
}

func (h HTTPHandler) Gallery(c *gin.Context) {
	subs, err := h.Svc.Gallery(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"submissions": subs})
}

// writeError translates service errors. Authorization denials never reveal
// which role would have sufficed.
func (h HTTPHandler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "submission not found"})
	case errors.Is(err, ErrNotOwner):
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
	case errors.Is(err, ErrNotEditable):
		c.JSON(http.StatusForbidden, gin.H{"error": "submission is no longer editable"})
	case errors.Is(err, ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
	case errors.Is(err, ErrNotesRequired):
		c.JSON(http.StatusBadRequest, gin.H{"error": "editor notes are required for needs_revision"})
	case errors.Is(err, ErrInvalidArgument):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		logger.FromGin(c).Error("submission operation failed", "err", err, "path", c.FullPath())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
