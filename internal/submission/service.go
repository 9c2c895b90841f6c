package submission

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/lmdrew96/ChickenScratch-sub001/internal/access"
	"github.com/lmdrew96/ChickenScratch-sub001/internal/audit"
	"github.com/lmdrew96/ChickenScratch-sub001/internal/gdoc"
	"github.com/lmdrew96/ChickenScratch-sub001/internal/notify"
	"github.com/lmdrew96/ChickenScratch-sub001/internal/ratelimit"
	"github.com/lmdrew96/ChickenScratch-sub001/internal/storage"
	"github.com/lmdrew96/ChickenScratch-sub001/internal/viewcache"

	"github.com/google/uuid"
)

// Repository is the persistence contract for submissions.
// Update replaces the stored row by id; the row update is the unit of
// atomicity and last-write-wins is the accepted conflict policy.
type Repository interface {
	Create(ctx context.Context, sub Submission) error
	Get(ctx context.Context, id string) (Submission, error)
	Update(ctx context.Context, sub Submission) error
	Delete(ctx context.Context, id string) error
	ListByOwner(ctx context.Context, ownerID string) ([]Submission, error)
	ListByStatus(ctx context.Context, statuses ...Status) ([]Submission, error)
}

var (
	ErrNotFound        = errors.New("submission not found")
	ErrNotOwner        = errors.New("not the submission owner")
	ErrNotEditable     = errors.New("submission is no longer editable")
	ErrNotesRequired   = errors.New("editor notes are required for needs_revision")
	ErrForbidden       = errors.New("forbidden")
	ErrInvalidArgument = errors.New("invalid argument")
)

// Service applies the review-workflow mutations.
//
// Ordering per operation: authorize (capabilities resolved upstream, rechecked
// here) -> validate -> mutate the record -> audit -> post-commit best-effort
// side effects (email, cache invalidation). The record mutation is the only
// step whose failure aborts the operation; everything after it is logged, not
// surfaced.
type Service struct {
	repo    Repository
	audit   *audit.Service
	notify  *notify.Dispatcher
	cache   viewcache.Invalidator
	files   storage.Store
	docs    gdoc.Fetcher
	limiter ratelimit.Limiter
	log     *slog.Logger
	clock   func() time.Time
}

type Deps struct {
	Repo    Repository
	Audit   *audit.Service
	Notify  *notify.Dispatcher
	Cache   viewcache.Invalidator
	Files   storage.Store
	Docs    gdoc.Fetcher
	Limiter ratelimit.Limiter
	Log     *slog.Logger
}

func NewService(d Deps) *Service {
	if d.Cache == nil {
		d.Cache = viewcache.Noop{}
	}
	if d.Notify == nil {
		d.Notify = notify.NewDispatcher(nil, d.Log)
	}
	if d.Log == nil {
		d.Log = slog.Default()
	}
	return &Service{
		repo:    d.Repo,
		audit:   d.Audit,
		notify:  d.Notify,
		cache:   d.Cache,
		files:   d.Files,
		docs:    d.Docs,
		limiter: d.Limiter,
		log:     d.Log,
		clock:   time.Now,
	}
}

/* ===================== CREATE ===================== */

type CreateRequest struct {
	ID              string   `json:"id"`
	Title           string   `json:"title"`
	Type            Type     `json:"type"`
	Genre           string   `json:"genre"`
	Summary         string   `json:"summary"`
	ContentWarnings string   `json:"contentWarnings"`
	WordCount       int      `json:"wordCount"`
	TextBody        string   `json:"textBody"`
	ArtFiles        []string `json:"artFiles"`
	CoverImage      string   `json:"coverImage"`
}

// CreateOutcome makes the rate-limit path visible in the signature instead of
// signaling it through a thrown error.
type CreateOutcome struct {
	Submission  Submission
	RateLimited bool
	RetryAfter  time.Duration
}

func (s *Service) Create(ctx context.Context, actorID, actorEmail string, req CreateRequest) (CreateOutcome, error) {
	if actorID == "" {
		return CreateOutcome{}, ErrInvalidArgument
	}
	if err := validateCreate(req); err != nil {
		return CreateOutcome{}, err
	}

	if s.limiter != nil {
		res, err := s.limiter.Allow(ctx, actorID)
		if err != nil {
			// Limiter outage: fail closed on the write path would block every
			// submitter on a redis blip; admit and log instead.
			s.log.Error("rate limiter check failed", "err", err, "actor_id", actorID)
		} else if !res.Allowed {
			return CreateOutcome{RateLimited: true, RetryAfter: res.RetryAfter}, nil
		}
	}

	now := s.clock().UTC()
	id := req.ID
	if id == "" {
		id = uuid.NewString()
	} else if _, err := uuid.Parse(id); err != nil {
		return CreateOutcome{}, fmt.Errorf("%w: id must be a uuid", ErrInvalidArgument)
	}

	sub := Submission{
		ID:              id,
		OwnerID:         actorID,
		OwnerEmail:      actorEmail,
		Title:           req.Title,
		Type:            req.Type,
		Genre:           req.Genre,
		Summary:         req.Summary,
		ContentWarnings: req.ContentWarnings,
		WordCount:       req.WordCount,
		TextBody:        req.TextBody,
		ArtFiles:        req.ArtFiles,
		CoverImage:      req.CoverImage,
		Status:          StatusSubmitted,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.repo.Create(ctx, sub); err != nil {
		return CreateOutcome{}, err
	}

	s.cache.InvalidateSubmission(ctx, sub.OwnerID)
	return CreateOutcome{Submission: sub}, nil
}

func validateCreate(req CreateRequest) error {
	if req.Title == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidArgument)
	}
	if !req.Type.Valid() {
		return fmt.Errorf("%w: type must be writing or visual", ErrInvalidArgument)
	}
	switch req.Type {
	case TypeWriting:
		if req.TextBody == "" {
			return fmt.Errorf("%w: textBody is required for writing", ErrInvalidArgument)
		}
	case TypeVisual:
		if len(req.ArtFiles) == 0 {
			return fmt.Errorf("%w: at least one art file is required for visual", ErrInvalidArgument)
		}
		if len(req.ArtFiles) > MaxArtFiles {
			return fmt.Errorf("%w: at most %d art files allowed", ErrInvalidArgument, MaxArtFiles)
		}
	}
	if req.WordCount < 0 {
		return fmt.Errorf("%w: wordCount must not be negative", ErrInvalidArgument)
	}
	return nil
}

/* ===================== OWNER EDIT ===================== */

// EditRequest is a partial content update. Nil fields are left untouched.
type EditRequest struct {
	Title           *string   `json:"title,omitempty"`
	Genre           *string   `json:"genre,omitempty"`
	Summary         *string   `json:"summary,omitempty"`
	ContentWarnings *string   `json:"contentWarnings,omitempty"`
	WordCount       *int      `json:"wordCount,omitempty"`
	TextBody        *string   `json:"textBody,omitempty"`
	ArtFiles        *[]string `json:"artFiles,omitempty"`
	CoverImage      *string   `json:"coverImage,omitempty"`
}

func (s *Service) Edit(ctx context.Context, actorID, id string, req EditRequest) (Submission, error) {
	sub, err := s.repo.Get(ctx, id)
	if err != nil {
		return Submission{}, err
	}
	if sub.OwnerID != actorID {
		return Submission{}, ErrNotOwner
	}
	if !sub.Status.Editable() {
		return Submission{}, ErrNotEditable
	}

	if req.Title != nil {
		if *req.Title == "" {
			return Submission{}, fmt.Errorf("%w: title must not be empty", ErrInvalidArgument)
		}
		sub.Title = *req.Title
	}
	if req.Genre != nil {
		sub.Genre = *req.Genre
	}
	if req.Summary != nil {
		sub.Summary = *req.Summary
	}
	if req.ContentWarnings != nil {
		sub.ContentWarnings = *req.ContentWarnings
	}
	if req.WordCount != nil {
		if *req.WordCount < 0 {
			return Submission{}, fmt.Errorf("%w: wordCount must not be negative", ErrInvalidArgument)
		}
		sub.WordCount = *req.WordCount
	}
	if req.TextBody != nil {
		sub.TextBody = *req.TextBody
	}
	if req.ArtFiles != nil {
		sub.ArtFiles = *req.ArtFiles
	}
	if req.CoverImage != nil {
		sub.CoverImage = *req.CoverImage
	}

	// The edit must not leave the submission without its type-specific content.
	switch sub.Type {
	case TypeWriting:
		if sub.TextBody == "" {
			return Submission{}, fmt.Errorf("%w: textBody is required for writing", ErrInvalidArgument)
		}
	case TypeVisual:
		if len(sub.ArtFiles) == 0 || len(sub.ArtFiles) > MaxArtFiles {
			return Submission{}, fmt.Errorf("%w: visual submissions need 1-%d art files", ErrInvalidArgument, MaxArtFiles)
		}
	}

	sub.UpdatedAt = s.clock().UTC()
	if err := s.repo.Update(ctx, sub); err != nil {
		return Submission{}, err
	}

	s.cache.InvalidateSubmission(ctx, sub.OwnerID)
	return sub, nil
}

/* ===================== EDITORIAL TRANSITIONS ===================== */

func (s *Service) AssignEditor(ctx context.Context, caps access.Capabilities, id string, editorID *string) (Submission, error) {
	if !caps.CanAssignEditor {
		return Submission{}, ErrForbidden
	}

	sub, err := s.repo.Get(ctx, id)
	if err != nil {
		return Submission{}, err
	}

	assigned := ""
	if editorID != nil {
		if _, err := uuid.Parse(*editorID); err != nil {
			return Submission{}, fmt.Errorf("%w: editorId must be a uuid or null", ErrInvalidArgument)
		}
		assigned = *editorID
	}

	sub.AssignedEditor = assigned
	sub.UpdatedAt = s.clock().UTC()
	if err := s.repo.Update(ctx, sub); err != nil {
		return Submission{}, err
	}

	s.audit.Record(ctx, sub.ID, caps.ActorID, audit.ActionAssign, map[string]any{
		"editor_id": nullable(assigned),
	})
	s.cache.InvalidateSubmission(ctx, sub.OwnerID)
	return sub, nil
}

func (s *Service) SetNotes(ctx context.Context, caps access.Capabilities, id, notes string) (Submission, error) {
	if !caps.CanSetNotes {
		return Submission{}, ErrForbidden
	}

	sub, err := s.repo.Get(ctx, id)
	if err != nil {
		return Submission{}, err
	}

	sub.EditorNotes = notes
	sub.UpdatedAt = s.clock().UTC()
	if err := s.repo.Update(ctx, sub); err != nil {
		return Submission{}, err
	}

	s.audit.Record(ctx, sub.ID, caps.ActorID, audit.ActionNote, map[string]any{
		"notes": notes,
	})
	s.cache.InvalidateSubmission(ctx, sub.OwnerID)
	return sub, nil
}

func (s *Service) ChangeStatus(ctx context.Context, caps access.Capabilities, id string, target Status, notes string) (Submission, error) {
	if !caps.CanChangeStatus {
		return Submission{}, ErrForbidden
	}
	if !target.ReviewTarget() {
		return Submission{}, fmt.Errorf("%w: status must be one of in_review, needs_revision, accepted, declined", ErrInvalidArgument)
	}
	if target == StatusNeedsRevision && notes == "" {
		return Submission{}, ErrNotesRequired
	}

	sub, err := s.repo.Get(ctx, id)
	if err != nil {
		return Submission{}, err
	}
	// Published work never re-enters review; published == true always implies
	// status == published.
	if sub.Published {
		return Submission{}, fmt.Errorf("%w: published submissions cannot re-enter review", ErrInvalidArgument)
	}
	from := sub.Status

	sub.Status = target
	if notes != "" {
		sub.EditorNotes = notes
	}
	now := s.clock().UTC()
	if target.Decision() {
		sub.DecisionDate = &now
	}
	sub.UpdatedAt = now

	if err := s.repo.Update(ctx, sub); err != nil {
		return Submission{}, err
	}

	s.audit.Record(ctx, sub.ID, caps.ActorID, audit.ActionStatusChange, map[string]any{
		"from": string(from),
		"to":   string(target),
	})

	// Post-commit, best-effort. The dispatcher knows in_review has no template.
	s.notify.StatusChanged(ctx, notify.StatusEmail{
		To:          sub.OwnerEmail,
		Title:       sub.Title,
		Status:      string(target),
		EditorNotes: sub.EditorNotes,
	})
	s.cache.InvalidateSubmission(ctx, sub.OwnerID)
	return sub, nil
}

/* ===================== PUBLISH ===================== */

type PublishRequest struct {
	Volume      int    `json:"volume"`
	IssueNumber int    `json:"issueNumber"`
	PublishDate string `json:"publishDate"`
}

func (s *Service) Publish(ctx context.Context, caps access.Capabilities, id string, req PublishRequest) (Submission, error) {
	if !caps.CanPublish {
		return Submission{}, ErrForbidden
	}
	if req.Volume <= 0 {
		return Submission{}, fmt.Errorf("%w: volume must be > 0", ErrInvalidArgument)
	}
	if req.IssueNumber <= 0 {
		return Submission{}, fmt.Errorf("%w: issueNumber must be > 0", ErrInvalidArgument)
	}
	publishDate, err := time.Parse("2006-01-02", req.PublishDate)
	if err != nil {
		return Submission{}, fmt.Errorf("%w: publishDate must be YYYY-MM-DD", ErrInvalidArgument)
	}

	sub, err := s.repo.Get(ctx, id)
	if err != nil {
		return Submission{}, err
	}

	// Rendered HTML is nice to have; publish proceeds without it.
	if sub.GoogleDocID != "" && s.docs != nil {
		html, err := s.docs.FetchHTML(ctx, sub.GoogleDocID)
		if err != nil {
			s.log.Error("doc export fetch failed, publishing without html",
				"err", err, "submission_id", sub.ID, "doc_id", sub.GoogleDocID)
		} else {
			sub.PublishedHTML = html
		}
	}

	sub.Published = true
	sub.Status = StatusPublished
	sub.Volume = req.Volume
	sub.IssueNumber = req.IssueNumber
	sub.PublishDate = &publishDate
	sub.UpdatedAt = s.clock().UTC()

	if err := s.repo.Update(ctx, sub); err != nil {
		return Submission{}, err
	}

	s.audit.Record(ctx, sub.ID, caps.ActorID, audit.ActionPublish, map[string]any{
		"volume":       req.Volume,
		"issue_number": req.IssueNumber,
		"issue":        sub.IssueLabel(),
	})
	s.cache.InvalidateSubmission(ctx, sub.OwnerID)
	return sub, nil
}

// ConvertToDoc records the external document backing a submission. The HTML
// itself is fetched at publish time.
func (s *Service) ConvertToDoc(ctx context.Context, caps access.Capabilities, id, docID string) (Submission, error) {
	if !caps.CanPublish {
		return Submission{}, ErrForbidden
	}
	if docID == "" {
		return Submission{}, fmt.Errorf("%w: docId is required", ErrInvalidArgument)
	}

	sub, err := s.repo.Get(ctx, id)
	if err != nil {
		return Submission{}, err
	}

	sub.GoogleDocID = docID
	sub.UpdatedAt = s.clock().UTC()
	if err := s.repo.Update(ctx, sub); err != nil {
		return Submission{}, err
	}

	s.audit.Record(ctx, sub.ID, caps.ActorID, audit.ActionConvertToGDoc, map[string]any{
		"doc_id": docID,
	})
	s.cache.InvalidateSubmission(ctx, sub.OwnerID)
	return sub, nil
}

/* ===================== DELETE ===================== */

type DeleteResult struct {
	Deleted      Submission
	FilesDeleted int
}

func (s *Service) Delete(ctx context.Context, caps access.Capabilities, id string) (DeleteResult, error) {
	if !caps.CanDelete {
		return DeleteResult{}, ErrForbidden
	}

	sub, err := s.repo.Get(ctx, id)
	if err != nil {
		return DeleteResult{}, err
	}

	// Stored files go first, best-effort: a dead storage backend must not make
	// a submission undeletable.
	filesDeleted := 0
	if s.files != nil {
		keys := append([]string{}, sub.ArtFiles...)
		if sub.CoverImage != "" {
			keys = append(keys, sub.CoverImage)
		}
		for _, key := range keys {
			if err := s.files.Remove(ctx, key); err != nil {
				s.log.Error("stored file removal failed", "err", err, "submission_id", sub.ID, "key", key)
				continue
			}
			filesDeleted++
		}
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return DeleteResult{}, err
	}

	// Audit rows keep the submission id as a dangling reference for trace.
	s.audit.Record(ctx, sub.ID, caps.ActorID, audit.ActionDeleted, map[string]any{
		"title":         sub.Title,
		"type":          string(sub.Type),
		"status":        string(sub.Status),
		"files_deleted": filesDeleted,
	})
	s.cache.InvalidateSubmission(ctx, sub.OwnerID)
	return DeleteResult{Deleted: sub, FilesDeleted: filesDeleted}, nil
}

/* ===================== READS ===================== */

func (s *Service) GetForActor(ctx context.Context, caps access.Capabilities, id string) (Submission, error) {
	sub, err := s.repo.Get(ctx, id)
	if err != nil {
		return Submission{}, err
	}
	if sub.OwnerID != caps.ActorID && !caps.CanReviewQueue && !sub.Published {
		return Submission{}, ErrForbidden
	}
	return sub, nil
}

func (s *Service) ListOwn(ctx context.Context, ownerID string) ([]Submission, error) {
	return s.repo.ListByOwner(ctx, ownerID)
}

// Queue lists everything still moving through review.
func (s *Service) Queue(ctx context.Context) ([]Submission, error) {
	return s.repo.ListByStatus(ctx, StatusSubmitted, StatusInReview, StatusNeedsRevision, StatusAccepted)
}

// Gallery lists published work; the public surface.
func (s *Service) Gallery(ctx context.Context) ([]Submission, error) {
	return s.repo.ListByStatus(ctx, StatusPublished)
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
