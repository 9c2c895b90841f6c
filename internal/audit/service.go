package audit

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Repository is the persistence contract for audit entries.
//
// It MUST be append-only.
// No Update/Delete methods are provided by design.
type Repository interface {
	Append(ctx context.Context, e Entry) error
}

// Service writes the audit trail for submission mutations.
//
// The audit log is advisory: a failed write never rolls back or fails the
// primary mutation. Record logs failures at error level so operators see them;
// Append is the strict variant for callers that want the error.
type Service struct {
	repo  Repository
	log   *slog.Logger
	clock func() time.Time
}

func NewService(repo Repository, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{repo: repo, log: log, clock: time.Now}
}

var ErrInvalidEntry = errors.New("audit: invalid entry")

func (s *Service) Append(ctx context.Context, e Entry) error {
	if s.repo == nil {
		return errors.New("audit: repository not configured")
	}
	if e.SubmissionID == "" || e.ActorID == "" {
		return ErrInvalidEntry
	}
	if e.Action == "" {
		return ErrInvalidEntry
	}

	now := s.clock().UTC()
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = now
	}
	return s.repo.Append(ctx, e)
}

// Record appends one entry describing a mutating action, marshaling the
// action-specific details payload. Best-effort: failures are logged as handled
// issues and swallowed.
func (s *Service) Record(ctx context.Context, submissionID, actorID string, action Action, details any) {
	var raw json.RawMessage
	if details != nil {
		b, err := json.Marshal(details)
		if err != nil {
			s.log.Error("audit details marshal failed",
				"err", err, "submission_id", submissionID, "action", string(action))
			b = []byte(`{}`)
		}
		raw = b
	}

	err := s.Append(ctx, Entry{
		SubmissionID: submissionID,
		ActorID:      actorID,
		Action:       action,
		Details:      raw,
	})
	if err != nil {
		s.log.Error("audit append failed",
			"err", err, "submission_id", submissionID, "actor_id", actorID, "action", string(action))
	}
}
