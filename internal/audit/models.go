package audit

import (
	"encoding/json"
	"time"
)

// Entry is an immutable, append-only audit log record.
//
// Invariants:
// - Entries are never updated or deleted, even when the submission they
//   reference is; submission_id is kept as a dangling reference for trace.
// - Exactly one entry per mutating operation on a submission.
// - Writes are best-effort: a failed audit insert is logged, never propagated
//   to the caller of the primary operation.
type Entry struct {
	ID           string `json:"id" db:"id"`
	SubmissionID string `json:"submission_id" db:"submission_id"`

	// ActorID is the authenticated user who performed the action.
	ActorID string `json:"actor_id" db:"actor_id"`

	Action Action `json:"action" db:"action"`

	// Details is an action-specific JSON payload, e.g. {"from":"submitted","to":"in_review"}
	// for status_change.
	Details json.RawMessage `json:"details,omitempty" db:"details"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type Action string

const (
	ActionAssign        Action = "assign"
	ActionNote          Action = "note"
	ActionPublish       Action = "publish"
	ActionStatusChange  Action = "status_change"
	ActionDeleted       Action = "submission_deleted"
	ActionConvertToGDoc Action = "convert_to_gdoc"
)
