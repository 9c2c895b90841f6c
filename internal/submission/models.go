package submission

import (
	"fmt"
	"time"
)

type Type string

const (
	TypeWriting Type = "writing"
	TypeVisual  Type = "visual"
)

func (t Type) Valid() bool {
	return t == TypeWriting || t == TypeVisual
}

type Status string

const (
	StatusSubmitted     Status = "submitted"
	StatusInReview      Status = "in_review"
	StatusNeedsRevision Status = "needs_revision"
	StatusAccepted      Status = "accepted"
	StatusDeclined      Status = "declined"
	StatusPublished     Status = "published"
)

func (s Status) Valid() bool {
	switch s {
	case StatusSubmitted, StatusInReview, StatusNeedsRevision, StatusAccepted, StatusDeclined, StatusPublished:
		return true
	default:
		return false
	}
}

// ReviewTarget reports whether s may be requested through the status-change
// operation. submitted is the creation state and published is reached only via
// Publish.
func (s Status) ReviewTarget() bool {
	switch s {
	case StatusInReview, StatusNeedsRevision, StatusAccepted, StatusDeclined:
		return true
	default:
		return false
	}
}

// Decision reports whether s carries an editorial decision and therefore sets
// the decision timestamp.
func (s Status) Decision() bool {
	switch s {
	case StatusAccepted, StatusDeclined, StatusNeedsRevision:
		return true
	default:
		return false
	}
}

// Editable reports whether the owner may still change content.
func (s Status) Editable() bool {
	return s == StatusSubmitted || s == StatusNeedsRevision
}

// MaxArtFiles caps attachments on a visual submission.
const MaxArtFiles = 5

// Submission is the core content entity moving through the review workflow.
//
// Invariants:
// - Status is always one of the enum values.
// - Published == true implies Status == published.
// - Status == needs_revision implies non-empty EditorNotes.
type Submission struct {
	ID         string `json:"id" db:"id"`
	OwnerID    string `json:"owner_id" db:"owner_id"`
	OwnerEmail string `json:"owner_email,omitempty" db:"owner_email"`

	Title string `json:"title" db:"title"`
	Type  Type   `json:"type" db:"type"`

	Genre           string `json:"genre,omitempty" db:"genre"`
	Summary         string `json:"summary,omitempty" db:"summary"`
	ContentWarnings string `json:"content_warnings,omitempty" db:"content_warnings"`
	WordCount       int    `json:"word_count,omitempty" db:"word_count"`

	// TextBody holds writing content; ArtFiles/CoverImage reference stored
	// files for visual work.
	TextBody   string   `json:"text_body,omitempty" db:"text_body"`
	ArtFiles   []string `json:"art_files,omitempty" db:"art_files"`
	CoverImage string   `json:"cover_image,omitempty" db:"cover_image"`

	Status         Status     `json:"status" db:"status"`
	EditorNotes    string     `json:"editor_notes,omitempty" db:"editor_notes"`
	AssignedEditor string     `json:"assigned_editor,omitempty" db:"assigned_editor"`
	DecisionDate   *time.Time `json:"decision_date,omitempty" db:"decision_date"`

	Published     bool       `json:"published" db:"published"`
	Volume        int        `json:"volume,omitempty" db:"volume"`
	IssueNumber   int        `json:"issue_number,omitempty" db:"issue_number"`
	PublishDate   *time.Time `json:"publish_date,omitempty" db:"publish_date"`
	PublishedHTML string     `json:"published_html,omitempty" db:"published_html"`
	GoogleDocID   string     `json:"google_doc_id,omitempty" db:"google_doc_id"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// IssueLabel derives the human-readable issue name, e.g. "Vol. 3, No. 2".
// Empty until published.
func (s Submission) IssueLabel() string {
	if !s.Published || s.Volume <= 0 || s.IssueNumber <= 0 {
		return ""
	}
	return IssueLabel(s.Volume, s.IssueNumber)
}

func IssueLabel(volume, issueNumber int) string {
	return fmt.Sprintf("Vol. %d, No. %d", volume, issueNumber)
}
