package submission

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
)

// PostgresRepo stores submissions in the submissions table.
//
// Expected schema:
//
//	submissions (
//	  id               text PRIMARY KEY,
//	  owner_id         text NOT NULL,
//	  owner_email      text NOT NULL DEFAULT '',
//	  title            text NOT NULL,
//	  type             text NOT NULL,
//	  genre            text NOT NULL DEFAULT '',
//	  summary          text NOT NULL DEFAULT '',
//	  content_warnings text NOT NULL DEFAULT '',
//	  word_count       integer NOT NULL DEFAULT 0,
//	  text_body        text NOT NULL DEFAULT '',
//	  art_files        jsonb NOT NULL DEFAULT '[]',
//	  cover_image      text NOT NULL DEFAULT '',
//	  status           text NOT NULL,
//	  editor_notes     text NOT NULL DEFAULT '',
//	  assigned_editor  text NOT NULL DEFAULT '',
//	  decision_date    timestamptz,
//	  published        boolean NOT NULL DEFAULT false,
//	  volume           integer NOT NULL DEFAULT 0,
//	  issue_number     integer NOT NULL DEFAULT 0,
//	  publish_date     timestamptz,
//	  published_html   text NOT NULL DEFAULT '',
//	  google_doc_id    text NOT NULL DEFAULT '',
//	  created_at       timestamptz NOT NULL,
//	  updated_at       timestamptz NOT NULL
//	)
//
// Updates replace the whole row by id in one statement; row-level atomicity is
// the concurrency guarantee, last-write-wins is the conflict policy.
type PostgresRepo struct {
	db *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo { return &PostgresRepo{db: db} }

const submissionColumns = `
id, owner_id, owner_email, title, type, genre, summary, content_warnings,
word_count, text_body, art_files, cover_image, status, editor_notes,
assigned_editor, decision_date, published, volume, issue_number, publish_date,
published_html, google_doc_id, created_at, updated_at`

func (r *PostgresRepo) Create(ctx context.Context, sub Submission) error {
	artFiles, err := json.Marshal(emptyIfNil(sub.ArtFiles))
	if err != nil {
		return err
	}

	const q = `
INSERT INTO submissions (` + submissionColumns + `)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23,$24)
`
	_, err = r.db.ExecContext(ctx, q,
		sub.ID, sub.OwnerID, sub.OwnerEmail, sub.Title, string(sub.Type),
		sub.Genre, sub.Summary, sub.ContentWarnings, sub.WordCount, sub.TextBody,
		artFiles, sub.CoverImage, string(sub.Status), sub.EditorNotes,
		sub.AssignedEditor, sub.DecisionDate, sub.Published, sub.Volume,
		sub.IssueNumber, sub.PublishDate, sub.PublishedHTML, sub.GoogleDocID,
		sub.CreatedAt, sub.UpdatedAt,
	)
	return err
}

func (r *PostgresRepo) Get(ctx context.Context, id string) (Submission, error) {
	const q = `SELECT ` + submissionColumns + ` FROM submissions WHERE id = $1`
	return scanSubmission(r.db.QueryRowContext(ctx, q, id))
}

func (r *PostgresRepo) Update(ctx context.Context, sub Submission) error {
	artFiles, err := json.Marshal(emptyIfNil(sub.ArtFiles))
	if err != nil {
		return err
	}

	const q = `
UPDATE submissions SET
  owner_email = $2, title = $3, genre = $4, summary = $5, content_warnings = $6,
  word_count = $7, text_body = $8, art_files = $9, cover_image = $10,
  status = $11, editor_notes = $12, assigned_editor = $13, decision_date = $14,
  published = $15, volume = $16, issue_number = $17, publish_date = $18,
  published_html = $19, google_doc_id = $20, updated_at = $21
WHERE id = $1
`
	res, err := r.db.ExecContext(ctx, q,
		sub.ID, sub.OwnerEmail, sub.Title, sub.Genre, sub.Summary,
		sub.ContentWarnings, sub.WordCount, sub.TextBody, artFiles,
		sub.CoverImage, string(sub.Status), sub.EditorNotes, sub.AssignedEditor,
		sub.DecisionDate, sub.Published, sub.Volume, sub.IssueNumber,
		sub.PublishDate, sub.PublishedHTML, sub.GoogleDocID, sub.UpdatedAt,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM submissions WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepo) ListByOwner(ctx context.Context, ownerID string) ([]Submission, error) {
	const q = `SELECT ` + submissionColumns + ` FROM submissions WHERE owner_id = $1 ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, q, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSubmissions(rows)
}

func (r *PostgresRepo) ListByStatus(ctx context.Context, statuses ...Status) ([]Submission, error) {
	if len(statuses) == 0 {
		return nil, nil
	}

	placeholders := make([]string, len(statuses))
	args := make([]any, len(statuses))
	for i, st := range statuses {
		placeholders[i] = "$" + strconv.Itoa(i+1)
		args[i] = string(st)
	}

	q := `SELECT ` + submissionColumns + ` FROM submissions WHERE status IN (` +
		strings.Join(placeholders, ", ") + `) ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSubmissions(rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSubmission(row rowScanner) (Submission, error) {
	var sub Submission
	var typ, status string
	var artFiles []byte

	err := row.Scan(
		&sub.ID, &sub.OwnerID, &sub.OwnerEmail, &sub.Title, &typ,
		&sub.Genre, &sub.Summary, &sub.ContentWarnings, &sub.WordCount,
		&sub.TextBody, &artFiles, &sub.CoverImage, &status, &sub.EditorNotes,
		&sub.AssignedEditor, &sub.DecisionDate, &sub.Published, &sub.Volume,
		&sub.IssueNumber, &sub.PublishDate, &sub.PublishedHTML, &sub.GoogleDocID,
		&sub.CreatedAt, &sub.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Submission{}, ErrNotFound
		}
		return Submission{}, err
	}

	sub.Type = Type(typ)
	sub.Status = Status(status)
	if err := json.Unmarshal(artFiles, &sub.ArtFiles); err != nil {
		return Submission{}, err
	}
	return sub, nil
}

func scanSubmissions(rows *sql.Rows) ([]Submission, error) {
	var out []Submission
	for rows.Next() {
		sub, err := scanSubmission(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sub)
	}
	return out, rows.Err()
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
