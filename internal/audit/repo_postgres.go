package audit

import (
	"context"
	"database/sql"
)

// PostgresRepo appends entries to the audit_log table.
//
// Expected schema:
//
//	audit_log (
//	  id            text PRIMARY KEY,
//	  submission_id text NOT NULL,   -- intentionally no FK; survives deletion
//	  actor_id      text NOT NULL,
//	  action        text NOT NULL,
//	  details       jsonb,
//	  created_at    timestamptz NOT NULL
//	)
//
// An INSERT-only policy (or a trigger rejecting UPDATE/DELETE) is recommended.
type PostgresRepo struct {
	db *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo { return &PostgresRepo{db: db} }

func (r *PostgresRepo) Append(ctx context.Context, e Entry) error {
	const q = `
INSERT INTO audit_log (id, submission_id, actor_id, action, details, created_at)
VALUES ($1, $2, $3, $4, $5, $6)
`
	details := []byte(e.Details)
	if len(details) == 0 {
		details = []byte(`{}`)
	}
	_, err := r.db.ExecContext(ctx, q, e.ID, e.SubmissionID, e.ActorID, string(e.Action), details, e.CreatedAt)
	return err
}
