package roles

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/lmdrew96/ChickenScratch-sub001/pkg/utils"
)

// PostgresRepo stores role records in the user_roles table.
//
// Expected schema:
//
//	user_roles (
//	  user_id    text PRIMARY KEY,
//	  is_member  boolean NOT NULL DEFAULT false,
//	  roles      jsonb NOT NULL DEFAULT '[]',
//	  positions  jsonb NOT NULL DEFAULT '[]',
//	  updated_at timestamptz NOT NULL
//	)
//
// Roles and positions are stored as JSON arrays so database/sql scanning stays
// driver-neutral.
type PostgresRepo struct {
	db *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo { return &PostgresRepo{db: db} }

func (r *PostgresRepo) Get(ctx context.Context, userID string) (Record, bool, error) {
	const q = `
SELECT user_id, is_member, roles, positions, updated_at
FROM user_roles
WHERE user_id = $1
`
	var rec Record
	var rolesRaw, positionsRaw []byte
	err := r.db.QueryRowContext(ctx, q, userID).Scan(
		&rec.UserID,
		&rec.IsMember,
		&rolesRaw,
		&positionsRaw,
		&rec.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Record{}, false, nil
		}
		return Record{}, false, err
	}
	if err := json.Unmarshal(rolesRaw, &rec.Roles); err != nil {
		return Record{}, false, err
	}
	if err := json.Unmarshal(positionsRaw, &rec.Positions); err != nil {
		return Record{}, false, err
	}
	return rec, true, nil
}

// Merge locks the row, applies merge, and writes the result back in one
// transaction. FOR UPDATE serializes concurrent merges on the same user.
func (r *PostgresRepo) Merge(ctx context.Context, userID string, merge func(Record) Record) (Record, error) {
	var out Record
	err := utils.WithTx(ctx, r.db, nil, func(ctx context.Context, tx *sql.Tx) error {
		const sel = `
SELECT user_id, is_member, roles, positions, updated_at
FROM user_roles
WHERE user_id = $1
FOR UPDATE
`
		var rec Record
		var rolesRaw, positionsRaw []byte
		err := tx.QueryRowContext(ctx, sel, userID).Scan(
			&rec.UserID,
			&rec.IsMember,
			&rolesRaw,
			&positionsRaw,
			&rec.UpdatedAt,
		)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			// No row yet; merge starts from the zero record.
		case err != nil:
			return err
		default:
			if err := json.Unmarshal(rolesRaw, &rec.Roles); err != nil {
				return err
			}
			if err := json.Unmarshal(positionsRaw, &rec.Positions); err != nil {
				return err
			}
		}

		out = merge(rec)

		rolesOut, err := json.Marshal(out.Roles)
		if err != nil {
			return err
		}
		positionsOut, err := json.Marshal(out.Positions)
		if err != nil {
			return err
		}

		const upsert = `
INSERT INTO user_roles (user_id, is_member, roles, positions, updated_at)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (user_id) DO UPDATE SET
  is_member = EXCLUDED.is_member,
  roles = EXCLUDED.roles,
  positions = EXCLUDED.positions,
  updated_at = EXCLUDED.updated_at
`
		_, err = tx.ExecContext(ctx, upsert, out.UserID, out.IsMember, rolesOut, positionsOut, out.UpdatedAt)
		return err
	})
	if err != nil {
		return Record{}, err
	}
	return out, nil
}
