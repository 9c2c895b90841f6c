package roles

import (
	"context"
	"errors"
	"time"
)

// Repository is the persistence contract for role records.
//
// Merge runs the read-modify-write for one user atomically: merge receives the
// stored record (the zero Record when no row exists) and returns the record to
// persist. Two concurrent merges on the same user must not lose either update.
type Repository interface {
	Get(ctx context.Context, userID string) (Record, bool, error)
	Merge(ctx context.Context, userID string, merge func(Record) Record) (Record, error)
}

// Service resolves and mutates role records.
//
// Resolve is on the hot path of every privileged request. It must never return
// a nil-ish record: an actor with no row resolves to a non-member with empty
// role and position lists.
type Service struct {
	repo  Repository
	clock func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, clock: time.Now}
}

var ErrInvalidArgument = errors.New("roles: invalid argument")

func (s *Service) Resolve(ctx context.Context, userID string) (Record, error) {
	if userID == "" {
		return Record{}, ErrInvalidArgument
	}
	rec, ok, err := s.repo.Get(ctx, userID)
	if err != nil {
		return Record{}, err
	}
	if !ok {
		return Record{UserID: userID, Roles: []string{}, Positions: []string{}}, nil
	}
	if rec.Roles == nil {
		rec.Roles = []string{}
	}
	if rec.Positions == nil {
		rec.Positions = []string{}
	}
	return rec, nil
}

// Apply merges a partial update into the stored record and returns the result.
// Absent fields keep their stored value. The merge runs atomically in the
// repository so concurrent admin updates cannot overwrite each other.
func (s *Service) Apply(ctx context.Context, userID string, u Update) (Record, error) {
	if userID == "" {
		return Record{}, ErrInvalidArgument
	}

	return s.repo.Merge(ctx, userID, func(rec Record) Record {
		if rec.UserID == "" {
			rec.UserID = userID
		}
		if rec.Roles == nil {
			rec.Roles = []string{}
		}
		if rec.Positions == nil {
			rec.Positions = []string{}
		}

		if u.IsMember != nil {
			rec.IsMember = *u.IsMember
		}
		if u.Roles != nil {
			rec.Roles = normalize(*u.Roles)
		}
		if u.Positions != nil {
			rec.Positions = normalize(*u.Positions)
		}
		rec.UpdatedAt = s.clock().UTC()
		return rec
	})
}

// normalize drops empty strings and duplicates while preserving order.
func normalize(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, v := range in {
		if v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
