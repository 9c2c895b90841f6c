package roles

import "time"

// Coarse role names. Keep these stable; they are part of the access contracts.
const (
	RoleOfficer   = "officer"
	RoleCommittee = "committee"

	// Legacy single-role values from the first iteration of the portal.
	// Still honored on the status-change path only; see access.Resolve.
	RoleLegacyEditor = "editor"
	RoleLegacyAdmin  = "admin"
)

// Record is the resolved authorization state for one actor.
//
// Invariants:
// - Roles/Positions are never nil in a resolved Record (empty slices instead),
//   so consumers can treat "no row" identically to "explicitly no roles".
// - Records are read fresh on every privileged request; revocation is immediate.
type Record struct {
	UserID    string    `json:"user_id" db:"user_id"`
	IsMember  bool      `json:"is_member" db:"is_member"`
	Roles     []string  `json:"roles" db:"roles"`
	Positions []string  `json:"positions" db:"positions"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// HasRole reports whether the coarse role list contains r.
func (rec Record) HasRole(r string) bool {
	for _, v := range rec.Roles {
		if v == r {
			return true
		}
	}
	return false
}

// HasPosition reports whether the fine-grained position list contains p.
func (rec Record) HasPosition(p string) bool {
	for _, v := range rec.Positions {
		if v == p {
			return true
		}
	}
	return false
}

// Update is a partial mutation of a role record. Nil fields are left untouched.
type Update struct {
	IsMember  *bool     `json:"isMember,omitempty"`
	Roles     *[]string `json:"roles,omitempty"`
	Positions *[]string `json:"positions,omitempty"`
}
