package access

import (
	"github.com/lmdrew96/ChickenScratch-sub001/internal/roles"
)

// Pure tier checks. Total over any input: nil or empty lists mean "no access",
// never an error. Callers pass already-resolved role records.

// HasOfficerAccess is true when positions intersect the officer tier or the
// coarse role list contains "officer".
func HasOfficerAccess(positions, roleList []string) bool {
	for _, p := range positions {
		if _, ok := officerPositions[p]; ok {
			return true
		}
	}
	return containsRole(roleList, roles.RoleOfficer)
}

// HasCommitteeAccess is true when positions intersect the committee tier or the
// coarse role list contains "committee".
func HasCommitteeAccess(positions, roleList []string) bool {
	for _, p := range positions {
		if _, ok := committeePositions[p]; ok {
			return true
		}
	}
	return containsRole(roleList, roles.RoleCommittee)
}

// HasEditorAccess is true for the Editor-in-Chief position or the committee role.
func HasEditorAccess(positions, roleList []string) bool {
	for _, p := range positions {
		if p == PositionEditorInChief {
			return true
		}
	}
	return containsRole(roleList, roles.RoleCommittee)
}

// HasAdminAccess is true only for the top two officer positions.
func HasAdminAccess(positions []string) bool {
	for _, p := range positions {
		if _, ok := adminPositions[p]; ok {
			return true
		}
	}
	return false
}

func containsRole(roleList []string, want string) bool {
	for _, r := range roleList {
		if r == want {
			return true
		}
	}
	return false
}

// Capabilities is the closed set of things one actor may do, resolved once per
// request and threaded explicitly. Handlers and services never re-derive
// authority from raw role strings.
type Capabilities struct {
	ActorID  string `json:"actor_id"`
	IsMember bool   `json:"is_member"`

	CanReviewQueue  bool `json:"can_review_queue"`  // see the committee queue
	CanAssignEditor bool `json:"can_assign_editor"` // assign/clear assigned_editor
	CanSetNotes     bool `json:"can_set_notes"`     // set editor_notes
	CanChangeStatus bool `json:"can_change_status"` // move submissions through review
	CanPublish      bool `json:"can_publish"`       // publish + convert to doc
	CanDelete       bool `json:"can_delete"`        // hard delete, admin tier only
	CanManageRoles  bool `json:"can_manage_roles"`  // mutate user_roles, admin tier only
}

// Resolve computes capabilities from a freshly resolved role record.
//
// Officer access is a strict superset of committee access for every capability
// gated on committee here. The legacy single-role values ("editor", "admin")
// widen CanChangeStatus only; they predate the position model and are kept as
// a migration bridge rather than silently dropped.
func Resolve(rec roles.Record) Capabilities {
	officer := HasOfficerAccess(rec.Positions, rec.Roles)
	committee := HasCommitteeAccess(rec.Positions, rec.Roles) || officer
	editor := HasEditorAccess(rec.Positions, rec.Roles) || officer
	admin := HasAdminAccess(rec.Positions)
	legacy := rec.HasRole(roles.RoleLegacyEditor) || rec.HasRole(roles.RoleLegacyAdmin)

	return Capabilities{
		ActorID:         rec.UserID,
		IsMember:        rec.IsMember,
		CanReviewQueue:  committee,
		CanAssignEditor: editor,
		CanSetNotes:     editor,
		CanChangeStatus: committee || editor || legacy,
		CanPublish:      editor,
		CanDelete:       admin,
		CanManageRoles:  admin,
	}
}
