package access

import (
	"testing"

	"github.com/lmdrew96/ChickenScratch-sub001/internal/roles"
)

func TestHasOfficerAccess(t *testing.T) {
	if !HasOfficerAccess([]string{PositionTreasurer}, nil) {
		t.Fatalf("officer position should grant officer access")
	}
	if !HasOfficerAccess(nil, []string{roles.RoleOfficer}) {
		t.Fatalf("officer role should grant officer access")
	}
	if HasOfficerAccess([]string{PositionProofreader}, []string{roles.RoleCommittee}) {
		t.Fatalf("committee-only actor must not have officer access")
	}
	if HasOfficerAccess(nil, nil) {
		t.Fatalf("nil lists mean no access")
	}
}

func TestHasEditorAccess(t *testing.T) {
	if !HasEditorAccess([]string{PositionEditorInChief}, nil) {
		t.Fatalf("Editor-in-Chief should have editor access")
	}
	if !HasEditorAccess(nil, []string{roles.RoleCommittee}) {
		t.Fatalf("committee role should have editor access")
	}
	if HasEditorAccess([]string{PositionSecretary}, nil) {
		t.Fatalf("Secretary position alone must not grant editor access")
	}
}

func TestHasAdminAccess_TopTwoOnly(t *testing.T) {
	if !HasAdminAccess([]string{PositionPresident}) {
		t.Fatalf("President is admin tier")
	}
	if !HasAdminAccess([]string{PositionVicePresident}) {
		t.Fatalf("Vice President is admin tier")
	}
	for _, p := range []string{PositionTreasurer, PositionSecretary, PositionPublicRelations, PositionEditorInChief} {
		if HasAdminAccess([]string{p}) {
			t.Fatalf("%s must not be admin tier", p)
		}
	}
}

// Officer access must imply every capability gated on committee access.
// Exercised over all single-position and single-role combinations.
func TestResolve_OfficerSupersetOfCommittee(t *testing.T) {
	var officerRecs []roles.Record
	for _, p := range OfficerPositions() {
		officerRecs = append(officerRecs, roles.Record{UserID: "u", IsMember: true, Positions: []string{p}, Roles: []string{}})
	}
	officerRecs = append(officerRecs, roles.Record{UserID: "u", IsMember: true, Roles: []string{roles.RoleOfficer}, Positions: []string{}})

	var committeeRecs []roles.Record
	for _, p := range CommitteePositions() {
		committeeRecs = append(committeeRecs, roles.Record{UserID: "u", IsMember: true, Positions: []string{p}, Roles: []string{}})
	}
	committeeRecs = append(committeeRecs, roles.Record{UserID: "u", IsMember: true, Roles: []string{roles.RoleCommittee}, Positions: []string{}})

	committeeGated := func(c Capabilities) []bool {
		return []bool{c.CanReviewQueue, c.CanChangeStatus}
	}

	for _, crec := range committeeRecs {
		ccaps := committeeGated(Resolve(crec))
		for _, orec := range officerRecs {
			ocaps := committeeGated(Resolve(orec))
			for i := range ccaps {
				if ccaps[i] && !ocaps[i] {
					t.Fatalf("officer %v lacks committee-gated capability %d held by %v", orec.Positions, i, crec.Positions)
				}
			}
		}
	}
}

func TestResolve_AdminOnlyDeletes(t *testing.T) {
	caps := Resolve(roles.Record{UserID: "u", IsMember: true, Roles: []string{roles.RoleCommittee}, Positions: []string{}})
	if caps.CanDelete || caps.CanManageRoles {
		t.Fatalf("committee role must not hold admin capabilities")
	}

	caps = Resolve(roles.Record{UserID: "u", IsMember: true, Positions: []string{PositionPresident}, Roles: []string{}})
	if !caps.CanDelete || !caps.CanManageRoles {
		t.Fatalf("President must hold admin capabilities")
	}
}

func TestResolve_LegacySingleRoleWidensStatusChangeOnly(t *testing.T) {
	caps := Resolve(roles.Record{UserID: "u", IsMember: true, Roles: []string{roles.RoleLegacyEditor}, Positions: []string{}})
	if !caps.CanChangeStatus {
		t.Fatalf("legacy editor role must still allow status changes")
	}
	if caps.CanPublish || caps.CanDelete || caps.CanAssignEditor {
		t.Fatalf("legacy role must not widen beyond status changes, got %+v", caps)
	}
}
