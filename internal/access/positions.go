package access

// Club position titles. These are part of the stored role records; keep stable.
const (
	PositionPresident              = "President"
	PositionVicePresident          = "Vice President"
	PositionTreasurer              = "Treasurer"
	PositionSecretary              = "Secretary"
	PositionPublicRelations        = "Public Relations Officer"
	PositionEditorInChief          = "Editor-in-Chief"
	PositionSubmissionsCoordinator = "Submissions Coordinator"
	PositionProofreader            = "Proofreader"
	PositionLeadDesign             = "Lead Design"
)

var officerPositions = map[string]struct{}{
	PositionPresident:       {},
	PositionVicePresident:   {},
	PositionTreasurer:       {},
	PositionSecretary:       {},
	PositionPublicRelations: {},
}

var committeePositions = map[string]struct{}{
	PositionEditorInChief:          {},
	PositionSubmissionsCoordinator: {},
	PositionProofreader:            {},
	PositionLeadDesign:             {},
}

// adminPositions hold destructive authority (delete, role management).
// Exactly the top two officer positions; general officer access is not enough.
var adminPositions = map[string]struct{}{
	PositionPresident:     {},
	PositionVicePresident: {},
}

// OfficerPositions returns the officer-tier titles; test helper.
func OfficerPositions() []string {
	out := make([]string, 0, len(officerPositions))
	for p := range officerPositions {
		out = append(out, p)
	}
	return out
}

// CommitteePositions returns the committee-tier titles; test helper.
func CommitteePositions() []string {
	out := make([]string, 0, len(committeePositions))
	for p := range committeePositions {
		out = append(out, p)
	}
	return out
}
