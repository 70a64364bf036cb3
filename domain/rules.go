package domain

// CollisionRule decides whether two members may push each other
// depending on whether they share a team.
type CollisionRule int

const (
	CollisionAlways CollisionRule = iota
	CollisionPushOtherTeams
	CollisionPushOwnTeam
	CollisionNever
)

func (c CollisionRule) String() string {
	switch c {
	case CollisionAlways:
		return "ALWAYS"
	case CollisionPushOtherTeams:
		return "PUSH_OTHER_TEAMS"
	case CollisionPushOwnTeam:
		return "PUSH_OWN_TEAM"
	case CollisionNever:
		return "NEVER"
	default:
		return "UNKNOWN"
	}
}

func (c CollisionRule) Valid() bool {
	return c >= CollisionAlways && c <= CollisionNever
}

// TagVisibility decides whether a member's name tag is rendered
// to another participant depending on whether they share a team.
type TagVisibility int

const (
	TagAlways TagVisibility = iota
	TagHideForOtherTeams
	TagHideForOwnTeam
	TagNever
)

func (v TagVisibility) String() string {
	switch v {
	case TagAlways:
		return "ALWAYS"
	case TagHideForOtherTeams:
		return "HIDE_FOR_OTHER_TEAMS"
	case TagHideForOwnTeam:
		return "HIDE_FOR_OWN_TEAM"
	case TagNever:
		return "NEVER"
	default:
		return "UNKNOWN"
	}
}

func (v TagVisibility) Valid() bool {
	return v >= TagAlways && v <= TagNever
}
