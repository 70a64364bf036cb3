package domain

import (
	"slices"

	"github.com/samber/lo"
)

// Mode is the action discriminant of a team packet, numbered as on the wire.
type Mode int

// ModeUnknown is the mode of a packet that carries no action.
const ModeUnknown Mode = -1

const (
	ModeCreate Mode = iota
	ModeRemove
	ModeUpdate
	ModeAddMembers
	ModeRemoveMembers
)

func (m Mode) String() string {
	switch m {
	case ModeCreate:
		return "create"
	case ModeRemove:
		return "remove"
	case ModeUpdate:
		return "update"
	case ModeAddMembers:
		return "add_members"
	case ModeRemoveMembers:
		return "remove_members"
	default:
		return "unknown"
	}
}

// Packet is a notification about one team, keyed by the team name.
type Packet struct {
	Team   string
	Action Action
}

func (p Packet) Mode() Mode {
	if p.Action == nil {
		return ModeUnknown
	}
	return p.Action.Mode()
}

type Action interface {
	Mode() Mode
}

// TeamInfo is the display part shared by create and update packets.
type TeamInfo struct {
	DisplayName   Component
	Flags         byte
	TagVisibility TagVisibility
	CollisionRule CollisionRule
	Color         NamedColor
	Prefix        Component
	Suffix        Component
}

// InfoOf computes the packet payload of meta. Flags are packed each time.
func InfoOf(meta Meta) TeamInfo {
	return TeamInfo{
		DisplayName:   meta.DisplayName(),
		Flags:         FriendlyFlags(meta),
		TagVisibility: meta.TagVisibility(),
		CollisionRule: meta.CollisionRule(),
		Color:         meta.Color(),
		Prefix:        meta.Prefix(),
		Suffix:        meta.Suffix(),
	}
}

type CreateTeamAction struct {
	TeamInfo
	Members []string
}

func (CreateTeamAction) Mode() Mode { return ModeCreate }

type RemoveTeamAction struct{}

func (RemoveTeamAction) Mode() Mode { return ModeRemove }

type UpdateTeamAction struct {
	TeamInfo
}

func (UpdateTeamAction) Mode() Mode { return ModeUpdate }

type AddMembersAction struct {
	Members []string
}

func (AddMembersAction) Mode() Mode { return ModeAddMembers }

type RemoveMembersAction struct {
	Members []string
}

func (RemoveMembersAction) Mode() Mode { return ModeRemoveMembers }

// MemberIDs projects members to the sorted set of their identifiers.
func MemberIDs(members []Member) []string {
	ids := lo.Uniq(lo.Map(members, func(m Member, _ int) string {
		return m.ID()
	}))
	slices.Sort(ids)
	return ids
}
