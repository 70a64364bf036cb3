package domain

type MemberKind int

const (
	MemberEntity MemberKind = iota
	MemberPlayer
)

func (k MemberKind) String() string {
	if k == MemberPlayer {
		return "player"
	}
	return "entity"
}

// Member is a participant counted as belonging to a team.
// Two members are equal iff they wrap the same participant, so a player
// and an entity that render the same ID remain distinct members.
// Member is comparable and can be used as a map key.
type Member struct {
	kind   MemberKind
	entity Entity
	player Player
}

// MemberOf wraps a player as a messageable member and any
// other entity as a plain one.
func MemberOf(e Entity) Member {
	if p, ok := e.(Player); ok {
		return Member{kind: MemberPlayer, player: p}
	}
	return Member{kind: MemberEntity, entity: e}
}

func (m Member) Kind() MemberKind { return m.kind }

// ID is the identifier sent to viewers: the username of a player,
// the UUID string of any other entity.
func (m Member) ID() string {
	if m.kind == MemberPlayer {
		return m.player.Username()
	}
	return m.entity.UUID().String()
}

// Entity returns the wrapped participant.
func (m Member) Entity() Entity {
	if m.kind == MemberPlayer {
		return m.player
	}
	return m.entity
}

// Messenger returns the member's inbox. Only players have one.
func (m Member) Messenger() (Messenger, bool) {
	if m.kind == MemberPlayer {
		return m.player, true
	}
	return nil, false
}

// Hashable reports whether the member can be stored in a team.
func (m Member) Hashable() bool {
	return Hashable(m.Entity())
}
