package runtime

import (
	"fmt"
	"log/slog"
	"sync"
	"team-lab/contract"
	"team-lab/domain"

	"github.com/samber/lo"
)

// Team is a named set of members with one metadata snapshot, kept in sync
// with its viewers through packets.
//
// Membership and metadata changes are broadcast to every current viewer.
// Create and remove packets are sent only to the viewer being added or
// removed, since they describe that viewer's relation to the team.
//
// Every mutation and the handoff of its packet happen under the same lock,
// so a viewer receives packets in mutation order and never one describing
// a state the team has already left. Viewer.SendPacket must not block.
type Team struct {
	mu      sync.Mutex
	log     *slog.Logger
	name    string
	members map[domain.Member]struct{}
	viewers map[contract.Viewer]struct{}
	meta    domain.Meta
}

func NewTeam(name string, log *slog.Logger) *Team {
	return &Team{
		log:     log.With("team", name),
		name:    name,
		members: make(map[domain.Member]struct{}),
		viewers: make(map[contract.Viewer]struct{}),
		meta:    domain.DefaultMeta(),
	}
}

func (t *Team) Name() string { return t.name }

// AddMember returns false if the member was already in the team, or if
// its participant cannot be compared (see domain.Hashable).
func (t *Team) AddMember(member domain.Member) bool {
	if !member.Hashable() {
		t.log.Warn("Rejected member of a non comparable type", "type", fmt.Sprintf("%T", member.Entity()))
		return false
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.members[member]; ok {
		return false
	}
	t.members[member] = struct{}{}
	t.log.Debug("Member added", "member", member.ID(), "kind", member.Kind())
	t.broadcast(domain.AddMembersAction{Members: []string{member.ID()}})
	return true
}

// RemoveMember returns false if the member was not in the team.
func (t *Team) RemoveMember(member domain.Member) bool {
	if !member.Hashable() {
		return false
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.members[member]; !ok {
		return false
	}
	delete(t.members, member)
	t.log.Debug("Member removed", "member", member.ID(), "kind", member.Kind())
	t.broadcast(domain.RemoveMembersAction{Members: []string{member.ID()}})
	return true
}

func (t *Team) HasMember(member domain.Member) bool {
	if !member.Hashable() {
		return false
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.members[member]
	return ok
}

// Members returns a copy of the member set. Members are not viewers.
func (t *Team) Members() []domain.Member {
	t.mu.Lock()
	defer t.mu.Unlock()
	return lo.Keys(t.members)
}

func (t *Team) Meta() domain.Meta {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.meta
}

// SetMeta replaces the metadata and broadcasts an update,
// even when meta equals the current value.
func (t *Team) SetMeta(meta domain.Meta) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.setMeta(meta)
}

// UpdateMeta seeds a builder from the current metadata, applies fn and
// sets the result. Seeding and swapping happen under one lock.
func (t *Team) UpdateMeta(fn func(b *domain.MetaBuilder) *domain.MetaBuilder) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.setMeta(fn(domain.MetaBuilderFrom(t.meta)).Build())
}

func (t *Team) setMeta(meta domain.Meta) {
	t.meta = meta
	t.log.Debug("Meta updated",
		"color", meta.Color(),
		"collision", meta.CollisionRule(),
		"tag_visibility", meta.TagVisibility())
	t.broadcast(domain.UpdateTeamAction{TeamInfo: domain.InfoOf(meta)})
}

// AddViewer starts tracking for viewer and sends it the full team state.
// Other viewers are not notified. A nil viewer or one of a non comparable
// type is rejected.
func (t *Team) AddViewer(viewer contract.Viewer) bool {
	if !domain.Hashable(viewer) {
		t.log.Warn("Rejected viewer of a non comparable type", "type", fmt.Sprintf("%T", viewer))
		return false
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.viewers[viewer]; ok {
		return false
	}
	t.viewers[viewer] = struct{}{}
	t.log.Debug("Viewer added", "viewers", len(t.viewers))
	viewer.SendPacket(t.packet(domain.CreateTeamAction{
		TeamInfo: domain.InfoOf(t.meta),
		Members:  domain.MemberIDs(lo.Keys(t.members)),
	}))
	return true
}

// RemoveViewer stops tracking for viewer and tells it to drop the team.
func (t *Team) RemoveViewer(viewer contract.Viewer) bool {
	if !domain.Hashable(viewer) {
		return false
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.viewers[viewer]; !ok {
		return false
	}
	delete(t.viewers, viewer)
	t.log.Debug("Viewer removed", "viewers", len(t.viewers))
	viewer.SendPacket(t.packet(domain.RemoveTeamAction{}))
	return true
}

func (t *Team) HasViewer(viewer contract.Viewer) bool {
	if !domain.Hashable(viewer) {
		return false
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.viewers[viewer]
	return ok
}

// Viewers returns a copy of the viewer set.
func (t *Team) Viewers() []contract.Viewer {
	t.mu.Lock()
	defer t.mu.Unlock()
	return lo.Keys(t.viewers)
}

// SendToMembers delivers message to every member that has an inbox
// and returns how many received it. Viewers are not recipients: they
// observe the team through packets only.
func (t *Team) SendToMembers(message domain.Component) int {
	t.mu.Lock()
	messengers := lo.FilterMap(lo.Keys(t.members), func(m domain.Member, _ int) (domain.Messenger, bool) {
		return m.Messenger()
	})
	t.mu.Unlock()

	for _, m := range messengers {
		m.SendMessage(message)
	}
	return len(messengers)
}

// detachViewers removes every viewer, sending each a remove packet.
func (t *Team) detachViewers() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	count := len(t.viewers)
	for viewer := range t.viewers {
		delete(t.viewers, viewer)
		viewer.SendPacket(t.packet(domain.RemoveTeamAction{}))
	}
	return count
}

func (t *Team) broadcast(action domain.Action) {
	p := t.packet(action)
	for viewer := range t.viewers {
		viewer.SendPacket(p)
	}
}

func (t *Team) packet(action domain.Action) domain.Packet {
	return domain.Packet{Team: t.name, Action: action}
}
