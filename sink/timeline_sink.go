package sink

import (
	"context"
	"slices"
	"sync"
	"team-lab/domain"

	"github.com/samber/lo"
)

// TeamView is what a viewer knows about one team.
type TeamView struct {
	Info    domain.TeamInfo
	Members map[string]struct{}
}

func (v TeamView) MemberIDs() []string {
	ids := lo.Keys(v.Members)
	slices.Sort(ids)
	return ids
}

// Timeline replays the packets received by viewers, keeping both the
// ordered history and the team state each viewer can reconstruct from it.
type Timeline struct {
	mu      sync.Mutex
	packets map[string][]domain.Packet      // map viewer -> packets in order
	views   map[string]map[string]*TeamView // map viewer -> team -> view
}

func NewTimeline() *Timeline {
	return &Timeline{
		packets: make(map[string][]domain.Packet),
		views:   make(map[string]map[string]*TeamView),
	}
}

func (*Timeline) Name() string { return "timeline" }

func (t *Timeline) Consume(_ context.Context, viewerID string, packet domain.Packet) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.packets[viewerID] = append(t.packets[viewerID], packet)
	views, ok := t.views[viewerID]
	if !ok {
		views = make(map[string]*TeamView)
		t.views[viewerID] = views
	}

	switch action := packet.Action.(type) {
	case domain.CreateTeamAction:
		views[packet.Team] = &TeamView{Info: action.TeamInfo, Members: lo.Keyify(action.Members)}
	case domain.UpdateTeamAction:
		if view, ok := views[packet.Team]; ok {
			view.Info = action.TeamInfo
		}
	case domain.AddMembersAction:
		if view, ok := views[packet.Team]; ok {
			for _, id := range action.Members {
				view.Members[id] = struct{}{}
			}
		}
	case domain.RemoveMembersAction:
		if view, ok := views[packet.Team]; ok {
			for _, id := range action.Members {
				delete(view.Members, id)
			}
		}
	case domain.RemoveTeamAction:
		delete(views, packet.Team)
	}
	return nil
}

// Packets returns the packets received by viewerID, in order.
func (t *Timeline) Packets(viewerID string) []domain.Packet {
	t.mu.Lock()
	defer t.mu.Unlock()
	return slices.Clone(t.packets[viewerID])
}

// View returns a copy of what viewerID knows about team.
func (t *Timeline) View(viewerID, team string) (TeamView, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	view, ok := t.views[viewerID][team]
	if !ok {
		return TeamView{}, false
	}
	return TeamView{Info: view.Info, Members: lo.Assign(view.Members)}, true
}
