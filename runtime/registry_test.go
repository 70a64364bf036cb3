package runtime

import (
	"log/slog"
	"strings"
	"sync"
	"team-lab/domain"
	"team-lab/errors"
	"testing"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

func newTestRegistry() *Registry {
	return NewRegistry(logs.GetLoggerFromLevel(slog.LevelDebug))
}

func TestRegistry_Team_Creates_With_Defaults(t *testing.T) {
	req := require.New(t)
	registry := newTestRegistry()

	// Given no team exists
	req.Zero(registry.Len())

	// When a team is requested
	team, err := registry.Team("red")

	// Then it is created with default metadata
	req.NoError(err)
	req.Equal("red", team.Name())
	req.Equal(domain.DefaultMeta(), team.Meta())
	req.Empty(team.Members())
	req.Empty(team.Viewers())
	req.Equal(1, registry.Len())
}

func TestRegistry_Team_Returns_Same_Instance(t *testing.T) {
	req := require.New(t)
	registry := newTestRegistry()

	first, err := registry.Team("red")
	req.NoError(err)
	second, err := registry.Team("red")
	req.NoError(err)

	req.Same(first, second)
	got, ok := registry.Get("red")
	req.True(ok)
	req.Same(first, got)
}

func TestRegistry_Team_Concurrent_Creation(t *testing.T) {
	req := require.New(t)
	registry := newTestRegistry()
	teams := make([]*Team, 20)

	var wg sync.WaitGroup
	for i := range teams {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			team, err := registry.Team("blue")
			req.NoError(err)
			teams[i] = team
		}(i)
	}
	wg.Wait()

	for _, team := range teams {
		req.Same(teams[0], team)
	}
	req.Equal(1, registry.Len())
}

func TestRegistry_Team_Invalid_Name(t *testing.T) {
	req := require.New(t)
	registry := newTestRegistry()

	for _, name := range []string{"", strings.Repeat("x", 65), "tab\tname", "équipe"} {
		_, err := registry.Team(name)
		req.ErrorIs(err, errors.ErrInvalidTeamName, name)
	}
	req.Zero(registry.Len())
}

func TestRegistry_Names_Sorted(t *testing.T) {
	req := require.New(t)
	registry := newTestRegistry()

	for _, name := range []string{"yellow", "blue", "red"} {
		_, err := registry.Team(name)
		req.NoError(err)
	}

	req.Equal([]string{"blue", "red", "yellow"}, registry.Names())
}

func TestRegistry_Remove_Detaches_Viewers(t *testing.T) {
	req := require.New(t)
	registry := newTestRegistry()
	team, err := registry.Team("red")
	req.NoError(err)
	v1 := &recordingViewer{}
	v2 := &recordingViewer{}
	req.True(team.AddViewer(v1))
	req.True(team.AddViewer(v2))

	// When the team is removed
	req.True(registry.Remove("red"))
	req.False(registry.Remove("red"))

	// Then it is no longer registered
	_, ok := registry.Get("red")
	req.False(ok)
	req.Zero(registry.Len())

	// And every viewer was told to drop it
	for _, v := range []*recordingViewer{v1, v2} {
		packets := v.Packets()
		req.Len(packets, 2)
		req.Equal(domain.Packet{Team: "red", Action: domain.RemoveTeamAction{}}, packets[1])
	}
	req.Empty(team.Viewers())

	// And a new team under the same name starts fresh
	fresh, err := registry.Team("red")
	req.NoError(err)
	req.NotSame(team, fresh)
}
