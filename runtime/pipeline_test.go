package runtime

import (
	"context"
	"log/slog"
	"team-lab/domain"
	"team-lab/protocol"
	"team-lab/repositories"
	"team-lab/runtime/workers"
	"team-lab/sink"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

// Team changes flow through connections into the timeline and the journal,
// and both agree with the team's own state.
func TestPipeline_Viewers_Reconstruct_Team_State(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	req.NoError(err)
	defer db.Close()

	repository := repositories.NewPacketRepository(db, log, nil)
	journal := sink.NewJournalSink(repository, log)
	timeline := sink.NewTimeline()

	registry := NewRegistry(log)
	team, err := registry.Team("blue")
	req.NoError(err)

	first := workers.NewConnection("v1", 64, time.Second, log, timeline, journal)
	second := workers.NewConnection("v2", 64, time.Second, log, timeline, journal)
	sup := workers.NewSupervisor(log, 10*time.Millisecond)
	sup.Add(first, second)
	done := make(chan struct{})
	go func() {
		sup.Run(context.Background())
		close(done)
	}()

	// Given a member before any viewer
	alice := domain.MemberOf(newFakePlayer("alice"))
	team.AddMember(alice)

	// When viewers join and the team changes
	req.True(team.AddViewer(first))
	req.True(team.AddViewer(second))
	team.UpdateMeta(func(b *domain.MetaBuilder) *domain.MetaBuilder {
		return b.Color(domain.DarkBlue).Prefix(domain.Text("[B] "))
	})
	bot := domain.MemberOf(&fakeEntity{id: uuid.New()})
	team.AddMember(bot)
	team.RemoveMember(alice)
	req.True(team.RemoveViewer(second))

	first.Close()
	second.Close()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		req.Fail("connections did not drain")
	}

	// Then the remaining viewer mirrors the team
	view, ok := timeline.View("v1", "blue")
	req.True(ok)
	req.Equal(domain.InfoOf(team.Meta()), view.Info)
	req.Equal(domain.MemberIDs(team.Members()), view.MemberIDs())

	// And the removed viewer no longer tracks it
	_, ok = timeline.View("v2", "blue")
	req.False(ok)
	req.Equal(domain.ModeRemove, timeline.Packets("v2")[len(timeline.Packets("v2"))-1].Mode())

	// And the journal holds the same stream, newest first
	entries, _, err := repository.GetPackets("v1", "blue", nil)
	req.NoError(err)
	packets := timeline.Packets("v1")
	req.Len(entries, len(packets))
	for i, entry := range entries {
		decoded, err := protocol.Decode(entry.Bytes)
		req.NoError(err)
		req.Equal(packets[len(packets)-1-i], decoded)
	}
	req.Zero(first.Dropped())
}
