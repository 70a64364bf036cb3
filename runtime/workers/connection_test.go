package workers

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"team-lab/domain"
	"team-lab/mocks"
	"team-lab/sink"
	"testing"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func addMembers(team string, id string) domain.Packet {
	return domain.Packet{Team: team, Action: domain.AddMembersAction{Members: []string{id}}}
}

func TestConnection_Delivers_In_Order(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	timeline := sink.NewTimeline()
	conn := NewConnection("v1", 64, time.Second, log, timeline)

	// Given packets queued before the worker runs
	var sent []domain.Packet
	for i := 0; i < 32; i++ {
		p := addMembers("g", fmt.Sprintf("m%02d", i))
		sent = append(sent, p)
		conn.SendPacket(p)
	}
	req.Equal(32, conn.Pending())

	// When the connection is closed and run
	conn.Close()
	req.NoError(conn.Run(context.Background()))

	// Then every packet reached the sink in order
	req.Equal(sent, timeline.Packets("v1"))
	req.Zero(conn.Pending())
	req.Zero(conn.Dropped())
}

func TestConnection_Drops_When_Full(t *testing.T) {
	req := require.New(t)
	conn := NewConnection("v1", 2, time.Second, slog.Default())

	// When more packets arrive than the queue holds
	for i := 0; i < 5; i++ {
		conn.SendPacket(addMembers("g", fmt.Sprint(i)))
	}

	// Then SendPacket did not block and the overflow was counted
	req.Equal(2, conn.Pending())
	req.Equal(uint64(3), conn.Dropped())
}

func TestConnection_Closed_Rejects_Packets(t *testing.T) {
	req := require.New(t)
	conn := NewConnection("v1", 2, time.Second, slog.Default())

	conn.Close()
	conn.Close()
	conn.SendPacket(addMembers("g", "late"))

	req.Zero(conn.Pending())
	req.Equal(uint64(1), conn.Dropped())
}

func TestConnection_Sink_Error_Does_Not_Stop_Delivery(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	failing := mocks.NewMockPacketSink(ctrl)
	timeline := sink.NewTimeline()
	conn := NewConnection("v1", 8, time.Second, slog.Default(), failing, timeline)

	failing.EXPECT().
		Consume(gomock.Any(), "v1", gomock.Any()).
		Return(fmt.Errorf("transport down")).
		Times(2)

	conn.SendPacket(addMembers("g", "a"))
	conn.SendPacket(addMembers("g", "b"))
	conn.Close()
	req.NoError(conn.Run(context.Background()))

	req.Len(timeline.Packets("v1"), 2)
}

func TestConnection_Sink_Timeout(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	slow := mocks.NewMockPacketSink(ctrl)
	conn := NewConnection("v1", 8, 20*time.Millisecond, slog.Default(), slow)

	// Given a sink that waits for its context
	slow.EXPECT().
		Consume(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, _ string, _ domain.Packet) error {
			<-ctx.Done()
			return ctx.Err()
		}).
		Times(1)

	conn.SendPacket(addMembers("g", "a"))
	conn.Close()

	// Then the worker is released by the sink timeout
	done := make(chan error, 1)
	go func() { done <- conn.Run(context.Background()) }()
	select {
	case err := <-done:
		req.NoError(err)
	case <-time.After(time.Second):
		req.Fail("Connection worker blocked on a slow sink")
	}
}

func TestConnection_Run_Stops_On_Cancel(t *testing.T) {
	req := require.New(t)
	conn := NewConnection("v1", 8, time.Second, slog.Default())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	req.ErrorIs(conn.Run(ctx), context.Canceled)
}

func TestConnection_Drops_Packet_Without_Action(t *testing.T) {
	req := require.New(t)

	// Given a queue with no room and a closed one
	full := NewConnection("v1", 0, 0, slog.Default())
	closed := NewConnection("v2", 1, 0, slog.Default())
	closed.Close()

	// When a packet without action is handed to them
	req.NotPanics(func() { full.SendPacket(domain.Packet{Team: "g"}) })
	req.NotPanics(func() { closed.SendPacket(domain.Packet{Team: "g"}) })

	// Then it is dropped and counted
	req.Equal(uint64(1), full.Dropped())
	req.Equal(uint64(1), closed.Dropped())
}

func TestConnection_Close_During_Sends_Loses_Nothing(t *testing.T) {
	req := require.New(t)
	timeline := sink.NewTimeline()
	conn := NewConnection("v1", 1024, time.Second, slog.Default(), timeline)
	done := make(chan error, 1)
	go func() { done <- conn.Run(context.Background()) }()

	// Given senders racing with Close
	const senders, perSender = 8, 50
	var wg sync.WaitGroup
	for s := 0; s < senders; s++ {
		wg.Add(1)
		go func(s int) {
			defer wg.Done()
			for i := 0; i < perSender; i++ {
				conn.SendPacket(addMembers("g", fmt.Sprintf("%d-%d", s, i)))
			}
		}(s)
	}
	conn.Close()
	wg.Wait()
	req.NoError(<-done)

	// Then every packet was either delivered or counted as dropped
	req.Zero(conn.Pending())
	req.Equal(senders*perSender, len(timeline.Packets("v1"))+int(conn.Dropped()))
}
