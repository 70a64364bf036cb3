package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"team-lab/domain"
	"team-lab/internal"
	"team-lab/repositories"
	"team-lab/runtime"
	"team-lab/runtime/workers"
	"team-lab/sink"

	"github.com/dgraph-io/badger/v4"
	"github.com/mama165/sdk-go/logs"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// run wires the registry, viewer connections and packet sinks, then plays
// a short session on one team so every packet kind reaches the viewers.
func run() error {
	// 1. Configuration & Logger
	config, err := internal.LoadConfig()
	if err != nil {
		return err
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	// 2. Packet journal (BadgerDB)
	options := badger.DefaultOptions(config.BadgerFilepath).WithLoggingLevel(badger.WARNING)
	if config.InMemory() {
		options = badger.DefaultOptions("").WithInMemory(true).WithLoggingLevel(badger.WARNING)
	}
	db, err := badger.Open(options)
	if err != nil {
		return fmt.Errorf("database opening failed: %w", err)
	}
	defer func() {
		log.Info("Closing BadgerDB...")
		_ = db.Close()
	}()
	repository := repositories.NewPacketRepository(db, log, config.LimitPackets)

	// 3. Context & Signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 4. Viewers, each draining into the console and the journal
	console := sink.NewConsoleSink(os.Stdout)
	journal := sink.NewJournalSink(repository, log)
	sup := workers.NewSupervisor(log, config.RestartInterval)
	connections := make([]*workers.Connection, 0, config.DemoViewers)
	queues := make([]workers.Queue, 0, config.DemoViewers)
	for i := 1; i <= config.DemoViewers; i++ {
		conn := workers.NewConnection(fmt.Sprintf("viewer-%d", i),
			config.ViewerBufferSize, config.SinkTimeout, log, console, journal)
		connections = append(connections, conn)
		queues = append(queues, conn)
		sup.Add(conn)
	}

	// Queue sampling outlives the session, it is stopped once viewers drained
	monitor := workers.NewSupervisor(log, config.RestartInterval)
	monitor.Add(workers.NewQueueMonitorWorker(log, config.MonitorInterval, queues...))
	monitorDone := make(chan struct{})
	go func() {
		monitor.Run(ctx)
		close(monitorDone)
	}()

	done := make(chan struct{})
	go func() {
		sup.Run(ctx)
		close(done)
	}()

	// 5. Session
	registry := runtime.NewRegistry(log)
	team, err := registry.Team(config.TeamName)
	if err != nil {
		return err
	}
	play(team, connections, log)

	// 6. Drain viewers, then report what the journal recorded
	for _, conn := range connections {
		conn.Close()
	}
	select {
	case <-done:
	case <-ctx.Done():
		sup.Stop()
		<-done
	}
	monitor.Stop()
	<-monitorDone

	for _, conn := range connections {
		entries, _, err := repository.GetPackets(conn.ID(), team.Name(), nil)
		if err != nil {
			return fmt.Errorf("reading journal of %s: %w", conn.ID(), err)
		}
		log.Info("Journal", "viewer", conn.ID(), "packets", len(entries), "dropped", conn.Dropped())
	}
	log.Info("Program stopped cleanly")
	return nil
}

func play(team *runtime.Team, connections []*workers.Connection, log *slog.Logger) {
	alice := domain.MemberOf(newPlayer("alice", log))
	stand := domain.MemberOf(newEntity())

	team.AddMember(alice)
	team.UpdateMeta(func(b *domain.MetaBuilder) *domain.MetaBuilder {
		return b.Prefix(domain.Text("Test (")).
			Suffix(domain.Text(") Team")).
			Color(domain.Aqua).
			CanSeeFriendlyInvisibles(true)
	})
	for _, conn := range connections {
		team.AddViewer(conn)
	}
	team.UpdateMeta(func(b *domain.MetaBuilder) *domain.MetaBuilder {
		return b.Color(domain.Red)
	})
	team.AddMember(stand)
	delivered := team.SendToMembers(domain.Text("You are on the team!"))
	log.Info("Team message sent", "recipients", delivered)

	team.RemoveMember(stand)
	team.RemoveViewer(connections[0])
}
