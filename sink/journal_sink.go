package sink

import (
	"context"
	"fmt"
	"log/slog"
	"team-lab/contract"
	"team-lab/domain"
	"team-lab/protocol"
	"time"
)

// JournalSink encodes packets and records them in the packet journal.
type JournalSink struct {
	repository contract.IPacketRepository
	log        *slog.Logger
}

func NewJournalSink(repository contract.IPacketRepository, log *slog.Logger) JournalSink {
	return JournalSink{repository: repository, log: log}
}

func (JournalSink) Name() string { return "journal" }

func (j JournalSink) Consume(_ context.Context, viewerID string, packet domain.Packet) error {
	bytes, err := protocol.Encode(packet)
	if err != nil {
		return fmt.Errorf("encoding %s packet for team %s: %w", packet.Mode(), packet.Team, err)
	}
	return j.repository.StorePacket(contract.JournalEntry{
		Viewer: viewerID,
		Team:   packet.Team,
		Mode:   packet.Mode(),
		At:     time.Now().UTC().UnixNano(),
		Bytes:  bytes,
	})
}
