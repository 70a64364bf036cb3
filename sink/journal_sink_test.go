package sink

import (
	"context"
	"fmt"
	"log/slog"
	"team-lab/contract"
	"team-lab/domain"
	"team-lab/errors"
	"team-lab/mocks"
	"team-lab/protocol"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestJournalSink_Stores_Encoded_Packet(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	repository := mocks.NewMockIPacketRepository(ctrl)
	journal := NewJournalSink(repository, slog.Default())
	packet := domain.Packet{Team: "red", Action: domain.AddMembersAction{Members: []string{"alice"}}}

	// Then the repository receives the encoded packet
	repository.EXPECT().
		StorePacket(gomock.Any()).
		DoAndReturn(func(entry contract.JournalEntry) error {
			req.Equal("v1", entry.Viewer)
			req.Equal("red", entry.Team)
			req.Equal(domain.ModeAddMembers, entry.Mode)
			req.Positive(entry.At)
			decoded, err := protocol.Decode(entry.Bytes)
			req.NoError(err)
			req.Equal(packet, decoded)
			return nil
		}).
		Times(1)

	// When the sink consumes a packet
	req.NoError(journal.Consume(context.Background(), "v1", packet))
}

func TestJournalSink_Propagates_Errors(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	repository := mocks.NewMockIPacketRepository(ctrl)
	journal := NewJournalSink(repository, slog.Default())

	// Given an unencodable packet, the repository is never reached
	err := journal.Consume(context.Background(), "v1", domain.Packet{Team: "red"})
	req.ErrorIs(err, errors.ErrMalformedPacket)

	// Given a failing repository
	repository.EXPECT().StorePacket(gomock.Any()).Return(fmt.Errorf("disk full")).Times(1)
	err = journal.Consume(context.Background(), "v1", domain.Packet{Team: "red", Action: domain.RemoveTeamAction{}})
	req.EqualError(err, "disk full")
}
