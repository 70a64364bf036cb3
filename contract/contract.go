//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"context"
	"reflect"
	"team-lab/domain"
)

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

type WorkerName string

// Worker doesn't protect itself
// Can be silly, focused
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
// This is used for logging and supervision purposes during worker initialization
// or lifecycle events, avoiding the need for manual naming in the Worker interface.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

// Viewer is whatever observes a team. Teams only hand packets to it and
// compare it for set membership, so implementations must be comparable:
// use a pointer receiver. A struct value holding a slice or a map, such as
// `type v struct{ seen []domain.Packet }` passed by value, is rejected by teams.
// SendPacket must not block: it is a handoff to the transport.
type Viewer interface {
	SendPacket(packet domain.Packet)
}

// PacketSink is the end of a viewer's stream (journal, console, network).
type PacketSink interface {
	Consume(ctx context.Context, viewerID string, packet domain.Packet) error
}

type JournalEntry struct {
	Viewer string
	Team   string
	Mode   domain.Mode
	Seq    uint64
	At     int64
	Bytes  []byte
}

type IPacketRepository interface {
	StorePacket(entry JournalEntry) error
	GetPackets(viewer, team string, cursor *string) ([]JournalEntry, *string, error)
}
