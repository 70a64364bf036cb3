package workers

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"team-lab/contract"
	"team-lab/domain"
	"time"
)

const defaultSinkTimeout = 5 * time.Second

// Connection is a viewer backed by a FIFO queue. Teams hand packets to
// SendPacket without blocking; Run drains the queue in order into sinks.
//
// When the queue is full the packet is dropped and counted. Back-pressure
// and retries belong to the transport behind the sinks, not to teams.
type Connection struct {
	id          string
	log         *slog.Logger
	packets     chan domain.Packet
	sinks       []contract.PacketSink
	sinkTimeout time.Duration
	dropped     atomic.Uint64
	closeMu     sync.RWMutex // held for writing while closing, for reading while enqueuing
	closeOnce   sync.Once
	closed      chan struct{}
}

func NewConnection(id string, bufferSize int, sinkTimeout time.Duration, log *slog.Logger, sinks ...contract.PacketSink) *Connection {
	if sinkTimeout <= 0 {
		sinkTimeout = defaultSinkTimeout
	}
	return &Connection{
		id:          id,
		log:         log.With("viewer", id),
		packets:     make(chan domain.Packet, bufferSize),
		sinks:       sinks,
		sinkTimeout: sinkTimeout,
		closed:      make(chan struct{}),
	}
}

func (c *Connection) ID() string { return c.id }

// SendPacket enqueues packet. It never blocks.
func (c *Connection) SendPacket(packet domain.Packet) {
	c.closeMu.RLock()
	defer c.closeMu.RUnlock()

	select {
	case <-c.closed:
		c.dropped.Add(1)
		c.log.Debug("Packet sent to closed connection", "team", packet.Team, "mode", packet.Mode())
		return
	default:
	}

	select {
	case c.packets <- packet:
	default:
		dropped := c.dropped.Add(1)
		c.log.Warn("Viewer queue full, dropping packet",
			"team", packet.Team, "mode", packet.Mode(), "dropped", dropped)
	}
}

// Dropped is the number of packets that never reached the queue.
func (c *Connection) Dropped() uint64 { return c.dropped.Load() }

// Pending is the number of queued packets not yet delivered.
func (c *Connection) Pending() int { return len(c.packets) }

func (c *Connection) Capacity() int { return cap(c.packets) }

// Close stops accepting packets. Run delivers what is queued, then returns.
// Once Close returned, every packet is either queued or counted as dropped.
func (c *Connection) Close() {
	c.closeMu.Lock()
	defer c.closeMu.Unlock()
	c.closeOnce.Do(func() { close(c.closed) })
}

func (c *Connection) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			c.log.Debug("Stopping connection worker")
			return ctx.Err()
		case <-c.closed:
			c.drain(ctx)
			return nil
		case packet := <-c.packets:
			c.deliver(ctx, packet)
		}
	}
}

func (c *Connection) drain(ctx context.Context) {
	for {
		select {
		case packet := <-c.packets:
			c.deliver(ctx, packet)
		default:
			return
		}
	}
}

// deliver hands packet to each sink in turn so that every sink observes
// the same order as the queue.
func (c *Connection) deliver(ctx context.Context, packet domain.Packet) {
	for _, sink := range c.sinks {
		sinkCtx, cancel := context.WithTimeout(ctx, c.sinkTimeout)
		err := sink.Consume(sinkCtx, c.id, packet)
		cancel()
		if err != nil {
			c.log.Warn("Sink failed to consume packet",
				"sink", sinkName(sink), "team", packet.Team, "mode", packet.Mode(), "error", err)
		}
	}
}

func sinkName(sink contract.PacketSink) string {
	if named, ok := sink.(interface{ Name() string }); ok {
		return named.Name()
	}
	return "sink"
}
