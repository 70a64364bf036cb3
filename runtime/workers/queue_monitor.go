package workers

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Queue is a bounded viewer queue that can be sampled without blocking.
type Queue interface {
	ID() string
	Pending() int
	Capacity() int
	Dropped() uint64
}

type QueueSample struct {
	Name         string
	Length       int
	Capacity     int
	Dropped      uint64
	NewlyDropped uint64
}

// Saturated is true once the queue is three quarters full.
func (s QueueSample) Saturated() bool {
	return s.Capacity > 0 && s.Length*4 >= s.Capacity*3
}

// QueueMonitorWorker periodically reports the length and drop count of
// viewer queues. Reading them never blocks, so sampling does not interfere
// with delivery.
type QueueMonitorWorker struct {
	log      *slog.Logger
	queues   []Queue
	interval time.Duration
	mu       sync.Mutex
	dropped  map[string]uint64 // map queue -> drops seen at last sample
}

func NewQueueMonitorWorker(log *slog.Logger, interval time.Duration, queues ...Queue) *QueueMonitorWorker {
	return &QueueMonitorWorker{
		log:      log,
		queues:   queues,
		interval: interval,
		dropped:  make(map[string]uint64),
	}
}

func (w *QueueMonitorWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Context done, stopping queue monitor")
			w.Sample()
			return nil
		case <-ticker.C:
			w.Sample()
		}
	}
}

// Sample logs one line per queue. Saturated queues and queues that dropped
// packets since the previous sample are reported as warnings.
// Sample may be called while Run is ticking.
func (w *QueueMonitorWorker) Sample() []QueueSample {
	w.mu.Lock()
	defer w.mu.Unlock()

	samples := make([]QueueSample, 0, len(w.queues))
	for _, q := range w.queues {
		dropped := q.Dropped()
		sample := QueueSample{
			Name:         q.ID(),
			Length:       q.Pending(),
			Capacity:     q.Capacity(),
			Dropped:      dropped,
			NewlyDropped: dropped - w.dropped[q.ID()],
		}
		w.dropped[q.ID()] = dropped
		samples = append(samples, sample)

		attrs := []any{"viewer", sample.Name, "length", sample.Length,
			"capacity", sample.Capacity, "dropped", sample.Dropped}
		if sample.NewlyDropped > 0 || sample.Saturated() {
			w.log.Warn("Viewer queue under pressure", append(attrs, "newly_dropped", sample.NewlyDropped)...)
			continue
		}
		w.log.Debug("Viewer queue", attrs...)
	}
	return samples
}
