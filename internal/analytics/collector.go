package analytics

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/Adithya-Monish-Kumar-K/corpus-search/pkg/kafka"
	"github.com/Adithya-Monish-Kumar-K/corpus-search/pkg/logger"
)

// Publisher ships a batch of events. *kafka.Producer satisfies it.
type Publisher interface {
	PublishBatch(ctx context.Context, events []kafka.Event) error
}

type CollectorConfig struct {
	BufferSize    int
	BatchSize     int
	FlushInterval time.Duration
}

// Collector takes events off the caller's path. A single goroutine records
// them into the Aggregator and, when a Publisher is set, ships them in batches
// when BatchSize is reached or FlushInterval passes.
type Collector struct {
	agg       *Aggregator
	publisher Publisher
	cfg       CollectorConfig
	eventCh   chan any
	batch     []kafka.Event
	logger    *slog.Logger
	done      chan struct{}

	mu     sync.RWMutex
	closed bool
}

// NewCollector returns a Collector feeding agg. publisher may be nil.
func NewCollector(agg *Aggregator, publisher Publisher, cfg CollectorConfig) *Collector {
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = 10000
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 100
	}
	if cfg.FlushInterval <= 0 {
		cfg.FlushInterval = 5 * time.Second
	}
	return &Collector{
		agg:       agg,
		publisher: publisher,
		cfg:       cfg,
		eventCh:   make(chan any, cfg.BufferSize),
		batch:     make([]kafka.Event, 0, cfg.BatchSize),
		logger:    logger.WithComponent("analytics-collector"),
		done:      make(chan struct{}),
	}
}

// Start launches the collecting goroutine. It stops after ctx is cancelled or
// Close is called, flushing what it holds.
func (c *Collector) Start(ctx context.Context) {
	go c.run(ctx)
	c.logger.Info("analytics collector started",
		"buffer_size", c.cfg.BufferSize,
		"publisher", c.publisher != nil,
	)
}

// Track enqueues an event without blocking. Events are dropped when the
// buffer is full or the collector is closed.
func (c *Collector) Track(event any) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		c.logger.Debug("analytics event dropped (collector closed)")
		return
	}
	select {
	case c.eventCh <- event:
	default:
		c.logger.Warn("analytics event dropped (buffer full)")
	}
}

// Close stops accepting events and waits for the goroutine to drain and
// flush. Later calls to Track and Close are no-ops.
func (c *Collector) Close() {
	c.mu.Lock()
	if !c.closed {
		c.closed = true
		close(c.eventCh)
	}
	c.mu.Unlock()
	<-c.done
}

func (c *Collector) run(ctx context.Context) {
	defer close(c.done)
	ticker := time.NewTicker(c.cfg.FlushInterval)
	defer ticker.Stop()
	for {
		select {
		case event, ok := <-c.eventCh:
			if !ok {
				c.shutdownFlush()
				return
			}
			c.handle(ctx, event)
		case <-ticker.C:
			c.flush(ctx)
		case <-ctx.Done():
			c.drain()
			c.shutdownFlush()
			return
		}
	}
}

func (c *Collector) handle(ctx context.Context, event any) {
	c.agg.Record(event)
	if c.publisher == nil {
		return
	}
	c.batch = append(c.batch, kafka.Event{Key: key(event), Value: event})
	if len(c.batch) >= c.cfg.BatchSize {
		c.flush(ctx)
	}
}

func (c *Collector) drain() {
	for {
		select {
		case event, ok := <-c.eventCh:
			if !ok {
				return
			}
			c.handle(context.Background(), event)
		default:
			return
		}
	}
}

func (c *Collector) shutdownFlush() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	c.flush(ctx)
}

// flush publishes the pending batch. A failed batch is kept for the next
// flush, bounded to three batches.
func (c *Collector) flush(ctx context.Context) {
	if c.publisher == nil || len(c.batch) == 0 {
		return
	}
	if err := c.publisher.PublishBatch(ctx, c.batch); err != nil {
		c.logger.Error("analytics flush failed", "batch_size", len(c.batch), "error", err)
		if limit := 3 * c.cfg.BatchSize; len(c.batch) > limit {
			dropped := len(c.batch) - limit
			c.batch = append(c.batch[:0], c.batch[dropped:]...)
			c.logger.Warn("analytics events dropped", "dropped", dropped)
		}
		return
	}
	c.logger.Debug("analytics batch flushed", "events", len(c.batch))
	c.batch = make([]kafka.Event, 0, c.cfg.BatchSize)
}
