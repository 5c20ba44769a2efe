package archive

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/vango-dev/shadowtree/pkg/commit"
	"github.com/vango-dev/shadowtree/pkg/inspect"
)

// Subscriber returns a commit subscriber that stores every generation in
// sink before the commit returns. Failures are logged, not propagated.
func Subscriber(sink Sink, logger *slog.Logger) commit.Subscriber {
	if logger == nil {
		logger = slog.Default()
	}
	return func(ctx context.Context, gen *commit.Generation) {
		store(ctx, sink, logger, inspect.CaptureGeneration(gen))
	}
}

func store(ctx context.Context, sink Sink, logger *slog.Logger, snap *inspect.GenerationSnapshot) {
	if err := sink.Store(ctx, snap); err != nil {
		logger.WarnContext(ctx, "snapshot not archived",
			"generation", snap.Generation,
			"error", err,
		)
		return
	}
	logger.DebugContext(ctx, "snapshot archived", "generation", snap.Generation)
}

// Archiver stores generations on a background goroutine.
type Archiver struct {
	sink    Sink
	logger  *slog.Logger
	queue   chan *inspect.GenerationSnapshot
	wg      sync.WaitGroup
	dropped atomic.Uint64

	closeOnce sync.Once
	closeMu   sync.RWMutex
	closed    bool
}

// NewArchiver starts an archiver with room for queueSize pending
// generations.
func NewArchiver(sink Sink, logger *slog.Logger, queueSize int) *Archiver {
	if logger == nil {
		logger = slog.Default()
	}
	if queueSize <= 0 {
		queueSize = 16
	}
	a := &Archiver{
		sink:   sink,
		logger: logger,
		queue:  make(chan *inspect.GenerationSnapshot, queueSize),
	}
	a.wg.Add(1)
	go a.run()
	return a
}

func (a *Archiver) run() {
	defer a.wg.Done()
	for snap := range a.queue {
		store(context.Background(), a.sink, a.logger, snap)
	}
}

// Subscriber returns the commit subscriber feeding the archiver.
func (a *Archiver) Subscriber() commit.Subscriber {
	return func(ctx context.Context, gen *commit.Generation) {
		a.Enqueue(ctx, inspect.CaptureGeneration(gen))
	}
}

// Enqueue queues snap. It reports false and counts a drop if the queue is
// full or the archiver is closed.
func (a *Archiver) Enqueue(ctx context.Context, snap *inspect.GenerationSnapshot) bool {
	a.closeMu.RLock()
	defer a.closeMu.RUnlock()
	if a.closed {
		a.dropped.Add(1)
		return false
	}
	select {
	case a.queue <- snap:
		return true
	default:
		a.dropped.Add(1)
		a.logger.WarnContext(ctx, "archive queue full, snapshot dropped", "generation", snap.Generation)
		return false
	}
}

// Dropped returns the number of generations not archived because the
// queue was full or closed.
func (a *Archiver) Dropped() uint64 {
	return a.dropped.Load()
}

// Close stops accepting generations and waits for queued ones to be
// stored.
func (a *Archiver) Close() {
	a.closeOnce.Do(func() {
		a.closeMu.Lock()
		a.closed = true
		close(a.queue)
		a.closeMu.Unlock()
	})
	a.wg.Wait()
}
