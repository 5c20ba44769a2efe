package commit

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/shadowtree/internal/errors"
	"github.com/vango-dev/shadowtree/pkg/metrics"
	"github.com/vango-dev/shadowtree/pkg/shadow"
)

// Default tracer name for commit spans.
const defaultTracerName = "shadowtree"

// Subscriber is notified of every committed generation.
type Subscriber func(ctx context.Context, gen *Generation)

// Option configures a Tree.
type Option func(*Tree)

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(t *Tree) {
		t.logger = logger
	}
}

// WithMetrics reports commits to collector.
func WithMetrics(collector *metrics.Collector) Option {
	return func(t *Tree) {
		t.metrics = collector
	}
}

// WithTracer sets the tracer used for commit spans.
// Default: the global provider's tracer named "shadowtree".
func WithTracer(tracer trace.Tracer) Option {
	return func(t *Tree) {
		t.tracer = tracer
	}
}

// WithMountSignaling enables or disables mount signaling.
func WithMountSignaling(enabled bool) Option {
	return func(t *Tree) {
		t.mountSignaling = enabled
	}
}

type subscription struct {
	id uint64
	fn Subscriber
}

// Tree publishes the generations of one root tree.
type Tree struct {
	rootTag        shadow.Tag
	logger         *slog.Logger
	metrics        *metrics.Collector
	tracer         trace.Tracer
	mountSignaling bool

	current atomic.Pointer[Generation]

	// mu serializes writers: Commit, Update, and Unmount.
	mu      sync.Mutex
	mounted map[shadow.Tag]*shadow.Node

	subMu     sync.RWMutex
	subs      []subscription
	nextSubID uint64
}

// New creates an empty tree holder for the root tree identified by rootTag.
func New(rootTag shadow.Tag, opts ...Option) *Tree {
	t := &Tree{
		rootTag: rootTag,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.tracer == nil {
		t.tracer = otel.Tracer(defaultTracerName)
	}
	return t
}

// RootTag returns the tag of the root tree this holder accepts.
func (t *Tree) RootTag() shadow.Tag {
	return t.rootTag
}

// Current returns the latest committed generation, or nil before the first
// commit.
func (t *Tree) Current() *Generation {
	return t.current.Load()
}

// Commit seals root and every node reachable from it, then publishes it as
// the next generation.
func (t *Tree) Commit(ctx context.Context, root *shadow.Node) (*Generation, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.commitLocked(ctx, "commit.Commit", root)
}

// Update derives the next generation from the current one. fn receives
// the current root, or nil before the first commit, and returns the new
// root. Returning the previous root unchanged commits it again under a new
// number.
func (t *Tree) Update(ctx context.Context, fn func(prev *shadow.Node) *shadow.Node) (*Generation, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	var prev *shadow.Node
	if gen := t.current.Load(); gen != nil {
		prev = gen.Root
	}
	next := fn(prev)
	if next == nil {
		err := errors.New(errors.CodeUpdateNil).WithOp("commit.Update")
		t.recordError(ctx, err)
		return nil, err
	}
	return t.commitLocked(ctx, "commit.Update", next)
}

func (t *Tree) commitLocked(ctx context.Context, op string, root *shadow.Node) (*Generation, error) {
	start := time.Now()
	ctx, span := t.tracer.Start(ctx, "shadowtree.commit",
		trace.WithAttributes(attribute.Int("shadowtree.root_tag", int(t.rootTag))),
	)
	defer span.End()

	if err := t.validate(op, root); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		t.recordError(ctx, err)
		return nil, err
	}

	root.SealRecursive()

	var number uint64 = 1
	if prev := t.current.Load(); prev != nil {
		number = prev.Number + 1
	}
	gen := &Generation{
		Number:      number,
		Root:        root,
		CommittedAt: time.Now(),
		nodes:       indexTags(root),
	}
	t.current.Store(gen)

	if t.mountSignaling {
		t.signalMount(gen.nodes)
	}

	duration := time.Since(start)
	span.SetAttributes(
		attribute.Int64("shadowtree.generation", int64(gen.Number)),
		attribute.Int("shadowtree.nodes", gen.Len()),
	)
	span.SetStatus(codes.Ok, "")
	if t.metrics != nil {
		t.metrics.RecordCommit(gen.Number, gen.Len(), duration)
	}
	t.logger.DebugContext(ctx, "generation committed",
		"root_tag", int32(t.rootTag),
		"generation", gen.Number,
		"nodes", gen.Len(),
		"duration", duration,
	)

	t.notify(ctx, gen)
	return gen, nil
}

func (t *Tree) validate(op string, root *shadow.Node) error {
	if root == nil {
		return errors.New(errors.CodeNilRoot).WithOp(op)
	}
	if root.RootTag() != t.rootTag {
		return errors.New(errors.CodeForeignRoot).
			WithOp(op).
			WithTag(int32(root.Tag())).
			WithDetailf("root tag is %d, tree accepts %d", root.RootTag(), t.rootTag)
	}
	return nil
}

func (t *Tree) recordError(ctx context.Context, err error) {
	if t.metrics != nil {
		t.metrics.RecordCommitError()
	}
	t.logger.WarnContext(ctx, "commit rejected",
		"root_tag", int32(t.rootTag),
		"error", err,
	)
}

// signalMount enables the emitters of nodes in the new generation and
// disables the previous ones that are no longer used: tags that left, and
// tags whose node now carries a different emitter. Emitters are compared
// by identity.
func (t *Tree) signalMount(nodes map[shadow.Tag]*shadow.Node) {
	for tag, prev := range t.mounted {
		next, still := nodes[tag]
		if !still || next.EventEmitter() != prev.EventEmitter() {
			prev.SetMounted(false)
		}
	}
	for _, n := range nodes {
		n.SetMounted(true)
	}
	t.mounted = nodes
}

// Unmount disables the emitters of every node of the current generation.
// Later commits mount again.
func (t *Tree) Unmount() {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, n := range t.mounted {
		n.SetMounted(false)
	}
	t.mounted = nil
}

// Subscribe registers fn for every later commit and returns a function
// that removes it.
func (t *Tree) Subscribe(fn Subscriber) (unsubscribe func()) {
	t.subMu.Lock()
	defer t.subMu.Unlock()
	t.nextSubID++
	id := t.nextSubID
	t.subs = append(t.subs, subscription{id: id, fn: fn})

	return func() {
		t.subMu.Lock()
		defer t.subMu.Unlock()
		for i, s := range t.subs {
			if s.id == id {
				t.subs = append(t.subs[:i:i], t.subs[i+1:]...)
				return
			}
		}
	}
}

func (t *Tree) notify(ctx context.Context, gen *Generation) {
	t.subMu.RLock()
	subs := t.subs
	t.subMu.RUnlock()

	for _, s := range subs {
		s.fn(ctx, gen)
	}
}
