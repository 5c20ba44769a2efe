package inspect

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vango-dev/shadowtree/internal/errors"
	"github.com/vango-dev/shadowtree/pkg/commit"
	"github.com/vango-dev/shadowtree/pkg/shadow"
)

// Source supplies committed generations. *commit.Tree implements it.
type Source interface {
	Current() *commit.Generation
	Subscribe(fn commit.Subscriber) (unsubscribe func())
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithGatherer sets the registry served on /metrics.
// Default: prometheus.DefaultGatherer.
func WithGatherer(gatherer prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = gatherer
	}
}

// WithCheckOrigin sets the WebSocket origin check. Default: allow all.
func WithCheckOrigin(fn func(r *http.Request) bool) Option {
	return func(s *Server) {
		s.checkOrigin = fn
	}
}

// Server serves the inspector HTTP API.
type Server struct {
	source      Source
	logger      *slog.Logger
	gatherer    prometheus.Gatherer
	checkOrigin func(*http.Request) bool

	router      chi.Router
	stream      *stream
	unsubscribe func()
}

// NewServer creates a server over source and subscribes to its commits.
// Call Close to unsubscribe.
func NewServer(source Source, opts ...Option) *Server {
	s := &Server{
		source:      source,
		logger:      slog.Default(),
		gatherer:    prometheus.DefaultGatherer,
		checkOrigin: func(*http.Request) bool { return true },
	}
	for _, opt := range opts {
		opt(s)
	}
	s.stream = newStream(s.logger, s.checkOrigin)
	s.router = s.routes()
	s.unsubscribe = source.Subscribe(func(_ context.Context, gen *commit.Generation) {
		if s.stream.clientCount() == 0 {
			return
		}
		s.stream.broadcast(CaptureGeneration(gen))
	})
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/health", s.handleHealth)
	r.Get("/tree", s.handleTree)
	r.Get("/tree/{tag}", s.handleSubtree)
	r.Get("/tree/{tag}/ancestors", s.handleAncestors)
	r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	r.Get("/ws", s.handleStream)
	return r
}

// Handler returns the server's HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("inspector listen: %w", err)
	}
	return s.Serve(ctx, listener)
}

// Serve serves on listener until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("inspector listening", "addr", listener.Addr().String())
		errCh <- srv.Serve(listener)
	}()

	select {
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.stream.close()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("inspector shutdown: %w", err)
	}
	return nil
}

// Close unsubscribes from the source and disconnects stream clients.
func (s *Server) Close() {
	s.unsubscribe()
	s.stream.close()
}

// handleHealth returns a simple health check response.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

func (s *Server) handleTree(w http.ResponseWriter, r *http.Request) {
	gen, ok := s.current(w, r)
	if !ok {
		return
	}
	s.respond(w, r, CaptureGeneration(gen))
}

func (s *Server) handleSubtree(w http.ResponseWriter, r *http.Request) {
	_, node, ok := s.lookup(w, r)
	if !ok {
		return
	}
	s.respond(w, r, Capture(node))
}

func (s *Server) handleAncestors(w http.ResponseWriter, r *http.Request) {
	gen, node, ok := s.lookup(w, r)
	if !ok {
		return
	}
	path, _ := node.AncestorPath(gen.Root)
	refs := make([]NodeRef, len(path))
	for i, n := range path {
		refs[i] = Ref(n)
	}
	s.respond(w, r, refs)
}

func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	var initial *GenerationSnapshot
	if gen := s.source.Current(); gen != nil {
		initial = CaptureGeneration(gen)
	}
	s.stream.serve(w, r, initial)
}

func (s *Server) current(w http.ResponseWriter, r *http.Request) (*commit.Generation, bool) {
	gen := s.source.Current()
	if gen == nil {
		writeError(w, r, http.StatusServiceUnavailable, errors.New(errors.CodeNoGeneration))
		return nil, false
	}
	return gen, true
}

func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (*commit.Generation, *shadow.Node, bool) {
	tag, err := strconv.ParseInt(chi.URLParam(r, "tag"), 10, 32)
	if err != nil || tag <= 0 {
		http.Error(w, "invalid tag", http.StatusBadRequest)
		return nil, nil, false
	}
	gen, ok := s.current(w, r)
	if !ok {
		return nil, nil, false
	}
	node, ok := gen.Lookup(shadow.Tag(tag))
	if !ok {
		writeError(w, r, http.StatusNotFound, errors.New(errors.CodeNodeNotFound).WithTag(int32(tag)))
		return nil, nil, false
	}
	return gen, node, true
}

func (s *Server) respond(w http.ResponseWriter, r *http.Request, v any) {
	format := FormatJSON
	if q := r.URL.Query().Get("format"); q != "" {
		f, err := ParseFormat(q)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		format = f
	}
	w.Header().Set("Content-Type", format.ContentType())
	if err := Encode(w, v, format); err != nil {
		s.logger.Warn("inspector encode failed", "path", r.URL.Path, "error", err)
	}
}

// writeError writes err as JSON, or as a single line when the request asks
// for text.
func writeError(w http.ResponseWriter, r *http.Request, status int, err *errors.TreeError) {
	q := r.URL.Query().Get("format")
	if f, perr := ParseFormat(q); q != "" && perr == nil && f == FormatText {
		w.Header().Set("Content-Type", FormatText.ContentType())
		w.WriteHeader(status)
		w.Write([]byte(err.FormatCompact() + "\n"))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write([]byte(err.FormatJSON()))
}
