package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"

	"github.com/vango-dev/shadowtree/internal/config"
	"github.com/vango-dev/shadowtree/pkg/archive"
	"github.com/vango-dev/shadowtree/pkg/blueprint"
	treecommit "github.com/vango-dev/shadowtree/pkg/commit"
	"github.com/vango-dev/shadowtree/pkg/inspect"
	"github.com/vango-dev/shadowtree/pkg/metrics"
	"github.com/vango-dev/shadowtree/pkg/shadow"
)

func serveCmd(load func() (*config.Config, error)) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve FILE",
		Short: "Commit a blueprint and serve it through the inspector",
		Long: `Commit the tree described by a YAML blueprint and serve the inspector
until interrupted. Sending SIGHUP reloads the blueprint and commits it as
the next generation.

Examples:
  shadowtree serve screen.yaml
  shadowtree serve screen.yaml --addr=:9400`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Inspector.Addr = addr
				cfg.Inspector.Enabled = true
			}
			logger := cfg.NewLogger(cmd.ErrOrStderr())

			svc, err := newService(cfg, logger)
			if err != nil {
				return err
			}
			defer svc.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			gen, err := svc.commitFile(ctx, args[0])
			if err != nil {
				return err
			}
			success(cmd.OutOrStdout(), "Committed generation %d (%d nodes)", gen.Number, gen.Len())

			go svc.reloadOnHangup(ctx, args[0])

			if !cfg.Inspector.Enabled {
				<-ctx.Done()
				return nil
			}
			return svc.server.ListenAndServe(ctx, cfg.Inspector.Addr)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Inspector address (default from config)")

	return cmd
}

// service wires a tree to its observers.
type service struct {
	cfg       *config.Config
	logger    *slog.Logger
	tree      *treecommit.Tree
	server    *inspect.Server
	archivers []*archive.Archiver
	restore   func()
}

func newService(cfg *config.Config, logger *slog.Logger) (*service, error) {
	s := &service{cfg: cfg, logger: logger, restore: func() {}}

	registry := prometheus.NewRegistry()
	treeOpts := []treecommit.Option{
		treecommit.WithLogger(logger),
		treecommit.WithTracer(otel.Tracer(cfg.Tracing.TracerName)),
		treecommit.WithMountSignaling(cfg.Tree.MountSignaling),
	}
	if cfg.Metrics.Enabled {
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		collector := metrics.New(
			metrics.WithRegistry(registry),
			metrics.WithNamespace(cfg.Metrics.Namespace),
			metrics.WithSubsystem(cfg.Metrics.Subsystem),
		)
		s.restore = collector.Install()
		treeOpts = append(treeOpts, treecommit.WithMetrics(collector))
	}
	s.tree = treecommit.New(shadow.Tag(cfg.Tree.RootTag), treeOpts...)

	format := inspect.Format(cfg.Archive.Format)
	if dir := cfg.ArchiveDirPath(); dir != "" {
		sink, err := archive.NewFileSink(dir, format)
		if err != nil {
			s.Close()
			return nil, err
		}
		s.addArchiver(sink)
		logger.Info("archiving snapshots", "dir", dir)
	}
	if s3cfg := cfg.Archive.S3; s3cfg.Bucket != "" {
		client := archive.NewS3Client(s3cfg.Region)
		s.addArchiver(archive.NewS3Sink(client, s3cfg.Bucket, s3cfg.Prefix, format))
		logger.Info("archiving snapshots", "bucket", s3cfg.Bucket, "prefix", s3cfg.Prefix)
	}

	s.server = inspect.NewServer(s.tree,
		inspect.WithLogger(logger),
		inspect.WithGatherer(registry),
	)
	return s, nil
}

func (s *service) addArchiver(sink archive.Sink) {
	a := archive.NewArchiver(sink, s.logger, s.cfg.Archive.QueueSize)
	s.tree.Subscribe(a.Subscriber())
	s.archivers = append(s.archivers, a)
}

// commitFile builds the blueprint at path and commits it.
func (s *service) commitFile(ctx context.Context, path string) (*treecommit.Generation, error) {
	bp, err := blueprint.Load(path)
	if err != nil {
		return nil, err
	}
	root, err := bp.Build(s.tree.RootTag())
	if err != nil {
		return nil, err
	}
	return s.tree.Commit(ctx, root)
}

func (s *service) reloadOnHangup(ctx context.Context, path string) {
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)

	for {
		select {
		case <-ctx.Done():
			return
		case <-hup:
			gen, err := s.commitFile(ctx, path)
			if err != nil {
				s.logger.Error("reload failed", "path", path, "error", err)
				continue
			}
			s.logger.Info("blueprint reloaded", "path", path, "generation", gen.Number)
		}
	}
}

// Close stops the inspector subscription, flushes archivers, and restores
// the previous tree observer.
func (s *service) Close() {
	if s.server != nil {
		s.server.Close()
	}
	if s.tree != nil {
		s.tree.Unmount()
	}
	for _, a := range s.archivers {
		a.Close()
	}
	s.restore()
}
