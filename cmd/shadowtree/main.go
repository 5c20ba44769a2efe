package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/shadowtree/internal/config"
	"github.com/vango-dev/shadowtree/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		errors.PrintError(err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "shadowtree",
		Short: "Build, inspect, and serve shadow trees",
		Long: `shadowtree works with immutable, versioned UI shadow trees.

Trees are described in YAML blueprints. The CLI can:

  • Dump a blueprint's tree as text, JSON, or YAML
  • Serve a tree through the inspector HTTP API and WebSocket stream
  • Archive every committed generation locally or to S3`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "",
		"Path to "+config.ConfigFileName+" (default: nearest one above the working directory)")

	load := func() (*config.Config, error) {
		return loadConfig(configPath)
	}

	rootCmd.AddCommand(
		dumpCmd(load),
		serveCmd(load),
		versionCmd(),
	)
	return rootCmd
}

// loadConfig loads and validates the configuration at path, or the
// nearest one when path is empty.
func loadConfig(path string) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if path != "" {
		cfg, err = config.LoadFile(path)
	} else {
		cfg, err = config.LoadFromWorkingDir()
	}
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// success prints a success message.
func success(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}
