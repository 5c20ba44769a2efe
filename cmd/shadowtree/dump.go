package main

import (
	"github.com/spf13/cobra"

	"github.com/vango-dev/shadowtree/internal/config"
	"github.com/vango-dev/shadowtree/pkg/blueprint"
	"github.com/vango-dev/shadowtree/pkg/inspect"
	"github.com/vango-dev/shadowtree/pkg/shadow"
)

func dumpCmd(load func() (*config.Config, error)) *cobra.Command {
	var (
		format  string
		rootTag int32
	)

	cmd := &cobra.Command{
		Use:   "dump FILE",
		Short: "Print the tree described by a blueprint",
		Long: `Build the tree described by a YAML blueprint, seal it, and print it.

Examples:
  shadowtree dump screen.yaml
  shadowtree dump screen.yaml --format=json
  shadowtree dump screen.yaml --root-tag=11`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := inspect.ParseFormat(format)
			if err != nil {
				return err
			}
			cfg, err := load()
			if err != nil {
				return err
			}
			bp, err := blueprint.Load(args[0])
			if err != nil {
				return err
			}
			if rootTag == 0 && bp.RootTag == 0 {
				rootTag = cfg.Tree.RootTag
			}
			root, err := bp.Build(shadow.Tag(rootTag))
			if err != nil {
				return err
			}
			root.SealRecursive()
			return inspect.Encode(cmd.OutOrStdout(), inspect.Capture(root), f)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "text", "Output format (text, json, yaml)")
	cmd.Flags().Int32Var(&rootTag, "root-tag", 0, "Root tag (default from blueprint, then config)")

	return cmd
}
