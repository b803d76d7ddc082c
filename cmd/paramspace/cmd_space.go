package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/paramspace/label"
	"github.com/katalvlaran/paramspace/sampler"
	"github.com/katalvlaran/paramspace/space"
)

func (a *app) labelCmd() *cobra.Command {
	var root string
	cmd := &cobra.Command{
		Use:   "label SPACE.yaml",
		Short: "Print the label, path and expression of every variable",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.loadLabeled(args[0], a.root(cmd, root))
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, e := range res.Entries {
				fmt.Fprintf(out, "%s\t%s\t%s\n", e.Label, e.Path, e.Param)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&root, "root", "", "root path prefixed to every label")

	return cmd
}

func (a *app) describeCmd() *cobra.Command {
	var (
		root  string
		split bool
	)
	cmd := &cobra.Command{
		Use:   "describe SPACE.yaml",
		Short: "Print the space as an engine-neutral call tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.loadLabeled(args[0], a.root(cmd, root))
			if err != nil {
				return err
			}
			var opts []sampler.Option
			if split {
				opts = append(opts, sampler.WithSplitClassKeys())
			}
			opts = append(opts, sampler.WithLogger(a.logger))

			rep, err := sampler.Describe(res.Tree, opts...)
			if err != nil {
				return err
			}
			return writeYAML(cmd.OutOrStdout(), rep)
		},
	}
	cmd.Flags().StringVar(&root, "root", "", "root path prefixed to every label")
	cmd.Flags().BoolVar(&split, "split-class-keys", false, "emit __module__/__name__ instead of __class__")

	return cmd
}

func (a *app) assignCmd() *cobra.Command {
	var root string
	cmd := &cobra.Command{
		Use:   "assign SPACE.yaml VALUES.yaml",
		Short: "Evaluate the space at a label -> value point",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.loadLabeled(args[0], a.root(cmd, root))
			if err != nil {
				return err
			}
			values, err := readValues(args[1])
			if err != nil {
				return err
			}
			tree, err := sampler.Assign(res.Tree, values, sampler.WithLogger(a.logger))
			if err != nil {
				return err
			}
			return writeYAML(cmd.OutOrStdout(), tree)
		},
	}
	cmd.Flags().StringVar(&root, "root", "", "root path prefixed to every label")

	return cmd
}

// root returns the --root flag when set, the configured root otherwise.
func (a *app) root(cmd *cobra.Command, flag string) string {
	if cmd.Flags().Changed("root") {
		return flag
	}
	return a.cfg.Root
}

func (a *app) loadLabeled(path, root string) (*label.Result, error) {
	tree, err := space.Load(path)
	if err != nil {
		return nil, err
	}
	return label.Label(tree, label.WithRootPath(root))
}

// readValues reads a label -> value mapping.
func readValues(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read values: %w", err)
	}
	values := map[string]any{}
	if err := yaml.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("parse values %s: %w", path, err)
	}
	return values, nil
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}
