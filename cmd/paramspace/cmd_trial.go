package main

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/paramspace/sampler"
	"github.com/katalvlaran/paramspace/trial"
)

func (a *app) trialCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trial",
		Short: "Manage evaluated points in the trial store",
	}
	cmd.AddCommand(a.trialPutCmd(), a.trialGetCmd(), a.trialListCmd(), a.trialDeleteCmd())

	return cmd
}

// withStore opens the configured store around fn.
func (a *app) withStore(fn func(s *trial.Store) error) error {
	s, err := trial.Open(a.cfg.Store)
	if err != nil {
		return err
	}
	defer closeLogged(a.logger, "trial store", s)
	return fn(s)
}

// closeLogged closes c and logs a failure; the command's own error wins.
func closeLogged(logger *slog.Logger, what string, c io.Closer) {
	if err := c.Close(); err != nil {
		logger.Warn("close failed", slog.String("resource", what), slog.Any("error", err))
	}
}

func (a *app) trialPutCmd() *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "put SPACE.yaml VALUES.yaml",
		Short: "Evaluate the space at a point and store the result",
		Long: `put labels SPACE under the parameter name (--name, else the configured
root, else the file name without extension), evaluates it at VALUES and
stores both the point and the value tree. It prints the new trial ID.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("name") {
				name = a.cfg.Root
			}
			if name == "" {
				name = strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
			}

			res, err := a.loadLabeled(args[0], name)
			if err != nil {
				return err
			}
			values, err := readValues(args[1])
			if err != nil {
				return err
			}
			tree, err := sampler.Assign(res.Tree, values)
			if err != nil {
				return err
			}

			t := trial.New(name, values, map[string]any{name: tree})
			err = a.withStore(func(s *trial.Store) error { return s.Put(cmd.Context(), t) })
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), t.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "parameter name used as the label root")

	return cmd
}

func (a *app) trialGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get ID",
		Short: "Print a stored trial",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(func(s *trial.Store) error {
				t, err := s.Get(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return writeYAML(cmd.OutOrStdout(), t)
			})
		},
	}
}

func (a *app) trialListCmd() *cobra.Command {
	var spaceName string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored trials, oldest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withStore(func(s *trial.Store) error {
				trials, err := s.List(cmd.Context(), spaceName)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				for _, t := range trials {
					fmt.Fprintf(out, "%s\t%s\t%s\n", t.ID, t.Space, t.Created.Format(time.RFC3339))
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&spaceName, "space", "", "only list trials of this space")

	return cmd
}

func (a *app) trialDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a stored trial",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(func(s *trial.Store) error {
				return s.Delete(cmd.Context(), args[0])
			})
		},
	}
}
