package main

import (
	"os"
	"os/signal"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/you-not-fish/tyexpr/internal/batch"
	"github.com/you-not-fish/tyexpr/internal/render"
)

func newCheckCmd(o *rootOptions) *cobra.Command {
	var (
		jobs  int
		watch bool
	)

	cmd := &cobra.Command{
		Use:   "check [flags] <file>",
		Short: "Parse every expression in a file",
		Long: `check parses each line of a file as a type expression. Blank lines
and lines starting with # are skipped. Every expression is reported as ok
with its canonical form, or with its error position and message.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := o.setup(cmd)
			if err != nil {
				return err
			}

			path := args[0]
			out := cmd.OutOrStdout()
			st := render.NewStyles(out, render.ColorMode(cfg.Output.Color))
			opts := batch.Options{Jobs: jobs, MaxDepth: cfg.MaxDepth, Logger: log}

			if watch {
				ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
				defer stop()
				return batch.Watch(ctx, path, opts, func(results []batch.Result, err error) {
					if err != nil {
						log.Error("check failed", "path", path, "err", err)
						return
					}
					if _, err := batch.Report(out, path, results, st); err != nil {
						log.Error("writing report", "err", err)
					}
				})
			}

			results, err := batch.CheckFile(cmd.Context(), path, opts)
			if err != nil {
				return err
			}
			failed, err := batch.Report(out, path, results, st)
			if err != nil {
				return err
			}
			if failed > 0 {
				return errFailed
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&jobs, "jobs", "j", runtime.NumCPU(), "number of expressions parsed in parallel")
	cmd.Flags().BoolVar(&watch, "watch", false, "check again whenever the file changes")
	return cmd
}
