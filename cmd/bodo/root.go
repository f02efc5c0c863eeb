package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/bodo-run/bodo/internal/bodo"
	"github.com/bodo-run/bodo/internal/logging"
)

type rootFlags struct {
	config    string
	list      bool
	watch     bool
	autoWatch bool
	noWatch   bool
	debug     bool
	dryRun    bool
}

// newRootCmd builds the single bodo command: `bodo [task] [subtask] [args...]`.
// There is deliberately no per-verb sub-command tree here — spec.md's CLI
// surface is one structured request, not a set of distinct operations.
func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:           "bodo [task] [subtask] [args...]",
		Short:         "bodo runs declaratively defined tasks and their dependency graphs",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if flags.noWatch {
				if err := os.Setenv("BODO_NO_WATCH", "1"); err != nil {
					return err
				}
			}

			cfg, err := loadConfig(flags.config)
			if err != nil {
				return err
			}

			if flags.list {
				return runList(cmd, cfg)
			}

			level := "info"
			if flags.debug {
				level = "debug"
			}
			runLogger, err := logging.New(logging.Options{Level: level, Component: "run"})
			if err != nil {
				return err
			}

			var taskName, subtask string
			var taskArgs []string
			if len(args) > 0 {
				taskName = args[0]
			}
			if len(args) > 1 {
				subtask = args[1]
			}
			if len(args) > 2 {
				taskArgs = args[2:]
			}

			return bodo.Run(bodo.Request{
				Ctx:          cmd.Context(),
				BaseDir:      ".",
				Config:       cfg,
				Task:         taskName,
				Subtask:      subtask,
				Args:         taskArgs,
				Watch:        flags.watch,
				AutoWatch:    flags.autoWatch,
				Debug:        flags.debug,
				DryRun:       flags.dryRun,
				PreservePath: true,
				Logger:       runLogger,
			})
		},
	}

	cmd.PersistentFlags().StringVarP(&flags.config, "config", "c", "", "path to the top-level bodo config file")
	cmd.Flags().BoolVarP(&flags.list, "list", "l", false, "list available tasks and exit")
	cmd.Flags().BoolVarP(&flags.watch, "watch", "w", false, "run in watch mode, re-running on qualifying file changes")
	cmd.Flags().BoolVar(&flags.autoWatch, "auto-watch", false, "treat every task that has a watch spec as auto_watch")
	cmd.Flags().BoolVar(&flags.noWatch, "no-watch", false, "disable watch mode even if a task requests auto_watch")
	cmd.Flags().BoolVar(&flags.debug, "debug", false, "enable debug-level logging")
	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "resolve the task graph without spawning any process")

	return cmd
}
