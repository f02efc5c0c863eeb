package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/bodo-run/bodo/internal/bodo"
	"github.com/bodo-run/bodo/internal/scriptconfig"
)

// runList prints every registered task's name and description. Anything
// fancier (columns, colors, grouping by script file) is the "--list
// rendering" spec.md names as an explicit Non-goal.
func runList(cmd *cobra.Command, cfg scriptconfig.TopLevelConfig) error {
	tasks, err := bodo.ListTasks(".", cfg)
	if err != nil {
		return err
	}

	sort.Slice(tasks, func(i, j int) bool { return tasks[i].Name < tasks[j].Name })

	out := cmd.OutOrStdout()
	for _, t := range tasks {
		if t.Description != "" {
			fmt.Fprintf(out, "%s\t%s\n", t.Name, t.Description)
		} else {
			fmt.Fprintln(out, t.Name)
		}
	}
	return nil
}
