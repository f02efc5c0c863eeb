// Package bodo wires the loader, the graph, and every resolver/execution
// plugin together behind a single entry point: Run loads the configuration,
// drives the plugin pipeline's lifecycle, and (when the run is in watch
// mode, or a task asked for auto_watch) blocks in the watch plugin's re-run
// loop until its context is cancelled.
package bodo

import (
	"context"

	"github.com/bodo-run/bodo/internal/graph"
	"github.com/bodo-run/bodo/internal/loader"
	"github.com/bodo-run/bodo/internal/logging"
	"github.com/bodo-run/bodo/internal/pluginapi"
	"github.com/bodo-run/bodo/internal/plugins/concurrentplugin"
	"github.com/bodo-run/bodo/internal/plugins/depsplugin"
	"github.com/bodo-run/bodo/internal/plugins/envplugin"
	"github.com/bodo-run/bodo/internal/plugins/execplugin"
	"github.com/bodo-run/bodo/internal/plugins/pathplugin"
	"github.com/bodo-run/bodo/internal/plugins/prefixplugin"
	"github.com/bodo-run/bodo/internal/plugins/timeoutplugin"
	"github.com/bodo-run/bodo/internal/plugins/watchplugin"
	"github.com/bodo-run/bodo/internal/scriptconfig"
)

// Request is one invocation's fully-resolved input: the parsed
// configuration plus the CLI flags and environment steering execution.
type Request struct {
	Ctx context.Context

	BaseDir string
	Config  scriptconfig.TopLevelConfig

	Task    string
	Subtask string
	Args    []string

	Watch        bool
	AutoWatch    bool
	Debug        bool
	DryRun       bool
	PreservePath bool
	DefaultPaths []string

	Logger *logging.Logger
}

// Run loads the script graph from Request.Config and drives every plugin
// through its full lifecycle, returning the first error encountered from
// any stage.
func Run(req Request) error {
	ctx := req.Ctx
	if ctx == nil {
		ctx = context.Background()
	}

	g, err := loader.Load(loader.Options{BaseDir: req.BaseDir, Config: req.Config})
	if err != nil {
		return err
	}

	exec := execplugin.New()

	pipeline := pluginapi.New()
	pipeline.Register(depsplugin.New())
	pipeline.Register(concurrentplugin.New())
	pipeline.Register(prefixplugin.New())
	pipeline.Register(envplugin.New())
	pipeline.Register(pathplugin.New())
	pipeline.Register(timeoutplugin.New())
	pipeline.Register(exec)
	pipeline.Register(watchplugin.New(func(taskName string) error {
		if req.Logger != nil {
			req.Logger.Info("re-running " + taskName)
		}
		return exec.RunTask(g, taskName)
	}))

	opts := map[string]pluginapi.Options{
		"env": {
			"env": req.Config.Env,
		},
		"path": {
			"default_paths": req.DefaultPaths,
			"preserve_path": req.PreservePath,
		},
		"exec": {
			"task":    req.Task,
			"subtask": req.Subtask,
			"args":    req.Args,
			"dry_run": req.DryRun,
		},
		"watch": {
			"watch_mode":         req.Watch,
			"auto_watch_default": req.AutoWatch,
			"ctx":                ctx,
		},
	}

	return pipeline.RunLifecycle(g, opts)
}

// ListTasks loads the graph without running anything, for a --list flag's
// use: every registered task name alongside its description.
func ListTasks(baseDir string, cfg scriptconfig.TopLevelConfig) ([]TaskSummary, error) {
	g, err := loader.Load(loader.Options{BaseDir: baseDir, Config: cfg})
	if err != nil {
		return nil, err
	}

	var out []TaskSummary
	for name, id := range g.TaskRegistry {
		node := g.Nodes[id]
		if node.Kind != graph.KindTask {
			continue
		}
		out = append(out, TaskSummary{Name: name, Description: node.Task.Description})
	}
	return out, nil
}

// TaskSummary is one task's name and description, for listing.
type TaskSummary struct {
	Name        string
	Description string
}
