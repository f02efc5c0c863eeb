// Package loader turns a top-level configuration plus its script files
// into a populated, but not yet resolved, graph.Graph: parsing YAML,
// validating tasks, merging env/exec_paths by scope, and interning every
// task/default_task as a graph.TaskNode under its qualified registry name.
package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/bodo-run/bodo/internal/graph"
	"github.com/bodo-run/bodo/internal/scriptconfig"
	bodoerrors "github.com/bodo-run/bodo/pkg/errors"
)

// Options configures a Load call.
type Options struct {
	// BaseDir anchors RootScript and ScriptsDirs. Defaults to the current
	// working directory when empty.
	BaseDir string
	// Config is the parsed top-level configuration. If RootScript is set,
	// that file is read and used as the root script instead of Config's
	// own inline tasks/default_task. Config's env and exec_paths are
	// applied as the global scope either way.
	Config scriptconfig.TopLevelConfig
}

// Load parses the root script and every scripts_dirs entry, validates each
// task, merges scoped env/exec_paths, and interns every task as a
// graph.TaskNode registered under its qualified name.
func Load(opts Options) (*graph.Graph, error) {
	baseDir := opts.BaseDir
	if baseDir == "" {
		baseDir = "."
	}

	g := graph.New()

	rootFile, rootDisplay, err := resolveRootScript(baseDir, opts.Config)
	if err != nil {
		return nil, err
	}

	if err := internScript(g, rootFile, scriptRef{id: "root", display: rootDisplay, isRoot: true}, opts.Config.Env, opts.Config.ExecPaths); err != nil {
		return nil, err
	}

	for _, dir := range opts.Config.ScriptsDirs {
		files, err := discoverScriptFiles(baseDir, dir)
		if err != nil {
			return nil, bodoerrors.NewParseError("scripts directory", dir, err)
		}
		for _, df := range files {
			sf, err := parseScriptFile(filepath.Join(baseDir, df.RelPath), "script file")
			if err != nil {
				return nil, err
			}
			ref := scriptRef{id: df.RelPath, display: df.DisplayName, isRoot: false}
			if err := internScript(g, sf, ref, opts.Config.Env, opts.Config.ExecPaths); err != nil {
				return nil, err
			}
		}
	}

	return g, nil
}

// resolveRootScript returns the ScriptFile to treat as the root, along with
// its display name (empty for the root, since root tasks register under
// their plain name).
func resolveRootScript(baseDir string, cfg scriptconfig.TopLevelConfig) (scriptconfig.ScriptFile, string, error) {
	if cfg.RootScript == "" {
		return cfg.ScriptFile, "", nil
	}
	sf, err := parseScriptFile(filepath.Join(baseDir, cfg.RootScript), "root script")
	if err != nil {
		return scriptconfig.ScriptFile{}, "", err
	}
	return sf, "", nil
}

func parseScriptFile(path, scope string) (scriptconfig.ScriptFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return scriptconfig.ScriptFile{}, bodoerrors.NewParseError(scope, path, err)
	}

	var sf scriptconfig.ScriptFile
	if err := yaml.Unmarshal(data, &sf); err != nil {
		return scriptconfig.ScriptFile{}, bodoerrors.NewParseError(scope, path, err)
	}
	return sf, nil
}

// scriptRef identifies one script file's contribution to the graph.
type scriptRef struct {
	id      string
	display string
	isRoot  bool
}

func internScript(g *graph.Graph, sf scriptconfig.ScriptFile, ref scriptRef, globalEnv map[string]string, globalExecPaths []string) error {
	tasks := make(map[string]scriptconfig.TaskConfig, len(sf.Tasks)+1)
	for name, cfg := range sf.Tasks {
		tasks[name] = cfg
	}
	if sf.DefaultTask != nil {
		tasks["default"] = *sf.DefaultTask
	}

	names := make([]string, 0, len(tasks))
	for name := range tasks {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		cfg := tasks[name]
		if err := scriptconfig.ValidateTask(name, cfg); err != nil {
			return err
		}

		node := g.AddTaskNode(&graph.TaskNode{
			Name:              name,
			Description:       cfg.Description,
			Command:           cfg.Command,
			WorkingDir:        cfg.WorkingDir,
			Arguments:         convertArguments(cfg.Arguments),
			Env:               mergeEnv(globalEnv, sf.Env, cfg.Env),
			ExecPaths:         mergeExecPaths(globalExecPaths, sf.ExecPaths, cfg.ExecPaths),
			Watch:             convertWatch(cfg.Watch),
			PreDeps:           convertDeps(cfg.PreDeps),
			PostDeps:          convertDeps(cfg.PostDeps),
			Concurrently:      convertDeps(cfg.Concurrently),
			ConcurrentOptions: convertConcurrentOptions(cfg.ConcurrentlyOptions),
			Timeout:           cfg.Timeout,
			Silent:            cfg.Silent,
			ScriptID:          ref.id,
			ScriptDisplayName: ref.display,
			IsDefault:         name == "default",
		})

		qualified := name
		if !ref.isRoot {
			qualified = fmt.Sprintf("%s %s", ref.display, name)
		}
		if err := g.RegisterTask(qualified, node.ID); err != nil {
			return err
		}
	}

	return nil
}

func convertArguments(args []scriptconfig.Argument) []graph.Argument {
	if args == nil {
		return nil
	}
	out := make([]graph.Argument, len(args))
	for i, a := range args {
		out[i] = graph.Argument{
			Name:        a.Name,
			Description: a.Description,
			Required:    a.Required,
			Default:     a.Default,
		}
	}
	return out
}

func convertDeps(deps []scriptconfig.Dependency) []graph.DependencyRef {
	if deps == nil {
		return nil
	}
	out := make([]graph.DependencyRef, len(deps))
	for i, d := range deps {
		out[i] = graph.DependencyRef{Task: d.Task, Command: d.Command}
	}
	return out
}

func convertWatch(w *scriptconfig.WatchConfig) *graph.WatchSpec {
	if w == nil {
		return nil
	}
	return &graph.WatchSpec{
		Patterns:       w.Patterns,
		IgnorePatterns: w.IgnorePatterns,
		DebounceMs:     w.DebounceMs,
		AutoWatch:      w.AutoWatch,
	}
}

func convertConcurrentOptions(o *scriptconfig.ConcurrentlyOptions) graph.ConcurrentOptions {
	if o == nil {
		return graph.ConcurrentOptions{}
	}
	return graph.ConcurrentOptions{
		FailFast:      o.FailFast,
		MaxConcurrent: o.MaxConcurrent,
		PrefixOutput:  o.PrefixOutput,
	}
}
