// Package pluginapi defines the plugin contract and the pipeline that
// drives registered plugins through their lifecycle over a shared graph.
package pluginapi

import (
	"sort"

	"github.com/bodo-run/bodo/internal/graph"
	bodoerrors "github.com/bodo-run/bodo/pkg/errors"
)

// Options is the opaque per-plugin configuration routed to a plugin by
// name during on_init.
type Options map[string]any

// Plugin is a graph transformer with up to four lifecycle hooks. All hooks
// default to no-op via BasePlugin; a plugin embeds it and overrides only
// what it needs.
type Plugin interface {
	Name() string
	Priority() int
	OnInit(opts Options) error
	OnGraphBuild(g *graph.Graph) error
	OnAfterRun(g *graph.Graph) error
	OnRun(nodeID int, g *graph.Graph) error
}

// BasePlugin supplies no-op defaults for every hook; concrete plugins
// embed it and override only the hooks they use.
type BasePlugin struct{}

func (BasePlugin) OnInit(Options) error           { return nil }
func (BasePlugin) OnGraphBuild(*graph.Graph) error { return nil }
func (BasePlugin) OnAfterRun(*graph.Graph) error   { return nil }
func (BasePlugin) OnRun(int, *graph.Graph) error   { return nil }

// Pipeline holds the registered plugin set and drives it through the
// lifecycle described in spec.md §4.3.
type Pipeline struct {
	plugins []Plugin
}

// New returns an empty Pipeline.
func New() *Pipeline {
	return &Pipeline{}
}

// Register adds a plugin. Plugins are re-sorted by descending priority
// (stable on ties) when RunLifecycle executes.
func (p *Pipeline) Register(plugin Plugin) {
	p.plugins = append(p.plugins, plugin)
}

// sorted returns the registered plugins ordered by descending priority,
// stable on ties (registration order is the tiebreak).
func (p *Pipeline) sorted() []Plugin {
	out := make([]Plugin, len(p.plugins))
	copy(out, p.plugins)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Priority() > out[j].Priority()
	})
	return out
}

// RunLifecycle executes on_init, on_graph_build, a cycle check, then
// on_after_run across every registered plugin, stopping at the first
// error.
func (p *Pipeline) RunLifecycle(g *graph.Graph, opts map[string]Options) error {
	plugins := p.sorted()

	for _, plugin := range plugins {
		if err := plugin.OnInit(opts[plugin.Name()]); err != nil {
			return bodoerrors.NewPluginError(plugin.Name(), "on_init", err)
		}
	}

	for _, plugin := range plugins {
		if err := plugin.OnGraphBuild(g); err != nil {
			return bodoerrors.NewPluginError(plugin.Name(), "on_graph_build", err)
		}
	}

	if cycle, found := g.DetectCycle(); found {
		return bodoerrors.NewCycleError(cycleNames(g, cycle))
	}

	for _, plugin := range plugins {
		if err := plugin.OnAfterRun(g); err != nil {
			return bodoerrors.NewPluginError(plugin.Name(), "on_after_run", err)
		}
	}

	return nil
}

func cycleNames(g *graph.Graph, path []int) []string {
	names := make([]string, 0, len(path))
	for _, id := range path {
		if id >= 0 && id < len(g.Nodes) {
			names = append(names, g.Nodes[id].DisplayName())
		}
	}
	return names
}
