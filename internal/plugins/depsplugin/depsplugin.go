// Package depsplugin materialises a task's pre_deps/post_deps lists into
// graph edges, allocating CommandNodes for inline entries.
package depsplugin

import (
	"fmt"

	"github.com/bodo-run/bodo/internal/graph"
	"github.com/bodo-run/bodo/internal/pluginapi"
)

const Priority = 100

// Plugin implements pluginapi.Plugin for the pre/post-dependency resolver.
type Plugin struct {
	pluginapi.BasePlugin
}

func New() *Plugin { return &Plugin{} }

func (p *Plugin) Name() string  { return "deps" }
func (p *Plugin) Priority() int { return Priority }

// OnGraphBuild walks every TaskNode present at the time it runs (it does
// not see groups the concurrent plugin introduces, since it runs first at
// a higher priority, before concurrency resolution and before any pre/post
// edges on synthesised command nodes would matter).
func (p *Plugin) OnGraphBuild(g *graph.Graph) error {
	// Snapshot the task count: resolving deps may append CommandNodes, and
	// those never carry their own pre/post deps.
	n := len(g.Nodes)
	for id := 0; id < n; id++ {
		node := g.Nodes[id]
		if node.Kind != graph.KindTask {
			continue
		}

		for _, dep := range node.Task.PreDeps {
			depID, err := resolve(g, dep)
			if err != nil {
				return fmt.Errorf("task %q pre_deps: %w", node.Task.Name, err)
			}
			if err := g.AddEdge(depID, node.ID); err != nil {
				return err
			}
		}

		for _, dep := range node.Task.PostDeps {
			depID, err := resolve(g, dep)
			if err != nil {
				return fmt.Errorf("task %q post_deps: %w", node.Task.Name, err)
			}
			if err := g.AddTypedEdge(node.ID, depID, graph.EdgePostDep); err != nil {
				return err
			}
		}
	}
	return nil
}

func resolve(g *graph.Graph, dep graph.DependencyRef) (int, error) {
	if dep.IsTask() {
		id, ok := g.FindTask(dep.Task)
		if !ok {
			return 0, fmt.Errorf("unknown task dependency %q", dep.Task)
		}
		return id, nil
	}
	n := g.AddCommandNode(&graph.CommandNode{RawCommand: dep.Command})
	return n.ID, nil
}
