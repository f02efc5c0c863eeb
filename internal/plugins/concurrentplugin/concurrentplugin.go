// Package concurrentplugin materialises a task's concurrently list into a
// ConcurrentGroup node and edges, the redesigned behaviour for a feature
// the original implementation only stubbed out.
package concurrentplugin

import (
	"fmt"

	"github.com/bodo-run/bodo/internal/graph"
	"github.com/bodo-run/bodo/internal/pluginapi"
)

const Priority = 95

// Plugin implements pluginapi.Plugin for concurrent-group materialisation.
type Plugin struct {
	pluginapi.BasePlugin
}

func New() *Plugin { return &Plugin{} }

func (p *Plugin) Name() string  { return "concurrent" }
func (p *Plugin) Priority() int { return Priority }

func (p *Plugin) OnGraphBuild(g *graph.Graph) error {
	n := len(g.Nodes)
	for id := 0; id < n; id++ {
		node := g.Nodes[id]
		if node.Kind != graph.KindTask || len(node.Task.Concurrently) == 0 {
			continue
		}

		failFast := true
		if node.Task.ConcurrentOptions.FailFast != nil {
			failFast = *node.Task.ConcurrentOptions.FailFast
		}

		group := g.AddConcurrentGroupNode(&graph.ConcurrentGroup{
			FailFast:      failFast,
			MaxConcurrent: node.Task.ConcurrentOptions.MaxConcurrent,
		})
		group.SetMeta("prefix_output", node.Task.ConcurrentOptions.PrefixOutput)

		if err := g.AddTypedEdge(node.ID, group.ID, graph.EdgeConcurrent); err != nil {
			return err
		}

		for _, dep := range node.Task.Concurrently {
			childID, err := resolveChild(g, dep)
			if err != nil {
				return fmt.Errorf("task %q concurrently: %w", node.Task.Name, err)
			}
			group.Group.Children = append(group.Group.Children, childID)
			if err := g.AddEdge(group.ID, childID); err != nil {
				return err
			}
		}
	}
	return nil
}

func resolveChild(g *graph.Graph, dep graph.DependencyRef) (int, error) {
	if dep.IsTask() {
		id, ok := g.FindTaskWithFallback(dep.Task)
		if !ok {
			return 0, fmt.Errorf("unknown task reference %q", dep.Task)
		}
		return id, nil
	}
	n := g.AddCommandNode(&graph.CommandNode{RawCommand: dep.Command})
	return n.ID, nil
}
