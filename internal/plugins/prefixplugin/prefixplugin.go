// Package prefixplugin annotates a concurrent group's children with the
// prefix label and round-robin colour the process manager uses when
// multiplexing their output.
package prefixplugin

import (
	"github.com/bodo-run/bodo/internal/graph"
	"github.com/bodo-run/bodo/internal/pluginapi"
)

const Priority = 92

// palette is the six-colour round-robin rotation used for unlabelled
// concurrent children; it is intentionally smaller than the process
// manager's full 8+8 ANSI set, matching spec.md's "fixed six-colour
// palette" for this specific annotation.
var palette = []string{"cyan", "magenta", "yellow", "green", "blue", "red"}

// Plugin implements pluginapi.Plugin for prefix/colour annotation.
type Plugin struct {
	pluginapi.BasePlugin
}

func New() *Plugin { return &Plugin{} }

func (p *Plugin) Name() string  { return "prefix" }
func (p *Plugin) Priority() int { return Priority }

func (p *Plugin) OnGraphBuild(g *graph.Graph) error {
	for _, node := range g.Nodes {
		if node.Kind != graph.KindConcurrentGroup || !node.MetaBool("prefix_output") {
			continue
		}
		for i, childID := range node.Group.Children {
			child := g.Nodes[childID]
			child.SetMeta("prefix_enabled", true)
			child.SetMeta("prefix_label", child.DisplayName())
			child.SetMeta("prefix_color", palette[i%len(palette)])
		}
	}
	return nil
}
