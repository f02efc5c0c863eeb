// Package timeoutplugin parses each task's human-readable timeout string
// into whole seconds of metadata the execution plugin applies to a spawn.
package timeoutplugin

import (
	"fmt"
	"time"

	"github.com/bodo-run/bodo/internal/graph"
	"github.com/bodo-run/bodo/internal/pluginapi"
)

const Priority = 75

// Plugin implements pluginapi.Plugin for timeout parsing.
type Plugin struct {
	pluginapi.BasePlugin
}

func New() *Plugin { return &Plugin{} }

func (p *Plugin) Name() string  { return "timeout" }
func (p *Plugin) Priority() int { return Priority }

func (p *Plugin) OnGraphBuild(g *graph.Graph) error {
	for _, node := range g.Nodes {
		if node.Kind != graph.KindTask || node.Task.Timeout == "" {
			continue
		}
		d, err := time.ParseDuration(node.Task.Timeout)
		if err != nil {
			return fmt.Errorf("task %q timeout %q: %w", node.Task.Name, node.Task.Timeout, err)
		}
		node.SetMeta("timeout_seconds", int(d.Seconds()))
	}
	return nil
}
