// Package envplugin fills in global environment defaults on nodes that
// don't already set them. It never overrides values already present —
// those were set with higher precedence during script loading.
package envplugin

import (
	"github.com/bodo-run/bodo/internal/graph"
	"github.com/bodo-run/bodo/internal/pluginapi"
)

const Priority = 90

// Plugin implements pluginapi.Plugin for global environment defaulting.
type Plugin struct {
	pluginapi.BasePlugin
	globalEnv map[string]string
}

func New() *Plugin { return &Plugin{} }

func (p *Plugin) Name() string  { return "env" }
func (p *Plugin) Priority() int { return Priority }

func (p *Plugin) OnInit(opts pluginapi.Options) error {
	if opts == nil {
		return nil
	}
	if env, ok := opts["env"].(map[string]string); ok {
		p.globalEnv = env
	}
	return nil
}

func (p *Plugin) OnGraphBuild(g *graph.Graph) error {
	if len(p.globalEnv) == 0 {
		return nil
	}
	for _, node := range g.Nodes {
		switch node.Kind {
		case graph.KindTask:
			fillMissing(&node.Task.Env, p.globalEnv)
		case graph.KindCommand:
			fillMissing(&node.Command.Env, p.globalEnv)
		}
	}
	return nil
}

func fillMissing(env *map[string]string, global map[string]string) {
	if *env == nil {
		*env = make(map[string]string)
	}
	for k, v := range global {
		if _, exists := (*env)[k]; !exists {
			(*env)[k] = v
		}
	}
}
