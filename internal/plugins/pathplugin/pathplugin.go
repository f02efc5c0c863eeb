// Package pathplugin computes each node's effective PATH from its working
// directory, global default paths, and node-local exec_paths.
package pathplugin

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/bodo-run/bodo/internal/graph"
	"github.com/bodo-run/bodo/internal/pluginapi"
)

const Priority = 85

// Plugin implements pluginapi.Plugin for PATH composition.
type Plugin struct {
	pluginapi.BasePlugin
	defaultPaths []string
	preservePath bool
}

func New() *Plugin { return &Plugin{} }

func (p *Plugin) Name() string  { return "path" }
func (p *Plugin) Priority() int { return Priority }

func (p *Plugin) OnInit(opts pluginapi.Options) error {
	if opts == nil {
		return nil
	}
	if dp, ok := opts["default_paths"].([]string); ok {
		p.defaultPaths = dp
	}
	if preserve, ok := opts["preserve_path"].(bool); ok {
		p.preservePath = preserve
	}
	return nil
}

func (p *Plugin) OnGraphBuild(g *graph.Graph) error {
	for _, node := range g.Nodes {
		switch node.Kind {
		case graph.KindTask:
			node.SetMeta("env.PATH", p.compose(node.Task.WorkingDir, node.Task.ExecPaths))
		case graph.KindCommand:
			node.SetMeta("env.PATH", p.compose(node.Command.WorkingDir, nil))
		}
	}
	return nil
}

func (p *Plugin) compose(workingDir string, execPaths []string) string {
	var parts []string
	if workingDir != "" {
		parts = append(parts, workingDir)
	}
	parts = append(parts, p.defaultPaths...)
	parts = append(parts, execPaths...)
	if p.preservePath {
		if inherited := os.Getenv("PATH"); inherited != "" {
			parts = append(parts, inherited)
		}
	}
	return strings.Join(dedup(parts), string(os.PathListSeparator))
}

func dedup(paths []string) []string {
	seen := make(map[string]bool, len(paths))
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		clean := filepath.Clean(p)
		if seen[clean] {
			continue
		}
		seen[clean] = true
		out = append(out, p)
	}
	return out
}
