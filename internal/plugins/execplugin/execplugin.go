// Package execplugin drives the depth-first walk that actually runs a
// selected task: predecessors before the task's own command, a fresh
// Process Manager per concurrent group, and the $NAME environment
// expansion mini-parser applied to every command just before it is spawned.
package execplugin

import (
	"fmt"

	"github.com/bodo-run/bodo/internal/graph"
	"github.com/bodo-run/bodo/internal/pluginapi"
	"github.com/bodo-run/bodo/internal/process"
	bodoerrors "github.com/bodo-run/bodo/pkg/errors"
)

const Priority = 50

// Plugin implements pluginapi.Plugin for task execution.
type Plugin struct {
	pluginapi.BasePlugin

	taskName string
	subtask  string
	args     []string
	dryRun   bool

	rootTaskID int
}

// New returns an execution plugin with no task selected yet; OnInit fills
// that in from the driver's options.
func New() *Plugin {
	return &Plugin{rootTaskID: -1}
}

func (p *Plugin) Name() string  { return "exec" }
func (p *Plugin) Priority() int { return Priority }

// OnInit reads the selected task/subtask/positional-args/dry_run flags out
// of the options the driver assembled from CLI input.
func (p *Plugin) OnInit(opts pluginapi.Options) error {
	if opts == nil {
		return nil
	}
	if v, ok := opts["task"].(string); ok {
		p.taskName = v
	}
	if v, ok := opts["subtask"].(string); ok {
		p.subtask = v
	}
	if v, ok := opts["args"].([]string); ok {
		p.args = v
	}
	if v, ok := opts["dry_run"].(bool); ok {
		p.dryRun = v
	}
	return nil
}

// OnAfterRun resolves the selected task and drives the DFS walk described
// in spec.md §4.5. Dry-run mode resolves and validates the walk's entry
// point but never spawns a process.
func (p *Plugin) OnAfterRun(g *graph.Graph) error {
	name := p.taskName
	if name == "" {
		if _, ok := g.FindTask("default"); !ok {
			return bodoerrors.NewExecutionError("", "select", fmt.Errorf("no task specified and no default_task configured"))
		}
		name = "default"
	}

	id, ok := g.FindTask(name)
	if !ok {
		return bodoerrors.NewExecutionError(name, "select", fmt.Errorf("unknown task %q", name))
	}

	p.rootTaskID = id
	if p.dryRun {
		return nil
	}

	visited := make(map[int]bool, len(g.Nodes))
	return p.runNode(g, id, visited)
}

// RunTask re-drives the DFS walk for a single named task outside the normal
// OnAfterRun lifecycle call, without disturbing the subtask concatenation
// recorded against the original CLI invocation's root task. The watch
// plugin's re-run loop uses this to replay a task when a watched file
// changes.
func (p *Plugin) RunTask(g *graph.Graph, taskName string) error {
	id, ok := g.FindTask(taskName)
	if !ok {
		return bodoerrors.NewExecutionError(taskName, "select", fmt.Errorf("unknown task %q", taskName))
	}

	prevRoot := p.rootTaskID
	prevSubtask := p.subtask
	p.rootTaskID = id
	p.subtask = ""
	defer func() {
		p.rootTaskID = prevRoot
		p.subtask = prevSubtask
	}()

	visited := make(map[int]bool, len(g.Nodes))
	return p.runNode(g, id, visited)
}

func (p *Plugin) runNode(g *graph.Graph, nodeID int, visited map[int]bool) error {
	if visited[nodeID] {
		return nil
	}
	visited[nodeID] = true

	node := g.Nodes[nodeID]
	switch node.Kind {
	case graph.KindTask:
		for _, predID := range g.Predecessors(nodeID) {
			if err := p.runNode(g, predID, visited); err != nil {
				return err
			}
		}

		env, err := p.resolveArguments(node.Task)
		if err != nil {
			return bodoerrors.NewExecutionError(node.Task.Name, "arguments", err)
		}
		if err := p.runCommand(node, node.Task.Command, node.Task.WorkingDir, env); err != nil {
			return err
		}

		// post_deps and the task's own concurrently group are this task's
		// own outgoing edges, never shared with an unrelated task — safe
		// to dispatch forward. A plain pre_dep edge (shared dependency)
		// must never be walked this way, which is why these two kinds are
		// looked up explicitly instead of via a generic Successors() scan.
		for _, depID := range g.SuccessorsByKind(nodeID, graph.EdgePostDep) {
			if err := p.runNode(g, depID, visited); err != nil {
				return err
			}
		}
		for _, groupID := range g.SuccessorsByKind(nodeID, graph.EdgeConcurrent) {
			if err := p.runNode(g, groupID, visited); err != nil {
				return err
			}
		}
		return nil

	case graph.KindCommand:
		return p.runCommand(node, node.Command.RawCommand, node.Command.WorkingDir, node.Command.Env)

	case graph.KindConcurrentGroup:
		return p.runGroup(g, node, visited)
	}
	return nil
}

// resolveArguments merges a task's env map with its declared arguments:
// supplied positional CLI words (in declaration order) take precedence,
// then Argument.Default, then a fast failure if a required argument has
// neither.
func (p *Plugin) resolveArguments(task *graph.TaskNode) (map[string]string, error) {
	env := make(map[string]string, len(task.Env)+len(task.Arguments))
	for k, v := range task.Env {
		env[k] = v
	}

	for i, arg := range task.Arguments {
		switch {
		case i < len(p.args):
			env[arg.Name] = p.args[i]
		case arg.Default != nil:
			env[arg.Name] = *arg.Default
		case arg.Required:
			return nil, fmt.Errorf("missing required argument %q", arg.Name)
		}
	}
	return env, nil
}

// runCommand expands and spawns one node's command line to completion via
// a single-use Process Manager. An empty command is a successful no-op.
func (p *Plugin) runCommand(node *graph.Node, rawCommand, workingDir string, env map[string]string) error {
	if rawCommand == "" {
		return nil
	}

	command := rawCommand
	if node.ID == p.rootTaskID && p.subtask != "" {
		command = command + " " + p.subtask
	}

	effectiveEnv := withComposedPath(node, env)
	command = expandEnvVars(command, effectiveEnv)

	mgr := process.NewManager(true)
	if _, err := mgr.SpawnCommand(process.SpawnOptions{
		Label:          node.DisplayName(),
		Command:        command,
		PrefixEnabled:  node.MetaBool("prefix_enabled"),
		PrefixLabel:    node.MetaString("prefix_label"),
		PrefixColor:    node.MetaString("prefix_color"),
		WorkingDir:     workingDir,
		Env:            effectiveEnv,
		TimeoutSeconds: node.MetaInt("timeout_seconds"),
	}); err != nil {
		return err
	}
	return mgr.RunConcurrently()
}

// runGroup spawns a ConcurrentGroup's children in declaration order in
// batches no larger than max_concurrent (0 means unbounded), each batch
// under a fresh Process Manager scoped to the group's fail_fast policy. Children's own
// predecessors are never run here — the group's membership is already the
// fan-out spec.md §4.5 describes.
func (p *Plugin) runGroup(g *graph.Graph, group *graph.Node, visited map[int]bool) error {
	children := group.Group.Children
	batchSize := group.Group.MaxConcurrent
	if batchSize <= 0 || batchSize > len(children) {
		batchSize = len(children)
	}
	if batchSize == 0 {
		return nil
	}

	var firstErr error
	for start := 0; start < len(children); start += batchSize {
		end := start + batchSize
		if end > len(children) {
			end = len(children)
		}

		mgr := process.NewManager(group.Group.FailFast)
		spawned := false
		for _, childID := range children[start:end] {
			visited[childID] = true
			child := g.Nodes[childID]
			if err := p.spawnChildInto(mgr, child); err != nil {
				return err
			}
			spawned = true
		}
		if !spawned {
			continue
		}

		if err := mgr.RunConcurrently(); err != nil {
			if group.Group.FailFast {
				return err
			}
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

func (p *Plugin) spawnChildInto(mgr *process.Manager, child *graph.Node) error {
	var rawCommand, workingDir string
	var env map[string]string

	switch child.Kind {
	case graph.KindTask:
		rawCommand, workingDir, env = child.Task.Command, child.Task.WorkingDir, child.Task.Env
	case graph.KindCommand:
		rawCommand, workingDir, env = child.Command.RawCommand, child.Command.WorkingDir, child.Command.Env
	default:
		return fmt.Errorf("concurrent group child %s is neither a task nor a command", child.DisplayName())
	}

	if rawCommand == "" {
		return nil
	}

	effectiveEnv := withComposedPath(child, env)
	command := expandEnvVars(rawCommand, effectiveEnv)

	_, err := mgr.SpawnCommand(process.SpawnOptions{
		Label:          child.DisplayName(),
		Command:        command,
		PrefixEnabled:  child.MetaBool("prefix_enabled"),
		PrefixLabel:    child.MetaString("prefix_label"),
		PrefixColor:    child.MetaString("prefix_color"),
		WorkingDir:     workingDir,
		Env:            effectiveEnv,
		TimeoutSeconds: child.MetaInt("timeout_seconds"),
	})
	return err
}

// withComposedPath copies env and, if the path plugin computed one, applies
// it under the PATH key, overriding any PATH already present — the path
// plugin's composition is authoritative.
func withComposedPath(node *graph.Node, env map[string]string) map[string]string {
	out := make(map[string]string, len(env)+1)
	for k, v := range env {
		out[k] = v
	}
	if composed := node.MetaString("env.PATH"); composed != "" {
		out["PATH"] = composed
	}
	return out
}
