package envplugin

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bodo-run/bodo/internal/graph"
	"github.com/bodo-run/bodo/internal/pluginapi"
)

func TestOnGraphBuildFillsMissingKeysOnly(t *testing.T) {
	t.Parallel()

	g := graph.New()
	task := g.AddTaskNode(&graph.TaskNode{Name: "build", Env: map[string]string{"A": "task-value"}})

	plugin := New()
	require.NoError(t, plugin.OnInit(pluginapi.Options{"env": map[string]string{"A": "global-value", "B": "global-value"}}))
	require.NoError(t, plugin.OnGraphBuild(g))

	require.Equal(t, "task-value", task.Task.Env["A"])
	require.Equal(t, "global-value", task.Task.Env["B"])
}

func TestOnGraphBuildFillsCommandNodes(t *testing.T) {
	t.Parallel()

	g := graph.New()
	cmd := g.AddCommandNode(&graph.CommandNode{RawCommand: "echo hi"})

	plugin := New()
	require.NoError(t, plugin.OnInit(pluginapi.Options{"env": map[string]string{"A": "global-value"}}))
	require.NoError(t, plugin.OnGraphBuild(g))

	require.Equal(t, "global-value", cmd.Command.Env["A"])
}

func TestOnGraphBuildNoopWithoutGlobalEnv(t *testing.T) {
	t.Parallel()

	g := graph.New()
	task := g.AddTaskNode(&graph.TaskNode{Name: "build"})

	plugin := New()
	require.NoError(t, plugin.OnGraphBuild(g))
	require.Nil(t, task.Task.Env)
}
