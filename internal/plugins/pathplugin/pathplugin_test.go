package pathplugin

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bodo-run/bodo/internal/graph"
	"github.com/bodo-run/bodo/internal/pluginapi"
)

func TestOnGraphBuildComposesPathInOrder(t *testing.T) {
	t.Parallel()

	g := graph.New()
	task := g.AddTaskNode(&graph.TaskNode{
		Name:       "build",
		WorkingDir: "/work",
		ExecPaths:  []string{"/task/bin"},
	})

	p := New()
	require.NoError(t, p.OnInit(pluginapi.Options{"default_paths": []string{"/default/bin"}}))
	require.NoError(t, p.OnGraphBuild(g))

	got := task.MetaString("env.PATH")
	parts := strings.Split(got, string(os.PathListSeparator))
	require.Equal(t, []string{"/work", "/default/bin", "/task/bin"}, parts)
}

func TestOnGraphBuildDedupsPreservingFirstOccurrence(t *testing.T) {
	t.Parallel()

	g := graph.New()
	task := g.AddTaskNode(&graph.TaskNode{
		Name:      "build",
		ExecPaths: []string{"/default/bin"},
	})

	p := New()
	require.NoError(t, p.OnInit(pluginapi.Options{"default_paths": []string{"/default/bin"}}))
	require.NoError(t, p.OnGraphBuild(g))

	got := task.MetaString("env.PATH")
	require.Equal(t, "/default/bin", got)
}

func TestOnGraphBuildOmitsInheritedPathUnlessPreserved(t *testing.T) {
	t.Setenv("PATH", "/inherited/bin")

	g := graph.New()
	task := g.AddTaskNode(&graph.TaskNode{Name: "build"})

	p := New()
	require.NoError(t, p.OnGraphBuild(g))
	require.Empty(t, task.MetaString("env.PATH"))

	p2 := New()
	require.NoError(t, p2.OnInit(pluginapi.Options{"preserve_path": true}))
	task2 := g.AddTaskNode(&graph.TaskNode{Name: "build2"})
	require.NoError(t, p2.OnGraphBuild(g))
	require.Contains(t, task2.MetaString("env.PATH"), "/inherited/bin")
}
