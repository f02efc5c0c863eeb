package concurrentplugin

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bodo-run/bodo/internal/graph"
)

func boolPtr(b bool) *bool { return &b }

func TestOnGraphBuildCreatesGroupWithDefaultFailFast(t *testing.T) {
	t.Parallel()

	g := graph.New()
	c1 := g.AddTaskNode(&graph.TaskNode{Name: "c1"})
	require.NoError(t, g.RegisterTask("c1", c1.ID))
	root := g.AddTaskNode(&graph.TaskNode{
		Name:         "root",
		Concurrently: []graph.DependencyRef{{Task: "c1"}, {Command: "echo hi"}},
	})
	require.NoError(t, g.RegisterTask("root", root.ID))

	require.NoError(t, New().OnGraphBuild(g))

	require.Len(t, g.Nodes, 4) // c1, root, group, inline command
	group := g.Nodes[2]
	require.Equal(t, graph.KindConcurrentGroup, group.Kind)
	require.True(t, group.Group.FailFast)
	require.Equal(t, []int{c1.ID, 3}, group.Group.Children)

	preds := g.Predecessors(group.ID)
	require.Equal(t, []int{root.ID}, preds)
}

func TestOnGraphBuildRespectsExplicitFailFastFalse(t *testing.T) {
	t.Parallel()

	g := graph.New()
	root := g.AddTaskNode(&graph.TaskNode{
		Name:              "root",
		Concurrently:      []graph.DependencyRef{{Command: "echo hi"}},
		ConcurrentOptions: graph.ConcurrentOptions{FailFast: boolPtr(false)},
	})
	require.NoError(t, g.RegisterTask("root", root.ID))

	require.NoError(t, New().OnGraphBuild(g))

	group := g.Nodes[1]
	require.False(t, group.Group.FailFast)
}

func TestOnGraphBuildResolvesTaskReferenceWithSuffixFallback(t *testing.T) {
	t.Parallel()

	g := graph.New()
	child := g.AddTaskNode(&graph.TaskNode{Name: "deploy"})
	require.NoError(t, g.RegisterTask("backend deploy", child.ID))
	root := g.AddTaskNode(&graph.TaskNode{Name: "root", Concurrently: []graph.DependencyRef{{Task: "deploy"}}})
	require.NoError(t, g.RegisterTask("root", root.ID))

	require.NoError(t, New().OnGraphBuild(g))

	group := g.Nodes[2]
	require.Equal(t, []int{child.ID}, group.Group.Children)
}

func TestOnGraphBuildFailsOnUnknownTaskReference(t *testing.T) {
	t.Parallel()

	g := graph.New()
	root := g.AddTaskNode(&graph.TaskNode{Name: "root", Concurrently: []graph.DependencyRef{{Task: "missing"}}})
	require.NoError(t, g.RegisterTask("root", root.ID))

	err := New().OnGraphBuild(g)
	require.Error(t, err)
}
