package prefixplugin

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bodo-run/bodo/internal/graph"
)

func TestOnGraphBuildAnnotatesChildrenWhenPrefixOutputSet(t *testing.T) {
	t.Parallel()

	g := graph.New()
	c1 := g.AddTaskNode(&graph.TaskNode{Name: "c1"})
	c2 := g.AddTaskNode(&graph.TaskNode{Name: "c2"})
	group := g.AddConcurrentGroupNode(&graph.ConcurrentGroup{Children: []int{c1.ID, c2.ID}})
	group.SetMeta("prefix_output", true)

	require.NoError(t, New().OnGraphBuild(g))

	require.True(t, c1.MetaBool("prefix_enabled"))
	require.Equal(t, "c1", c1.MetaString("prefix_label"))
	require.Equal(t, "cyan", c1.MetaString("prefix_color"))
	require.Equal(t, "magenta", c2.MetaString("prefix_color"))
}

func TestOnGraphBuildSkipsGroupsWithoutPrefixOutput(t *testing.T) {
	t.Parallel()

	g := graph.New()
	c1 := g.AddTaskNode(&graph.TaskNode{Name: "c1"})
	g.AddConcurrentGroupNode(&graph.ConcurrentGroup{Children: []int{c1.ID}})

	require.NoError(t, New().OnGraphBuild(g))
	require.False(t, c1.MetaBool("prefix_enabled"))
}
