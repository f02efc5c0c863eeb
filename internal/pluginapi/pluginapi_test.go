package pluginapi

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bodo-run/bodo/internal/graph"
)

type recordingPlugin struct {
	BasePlugin
	name     string
	priority int
	calls    *[]string
	failOn   string
}

func (r recordingPlugin) Name() string  { return r.name }
func (r recordingPlugin) Priority() int { return r.priority }

func (r recordingPlugin) OnInit(Options) error {
	*r.calls = append(*r.calls, r.name+":init")
	if r.failOn == "init" {
		return errors.New("boom")
	}
	return nil
}

func (r recordingPlugin) OnGraphBuild(*graph.Graph) error {
	*r.calls = append(*r.calls, r.name+":build")
	if r.failOn == "build" {
		return errors.New("boom")
	}
	return nil
}

func (r recordingPlugin) OnAfterRun(*graph.Graph) error {
	*r.calls = append(*r.calls, r.name+":after")
	return nil
}

func TestRunLifecycleOrdersByDescendingPriority(t *testing.T) {
	t.Parallel()

	var calls []string
	p := New()
	p.Register(recordingPlugin{name: "low", priority: 10, calls: &calls})
	p.Register(recordingPlugin{name: "high", priority: 90, calls: &calls})

	require.NoError(t, p.RunLifecycle(graph.New(), nil))
	require.Equal(t, []string{
		"high:init", "low:init",
		"high:build", "low:build",
		"high:after", "low:after",
	}, calls)
}

func TestRunLifecycleStopsOnFirstError(t *testing.T) {
	t.Parallel()

	var calls []string
	p := New()
	p.Register(recordingPlugin{name: "first", priority: 100, calls: &calls, failOn: "build"})
	p.Register(recordingPlugin{name: "second", priority: 50, calls: &calls})

	err := p.RunLifecycle(graph.New(), nil)
	require.Error(t, err)
	require.Equal(t, []string{"first:init", "second:init", "first:build"}, calls)
}

func TestRunLifecycleDetectsCycleAfterGraphBuild(t *testing.T) {
	t.Parallel()

	g := graph.New()
	a := g.AddTaskNode(&graph.TaskNode{Name: "a"})
	b := g.AddTaskNode(&graph.TaskNode{Name: "b"})
	require.NoError(t, g.AddEdge(a.ID, b.ID))
	require.NoError(t, g.AddEdge(b.ID, a.ID))

	p := New()
	err := p.RunLifecycle(g, nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), "depends on")
}
