package errors

import (
	stdErrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseErrorWrapsUnderlying(t *testing.T) {
	t.Parallel()

	underlying := fmt.Errorf("unexpected token")
	err := NewParseError("script file", "bodo.yaml", underlying)

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	require.Equal(t, "script file", parseErr.Scope)
	require.Equal(t, "bodo.yaml", parseErr.ScriptPath)
	require.True(t, stdErrors.Is(err, underlying))
	require.Contains(t, err.Error(), "bodo.yaml")
	require.Contains(t, err.Error(), "script file")
}

func TestValidationErrorAggregatesFields(t *testing.T) {
	t.Parallel()

	err := NewValidationError("build", "pre_deps", "references unknown task", nil)

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	require.Equal(t, "build", validationErr.TaskName)
	require.Equal(t, "pre_deps", validationErr.Field)
	require.Contains(t, validationErr.Reason, "references unknown task")
	require.Contains(t, err.Error(), "build")
	require.Contains(t, err.Error(), "pre_deps")
}

func TestExecutionErrorIncludesTaskAndPhase(t *testing.T) {
	t.Parallel()

	underlying := stdErrors.New("command failed")
	err := NewExecutionError("build", "run", underlying)

	var executionErr *ExecutionError
	require.ErrorAs(t, err, &executionErr)
	require.Equal(t, "build", executionErr.TaskName)
	require.Equal(t, "run", executionErr.Phase)
	require.True(t, stdErrors.Is(err, underlying))
	require.Contains(t, err.Error(), "run")
}

func TestExecutionErrorWithoutTaskNameOmitsIt(t *testing.T) {
	t.Parallel()

	underlying := stdErrors.New("no default task")
	err := NewExecutionError("", "select", underlying)

	require.Contains(t, err.Error(), "select")
	require.NotContains(t, err.Error(), `""`)
}

func TestPluginErrorIncludesPluginAndHook(t *testing.T) {
	t.Parallel()

	underlying := stdErrors.New("not supported")
	err := NewPluginError("timeoutplugin", "on_graph_build", underlying)

	var pluginErr *PluginError
	require.ErrorAs(t, err, &pluginErr)
	require.Equal(t, "timeoutplugin", pluginErr.Plugin)
	require.Equal(t, "on_graph_build", pluginErr.Hook)
	require.True(t, stdErrors.Is(err, underlying))
}

func TestFormatCyclePathClosesTheLoop(t *testing.T) {
	t.Parallel()

	got := FormatCyclePath([]string{"a", "b"})
	require.Equal(t, "a depends on b depends on a", got)
}

func TestNewCycleErrorUsesFormattedPath(t *testing.T) {
	t.Parallel()

	err := NewCycleError([]string{"build", "test"})

	var graphErr *GraphError
	require.ErrorAs(t, err, &graphErr)
	require.Equal(t, "build depends on test depends on build", graphErr.Message)
	require.Contains(t, err.Error(), "depends on")
}
