package scriptconfig

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateTaskRejectsEmptyCommandWithoutDeps(t *testing.T) {
	t.Parallel()

	err := ValidateTask("build", TaskConfig{})
	require.Error(t, err)
	require.Contains(t, err.Error(), "command: may be empty")
}

func TestValidateTaskAllowsEmptyCommandWithPreDeps(t *testing.T) {
	t.Parallel()

	err := ValidateTask("build", TaskConfig{PreDeps: []Dependency{{Task: "prep"}}})
	require.NoError(t, err)
}

func TestValidateTaskRejectsReservedName(t *testing.T) {
	t.Parallel()

	err := ValidateTask("watch", TaskConfig{Command: "echo hi"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "reserved")
}

func TestValidateTaskAllowsDefaultNameException(t *testing.T) {
	t.Parallel()

	err := ValidateTask("default", TaskConfig{Command: "echo hi"})
	require.NoError(t, err)
}

func TestValidateTaskRejectsBadTimeout(t *testing.T) {
	t.Parallel()

	err := ValidateTask("build", TaskConfig{Command: "echo hi", Timeout: "not-a-duration"})
	require.Error(t, err)
}

func TestValidateTaskRejectsWatchOutOfRangeDebounce(t *testing.T) {
	t.Parallel()

	err := ValidateTask("build", TaskConfig{
		Command: "echo hi",
		Watch:   &WatchConfig{Patterns: []string{"*.go"}, DebounceMs: 70000},
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "debounce_ms")
}

func TestValidateTaskRejectsEmptyWatchPatterns(t *testing.T) {
	t.Parallel()

	err := ValidateTask("build", TaskConfig{
		Command: "echo hi",
		Watch:   &WatchConfig{Patterns: nil, DebounceMs: 100},
	})
	require.Error(t, err)
}
