// Package errors defines bodo's error taxonomy: one tagged type per
// failure kind spec.md's §7 error taxonomy table names, each wrapping the
// underlying cause so stdErrors.Is/As still sees through to it.
package errors

import (
	"fmt"
	"strings"
)

// ParseError reports a script file bodo could not read or unmarshal:
// the root script, a file under scripts_dirs, or the scripts_dirs scan
// itself. Scope names which of those three it was, since the same
// underlying os/yaml error means something different depending on where
// loading failed.
type ParseError struct {
	Scope      string // "root script", "script file", or "scripts directory"
	ScriptPath string
	Err        error
}

// NewParseError constructs a ParseError for the given scope and path.
func NewParseError(scope, scriptPath string, err error) error {
	return &ParseError{Scope: scope, ScriptPath: scriptPath, Err: err}
}

func (e *ParseError) Error() string {
	if e == nil {
		return ""
	}
	scope := e.Scope
	if scope == "" {
		scope = "script"
	}
	return fmt.Sprintf("failed to parse %s %q: %v", scope, e.ScriptPath, e.Err)
}

// Unwrap exposes the underlying error.
func (e *ParseError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ValidationError reports a TaskConfig that failed one of spec.md §4.2's
// validation rules: a reserved/malformed name, an empty command with no
// dependencies, an out-of-range watch field, or a struct-tag failure.
// Field names which part of the task grammar the rule applies to (e.g.
// "name", "command", "watch.patterns"), distinguishing it from TaskName,
// the task the rule was checked against — the two collide for the
// duplicate-registration check (Field is also "name" there) but diverge
// everywhere else.
type ValidationError struct {
	TaskName string
	Field    string
	Reason   string
	Err      error
}

// NewValidationError constructs a ValidationError.
func NewValidationError(taskName, field, reason string, err error) error {
	return &ValidationError{TaskName: taskName, Field: field, Reason: reason, Err: err}
}

func (e *ValidationError) Error() string {
	if e == nil {
		return ""
	}
	if e.Field != "" {
		return fmt.Sprintf("invalid task %q: %s: %s", e.TaskName, e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid task %q: %s", e.TaskName, e.Reason)
}

// Unwrap exposes the underlying error.
func (e *ValidationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ExecutionError reports a failure while driving the execution plugin's
// DFS walk (spec.md §4.5). Phase names which step of that walk failed —
// "select" (resolving the root task name), "arguments" (resolving
// declared Argument values), "spawn" (starting the child process), or
// "run" (the child's own non-zero exit) — so a caller can tell a
// configuration mistake from a runtime failure without string-matching
// the message.
type ExecutionError struct {
	TaskName string
	Phase    string
	Err      error
}

// NewExecutionError constructs an ExecutionError for the given task and
// phase.
func NewExecutionError(taskName, phase string, err error) error {
	return &ExecutionError{TaskName: taskName, Phase: phase, Err: err}
}

func (e *ExecutionError) Error() string {
	if e == nil {
		return ""
	}
	if e.TaskName == "" {
		return fmt.Sprintf("execution error during %s: %v", e.Phase, e.Err)
	}
	return fmt.Sprintf("execution error during %s of task %q: %v", e.Phase, e.TaskName, e.Err)
}

// Unwrap exposes the root error.
func (e *ExecutionError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// PluginError reports a failure returned from one of a Plugin's lifecycle
// hooks (spec.md §4.3). Hook records which of on_init/on_graph_build/
// on_after_run raised it, since the pipeline's disposition differs by
// hook (on_init failure means no plugin ever saw the graph; an
// on_after_run failure can follow a fully resolved one).
type PluginError struct {
	Plugin string
	Hook   string
	Err    error
}

// NewPluginError constructs a PluginError for the given plugin and hook.
func NewPluginError(plugin, hook string, err error) error {
	return &PluginError{Plugin: plugin, Hook: hook, Err: err}
}

func (e *PluginError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("plugin %q failed in %s: %v", e.Plugin, e.Hook, e.Err)
}

// Unwrap exposes the underlying error.
func (e *PluginError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// GraphError reports a structural problem with the task graph: an unknown
// dependency, an invalid edge endpoint, or a cycle.
type GraphError struct {
	Message string
	Path    []string
	Err     error
}

// NewGraphError constructs a GraphError.
func NewGraphError(message string, err error) error {
	return &GraphError{Message: message, Err: err}
}

// NewCycleError constructs a GraphError describing a dependency cycle. Path
// is joined with " depends on " and closed with a trailing back-reference to
// the first name, e.g. "a depends on b depends on a".
func NewCycleError(names []string) error {
	return &GraphError{
		Message: FormatCyclePath(names),
		Path:    names,
	}
}

// FormatCyclePath joins a cycle's task names with " depends on " and closes
// the loop with a trailing back-reference to the first name.
func FormatCyclePath(names []string) string {
	if len(names) == 0 {
		return ""
	}
	closed := append(append([]string(nil), names...), names[0])
	return strings.Join(closed, " depends on ")
}

func (e *GraphError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("graph error: %s", e.Message)
}

// Unwrap exposes the underlying error.
func (e *GraphError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
