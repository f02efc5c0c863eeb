// Package scriptconfig defines the YAML grammar for script files and the
// top-level configuration document, plus the validation applied to both
// before they are interned into the graph.
package scriptconfig

import (
	"strings"

	"gopkg.in/yaml.v3"
)

// Dependency is a tagged sum: exactly one of Task or Command is set.
// Declared as either `{task: <name>}` or `{command: <shell string>}`.
type Dependency struct {
	Task    string
	Command string
}

// IsTask reports whether this dependency references another task.
func (d Dependency) IsTask() bool {
	return d.Task != ""
}

// UnmarshalYAML decodes the two-variant Dependency sum, rejecting both
// under- and over-specified forms.
func (d *Dependency) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		Task    string `yaml:"task"`
		Command string `yaml:"command"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}

	if raw.Task == "" && raw.Command == "" {
		return errDependencyEmpty
	}
	if raw.Task != "" && raw.Command != "" {
		return errDependencyAmbiguous
	}

	d.Task = raw.Task
	d.Command = raw.Command
	return nil
}

// Argument describes one named, positional argument a task accepts.
type Argument struct {
	Name        string  `yaml:"name" validate:"required"`
	Description string  `yaml:"description,omitempty"`
	Required    bool    `yaml:"required,omitempty"`
	Default     *string `yaml:"default,omitempty"`
}

// ConcurrentlyOptions tunes how a task's concurrently list is run.
type ConcurrentlyOptions struct {
	FailFast      *bool `yaml:"fail_fast,omitempty"`
	MaxConcurrent int   `yaml:"max_concurrent,omitempty" validate:"omitempty,min=1"`
	PrefixOutput  bool  `yaml:"prefix_output,omitempty"`
}

// WatchConfig is a task's raw watch declaration.
type WatchConfig struct {
	Patterns       []string `yaml:"patterns" validate:"required,min=1"`
	IgnorePatterns []string `yaml:"ignore_patterns,omitempty"`
	DebounceMs     int      `yaml:"debounce_ms" validate:"required,min=1,max=60000"`
	AutoWatch      bool     `yaml:"auto_watch,omitempty"`
}

// TaskConfig is one task's full declaration as it appears under a script
// file's `tasks` map (or as `default_task`).
type TaskConfig struct {
	Command             string               `yaml:"command,omitempty"`
	Description         string               `yaml:"description,omitempty"`
	WorkingDir          string               `yaml:"working_dir,omitempty"`
	Env                 map[string]string    `yaml:"env,omitempty"`
	ExecPaths           []string             `yaml:"exec_paths,omitempty"`
	Arguments           []Argument           `yaml:"arguments,omitempty" validate:"omitempty,dive"`
	PreDeps             []Dependency         `yaml:"pre_deps,omitempty"`
	PostDeps            []Dependency         `yaml:"post_deps,omitempty"`
	Concurrently        []Dependency         `yaml:"concurrently,omitempty"`
	ConcurrentlyOptions *ConcurrentlyOptions `yaml:"concurrently_options,omitempty"`
	Timeout             string               `yaml:"timeout,omitempty"`
	Watch               *WatchConfig         `yaml:"watch,omitempty"`
	Silent              bool                 `yaml:"silent,omitempty"`
}

// HasDeps reports whether the task has any pre_deps or a non-empty
// concurrently list — the condition under which an empty command is legal.
func (t TaskConfig) HasDeps() bool {
	return len(t.PreDeps) > 0 || len(t.Concurrently) > 0
}

// ScriptFile is one parsed YAML file contributing tasks to the graph,
// whether the root script or an entry under a scripts directory.
type ScriptFile struct {
	Name        string                `yaml:"name,omitempty"`
	Description string                `yaml:"description,omitempty"`
	Env         map[string]string     `yaml:"env,omitempty"`
	ExecPaths   []string              `yaml:"exec_paths,omitempty"`
	DefaultTask *TaskConfig           `yaml:"default_task,omitempty"`
	Tasks       map[string]TaskConfig `yaml:"tasks,omitempty"`
}

// TopLevelConfig is the root configuration document: a superset of
// ScriptFile plus the fields that steer script discovery.
type TopLevelConfig struct {
	ScriptFile `yaml:",inline"`

	RootScript  string   `yaml:"root_script,omitempty"`
	ScriptsDirs []string `yaml:"scripts_dirs,omitempty"`
}

// reservedTaskNames may not be used as a declared task name; "default" is
// the synthetic name assigned to a script's default_task, which is exempt
// from this check since the loader assigns it directly.
var reservedTaskNames = map[string]bool{
	"watch":        true,
	"default_task": true,
	"pre_deps":     true,
	"post_deps":    true,
	"concurrently": true,
}

// IsReservedTaskName reports whether name is reserved and may not be used
// as an author-declared task name.
func IsReservedTaskName(name string) bool {
	return reservedTaskNames[name]
}

// ValidTaskName reports whether name satisfies the length/character rules:
// non-empty, at most 100 characters, no "/", no two consecutive dots.
func ValidTaskName(name string) bool {
	if name == "" || len(name) > 100 {
		return false
	}
	if strings.Contains(name, "/") {
		return false
	}
	if strings.Contains(name, "..") {
		return false
	}
	return true
}
