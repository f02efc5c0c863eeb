package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bodo-run/bodo/internal/scriptconfig"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoadInlineRootTasks(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfg := scriptconfig.TopLevelConfig{
		ScriptFile: scriptconfig.ScriptFile{
			Tasks: map[string]scriptconfig.TaskConfig{
				"build": {Command: "go build ./..."},
			},
		},
	}

	g, err := Load(Options{BaseDir: dir, Config: cfg})
	require.NoError(t, err)

	id, ok := g.TaskRegistry["build"]
	require.True(t, ok)
	require.Equal(t, "go build ./...", g.Nodes[id].Task.Command)
}

func TestLoadRootScriptFileOverridesInline(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "bodo.yaml"), `
tasks:
  build:
    command: "echo from-file"
`)

	cfg := scriptconfig.TopLevelConfig{RootScript: "bodo.yaml"}
	g, err := Load(Options{BaseDir: dir, Config: cfg})
	require.NoError(t, err)

	id := g.TaskRegistry["build"]
	require.Equal(t, "echo from-file", g.Nodes[id].Task.Command)
}

func TestLoadScriptsDirNonRecursive(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "scripts", "backend.yaml"), `
tasks:
  deploy:
    command: "echo deploy"
`)
	writeFile(t, filepath.Join(dir, "scripts", "nested", "ignored.yaml"), `
tasks:
  skip:
    command: "echo skip"
`)

	cfg := scriptconfig.TopLevelConfig{ScriptsDirs: []string{"scripts"}}
	g, err := Load(Options{BaseDir: dir, Config: cfg})
	require.NoError(t, err)

	_, ok := g.TaskRegistry["backend deploy"]
	require.True(t, ok)
	_, nestedOk := g.TaskRegistry["nested skip"]
	require.False(t, nestedOk)
}

func TestLoadScriptsDirRecursiveGlob(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "scripts", "nested", "worker.yaml"), `
tasks:
  run:
    command: "echo run"
`)

	cfg := scriptconfig.TopLevelConfig{ScriptsDirs: []string{"scripts/**/*.yaml"}}
	g, err := Load(Options{BaseDir: dir, Config: cfg})
	require.NoError(t, err)

	_, ok := g.TaskRegistry["nested/worker run"]
	require.True(t, ok)
}

func TestLoadMergesEnvByScope(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfg := scriptconfig.TopLevelConfig{
		ScriptFile: scriptconfig.ScriptFile{
			Env: map[string]string{"A": "global", "B": "global"},
			Tasks: map[string]scriptconfig.TaskConfig{
				"build": {Command: "echo hi", Env: map[string]string{"B": "task"}},
			},
		},
	}

	g, err := Load(Options{BaseDir: dir, Config: cfg})
	require.NoError(t, err)

	id := g.TaskRegistry["build"]
	env := g.Nodes[id].Task.Env
	require.Equal(t, "global", env["A"])
	require.Equal(t, "task", env["B"])
}

func TestLoadQualifiesScriptTasksSoSameNameDoesNotCollide(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "scripts", "a.yaml"), `
tasks:
  build:
    command: "echo a"
`)

	cfg := scriptconfig.TopLevelConfig{
		ScriptFile: scriptconfig.ScriptFile{
			Tasks: map[string]scriptconfig.TaskConfig{
				"build": {Command: "echo root"},
			},
		},
		ScriptsDirs: []string{"scripts"},
	}

	g, err := Load(Options{BaseDir: dir, Config: cfg})
	require.NoError(t, err)
	require.Len(t, g.TaskRegistry, 2)
}

func TestLoadDefaultTaskRegistersUnderReservedName(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfg := scriptconfig.TopLevelConfig{
		ScriptFile: scriptconfig.ScriptFile{
			DefaultTask: &scriptconfig.TaskConfig{Command: "echo hello"},
		},
	}

	g, err := Load(Options{BaseDir: dir, Config: cfg})
	require.NoError(t, err)

	id, ok := g.TaskRegistry["default"]
	require.True(t, ok)
	require.True(t, g.Nodes[id].Task.IsDefault)
}

func TestLoadRejectsInvalidTask(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfg := scriptconfig.TopLevelConfig{
		ScriptFile: scriptconfig.ScriptFile{
			Tasks: map[string]scriptconfig.TaskConfig{
				"watch": {Command: "echo hi"},
			},
		},
	}

	_, err := Load(Options{BaseDir: dir, Config: cfg})
	require.Error(t, err)
}
