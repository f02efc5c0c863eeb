package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadConfigReadsDefaultFileName(t *testing.T) {
	dir := t.TempDir()
	writeBodoYAML(t, dir, "tasks:\n  build:\n    command: \"true\"\n")
	restore := chdir(t, dir)
	defer restore()

	cfg, err := loadConfig("")
	require.NoError(t, err)
	require.Contains(t, cfg.Tasks, "build")
}

func TestLoadConfigAppliesRootScriptOverride(t *testing.T) {
	dir := t.TempDir()
	restore := chdir(t, dir)
	defer restore()

	t.Setenv("BODO_ROOT_SCRIPT", "other.yml")
	cfg, err := loadConfig("")
	require.NoError(t, err)
	require.Equal(t, "other.yml", cfg.RootScript)
}

func TestLoadConfigAppliesScriptsDirsOverride(t *testing.T) {
	dir := t.TempDir()
	restore := chdir(t, dir)
	defer restore()

	t.Setenv("BODO_SCRIPTS_DIRS", "a,b,c")
	cfg, err := loadConfig("")
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b", "c"}, cfg.ScriptsDirs)
}

func TestLoadConfigFailsOnMissingExplicitPath(t *testing.T) {
	_, err := loadConfig(filepath.Join(t.TempDir(), "missing.yml"))
	require.Error(t, err)
}

func TestResolveConfigPathReturnsEmptyWhenNoDefaultExists(t *testing.T) {
	dir := t.TempDir()
	restore := chdir(t, dir)
	defer restore()

	resolved, err := resolveConfigPath("")
	require.NoError(t, err)
	require.Empty(t, resolved)
}
