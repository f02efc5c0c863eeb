package main

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/bodo-run/bodo/internal/scriptconfig"
)

// defaultConfigNames are tried, in order, when no config path is given on
// the command line. Locating the file among several candidate names is the
// one piece of "discovery" this CLI performs; anything fancier (walking
// parent directories, per-project overrides) is out of scope.
var defaultConfigNames = []string{"bodo.yml", "bodo.yaml"}

// loadConfig reads the top-level configuration from path (or the first
// default candidate that exists), then applies the BODO_ROOT_SCRIPT and
// BODO_SCRIPTS_DIRS test-harness overrides.
func loadConfig(path string) (scriptconfig.TopLevelConfig, error) {
	var cfg scriptconfig.TopLevelConfig

	resolved, err := resolveConfigPath(path)
	if err != nil {
		return cfg, err
	}

	if resolved != "" {
		data, err := os.ReadFile(resolved)
		if err != nil {
			return cfg, fmt.Errorf("read config %s: %w", resolved, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", resolved, err)
		}
	}

	if v := os.Getenv("BODO_ROOT_SCRIPT"); v != "" {
		cfg.RootScript = v
	}
	if v := os.Getenv("BODO_SCRIPTS_DIRS"); v != "" {
		cfg.ScriptsDirs = strings.Split(v, ",")
	}

	return cfg, nil
}

func resolveConfigPath(path string) (string, error) {
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return "", fmt.Errorf("config file %s not found: %w", path, err)
		}
		return path, nil
	}

	for _, name := range defaultConfigNames {
		if _, err := os.Stat(name); err == nil {
			return name, nil
		}
	}

	// No config file found. This is only fatal if BODO_ROOT_SCRIPT isn't
	// set either, and that check belongs to whoever reads the resulting
	// empty TopLevelConfig (the loader already errors on a root script that
	// doesn't resolve to anything).
	return "", nil
}
