// Package watchplugin compiles each task's watch spec into glob-sets and
// base directories, and—when the run is in watch mode or a task asked for
// auto_watch—drives the fsnotify-based re-run loop described in spec.md
// §4.7 after the first normal execution completes.
package watchplugin

import (
	"context"
	"os"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/bodo-run/bodo/internal/graph"
	"github.com/bodo-run/bodo/internal/pluginapi"
)

const Priority = 10

// WatchEntry is one task's compiled watch configuration.
type WatchEntry struct {
	TaskID     int
	TaskName   string
	Positive   []string
	Negative   []string
	BaseDirs   []string
	DebounceMs int
}

// RerunFunc re-drives the execution plugin for one task by name.
type RerunFunc func(taskName string) error

// Plugin implements pluginapi.Plugin for watch-mode compilation and the
// post-execution re-run loop.
type Plugin struct {
	pluginapi.BasePlugin

	watchMode        bool
	autoWatchDefault bool
	ctx              context.Context
	rerun            RerunFunc

	entries []WatchEntry
}

// New returns a watch plugin that calls rerun to re-drive a task's
// execution on a qualifying filesystem change.
func New(rerun RerunFunc) *Plugin {
	return &Plugin{rerun: rerun, ctx: context.Background()}
}

func (p *Plugin) Name() string  { return "watch" }
func (p *Plugin) Priority() int { return Priority }

// Entries exposes the compiled watch set, mainly for tests and for a CLI
// that wants to print what would be watched.
func (p *Plugin) Entries() []WatchEntry { return p.entries }

func (p *Plugin) OnInit(opts pluginapi.Options) error {
	if opts == nil {
		return nil
	}
	if v, ok := opts["watch_mode"].(bool); ok {
		p.watchMode = v
	}
	if v, ok := opts["auto_watch_default"].(bool); ok {
		p.autoWatchDefault = v
	}
	if v, ok := opts["ctx"].(context.Context); ok && v != nil {
		p.ctx = v
	}
	return nil
}

// OnGraphBuild compiles a WatchEntry for every eligible task: one whose
// watch spec is present and (watch_mode is on, or auto_watch applies and
// BODO_NO_WATCH is unset). auto_watch applies when the task's own
// auto_watch is true or the auto_watch_default option is set.
func (p *Plugin) OnGraphBuild(g *graph.Graph) error {
	noWatch := os.Getenv("BODO_NO_WATCH") != ""

	for _, node := range g.Nodes {
		if node.Kind != graph.KindTask || node.Task.Watch == nil {
			continue
		}
		spec := node.Task.Watch
		autoWatch := spec.AutoWatch || p.autoWatchDefault
		if !p.watchMode && !(autoWatch && !noWatch) {
			continue
		}

		p.entries = append(p.entries, WatchEntry{
			TaskID:     node.ID,
			TaskName:   node.Task.Name,
			Positive:   spec.Patterns,
			Negative:   spec.IgnorePatterns,
			BaseDirs:   baseDirsFor(spec.Patterns),
			DebounceMs: spec.DebounceMs,
		})
	}
	return nil
}

// OnAfterRun runs last in the lifecycle (lowest priority), so the first
// normal execution the exec plugin drove has already completed by the
// time this fires. With no eligible entries, or no rerun hook wired, it's
// a no-op; otherwise it blocks in the re-run loop until ctx is cancelled.
func (p *Plugin) OnAfterRun(*graph.Graph) error {
	if len(p.entries) == 0 || p.rerun == nil {
		return nil
	}
	return p.runLoop()
}

func (p *Plugin) runLoop() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	seenDirs := make(map[string]bool)
	for _, entry := range p.entries {
		for _, dir := range entry.BaseDirs {
			if err := addRecursive(watcher, dir, seenDirs); err != nil {
				return err
			}
		}
	}

	pending := make(map[int][]string) // taskID -> accumulated raw changed paths
	timers := make(map[int]*time.Timer)
	fire := make(chan int)

	scheduleDebounce := func(entry WatchEntry) {
		if t, ok := timers[entry.TaskID]; ok {
			t.Stop()
		}
		debounce := time.Duration(entry.DebounceMs) * time.Millisecond
		timers[entry.TaskID] = time.AfterFunc(debounce, func() {
			fire <- entry.TaskID
		})
	}

	entryByTask := make(map[int]WatchEntry, len(p.entries))
	for _, entry := range p.entries {
		entryByTask[entry.TaskID] = entry
	}

	for {
		select {
		case <-p.ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			for _, entry := range p.entries {
				pending[entry.TaskID] = append(pending[entry.TaskID], event.Name)
				scheduleDebounce(entry)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return err

		case taskID := <-fire:
			entry := entryByTask[taskID]
			changed := pending[taskID]
			pending[taskID] = nil
			accepted := FilterChangedPaths(changed, entry)
			if len(accepted) == 0 {
				continue
			}
			if err := p.rerun(entry.TaskName); err != nil {
				return err
			}
		}
	}
}

func addRecursive(watcher *fsnotify.Watcher, root string, seen map[string]bool) error {
	return filepathWalkDir(root, func(dir string) error {
		if seen[dir] {
			return nil
		}
		seen[dir] = true
		return watcher.Add(dir)
	})
}
