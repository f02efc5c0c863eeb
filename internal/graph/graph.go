// Package graph implements the in-memory task DAG: dense-indexed nodes,
// directed edges, cycle detection, and topological sort. It owns no
// execution semantics — resolver and execution plugins read and mutate a
// Graph, but the graph itself only knows about structure.
package graph

import (
	"fmt"
	"sort"
	"strings"

	bodoerrors "github.com/bodo-run/bodo/pkg/errors"
)

// NodeKind tags which variant a Node holds.
type NodeKind int

const (
	KindTask NodeKind = iota
	KindCommand
	KindConcurrentGroup
)

func (k NodeKind) String() string {
	switch k {
	case KindTask:
		return "task"
	case KindCommand:
		return "command"
	case KindConcurrentGroup:
		return "concurrent_group"
	default:
		return "unknown"
	}
}

// Argument describes one named, positional argument a task accepts.
type Argument struct {
	Name        string
	Description string
	Required    bool
	Default     *string
}

// DependencyRef is a raw, pre-resolution dependency entry: either a
// reference to another task by qualified name, or an inline shell command.
type DependencyRef struct {
	Task    string
	Command string
}

// IsTask reports whether this entry references another task rather than
// carrying an inline command.
func (d DependencyRef) IsTask() bool {
	return d.Task != ""
}

// WatchSpec is a task's raw (uncompiled) watch configuration.
type WatchSpec struct {
	Patterns       []string
	IgnorePatterns []string
	DebounceMs     int
	AutoWatch      bool
}

// TaskNode is a named unit of work declared in a script file.
type TaskNode struct {
	Name              string
	Description       string
	Command           string
	WorkingDir        string
	Arguments         []Argument
	Env               map[string]string
	ExecPaths         []string
	Watch             *WatchSpec
	PreDeps           []DependencyRef
	PostDeps          []DependencyRef
	Concurrently      []DependencyRef
	ConcurrentOptions ConcurrentOptions
	Timeout           string
	Silent            bool
	ScriptID          string
	ScriptDisplayName string
	IsDefault         bool
}

// ConcurrentOptions mirrors a task's concurrently_options block.
type ConcurrentOptions struct {
	FailFast      *bool
	MaxConcurrent int
	PrefixOutput  bool
}

// CommandNode is an anonymous shell command introduced by a dependency
// list; it has no task_registry entry.
type CommandNode struct {
	RawCommand  string
	Description string
	WorkingDir  string
	Env         map[string]string
	Watch       *WatchSpec
}

// ConcurrentGroup is a synthesised node whose children run in parallel
// under one supervisor.
type ConcurrentGroup struct {
	Children      []int
	FailFast      bool
	MaxConcurrent int
	TimeoutSecs   int
}

// Node is a vertex in the graph. Exactly one of Task, Command, Group is
// non-nil, matching Kind.
type Node struct {
	ID       int
	Kind     NodeKind
	Task     *TaskNode
	Command  *CommandNode
	Group    *ConcurrentGroup
	Metadata map[string]any
}

// DisplayName returns a human-readable label for error messages and logs.
func (n *Node) DisplayName() string {
	switch n.Kind {
	case KindTask:
		return n.Task.Name
	case KindCommand:
		return fmt.Sprintf("command#%d", n.ID)
	case KindConcurrentGroup:
		return fmt.Sprintf("group#%d", n.ID)
	default:
		return fmt.Sprintf("node#%d", n.ID)
	}
}

// MetaString reads a string metadata value, returning "" if absent or of a
// different type.
func (n *Node) MetaString(key string) string {
	if n.Metadata == nil {
		return ""
	}
	if v, ok := n.Metadata[key].(string); ok {
		return v
	}
	return ""
}

// MetaBool reads a bool metadata value.
func (n *Node) MetaBool(key string) bool {
	if n.Metadata == nil {
		return false
	}
	if v, ok := n.Metadata[key].(bool); ok {
		return v
	}
	return false
}

// MetaInt reads an int metadata value.
func (n *Node) MetaInt(key string) int {
	if n.Metadata == nil {
		return 0
	}
	if v, ok := n.Metadata[key].(int); ok {
		return v
	}
	return 0
}

// SetMeta assigns a metadata value, allocating the map on first use.
func (n *Node) SetMeta(key string, value any) {
	if n.Metadata == nil {
		n.Metadata = make(map[string]any)
	}
	n.Metadata[key] = value
}

// EdgeKind distinguishes why an edge was added. Every kind still
// participates in cycle detection and topological sort the same way; the
// distinction only matters to callers deciding which edges are safe to
// walk forward (e.g. the execution plugin dispatching a task's own
// post_deps/concurrently group without also triggering unrelated tasks
// that merely share a pre_dep with it).
type EdgeKind int

const (
	// EdgeDependency is a pre_dep-style "dep must run before task" edge,
	// or any other generic ordering constraint. Never safe to forward-walk:
	// the dep may be shared by unrelated tasks.
	EdgeDependency EdgeKind = iota
	// EdgePostDep is a task's own "task must run before post_dep" edge.
	EdgePostDep
	// EdgeConcurrent is a task's own edge into its ConcurrentGroup node.
	EdgeConcurrent
)

// Edge is a directed "from must run before to" relationship.
type Edge struct {
	From int
	To   int
	Kind EdgeKind
}

// Graph is an ordered node list, an edge list, and the qualified-name
// registry. Node ids are dense, stable, and assigned at insertion.
type Graph struct {
	Nodes        []*Node
	Edges        []Edge
	TaskRegistry map[string]int
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{
		TaskRegistry: make(map[string]int),
	}
}

// AddNode appends a new node of the given kind and returns it. Callers fill
// in the Task/Command/Group payload on the returned node.
func (g *Graph) AddNode(kind NodeKind) *Node {
	node := &Node{ID: len(g.Nodes), Kind: kind}
	g.Nodes = append(g.Nodes, node)
	return node
}

// AddTaskNode appends a fully-populated TaskNode.
func (g *Graph) AddTaskNode(t *TaskNode) *Node {
	n := g.AddNode(KindTask)
	n.Task = t
	return n
}

// AddCommandNode appends a fully-populated CommandNode.
func (g *Graph) AddCommandNode(c *CommandNode) *Node {
	n := g.AddNode(KindCommand)
	n.Command = c
	return n
}

// AddConcurrentGroupNode appends a fully-populated ConcurrentGroup.
func (g *Graph) AddConcurrentGroupNode(grp *ConcurrentGroup) *Node {
	n := g.AddNode(KindConcurrentGroup)
	n.Group = grp
	return n
}

// RegisterTask records a task's qualified registry key. Duplicate
// registration is a fatal load-time error.
func (g *Graph) RegisterTask(qualifiedName string, id int) error {
	if _, exists := g.TaskRegistry[qualifiedName]; exists {
		return bodoerrors.NewValidationError(qualifiedName, "name", "duplicate task registration", nil)
	}
	g.TaskRegistry[qualifiedName] = id
	return nil
}

// FindTask looks up a task by its exact registry key.
func (g *Graph) FindTask(name string) (int, bool) {
	id, ok := g.TaskRegistry[name]
	return id, ok
}

// FindTaskWithFallback looks up a task by its exact registry key; failing
// that, it scans the registry for qualified keys ending in " "+name
// (suffix matching across script-qualified names) and returns the first
// match in sorted key order.
func (g *Graph) FindTaskWithFallback(name string) (int, bool) {
	if id, ok := g.TaskRegistry[name]; ok {
		return id, ok
	}

	suffix := " " + name
	var candidates []string
	for key := range g.TaskRegistry {
		if strings.HasSuffix(key, suffix) {
			candidates = append(candidates, key)
		}
	}
	if len(candidates) == 0 {
		return 0, false
	}
	sort.Strings(candidates)
	return g.TaskRegistry[candidates[0]], true
}

// AddEdge validates both endpoints exist before recording a generic
// (EdgeDependency) edge.
func (g *Graph) AddEdge(from, to int) error {
	return g.AddTypedEdge(from, to, EdgeDependency)
}

// AddTypedEdge is AddEdge with an explicit EdgeKind, for callers that need
// to later distinguish which edges are safe to walk forward.
func (g *Graph) AddTypedEdge(from, to int, kind EdgeKind) error {
	if !g.validID(from) {
		return bodoerrors.NewGraphError(fmt.Sprintf("unknown edge source node %d", from), nil)
	}
	if !g.validID(to) {
		return bodoerrors.NewGraphError(fmt.Sprintf("unknown edge target node %d", to), nil)
	}
	g.Edges = append(g.Edges, Edge{From: from, To: to, Kind: kind})
	return nil
}

func (g *Graph) validID(id int) bool {
	return id >= 0 && id < len(g.Nodes)
}

func (g *Graph) adjacency() map[int][]int {
	adj := make(map[int][]int, len(g.Nodes))
	for _, e := range g.Edges {
		adj[e.From] = append(adj[e.From], e.To)
	}
	return adj
}

// Predecessors returns the ids of nodes with an edge into nodeID, i.e.
// nodes that must run before it.
func (g *Graph) Predecessors(nodeID int) []int {
	var preds []int
	for _, e := range g.Edges {
		if e.To == nodeID {
			preds = append(preds, e.From)
		}
	}
	return preds
}

// Successors returns the ids of nodes nodeID has an edge into, i.e. nodes
// that must run after it.
func (g *Graph) Successors(nodeID int) []int {
	var succs []int
	for _, e := range g.Edges {
		if e.From == nodeID {
			succs = append(succs, e.To)
		}
	}
	return succs
}

// SuccessorsByKind is Successors filtered to a single EdgeKind. A node's
// own post_deps/concurrently-group edges are always this node's EdgeKind,
// regardless of whether the target is also, separately, a shared
// dependency of other tasks — so this is the safe way to forward-walk
// "things this node must trigger", without picking up edges this node
// only carries because something else points through it.
func (g *Graph) SuccessorsByKind(nodeID int, kind EdgeKind) []int {
	var succs []int
	for _, e := range g.Edges {
		if e.From == nodeID && e.Kind == kind {
			succs = append(succs, e.To)
		}
	}
	return succs
}

// DetectCycle runs DFS from every unvisited node, maintaining a recursion
// stack. On the first back-edge it returns the cycle path (as node ids) and
// true; otherwise it returns (nil, false).
func (g *Graph) DetectCycle() ([]int, bool) {
	adj := g.adjacency()
	visited := make([]bool, len(g.Nodes))
	onStack := make([]bool, len(g.Nodes))
	var stack []int

	var visit func(id int) []int
	visit = func(id int) []int {
		visited[id] = true
		onStack[id] = true
		stack = append(stack, id)

		for _, next := range adj[id] {
			if onStack[next] {
				// Close the cycle starting where `next` first appeared.
				for i, s := range stack {
					if s == next {
						return append(append([]int(nil), stack[i:]...))
					}
				}
				return append([]int(nil), stack...)
			}
			if !visited[next] {
				if cycle := visit(next); cycle != nil {
					return cycle
				}
			}
		}

		stack = stack[:len(stack)-1]
		onStack[id] = false
		return nil
	}

	for id := range g.Nodes {
		if !visited[id] {
			if cycle := visit(id); cycle != nil {
				return cycle, true
			}
		}
	}
	return nil, false
}

// FormatCycleError renders a cycle path (node ids) as
// "name depends on name depends on ... depends on name" using each task's
// display name.
func (g *Graph) FormatCycleError(path []int) string {
	names := make([]string, 0, len(path))
	for _, id := range path {
		if id >= 0 && id < len(g.Nodes) {
			names = append(names, g.Nodes[id].DisplayName())
		}
	}
	return bodoerrors.FormatCyclePath(names)
}

// TopologicalSort computes an execution order via Kahn's algorithm.
// Ties are broken by ascending node id for determinism. Returns a
// graph-error wrapping the formatted cycle on failure.
func (g *Graph) TopologicalSort() ([]int, error) {
	indegree := make([]int, len(g.Nodes))
	adj := g.adjacency()
	for _, tos := range adj {
		for _, to := range tos {
			indegree[to]++
		}
	}

	var queue []int
	for id, deg := range indegree {
		if deg == 0 {
			queue = append(queue, id)
		}
	}
	sort.Ints(queue)

	var order []int
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		order = append(order, id)

		var newlyReady []int
		for _, next := range adj[id] {
			indegree[next]--
			if indegree[next] == 0 {
				newlyReady = append(newlyReady, next)
			}
		}
		sort.Ints(newlyReady)
		queue = append(queue, newlyReady...)
		sort.Ints(queue)
	}

	if len(order) != len(g.Nodes) {
		if cycle, ok := g.DetectCycle(); ok {
			return nil, bodoerrors.NewCycleError(namesFor(g, cycle))
		}
		return nil, bodoerrors.NewGraphError("cycle detected while sorting graph", nil)
	}

	return order, nil
}

func namesFor(g *Graph, ids []int) []string {
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		names = append(names, g.Nodes[id].DisplayName())
	}
	return names
}
