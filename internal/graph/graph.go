// Package graph implements the dependency-graph utilities the scheduler
// needs: graph construction, cycle detection, priority-aware topological
// sort, critical-path length, and dependency-chain depth. It operates on a
// small projection (Node) rather than domain.ScheduleItem directly, so it
// has no dependency on the rest of the engine.
package graph

import "sort"

// Node is the minimal projection of a schedulable item the graph algorithms
// need: an identity, its duration (for critical-path math), its priority
// (for the topological sort's ready-queue ordering), and the ids it depends
// on.
type Node struct {
	ID           string
	DurationMin  int
	Priority     float64
	Dependencies []string
}

// Build returns an adjacency map from id to the ids it directly depends on.
// Missing-dependency validation is the caller's responsibility — Build
// never rejects an edge whose target isn't in nodes.
func Build(nodes []Node) map[string][]string {
	g := make(map[string][]string, len(nodes))
	for _, n := range nodes {
		g[n.ID] = append([]string(nil), n.Dependencies...)
	}
	return g
}

// MissingDependencies returns, for every node, any dependency id that does
// not correspond to a node in the input set.
func MissingDependencies(nodes []Node) map[string][]string {
	known := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		known[n.ID] = true
	}
	missing := make(map[string][]string)
	for _, n := range nodes {
		for _, dep := range n.Dependencies {
			if !known[dep] {
				missing[n.ID] = append(missing[n.ID], dep)
			}
		}
	}
	return missing
}

// CycleResult reports whether the dependency graph contains a cycle and, if
// so, the node ids that participate in one.
type CycleResult struct {
	HasCycle bool
	Cycles   [][]string
}

// DetectCycles runs DFS with a recursion stack over nodes in deterministic
// (id-sorted) order, reporting every cycle found.
func DetectCycles(nodes []Node) CycleResult {
	g := Build(nodes)
	ids := make([]string, 0, len(nodes))
	for _, n := range nodes {
		ids = append(ids, n.ID)
	}
	sort.Strings(ids)

	visited := make(map[string]bool, len(nodes))
	onStack := make(map[string]bool, len(nodes))
	var stack []string
	var result CycleResult

	var visit func(id string)
	visit = func(id string) {
		visited[id] = true
		onStack[id] = true
		stack = append(stack, id)

		deps := g[id]
		sorted := append([]string(nil), deps...)
		sort.Strings(sorted)
		for _, dep := range sorted {
			if onStack[dep] {
				result.HasCycle = true
				result.Cycles = append(result.Cycles, cyclePath(stack, dep))
				continue
			}
			if !visited[dep] {
				visit(dep)
			}
		}

		stack = stack[:len(stack)-1]
		onStack[id] = false
	}

	for _, id := range ids {
		if !visited[id] {
			visit(id)
		}
	}
	return result
}

// cyclePath extracts the portion of stack from the first occurrence of
// start to the end, representing the cycle just closed.
func cyclePath(stack []string, start string) []string {
	for i, id := range stack {
		if id == start {
			path := append([]string(nil), stack[i:]...)
			return append(path, start)
		}
	}
	return append([]string(nil), stack...)
}

// TopologicalSort orders nodes via Kahn's algorithm with a priority-ordered
// ready queue: among nodes with satisfied dependencies, the highest
// Priority goes first, ties broken by id ascending. If cycles remain after
// the ready queue empties (validation was skipped upstream), the leftover
// nodes are appended in priority order as a defensive fallback.
func TopologicalSort(nodes []Node) []string {
	inDegree := make(map[string]int, len(nodes))
	dependents := make(map[string][]string, len(nodes))
	byID := make(map[string]Node, len(nodes))
	for _, n := range nodes {
		byID[n.ID] = n
		if _, ok := inDegree[n.ID]; !ok {
			inDegree[n.ID] = 0
		}
	}
	for _, n := range nodes {
		for _, dep := range n.Dependencies {
			if _, ok := byID[dep]; !ok {
				continue // missing dependency — caller's concern, not ours
			}
			inDegree[n.ID]++
			dependents[dep] = append(dependents[dep], n.ID)
		}
	}

	var ready []string
	for _, n := range nodes {
		if inDegree[n.ID] == 0 {
			ready = append(ready, n.ID)
		}
	}
	sortByPriorityThenID(ready, byID)

	order := make([]string, 0, len(nodes))
	visited := make(map[string]bool, len(nodes))

	for len(ready) > 0 {
		id := ready[0]
		ready = ready[1:]
		order = append(order, id)
		visited[id] = true

		var newlyReady []string
		for _, dep := range dependents[id] {
			inDegree[dep]--
			if inDegree[dep] == 0 {
				newlyReady = append(newlyReady, dep)
			}
		}
		sortByPriorityThenID(newlyReady, byID)
		ready = mergeByPriority(ready, newlyReady, byID)
	}

	if len(order) < len(nodes) {
		var leftover []string
		for _, n := range nodes {
			if !visited[n.ID] {
				leftover = append(leftover, n.ID)
			}
		}
		sortByPriorityThenID(leftover, byID)
		order = append(order, leftover...)
	}

	return order
}

func sortByPriorityThenID(ids []string, byID map[string]Node) {
	sort.SliceStable(ids, func(i, j int) bool {
		a, b := byID[ids[i]], byID[ids[j]]
		if a.Priority != b.Priority {
			return a.Priority > b.Priority
		}
		return a.ID < b.ID
	})
}

// mergeByPriority merges two already priority-sorted id slices, preserving
// overall priority-descending, id-ascending order.
func mergeByPriority(a, b []string, byID map[string]Node) []string {
	if len(b) == 0 {
		return a
	}
	merged := append(append([]string(nil), a...), b...)
	sortByPriorityThenID(merged, byID)
	return merged
}

// CriticalPathMinutes returns the overall critical path length, in minutes,
// across the whole node set: the longest duration-weighted dependency
// chain.
func CriticalPathMinutes(nodes []Node) int {
	byID := make(map[string]Node, len(nodes))
	for _, n := range nodes {
		byID[n.ID] = n
	}
	memo := make(map[string]int, len(nodes))
	var longest func(id string) int
	longest = func(id string) int {
		if v, ok := memo[id]; ok {
			return v
		}
		n := byID[id]
		best := 0
		for _, dep := range n.Dependencies {
			if _, ok := byID[dep]; !ok {
				continue
			}
			if v := longest(dep); v > best {
				best = v
			}
		}
		v := n.DurationMin + best
		memo[id] = v
		return v
	}
	max := 0
	for _, n := range nodes {
		if v := longest(n.ID); v > max {
			max = v
		}
	}
	return max
}

// DependencyChainLength returns the depth of the longest dependency branch
// rooted at id (an item with no dependencies has chain length 1).
func DependencyChainLength(id string, nodes []Node) int {
	byID := make(map[string]Node, len(nodes))
	for _, n := range nodes {
		byID[n.ID] = n
	}
	memo := make(map[string]int, len(nodes))
	var depth func(string) int
	depth = func(cur string) int {
		if v, ok := memo[cur]; ok {
			return v
		}
		n, ok := byID[cur]
		if !ok {
			return 0
		}
		maxDepth := 0
		for _, dep := range n.Dependencies {
			if v := depth(dep); v > maxDepth {
				maxDepth = v
			}
		}
		v := maxDepth + 1
		memo[cur] = v
		return v
	}
	return depth(id)
}
