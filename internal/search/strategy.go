package search

import (
	"container/heap"
	"fmt"
	"strings"
)

// Strategy selects the frontier discipline of a search.
type Strategy string

const (
	BFS    Strategy = "bfs"
	AStar  Strategy = "astar"
	Greedy Strategy = "greedy"
	DFS    Strategy = "dfs"
)

// StrategyInfo describes a strategy for catalogues and help output.
type StrategyInfo struct {
	Name        Strategy `json:"name"`
	Description string   `json:"description"`
	Optimal     bool     `json:"optimal"`
	Informed    bool     `json:"informed"`
}

var catalogue = []StrategyInfo{
	{BFS, "Breadth-first search; shortest plan in number of actions", true, false},
	{AStar, "A* ordered by depth plus heuristic; shortest plan with an admissible heuristic", true, true},
	{Greedy, "Greedy best-first on the heuristic alone; fast, plans may be longer", false, true},
	{DFS, "Depth-first search; low memory, plans may be much longer", false, false},
}

// Strategies lists the supported strategies in preference order.
func Strategies() []StrategyInfo {
	return append([]StrategyInfo(nil), catalogue...)
}

// ParseStrategy resolves a strategy name, case-insensitively.
func ParseStrategy(name string) (Strategy, error) {
	s := Strategy(strings.ToLower(strings.TrimSpace(name)))
	for _, info := range catalogue {
		if info.Name == s {
			return s, nil
		}
	}
	return "", fmt.Errorf("unknown strategy %q", name)
}

func (s Strategy) informed() bool {
	return s == AStar || s == Greedy
}

// frontier is the open list of a search run.
type frontier interface {
	push(*node)
	pop() *node
	len() int
}

func newFrontier(s Strategy) frontier {
	switch s {
	case DFS:
		return &stack{}
	case AStar:
		return &priorityQueue{weightG: true}
	case Greedy:
		return &priorityQueue{}
	default:
		return &queue{}
	}
}

type queue struct {
	items []*node
	head  int
}

func (q *queue) push(n *node) { q.items = append(q.items, n) }

func (q *queue) pop() *node {
	n := q.items[q.head]
	q.items[q.head] = nil
	q.head++
	// Reclaim the consumed prefix once it dominates the backing array.
	if q.head > 1024 && q.head*2 > len(q.items) {
		q.items = append([]*node(nil), q.items[q.head:]...)
		q.head = 0
	}
	return n
}

func (q *queue) len() int { return len(q.items) - q.head }

type stack struct {
	items []*node
}

func (s *stack) push(n *node) { s.items = append(s.items, n) }

func (s *stack) pop() *node {
	last := len(s.items) - 1
	n := s.items[last]
	s.items[last] = nil
	s.items = s.items[:last]
	return n
}

func (s *stack) len() int { return len(s.items) }

// priorityQueue orders nodes by f, then h, then insertion order.
// f is g+h when weightG is set (A*) and h alone otherwise (greedy).
type priorityQueue struct {
	nodes   nodeHeap
	weightG bool
}

func (p *priorityQueue) push(n *node) {
	n.f = n.h
	if p.weightG {
		n.f += n.g
	}
	heap.Push(&p.nodes, n)
}

func (p *priorityQueue) pop() *node { return heap.Pop(&p.nodes).(*node) }

func (p *priorityQueue) len() int { return p.nodes.Len() }

type nodeHeap []*node

func (h nodeHeap) Len() int { return len(h) }

func (h nodeHeap) Less(i, j int) bool {
	if h[i].f != h[j].f {
		return h[i].f < h[j].f
	}
	if h[i].h != h[j].h {
		return h[i].h < h[j].h
	}
	return h[i].seq < h[j].seq
}

func (h nodeHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *nodeHeap) Push(x any) { *h = append(*h, x.(*node)) }

func (h *nodeHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return item
}
