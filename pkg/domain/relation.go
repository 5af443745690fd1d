package domain

import "fmt"

// Relation is the directed graph induced by the initial atoms of a binary
// predicate, such as an adjacency relation between locations.
type Relation struct {
	Predicate Predicate
	Nodes     []ObjectID
	edges     map[ObjectID][]ObjectID
	reverse   map[ObjectID][]ObjectID
}

// Relation builds the graph of a binary predicate from the initial state.
func (p *Problem) Relation(name string) (*Relation, error) {
	pred, ok := p.domain.Predicate(name)
	if !ok {
		return nil, fmt.Errorf("relation %q: undeclared predicate", name)
	}
	if len(pred.Params) != 2 {
		return nil, fmt.Errorf("relation %q: predicate is not binary", name)
	}
	r := &Relation{
		Predicate: pred,
		edges:     make(map[ObjectID][]ObjectID),
		reverse:   make(map[ObjectID][]ObjectID),
	}
	seen := make(map[ObjectID]bool)
	addNode := func(id ObjectID) {
		if !seen[id] {
			seen[id] = true
			r.Nodes = append(r.Nodes, id)
		}
	}
	for _, a := range p.init {
		if a.Predicate != pred.ID {
			continue
		}
		from, to := a.Args[0], a.Args[1]
		addNode(from)
		addNode(to)
		r.edges[from] = append(r.edges[from], to)
		r.reverse[to] = append(r.reverse[to], from)
	}
	return r, nil
}

// Successors returns the targets of edges leaving from.
func (r *Relation) Successors(from ObjectID) []ObjectID {
	return r.edges[from]
}

// HasEdge reports whether the edge from -> to exists.
func (r *Relation) HasEdge(from, to ObjectID) bool {
	for _, t := range r.edges[from] {
		if t == to {
			return true
		}
	}
	return false
}

// Degree returns the number of incoming plus outgoing edges of a node.
func (r *Relation) Degree(id ObjectID) int {
	return len(r.edges[id]) + len(r.reverse[id])
}

// Distances returns the hop count from origin to every node reachable from it.
func (r *Relation) Distances(origin ObjectID) map[ObjectID]int {
	return bfs(origin, r.edges)
}

// DistancesTo returns the hop count from every node that can reach target.
func (r *Relation) DistancesTo(target ObjectID) map[ObjectID]int {
	return bfs(target, r.reverse)
}

func bfs(origin ObjectID, adj map[ObjectID][]ObjectID) map[ObjectID]int {
	dist := map[ObjectID]int{origin: 0}
	queue := []ObjectID{origin}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, next := range adj[cur] {
			if _, ok := dist[next]; ok {
				continue
			}
			dist[next] = dist[cur] + 1
			queue = append(queue, next)
		}
	}
	return dist
}
