package workflow

import (
	"slices"

	"github.com/google/uuid"
)

// newID generates ids for edges and for nodes added without one.
var newID = uuid.NewString

// Mutation produces a new snapshot from an existing one.
type Mutation func(Graph) (Graph, error)

// Node returns the node with the given id.
func (g Graph) Node(id string) (Node, bool) {
	i := g.nodeIndex(id)
	if i < 0 {
		return Node{}, false
	}
	return g.Nodes[i].clone(), true
}

// Edge returns the edge with the given id.
func (g Graph) Edge(id string) (Edge, bool) {
	for _, e := range g.Edges {
		if e.ID == id {
			return e, true
		}
	}
	return Edge{}, false
}

// Connect returns a copy of g with a new edge from source to target.
// The edge id is appended to the connections of both endpoints.
// Self-loops and parallel edges are allowed.
func (g Graph) Connect(source, target string) (Graph, error) {
	si := g.nodeIndex(source)
	if si < 0 {
		return Graph{}, &UnknownNodeError{ID: source}
	}
	ti := g.nodeIndex(target)
	if ti < 0 {
		return Graph{}, &UnknownNodeError{ID: target}
	}

	next := g.clone()
	e := Edge{ID: next.freshEdgeID(), Source: source, Target: target}
	next.Edges = append(next.Edges, e)
	next.Nodes[si].Data.Connections = append(next.Nodes[si].Data.Connections, e.ID)
	next.Nodes[ti].Data.Connections = append(next.Nodes[ti].Data.Connections, e.ID)
	return next, nil
}

// SetNodeColor returns a copy of g where the node's background color is color.
// Topology is untouched.
func (g Graph) SetNodeColor(id, color string) (Graph, error) {
	i := g.nodeIndex(id)
	if i < 0 {
		return Graph{}, &UnknownNodeError{ID: id}
	}

	next := g.clone()
	next.Nodes[i].Style.BackgroundColor = color
	return next, nil
}

// AddNode returns a copy of g with n appended.
// If n.ID is empty a UUID is generated. Connections are reset, since a new
// node has no incident edges yet.
func (g Graph) AddNode(n Node) (Graph, error) {
	if n.ID == "" {
		n.ID = newID()
	}
	if g.nodeIndex(n.ID) >= 0 {
		return Graph{}, ErrDuplicateNode
	}

	n = n.clone()
	n.Data.Connections = []string{}

	next := g.clone()
	next.Nodes = append(next.Nodes, n)
	return next, nil
}

// Equal reports whether g and other have the same nodes and edges in the same
// order. Nil and empty sequences are considered equal.
func (g Graph) Equal(other Graph) bool {
	if len(g.Nodes) != len(other.Nodes) || len(g.Edges) != len(other.Edges) {
		return false
	}
	for i := range g.Nodes {
		a, b := g.Nodes[i], other.Nodes[i]
		if a.ID != b.ID || a.Type != b.Type || a.Position != b.Position || a.Style != b.Style ||
			a.Data.Label != b.Data.Label || !slices.Equal(a.Data.Connections, b.Data.Connections) {
			return false
		}
	}
	return slices.Equal(g.Edges, other.Edges)
}

// Connect adapts Graph.Connect to a Mutation.
func Connect(source, target string) Mutation {
	return func(g Graph) (Graph, error) { return g.Connect(source, target) }
}

// SetNodeColor adapts Graph.SetNodeColor to a Mutation.
func SetNodeColor(id, color string) Mutation {
	return func(g Graph) (Graph, error) { return g.SetNodeColor(id, color) }
}

// AddNode adapts Graph.AddNode to a Mutation.
func AddNode(n Node) Mutation {
	return func(g Graph) (Graph, error) { return g.AddNode(n) }
}

func (g Graph) nodeIndex(id string) int {
	return slices.IndexFunc(g.Nodes, func(n Node) bool { return n.ID == id })
}

func (g Graph) freshEdgeID() string {
	for {
		id := newID()
		if _, taken := g.Edge(id); !taken {
			return id
		}
	}
}

// clone deep-copies g so the copy can be changed without touching g.
func (g Graph) clone() Graph {
	next := Graph{
		Nodes: make([]Node, len(g.Nodes), len(g.Nodes)+1),
		Edges: make([]Edge, len(g.Edges), len(g.Edges)+1),
	}
	for i, n := range g.Nodes {
		next.Nodes[i] = n.clone()
	}
	copy(next.Edges, g.Edges)
	return next
}

func (n Node) clone() Node {
	conns := make([]string, len(n.Data.Connections))
	copy(conns, n.Data.Connections)
	n.Data.Connections = conns
	return n
}
