package workflow

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// DefaultKey is the store key the workflow is persisted under.
const DefaultKey = "workflow"

// Persistence round-trips snapshots through a Store under one fixed key.
// It does not validate; callers decide whether a snapshot may be saved.
type Persistence struct {
	store Store
	key   string
}

// NewPersistence returns a Persistence writing to store under key.
// An empty key means DefaultKey.
func NewPersistence(store Store, key string) *Persistence {
	if key == "" {
		key = DefaultKey
	}
	return &Persistence{store: store, key: key}
}

// Key returns the key snapshots are stored under.
func (p *Persistence) Key() string {
	return p.key
}

// Save overwrites the stored workflow with g.
func (p *Persistence) Save(ctx context.Context, g Graph) error {
	data, err := Encode(g)
	if err != nil {
		return err
	}
	if err := p.store.Set(ctx, p.key, data); err != nil {
		return fmt.Errorf("workflow: save %q: %w", p.key, err)
	}
	return nil
}

// Load reads the stored workflow.
// Returns nil, nil if nothing is stored, and a *PersistenceReadError if the
// stored value cannot be decoded into a consistent graph.
func (p *Persistence) Load(ctx context.Context) (*Graph, error) {
	data, err := p.store.Get(ctx, p.key)
	if err != nil {
		return nil, fmt.Errorf("workflow: load %q: %w", p.key, err)
	}
	if data == nil {
		return nil, nil
	}

	g, err := Decode(data)
	if err != nil {
		return nil, &PersistenceReadError{Key: p.key, Err: err}
	}
	return &g, nil
}

// element is the persisted form: nodes and edges share one flat array, and
// an element with a source or target is an edge.
type element struct {
	ID       string    `json:"id"`
	Type     NodeType  `json:"type,omitempty"`
	Data     *NodeData `json:"data,omitempty"`
	Position *Position `json:"position,omitempty"`
	Style    *Style    `json:"style,omitempty"`
	Source   string    `json:"source,omitempty"`
	Target   string    `json:"target,omitempty"`
}

// Encode serializes g as a JSON array of node elements followed by edge elements.
func Encode(g Graph) ([]byte, error) {
	elems := make([]element, 0, len(g.Nodes)+len(g.Edges))
	for _, n := range g.Nodes {
		n = n.clone()
		elems = append(elems, element{
			ID:       n.ID,
			Type:     n.Type,
			Data:     &n.Data,
			Position: &n.Position,
			Style:    &n.Style,
		})
	}
	for _, e := range g.Edges {
		elems = append(elems, element{ID: e.ID, Source: e.Source, Target: e.Target})
	}

	data, err := json.Marshal(elems)
	if err != nil {
		return nil, fmt.Errorf("workflow: encode: %w", err)
	}
	return data, nil
}

// Decode parses the output of Encode and checks the graph invariants: unique
// edge ids, endpoints that exist in the same array, and node connections that
// list exactly the edges incident to the node.
func Decode(data []byte) (Graph, error) {
	var elems []element
	if err := json.Unmarshal(data, &elems); err != nil {
		return Graph{}, err
	}

	var g Graph
	nodes := make(map[string]bool)
	for _, el := range elems {
		if el.Source != "" || el.Target != "" {
			if el.ID == "" {
				return Graph{}, errors.New("edge without id")
			}
			g.Edges = append(g.Edges, Edge{ID: el.ID, Source: el.Source, Target: el.Target})
			continue
		}
		if el.ID == "" {
			return Graph{}, errors.New("node without id")
		}
		if nodes[el.ID] {
			return Graph{}, fmt.Errorf("duplicate node %q", el.ID)
		}
		nodes[el.ID] = true

		n := Node{ID: el.ID, Type: el.Type}
		if el.Data != nil {
			n.Data = *el.Data
		}
		if n.Data.Connections == nil {
			n.Data.Connections = []string{}
		}
		if el.Position != nil {
			n.Position = *el.Position
		}
		if el.Style != nil {
			n.Style = *el.Style
		}
		g.Nodes = append(g.Nodes, n)
	}

	edges := make(map[string]bool)
	incident := make(map[string][]string)
	for _, e := range g.Edges {
		if edges[e.ID] {
			return Graph{}, fmt.Errorf("duplicate edge %q", e.ID)
		}
		edges[e.ID] = true
		if !nodes[e.Source] || !nodes[e.Target] {
			return Graph{}, fmt.Errorf("edge %q references a missing node", e.ID)
		}
		incident[e.Source] = append(incident[e.Source], e.ID)
		incident[e.Target] = append(incident[e.Target], e.ID)
	}

	for _, n := range g.Nodes {
		if !sameMembers(n.Data.Connections, incident[n.ID]) {
			return Graph{}, fmt.Errorf("node %q connections do not match its edges", n.ID)
		}
	}
	return g, nil
}

// sameMembers reports whether a and b hold the same ids with the same
// multiplicity, in any order.
func sameMembers(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	counts := make(map[string]int, len(a))
	for _, id := range a {
		counts[id]++
	}
	for _, id := range b {
		counts[id]--
		if counts[id] < 0 {
			return false
		}
	}
	return true
}
