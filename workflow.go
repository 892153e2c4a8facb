package workflow

// NodeType names the kind of processing step a node performs.
// The set is open; unknown types are carried through untouched.
type NodeType string

const (
	TypeStart       NodeType = "start"
	TypeFilter      NodeType = "filter"
	TypeWait        NodeType = "wait"
	TypeConvert     NodeType = "convert"
	TypeSendRequest NodeType = "sendRequest"

	// TypeInput is the entry node type used by the canvas; it counts as a start node.
	TypeInput NodeType = "input"
)

// IsStart reports whether nodes of this type are exempt from the connection rule.
func (t NodeType) IsStart() bool {
	return t == TypeStart || t == TypeInput
}

// Graph is one snapshot of a workflow: its nodes and the edges between them.
// A Graph is never modified after it is created; every mutation returns a new one.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Node is a processing step in the workflow.
type Node struct {
	ID       string   `json:"id"`
	Type     NodeType `json:"type"`
	Data     NodeData `json:"data"`
	Position Position `json:"position"`
	Style    Style    `json:"style"`
}

// NodeData holds the per-node payload.
// Connections lists the ids of every edge incident to the node and is kept in
// sync by the Graph mutations, never by callers.
type NodeData struct {
	Label       string   `json:"label,omitempty"`
	Connections []string `json:"connections"`
}

// Position is where the node sits on the canvas.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Style holds presentation attributes. It changes independently of topology.
type Style struct {
	BackgroundColor string `json:"backgroundColor,omitempty"`
}

// Edge is a directed connection between two nodes of the same snapshot.
type Edge struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Target string `json:"target"`
}
