package workflow

// IsValid reports whether g may be saved: every node that is not a start
// node must have at least one connection. Incoming and outgoing edges are
// not distinguished.
func IsValid(g Graph) bool {
	return Validate(g) == nil
}

// Validate returns a *ValidationError naming every unconnected non-start
// node, or nil if g is save-eligible.
func Validate(g Graph) error {
	var unconnected []string
	for _, n := range g.Nodes {
		if n.Type.IsStart() {
			continue
		}
		if len(n.Data.Connections) == 0 {
			unconnected = append(unconnected, n.ID)
		}
	}
	if len(unconnected) > 0 {
		return &ValidationError{NodeIDs: unconnected}
	}
	return nil
}
