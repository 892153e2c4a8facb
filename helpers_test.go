package workflow

import (
	"fmt"
	"testing"
)

// sequentialIDs makes generated ids predictable for the duration of the test.
func sequentialIDs(t *testing.T) {
	t.Helper()
	orig := newID
	n := 0
	newID = func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
	t.Cleanup(func() { newID = orig })
}

// startFilter is the two-node graph used by most tests: a start node and an
// unconnected filter node.
func startFilter() Graph {
	return Graph{
		Nodes: []Node{
			{ID: "start", Type: TypeStart, Data: NodeData{Label: "Start", Connections: []string{}}},
			{ID: "filter", Type: TypeFilter, Data: NodeData{Label: "Filter Data", Connections: []string{}}},
		},
	}
}
