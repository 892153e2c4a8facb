package workflow

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNodeNotFound      = errors.New("workflow: node not found")
	ErrDuplicateNode     = errors.New("workflow: node already exists")
	ErrValidation        = errors.New("workflow: validation failed, make sure all nodes are connected")
	ErrMalformedWorkflow = errors.New("workflow: malformed persisted workflow")
)

// Store is the key-value port the workflow is persisted through.
type Store interface {
	// Get returns the value stored under key, or nil, nil if there is none.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key string, value []byte) error
}

// UnknownNodeError is returned when a mutation references a node id that is
// not part of the graph. It matches ErrNodeNotFound.
type UnknownNodeError struct {
	ID string
}

func (e *UnknownNodeError) Error() string {
	return fmt.Sprintf("workflow: unknown node %q", e.ID)
}

func (e *UnknownNodeError) Is(target error) bool {
	return target == ErrNodeNotFound
}

// ValidationError lists the non-start nodes that have no connections.
// It matches ErrValidation.
type ValidationError struct {
	NodeIDs []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s (unconnected: %s)", ErrValidation.Error(), strings.Join(e.NodeIDs, ", "))
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// PersistenceReadError reports a stored value that could not be turned back
// into a graph. It matches ErrMalformedWorkflow.
type PersistenceReadError struct {
	Key string
	Err error
}

func (e *PersistenceReadError) Error() string {
	return fmt.Sprintf("workflow: read %q: %v", e.Key, e.Err)
}

func (e *PersistenceReadError) Unwrap() error {
	return e.Err
}

func (e *PersistenceReadError) Is(target error) bool {
	return target == ErrMalformedWorkflow
}
