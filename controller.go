package workflow

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/meikuraledutech/workflow/internal/logging"
)

// Op names the command that produced an Event.
type Op string

const (
	OpInitialize Op = "initialize"
	OpConnect    Op = "connect"
	OpSetColor   Op = "setColor"
	OpAddNode    Op = "addNode"
	OpSave       Op = "save"
	OpUndo       Op = "undo"
	OpRedo       Op = "redo"
)

// Event is delivered to listeners after a command changes state.
type Event struct {
	Op       Op
	Snapshot Graph
}

// Controller is the command surface for an editing session. It owns the
// history and writes snapshots through the persistence port.
// Commands are serialized; a Controller is safe for concurrent use.
type Controller struct {
	mu        sync.Mutex
	history   *History
	persist   *Persistence
	err       error
	log       *slog.Logger
	listeners []func(Event)
}

type Option func(*Controller)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) {
		c.log = l
	}
}

// WithListener registers fn to be called after every state change.
// Listeners run synchronously while the controller is locked and must not
// call back into it.
func WithListener(fn func(Event)) Option {
	return func(c *Controller) {
		c.listeners = append(c.listeners, fn)
	}
}

// NewController returns a Controller with an empty graph persisting through p.
// Call Initialize to load the stored workflow.
func NewController(p *Persistence, opts ...Option) *Controller {
	c := &Controller{
		history: NewHistory(Graph{}),
		persist: p,
		log:     logging.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Initialize replaces the session with the stored workflow and clears
// history. A missing or malformed stored value starts an empty graph; only
// store failures are returned.
func (c *Controller) Initialize(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	g, err := c.persist.Load(ctx)
	var readErr *PersistenceReadError
	switch {
	case errors.As(err, &readErr):
		c.log.Warn("discarding stored workflow", "key", readErr.Key, "error", readErr.Err)
		g = nil
	case err != nil:
		return err
	}

	if g == nil {
		c.history.Reset(Graph{})
	} else {
		c.history.Reset(*g)
	}
	c.err = nil
	c.notify(OpInitialize)
	return nil
}

// Connect adds an edge from source to target.
func (c *Controller) Connect(source, target string) error {
	return c.apply(OpConnect, Connect(source, target))
}

// SetColor changes a node's background color.
func (c *Controller) SetColor(id, color string) error {
	return c.apply(OpSetColor, SetNodeColor(id, color))
}

// AddNode adds n to the graph and returns its id.
func (c *Controller) AddNode(n Node) (string, error) {
	if n.ID == "" {
		n.ID = newID()
	}
	return n.ID, c.apply(OpAddNode, AddNode(n))
}

// Save persists the current snapshot if it is save-eligible.
// Otherwise the stored value is left as it was and a *ValidationError is
// returned and reported through Err.
func (c *Controller) Save(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	g := c.history.Current()
	if err := Validate(g); err != nil {
		c.err = err
		c.log.Info("save rejected", "error", err)
		return err
	}
	if err := c.persist.Save(ctx, g); err != nil {
		return err
	}
	c.err = nil
	c.notify(OpSave)
	return nil
}

// Undo restores the previous snapshot and persists it without validation.
// It returns false if there was nothing to undo. If the write fails the
// step is rolled back.
func (c *Controller) Undo(ctx context.Context) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	g, ok := c.history.Undo()
	if !ok {
		c.log.Debug("nothing to undo")
		return false, nil
	}
	if err := c.persist.Save(ctx, g); err != nil {
		c.history.Redo()
		return false, err
	}
	c.notify(OpUndo)
	return true, nil
}

// Redo reapplies the most recently undone snapshot and persists it without
// validation. It returns false if there was nothing to redo. If the write
// fails the step is rolled back.
func (c *Controller) Redo(ctx context.Context) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	g, ok := c.history.Redo()
	if !ok {
		c.log.Debug("nothing to redo")
		return false, nil
	}
	if err := c.persist.Save(ctx, g); err != nil {
		c.history.Undo()
		return false, err
	}
	c.notify(OpRedo)
	return true, nil
}

// State is a consistent view of a session, taken under one lock.
type State struct {
	Snapshot Graph
	CanUndo  bool
	CanRedo  bool
	Err      error
}

// State returns the current snapshot together with the history flags and
// the reported error.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return State{
		Snapshot: c.history.Current(),
		CanUndo:  c.history.CanUndo(),
		CanRedo:  c.history.CanRedo(),
		Err:      c.err,
	}
}

// Current returns a copy of the current snapshot.
func (c *Controller) Current() Graph {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.history.Current()
}

func (c *Controller) CanUndo() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.history.CanUndo()
}

func (c *Controller) CanRedo() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.history.CanRedo()
}

// Err returns the error reported by the last rejected Save, or nil once a
// Save succeeds.
func (c *Controller) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

func (c *Controller) apply(op Op, m Mutation) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.history.Apply(m); err != nil {
		c.log.Debug("mutation rejected", "op", op, "error", err)
		return err
	}
	c.notify(op)
	return nil
}

func (c *Controller) notify(op Op) {
	for _, fn := range c.listeners {
		fn(Event{Op: op, Snapshot: c.history.Current()})
	}
}
