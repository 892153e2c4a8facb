package workflow

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newSeeded returns a controller initialized from a store holding g.
func newSeeded(t *testing.T, g Graph, opts ...Option) (*Controller, *mapStore) {
	t.Helper()
	s := newMapStore()
	p := NewPersistence(s, "")
	require.NoError(t, p.Save(context.Background(), g))
	s.sets = 0

	ctl := NewController(p, opts...)
	require.NoError(t, ctl.Initialize(context.Background()))
	return ctl, s
}

func stored(t *testing.T, s *mapStore) Graph {
	t.Helper()
	g, err := NewPersistence(s, "").Load(context.Background())
	require.NoError(t, err)
	require.NotNil(t, g)
	return *g
}

func TestController_ScenarioA_SaveRejectsUnconnectedNode(t *testing.T) {
	ctx := context.Background()
	ctl, s := newSeeded(t, startFilter())
	before := append([]byte(nil), s.data[DefaultKey]...)

	err := ctl.Save(ctx)
	require.ErrorIs(t, err, ErrValidation)
	assert.ErrorIs(t, ctl.Err(), ErrValidation)

	assert.Equal(t, before, s.data[DefaultKey])
	assert.Zero(t, s.sets)
}

func TestController_ScenarioB_ConnectThenSave(t *testing.T) {
	ctx := context.Background()
	ctl, s := newSeeded(t, startFilter())
	require.Error(t, ctl.Save(ctx))

	require.NoError(t, ctl.Connect("start", "filter"))
	filter, _ := ctl.Current().Node("filter")
	assert.Len(t, filter.Data.Connections, 1)
	assert.True(t, IsValid(ctl.Current()))

	require.NoError(t, ctl.Save(ctx))
	assert.NoError(t, ctl.Err())

	saved := stored(t, s)
	assert.Len(t, saved.Nodes, 2)
	assert.Len(t, saved.Edges, 1)
	assert.True(t, saved.Equal(ctl.Current()))
}

func TestController_ScenarioC_UndoRedoPersist(t *testing.T) {
	ctx := context.Background()
	ctl, s := newSeeded(t, startFilter())
	require.NoError(t, ctl.Connect("start", "filter"))
	require.NoError(t, ctl.Save(ctx))
	connected := ctl.Current()

	ok, err := ctl.Undo(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, ctl.Current().Equal(startFilter()))
	// Persisted even though the restored graph is not save-eligible.
	assert.True(t, stored(t, s).Equal(startFilter()))
	assert.False(t, IsValid(stored(t, s)))

	ok, err = ctl.Redo(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, ctl.Current().Equal(connected))
	assert.True(t, stored(t, s).Equal(connected))
}

func TestController_ScenarioD_UnknownNodeLeavesStateAlone(t *testing.T) {
	ctx := context.Background()
	ctl, _ := newSeeded(t, startFilter())
	require.NoError(t, ctl.SetColor("filter", "red"))
	_, err := ctl.Undo(ctx)
	require.NoError(t, err)

	before := ctl.Current()
	err = ctl.Connect("missing", "filter")
	require.ErrorIs(t, err, ErrNodeNotFound)

	assert.True(t, ctl.Current().Equal(before))
	assert.False(t, ctl.CanUndo())
	assert.True(t, ctl.CanRedo())

	assert.ErrorIs(t, ctl.SetColor("missing", "blue"), ErrNodeNotFound)
	assert.True(t, ctl.CanRedo())
}

func TestController_UndoRedoNothingToDo(t *testing.T) {
	ctx := context.Background()
	ctl, s := newSeeded(t, startFilter())

	ok, err := ctl.Undo(ctx)
	assert.NoError(t, err)
	assert.False(t, ok)

	ok, err = ctl.Redo(ctx)
	assert.NoError(t, err)
	assert.False(t, ok)

	assert.Zero(t, s.sets)
}

func TestController_MutationAfterUndoDropsRedo(t *testing.T) {
	ctx := context.Background()
	ctl, _ := newSeeded(t, startFilter())

	require.NoError(t, ctl.SetColor("filter", "red"))
	_, err := ctl.Undo(ctx)
	require.NoError(t, err)
	require.NoError(t, ctl.SetColor("filter", "blue"))

	before := ctl.Current()
	ok, err := ctl.Redo(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.True(t, ctl.Current().Equal(before))
}

func TestController_UndoWriteFailureRollsBack(t *testing.T) {
	ctx := context.Background()
	ctl, s := newSeeded(t, startFilter())
	require.NoError(t, ctl.SetColor("filter", "red"))
	colored := ctl.Current()

	s.setErr = errors.New("disk full")
	ok, err := ctl.Undo(ctx)
	require.Error(t, err)
	assert.False(t, ok)
	assert.True(t, ctl.Current().Equal(colored))
	assert.True(t, ctl.CanUndo())
	assert.False(t, ctl.CanRedo())

	s.setErr = nil
	ok, err = ctl.Undo(ctx)
	require.NoError(t, err)
	require.True(t, ok)

	s.setErr = errors.New("disk full")
	ok, err = ctl.Redo(ctx)
	require.Error(t, err)
	assert.False(t, ok)
	assert.True(t, ctl.Current().Equal(startFilter()))
	assert.True(t, ctl.CanRedo())
}

func TestController_SaveClearsReportedError(t *testing.T) {
	ctx := context.Background()
	ctl, _ := newSeeded(t, startFilter())

	require.Error(t, ctl.Save(ctx))
	require.Error(t, ctl.Err())

	require.NoError(t, ctl.Connect("start", "filter"))
	require.NoError(t, ctl.Save(ctx))
	assert.NoError(t, ctl.Err())
}

func TestController_InitializeEmptyStore(t *testing.T) {
	ctl := NewController(NewPersistence(newMapStore(), ""))
	require.NoError(t, ctl.Initialize(context.Background()))

	assert.True(t, ctl.Current().Equal(Graph{}))
	assert.False(t, ctl.CanUndo())
	assert.False(t, ctl.CanRedo())
}

func TestController_InitializeMalformedFallsBackToEmpty(t *testing.T) {
	s := newMapStore()
	s.data[DefaultKey] = []byte(`not json`)

	ctl := NewController(NewPersistence(s, ""))
	_, err := ctl.AddNode(Node{ID: "stale", Type: TypeWait})
	require.NoError(t, err)
	require.NoError(t, ctl.Initialize(context.Background()))

	assert.True(t, ctl.Current().Equal(Graph{}))
	assert.False(t, ctl.CanUndo())
}

func TestController_InitializeStoreError(t *testing.T) {
	s := newMapStore()
	s.getErr = errors.New("connection refused")

	ctl := NewController(NewPersistence(s, ""))
	err := ctl.Initialize(context.Background())
	assert.ErrorContains(t, err, "connection refused")
}

func TestController_InitializeClearsHistory(t *testing.T) {
	ctl, _ := newSeeded(t, startFilter())
	require.NoError(t, ctl.SetColor("filter", "red"))
	require.True(t, ctl.CanUndo())

	require.NoError(t, ctl.Initialize(context.Background()))
	assert.True(t, ctl.Current().Equal(startFilter()))
	assert.False(t, ctl.CanUndo())
}

func TestController_AddNode(t *testing.T) {
	sequentialIDs(t)
	ctl := NewController(NewPersistence(newMapStore(), ""))

	id, err := ctl.AddNode(Node{Type: TypeConvert})
	require.NoError(t, err)
	assert.Equal(t, "id-1", id)

	_, err = ctl.AddNode(Node{ID: id, Type: TypeWait})
	assert.ErrorIs(t, err, ErrDuplicateNode)

	n, ok := ctl.Current().Node(id)
	require.True(t, ok)
	assert.Equal(t, TypeConvert, n.Type)
}

func TestController_Listener(t *testing.T) {
	ctx := context.Background()
	var ops []Op
	var last Graph
	ctl, _ := newSeeded(t, startFilter(), WithListener(func(ev Event) {
		ops = append(ops, ev.Op)
		last = ev.Snapshot
	}))

	require.NoError(t, ctl.Connect("start", "filter"))
	require.NoError(t, ctl.SetColor("filter", "red"))
	require.Error(t, ctl.Connect("missing", "filter"))
	require.NoError(t, ctl.Save(ctx))
	_, err := ctl.Undo(ctx)
	require.NoError(t, err)
	_, err = ctl.Redo(ctx)
	require.NoError(t, err)

	assert.Equal(t, []Op{OpInitialize, OpConnect, OpSetColor, OpSave, OpUndo, OpRedo}, ops)
	assert.True(t, last.Equal(ctl.Current()))
}

func TestController_CurrentReturnsCopy(t *testing.T) {
	ctl, _ := newSeeded(t, startFilter())

	got := ctl.Current()
	got.Nodes[1].Style.BackgroundColor = "changed"
	got.Nodes[1].Data.Connections = append(got.Nodes[1].Data.Connections, "ghost")

	again := ctl.Current()
	assert.True(t, again.Equal(startFilter()))
	assert.False(t, IsValid(again))
	assert.False(t, ctl.CanUndo())
	assert.ErrorIs(t, ctl.Save(context.Background()), ErrValidation)
}

func TestController_ListenerSnapshotIsCopy(t *testing.T) {
	var seen []Graph
	ctl, _ := newSeeded(t, startFilter(),
		WithListener(func(ev Event) {
			ev.Snapshot.Nodes[1].Data.Connections = append(ev.Snapshot.Nodes[1].Data.Connections, "ghost")
		}),
		WithListener(func(ev Event) {
			seen = append(seen, ev.Snapshot)
		}),
	)

	require.NoError(t, ctl.SetColor("filter", "red"))
	filter, _ := ctl.Current().Node("filter")
	assert.Empty(t, filter.Data.Connections)
	assert.False(t, IsValid(ctl.Current()))

	require.Len(t, seen, 2)
	last, _ := seen[1].Node("filter")
	assert.Empty(t, last.Data.Connections)
	assert.Equal(t, "red", last.Style.BackgroundColor)
}

func TestController_State(t *testing.T) {
	ctx := context.Background()
	ctl, _ := newSeeded(t, startFilter())

	st := ctl.State()
	assert.True(t, st.Snapshot.Equal(startFilter()))
	assert.False(t, st.CanUndo)
	assert.False(t, st.CanRedo)
	assert.NoError(t, st.Err)

	require.Error(t, ctl.Save(ctx))
	require.NoError(t, ctl.Connect("start", "filter"))
	_, err := ctl.Undo(ctx)
	require.NoError(t, err)

	st = ctl.State()
	assert.False(t, st.CanUndo)
	assert.True(t, st.CanRedo)
	assert.ErrorIs(t, st.Err, ErrValidation)

	st.Snapshot.Nodes[0].ID = "renamed"
	_, ok := ctl.Current().Node("start")
	assert.True(t, ok)
}

func TestController_InitializeRejectsInconsistentConnections(t *testing.T) {
	s := newMapStore()
	s.data[DefaultKey] = []byte(`[{"id":"s","type":"start"},{"id":"f","type":"filter","data":{"connections":["ghost"]}}]`)

	ctl := NewController(NewPersistence(s, ""))
	require.NoError(t, ctl.Initialize(context.Background()))

	assert.True(t, ctl.Current().Equal(Graph{}))
}
