package txtree

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stub struct {
	ctx *Context
	err error
}

func (s *stub) TransactionContext() *Context { return s.ctx }
func (s *stub) OnBegin(Transaction)          {}
func (s *stub) OnValidateCommit() error      { return s.err }
func (s *stub) OnCommit(Transaction)         {}
func (s *stub) OnRollback(Transaction)       {}

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func TestHooks_ReceiveLifecycleEvents(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)}
	var events []Event
	record := func(e *Event) { events = append(events, *e) }

	root := &stub{}
	root.ctx = NewRoot(root,
		WithHooks(Hooks{OnBegin: record, OnCommit: record, OnRollback: record, OnValidationFailed: record}),
		withClock(clock.Now),
	)
	child := &stub{}
	child.ctx = NewNode(child, root)

	tx, err := root.ctx.Begin()
	require.NoError(t, err)

	veto := errors.New("veto")
	child.err = veto
	clock.Advance(2 * time.Second)
	require.ErrorIs(t, root.ctx.Commit(Any), veto)

	child.err = nil
	clock.Advance(time.Second)
	require.NoError(t, child.ctx.Commit(tx))

	tx2, err := child.ctx.Begin()
	require.NoError(t, err)
	clock.Advance(500 * time.Millisecond)
	require.NoError(t, root.ctx.Rollback(tx2))

	require.Len(t, events, 5)

	assert.Equal(t, Event{Type: EventBegin, Transaction: tx, Participants: 2}, events[0])
	assert.Equal(t, Event{Type: EventValidationFailed, Transaction: tx, Participants: 2, Duration: 2 * time.Second, Err: veto}, events[1])
	assert.Equal(t, Event{Type: EventCommit, Transaction: tx, Participants: 2, Duration: 3 * time.Second}, events[2])
	assert.Equal(t, EventBegin, events[3].Type)
	assert.Equal(t, Event{Type: EventRollback, Transaction: tx2, Participants: 2, Duration: 500 * time.Millisecond}, events[4])
}

func TestChain(t *testing.T) {
	var order []string
	first := Hooks{OnCommit: func(*Event) { order = append(order, "first") }}
	second := Hooks{
		OnCommit: func(*Event) { order = append(order, "second") },
		OnBegin:  func(*Event) { order = append(order, "begin") },
	}

	hooks := Chain(first, second)
	hooks.emit(&Event{Type: EventBegin})
	hooks.emit(&Event{Type: EventCommit})
	hooks.emit(&Event{Type: EventRollback})

	assert.Equal(t, []string{"begin", "first", "second"}, order)
}

func TestRoot_Logs(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	root := &stub{}
	root.ctx = NewRoot(root, WithLogger(logger))

	tx, err := root.ctx.Begin()
	require.NoError(t, err)
	root.err = errors.New("bad")
	require.Error(t, root.ctx.Commit(Any))
	require.NoError(t, root.ctx.Rollback(Any))

	out := buf.String()
	assert.Contains(t, out, "transaction begun")
	assert.Contains(t, out, "tx="+tx.String())
	assert.Contains(t, out, "transaction validation failed")
	assert.Contains(t, out, "transaction rolled back")
}

func TestWithLogger_IgnoresNil(t *testing.T) {
	root := &stub{}
	root.ctx = NewRoot(root, WithLogger(nil))

	assert.NotNil(t, root.ctx.state.logger)
}
