package txtree

import (
	"log/slog"
	"time"
	"weak"
)

// Context tracks the position of a transactable in its transaction tree and
// mediates transaction management for it.
//
// There are two kinds of contexts. The root is owned by the top-level
// transactable and holds the tree's only copy of the transaction state.
// Every other transactable owns a node, which has one parent and forwards
// begin, commit and rollback to the root. The root then walks the whole tree
// to notify every transactable.
//
// A Context is not safe for concurrent use. Callers sharing a tree across
// goroutines must serialize access to it.
type Context struct {
	owner    Transactable
	children registry

	// Nodes only. Both references are weak: the tree never keeps a
	// transactable alive.
	root   weak.Pointer[Context]
	parent weak.Pointer[Context]
	closed bool

	// joined is the last transaction the owner received OnBegin for.
	joined Transaction

	// Root only.
	state *rootState
}

type rootState struct {
	active  Transaction
	ongoing bool
	began   time.Time

	logger *slog.Logger
	hooks  Hooks
	now    func() time.Time
}

// NewRoot creates the root context of a new tree, owned by owner.
func NewRoot(owner Transactable, opts ...Option) *Context {
	if owner == nil {
		panic("txtree: root context needs an owner")
	}
	return &Context{
		owner: owner,
		state: newRootState(opts),
	}
}

// NewNode creates a context owned by owner and registers it as a child of
// the context of parent. The node belongs to the parent's tree for its whole
// lifetime.
//
// If the tree has an active transaction, owner receives OnBegin for it before
// NewNode returns. At that point owner has not stored the returned context
// yet, so OnBegin must not call owner.TransactionContext.
func NewNode(owner, parent Transactable) *Context {
	if owner == nil {
		panic("txtree: node context needs an owner")
	}
	if parent == nil {
		panic("txtree: node context needs a parent")
	}
	pc := parent.TransactionContext()
	if pc == nil {
		panic("txtree: parent has no transaction context")
	}
	root := pc.rootContext()

	c := &Context{
		owner:  owner,
		root:   weak.Make(root),
		parent: weak.Make(pc),
	}
	pc.children.register(c)

	if root.state.ongoing {
		n := c.propagateBegin(root.state.active)
		root.state.logger.Debug("context joined active transaction",
			"tx", root.state.active.String(),
			"participants", n,
		)
	}
	return c
}

// Owner returns the transactable that owns the context.
func (c *Context) Owner() Transactable {
	return c.owner
}

// IsRoot reports whether c is the root of its tree.
func (c *Context) IsRoot() bool {
	return c.state != nil
}

// Children returns the number of live direct children of c.
func (c *Context) Children() int {
	return c.children.len()
}

// IsActive reports whether a transaction is active in the tree.
func (c *Context) IsActive() bool {
	return c.rootContext().state.ongoing
}

// Active returns the active transaction of the tree. The boolean is false
// when no transaction is active.
func (c *Context) Active() (Transaction, bool) {
	s := c.rootContext().state
	if !s.ongoing {
		return Transaction{}, false
	}
	return s.active, true
}

// Close removes a node from its parent's registry. It is the counterpart of
// NewNode and is called when the owning transactable is discarded; a closed
// node is never notified again. Closing a root or closing twice panics.
func (c *Context) Close() {
	if c.state != nil {
		panic("txtree: cannot close a root context")
	}
	if c.closed {
		panic("txtree: context closed twice")
	}
	c.closed = true
	if p := c.parent.Value(); p != nil {
		p.children.unregister(c)
	}
}

// Begin starts a new transaction and notifies every transactable in the tree,
// parents before children. It fails with ErrAnotherTransactionActive if a
// transaction is already active.
func (c *Context) Begin() (Transaction, error) {
	r := c.rootContext()
	s := r.state
	if s.ongoing {
		return Transaction{}, ErrAnotherTransactionActive
	}

	tx := newTransaction()
	s.active = tx
	s.ongoing = true
	s.began = s.now()

	n := r.propagateBegin(tx)

	s.logger.Debug("transaction begun", "tx", tx.String(), "participants", n)
	s.hooks.emit(&Event{Type: EventBegin, Transaction: tx, Participants: n})
	return tx, nil
}

// Commit validates every transactable in the tree and, if all of them are
// consistent, commits the transaction, notifying children before parents.
//
// The descriptor must be Any or the active transaction. The first validation
// error is returned unchanged and leaves the transaction active, so the
// caller may fix the state and commit again, or roll back.
func (c *Context) Commit(descriptor Transaction) error {
	r := c.rootContext()
	s := r.state
	if err := s.check(descriptor); err != nil {
		return err
	}
	tx := s.active

	validated := 0
	if err := r.validate(&validated); err != nil {
		s.logger.Warn("transaction validation failed",
			"tx", tx.String(),
			"validated", validated,
			"error", err,
		)
		s.hooks.emit(&Event{
			Type:         EventValidationFailed,
			Transaction:  tx,
			Participants: validated,
			Duration:     s.now().Sub(s.began),
			Err:          err,
		})
		return err
	}

	n := r.propagateCommit(tx)
	s.finish()

	d := s.now().Sub(s.began)
	s.logger.Info("transaction committed", "tx", tx.String(), "participants", n, "duration", d)
	s.hooks.emit(&Event{Type: EventCommit, Transaction: tx, Participants: n, Duration: d})
	return nil
}

// Rollback discards the transaction, notifying children before parents.
// The descriptor must be Any or the active transaction.
func (c *Context) Rollback(descriptor Transaction) error {
	r := c.rootContext()
	s := r.state
	if err := s.check(descriptor); err != nil {
		return err
	}
	tx := s.active

	n := r.propagateRollback(tx)
	s.finish()

	d := s.now().Sub(s.began)
	s.logger.Info("transaction rolled back", "tx", tx.String(), "participants", n, "duration", d)
	s.hooks.emit(&Event{Type: EventRollback, Transaction: tx, Participants: n, Duration: d})
	return nil
}

func (s *rootState) check(descriptor Transaction) error {
	if !s.ongoing {
		return ErrTransactionNotActive
	}
	if !descriptor.Matches(s.active) {
		return ErrWrongTransactionDescriptor
	}
	return nil
}

func (s *rootState) finish() {
	s.active = Transaction{}
	s.ongoing = false
}

func (c *Context) rootContext() *Context {
	if c.state != nil {
		return c
	}
	r := c.root.Value()
	if r == nil {
		panic("txtree: root context has been released")
	}
	return r
}

// The walks below iterate over a snapshot of each registry; a child closed
// during a walk is skipped. A child that joins during the begin walk got
// OnBegin from NewNode and is not notified again.

func (c *Context) propagateBegin(tx Transaction) int {
	if c.joined.Equal(tx) {
		return 0
	}
	c.joined = tx
	c.owner.OnBegin(tx)
	n := 1
	for _, child := range c.children.live() {
		if c.children.contains(child) {
			n += child.propagateBegin(tx)
		}
	}
	return n
}

func (c *Context) validate(count *int) error {
	*count++
	if err := c.owner.OnValidateCommit(); err != nil {
		return err
	}
	for _, child := range c.children.live() {
		if !c.children.contains(child) {
			continue
		}
		if err := child.validate(count); err != nil {
			return err
		}
	}
	return nil
}

func (c *Context) propagateCommit(tx Transaction) int {
	n := 1
	for _, child := range c.children.live() {
		if c.children.contains(child) {
			n += child.propagateCommit(tx)
		}
	}
	c.owner.OnCommit(tx)
	return n
}

func (c *Context) propagateRollback(tx Transaction) int {
	n := 1
	for _, child := range c.children.live() {
		if c.children.contains(child) {
			n += child.propagateRollback(tx)
		}
	}
	c.owner.OnRollback(tx)
	return n
}
