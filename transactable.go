package txtree

// Transactable is an object that takes part in transactions.
//
// Each transactable owns exactly one Context, created together with the
// transactable and never replaced. The context delivers the notifications
// below as transactions begin and end anywhere in the tree.
type Transactable interface {
	// TransactionContext returns the context owned by the transactable.
	TransactionContext() *Context

	// OnBegin is called when a transaction starts, or when the transactable
	// joins a tree whose transaction is already active. Parents are notified
	// before their children.
	OnBegin(tx Transaction)

	// OnValidateCommit reports whether the staged state may be committed.
	// A non-nil error vetoes the commit and is returned to the caller as is.
	OnValidateCommit() error

	// OnCommit folds staged changes into committed state. Children are
	// notified before their parents. It must not fail.
	OnCommit(tx Transaction)

	// OnRollback discards staged changes. Children are notified before their
	// parents. It must not fail.
	OnRollback(tx Transaction)
}

// IsActive reports whether a transaction is active in the tree of p.
func IsActive(p Transactable) bool {
	return p.TransactionContext().IsActive()
}

// Active returns the transaction active in the tree of p, if any.
func Active(p Transactable) (Transaction, bool) {
	return p.TransactionContext().Active()
}

// Begin starts a transaction in the tree of p.
func Begin(p Transactable) (Transaction, error) {
	return p.TransactionContext().Begin()
}

// Commit commits the transaction selected by descriptor in the tree of p.
// Pass Any to commit whatever transaction is active.
func Commit(p Transactable, descriptor Transaction) error {
	return p.TransactionContext().Commit(descriptor)
}

// Rollback rolls back the transaction selected by descriptor in the tree of p.
// Pass Any to roll back whatever transaction is active.
func Rollback(p Transactable, descriptor Transaction) error {
	return p.TransactionContext().Rollback(descriptor)
}

// Run executes body within a transaction of the tree of p. See Context.Run.
func Run(p Transactable, body func() error) error {
	return p.TransactionContext().Run(body)
}

// Do is Run for bodies that produce a value. The value is returned only when
// the body and the surrounding commit both succeed.
func Do[T any](p Transactable, body func() (T, error)) (T, error) {
	var out T
	err := p.TransactionContext().Run(func() error {
		v, err := body()
		if err != nil {
			return err
		}
		out = v
		return nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}
