package txtree

import "errors"

// Run executes body within a transaction.
//
// If a transaction is already active in the tree, body runs directly as part
// of it and Run only reports body's error. Otherwise Run begins a
// transaction, runs body and commits. When body fails, or the commit is
// vetoed by validation, the transaction is rolled back and the original error
// is returned unwrapped. A panicking body is rolled back too and the panic
// continues.
//
// Nested calls therefore leave the transaction lifecycle to the outermost one.
func (c *Context) Run(body func() error) error {
	if c.IsActive() {
		return body()
	}

	tx, err := c.Begin()
	if err != nil {
		return err
	}

	done := false
	defer func() {
		if done {
			return
		}
		if r := recover(); r != nil {
			c.abandon(tx, "panic")
			panic(r)
		}
	}()

	if err := body(); err != nil {
		done = true
		c.abandon(tx, "body failed")
		return err
	}
	if err := c.Commit(tx); err != nil {
		done = true
		c.abandon(tx, "commit failed")
		return err
	}
	done = true
	return nil
}

// abandon rolls back tx unless the body already ended it.
func (c *Context) abandon(tx Transaction, reason string) {
	err := c.Rollback(tx)
	if err == nil {
		return
	}
	s := c.rootContext().state
	if errors.Is(err, ErrTransactionNotActive) || errors.Is(err, ErrWrongTransactionDescriptor) {
		s.logger.Debug("scoped transaction already ended", "tx", tx.String(), "reason", reason)
		return
	}
	s.logger.Error("scoped rollback failed", "tx", tx.String(), "reason", reason, "error", err)
}
