package txtree

import "github.com/google/uuid"

// generateID is the identifier source for new transactions.
var generateID = uuid.New

// Transaction is the descriptor of one logical transaction.
// Values are created by the root context on begin and are never mutated.
type Transaction struct {
	id uuid.UUID
}

// Any is the wildcard descriptor. Passed to Commit or Rollback it matches
// whatever transaction is currently active.
var Any = Transaction{id: uuid.Nil}

// newTransaction returns a transaction with a fresh random identifier.
// The all-zero identifier belongs to Any, so a generated Nil is retried.
func newTransaction() Transaction {
	id := generateID()
	for id == uuid.Nil {
		id = generateID()
	}
	return Transaction{id: id}
}

// ID returns the transaction identifier.
func (t Transaction) ID() uuid.UUID {
	return t.id
}

// Equal reports whether both descriptors name the same transaction.
// The wildcard is only equal to itself.
func (t Transaction) Equal(other Transaction) bool {
	return t.id == other.id
}

// IsAny reports whether t is the wildcard descriptor.
func (t Transaction) IsAny() bool {
	return t.id == uuid.Nil
}

// Matches reports whether the descriptor t selects the active transaction.
func (t Transaction) Matches(active Transaction) bool {
	return t.IsAny() || t.Equal(active)
}

func (t Transaction) String() string {
	if t.IsAny() {
		return "any"
	}
	return t.id.String()
}
