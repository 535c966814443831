/*
Package txtree coordinates atomic state changes across a tree of cooperating objects.

A single transaction spans every object in a tree. It commits only if every object
reports itself consistent; otherwise the whole tree rolls back. It is the in-process
analogue of a multi-participant atomic commit, applied to mutable object graphs such
as a document model whose nested edits must be all-or-nothing.

# Concept

Every participant implements Transactable and owns a Context. The top-level
participant owns the root context, which holds the tree's transaction state. All
other participants own node contexts created with a parent:

	type Library struct {
		ctx   *txtree.Context
		books []*Book
	}

	func NewLibrary() *Library {
		l := &Library{}
		l.ctx = txtree.NewRoot(l)
		return l
	}

	type Book struct {
		ctx *txtree.Context
	}

	func (l *Library) AddBook() *Book {
		b := &Book{}
		b.ctx = txtree.NewNode(b, l)
		l.books = append(l.books, b)
		return b
	}

Begin, Commit and Rollback may be called on any context. Nodes forward them to the
root, which flips the state and walks the tree:

  - Begin notifies OnBegin, parents before children.
  - Commit first calls OnValidateCommit on every participant, stopping at the first
    error, which is returned unchanged while the transaction stays active. On success
    it notifies OnCommit, children before parents.
  - Rollback notifies OnRollback, children before parents, without validation.

A node created while a transaction is active receives OnBegin before NewNode returns.

# Scoped execution

Run begins a transaction, executes a function and commits, rolling back if the
function or the validation fails. Inside an active transaction it just executes the
function, so calls nest freely:

	err := txtree.Run(book, func() error {
		return book.Rename("Dune")
	})

# Lifetime

The tree references children weakly. A participant that the application stops
referencing drops out of the tree on the next walk; Close removes a node eagerly.
Contexts are single-threaded and support one active transaction per tree.
*/
package txtree
