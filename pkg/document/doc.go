/*
Package document implements a mutable document model on top of txtree.

A Document is a tree of named Elements carrying string-keyed properties. The
document owns the root transaction context and every element owns a node, so a
batch of edits across any number of nested elements is all-or-nothing: changes are
staged while a transaction is active, checked by validation rules on commit and
discarded on rollback.

	doc := document.New("handbook", document.WithRules(
		document.At("/handbook/*", document.RequireKeys("title")),
	))

	err := doc.Apply([]document.Edit{
		{Op: document.OpAdd, Path: "/handbook", Name: "intro"},
		{Op: document.OpSet, Path: "/handbook/intro", Key: "title", Value: "Introduction"},
	})

Every mutating method joins the active transaction, or runs in its own when none
is active.
*/
package document
