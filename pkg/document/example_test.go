package document_test

import (
	"errors"
	"fmt"
	"log"

	"github.com/aretw0/txtree/pkg/document"
)

// ExampleDocument_Apply shows an edit batch that is rejected as a whole
// because one of its elements breaks a rule.
func ExampleDocument_Apply() {
	f, err := document.ParseFile([]byte(`
root:
  name: menu
  props: {title: Lunch}
rules:
  - path: /menu/*
    require: [price]
    types: {price: float}
`), document.FormatYAML)
	if err != nil {
		log.Fatal(err)
	}
	doc, err := document.Load(f)
	if err != nil {
		log.Fatal(err)
	}

	err = doc.Apply([]document.Edit{
		{Op: document.OpAdd, Path: "/menu", Name: "soup", Props: map[string]any{"price": 4.5}},
		{Op: document.OpAdd, Path: "/menu", Name: "salad"},
	})
	var verr *document.ValidationError
	if errors.As(err, &verr) {
		fmt.Println("rejected:", verr.Path, "-", verr.Reason)
	}
	fmt.Println("items:", len(doc.Root().Children()))

	err = doc.Apply([]document.Edit{
		{Op: document.OpAdd, Path: "/menu", Name: "soup", Props: map[string]any{"price": 4.5}},
	})
	fmt.Println("error:", err)
	fmt.Println("items:", len(doc.Root().Children()), "revision:", doc.Revision())
	// Output:
	// rejected: /menu/salad - missing required keys: price
	// items: 0
	// error: <nil>
	// items: 1 revision: 1
}
