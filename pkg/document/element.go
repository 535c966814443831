package document

import (
	"fmt"
	"maps"
	"reflect"
	"slices"
	"sort"
	"strings"

	"github.com/aretw0/txtree"
	"github.com/mitchellh/mapstructure"
)

// Element is a named node of a document. Its properties and children are
// staged during a transaction and become visible to readers outside it only
// once committed.
type Element struct {
	ctx    *txtree.Context
	doc    *Document
	parent *Element
	name   string

	committed state
	staged    *state

	// attached lists the children whose contexts are registered with ours:
	// the committed ones plus any added by the active transaction.
	attached []*Element
	removed  bool
}

type state struct {
	props    map[string]any
	children []*Element
	removed  bool
}

func (s *state) clone() *state {
	return &state{
		props:    maps.Clone(s.props),
		children: slices.Clone(s.children),
		removed:  s.removed,
	}
}

func newElement(doc *Document, parent *Element, name string) *Element {
	e := &Element{
		doc:       doc,
		parent:    parent,
		name:      name,
		committed: state{props: map[string]any{}},
	}
	if parent == nil {
		e.ctx = txtree.NewNode(e, doc)
	} else {
		e.ctx = txtree.NewNode(e, parent)
	}
	return e
}

// Name returns the element name.
func (e *Element) Name() string {
	return e.name
}

// Parent returns the parent element, or nil for the root.
func (e *Element) Parent() *Element {
	return e.parent
}

// Document returns the document the element belongs to.
func (e *Element) Document() *Document {
	return e.doc
}

// Path returns the slash-separated path from the document root.
func (e *Element) Path() string {
	var parts []string
	for cur := e; cur != nil; cur = cur.parent {
		parts = append(parts, cur.name)
	}
	slices.Reverse(parts)
	return "/" + strings.Join(parts, "/")
}

// Removed reports whether the element, or one of its ancestors, has been
// removed from the document. An element added by a transaction that rolled
// back counts as removed.
func (e *Element) Removed() bool {
	for cur := e; cur != nil; cur = cur.parent {
		if cur.removed || cur.view().removed {
			return true
		}
	}
	return false
}

func (e *Element) view() *state {
	if e.staged != nil {
		return e.staged
	}
	return &e.committed
}

// Get returns the value of a property.
func (e *Element) Get(key string) (any, bool) {
	v, ok := e.view().props[key]
	return clone(v), ok
}

// Props returns a copy of all properties.
func (e *Element) Props() map[string]any {
	return cloneProps(e.view().props)
}

// Keys returns the property keys in sorted order.
func (e *Element) Keys() []string {
	keys := make([]string, 0, len(e.view().props))
	for k := range e.view().props {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Children returns the child elements in insertion order.
func (e *Element) Children() []*Element {
	return slices.Clone(e.view().children)
}

// Child returns the child called name, or nil.
func (e *Element) Child(name string) *Element {
	for _, c := range e.view().children {
		if c.name == name {
			return c
		}
	}
	return nil
}

// Decode copies the properties into out, a pointer to a struct or map,
// matching keys to `mapstructure` tags.
func (e *Element) Decode(out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
		TagName:          "mapstructure",
	})
	if err != nil {
		return fmt.Errorf("failed to create decoder: %w", err)
	}
	if err := dec.Decode(e.Props()); err != nil {
		return fmt.Errorf("failed to decode %s: %w", e.Path(), err)
	}
	return nil
}

// Set stages a property value. Setting a key to the value it already holds
// leaves the document unchanged.
func (e *Element) Set(key string, value any) error {
	if key == "" {
		return fmt.Errorf("%s: property key cannot be empty", e.Path())
	}
	return e.mutate(func(s *state) bool {
		if old, ok := s.props[key]; ok && reflect.DeepEqual(old, value) {
			return false
		}
		s.props[key] = clone(value)
		return true
	})
}

// Unset stages the removal of a property. Unsetting a missing key is a no-op.
func (e *Element) Unset(key string) error {
	return e.mutate(func(s *state) bool {
		if _, ok := s.props[key]; !ok {
			return false
		}
		delete(s.props, key)
		return true
	})
}

// AddChild stages a new child element. The child joins the active
// transaction immediately and is discarded if that transaction rolls back.
func (e *Element) AddChild(name string) (*Element, error) {
	if err := checkName(name); err != nil {
		return nil, err
	}
	return txtree.Do(e, func() (*Element, error) {
		s, err := e.stage()
		if err != nil {
			return nil, err
		}
		child := newElement(e.doc, e, name)
		e.attached = append(e.attached, child)
		s.children = append(s.children, child)
		e.doc.markDirty()
		return child, nil
	})
}

// Remove stages the removal of the element and its subtree.
func (e *Element) Remove() error {
	if e.parent == nil {
		return ErrRootRemoval
	}
	return txtree.Run(e, func() error {
		s, err := e.stage()
		if err != nil {
			return err
		}
		ps, err := e.parent.stage()
		if err != nil {
			return err
		}
		s.removed = true
		ps.children = slices.DeleteFunc(ps.children, func(c *Element) bool { return c == e })
		e.doc.markDirty()
		return nil
	})
}

// mutate stages a property change. fn reports whether it changed anything.
func (e *Element) mutate(fn func(*state) bool) error {
	return txtree.Run(e, func() error {
		s, err := e.stage()
		if err != nil {
			return err
		}
		if fn(s) {
			e.doc.markDirty()
		}
		return nil
	})
}

// stage returns the staged state, failing for removed elements.
func (e *Element) stage() (*state, error) {
	if e.staged == nil || e.Removed() {
		return nil, fmt.Errorf("%w: %s", ErrRemoved, e.Path())
	}
	return e.staged, nil
}

// TransactionContext implements txtree.Transactable.
func (e *Element) TransactionContext() *txtree.Context {
	return e.ctx
}

// OnBegin implements txtree.Transactable.
func (e *Element) OnBegin(tx txtree.Transaction) {
	e.staged = e.committed.clone()
}

// OnValidateCommit implements txtree.Transactable.
func (e *Element) OnValidateCommit() error {
	if e.staged == nil || e.Removed() {
		return nil
	}
	for _, rule := range e.doc.rules {
		if err := rule(e); err != nil {
			return err
		}
	}
	return nil
}

// OnCommit implements txtree.Transactable. Children have already committed,
// so detached ones can be closed here.
func (e *Element) OnCommit(tx txtree.Transaction) {
	if e.staged == nil {
		return
	}
	e.committed = *e.staged
	e.staged = nil
	if e.committed.removed {
		e.removed = true
	}
	e.attached = e.detach(e.committed.children)
}

// OnRollback implements txtree.Transactable.
func (e *Element) OnRollback(tx txtree.Transaction) {
	e.staged = nil
	e.attached = e.detach(e.committed.children)
}

// detach closes the contexts of attached children that are not in keep and
// returns keep as the new attached list.
func (e *Element) detach(keep []*Element) []*Element {
	for _, c := range e.attached {
		if slices.Contains(keep, c) {
			continue
		}
		c.removed = true
		c.ctx.Close()
	}
	return slices.Clone(keep)
}
