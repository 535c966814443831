package document

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/aretw0/txtree"
	"github.com/aretw0/txtree/internal/logging"
)

// Document is the root participant of an element tree.
type Document struct {
	ctx    *txtree.Context
	root   *Element
	rules  []Rule
	specs  []RuleSpec
	logger *slog.Logger

	revision int
	dirty    bool
}

// Option configures a Document.
type Option func(*config)

type config struct {
	logger *slog.Logger
	hooks  []txtree.Hooks
	rules  []Rule
	specs  []RuleSpec
}

// WithLogger sets the logger of the document and its transaction context.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithHooks adds transaction lifecycle hooks.
func WithHooks(hooks txtree.Hooks) Option {
	return func(c *config) {
		c.hooks = append(c.hooks, hooks)
	}
}

// WithRules adds validation rules checked on every element at commit.
func WithRules(rules ...Rule) Option {
	return func(c *config) {
		c.rules = append(c.rules, rules...)
	}
}

// WithRuleSpecs adds declarative rules. They are compiled into rules and kept
// so that File can export them.
func WithRuleSpecs(specs ...RuleSpec) Option {
	return func(c *config) {
		c.specs = append(c.specs, specs...)
	}
}

// New creates an empty document whose root element is called name.
// It panics if name is not a valid element name; use Load for untrusted input.
func New(name string, opts ...Option) *Document {
	d, err := newDocument(name, opts)
	if err != nil {
		panic(err)
	}
	return d
}

func newDocument(name string, opts []Option) (*Document, error) {
	if err := checkName(name); err != nil {
		return nil, err
	}

	cfg := config{logger: logging.NewNop()}
	for _, opt := range opts {
		opt(&cfg)
	}

	d := &Document{
		rules:  append([]Rule{uniqueChildNames}, cfg.rules...),
		specs:  cfg.specs,
		logger: cfg.logger,
	}
	for _, spec := range cfg.specs {
		rule, err := spec.Compile()
		if err != nil {
			return nil, err
		}
		d.rules = append(d.rules, rule)
	}

	d.ctx = txtree.NewRoot(d,
		txtree.WithLogger(cfg.logger.With("document", name)),
		txtree.WithHooks(txtree.Chain(cfg.hooks...)),
	)
	d.root = newElement(d, nil, name)
	return d, nil
}

// Name returns the name of the root element.
func (d *Document) Name() string {
	return d.root.name
}

// Root returns the root element.
func (d *Document) Root() *Element {
	return d.root
}

// Revision counts the committed transactions that changed the document.
func (d *Document) Revision() int {
	return d.revision
}

// Run executes body in a transaction of the document. See txtree.Context.Run.
func (d *Document) Run(body func() error) error {
	return d.ctx.Run(body)
}

// Find returns the element at path, such as "/handbook/intro".
// While a transaction is active it sees staged children.
func (d *Document) Find(path string) (*Element, error) {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, path)
	}
	parts := strings.Split(trimmed, "/")
	if parts[0] != d.root.name {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, path)
	}

	e := d.root
	for _, name := range parts[1:] {
		next := e.Child(name)
		if next == nil {
			return nil, fmt.Errorf("%w: %q", ErrNotFound, path)
		}
		e = next
	}
	return e, nil
}

// TransactionContext implements txtree.Transactable.
func (d *Document) TransactionContext() *txtree.Context {
	return d.ctx
}

// OnBegin implements txtree.Transactable.
func (d *Document) OnBegin(tx txtree.Transaction) {
	d.dirty = false
}

// OnValidateCommit implements txtree.Transactable. Element rules are checked
// by the elements themselves.
func (d *Document) OnValidateCommit() error {
	return nil
}

// OnCommit implements txtree.Transactable.
func (d *Document) OnCommit(tx txtree.Transaction) {
	if d.dirty {
		d.revision++
		d.logger.Debug("document revised", "document", d.Name(), "revision", d.revision, "tx", tx.String())
	}
	d.dirty = false
}

// OnRollback implements txtree.Transactable.
func (d *Document) OnRollback(tx txtree.Transaction) {
	d.dirty = false
}

func (d *Document) markDirty() {
	d.dirty = true
}

func checkName(name string) error {
	if name == "" || strings.Contains(name, "/") {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}
