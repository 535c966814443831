package txtree_test

import (
	"github.com/aretw0/txtree"
)

// journal records notifications across a whole tree in delivery order.
type journal struct {
	entries []string
}

func (j *journal) add(event, name string) {
	j.entries = append(j.entries, event+":"+name)
}

func (j *journal) reset() {
	j.entries = nil
}

// participant is a transactable that counts and journals notifications.
type participant struct {
	name string
	ctx  *txtree.Context
	log  *journal

	begins      int
	validations int
	commits     int
	rollbacks   int
	lastBegin   txtree.Transaction
	lastEnd     txtree.Transaction

	validationErr error
	activeOnBegin bool
	activeOnEnd   bool

	// beginHook runs at the end of OnBegin when set.
	beginHook func(tx txtree.Transaction)
	// validateHook runs inside OnValidateCommit when set.
	validateHook func()
}

func newRoot(name string, log *journal, opts ...txtree.Option) *participant {
	p := &participant{name: name, log: log}
	p.ctx = txtree.NewRoot(p, opts...)
	return p
}

func newChild(name string, parent *participant) *participant {
	p := &participant{name: name, log: parent.log}
	p.ctx = txtree.NewNode(p, parent)
	return p
}

func (p *participant) TransactionContext() *txtree.Context {
	return p.ctx
}

func (p *participant) OnBegin(tx txtree.Transaction) {
	p.begins++
	p.lastBegin = tx
	p.log.add("begin", p.name)
	if p.ctx != nil {
		p.activeOnBegin = p.ctx.IsActive()
	}
	if p.beginHook != nil {
		p.beginHook(tx)
	}
}

func (p *participant) OnValidateCommit() error {
	p.validations++
	p.log.add("validate", p.name)
	if p.validateHook != nil {
		p.validateHook()
	}
	return p.validationErr
}

func (p *participant) OnCommit(tx txtree.Transaction) {
	p.commits++
	p.lastEnd = tx
	p.activeOnEnd = p.ctx.IsActive()
	p.log.add("commit", p.name)
}

func (p *participant) OnRollback(tx txtree.Transaction) {
	p.rollbacks++
	p.lastEnd = tx
	p.activeOnEnd = p.ctx.IsActive()
	p.log.add("rollback", p.name)
}

func (p *participant) setValidationError(err error) {
	p.validationErr = err
}

func (p *participant) resetCounts() {
	p.begins = 0
	p.validations = 0
	p.commits = 0
	p.rollbacks = 0
}

type counts struct {
	Begins, Validations, Commits, Rollbacks int
}

func (p *participant) counts() counts {
	return counts{p.begins, p.validations, p.commits, p.rollbacks}
}

// tree is the fixture used by most tests:
//
//	library
//	├── bookA
//	│   └── volume
//	└── bookB
type tree struct {
	log     *journal
	library *participant
	bookA   *participant
	bookB   *participant
	volume  *participant
}

func newTree(opts ...txtree.Option) *tree {
	log := &journal{}
	library := newRoot("library", log, opts...)
	bookA := newChild("bookA", library)
	bookB := newChild("bookB", library)
	volume := newChild("volume", bookA)
	return &tree{log: log, library: library, bookA: bookA, bookB: bookB, volume: volume}
}

func (tr *tree) all() []*participant {
	return []*participant{tr.library, tr.bookA, tr.bookB, tr.volume}
}

func (tr *tree) resetCounts() {
	for _, p := range tr.all() {
		p.resetCounts()
	}
	tr.log.reset()
}
