package workspace

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/txtree/internal/logging"
	"github.com/aretw0/txtree/pkg/document"
	"github.com/aretw0/txtree/pkg/ports"
)

// ErrNameMismatch is returned by Put when the file's root is not named after
// the document it is stored as.
var ErrNameMismatch = errors.New("root element name does not match document name")

// DefaultLockTTL bounds how long a distributed lock outlives a crashed holder.
const DefaultLockTTL = 30 * time.Second

// docLock serializes the cycles run on one document. waiters counts the
// callers holding or queued on mu; the entry is dropped when it reaches zero.
type docLock struct {
	mu      sync.Mutex
	waiters int
}

// Manager serializes access to stored documents.
// Unused lock entries are reference counted and dropped.
type Manager struct {
	store ports.SnapshotStore

	mu    sync.Mutex
	locks map[string]*docLock

	locker  ports.Locker
	lockTTL time.Duration
	logger  *slog.Logger
	docOpts []document.Option
}

// Option configures the Manager.
type Option func(*Manager)

// WithLocker enables distributed locking.
func WithLocker(locker ports.Locker) Option {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithLockTTL sets the expiry of distributed locks.
func WithLockTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		m.lockTTL = ttl
	}
}

// WithLogger configures a logger for the Manager and the documents it loads.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithDocumentOptions adds options applied to every loaded document, such as
// lifecycle hooks.
func WithDocumentOptions(opts ...document.Option) Option {
	return func(m *Manager) {
		m.docOpts = append(m.docOpts, opts...)
	}
}

// NewManager creates a Manager over store.
func NewManager(store ports.SnapshotStore, opts ...Option) *Manager {
	m := &Manager{
		store:   store,
		locks:   make(map[string]*docLock),
		lockTTL: DefaultLockTTL,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Store returns the underlying snapshot store.
func (m *Manager) Store() ports.SnapshotStore {
	return m.store
}

// Get returns the stored file of a document.
func (m *Manager) Get(ctx context.Context, name string) (*document.File, error) {
	var f *document.File
	err := m.WithLock(ctx, name, func(ctx context.Context) error {
		var err error
		f, err = m.store.Load(ctx, name)
		return err
	})
	return f, err
}

// List delegates to the store.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	return m.store.List(ctx)
}

// Put replaces a document with f. The file is rebuilt in one transaction, so a
// file that violates its own rules is rejected and nothing is saved. The
// stored revision is one past the replaced document's.
func (m *Manager) Put(ctx context.Context, name string, f *document.File) (*document.File, error) {
	if f.Root.Name != name {
		return nil, fmt.Errorf("%w: %q != %q", ErrNameMismatch, f.Root.Name, name)
	}

	out, _, err := m.revise(ctx, name, func(stored *document.File) (*document.File, error) {
		next := f.Clone()
		next.Revision = 1
		if stored != nil {
			next.Revision = stored.Revision + 1
		}
		doc, err := m.load(next)
		if err != nil {
			return nil, err
		}
		return doc.File(), nil
	})
	if err != nil {
		return nil, err
	}
	m.logger.Info("document stored", "document", name, "revision", out.Revision)
	return out, nil
}

// Apply runs edits against the stored document as one transaction and saves
// the result. If any edit fails or a rule vetoes the commit, the stored
// document is left untouched. changed reports whether a new revision was
// saved; a batch that changes nothing is not written back.
func (m *Manager) Apply(ctx context.Context, name string, edits []document.Edit) (out *document.File, changed bool, err error) {
	out, changed, err = m.revise(ctx, name, func(stored *document.File) (*document.File, error) {
		if stored == nil {
			return nil, fmt.Errorf("%w: %q", ports.ErrDocumentNotFound, name)
		}
		doc, err := m.load(stored)
		if err != nil {
			return nil, err
		}
		if err := doc.Apply(edits); err != nil {
			m.logger.Debug("edits rejected", "document", name, "err", err)
			return nil, err
		}
		return doc.File(), nil
	})
	if changed {
		m.logger.Info("document edited", "document", name, "edits", len(edits), "revision", out.Revision)
	}
	return out, changed, err
}

// Delete removes the document from the store.
func (m *Manager) Delete(ctx context.Context, name string) error {
	return m.WithLock(ctx, name, func(ctx context.Context) error {
		return m.store.Delete(ctx, name)
	})
}

func (m *Manager) load(f *document.File) (*document.Document, error) {
	opts := append([]document.Option{document.WithLogger(m.logger)}, m.docOpts...)
	return document.Load(f, opts...)
}

// revise runs one load, transact, save cycle on the document under its lock.
// fn receives the stored file, nil if there is none, and returns the next
// one. The result is saved unless it keeps the stored revision.
func (m *Manager) revise(ctx context.Context, name string, fn func(stored *document.File) (*document.File, error)) (*document.File, bool, error) {
	release, err := m.lock(ctx, name)
	if err != nil {
		return nil, false, err
	}
	defer release()

	stored, err := m.store.Load(ctx, name)
	if err != nil && !errors.Is(err, ports.ErrDocumentNotFound) {
		return nil, false, err
	}
	next, err := fn(stored)
	if err != nil {
		return nil, false, err
	}
	if stored != nil && next.Revision == stored.Revision {
		return next, false, nil
	}
	if err := m.store.Save(ctx, name, next); err != nil {
		return nil, false, fmt.Errorf("failed to save document: %w", err)
	}
	return next, true, nil
}

// lock takes the in-process lock of the document, then the distributed one
// when a Locker is configured. The returned func releases both.
func (m *Manager) lock(ctx context.Context, name string) (func(), error) {
	m.mu.Lock()
	l, ok := m.locks[name]
	if !ok {
		l = &docLock{}
		m.locks[name] = l
	}
	l.waiters++
	m.mu.Unlock()

	l.mu.Lock()
	local := func() {
		l.mu.Unlock()
		m.mu.Lock()
		defer m.mu.Unlock()
		if l.waiters--; l.waiters == 0 {
			delete(m.locks, name)
		}
	}
	if m.locker == nil {
		return local, nil
	}

	unlock, err := m.locker.Lock(ctx, name, m.lockTTL)
	if err != nil {
		local()
		return nil, fmt.Errorf("failed to acquire distributed lock: %w", err)
	}
	return func() {
		// The caller's context may be done by now; the release must still run.
		if err := unlock(context.WithoutCancel(ctx)); err != nil {
			m.logger.Warn("failed to release distributed lock (will expire via TTL)",
				"document", name,
				"err", err,
			)
		}
		local()
	}, nil
}

// WithLock executes fn while holding the lock for the document.
func (m *Manager) WithLock(ctx context.Context, name string, fn func(context.Context) error) error {
	release, err := m.lock(ctx, name)
	if err != nil {
		return err
	}
	defer release()
	return fn(ctx)
}
