package ports_test

import (
	"context"
	"sync"
	"testing"

	"github.com/aretw0/txtree/pkg/document"
	"github.com/aretw0/txtree/pkg/ports"
)

// mockStore keeps encoded files, simulating a serializing backend.
type mockStore struct {
	mu   sync.Mutex
	data map[string][]byte
}

func (m *mockStore) Save(ctx context.Context, name string, f *document.File) error {
	data, err := document.Encode(f, document.FormatJSON)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data == nil {
		m.data = make(map[string][]byte)
	}
	m.data[name] = data
	return nil
}

func (m *mockStore) Load(ctx context.Context, name string) (*document.File, error) {
	m.mu.Lock()
	data, ok := m.data[name]
	m.mu.Unlock()
	if !ok {
		return nil, ports.ErrDocumentNotFound
	}
	return document.ParseFile(data, document.FormatJSON)
}

func (m *mockStore) Delete(ctx context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, name)
	return nil
}

func (m *mockStore) List(ctx context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	names := make([]string, 0, len(m.data))
	for name := range m.data {
		names = append(names, name)
	}
	return names, nil
}

func TestSnapshotStoreContract_MockStore(t *testing.T) {
	ports.RunSnapshotStoreContract(t, &mockStore{})
}
