package ports

import (
	"context"
	"fmt"
	"slices"
	"testing"
	"time"

	"github.com/aretw0/txtree/pkg/document"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunSnapshotStoreContract runs a suite of tests to verify that a
// SnapshotStore implementation adheres to the interface contract.
func RunSnapshotStoreContract(t *testing.T, store SnapshotStore) {
	ctx := context.Background()
	name := "contract-" + time.Now().Format("20060102150405")

	sample := func(title string) *document.File {
		return &document.File{
			Root: document.Snapshot{
				Name:  name,
				Props: map[string]any{"title": title},
				Children: []document.Snapshot{
					{Name: "intro", Props: map[string]any{"tags": []any{"a", "b"}}},
				},
			},
			Rules:    []document.RuleSpec{{Path: "/*/intro", Require: []string{"tags"}}},
			Revision: 3,
		}
	}

	t.Run("Save and Load", func(t *testing.T) {
		f := sample("Handbook")
		require.NoError(t, store.Save(ctx, name, f))

		loaded, err := store.Load(ctx, name)
		require.NoError(t, err)
		assert.Equal(t, f.Root.Name, loaded.Root.Name)
		assert.Equal(t, "Handbook", loaded.Root.Props["title"])
		require.Len(t, loaded.Root.Children, 1)
		assert.Equal(t, "intro", loaded.Root.Children[0].Name)
		assert.Equal(t, []any{"a", "b"}, loaded.Root.Children[0].Props["tags"])
		assert.Equal(t, f.Rules, loaded.Rules)
		assert.Equal(t, 3, loaded.Revision)

		doc, err := document.Load(loaded)
		require.NoError(t, err, "a loaded file must rebuild into a valid document")
		assert.Equal(t, 3, doc.Revision())
	})

	t.Run("Save Overwrites", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, name, sample("First")))
		require.NoError(t, store.Save(ctx, name, sample("Second")))

		loaded, err := store.Load(ctx, name)
		require.NoError(t, err)
		assert.Equal(t, "Second", loaded.Root.Props["title"])
	})

	t.Run("Saved File Is Isolated", func(t *testing.T) {
		f := sample("Original")
		require.NoError(t, store.Save(ctx, name, f))
		f.Root.Props["title"] = "Mutated"

		loaded, err := store.Load(ctx, name)
		require.NoError(t, err)
		assert.Equal(t, "Original", loaded.Root.Props["title"])
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "missing-"+name)
		assert.ErrorIs(t, err, ErrDocumentNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, name, sample("Doomed")))
		require.NoError(t, store.Delete(ctx, name))

		_, err := store.Load(ctx, name)
		assert.ErrorIs(t, err, ErrDocumentNotFound, "Load after Delete should return ErrDocumentNotFound")
		assert.NoError(t, store.Delete(ctx, name), "deleting twice is not an error")
	})

	t.Run("List", func(t *testing.T) {
		names := []string{name + "-1", name + "-2"}
		for _, n := range names {
			require.NoError(t, store.Save(ctx, n, sample(n)))
		}
		defer func() {
			for _, n := range names {
				_ = store.Delete(ctx, n)
			}
		}()

		listed, err := store.List(ctx)
		require.NoError(t, err)
		for _, n := range names {
			assert.True(t, slices.Contains(listed, n), fmt.Sprintf("%s should be listed", n))
		}
		assert.NotContains(t, listed, "missing-"+name)
	})
}
