package document_test

import (
	"testing"

	"github.com/aretw0/txtree/pkg/document"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHandbook(t *testing.T) *document.Document {
	t.Helper()
	return document.New("handbook", document.WithRules(
		document.At("/handbook/*", document.RequireKeys("title")),
	))
}

func TestApply_AllOrNothing(t *testing.T) {
	doc := newHandbook(t)

	err := doc.Apply([]document.Edit{
		{Op: document.OpSet, Path: "/handbook", Key: "title", Value: "Handbook"},
		{Op: document.OpAdd, Path: "/handbook", Name: "intro", Props: map[string]any{"title": "Intro"}},
		{Op: document.OpAdd, Path: "/handbook", Name: "outro"},
	})

	var verr *document.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "/handbook/outro", verr.Path)
	assert.Contains(t, verr.Reason, "title")

	assert.Empty(t, doc.Root().Children())
	_, ok := doc.Root().Get("title")
	assert.False(t, ok)
	assert.Equal(t, 0, doc.Revision())
}

func TestApply_Success(t *testing.T) {
	doc := newHandbook(t)

	err := doc.Apply([]document.Edit{
		{Op: document.OpAdd, Path: "/handbook", Name: "intro", Props: map[string]any{"title": "Intro"}},
		{Op: document.OpAdd, Path: "/handbook/intro", Name: "note"},
		{Op: document.OpSet, Path: "/handbook/intro/note", Key: "text", Value: "read me"},
		{Op: document.OpAdd, Path: "/handbook", Name: "draft", Props: map[string]any{"title": "Draft"}},
		{Op: document.OpRemove, Path: "/handbook/draft"},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, doc.Revision())
	note, err := doc.Find("/handbook/intro/note")
	require.NoError(t, err)
	v, _ := note.Get("text")
	assert.Equal(t, "read me", v)
	assert.Nil(t, doc.Root().Child("draft"))

	require.NoError(t, doc.Apply([]document.Edit{
		{Op: document.OpUnset, Path: "/handbook/intro/note", Key: "text"},
	}))
	_, ok := note.Get("text")
	assert.False(t, ok)
	assert.Equal(t, 2, doc.Revision())
}

func TestApply_EditErrors(t *testing.T) {
	tests := []struct {
		name  string
		edit  document.Edit
		match error
	}{
		{name: "unknown op", edit: document.Edit{Op: "rename", Path: "/handbook"}, match: document.ErrUnknownOp},
		{name: "missing path", edit: document.Edit{Op: document.OpSet, Path: "/handbook/nope", Key: "k"}, match: document.ErrNotFound},
		{name: "bad name", edit: document.Edit{Op: document.OpAdd, Path: "/handbook", Name: "a/b"}, match: document.ErrInvalidName},
		{name: "remove root", edit: document.Edit{Op: document.OpRemove, Path: "/handbook"}, match: document.ErrRootRemoval},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := newHandbook(t)

			err := doc.Apply([]document.Edit{
				{Op: document.OpSet, Path: "/handbook", Key: "title", Value: "Handbook"},
				tt.edit,
			})

			assert.ErrorIs(t, err, tt.match)
			assert.Contains(t, err.Error(), "edit 1")
			_, ok := doc.Root().Get("title")
			assert.False(t, ok, "earlier edits are rolled back")
		})
	}
}

func TestApply_DuplicateChildren(t *testing.T) {
	doc := document.New("handbook")

	err := doc.Apply([]document.Edit{
		{Op: document.OpAdd, Path: "/handbook", Name: "a"},
		{Op: document.OpAdd, Path: "/handbook", Name: "a"},
	})

	var verr *document.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "/handbook", verr.Path)
	assert.Contains(t, verr.Reason, `duplicate child "a"`)
	assert.Equal(t, 0, doc.Root().TransactionContext().Children())
}

func TestEdit_String(t *testing.T) {
	assert.Equal(t, "set /a[k]", document.Edit{Op: document.OpSet, Path: "/a", Key: "k"}.String())
	assert.Equal(t, "unset /a[k]", document.Edit{Op: document.OpUnset, Path: "/a", Key: "k"}.String())
	assert.Equal(t, "add /a/b", document.Edit{Op: document.OpAdd, Path: "/a", Name: "b"}.String())
	assert.Equal(t, "remove /a/b", document.Edit{Op: document.OpRemove, Path: "/a/b"}.String())
}
