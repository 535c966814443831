package document_test

import (
	"testing"

	"github.com/aretw0/txtree/pkg/document"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const handbookYAML = `
root:
  name: handbook
  props:
    title: Handbook
  children:
    - name: intro
      props:
        title: Introduction
        tags: [start, overview]
    - name: body
      props:
        title: Body
      children:
        - name: part1
          props:
            status: draft
            meta:
              pages: 3
rules:
  - path: /handbook/*
    require: [title]
  - one_of:
      status: [draft, final]
revision: 4
`

func TestLoad_YAML(t *testing.T) {
	f, err := document.ParseFile([]byte(handbookYAML), document.FormatYAML)
	require.NoError(t, err)

	doc, err := document.Load(f)
	require.NoError(t, err)

	assert.Equal(t, "handbook", doc.Name())
	assert.Equal(t, 4, doc.Revision())

	part, err := doc.Find("/handbook/body/part1")
	require.NoError(t, err)
	status, _ := part.Get("status")
	assert.Equal(t, "draft", status)
	meta, _ := part.Get("meta")
	assert.Equal(t, map[string]any{"pages": 3}, meta)

	intro, err := doc.Find("/handbook/intro")
	require.NoError(t, err)
	tags, _ := intro.Get("tags")
	assert.Equal(t, []any{"start", "overview"}, tags)

	assert.Equal(t, f, doc.File(), "export reproduces the loaded file")
}

func TestLoad_RulesApplyAfterLoading(t *testing.T) {
	f, err := document.ParseFile([]byte(handbookYAML), document.FormatYAML)
	require.NoError(t, err)
	doc, err := document.Load(f)
	require.NoError(t, err)

	err = doc.Apply([]document.Edit{{Op: document.OpSet, Path: "/handbook/body/part1", Key: "status", Value: "lost"}})

	var verr *document.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "/handbook/body/part1", verr.Path)
	assert.Equal(t, 4, doc.Revision())
}

func TestLoad_InvalidFile(t *testing.T) {
	tests := []struct {
		name string
		file document.File
	}{
		{
			name: "violates rules",
			file: document.File{
				Root:  document.Snapshot{Name: "doc", Children: []document.Snapshot{{Name: "a"}}},
				Rules: []document.RuleSpec{{Path: "/doc/*", Require: []string{"title"}}},
			},
		},
		{
			name: "duplicate children",
			file: document.File{
				Root: document.Snapshot{Name: "doc", Children: []document.Snapshot{{Name: "a"}, {Name: "a"}}},
			},
		},
		{
			name: "invalid root name",
			file: document.File{Root: document.Snapshot{Name: ""}},
		},
		{
			name: "invalid child name",
			file: document.File{Root: document.Snapshot{Name: "doc", Children: []document.Snapshot{{Name: "x/y"}}}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := document.Load(&tt.file)
			assert.Error(t, err)
			assert.Nil(t, doc)
		})
	}
}

func TestParseFile_JSON(t *testing.T) {
	data := []byte(`{"root": {"name": "doc", "props": {"n": 1, "nested": {"k": "v"}}}}`)

	f, err := document.ParseFile(data, document.FormatJSON)
	require.NoError(t, err)

	assert.Equal(t, "doc", f.Root.Name)
	assert.Equal(t, float64(1), f.Root.Props["n"])
	assert.Equal(t, map[string]any{"k": "v"}, f.Root.Props["nested"])

	_, err = document.ParseFile([]byte("{"), document.FormatJSON)
	assert.Error(t, err)
}

func TestEncode(t *testing.T) {
	doc := document.New("doc")
	require.NoError(t, doc.Root().Set("title", "T"))

	for _, format := range []document.Format{document.FormatYAML, document.FormatJSON} {
		t.Run(string(format), func(t *testing.T) {
			data, err := document.Encode(doc.File(), format)
			require.NoError(t, err)

			f, err := document.ParseFile(data, format)
			require.NoError(t, err)
			assert.Equal(t, "T", f.Root.Props["title"])
			assert.Equal(t, 1, f.Revision)
		})
	}
}

func TestParseEdits(t *testing.T) {
	data := []byte(`
- op: add
  path: /doc
  name: a
  props:
    title: A
- op: set
  path: /doc/a
  key: meta
  value:
    size: 2
`)
	edits, err := document.ParseEdits(data, document.FormatYAML)
	require.NoError(t, err)
	require.Len(t, edits, 2)

	assert.Equal(t, document.OpAdd, edits[0].Op)
	assert.Equal(t, "A", edits[0].Props["title"])
	assert.Equal(t, map[string]any{"size": 2}, edits[1].Value)

	doc := document.New("doc")
	require.NoError(t, doc.Apply(edits))
	a, err := doc.Find("/doc/a")
	require.NoError(t, err)
	v, _ := a.Get("meta")
	assert.Equal(t, map[string]any{"size": 2}, v)
}

func TestFormatFor(t *testing.T) {
	assert.Equal(t, document.FormatJSON, document.FormatFor("doc.JSON"))
	assert.Equal(t, document.FormatYAML, document.FormatFor("doc.yaml"))
	assert.Equal(t, document.FormatYAML, document.FormatFor("doc"))
}

func TestSnapshot_IncludesStagedChanges(t *testing.T) {
	doc := document.New("doc")

	err := doc.Run(func() error {
		_, err := doc.Root().AddChild("pending")
		require.NoError(t, err)
		snap := doc.Snapshot()
		require.Len(t, snap.Children, 1)
		assert.Equal(t, "pending", snap.Children[0].Name)
		return errAbort
	})
	require.ErrorIs(t, err, errAbort)

	assert.Empty(t, doc.Snapshot().Children)
}

func TestFile_Clone(t *testing.T) {
	limit := 2
	f := &document.File{
		Root: document.Snapshot{
			Name:     "handbook",
			Props:    map[string]any{"tags": []any{"a"}},
			Children: []document.Snapshot{{Name: "intro"}},
		},
		Rules:    []document.RuleSpec{{Path: "/handbook", MaxChildren: &limit, OneOf: map[string][]string{"k": {"x"}}}},
		Revision: 1,
	}

	c := f.Clone()
	require.Equal(t, f, c)

	f.Root.Props["tags"].([]any)[0] = "mutated"
	f.Root.Children[0].Name = "renamed"
	*f.Rules[0].MaxChildren = 5
	f.Rules[0].OneOf["k"][0] = "y"

	assert.Equal(t, []any{"a"}, c.Root.Props["tags"])
	assert.Equal(t, "intro", c.Root.Children[0].Name)
	assert.Equal(t, 2, *c.Rules[0].MaxChildren)
	assert.Equal(t, []string{"x"}, c.Rules[0].OneOf["k"])
}
