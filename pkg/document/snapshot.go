package document

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Snapshot is the serializable form of an element and its subtree.
type Snapshot struct {
	Name     string         `yaml:"name" json:"name"`
	Props    map[string]any `yaml:"props,omitempty" json:"props,omitempty"`
	Children []Snapshot     `yaml:"children,omitempty" json:"children,omitempty"`
}

// File is the on-disk and over-the-wire form of a document.
type File struct {
	Root     Snapshot   `yaml:"root" json:"root"`
	Rules    []RuleSpec `yaml:"rules,omitempty" json:"rules,omitempty"`
	Revision int        `yaml:"revision,omitempty" json:"revision,omitempty"`
}

// Snapshot captures the current view of the element. Inside a transaction
// that includes staged changes.
func (e *Element) Snapshot() Snapshot {
	s := Snapshot{Name: e.name}
	if props := e.view().props; len(props) > 0 {
		s.Props = cloneProps(props)
	}
	for _, c := range e.view().children {
		s.Children = append(s.Children, c.Snapshot())
	}
	return s
}

// Snapshot captures the whole document.
func (d *Document) Snapshot() Snapshot {
	return d.root.Snapshot()
}

// File exports the document with its declarative rules.
func (d *Document) File() *File {
	return &File{
		Root:     d.Snapshot(),
		Rules:    append([]RuleSpec(nil), d.specs...),
		Revision: d.revision,
	}
}

// Load builds a document from f. The whole tree is created in one
// transaction, so a file that violates its own rules yields an error and no
// document.
func Load(f *File, opts ...Option) (*Document, error) {
	opts = append([]Option{WithRuleSpecs(f.Rules...)}, opts...)
	d, err := newDocument(f.Root.Name, opts)
	if err != nil {
		return nil, err
	}
	err = d.Run(func() error {
		return fill(d.root, f.Root)
	})
	if err != nil {
		return nil, err
	}
	d.revision = f.Revision
	return d, nil
}

func fill(e *Element, s Snapshot) error {
	for k, v := range s.Props {
		if err := e.Set(k, v); err != nil {
			return err
		}
	}
	for _, cs := range s.Children {
		child, err := e.AddChild(cs.Name)
		if err != nil {
			return fmt.Errorf("%s: %w", e.Path(), err)
		}
		if err := fill(child, cs); err != nil {
			return err
		}
	}
	return nil
}

// Format selects the encoding of Parse and Encode.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatFor picks the format from a file extension, defaulting to YAML.
func FormatFor(filename string) Format {
	if strings.EqualFold(filepath.Ext(filename), ".json") {
		return FormatJSON
	}
	return FormatYAML
}

// ParseFile decodes a document file.
func ParseFile(data []byte, format Format) (*File, error) {
	var f File
	if err := unmarshal(data, format, &f); err != nil {
		return nil, fmt.Errorf("failed to parse document: %w", err)
	}
	f.Root.Props = normalizeProps(f.Root.Props)
	normalizeChildren(f.Root.Children)
	return &f, nil
}

// ReadFile reads and parses the document file at path.
func ReadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}
	return ParseFile(data, FormatFor(path))
}

// ParseEdits decodes a list of edits.
func ParseEdits(data []byte, format Format) ([]Edit, error) {
	var edits []Edit
	if err := unmarshal(data, format, &edits); err != nil {
		return nil, fmt.Errorf("failed to parse edits: %w", err)
	}
	for i := range edits {
		edits[i].Value = normalize(edits[i].Value)
	}
	return edits, nil
}

// Encode serializes v (a File, Snapshot or edit list) in the given format.
func Encode(v any, format Format) ([]byte, error) {
	if format == FormatJSON {
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to encode json: %w", err)
		}
		return append(data, '\n'), nil
	}
	data, err := yaml.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode yaml: %w", err)
	}
	return data, nil
}

func unmarshal(data []byte, format Format, out any) error {
	if format == FormatJSON {
		return json.Unmarshal(data, out)
	}
	return yaml.Unmarshal(data, out)
}

func normalizeChildren(children []Snapshot) {
	for i := range children {
		children[i].Props = normalizeProps(children[i].Props)
		normalizeChildren(children[i].Children)
	}
}

func normalizeProps(props map[string]any) map[string]any {
	if props == nil {
		return nil
	}
	out := make(map[string]any, len(props))
	for k, v := range props {
		out[k] = normalize(v)
	}
	return out
}

// normalize converts the map[any]any values some decoders produce into
// map[string]any, recursively.
func normalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return normalizeProps(t)
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			out[fmt.Sprint(k)] = normalize(vv)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, vv := range t {
			out[i] = normalize(vv)
		}
		return out
	default:
		return v
	}
}

// clone deep-copies property values so that callers never share nested
// maps or slices with staged or committed state.
func clone(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return cloneProps(t)
	case []any:
		out := make([]any, len(t))
		for i, vv := range t {
			out[i] = clone(vv)
		}
		return out
	default:
		return v
	}
}

func cloneProps(props map[string]any) map[string]any {
	out := make(map[string]any, len(props))
	for k, v := range props {
		out[k] = clone(v)
	}
	return out
}

// Clone returns a deep copy of the file.
func (f *File) Clone() *File {
	out := &File{Root: f.Root.Clone(), Revision: f.Revision}
	for _, spec := range f.Rules {
		out.Rules = append(out.Rules, spec.clone())
	}
	return out
}

// Clone returns a deep copy of the snapshot.
func (s Snapshot) Clone() Snapshot {
	out := Snapshot{Name: s.Name}
	if s.Props != nil {
		out.Props = cloneProps(s.Props)
	}
	for _, c := range s.Children {
		out.Children = append(out.Children, c.Clone())
	}
	return out
}
