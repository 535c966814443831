package document

import "fmt"

// Op is an edit operation.
type Op string

const (
	OpSet    Op = "set"
	OpUnset  Op = "unset"
	OpAdd    Op = "add"
	OpRemove Op = "remove"
)

// Edit is one step of an edit batch.
//
//   - set:    Path names the element, Key and Value the property.
//   - unset:  Path names the element, Key the property.
//   - add:    Path names the parent, Name the new child, Props its initial properties.
//   - remove: Path names the element to remove.
type Edit struct {
	Op    Op             `yaml:"op" json:"op"`
	Path  string         `yaml:"path" json:"path"`
	Key   string         `yaml:"key,omitempty" json:"key,omitempty"`
	Value any            `yaml:"value,omitempty" json:"value,omitempty"`
	Name  string         `yaml:"name,omitempty" json:"name,omitempty"`
	Props map[string]any `yaml:"props,omitempty" json:"props,omitempty"`
}

func (ed Edit) String() string {
	switch ed.Op {
	case OpSet:
		return fmt.Sprintf("set %s[%s]", ed.Path, ed.Key)
	case OpUnset:
		return fmt.Sprintf("unset %s[%s]", ed.Path, ed.Key)
	case OpAdd:
		return fmt.Sprintf("add %s/%s", ed.Path, ed.Name)
	default:
		return fmt.Sprintf("%s %s", ed.Op, ed.Path)
	}
}

// Apply performs all edits in a single transaction. Either every edit is
// applied and the result validates, or the document is left untouched.
//
// Errors of individual edits are wrapped with the edit position; validation
// errors are returned as produced by the failing rule.
func (d *Document) Apply(edits []Edit) error {
	return d.Run(func() error {
		for i, ed := range edits {
			if err := d.apply(ed); err != nil {
				return fmt.Errorf("edit %d (%s): %w", i, ed, err)
			}
		}
		return nil
	})
}

func (d *Document) apply(ed Edit) error {
	e, err := d.Find(ed.Path)
	if err != nil {
		return err
	}
	switch ed.Op {
	case OpSet:
		return e.Set(ed.Key, ed.Value)
	case OpUnset:
		return e.Unset(ed.Key)
	case OpAdd:
		child, err := e.AddChild(ed.Name)
		if err != nil {
			return err
		}
		for k, v := range normalizeProps(ed.Props) {
			if err := child.Set(k, v); err != nil {
				return err
			}
		}
		return nil
	case OpRemove:
		return e.Remove()
	default:
		return fmt.Errorf("%w: %q", ErrUnknownOp, ed.Op)
	}
}
