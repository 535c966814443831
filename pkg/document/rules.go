package document

import (
	"fmt"
	"maps"
	"path"
	"slices"
	"strings"
)

// Rule checks the staged state of one element at commit time. A non-nil
// error vetoes the commit; rules should return *ValidationError.
type Rule func(e *Element) error

// uniqueChildNames is installed on every document.
func uniqueChildNames(e *Element) error {
	seen := make(map[string]bool)
	for _, c := range e.view().children {
		if seen[c.name] {
			return invalid(e, "duplicate child %q", c.name)
		}
		seen[c.name] = true
	}
	return nil
}

// At restricts rules to elements whose path matches pattern (path.Match syntax).
func At(pattern string, rules ...Rule) Rule {
	return func(e *Element) error {
		ok, err := path.Match(pattern, e.Path())
		if err != nil {
			return fmt.Errorf("invalid rule pattern %q: %w", pattern, err)
		}
		if !ok {
			return nil
		}
		for _, rule := range rules {
			if err := rule(e); err != nil {
				return err
			}
		}
		return nil
	}
}

// RequireKeys fails for elements missing any of keys.
func RequireKeys(keys ...string) Rule {
	return func(e *Element) error {
		props := e.view().props
		var missing []string
		for _, k := range keys {
			if _, ok := props[k]; !ok {
				missing = append(missing, k)
			}
		}
		if len(missing) > 0 {
			return invalid(e, "missing required keys: %s", strings.Join(missing, ", "))
		}
		return nil
	}
}

// MaxChildren fails for elements with more than n children.
func MaxChildren(n int) Rule {
	return func(e *Element) error {
		if got := len(e.view().children); got > n {
			return invalid(e, "has %d children, at most %d allowed", got, n)
		}
		return nil
	}
}

// OneOf fails when key is set to a value outside allowed. A missing key passes.
func OneOf(key string, allowed ...string) Rule {
	return func(e *Element) error {
		v, ok := e.view().props[key]
		if !ok {
			return nil
		}
		if !slices.Contains(allowed, fmt.Sprint(v)) {
			return invalid(e, "%s must be one of [%s], got %v", key, strings.Join(allowed, ", "), v)
		}
		return nil
	}
}

// RuleSpec is the declarative form of a rule set, as found in document files.
type RuleSpec struct {
	Path        string              `yaml:"path" json:"path"`
	Require     []string            `yaml:"require,omitempty" json:"require,omitempty"`
	MaxChildren *int                `yaml:"max_children,omitempty" json:"max_children,omitempty"`
	OneOf       map[string][]string `yaml:"one_of,omitempty" json:"one_of,omitempty"`
	Types       map[string]string   `yaml:"types,omitempty" json:"types,omitempty"`
}

// Compile turns the declaration into a Rule.
func (s RuleSpec) Compile() (Rule, error) {
	pattern := s.Path
	if pattern == "" {
		pattern = "*"
	}
	if _, err := path.Match(pattern, "/"); err != nil {
		return nil, fmt.Errorf("invalid rule pattern %q: %w", pattern, err)
	}

	var rules []Rule
	if len(s.Require) > 0 {
		rules = append(rules, RequireKeys(s.Require...))
	}
	if s.MaxChildren != nil {
		rules = append(rules, MaxChildren(*s.MaxChildren))
	}
	keys := make([]string, 0, len(s.OneOf))
	for k := range s.OneOf {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		rules = append(rules, OneOf(k, s.OneOf[k]...))
	}
	keys = keys[:0]
	for k := range s.Types {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		check, err := parseType(s.Types[k])
		if err != nil {
			return nil, fmt.Errorf("rule %q: %s: %w", pattern, k, err)
		}
		rules = append(rules, hasType(k, s.Types[k], check))
	}
	if s.Path == "" {
		return all(rules...), nil
	}
	return At(pattern, rules...), nil
}

func all(rules ...Rule) Rule {
	return func(e *Element) error {
		for _, rule := range rules {
			if err := rule(e); err != nil {
				return err
			}
		}
		return nil
	}
}

func (s RuleSpec) clone() RuleSpec {
	out := RuleSpec{Path: s.Path, Require: slices.Clone(s.Require)}
	if s.MaxChildren != nil {
		n := *s.MaxChildren
		out.MaxChildren = &n
	}
	if s.OneOf != nil {
		out.OneOf = make(map[string][]string, len(s.OneOf))
		for k, v := range s.OneOf {
			out.OneOf[k] = slices.Clone(v)
		}
	}
	if s.Types != nil {
		out.Types = maps.Clone(s.Types)
	}
	return out
}
