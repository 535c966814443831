package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/txtree/pkg/document"
)

// Overlay marks elements to highlight on the graph.
type Overlay struct {
	// Changed lists element paths touched by the last edit batch.
	Changed []string
}

// GenerateMermaid produces a Mermaid flowchart of a document tree.
// Shapes:
// - Root: ((Circle))
// - Element with children: [Rectangle]
// - Leaf: (Rounded)
// Each label carries the element name and its property count.
func GenerateMermaid(root document.Snapshot, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")
	writeNode(&sb, root, "/"+root.Name, true)

	if overlay != nil && len(overlay.Changed) > 0 {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Black text keeps contrast on light fills in both themes.
		sb.WriteString("    classDef changed fill:#ffeb3b,stroke:#fbc02d,stroke-width:3px,color:#000;\n")
		seen := make(map[string]bool)
		for _, p := range overlay.Changed {
			id := sanitizeMermaidID(p)
			if id == "" || seen[id] {
				continue
			}
			seen[id] = true
			sb.WriteString(fmt.Sprintf("    class %s changed;\n", id))
		}
	}
	return sb.String()
}

func writeNode(sb *strings.Builder, s document.Snapshot, path string, isRoot bool) {
	id := sanitizeMermaidID(path)

	opener, closer := "(", ")"
	switch {
	case isRoot:
		opener, closer = "((", "))"
	case len(s.Children) > 0:
		opener, closer = "[", "]"
	}

	label := strings.ReplaceAll(s.Name, "\"", "'")
	if n := len(s.Props); n > 0 {
		label = fmt.Sprintf("%s <br/> %d props", label, n)
	}
	sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", id, opener, label, closer))

	for _, c := range s.Children {
		childPath := path + "/" + c.Name
		sb.WriteString(fmt.Sprintf("    %s --> %s\n", id, sanitizeMermaidID(childPath)))
		writeNode(sb, c, childPath, false)
	}
}

func sanitizeMermaidID(id string) string {
	s := strings.TrimPrefix(id, "/")
	for _, old := range []string{".", "-", "/", "\\", " ", "\""} {
		s = strings.ReplaceAll(s, old, "_")
	}
	return s
}
