package tui

import (
	"fmt"
	"slices"
	"strings"

	"github.com/aretw0/txtree/pkg/document"
)

// Outline renders a document tree as markdown: one heading per element,
// nested by depth, with its properties as a list.
func Outline(root document.Snapshot) string {
	var sb strings.Builder
	writeOutline(&sb, root, 1)
	return sb.String()
}

func writeOutline(sb *strings.Builder, s document.Snapshot, depth int) {
	// Markdown has six heading levels; deeper elements reuse the last.
	level := min(depth, 6)
	fmt.Fprintf(sb, "%s %s\n\n", strings.Repeat("#", level), s.Name)

	keys := make([]string, 0, len(s.Props))
	for k := range s.Props {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		fmt.Fprintf(sb, "- **%s**: %v\n", k, s.Props[k])
	}
	if len(keys) > 0 {
		sb.WriteString("\n")
	}

	for _, c := range s.Children {
		writeOutline(sb, c, depth+1)
	}
}
