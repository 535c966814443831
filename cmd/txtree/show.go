package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/aretw0/txtree/internal/presentation/graph"
	"github.com/aretw0/txtree/internal/presentation/tui"
	"github.com/aretw0/txtree/pkg/document"
	"github.com/spf13/cobra"
)

// Output formats of show and apply.
const (
	formatYAML    = "yaml"
	formatJSON    = "json"
	formatOutline = "outline"
	formatMermaid = "mermaid"
)

func newShowCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <document>",
		Short: "Print a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, _ := cmd.Flags().GetString("format")
			doc, err := loadDocument(a, args[0])
			if err != nil {
				return err
			}
			return render(cmd, doc, format, nil)
		},
	}
	cmd.Flags().StringP("format", "f", formatOutline, "Output format (yaml, json, outline, mermaid)")
	return cmd
}

// render writes doc in format. overlay, if set, highlights elements on a
// mermaid graph.
func render(cmd *cobra.Command, doc *document.Document, format string, overlay *graph.Overlay) error {
	out := cmd.OutOrStdout()
	switch strings.ToLower(format) {
	case formatYAML, formatJSON:
		data, err := document.Encode(doc.File(), document.Format(strings.ToLower(format)))
		if err != nil {
			return err
		}
		_, err = out.Write(data)
		return err
	case formatMermaid:
		_, err := fmt.Fprint(out, graph.GenerateMermaid(doc.Snapshot(), overlay))
		return err
	case formatOutline:
		renderMarkdown, err := tui.NewRenderer(tui.IsTerminal(out) && os.Getenv("NO_COLOR") == "")
		if err != nil {
			return err
		}
		text, err := renderMarkdown(tui.Outline(doc.Snapshot()))
		if err != nil {
			return fmt.Errorf("failed to render outline: %w", err)
		}
		_, err = fmt.Fprint(out, text)
		return err
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}
