package main

import (
	"fmt"
	"os"

	"github.com/aretw0/txtree/internal/presentation/graph"
	"github.com/aretw0/txtree/internal/presentation/tui"
	"github.com/aretw0/txtree/pkg/document"
	"github.com/spf13/cobra"
)

func newApplyCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apply <document> <edits>",
		Short: "Apply an edit batch to a document atomically",
		Long: `Applies every edit of the batch in one transaction. If any edit fails, or the
result violates the document rules, the document is left as it was and the
error is reported. With --write the result is saved back to the document file.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, _ := cmd.Flags().GetString("format")
			write, _ := cmd.Flags().GetBool("write")
			docPath, editsPath := args[0], args[1]

			doc, err := loadDocument(a, docPath)
			if err != nil {
				return err
			}
			data, err := os.ReadFile(editsPath)
			if err != nil {
				return fmt.Errorf("failed to read edits: %w", err)
			}
			edits, err := document.ParseEdits(data, document.FormatFor(editsPath))
			if err != nil {
				return err
			}

			before := doc.Revision()
			if err := doc.Apply(edits); err != nil {
				return err
			}
			a.logger.Info("edits applied", "document", doc.Name(), "edits", len(edits), "revision", doc.Revision())

			if write && doc.Revision() != before {
				if err := writeDocument(docPath, doc); err != nil {
					return err
				}
				tui.NewPrinter(cmd.ErrOrStderr()).Success("%s saved at revision %d", docPath, doc.Revision())
			}
			if format == "" {
				return nil
			}
			return render(cmd, doc, format, &graph.Overlay{Changed: changedPaths(edits)})
		},
	}
	cmd.Flags().StringP("format", "f", formatYAML, "Output format (yaml, json, outline, mermaid); empty prints nothing")
	cmd.Flags().BoolP("write", "w", false, "Save the result back to the document file")
	return cmd
}

// changedPaths lists the elements an edit batch touched.
func changedPaths(edits []document.Edit) []string {
	paths := make([]string, 0, len(edits))
	for _, ed := range edits {
		if ed.Op == document.OpAdd {
			paths = append(paths, ed.Path+"/"+ed.Name)
			continue
		}
		paths = append(paths, ed.Path)
	}
	return paths
}

// writeDocument replaces the file at path via a temporary file and rename.
func writeDocument(path string, doc *document.Document) error {
	data, err := document.Encode(doc.File(), document.FormatFor(path))
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write document: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to replace document: %w", err)
	}
	return nil
}
