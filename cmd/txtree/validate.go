package main

import (
	"fmt"

	"github.com/aretw0/txtree/internal/presentation/tui"
	"github.com/aretw0/txtree/pkg/document"
	"github.com/spf13/cobra"
)

func newValidateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <document>",
		Short: "Check a document against its rules",
		Long: `Loads the document in a single transaction. Loading fails, and nothing is
reported as valid, if any element violates the rules declared in the file.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := loadDocument(a, args[0])
			if err != nil {
				return err
			}
			tui.NewPrinter(cmd.OutOrStdout()).Success("%s is valid (%d elements, revision %d)",
				doc.Name(), countElements(doc.Snapshot()), doc.Revision())
			return nil
		},
	}
}

func loadDocument(a *app, path string) (*document.Document, error) {
	f, err := document.ReadFile(path)
	if err != nil {
		return nil, err
	}
	doc, err := document.Load(f, document.WithLogger(a.logger))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

func countElements(s document.Snapshot) int {
	n := 1
	for _, c := range s.Children {
		n += countElements(c)
	}
	return n
}
