package main

import (
	"fmt"

	"github.com/aretw0/txtree/internal/presentation/tui"
	"github.com/aretw0/txtree/pkg/adapters/file"
	"github.com/aretw0/txtree/pkg/document"
	"github.com/spf13/cobra"
)

func newDocsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "docs",
		Short: "Manage documents in a file store",
		Long:  `List, export and remove documents kept by the file store of 'txtree serve'.`,
	}
	cmd.PersistentFlags().String("dir", "", "Directory of the file store (default .txtree/documents)")

	cmd.AddCommand(&cobra.Command{
		Use:   "ls",
		Short: "List stored documents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store := fileStore(cmd)
			names, err := store.List(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(names) == 0 {
				fmt.Fprintln(out, "No documents found.")
				return nil
			}
			for _, name := range names {
				fmt.Fprintln(out, "- "+name)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "export <name>",
		Short: "Print a stored document as YAML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := fileStore(cmd).Load(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			data, err := document.Encode(f, document.FormatYAML)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "rm <name>...",
		Short: "Remove stored documents",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store := fileStore(cmd)
			p := tui.NewPrinter(cmd.OutOrStdout())
			for _, name := range args {
				if err := store.Delete(cmd.Context(), name); err != nil {
					return err
				}
				a.logger.Debug("document removed", "document", name, "dir", store.BasePath)
				p.Success("removed %s", name)
			}
			return nil
		},
	})
	return cmd
}

func fileStore(cmd *cobra.Command) *file.Store {
	dir, _ := cmd.Flags().GetString("dir")
	return file.New(dir)
}
