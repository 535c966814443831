package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/txtree"
	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of txtree",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "txtree version %s\n", strings.TrimSpace(txtree.Version))
		},
	}
}
