package main

import (
	"log/slog"

	"github.com/aretw0/txtree/internal/logging"
	"github.com/spf13/cobra"
)

// app carries state shared by subcommands.
type app struct {
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{logger: logging.NewNop()}

	cmd := &cobra.Command{
		Use:   "txtree",
		Short: "txtree edits document trees in all-or-nothing transactions",
		Long: `txtree loads YAML or JSON documents into a tree of transactional elements,
applies edit batches atomically, checks the document rules on commit and can
serve the documents over HTTP.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			levelName, _ := cmd.Flags().GetString("log-level")
			format, _ := cmd.Flags().GetString("log-format")
			level, err := logging.ParseLevel(levelName)
			if err != nil {
				return err
			}
			a.logger = logging.NewWithWriter(cmd.ErrOrStderr(), level, format)
			return nil
		},
	}

	// Persistent flags (available to all commands)
	cmd.PersistentFlags().String("log-level", "warn", "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().String("log-format", "text", "Log format (text, json)")

	cmd.AddCommand(
		newValidateCmd(a),
		newApplyCmd(a),
		newShowCmd(a),
		newDocsCmd(a),
		newServeCmd(a),
		newVersionCmd(),
	)
	return cmd
}
