// Command txtree validates, edits, shows and serves transactional documents.
package main

import (
	"os"

	"github.com/aretw0/txtree/internal/presentation/tui"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		tui.NewPrinter(os.Stderr).Failure(err)
		os.Exit(1)
	}
}
