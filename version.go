package txtree

import _ "embed"

// Version is the release of the module, read from the VERSION file.
// Callers should strings.TrimSpace it before display.
//
//go:embed VERSION
var Version string
