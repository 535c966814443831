package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the txtree banner and version to w.
func PrintBanner(w io.Writer, version string) {
	out := termenv.NewOutput(w)
	lines := []struct{ text, color string }{
		{"  _        _                 ", "#818cf8"},
		{" | |___  _| |_ _ __ ___  ___ ", "#a78bfa"},
		{" | __\\ \\/ / __| '__/ _ \\/ _ \\", "#c084fc"},
		{" | |_ >  <| |_| | |  __/  __/", "#e879f9"},
		{"  \\__/_/\\_\\\\__|_|  \\___|\\___|", "#f472b6"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, out.String(l.text).Foreground(out.Color(l.color)))
	}
	fmt.Fprintln(w, out.String("  "+version).Faint())
	fmt.Fprintln(w)
}
