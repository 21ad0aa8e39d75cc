// Package console prints pipeline progress. Terminals get check-mark glyphs;
// pipes and files get bracketed status tags that are easy to grep.
package console

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

// IsTerminal reports whether w is a terminal device.
var IsTerminal = func(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok || f == nil {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// Console writes one status line per pipeline stage.
type Console struct {
	w     io.Writer
	fancy bool
}

// New returns a Console writing to w.
func New(w io.Writer) *Console {
	return &Console{w: w, fancy: IsTerminal(w)}
}

// Done reports a finished stage.
func (c *Console) Done(format string, args ...any) {
	c.line("✓", "[ OK ]", format, args...)
}

// Skipped reports a stage that was not run.
func (c *Console) Skipped(format string, args ...any) {
	c.line("-", "[SKIP]", format, args...)
}

// Failed reports a stage that failed.
func (c *Console) Failed(format string, args ...any) {
	c.line("✗", "[FAIL]", format, args...)
}

// Printf writes free-form text.
func (c *Console) Printf(format string, args ...any) {
	fmt.Fprintf(c.w, format, args...)
}

func (c *Console) line(glyph, tag, format string, args ...any) {
	prefix := tag
	if c.fancy {
		prefix = " " + glyph
	}
	fmt.Fprintf(c.w, "%s %s\n", prefix, fmt.Sprintf(format, args...))
}
