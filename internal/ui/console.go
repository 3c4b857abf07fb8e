package ui

import (
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// Console prints user-facing lines and blocks for a key press.
// It satisfies deploy.Notifier.
type Console struct {
	out io.Writer
	in  io.Reader

	// fd is the terminal file descriptor of in, or -1 when in is not a TTY.
	fd int
}

// NewConsole returns a Console bound to the given streams. When in is a
// terminal, WaitForKey switches it to raw mode so a single key press returns.
func NewConsole(out io.Writer, in *os.File) *Console {
	fd := -1
	if in != nil && term.IsTerminal(int(in.Fd())) {
		fd = int(in.Fd())
	}
	return &Console{out: out, in: in, fd: fd}
}

// NewConsoleFrom returns a Console reading from a plain reader (no raw mode).
func NewConsoleFrom(out io.Writer, in io.Reader) *Console {
	return &Console{out: out, in: in, fd: -1}
}

// Notify writes msg followed by a newline.
func (c *Console) Notify(msg string) {
	fmt.Fprintln(c.out, msg)
}

// WaitForKey blocks until one key (or one byte of piped input) is read.
// End of input counts as a key press.
func (c *Console) WaitForKey() error {
	if c.in == nil {
		return nil
	}

	if c.fd >= 0 {
		state, err := term.MakeRaw(c.fd)
		if err != nil {
			return fmt.Errorf("entering raw mode: %w", err)
		}
		defer func() { _ = term.Restore(c.fd, state) }()
	}

	buf := make([]byte, 1)
	_, err := c.in.Read(buf)
	if err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("reading key press: %w", err)
	}
	return nil
}
