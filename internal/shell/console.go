package shell

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Console is the session's output sink. Normal output can be redirected for
// command substitution; errors always go to the error writer.
type Console struct {
	mu      sync.Mutex
	out     io.Writer
	err     io.Writer
	errMark string
}

// NewConsole returns a console writing to out and errW. The error prefix is
// coloured when errW is a colour-capable terminal.
func NewConsole(out, errW io.Writer) *Console {
	style := lipgloss.NewRenderer(errW).NewStyle().
		Foreground(lipgloss.Color("9")).
		Bold(true)
	return &Console{
		out:     out,
		err:     errW,
		errMark: style.Render("Error:"),
	}
}

// Printf writes formatted text to the current output.
func (c *Console) Printf(format string, args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.out, format, args...)
}

// Errorf writes a formatted error line to the error writer.
func (c *Console) Errorf(format string, args ...any) {
	msg := strings.TrimRight(fmt.Sprintf(format, args...), "\n")
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.err, "%s %s\n", c.errMark, msg)
}

// Error reports err.
func (c *Console) Error(err error) {
	c.Errorf("%v", err)
}

// Capture runs fn with normal output redirected into a buffer and returns
// what was written.
func (c *Console) Capture(fn func() error) (string, error) {
	var buf bytes.Buffer

	c.mu.Lock()
	saved := c.out
	c.out = &buf
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.out = saved
		c.mu.Unlock()
	}()

	err := fn()
	return buf.String(), err
}
