// Package prompt asks the operator for input on a console.
package prompt

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"golang.org/x/term"
)

type readResult struct {
	text string
	err  error
}

// Console prompts on out and reads answers from in, one line each
type Console struct {
	in  *bufio.Reader
	tty *os.File
	out io.Writer

	mu      sync.Mutex
	pending chan readResult
}

// NewConsole creates a console. Secret prompts are masked only when in is a
// terminal.
func NewConsole(in io.Reader, out io.Writer) *Console {
	c := &Console{
		in:  bufio.NewReader(in),
		out: out,
	}
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		c.tty = f
	}
	return c
}

// Prompt prints message and reads one line
func (c *Console) Prompt(ctx context.Context, message string) (string, error) {
	fmt.Fprint(c.out, message)
	return c.read(ctx, c.readLine)
}

// PromptSecret prints message and reads one line without echo when the
// input is a terminal
func (c *Console) PromptSecret(ctx context.Context, message string) (string, error) {
	fmt.Fprint(c.out, message)
	if c.tty == nil {
		return c.read(ctx, c.readLine)
	}
	return c.read(ctx, c.readPassword)
}

// Notice prints a status line
func (c *Console) Notice(message string) {
	fmt.Fprintln(c.out, message)
}

// read runs fn in the background so ctx can abandon it. An abandoned read
// stays pending and its result goes to the next caller.
func (c *Console) read(ctx context.Context, fn func() (string, error)) (string, error) {
	c.mu.Lock()
	if c.pending == nil {
		ch := make(chan readResult, 1)
		c.pending = ch
		go func() {
			text, err := fn()
			ch <- readResult{text: text, err: err}
		}()
	}
	pending := c.pending
	c.mu.Unlock()

	select {
	case r := <-pending:
		c.mu.Lock()
		c.pending = nil
		c.mu.Unlock()
		return r.text, r.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func (c *Console) readLine() (string, error) {
	line, err := c.in.ReadString('\n')
	if err == io.EOF && line != "" {
		err = nil
	}
	if err != nil {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (c *Console) readPassword() (string, error) {
	b, err := term.ReadPassword(int(c.tty.Fd()))
	// the terminal swallowed the newline
	fmt.Fprintln(c.out)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
