package repl

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/yndnr/respkv/internal/cli/output"
	"github.com/yndnr/respkv/pkg/resp"
)

// Executor sends one command and returns the server's reply.
type Executor func(ctx context.Context, args [][]byte) (resp.Frame, error)

// REPL represents the Read-Eval-Print Loop.
type REPL struct {
	input     io.Reader
	output    io.Writer
	prompt    string
	exec      Executor
	formatter output.Formatter
	history   *History
}

// Option configures a REPL.
type Option func(*REPL)

// WithIO replaces stdin and stdout.
func WithIO(in io.Reader, out io.Writer) Option {
	return func(r *REPL) {
		r.input = in
		r.output = out
	}
}

// WithHistory sets the history store.
func WithHistory(h *History) Option {
	return func(r *REPL) {
		r.history = h
	}
}

// New creates a REPL that prompts with prompt and runs lines through exec.
func New(prompt string, exec Executor, formatter output.Formatter, opts ...Option) *REPL {
	r := &REPL{
		input:     os.Stdin,
		output:    os.Stdout,
		prompt:    prompt,
		exec:      exec,
		formatter: formatter,
		history:   NewHistory(""),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run starts the REPL loop. It returns nil on EOF or exit, and the error
// of a command that lost the connection.
func (r *REPL) Run(ctx context.Context) error {
	scanner := bufio.NewScanner(r.input)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)

	for {
		fmt.Fprint(r.output, r.prompt)

		if !scanner.Scan() {
			fmt.Fprintln(r.output)
			return scanner.Err()
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		r.history.Add(line)

		if line == "exit" || line == "quit" {
			return nil
		}

		args, err := SplitArgs(line)
		if err != nil {
			fmt.Fprintf(r.output, "(error) %v\n", err)
			continue
		}

		reply, err := r.exec(ctx, args)
		if err != nil {
			return err
		}
		if err := r.formatter.Format(r.output, reply); err != nil {
			return err
		}
	}
}

// ErrUnbalancedQuotes is returned for a line with an unterminated quote.
var ErrUnbalancedQuotes = errors.New("unbalanced quotes in request")

// SplitArgs splits a line into arguments. Words are separated by spaces or
// tabs; a double-quoted word may contain spaces and Go escape sequences.
func SplitArgs(line string) ([][]byte, error) {
	var args [][]byte
	i := 0
	for i < len(line) {
		switch line[i] {
		case ' ', '\t':
			i++
			continue
		case '"':
			end := closingQuote(line, i)
			if end < 0 {
				return nil, ErrUnbalancedQuotes
			}
			s, err := strconv.Unquote(line[i : end+1])
			if err != nil {
				return nil, fmt.Errorf("invalid quoted argument %s: %w", line[i:end+1], err)
			}
			args = append(args, []byte(s))
			i = end + 1
		default:
			start := i
			for i < len(line) && line[i] != ' ' && line[i] != '\t' {
				i++
			}
			args = append(args, []byte(line[start:i]))
		}
	}
	return args, nil
}

// closingQuote returns the index of the quote ending the string opened at
// line[open], or -1.
func closingQuote(line string, open int) int {
	for i := open + 1; i < len(line); i++ {
		switch line[i] {
		case '\\':
			i++
		case '"':
			return i
		}
	}
	return -1
}
