package command

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/respkv/internal/cli/output"
	"github.com/yndnr/respkv/internal/cli/repl"
	"github.com/yndnr/respkv/internal/infra/buildinfo"
	"github.com/yndnr/respkv/pkg/client"
	"github.com/yndnr/respkv/pkg/resp"
)

// DefaultServer is the address used when --server is not given.
const DefaultServer = "127.0.0.1:6379"

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:      "respkv-cli",
		Usage:     "command-line client for respkv",
		ArgsUsage: "[COMMAND [ARG...]]",
		Version:   buildinfo.String(),
		Flags:     globalFlags(),
		Commands: []*cli.Command{
			PingCommand(),
			EchoCommand(),
			GetCommand(),
			SetCommand(),
		},
		Action: rootAction,
	}
}

// globalFlags returns the global CLI flags.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "server",
			Aliases: []string{"s"},
			Usage:   "respkv server address",
			EnvVars: []string{"RESPKV_SERVER"},
			Value:   DefaultServer,
		},
		&cli.DurationFlag{
			Name:    "timeout",
			Aliases: []string{"t"},
			Usage:   "timeout for dialing and for each request",
			Value:   5 * time.Second,
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "output format: raw, json, yaml",
			Value:   string(output.FormatRaw),
		},
		&cli.StringFlag{
			Name:  "history-file",
			Usage: "interactive history file (default ~/" + repl.DefaultHistoryFile + ")",
		},
	}
}

// GlobalFlags defines flags available to all commands.
type GlobalFlags struct {
	Server      string
	Timeout     time.Duration
	Output      output.Format
	HistoryFile string
}

// ParseGlobalFlags extracts and validates global flags from context.
func ParseGlobalFlags(c *cli.Context) (*GlobalFlags, error) {
	format, err := output.ParseFormat(c.String("output"))
	if err != nil {
		return nil, err
	}
	timeout := c.Duration("timeout")
	if timeout <= 0 {
		return nil, fmt.Errorf("--timeout must be positive, got %s", timeout)
	}
	return &GlobalFlags{
		Server:      c.String("server"),
		Timeout:     timeout,
		Output:      format,
		HistoryFile: c.String("history-file"),
	}, nil
}

// connect dials the server named by the global flags.
func connect(c *cli.Context, flags *GlobalFlags) (*client.Client, error) {
	ctx, cancel := context.WithTimeout(c.Context, flags.Timeout)
	defer cancel()

	cl, err := client.Dial(ctx, flags.Server)
	if err != nil {
		return nil, fmt.Errorf("could not connect to %s: %w", flags.Server, err)
	}
	return cl, nil
}

// run connects, performs one request with the per-request timeout and
// prints the reply.
func run(c *cli.Context, do func(ctx context.Context, cl *client.Client) (resp.Frame, error)) error {
	flags, err := ParseGlobalFlags(c)
	if err != nil {
		return err
	}

	cl, err := connect(c, flags)
	if err != nil {
		return err
	}
	defer cl.Close()

	ctx, cancel := context.WithTimeout(c.Context, flags.Timeout)
	defer cancel()

	reply, err := do(ctx, cl)
	if err != nil {
		return describe(err)
	}
	return output.NewFormatter(flags.Output).Format(c.App.Writer, reply)
}

// describe adds a hint to errors whose cause is not obvious to a user.
func describe(err error) error {
	if errors.Is(err, client.ErrClosed) {
		return fmt.Errorf("server closed the connection; the request was rejected: %w", err)
	}
	return err
}

// PrintError prints an error message to stderr.
func PrintError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
}
