package command

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/respkv/internal/cli/output"
	"github.com/yndnr/respkv/internal/cli/repl"
	"github.com/yndnr/respkv/pkg/client"
	"github.com/yndnr/respkv/pkg/resp"
)

// rootAction sends the arguments as one raw command, or starts the REPL
// when there are none.
func rootAction(c *cli.Context) error {
	if c.NArg() > 0 {
		args := c.Args().Slice()
		return run(c, func(ctx context.Context, cl *client.Client) (resp.Frame, error) {
			return cl.DoString(ctx, args...)
		})
	}
	return interactive(c)
}

func interactive(c *cli.Context) error {
	flags, err := ParseGlobalFlags(c)
	if err != nil {
		return err
	}

	cl, err := connect(c, flags)
	if err != nil {
		return err
	}
	defer cl.Close()

	history := repl.NewHistory(flags.HistoryFile)
	if err := history.Load(); err != nil {
		PrintError("load history: %v", err)
	}
	defer func() {
		if err := history.Save(); err != nil {
			PrintError("save history: %v", err)
		}
	}()

	exec := func(ctx context.Context, args [][]byte) (resp.Frame, error) {
		ctx, cancel := context.WithTimeout(ctx, flags.Timeout)
		defer cancel()
		f, err := cl.Do(ctx, args...)
		if err != nil {
			return nil, describe(err)
		}
		return f, nil
	}

	r := repl.New(fmt.Sprintf("%s> ", flags.Server), exec, output.NewFormatter(flags.Output),
		repl.WithIO(c.App.Reader, c.App.Writer),
		repl.WithHistory(history),
	)
	return r.Run(c.Context)
}
