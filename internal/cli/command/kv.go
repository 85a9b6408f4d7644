package command

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/respkv/pkg/client"
	"github.com/yndnr/respkv/pkg/resp"
)

// PingCommand returns the ping command.
func PingCommand() *cli.Command {
	return &cli.Command{
		Name:      "ping",
		Usage:     "Check that the server answers",
		ArgsUsage: "[MESSAGE]",
		Action: func(c *cli.Context) error {
			if c.NArg() > 1 {
				return fmt.Errorf("ping takes at most one message")
			}
			return run(c, func(ctx context.Context, cl *client.Client) (resp.Frame, error) {
				if c.NArg() == 1 {
					msg, err := cl.Ping(ctx, c.Args().First())
					return resp.Bulk(msg), err
				}
				msg, err := cl.Ping(ctx)
				return resp.Simple(msg), err
			})
		},
	}
}

// EchoCommand returns the echo command.
func EchoCommand() *cli.Command {
	return &cli.Command{
		Name:      "echo",
		Usage:     "Have the server repeat a message",
		ArgsUsage: "MESSAGE",
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return fmt.Errorf("echo takes exactly one message")
			}
			return run(c, func(ctx context.Context, cl *client.Client) (resp.Frame, error) {
				msg, err := cl.Echo(ctx, []byte(c.Args().First()))
				return resp.Bulk(msg), err
			})
		},
	}
}

// GetCommand returns the get command.
func GetCommand() *cli.Command {
	return &cli.Command{
		Name:      "get",
		Usage:     "Print the value of a key",
		ArgsUsage: "KEY",
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return fmt.Errorf("get takes exactly one key")
			}
			return run(c, func(ctx context.Context, cl *client.Client) (resp.Frame, error) {
				v, ok, err := cl.Get(ctx, c.Args().First())
				if err != nil || !ok {
					return resp.Null{}, err
				}
				return resp.Bulk(v), nil
			})
		},
	}
}

// SetCommand returns the set command.
func SetCommand() *cli.Command {
	return &cli.Command{
		Name:      "set",
		Usage:     "Store a value, optionally expiring",
		ArgsUsage: "KEY VALUE",
		Flags: []cli.Flag{
			&cli.Int64Flag{
				Name:  "px",
				Usage: "expire the key after this many milliseconds",
			},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 2 {
				return fmt.Errorf("set takes a key and a value")
			}
			var ttl time.Duration
			if c.IsSet("px") {
				px := c.Int64("px")
				if px <= 0 {
					return fmt.Errorf("--px must be positive, got %d", px)
				}
				ttl = time.Duration(px) * time.Millisecond
			}
			return run(c, func(ctx context.Context, cl *client.Client) (resp.Frame, error) {
				err := cl.Set(ctx, c.Args().Get(0), []byte(c.Args().Get(1)), ttl)
				return resp.Simple("OK"), err
			})
		},
	}
}
