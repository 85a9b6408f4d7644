package redisserver

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/yndnr/respkv/pkg/resp"
)

// Store is the key-value state commands operate on.
type Store interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration)
}

// FrameWriter receives the reply of a command.
type FrameWriter interface {
	WriteFrame(f resp.Frame) error
}

// Command is one decoded request.
type Command interface {
	// Name returns the upper-case command name.
	Name() string
	// Apply executes the command and writes exactly one reply.
	Apply(db Store, dst FrameWriter) error
}

var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrWrongArity     = errors.New("wrong number of arguments")
	ErrSyntax         = errors.New("syntax error")
	ErrNotInteger     = errors.New("value is not an integer or out of range")
	ErrInvalidExpire  = errors.New("invalid expire time")
	ErrMalformed      = errors.New("malformed request")
)

// CommandError reports a request that could not be turned into a Command.
type CommandError struct {
	Command string
	Err     error
	Detail  string
}

func (e *CommandError) Error() string {
	msg := e.Err.Error()
	if e.Command != "" {
		msg += " in '" + strings.ToLower(e.Command) + "' command"
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

func commandError(cmd string, err error, detail string) *CommandError {
	return &CommandError{Command: cmd, Err: err, Detail: detail}
}

// ParseCommand decodes a request frame. A request is a non-empty Array of
// Bulk strings whose first element names the command, case-insensitively.
func ParseCommand(f resp.Frame) (Command, error) {
	items, ok := f.(resp.Array)
	if !ok {
		return nil, commandError("", ErrMalformed, fmt.Sprintf("expected array, got %T", f))
	}
	if len(items) == 0 {
		return nil, commandError("", ErrMalformed, "empty command")
	}

	args := make([][]byte, len(items))
	for i, item := range items {
		b, ok := item.(resp.Bulk)
		if !ok {
			return nil, commandError("", ErrMalformed, fmt.Sprintf("argument %d is %T, expected bulk string", i, item))
		}
		args[i] = b
	}

	name := normalizeCommandName(args[0])
	switch name {
	case "PING":
		return parsePing(args)
	case "ECHO":
		return parseEcho(args)
	case "GET":
		return parseGet(args)
	case "SET":
		return parseSet(args)
	default:
		return nil, commandError("", ErrUnknownCommand, strconv.Quote(string(args[0])))
	}
}

// normalizeCommandName upper-cases ASCII without allocating twice for
// tokens that are already upper case.
func normalizeCommandName(b []byte) string {
	if bytes.ContainsAny(b, "abcdefghijklmnopqrstuvwxyz") {
		return strings.ToUpper(string(b))
	}
	return string(b)
}

// Ping replies PONG, or echoes its optional message.
type Ping struct {
	Message    []byte
	HasMessage bool
}

func parsePing(args [][]byte) (Command, error) {
	switch len(args) {
	case 1:
		return &Ping{}, nil
	case 2:
		return &Ping{Message: args[1], HasMessage: true}, nil
	default:
		return nil, commandError("PING", ErrWrongArity, "")
	}
}

func (c *Ping) Name() string { return "PING" }

func (c *Ping) Apply(_ Store, dst FrameWriter) error {
	if c.HasMessage {
		return dst.WriteFrame(resp.Bulk(c.Message))
	}
	return dst.WriteFrame(resp.Simple("PONG"))
}

// Echo replies with its message as a bulk string.
type Echo struct {
	Message []byte
}

func parseEcho(args [][]byte) (Command, error) {
	if len(args) != 2 {
		return nil, commandError("ECHO", ErrWrongArity, "")
	}
	return &Echo{Message: args[1]}, nil
}

func (c *Echo) Name() string { return "ECHO" }

func (c *Echo) Apply(_ Store, dst FrameWriter) error {
	return dst.WriteFrame(resp.Bulk(c.Message))
}

// Get replies with the stored value or Null.
type Get struct {
	Key string
}

func parseGet(args [][]byte) (Command, error) {
	if len(args) != 2 {
		return nil, commandError("GET", ErrWrongArity, "")
	}
	return &Get{Key: string(args[1])}, nil
}

func (c *Get) Name() string { return "GET" }

func (c *Get) Apply(db Store, dst FrameWriter) error {
	v, ok := db.Get(c.Key)
	if !ok {
		return dst.WriteFrame(resp.Null{})
	}
	return dst.WriteFrame(resp.Bulk(v))
}

// Set stores a value, optionally expiring after TTL.
//
// SET <key> <value> [PX <milliseconds>]
type Set struct {
	Key   string
	Value []byte
	TTL   time.Duration
}

// maxPX keeps the millisecond TTL representable as a time.Duration.
const maxPX = math.MaxInt64 / int64(time.Millisecond)

func parseSet(args [][]byte) (Command, error) {
	if len(args) < 3 {
		return nil, commandError("SET", ErrWrongArity, "")
	}

	cmd := &Set{Key: string(args[1]), Value: args[2]}

	opts := args[3:]
	switch {
	case len(opts) == 0:
	case len(opts) == 2 && normalizeCommandName(opts[0]) == "PX":
		ms, err := strconv.ParseInt(string(opts[1]), 10, 64)
		if err != nil {
			return nil, commandError("SET", ErrNotInteger, strconv.Quote(string(opts[1])))
		}
		if ms <= 0 || ms > maxPX {
			return nil, commandError("SET", ErrInvalidExpire, strconv.FormatInt(ms, 10))
		}
		cmd.TTL = time.Duration(ms) * time.Millisecond
	default:
		return nil, commandError("SET", ErrSyntax, strconv.Quote(string(opts[0])))
	}

	return cmd, nil
}

func (c *Set) Name() string { return "SET" }

func (c *Set) Apply(db Store, dst FrameWriter) error {
	db.Set(c.Key, c.Value, c.TTL)
	return dst.WriteFrame(resp.Simple("OK"))
}
