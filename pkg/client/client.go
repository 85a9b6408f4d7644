package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/yndnr/respkv/pkg/resp"
)

// DefaultDialTimeout bounds Dial when ctx has no deadline.
const DefaultDialTimeout = 5 * time.Second

var (
	// ErrUnexpectedReply means the server answered with a frame of the
	// wrong type for the request.
	ErrUnexpectedReply = errors.New("client: unexpected reply")

	// ErrClosed means the server closed the connection, which respkv does
	// when it rejects a request.
	ErrClosed = errors.New("client: connection closed by server")
)

// Client is a connection to a respkv server.
type Client struct {
	conn net.Conn

	// buf[pos:end] holds reply bytes not yet parsed.
	buf      []byte
	pos, end int
	out      []byte
}

// Dial connects to the server at addr.
func Dial(ctx context.Context, addr string) (*Client, error) {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, DefaultDialTimeout)
		defer cancel()
	}

	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", addr, err)
	}
	return New(conn), nil
}

// New wraps an established connection.
func New(conn net.Conn) *Client {
	return &Client{
		conn: conn,
		buf:  make([]byte, 4096),
	}
}

// Close closes the connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

// Do sends args as a command and returns the reply frame. The deadline of
// ctx, if any, applies to the whole round trip.
func (c *Client) Do(ctx context.Context, args ...[]byte) (resp.Frame, error) {
	req := make(resp.Array, len(args))
	for i, a := range args {
		req[i] = resp.Bulk(a)
	}
	return c.roundTrip(ctx, req)
}

// DoString is Do for text arguments.
func (c *Client) DoString(ctx context.Context, args ...string) (resp.Frame, error) {
	return c.roundTrip(ctx, resp.StringArray(args...))
}

func (c *Client) roundTrip(ctx context.Context, req resp.Array) (resp.Frame, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	deadline, _ := ctx.Deadline()
	if err := c.conn.SetDeadline(deadline); err != nil {
		return nil, err
	}
	stop := context.AfterFunc(ctx, func() {
		_ = c.conn.SetDeadline(time.Unix(1, 0))
	})
	defer stop()

	c.out = resp.Append(c.out[:0], req)
	if _, err := c.conn.Write(c.out); err != nil {
		return nil, c.wrapErr(ctx, err)
	}

	f, err := c.readFrame()
	if err != nil {
		return nil, c.wrapErr(ctx, err)
	}
	return f, nil
}

func (c *Client) wrapErr(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	// The socket deadline can fire just before the context's own timer.
	if errors.Is(err, os.ErrDeadlineExceeded) {
		if dl, ok := ctx.Deadline(); ok && !time.Now().Before(dl) {
			return context.DeadlineExceeded
		}
	}
	return err
}

func (c *Client) readFrame() (resp.Frame, error) {
	for {
		f, n, err := resp.Parse(c.buf[c.pos:c.end])
		if err == nil {
			c.pos += n
			if c.pos == c.end {
				c.pos, c.end = 0, 0
			}
			return f, nil
		}
		if !errors.Is(err, resp.ErrIncomplete) {
			return nil, err
		}

		if c.end == len(c.buf) {
			if c.pos > 0 {
				c.end = copy(c.buf, c.buf[c.pos:c.end])
				c.pos = 0
			} else {
				grown := make([]byte, 2*len(c.buf))
				copy(grown, c.buf[:c.end])
				c.buf = grown
			}
		}

		n, err = c.conn.Read(c.buf[c.end:])
		c.end += n
		if err != nil && n == 0 {
			if errors.Is(err, io.EOF) {
				return nil, ErrClosed
			}
			return nil, err
		}
	}
}

// Ping sends PING and returns the reply text, PONG unless msg is given.
func (c *Client) Ping(ctx context.Context, msg ...string) (string, error) {
	args := []string{"PING"}
	if len(msg) > 0 {
		args = append(args, msg[0])
	}
	f, err := c.DoString(ctx, args...)
	if err != nil {
		return "", err
	}
	switch v := f.(type) {
	case resp.Simple:
		return string(v), nil
	case resp.Bulk:
		return string(v), nil
	}
	return "", unexpected("PING", f)
}

// Echo sends ECHO and returns the echoed message.
func (c *Client) Echo(ctx context.Context, msg []byte) ([]byte, error) {
	f, err := c.Do(ctx, []byte("ECHO"), msg)
	if err != nil {
		return nil, err
	}
	b, ok := f.(resp.Bulk)
	if !ok {
		return nil, unexpected("ECHO", f)
	}
	return b, nil
}

// Get returns the value of key. ok is false when the key is absent.
func (c *Client) Get(ctx context.Context, key string) (value []byte, ok bool, err error) {
	f, err := c.DoString(ctx, "GET", key)
	if err != nil {
		return nil, false, err
	}
	switch v := f.(type) {
	case resp.Null:
		return nil, false, nil
	case resp.Bulk:
		return v, true, nil
	}
	return nil, false, unexpected("GET", f)
}

// Set stores value under key. A positive ttl is sent as PX in whole
// milliseconds, rounded up so that sub-millisecond TTLs still expire.
func (c *Client) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	args := [][]byte{[]byte("SET"), []byte(key), value}
	if ttl > 0 {
		ms := (ttl + time.Millisecond - 1) / time.Millisecond
		args = append(args, []byte("PX"), strconv.AppendInt(nil, int64(ms), 10))
	}
	f, err := c.Do(ctx, args...)
	if err != nil {
		return err
	}
	if s, ok := f.(resp.Simple); !ok || s != "OK" {
		return unexpected("SET", f)
	}
	return nil
}

func unexpected(cmd string, f resp.Frame) error {
	return fmt.Errorf("%w to %s: %T", ErrUnexpectedReply, cmd, f)
}
