package redisserver

import (
	"bufio"
	"errors"
	"io"
	"net"
	"sync/atomic"

	"github.com/oklog/ulid/v2"
	"golang.org/x/time/rate"

	"github.com/yndnr/respkv/pkg/resp"
)

const (
	// initialBufferSize is the starting capacity of the receive buffer.
	initialBufferSize = 4 * 1024

	// minReadSize is the least free space offered to a socket read.
	minReadSize = 512

	// maxRetainedScratch caps the write scratch buffer kept between replies.
	maxRetainedScratch = 64 * 1024
)

var (
	// ErrConnClosed means the peer closed the stream between frames.
	ErrConnClosed = errors.New("redisserver: connection closed")

	// ErrConnReset means the peer closed the stream in the middle of a frame.
	ErrConnReset = errors.New("redisserver: connection reset by peer")
)

// Conn is a single client connection. It owns the socket, a growable
// receive buffer and a write buffer. A Conn is used by one goroutine.
type Conn struct {
	id      string
	netConn net.Conn

	// rbuf[rpos:wpos] holds bytes received but not yet parsed.
	rbuf       []byte
	rpos, wpos int

	bw      *bufio.Writer
	scratch []byte

	limiter *rate.Limiter
	closed  atomic.Bool
}

func newConn(c net.Conn) *Conn {
	return &Conn{
		id:      ulid.Make().String(),
		netConn: c,
		rbuf:    make([]byte, initialBufferSize),
		bw:      bufio.NewWriter(c),
	}
}

// ID returns the connection's unique identifier.
func (c *Conn) ID() string {
	return c.id
}

// RemoteAddr returns the peer address.
func (c *Conn) RemoteAddr() net.Addr {
	return c.netConn.RemoteAddr()
}

// Close closes the socket. It is safe to call more than once.
func (c *Conn) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}
	return c.netConn.Close()
}

// ReadFrame returns the next frame sent by the peer.
//
// Bytes already buffered are parsed before the socket is read again, so
// frames pipelined in one packet come back one call at a time. Only the
// bytes of the returned frame are consumed; on ErrIncomplete the buffer is
// left as it is and more bytes are read.
func (c *Conn) ReadFrame() (resp.Frame, error) {
	for {
		f, n, err := resp.Parse(c.rbuf[c.rpos:c.wpos])
		if err == nil {
			c.rpos += n
			return f, nil
		}
		if !errors.Is(err, resp.ErrIncomplete) {
			return nil, err
		}
		if err := c.fill(); err != nil {
			return nil, err
		}
	}
}

// fill reads more bytes from the socket into the receive buffer.
func (c *Conn) fill() error {
	if c.rpos == c.wpos {
		c.rpos, c.wpos = 0, 0
	}

	if len(c.rbuf)-c.wpos < minReadSize {
		// Reclaim the consumed prefix first, then grow if still short.
		if c.rpos > 0 {
			c.wpos = copy(c.rbuf, c.rbuf[c.rpos:c.wpos])
			c.rpos = 0
		}
		if len(c.rbuf)-c.wpos < minReadSize {
			grown := make([]byte, 2*len(c.rbuf)+minReadSize)
			copy(grown, c.rbuf[:c.wpos])
			c.rbuf = grown
		}
	}

	n, err := c.netConn.Read(c.rbuf[c.wpos:])
	c.wpos += n
	if n > 0 {
		return nil
	}

	switch {
	case err == nil:
		return nil
	case errors.Is(err, io.EOF):
		if c.rpos == c.wpos {
			return ErrConnClosed
		}
		return ErrConnReset
	default:
		return err
	}
}

// WriteFrame writes f to the peer and flushes before returning.
func (c *Conn) WriteFrame(f resp.Frame) error {
	c.scratch = resp.Append(c.scratch[:0], f)
	_, err := c.bw.Write(c.scratch)
	if cap(c.scratch) > maxRetainedScratch {
		c.scratch = nil
	}
	if err != nil {
		return err
	}
	return c.bw.Flush()
}
