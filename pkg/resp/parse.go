package resp

import (
	"bytes"
	"errors"
	"fmt"
)

// Protocol limits to keep adversarial input from exhausting memory or stack.
const (
	// MaxDepth bounds array nesting.
	MaxDepth = 32

	// MaxHeaderLen bounds the digits of a length or count header.
	MaxHeaderLen = 32

	// MaxSimpleLen bounds a simple string line.
	MaxSimpleLen = 64 * 1024

	// MaxBulkLen limits a single bulk string (512MB, the Redis default).
	MaxBulkLen = 512 * 1024 * 1024

	// MaxArrayLen limits the number of elements in one array.
	MaxArrayLen = 1024 * 1024
)

var (
	// ErrIncomplete means the buffer holds only a prefix of a frame.
	// It is a retry signal, not a failure.
	ErrIncomplete = errors.New("resp: incomplete frame")

	// ErrInvalid reports malformed input.
	ErrInvalid = errors.New("resp: invalid frame")

	// ErrBadLength reports a non-numeric, negative or oversized length.
	ErrBadLength = errors.New("resp: bad length")
)

var crlf = []byte("\r\n")

// Parse decodes one frame from the start of buf and returns it together
// with the number of bytes it occupies. buf is never modified. On any
// error, including ErrIncomplete, nothing is consumed.
func Parse(buf []byte) (Frame, int, error) {
	p := parser{buf: buf}
	f, err := p.frame(0)
	if err != nil {
		return nil, 0, err
	}
	return f, p.pos, nil
}

type parser struct {
	buf []byte
	pos int
}

func (p *parser) frame(depth int) (Frame, error) {
	if depth > MaxDepth {
		return nil, fmt.Errorf("%w: nesting deeper than %d", ErrInvalid, MaxDepth)
	}
	if p.pos >= len(p.buf) {
		return nil, ErrIncomplete
	}

	typ := p.buf[p.pos]
	p.pos++

	switch typ {
	case '+':
		line, err := p.line(MaxSimpleLen)
		if errors.Is(err, errLineTooLong) {
			return nil, fmt.Errorf("%w: simple string exceeds %d bytes", ErrInvalid, MaxSimpleLen)
		}
		if err != nil {
			return nil, err
		}
		return Simple(line), nil

	case '$':
		n, err := p.length(MaxBulkLen)
		if err != nil {
			return nil, err
		}
		if n < 0 {
			return Null{}, nil
		}
		if len(p.buf)-p.pos < n+2 {
			return nil, ErrIncomplete
		}
		if !bytes.Equal(p.buf[p.pos+n:p.pos+n+2], crlf) {
			return nil, fmt.Errorf("%w: bulk string not terminated by CRLF", ErrInvalid)
		}
		data := make([]byte, n)
		copy(data, p.buf[p.pos:p.pos+n])
		p.pos += n + 2
		return Bulk(data), nil

	case '*':
		n, err := p.length(MaxArrayLen)
		if err != nil {
			return nil, err
		}
		if n < 0 {
			return Null{}, nil
		}
		// The count is untrusted until the elements actually arrive.
		items := make(Array, 0, min(n, 64))
		for i := 0; i < n; i++ {
			item, err := p.frame(depth + 1)
			if err != nil {
				return nil, err
			}
			items = append(items, item)
		}
		return items, nil

	default:
		return nil, fmt.Errorf("%w: unexpected type byte %q", ErrInvalid, typ)
	}
}

var errLineTooLong = errors.New("resp: line too long")

// line returns the bytes up to the next CRLF and moves past it.
func (p *parser) line(limit int) ([]byte, error) {
	rest := p.buf[p.pos:]
	window := rest
	if len(window) > limit+2 {
		window = window[:limit+2]
	}

	i := bytes.Index(window, crlf)
	if i < 0 {
		if len(rest) >= limit+2 {
			return nil, errLineTooLong
		}
		return nil, ErrIncomplete
	}

	p.pos += i + 2
	return rest[:i], nil
}

// length reads a decimal header. -1 is returned for the null encoding.
func (p *parser) length(max int) (int, error) {
	line, err := p.line(MaxHeaderLen)
	if errors.Is(err, errLineTooLong) {
		return 0, fmt.Errorf("%w: header exceeds %d bytes", ErrBadLength, MaxHeaderLen)
	}
	if err != nil {
		return 0, err
	}
	if len(line) == 2 && line[0] == '-' && line[1] == '1' {
		return -1, nil
	}
	if len(line) == 0 {
		return 0, fmt.Errorf("%w: empty length", ErrBadLength)
	}

	n := 0
	for _, c := range line {
		if c < '0' || c > '9' {
			return 0, fmt.Errorf("%w: %q is not a length", ErrBadLength, line)
		}
		n = n*10 + int(c-'0')
		if n > max {
			return 0, fmt.Errorf("%w: %q exceeds limit %d", ErrBadLength, line, max)
		}
	}
	return n, nil
}
