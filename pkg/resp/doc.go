// Package resp implements the RESP2 frame codec used by respkv.
//
// The codec is pure: it never performs I/O and never mutates the buffers it
// is given. Four frame types are supported:
//
//   - Simple: "+OK\r\n"
//   - Bulk:   "$5\r\nhello\r\n"
//   - Array:  "*2\r\n$3\r\nGET\r\n$1\r\nk\r\n"
//   - Null:   "$-1\r\n" (and "*-1\r\n" on input)
//
// Parse works on whatever bytes have arrived so far. When the buffer holds
// only part of a frame it returns ErrIncomplete and consumes nothing, so a
// connection can append more bytes and try again:
//
//	f, n, err := resp.Parse(buf)
//	switch {
//	case errors.Is(err, resp.ErrIncomplete):
//		// read more
//	case err != nil:
//		// malformed input, close the connection
//	default:
//		buf = buf[n:]
//	}
package resp
