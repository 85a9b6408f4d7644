package resp

import "bytes"

// Frame is one decoded protocol unit: Simple, Bulk, Array or Null.
type Frame interface {
	frame()
}

// Simple is a simple string. It must not contain CR or LF.
type Simple string

// Bulk is a binary-safe bulk string. A nil Bulk encodes as an empty bulk
// string, not as Null.
type Bulk []byte

// Array is an ordered sequence of frames.
type Array []Frame

// Null is the absent value.
type Null struct{}

func (Simple) frame() {}
func (Bulk) frame()   {}
func (Array) frame()  {}
func (Null) frame()   {}

// StringArray builds an Array of bulk strings, the shape of every request.
func StringArray(args ...string) Array {
	out := make(Array, len(args))
	for i, a := range args {
		out[i] = Bulk(a)
	}
	return out
}

// Equal reports whether two frames are structurally equal. A nil and an
// empty Bulk or Array compare equal; a nil Frame equals Null.
func Equal(a, b Frame) bool {
	if a == nil {
		a = Null{}
	}
	if b == nil {
		b = Null{}
	}
	switch x := a.(type) {
	case Simple:
		y, ok := b.(Simple)
		return ok && x == y
	case Bulk:
		y, ok := b.(Bulk)
		return ok && bytes.Equal(x, y)
	case Null:
		_, ok := b.(Null)
		return ok
	case Array:
		y, ok := b.(Array)
		if !ok || len(x) != len(y) {
			return false
		}
		for i := range x {
			if !Equal(x[i], y[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
