package resp

import "strconv"

// Append appends the wire encoding of f to dst and returns the extended
// slice. A nil Frame encodes as Null.
func Append(dst []byte, f Frame) []byte {
	switch f := f.(type) {
	case Simple:
		dst = append(dst, '+')
		dst = append(dst, f...)
		return append(dst, crlf...)
	case Bulk:
		dst = append(dst, '$')
		dst = strconv.AppendInt(dst, int64(len(f)), 10)
		dst = append(dst, crlf...)
		dst = append(dst, f...)
		return append(dst, crlf...)
	case Array:
		dst = append(dst, '*')
		dst = strconv.AppendInt(dst, int64(len(f)), 10)
		dst = append(dst, crlf...)
		for _, item := range f {
			dst = Append(dst, item)
		}
		return dst
	default:
		return append(dst, "$-1\r\n"...)
	}
}

// Serialize returns the wire encoding of f.
func Serialize(f Frame) []byte {
	return Append(nil, f)
}
