package output

import (
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/yndnr/respkv/pkg/resp"
)

// Format represents the output format.
type Format string

const (
	FormatRaw  Format = "raw"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Formatter writes one reply frame.
type Formatter interface {
	Format(w io.Writer, f resp.Frame) error
}

// ParseFormat validates a format name. An empty name means raw.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case "", FormatRaw:
		return FormatRaw, nil
	case FormatJSON, FormatYAML:
		return Format(s), nil
	}
	return "", fmt.Errorf("unknown output format %q (want raw, json or yaml)", s)
}

// NewFormatter creates a formatter for the given format.
func NewFormatter(format Format) Formatter {
	switch format {
	case FormatJSON:
		return &JSONFormatter{}
	case FormatYAML:
		return &YAMLFormatter{}
	default:
		return &RawFormatter{}
	}
}

// Value converts a frame into plain Go values for structured encoders:
// Simple and Bulk become strings, Null becomes nil and Array becomes []any.
func Value(f resp.Frame) any {
	switch v := f.(type) {
	case resp.Simple:
		return string(v)
	case resp.Bulk:
		if utf8.Valid(v) {
			return string(v)
		}
		return fmt.Sprintf("%q", []byte(v))
	case resp.Array:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = Value(item)
		}
		return out
	default:
		return nil
	}
}
