package output

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/yndnr/respkv/pkg/resp"
)

// RawFormatter prints replies the way redis-cli does.
type RawFormatter struct{}

// Format writes f followed by a newline.
func (f *RawFormatter) Format(w io.Writer, frame resp.Frame) error {
	var b strings.Builder
	writeRaw(&b, frame, "")
	b.WriteByte('\n')
	_, err := io.WriteString(w, b.String())
	return err
}

func writeRaw(b *strings.Builder, frame resp.Frame, indent string) {
	switch v := frame.(type) {
	case resp.Simple:
		b.WriteString(string(v))
	case resp.Bulk:
		b.WriteString(strconv.Quote(string(v)))
	case resp.Array:
		if len(v) == 0 {
			b.WriteString("(empty array)")
			return
		}
		width := len(strconv.Itoa(len(v)))
		for i, item := range v {
			if i > 0 {
				b.WriteByte('\n')
				b.WriteString(indent)
			}
			prefix := fmt.Sprintf("%*d) ", width, i+1)
			b.WriteString(prefix)
			writeRaw(b, item, indent+strings.Repeat(" ", len(prefix)))
		}
	default:
		b.WriteString("(nil)")
	}
}
