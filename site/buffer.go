package site

import (
	"bytes"
	"fmt"
	"html"
	"strconv"
)

// Buffer collects the output of one page. The driver reuses a single Buffer for every
// page: Reset drops the contents but keeps the allocated storage.
type Buffer struct {
	bytes.Buffer
}

// Literal writes markup compiled from a template or document.
func (b *Buffer) Literal(s string) {
	b.WriteString(s)
}

func (b *Buffer) Int(n int) {
	b.WriteString(strconv.Itoa(n))
}

// Str writes v when it holds a value: nil and nil pointers write nothing.
func (b *Buffer) Str(v any) {
	switch s := v.(type) {
	case nil:
	case string:
		b.WriteString(s)
	case *string:
		if s != nil {
			b.WriteString(*s)
		}
	case []byte:
		b.Write(s)
	case fmt.Stringer:
		b.WriteString(s.String())
	default:
		fmt.Fprint(b, s)
	}
}

// Raw writes s without escaping.
func (b *Buffer) Raw(s string) {
	b.WriteString(s)
}

// Esc writes s with markup-significant characters escaped.
func (b *Buffer) Esc(s string) {
	b.WriteString(html.EscapeString(s))
}

// View writes a byte slice view.
func (b *Buffer) View(v []byte) {
	b.Write(v)
}
