package mite

import (
	"bytes"
	"errors"
	"fmt"
	"io"
)

// ErrUnterminatedCode is returned when a `<?` has no matching `?>`.
var ErrUnterminatedCode = errors.New("unterminated code span")

var (
	codeOpen  = []byte("<?")
	codeClose = []byte("?>")
)

// Kind tells the two instruction kinds apart.
type Kind uint8

const (
	// EmitLiteral writes its bytes to the output verbatim
	EmitLiteral Kind = iota
	// ExecuteCode runs an embedded code payload
	ExecuteCode
)

func (k Kind) String() string {
	switch k {
	case EmitLiteral:
		return "emit"
	case ExecuteCode:
		return "exec"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// Code is an opaque host-language statement list lifted out of a `<? ... ?>` span.
// The compiler never looks inside it.
type Code string

type Instruction struct {
	Kind    Kind
	Literal []byte
	Code    Code
	// 1-based line of the source the instruction starts on
	Line int
}

// Program is the compiled form of a markup file with embedded code.
type Program []Instruction

// Replay writes every literal of the program in order, ignoring code.
func (p Program) Replay(w io.Writer) error {
	for _, in := range p {
		if in.Kind != EmitLiteral {
			continue
		}
		if _, err := w.Write(in.Literal); err != nil {
			return err
		}
	}
	return nil
}

// HasCode reports whether the program contains at least one code instruction.
func (p Program) HasCode() bool {
	for _, in := range p {
		if in.Kind == ExecuteCode {
			return true
		}
	}
	return false
}

// Transpile splits markup into literal and code instructions.
//
// Code spans are trimmed of surrounding whitespace. A code span that sits on a line of its
// own takes the line with it: the indentation before `<?` and the newline after `?>` are
// not emitted. A literal between a code span and the next one (or the end of input) that
// is nothing but the end of the line is dropped as well. Empty literals are dropped, so a
// file without code spans round-trips exactly.
func Transpile(src []byte) (Program, error) {
	var prog Program
	line := 1
	lineClean := true // only whitespace and code spans since the last newline
	ownsLine := false // the previous code span opened on a clean line
	afterCode := false

	for len(src) > 0 {
		open := bytes.Index(src, codeOpen)
		lit := src
		if open >= 0 {
			lit = src[:open]
		}
		litLine := line
		line += bytes.Count(lit, []byte("\n"))

		if ownsLine {
			if tail, ok := restOfLine(lit); ok {
				lit = tail
				litLine++
			}
		}
		lineClean = cleanAfter(lit, lineClean)
		if open >= 0 && lineClean {
			lit = bytes.TrimRight(lit, " \t")
		}
		if afterCode && lineEnd(lit) {
			lit = nil
		}

		if len(lit) > 0 {
			prog = append(prog, Instruction{Kind: EmitLiteral, Literal: lit, Line: litLine})
		}
		if open < 0 {
			break
		}

		body := src[open+len(codeOpen):]
		end := bytes.Index(body, codeClose)
		if end < 0 {
			return nil, fmt.Errorf("line %d: %w", line, ErrUnterminatedCode)
		}
		if code := bytes.TrimSpace(body[:end]); len(code) > 0 {
			prog = append(prog, Instruction{Kind: ExecuteCode, Code: Code(code), Line: line})
		}
		line += bytes.Count(body[:end], []byte("\n"))

		ownsLine = lineClean
		afterCode = true
		src = body[end+len(codeClose):]
	}

	return prog, nil
}

// restOfLine drops horizontal whitespace and one newline from the front of lit when
// nothing else precedes the newline.
func restOfLine(lit []byte) ([]byte, bool) {
	for i, c := range lit {
		switch c {
		case ' ', '\t':
			continue
		case '\n':
			return lit[i+1:], true
		}
		return lit, false
	}
	return lit, false
}

// lineEnd reports whether lit is horizontal whitespace followed by a single newline.
func lineEnd(lit []byte) bool {
	return bytes.Equal(bytes.TrimLeft(lit, " \t"), []byte("\n"))
}

// cleanAfter reports whether the line is still free of literal text after lit.
func cleanAfter(lit []byte, clean bool) bool {
	if i := bytes.LastIndexByte(lit, '\n'); i >= 0 {
		clean = true
		lit = lit[i+1:]
	}
	return clean && len(bytes.Trim(lit, " \t")) == 0
}
