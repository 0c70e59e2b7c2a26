package mite

import (
	"bytes"
)

type emphasis struct {
	open, close string
	before      string
	after       string
}

// Ordered by priority: the triple forms must be tried before bold, bold before italic.
var emphases = []emphasis{
	{open: "***", close: "***", before: "<strong><i>", after: "</i></strong>"},
	{open: "**_", close: "_**", before: "<strong><i>", after: "</i></strong>"},
	{open: "_**", close: "**_", before: "<strong><i>", after: "</i></strong>"},
	{open: "**", close: "**", before: "<strong>", after: "</strong>"},
	{open: "*", close: "*", before: "<i>", after: "</i>"},
	{open: "_", close: "_", before: "<i>", after: "</i>"},
}

// renderInline renders the inline markdown of a single line.
func renderInline(out *bytes.Buffer, s []byte) {
	for i := 0; i < len(s); {
		if n := inlineSpan(out, s, i); n > 0 {
			i += n
			continue
		}

		// An unmatched marker run is emitted as is, so `***` never half matches.
		if c := s[i]; c == '*' || c == '_' {
			j := i
			for j < len(s) && s[j] == c {
				j++
			}
			out.Write(s[i:j])
			i = j
			continue
		}

		escapeHTML(out, s[i:i+1])
		i++
	}
}

// inlineSpan renders the construct starting at s[i] and returns how many bytes it
// consumed, or zero when nothing matched.
func inlineSpan(out *bytes.Buffer, s []byte, i int) int {
	rest := s[i:]
	switch {
	case bytes.HasPrefix(rest, []byte("<?")):
		end := bytes.Index(rest[2:], []byte("?>"))
		if end < 0 {
			return 0
		}
		out.Write(rest[:end+4])
		return end + 4

	case bytes.HasPrefix(rest, []byte(`\(`)):
		end := bytes.Index(rest[2:], []byte(`\)`))
		if end < 0 {
			return 0
		}
		out.Write(rest[:end+4])
		return end + 4

	case rest[0] == '*' || rest[0] == '_':
		for _, e := range emphases {
			if n := emphasisSpan(out, s, i, e); n > 0 {
				return n
			}
		}
		return 0

	case rest[0] == '`':
		end := findCloser(s, i+1, "`", false)
		if end < 0 {
			return 0
		}
		out.WriteString("<code>")
		escapeHTML(out, s[i+1:end])
		out.WriteString("</code>")
		return end + 1 - i

	case rest[0] == '[':
		textEnd := findCloser(s, i+1, "](", false)
		if textEnd < 0 {
			return 0
		}
		urlEnd := findCloser(s, textEnd+2, ")", false)
		if urlEnd < 0 {
			return 0
		}
		out.WriteString(`<a href="`)
		out.Write(s[textEnd+2 : urlEnd])
		out.WriteString(`">`)
		renderInline(out, s[i+1:textEnd])
		out.WriteString("</a>")
		return urlEnd + 1 - i
	}
	return 0
}

func emphasisSpan(out *bytes.Buffer, s []byte, i int, e emphasis) int {
	if !bytes.HasPrefix(s[i:], []byte(e.open)) {
		return 0
	}
	start := i + len(e.open)
	if start >= len(s) || isSpace(s[start]) {
		return 0
	}
	if e.open == "_" && i > 0 && isAlnum(s[i-1]) {
		return 0
	}

	end := findCloser(s, start, e.close, true)
	if end < 0 {
		return 0
	}
	if e.close == "_" && end+1 < len(s) && isAlnum(s[end+1]) {
		return 0
	}

	out.WriteString(e.before)
	renderInline(out, s[start:end])
	out.WriteString(e.after)
	return end + len(e.close) - i
}

// findCloser returns the index of the first marker at or after from, skipping embedded
// code spans. With wsRule set a marker preceded by whitespace is not a closer.
func findCloser(s []byte, from int, marker string, wsRule bool) int {
	for j := from; j < len(s); j++ {
		if bytes.HasPrefix(s[j:], []byte("<?")) {
			if end := bytes.Index(s[j+2:], []byte("?>")); end >= 0 {
				j += end + 3
				continue
			}
		}
		if !bytes.HasPrefix(s[j:], []byte(marker)) {
			continue
		}
		if j == from && wsRule {
			continue
		}
		if wsRule && isSpace(s[j-1]) {
			continue
		}
		return j
	}
	return -1
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n'
}

func isAlnum(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}
