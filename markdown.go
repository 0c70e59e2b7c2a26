package mite

import (
	"bytes"
	"errors"
	"fmt"
	"path"
	"strings"
)

// ErrNullByte is returned when a markdown source contains a NUL byte.
var ErrNullByte = errors.New("markdown source contains a NUL byte")

// Rendered is the result of rendering one markdown document.
type Rendered struct {
	// Body is the markup produced from the document, embedded code spans untouched
	Body []byte
	// FrontMatter holds the leading metadata block wrapped in code delimiters
	FrontMatter []byte
	// HasFrontMatter reports whether the document started with a front matter block
	HasFrontMatter bool
	// Markdown is the document source after the front matter block
	Markdown []byte
	// Headings are the heading lines rendered into Body, in order
	Headings []RawHeading
}

// RawHeading is a rendered heading with its text as written, before inline rendering.
type RawHeading struct {
	Level int
	Text  []byte
}

type blockState uint8

const (
	blockNone blockState = iota
	blockParagraph
	blockList
)

var videoExtensions = map[string]bool{
	".mp4":  true,
	".webm": true,
}

type mdRenderer struct {
	src []byte
	pos int

	out bytes.Buffer
	fm  bytes.Buffer

	state     blockState
	hardBreak bool

	headings []RawHeading
}

// RenderMarkdown converts a markdown document into markup and a separate front matter stream.
//
// The document is processed line by line, the cursor never moves backwards. Embedded
// code spans (<? ... ?>) are passed through verbatim so they survive into the transpiler.
func RenderMarkdown(src []byte) (*Rendered, error) {
	if bytes.IndexByte(src, 0) >= 0 {
		return nil, ErrNullByte
	}
	src = bytes.ReplaceAll(src, []byte("\r\n"), []byte("\n"))

	r := &mdRenderer{src: src}
	had := r.frontMatter()
	bodyStart := r.pos

	for r.pos < len(r.src) {
		r.block()
	}
	r.closeBlocks()

	return &Rendered{
		Body:           r.out.Bytes(),
		FrontMatter:    r.fm.Bytes(),
		HasFrontMatter: had,
		Markdown:       src[bodyStart:],
		Headings:       r.headings,
	}, nil
}

// lineAt returns the line starting at p (without its newline) and the offset of the next line.
func lineAt(src []byte, p int) ([]byte, int) {
	rest := src[p:]
	i := bytes.IndexByte(rest, '\n')
	if i < 0 {
		return rest, len(src)
	}
	return rest[:i], p + i + 1
}

func (r *mdRenderer) nextLine() []byte {
	line, next := lineAt(r.src, r.pos)
	r.pos = next
	return line
}

// logicalLine is nextLine extended to the end of the line holding the `?>` of every code
// span that opens on it. A span left open is not extended.
func (r *mdRenderer) logicalLine() []byte {
	start := r.pos
	line, next := lineAt(r.src, start)
	lineEnd := start + len(line)

	for scan := start; ; {
		open := bytes.Index(r.src[scan:lineEnd], codeOpen)
		if open < 0 {
			break
		}
		body := scan + open + len(codeOpen)
		end := bytes.Index(r.src[body:], codeClose)
		if end < 0 {
			break
		}
		scan = body + end + len(codeClose)
		if scan > lineEnd {
			rest, after := lineAt(r.src, scan)
			lineEnd = scan + len(rest)
			next = after
		}
	}

	r.pos = next
	return r.src[start:lineEnd]
}

// frontMatter extracts a leading `---` block, or a leading ```mite fence, into the
// front matter stream. An unclosed block is left in place for the block renderer.
func (r *mdRenderer) frontMatter() bool {
	first, start := lineAt(r.src, 0)
	if start == len(r.src) && !bytes.HasSuffix(r.src, []byte("\n")) {
		return false
	}

	var closer string
	switch string(bytes.TrimRight(first, " \t")) {
	case "---":
		closer = "---"
	case "```mite":
		closer = "```"
	default:
		return false
	}

	for p := start; p < len(r.src); {
		line, next := lineAt(r.src, p)
		if string(bytes.TrimRight(line, " \t")) == closer {
			r.fm.WriteString("<?\n")
			r.fm.Write(r.src[start:p])
			r.fm.WriteString("?>\n")
			r.pos = next
			return true
		}
		p = next
	}
	return false
}

func (r *mdRenderer) block() {
	line := bytes.TrimLeft(r.logicalLine(), " \t")

	switch {
	case len(bytes.TrimSpace(line)) == 0:
		r.closeBlocks()
	case bytes.HasPrefix(line, []byte("```")):
		r.closeBlocks()
		r.fence()
	case bytes.HasPrefix(line, []byte("---")):
		r.closeBlocks()
		r.out.WriteString("<hr>\n")
	case line[0] == '#':
		r.closeBlocks()
		r.heading(line)
	case bytes.HasPrefix(line, []byte("- [ ] ")):
		r.listItem(line[6:], `<input type="checkbox" disabled>`)
	case bytes.HasPrefix(line, []byte("- [x] ")):
		r.listItem(line[6:], `<input type="checkbox" checked disabled>`)
	case bytes.HasPrefix(line, []byte("- ")), bytes.HasPrefix(line, []byte("* ")):
		r.listItem(line[2:], "")
	case bytes.HasPrefix(line, []byte("> ")):
		r.closeBlocks()
		r.out.WriteString("<blockquote>")
		r.inline(bytes.TrimRight(line[2:], " \t"))
		r.out.WriteString("</blockquote>\n")
	case bytes.HasPrefix(line, []byte("![")) && r.figure(line):
	case bytes.HasPrefix(line, []byte("<?")):
		if !r.codeBlock(line) {
			r.paragraph(line)
		}
	case line[0] == '<':
		r.closeBlocks()
		r.rawMarkup(line)
	default:
		r.paragraph(line)
	}
}

func (r *mdRenderer) closeBlocks() {
	switch r.state {
	case blockParagraph:
		r.out.WriteString("</p>\n")
	case blockList:
		r.out.WriteString("</ul>\n")
	}
	r.state = blockNone
	r.hardBreak = false
}

// fence copies everything up to the closing fence, escaped. The rest of the opening
// line (the language tag) has already been consumed.
func (r *mdRenderer) fence() {
	r.out.WriteString("<pre><code>")
	for r.pos < len(r.src) {
		line := r.nextLine()
		if bytes.HasPrefix(bytes.TrimLeft(line, " \t"), []byte("```")) {
			break
		}
		escapeHTML(&r.out, line)
		r.out.WriteByte('\n')
	}
	r.out.WriteString("</code></pre>\n")
}

func (r *mdRenderer) heading(line []byte) {
	level := 0
	for level < len(line) && line[level] == '#' {
		level++
	}
	text := bytes.TrimSpace(line[level:])
	r.headings = append(r.headings, RawHeading{Level: level, Text: text})

	fmt.Fprintf(&r.out, "<h%d>", level)
	r.inline(text)
	fmt.Fprintf(&r.out, "</h%d>\n", level)
}

func (r *mdRenderer) listItem(body []byte, prefix string) {
	if r.state == blockList {
		r.out.WriteString("\n<li>")
	} else {
		r.closeBlocks()
		r.out.WriteString("<ul><li>")
		r.state = blockList
	}
	r.out.WriteString(prefix)
	r.inline(bytes.TrimRight(body, " \t"))
	r.out.WriteString("</li>")
}

func (r *mdRenderer) paragraph(line []byte) {
	hard := bytes.HasSuffix(line, []byte("  "))
	text := bytes.TrimRight(line, " \t")

	if r.state == blockParagraph {
		if r.hardBreak {
			r.out.WriteString("<br>\n")
		} else {
			r.out.WriteByte('\n')
		}
	} else {
		r.closeBlocks()
		r.out.WriteString("<p>")
		r.state = blockParagraph
	}
	r.inline(text)
	r.hardBreak = hard
}

// figure renders a line consisting of a single ![alt](url) as a figure block.
func (r *mdRenderer) figure(line []byte) bool {
	line = bytes.TrimRight(line, " \t")
	altEnd := findCloser(line, 2, "](", false)
	if altEnd < 0 || line[len(line)-1] != ')' {
		return false
	}
	urlEnd := findCloser(line, altEnd+2, ")", false)
	if urlEnd != len(line)-1 {
		return false
	}
	alt := line[2:altEnd]
	url := line[altEnd+2 : urlEnd]

	r.closeBlocks()
	r.out.WriteString("<figure>")
	if videoExtensions[mediaExt(string(url))] {
		r.out.WriteString(`<video controls src="`)
		r.out.Write(url)
		r.out.WriteString(`"></video>`)
	} else {
		r.out.WriteString(`<img loading="lazy" src="`)
		r.out.Write(url)
		r.out.WriteString(`" alt="`)
		escapeHTML(&r.out, alt)
		r.out.WriteString(`">`)
	}
	if len(alt) > 0 {
		r.out.WriteString("<figcaption>")
		r.inline(alt)
		r.out.WriteString("</figcaption>")
	}
	r.out.WriteString("</figure>\n")
	return true
}

func mediaExt(url string) string {
	if i := strings.IndexAny(url, "?#"); i >= 0 {
		url = url[:i]
	}
	return strings.ToLower(path.Ext(url))
}

// codeBlock passes a code span that starts a line through verbatim. The span may cover
// several lines. Markup or code following the closing delimiter is copied verbatim too,
// anything else is inline parsed.
func (r *mdRenderer) codeBlock(line []byte) bool {
	end := bytes.Index(line[len(codeOpen):], codeClose)
	if end < 0 {
		return false
	}
	end += len(codeOpen) + len(codeClose)

	r.closeBlocks()
	r.out.Write(line[:end])
	rest := bytes.TrimRight(line[end:], " \t")
	if bytes.HasPrefix(bytes.TrimLeft(rest, " \t"), []byte("<")) {
		r.out.Write(rest)
	} else {
		r.inline(rest)
	}
	r.out.WriteByte('\n')
	return true
}

// rawMarkup copies a markup line verbatim up to the closing tag of its first element and
// inline parses the remainder. Without a closing tag the whole line is copied.
func (r *mdRenderer) rawMarkup(line []byte) {
	line = bytes.TrimRight(line, " \t")
	name := tagName(line)
	if name == "" {
		r.out.Write(line)
		r.out.WriteByte('\n')
		return
	}

	closing := bytes.Index(line, []byte("</"+name))
	if closing < 0 {
		r.out.Write(line)
		r.out.WriteByte('\n')
		return
	}
	gt := bytes.IndexByte(line[closing:], '>')
	if gt < 0 {
		r.out.Write(line)
		r.out.WriteByte('\n')
		return
	}
	end := closing + gt + 1
	r.out.Write(line[:end])
	r.inline(line[end:])
	r.out.WriteByte('\n')
}

func tagName(line []byte) string {
	i := 1
	for i < len(line) && (isAlnum(line[i]) || line[i] == '-') {
		i++
	}
	return string(line[1:i])
}

func (r *mdRenderer) inline(s []byte) {
	renderInline(&r.out, s)
}

// escapeHTML writes s with the five markup-significant characters replaced by entities.
func escapeHTML(out *bytes.Buffer, s []byte) {
	for _, c := range s {
		switch c {
		case '<':
			out.WriteString("&lt;")
		case '>':
			out.WriteString("&gt;")
		case '&':
			out.WriteString("&amp;")
		case '\'':
			out.WriteString("&#39;")
		case '"':
			out.WriteString("&quot;")
		default:
			out.WriteByte(c)
		}
	}
}
