package mite

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/jwtly10/mite/site"
)

// ErrFrontMatterLiteral is returned when a `?>` inside front matter ends its code early.
var ErrFrontMatterLiteral = errors.New("front matter closes its code span early")

type Parser struct {
	gm goldmark.Markdown
}

func NewParser() *Parser {
	return &Parser{
		gm: goldmark.New(),
	}
}

// ParseMarkdownDoc compiles a markdown document into its body and front matter programs.
//
// A document without front matter is not an error, HasFrontMatter is false and the page
// keeps its default fields.
func (p *Parser) ParseMarkdownDoc(r io.Reader, md MetaData) (*Document, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	rendered, err := RenderMarkdown(content)
	if err != nil {
		return nil, err
	}

	doc := &Document{
		Metadata:       md,
		Name:           Identifier(md.Source),
		HasFrontMatter: rendered.HasFrontMatter,
	}

	doc.Body, err = Transpile(rendered.Body)
	if err != nil {
		return nil, fmt.Errorf("body: %w", err)
	}
	if rendered.HasFrontMatter {
		doc.FrontMatter, err = Transpile(rendered.FrontMatter)
		if err != nil {
			return nil, fmt.Errorf("front matter: %w", err)
		}
		for _, in := range doc.FrontMatter {
			if in.Kind == EmitLiteral {
				return nil, fmt.Errorf("front matter: line %d: %w", in.Line, ErrFrontMatterLiteral)
			}
		}
	}

	doc.Outline = p.outline(rendered.Headings)

	slog.Debug("parsed markdown document",
		"source", md.Source,
		"instructions", len(doc.Body),
		"front_matter", doc.HasFrontMatter,
		"headings", len(doc.Outline))
	return doc, nil
}

// outline reduces the rendered headings to plain text using the goldmark AST of each
// heading's inline markdown. Embedded code and raw markup are left out.
func (p *Parser) outline(raw []RawHeading) []site.Heading {
	var headings []site.Heading
	for _, h := range raw {
		root := p.gm.Parser().Parse(text.NewReader(h.Text))

		var buf bytes.Buffer
		collectText(&buf, root, h.Text)
		headings = append(headings, site.Heading{
			Level: h.Level,
			Text:  strings.TrimSpace(buf.String()),
		})
	}
	return headings
}

func collectText(buf *bytes.Buffer, n ast.Node, content []byte) {
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		switch node := child.(type) {
		case *ast.Text:
			buf.Write(node.Segment.Value(content))
			if node.SoftLineBreak() {
				buf.WriteByte(' ')
			}
		case *ast.String:
			buf.Write(node.Value)
		default:
			collectText(buf, child, content)
		}
	}
}
