package transformer

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/jwtly10/mite"
	"github.com/jwtly10/mite/internal/errors"
)

type TransformOptions struct {
	// If true, a page without front matter fails the build instead of logging a warning
	RequireFrontMatter bool
}

func (t *TransformOptions) Pretty() string {
	return fmt.Sprintf("require_front_matter=%s", boolToText(t.RequireFrontMatter))
}

func boolToText(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

type Transformer struct {
	parser *mite.Parser

	opts TransformOptions
}

// NewTransformer creates a new Transformer instance with the specified options [TransformOptions]
func NewTransformer(opts TransformOptions) *Transformer {
	return &Transformer{
		parser: mite.NewParser(),
		opts:   opts,
	}
}

type MarkdownSource struct {
	Content  io.Reader
	Metadata mite.MetaData
}

// Transform compiles one markdown page into a [mite.Document]
func (t *Transformer) Transform(input MarkdownSource) (*mite.Document, error) {
	slog.Debug("transforming document", "path", input.Metadata.Source)
	if input.Metadata.Source == "" {
		return nil, fmt.Errorf("source metadata is required for transformation")
	}
	if input.Metadata.Output == "" {
		input.Metadata.Output = mite.ResolveOutputPath(input.Metadata.Source)
	}

	doc, err := t.parser.ParseMarkdownDoc(input.Content, input.Metadata)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}

	if !doc.HasFrontMatter {
		if t.opts.RequireFrontMatter {
			return nil, errors.MissingFrontMatter(input.Metadata.Source)
		}
		slog.Warn("page has no front matter, using defaults", "path", input.Metadata.Source)
	}

	return doc, nil
}

// TransformTemplate compiles a layout or include file below root
func (t *Transformer) TransformTemplate(root string, tmpl *mite.Template) (mite.Program, error) {
	slog.Debug("transforming template", "name", tmpl.Name, "kind", tmpl.Kind, "path", tmpl.Path)
	prog, err := tmpl.Compile(root)
	if err != nil {
		return nil, fmt.Errorf("template error: %w", err)
	}
	return prog, nil
}
