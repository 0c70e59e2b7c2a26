package mite

import (
	"github.com/jwtly10/mite/site"
)

// Document represents a compiled markdown page, its front matter program,
// and any other required metadata about the source file
type Document struct {
	// Metadata about the source file
	Metadata MetaData
	// Identifier-safe name derived from the source path
	Name string
	// Layout used when the front matter does not select one
	Layout string
	// The compiled markdown body
	Body Program
	// The compiled front matter, empty when the document has none
	FrontMatter    Program
	HasFrontMatter bool
	// Headings of the document, in order
	Outline []site.Heading
}

type MetaData struct {
	// The source file path, relative to the site root
	Source string
	// The generated page path, relative to the site root
	Output string
}
