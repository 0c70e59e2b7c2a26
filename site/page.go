// Package site is the runtime linked into every generated site program.
//
// A generated program receives a *Global, registers its templates, constructs its pages
// through the front matter code of each document, and renders every page through
// RenderPage. Embedded code in pages and templates talks to the types in this package.
package site

import "time"

// Heading is one entry of a page outline.
type Heading struct {
	Level int
	Text  string
}

// Page is one rendered document.
type Page struct {
	// Identifier-safe name derived from the input path
	Name        string
	Title       string
	Description string
	URL         string
	Date        string
	Tags        []string
	// Name of the layout template rendering this page
	Layout string

	InputPath  string
	OutputPath string

	// Time is Date parsed when the page is registered
	Time    time.Time
	Outline []Heading

	data map[string]string
}

// Set stores a value in the page data map, replacing any previous value.
func (p *Page) Set(key, value string) {
	if p.data == nil {
		p.data = make(map[string]string)
	}
	p.data[key] = value
}

// Get returns the value stored under key, or the empty string.
func (p *Page) Get(key string) string {
	return p.data[key]
}

func (p *Page) Has(key string) bool {
	_, ok := p.data[key]
	return ok
}

// Equals reports whether key is set to exactly value.
func (p *Page) Equals(key, value string) bool {
	v, ok := p.data[key]
	return ok && v == value
}

// HasTag reports whether the page carries the given tag.
func (p *Page) HasTag(tag string) bool {
	for _, t := range p.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Entry returns the collection entry describing the page.
func (p *Page) Entry() Entry {
	return Entry{
		Title:       p.Title,
		Description: p.Description,
		URL:         p.URL,
		Date:        p.Date,
		Time:        p.Time,
	}
}
