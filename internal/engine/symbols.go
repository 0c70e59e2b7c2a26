package engine

import (
	"reflect"

	"github.com/traefik/yaegi/interp"

	"github.com/jwtly10/mite/site"
)

// Symbols exposes the runtime package to generated programs.
var Symbols = interp.Exports{
	"github.com/jwtly10/mite/site/site": {
		// functions
		"NewGlobal": reflect.ValueOf(site.NewGlobal),
		"ParseDate": reflect.ValueOf(site.ParseDate),
		"SortPages": reflect.ValueOf(site.SortPages),

		// constants
		"Layout":  reflect.ValueOf(site.Layout),
		"Include": reflect.ValueOf(site.Include),

		// types
		"Buffer":                reflect.ValueOf((*site.Buffer)(nil)),
		"Collection":            reflect.ValueOf((*site.Collection)(nil)),
		"Entry":                 reflect.ValueOf((*site.Entry)(nil)),
		"FileWriter":            reflect.ValueOf((*site.FileWriter)(nil)),
		"Global":                reflect.ValueOf((*site.Global)(nil)),
		"Heading":               reflect.ValueOf((*site.Heading)(nil)),
		"MemoryWriter":          reflect.ValueOf((*site.MemoryWriter)(nil)),
		"Page":                  reflect.ValueOf((*site.Page)(nil)),
		"RenderContext":         reflect.ValueOf((*site.RenderContext)(nil)),
		"RenderFunc":            reflect.ValueOf((*site.RenderFunc)(nil)),
		"Template":              reflect.ValueOf((*site.Template)(nil)),
		"TemplateKind":          reflect.ValueOf((*site.TemplateKind)(nil)),
		"TemplateKindError":     reflect.ValueOf((*site.TemplateKindError)(nil)),
		"TemplateNotFoundError": reflect.ValueOf((*site.TemplateNotFoundError)(nil)),
		"Writer":                reflect.ValueOf((*site.Writer)(nil)),
	},
}
