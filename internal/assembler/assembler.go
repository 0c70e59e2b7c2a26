// Package assembler links compiled pages, layouts and includes into one Go program.
//
// The generated program has the shape
//
//	func Init(site *mite.Global)                                   // builds every page from its front matter
//	func template_<name>(out, page, rc)                            // one per layout or include
//	func content_<page>(out, page, rc)                             // one per page body
//	func Main(site *mite.Global, w mite.Writer) error              // registers templates and renders pages
//
// where mite is the runtime package github.com/jwtly10/mite/site.
package assembler

import (
	"bytes"
	"fmt"
	"go/format"
	"log/slog"
	"strconv"

	"github.com/jwtly10/mite"
	"github.com/jwtly10/mite/site"
)

const (
	// RuntimeImport is the import path of the runtime package used by generated programs
	RuntimeImport = "github.com/jwtly10/mite/site"
	// PackageName is the package clause of generated programs
	PackageName = "site"
	// EntryPoint is the function the engine calls to run a generated program
	EntryPoint = "Main"
)

// stdImports are available to embedded code without an import of its own.
var stdImports = []struct {
	path string
	use  string
}{
	{"fmt", "fmt.Sprint"},
	{"strconv", "strconv.Itoa"},
	{"strings", "strings.TrimSpace"},
	{"time", "time.Now"},
}

const prologue = `	site := rc.Site
	INT := func(n int) { out.Int(n) }
	STR := func(v any) { out.Str(v) }
	RAW := func(s string) { out.Raw(s) }
	ESC := func(s string) { out.Esc(s) }
	SV := func(b []byte) { out.View(b) }
	CONTENT := func() { rc.Content(out, page) }
	INCLUDE := func(name string) { rc.Include(out, page, name) }
	_, _, _, _, _, _, _, _ = site, INT, STR, RAW, ESC, SV, CONTENT, INCLUDE
`

type Assembler struct {
	reg *mite.Registry

	buf       bytes.Buffer
	used      map[string]bool
	contents  map[*mite.Document]string
	templates map[*mite.Template]string
}

func New(reg *mite.Registry) *Assembler {
	return &Assembler{
		reg:       reg,
		used:      make(map[string]bool),
		contents:  make(map[*mite.Document]string),
		templates: make(map[*mite.Template]string),
	}
}

// Assemble generates the program for the registry. Every template is compiled on the
// way; a template that cannot be read fails the whole assembly.
func Assemble(reg *mite.Registry) ([]byte, error) {
	return New(reg).Assemble()
}

func (a *Assembler) Assemble() ([]byte, error) {
	a.buf.Reset()

	for _, t := range a.reg.Templates {
		a.templates[t] = a.ident("template_" + mite.Identifier(t.Name))
	}
	for _, doc := range a.reg.Pages {
		a.contents[doc] = a.ident("content_" + doc.Name)
	}

	a.header()
	a.init()

	for _, t := range a.reg.Templates {
		prog, err := t.Compile(a.reg.Root)
		if err != nil {
			return nil, err
		}
		a.routine(a.templates[t], t.Path, prog)
	}
	for _, doc := range a.reg.Pages {
		a.routine(a.contents[doc], doc.Metadata.Source, doc.Body)
	}

	a.main()

	src := a.buf.Bytes()
	formatted, err := format.Source(src)
	if err != nil {
		// Embedded code is opaque, a syntax error there surfaces when the program runs.
		slog.Debug("generated program is not gofmt-able", "error", err)
		return append([]byte(nil), src...), nil
	}
	return formatted, nil
}

// ident returns a unique Go identifier with the given base.
func (a *Assembler) ident(base string) string {
	name := base
	for n := 2; a.used[name]; n++ {
		name = base + "_" + strconv.Itoa(n)
	}
	a.used[name] = true
	return name
}

func (a *Assembler) printf(format string, args ...any) {
	fmt.Fprintf(&a.buf, format, args...)
}

func (a *Assembler) header() {
	a.printf("// Code generated by mite. DO NOT EDIT.\n\n")
	a.printf("package %s\n\n", PackageName)
	a.printf("import (\n")
	for _, imp := range stdImports {
		a.printf("\t%q\n", imp.path)
	}
	a.printf("\n\tmite %q\n)\n\n", RuntimeImport)
	a.printf("var (\n")
	for _, imp := range stdImports {
		a.printf("\t_ = %s\n", imp.use)
	}
	a.printf(")\n\n")
}

// init emits the global state constructor: every page is built, its front matter runs
// against it, then it is registered.
func (a *Assembler) init() {
	a.printf("func Init(site *mite.Global) {\n")
	for _, doc := range a.reg.Pages {
		a.printf("\t{\n")
		a.printf("\t\tpage := &mite.Page{\n")
		a.printf("\t\t\tName: %q,\n", doc.Name)
		a.printf("\t\t\tTitle: %q,\n", doc.Name)
		a.printf("\t\t\tLayout: %q,\n", doc.Layout)
		a.printf("\t\t\tURL: %q,\n", mite.PageURL(doc.Metadata.Output))
		a.printf("\t\t\tInputPath: %q,\n", doc.Metadata.Source)
		a.printf("\t\t\tOutputPath: %q,\n", doc.Metadata.Output)
		if len(doc.Outline) > 0 {
			a.printf("\t\t\tOutline: []mite.Heading{\n")
			for _, h := range doc.Outline {
				a.printf("\t\t\t\t{Level: %d, Text: %q},\n", h.Level, h.Text)
			}
			a.printf("\t\t\t},\n")
		}
		a.printf("\t\t}\n")
		for _, in := range doc.FrontMatter {
			if in.Kind != mite.ExecuteCode {
				slog.Debug("ignoring literal in front matter", "page", doc.Metadata.Source, "line", in.Line)
				continue
			}
			a.code(doc.Metadata.Source, in)
		}
		a.printf("\t\tsite.AddPage(page)\n")
		a.printf("\t}\n")
	}
	a.printf("}\n\n")
}

func (a *Assembler) routine(name, source string, prog mite.Program) {
	a.printf("func %s(out *mite.Buffer, page *mite.Page, rc *mite.RenderContext) {\n", name)
	a.printf("%s\n", prologue)
	for _, in := range prog {
		switch in.Kind {
		case mite.EmitLiteral:
			a.printf("\tout.Literal(%s)\n", strconv.Quote(string(in.Literal)))
		case mite.ExecuteCode:
			a.code(source, in)
		}
	}
	a.printf("}\n\n")
}

func (a *Assembler) code(source string, in mite.Instruction) {
	a.printf("\t// %s:%d\n", source, in.Line)
	a.printf("%s\n", in.Code)
}

func (a *Assembler) main() {
	a.printf("func %s(site *mite.Global, w mite.Writer) error {\n", EntryPoint)
	for _, t := range a.reg.Templates {
		a.printf("\tsite.Register(%q, mite.%s, %s)\n", t.Name, kindConst(t.Kind), a.templates[t])
	}
	a.printf("\tInit(site)\n\n")
	a.printf("\tout := &mite.Buffer{}\n")
	for _, doc := range a.reg.Pages {
		a.printf("\tif err := site.RenderInput(out, %q, %s, w); err != nil {\n", doc.Metadata.Source, a.contents[doc])
		a.printf("\t\treturn err\n")
		a.printf("\t}\n")
	}
	a.printf("\treturn nil\n")
	a.printf("}\n")
}

func kindConst(k site.TemplateKind) string {
	if k == site.Include {
		return "Include"
	}
	return "Layout"
}
