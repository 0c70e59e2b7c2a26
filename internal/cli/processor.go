package cli

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/go-git/go-git/v5/plumbing/format/gitignore"

	"github.com/jwtly10/mite"
	"github.com/jwtly10/mite/internal/assembler"
	"github.com/jwtly10/mite/internal/config"
	"github.com/jwtly10/mite/internal/engine"
	"github.com/jwtly10/mite/internal/errors"
	"github.com/jwtly10/mite/internal/incremental"
	"github.com/jwtly10/mite/internal/transformer"
	"github.com/jwtly10/mite/site"
)

const (
	maxFiles   = 5000
	maxWorkers = 4

	pageExtension = ".md"
	indexPage     = "index.md"
)

// Options control one build of a site.
type Options struct {
	// Site root directory
	Root string
	// Path of the site configuration file, mite.yaml in the root when empty
	ConfigPath string
	// Skip the build when every page is newer than its sources
	Incremental bool
	// Write the generated program and stop before running it
	AssembleOnly bool
	// Retain the generated program next to the site
	Keep bool
	// Path of the retained program, overrides the configured one
	Generated string

	Transform transformer.TransformOptions
}

func (o Options) configPath() string {
	if o.ConfigPath != "" {
		return o.ConfigPath
	}
	return filepath.Join(o.Root, config.FileName)
}

type PageResult struct {
	Path    string
	OutPath string
}

type BuildResult struct {
	Pages     []PageResult
	Templates int
	// Skipped is set when an incremental build found nothing stale
	Skipped  bool
	Decision incremental.Decision
	// GeneratedPath is the retained program, empty when it was not written
	GeneratedPath string
	Duration      time.Duration
}

type ProcessResult struct {
	Path  string
	Doc   *mite.Document
	Error error
}

// Sources are the site inputs found below the root, relative to it, in discovery order.
type Sources struct {
	Pages     []string
	Templates []string
}

type Processor struct {
	transformer *transformer.Transformer
	opts        Options
	cfg         *config.Config
}

func NewProcessor(opts Options, cfg *config.Config) *Processor {
	if cfg == nil {
		cfg = config.Default()
	}
	return &Processor{
		transformer: transformer.NewTransformer(opts.Transform),
		opts:        opts,
		cfg:         cfg,
	}
}

// Build compiles every page and template below the root into one program and runs it,
// writing each page next to its source.
func (p *Processor) Build(ctx context.Context) (*BuildResult, error) {
	startTime := time.Now()
	root := p.opts.Root
	slog.Debug("starting build", "root", root, "options", p.opts.Transform.Pretty())

	for _, required := range []string{indexPage, mite.DefaultLayout + mite.TemplateExt} {
		if _, err := os.Stat(filepath.Join(root, required)); err != nil {
			return nil, errors.MissingInput(filepath.Join(root, required))
		}
	}

	sources, err := Discover(root)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryFileSystem, errors.SeverityFatal, "discovering sources failed").
			WithContext("root", root)
	}
	slog.Debug("found sources", "pages", len(sources.Pages), "templates", len(sources.Templates), "duration", time.Since(startTime))

	result := &BuildResult{Templates: len(sources.Templates)}

	if p.opts.Incremental {
		decision, err := p.staleness(sources)
		if err != nil {
			return nil, errors.ReadFailed(root, err)
		}
		result.Decision = decision
		if !decision.Rebuild {
			slog.Info("site is up to date, skipping build", "root", root)
			result.Skipped = true
			result.Duration = time.Since(startTime)
			return result, nil
		}
		slog.Debug("rebuilding site", "reason", decision.String())
	}

	reg := mite.NewRegistry(root)
	for _, path := range sources.Templates {
		t, err := reg.AddTemplate(path)
		if err != nil {
			return nil, errors.CompileFailed(path, err)
		}
		if _, err := p.transformer.TransformTemplate(root, t); err != nil {
			return nil, errors.CompileFailed(path, err)
		}
	}

	docs, err := p.compilePages(root, sources.Pages)
	if err != nil {
		return nil, err
	}
	for _, doc := range docs {
		doc.Layout = reg.DefaultLayoutFor(doc.Metadata.Source)
		reg.AddPage(doc)
		result.Pages = append(result.Pages, PageResult{Path: doc.Metadata.Source, OutPath: doc.Metadata.Output})
	}

	src, err := assembler.Assemble(reg)
	if err != nil {
		return nil, errors.InternalError("assembling program failed", err)
	}

	if p.opts.Keep || p.opts.AssembleOnly {
		generated := p.generatedPath()
		if err := os.WriteFile(generated, src, 0644); err != nil {
			return nil, errors.WriteFailed(generated, err)
		}
		result.GeneratedPath = generated
		slog.Debug("wrote generated program", "path", generated, "bytes", len(src))
	}
	if p.opts.AssembleOnly {
		result.Duration = time.Since(startTime)
		return result, nil
	}

	g := site.NewGlobal()
	g.Title = p.cfg.Title
	g.Description = p.cfg.Description
	g.URL = p.cfg.URL
	g.Favicon = p.cfg.Favicon

	if err := engine.Run(ctx, src, g, site.FileWriter{Root: root}); err != nil {
		var notFound *site.TemplateNotFoundError
		if stderrors.As(err, &notFound) {
			return nil, errors.TemplateNotFound(notFound.Name)
		}
		return nil, errors.ExecuteFailed(err)
	}

	result.Duration = time.Since(startTime)
	slog.Debug("build completed", "duration", result.Duration, "pages", len(result.Pages))
	return result, nil
}

func (p *Processor) generatedPath() string {
	generated := p.opts.Generated
	if generated == "" {
		generated = p.cfg.Generated
	}
	if filepath.IsAbs(generated) {
		return generated
	}
	return filepath.Join(p.opts.Root, generated)
}

func (p *Processor) staleness(sources *Sources) (incremental.Decision, error) {
	inputs := make([]incremental.Input, 0, len(sources.Pages))
	for _, page := range sources.Pages {
		inputs = append(inputs, incremental.Input{
			Source: filepath.Join(p.opts.Root, page),
			Output: filepath.Join(p.opts.Root, mite.ResolveOutputPath(page)),
		})
	}
	deps := make([]string, 0, len(sources.Templates)+1)
	for _, t := range sources.Templates {
		deps = append(deps, filepath.Join(p.opts.Root, t))
	}
	deps = append(deps, p.opts.configPath())
	return incremental.Check(inputs, deps)
}

// compilePages renders and transpiles every page on a worker pool. Documents come back
// in the order of paths.
func (p *Processor) compilePages(root string, paths []string) ([]*mite.Document, error) {
	type job struct {
		index int
		path  string
	}

	jobs := make(chan job, len(paths))
	results := make([]ProcessResult, len(paths))

	var wg sync.WaitGroup
	for i := 0; i < maxWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				results[j.index] = p.processFile(root, j.path)
			}
		}()
	}

	for i, path := range paths {
		jobs <- job{index: i, path: path}
	}
	close(jobs)
	wg.Wait()

	docs := make([]*mite.Document, 0, len(paths))
	var failed []ProcessResult
	for _, result := range results {
		if result.Error != nil {
			slog.Debug("failed to process file", "path", result.Path, "error", result.Error)
			failed = append(failed, result)
			continue
		}
		docs = append(docs, result.Doc)
	}

	if len(failed) > 0 {
		if len(failed) > 1 {
			slog.Error("encountered errors during compilation", "count", len(failed))
		}
		return nil, failed[0].Error
	}
	return docs, nil
}

func (p *Processor) processFile(root, path string) ProcessResult {
	startTime := time.Now()
	result := ProcessResult{Path: path}

	content, err := os.ReadFile(filepath.Join(root, path))
	if err != nil {
		result.Error = errors.ReadFailed(path, err)
		return result
	}

	src := transformer.MarkdownSource{
		Content: bytes.NewReader(content),
		Metadata: mite.MetaData{
			Source: path,
			Output: mite.ResolveOutputPath(path),
		},
	}

	doc, err := p.transformer.Transform(src)
	if err != nil {
		result.Error = errors.CompileFailed(path, err)
		return result
	}

	result.Doc = doc
	slog.Debug("file processed",
		"path", path,
		"duration", time.Since(startTime))
	return result
}

// Discover walks the directory tree starting at root and returns its pages and templates.
//
// Hidden directories are skipped. If a .git directory is found, it will be used to load
// .gitignore patterns. Each directory yields at most one page: index.md when present,
// otherwise the first markdown file by name.
func Discover(root string) (*Sources, error) {
	var patterns []gitignore.Pattern

	// If .git exists, set up gitignore patterns
	if _, err := os.Stat(filepath.Join(root, ".git")); err == nil {
		if data, err := os.ReadFile(filepath.Join(root, ".gitignore")); err == nil {
			for _, p := range strings.Split(string(data), "\n") {
				if p = strings.TrimSpace(p); p != "" && !strings.HasPrefix(p, "#") {
					patterns = append(patterns, gitignore.ParsePattern(p, nil))
				}
			}
		}
	}

	matcher := gitignore.NewMatcher(patterns)

	sources := &Sources{}
	pagesByDir := make(map[string][]string)
	var dirs []string
	count := 0

	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		relPath, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		if relPath == "." {
			return nil
		}

		if info.IsDir() && strings.HasPrefix(info.Name(), ".") {
			return filepath.SkipDir
		}

		pathComponents := strings.Split(relPath, string(os.PathSeparator))
		if len(patterns) > 0 && matcher.Match(pathComponents, info.IsDir()) {
			if info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if info.IsDir() {
			return nil
		}

		switch filepath.Ext(path) {
		case pageExtension:
			dir := filepath.Dir(relPath)
			if _, seen := pagesByDir[dir]; !seen {
				dirs = append(dirs, dir)
			}
			pagesByDir[dir] = append(pagesByDir[dir], relPath)
		case mite.TemplateExt:
			sources.Templates = append(sources.Templates, relPath)
		default:
			return nil
		}

		count++
		if count > maxFiles {
			return fmt.Errorf("max files limit reached (%d)", maxFiles)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, dir := range dirs {
		candidates := pagesByDir[dir]
		sort.Strings(candidates)
		page := candidates[0]
		for _, c := range candidates {
			if filepath.Base(c) == indexPage {
				page = c
			}
		}
		for _, c := range candidates {
			if c != page {
				slog.Warn("directory has more than one page, skipping", "path", c, "page", page)
			}
		}
		sources.Pages = append(sources.Pages, page)
	}

	return sources, nil
}
