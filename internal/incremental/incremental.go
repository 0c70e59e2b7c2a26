// Package incremental decides whether a build can be skipped because every generated
// page is newer than everything it was built from.
package incremental

import (
	"fmt"
	"log/slog"
	"os"
	"time"
)

// Input is one page source and the page it generates.
type Input struct {
	Source string
	Output string
}

// Decision is the outcome of a staleness check. Path names the file that triggered
// the rebuild, if any.
type Decision struct {
	Rebuild bool
	Reason  string
	Path    string
}

func (d Decision) String() string {
	if !d.Rebuild {
		return "up to date"
	}
	if d.Path == "" {
		return d.Reason
	}
	return fmt.Sprintf("%s: %s", d.Reason, d.Path)
}

const (
	ReasonNoPages       = "no pages"
	ReasonOutputMissing = "output missing"
	ReasonSourceNewer   = "source newer than output"
	ReasonTemplateNewer = "template newer than output"
)

// Check compares modification times. Dependencies holds every file shared by all pages
// (templates and the site configuration); missing dependencies are ignored. The first
// stale page decides.
func Check(pages []Input, dependencies []string) (Decision, error) {
	if len(pages) == 0 {
		return Decision{Rebuild: true, Reason: ReasonNoPages}, nil
	}

	var newest time.Time
	var newestPath string
	for _, path := range dependencies {
		info, err := os.Stat(path)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return Decision{}, fmt.Errorf("stat %s: %w", path, err)
		}
		if info.ModTime().After(newest) {
			newest = info.ModTime()
			newestPath = path
		}
	}

	for _, page := range pages {
		out, err := os.Stat(page.Output)
		if os.IsNotExist(err) {
			return Decision{Rebuild: true, Reason: ReasonOutputMissing, Path: page.Output}, nil
		}
		if err != nil {
			return Decision{}, fmt.Errorf("stat %s: %w", page.Output, err)
		}

		src, err := os.Stat(page.Source)
		if err != nil {
			return Decision{}, fmt.Errorf("stat %s: %w", page.Source, err)
		}
		if src.ModTime().After(out.ModTime()) {
			return Decision{Rebuild: true, Reason: ReasonSourceNewer, Path: page.Source}, nil
		}
		if newest.After(out.ModTime()) {
			return Decision{Rebuild: true, Reason: ReasonTemplateNewer, Path: newestPath}, nil
		}
	}

	slog.Debug("all pages up to date", "pages", len(pages), "dependencies", len(dependencies))
	return Decision{}, nil
}
