package errors

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"
)

// CLIErrorAdapter handles error presentation and exit code determination for the CLI.
type CLIErrorAdapter struct {
	verbose bool
	logger  *slog.Logger
	stderr  io.Writer
}

func NewCLIErrorAdapter(verbose bool, logger *slog.Logger) *CLIErrorAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CLIErrorAdapter{
		verbose: verbose,
		logger:  logger,
		stderr:  os.Stderr,
	}
}

// ExitCodeFor determines the exit code for an error. Every fatal condition exits with 1.
func (a *CLIErrorAdapter) ExitCodeFor(err error) int {
	if err == nil {
		return 0
	}
	return 1
}

// FormatError formats an error for user-friendly display.
func (a *CLIErrorAdapter) FormatError(err error) string {
	if err == nil {
		return ""
	}

	me, ok := As(err)
	if !ok {
		return fmt.Sprintf("Error: %v", err)
	}
	if a.verbose {
		return err.Error()
	}

	msg := fmt.Sprintf("%s: %s", me.Category, me.Message)
	if fields := formatContext(me.Context); fields != "" {
		msg += " (" + fields + ")"
	}
	if me.Cause != nil {
		msg += ": " + me.Cause.Error()
	}
	return msg
}

func formatContext(ctx ContextFields) string {
	keys := make([]string, 0, len(ctx))
	for k := range ctx {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, ctx[k]))
	}
	return strings.Join(parts, " ")
}

// HandleError reports err and returns the process exit code.
func (a *CLIErrorAdapter) HandleError(err error) int {
	if err == nil {
		return 0
	}

	if a.verbose {
		a.logError(err)
	}
	fmt.Fprintln(a.stderr, a.FormatError(err))
	return a.ExitCodeFor(err)
}

func (a *CLIErrorAdapter) logError(err error) {
	me, ok := As(err)
	if !ok {
		a.logger.Error("Unclassified error", "error", err)
		return
	}

	attrs := []slog.Attr{slog.String("category", string(me.Category))}
	for k, v := range me.Context {
		attrs = append(attrs, slog.Any(k, v))
	}
	a.logger.LogAttrs(context.Background(), levelFor(me.Severity), me.Message, attrs...)
}

func levelFor(severity ErrorSeverity) slog.Level {
	if severity == SeverityWarning {
		return slog.LevelWarn
	}
	return slog.LevelError
}
