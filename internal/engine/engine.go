// Package engine runs assembled site programs in-process.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"

	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"

	"github.com/jwtly10/mite/internal/assembler"
	"github.com/jwtly10/mite/site"
)

// Run evaluates a generated program and calls its entry point with the global state and
// the page writer. A panic raised while rendering is reported as an error; when the
// runtime recorded the cause (an unknown template, say) that error is returned as is.
func Run(ctx context.Context, src []byte, g *site.Global, w site.Writer) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	i := interp.New(interp.Options{})
	if err := i.Use(stdlib.Symbols); err != nil {
		return fmt.Errorf("engine: loading stdlib symbols: %w", err)
	}
	if err := i.Use(Symbols); err != nil {
		return fmt.Errorf("engine: loading runtime symbols: %w", err)
	}

	if _, err := i.EvalWithContext(ctx, string(src)); err != nil {
		return fmt.Errorf("engine: compiling program: %w", recorded(g, err))
	}

	entry := assembler.PackageName + "." + assembler.EntryPoint
	fn, err := i.EvalWithContext(ctx, entry)
	if err != nil {
		return fmt.Errorf("engine: program must define %s: %w", assembler.EntryPoint, err)
	}
	if !fn.IsValid() || fn.Kind() != reflect.Func {
		return fmt.Errorf("engine: %s is not a function", entry)
	}

	defer func() {
		if r := recover(); r != nil {
			err = panicked(g, r)
		}
	}()

	slog.Debug("running program", "entry", entry, "bytes", len(src))
	results := fn.Call([]reflect.Value{reflect.ValueOf(g), reflect.ValueOf(w)})
	if len(results) != 1 {
		return fmt.Errorf("engine: %s must return a single error", entry)
	}
	if res := results[0]; res.IsValid() && !res.IsNil() {
		if e, ok := res.Interface().(error); ok {
			return e
		}
		return fmt.Errorf("engine: %s returned a non-error value", entry)
	}
	return g.Err()
}

func recorded(g *site.Global, err error) error {
	if g.Err() != nil {
		return g.Err()
	}
	return err
}

func panicked(g *site.Global, r any) error {
	if g.Err() != nil {
		return g.Err()
	}
	var p interp.Panic
	if e, ok := r.(error); ok {
		if errors.As(e, &p) {
			return fmt.Errorf("engine: panic: %v", p.Value)
		}
		return fmt.Errorf("engine: panic: %w", e)
	}
	return fmt.Errorf("engine: panic: %v", r)
}
