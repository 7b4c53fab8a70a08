// Package scripting embeds a Risor VM so users can run ad-hoc scripts over
// a completed analysis without recompiling. The analysis is handed to the
// script as plain data (maps, lists, scalars) under the global "analysis".
package scripting

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/risor-io/risor"
	"github.com/risor-io/risor/object"
	"github.com/sirupsen/logrus"
)

// Runtime evaluates Risor scripts against analysis results.
type Runtime struct {
	log *logrus.Logger
}

// NewRuntime creates a Runtime logging through log.
func NewRuntime(log *logrus.Logger) *Runtime {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Runtime{log: log}
}

// RunScript loads a script from disk and evaluates it with the analysis
// bound to the "analysis" global.
func (r *Runtime) RunScript(ctx context.Context, scriptPath string, analysis any) error {
	src, err := os.ReadFile(scriptPath)
	if err != nil {
		return fmt.Errorf("scripting: loading script %s: %w", scriptPath, err)
	}
	return r.eval(ctx, string(src), scriptPath, analysis)
}

// RunSource evaluates Risor source code directly. Useful for testing
// without script files.
func (r *Runtime) RunSource(ctx context.Context, source string, analysis any) error {
	return r.eval(ctx, source, "<inline>", analysis)
}

func (r *Runtime) eval(ctx context.Context, source, label string, analysis any) error {
	opts := []risor.Option{
		risor.WithGlobal("analysis", toValue(analysis)),
		risor.WithGlobal("log", mustProxy(&logObject{log: r.log})),
	}
	if _, err := risor.Eval(ctx, source, opts...); err != nil {
		return fmt.Errorf("scripting: script %s: %w", label, err)
	}
	return nil
}

// toValue converts an analysis value object into plain maps and slices via
// its JSON form, so scripts see the same nested document the serializer
// emits (property order included) instead of a Go proxy.
func toValue(v any) any {
	data, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil
	}
	return out
}

// logObject provides log.info/warn/error methods for scripts.
type logObject struct {
	log *logrus.Logger
}

func (l *logObject) Info(msg string)  { l.log.Info(msg) }
func (l *logObject) Warn(msg string)  { l.log.Warn(msg) }
func (l *logObject) Error(msg string) { l.log.Error(msg) }

func mustProxy(v any) object.Object {
	p, err := object.NewProxy(v)
	if err != nil {
		panic(fmt.Sprintf("scripting: proxy error: %v", err))
	}
	return p
}
