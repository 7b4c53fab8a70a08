package lang

import "github.com/jward/arbor/internal/ast"

// Registry maps a file to the analyzer variant that claims it. Resolution
// tries each registered variant's SupportsFile in registration order and the
// first match wins, so two variants claiming the same extension resolve
// deterministically. The variant list is read-only after startup and safe to
// share across workers without locking.
type Registry struct {
	analyzers []Analyzer
}

// NewRegistry creates a Registry with the given variants, in order.
func NewRegistry(analyzers ...Analyzer) *Registry {
	return &Registry{analyzers: analyzers}
}

// DefaultRegistry returns the standard registration order: C#, Java,
// templated markup. The order is part of the contract; tests cover every
// supported extension against it.
func DefaultRegistry() *Registry {
	return NewRegistry(
		NewCSharpAnalyzer(),
		NewJavaAnalyzer(),
		NewTemplateAnalyzer(),
	)
}

// Register appends a variant. Call during startup, before the registry is
// shared with workers.
func (r *Registry) Register(a Analyzer) {
	r.analyzers = append(r.analyzers, a)
}

// Analyzers returns the registered variants in registration order.
func (r *Registry) Analyzers() []Analyzer {
	return r.analyzers
}

// Resolve returns the first registered variant claiming path, or a
// NotSupportedError when none does.
func (r *Registry) Resolve(path string) (Analyzer, error) {
	for _, a := range r.analyzers {
		if a.SupportsFile(path) {
			return a, nil
		}
	}
	return nil, &ast.NotSupportedError{Path: path}
}
