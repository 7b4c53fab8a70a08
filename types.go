package arbor

import (
	"github.com/jward/arbor/internal/ast"
	"github.com/jward/arbor/internal/lang"
)

// Public type aliases for internal types used in the Generator API. These
// are Go type aliases (=) — identical to the internal types at compile time.
// External consumers use these names; no conversion is needed.

type Node = ast.Node
type Property = ast.Property
type FileAnalysis = ast.FileAnalysis
type ProjectAnalysis = ast.ProjectAnalysis
type SolutionAnalysis = ast.SolutionAnalysis
type AsyncPatternInfo = ast.AsyncPatternInfo
type Failure = ast.Failure

type NotSupportedError = ast.NotSupportedError
type ParseError = ast.ParseError
type ManifestError = ast.ManifestError

type Analyzer = lang.Analyzer
type Registry = lang.Registry

// DefaultRegistry returns the standard analyzer registration order:
// C#, Java, templated markup.
func DefaultRegistry() *Registry {
	return lang.DefaultRegistry()
}

// NewNode creates a generic tree node of the given category.
func NewNode(nodeType string) *Node {
	return ast.NewNode(nodeType)
}
