package lang

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jward/arbor/internal/ast"
)

// claimAll is a test double that claims every path.
type claimAll struct{}

func (claimAll) Language() string          { return "all" }
func (claimAll) RootType() string          { return "Anything" }
func (claimAll) SupportsFile(string) bool  { return true }
func (claimAll) AnalyzeFile(_ context.Context, path string, _ []byte) (*ast.FileAnalysis, error) {
	return &ast.FileAnalysis{Path: path, Language: "all", Root: ast.NewNode("Anything")}, nil
}

func TestDefaultRegistry_ResolvesEveryExtension(t *testing.T) {
	tests := []struct {
		path string
		lang string
	}{
		{"Program.cs", "csharp"},
		{"Main.java", "java"},
		{"page.php", "template"},
		{"page.phtml", "template"},
	}
	r := DefaultRegistry()
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			a, err := r.Resolve(tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.lang, a.Language())

			// Resolution is stable across repeated calls.
			again, err := r.Resolve(tt.path)
			require.NoError(t, err)
			assert.Equal(t, a.Language(), again.Language())
		})
	}
}

func TestRegistry_UnsupportedFile(t *testing.T) {
	r := DefaultRegistry()
	_, err := r.Resolve("notes.txt")
	var nse *ast.NotSupportedError
	require.ErrorAs(t, err, &nse)
	assert.Equal(t, "notes.txt", nse.Path)
}

func TestRegistry_FirstMatchWins(t *testing.T) {
	// A catch-all registered after the C# variant loses .cs files to it.
	r := NewRegistry(NewCSharpAnalyzer(), claimAll{})
	a, err := r.Resolve("a.cs")
	require.NoError(t, err)
	assert.Equal(t, "csharp", a.Language())

	a, err = r.Resolve("a.txt")
	require.NoError(t, err)
	assert.Equal(t, "all", a.Language())

	// Registered first, it shadows everything.
	r = NewRegistry(claimAll{}, NewCSharpAnalyzer())
	a, err = r.Resolve("a.cs")
	require.NoError(t, err)
	assert.Equal(t, "all", a.Language())
}

func TestRegistry_Register(t *testing.T) {
	r := NewRegistry(NewCSharpAnalyzer())
	require.Len(t, r.Analyzers(), 1)
	r.Register(NewJavaAnalyzer())
	require.Len(t, r.Analyzers(), 2)

	a, err := r.Resolve("Main.java")
	require.NoError(t, err)
	assert.Equal(t, "java", a.Language())
}
