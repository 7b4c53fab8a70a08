package lang

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jward/arbor/internal/ast"
)

func analyzeSrc(t *testing.T, a Analyzer, path, src string) *ast.FileAnalysis {
	t.Helper()
	fa, err := a.AnalyzeFile(context.Background(), path, []byte(src))
	require.NoError(t, err)
	require.NotNil(t, fa.Root)
	return fa
}

func TestCSharpAnalyzer_SupportsFile(t *testing.T) {
	a := NewCSharpAnalyzer()
	assert.True(t, a.SupportsFile("Program.cs"))
	assert.True(t, a.SupportsFile("PROGRAM.CS"))
	assert.False(t, a.SupportsFile("Program.java"))
	assert.False(t, a.SupportsFile("Program"))
}

func TestCSharpAnalyzer_RootType(t *testing.T) {
	fa := analyzeSrc(t, NewCSharpAnalyzer(), "a.cs", "public class Foo { }")
	assert.Equal(t, RootTypeCSharp, fa.Root.Type)
	assert.Equal(t, "csharp", fa.Language)
}

func TestCSharpAnalyzer_EmptyFile(t *testing.T) {
	fa := analyzeSrc(t, NewCSharpAnalyzer(), "a.cs", "")
	assert.Equal(t, RootTypeCSharp, fa.Root.Type)
	assert.Empty(t, fa.Root.Children)
	assert.Empty(t, fa.Classes)
}

func TestCSharpAnalyzer_UnparsableSource(t *testing.T) {
	a := NewCSharpAnalyzer()
	_, err := a.AnalyzeFile(context.Background(), "a.cs", []byte("%%% %%% %%%"))
	require.Error(t, err)

	var parseErr *ast.ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, "a.cs", parseErr.Path)
	assert.Equal(t, "csharp", parseErr.Language)
}

func TestCSharpAnalyzer_PartialParseSurfacesBestEffortTree(t *testing.T) {
	// Error-tolerant parse: recognizable structure plus junk still yields a
	// tree instead of a rejection.
	fa := analyzeSrc(t, NewCSharpAnalyzer(), "a.cs", "public class Ok { }\n%%%\n")
	assert.Contains(t, fa.Classes, "Ok")
}

func TestCSharpAnalyzer_Inventories(t *testing.T) {
	src := `
public interface IShape { }

public enum Color { Red, Green }

public class Box
{
    public int Width { get; set; }

    public int Area() { return Width * Width; }
}

public struct Point { }
`
	fa := analyzeSrc(t, NewCSharpAnalyzer(), "shapes.cs", src)
	assert.Equal(t, []string{"Box", "Point"}, fa.Classes)
	assert.Equal(t, []string{"IShape"}, fa.Interfaces)
	assert.Equal(t, []string{"Color"}, fa.Enums)
	assert.Equal(t, []string{"Width"}, fa.Properties)
	assert.Equal(t, []string{"Area"}, fa.Methods)
}

func TestCSharpAnalyzer_AsyncPatterns(t *testing.T) {
	src := `
using System.Threading.Tasks;

public class Downloader
{
    public async Task<string> FetchAsync()
    {
        var a = Client.GetAsync("a");
        var b = Client.GetAsync("b");
        await Task.WhenAll(a, b).ConfigureAwait(false);
        return await ReadAsync(a);
    }

    public void Plain() { }
}
`
	fa := analyzeSrc(t, NewCSharpAnalyzer(), "downloader.cs", src)
	require.Len(t, fa.AsyncPatterns, 1)

	info := fa.AsyncPatterns[0]
	assert.Equal(t, "FetchAsync", info.Method)
	assert.Equal(t, "Task<string>", info.ReturnType)
	assert.Equal(t, 2, info.SuspensionPoints)
	assert.True(t, info.DetachesContext)
	assert.True(t, info.AwaitsConcurrent)
}

func TestCSharpAnalyzer_AsyncWithoutIdioms(t *testing.T) {
	src := `
public class Worker
{
    public async Task RunAsync()
    {
        await Step();
    }
}
`
	fa := analyzeSrc(t, NewCSharpAnalyzer(), "worker.cs", src)
	require.Len(t, fa.AsyncPatterns, 1)

	info := fa.AsyncPatterns[0]
	assert.Equal(t, 1, info.SuspensionPoints)
	assert.False(t, info.DetachesContext)
	assert.False(t, info.AwaitsConcurrent)
}

func TestCSharpAnalyzer_TestClassByAttribute(t *testing.T) {
	src := `
[TestClass]
public class CalculatorSuite
{
    [TestMethod]
    public void Adds() { }
}
`
	fa := analyzeSrc(t, NewCSharpAnalyzer(), "calc.cs", src)
	assert.Equal(t, []string{"CalculatorSuite"}, fa.TestClasses)
}

func TestCSharpAnalyzer_TestClassBySuffix(t *testing.T) {
	fa := analyzeSrc(t, NewCSharpAnalyzer(), "calc.cs", "public class CalculatorTests { }")
	assert.Equal(t, []string{"CalculatorTests"}, fa.TestClasses)
}

func TestCSharpAnalyzer_Idempotent(t *testing.T) {
	src := "public class Foo { public void Bar() { } }"
	a := NewCSharpAnalyzer()
	first := analyzeSrc(t, a, "foo.cs", src)
	second := analyzeSrc(t, a, "foo.cs", src)
	assert.Equal(t, first.Root, second.Root)
	assert.Equal(t, first.Classes, second.Classes)
	assert.Equal(t, first.Methods, second.Methods)
}

func TestCSharpAnalyzer_OmitsEmptyProperties(t *testing.T) {
	fa := analyzeSrc(t, NewCSharpAnalyzer(), "foo.cs", "public class Foo { }")
	fa.Root.Walk(func(n *ast.Node) bool {
		if text, ok := n.StringProperty("text"); ok {
			assert.NotEmpty(t, text, "node %s carries an empty text placeholder", n.Type)
		}
		return true
	})
}
