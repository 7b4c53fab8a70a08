// Package lang converts native tree-sitter parse trees into the generic
// node model and derives flat pattern inventories from them. Each supported
// dialect is an Analyzer variant; new dialects are added by constructing a
// new variant and registering it, without touching existing variants or
// registry callers.
package lang

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/jward/arbor/internal/ast"
)

// Analyzer is the capability contract the registry dispatches on.
type Analyzer interface {
	// Language is the canonical dialect name (e.g. "csharp").
	Language() string

	// RootType is the dialect's documented root category in the generic
	// tree. The templated-markup dialect's root differs from either code
	// dialect's root.
	RootType() string

	// SupportsFile reports whether this variant claims path. Pure,
	// extension-based, and cheap; called for every candidate file during
	// registry resolution.
	SupportsFile(path string) bool

	// AnalyzeFile parses src with the dialect's grammar, walks the native
	// tree exactly once, and returns a FileAnalysis with the generic tree
	// and derived inventories. Returns a ParseError when the grammar
	// produced no recognizable structure; error-tolerant partial trees are
	// surfaced best-effort instead.
	AnalyzeFile(ctx context.Context, path string, src []byte) (*ast.FileAnalysis, error)
}

// analyzer is the shared implementation behind every dialect variant. The
// variants differ only in grammar, extensions, root category, and
// extraction profile.
type analyzer struct {
	language   string
	rootType   string
	extensions map[string]bool
	grammar    *sitter.Language
	profile    Profile
}

func (a *analyzer) Language() string { return a.language }

func (a *analyzer) RootType() string { return a.rootType }

func (a *analyzer) SupportsFile(path string) bool {
	return a.extensions[strings.ToLower(filepath.Ext(path))]
}

func (a *analyzer) AnalyzeFile(ctx context.Context, path string, src []byte) (*ast.FileAnalysis, error) {
	root, err := a.parse(ctx, path, src)
	if err != nil {
		return nil, err
	}

	fa := &ast.FileAnalysis{
		Path:     path,
		Language: a.language,
		Root:     root,
	}
	Extract(fa, a.profile)
	return fa, nil
}

// parse runs the dialect grammar over src and converts the native tree to
// the generic model. The root keeps the dialect's documented category name;
// interior nodes keep the native grammar category names.
func (a *analyzer) parse(ctx context.Context, path string, src []byte) (*ast.Node, error) {
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(a.grammar)

	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	native := tree.RootNode()
	if rejectedOutright(native) {
		return nil, &ast.ParseError{
			Path:     path,
			Language: a.language,
			Reason:   "grammar produced no recognizable structure",
		}
	}

	root := convert(native, src)
	root.Type = a.rootType
	return root, nil
}

// rejectedOutright reports whether the native parse recognized nothing at
// all: at least one top-level node exists and every one of them is an ERROR.
// An empty file parses to a root with zero children and is not a rejection.
func rejectedOutright(root *sitter.Node) bool {
	n := int(root.NamedChildCount())
	if n == 0 {
		return false
	}
	for i := 0; i < n; i++ {
		if root.NamedChild(i).Type() != "ERROR" {
			return false
		}
	}
	return true
}

// convert emits one generic node per named native node, preserving source
// order. Properties: "name" and "type" when the native node carries those
// fields, "text" for leaf nodes, and the byte span as "start"/"length".
// Keys with no value are omitted entirely.
func convert(n *sitter.Node, src []byte) *ast.Node {
	node := ast.NewNode(n.Type())

	if name := n.ChildByFieldName("name"); name != nil {
		node.SetProperty("name", name.Content(src))
	}
	if typ := n.ChildByFieldName("type"); typ != nil {
		node.SetProperty("type", typ.Content(src))
	} else if ret := n.ChildByFieldName("returns"); ret != nil {
		node.SetProperty("type", ret.Content(src))
	}

	count := int(n.NamedChildCount())
	if count == 0 {
		if text := n.Content(src); text != "" {
			node.SetProperty("text", text)
		}
	}

	node.SetProperty("start", int(n.StartByte()))
	node.SetProperty("length", int(n.EndByte()-n.StartByte()))

	for i := 0; i < count; i++ {
		node.AddChild(convert(n.NamedChild(i), src))
	}
	return node
}
