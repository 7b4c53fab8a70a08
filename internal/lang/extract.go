package lang

import (
	"strings"

	"github.com/jward/arbor/internal/ast"
)

// Profile configures pattern extraction for one dialect: which generic node
// categories count as which declaration kind, and how asynchronous style and
// test classes are recognized. An empty field disables that match.
type Profile struct {
	ClassKinds     map[string]bool
	InterfaceKinds map[string]bool
	MethodKinds    map[string]bool
	EnumKinds      map[string]bool
	PropertyKinds  map[string]bool

	// AsyncModifier is the modifier text marking a method as asynchronous
	// ("async" in C#). AsyncReturnPrefixes match declared return-type text
	// for dialects without a modifier (CompletableFuture in Java).
	AsyncModifier       string
	AsyncReturnPrefixes []string

	// SuspensionKinds are node categories counted as suspension points
	// (await_expression). SuspensionCalls are invocation names counted the
	// same way, matched on nodes whose category is in InvocationKinds.
	SuspensionKinds map[string]bool
	InvocationKinds map[string]bool
	SuspensionCalls map[string]bool

	// DetachIdents mark the continue-without-capturing-context idiom;
	// FanInIdents mark the wait-for-several-concurrent-operations idiom.
	DetachIdents map[string]bool
	FanInIdents  map[string]bool

	// TestMarkers are attribute/annotation names marking a test class.
	// TestSuffixes are class-name suffixes that do the same.
	TestMarkers  map[string]bool
	TestSuffixes []string
}

// Extract walks fa's tree once, depth-first pre-order, and fills the derived
// inventories. Extraction is read-only over the tree and tolerates missing
// properties: a declaration without a recoverable name is simply skipped.
func Extract(fa *ast.FileAnalysis, p Profile) {
	if fa.Root == nil {
		return
	}
	fa.Root.Walk(func(n *ast.Node) bool {
		switch {
		case p.ClassKinds[n.Type]:
			if name, ok := declaredName(n); ok {
				fa.Classes = append(fa.Classes, name)
				if isTestClass(n, name, p) {
					fa.TestClasses = append(fa.TestClasses, name)
				}
			}
		case p.InterfaceKinds[n.Type]:
			if name, ok := declaredName(n); ok {
				fa.Interfaces = append(fa.Interfaces, name)
			}
		case p.MethodKinds[n.Type]:
			if name, ok := declaredName(n); ok {
				fa.Methods = append(fa.Methods, name)
				if info, ok := asyncPattern(n, name, p); ok {
					fa.AsyncPatterns = append(fa.AsyncPatterns, info)
				}
			}
		case p.EnumKinds[n.Type]:
			if name, ok := declaredName(n); ok {
				fa.Enums = append(fa.Enums, name)
			}
		case p.PropertyKinds[n.Type]:
			if name, ok := declaredName(n); ok {
				fa.Properties = append(fa.Properties, name)
			}
		}
		return true
	})
}

// declaredName recovers a declaration's name from its "name" property, or
// from a direct child's when the grammar hangs the identifier one level down
// (Java field declarators).
func declaredName(n *ast.Node) (string, bool) {
	if name, ok := n.StringProperty("name"); ok {
		return name, true
	}
	for _, c := range n.Children {
		if name, ok := c.StringProperty("name"); ok {
			return name, true
		}
	}
	return "", false
}

// isTestClass reports whether a class declaration carries a test marker
// attribute anywhere in its subtree, or a configured name suffix.
func isTestClass(n *ast.Node, name string, p Profile) bool {
	for _, suffix := range p.TestSuffixes {
		if strings.HasSuffix(name, suffix) {
			return true
		}
	}
	if len(p.TestMarkers) == 0 {
		return false
	}
	found := false
	n.Walk(func(d *ast.Node) bool {
		if found {
			return false
		}
		if identMatches(d, p.TestMarkers) {
			found = true
			return false
		}
		return true
	})
	return found
}

// asyncPattern builds the async record for a method declaration, or reports
// ok=false when the method is not asynchronous in the dialect's style.
func asyncPattern(n *ast.Node, name string, p Profile) (ast.AsyncPatternInfo, bool) {
	returnType, _ := n.StringProperty("type")

	isAsync := p.AsyncModifier != "" && hasModifier(n, p.AsyncModifier)
	if !isAsync {
		for _, prefix := range p.AsyncReturnPrefixes {
			if strings.HasPrefix(returnType, prefix) {
				isAsync = true
				break
			}
		}
	}
	if !isAsync {
		return ast.AsyncPatternInfo{}, false
	}

	info := ast.AsyncPatternInfo{Method: name, ReturnType: returnType}
	n.Walk(func(d *ast.Node) bool {
		if d == n {
			return true
		}
		// A nested method owns its own record.
		if p.MethodKinds[d.Type] {
			return false
		}
		if p.SuspensionKinds[d.Type] {
			info.SuspensionPoints++
		}
		if p.InvocationKinds[d.Type] {
			if call, ok := d.StringProperty("name"); ok && p.SuspensionCalls[call] {
				info.SuspensionPoints++
			}
		}
		if identMatches(d, p.DetachIdents) {
			info.DetachesContext = true
		}
		if identMatches(d, p.FanInIdents) {
			info.AwaitsConcurrent = true
		}
		return true
	})
	return info, true
}

// identMatches reports whether a node names any identifier in set, via its
// "name" property or its leaf text.
func identMatches(n *ast.Node, set map[string]bool) bool {
	if len(set) == 0 {
		return false
	}
	if name, ok := n.StringProperty("name"); ok && set[name] {
		return true
	}
	if text, ok := n.StringProperty("text"); ok && set[text] {
		return true
	}
	return false
}

// hasModifier reports whether any direct child's leaf text contains the
// modifier as a whole word (modifier lists flatten to leaf text).
func hasModifier(n *ast.Node, modifier string) bool {
	for _, c := range n.Children {
		text, ok := c.StringProperty("text")
		if !ok {
			continue
		}
		for _, word := range strings.Fields(text) {
			if word == modifier {
				return true
			}
		}
	}
	return false
}
