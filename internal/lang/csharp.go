package lang

import "github.com/smacker/go-tree-sitter/csharp"

// RootTypeCSharp is the C# analyzer's documented root category.
const RootTypeCSharp = "CompilationUnit"

// NewCSharpAnalyzer returns the analyzer for C# source files (.cs).
func NewCSharpAnalyzer() Analyzer {
	return &analyzer{
		language:   "csharp",
		rootType:   RootTypeCSharp,
		extensions: map[string]bool{".cs": true},
		grammar:    csharp.GetLanguage(),
		profile: Profile{
			ClassKinds: map[string]bool{
				"class_declaration":  true,
				"struct_declaration": true,
				"record_declaration": true,
			},
			InterfaceKinds: map[string]bool{"interface_declaration": true},
			MethodKinds: map[string]bool{
				"method_declaration":       true,
				"local_function_statement": true,
			},
			EnumKinds:     map[string]bool{"enum_declaration": true},
			PropertyKinds: map[string]bool{"property_declaration": true},

			AsyncModifier:       "async",
			AsyncReturnPrefixes: []string{"Task", "ValueTask", "IAsyncEnumerable"},
			SuspensionKinds:     map[string]bool{"await_expression": true},
			DetachIdents:        map[string]bool{"ConfigureAwait": true},
			FanInIdents:         map[string]bool{"WhenAll": true, "WhenAny": true},

			TestMarkers: map[string]bool{
				"TestClass":   true,
				"TestFixture": true,
				"TestMethod":  true,
				"Fact":        true,
				"Theory":      true,
				"Test":        true,
			},
			TestSuffixes: []string{"Tests", "Test"},
		},
	}
}
