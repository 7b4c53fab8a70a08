package lang

import "github.com/smacker/go-tree-sitter/java"

// RootTypeJava is the Java analyzer's documented root category.
const RootTypeJava = "Program"

// NewJavaAnalyzer returns the analyzer for Java source files (.java).
// Java has no async modifier; asynchronous style is recognized from
// future-like return types, with blocking joins counted as suspension
// points.
func NewJavaAnalyzer() Analyzer {
	return &analyzer{
		language:   "java",
		rootType:   RootTypeJava,
		extensions: map[string]bool{".java": true},
		grammar:    java.GetLanguage(),
		profile: Profile{
			ClassKinds: map[string]bool{
				"class_declaration":  true,
				"record_declaration": true,
			},
			InterfaceKinds: map[string]bool{
				"interface_declaration":       true,
				"annotation_type_declaration": true,
			},
			MethodKinds: map[string]bool{
				"method_declaration":      true,
				"constructor_declaration": true,
			},
			EnumKinds:     map[string]bool{"enum_declaration": true},
			PropertyKinds: map[string]bool{"field_declaration": true},

			AsyncReturnPrefixes: []string{"CompletableFuture", "CompletionStage", "Future"},
			InvocationKinds:     map[string]bool{"method_invocation": true},
			SuspensionCalls:     map[string]bool{"join": true, "get": true, "await": true},
			FanInIdents:         map[string]bool{"allOf": true, "invokeAll": true},

			TestMarkers: map[string]bool{
				"Test":              true,
				"ParameterizedTest": true,
				"RepeatedTest":      true,
			},
			TestSuffixes: []string{"Test", "Tests"},
		},
	}
}
