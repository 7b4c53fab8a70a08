package lang

import "github.com/smacker/go-tree-sitter/php"

// RootTypeTemplate is the templated-markup analyzer's documented root
// category. It differs from both code dialects' roots.
const RootTypeTemplate = "TemplateDocument"

// NewTemplateAnalyzer returns the analyzer for templated markup with
// embedded code blocks (.php, .phtml). The grammar parses markup text and
// embedded code sections into a single tree, so the analyzer still emits
// exactly one unified generic tree.
func NewTemplateAnalyzer() Analyzer {
	return &analyzer{
		language:   "template",
		rootType:   RootTypeTemplate,
		extensions: map[string]bool{".php": true, ".phtml": true},
		grammar:    php.GetLanguage(),
		profile: Profile{
			ClassKinds:     map[string]bool{"class_declaration": true},
			InterfaceKinds: map[string]bool{"interface_declaration": true},
			MethodKinds: map[string]bool{
				"method_declaration":  true,
				"function_definition": true,
			},
			EnumKinds:     map[string]bool{"enum_declaration": true},
			PropertyKinds: map[string]bool{"property_declaration": true},

			TestSuffixes: []string{"Test"},
		},
	}
}
