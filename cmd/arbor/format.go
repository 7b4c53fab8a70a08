package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/jward/arbor"
)

// output renders an analysis to stdout in the selected format. JSON
// preserves nodeType, properties, and children order verbatim.
func output(result any, format string) error {
	if format == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	w := io.Writer(os.Stdout)
	switch v := result.(type) {
	case *arbor.FileAnalysis:
		formatFileText(w, v)
	case *arbor.ProjectAnalysis:
		formatProjectText(w, v)
	case *arbor.SolutionAnalysis:
		formatSolutionText(w, v)
	default:
		return fmt.Errorf("unsupported result type for text format: %T", v)
	}
	return nil
}

func formatFileText(w io.Writer, fa *arbor.FileAnalysis) {
	fmt.Fprintf(w, "%s (%s)\n", fa.Path, fa.Language)
	fmt.Fprintf(w, "  root: %s, nodes: %d\n", fa.Root.Type, countNodes(fa.Root))
	if len(fa.Classes) > 0 {
		fmt.Fprintf(w, "  classes: %s\n", strings.Join(fa.Classes, ", "))
	}
	if len(fa.Interfaces) > 0 {
		fmt.Fprintf(w, "  interfaces: %s\n", strings.Join(fa.Interfaces, ", "))
	}
	if len(fa.Methods) > 0 {
		fmt.Fprintf(w, "  methods: %s\n", strings.Join(fa.Methods, ", "))
	}
	if len(fa.Enums) > 0 {
		fmt.Fprintf(w, "  enums: %s\n", strings.Join(fa.Enums, ", "))
	}
	if len(fa.TestClasses) > 0 {
		fmt.Fprintf(w, "  test classes: %s\n", strings.Join(fa.TestClasses, ", "))
	}
	for _, a := range fa.AsyncPatterns {
		fmt.Fprintf(w, "  async: %s -> %s (%d suspension points)\n",
			a.Method, a.ReturnType, a.SuspensionPoints)
	}
}

func formatProjectText(w io.Writer, p *arbor.ProjectAnalysis) {
	fmt.Fprintf(w, "Project: %s\n", p.Name)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "PATH\tLANGUAGE\tCLASSES\tMETHODS\tASYNC")
	for _, fa := range p.Files {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\n",
			fa.Path, fa.Language, len(fa.Classes), len(fa.Methods), len(fa.AsyncPatterns))
	}
	tw.Flush()

	if len(p.Dependencies) > 0 {
		fmt.Fprintf(w, "Dependencies: %s\n", strings.Join(p.Dependencies, ", "))
	}
	if len(p.TestClasses) > 0 {
		fmt.Fprintf(w, "Test classes: %s\n", strings.Join(p.TestClasses, ", "))
	}
	for _, f := range p.Failures {
		fmt.Fprintf(w, "FAILED %s (%s): %s\n", f.Path, f.Kind, f.Message)
	}
}

func formatSolutionText(w io.Writer, sol *arbor.SolutionAnalysis) {
	fmt.Fprintf(w, "Solution: %s (%d projects)\n", sol.Name, len(sol.Projects))
	for _, p := range sol.Projects {
		fmt.Fprintln(w)
		formatProjectText(w, p)
	}
	for _, f := range sol.Failures {
		fmt.Fprintf(w, "FAILED %s (%s): %s\n", f.Path, f.Kind, f.Message)
	}
}

func countNodes(n *arbor.Node) int {
	count := 0
	n.Walk(func(*arbor.Node) bool {
		count++
		return true
	})
	return count
}

// validFormats lists accepted values for --format.
var validFormats = []string{"json", "text"}

// validateFormat checks that the --format flag value is recognized.
func validateFormat(format string) error {
	for _, f := range validFormats {
		if format == f {
			return nil
		}
	}
	return fmt.Errorf("invalid format %q: must be %s", format, strings.Join(validFormats, " or "))
}
