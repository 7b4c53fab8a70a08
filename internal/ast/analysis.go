package ast

import "time"

// AsyncPatternInfo describes one asynchronous-style method found in a file.
type AsyncPatternInfo struct {
	Method           string `json:"method"`
	ReturnType       string `json:"returnType,omitempty"`
	SuspensionPoints int    `json:"suspensionPoints"`
	// DetachesContext reports the continue-without-capturing-context idiom
	// (ConfigureAwait in C#).
	DetachesContext bool `json:"detachesContext"`
	// AwaitsConcurrent reports the wait-for-several-concurrent-operations
	// idiom (Task.WhenAll in C#, CompletableFuture.allOf in Java).
	AwaitsConcurrent bool `json:"awaitsConcurrent"`
}

// FileAnalysis is the result of analyzing a single source file. It owns its
// tree exclusively and is read-only once handed out.
type FileAnalysis struct {
	Path        string    `json:"path"`
	Language    string    `json:"language"`
	GeneratedAt time.Time `json:"generatedAt"`
	Root        *Node     `json:"root"`

	Classes    []string `json:"classes,omitempty"`
	Interfaces []string `json:"interfaces,omitempty"`
	Methods    []string `json:"methods,omitempty"`
	Enums      []string `json:"enums,omitempty"`
	Properties []string `json:"properties,omitempty"`

	TestClasses   []string           `json:"testClasses,omitempty"`
	AsyncPatterns []AsyncPatternInfo `json:"asyncPatterns,omitempty"`
}

// Failure records a file or project that could not be analyzed. Failures are
// data in the aggregate rather than errors thrown across the concurrency
// boundary, so one bad file never loses the rest of a batch.
type Failure struct {
	Path    string `json:"path"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// ProjectAnalysis aggregates the FileAnalysis results for one project
// manifest. Files keep manifest order regardless of the processing mode.
type ProjectAnalysis struct {
	RunID       string    `json:"runId"`
	Name        string    `json:"name"`
	Path        string    `json:"path"`
	GeneratedAt time.Time `json:"generatedAt"`

	Files    []*FileAnalysis `json:"files"`
	Failures []Failure       `json:"failures,omitempty"`

	Dependencies  []string           `json:"dependencies,omitempty"`
	TestClasses   []string           `json:"testClasses,omitempty"`
	AsyncPatterns []AsyncPatternInfo `json:"asyncPatterns,omitempty"`
}

// SolutionAnalysis aggregates ProjectAnalysis results for a multi-project
// solution manifest.
type SolutionAnalysis struct {
	RunID       string    `json:"runId"`
	Name        string    `json:"name"`
	Path        string    `json:"path"`
	GeneratedAt time.Time `json:"generatedAt"`

	Projects []*ProjectAnalysis `json:"projects"`
	Failures []Failure          `json:"failures,omitempty"`
}
