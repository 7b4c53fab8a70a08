package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jward/arbor/internal/ast"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "arbor.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.Migrate())
	return s
}

func sampleProject(runID string) *ast.ProjectAnalysis {
	return &ast.ProjectAnalysis{
		RunID:       runID,
		Name:        "backend",
		Path:        "/tmp/backend.yaml",
		GeneratedAt: time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC),
		Files: []*ast.FileAnalysis{
			{
				Path:     "a.cs",
				Language: "csharp",
				Classes:  []string{"A", "B"},
				Methods:  []string{"Run"},
			},
		},
		Failures: []ast.Failure{
			{Path: "b.cs", Kind: ast.FailureParse, Message: "unparsable"},
		},
		Dependencies: []string{"Newtonsoft.Json"},
		TestClasses:  []string{"ATests"},
		AsyncPatterns: []ast.AsyncPatternInfo{
			{Method: "RunAsync", ReturnType: "Task", SuspensionPoints: 2, DetachesContext: true},
		},
	}
}

func TestMigrate_Idempotent(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Migrate())
}

func TestSaveProject_RoundTrip(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.SaveProject(sampleProject("run-1")))

	runs, err := s.Runs()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "run-1", runs[0].ID)
	assert.Equal(t, "project", runs[0].Kind)
	assert.Equal(t, "backend", runs[0].Name)
	assert.Nil(t, runs[0].ParentRunID)

	files, err := s.RunFiles("run-1")
	require.NoError(t, err)
	require.Len(t, files, 2)

	assert.Equal(t, "a.cs", files[0].Path)
	assert.Equal(t, "ok", files[0].Status)
	assert.Equal(t, 2, files[0].Classes)
	assert.Equal(t, 1, files[0].Methods)

	assert.Equal(t, "b.cs", files[1].Path)
	assert.Equal(t, ast.FailureParse, files[1].Status)
	assert.Equal(t, "unparsable", files[1].Error)

	patterns, err := s.AsyncPatterns("run-1")
	require.NoError(t, err)
	require.Len(t, patterns, 1)
	assert.Equal(t, "RunAsync", patterns[0].Method)
	assert.Equal(t, 2, patterns[0].SuspensionPoints)
	assert.True(t, patterns[0].DetachesContext)
	assert.False(t, patterns[0].AwaitsConcurrent)
}

func TestSaveSolution_ParentAndChildRuns(t *testing.T) {
	s := newTestStore(t)
	sol := &ast.SolutionAnalysis{
		RunID:       "sol-1",
		Name:        "shop",
		Path:        "/tmp/shop.yaml",
		GeneratedAt: time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC),
		Projects:    []*ast.ProjectAnalysis{sampleProject("run-1")},
		Failures: []ast.Failure{
			{Path: "missing.yaml", Kind: ast.FailureManifest, Message: "no such file"},
		},
	}
	require.NoError(t, s.SaveSolution(sol))

	runs, err := s.Runs()
	require.NoError(t, err)
	require.Len(t, runs, 2)

	byID := map[string]Run{}
	for _, r := range runs {
		byID[r.ID] = r
	}
	assert.Equal(t, "solution", byID["sol-1"].Kind)
	assert.Nil(t, byID["sol-1"].ParentRunID)
	require.NotNil(t, byID["run-1"].ParentRunID)
	assert.Equal(t, "sol-1", *byID["run-1"].ParentRunID)

	// Solution-level failures are recorded against the parent run.
	files, err := s.RunFiles("sol-1")
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, ast.FailureManifest, files[0].Status)
}

func TestSaveProject_DuplicateRunIDFails(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.SaveProject(sampleProject("run-1")))
	assert.Error(t, s.SaveProject(sampleProject("run-1")))
}
