package arbor

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/jward/arbor/internal/ast"
	"github.com/jward/arbor/internal/lang"
)

// Generator orchestrates the arbor pipeline: analyzer resolution, per-file
// tree generation, and aggregation into project- and solution-level
// analyses. It is the sole writer of the analysis value objects; everything
// it returns is read-only for downstream consumers.
type Generator struct {
	registry   *lang.Registry
	readFile   func(string) ([]byte, error)
	maxWorkers int
	sequential bool
	now        func() time.Time
	newRunID   func() string
	log        *logrus.Logger
}

// Option configures a Generator.
type Option func(*Generator)

// WithRegistry replaces the default analyzer registry.
func WithRegistry(r *Registry) Option {
	return func(g *Generator) {
		g.registry = r
	}
}

// WithMaxWorkers bounds the number of files analyzed concurrently. The
// default is the number of available execution units; the bound is never
// unbounded. Values below 1 are clamped to 1.
func WithMaxWorkers(n int) Option {
	return func(g *Generator) {
		if n < 1 {
			n = 1
		}
		g.maxWorkers = n
	}
}

// WithSequential controls the processing mode. When true, files are
// processed one at a time; this is the correctness baseline. Both modes
// produce structurally identical output for the same inputs.
func WithSequential(sequential bool) Option {
	return func(g *Generator) {
		g.sequential = sequential
	}
}

// WithClock replaces the generation timestamp source, so tests can pin
// timestamps when comparing analyses across processing modes.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) {
		g.now = now
	}
}

// WithRunIDSource replaces the run identifier source. The default is a
// random UUID per aggregate.
func WithRunIDSource(newID func() string) Option {
	return func(g *Generator) {
		g.newRunID = newID
	}
}

// WithLogger replaces the default logger.
func WithLogger(log *logrus.Logger) Option {
	return func(g *Generator) {
		g.log = log
	}
}

// WithFileReader replaces the file-reading collaborator. The core never
// walks the filesystem itself; it only reads the paths a manifest names.
func WithFileReader(read func(string) ([]byte, error)) Option {
	return func(g *Generator) {
		g.readFile = read
	}
}

// New creates a Generator with the default registry, concurrent mode, and a
// worker bound equal to the number of available execution units.
func New(opts ...Option) *Generator {
	g := &Generator{
		registry:   lang.DefaultRegistry(),
		readFile:   os.ReadFile,
		maxWorkers: runtime.NumCPU(),
		now:        time.Now,
		newRunID:   uuid.NewString,
		log:        logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Registry returns the Generator's analyzer registry.
func (g *Generator) Registry() *Registry {
	return g.registry
}

// GenerateFile analyzes a single file: resolve the analyzer, read the text,
// build the tree. Terminal outcomes are a FileAnalysis or one of
// NotSupportedError, ParseError, or a wrapped read error.
func (g *Generator) GenerateFile(ctx context.Context, path string) (*FileAnalysis, error) {
	analyzer, err := g.registry.Resolve(path)
	if err != nil {
		return nil, err
	}
	src, err := g.readFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	return g.analyze(ctx, analyzer, path, src)
}

// AnalyzeSource analyzes source text that was already read by an external
// collaborator.
func (g *Generator) AnalyzeSource(ctx context.Context, path string, src []byte) (*FileAnalysis, error) {
	analyzer, err := g.registry.Resolve(path)
	if err != nil {
		return nil, err
	}
	return g.analyze(ctx, analyzer, path, src)
}

func (g *Generator) analyze(ctx context.Context, analyzer Analyzer, path string, src []byte) (*FileAnalysis, error) {
	fa, err := analyzer.AnalyzeFile(ctx, path, src)
	if err != nil {
		return nil, err
	}
	fa.GeneratedAt = g.now()
	return fa, nil
}

// GenerateProject analyzes every file a project manifest names and folds the
// results into a ProjectAnalysis. Per-file failures degrade to markers in
// the aggregate; only an unreadable manifest is fatal. On cancellation the
// partial aggregate is returned alongside ctx.Err().
func (g *Generator) GenerateProject(ctx context.Context, manifestPath string) (*ProjectAnalysis, error) {
	m, err := LoadProjectManifest(manifestPath)
	if err != nil {
		return nil, err
	}

	jobs := makeJobs(m.FilePaths(), 0)
	results := g.runJobs(ctx, jobs)
	p := g.foldProject(m, results)

	if err := ctx.Err(); err != nil {
		return p, err
	}
	return p, nil
}

// GenerateSolution analyzes every project a solution manifest names. The
// worker bound applies across the flattened file set of all projects, not
// per project, so many small projects cannot oversubscribe the pool. A
// project whose manifest cannot be read becomes a failure marker; siblings
// continue.
func (g *Generator) GenerateSolution(ctx context.Context, manifestPath string) (*SolutionAnalysis, error) {
	sm, err := LoadSolutionManifest(manifestPath)
	if err != nil {
		return nil, err
	}

	paths := sm.ProjectPaths()
	plans := make([]projectPlan, len(paths))

	// Manifest reads are independent; load them concurrently under the same
	// bound. Load failures are data, so the group never returns an error.
	eg := &errgroup.Group{}
	eg.SetLimit(g.maxWorkers)
	for i, path := range paths {
		eg.Go(func() error {
			m, err := LoadProjectManifest(path)
			if err != nil {
				f := ast.FailureFor(path, err)
				plans[i] = projectPlan{failure: &f}
				return nil
			}
			plans[i] = projectPlan{manifest: m}
			return nil
		})
	}
	_ = eg.Wait()

	// Flatten file jobs across all loadable projects into one batch so a
	// single pool enforces the global bound.
	var jobs []fileJob
	for i := range plans {
		if plans[i].manifest == nil {
			continue
		}
		plans[i].start = len(jobs)
		jobs = append(jobs, makeJobs(plans[i].manifest.FilePaths(), len(jobs))...)
		plans[i].end = len(jobs)
	}

	results := g.runJobs(ctx, jobs)

	sol := &SolutionAnalysis{
		RunID:       g.newRunID(),
		Name:        sm.Name,
		Path:        sm.Path(),
		GeneratedAt: g.now(),
	}
	for _, plan := range plans {
		if plan.failure != nil {
			sol.Failures = append(sol.Failures, *plan.failure)
			continue
		}
		sol.Projects = append(sol.Projects, g.foldProject(plan.manifest, results[plan.start:plan.end]))
	}

	if err := ctx.Err(); err != nil {
		return sol, err
	}
	return sol, nil
}

// projectPlan tracks one solution member's manifest and its slice of the
// flattened job batch.
type projectPlan struct {
	manifest *ProjectManifest
	failure  *Failure
	start    int
	end      int
}

// fileJob is one file-analysis task. The index preserves manifest order for
// the deterministic re-sort after parallel completion.
type fileJob struct {
	index int
	path  string
}

// fileResult is the outcome of one fileJob: an analysis or a failure marker,
// never both.
type fileResult struct {
	index    int
	analysis *FileAnalysis
	failure  *Failure
}

func makeJobs(paths []string, base int) []fileJob {
	jobs := make([]fileJob, 0, len(paths))
	for i, path := range paths {
		jobs = append(jobs, fileJob{index: base + i, path: path})
	}
	return jobs
}

// runJobs dispatches file jobs in the configured mode. Results come back
// sorted by job index, so aggregate content never depends on worker
// completion order.
func (g *Generator) runJobs(ctx context.Context, jobs []fileJob) []fileResult {
	if len(jobs) == 0 {
		return nil
	}
	if g.sequential || g.maxWorkers == 1 || len(jobs) == 1 {
		return g.runJobsSequential(ctx, jobs)
	}
	return g.runJobsParallel(ctx, jobs)
}

func (g *Generator) runJobsSequential(ctx context.Context, jobs []fileJob) []fileResult {
	results := make([]fileResult, 0, len(jobs))
	for _, job := range jobs {
		results = append(results, g.runOne(ctx, job))
	}
	return results
}

// runOne executes a single file job, capturing any error as a failure
// marker instead of propagating it across the batch.
func (g *Generator) runOne(ctx context.Context, job fileJob) fileResult {
	if err := ctx.Err(); err != nil {
		f := ast.FailureFor(job.path, err)
		return fileResult{index: job.index, failure: &f}
	}

	fa, err := g.GenerateFile(ctx, job.path)
	if err != nil {
		g.log.WithField("path", job.path).WithError(err).Warn("file analysis failed")
		f := ast.FailureFor(job.path, err)
		return fileResult{index: job.index, failure: &f}
	}
	return fileResult{index: job.index, analysis: fa}
}

// foldProject assembles a ProjectAnalysis from index-ordered results.
// Dependencies come from the manifest, the external collaborator that
// resolves dependency identifiers.
func (g *Generator) foldProject(m *ProjectManifest, results []fileResult) *ProjectAnalysis {
	p := &ProjectAnalysis{
		RunID:        g.newRunID(),
		Name:         m.Name,
		Path:         m.Path(),
		GeneratedAt:  g.now(),
		Dependencies: m.Dependencies,
	}
	for _, res := range results {
		if res.failure != nil {
			p.Failures = append(p.Failures, *res.failure)
			continue
		}
		p.Files = append(p.Files, res.analysis)
		p.TestClasses = append(p.TestClasses, res.analysis.TestClasses...)
		p.AsyncPatterns = append(p.AsyncPatterns, res.analysis.AsyncPatterns...)
	}
	return p
}
