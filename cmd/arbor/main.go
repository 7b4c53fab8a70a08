package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/jward/arbor"
	"github.com/jward/arbor/internal/scripting"
	"github.com/jward/arbor/internal/store"
)

var (
	flagFormat      string
	flagConcurrency int
	flagSequential  bool
	flagDB          string
	flagScript      string
	flagVerbose     bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "arbor",
	Short:         "Multi-language AST normalization and analysis",
	Long:          "Arbor parses source files with tree-sitter into a single generic syntax tree model and aggregates results across files, projects, and solutions.",
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return validateFormat(flagFormat)
	},
	// No Run — prints help by default.
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagFormat, "format", "json", "output format: json|text")
	rootCmd.PersistentFlags().IntVar(&flagConcurrency, "concurrency", 0, "maximum concurrent file analyses (default: number of CPUs)")
	rootCmd.PersistentFlags().BoolVar(&flagSequential, "sequential", false, "process files one at a time")
	rootCmd.PersistentFlags().StringVar(&flagDB, "db", "", "record the run in a SQLite database at this path")
	rootCmd.PersistentFlags().StringVar(&flagScript, "script", "", "run a Risor script over the completed analysis")
	rootCmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "enable debug logging")

	rootCmd.AddCommand(fileCmd)
	rootCmd.AddCommand(projectCmd)
	rootCmd.AddCommand(solutionCmd)
}

var fileCmd = &cobra.Command{
	Use:   "file <path>",
	Short: "Analyze a single source file",
	Args:  cobra.ExactArgs(1),
	RunE:  runFile,
}

var projectCmd = &cobra.Command{
	Use:   "project <manifest>",
	Short: "Analyze every file a project manifest names",
	Args:  cobra.ExactArgs(1),
	RunE:  runProject,
}

var solutionCmd = &cobra.Command{
	Use:   "solution <manifest>",
	Short: "Analyze every project a solution manifest names",
	Args:  cobra.ExactArgs(1),
	RunE:  runSolution,
}

func newGenerator() *arbor.Generator {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	if flagVerbose {
		log.SetLevel(logrus.DebugLevel)
	} else {
		log.SetLevel(logrus.WarnLevel)
	}

	opts := []arbor.Option{
		arbor.WithSequential(flagSequential),
		arbor.WithLogger(log),
	}
	if flagConcurrency > 0 {
		opts = append(opts, arbor.WithMaxWorkers(flagConcurrency))
	}
	return arbor.New(opts...)
}

func runFile(cmd *cobra.Command, args []string) error {
	gen := newGenerator()
	fa, err := gen.GenerateFile(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	return output(fa, flagFormat)
}

func runProject(cmd *cobra.Command, args []string) error {
	gen := newGenerator()
	p, err := gen.GenerateProject(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	if flagDB != "" {
		if err := recordProject(p); err != nil {
			return err
		}
	}
	if flagScript != "" {
		rt := scripting.NewRuntime(nil)
		if err := rt.RunScript(cmd.Context(), flagScript, p); err != nil {
			return err
		}
	}
	return output(p, flagFormat)
}

func runSolution(cmd *cobra.Command, args []string) error {
	gen := newGenerator()
	sol, err := gen.GenerateSolution(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	if flagDB != "" {
		if err := recordSolution(sol); err != nil {
			return err
		}
	}
	if flagScript != "" {
		rt := scripting.NewRuntime(nil)
		if err := rt.RunScript(cmd.Context(), flagScript, sol); err != nil {
			return err
		}
	}
	return output(sol, flagFormat)
}

func recordProject(p *arbor.ProjectAnalysis) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()
	return s.SaveProject(p)
}

func recordSolution(sol *arbor.SolutionAnalysis) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()
	return s.SaveSolution(sol)
}

func openStore() (*store.Store, error) {
	s, err := store.NewStore(flagDB)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := s.Migrate(); err != nil {
		s.Close()
		return nil, fmt.Errorf("migrating database: %w", err)
	}
	return s, nil
}
