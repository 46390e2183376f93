// Package generate runs the whole pipeline: discover inputs, dump their
// ASTs in one compiler invocation, synthesize companions and reconcile
// them with what is on disk.
package generate

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/teranos/jsongen/dump"
	"github.com/teranos/jsongen/errors"
	"github.com/teranos/jsongen/logger"
	"github.com/teranos/jsongen/output"
	"github.com/teranos/jsongen/sexp"
	"github.com/teranos/jsongen/source"
	"github.com/teranos/jsongen/swiftast"
	"github.com/teranos/jsongen/swiftgen"
)

// RuntimeHint is attached to diagnostics about missing runtime types when
// no library directory was given.
const RuntimeHint = "When using Statham library include argument: --statham=Pods/Statham"

// Options configures one run.
type Options struct {
	Paths      []string
	OutputDir  string
	StathamDir string
	Naming     source.Naming

	Parallelism int
	// SupportedVersions is a semver constraint; empty skips the version check.
	SupportedVersions string
	// Timeout bounds the compiler steps; zero means no limit.
	Timeout time.Duration
	// DryRun decides every target without writing.
	DryRun bool
}

// FileResult is the outcome for one input.
type FileResult struct {
	Input     string        `json:"input"`
	Output    string        `json:"output,omitempty"`
	Action    output.Action `json:"action"`
	Structs   int           `json:"structs"`
	Enums     int           `json:"enums"`
	Generated []string      `json:"generated,omitempty"`
}

// Result summarizes a run.
type Result struct {
	Files           []FileResult `json:"files"`
	CompilerVersion string       `json:"compiler_version,omitempty"`
	Warnings        []string     `json:"warnings,omitempty"`
	DurationMS      int64        `json:"duration_ms"`
}

// Count returns how many files ended with action.
func (r *Result) Count(action output.Action) int {
	n := 0
	for _, f := range r.Files {
		if f.Action == action && f.Output != "" {
			n++
		}
	}
	return n
}

// Stale lists the companions that were (or in a dry run, would be) written.
func (r *Result) Stale() []string {
	var stale []string
	for _, f := range r.Files {
		if f.Action == output.Write {
			stale = append(stale, f.Output)
		}
	}
	return stale
}

// Generator runs the pipeline against a compiler and a filesystem.
type Generator struct {
	fs       afero.Fs
	compiler dump.Compiler
	now      func() time.Time
	log      *zap.SugaredLogger
}

// Option configures a Generator.
type Option func(*Generator)

// WithClock overrides the banner timestamp source.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) { g.now = now }
}

// WithLogger sets the logger.
func WithLogger(log *zap.SugaredLogger) Option {
	return func(g *Generator) {
		if log != nil {
			g.log = log
		}
	}
}

// New creates a Generator.
func New(fsys afero.Fs, compiler dump.Compiler, opts ...Option) *Generator {
	g := &Generator{
		fs:       fsys,
		compiler: compiler,
		now:      time.Now,
		log:      logger.ComponentLogger("generate"),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Run executes one pass. Parse, diagnostic and consistency failures abort
// before any companion is written.
func (g *Generator) Run(ctx context.Context, opts Options) (*Result, error) {
	start := g.now()
	result := &Result{}

	files, err := source.Collect(g.fs, opts.Paths, opts.OutputDir, opts.Naming)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		g.log.Warnw("No source files found", logger.FieldCount, 0)
		return result, nil
	}
	g.log.Infow("Found source files", logger.FieldCount, len(files))

	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	if opts.SupportedVersions != "" {
		result.CompilerVersion, result.Warnings = g.checkVersion(ctx, opts.SupportedVersions)
	}

	dumpOpts := dump.DumpOptions{}
	if opts.StathamDir != "" {
		moduleDir, err := g.compiler.EmitModule(ctx, opts.StathamDir)
		if err != nil {
			return nil, err
		}
		defer os.RemoveAll(moduleDir)
		dumpOpts.ModuleDir = moduleDir
	}

	trees, err := g.dump(ctx, files, dumpOpts, opts.StathamDir != "")
	if err != nil {
		return nil, err
	}

	targets, fileResults, err := g.render(files, trees)
	if err != nil {
		return nil, err
	}

	rec := output.NewReconciler(g.fs, swiftgen.HeaderLines,
		output.WithParallelism(opts.Parallelism),
		output.WithDryRun(opts.DryRun),
		output.WithLogger(g.log))
	outcomes, err := rec.Reconcile(ctx, targets)
	if err != nil {
		return nil, err
	}

	byPath := make(map[string]output.Action, len(outcomes))
	for _, o := range outcomes {
		byPath[o.Path] = o.Action
	}
	for i := range fileResults {
		if fileResults[i].Output != "" {
			fileResults[i].Action = byPath[fileResults[i].Output]
		}
	}
	result.Files = fileResults
	result.DurationMS = g.now().Sub(start).Milliseconds()

	g.log.Infow("Generation finished",
		logger.FieldWritten, result.Count(output.Write),
		logger.FieldCount, len(files),
		logger.FieldDurationMS, result.DurationMS)
	return result, nil
}

func (g *Generator) checkVersion(ctx context.Context, constraint string) (string, []string) {
	v, banner, err := g.compiler.Version(ctx)
	if err != nil {
		g.log.Warnw("Could not determine compiler version", logger.FieldError, err)
		return "", []string{"could not determine compiler version: " + err.Error()}
	}
	g.log.Debugw("Compiler version", logger.FieldVersion, v.String(), "banner", banner)

	ok, err := dump.CheckVersion(v, constraint)
	if err != nil {
		return v.String(), []string{err.Error()}
	}
	if !ok {
		msg := "Swift " + v.String() + " is not a supported version (supported: " + constraint + ")"
		g.log.Warnw(msg, logger.FieldVersion, v.String())
		return v.String(), []string{msg}
	}
	return v.String(), nil
}

// dump compiles all inputs in one invocation and parses one tree per file.
func (g *Generator) dump(ctx context.Context, files []source.File, opts dump.DumpOptions, haveRuntime bool) ([]*sexp.Node, error) {
	paths := make([]string, len(files))
	for i, f := range files {
		paths[i] = f.Path
	}

	out, err := g.compiler.DumpAST(ctx, paths, opts)
	if err != nil {
		return nil, err
	}

	chunks, err := dump.Collect(out, len(files))
	if err != nil {
		var diag *dump.DiagnosticsError
		if !haveRuntime && errors.As(err, &diag) && diag.MissingRuntime() {
			err = errors.WithHint(err, RuntimeHint)
		}
		return nil, err
	}

	trees := make([]*sexp.Node, len(chunks))
	for i, chunk := range chunks {
		tree, err := sexp.Parse(chunk)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to parse AST of %s", files[i].Name)
		}
		trees[i] = tree
	}
	return trees, nil
}

// render synthesizes every companion in memory. Nothing is written until
// all of them succeed.
func (g *Generator) render(files []source.File, trees []*sexp.Node) ([]output.Target, []FileResult, error) {
	globals, err := swiftast.BuildGlobals(trees)
	if err != nil {
		return nil, nil, err
	}

	at := g.now()
	var targets []output.Target
	results := make([]FileResult, len(files))
	for i, f := range files {
		results[i].Input = f.Path

		decls, err := swiftast.Extract(trees[i], globals.TypeAliases)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "failed to extract declarations of %s", f.Name)
		}
		results[i].Structs = len(decls.Structs)
		results[i].Enums = len(decls.Enums)

		if f.SkipCompanion {
			g.log.Debugw("Skipping runtime file", logger.FieldFile, f.Path)
			continue
		}

		text, units := swiftgen.RenderFile(f.Outbase, at, decls, globals)
		for _, u := range units {
			results[i].Generated = append(results[i].Generated, u.Name())
		}
		results[i].Output = f.Outfile
		targets = append(targets, output.Target{Path: f.Outfile, Text: text})

		g.log.Debugw("Rendered companion",
			logger.FieldFile, filepath.Base(f.Path),
			logger.FieldOutput, f.Outbase,
			logger.FieldCount, len(units))
	}
	return targets, results, nil
}
