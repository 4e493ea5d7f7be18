package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/ComedicChimera/olive"
	"github.com/kr/pretty"

	"github.com/funvibe/quill/internal/analyzer"
	"github.com/funvibe/quill/internal/backend"
	"github.com/funvibe/quill/internal/config"
	"github.com/funvibe/quill/internal/diagnostics"
	"github.com/funvibe/quill/internal/ir"
	"github.com/funvibe/quill/internal/modules"
	"github.com/funvibe/quill/internal/pipeline"
	"github.com/funvibe/quill/internal/prettyprinter"
	"github.com/funvibe/quill/internal/utils"
)

// options are the settings shared by all subcommands.
type options struct {
	Config *config.Config
	Logger *log.Logger
}

var logLevelRank = map[string]int{
	config.LogLevelSilent:  0,
	config.LogLevelError:   1,
	config.LogLevelWarn:    2,
	config.LogLevelVerbose: 3,
}

// allows reports whether messages at level are shown.
func (o *options) allows(level string) bool {
	return logLevelRank[o.Config.Log.Level] >= logLevelRank[level]
}

// loadOptions reads the config file (explicit, or found next to the module)
// and applies command line overrides.
func loadOptions(result *olive.ArgParseResult) (*options, error) {
	var cfg *config.Config
	var err error
	if path, ok := result.Arguments["config"]; ok {
		cfg, err = config.LoadConfig(path.(string))
	} else {
		cfg, _, err = config.LoadOrDefault(searchDir(result))
	}
	if err != nil {
		return nil, err
	}

	if level, ok := result.Arguments["loglevel"]; ok {
		cfg.Log.Level = level.(string)
	}
	if color, ok := result.Arguments["color"]; ok {
		cfg.Color = color.(string)
	}

	opts := &options{Config: cfg}
	if opts.allows(config.LogLevelVerbose) {
		opts.Logger = log.New(os.Stderr, "quill: ", 0)
	}
	return opts, nil
}

// searchDir is where config lookup starts: the module's directory when a
// subcommand names one, the working directory otherwise.
func searchDir(result *olive.ArgParseResult) string {
	if _, sub, ok := result.Subcommand(); ok && sub != nil {
		if path, ok := sub.PrimaryArg(); ok {
			return utils.GetModuleDir(path)
		}
	}
	return "."
}

func newContext(result *olive.ArgParseResult, opts *options) *pipeline.PipelineContext {
	path, _ := result.PrimaryArg()
	ctx := &pipeline.PipelineContext{
		FilePath:      path,
		SkipTypeCheck: opts.Config.Check.Skip,
		Strict:        opts.Config.Check.Strict,
		Limits:        backend.LimitsFromConfig(opts.Config.Limits),
		Logger:        opts.Logger,
	}
	return ctx
}

// applyCheckFlags merges --strict and --no-check into the check mode taken
// from the config. Strict execution needs the type check, so the two cannot
// both end up set.
func applyCheckFlags(ctx *pipeline.PipelineContext, strict, noCheck bool) error {
	switch {
	case strict && noCheck:
		return errors.New("--strict and --no-check are mutually exclusive")
	case strict && ctx.SkipTypeCheck:
		return errors.New("--strict conflicts with check.skip in the config")
	case noCheck && ctx.Strict:
		return errors.New("--no-check conflicts with check.strict in the config")
	}
	ctx.Strict = ctx.Strict || strict
	ctx.SkipTypeCheck = ctx.SkipTypeCheck || noCheck
	return nil
}

// reportLoadErrors prints plumbing errors and reports whether there were any.
func reportLoadErrors(ctx *pipeline.PipelineContext, opts *options) bool {
	if ctx.Module != nil {
		return false
	}
	if opts.allows(config.LogLevelError) {
		for _, err := range ctx.Errors {
			PrintErrorMessage("Module Load Error", err)
		}
	}
	return true
}

func reportDiagnostics(ctx *pipeline.PipelineContext, opts *options) {
	if !opts.allows(config.LogLevelError) {
		return
	}
	sources := sourceCache{}
	for _, d := range ctx.Diagnostics {
		if d.Severity() != diagnostics.SeverityError && !opts.allows(config.LogLevelWarn) {
			continue
		}
		writeDiagnostic(os.Stdout, d, sources)
	}
}

// execCheckCommand loads and type checks a module
func execCheckCommand(result *olive.ArgParseResult, opts *options) int {
	ctx := newContext(result, opts)
	ctx.SkipTypeCheck = false
	ctx = pipeline.New(
		modules.NewLoaderProcessor(),
		&analyzer.SemanticAnalyzerProcessor{},
	).Run(ctx)

	if reportLoadErrors(ctx, opts) {
		return 1
	}
	reportDiagnostics(ctx, opts)
	if ctx.HasTypeErrors() {
		if opts.allows(config.LogLevelError) {
			PrintErrorMessage("Check Failed", fmt.Errorf("%d problem(s) in %s", len(ctx.Diagnostics), ctx.FilePath))
		}
		return 1
	}
	if opts.allows(config.LogLevelWarn) {
		PrintInfoMessage("Check", "no problems in "+ctx.FilePath)
	}
	return 0
}

// execRunCommand checks and executes one entry call
func execRunCommand(result *olive.ArgParseResult, opts *options) int {
	ctx := newContext(result, opts)
	if entry, ok := result.Arguments["entry"]; ok {
		ctx.Entry = entry.(string)
	}
	if raw, ok := result.Arguments["args"]; ok {
		args, err := parseArgs(raw.(string))
		if err != nil {
			PrintErrorMessage("Argument Error", err)
			return 1
		}
		ctx.Args = args
	}
	if err := applyCheckFlags(ctx, result.HasFlag("strict"), result.HasFlag("no-check")); err != nil {
		PrintErrorMessage("CLI Usage Error", err)
		return 2
	}

	ctx = pipeline.New(
		modules.NewLoaderProcessor(),
		&analyzer.SemanticAnalyzerProcessor{},
		backend.NewExecutionProcessor(backend.NewTreeWalk()),
	).Run(ctx)

	if reportLoadErrors(ctx, opts) {
		return 1
	}
	if ctx.HasTypeErrors() {
		reportDiagnostics(ctx, opts)
		if !ctx.Strict && opts.allows(config.LogLevelWarn) {
			PrintWarningMessage("Type Check", "module has type errors; running anyway")
		}
	}
	if ctx.Failed() {
		if opts.allows(config.LogLevelError) {
			for _, err := range ctx.Errors {
				writeRuntimeError(os.Stderr, err)
			}
		}
		return 1
	}
	fmt.Println(ctx.Result.Inspect())
	return 0
}

// execBatchCommand runs every call of a calls file through a worker pool
func execBatchCommand(result *olive.ArgParseResult, opts *options) int {
	callsPath := result.Arguments["calls"].(string)
	data, err := os.ReadFile(callsPath)
	if err != nil {
		PrintErrorMessage("Batch Error", fmt.Errorf("reading %s: %w", callsPath, err))
		return 1
	}
	calls, err := parseCalls(data, callsPath)
	if err != nil {
		PrintErrorMessage("Batch Error", err)
		return 1
	}
	invocations := make([]backend.Invocation, len(calls))
	for i, c := range calls {
		args, err := parseArgs(c.Args)
		if err != nil {
			PrintErrorMessage("Argument Error", fmt.Errorf("call %d: %w", i+1, err))
			return 1
		}
		invocations[i] = backend.Invocation{Entry: c.Entry, Args: args}
	}

	ctx := newContext(result, opts)
	ctx = pipeline.New(
		modules.NewLoaderProcessor(),
		&analyzer.SemanticAnalyzerProcessor{},
	).Run(ctx)
	if reportLoadErrors(ctx, opts) {
		return 1
	}
	if ctx.HasTypeErrors() {
		reportDiagnostics(ctx, opts)
		if ctx.Strict {
			PrintErrorMessage("Batch Error", backend.ErrTypeErrors)
			return 1
		}
	}

	pool := backend.NewPool(ctx.Module, ctx.Limits, opts.Config.Workers)
	pool.Logger = opts.Logger
	outcomes, err := pool.Run(context.Background(), invocations)
	if err != nil {
		PrintErrorMessage("Batch Error", err)
		return 1
	}

	code := 0
	for i, o := range outcomes {
		if o.Err != nil {
			code = 1
			fmt.Printf("%d: ", i+1)
			writeRuntimeError(os.Stdout, o.Err)
			continue
		}
		fmt.Printf("%d: %s\n", i+1, o.Result.Inspect())
	}
	return code
}

// execDumpCommand prints a module back as source text
func execDumpCommand(result *olive.ArgParseResult, opts *options) int {
	ctx := newContext(result, opts)
	stages := []pipeline.Processor{modules.NewLoaderProcessor()}
	if result.HasFlag("types") {
		ctx.SkipTypeCheck = false
		stages = append(stages, &analyzer.SemanticAnalyzerProcessor{})
	}
	ctx = pipeline.New(stages...).Run(ctx)
	if reportLoadErrors(ctx, opts) {
		return 1
	}

	switch {
	case result.HasFlag("raw"):
		pretty.Println(ctx.Module)
	case result.HasFlag("types"):
		fmt.Print(dumpTypes(ctx))
	default:
		fmt.Print(prettyprinter.Print(ctx.Module))
	}
	return 0
}

// dumpTypes lists every expression of every function with its inferred type.
func dumpTypes(ctx *pipeline.PipelineContext) string {
	var sb strings.Builder
	for _, fn := range ctx.Module.Functions() {
		sb.WriteString("fn " + fn.Name)
		if sig, ok := ctx.Signatures[fn.Name]; ok {
			sb.WriteString(": " + sig.String())
		}
		sb.WriteString("\n")
		ir.Inspect(ctx.Module, fn.Body, func(id ir.ExprID, e ir.Expr) bool {
			t, ok := ctx.ExprTypes[id]
			if !ok {
				return true
			}
			fmt.Fprintf(&sb, "  %-12s %s : %s\n", e.Span(), prettyprinter.PrintExpr(ctx.Module, id), t)
			return true
		})
	}
	return sb.String()
}
