// Package driver wires the five pipeline stages together (§2): parse,
// analyze, transform, print, and emit a source map in the configured output
// mode. It is grounded on the teacher's internal/bundler top-level Compile
// entry point, which plays the same "one function orchestrates every stage
// and converts the first hard failure into a single reported diagnostic"
// role for esbuild's own pipeline.
package driver

import (
	"fmt"

	"github.com/jsqueeze/jsqueeze/internal/analyzer"
	"github.com/jsqueeze/jsqueeze/internal/config"
	"github.com/jsqueeze/jsqueeze/internal/js_parser"
	"github.com/jsqueeze/jsqueeze/internal/js_printer"
	"github.com/jsqueeze/jsqueeze/internal/logger"
	"github.com/jsqueeze/jsqueeze/internal/sourcemap"
	"github.com/jsqueeze/jsqueeze/internal/transformer"
)

// Diagnostic is the single fatal error the driver reports, regardless of
// which stage produced it (§7 "the driver converts the first non-recoverable
// error into an exit-code-1 diagnostic with file, line, column, and a
// human-readable message").
type Diagnostic struct {
	Stage   string
	File    string
	Line    int
	Column  int
	Message string
}

func (d *Diagnostic) Error() string {
	if d.Line == 0 && d.Column == 0 {
		return fmt.Sprintf("%s: %s: %s", d.Stage, d.File, d.Message)
	}
	return fmt.Sprintf("%s:%d:%d: %s: %s", d.File, d.Line, d.Column, d.Stage, d.Message)
}

// Output is what Run produces on success: the minified source, and the
// source map in whichever shape the configured SourceMapMode calls for.
type Output struct {
	JS []byte

	// Map is the raw source map, present whenever cfg.SourceMap != SourceMapNone.
	Map *sourcemap.SourceMap

	// MapComment is the "//# sourceMappingURL=..." line to append to JS for
	// SourceMapInline and SourceMapFile (empty for SourceMapNone and
	// SourceMapIndexed, which has no companion comment of its own — §4.4).
	MapComment string

	Stats transformer.Stats
}

// Run executes every stage in order over a single input file, aborting at
// the first stage that reports a fatal error (§2). Parse errors are
// collected by a deferred log and surfaced as the first recorded message,
// since js_parser.Parse itself only returns a boolean.
func Run(source logger.Source, resolved config.Resolved) (*Output, *Diagnostic) {
	log := logger.NewDeferLog()
	program, ok := js_parser.Parse(log, source)
	if !ok || program == nil {
		return nil, parseDiagnostic(source, log)
	}

	result, analyzeErr := analyzer.Analyze(program, source)
	if analyzeErr != nil {
		line, col := lineAndColumn(source, analyzeErr.Loc)
		return nil, &Diagnostic{
			Stage: "analyzer", File: source.PrettyPath,
			Line: line, Column: col,
			Message: fmt.Sprintf("%s: %s", analyzeErr.Kind, analyzeErr.Text),
		}
	}

	transformed, stats, transformErr := transformer.Transform(program, result, transformer.DefaultOptions())
	if transformErr != nil {
		return nil, &Diagnostic{
			Stage:   "transformer",
			File:    source.PrettyPath,
			Message: fmt.Sprintf("%s: %s", transformErr.Kind, transformErr.Text),
		}
	}

	printOptions := resolved.PrinterOptions(resolved.SourceMap != config.SourceMapNone)
	printed, printErr := js_printer.Print(transformed, result.Symbols, result.Resolve, source, printOptions)
	if printErr != nil {
		return nil, &Diagnostic{
			Stage:   "printer",
			File:    source.PrettyPath,
			Message: fmt.Sprintf("%s: %s", printErr.Kind, printErr.Text),
		}
	}

	out := &Output{JS: printed.JS, Map: printed.Map, Stats: stats}
	if err := attachSourceMap(out, source, resolved); err != nil {
		return nil, err
	}
	return out, nil
}

// attachSourceMap fills in Output.MapComment for the SourceMapInline and
// SourceMapFile modes (§4.4, §6). SourceMapIndexed is left to the caller: it
// has no single companion file or comment of its own, since it only makes
// sense once multiple inputs are combined, which is outside this package's
// single-file Run.
func attachSourceMap(out *Output, source logger.Source, resolved config.Resolved) *Diagnostic {
	if resolved.SourceMap == config.SourceMapNone || out.Map == nil {
		return nil
	}

	switch resolved.SourceMap {
	case config.SourceMapInline:
		url, err := out.Map.DataURL(true)
		if err != nil {
			return &Diagnostic{Stage: "sourcemap", File: source.PrettyPath, Message: err.Error()}
		}
		out.MapComment = "//# sourceMappingURL=" + url
	case config.SourceMapFile:
		out.MapComment = "//# sourceMappingURL=" + source.PrettyPath + ".map"
	}
	return nil
}

func parseDiagnostic(source logger.Source, log logger.Log) *Diagnostic {
	for _, msg := range log.Done() {
		if msg.Kind != logger.Error {
			continue
		}
		line, col := 0, 0
		if msg.Data.Location != nil {
			line, col = msg.Data.Location.Line, msg.Data.Location.Column
		}
		return &Diagnostic{Stage: "parser", File: source.PrettyPath, Line: line, Column: col, Message: msg.Data.Text}
	}
	return &Diagnostic{Stage: "parser", File: source.PrettyPath, Message: "parsing failed for an unknown reason"}
}

func lineAndColumn(source logger.Source, loc logger.Loc) (line, column int) {
	if msgLoc := logger.LocationOrNil(&source, logger.Range{Loc: loc}); msgLoc != nil {
		return msgLoc.Line, msgLoc.Column
	}
	return 0, 0
}
