// Package jsqueeze exposes jsqueeze's minifier as a Go API, so a caller can
// invoke it in-process instead of spawning the jsqueeze binary as a child
// process. Grounded on the teacher's pkg/api, which exists for exactly this
// reason; cmd/jsqueeze is itself just a thin CLI wrapper around this
// package, the same relationship the teacher's cmd/esbuild has to pkg/api.
package jsqueeze

import (
	"fmt"

	"github.com/jsqueeze/jsqueeze/internal/config"
	"github.com/jsqueeze/jsqueeze/internal/driver"
	"github.com/jsqueeze/jsqueeze/internal/logger"
)

// Format controls the whitespace and statement layout of the minified
// output (§6).
type Format uint8

const (
	FormatCompact Format = iota
	FormatReadable
	FormatPretty
)

// SemicolonMode controls whether ASI-eligible semicolons are kept (§6).
type SemicolonMode uint8

const (
	SemicolonAuto SemicolonMode = iota
	SemicolonAlways
	SemicolonRemove
)

// QuotePreference controls which quote character string literals use (§6).
type QuotePreference uint8

const (
	QuoteAuto QuotePreference = iota
	QuoteSingle
	QuoteDouble
)

// SourceMapMode selects the §4.4 source map output shape.
type SourceMapMode uint8

const (
	SourceMapNone SourceMapMode = iota
	SourceMapInline
	SourceMapExternal
)

// PreserveComments selects which comments survive minification (§6).
type PreserveComments uint8

const (
	PreserveCommentsNone PreserveComments = iota
	PreserveCommentsLicense
	PreserveCommentsAll
)

// Options configures a single Minify call. The zero value matches the
// documented CLI defaults (§6): compact format, auto semicolons and quotes,
// no source map, no preserved comments.
type Options struct {
	SourceFile        string
	Format            Format
	Semicolon         SemicolonMode
	Quote             QuotePreference
	PreserveComments  PreserveComments
	SourceMap         SourceMapMode
	MaxLineLen        int
	AsciiOnly         bool
	StatementMappings bool // coarser source map granularity; token-level by default
}

// Result is what Minify returns on success.
type Result struct {
	JS []byte

	// Map is the raw source map JSON, present whenever Options.SourceMap
	// requests one. For SourceMapInline it is also appended to JS as a
	// "//# sourceMappingURL=" data URL comment; for SourceMapExternal the
	// caller is responsible for writing it out and linking it.
	Map []byte

	// PassRewrites reports how many rewrites each of the five transformer
	// passes made, in pipeline order (§4.2).
	PassRewrites map[string]int
}

// Error is returned by Minify when any pipeline stage reports a fatal
// diagnostic (§7). It carries enough detail for a caller to build its own
// "file:line:column: message" report, or to use Error() directly.
type Error struct {
	Stage   string
	File    string
	Line    int
	Column  int
	Message string
}

func (e *Error) Error() string {
	if e.Line == 0 && e.Column == 0 {
		return fmt.Sprintf("%s: %s: %s", e.Stage, e.File, e.Message)
	}
	return fmt.Sprintf("%s:%d:%d: %s: %s", e.File, e.Line, e.Column, e.Stage, e.Message)
}

// Minify runs the full pipeline over contents and returns the minified
// result, or an *Error describing the first stage that failed.
func Minify(contents string, options Options) (Result, error) {
	resolved, err := toResolved(options)
	if err != nil {
		return Result{}, &Error{Stage: "options", Message: err.Error()}
	}

	sourceFile := options.SourceFile
	if sourceFile == "" {
		sourceFile = "<input>"
	}
	source := logger.Source{Contents: contents, PrettyPath: sourceFile}

	out, diag := driver.Run(source, resolved)
	if diag != nil {
		return Result{}, &Error{Stage: diag.Stage, File: diag.File, Line: diag.Line, Column: diag.Column, Message: diag.Message}
	}

	js := out.JS
	if options.SourceMap == SourceMapInline && out.MapComment != "" {
		js = append(append(append([]byte{}, js...), '\n'), []byte(out.MapComment)...)
	}

	result := Result{JS: js, PassRewrites: make(map[string]int, len(out.Stats.Passes))}
	if out.Map != nil {
		mapData, err := out.Map.Marshal(true)
		if err != nil {
			return Result{}, &Error{Stage: "sourcemap", File: sourceFile, Message: err.Error()}
		}
		result.Map = mapData
	}
	for _, pass := range out.Stats.Passes {
		result.PassRewrites[pass.Name] = pass.Rewrites
	}
	return result, nil
}

func toResolved(options Options) (config.Resolved, error) {
	cfg := config.Config{
		Format:     formatString(options.Format),
		Semicolon:  semicolonString(options.Semicolon),
		Quote:      quoteString(options.Quote),
		SourceMap:  sourceMapString(options.SourceMap),
		MaxLineLen: options.MaxLineLen,
	}
	if options.AsciiOnly {
		cfg.CharsetEscapes = "ascii_only"
	}
	if options.StatementMappings {
		cfg.MappingGranularity = "statement"
	}
	switch options.PreserveComments {
	case PreserveCommentsLicense:
		cfg.PreserveComments = "license"
	case PreserveCommentsAll:
		cfg.PreserveComments = "all"
	}
	return config.Resolve(cfg)
}

func formatString(f Format) string {
	switch f {
	case FormatReadable:
		return "readable"
	case FormatPretty:
		return "pretty"
	default:
		return "compact"
	}
}

func semicolonString(s SemicolonMode) string {
	switch s {
	case SemicolonAlways:
		return "always"
	case SemicolonRemove:
		return "remove"
	default:
		return "auto"
	}
}

func quoteString(q QuotePreference) string {
	switch q {
	case QuoteSingle:
		return "single"
	case QuoteDouble:
		return "double"
	default:
		return "auto"
	}
}

func sourceMapString(m SourceMapMode) string {
	switch m {
	case SourceMapInline:
		return "inline"
	case SourceMapExternal:
		return "file"
	default:
		return "none"
	}
}
