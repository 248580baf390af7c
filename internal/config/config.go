// Package config defines the tool's configuration record (§6 "Configuration
// surface") and translates it into the per-stage Options structs the rest
// of the pipeline consumes. The struct/enum shape is grounded on the
// teacher's internal/config package; since this tool has no bundler to
// configure, the record itself is much smaller, so config file loading is
// grounded on the ecosystem's yaml.v3 rather than the teacher's hand-rolled
// JSON-with-comments parser.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/jsqueeze/jsqueeze/internal/compat"
	"github.com/jsqueeze/jsqueeze/internal/js_printer"
	"github.com/jsqueeze/jsqueeze/internal/sourcemap"
)

// SourceMapMode selects the §4.4 output mode for generated mappings.
type SourceMapMode uint8

const (
	SourceMapNone SourceMapMode = iota
	SourceMapFile
	SourceMapInline
	SourceMapIndexed
)

// PreserveComments selects which comments survive minification. License
// preserves any comment containing "@license" or the word "license".
type PreserveComments uint8

const (
	PreserveCommentsNone PreserveComments = iota
	PreserveCommentsLicense
	PreserveCommentsAll
)

// Config is the configuration record recognized by the CLI and config file
// (§6). Zero value matches the documented defaults: ecma=Latest,
// format=Compact, semicolon=Auto, quote=Auto, source_map=None,
// charset_escapes=Minimal, mapping_granularity=Token.
type Config struct {
	Ecma               string `yaml:"ecma"`
	Format             string `yaml:"format"`
	Semicolon          string `yaml:"semicolon"`
	Quote              string `yaml:"quote"`
	PreserveComments   string `yaml:"preserve_comments"`
	SourceMap          string `yaml:"source_map"`
	CharsetEscapes     string `yaml:"charset_escapes"`
	MappingGranularity string `yaml:"mapping_granularity"`
	MaxLineLen         int    `yaml:"max_line_len"`
}

// Resolved is Config after its string enums have been validated and parsed
// into the typed values the rest of the pipeline expects.
type Resolved struct {
	Ecma               compat.EcmaVersion
	Format             js_printer.Format
	Semicolon          js_printer.SemicolonMode
	Quote              js_printer.QuotePreference
	PreserveComments   PreserveComments
	SourceMap          SourceMapMode
	CharsetEscapes     js_printer.CharsetEscapes
	MappingGranularity sourcemap.Granularity
	MaxLineLen         int
}

// Load reads and parses a YAML config file at path. A missing file is not an
// error: the caller gets the documented zero-value defaults.
func Load(path string) (Config, error) {
	var cfg Config
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %q: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %q: %w", path, err)
	}
	return cfg, nil
}

// Resolve validates every string enum in c and converts it to the typed
// value the driver and printer consume. Unknown values surface as an error
// rather than silently falling back to a default: a typo in a config file
// should never be misread as an explicit choice.
func Resolve(c Config) (Resolved, error) {
	var r Resolved
	var err error

	if r.Ecma, err = parseEcma(c.Ecma); err != nil {
		return r, err
	}
	if r.Format, err = parseFormat(c.Format); err != nil {
		return r, err
	}
	if r.Semicolon, err = parseSemicolon(c.Semicolon); err != nil {
		return r, err
	}
	if r.Quote, err = parseQuote(c.Quote); err != nil {
		return r, err
	}
	if r.PreserveComments, err = parsePreserveComments(c.PreserveComments); err != nil {
		return r, err
	}
	if r.SourceMap, err = parseSourceMap(c.SourceMap); err != nil {
		return r, err
	}
	if r.CharsetEscapes, err = parseCharsetEscapes(c.CharsetEscapes); err != nil {
		return r, err
	}
	if r.MappingGranularity, err = parseMappingGranularity(c.MappingGranularity); err != nil {
		return r, err
	}
	r.MaxLineLen = c.MaxLineLen
	return r, nil
}

func parseEcma(s string) (compat.EcmaVersion, error) {
	switch s {
	case "", "latest", "Latest":
		return compat.Latest, nil
	case "es5", "ES5":
		return compat.ES5, nil
	case "es2015", "ES2015":
		return compat.ES2015, nil
	default:
		return 0, fmt.Errorf("unknown ecma %q (want es5, es2015 or latest)", s)
	}
}

func parseFormat(s string) (js_printer.Format, error) {
	switch s {
	case "", "compact", "Compact":
		return js_printer.FormatCompact, nil
	case "readable", "Readable":
		return js_printer.FormatReadable, nil
	case "pretty", "Pretty":
		return js_printer.FormatPretty, nil
	default:
		return 0, fmt.Errorf("unknown format %q (want compact, readable or pretty)", s)
	}
}

func parseSemicolon(s string) (js_printer.SemicolonMode, error) {
	switch s {
	case "", "auto", "Auto":
		return js_printer.SemicolonAuto, nil
	case "always", "Always":
		return js_printer.SemicolonAlways, nil
	case "remove", "Remove":
		return js_printer.SemicolonRemove, nil
	default:
		return 0, fmt.Errorf("unknown semicolon %q (want auto, always or remove)", s)
	}
}

func parseQuote(s string) (js_printer.QuotePreference, error) {
	switch s {
	case "", "auto", "Auto":
		return js_printer.QuoteAuto, nil
	case "single", "Single":
		return js_printer.QuoteSingle, nil
	case "double", "Double":
		return js_printer.QuoteDouble, nil
	default:
		return 0, fmt.Errorf("unknown quote %q (want auto, single or double)", s)
	}
}

func parsePreserveComments(s string) (PreserveComments, error) {
	switch s {
	case "", "none", "None":
		return PreserveCommentsNone, nil
	case "license", "License":
		return PreserveCommentsLicense, nil
	case "all", "All":
		return PreserveCommentsAll, nil
	default:
		return 0, fmt.Errorf("unknown preserve_comments %q (want none, license or all)", s)
	}
}

func parseSourceMap(s string) (SourceMapMode, error) {
	switch s {
	case "", "none", "None":
		return SourceMapNone, nil
	case "file", "File":
		return SourceMapFile, nil
	case "inline", "Inline":
		return SourceMapInline, nil
	case "indexed", "Indexed":
		return SourceMapIndexed, nil
	default:
		return 0, fmt.Errorf("unknown source_map %q (want none, file, inline or indexed)", s)
	}
}

func parseCharsetEscapes(s string) (js_printer.CharsetEscapes, error) {
	switch s {
	case "", "minimal", "Minimal":
		return js_printer.CharsetMinimal, nil
	case "ascii_only", "AsciiOnly", "ascii-only":
		return js_printer.CharsetAsciiOnly, nil
	default:
		return 0, fmt.Errorf("unknown charset_escapes %q (want minimal or ascii_only)", s)
	}
}

func parseMappingGranularity(s string) (sourcemap.Granularity, error) {
	switch s {
	case "", "token", "Token":
		return sourcemap.FullMapping, nil
	case "statement", "Statement":
		return sourcemap.LineMapping, nil
	default:
		return 0, fmt.Errorf("unknown mapping_granularity %q (want token or statement)", s)
	}
}

// PrinterOptions builds the js_printer.Options for this configuration. The
// caller supplies sourceMapEnabled separately; a source map is produced only
// when it is true and SourceMap is not SourceMapNone.
func (r Resolved) PrinterOptions(sourceMapEnabled bool) js_printer.Options {
	return js_printer.Options{
		Format:             r.Format,
		Semicolon:          r.Semicolon,
		Quote:              r.Quote,
		CharsetEscapes:     r.CharsetEscapes,
		MappingGranularity: r.MappingGranularity,
		MaxLineLen:         r.MaxLineLen,
		SourceMap:          sourceMapEnabled && r.SourceMap != SourceMapNone,
	}
}
