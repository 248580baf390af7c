package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jsqueeze/jsqueeze/internal/compat"
	"github.com/jsqueeze/jsqueeze/internal/js_printer"
)

func TestResolveDefaultsMatchDocumentedZeroValue(t *testing.T) {
	r, err := Resolve(Config{})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if r.Ecma != compat.Latest {
		t.Fatalf("expected default ecma Latest, got %v", r.Ecma)
	}
	if r.Format != js_printer.FormatCompact {
		t.Fatalf("expected default format Compact, got %v", r.Format)
	}
	if r.Semicolon != js_printer.SemicolonAuto {
		t.Fatalf("expected default semicolon Auto, got %v", r.Semicolon)
	}
	if r.SourceMap != SourceMapNone {
		t.Fatalf("expected default source_map None, got %v", r.SourceMap)
	}
}

func TestResolveRejectsUnknownEnumValue(t *testing.T) {
	_, err := Resolve(Config{Format: "ridiculous"})
	if err == nil {
		t.Fatalf("expected an error for an unrecognized format value")
	}
}

func TestResolveParsesEveryDocumentedValue(t *testing.T) {
	r, err := Resolve(Config{
		Ecma:               "es5",
		Format:             "pretty",
		Semicolon:          "remove",
		Quote:              "single",
		PreserveComments:   "license",
		SourceMap:          "inline",
		CharsetEscapes:     "ascii_only",
		MappingGranularity: "statement",
		MaxLineLen:         80,
	})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if r.Ecma != compat.ES5 {
		t.Fatalf("expected ES5, got %v", r.Ecma)
	}
	if r.Format != js_printer.FormatPretty {
		t.Fatalf("expected FormatPretty, got %v", r.Format)
	}
	if r.Semicolon != js_printer.SemicolonRemove {
		t.Fatalf("expected SemicolonRemove, got %v", r.Semicolon)
	}
	if r.Quote != js_printer.QuoteSingle {
		t.Fatalf("expected QuoteSingle, got %v", r.Quote)
	}
	if r.PreserveComments != PreserveCommentsLicense {
		t.Fatalf("expected PreserveCommentsLicense, got %v", r.PreserveComments)
	}
	if r.SourceMap != SourceMapInline {
		t.Fatalf("expected SourceMapInline, got %v", r.SourceMap)
	}
	if r.CharsetEscapes != js_printer.CharsetAsciiOnly {
		t.Fatalf("expected CharsetAsciiOnly, got %v", r.CharsetEscapes)
	}
	if r.MaxLineLen != 80 {
		t.Fatalf("expected MaxLineLen 80, got %d", r.MaxLineLen)
	}
}

func TestLoadMissingFileReturnsZeroValue(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err != nil {
		t.Fatalf("Load on a missing file should not error, got: %v", err)
	}
	if cfg != (Config{}) {
		t.Fatalf("expected zero-value Config, got %+v", cfg)
	}
}

func TestLoadParsesYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "jsqueeze.yaml")
	contents := "format: pretty\nquote: double\nmax_line_len: 100\n"
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Format != "pretty" || cfg.Quote != "double" || cfg.MaxLineLen != 100 {
		t.Fatalf("unexpected parsed config: %+v", cfg)
	}
}

func TestPrinterOptionsHonorsSourceMapEnabledFlag(t *testing.T) {
	r, err := Resolve(Config{SourceMap: "file"})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if opts := r.PrinterOptions(false); opts.SourceMap {
		t.Fatalf("expected SourceMap false when the driver disables it regardless of config")
	}
	if opts := r.PrinterOptions(true); !opts.SourceMap {
		t.Fatalf("expected SourceMap true when both config and driver enable it")
	}
}
