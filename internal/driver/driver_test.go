package driver

import (
	"strings"
	"testing"

	"github.com/jsqueeze/jsqueeze/internal/config"
	"github.com/jsqueeze/jsqueeze/internal/logger"
)

func resolvedForTest(t *testing.T, overrides config.Config) config.Resolved {
	t.Helper()
	resolved, err := config.Resolve(overrides)
	if err != nil {
		t.Fatalf("config.Resolve failed: %v", err)
	}
	return resolved
}

func TestRunMinifiesValidSource(t *testing.T) {
	source := logger.Source{Contents: "function f(a,b){return a+b*2;}", PrettyPath: "in.js"}
	out, diag := Run(source, resolvedForTest(t, config.Config{}))
	if diag != nil {
		t.Fatalf("unexpected diagnostic: %v", diag)
	}
	if string(out.JS) != "function f(a,b){return a+b*2;}" {
		t.Fatalf("got %q", out.JS)
	}
	if len(out.Stats.Passes) != 5 {
		t.Fatalf("expected 5 pass stats, got %d", len(out.Stats.Passes))
	}
}

func TestRunDropsDeadCodeAndFoldsConstants(t *testing.T) {
	source := logger.Source{Contents: "function f(){if(true){return 1+2;}else{return 0;}var unused=1;}", PrettyPath: "in.js"}
	out, diag := Run(source, resolvedForTest(t, config.Config{}))
	if diag != nil {
		t.Fatalf("unexpected diagnostic: %v", diag)
	}
	if string(out.JS) != "function f(){return 3;}" {
		t.Fatalf("got %q", out.JS)
	}
}

func TestRunReportsParseDiagnostic(t *testing.T) {
	source := logger.Source{Contents: "function f( {", PrettyPath: "broken.js"}
	out, diag := Run(source, resolvedForTest(t, config.Config{}))
	if out != nil {
		t.Fatalf("expected no output on a parse failure")
	}
	if diag == nil {
		t.Fatalf("expected a diagnostic")
	}
	if diag.Stage != "parser" {
		t.Fatalf("expected parser stage, got %q", diag.Stage)
	}
	if diag.File != "broken.js" {
		t.Fatalf("expected file name in diagnostic, got %q", diag.File)
	}
	if !strings.Contains(diag.Error(), "broken.js") {
		t.Fatalf("expected Error() to mention the file, got %q", diag.Error())
	}
}

func TestRunAttachesInlineSourceMapComment(t *testing.T) {
	source := logger.Source{Contents: "let x = 1;", PrettyPath: "in.js"}
	resolved := resolvedForTest(t, config.Config{SourceMap: "inline"})
	out, diag := Run(source, resolved)
	if diag != nil {
		t.Fatalf("unexpected diagnostic: %v", diag)
	}
	if out.Map == nil {
		t.Fatalf("expected a source map to be built")
	}
	if !strings.HasPrefix(out.MapComment, "//# sourceMappingURL=data:application/json") {
		t.Fatalf("expected an inline data URL comment, got %q", out.MapComment)
	}
}

func TestRunAttachesFileSourceMapComment(t *testing.T) {
	source := logger.Source{Contents: "let x = 1;", PrettyPath: "out.js"}
	resolved := resolvedForTest(t, config.Config{SourceMap: "file"})
	out, diag := Run(source, resolved)
	if diag != nil {
		t.Fatalf("unexpected diagnostic: %v", diag)
	}
	if out.MapComment != "//# sourceMappingURL=out.js.map" {
		t.Fatalf("got %q", out.MapComment)
	}
}

func TestRunLeavesNoSourceMapCommentByDefault(t *testing.T) {
	source := logger.Source{Contents: "let x = 1;", PrettyPath: "in.js"}
	out, diag := Run(source, resolvedForTest(t, config.Config{}))
	if diag != nil {
		t.Fatalf("unexpected diagnostic: %v", diag)
	}
	if out.Map != nil || out.MapComment != "" {
		t.Fatalf("expected no source map by default")
	}
}
