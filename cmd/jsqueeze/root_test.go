package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func resetFlags() {
	flagOutput = ""
	flagConfig = ""
	flagVerbose = false
}

func TestRootCmdWritesMinifiedOutputToStdout(t *testing.T) {
	resetFlags()
	dir := t.TempDir()
	inputPath := filepath.Join(dir, "in.js")
	if err := os.WriteFile(inputPath, []byte("function f(a,b){return a+b*2;}"), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{inputPath})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if out.String() != "function f(a,b){return a+b*2;}" {
		t.Fatalf("got %q", out.String())
	}
}

func TestRootCmdWritesToOutputFile(t *testing.T) {
	resetFlags()
	dir := t.TempDir()
	inputPath := filepath.Join(dir, "in.js")
	outputPath := filepath.Join(dir, "out.js")
	if err := os.WriteFile(inputPath, []byte("let x = 1+2;"), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	cmd := newRootCmd()
	cmd.SetArgs([]string{"-o", outputPath, inputPath})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	got, err := os.ReadFile(outputPath)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	if string(got) != "let x=3;" {
		t.Fatalf("got %q", got)
	}
}

func TestRootCmdReportsDiagnosticForUnreadableInput(t *testing.T) {
	resetFlags()
	cmd := newRootCmd()
	cmd.SetArgs([]string{filepath.Join(t.TempDir(), "missing.js")})
	if err := cmd.Execute(); err == nil {
		t.Fatalf("expected an error for a missing input file")
	}
}

func TestRootCmdReportsDiagnosticForSyntaxError(t *testing.T) {
	resetFlags()
	dir := t.TempDir()
	inputPath := filepath.Join(dir, "broken.js")
	if err := os.WriteFile(inputPath, []byte("function f( {"), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	cmd := newRootCmd()
	cmd.SetArgs([]string{inputPath})
	if err := cmd.Execute(); err == nil {
		t.Fatalf("expected an error for malformed input")
	}
}
