package analyzer

import (
	"testing"

	"github.com/jsqueeze/jsqueeze/internal/ast"
	"github.com/jsqueeze/jsqueeze/internal/js_ast"
	"github.com/jsqueeze/jsqueeze/internal/js_parser"
	"github.com/jsqueeze/jsqueeze/internal/logger"
)

func analyzeForTest(t *testing.T, contents string) (*js_ast.Program, *Result) {
	t.Helper()
	log := logger.NewDeferLog()
	source := logger.Source{Contents: contents, PrettyPath: "<test>"}
	program, ok := js_parser.Parse(log, source)
	if !ok || program == nil {
		t.Fatalf("failed to parse %q", contents)
	}
	result, err := Analyze(program, source)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	return program, result
}

func findSymbol(result *Result, name string) (js_ast.Symbol, bool) {
	for _, sym := range result.Symbols.Symbols {
		if sym.OriginalName == name {
			return sym, true
		}
	}
	return js_ast.Symbol{}, false
}

func TestAnalyzeHoistsVarToFunctionScope(t *testing.T) {
	_, result := analyzeForTest(t, "function f(){if(true){var x=1;}return x;}")
	sym, ok := findSymbol(result, "x")
	if !ok {
		t.Fatalf("expected symbol x to be declared")
	}
	declScope := result.Scopes.Get(sym.DeclScope)
	if declScope.Kind != js_ast.ScopeFunction {
		t.Fatalf("expected var x hoisted to the function scope, got kind %v", declScope.Kind)
	}
}

func TestAnalyzeKeepsLetInBlockScope(t *testing.T) {
	_, result := analyzeForTest(t, "function f(){if(true){let y=1;}}")
	sym, ok := findSymbol(result, "y")
	if !ok {
		t.Fatalf("expected symbol y to be declared")
	}
	declScope := result.Scopes.Get(sym.DeclScope)
	if declScope.Kind != js_ast.ScopeBlock {
		t.Fatalf("expected let y to stay in its block scope, got kind %v", declScope.Kind)
	}
}

func TestAnalyzeMarksCaptureAcrossFunctionBoundary(t *testing.T) {
	_, result := analyzeForTest(t, "function outer(){var x=1;return function(){return x;};}")
	sym, ok := findSymbol(result, "x")
	if !ok {
		t.Fatalf("expected symbol x to be declared")
	}
	if !sym.Flags.Has(js_ast.FlagIsCaptured) {
		t.Fatalf("expected x to be marked captured")
	}
}

func TestAnalyzeDoesNotMarkCaptureWithinSameFunction(t *testing.T) {
	_, result := analyzeForTest(t, "function f(){var x=1;return x+1;}")
	sym, ok := findSymbol(result, "x")
	if !ok {
		t.Fatalf("expected symbol x to be declared")
	}
	if sym.Flags.Has(js_ast.FlagIsCaptured) {
		t.Fatalf("expected x to not be captured (same-function use)")
	}
}

func TestAnalyzeRecordsUnresolvedReferenceAsFreeGlobal(t *testing.T) {
	_, result := analyzeForTest(t, "function f(){return undeclaredName;}")
	found := false
	for _, g := range result.Flags.FreeGlobals {
		if g == "undeclaredName" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected undeclaredName to be recorded as a free global, got %v", result.Flags.FreeGlobals)
	}
}

func TestAnalyzeMarksEvalUsageAndPropagatesUpward(t *testing.T) {
	_, result := analyzeForTest(t, "function outer(){function inner(){eval(\"1\");}var x=1;return x;}")
	sym, ok := findSymbol(result, "x")
	if !ok {
		t.Fatalf("expected symbol x to be declared")
	}
	if sym.Flags.Has(js_ast.FlagIsRenamable) {
		t.Fatalf("expected x in the outer scope to lose renamability once eval in a nested scope propagates upward")
	}
}

func TestAnalyzeMarksDynamicThisInOrdinaryFunction(t *testing.T) {
	_, result := analyzeForTest(t, "function f(){return this;}")
	scope, ok := firstFunctionScope(result)
	if !ok {
		t.Fatalf("expected at least one function scope")
	}
	reason, ok := result.Flags.UnsafeScopes[scope]
	if !ok || reason != js_ast.DynamicThis {
		t.Fatalf("expected the function scope to be marked DynamicThis, got %v/%v", reason, ok)
	}
}

func firstFunctionScope(result *Result) (ast.ScopeId, bool) {
	for i := range result.Scopes.Scopes {
		id := ast.ScopeId(i)
		if result.Scopes.Get(id).Kind == js_ast.ScopeFunction {
			return id, true
		}
	}
	return 0, false
}

func TestAnalyzeKeepsExportedSymbolUnrenamable(t *testing.T) {
	_, result := analyzeForTest(t, "export const value = 42;")
	sym, ok := findSymbol(result, "value")
	if !ok {
		t.Fatalf("expected symbol value to be declared")
	}
	if !sym.Flags.Has(js_ast.FlagIsExported) {
		t.Fatalf("expected value to be flagged exported")
	}
	if sym.Flags.Has(js_ast.FlagIsRenamable) {
		t.Fatalf("expected an exported symbol to not be renamable")
	}
}

func TestAnalyzeShadowingResolvesToNearestDeclaration(t *testing.T) {
	program, result := analyzeForTest(t, "function outer(){var x=1;function inner(){var x=2;return x;}return x;}")

	outer, ok := program.Stmts[0].Data.(*js_ast.SFunction)
	if !ok || outer.Fn.Name == nil || outer.Fn.Name.Name != "outer" {
		t.Fatalf("expected the program's first statement to be function outer")
	}

	var inner *js_ast.Fn
	for _, s := range outer.Fn.Body {
		if fn, ok := s.Data.(*js_ast.SFunction); ok && fn.Fn.Name != nil && fn.Fn.Name.Name == "inner" {
			inner = &fn.Fn
		}
	}
	if inner == nil {
		t.Fatalf("expected to find nested function inner")
	}

	var innerReturnLoc logger.Loc
	for _, s := range inner.Body {
		if ret, ok := s.Data.(*js_ast.SReturn); ok {
			innerReturnLoc = ret.ValueOrNil.Loc
		}
	}
	if innerReturnLoc == (logger.Loc{}) {
		t.Fatalf("expected to find inner's return statement")
	}

	resolvedId, ok := result.Resolve[innerReturnLoc]
	if !ok {
		t.Fatalf("expected inner's return x to resolve to a symbol")
	}
	resolvedSym := result.Symbols.Get(resolvedId)
	declScope := result.Scopes.Get(resolvedSym.DeclScope)
	if declScope.Kind != js_ast.ScopeFunction {
		t.Fatalf("expected inner's x to resolve to its own declaration, not outer's")
	}
	if resolvedSym.Flags.Has(js_ast.FlagIsCaptured) {
		t.Fatalf("expected inner's own x to not be reported as captured")
	}
}
