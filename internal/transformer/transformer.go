// Package transformer implements stage 3 of the pipeline (§2, §4.2): a fixed
// sequence of five whole-tree rewrite passes run over the analyzer's output,
// each guarded by a rollback checkpoint. The pass/checkpoint shape is
// grounded on the teacher's linker "link + scan" staging (internal/linker),
// adapted here to the spec's smaller five-pass pipeline; since passes build
// a fresh statement slice rather than mutating nodes in place, a checkpoint
// is simply the pre-pass *js_ast.Program — restoring it is a pointer
// assignment, never a deep clone.
package transformer

import (
	"fmt"

	"github.com/jsqueeze/jsqueeze/internal/analyzer"
	"github.com/jsqueeze/jsqueeze/internal/js_ast"
	"github.com/jsqueeze/jsqueeze/internal/renamer"
)

// Options configures the transformer. Passes 4 and 5 (§4.2) make no
// rewrites whatever these options say.
type Options struct {
	// Rollback enables the pre-pass checkpoint and post-pass validation.
	// Disabling it is only useful for benchmarking; the spec default is on.
	Rollback bool

	// AggressiveOptimization is accepted but not read by Transform: pass 4
	// (property minification) makes no rewrites whether or not it is set,
	// and no property is ever renamed.
	AggressiveOptimization bool

	// InlineFunctions is accepted but not read by Transform: pass 5
	// (function minification) makes no rewrites whether or not it is set,
	// and no function is ever inlined.
	InlineFunctions bool
}

// DefaultOptions matches the spec's documented safe default: rollback
// enabled, both optimization passes off.
func DefaultOptions() Options {
	return Options{Rollback: true}
}

// PassStats reports what a single pass did.
type PassStats struct {
	Name       string
	Rewrites   int
	RolledBack bool
}

// Stats aggregates every pass's PassStats, in pipeline order.
type Stats struct {
	Passes []PassStats
}

// ErrorKind enumerates the TransformError taxonomy from §7. RollbackRequired
// never reaches the caller: runPass catches it and restores the checkpoint.
type ErrorKind uint8

const (
	InvalidState ErrorKind = iota
	PassFailure
)

func (k ErrorKind) String() string {
	if k == InvalidState {
		return "InvalidState"
	}
	return "PassFailure"
}

// Error is a fatal TransformError: the whole transformation aborts.
type Error struct {
	Kind ErrorKind
	Pass string
	Text string
}

func (e *Error) Error() string { return fmt.Sprintf("%s in pass %q: %s", e.Kind, e.Pass, e.Text) }

// Transform runs the five passes of §4.2 in order over program, using the
// ScopeTree/SymbolTable/SemanticFlags the analyzer produced. It returns the
// rewritten program, per-pass statistics, and a fatal *Error if a pass
// reports PassFailure or InvalidState (RollbackRequired never escapes here).
func Transform(program *js_ast.Program, result *analyzer.Result, opts Options) (*js_ast.Program, Stats, *Error) {
	var stats Stats
	current := program

	// Pass 1: identifier renaming. This pass doesn't touch the AST at all —
	// it only fills in Symbol.RenamedTo, which the printer consults instead
	// of OriginalName (§3 "renames via a rename-map, not by mutating the
	// original-name field"). There is nothing to roll back: a rename-map
	// entry can't violate a scope/reference invariant that didn't already
	// hold before the pass ran.
	renamer.Rename(result.Scopes, result.Symbols)
	renamed := 0
	for i := range result.Symbols.Symbols {
		if result.Symbols.Symbols[i].RenamedTo != "" {
			renamed++
		}
	}
	stats.Passes = append(stats.Passes, PassStats{Name: "identifier-renaming", Rewrites: renamed})

	// Pass 2: dead-code elimination.
	next, _, ps, err := runPass(opts, current, "dead-code-elimination", func(p *js_ast.Program) (*js_ast.Program, int, error) {
		return eliminateDeadCode(p, result.Symbols, result.Resolve)
	})
	if err != nil {
		return nil, stats, err
	}
	current = next
	stats.Passes = append(stats.Passes, ps)

	// Pass 3: expression simplification.
	next, _, ps, err = runPass(opts, current, "expression-simplification", func(p *js_ast.Program) (*js_ast.Program, int, error) {
		return simplifyExpressions(p)
	})
	if err != nil {
		return nil, stats, err
	}
	current = next
	stats.Passes = append(stats.Passes, ps)

	// Pass 4: property minification. Always a no-op: a whole-program
	// closed-world assumption can't be established for a single file in
	// isolation (§1 Non-goal iv) even when AggressiveOptimization is set, so
	// this pass only records that it ran, making no rewrites.
	stats.Passes = append(stats.Passes, PassStats{Name: "property-minification"})

	// Pass 5: function minification. Always a no-op, including when
	// InlineFunctions is set: it only records that it ran.
	stats.Passes = append(stats.Passes, PassStats{Name: "function-minification"})

	return current, stats, nil
}

// runPass wraps a single pass with the rollback checkpoint/validation
// described in §4.2: fn receives the current program and returns a new one
// plus a rewrite count, or an error. If opts.Rollback is set and the
// resulting program fails validate, the checkpoint (the pre-pass program)
// is restored and the pass is reported RolledBack rather than erroring —
// matching "RollbackRequired... does not propagate".
func runPass(opts Options, current *js_ast.Program, name string, fn func(*js_ast.Program) (*js_ast.Program, int, error)) (*js_ast.Program, int, PassStats, *Error) {
	checkpoint := current

	next, rewrites, err := fn(current)
	if err != nil {
		return nil, 0, PassStats{}, &Error{Kind: PassFailure, Pass: name, Text: err.Error()}
	}

	if opts.Rollback {
		if _, ok := validate(checkpoint, next); !ok {
			return checkpoint, 0, PassStats{Name: name, RolledBack: true}, nil
		}
	}

	return next, rewrites, PassStats{Name: name, Rewrites: rewrites}, nil
}

// validate checks the between-pass invariants §4.2 names: the rewritten
// program must not have grown (statement count is this tool's proxy for
// "program length ... in tokens", since a true token count would require
// re-running the printer between every pass). A real token count is kept as
// a documented simplification rather than implemented, to avoid coupling
// the transformer to the printer stage.
func validate(before, after *js_ast.Program) (string, bool) {
	if countStmts(after.Stmts) > countStmts(before.Stmts) {
		return "statement count increased", false
	}
	return "", true
}

func countStmts(stmts []js_ast.Stmt) int {
	n := len(stmts)
	for _, stmt := range stmts {
		switch s := stmt.Data.(type) {
		case *js_ast.SBlock:
			n += countStmts(s.Stmts)
		case *js_ast.SIf:
			n += countStmts([]js_ast.Stmt{s.Yes})
			if s.NoOrNil.Data != nil {
				n += countStmts([]js_ast.Stmt{s.NoOrNil})
			}
		case *js_ast.SWhile:
			n += countStmts([]js_ast.Stmt{s.Body})
		case *js_ast.SFor:
			n += countStmts([]js_ast.Stmt{s.Body})
		}
	}
	return n
}
