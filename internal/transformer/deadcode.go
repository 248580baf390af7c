package transformer

import (
	"math"

	"github.com/jsqueeze/jsqueeze/internal/ast"
	"github.com/jsqueeze/jsqueeze/internal/js_ast"
	"github.com/jsqueeze/jsqueeze/internal/logger"
)

// eliminateDeadCode implements §4.2 pass 2: it drops statements that can
// never run (after a restricted-production terminator in the same block,
// or inside a branch whose test is a manifestly-constant literal) and
// bindings nothing reads. Function declaration bodies are processed too;
// function expressions, arrows and class methods are left as they are.
// Grounded on the teacher's DCE approach in
// internal/js_parser (isControlFlowDead-style reachability), adapted here to
// operate post-analysis over the already-bound tree instead of during
// parsing.
func eliminateDeadCode(program *js_ast.Program, symbols *js_ast.SymbolTable, resolve map[logger.Loc]ast.SymbolId) (*js_ast.Program, int, error) {
	rewrites := 0
	d := &deadCodePass{symbols: symbols, resolve: resolve, rewrites: &rewrites}
	return &js_ast.Program{Stmts: d.stmtList(program.Stmts), Kind: program.Kind}, rewrites, nil
}

type deadCodePass struct {
	symbols  *js_ast.SymbolTable
	resolve  map[logger.Loc]ast.SymbolId
	rewrites *int
}

// stmtList rewrites a statement sequence, dropping everything after the
// first statement that unconditionally transfers control out of the block.
func (d *deadCodePass) stmtList(stmts []js_ast.Stmt) []js_ast.Stmt {
	out := make([]js_ast.Stmt, 0, len(stmts))
	terminated := false
	for _, stmt := range stmts {
		if terminated {
			*d.rewrites++
			continue
		}
		out = append(out, d.stmt(stmt)...)
		if len(out) > 0 && isTerminalStmt(out[len(out)-1].Data) {
			terminated = true
		}
	}
	return out
}

func isTerminalStmt(s js_ast.S) bool {
	switch s.(type) {
	case *js_ast.SReturn, *js_ast.SThrow, *js_ast.SBreak, *js_ast.SContinue:
		return true
	}
	return false
}

// asSingleStmt folds a rewritten statement sequence back into the single
// Stmt slot an if/while/for body occupies, wrapping in a block only when
// more than one statement survives.
func asSingleStmt(loc logger.Loc, stmts []js_ast.Stmt) js_ast.Stmt {
	switch len(stmts) {
	case 0:
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SEmpty{}}
	case 1:
		return stmts[0]
	default:
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SBlock{Stmts: stmts}}
	}
}

// stmt rewrites one statement into zero or more replacement statements.
func (d *deadCodePass) stmt(stmt js_ast.Stmt) []js_ast.Stmt {
	switch s := stmt.Data.(type) {
	case *js_ast.SBlock:
		return []js_ast.Stmt{{Loc: stmt.Loc, Data: &js_ast.SBlock{Stmts: d.stmtList(s.Stmts)}}}

	case *js_ast.SVar:
		return d.varStmt(stmt.Loc, s)

	case *js_ast.SIf:
		return d.ifStmt(stmt.Loc, s)

	case *js_ast.SWhile:
		body := asSingleStmt(s.Body.Loc, d.stmt(s.Body))
		return []js_ast.Stmt{{Loc: stmt.Loc, Data: &js_ast.SWhile{Test: s.Test, Body: body}}}

	case *js_ast.SFor:
		body := asSingleStmt(s.Body.Loc, d.stmt(s.Body))
		return []js_ast.Stmt{{Loc: stmt.Loc, Data: &js_ast.SFor{InitOrNil: s.InitOrNil, TestOrNil: s.TestOrNil, UpdateOrNil: s.UpdateOrNil, Body: body}}}

	case *js_ast.SFunction:
		fn := s.Fn
		fn.Body = d.stmtList(s.Fn.Body)
		return []js_ast.Stmt{{Loc: stmt.Loc, Data: &js_ast.SFunction{Fn: fn, IsExport: s.IsExport}}}

	default:
		return []js_ast.Stmt{stmt}
	}
}

// varStmt drops declarators whose symbol is renamable, has zero references
// and is not declared in the root global scope (scope 0), where a script's
// bindings stay visible to other scripts. The analyzer clears
// FlagIsRenamable for exported and unsafe-scope bindings, so those are
// always kept. A dropped
// declarator with a side-effecting initializer survives as a bare
// expression statement instead of disappearing outright.
func (d *deadCodePass) varStmt(loc logger.Loc, s *js_ast.SVar) []js_ast.Stmt {
	var kept []js_ast.Decl
	var sideEffects []js_ast.Stmt

	for _, decl := range s.Decls {
		id, ok := d.resolve[decl.Binding.Loc]
		if ok {
			sym := d.symbols.Get(id)
			if sym.Flags.Has(js_ast.FlagIsRenamable) && len(sym.Refs) == 0 && sym.DeclScope != 0 {
				*d.rewrites++
				if decl.ValueOrNil.Data != nil && hasSideEffects(decl.ValueOrNil) {
					sideEffects = append(sideEffects, js_ast.Stmt{Loc: decl.Binding.Loc, Data: &js_ast.SExpr{Value: decl.ValueOrNil}})
				}
				continue
			}
		}
		kept = append(kept, decl)
	}

	var out []js_ast.Stmt
	if len(kept) > 0 {
		out = append(out, js_ast.Stmt{Loc: loc, Data: &js_ast.SVar{Kind: s.Kind, Decls: kept, IsExport: s.IsExport}})
	}
	out = append(out, sideEffects...)
	return out
}

// ifStmt folds a branch whose test is a manifestly-constant literal down to
// the taken side, and otherwise recurses into both arms.
func (d *deadCodePass) ifStmt(loc logger.Loc, s *js_ast.SIf) []js_ast.Stmt {
	if truthy, ok := constantTruthiness(s.Test); ok {
		*d.rewrites++
		if truthy {
			return d.stmt(s.Yes)
		}
		if s.NoOrNil.Data != nil {
			return d.stmt(s.NoOrNil)
		}
		return nil
	}

	yes := asSingleStmt(s.Yes.Loc, d.stmt(s.Yes))
	var no js_ast.Stmt
	if s.NoOrNil.Data != nil {
		no = asSingleStmt(s.NoOrNil.Loc, d.stmt(s.NoOrNil))
	}
	return []js_ast.Stmt{{Loc: loc, Data: &js_ast.SIf{Test: s.Test, Yes: yes, NoOrNil: no}}}
}

// constantTruthiness reports the JS-spec boolean coercion of expr when expr
// is a manifestly-constant literal, and false/false otherwise.
func constantTruthiness(expr js_ast.Expr) (truthy bool, ok bool) {
	switch v := expr.Data.(type) {
	case *js_ast.EBoolean:
		return v.Value, true
	case *js_ast.ENumber:
		return v.Value != 0 && !math.IsNaN(v.Value), true
	case *js_ast.EString:
		return v.Value != "", true
	case *js_ast.ENull:
		return false, true
	default:
		return false, false
	}
}

// hasSideEffects conservatively reports whether evaluating expr can do
// anything observable. Node kinds it doesn't recognize as pure (calls,
// assignments, updates, member access, new) are treated as side-effecting,
// since an incorrect "pure" verdict could drop an effect the program
// depends on, while an incorrect "impure" verdict only costs a few bytes.
func hasSideEffects(expr js_ast.Expr) bool {
	switch v := expr.Data.(type) {
	case *js_ast.ENumber, *js_ast.EString, *js_ast.EBoolean, *js_ast.ENull, *js_ast.EThis, *js_ast.EIdentifier, *js_ast.ERegExp:
		return false
	case *js_ast.EUnary:
		return hasSideEffects(v.Value)
	case *js_ast.EBinary:
		return hasSideEffects(v.Left) || hasSideEffects(v.Right)
	case *js_ast.EConditional:
		return hasSideEffects(v.Test) || hasSideEffects(v.Yes) || hasSideEffects(v.No)
	case *js_ast.EArray:
		for _, item := range v.Items {
			if hasSideEffects(item) {
				return true
			}
		}
		return false
	case *js_ast.ETemplate:
		for _, part := range v.Parts {
			if hasSideEffects(part.Value) {
				return true
			}
		}
		return false
	default:
		return true
	}
}
