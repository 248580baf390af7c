package analyzer

import (
	"github.com/jsqueeze/jsqueeze/internal/ast"
	"github.com/jsqueeze/jsqueeze/internal/js_ast"
)

// hoistStmts pre-declares every "var" binding and function declaration that
// lexically belongs to `scope`, recursing through nested blocks and
// control-flow statements but never crossing a function/arrow boundary
// (§4.1 Pass A, sub-phase 1: Hoisting).
func (b *binder) hoistStmts(stmts []js_ast.Stmt, scope ast.ScopeId) *Error {
	for _, stmt := range stmts {
		if err := b.hoistStmt(stmt, scope); err != nil {
			return err
		}
	}
	return nil
}

func (b *binder) hoistStmt(stmt js_ast.Stmt, scope ast.ScopeId) *Error {
	switch s := stmt.Data.(type) {
	case *js_ast.SVar:
		if s.Kind == js_ast.VarVar {
			for _, decl := range s.Decls {
				if _, err := b.declare(scope, decl.Binding.Loc, decl.Binding.Name, js_ast.SymbolVar, true); err != nil {
					return err
				}
			}
		}
	case *js_ast.SFunction:
		if s.Fn.Name != nil {
			if _, err := b.declare(scope, s.Fn.Name.Loc, s.Fn.Name.Name, js_ast.SymbolFunction, true); err != nil {
				return err
			}
		}
	case *js_ast.SBlock:
		return b.hoistStmts(s.Stmts, scope)
	case *js_ast.SIf:
		if err := b.hoistStmt(s.Yes, scope); err != nil {
			return err
		}
		if s.NoOrNil.Data != nil {
			return b.hoistStmt(s.NoOrNil, scope)
		}
	case *js_ast.SWhile:
		return b.hoistStmt(s.Body, scope)
	case *js_ast.SFor:
		if s.InitOrNil.Data != nil {
			if err := b.hoistStmt(s.InitOrNil, scope); err != nil {
				return err
			}
		}
		return b.hoistStmt(s.Body, scope)
	}
	return nil
}
