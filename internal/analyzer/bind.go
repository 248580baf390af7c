package analyzer

import (
	"github.com/jsqueeze/jsqueeze/internal/ast"
	"github.com/jsqueeze/jsqueeze/internal/js_ast"
)

// bindStmts is sub-phase 2 of Pass A: in lexical order, declare let/const/
// class/parameter/import bindings and record every identifier occurrence as
// a reference against the symbol resolved by walking the ancestor chain.
func (b *binder) bindStmts(stmts []js_ast.Stmt, scope ast.ScopeId) *Error {
	for _, stmt := range stmts {
		if err := b.bindStmt(stmt, scope); err != nil {
			return err
		}
	}
	return nil
}

// blockContainsLexicalDecl reports whether a statement list directly (not
// through a nested block) contains a let/const/class/function declaration,
// which is the trigger for giving a block its own Scope (§4.1 Pass A).
func blockContainsLexicalDecl(stmts []js_ast.Stmt) bool {
	for _, stmt := range stmts {
		switch s := stmt.Data.(type) {
		case *js_ast.SVar:
			if s.Kind != js_ast.VarVar {
				return true
			}
		case *js_ast.SFunction, *js_ast.SClass:
			return true
		}
	}
	return false
}

// bindBlockish binds a statement that appears in a body position (if/while/
// for/bare block), opening a fresh child Scope only when the block itself
// needs one.
func (b *binder) bindBlockish(stmt js_ast.Stmt, scope ast.ScopeId) *Error {
	block, ok := stmt.Data.(*js_ast.SBlock)
	if !ok {
		return b.bindStmt(stmt, scope)
	}
	if !blockContainsLexicalDecl(block.Stmts) {
		return b.bindStmts(block.Stmts, scope)
	}
	child := b.scopes.NewScope(scope, js_ast.ScopeBlock)
	return b.bindStmts(block.Stmts, child)
}

func (b *binder) bindStmt(stmt js_ast.Stmt, scope ast.ScopeId) *Error {
	switch s := stmt.Data.(type) {
	case *js_ast.SVar:
		for i := range s.Decls {
			decl := &s.Decls[i]
			if s.Kind != js_ast.VarVar {
				kind := js_ast.SymbolLet
				if s.Kind == js_ast.VarConst {
					kind = js_ast.SymbolConst
				}
				id, err := b.declare(scope, decl.Binding.Loc, decl.Binding.Name, kind, false)
				if err != nil {
					return err
				}
				if s.IsExport {
					b.symbols.Get(id).Flags |= js_ast.FlagIsExported
				}
			} else if s.IsExport {
				if id, ok := b.lookup(scope, decl.Binding.Name); ok {
					b.symbols.Get(id).Flags |= js_ast.FlagIsExported
				}
			}
			if decl.ValueOrNil.Data != nil {
				b.bindExpr(decl.ValueOrNil, scope)
			}
		}
		return nil

	case *js_ast.SFunction:
		if s.IsExport && s.Fn.Name != nil {
			if id, ok := b.lookup(scope, s.Fn.Name.Name); ok {
				b.symbols.Get(id).Flags |= js_ast.FlagIsExported
			}
		}
		return b.bindFunction(&s.Fn, scope)

	case *js_ast.SClass:
		if s.Class.Name != nil {
			id, err := b.declare(scope, s.Class.Name.Loc, s.Class.Name.Name, js_ast.SymbolClass, false)
			if err != nil {
				return err
			}
			if s.IsExport {
				b.symbols.Get(id).Flags |= js_ast.FlagIsExported
			}
		}
		return b.bindClass(&s.Class, scope)

	case *js_ast.SExpr:
		b.bindExpr(s.Value, scope)
	case *js_ast.SReturn:
		if s.ValueOrNil.Data != nil {
			b.bindExpr(s.ValueOrNil, scope)
		}
	case *js_ast.SThrow:
		b.bindExpr(s.Value, scope)
	case *js_ast.SBlock:
		return b.bindBlockish(stmt, scope)

	case *js_ast.SIf:
		b.bindExpr(s.Test, scope)
		if err := b.bindBlockish(s.Yes, scope); err != nil {
			return err
		}
		if s.NoOrNil.Data != nil {
			return b.bindBlockish(s.NoOrNil, scope)
		}
	case *js_ast.SWhile:
		b.bindExpr(s.Test, scope)
		return b.bindBlockish(s.Body, scope)

	case *js_ast.SFor:
		forScope := scope
		if v, ok := s.InitOrNil.Data.(*js_ast.SVar); ok && v.Kind != js_ast.VarVar {
			forScope = b.scopes.NewScope(scope, js_ast.ScopeBlock)
		}
		if s.InitOrNil.Data != nil {
			if err := b.bindStmt(s.InitOrNil, forScope); err != nil {
				return err
			}
		}
		if s.TestOrNil.Data != nil {
			b.bindExpr(s.TestOrNil, forScope)
		}
		if s.UpdateOrNil.Data != nil {
			b.bindExpr(s.UpdateOrNil, forScope)
		}
		return b.bindBlockish(s.Body, forScope)

	case *js_ast.SBreak, *js_ast.SContinue:
		// No expression to bind.

	case *js_ast.SImport:
		if s.Clause.DefaultNameOrNil != nil {
			if _, err := b.declare(scope, s.Clause.DefaultNameOrNil.Loc, s.Clause.DefaultNameOrNil.Name, js_ast.SymbolImport, false); err != nil {
				return err
			}
		}
		if s.Clause.NamespaceOrNil != nil {
			if _, err := b.declare(scope, s.Clause.NamespaceOrNil.Loc, s.Clause.NamespaceOrNil.Name, js_ast.SymbolImport, false); err != nil {
				return err
			}
		}
		for _, name := range s.Clause.Names {
			if _, err := b.declare(scope, name.Loc, name.Name, js_ast.SymbolImport, false); err != nil {
				return err
			}
		}

	case *js_ast.SExportClause:
		for i := range s.Names {
			n := &s.Names[i]
			if id, ok := b.lookup(scope, n.LocalName); ok {
				sym := b.symbols.Get(id)
				sym.Flags |= js_ast.FlagIsExported
				b.resolve[n.Loc] = id
			} else {
				b.addFreeGlobal(n.LocalName)
			}
		}

	case *js_ast.SExportDefault:
		if s.ValueOrNil.Data != nil {
			b.bindExpr(s.ValueOrNil, scope)
		}
		if s.FnOrNil != nil {
			return b.bindFunction(s.FnOrNil, scope)
		}
		if s.ClassOrNil != nil {
			return b.bindClass(s.ClassOrNil, scope)
		}
	}
	return nil
}

// bindFunction opens a new function scope, declares its parameters and binds
// its body. Parameters are declared with redeclOK=true: sloppy-mode
// JavaScript tolerates duplicate parameter names, and the analyzer does not
// separately enforce strict-mode restrictions not named in the spec.
func (b *binder) bindFunction(fn *js_ast.Fn, parentScope ast.ScopeId) *Error {
	fnScope := b.scopes.NewScope(parentScope, js_ast.ScopeFunction)
	b.scopes.Get(fnScope).IsArrow = fn.IsArrow
	for i := range fn.Args {
		arg := &fn.Args[i]
		if _, err := b.declare(fnScope, arg.Binding.Loc, arg.Binding.Name, js_ast.SymbolParameter, true); err != nil {
			return err
		}
		if arg.DefaultOrNil.Data != nil {
			b.bindExpr(arg.DefaultOrNil, fnScope)
		}
	}
	if err := b.hoistStmts(fn.Body, fnScope); err != nil {
		return err
	}
	return b.bindStmts(fn.Body, fnScope)
}

func (b *binder) bindClass(class *js_ast.Class, parentScope ast.ScopeId) *Error {
	if class.ExtendsOrNil.Data != nil {
		b.bindExpr(class.ExtendsOrNil, parentScope)
	}
	classScope := b.scopes.NewScope(parentScope, js_ast.ScopeClass)
	for i := range class.Methods {
		m := &class.Methods[i]
		if err := b.bindFunction(&m.Fn, classScope); err != nil {
			return err
		}
	}
	return nil
}
