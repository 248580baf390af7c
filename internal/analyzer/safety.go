package analyzer

import (
	"github.com/jsqueeze/jsqueeze/internal/ast"
	"github.com/jsqueeze/jsqueeze/internal/js_ast"
)

// safetyPass is Pass B (§4.1): a second walk over the already-bound tree
// that marks scopes unsafe for the reasons enumerated in UnsafeReason. It
// runs after Pass A has finished so that every EIdentifier has already been
// resolved into b.resolve and every Scope's Members are final.
type safetyPass struct {
	b *binder

	// cursors tracks, per parent scope, how many of its Children have
	// already been matched to a statement during this walk (see
	// nextChildOfKind).
	cursors map[ast.ScopeId]int
}

func (c *safetyPass) walkStmts(stmts []js_ast.Stmt, scope ast.ScopeId) {
	for _, stmt := range stmts {
		c.walkStmt(stmt, scope)
	}
}

func (c *safetyPass) walkStmt(stmt js_ast.Stmt, scope ast.ScopeId) {
	switch s := stmt.Data.(type) {
	case *js_ast.SVar:
		for i := range s.Decls {
			if s.Decls[i].ValueOrNil.Data != nil {
				c.walkExpr(s.Decls[i].ValueOrNil, scope)
			}
		}
	case *js_ast.SFunction:
		c.walkFunction(&s.Fn, scope)
	case *js_ast.SClass:
		c.walkClass(&s.Class, scope)
	case *js_ast.SExpr:
		c.walkExpr(s.Value, scope)
	case *js_ast.SReturn:
		if s.ValueOrNil.Data != nil {
			c.walkExpr(s.ValueOrNil, scope)
		}
	case *js_ast.SThrow:
		c.walkExpr(s.Value, scope)
	case *js_ast.SBlock:
		c.walkStmts(s.Stmts, c.childScopeFor(stmt, scope))
	case *js_ast.SIf:
		c.walkExpr(s.Test, scope)
		c.walkStmt(s.Yes, scope)
		if s.NoOrNil.Data != nil {
			c.walkStmt(s.NoOrNil, scope)
		}
	case *js_ast.SWhile:
		c.walkExpr(s.Test, scope)
		c.walkStmt(s.Body, scope)
	case *js_ast.SFor:
		forScope := c.forScopeFor(s, scope)
		if s.InitOrNil.Data != nil {
			c.walkStmt(s.InitOrNil, forScope)
		}
		if s.TestOrNil.Data != nil {
			c.walkExpr(s.TestOrNil, forScope)
		}
		if s.UpdateOrNil.Data != nil {
			c.walkExpr(s.UpdateOrNil, forScope)
		}
		c.walkStmt(s.Body, forScope)
	case *js_ast.SExportDefault:
		if s.ValueOrNil.Data != nil {
			c.walkExpr(s.ValueOrNil, scope)
		}
		if s.FnOrNil != nil {
			c.walkFunction(s.FnOrNil, scope)
		}
		if s.ClassOrNil != nil {
			c.walkClass(s.ClassOrNil, scope)
		}
	}
}

// childScopeFor/forScopeFor re-derive which child scope bindStmt/bindBlockish
// created for a given statement, by matching on scope shape rather than
// re-running bind: Pass A and Pass B both descend statements in the exact
// same lexical order, so the i-th block/for requiring a scope during Pass B
// is the same one Pass A already created and appended as a child.
func (c *safetyPass) childScopeFor(stmt js_ast.Stmt, scope ast.ScopeId) ast.ScopeId {
	block := stmt.Data.(*js_ast.SBlock)
	if !blockContainsLexicalDecl(block.Stmts) {
		return scope
	}
	return c.nextChildOfKind(scope, js_ast.ScopeBlock)
}

func (c *safetyPass) forScopeFor(s *js_ast.SFor, scope ast.ScopeId) ast.ScopeId {
	if v, ok := s.InitOrNil.Data.(*js_ast.SVar); ok && v.Kind != js_ast.VarVar {
		return c.nextChildOfKind(scope, js_ast.ScopeBlock)
	}
	return scope
}

// nextChildOfKind returns the next not-yet-visited direct child of `scope`
// with the given kind, advancing a per-scope cursor so repeated sibling
// blocks/for-loops each get their own match in order.
func (c *safetyPass) nextChildOfKind(scope ast.ScopeId, kind js_ast.ScopeKind) ast.ScopeId {
	if c.cursors == nil {
		c.cursors = make(map[ast.ScopeId]int)
	}
	children := c.b.scopes.Get(scope).Children
	for i := c.cursors[scope]; i < len(children); i++ {
		if c.b.scopes.Get(children[i]).Kind == kind {
			c.cursors[scope] = i + 1
			return children[i]
		}
	}
	return scope
}

func (c *safetyPass) walkFunction(fn *js_ast.Fn, parentScope ast.ScopeId) {
	fnScope := c.nextChildOfKind(parentScope, js_ast.ScopeFunction)
	c.walkStmts(fn.Body, fnScope)
}

func (c *safetyPass) walkClass(class *js_ast.Class, parentScope ast.ScopeId) {
	if class.ExtendsOrNil.Data != nil {
		c.walkExpr(class.ExtendsOrNil, parentScope)
	}
	classScope := c.nextChildOfKind(parentScope, js_ast.ScopeClass)
	for i := range class.Methods {
		c.walkFunction(&class.Methods[i].Fn, classScope)
	}
}

func (c *safetyPass) walkExpr(expr js_ast.Expr, scope ast.ScopeId) {
	switch e := expr.Data.(type) {
	case *js_ast.EIdentifier:
		if e.Name == "eval" {
			c.b.markUnsafe(scope, js_ast.EvalUsage)
		}
	case *js_ast.EThis:
		c.markNearestNonArrowFunction(scope, js_ast.DynamicThis)
	case *js_ast.EArray:
		for _, item := range e.Items {
			c.walkExpr(item, scope)
		}
	case *js_ast.EObject:
		for i := range e.Properties {
			p := &e.Properties[i]
			if p.IsComputed {
				c.walkExpr(p.Key, scope)
			}
			if p.Fn != nil {
				c.walkFunction(p.Fn, scope)
				continue
			}
			if p.ValueOrNil.Data != nil {
				c.walkExpr(p.ValueOrNil, scope)
			}
		}
	case *js_ast.ESpread:
		c.walkExpr(e.Value, scope)
	case *js_ast.EUnary:
		c.walkExpr(e.Value, scope)
	case *js_ast.EUpdate:
		c.walkExpr(e.Target, scope)
	case *js_ast.EBinary:
		c.walkExpr(e.Left, scope)
		c.walkExpr(e.Right, scope)
	case *js_ast.EAssign:
		c.walkExpr(e.Target, scope)
		c.walkExpr(e.Value, scope)
	case *js_ast.EConditional:
		c.walkExpr(e.Test, scope)
		c.walkExpr(e.Yes, scope)
		c.walkExpr(e.No, scope)
	case *js_ast.ECall:
		if id, ok := e.Target.Data.(*js_ast.EIdentifier); ok && id.Name == "eval" {
			c.b.markUnsafe(scope, js_ast.EvalUsage)
		} else {
			c.walkExpr(e.Target, scope)
		}
		for _, arg := range e.Args {
			c.walkExpr(arg, scope)
		}
	case *js_ast.ENew:
		c.walkExpr(e.Target, scope)
		for _, arg := range e.Args {
			c.walkExpr(arg, scope)
		}
	case *js_ast.EMember:
		if id, ok := e.Target.Data.(*js_ast.EIdentifier); ok {
			if e.IsComputed && isIndirectGlobalAlias(id.Name) {
				c.b.markUnsafe(scope, js_ast.IndirectAccess)
			}
		} else {
			c.walkExpr(e.Target, scope)
		}
		if e.IsComputed {
			c.walkExpr(e.Index, scope)
		}
	case *js_ast.EFunction:
		c.walkFunction(&e.Fn, scope)
	case *js_ast.EArrow:
		c.walkFunction(&e.Fn, scope)
	case *js_ast.EClass:
		c.walkClass(&e.Class, scope)
	case *js_ast.ETemplate:
		for _, part := range e.Parts {
			c.walkExpr(part.Value, scope)
		}
	}
}

// markNearestNonArrowFunction walks up from scope to find the nearest
// function scope that is not an arrow (an arrow's "this" is lexical, so a
// bare "this" inside one belongs to whatever encloses it) and marks it
// DynamicThis. A "this" at module/global scope (outside any function) marks
// nothing: there is no function scope whose renamability is affected.
func (c *safetyPass) markNearestNonArrowFunction(scope ast.ScopeId, reason js_ast.UnsafeReason) {
	s := scope
	for {
		sc := c.b.scopes.Get(s)
		if sc.Kind == js_ast.ScopeFunction && !sc.IsArrow {
			c.b.markUnsafe(s, reason)
			return
		}
		parent, ok := c.b.scopes.Parent(s)
		if !ok {
			return
		}
		s = parent
	}
}
