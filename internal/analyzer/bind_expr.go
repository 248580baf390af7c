package analyzer

import (
	"github.com/jsqueeze/jsqueeze/internal/ast"
	"github.com/jsqueeze/jsqueeze/internal/js_ast"
)

// bindExpr records references and descends into nested functions/classes.
// It never fails: an unresolved identifier degrades to a free global (§4.1
// Pass A, §7), so bindExpr has no error return.
func (b *binder) bindExpr(expr js_ast.Expr, scope ast.ScopeId) {
	switch e := expr.Data.(type) {
	case *js_ast.EIdentifier:
		b.reference(scope, expr.Loc, e.Name, js_ast.RefRead)

	case *js_ast.ENumber, *js_ast.EString, *js_ast.EBoolean, *js_ast.ENull,
		*js_ast.EThis, *js_ast.ERegExp:
		// Leaves; nothing to bind.

	case *js_ast.EArray:
		for _, item := range e.Items {
			b.bindExpr(item, scope)
		}

	case *js_ast.EObject:
		for i := range e.Properties {
			p := &e.Properties[i]
			if p.IsComputed {
				b.bindExpr(p.Key, scope)
			}
			if p.Fn != nil {
				b.bindFunction(p.Fn, scope)
				continue
			}
			if p.ValueOrNil.Data != nil {
				b.bindExpr(p.ValueOrNil, scope)
			}
		}

	case *js_ast.ESpread:
		b.bindExpr(e.Value, scope)

	case *js_ast.EUnary:
		if id, ok := e.Value.Data.(*js_ast.EIdentifier); ok && id.Name == "eval" {
			b.markUnsafe(scope, js_ast.EvalUsage)
		}
		b.bindExpr(e.Value, scope)

	case *js_ast.EUpdate:
		if id, ok := e.Target.Data.(*js_ast.EIdentifier); ok {
			b.reference(scope, e.Target.Loc, id.Name, js_ast.RefWrite)
		} else {
			b.bindExpr(e.Target, scope)
		}

	case *js_ast.EBinary:
		b.bindExpr(e.Left, scope)
		b.bindExpr(e.Right, scope)

	case *js_ast.EAssign:
		if id, ok := e.Target.Data.(*js_ast.EIdentifier); ok {
			b.reference(scope, e.Target.Loc, id.Name, js_ast.RefWrite)
		} else {
			b.bindExpr(e.Target, scope)
		}
		b.bindExpr(e.Value, scope)

	case *js_ast.EConditional:
		b.bindExpr(e.Test, scope)
		b.bindExpr(e.Yes, scope)
		b.bindExpr(e.No, scope)

	case *js_ast.ECall:
		if id, ok := e.Target.Data.(*js_ast.EIdentifier); ok {
			b.reference(scope, e.Target.Loc, id.Name, js_ast.RefCall)
			if id.Name == "eval" {
				b.markUnsafe(scope, js_ast.EvalUsage)
			}
		} else {
			b.bindExpr(e.Target, scope)
		}
		for _, arg := range e.Args {
			b.bindExpr(arg, scope)
		}

	case *js_ast.ENew:
		b.bindExpr(e.Target, scope)
		for _, arg := range e.Args {
			b.bindExpr(arg, scope)
		}

	case *js_ast.EMember:
		b.bindIndirectTarget(e, scope)
		if e.IsComputed {
			b.bindExpr(e.Index, scope)
		}

	case *js_ast.EFunction:
		_ = b.bindFunction(&e.Fn, scope)

	case *js_ast.EArrow:
		_ = b.bindFunction(&e.Fn, scope)

	case *js_ast.EClass:
		_ = b.bindClass(&e.Class, scope)

	case *js_ast.ETemplate:
		for _, part := range e.Parts {
			b.bindExpr(part.Value, scope)
		}
	}
}

// bindIndirectTarget binds obj in `obj[expr]`/`obj.name`, additionally
// flagging IndirectAccess (§4.1 Pass B) when obj is a bareword reference to
// one of the well-known indirect-global aliases and the access is computed.
func (b *binder) bindIndirectTarget(e *js_ast.EMember, scope ast.ScopeId) {
	if id, ok := e.Target.Data.(*js_ast.EIdentifier); ok {
		b.reference(scope, e.Target.Loc, id.Name, js_ast.RefPropertyAccess)
		if e.IsComputed && isIndirectGlobalAlias(id.Name) {
			b.markUnsafe(scope, js_ast.IndirectAccess)
		}
		return
	}
	b.bindExpr(e.Target, scope)
}

func isIndirectGlobalAlias(name string) bool {
	return name == "window" || name == "global" || name == "globalThis" || name == "self"
}
