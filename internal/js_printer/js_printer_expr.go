package js_printer

import (
	"github.com/jsqueeze/jsqueeze/internal/js_ast"
)

// exprPrecedence reports the precedence an expression binds at on its own,
// for the wrap check in printExpr: a child is parenthesized when its own
// precedence is strictly lower than the level its parent requires (§4.3
// "Precedence"). Atoms (identifiers, literals, member/call chains) sit at
// PrecMember, the top of the ladder, so they are never wrapped by this
// check; only operator expressions can fall below a requested level.
func exprPrecedence(e js_ast.E) js_ast.Precedence {
	switch e := e.(type) {
	case *js_ast.EBinary:
		return e.Op.Precedence()
	case *js_ast.EAssign:
		return js_ast.PrecAssign
	case *js_ast.EConditional:
		return js_ast.PrecConditional
	case *js_ast.EUnary:
		return js_ast.PrecUnary
	case *js_ast.EUpdate:
		if e.Prefix {
			return js_ast.PrecUnary
		}
		return js_ast.PrecPostfix
	case *js_ast.ESpread:
		return js_ast.PrecComma
	default:
		return js_ast.PrecMember
	}
}

// printExpr is the single entry point every sub-expression goes through:
// it wraps in parentheses whenever the node's own precedence is too low for
// the slot its parent printed it into.
func (p *printer) printExpr(expr js_ast.Expr, level js_ast.Precedence) {
	wrap := exprPrecedence(expr.Data) < level
	if wrap {
		p.printByte('(')
	}
	p.printExprNoWrap(expr)
	if wrap {
		p.printByte(')')
	}
}

func (p *printer) printExprNoWrap(expr js_ast.Expr) {
	switch e := expr.Data.(type) {
	case *js_ast.EIdentifier:
		name := p.nameForIdentifier(expr.Loc, e.Name)
		p.addSourceMappingForName(expr.Loc, name)
		p.printIdentifier(name)

	case *js_ast.ENumber:
		p.addSourceMapping(expr.Loc)
		p.printNumber(e.Value)

	case *js_ast.EString:
		p.addSourceMapping(expr.Loc)
		p.printQuotedString(e.Value)

	case *js_ast.EBoolean:
		p.addSourceMapping(expr.Loc)
		p.printSpaceBeforeIdentifier()
		if e.Value {
			p.print("true")
		} else {
			p.print("false")
		}

	case *js_ast.ENull:
		p.addSourceMapping(expr.Loc)
		p.printSpaceBeforeIdentifier()
		p.print("null")

	case *js_ast.EThis:
		p.addSourceMapping(expr.Loc)
		p.printSpaceBeforeIdentifier()
		p.print("this")

	case *js_ast.ERegExp:
		p.addSourceMapping(expr.Loc)
		p.printSpaceBeforeIdentifier()
		p.print(e.Value)

	case *js_ast.EArray:
		p.printByte('[')
		for i, item := range e.Items {
			if i > 0 {
				p.printByte(',')
			}
			p.printExpr(item, js_ast.PrecAssign)
		}
		p.printByte(']')

	case *js_ast.EObject:
		p.printObjectLiteral(e)

	case *js_ast.ESpread:
		p.print("...")
		p.printExpr(e.Value, js_ast.PrecAssign)

	case *js_ast.EUnary:
		p.printUnary(e)

	case *js_ast.EUpdate:
		p.printUpdate(e)

	case *js_ast.EBinary:
		p.printBinary(e)

	case *js_ast.EAssign:
		p.printExpr(e.Target, js_ast.PrecMember)
		p.printSpace()
		p.print(e.Op.Text())
		p.printSpace()
		p.printExpr(e.Value, js_ast.PrecAssign)

	case *js_ast.EConditional:
		p.printExpr(e.Test, js_ast.PrecLogicalOr)
		p.printSpace()
		p.printByte('?')
		p.printSpace()
		p.printExpr(e.Yes, js_ast.PrecAssign)
		p.printSpace()
		p.printByte(':')
		p.printSpace()
		p.printExpr(e.No, js_ast.PrecAssign)

	case *js_ast.ECall:
		p.printCallTarget(e.Target)
		if e.OptionalChain {
			p.print("?.")
		}
		p.printCallArgs(e.Args)

	case *js_ast.ENew:
		p.printSpaceBeforeIdentifier()
		p.print("new")
		p.printSpace()
		p.printNewTarget(e.Target)
		p.printCallArgs(e.Args)

	case *js_ast.EMember:
		p.printExpr(e.Target, js_ast.PrecMember)
		if e.IsComputed {
			if e.OptionalChain {
				p.print("?.")
			}
			p.printByte('[')
			p.printExpr(e.Index, js_ast.PrecComma)
			p.printByte(']')
		} else if e.OptionalChain {
			p.print("?.")
			p.print(e.Name)
		} else {
			p.printByte('.')
			p.print(e.Name)
		}

	case *js_ast.EFunction:
		p.printSpaceBeforeIdentifier()
		p.print("function")
		p.printFn(e.Fn)

	case *js_ast.EArrow:
		p.printArrow(e.Fn)

	case *js_ast.EClass:
		p.printSpaceBeforeIdentifier()
		p.print("class")
		p.printClassBody(e.Class)

	case *js_ast.ETemplate:
		p.printTemplate(e)

	default:
		p.fail(UnsupportedNode, "unsupported expression node %T", expr.Data)
	}
}

// printNewTarget avoids emitting a bare "new" ambiguity: a call expression
// used as a new-expression callee must be parenthesized ("new(f())()"),
// otherwise it is indistinguishable from the call being part of the new
// expression itself.
func (p *printer) printNewTarget(target js_ast.Expr) {
	if _, isCall := target.Data.(*js_ast.ECall); isCall {
		p.printByte('(')
		p.printExprNoWrap(target)
		p.printByte(')')
		return
	}
	p.printExpr(target, js_ast.PrecMember)
}

func (p *printer) printCallTarget(target js_ast.Expr) {
	p.printExpr(target, js_ast.PrecMember)
}

func (p *printer) printCallArgs(args []js_ast.Expr) {
	p.printByte('(')
	for i, arg := range args {
		if i > 0 {
			p.printByte(',')
		}
		p.printExpr(arg, js_ast.PrecAssign)
	}
	p.printByte(')')
}

func (p *printer) printUnary(e *js_ast.EUnary) {
	if e.Op.IsWordOp() {
		p.printSpaceBeforeIdentifier()
		p.print(e.Op.Text())
		p.printSpace()
		p.printExpr(e.Value, js_ast.PrecUnary)
		return
	}
	p.print(e.Op.Text())
	// "+ +x" and "- -x" must not collapse into "++x"/"--x".
	if needsOperatorGap(e.Op.Text(), e.Value) {
		p.printByte(' ')
	}
	p.printExpr(e.Value, js_ast.PrecUnary)
}

// needsOperatorGap reports whether a space must separate a printed prefix
// "+"/"-" from the operand about to be printed, to avoid it fusing with a
// leading "+"/"-"/"++"/"--" token of the operand into a single longer
// operator (§4.3 "Spacing").
func needsOperatorGap(op string, operand js_ast.Expr) bool {
	switch v := operand.Data.(type) {
	case *js_ast.EUnary:
		return v.Op.Text()[:1] == op
	case *js_ast.EUpdate:
		return v.Prefix && v.Op.Text()[:1] == op
	case *js_ast.ENumber:
		return false
	}
	return false
}

func (p *printer) printUpdate(e *js_ast.EUpdate) {
	if e.Prefix {
		p.print(e.Op.Text())
		p.printExpr(e.Target, js_ast.PrecUnary)
		return
	}
	p.printExpr(e.Target, js_ast.PrecMember)
	p.print(e.Op.Text())
}

func (p *printer) printBinary(e *js_ast.EBinary) {
	prec := e.Op.Precedence()
	leftLevel, rightLevel := prec, prec+1
	if !e.Op.IsLeftAssociative() {
		leftLevel, rightLevel = prec+1, prec
	}

	p.printExpr(e.Left, leftLevel)
	if e.Op == js_ast.BinComma {
		p.printByte(',')
	} else if isWordBinOp(e.Op) {
		p.printSpaceBeforeIdentifier()
		p.print(e.Op.Text())
		p.printSpace()
	} else {
		p.printSpace()
		p.print(e.Op.Text())
		p.printSpace()
	}
	p.printExpr(e.Right, rightLevel)
}

func isWordBinOp(op js_ast.BinOp) bool {
	return op == js_ast.BinIn || op == js_ast.BinInstanceof
}

func (p *printer) printObjectLiteral(e *js_ast.EObject) {
	p.printByte('{')
	for i := range e.Properties {
		if i > 0 {
			p.printByte(',')
		}
		p.printProperty(&e.Properties[i])
	}
	p.printByte('}')
}

func (p *printer) printProperty(prop *js_ast.Property) {
	if _, ok := prop.ValueOrNil.Data.(*js_ast.ESpread); ok {
		p.printExpr(prop.ValueOrNil, js_ast.PrecAssign)
		return
	}

	if prop.IsComputed {
		p.printByte('[')
		p.printExpr(prop.Key, js_ast.PrecAssign)
		p.printByte(']')
	} else {
		p.printPropertyKey(prop.Key)
	}

	if prop.IsMethod {
		p.printFn(*prop.Fn)
		return
	}
	if prop.IsShorthand {
		// A shorthand property can only stay shorthand if the bound
		// identifier still prints under its original name; a renamed
		// binding needs the explicit "key:value" form since the key text
		// is fixed by the object's shape but the value is not.
		ident := prop.ValueOrNil.Data.(*js_ast.EIdentifier)
		resolved := p.nameForIdentifier(prop.ValueOrNil.Loc, ident.Name)
		if resolved == ident.Name {
			p.addSourceMappingForName(prop.ValueOrNil.Loc, resolved)
			return
		}
	}
	p.printByte(':')
	p.printExpr(prop.ValueOrNil, js_ast.PrecAssign)
}

func (p *printer) printPropertyKey(key js_ast.Expr) {
	switch k := key.Data.(type) {
	case *js_ast.EString:
		if js_ast.IsIdentifier(k.Value) {
			p.print(k.Value)
		} else {
			p.printQuotedString(k.Value)
		}
	case *js_ast.ENumber:
		p.printNumber(k.Value)
	default:
		p.fail(MalformedAst, "unsupported object key node %T", key.Data)
	}
}

func (p *printer) printArrow(fn js_ast.Fn) {
	if len(fn.Args) == 1 && fn.Args[0].DefaultOrNil.Data == nil && !fn.HasRestArg {
		p.printBinding(fn.Args[0].Binding, fn.Args[0].Binding.Loc)
	} else {
		p.printFnArgs(fn.Args, fn.HasRestArg)
	}
	p.printSpace()
	p.print("=>")
	p.printSpace()
	if len(fn.Body) == 1 {
		if ret, ok := fn.Body[0].Data.(*js_ast.SReturn); ok && ret.ValueOrNil.Data != nil {
			p.printArrowExprBody(ret.ValueOrNil)
			return
		}
	}
	p.printBlock(fn.Body)
}

// printArrowExprBody guards the "(x) => ({})" trap: an arrow whose
// expression body starts with "{" would otherwise be read as a block.
func (p *printer) printArrowExprBody(expr js_ast.Expr) {
	if startsWithObjectLiteral(expr) {
		p.printByte('(')
		p.printExpr(expr, js_ast.PrecComma)
		p.printByte(')')
		return
	}
	p.printExpr(expr, js_ast.PrecAssign)
}

func startsWithObjectLiteral(expr js_ast.Expr) bool {
	switch e := expr.Data.(type) {
	case *js_ast.EObject:
		return true
	case *js_ast.EBinary:
		return startsWithObjectLiteral(e.Left)
	case *js_ast.EAssign:
		return startsWithObjectLiteral(e.Target)
	case *js_ast.EConditional:
		return startsWithObjectLiteral(e.Test)
	case *js_ast.ECall:
		return startsWithObjectLiteral(e.Target)
	case *js_ast.EMember:
		return startsWithObjectLiteral(e.Target)
	}
	return false
}

// startsWithFunctionOrClass mirrors startsWithObjectLiteral for the other
// two tokens that an expression statement can never lead with.
func startsWithFunctionOrClass(expr js_ast.Expr) bool {
	switch e := expr.Data.(type) {
	case *js_ast.EFunction, *js_ast.EClass:
		return true
	case *js_ast.EBinary:
		return startsWithFunctionOrClass(e.Left)
	case *js_ast.EAssign:
		return startsWithFunctionOrClass(e.Target)
	case *js_ast.EConditional:
		return startsWithFunctionOrClass(e.Test)
	case *js_ast.ECall:
		return startsWithFunctionOrClass(e.Target)
	case *js_ast.EMember:
		return startsWithFunctionOrClass(e.Target)
	}
	return false
}

func (p *printer) printFnArgs(args []js_ast.Arg, hasRest bool) {
	p.printByte('(')
	for i, arg := range args {
		if i > 0 {
			p.printByte(',')
		}
		if hasRest && i == len(args)-1 {
			p.print("...")
		}
		p.printBinding(arg.Binding, arg.Binding.Loc)
		if arg.DefaultOrNil.Data != nil {
			p.printByte('=')
			p.printExpr(arg.DefaultOrNil, js_ast.PrecAssign)
		}
	}
	p.printByte(')')
}

func (p *printer) printFn(fn js_ast.Fn) {
	if fn.Name != nil {
		p.printBinding(*fn.Name, fn.Name.Loc)
	}
	p.printFnArgs(fn.Args, fn.HasRestArg)
	p.printBlock(fn.Body)
}

func (p *printer) printTemplate(e *js_ast.ETemplate) {
	p.printByte('`')
	p.printTemplateRaw(e.HeadRaw)
	for _, part := range e.Parts {
		p.print("${")
		p.printExpr(part.Value, js_ast.PrecComma)
		p.printByte('}')
		p.printTemplateRaw(part.Raw)
	}
	p.printByte('`')
}

// printTemplateRaw escapes the three characters that would otherwise end
// the quasi early or start a substitution (§4.3 "Template literals").
func (p *printer) printTemplateRaw(raw string) {
	for _, r := range raw {
		switch r {
		case '`':
			p.print("\\`")
		case '\\':
			p.print(`\\`)
		case '$':
			p.print(`\$`)
		default:
			p.print(string(r))
		}
	}
}
