package transformer

import (
	"math"

	"github.com/jsqueeze/jsqueeze/internal/js_ast"
)

// simplifyExpressions implements §4.2 pass 3: constant folding and algebraic
// simplification restricted to expressions with no function calls, no
// property reads beyond literals, and no operator whose result depends on
// runtime coercion of an unknown operand. Grounded on the teacher's constant
// folding in internal/js_parser (foldStringAddition / the numeric constant
// folder invoked during parsing); this tool runs the same kind of fold as a
// dedicated post-analysis pass instead of inline during parsing, since the
// analyzer must see the original expressions first.
func simplifyExpressions(program *js_ast.Program) (*js_ast.Program, int, error) {
	s := &simplifyPass{}
	stmts := s.stmtList(program.Stmts)
	return &js_ast.Program{Stmts: stmts, Kind: program.Kind}, s.rewrites, nil
}

type simplifyPass struct {
	rewrites int
}

func (s *simplifyPass) stmtList(stmts []js_ast.Stmt) []js_ast.Stmt {
	out := make([]js_ast.Stmt, len(stmts))
	for i, stmt := range stmts {
		out[i] = s.stmt(stmt)
	}
	return out
}

func (s *simplifyPass) stmt(stmt js_ast.Stmt) js_ast.Stmt {
	switch st := stmt.Data.(type) {
	case *js_ast.SBlock:
		return js_ast.Stmt{Loc: stmt.Loc, Data: &js_ast.SBlock{Stmts: s.stmtList(st.Stmts)}}
	case *js_ast.SVar:
		decls := make([]js_ast.Decl, len(st.Decls))
		for i, d := range st.Decls {
			decls[i] = d
			if d.ValueOrNil.Data != nil {
				decls[i].ValueOrNil = s.expr(d.ValueOrNil)
			}
		}
		return js_ast.Stmt{Loc: stmt.Loc, Data: &js_ast.SVar{Kind: st.Kind, Decls: decls, IsExport: st.IsExport}}
	case *js_ast.SExpr:
		return js_ast.Stmt{Loc: stmt.Loc, Data: &js_ast.SExpr{Value: s.expr(st.Value)}}
	case *js_ast.SReturn:
		if st.ValueOrNil.Data == nil {
			return stmt
		}
		return js_ast.Stmt{Loc: stmt.Loc, Data: &js_ast.SReturn{ValueOrNil: s.expr(st.ValueOrNil)}}
	case *js_ast.SThrow:
		return js_ast.Stmt{Loc: stmt.Loc, Data: &js_ast.SThrow{Value: s.expr(st.Value)}}
	case *js_ast.SIf:
		yes := s.stmt(st.Yes)
		var no js_ast.Stmt
		if st.NoOrNil.Data != nil {
			no = s.stmt(st.NoOrNil)
		}
		return js_ast.Stmt{Loc: stmt.Loc, Data: &js_ast.SIf{Test: s.expr(st.Test), Yes: yes, NoOrNil: no}}
	case *js_ast.SWhile:
		return js_ast.Stmt{Loc: stmt.Loc, Data: &js_ast.SWhile{Test: s.expr(st.Test), Body: s.stmt(st.Body)}}
	case *js_ast.SFor:
		f := &js_ast.SFor{Body: s.stmt(st.Body)}
		if st.InitOrNil.Data != nil {
			f.InitOrNil = s.stmt(st.InitOrNil)
		}
		if st.TestOrNil.Data != nil {
			f.TestOrNil = s.expr(st.TestOrNil)
		}
		if st.UpdateOrNil.Data != nil {
			f.UpdateOrNil = s.expr(st.UpdateOrNil)
		}
		return js_ast.Stmt{Loc: stmt.Loc, Data: f}
	case *js_ast.SFunction:
		fn := st.Fn
		fn.Body = s.stmtList(st.Fn.Body)
		return js_ast.Stmt{Loc: stmt.Loc, Data: &js_ast.SFunction{Fn: fn, IsExport: st.IsExport}}
	default:
		return stmt
	}
}

// expr recursively simplifies a subtree bottom-up, so a fold at one level
// (e.g. "2*3" -> "6") becomes available as a literal operand one level up
// (e.g. "6+1" -> "7").
func (s *simplifyPass) expr(expr js_ast.Expr) js_ast.Expr {
	switch e := expr.Data.(type) {
	case *js_ast.EUnary:
		value := s.expr(e.Value)
		if folded, ok := foldUnary(e.Op, value); ok {
			s.rewrites++
			return js_ast.Expr{Loc: expr.Loc, Data: folded}
		}
		return js_ast.Expr{Loc: expr.Loc, Data: &js_ast.EUnary{Op: e.Op, Value: value}}

	case *js_ast.EBinary:
		left := s.expr(e.Left)
		right := s.expr(e.Right)
		if folded, ok := foldBinary(e.Op, left, right); ok {
			s.rewrites++
			return js_ast.Expr{Loc: expr.Loc, Data: folded}
		}
		return js_ast.Expr{Loc: expr.Loc, Data: &js_ast.EBinary{Op: e.Op, Left: left, Right: right}}

	case *js_ast.EConditional:
		test := s.expr(e.Test)
		yes := s.expr(e.Yes)
		no := s.expr(e.No)
		if truthy, ok := constantTruthiness(test); ok && !hasSideEffects(test) {
			s.rewrites++
			if truthy {
				return yes
			}
			return no
		}
		return js_ast.Expr{Loc: expr.Loc, Data: &js_ast.EConditional{Test: test, Yes: yes, No: no}}

	case *js_ast.EArray:
		items := make([]js_ast.Expr, len(e.Items))
		for i, item := range e.Items {
			items[i] = s.expr(item)
		}
		return js_ast.Expr{Loc: expr.Loc, Data: &js_ast.EArray{Items: items}}

	case *js_ast.ECall:
		args := make([]js_ast.Expr, len(e.Args))
		for i, a := range e.Args {
			args[i] = s.expr(a)
		}
		return js_ast.Expr{Loc: expr.Loc, Data: &js_ast.ECall{Target: s.expr(e.Target), Args: args, OptionalChain: e.OptionalChain}}

	case *js_ast.EAssign:
		return js_ast.Expr{Loc: expr.Loc, Data: &js_ast.EAssign{Op: e.Op, Target: e.Target, Value: s.expr(e.Value)}}

	default:
		return expr
	}
}

// foldUnary folds a unary operator applied to an already-simplified operand,
// when the operand is a literal the fold can apply to without depending on
// an unknown runtime coercion.
func foldUnary(op js_ast.UnOp, value js_ast.Expr) (js_ast.E, bool) {
	switch op {
	case js_ast.UnNeg:
		if n, ok := value.Data.(*js_ast.ENumber); ok && !math.IsNaN(n.Value) && !math.IsInf(n.Value, 0) {
			return &js_ast.ENumber{Value: -n.Value}, true
		}
	case js_ast.UnNot:
		if truthy, ok := constantTruthiness(value); ok {
			return &js_ast.EBoolean{Value: !truthy}, true
		}
	}
	return nil, false
}

// foldBinary folds a binary operator applied to two already-simplified
// operands, when both are literals and the operator's result never depends
// on an unknown runtime coercion (§4.2 pass 3). Division is only folded
// when the divisor is a nonzero finite number, no fold is attempted when
// either numeric operand is NaN or infinite, and no arithmetic fold is made
// whose result would be NaN or infinite.
func foldBinary(op js_ast.BinOp, left, right js_ast.Expr) (js_ast.E, bool) {
	ln, lIsNum := left.Data.(*js_ast.ENumber)
	rn, rIsNum := right.Data.(*js_ast.ENumber)
	ls, lIsStr := left.Data.(*js_ast.EString)
	rs, rIsStr := right.Data.(*js_ast.EString)

	if lIsNum && rIsNum && (math.IsNaN(ln.Value) || math.IsNaN(rn.Value) || math.IsInf(ln.Value, 0) || math.IsInf(rn.Value, 0)) {
		return nil, false
	}

	switch op {
	case js_ast.BinAdd:
		if lIsNum && rIsNum && !math.IsInf(ln.Value+rn.Value, 0) {
			return &js_ast.ENumber{Value: ln.Value + rn.Value}, true
		}
		if lIsStr && rIsStr {
			return &js_ast.EString{Value: ls.Value + rs.Value}, true
		}
	case js_ast.BinSub:
		if lIsNum && rIsNum && !math.IsInf(ln.Value-rn.Value, 0) {
			return &js_ast.ENumber{Value: ln.Value - rn.Value}, true
		}
	case js_ast.BinMul:
		if lIsNum && rIsNum && !math.IsInf(ln.Value*rn.Value, 0) {
			return &js_ast.ENumber{Value: ln.Value * rn.Value}, true
		}
	case js_ast.BinDiv:
		if lIsNum && rIsNum && rn.Value != 0 {
			result := ln.Value / rn.Value
			if !math.IsNaN(result) && !math.IsInf(result, 0) {
				return &js_ast.ENumber{Value: result}, true
			}
		}
	case js_ast.BinRem:
		if lIsNum && rIsNum && rn.Value != 0 {
			result := math.Mod(ln.Value, rn.Value)
			if !math.IsNaN(result) {
				return &js_ast.ENumber{Value: result}, true
			}
		}
	case js_ast.BinPow:
		if lIsNum && rIsNum {
			result := math.Pow(ln.Value, rn.Value)
			if !math.IsNaN(result) && !math.IsInf(result, 0) {
				return &js_ast.ENumber{Value: result}, true
			}
		}
	case js_ast.BinLt, js_ast.BinLe, js_ast.BinGt, js_ast.BinGe:
		if lIsNum && rIsNum {
			return &js_ast.EBoolean{Value: compareNumbers(op, ln.Value, rn.Value)}, true
		}
		if lIsStr && rIsStr {
			return &js_ast.EBoolean{Value: compareStrings(op, ls.Value, rs.Value)}, true
		}
	case js_ast.BinEq, js_ast.BinStrictEq:
		if lIsNum && rIsNum {
			return &js_ast.EBoolean{Value: ln.Value == rn.Value}, true
		}
		if lIsStr && rIsStr {
			return &js_ast.EBoolean{Value: ls.Value == rs.Value}, true
		}
	case js_ast.BinNe, js_ast.BinStrictNe:
		if lIsNum && rIsNum {
			return &js_ast.EBoolean{Value: ln.Value != rn.Value}, true
		}
		if lIsStr && rIsStr {
			return &js_ast.EBoolean{Value: ls.Value != rs.Value}, true
		}
	case js_ast.BinLogicalAnd:
		if truthy, ok := constantTruthiness(left); ok {
			if !truthy {
				return left.Data, true
			}
			return right.Data, true
		}
	case js_ast.BinLogicalOr:
		if truthy, ok := constantTruthiness(left); ok {
			if truthy {
				return left.Data, true
			}
			return right.Data, true
		}
	case js_ast.BinNullishCoalescing:
		if _, isNull := left.Data.(*js_ast.ENull); isNull {
			return right.Data, true
		}
		if lIsNum || lIsStr {
			return left.Data, true
		}
	}
	return nil, false
}

func compareNumbers(op js_ast.BinOp, l, r float64) bool {
	switch op {
	case js_ast.BinLt:
		return l < r
	case js_ast.BinLe:
		return l <= r
	case js_ast.BinGt:
		return l > r
	default:
		return l >= r
	}
}

func compareStrings(op js_ast.BinOp, l, r string) bool {
	switch op {
	case js_ast.BinLt:
		return l < r
	case js_ast.BinLe:
		return l <= r
	case js_ast.BinGt:
		return l > r
	default:
		return l >= r
	}
}
