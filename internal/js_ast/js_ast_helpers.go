package js_ast

import (
	"math"

	"github.com/jsqueeze/jsqueeze/internal/logger"
)

// IsPure reports whether evaluating expr can be proven to have no observable
// side effect: no function call, no property read beyond a literal, and no
// operator whose result depends on runtime coercion of an unknown operand.
// This is the gate transformer pass 3 (expression simplification) uses
// before it is willing to fold or reorder anything (§4.2 pass 3).
func IsPure(expr Expr) bool {
	switch e := expr.Data.(type) {
	case *ENumber, *EString, *EBoolean, *ENull, *EThis, *EIdentifier, *ERegExp:
		return true
	case *EUnary:
		return e.Op != UnDelete && IsPure(e.Value)
	case *EBinary:
		if e.Op == BinDiv || e.Op == BinRem {
			// The RHS may be zero; folding away the division would also fold
			// away a possible throw-free-but-observable Infinity/NaN result.
			return false
		}
		return IsPure(e.Left) && IsPure(e.Right)
	case *EConditional:
		return IsPure(e.Test) && IsPure(e.Yes) && IsPure(e.No)
	case *EArray:
		for _, item := range e.Items {
			if !IsPure(item) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// HasSideEffects is the complement used by dead-code elimination to decide
// whether a dropped binding's initializer must be kept as a standalone
// expression statement (§4.2 pass 2).
func HasSideEffects(expr Expr) bool { return !IsPure(expr) }

// ToBooleanKnownValue reports the statically-known truthiness of expr, if
// any. Used by DCE to prune branches whose test is a manifestly-constant
// literal.
func ToBooleanKnownValue(expr Expr) (value bool, ok bool) {
	switch e := expr.Data.(type) {
	case *EBoolean:
		return e.Value, true
	case *ENumber:
		return e.Value != 0 && !math.IsNaN(e.Value), true
	case *EString:
		return len(e.Value) > 0, true
	case *ENull:
		return false, true
	default:
		return false, false
	}
}

// isUnsafeNumericLiteral reports whether a number literal is NaN or
// +/-Infinity. The spec forbids folding any expression whose reduction would
// involve one of these under naive arithmetic, because IEEE-754 propagation
// rules are easy to get subtly wrong by hand (§4.2 pass 3).
func isUnsafeNumericLiteral(f float64) bool {
	return math.IsNaN(f) || math.IsInf(f, 0)
}

// FoldConstantBinary attempts to constant-fold a pure binary expression with
// two literal operands. It refuses whenever the spec's guardrails apply:
// division/remainder by a literal zero, any NaN/Infinity operand, or an
// operator whose two operands aren't already the same known primitive type
// (so the result doesn't depend on runtime coercion of an unknown operand).
func FoldConstantBinary(e *EBinary) (Expr, bool) {
	ln, lok := e.Left.Data.(*ENumber)
	rn, rok := e.Right.Data.(*ENumber)
	if lok && rok {
		if isUnsafeNumericLiteral(ln.Value) || isUnsafeNumericLiteral(rn.Value) {
			return Expr{}, false
		}
		switch e.Op {
		case BinAdd:
			return numLit(e.Left.Loc, ln.Value+rn.Value), true
		case BinSub:
			return numLit(e.Left.Loc, ln.Value-rn.Value), true
		case BinMul:
			return numLit(e.Left.Loc, ln.Value*rn.Value), true
		case BinDiv:
			if rn.Value == 0 {
				return Expr{}, false
			}
			return numLit(e.Left.Loc, ln.Value/rn.Value), true
		case BinBitwiseAnd:
			return numLit(e.Left.Loc, float64(toInt32(ln.Value)&toInt32(rn.Value))), true
		case BinBitwiseOr:
			return numLit(e.Left.Loc, float64(toInt32(ln.Value)|toInt32(rn.Value))), true
		case BinBitwiseXor:
			return numLit(e.Left.Loc, float64(toInt32(ln.Value)^toInt32(rn.Value))), true
		case BinLt:
			return boolLit(e.Left.Loc, ln.Value < rn.Value), true
		case BinLe:
			return boolLit(e.Left.Loc, ln.Value <= rn.Value), true
		case BinGt:
			return boolLit(e.Left.Loc, ln.Value > rn.Value), true
		case BinGe:
			return boolLit(e.Left.Loc, ln.Value >= rn.Value), true
		case BinStrictEq, BinEq:
			return boolLit(e.Left.Loc, ln.Value == rn.Value), true
		case BinStrictNe, BinNe:
			return boolLit(e.Left.Loc, ln.Value != rn.Value), true
		}
		return Expr{}, false
	}

	ls, lok := e.Left.Data.(*EString)
	rs, rok := e.Right.Data.(*EString)
	if lok && rok {
		switch e.Op {
		case BinAdd:
			return Expr{Loc: e.Left.Loc, Data: &EString{Value: ls.Value + rs.Value}}, true
		case BinStrictEq, BinEq:
			return boolLit(e.Left.Loc, ls.Value == rs.Value), true
		case BinStrictNe, BinNe:
			return boolLit(e.Left.Loc, ls.Value != rs.Value), true
		}
	}
	return Expr{}, false
}

func numLit(loc logger.Loc, v float64) Expr { return Expr{Loc: loc, Data: &ENumber{Value: v}} }
func boolLit(loc logger.Loc, v bool) Expr   { return Expr{Loc: loc, Data: &EBoolean{Value: v}} }

func toInt32(f float64) int32 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return int32(int64(f))
}
