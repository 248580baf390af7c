package js_parser

import (
	"github.com/jsqueeze/jsqueeze/internal/js_ast"
	"github.com/jsqueeze/jsqueeze/internal/js_lexer"
	"github.com/jsqueeze/jsqueeze/internal/logger"
)

func (p *parser) parseExpr(level js_ast.Precedence) js_ast.Expr {
	expr := p.parsePrefix()
	return p.parseSuffix(expr, level)
}

////////////////////////////////////////////////////////////////////////////
// Prefix (primary expressions and prefix operators)

func (p *parser) parsePrefix() js_ast.Expr {
	loc := p.lexer.Loc()

	switch p.lexer.Token {
	case js_lexer.TNumericLiteral:
		value := p.lexer.Number
		p.lexer.Next()
		return js_ast.Expr{Loc: loc, Data: &js_ast.ENumber{Value: value}}

	case js_lexer.TStringLiteral:
		value := p.lexer.StringValue
		p.lexer.Next()
		return js_ast.Expr{Loc: loc, Data: &js_ast.EString{Value: value}}

	case js_lexer.TNoSubstitutionTemplateLiteral:
		raw := p.lexer.StringValue
		p.lexer.Next()
		return js_ast.Expr{Loc: loc, Data: &js_ast.ETemplate{HeadRaw: raw}}

	case js_lexer.TTemplateHead:
		return p.parseTemplate(loc)

	case js_lexer.TTrue:
		p.lexer.Next()
		return js_ast.Expr{Loc: loc, Data: &js_ast.EBoolean{Value: true}}

	case js_lexer.TFalse:
		p.lexer.Next()
		return js_ast.Expr{Loc: loc, Data: &js_ast.EBoolean{Value: false}}

	case js_lexer.TNull:
		p.lexer.Next()
		return js_ast.Expr{Loc: loc, Data: &js_ast.ENull{}}

	case js_lexer.TThis:
		p.lexer.Next()
		return js_ast.Expr{Loc: loc, Data: &js_ast.EThis{}}

	case js_lexer.TSlash, js_lexer.TSlashEquals:
		p.lexer.RescanCurrentTokenAsRegexp()
		value := p.lexer.StringValue
		p.lexer.Next()
		return js_ast.Expr{Loc: loc, Data: &js_ast.ERegExp{Value: value}}

	case js_lexer.TIdentifier:
		name := p.lexer.Identifier
		p.lexer.Next()
		if p.lexer.Token == js_lexer.TEqualsGreaterThan {
			p.lexer.Next()
			body := p.parseArrowBody()
			fn := js_ast.Fn{Args: []js_ast.Arg{{Binding: js_ast.Binding{Loc: loc, Name: name}}}, Body: body, IsArrow: true}
			return js_ast.Expr{Loc: loc, Data: &js_ast.EArrow{Fn: fn}}
		}
		return js_ast.Expr{Loc: loc, Data: &js_ast.EIdentifier{Name: name}}

	case js_lexer.TOpenParen:
		if expr, ok := p.tryParseArrowFnExpr(loc); ok {
			return expr
		}
		p.lexer.Next()
		value := p.parseExpr(js_ast.PrecComma)
		p.expect(js_lexer.TCloseParen, "\")\"")
		return value

	case js_lexer.TOpenBracket:
		p.lexer.Next()
		var items []js_ast.Expr
		for p.lexer.Token != js_lexer.TCloseBracket {
			if p.lexer.Token == js_lexer.TDotDotDot {
				spreadLoc := p.lexer.Loc()
				p.lexer.Next()
				items = append(items, js_ast.Expr{Loc: spreadLoc, Data: &js_ast.ESpread{Value: p.parseExpr(js_ast.PrecAssign)}})
			} else {
				items = append(items, p.parseExpr(js_ast.PrecAssign))
			}
			if p.lexer.Token != js_lexer.TComma {
				break
			}
			p.lexer.Next()
		}
		p.expect(js_lexer.TCloseBracket, "\"]\"")
		return js_ast.Expr{Loc: loc, Data: &js_ast.EArray{Items: items}}

	case js_lexer.TOpenBrace:
		return p.parseObjectLiteral(loc)

	case js_lexer.TFunction:
		p.lexer.Next()
		fn := p.parseFn(false)
		return js_ast.Expr{Loc: loc, Data: &js_ast.EFunction{Fn: fn}}

	case js_lexer.TClass:
		p.lexer.Next()
		class := p.parseClass()
		return js_ast.Expr{Loc: loc, Data: &js_ast.EClass{Class: class}}

	case js_lexer.TNew:
		p.lexer.Next()
		target := p.parseSuffix(p.parsePrefix(), js_ast.PrecMember)
		var args []js_ast.Expr
		if p.lexer.Token == js_lexer.TOpenParen {
			args = p.parseCallArgs()
		}
		return js_ast.Expr{Loc: loc, Data: &js_ast.ENew{Target: target, Args: args}}

	case js_lexer.TPlus:
		p.lexer.Next()
		return js_ast.Expr{Loc: loc, Data: &js_ast.EUnary{Op: js_ast.UnPos, Value: p.parseExpr(js_ast.PrecUnary)}}
	case js_lexer.TMinus:
		p.lexer.Next()
		return js_ast.Expr{Loc: loc, Data: &js_ast.EUnary{Op: js_ast.UnNeg, Value: p.parseExpr(js_ast.PrecUnary)}}
	case js_lexer.TExclamation:
		p.lexer.Next()
		return js_ast.Expr{Loc: loc, Data: &js_ast.EUnary{Op: js_ast.UnNot, Value: p.parseExpr(js_ast.PrecUnary)}}
	case js_lexer.TTilde:
		p.lexer.Next()
		return js_ast.Expr{Loc: loc, Data: &js_ast.EUnary{Op: js_ast.UnBitwiseNot, Value: p.parseExpr(js_ast.PrecUnary)}}
	case js_lexer.TTypeof:
		p.lexer.Next()
		return js_ast.Expr{Loc: loc, Data: &js_ast.EUnary{Op: js_ast.UnTypeof, Value: p.parseExpr(js_ast.PrecUnary)}}
	case js_lexer.TVoid:
		p.lexer.Next()
		return js_ast.Expr{Loc: loc, Data: &js_ast.EUnary{Op: js_ast.UnVoid, Value: p.parseExpr(js_ast.PrecUnary)}}
	case js_lexer.TDelete:
		p.lexer.Next()
		return js_ast.Expr{Loc: loc, Data: &js_ast.EUnary{Op: js_ast.UnDelete, Value: p.parseExpr(js_ast.PrecUnary)}}

	case js_lexer.TPlusPlus:
		p.lexer.Next()
		return js_ast.Expr{Loc: loc, Data: &js_ast.EUpdate{Op: js_ast.UpdateIncr, Target: p.parseExpr(js_ast.PrecUnary), Prefix: true}}
	case js_lexer.TMinusMinus:
		p.lexer.Next()
		return js_ast.Expr{Loc: loc, Data: &js_ast.EUpdate{Op: js_ast.UpdateDecr, Target: p.parseExpr(js_ast.PrecUnary), Prefix: true}}
	}

	p.panicf("unexpected token %q", p.lexer.Raw())
	panic(parserPanic{})
}

func (p *parser) parseTemplate(loc logger.Loc) js_ast.Expr {
	head := p.lexer.StringValue
	p.lexer.Next()
	var parts []js_ast.TemplatePart
	for {
		value := p.parseExpr(js_ast.PrecComma)
		if p.lexer.Token != js_lexer.TCloseBrace {
			p.panicf("expected \"}\" inside template literal")
		}
		p.lexer.NextInsideTemplate()
		raw := p.lexer.StringValue
		parts = append(parts, js_ast.TemplatePart{Value: value, Raw: raw})
		if p.lexer.Token == js_lexer.TTemplateTail {
			p.lexer.Next()
			break
		}
		p.lexer.Next()
	}
	return js_ast.Expr{Loc: loc, Data: &js_ast.ETemplate{HeadRaw: head, Parts: parts}}
}

func (p *parser) parseObjectLiteral(loc logger.Loc) js_ast.Expr {
	p.lexer.Next()
	var props []js_ast.Property
	for p.lexer.Token != js_lexer.TCloseBrace {
		if p.lexer.Token == js_lexer.TDotDotDot {
			p.lexer.Next()
			props = append(props, js_ast.Property{ValueOrNil: js_ast.Expr{Loc: p.lexer.Loc(), Data: &js_ast.ESpread{Value: p.parseExpr(js_ast.PrecAssign)}}})
			if p.lexer.Token == js_lexer.TComma {
				p.lexer.Next()
			}
			continue
		}

		keyLoc := p.lexer.Loc()
		isComputed := false
		var key js_ast.Expr
		var plainName string

		if p.lexer.Token == js_lexer.TOpenBracket {
			isComputed = true
			p.lexer.Next()
			key = p.parseExpr(js_ast.PrecAssign)
			p.expect(js_lexer.TCloseBracket, "\"]\"")
		} else if p.lexer.Token == js_lexer.TStringLiteral {
			plainName = p.lexer.StringValue
			key = js_ast.Expr{Loc: keyLoc, Data: &js_ast.EString{Value: plainName}}
			p.lexer.Next()
		} else if p.lexer.Token == js_lexer.TNumericLiteral {
			key = js_ast.Expr{Loc: keyLoc, Data: &js_ast.ENumber{Value: p.lexer.Number}}
			p.lexer.Next()
		} else {
			plainName = p.expectPropertyKey()
			key = js_ast.Expr{Loc: keyLoc, Data: &js_ast.EString{Value: plainName}}
		}

		if p.lexer.Token == js_lexer.TOpenParen {
			fn := p.parseFn(false)
			props = append(props, js_ast.Property{Key: key, IsComputed: isComputed, IsMethod: true, Fn: &fn})
		} else if p.lexer.Token == js_lexer.TColon {
			p.lexer.Next()
			value := p.parseExpr(js_ast.PrecAssign)
			props = append(props, js_ast.Property{Key: key, ValueOrNil: value, IsComputed: isComputed})
		} else if !isComputed && plainName != "" {
			// Shorthand: { name } means { name: name }.
			props = append(props, js_ast.Property{
				Key:         key,
				ValueOrNil:  js_ast.Expr{Loc: keyLoc, Data: &js_ast.EIdentifier{Name: plainName}},
				IsShorthand: true,
			})
		} else {
			p.panicf("expected \":\" after computed property name")
		}

		if p.lexer.Token != js_lexer.TComma {
			break
		}
		p.lexer.Next()
	}
	p.expect(js_lexer.TCloseBrace, "\"}\"")
	return js_ast.Expr{Loc: loc, Data: &js_ast.EObject{Properties: props}}
}

func (p *parser) parseArrowBody() []js_ast.Stmt {
	if p.lexer.Token == js_lexer.TOpenBrace {
		return p.parseBlock()
	}
	loc := p.lexer.Loc()
	value := p.parseExpr(js_ast.PrecAssign)
	return []js_ast.Stmt{{Loc: loc, Data: &js_ast.SReturn{ValueOrNil: value}}}
}

// tryParseArrowFnExpr attempts to parse a "(...)" as an arrow function's
// parameter list. It speculatively parses the parenthesized group as a
// parameter list and only commits if that succeeds AND is followed by "=>";
// otherwise it rewinds the lexer so the caller can reparse the same text as
// a parenthesized expression.
func (p *parser) tryParseArrowFnExpr(loc logger.Loc) (js_ast.Expr, bool) {
	snapshot := p.lexer
	var args []js_ast.Arg
	var hasRest bool
	failed := false

	p.silent++
	func() {
		defer func() {
			p.silent--
			if r := recover(); r != nil {
				if _, isParserPanic := r.(parserPanic); isParserPanic {
					failed = true
					return
				}
				if _, isLexerPanic := r.(js_lexer.LexerPanic); isLexerPanic {
					failed = true
					return
				}
				panic(r)
			}
		}()
		args, hasRest = p.parseFnArgs()
	}()

	if failed || p.lexer.Token != js_lexer.TEqualsGreaterThan {
		p.lexer = snapshot
		return js_ast.Expr{}, false
	}

	p.lexer.Next() // consume "=>"
	body := p.parseArrowBody()
	fn := js_ast.Fn{Args: args, Body: body, IsArrow: true, HasRestArg: hasRest}
	return js_ast.Expr{Loc: loc, Data: &js_ast.EArrow{Fn: fn}}, true
}

////////////////////////////////////////////////////////////////////////////
// Suffix (binary/postfix/conditional/assignment)

func binOpForToken(t js_lexer.T) (js_ast.BinOp, bool) {
	switch t {
	case js_lexer.TPlus:
		return js_ast.BinAdd, true
	case js_lexer.TMinus:
		return js_ast.BinSub, true
	case js_lexer.TAsterisk:
		return js_ast.BinMul, true
	case js_lexer.TSlash:
		return js_ast.BinDiv, true
	case js_lexer.TPercent:
		return js_ast.BinRem, true
	case js_lexer.TAsteriskAsterisk:
		return js_ast.BinPow, true
	case js_lexer.TLessThanLessThan:
		return js_ast.BinShl, true
	case js_lexer.TGreaterThanGreaterThan:
		return js_ast.BinShr, true
	case js_lexer.TGreaterThanGreaterThanGreaterThan:
		return js_ast.BinUShr, true
	case js_lexer.TAmpersand:
		return js_ast.BinBitwiseAnd, true
	case js_lexer.TBar:
		return js_ast.BinBitwiseOr, true
	case js_lexer.TCaret:
		return js_ast.BinBitwiseXor, true
	case js_lexer.TLessThan:
		return js_ast.BinLt, true
	case js_lexer.TLessThanEquals:
		return js_ast.BinLe, true
	case js_lexer.TGreaterThan:
		return js_ast.BinGt, true
	case js_lexer.TGreaterThanEquals:
		return js_ast.BinGe, true
	case js_lexer.TEqualsEquals:
		return js_ast.BinEq, true
	case js_lexer.TExclamationEquals:
		return js_ast.BinNe, true
	case js_lexer.TEqualsEqualsEquals:
		return js_ast.BinStrictEq, true
	case js_lexer.TExclamationEqualsEquals:
		return js_ast.BinStrictNe, true
	case js_lexer.TAmpersandAmpersand:
		return js_ast.BinLogicalAnd, true
	case js_lexer.TBarBar:
		return js_ast.BinLogicalOr, true
	case js_lexer.TQuestionQuestion:
		return js_ast.BinNullishCoalescing, true
	case js_lexer.TIn:
		return js_ast.BinIn, true
	case js_lexer.TInstanceof:
		return js_ast.BinInstanceof, true
	}
	return 0, false
}

func assignOpForToken(t js_lexer.T) (js_ast.AssignOp, bool) {
	switch t {
	case js_lexer.TEquals:
		return js_ast.AssignEq, true
	case js_lexer.TPlusEquals:
		return js_ast.AssignAdd, true
	case js_lexer.TMinusEquals:
		return js_ast.AssignSub, true
	case js_lexer.TAsteriskEquals:
		return js_ast.AssignMul, true
	case js_lexer.TSlashEquals:
		return js_ast.AssignDiv, true
	case js_lexer.TPercentEquals:
		return js_ast.AssignRem, true
	case js_lexer.TAsteriskAsteriskEquals:
		return js_ast.AssignPow, true
	case js_lexer.TLessThanLessThanEquals:
		return js_ast.AssignShl, true
	case js_lexer.TGreaterThanGreaterThanEquals:
		return js_ast.AssignShr, true
	case js_lexer.TGreaterThanGreaterThanGreaterThanEquals:
		return js_ast.AssignUShr, true
	case js_lexer.TAmpersandEquals:
		return js_ast.AssignBitwiseAnd, true
	case js_lexer.TBarEquals:
		return js_ast.AssignBitwiseOr, true
	case js_lexer.TCaretEquals:
		return js_ast.AssignBitwiseXor, true
	case js_lexer.TAmpersandAmpersandEquals:
		return js_ast.AssignLogicalAnd, true
	case js_lexer.TBarBarEquals:
		return js_ast.AssignLogicalOr, true
	case js_lexer.TQuestionQuestionEquals:
		return js_ast.AssignNullishCoalescing, true
	}
	return 0, false
}

func (p *parser) parseSuffix(left js_ast.Expr, level js_ast.Precedence) js_ast.Expr {
	for {
		switch p.lexer.Token {
		case js_lexer.TDot:
			p.lexer.Next()
			name := p.expectPropertyKey()
			left = js_ast.Expr{Loc: left.Loc, Data: &js_ast.EMember{Target: left, Name: name}}
			continue

		case js_lexer.TQuestionDot:
			p.lexer.Next()
			if p.lexer.Token == js_lexer.TOpenParen {
				args := p.parseCallArgs()
				left = js_ast.Expr{Loc: left.Loc, Data: &js_ast.ECall{Target: left, Args: args, OptionalChain: true}}
			} else if p.lexer.Token == js_lexer.TOpenBracket {
				p.lexer.Next()
				index := p.parseExpr(js_ast.PrecComma)
				p.expect(js_lexer.TCloseBracket, "\"]\"")
				left = js_ast.Expr{Loc: left.Loc, Data: &js_ast.EMember{Target: left, Index: index, IsComputed: true, OptionalChain: true}}
			} else {
				name := p.expectPropertyKey()
				left = js_ast.Expr{Loc: left.Loc, Data: &js_ast.EMember{Target: left, Name: name, OptionalChain: true}}
			}
			continue

		case js_lexer.TOpenBracket:
			p.lexer.Next()
			index := p.parseExpr(js_ast.PrecComma)
			p.expect(js_lexer.TCloseBracket, "\"]\"")
			left = js_ast.Expr{Loc: left.Loc, Data: &js_ast.EMember{Target: left, Index: index, IsComputed: true}}
			continue

		case js_lexer.TOpenParen:
			if js_ast.PrecMember < level {
				return left
			}
			args := p.parseCallArgs()
			left = js_ast.Expr{Loc: left.Loc, Data: &js_ast.ECall{Target: left, Args: args}}
			continue

		case js_lexer.TPlusPlus:
			if p.lexer.HasNewlineBefore || js_ast.PrecPostfix < level {
				return left
			}
			p.lexer.Next()
			left = js_ast.Expr{Loc: left.Loc, Data: &js_ast.EUpdate{Op: js_ast.UpdateIncr, Target: left, Prefix: false}}
			continue

		case js_lexer.TMinusMinus:
			if p.lexer.HasNewlineBefore || js_ast.PrecPostfix < level {
				return left
			}
			p.lexer.Next()
			left = js_ast.Expr{Loc: left.Loc, Data: &js_ast.EUpdate{Op: js_ast.UpdateDecr, Target: left, Prefix: false}}
			continue

		case js_lexer.TQuestion:
			if js_ast.PrecConditional < level {
				return left
			}
			p.lexer.Next()
			yes := p.parseExpr(js_ast.PrecAssign)
			p.expect(js_lexer.TColon, "\":\"")
			no := p.parseExpr(js_ast.PrecAssign)
			left = js_ast.Expr{Loc: left.Loc, Data: &js_ast.EConditional{Test: left, Yes: yes, No: no}}
			continue

		case js_lexer.TComma:
			if js_ast.PrecComma < level {
				return left
			}
			p.lexer.Next()
			right := p.parseExpr(js_ast.PrecAssign)
			left = js_ast.Expr{Loc: left.Loc, Data: &js_ast.EBinary{Op: js_ast.BinComma, Left: left, Right: right}}
			continue
		}

		if op, ok := assignOpForToken(p.lexer.Token); ok {
			if js_ast.PrecAssign < level {
				return left
			}
			p.lexer.Next()
			value := p.parseExpr(js_ast.PrecAssign)
			left = js_ast.Expr{Loc: left.Loc, Data: &js_ast.EAssign{Op: op, Target: left, Value: value}}
			continue
		}

		if op, ok := binOpForToken(p.lexer.Token); ok {
			prec := op.Precedence()
			if prec < level {
				return left
			}
			p.lexer.Next()
			nextLevel := prec + 1
			if !op.IsLeftAssociative() {
				nextLevel = prec
			}
			right := p.parseExpr(nextLevel)
			left = js_ast.Expr{Loc: left.Loc, Data: &js_ast.EBinary{Op: op, Left: left, Right: right}}
			continue
		}

		return left
	}
}

func (p *parser) parseCallArgs() []js_ast.Expr {
	p.expect(js_lexer.TOpenParen, "\"(\"")
	var args []js_ast.Expr
	for p.lexer.Token != js_lexer.TCloseParen {
		if p.lexer.Token == js_lexer.TDotDotDot {
			spreadLoc := p.lexer.Loc()
			p.lexer.Next()
			args = append(args, js_ast.Expr{Loc: spreadLoc, Data: &js_ast.ESpread{Value: p.parseExpr(js_ast.PrecAssign)}})
		} else {
			args = append(args, p.parseExpr(js_ast.PrecAssign))
		}
		if p.lexer.Token != js_lexer.TComma {
			break
		}
		p.lexer.Next()
	}
	p.expect(js_lexer.TCloseParen, "\")\"")
	return args
}
