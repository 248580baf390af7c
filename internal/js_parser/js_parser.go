// Package js_parser is stage 1 of the pipeline (§2): a recursive-descent
// parser that turns lexer tokens into the raw-name AST defined by
// internal/js_ast. It is deliberately the "external collaborator" the spec
// describes — it never looks at scope or symbol identity, it only produces
// syntax. internal/analyzer is the first stage that cares what an identifier
// resolves to.
package js_parser

import (
	"fmt"

	"github.com/jsqueeze/jsqueeze/internal/js_ast"
	"github.com/jsqueeze/jsqueeze/internal/js_lexer"
	"github.com/jsqueeze/jsqueeze/internal/logger"
)

type parser struct {
	log    logger.Log
	source logger.Source
	lexer  js_lexer.Lexer

	// silent suppresses panicf's log write. It is incremented around
	// speculative parses (the arrow-function parameter-list probe) so a
	// parse attempt that is expected to fail sometimes doesn't surface a
	// bogus diagnostic for input that turns out to be perfectly valid.
	silent int
}

// parserPanic is recovered by Parse, the same way js_lexer.LexerPanic is:
// both collapse into a single ParseError in the driver's error taxonomy
// (§7), so nothing downstream needs to distinguish a lex failure from a
// syntax failure.
type parserPanic struct{}

func (p *parser) panicf(format string, args ...interface{}) {
	if p.silent == 0 {
		p.log.AddError(&p.source, p.lexer.Loc(), fmt.Sprintf(format, args...))
	}
	panic(parserPanic{})
}

// Parse tokenizes and parses source, returning the resulting Program and
// whether parsing succeeded. On failure the returned Program is nil and a
// diagnostic has already been appended to log.
func Parse(log logger.Log, source logger.Source) (program *js_ast.Program, ok bool) {
	p := &parser{log: log, source: source}
	ok = true

	defer func() {
		if r := recover(); r != nil {
			switch r.(type) {
			case js_lexer.LexerPanic, parserPanic:
				program = nil
				ok = false
			default:
				panic(r)
			}
		}
	}()

	p.lexer = js_lexer.NewLexer(log, source)
	stmts := p.parseStmtsUntil(js_lexer.TEndOfFile)

	kind := js_ast.SourceScript
stmtLoop:
	for _, s := range stmts {
		switch stmt := s.Data.(type) {
		case *js_ast.SImport, *js_ast.SExportClause, *js_ast.SExportDefault:
			kind = js_ast.SourceModule
			break stmtLoop
		case *js_ast.SFunction:
			if stmt.IsExport {
				kind = js_ast.SourceModule
				break stmtLoop
			}
		case *js_ast.SClass:
			if stmt.IsExport {
				kind = js_ast.SourceModule
				break stmtLoop
			}
		case *js_ast.SVar:
			if stmt.IsExport {
				kind = js_ast.SourceModule
				break stmtLoop
			}
		}
	}

	program = &js_ast.Program{Stmts: stmts, Kind: kind}
	return
}

////////////////////////////////////////////////////////////////////////////
// Token helpers

func (p *parser) expect(t js_lexer.T, what string) {
	if p.lexer.Token != t {
		p.panicf("expected %s but found %q", what, p.lexer.Raw())
	}
	p.lexer.Next()
}

func (p *parser) expectIdentifier() string {
	if p.lexer.Token != js_lexer.TIdentifier {
		p.panicf("expected identifier but found %q", p.lexer.Raw())
	}
	name := p.lexer.Identifier
	p.lexer.Next()
	return name
}

// expectSemicolon implements automatic semicolon insertion (ASI): an
// explicit ";" is always consumed; otherwise a "}" token, end of file, or a
// newline before the current token silently ends the statement.
func (p *parser) expectSemicolon() {
	switch p.lexer.Token {
	case js_lexer.TSemicolon:
		p.lexer.Next()
	case js_lexer.TCloseBrace, js_lexer.TEndOfFile:
		return
	default:
		if p.lexer.HasNewlineBefore {
			return
		}
		p.panicf("expected \";\" but found %q", p.lexer.Raw())
	}
}

func (p *parser) isContextualKeyword(name string) bool {
	return p.lexer.Token == js_lexer.TIdentifier && p.lexer.Identifier == name
}

////////////////////////////////////////////////////////////////////////////
// Statements

func (p *parser) parseStmtsUntil(end js_lexer.T) []js_ast.Stmt {
	var stmts []js_ast.Stmt
	for p.lexer.Token != end {
		stmts = append(stmts, p.parseStmt())
	}
	return stmts
}

func (p *parser) parseBlock() []js_ast.Stmt {
	p.expect(js_lexer.TOpenBrace, "\"{\"")
	stmts := p.parseStmtsUntil(js_lexer.TCloseBrace)
	p.expect(js_lexer.TCloseBrace, "\"}\"")
	return stmts
}

func (p *parser) parseStmt() js_ast.Stmt {
	loc := p.lexer.Loc()

	switch p.lexer.Token {
	case js_lexer.TSemicolon:
		p.lexer.Next()
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SEmpty{}}

	case js_lexer.TOpenBrace:
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SBlock{Stmts: p.parseBlock()}}

	case js_lexer.TVar:
		p.lexer.Next()
		decl := p.parseVarDecl(js_ast.VarVar, false)
		p.expectSemicolon()
		return js_ast.Stmt{Loc: loc, Data: decl}

	case js_lexer.TConst:
		p.lexer.Next()
		decl := p.parseVarDecl(js_ast.VarConst, false)
		p.expectSemicolon()
		return js_ast.Stmt{Loc: loc, Data: decl}

	case js_lexer.TFunction:
		p.lexer.Next()
		fn := p.parseFn(false)
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SFunction{Fn: fn}}

	case js_lexer.TClass:
		p.lexer.Next()
		class := p.parseClass()
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SClass{Class: class}}

	case js_lexer.TIf:
		return p.parseIf(loc)

	case js_lexer.TWhile:
		p.lexer.Next()
		p.expect(js_lexer.TOpenParen, "\"(\"")
		test := p.parseExpr(js_ast.PrecComma)
		p.expect(js_lexer.TCloseParen, "\")\"")
		body := p.parseStmt()
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SWhile{Test: test, Body: body}}

	case js_lexer.TFor:
		return p.parseFor(loc)

	case js_lexer.TReturn:
		p.lexer.Next()
		var value js_ast.Expr
		if p.lexer.Token != js_lexer.TSemicolon && p.lexer.Token != js_lexer.TCloseBrace &&
			p.lexer.Token != js_lexer.TEndOfFile && !p.lexer.HasNewlineBefore {
			value = p.parseExpr(js_ast.PrecComma)
		}
		p.expectSemicolon()
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SReturn{ValueOrNil: value}}

	case js_lexer.TThrow:
		p.lexer.Next()
		value := p.parseExpr(js_ast.PrecComma)
		p.expectSemicolon()
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SThrow{Value: value}}

	case js_lexer.TBreak:
		p.lexer.Next()
		p.expectSemicolon()
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SBreak{}}

	case js_lexer.TContinue:
		p.lexer.Next()
		p.expectSemicolon()
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SContinue{}}

	case js_lexer.TImport:
		return p.parseImport(loc)

	case js_lexer.TExport:
		return p.parseExport(loc)

	case js_lexer.TIdentifier:
		if p.lexer.Identifier == "let" {
			p.lexer.Next()
			decl := p.parseVarDecl(js_ast.VarLet, false)
			p.expectSemicolon()
			return js_ast.Stmt{Loc: loc, Data: decl}
		}
	}

	// Expression statement, the fallback production.
	value := p.parseExpr(js_ast.PrecComma)
	p.expectSemicolon()
	return js_ast.Stmt{Loc: loc, Data: &js_ast.SExpr{Value: value}}
}

func (p *parser) parseVarDecl(kind js_ast.VarKind, isExport bool) *js_ast.SVar {
	var decls []js_ast.Decl
	for {
		binding := p.parseBinding()
		var value js_ast.Expr
		if p.lexer.Token == js_lexer.TEquals {
			p.lexer.Next()
			value = p.parseExpr(js_ast.PrecAssign)
		} else if kind == js_ast.VarConst {
			p.panicf("const declaration requires an initializer")
		}
		decls = append(decls, js_ast.Decl{Binding: binding, ValueOrNil: value})
		if p.lexer.Token != js_lexer.TComma {
			break
		}
		p.lexer.Next()
	}
	return &js_ast.SVar{Kind: kind, Decls: decls, IsExport: isExport}
}

// parseBinding accepts only a plain identifier: destructuring patterns are
// out of scope (spec §9 design note), so "[" or "{" here is a parse error
// rather than silently falling back to something the analyzer can't model.
func (p *parser) parseBinding() js_ast.Binding {
	loc := p.lexer.Loc()
	if p.lexer.Token != js_lexer.TIdentifier {
		p.panicf("expected identifier but found %q", p.lexer.Raw())
	}
	name := p.lexer.Identifier
	p.lexer.Next()
	return js_ast.Binding{Loc: loc, Name: name}
}

func (p *parser) parseIf(loc logger.Loc) js_ast.Stmt {
	p.lexer.Next()
	p.expect(js_lexer.TOpenParen, "\"(\"")
	test := p.parseExpr(js_ast.PrecComma)
	p.expect(js_lexer.TCloseParen, "\")\"")
	yes := p.parseStmt()
	var no js_ast.Stmt
	if p.lexer.Token == js_lexer.TElse {
		p.lexer.Next()
		no = p.parseStmt()
	}
	return js_ast.Stmt{Loc: loc, Data: &js_ast.SIf{Test: test, Yes: yes, NoOrNil: no}}
}

// parseFor supports only the classic three-clause form (§9 design note:
// for-in/for-of are not part of the retained grammar).
func (p *parser) parseFor(loc logger.Loc) js_ast.Stmt {
	p.lexer.Next()
	p.expect(js_lexer.TOpenParen, "\"(\"")

	var init js_ast.Stmt
	switch p.lexer.Token {
	case js_lexer.TSemicolon:
		// No initializer.
	case js_lexer.TVar:
		initLoc := p.lexer.Loc()
		p.lexer.Next()
		init = js_ast.Stmt{Loc: initLoc, Data: p.parseVarDecl(js_ast.VarVar, false)}
	case js_lexer.TConst:
		initLoc := p.lexer.Loc()
		p.lexer.Next()
		init = js_ast.Stmt{Loc: initLoc, Data: p.parseVarDecl(js_ast.VarConst, false)}
	default:
		if p.isContextualKeyword("let") {
			initLoc := p.lexer.Loc()
			p.lexer.Next()
			init = js_ast.Stmt{Loc: initLoc, Data: p.parseVarDecl(js_ast.VarLet, false)}
		} else {
			initLoc := p.lexer.Loc()
			init = js_ast.Stmt{Loc: initLoc, Data: &js_ast.SExpr{Value: p.parseExpr(js_ast.PrecComma)}}
		}
	}
	p.expect(js_lexer.TSemicolon, "\";\"")

	var test js_ast.Expr
	if p.lexer.Token != js_lexer.TSemicolon {
		test = p.parseExpr(js_ast.PrecComma)
	}
	p.expect(js_lexer.TSemicolon, "\";\"")

	var update js_ast.Expr
	if p.lexer.Token != js_lexer.TCloseParen {
		update = p.parseExpr(js_ast.PrecComma)
	}
	p.expect(js_lexer.TCloseParen, "\")\"")

	body := p.parseStmt()
	return js_ast.Stmt{Loc: loc, Data: &js_ast.SFor{InitOrNil: init, TestOrNil: test, UpdateOrNil: update, Body: body}}
}

func (p *parser) parseImport(loc logger.Loc) js_ast.Stmt {
	p.lexer.Next()
	var clause js_ast.ImportClause

	if p.lexer.Token == js_lexer.TIdentifier {
		nameLoc := p.lexer.Loc()
		name := p.lexer.Identifier
		p.lexer.Next()
		clause.DefaultNameOrNil = &js_ast.Binding{Loc: nameLoc, Name: name}
		if p.lexer.Token == js_lexer.TComma {
			p.lexer.Next()
		}
	}

	if p.lexer.Token == js_lexer.TAsterisk {
		p.lexer.Next()
		if !p.isContextualKeyword("as") {
			p.panicf("expected \"as\" after \"*\"")
		}
		p.lexer.Next()
		nameLoc := p.lexer.Loc()
		name := p.expectIdentifier()
		clause.NamespaceOrNil = &js_ast.Binding{Loc: nameLoc, Name: name}
	} else if p.lexer.Token == js_lexer.TOpenBrace {
		p.lexer.Next()
		for p.lexer.Token != js_lexer.TCloseBrace {
			nameLoc := p.lexer.Loc()
			name := p.expectIdentifier()
			if p.isContextualKeyword("as") {
				p.lexer.Next()
				nameLoc = p.lexer.Loc()
				name = p.expectIdentifier()
			}
			clause.Names = append(clause.Names, js_ast.Binding{Loc: nameLoc, Name: name})
			if p.lexer.Token != js_lexer.TComma {
				break
			}
			p.lexer.Next()
		}
		p.expect(js_lexer.TCloseBrace, "\"}\"")
	}

	var path string
	if p.isContextualKeyword("from") {
		p.lexer.Next()
	}
	if p.lexer.Token == js_lexer.TStringLiteral {
		path = p.lexer.StringValue
		p.lexer.Next()
	} else {
		p.panicf("expected a module path string")
	}
	p.expectSemicolon()
	return js_ast.Stmt{Loc: loc, Data: &js_ast.SImport{Clause: clause, Path: path}}
}

func (p *parser) parseExport(loc logger.Loc) js_ast.Stmt {
	p.lexer.Next()

	switch p.lexer.Token {
	case js_lexer.TDefault:
		p.lexer.Next()
		switch p.lexer.Token {
		case js_lexer.TFunction:
			p.lexer.Next()
			fn := p.parseFn(false)
			return js_ast.Stmt{Loc: loc, Data: &js_ast.SExportDefault{FnOrNil: &fn}}
		case js_lexer.TClass:
			p.lexer.Next()
			class := p.parseClass()
			return js_ast.Stmt{Loc: loc, Data: &js_ast.SExportDefault{ClassOrNil: &class}}
		default:
			value := p.parseExpr(js_ast.PrecAssign)
			p.expectSemicolon()
			return js_ast.Stmt{Loc: loc, Data: &js_ast.SExportDefault{ValueOrNil: value}}
		}

	case js_lexer.TVar:
		p.lexer.Next()
		decl := p.parseVarDecl(js_ast.VarVar, true)
		p.expectSemicolon()
		return js_ast.Stmt{Loc: loc, Data: decl}

	case js_lexer.TConst:
		p.lexer.Next()
		decl := p.parseVarDecl(js_ast.VarConst, true)
		p.expectSemicolon()
		return js_ast.Stmt{Loc: loc, Data: decl}

	case js_lexer.TFunction:
		p.lexer.Next()
		fn := p.parseFn(false)
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SFunction{Fn: fn, IsExport: true}}

	case js_lexer.TClass:
		p.lexer.Next()
		class := p.parseClass()
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SClass{Class: class, IsExport: true}}

	case js_lexer.TOpenBrace:
		p.lexer.Next()
		var names []js_ast.ExportName
		for p.lexer.Token != js_lexer.TCloseBrace {
			localLoc := p.lexer.Loc()
			local := p.expectIdentifier()
			exported := local
			if p.isContextualKeyword("as") {
				p.lexer.Next()
				exported = p.expectIdentifier()
			}
			names = append(names, js_ast.ExportName{Loc: localLoc, LocalName: local, ExportedName: exported})
			if p.lexer.Token != js_lexer.TComma {
				break
			}
			p.lexer.Next()
		}
		p.expect(js_lexer.TCloseBrace, "\"}\"")
		p.expectSemicolon()
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SExportClause{Names: names}}

	case js_lexer.TIdentifier:
		if p.lexer.Identifier == "let" {
			p.lexer.Next()
			decl := p.parseVarDecl(js_ast.VarLet, true)
			p.expectSemicolon()
			return js_ast.Stmt{Loc: loc, Data: decl}
		}
	}

	p.panicf("unexpected token after \"export\": %q", p.lexer.Raw())
	panic(parserPanic{})
}

////////////////////////////////////////////////////////////////////////////
// Functions & classes

func (p *parser) parseFn(isArrow bool) js_ast.Fn {
	var name *js_ast.Binding
	if !isArrow && p.lexer.Token == js_lexer.TIdentifier {
		b := p.parseBinding()
		name = &b
	}
	args, hasRest := p.parseFnArgs()
	body := p.parseBlock()
	return js_ast.Fn{Name: name, Args: args, Body: body, IsArrow: isArrow, HasRestArg: hasRest}
}

func (p *parser) parseFnArgs() (args []js_ast.Arg, hasRest bool) {
	p.expect(js_lexer.TOpenParen, "\"(\"")
	for p.lexer.Token != js_lexer.TCloseParen {
		isRest := false
		if p.lexer.Token == js_lexer.TDotDotDot {
			p.lexer.Next()
			isRest = true
		}
		binding := p.parseBinding()
		var def js_ast.Expr
		if p.lexer.Token == js_lexer.TEquals {
			p.lexer.Next()
			def = p.parseExpr(js_ast.PrecAssign)
		}
		args = append(args, js_ast.Arg{Binding: binding, DefaultOrNil: def})
		if isRest {
			hasRest = true
		}
		if p.lexer.Token != js_lexer.TComma {
			break
		}
		p.lexer.Next()
	}
	p.expect(js_lexer.TCloseParen, "\")\"")
	return
}

func (p *parser) parseClass() js_ast.Class {
	var name *js_ast.Binding
	if p.lexer.Token == js_lexer.TIdentifier {
		b := p.parseBinding()
		name = &b
	}
	var extends js_ast.Expr
	if p.lexer.Token == js_lexer.TExtends {
		p.lexer.Next()
		extends = p.parseExpr(js_ast.PrecMember)
	}
	p.expect(js_lexer.TOpenBrace, "\"{\"")
	var methods []js_ast.ClassMethod
	for p.lexer.Token != js_lexer.TCloseBrace {
		if p.lexer.Token == js_lexer.TSemicolon {
			p.lexer.Next()
			continue
		}
		methodLoc := p.lexer.Loc()
		isStatic := false
		if p.isContextualKeyword("static") {
			p.lexer.Next()
			isStatic = true
		}
		key := p.expectPropertyKey()
		fn := p.parseFn(false)
		methods = append(methods, js_ast.ClassMethod{Loc: methodLoc, Key: key, Fn: fn, IsStatic: isStatic})
	}
	p.expect(js_lexer.TCloseBrace, "\"}\"")
	return js_ast.Class{Name: name, ExtendsOrNil: extends, Methods: methods}
}

// expectPropertyKey accepts an identifier or keyword used as a property
// name, which covers method names like "constructor" that would otherwise
// collide with a reserved word.
func (p *parser) expectPropertyKey() string {
	if p.lexer.Token == js_lexer.TStringLiteral {
		v := p.lexer.StringValue
		p.lexer.Next()
		return v
	}
	name := p.lexer.Raw()
	if p.lexer.Token == js_lexer.TIdentifier {
		name = p.lexer.Identifier
	}
	p.lexer.Next()
	return name
}
