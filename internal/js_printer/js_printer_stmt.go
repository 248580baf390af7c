package js_printer

import (
	"github.com/jsqueeze/jsqueeze/internal/js_ast"
)

func (p *printer) printProgram(program *js_ast.Program) {
	p.printStmtList(program.Stmts, false)
	p.printSemicolonIfNeeded()
}

// printStmtList prints each statement of a block/program in turn, flushing
// any pending compact-mode semicolon from the previous one first. Only a
// list closed by a brace (endsAtBrace) treats its final statement as last
// for terminateStmt; every top-level statement of a program keeps its ";".
func (p *printer) printStmtList(stmts []js_ast.Stmt, endsAtBrace bool) {
	for i, stmt := range stmts {
		if _, ok := stmt.Data.(*js_ast.SEmpty); ok {
			continue
		}
		p.checkSizeLimit()
		p.printSemicolonIfNeeded()
		p.printIndent()
		p.printStmt(stmt, endsAtBrace && i == len(stmts)-1)
		p.printNewline()
	}
}

func (p *printer) printBlock(stmts []js_ast.Stmt) {
	p.printByte('{')
	p.indent++
	p.printNewline()
	p.printStmtList(stmts, true)
	p.printSemicolonIfNeeded()
	p.indent--
	p.printIndent()
	p.printByte('}')
}

// printBodyStmt prints the (possibly brace-less) body of an if/while/for. A
// block prints as-is; anything else is printed as a standalone statement
// that always gets an explicit terminator, since there is no following
// sibling/closing-brace for the Remove-mode omission to key off of.
func (p *printer) printBodyStmt(stmt js_ast.Stmt) {
	if block, ok := stmt.Data.(*js_ast.SBlock); ok {
		p.printSpace()
		p.printBlock(block.Stmts)
		return
	}
	p.printSpace()
	p.printStmt(stmt, false)
	p.printSemicolonIfNeeded()
}

// terminateStmt applies the §4.3/§6 "semicolon" policy. SemicolonAlways
// always emits an explicit terminator, trivially satisfying ASI safety (the
// classic "a\n(b)" trap, §8 scenario 8, cannot arise when every statement
// already ends in ";"). Both SemicolonAuto (the zero value, matching the
// documented CLI default) and SemicolonRemove omit the terminator for the
// last statement of a block, since the closing brace unambiguously
// terminates the statement there regardless of format or restricted
// production, but never for a restricted production carrying an argument
// (return/throw/break/continue), matching §4.3 literally. Remove is kept as
// a distinct mode rather than folded into Auto because it is the one meant
// to grow more aggressive mid-block omission (relying on the leading-
// semicolon protection rule for Readable/Pretty's real newlines) if this
// tool ever supports it; no §8 scenario distinguishes the two today, so for
// now they produce identical output.
func (p *printer) terminateStmt(isLast bool, isRestrictedWithArg bool) {
	if p.options.Semicolon != SemicolonAlways && isLast && !isRestrictedWithArg {
		return
	}
	p.printSemicolonAfterStatement()
}

func (p *printer) printStmt(stmt js_ast.Stmt, isLast bool) {
	switch s := stmt.Data.(type) {
	case *js_ast.SEmpty:
		// Nothing to print; printStmtList already skips these.

	case *js_ast.SBlock:
		p.printBlock(s.Stmts)

	case *js_ast.SVar:
		p.printVarDecl(s, isLast)

	case *js_ast.SFunction:
		if s.IsExport {
			p.printSpaceBeforeIdentifier()
			p.print("export")
			p.printSpace()
		}
		p.printSpaceBeforeIdentifier()
		p.print("function")
		p.printFn(s.Fn)

	case *js_ast.SClass:
		if s.IsExport {
			p.printSpaceBeforeIdentifier()
			p.print("export")
			p.printSpace()
		}
		p.printSpaceBeforeIdentifier()
		p.print("class")
		p.printClassBody(s.Class)

	case *js_ast.SExpr:
		p.addSourceMapping(stmt.Loc)
		// An expression statement that starts with "{", "function" or
		// "class" would otherwise be misread as a block or declaration.
		if startsWithObjectLiteral(s.Value) || startsWithFunctionOrClass(s.Value) {
			p.printByte('(')
			p.printExprNoWrap(s.Value)
			p.printByte(')')
		} else {
			p.printExpr(s.Value, js_ast.PrecComma)
		}
		p.terminateStmt(isLast, false)

	case *js_ast.SReturn:
		p.addSourceMapping(stmt.Loc)
		p.printSpaceBeforeIdentifier()
		p.print("return")
		if s.ValueOrNil.Data != nil {
			p.printSpace()
			p.printExpr(s.ValueOrNil, js_ast.PrecComma)
		}
		p.terminateStmt(isLast, s.ValueOrNil.Data != nil)

	case *js_ast.SThrow:
		p.addSourceMapping(stmt.Loc)
		p.printSpaceBeforeIdentifier()
		p.print("throw")
		p.printSpace()
		p.printExpr(s.Value, js_ast.PrecComma)
		p.terminateStmt(isLast, true)

	case *js_ast.SIf:
		p.addSourceMapping(stmt.Loc)
		p.printIf(s)

	case *js_ast.SWhile:
		p.addSourceMapping(stmt.Loc)
		p.printSpaceBeforeIdentifier()
		p.print("while")
		p.printSpace()
		p.printByte('(')
		p.printExpr(s.Test, js_ast.PrecComma)
		p.printByte(')')
		p.printBodyStmt(s.Body)

	case *js_ast.SFor:
		p.addSourceMapping(stmt.Loc)
		p.printFor(s)

	case *js_ast.SBreak:
		p.addSourceMapping(stmt.Loc)
		p.printSpaceBeforeIdentifier()
		p.print("break")
		if s.LabelOrNil != "" {
			p.printSpace()
			p.print(s.LabelOrNil)
		}
		p.terminateStmt(isLast, s.LabelOrNil != "")

	case *js_ast.SContinue:
		p.addSourceMapping(stmt.Loc)
		p.printSpaceBeforeIdentifier()
		p.print("continue")
		if s.LabelOrNil != "" {
			p.printSpace()
			p.print(s.LabelOrNil)
		}
		p.terminateStmt(isLast, s.LabelOrNil != "")

	case *js_ast.SImport:
		p.addSourceMapping(stmt.Loc)
		p.printImport(s)
		p.terminateStmt(isLast, false)

	case *js_ast.SExportClause:
		p.addSourceMapping(stmt.Loc)
		p.printExportClause(s)
		p.terminateStmt(isLast, false)

	case *js_ast.SExportDefault:
		p.addSourceMapping(stmt.Loc)
		p.printExportDefault(s, isLast)

	default:
		p.fail(UnsupportedNode, "unsupported statement node %T", stmt.Data)
	}
}

func (p *printer) printVarDecl(s *js_ast.SVar, isLast bool) {
	if s.IsExport {
		p.printSpaceBeforeIdentifier()
		p.print("export")
		p.printSpace()
	}
	p.printSpaceBeforeIdentifier()
	p.print(s.Kind.Text())
	p.printSpace()
	for i, decl := range s.Decls {
		if i > 0 {
			p.printByte(',')
		}
		p.printBinding(decl.Binding, decl.Binding.Loc)
		if decl.ValueOrNil.Data != nil {
			p.printByte('=')
			p.printExpr(decl.ValueOrNil, js_ast.PrecAssign)
		}
	}
	p.terminateStmt(isLast, false)
}

func (p *printer) printIf(s *js_ast.SIf) {
	p.printSpaceBeforeIdentifier()
	p.print("if")
	p.printSpace()
	p.printByte('(')
	p.printExpr(s.Test, js_ast.PrecComma)
	p.printByte(')')
	p.printBodyStmt(s.Yes)

	if s.NoOrNil.Data == nil {
		return
	}
	p.printSemicolonIfNeeded()
	p.printSpace()
	p.printSpaceBeforeIdentifier()
	p.print("else")
	if elseIf, ok := s.NoOrNil.Data.(*js_ast.SIf); ok {
		p.printSpace()
		p.printIf(elseIf)
		return
	}
	p.printBodyStmt(s.NoOrNil)
}

func (p *printer) printFor(s *js_ast.SFor) {
	p.printSpaceBeforeIdentifier()
	p.print("for")
	p.printSpace()
	p.printByte('(')
	if s.InitOrNil.Data != nil {
		p.printForClause(s.InitOrNil)
	}
	p.printByte(';')
	if s.TestOrNil.Data != nil {
		p.printExpr(s.TestOrNil, js_ast.PrecComma)
	}
	p.printByte(';')
	if s.UpdateOrNil.Data != nil {
		p.printExpr(s.UpdateOrNil, js_ast.PrecComma)
	}
	p.printByte(')')
	p.printBodyStmt(s.Body)
}

// printForClause prints the for-loop's init clause, which is either a var
// declaration or a bare expression statement, without its own terminator.
func (p *printer) printForClause(stmt js_ast.Stmt) {
	switch s := stmt.Data.(type) {
	case *js_ast.SVar:
		p.printSpaceBeforeIdentifier()
		p.print(s.Kind.Text())
		p.printSpace()
		for i, decl := range s.Decls {
			if i > 0 {
				p.printByte(',')
			}
			p.printBinding(decl.Binding, decl.Binding.Loc)
			if decl.ValueOrNil.Data != nil {
				p.printByte('=')
				p.printExpr(decl.ValueOrNil, js_ast.PrecAssign)
			}
		}
	case *js_ast.SExpr:
		p.printExpr(s.Value, js_ast.PrecComma)
	default:
		p.fail(MalformedAst, "unsupported for-loop init node %T", stmt.Data)
	}
}

func (p *printer) printImport(s *js_ast.SImport) {
	p.printSpaceBeforeIdentifier()
	p.print("import")
	p.printSpace()

	printedClause := false
	if s.Clause.DefaultNameOrNil != nil {
		p.printBinding(*s.Clause.DefaultNameOrNil, s.Clause.DefaultNameOrNil.Loc)
		printedClause = true
	}
	if s.Clause.NamespaceOrNil != nil {
		if printedClause {
			p.printByte(',')
		}
		p.printByte('*')
		p.printSpace()
		p.print("as")
		p.printSpace()
		p.printBinding(*s.Clause.NamespaceOrNil, s.Clause.NamespaceOrNil.Loc)
		printedClause = true
	}
	if len(s.Clause.Names) > 0 {
		if printedClause {
			p.printByte(',')
		}
		p.printByte('{')
		for i, name := range s.Clause.Names {
			if i > 0 {
				p.printByte(',')
			}
			p.printBinding(name, name.Loc)
		}
		p.printByte('}')
		printedClause = true
	}
	if printedClause {
		p.printSpace()
		p.printSpaceBeforeIdentifier()
		p.print("from")
		p.printSpace()
	}
	p.printQuotedString(s.Path)
}

func (p *printer) printExportClause(s *js_ast.SExportClause) {
	p.printSpaceBeforeIdentifier()
	p.print("export")
	p.printSpace()
	p.printByte('{')
	for i, name := range s.Names {
		if i > 0 {
			p.printByte(',')
		}
		resolved := p.nameForIdentifier(name.Loc, name.LocalName)
		p.addSourceMappingForName(name.Loc, resolved)
		p.printIdentifier(resolved)
		if resolved != name.ExportedName {
			p.printSpace()
			p.print("as")
			p.printSpace()
			p.print(name.ExportedName)
		}
	}
	p.printByte('}')
}

func (p *printer) printExportDefault(s *js_ast.SExportDefault, isLast bool) {
	p.printSpaceBeforeIdentifier()
	p.print("export")
	p.printSpace()
	p.printSpaceBeforeIdentifier()
	p.print("default")
	p.printSpace()

	switch {
	case s.FnOrNil != nil:
		p.printSpaceBeforeIdentifier()
		p.print("function")
		p.printFn(*s.FnOrNil)
	case s.ClassOrNil != nil:
		p.printSpaceBeforeIdentifier()
		p.print("class")
		p.printClassBody(*s.ClassOrNil)
	default:
		p.printExpr(s.ValueOrNil, js_ast.PrecAssign)
		p.terminateStmt(isLast, false)
	}
}

func (p *printer) printClassBody(class js_ast.Class) {
	if class.Name != nil {
		p.printBinding(*class.Name, class.Name.Loc)
	}
	if class.ExtendsOrNil.Data != nil {
		p.printSpace()
		p.printSpaceBeforeIdentifier()
		p.print("extends")
		p.printSpace()
		p.printExpr(class.ExtendsOrNil, js_ast.PrecMember)
	}
	p.printSpace()
	p.printByte('{')
	p.indent++
	for _, m := range class.Methods {
		p.printNewline()
		p.printIndent()
		p.addSourceMapping(m.Loc)
		if m.IsStatic {
			p.printSpaceBeforeIdentifier()
			p.print("static")
			p.printSpace()
		}
		p.printMethodKey(m.Key)
		p.printFn(m.Fn)
	}
	p.indent--
	p.printNewline()
	p.printIndent()
	p.printByte('}')
}

func (p *printer) printMethodKey(key string) {
	if js_ast.IsIdentifier(key) {
		p.printSpaceBeforeIdentifier()
		p.print(key)
		return
	}
	p.printQuotedString(key)
}
