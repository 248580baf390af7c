package js_parser

import (
	"testing"

	"github.com/jsqueeze/jsqueeze/internal/js_ast"
	"github.com/jsqueeze/jsqueeze/internal/logger"
)

func parseForTest(t *testing.T, contents string) *js_ast.Program {
	t.Helper()
	log := logger.NewDeferLog()
	source := logger.Source{Contents: contents, PrettyPath: "<test>"}
	program, ok := Parse(log, source)
	if !ok || program == nil {
		t.Fatalf("expected %q to parse successfully", contents)
	}
	return program
}

func expectParseError(t *testing.T, contents string) {
	t.Helper()
	log := logger.NewDeferLog()
	source := logger.Source{Contents: contents, PrettyPath: "<test>"}
	if _, ok := Parse(log, source); ok {
		t.Fatalf("expected %q to fail to parse", contents)
	}
}

func TestParseVarDecls(t *testing.T) {
	program := parseForTest(t, "var a = 1; let b = 2; const c = 3;")
	if len(program.Stmts) != 3 {
		t.Fatalf("expected 3 statements, got %d", len(program.Stmts))
	}
	kinds := []js_ast.VarKind{js_ast.VarVar, js_ast.VarLet, js_ast.VarConst}
	for i, stmt := range program.Stmts {
		v, ok := stmt.Data.(*js_ast.SVar)
		if !ok {
			t.Fatalf("statement %d: expected SVar, got %T", i, stmt.Data)
		}
		if v.Kind != kinds[i] {
			t.Errorf("statement %d: expected kind %v, got %v", i, kinds[i], v.Kind)
		}
	}
}

func TestConstRequiresInitializer(t *testing.T) {
	expectParseError(t, "const a;")
}

func TestParseFunctionDeclaration(t *testing.T) {
	program := parseForTest(t, "function add(a, b) { return a + b; }")
	if len(program.Stmts) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(program.Stmts))
	}
	fn, ok := program.Stmts[0].Data.(*js_ast.SFunction)
	if !ok {
		t.Fatalf("expected SFunction, got %T", program.Stmts[0].Data)
	}
	if fn.Fn.Name == nil || fn.Fn.Name.Name != "add" {
		t.Fatalf("expected function named \"add\"")
	}
	if len(fn.Fn.Args) != 2 {
		t.Fatalf("expected 2 parameters, got %d", len(fn.Fn.Args))
	}
	if len(fn.Fn.Body) != 1 {
		t.Fatalf("expected 1 body statement, got %d", len(fn.Fn.Body))
	}
	ret, ok := fn.Fn.Body[0].Data.(*js_ast.SReturn)
	if !ok {
		t.Fatalf("expected SReturn, got %T", fn.Fn.Body[0].Data)
	}
	bin, ok := ret.ValueOrNil.Data.(*js_ast.EBinary)
	if !ok || bin.Op != js_ast.BinAdd {
		t.Fatalf("expected a+b, got %#v", ret.ValueOrNil.Data)
	}
}

func TestArrowFunctionSingleParam(t *testing.T) {
	program := parseForTest(t, "var double = x => x * 2;")
	v := program.Stmts[0].Data.(*js_ast.SVar)
	arrow, ok := v.Decls[0].ValueOrNil.Data.(*js_ast.EArrow)
	if !ok {
		t.Fatalf("expected EArrow, got %T", v.Decls[0].ValueOrNil.Data)
	}
	if len(arrow.Fn.Args) != 1 || arrow.Fn.Args[0].Binding.Name != "x" {
		t.Fatalf("expected single parameter \"x\"")
	}
}

func TestArrowFunctionParenParams(t *testing.T) {
	program := parseForTest(t, "var add = (a, b) => a + b;")
	v := program.Stmts[0].Data.(*js_ast.SVar)
	arrow, ok := v.Decls[0].ValueOrNil.Data.(*js_ast.EArrow)
	if !ok {
		t.Fatalf("expected EArrow, got %T", v.Decls[0].ValueOrNil.Data)
	}
	if len(arrow.Fn.Args) != 2 {
		t.Fatalf("expected 2 parameters, got %d", len(arrow.Fn.Args))
	}
}

func TestParenthesizedExpressionIsNotArrow(t *testing.T) {
	program := parseForTest(t, "var x = (1 + 2) * 3;")
	v := program.Stmts[0].Data.(*js_ast.SVar)
	bin, ok := v.Decls[0].ValueOrNil.Data.(*js_ast.EBinary)
	if !ok || bin.Op != js_ast.BinMul {
		t.Fatalf("expected a multiplication at the top, got %#v", v.Decls[0].ValueOrNil.Data)
	}
}

func TestOperatorPrecedence(t *testing.T) {
	program := parseForTest(t, "var x = 1 + 2 * 3;")
	v := program.Stmts[0].Data.(*js_ast.SVar)
	bin, ok := v.Decls[0].ValueOrNil.Data.(*js_ast.EBinary)
	if !ok || bin.Op != js_ast.BinAdd {
		t.Fatalf("expected the top-level operator to be +, got %#v", v.Decls[0].ValueOrNil.Data)
	}
	right, ok := bin.Right.Data.(*js_ast.EBinary)
	if !ok || right.Op != js_ast.BinMul {
		t.Fatalf("expected the right operand to be a multiplication, got %#v", bin.Right.Data)
	}
}

func TestExponentiationIsRightAssociative(t *testing.T) {
	program := parseForTest(t, "var x = 2 ** 3 ** 2;")
	v := program.Stmts[0].Data.(*js_ast.SVar)
	bin := v.Decls[0].ValueOrNil.Data.(*js_ast.EBinary)
	if bin.Op != js_ast.BinPow {
		t.Fatalf("expected **, got %v", bin.Op)
	}
	if _, ok := bin.Right.Data.(*js_ast.EBinary); !ok {
		t.Fatalf("expected 2 ** (3 ** 2), got left-associated tree")
	}
	if _, ok := bin.Left.Data.(*js_ast.ENumber); !ok {
		t.Fatalf("expected the left operand to be the literal 2")
	}
}

func TestClassDeclaration(t *testing.T) {
	program := parseForTest(t, `
		class Animal {
			constructor(name) {
				this.name = name;
			}
			speak() {
				return this.name;
			}
		}
	`)
	class, ok := program.Stmts[0].Data.(*js_ast.SClass)
	if !ok {
		t.Fatalf("expected SClass, got %T", program.Stmts[0].Data)
	}
	if class.Class.Name == nil || class.Class.Name.Name != "Animal" {
		t.Fatalf("expected class named \"Animal\"")
	}
	if len(class.Class.Methods) != 2 {
		t.Fatalf("expected 2 methods, got %d", len(class.Class.Methods))
	}
}

func TestImportExport(t *testing.T) {
	program := parseForTest(t, `
		import def, { a, b as c } from "module";
		export const value = 42;
		export default function named() {}
	`)
	if program.Kind != js_ast.SourceModule {
		t.Fatalf("expected a module, got kind %v", program.Kind)
	}
	imp, ok := program.Stmts[0].Data.(*js_ast.SImport)
	if !ok {
		t.Fatalf("expected SImport, got %T", program.Stmts[0].Data)
	}
	if imp.Clause.DefaultNameOrNil == nil || imp.Clause.DefaultNameOrNil.Name != "def" {
		t.Fatalf("expected default import \"def\"")
	}
	if len(imp.Clause.Names) != 2 || imp.Clause.Names[1].Name != "c" {
		t.Fatalf("expected named imports [a, c], got %#v", imp.Clause.Names)
	}

	v, ok := program.Stmts[1].Data.(*js_ast.SVar)
	if !ok || !v.IsExport {
		t.Fatalf("expected an exported const declaration")
	}

	def, ok := program.Stmts[2].Data.(*js_ast.SExportDefault)
	if !ok || def.FnOrNil == nil || def.FnOrNil.Name.Name != "named" {
		t.Fatalf("expected a default-exported named function")
	}
}

func TestTemplateLiteral(t *testing.T) {
	program := parseForTest(t, "var s = `hello ${name}!`;")
	v := program.Stmts[0].Data.(*js_ast.SVar)
	tmpl, ok := v.Decls[0].ValueOrNil.Data.(*js_ast.ETemplate)
	if !ok {
		t.Fatalf("expected ETemplate, got %T", v.Decls[0].ValueOrNil.Data)
	}
	if len(tmpl.Parts) != 1 {
		t.Fatalf("expected 1 substitution, got %d", len(tmpl.Parts))
	}
	if _, ok := tmpl.Parts[0].Value.Data.(*js_ast.EIdentifier); !ok {
		t.Fatalf("expected the substitution to be an identifier")
	}
}

func TestForLoop(t *testing.T) {
	program := parseForTest(t, "for (var i = 0; i < 10; i++) { sum += i; }")
	forStmt, ok := program.Stmts[0].Data.(*js_ast.SFor)
	if !ok {
		t.Fatalf("expected SFor, got %T", program.Stmts[0].Data)
	}
	if _, ok := forStmt.InitOrNil.Data.(*js_ast.SVar); !ok {
		t.Fatalf("expected a var declaration initializer")
	}
	if _, ok := forStmt.TestOrNil.Data.(*js_ast.EBinary); !ok {
		t.Fatalf("expected a binary test expression")
	}
	if _, ok := forStmt.UpdateOrNil.Data.(*js_ast.EUpdate); !ok {
		t.Fatalf("expected an update expression")
	}
}

func TestObjectLiteralShorthandAndMethod(t *testing.T) {
	program := parseForTest(t, "var o = { x, y: 1, greet() { return 1; } };")
	v := program.Stmts[0].Data.(*js_ast.SVar)
	obj, ok := v.Decls[0].ValueOrNil.Data.(*js_ast.EObject)
	if !ok {
		t.Fatalf("expected EObject, got %T", v.Decls[0].ValueOrNil.Data)
	}
	if len(obj.Properties) != 3 {
		t.Fatalf("expected 3 properties, got %d", len(obj.Properties))
	}
	if !obj.Properties[0].IsShorthand {
		t.Errorf("expected the first property to be shorthand")
	}
	if !obj.Properties[2].IsMethod {
		t.Errorf("expected the third property to be a method")
	}
}

func TestDestructuringBindingIsRejected(t *testing.T) {
	expectParseError(t, "var { a, b } = obj;")
	expectParseError(t, "var [a, b] = arr;")
}

func TestRegexpLiteral(t *testing.T) {
	program := parseForTest(t, "var re = /ab+c/;")
	v := program.Stmts[0].Data.(*js_ast.SVar)
	if _, ok := v.Decls[0].ValueOrNil.Data.(*js_ast.ERegExp); !ok {
		t.Fatalf("expected ERegExp, got %T", v.Decls[0].ValueOrNil.Data)
	}
}

func TestDivisionIsNotMisreadAsRegexp(t *testing.T) {
	program := parseForTest(t, "var x = a / b / c;")
	v := program.Stmts[0].Data.(*js_ast.SVar)
	bin, ok := v.Decls[0].ValueOrNil.Data.(*js_ast.EBinary)
	if !ok || bin.Op != js_ast.BinDiv {
		t.Fatalf("expected a division, got %#v", v.Decls[0].ValueOrNil.Data)
	}
}
