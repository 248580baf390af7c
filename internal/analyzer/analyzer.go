// Package analyzer implements stage 2 of the pipeline (§2, §4.1): it walks
// the parser's AST once to build a ScopeTree and SymbolTable (Pass A) and
// once more to classify what may be safely renamed or rewritten (Pass B).
package analyzer

import (
	"fmt"

	"github.com/jsqueeze/jsqueeze/internal/ast"
	"github.com/jsqueeze/jsqueeze/internal/js_ast"
	"github.com/jsqueeze/jsqueeze/internal/logger"
)

// ErrorKind enumerates the AnalysisError taxonomy from §7.
type ErrorKind uint8

const (
	ScopeAnalysisFailed ErrorKind = iota
	SymbolResolutionFailed
	InvalidScopeNesting
	TemporalDeadZoneViolation
	UnsafeScope
	Internal
)

func (k ErrorKind) String() string {
	switch k {
	case ScopeAnalysisFailed:
		return "ScopeAnalysisFailed"
	case SymbolResolutionFailed:
		return "SymbolResolutionFailed"
	case InvalidScopeNesting:
		return "InvalidScopeNesting"
	case TemporalDeadZoneViolation:
		return "TemporalDeadZoneViolation"
	case UnsafeScope:
		return "UnsafeScope"
	default:
		return "Internal"
	}
}

// Error is a fatal AnalysisError. Unresolved references are NOT reported
// here — the spec requires they degrade to free globals instead (§4.1 Pass
// A, §7) — this type only carries the handful of conditions the analyzer
// treats as hard failures.
type Error struct {
	Kind ErrorKind
	Loc  logger.Loc
	Text string
}

func (e *Error) Error() string { return fmt.Sprintf("%s: %s", e.Kind, e.Text) }

// Result bundles the three read-only artifacts stage 3 (transformer) and
// stage 4 (printer) consume (§3 "Lifecycles").
type Result struct {
	Scopes  *js_ast.ScopeTree
	Symbols *js_ast.SymbolTable
	Flags   *js_ast.SemanticFlags

	// Resolve maps the Loc of every EIdentifier/Binding use-site or
	// declaration-site to the SymbolId it resolved to. A Loc absent from
	// this map is either a free global reference or (for bindings) cannot
	// occur, since every binding creates its own symbol. Keying by Loc
	// instead of embedding the id in the AST node itself keeps the parser's
	// output untouched by the analyzer, matching the external-collaborator
	// framing in §2/§6.
	Resolve map[logger.Loc]ast.SymbolId
}

// Analyze runs passes A and B over program and returns the artifacts, or a
// fatal *Error for one of the conditions §7 marks non-recoverable.
func Analyze(program *js_ast.Program, source logger.Source) (*Result, *Error) {
	b := &binder{
		scopes:  js_ast.NewScopeTree(),
		symbols: js_ast.NewSymbolTable(),
		flags:   js_ast.NewSemanticFlags(),
		resolve: make(map[logger.Loc]ast.SymbolId),
		source:  source,
	}

	root := b.scopes.Root()
	if program.Kind == js_ast.SourceModule {
		root = b.scopes.NewScope(root, js_ast.ScopeModule)
	}

	if err := b.hoistStmts(program.Stmts, root); err != nil {
		return nil, err
	}
	if err := b.bindStmts(program.Stmts, root); err != nil {
		return nil, err
	}

	classifier := &safetyPass{b: b}
	classifier.walkStmts(program.Stmts, root)
	b.propagateUnsafeScopes()
	b.applyUnsafeToSymbols()

	return &Result{Scopes: b.scopes, Symbols: b.symbols, Flags: b.flags, Resolve: b.resolve}, nil
}

type binder struct {
	scopes  *js_ast.ScopeTree
	symbols *js_ast.SymbolTable
	flags   *js_ast.SemanticFlags
	resolve map[logger.Loc]ast.SymbolId
	source  logger.Source
}

////////////////////////////////////////////////////////////////////////////
// Lookup & declaration

// lookup walks the ancestor chain starting at scope, first-match-wins
// (shadowing), and returns the symbol a read/write/call of name resolves to.
func (b *binder) lookup(scope ast.ScopeId, name string) (ast.SymbolId, bool) {
	s := scope
	for {
		for _, id := range b.scopes.Get(s).Members {
			if b.symbols.Get(id).OriginalName == name {
				return id, true
			}
		}
		parent, ok := b.scopes.Parent(s)
		if !ok {
			return 0, false
		}
		s = parent
	}
}

// declare creates (or reuses, for repeated var/function hoists) a symbol
// named `name` directly in `scope`. redeclOK controls whether a collision
// with an existing same-scope member of an incompatible kind is tolerated
// (true while hoisting vars/functions, which may legitimately repeat).
func (b *binder) declare(scope ast.ScopeId, loc logger.Loc, name string, kind js_ast.SymbolKind, redeclOK bool) (ast.SymbolId, *Error) {
	sc := b.scopes.Get(scope)
	for _, id := range sc.Members {
		existing := b.symbols.Get(id)
		if existing.OriginalName != name {
			continue
		}
		if redeclOK && (existing.Kind == js_ast.SymbolVar || existing.Kind == js_ast.SymbolFunction) &&
			(kind == js_ast.SymbolVar || kind == js_ast.SymbolFunction) {
			return id, nil
		}
		if redeclOK && existing.Kind == js_ast.SymbolParameter && kind == js_ast.SymbolParameter {
			return id, nil
		}
		return 0, &Error{Kind: ScopeAnalysisFailed, Loc: loc,
			Text: fmt.Sprintf("identifier %q has already been declared", name)}
	}
	id := b.symbols.NewSymbol(name, kind, scope)
	sc.Members = append(sc.Members, id)
	b.resolve[loc] = id
	return id, nil
}

func (b *binder) reference(scope ast.ScopeId, loc logger.Loc, name string, kind js_ast.RefKind) {
	id, ok := b.lookup(scope, name)
	if !ok {
		b.addFreeGlobal(name)
		return
	}
	b.resolve[loc] = id
	sym := b.symbols.Get(id)
	sym.Refs = append(sym.Refs, js_ast.Reference{Scope: scope, Loc: loc, Kind: kind})
	if scope != sym.DeclScope && crossesFunctionBoundary(b.scopes, scope, sym.DeclScope) {
		sym.Flags |= js_ast.FlagIsCaptured
	}
}

func (b *binder) addFreeGlobal(name string) {
	for _, g := range b.flags.FreeGlobals {
		if g == name {
			return
		}
	}
	b.flags.FreeGlobals = append(b.flags.FreeGlobals, name)
}

// crossesFunctionBoundary reports whether the path from `use` up to (but
// excluding) `decl` passes through at least one function/arrow scope (§3
// Capture invariant).
func crossesFunctionBoundary(scopes *js_ast.ScopeTree, use ast.ScopeId, decl ast.ScopeId) bool {
	s := use
	for s != decl {
		if scopes.Get(s).Kind == js_ast.ScopeFunction {
			return true
		}
		parent, ok := scopes.Parent(s)
		if !ok {
			return false
		}
		s = parent
	}
	return false
}

////////////////////////////////////////////////////////////////////////////
// Unsafe-scope propagation & renamability (§4.1 Pass B tail)

func (b *binder) markUnsafe(scope ast.ScopeId, reason js_ast.UnsafeReason) {
	sc := b.scopes.Get(scope)
	sc.IsSafe = false
	if existing, ok := b.flags.UnsafeScopes[scope]; !ok || reason < existing {
		b.flags.UnsafeScopes[scope] = reason
	}
}

func (b *binder) propagateUnsafeScopes() {
	for scope, reason := range b.flags.UnsafeScopes {
		if !reason.PropagatesUpward() {
			continue
		}
		s := scope
		for {
			parent, ok := b.scopes.Parent(s)
			if !ok {
				break
			}
			s = parent
			if _, already := b.flags.UnsafeScopes[s]; !already {
				b.flags.UnsafeScopes[s] = reason
				b.scopes.Get(s).IsSafe = false
			}
		}
	}
}

func (b *binder) applyUnsafeToSymbols() {
	for scopeId := range b.flags.UnsafeScopes {
		for _, symId := range b.scopes.Get(scopeId).Members {
			sym := b.symbols.Get(symId)
			sym.Flags &^= js_ast.FlagIsRenamable
		}
	}
	for symId := range b.symbols.Symbols {
		sym := &b.symbols.Symbols[symId]
		if sym.Flags.Has(js_ast.FlagIsExported) {
			sym.Flags &^= js_ast.FlagIsRenamable
		}
	}
}
