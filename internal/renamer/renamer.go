// Package renamer implements the transformer's identifier-renaming pass
// (§4.2 pass 1): it assigns each renamable symbol the shortest available
// minified name that cannot collide with anything visible at its
// declaration site. It is grounded on the teacher's MinifyRenamer /
// NumberToMinifiedName approach, adapted from esbuild's Ref-keyed rename
// map to this tool's ScopeTree/SymbolTable-keyed one.
package renamer

import (
	"github.com/jsqueeze/jsqueeze/internal/ast"
	"github.com/jsqueeze/jsqueeze/internal/js_ast"
	"github.com/jsqueeze/jsqueeze/internal/js_lexer"
)

// Rename walks the scope tree top-down and assigns js_ast.Symbol.RenamedTo
// for every renamable symbol (FlagIsRenamable, and not cleared by the
// analyzer for being exported, a free global, or inside an unsafe scope).
// Symbols that are not renamable keep their OriginalName, and that name is
// reserved so nothing else in scope can collide with it.
//
// Top-level bindings (directly declared in the Global scope, or the Module
// scope a source-module's declarations live in) are always left at their
// original name, even when the analyzer marked them renamable: in script
// mode a hoisted top-level `var`/function becomes a property of the global
// object, and in module mode this tool has no whole-program view of every
// importer (§1 Non-goal iv), so neither can be proven safe to rename
// without a bundler's closed-world assumption. This also matches the
// literal regression in §8 scenario 3, where a top-level `function f` keeps
// its name while its parameters are renamed.
func Rename(scopes *js_ast.ScopeTree, symbols *js_ast.SymbolTable) {
	reserved := reservedWords()
	skipTopLevel(scopes, symbols, reserved, scopes.Root(), nil)
}

// skipTopLevel reserves (without renaming) every name directly declared in
// a top-level scope — Global, and the Module scope that sits directly below
// it for a source module — then switches to the normal renumber() recursion
// for every other descendant scope, carrying the reserved top-level names
// as already-taken.
func skipTopLevel(scopes *js_ast.ScopeTree, symbols *js_ast.SymbolTable, reserved map[string]bool, scopeId ast.ScopeId, inherited map[string]bool) {
	scope := scopes.Get(scopeId)

	taken := make(map[string]bool, len(inherited)+len(scope.Members))
	for name := range inherited {
		taken[name] = true
	}
	for _, id := range scope.Members {
		taken[symbols.Get(id).OriginalName] = true
	}

	for _, child := range scope.Children {
		if kind := scopes.Get(child).Kind; kind == js_ast.ScopeGlobal || kind == js_ast.ScopeModule {
			skipTopLevel(scopes, symbols, reserved, child, taken)
		} else {
			renumber(scopes, symbols, child, reserved, taken)
		}
	}
}

func reservedWords() map[string]bool {
	words := make(map[string]bool, len(js_lexer.Keywords)+len(js_lexer.StrictModeReservedWords)+1)
	for k := range js_lexer.Keywords {
		words[k] = true
	}
	for k := range js_lexer.StrictModeReservedWords {
		words[k] = true
	}
	words["arguments"] = true
	return words
}

// renumber assigns names for the symbols declared directly in scopeId, then
// recurses into its children. inherited carries every name already visible
// at this point (declared by an ancestor, or fixed because it isn't
// renamable) so a freshly minified name here never shadows one an ancestor
// scope depends on.
func renumber(scopes *js_ast.ScopeTree, symbols *js_ast.SymbolTable, scopeId ast.ScopeId, reserved map[string]bool, inherited map[string]bool) {
	scope := scopes.Get(scopeId)

	// taken starts as a copy of everything already visible, plus whatever
	// this scope's own non-renamable members contribute.
	taken := make(map[string]bool, len(inherited)+len(scope.Members))
	for name := range inherited {
		taken[name] = true
	}
	for _, id := range scope.Members {
		sym := symbols.Get(id)
		if !sym.Flags.Has(js_ast.FlagIsRenamable) {
			taken[sym.OriginalName] = true
		}
	}

	next := 0
	for _, id := range scope.Members {
		sym := symbols.Get(id)
		if !sym.Flags.Has(js_ast.FlagIsRenamable) {
			continue
		}
		var name string
		for {
			name = js_ast.NumberToMinifiedName(next)
			next++
			if !taken[name] && !reserved[name] {
				break
			}
		}
		sym.RenamedTo = name
		taken[name] = true
	}

	for _, child := range scope.Children {
		renumber(scopes, symbols, child, reserved, taken)
	}
}
