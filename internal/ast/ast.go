// Package ast holds small data structures shared across the analyzer,
// transformer, printer and source-map packages. Keeping them here (instead
// of inside internal/js_ast) avoids a dependency cycle between js_ast and
// internal/sourcemap.
package ast

// Index32 stores a 32-bit index where the zero value is invalid. This is a
// more compact alternative to a pointer or a (bool, uint32) pair: the zero
// value of the struct is already "no index", so arenas can be pre-allocated
// with make([]T, n) without an explicit sentinel pass.
type Index32 struct {
	flippedBits uint32
}

// MakeIndex32 wraps a concrete index so it can be told apart from the zero
// value (which always means "invalid").
func MakeIndex32(index uint32) Index32 {
	return Index32{flippedBits: ^index}
}

func (i Index32) IsValid() bool {
	return i.flippedBits != 0
}

func (i Index32) GetIndex() uint32 {
	return ^i.flippedBits
}

// ScopeId indexes into the ScopeTree arena. Id 0 is always the program's
// root scope.
type ScopeId uint32

// SymbolId indexes into the SymbolTable arena.
type SymbolId uint32

const InvalidSymbolId SymbolId = 1<<32 - 1
