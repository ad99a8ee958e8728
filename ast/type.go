package ast

import "github.com/programmerjake/pegc/source"

// Type is a user- or built-in-declared semantic type that a Nonterminal can
// return, per spec §3.2.
type Type struct {
	Loc     source.Location
	Name    string // display name, unique within the grammar
	Emitted string // the text to emit for this type in the target language
	Void    bool   // true for the built-in "void" type
}

// Built-in type names, always present in every Grammar.
const (
	VoidTypeName = "void"
	CharTypeName = "char"
)

// NewBuiltinTypes returns the two built-in Type values every Grammar starts
// with: void (no return value) and char (the target's Unicode scalar type,
// Go's rune).
func NewBuiltinTypes() (void, char Type) {
	return Type{Name: VoidTypeName, Emitted: "", Void: true},
		Type{Name: CharTypeName, Emitted: "rune", Void: false}
}
