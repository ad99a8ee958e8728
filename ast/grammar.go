package ast

import "github.com/programmerjake/pegc/source"

// TopLevelCodeSnippet is a code block emitted at file scope, outside any
// rule body: a `code license|header|source { ... }` block in the grammar
// source (spec §3.2, §6.4).
type TopLevelCodeSnippet struct {
	Loc source.Location
	// Kind is one of "license", "header", or "source" (§6.4). Go has no
	// separate header file, so "header" and "source" blocks both end up in
	// the same emitted file, in the order they appear in the grammar file.
	Kind string
	Text string
}

// Grammar is the root of one compiled grammar file: every Nonterminal and
// Type lives in one of its two arenas, looked up by name through the
// accompanying maps. It owns the whole AST for one compilation and is
// dropped as a unit once code generation finishes (spec §3.2 Lifecycle).
type Grammar struct {
	Source *source.Source

	Nonterminals *Arena[Nonterminal]
	// NonterminalOrder preserves declaration order, for diagnostics and for
	// emitting rules in the order the author wrote them (§4.4).
	NonterminalOrder []Pointer[Nonterminal]
	nonterminalsByName map[string]Pointer[Nonterminal]

	Types *Arena[Type]
	typesByName map[string]Pointer[Type]

	// VoidType and CharType are the two built-in Type entries every Grammar
	// starts with, pre-registered by NewGrammar.
	VoidType Pointer[Type]
	CharType Pointer[Type]

	TopLevelCode []TopLevelCodeSnippet

	// StartRule is the first rule declared in the file. The emitter does not
	// read it: every rule gets its own public Parse<Name> entry point.
	StartRule Pointer[Nonterminal]
}

// NewGrammar creates an empty Grammar over src, pre-populated with the
// built-in void and char types.
func NewGrammar(src *source.Source) *Grammar {
	g := &Grammar{
		Source:             src,
		Nonterminals:       &Arena[Nonterminal]{},
		nonterminalsByName: map[string]Pointer[Nonterminal]{},
		Types:              &Arena[Type]{},
		typesByName:        map[string]Pointer[Type]{},
	}
	void, char := NewBuiltinTypes()
	g.VoidType = g.Types.New(void)
	g.typesByName[VoidTypeName] = g.VoidType
	g.CharType = g.Types.New(char)
	g.typesByName[CharTypeName] = g.CharType
	return g
}

// LookupNonterminal returns the existing Pointer for name, or the zero
// Pointer if no such rule has been referenced or declared yet.
func (g *Grammar) LookupNonterminal(name string) Pointer[Nonterminal] {
	return g.nonterminalsByName[name]
}

// Nonterminal returns the existing entry for name, forward-declaring it
// (Defined == false) and recording it in declaration order if this is the
// first time name has been seen. Both rule references and rule definitions
// call this, per spec §4.3.1's "entries are created in the symbol table on
// first mention" resolution.
func (g *Grammar) Nonterminal(name string, loc source.Location) Pointer[Nonterminal] {
	if p, ok := g.nonterminalsByName[name]; ok {
		return p
	}
	p := g.Nonterminals.New(Nonterminal{Loc: loc, Name: name})
	g.nonterminalsByName[name] = p
	g.NonterminalOrder = append(g.NonterminalOrder, p)
	if len(g.NonterminalOrder) == 1 {
		g.StartRule = p
	}
	return p
}

// LookupType returns the existing Pointer for name, or the zero Pointer if
// no such type has been declared.
func (g *Grammar) LookupType(name string) Pointer[Type] {
	return g.typesByName[name]
}

// DeclareType registers a new user-defined type and returns its Pointer. The
// caller must have already checked name is not already in use via
// LookupType, per the "unique within the grammar" invariant (spec §3.2).
func (g *Grammar) DeclareType(t Type) Pointer[Type] {
	p := g.Types.New(t)
	g.typesByName[t.Name] = p
	return p
}
