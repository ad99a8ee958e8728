package ast

import "github.com/programmerjake/pegc/source"

// Settings holds the semantic-analyzer-computed facts about a Nonterminal
// that the code emitter needs, per spec §3.2.
type Settings struct {
	// Caching is whether results at each input position are memoized for
	// this rule (§4.3.3).
	Caching bool
	// HasLeftRecursion is whether this rule can reach itself with no input
	// consumed; forbidden, diagnosed at the end of analysis (§4.3.5).
	HasLeftRecursion bool
	// CanAcceptEmptyString is whether this rule can succeed while consuming
	// zero input (§4.3.4).
	CanAcceptEmptyString bool
}

// Nonterminal is one named rule in the grammar.
type Nonterminal struct {
	Loc  source.Location
	Name string

	// Defined is whether a defining rule has actually been parsed for this
	// name. Entries are created in the symbol table on first mention (as a
	// reference), so a Nonterminal can exist with Defined == false if it is
	// only ever referenced, never declared — semantic analysis reports that
	// as "rule not defined" (§4.3.1).
	Defined bool

	// Body is the expression defining this rule. Nil until Defined.
	Body Expr

	// Type is the rule's return type, resolved during type inference
	// (§4.3.2). Nil (Pointer.Nil() == true) until resolved.
	Type Pointer[Type]

	// TypeExplicit records whether the grammar text gave an explicit
	// `: TypeName` on the rule, versus the type being inferred (§4.3.2).
	TypeExplicit bool

	Settings Settings
}
