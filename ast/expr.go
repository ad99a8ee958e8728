package ast

import (
	"github.com/programmerjake/pegc/source"
	"github.com/programmerjake/pegc/token"
)

// Expr is the sum type of PEG expression nodes, per spec §3.2. It is
// realized as a Go interface with one concrete struct per variant, per
// Design Notes §9 ("implement as a single tagged sum ... each consumer is an
// exhaustive match"), rather than as a class hierarchy with a visitor.
// Consumers (sema, emit) use a type switch; go vet/staticcheck's exhaustive
// checks stand in for a compiler-enforced visitor.
type Expr interface {
	// Location returns where in the grammar source this expression appears.
	Location() source.Location
	exprNode()
}

// Base is embedded in every concrete Expr variant to supply its Location.
// Exported (rather than the usual unexported embedding) so that the grammar
// parser, which lives in a separate package, can construct AST nodes
// directly via composite literals.
type Base struct {
	Loc source.Location
}

// NewBase builds a Base carrying loc.
func NewBase(loc source.Location) Base {
	return Base{Loc: loc}
}

func (b Base) Location() source.Location { return b.Loc }
func (Base) exprNode()                   {}

// Empty matches the empty string, unconditionally, consuming nothing.
type Empty struct {
	Base
}

// Terminal matches a single fixed codepoint.
type Terminal struct {
	Base
	Char rune
}

// EOFTerminal matches only at the end of input.
type EOFTerminal struct {
	Base
}

// Range is one inclusive [Min, Max] span within a CharacterClass.
type Range struct {
	Min, Max rune
}

// CharacterClass matches a single codepoint against an ordered,
// non-overlapping set of inclusive ranges (optionally inverted), per spec
// §3.2 invariants. Bind is the `:name` binding, or "" if unbound.
type CharacterClass struct {
	Base
	Ranges   []Range
	Inverted bool
	Bind     string
}

// NonterminalExpression invokes another rule. Target is set at parse time to
// the interned (possibly forward-declared) Nonterminal entry for Name, which
// may or may not end up with a defining rule; the semantic analyzer's
// symbol-resolution pass (§4.3.1) reports entries that never get one. Bind
// is the `:name` binding, or "" if unbound.
type NonterminalExpression struct {
	Base
	Name   string
	Target Pointer[Nonterminal]
	Bind   string
}

// Sequence matches Left immediately followed by Right.
type Sequence struct {
	Base
	Left, Right Expr
}

// OrderedChoice matches First; if First fails, it matches Second instead,
// never backtracking into First once Second has been tried.
type OrderedChoice struct {
	Base
	First, Second Expr
}

// Optional matches Inner, or the empty string if Inner fails.
type Optional struct {
	Base
	Inner Expr
}

// Repetition matches Inner zero or more times, greedily, stopping the loop
// the first time an iteration fails or consumes no input (§8.1 invariant 6).
type Repetition struct {
	Base
	Inner Expr
}

// PositiveRepetition matches Inner one or more times, greedily; the first
// iteration must both succeed and consume input, or the whole match fails.
type PositiveRepetition struct {
	Base
	Inner Expr
}

// FollowedBy is the `&e` lookahead predicate: succeeds iff Inner matches,
// consuming no input either way.
type FollowedBy struct {
	Base
	Inner Expr
}

// NotFollowedBy is the `!e` lookahead predicate: succeeds iff Inner does not
// match, consuming no input either way. Variables and code snippets are
// forbidden inside its subtree (spec §3.2 invariants, §4.2's "code allowed"
// flag).
type NotFollowedBy struct {
	Base
	Inner Expr
}

// CodeSnippet is an embedded target-language code block spliced directly
// into the emitted parser at this point in the rule body.
type CodeSnippet struct {
	Base
	Text          string
	Substitutions []token.Substitution
}
