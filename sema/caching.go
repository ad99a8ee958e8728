package sema

import "github.com/programmerjake/pegc/ast"

// defaultNeedsCaching reports the per-node-kind default from spec §4.3 pass
// 3: "Empty, Terminal, EOFTerminal, NonterminalExpression -> false;
// Sequence, GreedyRepetition, GreedyPositiveRepetition, CharacterClass,
// ExpressionCodeSnippet -> true; Optional, FollowedBy, NotFollowedBy ->
// propagate the inner's value."
func defaultNeedsCaching(e ast.Expr) bool {
	switch n := e.(type) {
	case *ast.Empty, *ast.Terminal, *ast.EOFTerminal, *ast.NonterminalExpression:
		return false
	case *ast.Sequence, *ast.Repetition, *ast.PositiveRepetition, *ast.CharacterClass, *ast.CodeSnippet:
		return true
	case *ast.Optional:
		return defaultNeedsCaching(n.Inner)
	case *ast.FollowedBy:
		return defaultNeedsCaching(n.Inner)
	case *ast.NotFollowedBy:
		return defaultNeedsCaching(n.Inner)
	default:
		return true
	}
}

// inferCaching implements spec §4.3 pass 3: starting every nonterminal at
// caching=true, iterate `caching ← body.defaultNeedsCaching()` to a fixed
// point. Note this pass, unlike nullability and left-recursion, never reads
// a NonterminalExpression's target's own Caching flag — the per-node rule
// above resolves NonterminalExpression to a constant false regardless of the
// referenced rule's own caching state, so one pass over each rule's own body
// already computes a stable answer; the "iterate to a fixed point" framing
// in spec §4.3 still holds trivially (it converges in the first iteration),
// and is kept as an explicit loop here to mirror the other two fixed-point
// passes' structure and to stay robust if a future node kind makes caching
// transitively depend on a referenced rule's flag.
func inferCaching(g *ast.Grammar) {
	for _, p := range g.NonterminalOrder {
		n := p.In(g.Nonterminals)
		n.Settings.Caching = true
	}
	for {
		changed := false
		for _, p := range g.NonterminalOrder {
			n := p.In(g.Nonterminals)
			if !n.Defined {
				continue
			}
			next := defaultNeedsCaching(n.Body)
			if next != n.Settings.Caching {
				n.Settings.Caching = next
				changed = true
			}
		}
		if !changed {
			break
		}
	}
}
