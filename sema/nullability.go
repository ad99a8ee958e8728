package sema

import "github.com/programmerjake/pegc/ast"

// exprIsNullable reports whether e can match the empty string, given the
// grammar's (possibly still-converging) per-nonterminal CanAcceptEmptyString
// flags. Shared by inferNullability (which drives those flags to
// convergence) and detectLeftRecursion (which only reads the already-settled
// result).
func exprIsNullable(g *ast.Grammar, e ast.Expr) bool {
	switch n := e.(type) {
	case *ast.Empty, *ast.Optional, *ast.Repetition, *ast.FollowedBy, *ast.NotFollowedBy, *ast.CodeSnippet:
		return true
	case *ast.Terminal, *ast.EOFTerminal, *ast.CharacterClass:
		return false
	case *ast.NonterminalExpression:
		return n.Target.In(g.Nonterminals).Settings.CanAcceptEmptyString
	case *ast.Sequence:
		return exprIsNullable(g, n.Left) && exprIsNullable(g, n.Right)
	case *ast.OrderedChoice:
		return exprIsNullable(g, n.First) || exprIsNullable(g, n.Second)
	case *ast.PositiveRepetition:
		return exprIsNullable(g, n.Inner)
	default:
		return false
	}
}

// inferNullability implements spec §4.3 pass 4. Every nonterminal starts
// true and the fixed point only ever turns flags off, so iterating to
// convergence is monotone and terminates.
func inferNullability(g *ast.Grammar) {
	for _, p := range g.NonterminalOrder {
		p.In(g.Nonterminals).Settings.CanAcceptEmptyString = true
	}
	for {
		changed := false
		for _, p := range g.NonterminalOrder {
			n := p.In(g.Nonterminals)
			if !n.Defined {
				continue
			}
			next := exprIsNullable(g, n.Body)
			if next != n.Settings.CanAcceptEmptyString {
				n.Settings.CanAcceptEmptyString = next
				changed = true
			}
		}
		if !changed {
			break
		}
	}
}
