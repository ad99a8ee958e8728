package sema

import (
	"github.com/programmerjake/pegc/ast"
	"github.com/programmerjake/pegc/diag"
)

// detectLeftRecursion implements spec §4.3 pass 5. Must run after
// inferNullability, since Sequence's rule consults the left operand's
// nullability. Every nonterminal starts true (assume left-recursive until
// proven otherwise) and the loop only ever turns flags off; whatever is
// still true at the fixed point is reported.
func detectLeftRecursion(g *ast.Grammar, h *diag.Handler) {
	for _, p := range g.NonterminalOrder {
		p.In(g.Nonterminals).Settings.HasLeftRecursion = true
	}
	hasLR := func(p ast.Pointer[ast.Nonterminal]) bool {
		return p.In(g.Nonterminals).Settings.HasLeftRecursion
	}

	var hasLeftRecursion func(e ast.Expr) bool
	hasLeftRecursion = func(e ast.Expr) bool {
		switch n := e.(type) {
		case *ast.Empty, *ast.Terminal, *ast.EOFTerminal, *ast.CharacterClass, *ast.CodeSnippet:
			return false
		case *ast.NonterminalExpression:
			return hasLR(n.Target)
		case *ast.Sequence:
			return hasLeftRecursion(n.Left) || (exprIsNullable(g, n.Left) && hasLeftRecursion(n.Right))
		case *ast.OrderedChoice:
			return hasLeftRecursion(n.First) || hasLeftRecursion(n.Second)
		case *ast.Optional:
			return hasLeftRecursion(n.Inner)
		case *ast.Repetition:
			return hasLeftRecursion(n.Inner)
		case *ast.PositiveRepetition:
			return hasLeftRecursion(n.Inner)
		case *ast.FollowedBy:
			return hasLeftRecursion(n.Inner)
		case *ast.NotFollowedBy:
			return hasLeftRecursion(n.Inner)
		default:
			return false
		}
	}

	for {
		changed := false
		for _, p := range g.NonterminalOrder {
			n := p.In(g.Nonterminals)
			if !n.Defined {
				continue
			}
			next := hasLeftRecursion(n.Body)
			if next != n.Settings.HasLeftRecursion {
				n.Settings.HasLeftRecursion = next
				changed = true
			}
		}
		if !changed {
			break
		}
	}

	for _, p := range g.NonterminalOrder {
		n := p.In(g.Nonterminals)
		if n.Defined && n.Settings.HasLeftRecursion {
			_ = h.Report(diag.Error, n.Loc, "left-recursive rule %q", n.Name)
		}
	}
}
