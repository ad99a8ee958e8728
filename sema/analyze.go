// Package sema implements the five semantic-analysis passes of spec §4.3,
// run in order over an *ast.Grammar already built by the grammar parser:
// symbol resolution, type inference & checking, caching inference,
// nullability, and left-recursion detection.
package sema

import (
	"github.com/programmerjake/pegc/ast"
	"github.com/programmerjake/pegc/diag"
)

// Analyze runs all five passes over g, reporting diagnostics to h. It
// returns diag.ErrFatal only if a pass chooses to raise one (none currently
// do; every error here is recoverable enough to keep analyzing and let the
// driver in pegc.go decide, via h.AnyErrors, whether to skip emission).
func Analyze(g *ast.Grammar, h *diag.Handler) error {
	resolveSymbols(g, h)
	inferTypes(g, h)
	inferCaching(g)
	inferNullability(g)
	detectLeftRecursion(g, h)
	return nil
}

// walk calls visit once per Nonterminal in declaration order, recursively
// descending into each nonterminal's Body via walkExpr — a thin helper
// shared by the passes below that need to visit every node reachable from a
// defined rule, without caring about order between different rules'
// subtrees (each pass defines its own per-node semantics).
func walk(g *ast.Grammar, visit func(n *ast.Nonterminal, e ast.Expr)) {
	for _, p := range g.NonterminalOrder {
		n := p.In(g.Nonterminals)
		if n.Body != nil {
			walkExpr(n.Body, func(e ast.Expr) { visit(n, e) })
		}
	}
}

func walkExpr(e ast.Expr, visit func(ast.Expr)) {
	visit(e)
	switch n := e.(type) {
	case *ast.Sequence:
		walkExpr(n.Left, visit)
		walkExpr(n.Right, visit)
	case *ast.OrderedChoice:
		walkExpr(n.First, visit)
		walkExpr(n.Second, visit)
	case *ast.Optional:
		walkExpr(n.Inner, visit)
	case *ast.Repetition:
		walkExpr(n.Inner, visit)
	case *ast.PositiveRepetition:
		walkExpr(n.Inner, visit)
	case *ast.FollowedBy:
		walkExpr(n.Inner, visit)
	case *ast.NotFollowedBy:
		walkExpr(n.Inner, visit)
	}
}
