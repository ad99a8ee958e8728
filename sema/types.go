package sema

import (
	"github.com/programmerjake/pegc/ast"
	"github.com/programmerjake/pegc/diag"
)

// inferTypes implements spec §4.3 pass 2:
//   - a rule with no explicit type whose body is a lone unbound
//     CharacterClass gets type char; otherwise it defaults to void.
//   - any NonterminalExpression with a binding whose referenced rule has
//     type void is an error.
//
// Type resolution for explicitly-typed rules (the `: TypeName` form) already
// happened in the grammar parser, since it only needs the type table, not
// the rest of the AST; this pass only fills in the implicit default and then
// validates bindings, which do need the fully-built AST.
func inferTypes(g *ast.Grammar, h *diag.Handler) {
	for _, p := range g.NonterminalOrder {
		n := p.In(g.Nonterminals)
		if n.TypeExplicit || !n.Defined {
			continue
		}
		if cc, ok := n.Body.(*ast.CharacterClass); ok && cc.Bind == "" {
			n.Type = g.CharType
		} else {
			n.Type = g.VoidType
		}
	}

	walk(g, func(n *ast.Nonterminal, e ast.Expr) {
		ne, ok := e.(*ast.NonterminalExpression)
		if !ok || ne.Bind == "" {
			return
		}
		target := ne.Target.In(g.Nonterminals)
		if !target.Defined {
			// Already reported as "rule not defined" by resolveSymbols.
			return
		}
		if target.Type == g.VoidType {
			_ = h.Report(diag.Error, ne.Loc,
				"cannot bind %q: rule %q has type void", ne.Bind, ne.Name)
		}
	})
}
