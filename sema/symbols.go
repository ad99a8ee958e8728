package sema

import (
	"github.com/programmerjake/pegc/ast"
	"github.com/programmerjake/pegc/diag"
)

// resolveSymbols implements spec §4.3 pass 1. Every *ast.NonterminalExpression
// already carries a resolved Target (the grammar parser interns rule names
// into the symbol table on first mention, per spec §4.2), so this pass's
// only job is the diagnostic half: any nonterminal that was only ever
// referenced, never defined, is reported.
func resolveSymbols(g *ast.Grammar, h *diag.Handler) {
	for _, p := range g.NonterminalOrder {
		n := p.In(g.Nonterminals)
		if !n.Defined {
			_ = h.Report(diag.Error, n.Loc, "rule %q not defined", n.Name)
		}
	}
}
