package emit

import (
	"fmt"
	"strings"

	"github.com/programmerjake/pegc/ast"
	"github.com/programmerjake/pegc/token"
)

// returnValueVar is the name of the rule-level local variable that
// internalParse<Name> declares to hold the return value being built up for
// the enclosing rule (see emit.go), and that `$$` substitutions reference.
const returnValueVar = "returnValue"

// lowerCtx carries the per-rule state threaded through lowerExpr: the
// output Writer, the Grammar (for looking up Nonterminal/Type details), and
// a monotonic counter for fresh Go identifiers.
type lowerCtx struct {
	w      *Writer
	g      *ast.Grammar
	tmp    int
	opts   Options
	source string // source file name, for //line directives
}

func (c *lowerCtx) fresh(prefix string) string {
	c.tmp++
	return fmt.Sprintf("%s%d", prefix, c.tmp)
}

// binding is one `:name` binding found in a rule body: the Go variable it
// lowers to and the Go type it holds.
type binding struct {
	varName string
	goType  string
}

// collectBindings walks e's whole subtree gathering every `:name` binding,
// so internalParse<Name> can declare them all at function scope up front
// (spec §4.4's "declare locals for each binding in the body") rather than
// nested inside whatever if-statement the binding's own node happens to
// lower into — a bind made inside one arm of a Sequence or OrderedChoice
// must still be visible to code later in the same rule.
func (c *lowerCtx) collectBindings(e ast.Expr) []binding {
	var out []binding
	var walk func(ast.Expr)
	walk = func(e ast.Expr) {
		switch n := e.(type) {
		case *ast.CharacterClass:
			if n.Bind != "" {
				out = append(out, binding{n.Bind, c.g.CharType.In(c.g.Types).Emitted})
			}
		case *ast.NonterminalExpression:
			if n.Bind != "" {
				target := n.Target.In(c.g.Nonterminals)
				out = append(out, binding{n.Bind, target.Type.In(c.g.Types).Emitted})
			}
		case *ast.Sequence:
			walk(n.Left)
			walk(n.Right)
		case *ast.OrderedChoice:
			walk(n.First)
			walk(n.Second)
		case *ast.Optional:
			walk(n.Inner)
		case *ast.Repetition:
			walk(n.Inner)
		case *ast.PositiveRepetition:
			walk(n.Inner)
		case *ast.FollowedBy:
			walk(n.Inner)
			// NotFollowedBy's subtree cannot contain bindings (rejected by
			// the grammar parser), so it is not walked here.
		}
	}
	walk(e)
	return out
}

// lowered is what lowerExpr returns for one Expr node: the name of the Go
// local variable (of type ruleResult) holding this node's outcome. A bound
// CharacterClass or NonterminalExpression also assigns its matched value
// into the rule-scoped variable of the same name that collectBindings
// hoisted, rather than threading it back through lowered — code snippets
// later in the same rule body reference that variable by name directly.
type lowered struct {
	result string
}

// lowerExpr emits Go statements implementing e's PEG semantics starting at
// Go expression startExpr (an int-valued position), per each node's
// behavioral template in spec §4.4, and returns the handle described above.
// isRequired is the Go boolean expression (usually a variable name or
// "true"/"isRequiredForSuccess") passed through to any makeFail call.
func (c *lowerCtx) lowerExpr(e ast.Expr, startExpr string, isRequired string) lowered {
	switch n := e.(type) {
	case *ast.Empty:
		r := c.fresh("r")
		c.w.WriteLine("%s := p.makeSuccess(%s, %s)", r, startExpr, startExpr)
		return lowered{result: r}

	case *ast.Terminal:
		r := c.fresh("r")
		c.w.WriteLine("var %s ruleResult", r)
		c.w.WriteLine("if %s < len(p.input) && p.input[%s] == %s {", startExpr, startExpr, goRuneLiteral(n.Char))
		c.w.Indent()
		c.w.WriteLine("%s = p.makeSuccess(%s+1, %s+1)", r, startExpr, startExpr)
		c.w.Dedent()
		c.w.WriteLine("} else {")
		c.w.Indent()
		c.w.WriteLine("%s = p.makeFail(%s, %s, %q, %s)", r, startExpr, startExpr,
			fmt.Sprintf("missing %s", goRuneLiteral(n.Char)), isRequired)
		c.w.Dedent()
		c.w.WriteLine("}")
		return lowered{result: r}

	case *ast.EOFTerminal:
		r := c.fresh("r")
		c.w.WriteLine("var %s ruleResult", r)
		c.w.WriteLine("if %s >= len(p.input) {", startExpr)
		c.w.Indent()
		c.w.WriteLine("%s = p.makeSuccess(%s, %s)", r, startExpr, startExpr)
		c.w.Dedent()
		c.w.WriteLine("} else {")
		c.w.Indent()
		c.w.WriteLine("%s = p.makeFail(%s, %s, %q, %s)", r, startExpr, startExpr, "expected end of file", isRequired)
		c.w.Dedent()
		c.w.WriteLine("}")
		return lowered{result: r}

	case *ast.CharacterClass:
		return c.lowerCharacterClass(n, startExpr, isRequired)

	case *ast.NonterminalExpression:
		return c.lowerNonterminalExpression(n, startExpr, isRequired)

	case *ast.Sequence:
		a := c.lowerExpr(n.Left, startExpr, isRequired)
		r := c.fresh("r")
		c.w.WriteLine("var %s ruleResult", r)
		c.w.WriteLine("if %s.success() {", a.result)
		c.w.Indent()
		b := c.lowerExpr(n.Right, fmt.Sprintf("%s.nextLocation", a.result), isRequired)
		c.w.WriteLine("%s = %s", r, b.result)
		c.w.Dedent()
		c.w.WriteLine("} else {")
		c.w.Indent()
		c.w.WriteLine("%s = %s", r, a.result)
		c.w.Dedent()
		c.w.WriteLine("}")
		return lowered{result: r}

	case *ast.OrderedChoice:
		first := c.lowerExpr(n.First, startExpr, isRequired)
		r := c.fresh("r")
		c.w.WriteLine("%s := %s", r, first.result)
		c.w.WriteLine("if !%s.success() {", r)
		c.w.Indent()
		second := c.lowerExpr(n.Second, startExpr, isRequired)
		c.w.WriteLine("%s = %s", r, second.result)
		c.w.WriteLine("if %s.success() {", r)
		c.w.Indent()
		c.w.WriteLine("%s.farthestEndLocation = max(%s.farthestEndLocation, %s.farthestEndLocation)", r, r, first.result)
		c.w.Dedent()
		c.w.WriteLine("}")
		c.w.Dedent()
		c.w.WriteLine("}")
		return lowered{result: r}

	case *ast.Optional:
		inner := c.lowerExpr(n.Inner, startExpr, isRequired)
		r := c.fresh("r")
		c.w.WriteLine("%s := %s", r, inner.result)
		c.w.WriteLine("if !%s.success() {", r)
		c.w.Indent()
		c.w.WriteLine("%s = p.makeSuccess(%s, %s.farthestEndLocation)", r, startExpr, r)
		c.w.Dedent()
		c.w.WriteLine("}")
		return lowered{result: r}

	case *ast.Repetition:
		return c.lowerRepetition(n, startExpr, isRequired, false)

	case *ast.PositiveRepetition:
		return c.lowerRepetition(n, startExpr, isRequired, true)

	case *ast.FollowedBy:
		inner := c.lowerExpr(n.Inner, startExpr, isRequired)
		r := c.fresh("r")
		c.w.WriteLine("var %s ruleResult", r)
		c.w.WriteLine("if %s.success() {", inner.result)
		c.w.Indent()
		c.w.WriteLine("%s = p.makeSuccess(%s, %s.farthestEndLocation)", r, startExpr, inner.result)
		c.w.Dedent()
		c.w.WriteLine("} else {")
		c.w.Indent()
		c.w.WriteLine("%s = %s", r, inner.result)
		c.w.Dedent()
		c.w.WriteLine("}")
		return lowered{result: r}

	case *ast.NotFollowedBy:
		// The nested attempt is negated so its own failure — which is what we
		// want — never pollutes the farthest-failure tracker; the final
		// makeFail/makeSuccess below uses the original, unnegated isRequired.
		inner := c.lowerExpr(n.Inner, startExpr, fmt.Sprintf("!(%s)", isRequired))
		r := c.fresh("r")
		c.w.WriteLine("var %s ruleResult", r)
		c.w.WriteLine("if %s.success() {", inner.result)
		c.w.Indent()
		c.w.WriteLine("%s = p.makeFail(%s, %s.farthestEndLocation, %q, %s)", r, startExpr, inner.result, "unexpected match", isRequired)
		c.w.Dedent()
		c.w.WriteLine("} else {")
		c.w.Indent()
		c.w.WriteLine("%s = p.makeSuccess(%s, %s.farthestEndLocation)", r, startExpr, inner.result)
		c.w.Dedent()
		c.w.WriteLine("}")
		return lowered{result: r}

	case *ast.CodeSnippet:
		return c.lowerCodeSnippet(n, startExpr, isRequired)

	default:
		panic(fmt.Sprintf("emit: unhandled expression node %T", e))
	}
}

func (c *lowerCtx) lowerCharacterClass(n *ast.CharacterClass, startExpr, isRequired string) lowered {
	r := c.fresh("r")
	var bindVar string
	if n.Bind != "" {
		bindVar = n.Bind
	}
	c.w.WriteLine("var %s ruleResult", r)
	c.w.WriteLine("if %s < len(p.input) && %s {", startExpr, charClassCond(n, fmt.Sprintf("p.input[%s]", startExpr)))
	c.w.Indent()
	if bindVar != "" {
		c.w.WriteLine("%s = p.input[%s]", bindVar, startExpr)
	}
	c.w.WriteLine("%s = p.makeSuccess(%s+1, %s+1)", r, startExpr, startExpr)
	c.w.Dedent()
	c.w.WriteLine("} else {")
	c.w.Indent()
	c.w.WriteLine("%s = p.makeFail(%s, %s, %q, %s)", r, startExpr, startExpr, characterClassFailMessage(n), isRequired)
	c.w.Dedent()
	c.w.WriteLine("}")
	return lowered{result: r}
}

// charClassCond renders the boolean Go expression testing whether inputExpr
// (a rune-valued Go expression) falls inside n's ranges, honoring Inverted.
func charClassCond(n *ast.CharacterClass, inputExpr string) string {
	var parts []string
	for _, rg := range n.Ranges {
		if rg.Min == rg.Max {
			parts = append(parts, fmt.Sprintf("%s == %s", inputExpr, goRuneLiteral(rg.Min)))
		} else {
			parts = append(parts, fmt.Sprintf("(%s >= %s && %s <= %s)", inputExpr, goRuneLiteral(rg.Min), inputExpr, goRuneLiteral(rg.Max)))
		}
	}
	if len(parts) == 0 {
		parts = []string{"false"}
	}
	cond := strings.Join(parts, " || ")
	if n.Inverted {
		return fmt.Sprintf("!(%s)", cond)
	}
	return cond
}

func (c *lowerCtx) lowerNonterminalExpression(n *ast.NonterminalExpression, startExpr, isRequired string) lowered {
	target := n.Target.In(c.g.Nonterminals)
	r := c.fresh("r")
	callee := "internalParse" + goRuleName(target.Name)
	if target.Type == c.g.VoidType {
		c.w.WriteLine("%s := p.%s(%s, %s)", r, callee, startExpr, isRequired)
		return lowered{result: r}
	}
	val := c.fresh("v")
	c.w.WriteLine("%s, %s := p.%s(%s, %s)", r, val, callee, startExpr, isRequired)
	if n.Bind != "" {
		c.w.WriteLine("%s = %s", n.Bind, val)
	}
	return lowered{result: r}
}

func (c *lowerCtx) lowerRepetition(n ast.Expr, startExpr, isRequired string, positive bool) lowered {
	var inner ast.Expr
	switch x := n.(type) {
	case *ast.Repetition:
		inner = x.Inner
	case *ast.PositiveRepetition:
		inner = x.Inner
	}

	pos := c.fresh("pos")
	end := c.fresh("end")
	r := c.fresh("r")
	c.w.WriteLine("%s, %s := %s, %s", pos, end, startExpr, startExpr)
	c.w.WriteLine("for {")
	c.w.Indent()
	it := c.lowerExpr(inner, pos, isRequired)
	c.w.WriteLine("if !%s.success() || %s.nextLocation == %s {", it.result, it.result, pos)
	c.w.Indent()
	c.w.WriteLine("%s = %s.farthestEndLocation", end, it.result)
	c.w.WriteLine("break")
	c.w.Dedent()
	c.w.WriteLine("}")
	c.w.WriteLine("%s, %s = %s.nextLocation, %s.farthestEndLocation", pos, end, it.result, it.result)
	c.w.Dedent()
	c.w.WriteLine("}")

	if positive {
		c.w.WriteLine("var %s ruleResult", r)
		c.w.WriteLine("if %s == %s {", pos, startExpr)
		c.w.Indent()
		c.w.WriteLine("%s = p.makeFail(%s, %s, %q, %s)", r, startExpr, end, "expected at least one match", isRequired)
		c.w.Dedent()
		c.w.WriteLine("} else {")
		c.w.Indent()
		c.w.WriteLine("%s = p.makeSuccess(%s, %s)", r, pos, end)
		c.w.Dedent()
		c.w.WriteLine("}")
	} else {
		c.w.WriteLine("%s := p.makeSuccess(%s, %s)", r, pos, end)
	}
	return lowered{result: r}
}

// goRuneLiteral renders r as a Go rune literal, e.g. 'a' or '\U0001F600'.
func goRuneLiteral(r rune) string {
	return fmt.Sprintf("%q", r)
}

// lowerCodeSnippet splices a CodeSnippet's text into the emitted parser,
// per spec §4.4's ExpressionCodeSnippet template: `$$` substitutions become
// references to the rule's return-value slot; `$!` substitutions (this
// module's resolution of the PredicateReturnValue marker the lexer also
// recognizes, see token.SubstitutionKind) all become references to one fresh
// sentinel variable declared for this snippet, a plain string rather than the original's
// `const char *predicateReturnValue = nullptr` — the empty string stands in
// for "no failure" so user code can assign it with a plain `=`, with no
// pointer indirection needed. After the block, a non-empty sentinel becomes
// a failure at the snippet's own position (it consumes no input); an empty
// one becomes success.
func (c *lowerCtx) lowerCodeSnippet(n *ast.CodeSnippet, startExpr, isRequired string) lowered {
	sentinel := c.fresh("predicateReturnValue")
	c.w.WriteLine("var %s string", sentinel)
	c.w.WriteLine("{")
	c.w.Indent()
	if c.opts.CarryComments {
		c.w.SetSourceLine(c.source, n.Location().Pos().Line)
	}
	c.w.WriteVerbatim(c.spliceSubstitutions(n, sentinel))
	// The spliced text carries its own internal formatting and may not end
	// in a newline (e.g. a one-line `{ $$ = foo }` snippet); guarantee one
	// here so the closing brace below always lands on its own line.
	c.w.WriteVerbatim("\n")
	c.w.Dedent()
	c.w.WriteLine("}")

	r := c.fresh("r")
	c.w.WriteLine("var %s ruleResult", r)
	c.w.WriteLine("if %s != \"\" {", sentinel)
	c.w.Indent()
	c.w.WriteLine("%s = p.makeFail(%s, %s, %s, %s)", r, startExpr, startExpr, sentinel, isRequired)
	c.w.Dedent()
	c.w.WriteLine("} else {")
	c.w.Indent()
	c.w.WriteLine("%s = p.makeSuccess(%s, %s)", r, startExpr, startExpr)
	c.w.Dedent()
	c.w.WriteLine("}")
	return lowered{result: r}
}

// spliceSubstitutions rewrites n.Text's `$$`/`$!` markers (recorded by the
// lexer at byte offsets into Text, per token.Substitution) into references
// to this rule's return-value variable and this snippet's predicate
// sentinel, respectively.
func (c *lowerCtx) spliceSubstitutions(n *ast.CodeSnippet, sentinel string) string {
	var b strings.Builder
	last := 0
	for _, s := range n.Substitutions {
		b.WriteString(n.Text[last:s.Offset])
		switch s.Kind {
		case token.ReturnValue:
			b.WriteString(returnValueVar)
		case token.PredicateReturnValue:
			b.WriteString(sentinel)
		}
		last = s.Offset
	}
	b.WriteString(n.Text[last:])
	return b.String()
}
