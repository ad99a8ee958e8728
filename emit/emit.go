// Package emit lowers an analyzed ast.Grammar into a self-contained Go
// source file: the memo table and ParseError runtime from runtime.go,
// followed by one internalParse<Name> function per nonterminal and one
// public Parse<Name> entry point, per spec §4.4 and §6.3.
package emit

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/programmerjake/pegc/ast"
)

// goRuleName renders a grammar rule name as a Go identifier suitable for use
// in internalParse<Name>/Parse<Name>: the rule's own name with its first
// rune upper-cased, so the public Parse<Name> entry point (spec §6.3's "the
// generated module exposes a parser entry") is always exported regardless
// of whether the grammar author wrote the rule name in lower camel case.
func goRuleName(name string) string {
	r, size := utf8.DecodeRuneInString(name)
	if r == utf8.RuneError {
		return name
	}
	return string(unicode.ToUpper(r)) + name[size:]
}

// Options controls details of emission that are not themselves part of the
// grammar, per SPEC_FULL.md §4.4.
type Options struct {
	// Package is the emitted file's package name. Defaults to "main" if
	// empty.
	Package string

	// CarryComments controls whether //line directives are emitted around
	// spliced code snippets (spec §4.4's "Line directives"). Off in the
	// zero Options; the pegc CLI turns it on. Leaving it off keeps output
	// stable across trivial grammar-file reflows (e.g. golden-file tests).
	CarryComments bool
}

// Emit renders g as a complete Go source file. g must already have passed
// sema.Analyze with no errors.
func Emit(g *ast.Grammar, opts Options) (string, error) {
	pkg := opts.Package
	if pkg == "" {
		pkg = "main"
	}

	var memoFields strings.Builder
	for _, np := range g.NonterminalOrder {
		n := np.In(g.Nonterminals)
		if n.Settings.Caching {
			fmt.Fprintf(&memoFields, "\t%s %s\n", memoColumnFieldName(n.Name), memoColumnType(g, n))
		}
	}

	w := NewWriter()

	// The license block precedes everything else in the emitted file,
	// including the "DO NOT EDIT" boilerplate comment and package clause
	// below (SPEC_FULL.md §10) — unlike "header"/"source" blocks, which are
	// ordinary top-level code and keep their place after the runtime.
	for _, snippet := range g.TopLevelCode {
		if snippet.Kind != "license" {
			continue
		}
		w.WriteVerbatim(snippet.Text)
		w.Blank()
	}

	w.WriteVerbatim(fmt.Sprintf(runtimePrelude, pkg))
	w.WriteVerbatim(fmt.Sprintf(parserPrelude, memoFields.String()))

	for _, snippet := range g.TopLevelCode {
		if snippet.Kind == "license" {
			continue
		}
		w.Blank()
		w.WriteVerbatim(snippet.Text)
		w.Blank()
	}

	for _, np := range g.NonterminalOrder {
		n := np.In(g.Nonterminals)
		if !n.Defined {
			continue // unreachable once sema.Analyze reports "not defined"
		}
		emitNonterminal(w, g, n, opts)
	}

	return w.String(), nil
}

func memoColumnFieldName(ruleName string) string {
	return "memo" + goRuleName(ruleName)
}

func memoColumnType(g *ast.Grammar, n *ast.Nonterminal) string {
	if n.Type == g.VoidType {
		return "memoColumn[struct{}]"
	}
	return fmt.Sprintf("memoColumn[%s]", n.Type.In(g.Types).Emitted)
}

// emitNonterminal writes internalParse<Name> and the public Parse<Name>
// entry point for n, per spec §4.4's per-rule emission template.
func emitNonterminal(w *Writer, g *ast.Grammar, n *ast.Nonterminal, opts Options) {
	isVoid := n.Type == g.VoidType
	goType := n.Type.In(g.Types).Emitted

	w.Blank()
	if isVoid {
		w.WriteLine("func (p *Parser) internalParse%s(start int, isRequiredForSuccess bool) ruleResult {", goRuleName(n.Name))
	} else {
		w.WriteLine("func (p *Parser) internalParse%s(start int, isRequiredForSuccess bool) (ruleResult, %s) {", goRuleName(n.Name), goType)
	}
	w.Indent()

	if !isVoid {
		w.WriteLine("var %s %s", returnValueVar, goType)
	}

	c := &lowerCtx{w: w, g: g, opts: opts, source: g.Source.Name()}
	for _, b := range c.collectBindings(n.Body) {
		w.WriteLine("var %s %s", b.varName, b.goType)
	}

	field := memoColumnFieldName(n.Name)
	if n.Settings.Caching {
		w.WriteLine("slot := p.%s.at(start)", field)
		w.WriteLine("if slot.result.state != resultUnset && (!slot.result.success() || !isRequiredForSuccess) {")
		w.Indent()
		if isVoid {
			w.WriteLine("return slot.result")
		} else {
			w.WriteLine("return slot.result, slot.value")
		}
		w.Dedent()
		w.WriteLine("}")
	}

	body := c.lowerExpr(n.Body, "start", "isRequiredForSuccess")

	// The degenerate "unbound CharacterClass rule with type char" case from
	// spec §4.4's template: the rule's own matched rune becomes its return
	// value, since there is no other binding to draw it from.
	// Every other non-void rule sets returnValueVar itself, via a `$$`
	// assignment inside one of its CodeSnippet nodes.
	if !isVoid {
		if cc, ok := n.Body.(*ast.CharacterClass); ok && cc.Bind == "" && n.Type == g.CharType {
			w.WriteLine("if %s.success() {", body.result)
			w.Indent()
			w.WriteLine("%s = p.input[start]", returnValueVar)
			w.Dedent()
			w.WriteLine("}")
		}
	}

	if n.Settings.Caching {
		w.WriteLine("slot.result = %s", body.result)
		if !isVoid {
			w.WriteLine("slot.value = %s", returnValueVar)
		}
	}

	if isVoid {
		w.WriteLine("return %s", body.result)
	} else {
		w.WriteLine("return %s, %s", body.result, returnValueVar)
	}
	w.Dedent()
	w.WriteLine("}")

	// Public entry point, per spec §6.3: "the generated module exposes a
	// parser entry returning T (or nothing for void), raising a structured
	// ParseError on failure."
	w.Blank()
	if isVoid {
		w.WriteLine("func (p *Parser) Parse%s() error {", goRuleName(n.Name))
		w.Indent()
		w.WriteLine("r := p.internalParse%s(0, true)", goRuleName(n.Name))
		w.WriteLine("if !r.success() {")
		w.Indent()
		w.WriteLine("return p.parseError()")
		w.Dedent()
		w.WriteLine("}")
		w.WriteLine("return nil")
	} else {
		w.WriteLine("func (p *Parser) Parse%s() (%s, error) {", goRuleName(n.Name), goType)
		w.Indent()
		w.WriteLine("r, v := p.internalParse%s(0, true)", goRuleName(n.Name))
		w.WriteLine("if !r.success() {")
		w.Indent()
		w.WriteLine("var zero %s", goType)
		w.WriteLine("return zero, p.parseError()")
		w.Dedent()
		w.WriteLine("}")
		w.WriteLine("return v, nil")
	}
	w.Dedent()
	w.WriteLine("}")
}
