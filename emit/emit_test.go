package emit_test

import (
	"regexp"
	"testing"

	"github.com/programmerjake/pegc/diag"
	"github.com/programmerjake/pegc/emit"
	"github.com/programmerjake/pegc/grammar"
	"github.com/programmerjake/pegc/sema"
	"github.com/programmerjake/pegc/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func compileAndEmit(t *testing.T, text string, opts emit.Options) string {
	t.Helper()
	h := diag.NewHandler(diag.ReporterFunc(func(d diag.WithPos) { t.Log(d.Error()) }))
	src := source.New("t.peg", []byte(text))
	g, err := grammar.NewParser(src, h).Parse()
	require.NoError(t, err)
	require.False(t, h.AnyErrors())
	require.NoError(t, sema.Analyze(g, h))
	require.False(t, h.AnyErrors())
	out, err := emit.Emit(g, opts)
	require.NoError(t, err)
	return out
}

func TestEmitProducesRuntimeAndEntryPoints(t *testing.T) {
	t.Parallel()
	out := compileAndEmit(t, `digit = [0-9];`, emit.Options{Package: "calc"})

	assert.Contains(t, out, "package calc")
	assert.Contains(t, out, "type ParseError struct")
	assert.Contains(t, out, "func (p *Parser) internalParseDigit(start int, isRequiredForSuccess bool) (ruleResult, rune) {")
	assert.Contains(t, out, "func (p *Parser) ParseDigit() (rune, error) {")
}

func TestEmitDegenerateCharacterClassAssignsReturnValue(t *testing.T) {
	t.Parallel()
	out := compileAndEmit(t, `digit = [0-9];`, emit.Options{})
	assert.Contains(t, out, "returnValue = p.input[start]")
}

func TestEmitVoidRuleHasNoValueReturn(t *testing.T) {
	t.Parallel()
	out := compileAndEmit(t, `a = "x";`, emit.Options{})
	assert.Contains(t, out, "func (p *Parser) internalParseA(start int, isRequiredForSuccess bool) ruleResult {")
	assert.Contains(t, out, "func (p *Parser) ParseA() error {")
	assert.NotContains(t, out, "func (p *Parser) internalParseA(start int, isRequiredForSuccess bool) (ruleResult,")
}

func TestEmitCachingEmitsMemoColumnAndCheck(t *testing.T) {
	t.Parallel()
	out := compileAndEmit(t, `digit = [0-9]; goal = digit EOF;`, emit.Options{})
	assert.Contains(t, out, "memoDigit memoColumn[rune]")
	assert.Contains(t, out, "p.memoDigit.at(start)")
	assert.Contains(t, out, "resultUnset")
}

func TestEmitHoistsBindingsAcrossSequence(t *testing.T) {
	t.Parallel()
	out := compileAndEmit(t, `digit : char = [0-9]; sum : char = digit:a digit:b { $$ = a };`, emit.Options{})
	// both bindings must be declared once, at function scope, ahead of the
	// nested if-statements the Sequence lowering produces.
	assert.Contains(t, out, "var a rune")
	assert.Contains(t, out, "var b rune")
}

func TestEmitCodeSnippetSubstitutions(t *testing.T) {
	t.Parallel()
	out := compileAndEmit(t, `digit : char = [0-9]:c { $$ = c; };`, emit.Options{})
	assert.Contains(t, out, "returnValue = c")
}

func TestEmitPredicateReturnValueSentinel(t *testing.T) {
	t.Parallel()
	out := compileAndEmit(t, `a = [0-9]:c { if c > '5' { $! = "too big" } };`, emit.Options{})
	assert.Regexp(t, regexp.MustCompile(`var predicateReturnValue\d+ string`), out)
	assert.Regexp(t, regexp.MustCompile(`if predicateReturnValue\d+ != "" \{`), out)
}

func TestEmitTopLevelCodeBlocks(t *testing.T) {
	t.Parallel()
	out := compileAndEmit(t, "code license { // MIT\n}\ndigit = [0-9];", emit.Options{})
	assert.Contains(t, out, "// MIT")
}

func TestEmitLineDirectivesOptedOut(t *testing.T) {
	t.Parallel()
	withLines := compileAndEmit(t, `a : char = [0-9]:c { $$ = c };`, emit.Options{CarryComments: true})
	withoutLines := compileAndEmit(t, `a : char = [0-9]:c { $$ = c };`, emit.Options{CarryComments: false})
	assert.Contains(t, withLines, "//line t.peg:")
	assert.NotContains(t, withoutLines, "//line")
}
