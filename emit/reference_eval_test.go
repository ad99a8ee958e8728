package emit_test

// This file implements a reference PEG evaluator that interprets an
// analyzed *ast.Grammar's Expr trees directly, mirroring the ruleResult /
// makeSuccess / makeFail contract emit.go's lowering produces (see
// emit/runtime.go's runtimePrelude/parserPrelude) without ever compiling or
// running the generated Go source. It exists to validate the matching
// semantics spec.md §8.1/§8.2 describe — especially the farthest-failure
// bookkeeping in OrderedChoice/NotFollowedBy/Optional/FollowedBy/Repetition
// that emit/lower.go's lowering must reproduce byte-for-byte in the emitted
// code.

import (
	"fmt"
	"testing"
	"time"

	"github.com/programmerjake/pegc/ast"
	"github.com/programmerjake/pegc/diag"
	"github.com/programmerjake/pegc/grammar"
	"github.com/programmerjake/pegc/sema"
	"github.com/programmerjake/pegc/source"
	"github.com/stretchr/testify/require"
)

func timeout() <-chan time.Time {
	return time.After(2 * time.Second)
}

// analyzeGrammar parses and semantically analyzes text, failing the test on
// any error, and returns the resulting Grammar.
func analyzeGrammar(t *testing.T, text string) *ast.Grammar {
	t.Helper()
	h := diag.NewHandler(diag.ReporterFunc(func(d diag.WithPos) { t.Log(d.Error()) }))
	src := source.New("t.peg", []byte(text))
	g, err := grammar.NewParser(src, h).Parse()
	require.NoError(t, err)
	require.False(t, h.AnyErrors())
	require.NoError(t, sema.Analyze(g, h))
	require.False(t, h.AnyErrors())
	return g
}

// refResult is the reference evaluator's counterpart of emit's ruleResult.
type refResult struct {
	success  bool
	next     int
	farthest int
}

// refParser interprets ast.Expr trees against a decoded rune input, tracking
// the same farthest-failure state emit/runtime.go's Parser.makeFail does.
type refParser struct {
	g     *ast.Grammar
	input []rune

	haveError             bool
	errorLocation         int
	errorInputEndLocation int
	errorMessage          string
}

func newRefParser(g *ast.Grammar, input string) *refParser {
	return &refParser{g: g, input: []rune(input)}
}

func (p *refParser) makeSuccess(next, end int) refResult {
	return refResult{success: true, next: next, farthest: end}
}

// makeFail mirrors (*emit.Parser).makeFail: only a required failure that
// reaches at least as far as the current farthest-known failure updates the
// tracked error.
func (p *refParser) makeFail(loc, end int, message string, isRequired bool) refResult {
	if isRequired && (!p.haveError || end >= p.errorInputEndLocation) {
		p.haveError = true
		p.errorLocation = loc
		p.errorInputEndLocation = end
		p.errorMessage = message
	}
	return refResult{success: false, next: loc, farthest: end}
}

func (p *refParser) eval(e ast.Expr, pos int, isRequired bool) refResult {
	switch n := e.(type) {
	case *ast.Empty:
		return p.makeSuccess(pos, pos)

	case *ast.Terminal:
		if pos < len(p.input) && p.input[pos] == n.Char {
			return p.makeSuccess(pos+1, pos+1)
		}
		return p.makeFail(pos, pos, fmt.Sprintf("missing %q", n.Char), isRequired)

	case *ast.EOFTerminal:
		if pos >= len(p.input) {
			return p.makeSuccess(pos, pos)
		}
		return p.makeFail(pos, pos, "expected end of file", isRequired)

	case *ast.CharacterClass:
		if pos < len(p.input) && charClassMatches(n, p.input[pos]) {
			return p.makeSuccess(pos+1, pos+1)
		}
		return p.makeFail(pos, pos, "character class mismatch", isRequired)

	case *ast.NonterminalExpression:
		target := n.Target.In(p.g.Nonterminals)
		return p.eval(target.Body, pos, isRequired)

	case *ast.Sequence:
		a := p.eval(n.Left, pos, isRequired)
		if !a.success {
			return a
		}
		return p.eval(n.Right, a.next, isRequired)

	case *ast.OrderedChoice:
		a := p.eval(n.First, pos, isRequired)
		if a.success {
			return a
		}
		b := p.eval(n.Second, pos, isRequired)
		if b.success {
			b.farthest = max(b.farthest, a.farthest)
		}
		return b

	case *ast.Optional:
		r := p.eval(n.Inner, pos, isRequired)
		if !r.success {
			return p.makeSuccess(pos, r.farthest)
		}
		return r

	case *ast.Repetition:
		return p.evalRepetition(n.Inner, pos, isRequired, false)

	case *ast.PositiveRepetition:
		return p.evalRepetition(n.Inner, pos, isRequired, true)

	case *ast.FollowedBy:
		r := p.eval(n.Inner, pos, isRequired)
		if r.success {
			return p.makeSuccess(pos, r.farthest)
		}
		return r

	case *ast.NotFollowedBy:
		r := p.eval(n.Inner, pos, !isRequired)
		if r.success {
			return p.makeFail(pos, r.farthest, "unexpected match", isRequired)
		}
		return p.makeSuccess(pos, r.farthest)

	case *ast.CodeSnippet:
		return p.makeSuccess(pos, pos)

	default:
		panic(fmt.Sprintf("reference evaluator: unhandled node %T", e))
	}
}

func (p *refParser) evalRepetition(inner ast.Expr, pos int, isRequired bool, positive bool) refResult {
	cur, end := pos, pos
	for {
		it := p.eval(inner, cur, isRequired)
		if !it.success || it.next == cur {
			end = it.farthest
			break
		}
		cur, end = it.next, it.farthest
	}
	if positive && cur == pos {
		return p.makeFail(pos, end, "expected at least one match", isRequired)
	}
	return p.makeSuccess(cur, end)
}

func charClassMatches(n *ast.CharacterClass, r rune) bool {
	in := false
	for _, rg := range n.Ranges {
		if r >= rg.Min && r <= rg.Max {
			in = true
			break
		}
	}
	if n.Inverted {
		return !in
	}
	return in
}

func evalRule(g *ast.Grammar, name string, input string) (*refParser, refResult) {
	nt := g.LookupNonterminal(name)
	n := nt.In(g.Nonterminals)
	p := newRefParser(g, input)
	return p, p.eval(n.Body, 0, true)
}

func TestReferenceEvalCharacterLiteral(t *testing.T) {
	t.Parallel()
	g := analyzeGrammar(t, `goal = 'x' EOF;`)

	_, r := evalRule(g, "goal", "x")
	require.True(t, r.success)

	p, r := evalRule(g, "goal", "")
	require.False(t, r.success)
	require.Equal(t, 0, p.errorLocation)

	p, r = evalRule(g, "goal", "y")
	require.False(t, r.success)
	require.Equal(t, 0, p.errorLocation)

	p, r = evalRule(g, "goal", "xx")
	require.False(t, r.success)
	require.Equal(t, 1, p.errorLocation)
}

// TestReferenceEvalChoiceFarthestFailure verifies spec.md §8.3 scenario 2:
// against "ad", both "ab" and "ac" match the leading 'a' and then fail at
// position 1, so the farthest-failure tracker must report position 1, not 0.
func TestReferenceEvalChoiceFarthestFailure(t *testing.T) {
	t.Parallel()
	g := analyzeGrammar(t, `goal = "ab" / "ac" EOF;`)

	p, r := evalRule(g, "goal", "ad")
	require.False(t, r.success)
	require.True(t, p.haveError)
	require.Equal(t, 1, p.errorInputEndLocation)
}

func TestReferenceEvalCharacterClassBinding(t *testing.T) {
	t.Parallel()
	g := analyzeGrammar(t, `digit : char = [0-9]; goal = digit:d EOF;`)

	_, r := evalRule(g, "goal", "7")
	require.True(t, r.success)

	p, r := evalRule(g, "goal", "a")
	require.False(t, r.success)
	require.Equal(t, 0, p.errorLocation)
}

func TestReferenceEvalLookaheadDoesNotConsume(t *testing.T) {
	t.Parallel()
	g := analyzeGrammar(t, `goal = &"x" "xy" EOF;`)

	_, r := evalRule(g, "goal", "xy")
	require.True(t, r.success)
	require.Equal(t, 2, r.next)
}

// TestReferenceEvalDoubleNegationIsPositiveLookahead checks spec.md §8.2's
// "!!e ... matches iff e matches, consuming no input" round-trip property.
func TestReferenceEvalDoubleNegationIsPositiveLookahead(t *testing.T) {
	t.Parallel()
	g := analyzeGrammar(t, `goal = !(!"x") "xy" EOF;`)

	_, r := evalRule(g, "goal", "xy")
	require.True(t, r.success)

	_, r = evalRule(g, "goal", "yz")
	require.False(t, r.success)
}

// TestReferenceEvalOptionalSucceedsOnEmptyOrMatch checks spec.md §8.2's
// "Optional(a) succeeds iff a succeeds OR consumes no input" property.
func TestReferenceEvalOptionalSucceedsOnEmptyOrMatch(t *testing.T) {
	t.Parallel()
	g := analyzeGrammar(t, `goal = "x"? EOF;`)

	_, r := evalRule(g, "goal", "x")
	require.True(t, r.success)

	_, r = evalRule(g, "goal", "")
	require.True(t, r.success)
}

// TestReferenceEvalSequenceWithEmptyIsIdentity checks spec.md §8.2's
// "Sequence(Empty, a) ≡ a ≡ Sequence(a, Empty)" property.
func TestReferenceEvalSequenceWithEmptyIsIdentity(t *testing.T) {
	t.Parallel()
	g := analyzeGrammar(t, `goal = "" "x" EOF;`)

	_, r := evalRule(g, "goal", "x")
	require.True(t, r.success)
}

// TestReferenceEvalNoProgressTerminatesRepetition checks spec.md §8.1
// invariant 6: a Repetition whose body can match the empty string still
// terminates.
func TestReferenceEvalNoProgressTerminatesRepetition(t *testing.T) {
	t.Parallel()
	g := analyzeGrammar(t, `goal = "x"?* EOF;`)

	done := make(chan refResult, 1)
	go func() {
		_, r := evalRule(g, "goal", "xxx")
		done <- r
	}()
	select {
	case r := <-done:
		require.True(t, r.success)
	case <-timeout():
		t.Fatal("Repetition over an always-succeeding, non-consuming body did not terminate")
	}
}
