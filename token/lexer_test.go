package token_test

import (
	"testing"

	"github.com/programmerjake/pegc/diag"
	"github.com/programmerjake/pegc/source"
	"github.com/programmerjake/pegc/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lexAll(t *testing.T, text string) ([]token.Token, *diag.Handler) {
	t.Helper()
	var diags []diag.WithPos
	h := diag.NewHandler(diag.ReporterFunc(func(d diag.WithPos) { diags = append(diags, d) }))
	src := source.New("t.peg", []byte(text))
	lx := token.NewLexer(src, h)
	var toks []token.Token
	for {
		tok := lx.Next()
		toks = append(toks, tok)
		if tok.Kind == token.EndOfFile {
			break
		}
	}
	return toks, h
}

func TestLexPunctuationAndKeywords(t *testing.T) {
	t.Parallel()
	toks, h := lexAll(t, "goal : char = EOF ! & * + ? / ( ) :: ;")
	require.False(t, h.AnyErrors())

	kinds := make([]token.Kind, len(toks))
	for i, tk := range toks {
		kinds[i] = tk.Kind
	}
	assert.Equal(t, []token.Kind{
		token.Identifier, token.Colon, token.Identifier, token.Equal,
		token.EOFKeyword, token.EMark, token.Amp, token.Star, token.Plus,
		token.QMark, token.FSlash, token.LParen, token.RParen,
		token.ColonColon, token.Semicolon, token.EndOfFile,
	}, kinds)
}

func TestLexComments(t *testing.T) {
	t.Parallel()
	toks, h := lexAll(t, "// line comment\n/* block\ncomment */ goal")
	require.False(t, h.AnyErrors())
	require.Len(t, toks, 2)
	assert.Equal(t, token.Identifier, toks[0].Kind)
	assert.Equal(t, "goal", toks[0].Text)
}

func TestLexUnterminatedBlockComment(t *testing.T) {
	t.Parallel()
	_, h := lexAll(t, "/* never closes")
	assert.True(t, h.AnyErrors())
}

func TestLexString(t *testing.T) {
	t.Parallel()
	toks, h := lexAll(t, `"ab\"c"`)
	require.False(t, h.AnyErrors())
	require.Equal(t, token.String, toks[0].Kind)
	assert.Equal(t, `ab\"c`, toks[0].Text)
}

func TestLexUnterminatedString(t *testing.T) {
	t.Parallel()
	_, h := lexAll(t, `"abc`)
	assert.True(t, h.AnyErrors())
}

func TestLexCharClass(t *testing.T) {
	t.Parallel()
	toks, h := lexAll(t, `[0-9\]]`)
	require.False(t, h.AnyErrors())
	require.Equal(t, token.CharacterClass, toks[0].Kind)
	assert.Equal(t, `0-9\]`, toks[0].Text)
}

func TestLexCodeSnippetBalancedBraces(t *testing.T) {
	t.Parallel()
	toks, h := lexAll(t, `{ if (x) { return $$; } }`)
	require.False(t, h.AnyErrors())
	require.Equal(t, token.CodeSnippet, toks[0].Kind)
	require.Len(t, toks[0].Substitutions, 1)
	assert.Equal(t, token.ReturnValue, toks[0].Substitutions[0].Kind)
}

func TestLexCodeSnippetPredicateMarker(t *testing.T) {
	t.Parallel()
	toks, h := lexAll(t, `{ $! = "bad"; }`)
	require.False(t, h.AnyErrors())
	require.Len(t, toks[0].Substitutions, 1)
	assert.Equal(t, token.PredicateReturnValue, toks[0].Substitutions[0].Kind)
}

func TestLexCodeSnippetStringWithBrace(t *testing.T) {
	t.Parallel()
	toks, h := lexAll(t, `{ auto s = "}"; return 1; }`)
	require.False(t, h.AnyErrors())
	require.Equal(t, token.CodeSnippet, toks[0].Kind)
	assert.Contains(t, toks[0].Text, `"}"`)
}

func TestLexCodeSnippetRawString(t *testing.T) {
	t.Parallel()
	toks, h := lexAll(t, `{ auto s = R"x({not a close))x"; }`)
	require.False(t, h.AnyErrors())
	assert.Contains(t, toks[0].Text, `R"x({not a close))x"`)
}

func TestLexCodeSnippetInclude(t *testing.T) {
	t.Parallel()
	toks, h := lexAll(t, "{\n#include <vector>\nint x;\n}")
	require.False(t, h.AnyErrors())
	assert.Contains(t, toks[0].Text, "#include <vector>")
}

func TestLexCodeSnippetUnrecognizedDollar(t *testing.T) {
	t.Parallel()
	toks, h := lexAll(t, `{ $foo }`)
	assert.True(t, h.AnyErrors())
	assert.Contains(t, toks[0].Text, "$foo")
}

func TestLexUnterminatedCodeSnippet(t *testing.T) {
	t.Parallel()
	_, h := lexAll(t, `{ incomplete`)
	assert.True(t, h.AnyErrors())
}

func TestLexCRLFNormalization(t *testing.T) {
	t.Parallel()
	toks, h := lexAll(t, "{ a;\r\nb; }")
	require.False(t, h.AnyErrors())
	assert.NotContains(t, toks[0].Text, "\r")
}
