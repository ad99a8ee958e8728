package ast_test

import (
	"testing"

	"github.com/programmerjake/pegc/ast"
	"github.com/programmerjake/pegc/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGrammarBuiltinTypes(t *testing.T) {
	t.Parallel()

	src := source.New("g.peg", []byte("x"))
	g := ast.NewGrammar(src)

	require.False(t, g.VoidType.Nil())
	require.False(t, g.CharType.Nil())
	assert.Equal(t, ast.VoidTypeName, g.VoidType.In(g.Types).Name)
	assert.Equal(t, ast.CharTypeName, g.CharType.In(g.Types).Name)
	assert.True(t, g.LookupType("char") == g.CharType)
}

func TestGrammarNonterminalFirstMentionOrdering(t *testing.T) {
	t.Parallel()

	src := source.New("g.peg", []byte("x"))
	g := ast.NewGrammar(src)
	loc := src.At(0)

	a := g.Nonterminal("A", loc)
	b := g.Nonterminal("B", loc)
	again := g.Nonterminal("A", loc)

	assert.Equal(t, a, again)
	assert.Equal(t, []ast.Pointer[ast.Nonterminal]{a, b}, g.NonterminalOrder)
	assert.Equal(t, a, g.StartRule)
	assert.False(t, a.In(g.Nonterminals).Defined)
}

func TestGrammarDeclareType(t *testing.T) {
	t.Parallel()

	src := source.New("g.peg", []byte("x"))
	g := ast.NewGrammar(src)

	p := g.DeclareType(ast.Type{Name: "Node", Emitted: "*Node"})
	assert.Equal(t, p, g.LookupType("Node"))
	assert.Equal(t, "*Node", p.In(g.Types).Emitted)
}
