package ast_test

import (
	"testing"

	"github.com/programmerjake/pegc/ast"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArenaRoundTrip(t *testing.T) {
	t.Parallel()

	var a ast.Arena[string]
	var ptrs []ast.Pointer[string]
	for i := 0; i < 200; i++ {
		ptrs = append(ptrs, a.New(string(rune('a'+i%26))+string(rune(i))))
	}
	for i, p := range ptrs {
		assert.False(t, p.Nil())
		assert.Equal(t, string(rune('a'+i%26))+string(rune(i)), *p.In(&a))
	}
	assert.Equal(t, 200, a.Len())
}

func TestArenaNilPanics(t *testing.T) {
	t.Parallel()

	var a ast.Arena[int]
	var zero ast.Pointer[int]
	require.True(t, zero.Nil())
	assert.Panics(t, func() { zero.In(&a) })
}
