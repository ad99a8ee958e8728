package diag_test

import (
	"testing"

	"github.com/programmerjake/pegc/diag"
	"github.com/programmerjake/pegc/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandlerLevels(t *testing.T) {
	t.Parallel()

	var got []diag.WithPos
	h := diag.NewHandler(diag.ReporterFunc(func(d diag.WithPos) {
		got = append(got, d)
	}))

	var loc source.Location
	require.NoError(t, h.Report(diag.Info, loc, "informational"))
	assert.False(t, h.AnyErrors())

	require.NoError(t, h.Report(diag.Warning, loc, "heads up"))
	assert.False(t, h.AnyErrors())

	require.NoError(t, h.Report(diag.Error, loc, "rule %q not defined", "foo"))
	assert.True(t, h.AnyErrors())

	err := h.Report(diag.FatalError, loc, "unterminated comment")
	assert.ErrorIs(t, err, diag.ErrFatal)
	assert.True(t, h.AnyErrors())

	require.Len(t, got, 4)
	assert.Equal(t, diag.Error, got[2].Level())
}

func TestWithPosFormatting(t *testing.T) {
	t.Parallel()

	src := source.New("g.peg", []byte("goal = 'x';"))
	loc := src.At(7)
	d := diag.Newf(diag.Error, loc, "missing %q", "x")
	assert.Equal(t, "g.peg:1:8: error: missing \"x\"", d.Error())

	noLoc := diag.Newf(diag.Error, source.Location{}, "boom")
	assert.Equal(t, "error: boom", noLoc.Error())
}
