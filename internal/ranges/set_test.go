package ranges_test

import (
	"testing"

	"github.com/programmerjake/pegc/internal/ranges"
	"github.com/stretchr/testify/assert"
)

func TestSetAddDisjoint(t *testing.T) {
	t.Parallel()

	var s ranges.Set
	_, overlap := s.Add('a', 'f')
	assert.False(t, overlap)
	_, overlap = s.Add('0', '9')
	assert.False(t, overlap)
	_, overlap = s.Add('h', 'z')
	assert.False(t, overlap)

	assert.Equal(t, 3, s.Len())
	assert.True(t, s.Contains('c'))
	assert.True(t, s.Contains('5'))
	assert.False(t, s.Contains('g'))
}

func TestSetAddOverlapDetected(t *testing.T) {
	t.Parallel()

	var s ranges.Set
	s.Add('a', 'f')
	overlap, ok := s.Add('d', 'h')
	assert.True(t, ok)
	assert.Equal(t, ranges.Range{Min: 'a', Max: 'f'}, overlap)
	// Unmodified on overlap.
	assert.Equal(t, 1, s.Len())
}

func TestSetSortedOrder(t *testing.T) {
	t.Parallel()

	var s ranges.Set
	s.Add('h', 'z')
	s.Add('a', 'f')
	s.Add('0', '9')

	got := s.Sorted()
	assert.Equal(t, []ranges.Range{
		{Min: '0', Max: '9'},
		{Min: 'a', Max: 'f'},
		{Min: 'h', Max: 'z'},
	}, got)
}
