package parse

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLines(t *testing.T) {
	type stmt struct {
		line int
		text string
	}
	input := []string{
		"% parents",
		"parent(tom, bob).",
		"",
		"likes(mary,   % who",
		"      wine).",
		"?- parent(tom, X).",
	}

	var lines Lines
	var got []stmt
	for _, line := range input {
		if text, ok := lines.Add(line); ok {
			got = append(got, stmt{lines.StartLine(), text})
		}
	}
	require.False(t, lines.Pending())
	require.Equal(t, []stmt{
		{2, "parent(tom, bob)."},
		{4, "likes(mary, wine)."},
		{6, "?- parent(tom, X)."},
	}, got)
}

func TestLinesPending(t *testing.T) {
	var lines Lines
	_, ok := lines.Add("p(b,")
	require.False(t, ok)
	require.True(t, lines.Pending())
	require.Equal(t, 1, lines.StartLine())

	lines.Discard()
	require.False(t, lines.Pending())
	text, ok := lines.Add("q.")
	require.True(t, ok)
	require.Equal(t, "q.", text)
	require.Equal(t, 2, lines.StartLine())
}
