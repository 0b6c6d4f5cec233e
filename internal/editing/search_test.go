package editing

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSummarize(t *testing.T) {
	cases := []struct {
		text string
		want Summary
	}{
		{"", Summary{}},
		{"hello", Summary{Chars: 5, Words: 1, Lines: 1}},
		{"one two\nthree", Summary{Chars: 13, Words: 3, Lines: 2}},
		{"trailing\n", Summary{Chars: 9, Words: 1, Lines: 2}},
		{"  \t spaced   out  ", Summary{Chars: 18, Words: 2, Lines: 1}},
		{"naïve café", Summary{Chars: 10, Words: 2, Lines: 1}},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, Summarize(tc.text), "text %q", tc.text)
	}
}

func TestFindMatchesIsNonOverlapping(t *testing.T) {
	m := FindMatches("aaaa", "aa", true)
	require.Equal(t, []Span{{0, 2}, {2, 4}}, m.Spans)
	require.Equal(t, 2, m.Count())
}

func TestFindMatchesEmptyQuery(t *testing.T) {
	require.Empty(t, FindMatches("abc", "", false).Spans)
}

func TestFindMatchesCaseInsensitive(t *testing.T) {
	text := "Go go GO gO"
	require.Len(t, FindMatches(text, "go", false).Spans, 4)
	require.Equal(t, []Span{{3, 5}}, FindMatches(text, "go", true).Spans)
}

func TestFindMatchesUsesRuneOffsets(t *testing.T) {
	m := FindMatches("Ärger ärger", "ÄRGER", false)
	require.Equal(t, []Span{{0, 5}, {6, 11}}, m.Spans)
}

func TestNextOccurrence(t *testing.T) {
	text := "cat dog cat"
	pos, ok, err := NextOccurrence(text, "cat", 1, true, false)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 8, pos)

	_, ok, err = NextOccurrence(text, "cat", 9, true, false)
	require.NoError(t, err)
	require.False(t, ok)

	pos, ok, err = NextOccurrence(text, "cat", 9, true, true)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 0, pos)

	_, ok, err = NextOccurrence(text, "", 0, true, true)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestNextOccurrenceMayStartInsideAMatch(t *testing.T) {
	require.Equal(t, []Span{{0, 2}}, FindMatches("aaa", "aa", true).Spans)

	pos, ok, err := NextOccurrence("aaa", "aa", 1, true, false)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 1, pos)

	_, ok, err = NextOccurrence("aaa", "aa", 2, true, false)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestNextOccurrenceRejectsBadOffset(t *testing.T) {
	_, _, err := NextOccurrence("abc", "a", -1, true, false)
	require.ErrorIs(t, err, ErrRange)
	_, _, err = NextOccurrence("abc", "a", 4, true, false)
	require.ErrorIs(t, err, ErrRange)
	_, ok, err := NextOccurrence("abc", "a", 3, true, false)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestReplaceAll(t *testing.T) {
	res, err := Replace("one fish two fish", "fish", "cat", ReplaceOptions{All: true, CaseSensitive: true})
	require.NoError(t, err)
	require.Equal(t, "one cat two cat", res.Text)
	require.Equal(t, 2, res.Count)
	require.Equal(t, &Span{Start: 4, End: 7}, res.First)
}

func TestReplaceFirstFromStart(t *testing.T) {
	res, err := Replace("ab ab ab", "ab", "xyz", ReplaceOptions{Start: 1, CaseSensitive: true})
	require.NoError(t, err)
	require.Equal(t, "ab xyz ab", res.Text)
	require.Equal(t, 1, res.Count)
	require.Equal(t, &Span{Start: 3, End: 6}, res.First)
}

func TestReplaceDoesNotRescanOutput(t *testing.T) {
	res, err := Replace("aa", "a", "aa", ReplaceOptions{All: true, CaseSensitive: true})
	require.NoError(t, err)
	require.Equal(t, "aaaa", res.Text)
	require.Equal(t, 2, res.Count)
}

func TestReplaceCaseInsensitive(t *testing.T) {
	res, err := Replace("Hello HELLO", "hello", "bye", ReplaceOptions{All: true})
	require.NoError(t, err)
	require.Equal(t, "bye bye", res.Text)
}

func TestReplaceNoMatch(t *testing.T) {
	res, err := Replace("abc", "zz", "y", ReplaceOptions{All: true})
	require.NoError(t, err)
	require.Equal(t, "abc", res.Text)
	require.Zero(t, res.Count)
	require.Nil(t, res.First)
}

func TestReplaceWithMultibyteReplacement(t *testing.T) {
	res, err := Replace("x-x", "-", "→→", ReplaceOptions{All: true, CaseSensitive: true})
	require.NoError(t, err)
	require.Equal(t, "x→→x", res.Text)
	require.Equal(t, &Span{Start: 1, End: 3}, res.First)
}

func TestReplaceRejectsBadStart(t *testing.T) {
	_, err := Replace("abc", "a", "b", ReplaceOptions{Start: 10})
	require.ErrorIs(t, err, ErrRange)
}
