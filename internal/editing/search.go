package editing

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

var ErrRange = errors.New("editing: offset out of range")

// Span is a half-open [Start, End) range of rune offsets.
type Span struct {
	Start int
	End   int
}

func (s Span) Len() int {
	return s.End - s.Start
}

type Matches struct {
	Query string
	Spans []Span
}

func (m Matches) Count() int {
	return len(m.Spans)
}

type ReplaceOptions struct {
	CaseSensitive bool
	// All replaces every match. Otherwise only the first match at or after
	// Start is replaced.
	All   bool
	Start int
	// Wrap retries from the beginning when nothing follows Start.
	Wrap bool
}

type ReplacementSummary struct {
	Text  string
	Count int
	// First locates the first inserted replacement in Text.
	First *Span
}

type Summary struct {
	Chars int
	Words int
	Lines int
}

func Summarize(text string) Summary {
	s := Summary{
		Chars: utf8.RuneCountInString(text),
		Words: len(strings.Fields(text)),
	}
	if text != "" {
		s.Lines = strings.Count(text, "\n") + 1
	}
	return s
}

// FindMatches scans left to right for non-overlapping literal occurrences of
// query. After a match the scan resumes at the match end.
func FindMatches(text, query string, caseSensitive bool) Matches {
	out := Matches{Query: query}
	if query == "" {
		return out
	}
	hay := prepare(text, caseSensitive)
	needle := prepare(query, caseSensitive)
	for i := 0; i+len(needle) <= len(hay); {
		if equalAt(hay, needle, i) {
			out.Spans = append(out.Spans, Span{Start: i, End: i + len(needle)})
			i += len(needle)
			continue
		}
		i++
	}
	return out
}

// NextOccurrence returns the start of the first match at or after from. Any
// offset may start a match, so it can overlap a FindMatches span. With wrap
// set, a miss retries from the beginning of the text.
func NextOccurrence(text, query string, from int, caseSensitive, wrap bool) (int, bool, error) {
	n := utf8.RuneCountInString(text)
	if from < 0 || from > n {
		return 0, false, fmt.Errorf("%w: %d not in [0, %d]", ErrRange, from, n)
	}
	span, ok := nextMatch(text, query, from, caseSensitive, wrap)
	return span.Start, ok, nil
}

func nextMatch(text, query string, from int, caseSensitive, wrap bool) (Span, bool) {
	if query == "" {
		return Span{}, false
	}
	hay := prepare(text, caseSensitive)
	needle := prepare(query, caseSensitive)
	for i := from; i+len(needle) <= len(hay); i++ {
		if equalAt(hay, needle, i) {
			return Span{Start: i, End: i + len(needle)}, true
		}
	}
	if wrap && from > 0 {
		limit := min(from+len(needle)-1, len(hay))
		for i := 0; i+len(needle) <= limit; i++ {
			if equalAt(hay, needle, i) {
				return Span{Start: i, End: i + len(needle)}, true
			}
		}
	}
	return Span{}, false
}

// Replace substitutes query with replacement. Inserted text is never scanned
// again, so a replacement containing the query cannot cascade.
func Replace(text, query, replacement string, opts ReplaceOptions) (ReplacementSummary, error) {
	n := utf8.RuneCountInString(text)
	if opts.Start < 0 || opts.Start > n {
		return ReplacementSummary{Text: text}, fmt.Errorf("%w: %d not in [0, %d]", ErrRange, opts.Start, n)
	}

	var spans []Span
	if opts.All {
		spans = FindMatches(text, query, opts.CaseSensitive).Spans
	} else if s, ok := nextMatch(text, query, opts.Start, opts.CaseSensitive, opts.Wrap); ok {
		spans = []Span{s}
	}
	if len(spans) == 0 {
		return ReplacementSummary{Text: text}, nil
	}

	runes := []rune(text)
	replLen := utf8.RuneCountInString(replacement)
	var sb strings.Builder
	sb.Grow(len(text))
	last := 0
	for _, s := range spans {
		sb.WriteString(string(runes[last:s.Start]))
		sb.WriteString(replacement)
		last = s.End
	}
	sb.WriteString(string(runes[last:]))

	first := Span{Start: spans[0].Start, End: spans[0].Start + replLen}
	return ReplacementSummary{Text: sb.String(), Count: len(spans), First: &first}, nil
}

func prepare(s string, caseSensitive bool) []rune {
	runes := []rune(s)
	if caseSensitive {
		return runes
	}
	for i, r := range runes {
		runes[i] = foldRune(r)
	}
	return runes
}

// foldRune maps r to the smallest rune in its simple case-folding orbit, so
// comparisons never change the rune count.
func foldRune(r rune) rune {
	low := r
	for f := unicode.SimpleFold(r); f != r; f = unicode.SimpleFold(f) {
		if f < low {
			low = f
		}
	}
	return low
}

func equalAt(hay, needle []rune, at int) bool {
	for j, r := range needle {
		if hay[at+j] != r {
			return false
		}
	}
	return true
}
