package wpdoc

import "unicode"

// ListPrefixLen reports the rune length of a recognized list marker at the
// start of line: optional indentation, then a bullet glyph ("•", "-", "*",
// "◦", "▪") or a number ending in "." or ")", then one space. It returns 0
// when line has no marker.
func ListPrefixLen(line string) int {
	runes := []rune(line)
	i := skipIndent(runes)
	if i >= len(runes) {
		return 0
	}
	switch runes[i] {
	case '•', '-', '*', '◦', '▪':
		i++
	default:
		start := i
		for i < len(runes) && runes[i] >= '0' && runes[i] <= '9' {
			i++
		}
		if i == start || i >= len(runes) || (runes[i] != '.' && runes[i] != ')') {
			return 0
		}
		i++
	}
	if i >= len(runes) || runes[i] != ' ' {
		return 0
	}
	return i + 1
}

// MarkerLen is the length of the literal marker a paragraph of the given
// list type carries in its text. Bullet paragraphs also accept any single
// punctuation or symbol glyph, so configured bullets are found too.
func MarkerLen(text string, list ListType) int {
	switch list {
	case ListNumbered:
		n := ListPrefixLen(text)
		runes := []rune(text)
		if n == 0 || !unicode.IsDigit(runes[skipIndent(runes)]) {
			return 0
		}
		return n
	case ListBullet:
		if n := ListPrefixLen(text); n > 0 {
			return n
		}
		runes := []rune(text)
		i := skipIndent(runes)
		if i+1 < len(runes) && runes[i+1] == ' ' && (unicode.IsPunct(runes[i]) || unicode.IsSymbol(runes[i])) {
			return i + 2
		}
	}
	return 0
}

func skipIndent(runes []rune) int {
	i := 0
	for i < len(runes) && (runes[i] == ' ' || runes[i] == '\t') {
		i++
	}
	return i
}
