package wpdoc

import "testing"

func TestListPrefixLen(t *testing.T) {
	cases := map[string]int{
		"• x":     2,
		"  - x":   4,
		"12. x":   4,
		"7) x":    3,
		"x":       0,
		"12 x":    0,
		"-x":      0,
		"":        0,
		"   ":     0,
		"\t* two": 3,
	}
	for line, want := range cases {
		if got := ListPrefixLen(line); got != want {
			t.Fatalf("ListPrefixLen(%q): got %d want %d", line, got, want)
		}
	}
}

func TestMarkerLenFollowsListType(t *testing.T) {
	cases := []struct {
		text string
		list ListType
		want int
	}{
		{"    • apples", ListBullet, 6},
		{"→ custom", ListBullet, 2},
		{"3. pears", ListBullet, 3},
		{"3. pears", ListNumbered, 3},
		{"• pears", ListNumbered, 0},
		{"• pears", ListNone, 0},
		{"ab pears", ListBullet, 0},
		{"plain", ListBullet, 0},
	}
	for _, tc := range cases {
		if got := MarkerLen(tc.text, tc.list); got != tc.want {
			t.Fatalf("MarkerLen(%q, %v): got %d want %d", tc.text, tc.list, got, tc.want)
		}
	}
}
