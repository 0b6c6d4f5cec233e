package wpdoc

import (
	"errors"
	"testing"
)

func TestParseColourForms(t *testing.T) {
	cases := []struct {
		in   string
		want Colour
	}{
		{"#ff8000", Colour{R: 0xff, G: 0x80}},
		{"FF8000", Colour{R: 0xff, G: 0x80}},
		{"#f80", Colour{R: 0xff, G: 0x88}},
		{"12, 34, 56", Colour{R: 12, G: 34, B: 56}},
		{"rgb(1,2,3)", Colour{R: 1, G: 2, B: 3}},
	}
	for _, tc := range cases {
		got, err := ParseColour(tc.in)
		if err != nil {
			t.Fatalf("ParseColour(%q) failed: %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("ParseColour(%q): got %v want %v", tc.in, got, tc.want)
		}
	}
	for _, bad := range []string{"", "#12", "#gggggg", "1,2", "256,0,0", "blue"} {
		if _, err := ParseColour(bad); !errors.Is(err, ErrInvalidValue) {
			t.Fatalf("ParseColour(%q): expected ErrInvalidValue, got %v", bad, err)
		}
	}
}

func TestColourHex(t *testing.T) {
	if got := (Colour{R: 1, G: 0xab, B: 0xff}).Hex(); got != "#01abff" {
		t.Fatalf("got %q", got)
	}
}

func TestParseAlignmentIsCaseInsensitive(t *testing.T) {
	got, err := ParseAlignment("  JuStIfY ")
	if err != nil || got != AlignJustify {
		t.Fatalf("got %v, %v", got, err)
	}
	if _, err := ParseAlignment("middle"); !errors.Is(err, ErrInvalidValue) {
		t.Fatalf("expected ErrInvalidValue, got %v", err)
	}
}

func TestAlignmentCycle(t *testing.T) {
	a := AlignLeft
	var seen []string
	for i := 0; i < 5; i++ {
		a = a.Next()
		seen = append(seen, a.String())
	}
	want := []string{"center", "right", "justify", "left", "center"}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("cycle step %d: got %q want %q", i, seen[i], want[i])
		}
	}
}

func TestListTypeText(t *testing.T) {
	var l ListType
	if err := l.UnmarshalText([]byte("Numbered")); err != nil || l != ListNumbered {
		t.Fatalf("got %v, %v", l, err)
	}
	if _, err := ListType(9).MarshalText(); !errors.Is(err, ErrInvalidValue) {
		t.Fatalf("expected ErrInvalidValue, got %v", err)
	}
}
