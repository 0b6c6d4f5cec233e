package wpdoc

import (
	"fmt"
	"strconv"
	"strings"
)

type Alignment uint8

const (
	AlignLeft Alignment = iota
	AlignCenter
	AlignRight
	AlignJustify
)

var alignmentNames = [...]string{"left", "center", "right", "justify"}

func (a Alignment) Valid() bool {
	return int(a) < len(alignmentNames)
}

func (a Alignment) String() string {
	if !a.Valid() {
		return fmt.Sprintf("Alignment(%d)", uint8(a))
	}
	return alignmentNames[a]
}

// Next cycles left, center, right, justify and back to left.
func (a Alignment) Next() Alignment {
	if !a.Valid() {
		return AlignLeft
	}
	return (a + 1) % Alignment(len(alignmentNames))
}

func ParseAlignment(s string) (Alignment, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	for i, name := range alignmentNames {
		if key == name {
			return Alignment(i), nil
		}
	}
	return AlignLeft, fmt.Errorf("%w: alignment %q", ErrInvalidValue, s)
}

func (a Alignment) MarshalText() ([]byte, error) {
	if !a.Valid() {
		return nil, fmt.Errorf("%w: alignment %d", ErrInvalidValue, uint8(a))
	}
	return []byte(a.String()), nil
}

func (a *Alignment) UnmarshalText(b []byte) error {
	v, err := ParseAlignment(string(b))
	if err != nil {
		return err
	}
	*a = v
	return nil
}

type ListType uint8

const (
	ListNone ListType = iota
	ListBullet
	ListNumbered
)

var listNames = [...]string{"none", "bullet", "numbered"}

func (l ListType) Valid() bool {
	return int(l) < len(listNames)
}

func (l ListType) String() string {
	if !l.Valid() {
		return fmt.Sprintf("ListType(%d)", uint8(l))
	}
	return listNames[l]
}

func ParseListType(s string) (ListType, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	for i, name := range listNames {
		if key == name {
			return ListType(i), nil
		}
	}
	return ListNone, fmt.Errorf("%w: list type %q", ErrInvalidValue, s)
}

func (l ListType) MarshalText() ([]byte, error) {
	if !l.Valid() {
		return nil, fmt.Errorf("%w: list type %d", ErrInvalidValue, uint8(l))
	}
	return []byte(l.String()), nil
}

func (l *ListType) UnmarshalText(b []byte) error {
	v, err := ParseListType(string(b))
	if err != nil {
		return err
	}
	*l = v
	return nil
}

type Colour struct {
	R, G, B uint8
}

var (
	Black = Colour{}
	White = Colour{R: 0xff, G: 0xff, B: 0xff}
)

func (c Colour) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func (c Colour) String() string {
	return c.Hex()
}

// RGBA packs the colour as 0xRRGGBBFF.
func (c Colour) RGBA() uint32 {
	return uint32(c.R)<<24 | uint32(c.G)<<16 | uint32(c.B)<<8 | 0xff
}

// ParseColour accepts "#rgb", "#rrggbb" (the hash is optional) and
// "r,g,b" or "rgb(r, g, b)" with decimal components.
func ParseColour(s string) (Colour, error) {
	raw := strings.ToLower(strings.TrimSpace(s))
	if raw == "" {
		return Colour{}, fmt.Errorf("%w: empty colour", ErrInvalidValue)
	}
	if strings.HasPrefix(raw, "rgb(") && strings.HasSuffix(raw, ")") {
		raw = raw[4 : len(raw)-1]
	}
	if strings.Contains(raw, ",") {
		parts := strings.Split(raw, ",")
		if len(parts) != 3 {
			return Colour{}, fmt.Errorf("%w: colour %q", ErrInvalidValue, s)
		}
		var out [3]uint8
		for i, p := range parts {
			n, err := strconv.ParseUint(strings.TrimSpace(p), 10, 8)
			if err != nil {
				return Colour{}, fmt.Errorf("%w: colour %q", ErrInvalidValue, s)
			}
			out[i] = uint8(n)
		}
		return Colour{R: out[0], G: out[1], B: out[2]}, nil
	}

	hex := strings.TrimPrefix(raw, "#")
	switch len(hex) {
	case 3:
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	case 6:
	default:
		return Colour{}, fmt.Errorf("%w: colour %q", ErrInvalidValue, s)
	}
	n, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Colour{}, fmt.Errorf("%w: colour %q", ErrInvalidValue, s)
	}
	return Colour{R: uint8(n >> 16), G: uint8(n >> 8), B: uint8(n)}, nil
}

func (c Colour) MarshalText() ([]byte, error) {
	return []byte(c.Hex()), nil
}

func (c *Colour) UnmarshalText(b []byte) error {
	v, err := ParseColour(string(b))
	if err != nil {
		return err
	}
	*c = v
	return nil
}
