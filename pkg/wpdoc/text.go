package wpdoc

import (
	"bytes"
	"fmt"
	"unicode/utf8"
)

var utf8BOM = []byte{0xef, 0xbb, 0xbf}

type textCodec struct{}

func (textCodec) Name() string         { return "txt" }
func (textCodec) Extensions() []string { return []string{".txt"} }
func (textCodec) Native() Capabilities { return Capabilities{} }

func (textCodec) Encode(doc *Document) ([]byte, error) {
	return []byte(doc.Text()), nil
}

func (textCodec) Decode(b []byte) (*Document, error) {
	b = bytes.TrimPrefix(b, utf8BOM)
	if !utf8.Valid(b) {
		return nil, fmt.Errorf("%w: text is not valid UTF-8", ErrMalformed)
	}
	return NewDocument(string(b)), nil
}

func init() {
	RegisterCodec(textCodec{})
}
