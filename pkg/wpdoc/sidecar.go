package wpdoc

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"strconv"
	"strings"
)

const sidecarVersion = 1

type sidecarFile struct {
	Version    int            `json:"version"`
	Format     string         `json:"format,omitempty"`
	Paragraphs []sidecarEntry `json:"paragraphs"`
}

type sidecarEntry struct {
	Index     int    `json:"paragraph_index"`
	Alignment string `json:"alignment"`
	Indent    int    `json:"indent_level"`
	List      string `json:"list_type"`
}

// rawSidecarEntry is decoded loosely so one bad field does not discard the
// whole file.
type rawSidecarEntry struct {
	Index     any `json:"paragraph_index"`
	Alignment any `json:"alignment"`
	Indent    any `json:"indent_level"`
	List      any `json:"list_type"`
}

func encodeSidecar(format string, styles ParagraphStyles) ([]byte, error) {
	out := sidecarFile{Version: sidecarVersion, Format: format, Paragraphs: make([]sidecarEntry, 0, len(styles))}
	for _, idx := range styles.Indices() {
		st := styles[idx].Coerce()
		out.Paragraphs = append(out.Paragraphs, sidecarEntry{
			Index:     idx,
			Alignment: st.Alignment.String(),
			Indent:    st.Indent,
			List:      st.List.String(),
		})
	}
	b, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(b, '\n'), nil
}

// readSidecar reports found=false without error when the file is absent.
func readSidecar(path string) (ParagraphStyles, bool, error) {
	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return ParagraphStyles{}, false, nil
	}
	if err != nil {
		return ParagraphStyles{}, false, err
	}
	styles, err := decodeSidecar(b)
	if err != nil {
		return ParagraphStyles{}, false, err
	}
	return styles, true, nil
}

func decodeSidecar(b []byte) (ParagraphStyles, error) {
	trimmed := bytes.TrimSpace(b)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("%w: empty file", ErrCorruptSidecar)
	}

	var entries []rawSidecarEntry
	switch trimmed[0] {
	case '[':
		if err := json.Unmarshal(trimmed, &entries); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorruptSidecar, err)
		}
	case '{':
		var wrapper struct {
			Version    int               `json:"version"`
			Paragraphs []rawSidecarEntry `json:"paragraphs"`
		}
		if err := json.Unmarshal(trimmed, &wrapper); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorruptSidecar, err)
		}
		if wrapper.Version > sidecarVersion {
			return nil, fmt.Errorf("%w: unsupported version %d", ErrCorruptSidecar, wrapper.Version)
		}
		entries = wrapper.Paragraphs
	default:
		return nil, fmt.Errorf("%w: not a JSON object", ErrCorruptSidecar)
	}

	styles := ParagraphStyles{}
	for _, e := range entries {
		idx, ok := coerceInt(e.Index)
		if !ok || idx < 0 {
			continue
		}
		st := DefaultParagraphStyle()
		if s, ok := e.Alignment.(string); ok {
			if a, err := ParseAlignment(s); err == nil {
				st.Alignment = a
			}
		}
		if s, ok := e.List.(string); ok {
			if l, err := ParseListType(s); err == nil {
				st.List = l
			}
		}
		if n, ok := coerceInt(e.Indent); ok {
			st.Indent = n
		}
		styles[idx] = st.Coerce()
	}
	return styles, nil
}

func coerceInt(v any) (int, bool) {
	switch n := v.(type) {
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) || n != math.Trunc(n) {
			return 0, false
		}
		return int(n), true
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return 0, false
		}
		return i, true
	default:
		return 0, false
	}
}
