package wpdoc

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// Capabilities lists what a format stores natively. Paragraph properties a
// format cannot hold go to the style sidecar; inline runs it cannot hold are
// reported as dropped.
type Capabilities struct {
	Inline    bool
	Alignment bool
	Indent    bool
	List      bool
}

func (c Capabilities) NeedsSidecar() bool {
	return !(c.Alignment && c.Indent && c.List)
}

type Codec interface {
	Name() string
	Extensions() []string
	Native() Capabilities
	Encode(doc *Document) ([]byte, error)
	Decode(b []byte) (*Document, error)
}

// FileError records the operation, the file and the cause of a failed load
// or save.
type FileError struct {
	Op   string
	Path string
	Err  error
}

func (e *FileError) Error() string {
	return e.Op + " " + e.Path + ": " + e.Err.Error()
}

func (e *FileError) Unwrap() error {
	return e.Err
}

type SaveReport struct {
	Path           string
	Format         string
	Sidecar        string
	SidecarRemoved bool
	Dropped        []string
}

type LoadReport struct {
	Path       string
	Format     string
	Sidecar    string
	SidecarErr error
}

var knownExtensions = map[string]string{
	".txt":  "",
	".rtf":  "",
	".docx": "wordimp/pkg/wpdoc/docx",
}

var (
	codecsMu sync.RWMutex
	codecs   = map[string]Codec{}
)

// RegisterCodec makes a codec available for its extensions. Registering an
// extension twice replaces the earlier codec.
func RegisterCodec(c Codec) {
	codecsMu.Lock()
	defer codecsMu.Unlock()
	for _, ext := range c.Extensions() {
		codecs[strings.ToLower(ext)] = c
	}
}

// SupportedExtensions returns every extension the engine recognizes, linked
// in or not.
func SupportedExtensions() []string {
	out := make([]string, 0, len(knownExtensions))
	for ext := range knownExtensions {
		out = append(out, ext)
	}
	sort.Strings(out)
	return out
}

func Registered() []Codec {
	codecsMu.RLock()
	defer codecsMu.RUnlock()
	seen := map[string]bool{}
	out := make([]Codec, 0, len(codecs))
	for _, c := range codecs {
		if seen[c.Name()] {
			continue
		}
		seen[c.Name()] = true
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}

// CodecFor resolves the codec for path from its extension. It never touches
// the file system.
func CodecFor(path string) (Codec, error) {
	ext := strings.ToLower(filepath.Ext(path))
	pkg, known := knownExtensions[ext]
	if !known {
		if ext == "" {
			ext = "(none)"
		}
		return nil, &FileError{Op: "resolve", Path: path, Err: fmt.Errorf("%w: extension %s", ErrUnsupportedFormat, ext)}
	}
	codecsMu.RLock()
	c, ok := codecs[ext]
	codecsMu.RUnlock()
	if !ok {
		return nil, &FileError{Op: "resolve", Path: path, Err: fmt.Errorf("%w: %s needs import _ %q", ErrMissingDependency, ext, pkg)}
	}
	return c, nil
}

func Save(path string, doc *Document) (*SaveReport, error) {
	codec, err := CodecFor(path)
	if err != nil {
		return nil, err
	}
	if err := Validate(doc); err != nil {
		return nil, &FileError{Op: "save", Path: path, Err: err}
	}
	work := CloneDocument(doc)
	work.Normalize()

	caps := codec.Native()
	report := &SaveReport{Path: path, Format: codec.Name()}
	if !caps.Inline && work.HasInlineStyles() {
		report.Dropped = append(report.Dropped, "inline formatting")
	}
	if !caps.NeedsSidecar() {
		for _, idx := range work.Styles.Indices() {
			if idx >= len(work.Paragraphs) {
				report.Dropped = append(report.Dropped, fmt.Sprintf("paragraph style %d (past last paragraph)", idx))
			}
		}
	}

	blob, err := codec.Encode(work)
	if err != nil {
		return nil, &FileError{Op: "encode", Path: path, Err: err}
	}
	if err := writeFileAtomic(path, blob); err != nil {
		return nil, &FileError{Op: "save", Path: path, Err: err}
	}

	if !caps.NeedsSidecar() {
		return report, nil
	}
	side := SidecarPath(path)
	if len(work.Styles) == 0 {
		err := os.Remove(side)
		switch {
		case err == nil:
			report.SidecarRemoved = true
		case !errors.Is(err, fs.ErrNotExist):
			return report, &FileError{Op: "remove sidecar", Path: side, Err: err}
		}
		return report, nil
	}
	sb, err := encodeSidecar(codec.Name(), work.Styles)
	if err != nil {
		return report, &FileError{Op: "encode sidecar", Path: side, Err: err}
	}
	if err := writeFileAtomic(side, sb); err != nil {
		return report, &FileError{Op: "save sidecar", Path: side, Err: err}
	}
	report.Sidecar = side
	return report, nil
}

// Load decodes path and merges its style sidecar when the format needs one.
// A damaged sidecar does not fail the load: the report carries the error and
// the document keeps only natively stored styles.
func Load(path string) (*Document, *LoadReport, error) {
	codec, err := CodecFor(path)
	if err != nil {
		return nil, nil, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, &FileError{Op: "open", Path: path, Err: err}
	}
	doc, err := codec.Decode(b)
	if err != nil {
		return nil, nil, &FileError{Op: "decode", Path: path, Err: err}
	}
	if doc.Styles == nil {
		doc.Styles = ParagraphStyles{}
	}

	report := &LoadReport{Path: path, Format: codec.Name()}
	if codec.Native().NeedsSidecar() {
		side := SidecarPath(path)
		styles, found, err := readSidecar(side)
		switch {
		case err != nil:
			report.SidecarErr = &FileError{Op: "load sidecar", Path: side, Err: err}
		case found:
			report.Sidecar = side
			for idx, st := range styles {
				doc.Styles[idx] = st
			}
		}
	}
	doc.Normalize()
	return doc, report, nil
}

// SidecarPath returns "<dir>/<stem>.styles<ext>" for "<dir>/<stem><ext>".
func SidecarPath(path string) string {
	dir, base := filepath.Split(path)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	return filepath.Join(dir, stem+".styles"+ext)
}

func writeFileAtomic(path string, blob []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, blob, 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}
