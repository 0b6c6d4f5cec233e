package document

import (
	"errors"
	"log/slog"
	"maps"
	"path/filepath"
	"strings"

	"wordimp/pkg/wpdoc"
)

var ErrNoPath = errors.New("document: no file path")

type Metadata struct {
	Path     string
	Modified bool
}

// Controller owns the metadata and paragraph styles of the one open
// document. The text itself lives in the caller's buffer.
type Controller struct {
	meta   Metadata
	styles *StyleStore
	logger *slog.Logger
}

type Option func(*Controller)

func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

func NewController(opts ...Option) *Controller {
	c := &Controller{styles: NewStyleStore(), logger: slog.Default()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Controller) Metadata() Metadata {
	return c.meta
}

func (c *Controller) Path() string {
	return c.meta.Path
}

func (c *Controller) Modified() bool {
	return c.meta.Modified
}

func (c *Controller) MarkModified() {
	c.meta.Modified = true
}

func (c *Controller) MarkClean() {
	c.meta.Modified = false
}

// NewDocument discards the current document state and returns an empty
// document.
func (c *Controller) NewDocument() *wpdoc.Document {
	c.reset()
	return wpdoc.NewDocument("")
}

// Open loads path. Nothing changes unless the load succeeds.
func (c *Controller) Open(path string) (*wpdoc.Document, error) {
	doc, report, err := wpdoc.Load(path)
	if err != nil {
		return nil, err
	}
	if report.SidecarErr != nil {
		c.logger.Warn("ignoring unreadable paragraph styles", "path", path, "err", report.SidecarErr)
	}

	c.styles.Replace(doc.Styles)
	c.meta = Metadata{Path: path}
	c.logger.Info("opened document", "path", path, "format", report.Format, "paragraphs", len(doc.Paragraphs), "styles", c.styles.Len())
	return doc, nil
}

// Save writes doc to path, or to the current path when path is empty. The
// stored paragraph styles replace doc.Styles.
func (c *Controller) Save(doc *wpdoc.Document, path string) (*wpdoc.SaveReport, error) {
	if path == "" {
		path = c.meta.Path
	}
	if path == "" {
		return nil, ErrNoPath
	}
	out := wpdoc.CloneDocument(doc)
	out.Styles = c.styles.Snapshot()

	report, err := wpdoc.Save(path, out)
	if err != nil {
		return nil, err
	}
	if len(report.Dropped) > 0 {
		c.logger.Warn("save dropped formatting", "path", path, "format", report.Format, "dropped", strings.Join(report.Dropped, ", "))
	}
	c.meta = Metadata{Path: path}
	c.logger.Info("saved document", "path", path, "format", report.Format, "sidecar", report.Sidecar)
	return report, nil
}

func (c *Controller) RecordParagraphStyle(index int, style wpdoc.ParagraphStyle) error {
	if err := c.styles.Set(index, style); err != nil {
		return err
	}
	c.meta.Modified = true
	return nil
}

func (c *Controller) ParagraphStyle(index int) (wpdoc.ParagraphStyle, bool) {
	return c.styles.Get(index)
}

func (c *Controller) ParagraphStyles() wpdoc.ParagraphStyles {
	return c.styles.Snapshot()
}

func (c *Controller) ClearParagraphStyles() {
	if c.styles.Len() > 0 {
		c.meta.Modified = true
	}
	c.styles.Clear()
}

// ReplaceParagraphStyles swaps the whole mapping and marks the document
// modified when it changed.
func (c *Controller) ReplaceParagraphStyles(styles wpdoc.ParagraphStyles) {
	before := c.styles.Snapshot()
	c.styles.Replace(styles)
	if !maps.Equal(before, c.styles.styles) {
		c.meta.Modified = true
	}
}

func (c *Controller) Title() string {
	if c.meta.Path == "" {
		return "Untitled"
	}
	return filepath.Base(c.meta.Path)
}

func (c *Controller) Close() {
	c.reset()
}

func (c *Controller) reset() {
	c.meta = Metadata{}
	c.styles.Clear()
}

// SupportedFormats lists the extensions Open and Save accept.
func SupportedFormats() []string {
	return wpdoc.SupportedExtensions()
}

// FileType is a file dialog filter entry.
type FileType struct {
	Label   string
	Pattern string
}

var supportedFileTypes = []FileType{
	{Label: "Rich Text Format", Pattern: "*.rtf"},
	{Label: "Plain Text", Pattern: "*.txt"},
	{Label: "Word Document", Pattern: "*.docx"},
}

func SupportedFileTypes() []FileType {
	return append([]FileType(nil), supportedFileTypes...)
}
