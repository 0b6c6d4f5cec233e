package insertion

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
)

var ErrUnknownHandler = errors.New("insertion: unknown handler")

// Handler produces the text token to insert. The token is plain text.
type Handler func(args ...string) (string, error)

type Registry struct {
	handlers map[string]Handler
	order    []string
}

func NewRegistry() *Registry {
	return &Registry{handlers: map[string]Handler{}}
}

// Register binds label to h. A second registration replaces the handler and
// keeps the label's original position.
func (r *Registry) Register(label string, h Handler) error {
	label = strings.TrimSpace(label)
	if label == "" {
		return errors.New("insertion: empty label")
	}
	if h == nil {
		return fmt.Errorf("insertion: nil handler for %q", label)
	}
	if _, ok := r.handlers[label]; !ok {
		r.order = append(r.order, label)
	}
	r.handlers[label] = h
	return nil
}

func (r *Registry) Unregister(label string) bool {
	if _, ok := r.handlers[label]; !ok {
		return false
	}
	delete(r.handlers, label)
	for i, l := range r.order {
		if l == label {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true
}

func (r *Registry) Labels() []string {
	return append([]string(nil), r.order...)
}

func (r *Registry) Insert(label string, args ...string) (string, error) {
	h, ok := r.handlers[strings.TrimSpace(label)]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownHandler, label)
	}
	out, err := h(args...)
	if err != nil {
		return "", fmt.Errorf("insert %s: %w", label, err)
	}
	return out, nil
}

const (
	DefaultDateLayout = "2006-01-02"
	DefaultTimeLayout = "15:04"
	ruleWidth         = 40
)

// Builtins returns a registry holding the date, time, rule and clipboard
// handlers. now is the clock used by date and time.
func Builtins(now func() time.Time) *Registry {
	if now == nil {
		now = time.Now
	}
	r := NewRegistry()
	_ = r.Register("date", layoutHandler(now, DefaultDateLayout))
	_ = r.Register("time", layoutHandler(now, DefaultTimeLayout))
	_ = r.Register("rule", Rule)
	_ = r.Register("clipboard", Clipboard)
	return r
}

func layoutHandler(now func() time.Time, layout string) Handler {
	return func(args ...string) (string, error) {
		l := layout
		if len(args) > 0 && strings.TrimSpace(args[0]) != "" {
			l = args[0]
		}
		return now().Format(l), nil
	}
}

// Rule returns a horizontal rule. An optional first argument sets the
// glyph, a second the width.
func Rule(args ...string) (string, error) {
	glyph, width := "─", ruleWidth
	if len(args) > 0 && args[0] != "" {
		glyph = args[0]
	}
	if len(args) > 1 {
		var n int
		if _, err := fmt.Sscan(args[1], &n); err != nil || n <= 0 {
			return "", fmt.Errorf("invalid rule width %q", args[1])
		}
		width = n
	}
	return strings.Repeat(glyph, width), nil
}

// Clipboard returns the system clipboard text with newlines normalized.
func Clipboard(...string) (string, error) {
	if clipboard.Unsupported {
		return "", errors.New("clipboard is not available on this system")
	}
	text, err := clipboard.ReadAll()
	if err != nil {
		return "", err
	}
	return strings.NewReplacer("\r\n", "\n", "\r", "\n").Replace(text), nil
}
