package recent

import (
	"context"
	"crypto/md5"
	"encoding/json"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/peterbourgon/diskv/v3"
)

const collection = "documents"

// Entry is one recently opened or saved document.
type Entry struct {
	Path   string    `json:"path"`
	Format string    `json:"format,omitempty"`
	Action string    `json:"action,omitempty"`
	At     time.Time `json:"at"`
}

// Store persists the recent-documents list as one JSON file per path.
type Store struct {
	d   *diskv.Diskv
	max int
	now func() time.Time
}

func Open(dir string, max int) *Store {
	if max <= 0 {
		max = 10
	}
	return &Store{
		d: diskv.New(diskv.Options{
			BasePath:          dir,
			AdvancedTransform: keyToPathTransform,
			InverseTransform:  pathToKeyTransform,
			CacheSizeMax:      64 * 1024,
		}),
		max: max,
		now: time.Now,
	}
}

// Add records path as the most recent document and prunes the list to the
// configured size.
func (s *Store) Add(path, format, action string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	data, err := json.Marshal(Entry{Path: abs, Format: format, Action: action, At: s.now().UTC()})
	if err != nil {
		return err
	}
	if err := s.d.Write(toKey(abs), data); err != nil {
		return fmt.Errorf("recent: write %s: %w", abs, err)
	}
	return s.prune()
}

// List returns entries newest first, at most max of them.
func (s *Store) List(ctx context.Context) []Entry {
	all := s.all(ctx)
	if len(all) > s.max {
		all = all[:s.max]
	}
	return all
}

func (s *Store) Remove(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	key := toKey(abs)
	if !s.d.Has(key) {
		return nil
	}
	return s.d.Erase(key)
}

func (s *Store) Clear() error {
	return s.d.EraseAll()
}

func (s *Store) all(ctx context.Context) []Entry {
	var out []Entry
	for key := range s.d.Keys(ctx.Done()) {
		val, err := s.d.Read(key)
		if err != nil {
			continue
		}
		var e Entry
		if err := json.Unmarshal(val, &e); err != nil || e.Path == "" {
			continue
		}
		out = append(out, e)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].At.Equal(out[j].At) {
			return out[i].Path < out[j].Path
		}
		return out[i].At.After(out[j].At)
	})
	return out
}

func (s *Store) prune() error {
	all := s.all(context.Background())
	for _, e := range all[min(len(all), s.max):] {
		if err := s.d.Erase(toKey(e.Path)); err != nil {
			return err
		}
	}
	return nil
}

func keyToPathTransform(s string) *diskv.PathKey {
	parts := strings.Split(s, "-")
	return &diskv.PathKey{
		Path:     parts[:len(parts)-1],
		FileName: parts[len(parts)-1],
	}
}

func pathToKeyTransform(pathKey *diskv.PathKey) string {
	return fmt.Sprintf("%s-%s", strings.Join(pathKey.Path, "-"), pathKey.FileName)
}

// toKey makes `documents-<md5 of path>`
func toKey(path string) string {
	sum := md5.Sum([]byte(path))
	return fmt.Sprintf("%s-%x", collection, sum)
}
