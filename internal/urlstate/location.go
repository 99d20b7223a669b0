// Package urlstate bridges planner state and the planner URL. The URL is
// held by an injected Location, so the same adapter drives a file-backed
// address in the terminal app and an in-memory fake in tests.
//
// The URL carries three independent parts:
//   - path: the first segment is the Monday of the displayed week
//   - query: display preferences (dateFormat, headingLevel, weekends)
//   - fragment: the encoded items map
//
// Writers of one part never touch the others.
package urlstate

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Location is the addressable state container: the current href and a way
// to replace it in place (no history entry, no reload).
type Location interface {
	Href() (string, error)
	Replace(href string) error
}

// MemoryLocation is an in-memory Location. It never records history; it only
// counts in-place replacements.
type MemoryLocation struct {
	href         string
	replacements int
}

// NewMemoryLocation creates a MemoryLocation starting at href.
func NewMemoryLocation(href string) *MemoryLocation {
	return &MemoryLocation{href: href}
}

// Href returns the current href.
func (l *MemoryLocation) Href() (string, error) {
	return l.href, nil
}

// Replace swaps the current href.
func (l *MemoryLocation) Replace(href string) error {
	l.href = href
	l.replacements++
	return nil
}

// Replacements returns how many times Replace has been called.
func (l *MemoryLocation) Replacements() int {
	return l.replacements
}

// FileLocation keeps the current href in a single file so the planner URL
// survives between runs. A missing file reads as the fallback href.
type FileLocation struct {
	path     string
	fallback string
}

// NewFileLocation creates a FileLocation stored at path.
func NewFileLocation(path, fallback string) *FileLocation {
	return &FileLocation{path: path, fallback: fallback}
}

// Path returns the file backing this location.
func (l *FileLocation) Path() string {
	return l.path
}

// Href reads the stored href.
func (l *FileLocation) Href() (string, error) {
	b, err := os.ReadFile(l.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return l.fallback, nil
		}
		return "", fmt.Errorf("read location: %w", err)
	}
	href := strings.TrimSpace(string(b))
	if href == "" {
		return l.fallback, nil
	}
	return href, nil
}

// Replace writes href to a temporary file and renames it over the old one,
// so readers only ever see a complete href.
func (l *FileLocation) Replace(href string) error {
	dir := filepath.Dir(l.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".location-*")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.WriteString(href + "\n"); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write location: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close location: %w", err)
	}
	if err := os.Rename(tmpName, l.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename location: %w", err)
	}
	return nil
}

// SplitFragment splits href at the first '#'.
func SplitFragment(href string) (base, fragment string) {
	i := strings.IndexByte(href, '#')
	if i < 0 {
		return href, ""
	}
	return href[:i], href[i+1:]
}

// WithFragment returns href with its fragment replaced. Everything before the
// '#' is kept byte for byte. An empty fragment removes the '#'.
func WithFragment(href, fragment string) string {
	base, _ := SplitFragment(href)
	if fragment == "" {
		return base
	}
	return base + "#" + fragment
}
