// Package solution resolves local solution files and prepares them for
// submission to the judge.
package solution

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Default markers delimiting the locally-scoped scaffolding block that must
// not be sent to the judge.
const (
	DefaultStartMarker = "// @ojpad editor-support start"
	DefaultEndMarker   = "// @ojpad editor-support end"
)

// Loader finds per-problem solution files under a configured directory.
type Loader struct {
	Dir         string
	Extensions  []string // priority order, e.g. ["go", "py", "cpp"]
	StartMarker string
	EndMarker   string
}

// NewLoader creates a loader with the default marker pair.
func NewLoader(dir string, extensions []string) *Loader {
	return &Loader{
		Dir:         dir,
		Extensions:  extensions,
		StartMarker: DefaultStartMarker,
		EndMarker:   DefaultEndMarker,
	}
}

// Load returns the submission-ready code for a problem slug, with the
// editor-support block stripped. A missing file yields "" rather than an
// error; callers decide whether empty code is fatal.
func (l *Loader) Load(slug string) (string, error) {
	path := l.Resolve(slug)
	if path == "" {
		return "", nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read solution file failed: %w", err)
	}
	return l.StripEditorSupport(string(data)), nil
}

// Resolve returns the path of the first {slug}.{ext} that exists across the
// extension priority list, or "" when none does.
func (l *Loader) Resolve(slug string) string {
	for _, ext := range l.Extensions {
		path := filepath.Join(l.Dir, slug+"."+ext)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}

// StripEditorSupport removes the first start-marker..end-marker region,
// markers included. When either marker is missing, or the end marker
// precedes the start, the input comes back unchanged. Idempotent.
func (l *Loader) StripEditorSupport(src string) string {
	start := l.StartMarker
	end := l.EndMarker
	if start == "" || end == "" {
		return src
	}
	startIdx := strings.Index(src, start)
	if startIdx < 0 {
		return src
	}
	rest := src[startIdx+len(start):]
	endIdx := strings.Index(rest, end)
	if endIdx < 0 {
		return src
	}
	after := rest[endIdx+len(end):]
	// Swallow one trailing newline left behind by the removed block.
	after = strings.TrimPrefix(after, "\n")
	return src[:startIdx] + after
}

// Generate writes a fresh solution file for a slug from a fetched code
// snippet, wrapping local scaffolding in the editor-support block. Refuses
// to overwrite an existing solution.
func (l *Loader) Generate(slug, ext, snippet string) (string, error) {
	if existing := l.Resolve(slug); existing != "" {
		return "", fmt.Errorf("solution file already exists: %s", existing)
	}
	if err := os.MkdirAll(l.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create solutions dir failed: %w", err)
	}
	path := filepath.Join(l.Dir, slug+"."+ext)

	var b strings.Builder
	b.WriteString(snippet)
	if !strings.HasSuffix(snippet, "\n") {
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(l.StartMarker)
	b.WriteString("\n")
	b.WriteString(l.EndMarker)
	b.WriteString("\n")

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return "", fmt.Errorf("write solution file failed: %w", err)
	}
	return path, nil
}
