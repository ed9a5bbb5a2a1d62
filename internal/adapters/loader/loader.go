// Package loader provides page-text providers for plain text policies and
// dispatch across providers by file extension.
package loader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/0xcro3dile/claimcheck-go/internal/domain/entities"
	"github.com/0xcro3dile/claimcheck-go/internal/domain/ports"
)

// TextLoader loads plain text policies (.txt, .md). A form feed starts a new page.
type TextLoader struct{}

// NewTextLoader creates a new text document loader.
func NewTextLoader() *TextLoader {
	return &TextLoader{}
}

// Load reads a text document from the given path.
func (l *TextLoader) Load(ctx context.Context, path string) ([]entities.PageText, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return entities.SplitPages(strings.ReplaceAll(string(content), "\r\n", "\n")), nil
}

// SupportedExtensions returns file extensions this loader handles.
func (l *TextLoader) SupportedExtensions() []string {
	return []string{".txt", ".md", ".markdown"}
}

// MultiLoader combines multiple providers.
type MultiLoader struct {
	providers map[string]ports.PageTextProvider
}

// NewMultiLoader creates a loader that dispatches on each provider's extensions.
// Later providers win when extensions overlap.
func NewMultiLoader(providers ...ports.PageTextProvider) *MultiLoader {
	m := &MultiLoader{providers: make(map[string]ports.PageTextProvider)}
	for _, p := range providers {
		for _, ext := range p.SupportedExtensions() {
			m.providers[strings.ToLower(ext)] = p
		}
	}
	return m
}

// Load dispatches to the appropriate provider based on extension.
func (m *MultiLoader) Load(ctx context.Context, path string) ([]entities.PageText, error) {
	ext := strings.ToLower(filepath.Ext(path))
	p, ok := m.providers[ext]
	if !ok {
		return nil, fmt.Errorf("unsupported document type %q", ext)
	}
	return p.Load(ctx, path)
}

// SupportedExtensions returns all supported extensions, sorted.
func (m *MultiLoader) SupportedExtensions() []string {
	exts := make([]string, 0, len(m.providers))
	for ext := range m.providers {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}
