package parser

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Registry maps file extensions to adapters (spec §6: "the core exposes a
// registry mapping file extension → adapter").
type Registry struct {
	byExt map[string]Parser
}

func NewRegistry() *Registry {
	return &Registry{byExt: make(map[string]Parser)}
}

// Register claims an extension for an adapter. Adding a language means
// calling this once per extension it handles.
func (r *Registry) Register(ext string, p Parser) {
	r.byExt[strings.ToLower(ext)] = p
}

// ForPath returns the adapter registered for a file's extension, or nil.
func (r *Registry) ForPath(path string) Parser {
	ext := strings.ToLower(filepath.Ext(path))
	return r.byExt[ext]
}

// ParseFile dispatches to the matching adapter by extension.
func (r *Registry) ParseFile(input FileInput) (*ParsedFile, error) {
	p := r.ForPath(input.RelativePath)
	if p == nil {
		return nil, fmt.Errorf("no adapter registered for: %s", input.RelativePath)
	}
	return p.Parse(input)
}

// Extensions returns every registered extension.
func (r *Registry) Extensions() []string {
	exts := make([]string, 0, len(r.byExt))
	for ext := range r.byExt {
		exts = append(exts, ext)
	}
	return exts
}
