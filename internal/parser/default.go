package parser

import (
	"github.com/depgraph-dev/depgraph/internal/parser/golang"
	"github.com/depgraph-dev/depgraph/internal/parser/python"
	"github.com/depgraph-dev/depgraph/internal/parser/typescript"
)

// DefaultRegistry wires every adapter depgraph ships (spec's minimum
// three-language archetype set) into one Registry, each claiming every
// extension it reports via Extensions().
func DefaultRegistry() *Registry {
	r := NewRegistry()

	for _, p := range []Parser{typescript.NewJS(), typescript.NewTS(), python.New(), golang.New()} {
		for _, ext := range p.Extensions() {
			r.Register(ext, p)
		}
	}

	return r
}
