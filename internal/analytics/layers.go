// Package analytics runs graph-shape analyses over a built graph.Graph:
// architectural layer classification and community clustering. Grounded on
// the teacher's internal/analytics, adapted from Postgres-row inputs to the
// in-memory Graph/Symbol model — these are read-only queries over a graph
// value, not a database-backed job.
package analytics

import (
	"strings"

	"github.com/depgraph-dev/depgraph/internal/graph"
	"github.com/depgraph-dev/depgraph/pkg/models"
)

type Layer string

const (
	LayerData           Layer = "data"
	LayerBusiness        Layer = "business"
	LayerAPI             Layer = "api"
	LayerInfrastructure  Layer = "infrastructure"
	LayerCrossCutting    Layer = "cross-cutting"
	LayerUnknown         Layer = "unknown"
)

var dataNamespacePatterns = []string{
	"repository", "repositories", "dal", "data", "dao",
	"persistence", "storage", "database", "db", "store",
}

var businessNamespacePatterns = []string{
	"service", "services", "domain", "core", "business",
	"usecase", "usecases", "logic", "engine", "manager",
}

var apiNamespacePatterns = []string{
	"controller", "controllers", "handler", "handlers",
	"api", "endpoint", "endpoints", "rest",
	"route", "routes", "web",
}

var infraNamespacePatterns = []string{
	"config", "configuration", "startup", "infrastructure",
	"infra", "bootstrap", "setup", "middleware", "filter",
	"interceptor", "logging", "monitoring",
}

// LayerCounts tallies how many symbols landed in each architectural layer.
type LayerCounts map[Layer]int

// ClassifyLayers assigns every symbol in g to an architectural layer by its
// file path and kind, and returns the distribution across the whole graph.
func ClassifyLayers(g *graph.Graph) (map[string]Layer, LayerCounts) {
	assignments := make(map[string]Layer)
	counts := LayerCounts{}

	for _, sym := range g.Symbols() {
		layer := classifyLayer(sym)
		assignments[sym.ID] = layer
		counts[layer]++
	}
	return assignments, counts
}

func classifyLayer(sym models.Symbol) Layer {
	path := strings.ToLower(sym.FilePath)

	if matchesAnyPattern(path, apiNamespacePatterns) {
		return LayerAPI
	}
	if matchesAnyPattern(path, dataNamespacePatterns) {
		return LayerData
	}
	if matchesAnyPattern(path, businessNamespacePatterns) {
		return LayerBusiness
	}
	if matchesAnyPattern(path, infraNamespacePatterns) {
		return LayerInfrastructure
	}

	switch sym.Kind {
	case models.SymbolKindInterface, models.SymbolKindEnum, models.SymbolKindConstant:
		return LayerCrossCutting
	}

	return LayerUnknown
}

func matchesAnyPattern(path string, patterns []string) bool {
	for _, segment := range splitPath(path) {
		for _, pattern := range patterns {
			if segment == pattern {
				return true
			}
		}
	}
	return false
}

func splitPath(path string) []string {
	var segments []string
	current := strings.Builder{}
	for _, r := range path {
		switch r {
		case '.', '/', '\\':
			if current.Len() > 0 {
				segments = append(segments, current.String())
				current.Reset()
			}
		default:
			current.WriteRune(r)
		}
	}
	if current.Len() > 0 {
		segments = append(segments, current.String())
	}
	return segments
}
