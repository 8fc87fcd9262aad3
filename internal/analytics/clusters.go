package analytics

import (
	"math/rand/v2"

	"github.com/depgraph-dev/depgraph/internal/graph"
)

const (
	maxLabelPropIterations = 20
	clusterMinSize         = 3
)

// ClusterAssignment maps each symbol id to a cluster id; 0 means
// unclustered (the symbol's community fell below clusterMinSize).
type ClusterAssignment map[string]int

// ClusterSizes maps a cluster id to its member count.
type ClusterSizes map[int]int

// ComputeClusters runs label propagation community detection over g's
// undirected adjacency (spec's optional module-grouping analytics),
// grounded on the teacher's Postgres-edge-list implementation, adapted to
// walk the in-memory Graph directly.
func ComputeClusters(g *graph.Graph) (ClusterAssignment, ClusterSizes) {
	symbols := g.Symbols()
	if len(symbols) == 0 {
		return ClusterAssignment{}, ClusterSizes{}
	}

	neighbors := make(map[string][]string)
	for _, e := range g.Edges() {
		neighbors[e.Source] = append(neighbors[e.Source], e.Target)
		neighbors[e.Target] = append(neighbors[e.Target], e.Source)
	}

	nodeIndex := make(map[string]int, len(symbols))
	labels := make([]int, len(symbols))
	for i, s := range symbols {
		nodeIndex[s.ID] = i
		labels[i] = i
	}

	order := make([]int, len(symbols))
	for i := range order {
		order[i] = i
	}

	for iter := 0; iter < maxLabelPropIterations; iter++ {
		changed := false
		rand.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })

		for _, idx := range order {
			nbrs := neighbors[symbols[idx].ID]
			if len(nbrs) == 0 {
				continue
			}

			labelCounts := make(map[int]int)
			for _, nbr := range nbrs {
				if nbrIdx, ok := nodeIndex[nbr]; ok {
					labelCounts[labels[nbrIdx]]++
				}
			}

			bestLabel := labels[idx]
			bestCount := 0
			for label, count := range labelCounts {
				if count > bestCount || (count == bestCount && label < bestLabel) {
					bestLabel = label
					bestCount = count
				}
			}

			if labels[idx] != bestLabel {
				labels[idx] = bestLabel
				changed = true
			}
		}

		if !changed {
			break
		}
	}

	clusterSizes := make(map[int]int)
	for _, label := range labels {
		clusterSizes[label]++
	}

	labelToCluster := make(map[int]int)
	sizes := ClusterSizes{}
	nextCluster := 1
	for label, size := range clusterSizes {
		if size >= clusterMinSize {
			labelToCluster[label] = nextCluster
			sizes[nextCluster] = size
			nextCluster++
		}
	}

	assignment := make(ClusterAssignment, len(symbols))
	for i, s := range symbols {
		if clusterID, ok := labelToCluster[labels[i]]; ok {
			assignment[s.ID] = clusterID
		} else {
			assignment[s.ID] = 0
		}
	}

	return assignment, sizes
}
