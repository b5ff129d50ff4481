package retrieval

import (
	"sort"

	"github.com/biokg/retriever/core/pcst"
	"github.com/biokg/retriever/model"
)

// Assemble turns the solver's selection into the final subgraph. Every
// resolved seed is included even when the solver left it isolated, parallel
// edges between the same node pair collapse to the highest-prize one, and
// nodes and edges are emitted in descending prize order with ascending id as
// the tie-break so equal inputs always serialize identically.
func Assemble(graph *model.CandidateGraph, solved *pcst.Result) *model.RetrievedSubgraph {
	selected := make(map[string]bool, len(solved.Nodes))
	for _, id := range solved.Nodes {
		selected[id] = true
	}

	components := solved.Components
	for _, seed := range graph.Seeds {
		if !selected[seed] {
			// A seed the solver never saw joins as its own component.
			selected[seed] = true
			components++
		}
	}

	nodes := make([]model.Node, 0, len(selected))
	for id := range selected {
		nodes = append(nodes, graph.Nodes[id])
	}
	sort.Slice(nodes, func(i, j int) bool {
		if nodes[i].Prize != nodes[j].Prize {
			return nodes[i].Prize > nodes[j].Prize
		}
		return nodes[i].ID < nodes[j].ID
	})

	edges := dedupeParallelEdges(graph, solved.Edges)
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].Prize != edges[j].Prize {
			return edges[i].Prize > edges[j].Prize
		}
		return edges[i].ID() < edges[j].ID()
	})

	return &model.RetrievedSubgraph{
		Nodes:            nodes,
		Edges:            edges,
		Components:       components,
		BudgetInfeasible: solved.BudgetInfeasible,
	}
}

// dedupeParallelEdges keeps one edge per unordered node pair: the highest
// prize wins, ties resolve to the smaller edge id.
func dedupeParallelEdges(graph *model.CandidateGraph, edgeIDs []string) []model.Edge {
	best := make(map[string]model.Edge)
	for _, id := range edgeIDs {
		edge := graph.Edges[id]
		key := edge.PairKey()
		current, ok := best[key]
		if !ok || edge.Prize > current.Prize || (edge.Prize == current.Prize && edge.ID() < current.ID()) {
			best[key] = edge
		}
	}

	edges := make([]model.Edge, 0, len(best))
	for _, edge := range best {
		edges = append(edges, edge)
	}
	return edges
}
