package prize

import (
	"github.com/biokg/retriever/model"
)

// Assign computes a prize for every candidate node and edge and a traversal
// cost for every edge, annotating the graph in place. No structural change
// is made.
//
// Node prize is the weighted clamped cosine similarity to the question plus a
// seed bonus. Edge prize is the curated relation weight, optionally scaled by
// the mean prize of the endpoints to reward edges between already-valuable
// nodes. Edge cost is the configured constant, optionally scaled by the hop
// distance of the deeper endpoint.
//
// Fails with InvalidEmbeddingError if the question embedding or any node
// embedding is zero-norm or of mismatched dimension; nodes with no embedding
// at all get zero similarity instead.
func Assign(graph *model.CandidateGraph, question []float32, config *model.RetrievalConfig) error {
	if len(question) == 0 {
		return &model.InvalidEmbeddingError{Reason: "empty question embedding"}
	}

	for _, id := range graph.NodeIDs() {
		node := graph.Nodes[id]

		similarity := 0.0
		if len(node.Embedding) > 0 {
			raw, err := CosineSimilarity(question, node.Embedding)
			if err != nil {
				return err
			}
			similarity = Clamp01(raw)
		}

		node.Similarity = similarity
		node.Prize = config.SimilarityWeight * similarity
		if node.IsSeed {
			node.Prize += config.SeedWeight
		}

		graph.Nodes[id] = node
	}

	for _, id := range graph.EdgeIDs() {
		edge := graph.Edges[id]

		edge.Prize = config.RelationWeight(edge.Relation)
		if config.ScaleEdgePrize {
			source := graph.Nodes[edge.Source]
			target := graph.Nodes[edge.Target]
			edge.Prize *= (source.Prize + target.Prize) / 2
		}

		edge.Cost = config.EdgeCost
		if config.HopCostScale > 0 {
			hops := graph.Nodes[edge.Source].Hops
			if h := graph.Nodes[edge.Target].Hops; h > hops {
				hops = h
			}
			edge.Cost += config.HopCostScale * float64(hops)
		}

		graph.Edges[id] = edge
	}

	return nil
}
