package database

import (
	"context"

	"github.com/biokg/retriever/model"
)

// Store combines the node and edge handlers into the read interface consumed
// by the retrieval core: graph access for the expander and nearest-neighbor
// lookup for the seed resolver. Safe for concurrent reads.
type Store struct {
	Nodes *NodesDBHandler
	Edges *EdgesDBHandler
}

// NewStore creates a store over the given handlers
func NewStore(nodes *NodesDBHandler, edges *EdgesDBHandler) *Store {
	return &Store{
		Nodes: nodes,
		Edges: edges,
	}
}

// GetNode fetches a node snapshot by id
func (s *Store) GetNode(ctx context.Context, id string) (*model.Node, error) {
	return s.Nodes.SelectNode(ctx, id)
}

// GetEdges fetches the edges incident to a node, optionally filtered by far
// endpoint labels
func (s *Store) GetEdges(ctx context.Context, id string, filter *model.EdgeFilter) ([]*model.Edge, error) {
	var labels []string
	if filter != nil {
		labels = filter.Labels
	}
	return s.Edges.SelectEdgesIncident(ctx, id, labels)
}

// QueryNearest returns the topK nodes most similar to the embedding, ordered
// by descending similarity
func (s *Store) QueryNearest(ctx context.Context, embedding []float32, topK int) ([]model.SeedMatch, error) {
	nodes, err := s.Nodes.SelectNodesBySimilarity(ctx, embedding, topK)
	if err != nil {
		return nil, err
	}

	matches := make([]model.SeedMatch, len(nodes))
	for i, node := range nodes {
		matches[i] = model.SeedMatch{
			NodeID:     node.ID,
			Similarity: node.Similarity,
		}
	}

	return matches, nil
}
