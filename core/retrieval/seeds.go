package retrieval

import (
	"context"
	"log/slog"

	"github.com/biokg/retriever/helper"
	"github.com/biokg/retriever/model"
)

// VectorIndex is the nearest-neighbor lookup the seed resolver needs
type VectorIndex interface {
	QueryNearest(ctx context.Context, embedding []float32, topK int) ([]model.SeedMatch, error)
}

// SeedResolver maps a question embedding to the entry points of graph
// expansion via approximate nearest-neighbor search over node embeddings.
type SeedResolver struct {
	index VectorIndex
	log   *slog.Logger
}

// NewSeedResolver creates a new seed resolver over the given index
func NewSeedResolver(index VectorIndex, logger *slog.Logger) *SeedResolver {
	return &SeedResolver{index: index, log: logger}
}

// Resolve returns up to topK seed matches ordered by descending similarity.
// Duplicate node ids returned by the index are collapsed keeping the best
// score. An empty match list is a valid outcome, not an error.
func (r *SeedResolver) Resolve(ctx context.Context, embedding []float32, topK int) ([]model.SeedMatch, error) {
	if len(embedding) == 0 {
		return nil, &model.InvalidEmbeddingError{Reason: "question embedding is empty"}
	}
	for _, v := range embedding {
		if v != 0 {
			matches, err := r.index.QueryNearest(ctx, embedding, topK)
			if err != nil {
				return nil, helper.NewError("query nearest nodes", err)
			}
			return dedupeMatches(matches, topK), nil
		}
	}
	return nil, &model.InvalidEmbeddingError{Reason: "question embedding has zero norm"}
}

func dedupeMatches(matches []model.SeedMatch, topK int) []model.SeedMatch {
	seen := make(map[string]bool, len(matches))
	out := make([]model.SeedMatch, 0, len(matches))
	for _, match := range matches {
		if seen[match.NodeID] {
			continue
		}
		seen[match.NodeID] = true
		out = append(out, match)
		if len(out) == topK {
			break
		}
	}
	return out
}
