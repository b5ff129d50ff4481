package model

import (
	"fmt"
	"time"
)

// RetrievalConfig represents configuration for one retrieval query
type RetrievalConfig struct {
	// Seed resolution parameters
	TopK int `json:"top_k"`

	// Expansion parameters
	MaxHops     int      `json:"max_hops"`   // 0, 1 or 2
	DegreeCap   int      `json:"degree_cap"` // max edges kept per node during expansion
	LabelFilter []string `json:"label_filter,omitempty"`

	// Prize parameters
	SimilarityWeight float64 `json:"similarity_weight"` // weight of cosine similarity in node prizes
	SeedWeight       float64 `json:"seed_weight"`       // bonus added to seed node prizes
	ScaleEdgePrize   bool    `json:"scale_edge_prize"`  // scale edge prizes by mean endpoint prize

	// Cost parameters
	EdgeCost     float64 `json:"edge_cost"`      // per-edge traversal penalty, must be > 0
	HopCostScale float64 `json:"hop_cost_scale"` // extra cost per hop of the deeper endpoint

	// Pruning parameters
	NodeBudget int `json:"node_budget"` // max nodes in the retrieved subgraph

	// Relation tables. RelationWeights feeds edge prizes; RelationRank is the
	// importance order used for deterministic hub capping and tie-breaks.
	RelationWeights       map[RelationType]float64 `json:"relation_weights,omitempty"`
	DefaultRelationWeight float64                  `json:"default_relation_weight"`
	RelationRank          []RelationType           `json:"relation_rank,omitempty"`

	// Store access
	FetchTimeout time.Duration `json:"fetch_timeout"`
}

// DefaultRelationWeights returns the curated relation weight table
func DefaultRelationWeights() map[RelationType]float64 {
	return map[RelationType]float64{
		RelationTreats:         1.0,
		RelationCauses:         0.9,
		RelationAssociatedWith: 0.8,
		RelationInteractsWith:  0.7,
		RelationExpressedIn:    0.6,
		RelationPartOf:         0.5,
		RelationMentions:       0.3,
		RelationRelatedTo:      0.2,
	}
}

// DefaultRelationRank returns the curated relation importance order used for
// degree capping at hub nodes
func DefaultRelationRank() []RelationType {
	return []RelationType{
		RelationTreats,
		RelationCauses,
		RelationAssociatedWith,
		RelationInteractsWith,
		RelationExpressedIn,
		RelationPartOf,
		RelationMentions,
		RelationRelatedTo,
	}
}

// DefaultRetrievalConfig returns a sensible default configuration
func DefaultRetrievalConfig() RetrievalConfig {
	return RetrievalConfig{
		TopK:                  5,
		MaxHops:               2,
		DegreeCap:             10,
		NodeBudget:            40,
		SimilarityWeight:      1.0,
		SeedWeight:            0.5,
		ScaleEdgePrize:        false,
		EdgeCost:              0.25,
		HopCostScale:          0.0,
		RelationWeights:       DefaultRelationWeights(),
		DefaultRelationWeight: 0.2,
		RelationRank:          DefaultRelationRank(),
		FetchTimeout:          3 * time.Second,
	}
}

// Validate checks that the configuration can produce a terminating retrieval
func (c *RetrievalConfig) Validate() error {
	if c.TopK <= 0 {
		return fmt.Errorf("top_k must be positive, got %d", c.TopK)
	}
	if c.MaxHops < 0 || c.MaxHops > 2 {
		return fmt.Errorf("max_hops must be between 0 and 2, got %d", c.MaxHops)
	}
	if c.DegreeCap <= 0 {
		return fmt.Errorf("degree_cap must be positive, got %d", c.DegreeCap)
	}
	if c.NodeBudget <= 0 {
		return fmt.Errorf("node_budget must be positive, got %d", c.NodeBudget)
	}
	// Zero-cost edges make every candidate node trivially attractive and
	// degrade pruning quality.
	if c.EdgeCost <= 0 {
		return fmt.Errorf("edge_cost must be strictly positive, got %f", c.EdgeCost)
	}
	if c.HopCostScale < 0 {
		return fmt.Errorf("hop_cost_scale must not be negative, got %f", c.HopCostScale)
	}
	if c.SimilarityWeight < 0 || c.SeedWeight < 0 {
		return fmt.Errorf("prize weights must not be negative")
	}
	return nil
}

// RelationWeight returns the curated weight for a relation type, falling back
// to the default weight for unknown types
func (c *RetrievalConfig) RelationWeight(relation RelationType) float64 {
	if w, ok := c.RelationWeights[relation]; ok {
		return w
	}
	return c.DefaultRelationWeight
}

// RelationRankIndex returns the position of a relation type in the importance
// order. Unknown types rank after all configured types.
func (c *RetrievalConfig) RelationRankIndex(relation RelationType) int {
	for i, r := range c.RelationRank {
		if r == relation {
			return i
		}
	}
	return len(c.RelationRank)
}
