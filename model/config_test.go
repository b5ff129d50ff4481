package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetrievalConfigValidate(t *testing.T) {
	t.Run("Default configuration is valid", func(t *testing.T) {
		config := DefaultRetrievalConfig()
		assert.NoError(t, config.Validate())
	})

	t.Run("Invalid configurations are rejected", func(t *testing.T) {
		cases := []struct {
			name   string
			mutate func(*RetrievalConfig)
		}{
			{"zero top_k", func(c *RetrievalConfig) { c.TopK = 0 }},
			{"negative max_hops", func(c *RetrievalConfig) { c.MaxHops = -1 }},
			{"max_hops above limit", func(c *RetrievalConfig) { c.MaxHops = 3 }},
			{"zero degree_cap", func(c *RetrievalConfig) { c.DegreeCap = 0 }},
			{"zero node_budget", func(c *RetrievalConfig) { c.NodeBudget = 0 }},
			{"zero edge_cost", func(c *RetrievalConfig) { c.EdgeCost = 0 }},
			{"negative hop_cost_scale", func(c *RetrievalConfig) { c.HopCostScale = -0.1 }},
			{"negative seed_weight", func(c *RetrievalConfig) { c.SeedWeight = -1 }},
		}

		for _, tc := range cases {
			config := DefaultRetrievalConfig()
			tc.mutate(&config)
			assert.Error(t, config.Validate(), "expected %s to fail validation", tc.name)
		}
	})
}

func TestRelationTables(t *testing.T) {
	config := DefaultRetrievalConfig()

	t.Run("Curated relations carry their configured weight", func(t *testing.T) {
		assert.Equal(t, 1.0, config.RelationWeight(RelationTreats))
		assert.Equal(t, 0.2, config.RelationWeight(RelationRelatedTo))
	})

	t.Run("Unknown relations fall back to the default weight", func(t *testing.T) {
		assert.Equal(t, config.DefaultRelationWeight, config.RelationWeight(RelationType("SOMETHING_NEW")))
	})

	t.Run("Relation rank follows the curated order", func(t *testing.T) {
		assert.Less(t, config.RelationRankIndex(RelationTreats), config.RelationRankIndex(RelationRelatedTo))
	})

	t.Run("Unknown relations rank last", func(t *testing.T) {
		unknown := config.RelationRankIndex(RelationType("SOMETHING_NEW"))
		require.Equal(t, len(config.RelationRank), unknown)
		for _, relation := range config.RelationRank {
			assert.Less(t, config.RelationRankIndex(relation), unknown)
		}
	})
}

func TestEdgeIdentity(t *testing.T) {
	edge := Edge{Source: "gene:BRCA1", Target: "disease:breast_cancer", Relation: RelationAssociatedWith}

	t.Run("Edge id follows the source relation target convention", func(t *testing.T) {
		assert.Equal(t, "gene:BRCA1__ASSOCIATED_WITH__disease:breast_cancer", edge.ID())
	})

	t.Run("Pair key is direction independent", func(t *testing.T) {
		reversed := Edge{Source: "disease:breast_cancer", Target: "gene:BRCA1", Relation: RelationAssociatedWith}
		assert.Equal(t, edge.PairKey(), reversed.PairKey())
	})

	t.Run("Other returns the far endpoint", func(t *testing.T) {
		assert.Equal(t, "disease:breast_cancer", edge.Other("gene:BRCA1"))
		assert.Equal(t, "gene:BRCA1", edge.Other("disease:breast_cancer"))
	})
}
