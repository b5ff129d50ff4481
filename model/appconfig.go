package model

import (
	"time"

	"github.com/biokg/retriever/helper"
)

// RetrievalConfigFromApp builds a RetrievalConfig from an application config
// file, falling back to the defaults for missing keys. Keys live under the
// "retrieval" section and can be overridden via BIO_KG_ environment
// variables.
func RetrievalConfigFromApp(app *helper.AppConfig) RetrievalConfig {
	c := DefaultRetrievalConfig()
	c.TopK = app.GetInt("retrieval.top_k", c.TopK)
	c.MaxHops = app.GetInt("retrieval.hops", c.MaxHops)
	c.DegreeCap = app.GetInt("retrieval.max_degree", c.DegreeCap)
	c.NodeBudget = app.GetInt("retrieval.prune_max_nodes", c.NodeBudget)
	c.SimilarityWeight = app.GetFloat("retrieval.similarity_weight", c.SimilarityWeight)
	c.SeedWeight = app.GetFloat("retrieval.seed_weight", c.SeedWeight)
	c.ScaleEdgePrize = app.GetBool("retrieval.scale_edge_prize", c.ScaleEdgePrize)
	c.EdgeCost = app.GetFloat("retrieval.edge_cost", c.EdgeCost)
	c.HopCostScale = app.GetFloat("retrieval.hop_cost_scale", c.HopCostScale)
	c.DefaultRelationWeight = app.GetFloat("retrieval.default_relation_weight", c.DefaultRelationWeight)
	if ms := app.GetInt("retrieval.fetch_timeout_ms", 0); ms > 0 {
		c.FetchTimeout = time.Duration(ms) * time.Millisecond
	}
	return c
}
