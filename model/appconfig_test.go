package model

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/biokg/retriever/helper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetrievalConfigFromApp(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	err := os.WriteFile(path, []byte(`retrieval:
  top_k: 7
  hops: 1
  max_degree: 4
  prune_max_nodes: 15
  fetch_timeout_ms: 500
`), 0o644)
	require.NoError(t, err)

	app, err := helper.LoadConfig(path)
	require.NoError(t, err)

	config := RetrievalConfigFromApp(app)

	t.Run("Configured keys are applied", func(t *testing.T) {
		assert.Equal(t, 7, config.TopK)
		assert.Equal(t, 1, config.MaxHops)
		assert.Equal(t, 4, config.DegreeCap)
		assert.Equal(t, 15, config.NodeBudget)
		assert.Equal(t, int64(500), config.FetchTimeout.Milliseconds())
	})

	t.Run("Unconfigured keys keep their defaults", func(t *testing.T) {
		defaults := DefaultRetrievalConfig()
		assert.Equal(t, defaults.SimilarityWeight, config.SimilarityWeight)
		assert.Equal(t, defaults.EdgeCost, config.EdgeCost)
		assert.Equal(t, defaults.RelationWeights, config.RelationWeights)
	})

	t.Run("Resulting configuration validates", func(t *testing.T) {
		assert.NoError(t, config.Validate())
	})
}
