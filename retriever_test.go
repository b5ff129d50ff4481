package retriever

import (
	"context"
	"testing"

	"github.com/biokg/retriever/core/pipeline"
	"github.com/biokg/retriever/helper"
	"github.com/biokg/retriever/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testEmbeddingDim = 8

// testEmbedder maps known biomedical phrases onto fixed directions so seed
// resolution is deterministic without a real model
func testEmbedder() pipeline.EmbedFunc {
	known := map[string]int{
		"BRCA1: Breast cancer type 1 susceptibility protein": 0,
		"Breast cancer: Malignant tumor of breast tissue":    1,
		"TP53: Tumor protein p53":                            2,
		"Which gene is associated with breast cancer?":       0,
	}
	return func(text string) ([]float32, error) {
		embedding := make([]float32, testEmbeddingDim)
		if axis, ok := known[text]; ok {
			embedding[axis] = 1
			return embedding, nil
		}
		for i, r := range text {
			embedding[(i+int(r))%testEmbeddingDim] += 1
		}
		return embedding, nil
	}
}

func initRetriever(t *testing.T) *Retriever {
	helper.SetTestDatabaseConfigEnvs(t, dbPort)
	dbConfig, err := helper.NewDatabaseConfiguration()
	require.NoError(t, err, "failed to create database configuration")

	r, err := NewRetriever(dbConfig, testEmbeddingDim)
	require.NoError(t, err, "failed to create retriever")
	require.NotNil(t, r, "expected retriever to be non-nil")

	r.SetEmbedder(testEmbedder())

	t.Cleanup(func() {
		r.Close()
	})

	return r
}

// loadTestGraph inserts a small gene-disease neighborhood
func loadTestGraph(t *testing.T, r *Retriever) {
	nodes := []*model.Node{
		{ID: "gene:BRCA1", Labels: []string{model.LabelGene}, Name: "BRCA1", Description: "Breast cancer type 1 susceptibility protein"},
		{ID: "disease:breast_cancer", Labels: []string{model.LabelDisease}, Name: "Breast cancer", Description: "Malignant tumor of breast tissue"},
		{ID: "gene:TP53", Labels: []string{model.LabelGene}, Name: "TP53", Description: "Tumor protein p53"},
	}
	for _, node := range nodes {
		require.NoError(t, r.InsertNode(node), "failed to insert node %s", node.ID)
	}

	edges := []*model.Edge{
		{Source: "gene:BRCA1", Target: "disease:breast_cancer", Relation: model.RelationAssociatedWith},
		{Source: "gene:TP53", Target: "disease:breast_cancer", Relation: model.RelationAssociatedWith},
	}
	for _, edge := range edges {
		require.NoError(t, r.InsertEdge(edge), "failed to insert edge %s", edge.ID())
	}
}

func TestNewRetriever(t *testing.T) {
	helper.SetTestDatabaseConfigEnvs(t, dbPort)
	dbConfig, err := helper.NewDatabaseConfiguration()
	require.NoError(t, err)

	t.Run("Valid call NewRetriever", func(t *testing.T) {
		r, err := NewRetriever(dbConfig, testEmbeddingDim)
		require.NoError(t, err, "Expected NewRetriever to not return an error")
		require.NotNil(t, r, "Expected NewRetriever to return a non-nil instance")
		assert.NotNil(t, r.DB, "Expected retriever to have a database instance")
		assert.NotNil(t, r.Nodes, "Expected retriever to have a nodes handler")
		assert.NotNil(t, r.Edges, "Expected retriever to have an edges handler")
		assert.NotNil(t, r.Engine, "Expected retriever to have a retrieval engine")
		r.Close()
	})
}

func TestRetrieverInsert(t *testing.T) {
	r := initRetriever(t)

	t.Run("Insert node embeds name and description", func(t *testing.T) {
		node := &model.Node{
			ID:          "gene:BRCA1",
			Labels:      []string{model.LabelGene},
			Name:        "BRCA1",
			Description: "Breast cancer type 1 susceptibility protein",
		}

		err := r.InsertNode(node)
		require.NoError(t, err, "Expected InsertNode to not return an error")
		assert.Len(t, node.Embedding, testEmbeddingDim, "Expected the embedder to fill in the embedding")
	})
}

func TestRetrieverAsk(t *testing.T) {
	r := initRetriever(t)
	loadTestGraph(t, r)

	t.Run("Ask returns a seed anchored subgraph", func(t *testing.T) {
		subgraph, err := r.Ask(context.Background(), "Which gene is associated with breast cancer?", nil)
		require.NoError(t, err, "Expected Ask to not return an error")
		require.False(t, subgraph.IsEmpty(), "Expected a non-empty subgraph for a matching question")
		assert.True(t, subgraph.HasNode("gene:BRCA1"), "Expected the question to resolve to the BRCA1 seed")
	})

	t.Run("Ask without embedder fails", func(t *testing.T) {
		r.Embedder = nil
		defer r.SetEmbedder(testEmbedder())

		_, err := r.Ask(context.Background(), "anything", nil)
		assert.Error(t, err, "Expected Ask to fail without an embedder")
		assert.Contains(t, err.Error(), "embedder not set")
	})
}

func TestRetrieverRetrieve(t *testing.T) {
	r := initRetriever(t)
	loadTestGraph(t, r)

	t.Run("Retrieve with precomputed embedding", func(t *testing.T) {
		embedding, err := testEmbedder()("Which gene is associated with breast cancer?")
		require.NoError(t, err)

		subgraph, err := r.Retrieve(context.Background(), embedding, nil)
		require.NoError(t, err, "Expected Retrieve to not return an error")
		assert.True(t, subgraph.HasNode("gene:BRCA1"))
	})

	t.Run("Retrieve is deterministic", func(t *testing.T) {
		embedding, err := testEmbedder()("Which gene is associated with breast cancer?")
		require.NoError(t, err)

		first, err := r.Retrieve(context.Background(), embedding, nil)
		require.NoError(t, err)
		second, err := r.Retrieve(context.Background(), embedding, nil)
		require.NoError(t, err)
		assert.Equal(t, first.NodeIDs(), second.NodeIDs(), "Expected identical runs to return identical subgraphs")
	})

	t.Run("Retrieve with custom config respects the budget", func(t *testing.T) {
		embedding, err := testEmbedder()("Which gene is associated with breast cancer?")
		require.NoError(t, err)

		config := model.DefaultRetrievalConfig()
		config.TopK = 1
		config.NodeBudget = 2
		subgraph, err := r.Retrieve(context.Background(), embedding, &config)
		require.NoError(t, err)
		assert.LessOrEqual(t, len(subgraph.Nodes), 2, "Expected the node budget to bound the subgraph")
	})
}
