package database

import (
	"context"
	"testing"

	"github.com/biokg/retriever/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// edgeTestGraph inserts a small gene-disease-publication triangle and returns
// the handlers
func edgeTestGraph(t *testing.T) (*NodesDBHandler, *EdgesDBHandler) {
	database := initDB(t)

	nodesDbHandler, err := NewNodesDBHandler(database, 384, true)
	require.NoError(t, err, "Expected NewNodesDBHandler to not return an error")

	edgesDbHandler, err := NewEdgesDBHandler(database, true)
	require.NoError(t, err, "Expected NewEdgesDBHandler to not return an error")

	nodes := []*model.Node{
		{ID: "e2e:gene", Labels: []string{model.LabelGene}, Name: "gene", Embedding: testEmbedding(384, 0.1)},
		{ID: "e2e:disease", Labels: []string{model.LabelDisease}, Name: "disease", Embedding: testEmbedding(384, 0.2)},
		{ID: "e2e:publication", Labels: []string{model.LabelPublication}, Name: "publication", Embedding: testEmbedding(384, 0.3)},
	}
	for _, node := range nodes {
		require.NoError(t, nodesDbHandler.InsertNode(node))
	}

	return nodesDbHandler, edgesDbHandler
}

func TestEdgesNewEdgesDBHandler(t *testing.T) {
	database := initDB(t)

	// Edges reference nodes, so the nodes table must exist first
	_, err := NewNodesDBHandler(database, 384, true)
	require.NoError(t, err, "Expected NewNodesDBHandler to not return an error")

	t.Run("Valid call NewEdgesDBHandler", func(t *testing.T) {
		edgesDbHandler, err := NewEdgesDBHandler(database, true)
		assert.NoError(t, err, "Expected NewEdgesDBHandler to not return an error")
		require.NotNil(t, edgesDbHandler, "Expected NewEdgesDBHandler to return a non-nil instance")
	})

	t.Run("Invalid call NewEdgesDBHandler with nil database", func(t *testing.T) {
		_, err := NewEdgesDBHandler(nil, false)
		assert.Error(t, err, "Expected error when creating EdgesDBHandler with nil database")
		assert.Contains(t, err.Error(), "database connection is nil", "Expected specific error message for nil database connection")
	})
}

func TestEdgesInsert(t *testing.T) {
	_, edgesDbHandler := edgeTestGraph(t)

	t.Run("Insert edge between existing nodes", func(t *testing.T) {
		edge := &model.Edge{
			Source:   "e2e:gene",
			Target:   "e2e:disease",
			Relation: model.RelationAssociatedWith,
		}

		err := edgesDbHandler.InsertEdge(edge)
		assert.NoError(t, err, "Expected Insert to not return an error")
	})

	t.Run("Insert edge with missing endpoint fails", func(t *testing.T) {
		edge := &model.Edge{
			Source:   "e2e:gene",
			Target:   "e2e:missing",
			Relation: model.RelationAssociatedWith,
		}

		err := edgesDbHandler.InsertEdge(edge)
		assert.Error(t, err, "Expected inserting an edge to a missing node to fail the foreign key")
	})

	t.Run("Insert is an upsert on the synthetic id", func(t *testing.T) {
		edge := &model.Edge{
			Source:      "e2e:gene",
			Target:      "e2e:disease",
			Relation:    model.RelationAssociatedWith,
			Description: "updated description",
		}

		err := edgesDbHandler.InsertEdge(edge)
		require.NoError(t, err)

		selected, err := edgesDbHandler.SelectEdge(context.Background(), "e2e:gene__ASSOCIATED_WITH__e2e:disease")
		require.NoError(t, err)
		assert.Equal(t, "updated description", selected.Description, "Expected the upsert to replace the description")
	})
}

func TestEdgesSelectIncident(t *testing.T) {
	_, edgesDbHandler := edgeTestGraph(t)

	edges := []*model.Edge{
		{Source: "e2e:gene", Target: "e2e:disease", Relation: model.RelationAssociatedWith},
		{Source: "e2e:publication", Target: "e2e:disease", Relation: model.RelationMentions},
		{Source: "e2e:publication", Target: "e2e:gene", Relation: model.RelationMentions},
	}
	for _, edge := range edges {
		require.NoError(t, edgesDbHandler.InsertEdge(edge))
	}

	t.Run("Incident edges cover both directions", func(t *testing.T) {
		incident, err := edgesDbHandler.SelectEdgesIncident(context.Background(), "e2e:disease", nil)
		require.NoError(t, err, "Expected SelectEdgesIncident to not return an error")
		assert.Len(t, incident, 2, "Expected both inbound edges to be returned")
	})

	t.Run("Incident edges are ordered by id", func(t *testing.T) {
		incident, err := edgesDbHandler.SelectEdgesIncident(context.Background(), "e2e:disease", nil)
		require.NoError(t, err)
		require.Len(t, incident, 2)
		assert.Less(t, incident[0].ID(), incident[1].ID(), "Expected deterministic edge ordering")
	})

	t.Run("Incident edges carry endpoint labels", func(t *testing.T) {
		incident, err := edgesDbHandler.SelectEdgesIncident(context.Background(), "e2e:gene", nil)
		require.NoError(t, err)
		require.NotEmpty(t, incident)
		for _, edge := range incident {
			assert.NotEmpty(t, edge.SourceLabels, "Expected source labels to be joined in")
			assert.NotEmpty(t, edge.TargetLabels, "Expected target labels to be joined in")
		}
	})

	t.Run("Label filter excludes far endpoints without the label", func(t *testing.T) {
		incident, err := edgesDbHandler.SelectEdgesIncident(context.Background(), "e2e:disease", []string{model.LabelGene})
		require.NoError(t, err)
		require.Len(t, incident, 1, "Expected only the gene edge to pass the filter")
		assert.Equal(t, "e2e:gene", incident[0].Source)
	})

	t.Run("Missing node yields no edges", func(t *testing.T) {
		incident, err := edgesDbHandler.SelectEdgesIncident(context.Background(), "e2e:never_existed", nil)
		require.NoError(t, err)
		assert.Empty(t, incident, "Expected no edges for an unknown node")
	})
}

func TestEdgesDelete(t *testing.T) {
	_, edgesDbHandler := edgeTestGraph(t)

	edge := &model.Edge{Source: "e2e:gene", Target: "e2e:publication", Relation: model.RelationRelatedTo}
	require.NoError(t, edgesDbHandler.InsertEdge(edge))

	t.Run("Delete existing edge", func(t *testing.T) {
		err := edgesDbHandler.DeleteEdge(edge.ID())
		assert.NoError(t, err, "Expected DeleteEdge to not return an error")

		_, err = edgesDbHandler.SelectEdge(context.Background(), edge.ID())
		assert.ErrorIs(t, err, model.ErrNotFound, "Expected the edge to be gone after deletion")
	})
}
