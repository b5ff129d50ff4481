package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCandidateGraph(t *testing.T) {
	t.Run("AddNode keeps the first snapshot", func(t *testing.T) {
		graph := NewCandidateGraph()

		assert.True(t, graph.AddNode(Node{ID: "a", Name: "first"}))
		assert.False(t, graph.AddNode(Node{ID: "a", Name: "second"}), "re-adding an id should be a no-op")
		assert.Equal(t, "first", graph.Nodes["a"].Name)
	})

	t.Run("AddEdge requires both endpoints", func(t *testing.T) {
		graph := NewCandidateGraph()
		graph.AddNode(Node{ID: "a"})

		assert.False(t, graph.AddEdge(Edge{Source: "a", Target: "missing", Relation: RelationRelatedTo}))
		graph.AddNode(Node{ID: "missing"})
		assert.True(t, graph.AddEdge(Edge{Source: "a", Target: "missing", Relation: RelationRelatedTo}))
	})

	t.Run("Parallel edges with distinct relations coexist", func(t *testing.T) {
		graph := NewCandidateGraph()
		graph.AddNode(Node{ID: "a"})
		graph.AddNode(Node{ID: "b"})

		assert.True(t, graph.AddEdge(Edge{Source: "a", Target: "b", Relation: RelationAssociatedWith}))
		assert.True(t, graph.AddEdge(Edge{Source: "a", Target: "b", Relation: RelationCauses}))
		assert.False(t, graph.AddEdge(Edge{Source: "a", Target: "b", Relation: RelationCauses}), "rediscovery should be a no-op")
		assert.Len(t, graph.Edges, 2)
	})

	t.Run("Ids are returned in ascending order", func(t *testing.T) {
		graph := NewCandidateGraph()
		graph.AddNode(Node{ID: "c"})
		graph.AddNode(Node{ID: "a"})
		graph.AddNode(Node{ID: "b"})

		assert.Equal(t, []string{"a", "b", "c"}, graph.NodeIDs())
	})

	t.Run("Incident edges are ordered by edge id", func(t *testing.T) {
		graph := NewCandidateGraph()
		graph.AddNode(Node{ID: "hub"})
		graph.AddNode(Node{ID: "x"})
		graph.AddNode(Node{ID: "y"})
		graph.AddEdge(Edge{Source: "hub", Target: "y", Relation: RelationRelatedTo})
		graph.AddEdge(Edge{Source: "hub", Target: "x", Relation: RelationRelatedTo})

		incident := graph.IncidentEdges("hub")
		require.Len(t, incident, 2)
		assert.Less(t, incident[0].ID(), incident[1].ID())
	})

	t.Run("Validate catches unflagged seeds", func(t *testing.T) {
		graph := NewCandidateGraph()
		graph.AddNode(Node{ID: "s"})
		graph.Seeds = []string{"s"}

		assert.Error(t, graph.Validate(), "a seed without the IsSeed flag should fail validation")
	})

	t.Run("Validate passes a consistent graph", func(t *testing.T) {
		graph := NewCandidateGraph()
		graph.AddNode(Node{ID: "s", IsSeed: true})
		graph.AddNode(Node{ID: "n"})
		graph.AddEdge(Edge{Source: "s", Target: "n", Relation: RelationRelatedTo})
		graph.Seeds = []string{"s"}

		assert.NoError(t, graph.Validate())
	})
}

func TestNodeHelpers(t *testing.T) {
	t.Run("Embedding text combines name and description", func(t *testing.T) {
		node := Node{Name: "BRCA1", Description: "DNA repair gene"}
		assert.Equal(t, "BRCA1: DNA repair gene", node.EmbeddingText())
	})

	t.Run("Empty label filter matches everything", func(t *testing.T) {
		node := Node{Labels: []string{LabelGene}}
		assert.True(t, node.HasAnyLabel(nil))
		assert.True(t, node.HasAnyLabel([]string{LabelGene, LabelDisease}))
		assert.False(t, node.HasAnyLabel([]string{LabelPublication}))
	})
}
