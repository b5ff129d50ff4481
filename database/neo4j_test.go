package database

import (
	"testing"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func neo4jRecord(keys []string, values []any) *neo4j.Record {
	return &neo4j.Record{Keys: keys, Values: values}
}

func TestNodeFromRecord(t *testing.T) {
	keys := []string{"id", "labels", "name", "description", "embedding"}

	t.Run("Full record maps onto a node", func(t *testing.T) {
		record := neo4jRecord(keys, []any{
			"gene:BRCA1",
			[]any{"gene"},
			"BRCA1",
			"Breast cancer type 1 susceptibility protein",
			[]any{0.1, 0.2, 0.3},
		})

		node, err := nodeFromRecord(record)
		require.NoError(t, err, "Expected a complete record to map without error")
		assert.Equal(t, "gene:BRCA1", node.ID, "Expected the node id to be taken from the record")
		assert.Equal(t, []string{"gene"}, node.Labels, "Expected labels to be mapped")
		assert.Equal(t, "BRCA1", node.Name, "Expected the name to be mapped")
		assert.Equal(t, "Breast cancer type 1 susceptibility protein", node.Description, "Expected the description to be mapped")
		assert.Equal(t, []float32{0.1, 0.2, 0.3}, node.Embedding, "Expected the embedding to be converted to float32")
	})

	t.Run("Record without embedding leaves it empty", func(t *testing.T) {
		record := neo4jRecord(keys, []any{"disease:breast_cancer", []any{"disease"}, "Breast cancer", "", nil})

		node, err := nodeFromRecord(record)
		require.NoError(t, err, "Expected a record without embedding to map without error")
		assert.Empty(t, node.Embedding, "Expected no embedding on the node")
	})

	t.Run("Record missing the id fails", func(t *testing.T) {
		record := neo4jRecord(keys, []any{"", []any{"gene"}, "BRCA1", "", nil})

		_, err := nodeFromRecord(record)
		require.Error(t, err, "Expected a record without id to fail")
		assert.Contains(t, err.Error(), "missing id", "Expected the error to name the missing id")
	})

	t.Run("Embedding that is not a list fails", func(t *testing.T) {
		record := neo4jRecord(keys, []any{"gene:TP53", []any{"gene"}, "TP53", "", "not-a-list"})

		_, err := nodeFromRecord(record)
		require.Error(t, err, "Expected a non list embedding to fail")
		assert.Contains(t, err.Error(), "malformed embedding", "Expected the error to name the malformed embedding")
	})

	t.Run("Embedding with a non numeric element fails", func(t *testing.T) {
		record := neo4jRecord(keys, []any{"gene:TP53", []any{"gene"}, "TP53", "", []any{0.1, "oops"}})

		_, err := nodeFromRecord(record)
		require.Error(t, err, "Expected a non numeric embedding element to fail")
		assert.Contains(t, err.Error(), "malformed embedding", "Expected the error to name the malformed embedding")
	})
}

func TestNeo4jRecordValues(t *testing.T) {
	t.Run("Missing keys fall back to zero values", func(t *testing.T) {
		record := neo4jRecord([]string{"id"}, []any{"gene:BRCA1"})

		assert.Equal(t, "", stringValue(record, "name"), "Expected a missing string key to yield an empty string")
		assert.Nil(t, stringsValue(record, "labels"), "Expected a missing list key to yield nil")
	})

	t.Run("Non string list entries are skipped", func(t *testing.T) {
		record := neo4jRecord([]string{"labels"}, []any{[]any{"gene", 42, "disease"}})

		assert.Equal(t, []string{"gene", "disease"}, stringsValue(record, "labels"), "Expected only the string entries to be kept")
	})

	t.Run("Values of the wrong type fall back to zero values", func(t *testing.T) {
		record := neo4jRecord([]string{"name", "labels"}, []any{42, "not-a-list"})

		assert.Equal(t, "", stringValue(record, "name"), "Expected a non string value to yield an empty string")
		assert.Nil(t, stringsValue(record, "labels"), "Expected a non list value to yield nil")
	})
}
