package pipeline

import (
	"github.com/biokg/retriever/helper"
	"github.com/biokg/retriever/model"
)

// EmbedFunc is a function that generates embeddings for text
type EmbedFunc func(text string) ([]float32, error)

// EmbedNode fills in the node's embedding from its name and description.
// Nodes that already carry an embedding are left untouched.
func EmbedNode(embed EmbedFunc, node *model.Node) error {
	if len(node.Embedding) > 0 {
		return nil
	}
	embedding, err := embed(node.EmbeddingText())
	if err != nil {
		return helper.NewError("embed node text", err)
	}
	node.Embedding = embedding
	return nil
}

// EmbedNodes embeds every node in place, stopping at the first failure
func EmbedNodes(embed EmbedFunc, nodes []*model.Node) error {
	for _, node := range nodes {
		err := EmbedNode(embed, node)
		if err != nil {
			return err
		}
	}
	return nil
}
