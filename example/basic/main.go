package main

import (
	"context"
	"fmt"
	"log"

	retriever "github.com/biokg/retriever"
	"github.com/biokg/retriever/helper"
	"github.com/biokg/retriever/model"
)

const embeddingDim = 384

// sampleNodes is a tiny slice of a biomedical knowledge graph
var sampleNodes = []*model.Node{
	{ID: "gene:BRCA1", Labels: []string{model.LabelGene}, Name: "BRCA1", Description: "Breast cancer type 1 susceptibility protein, involved in DNA repair"},
	{ID: "gene:TP53", Labels: []string{model.LabelGene}, Name: "TP53", Description: "Tumor protein p53, regulates the cell cycle and functions as a tumor suppressor"},
	{ID: "disease:breast_cancer", Labels: []string{model.LabelDisease}, Name: "Breast cancer", Description: "Malignant tumor arising from breast tissue"},
	{ID: "disease:li_fraumeni", Labels: []string{model.LabelDisease}, Name: "Li-Fraumeni syndrome", Description: "Rare hereditary cancer predisposition disorder"},
	{ID: "publication:pmid_7545954", Labels: []string{model.LabelPublication}, Name: "PMID 7545954", Description: "A strong candidate for the breast and ovarian cancer susceptibility gene BRCA1"},
}

var sampleEdges = []*model.Edge{
	{Source: "gene:BRCA1", Target: "disease:breast_cancer", Relation: model.RelationAssociatedWith},
	{Source: "gene:TP53", Target: "disease:breast_cancer", Relation: model.RelationAssociatedWith},
	{Source: "gene:TP53", Target: "disease:li_fraumeni", Relation: model.RelationCauses},
	{Source: "publication:pmid_7545954", Target: "gene:BRCA1", Relation: model.RelationMentions},
	{Source: "publication:pmid_7545954", Target: "disease:breast_cancer", Relation: model.RelationMentions},
}

func main() {
	// Start a test PostgreSQL container
	teardown, dbPort, err := helper.MustStartPostgresContainer()
	if err != nil {
		log.Fatalf("Failed to start PostgreSQL container: %v", err)
	}
	defer teardown(context.Background())

	// Create database configuration using the container port
	dbConfig := &helper.DatabaseConfiguration{
		Host:     "localhost",
		Port:     dbPort,
		Database: "database",
		Username: "user",
		Password: "password",
		Schema:   "public",
		SSLMode:  "disable",
	}

	r, err := retriever.NewRetriever(dbConfig, embeddingDim)
	if err != nil {
		log.Fatalf("Failed to create retriever: %v", err)
	}
	defer r.Close()

	// Set up the default embedder (all-MiniLM-L6-v2, 384 dimensions)
	if err := r.UseDefaultEmbedder(); err != nil {
		log.Fatalf("Failed to set up embedder: %v", err)
	}

	// Load the sample graph. InsertNode embeds "name: description" for every
	// node that has no precomputed embedding.
	fmt.Println("Loading sample knowledge graph...")
	for _, node := range sampleNodes {
		if err := r.InsertNode(node); err != nil {
			log.Fatalf("Failed to insert node %s: %v", node.ID, err)
		}
	}
	for _, edge := range sampleEdges {
		if err := r.InsertEdge(edge); err != nil {
			log.Fatalf("Failed to insert edge %s: %v", edge.ID(), err)
		}
	}
	fmt.Printf("Inserted %d nodes and %d edges\n", len(sampleNodes), len(sampleEdges))

	// Ask a question against the graph
	question := "Which genes are associated with breast cancer?"
	fmt.Printf("\nQuestion: %s\n", question)

	config := model.DefaultRetrievalConfig()
	config.TopK = 3
	config.NodeBudget = 10

	subgraph, err := r.Ask(context.Background(), question, &config)
	if err != nil {
		log.Fatalf("Failed to retrieve: %v", err)
	}

	// Display the retrieved subgraph
	fmt.Printf("\nRetrieved subgraph (trace %s):\n", subgraph.TraceID)
	fmt.Printf("%d nodes, %d edges, %d component(s)\n", len(subgraph.Nodes), len(subgraph.Edges), subgraph.Components)

	fmt.Println("\nNodes (by descending prize):")
	for _, node := range subgraph.Nodes {
		fmt.Printf("  %-28s prize=%.3f labels=%v\n", node.ID, node.Prize, node.Labels)
	}

	fmt.Println("\nEdges:")
	for _, edge := range subgraph.Edges {
		fmt.Printf("  %s -[%s]-> %s\n", edge.Source, edge.Relation, edge.Target)
	}

	fmt.Println("\nBasic example completed successfully!")
}
