package retriever

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/biokg/retriever/core/expand"
	"github.com/biokg/retriever/core/pipeline"
	"github.com/biokg/retriever/core/retrieval"
	"github.com/biokg/retriever/database"
	"github.com/biokg/retriever/helper"
	"github.com/biokg/retriever/model"
	loadSql "github.com/biokg/retriever/sql"
)

// Retriever provides a unified interface to the knowledge graph store and the
// retrieval pipeline
type Retriever struct {
	DB       *helper.Database
	Nodes    *database.NodesDBHandler
	Edges    *database.EdgesDBHandler
	Store    *database.Store
	Engine   *retrieval.Engine
	Embedder pipeline.EmbedFunc // Optional question embedder
	// Logging
	log *slog.Logger
}

// NewRetriever creates a new Retriever instance with all handlers initialized
func NewRetriever(config *helper.DatabaseConfiguration, embeddingDim int) (*Retriever, error) {
	// Logger
	opts := helper.PrettyHandlerOptions{
		SlogOpts: slog.HandlerOptions{
			Level: slog.LevelInfo,
		},
	}
	logger := slog.New(helper.NewPrettyHandler(os.Stdout, opts))

	// Initialize database
	db := helper.NewDatabase("retriever", config, logger)
	err := loadSql.Init(db.Instance)
	if err != nil {
		return nil, helper.NewError("initialize database extensions", err)
	}

	// force=false to not reload if functions already exist
	nodes, err := database.NewNodesDBHandler(db, embeddingDim, false)
	if err != nil {
		return nil, helper.NewError("create nodes handler", err)
	}

	edges, err := database.NewEdgesDBHandler(db, false)
	if err != nil {
		return nil, helper.NewError("create edges handler", err)
	}

	store := database.NewStore(nodes, edges)
	engine := retrieval.NewEngine(store, logger)

	return &Retriever{
		DB:     db,
		Nodes:  nodes,
		Edges:  edges,
		Store:  store,
		Engine: engine,
		log:    logger,
	}, nil
}

// Close closes the database connection
func (r *Retriever) Close() error {
	if r.DB != nil && r.DB.Instance != nil {
		return r.DB.Instance.Close()
	}
	return nil
}

// SetEmbedder sets the question embedding function
func (r *Retriever) SetEmbedder(embedder pipeline.EmbedFunc) {
	r.Embedder = embedder
}

// UseDefaultEmbedder sets up the default embedder with the all-MiniLM-L6-v2
// model (384 dimensions)
func (r *Retriever) UseDefaultEmbedder() error {
	embedder, err := pipeline.DefaultEmbedder()
	if err != nil {
		return helper.NewError("create default embedder", err)
	}
	r.Embedder = embedder
	return nil
}

// UseCache layers a redis cache over graph reads. Nearest-neighbor queries
// always go to the database, cached snapshots expire after ttl.
func (r *Retriever) UseCache(rdb *goredis.Client, ttl time.Duration) {
	cached := database.NewCachedStore(r.Store, rdb, ttl, r.log)
	r.Engine = retrieval.NewEngine(&compositeStore{graph: cached, index: r.Store}, r.log)
}

// UseNeo4j swaps graph reads to a Neo4j store while keeping the Postgres
// vector index for seed resolution
func (r *Retriever) UseNeo4j(store *database.Neo4jStore) {
	r.Engine = retrieval.NewEngine(&compositeStore{graph: store, index: r.Store}, r.log)
}

// compositeStore pairs a graph read backend with a vector index
type compositeStore struct {
	graph expand.GraphStore
	index retrieval.VectorIndex
}

func (s *compositeStore) GetNode(ctx context.Context, id string) (*model.Node, error) {
	return s.graph.GetNode(ctx, id)
}

func (s *compositeStore) GetEdges(ctx context.Context, id string, filter *model.EdgeFilter) ([]*model.Edge, error) {
	return s.graph.GetEdges(ctx, id, filter)
}

func (s *compositeStore) QueryNearest(ctx context.Context, embedding []float32, topK int) ([]model.SeedMatch, error) {
	return s.index.QueryNearest(ctx, embedding, topK)
}

// InsertNode inserts a node, embedding its name and description first when an
// embedder is set and the node carries no embedding yet
func (r *Retriever) InsertNode(node *model.Node) error {
	if len(node.Embedding) == 0 && r.Embedder != nil {
		err := pipeline.EmbedNode(r.Embedder, node)
		if err != nil {
			return err
		}
	}
	return r.Nodes.InsertNode(node)
}

// InsertEdge inserts an edge between existing nodes
func (r *Retriever) InsertEdge(edge *model.Edge) error {
	return r.Edges.InsertEdge(edge)
}

// Retrieve runs the retrieval pipeline for a precomputed question embedding
func (r *Retriever) Retrieve(ctx context.Context, embedding []float32, config *model.RetrievalConfig) (*model.RetrievedSubgraph, error) {
	return r.Engine.Retrieve(ctx, embedding, config)
}

// Ask embeds the question text and runs the retrieval pipeline. Requires an
// embedder, use UseDefaultEmbedder() or SetEmbedder() first.
func (r *Retriever) Ask(ctx context.Context, question string, config *model.RetrievalConfig) (*model.RetrievedSubgraph, error) {
	if r.Embedder == nil {
		return nil, helper.NewError("ask", fmt.Errorf("embedder not set, use UseDefaultEmbedder() first"))
	}

	embedding, err := r.Embedder(question)
	if err != nil {
		return nil, helper.NewError("embed question", err)
	}

	return r.Engine.Retrieve(ctx, embedding, config)
}

// ChangeIndexType changes the vector index type between HNSW and IVFFlat
func (r *Retriever) ChangeIndexType(ctx context.Context, indexType string, params map[string]interface{}) error {
	return r.Nodes.ChangeIndexType(ctx, indexType, params)
}
