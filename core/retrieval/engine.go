package retrieval

import (
	"context"
	"log/slog"

	"github.com/biokg/retriever/core/expand"
	"github.com/biokg/retriever/core/pcst"
	"github.com/biokg/retriever/core/prize"
	"github.com/biokg/retriever/helper"
	"github.com/biokg/retriever/model"
	"github.com/google/uuid"
)

// GraphStore is the combined read surface the engine needs: graph access for
// expansion plus nearest-neighbor lookup for seed resolution.
type GraphStore interface {
	expand.GraphStore
	VectorIndex
}

// Engine runs the whole retrieval pipeline for one question embedding: seed
// resolution, neighborhood expansion, prize assignment, subgraph solving and
// final assembly. Engines are stateless between calls and safe for
// concurrent use.
type Engine struct {
	resolver *SeedResolver
	expander *expand.Expander
	solver   *pcst.Solver
	log      *slog.Logger
}

// NewEngine creates a new retrieval engine over the given store
func NewEngine(store GraphStore, logger *slog.Logger) *Engine {
	return &Engine{
		resolver: NewSeedResolver(store, logger),
		expander: expand.NewExpander(store, logger),
		solver:   pcst.NewSolver(logger),
		log:      logger,
	}
}

// Retrieve resolves seeds for the question embedding, expands their
// neighborhood and prunes it down to a prized subgraph. An embedding that
// matches nothing in the index yields an empty subgraph, not an error.
func (e *Engine) Retrieve(ctx context.Context, embedding []float32, config *model.RetrievalConfig) (*model.RetrievedSubgraph, error) {
	if config == nil {
		defaults := model.DefaultRetrievalConfig()
		config = &defaults
	}
	if err := config.Validate(); err != nil {
		return nil, helper.NewError("validate retrieval config", err)
	}

	traceID := uuid.New()
	log := e.log.With(slog.String("traceId", traceID.String()))

	matches, err := e.resolver.Resolve(ctx, embedding, config.TopK)
	if err != nil {
		return nil, helper.NewError("resolve seeds", err)
	}
	if len(matches) == 0 {
		log.Info("No seeds resolved, returning empty subgraph")
		return &model.RetrievedSubgraph{TraceID: traceID}, nil
	}

	seedIDs := make([]string, len(matches))
	for i, match := range matches {
		seedIDs[i] = match.NodeID
	}
	log.Info("Resolved seeds", slog.Int("count", len(seedIDs)))

	graph, err := e.expander.Expand(ctx, seedIDs, config)
	if err != nil {
		return nil, helper.NewError("expand neighborhood", err)
	}
	log.Info("Expanded candidate graph",
		slog.Int("nodes", len(graph.Nodes)),
		slog.Int("edges", len(graph.Edges)))

	err = prize.Assign(graph, embedding, config)
	if err != nil {
		return nil, helper.NewError("assign prizes", err)
	}

	solved, err := e.solver.Solve(graph, config.NodeBudget)
	if err != nil {
		return nil, helper.NewError("solve subgraph", err)
	}

	subgraph := Assemble(graph, solved)
	subgraph.TraceID = traceID
	log.Info("Assembled subgraph",
		slog.Int("nodes", len(subgraph.Nodes)),
		slog.Int("edges", len(subgraph.Edges)),
		slog.Int("components", subgraph.Components),
		slog.Bool("budgetInfeasible", subgraph.BudgetInfeasible))

	return subgraph, nil
}
