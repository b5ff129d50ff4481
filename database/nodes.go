package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/lib/pq"
	"github.com/pgvector/pgvector-go"

	"github.com/biokg/retriever/helper"
	"github.com/biokg/retriever/model"
	loadSql "github.com/biokg/retriever/sql"
)

// NodesDBHandlerFunctions defines the interface for node database operations.
type NodesDBHandlerFunctions interface {
	InsertNode(node *model.Node) error
	SelectNode(ctx context.Context, id string) (*model.Node, error)
	SelectNodesByLabel(ctx context.Context, label string) ([]*model.Node, error)
	SelectNodesBySimilarity(ctx context.Context, embedding []float32, limit int) ([]*model.Node, error)
	DeleteNode(id string) error
}

// NodesDBHandler handles node-related database operations
type NodesDBHandler struct {
	db *helper.Database
}

// NewNodesDBHandler creates a new nodes database handler.
// It initializes the database connection and loads node-related SQL functions.
// If force is true, it will reload the SQL functions even if they already exist.
func NewNodesDBHandler(db *helper.Database, embeddingDim int, force bool) (*NodesDBHandler, error) {
	if db == nil {
		return nil, helper.NewError("database connection validation", fmt.Errorf("database connection is nil"))
	}

	nodesDbHandler := &NodesDBHandler{
		db: db,
	}

	err := loadSql.LoadNodesSql(nodesDbHandler.db.Instance, force)
	if err != nil {
		return nil, helper.NewError("load nodes sql", err)
	}

	err = nodesDbHandler.CreateTable(embeddingDim)
	if err != nil {
		return nil, helper.NewError("create table", err)
	}

	db.Logger.Info("Initialized NodesDBHandler")

	return nodesDbHandler, nil
}

// CreateTable creates the 'nodes' table in the database.
// If the table already exists, it does not create it again.
// It also creates the label and embedding indexes.
func (h *NodesDBHandler) CreateTable(embeddingDim int) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := h.db.Instance.ExecContext(ctx, `SELECT init_nodes($1);`, embeddingDim)
	if err != nil {
		log.Panicf("error initializing nodes table: %#v", err)
	}

	h.db.Logger.Info("Checked/created table nodes")

	return nil
}

// InsertNode inserts or updates a node
func (h *NodesDBHandler) InsertNode(node *model.Node) error {
	var embedding interface{}
	if len(node.Embedding) > 0 {
		embedding = pgvector.NewVector(node.Embedding)
	}

	row := h.db.Instance.QueryRow(
		`SELECT * FROM insert_node($1, $2, $3, $4, $5, $6)`,
		node.ID,
		pq.Array(node.Labels),
		node.Name,
		node.Description,
		embedding,
		node.Properties,
	)

	var createdAt time.Time
	var vec pgvector.Vector
	err := row.Scan(
		&node.ID,
		pq.Array(&node.Labels),
		&node.Name,
		&node.Description,
		&vec,
		&node.Properties,
		&createdAt,
	)
	if err != nil {
		return helper.NewError("scan", err)
	}
	node.Embedding = vec.Slice()

	return nil
}

// SelectNode retrieves a node by id. Returns model.ErrNotFound if the id is
// absent and a model.TransientError for store failures.
func (h *NodesDBHandler) SelectNode(ctx context.Context, id string) (*model.Node, error) {
	row := h.db.Instance.QueryRowContext(ctx,
		`SELECT * FROM select_node($1)`,
		id,
	)

	node := &model.Node{}
	var createdAt time.Time
	var vec pgvector.Vector
	err := row.Scan(
		&node.ID,
		pq.Array(&node.Labels),
		&node.Name,
		&node.Description,
		&vec,
		&node.Properties,
		&createdAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrNotFound
	}
	if err != nil {
		return nil, &model.TransientError{Op: "select node", Err: err}
	}
	node.Embedding = vec.Slice()

	return node, nil
}

// SelectNodesByLabel retrieves all nodes carrying a label
func (h *NodesDBHandler) SelectNodesByLabel(ctx context.Context, label string) ([]*model.Node, error) {
	rows, err := h.db.Instance.QueryContext(ctx,
		`SELECT * FROM select_nodes_by_label($1)`,
		label,
	)
	if err != nil {
		return nil, helper.NewError("query", err)
	}
	defer rows.Close()

	var nodes []*model.Node
	for rows.Next() {
		node := &model.Node{}
		var createdAt time.Time
		var vec pgvector.Vector
		err := rows.Scan(
			&node.ID,
			pq.Array(&node.Labels),
			&node.Name,
			&node.Description,
			&vec,
			&node.Properties,
			&createdAt,
		)
		if err != nil {
			return nil, helper.NewError("scan", err)
		}
		node.Embedding = vec.Slice()

		nodes = append(nodes, node)
	}

	err = rows.Err()
	if err != nil {
		return nil, helper.NewError("rows error", err)
	}

	return nodes, nil
}

// SelectNodesBySimilarity performs cosine similarity search against the node
// embedding index, ordered by descending similarity
func (h *NodesDBHandler) SelectNodesBySimilarity(ctx context.Context, embedding []float32, limit int) ([]*model.Node, error) {
	embeddingVector := pgvector.NewVector(embedding)

	rows, err := h.db.Instance.QueryContext(ctx,
		`SELECT * FROM select_nodes_by_similarity($1, $2)`,
		embeddingVector,
		limit,
	)
	if err != nil {
		return nil, &model.TransientError{Op: "similarity search", Err: err}
	}
	defer rows.Close()

	var nodes []*model.Node
	for rows.Next() {
		node := &model.Node{}
		var createdAt time.Time
		var vec pgvector.Vector
		err := rows.Scan(
			&node.ID,
			pq.Array(&node.Labels),
			&node.Name,
			&node.Description,
			&vec,
			&node.Properties,
			&createdAt,
			&node.Similarity,
		)
		if err != nil {
			return nil, helper.NewError("scan", err)
		}
		node.Embedding = vec.Slice()

		nodes = append(nodes, node)
	}

	err = rows.Err()
	if err != nil {
		return nil, helper.NewError("rows error", err)
	}

	return nodes, nil
}

// DeleteNode deletes a node by id
func (h *NodesDBHandler) DeleteNode(id string) error {
	_, err := h.db.Instance.Exec(
		`SELECT delete_node($1)`,
		id,
	)
	if err != nil {
		return helper.NewError("exec", err)
	}
	return nil
}
