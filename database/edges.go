package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/lib/pq"

	"github.com/biokg/retriever/helper"
	"github.com/biokg/retriever/model"
	loadSql "github.com/biokg/retriever/sql"
)

// EdgesDBHandlerFunctions defines the interface for edge database operations.
type EdgesDBHandlerFunctions interface {
	InsertEdge(edge *model.Edge) error
	SelectEdge(ctx context.Context, id string) (*model.Edge, error)
	SelectEdgesIncident(ctx context.Context, nodeID string, labelFilter []string) ([]*model.Edge, error)
	DeleteEdge(id string) error
}

// EdgesDBHandler handles edge-related database operations
type EdgesDBHandler struct {
	db *helper.Database
}

// NewEdgesDBHandler creates a new edges database handler.
// It initializes the database connection and loads edge-related SQL functions.
// If force is true, it will reload the SQL functions even if they already exist.
func NewEdgesDBHandler(db *helper.Database, force bool) (*EdgesDBHandler, error) {
	if db == nil {
		return nil, helper.NewError("database connection validation", fmt.Errorf("database connection is nil"))
	}

	edgesDbHandler := &EdgesDBHandler{
		db: db,
	}

	err := loadSql.LoadEdgesSql(edgesDbHandler.db.Instance, force)
	if err != nil {
		return nil, helper.NewError("load edges sql", err)
	}

	err = edgesDbHandler.CreateTable()
	if err != nil {
		return nil, helper.NewError("create table", err)
	}

	db.Logger.Info("Initialized EdgesDBHandler")

	return edgesDbHandler, nil
}

// CreateTable creates the 'edges' table in the database.
// If the table already exists, it does not create it again.
// It also creates the source, target and relation indexes.
func (h *EdgesDBHandler) CreateTable() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := h.db.Instance.ExecContext(ctx, `SELECT init_edges();`)
	if err != nil {
		log.Panicf("error initializing edges table: %#v", err)
	}

	h.db.Logger.Info("Checked/created table edges")

	return nil
}

// InsertEdge inserts or updates an edge. Both endpoints must exist as nodes.
func (h *EdgesDBHandler) InsertEdge(edge *model.Edge) error {
	row := h.db.Instance.QueryRow(
		`SELECT * FROM insert_edge($1, $2, $3, $4, $5)`,
		edge.Source,
		edge.Target,
		string(edge.Relation),
		edge.Description,
		edge.Properties,
	)

	var id string
	var createdAt time.Time
	err := row.Scan(
		&id,
		&edge.Source,
		&edge.Target,
		&edge.Relation,
		&edge.Description,
		&edge.Properties,
		&createdAt,
	)
	if err != nil {
		return helper.NewError("scan", err)
	}

	return nil
}

// SelectEdge retrieves an edge by its synthetic id
func (h *EdgesDBHandler) SelectEdge(ctx context.Context, id string) (*model.Edge, error) {
	row := h.db.Instance.QueryRowContext(ctx,
		`SELECT * FROM select_edge($1)`,
		id,
	)

	edge := &model.Edge{}
	var edgeID string
	var createdAt time.Time
	err := row.Scan(
		&edgeID,
		&edge.Source,
		&edge.Target,
		&edge.Relation,
		&edge.Description,
		&edge.Properties,
		&createdAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrNotFound
	}
	if err != nil {
		return nil, &model.TransientError{Op: "select edge", Err: err}
	}

	return edge, nil
}

// SelectEdgesIncident retrieves all edges touching a node in either
// direction, with endpoint labels attached. If labelFilter is non-empty,
// only edges whose far endpoint carries at least one of the labels are
// returned. Results are ordered by edge id.
func (h *EdgesDBHandler) SelectEdgesIncident(ctx context.Context, nodeID string, labelFilter []string) ([]*model.Edge, error) {
	var labelsParam interface{}
	if len(labelFilter) > 0 {
		labelsParam = pq.Array(labelFilter)
	} else {
		labelsParam = nil
	}

	rows, err := h.db.Instance.QueryContext(ctx,
		`SELECT * FROM select_edges_incident($1, $2)`,
		nodeID,
		labelsParam,
	)
	if err != nil {
		return nil, &model.TransientError{Op: "select incident edges", Err: err}
	}
	defer rows.Close()

	var edges []*model.Edge
	for rows.Next() {
		edge := &model.Edge{}
		var id string
		var createdAt time.Time
		err := rows.Scan(
			&id,
			&edge.Source,
			&edge.Target,
			&edge.Relation,
			&edge.Description,
			&edge.Properties,
			&createdAt,
			pq.Array(&edge.SourceLabels),
			pq.Array(&edge.TargetLabels),
		)
		if err != nil {
			return nil, helper.NewError("scan", err)
		}

		edges = append(edges, edge)
	}

	err = rows.Err()
	if err != nil {
		return nil, &model.TransientError{Op: "select incident edges", Err: err}
	}

	return edges, nil
}

// DeleteEdge deletes an edge by id
func (h *EdgesDBHandler) DeleteEdge(id string) error {
	_, err := h.db.Instance.Exec(
		`SELECT delete_edge($1)`,
		id,
	)
	if err != nil {
		return helper.NewError("exec", err)
	}
	return nil
}
