package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/biokg/retriever/helper"
	"github.com/biokg/retriever/model"
)

// Neo4jStore is a read-only graph accessor backed by a Neo4j or openCypher
// compatible store. It implements the same graph read interface as Store and
// serves deployments where the knowledge graph lives in a dedicated graph
// database instead of PostgreSQL.
type Neo4jStore struct {
	Driver   neo4j.DriverWithContext
	Database string
	log      *slog.Logger
}

// NewNeo4jStore connects to a Neo4j instance and verifies connectivity
func NewNeo4jStore(ctx context.Context, uri, username, password, database string, logger *slog.Logger) (*Neo4jStore, error) {
	auth := neo4j.BasicAuth(username, password, "")
	driver, err := neo4j.NewDriverWithContext(uri, auth, func(cfg *neo4j.Config) {
		cfg.MaxConnectionPoolSize = 50
		cfg.SocketConnectTimeout = 10 * time.Second
	})
	if err != nil {
		return nil, helper.NewError("init neo4j driver", err)
	}

	if err := driver.VerifyConnectivity(ctx); err != nil {
		_ = driver.Close(ctx)
		return nil, helper.NewError("verify neo4j connectivity", err)
	}

	logger.Info("Connected to neo4j", slog.String("uri", uri))

	return &Neo4jStore{
		Driver:   driver,
		Database: database,
		log:      logger,
	}, nil
}

// Close closes the underlying driver
func (s *Neo4jStore) Close(ctx context.Context) error {
	if s == nil || s.Driver == nil {
		return nil
	}
	return s.Driver.Close(ctx)
}

// GetNode fetches a node snapshot by id. Returns model.ErrNotFound if no node
// carries the id and a model.TransientError for driver failures.
func (s *Neo4jStore) GetNode(ctx context.Context, id string) (*model.Node, error) {
	session := s.Driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeRead,
		DatabaseName: s.Database,
	})
	defer session.Close(ctx)

	result, err := session.Run(ctx,
		`MATCH (n {id: $id})
		 RETURN n.id AS id, labels(n) AS labels, n.name AS name,
		        coalesce(n.description, '') AS description, n.embedding AS embedding`,
		map[string]any{"id": id},
	)
	if err != nil {
		return nil, &model.TransientError{Op: "neo4j get node", Err: err}
	}

	if !result.Next(ctx) {
		if err := result.Err(); err != nil {
			return nil, &model.TransientError{Op: "neo4j get node", Err: err}
		}
		return nil, model.ErrNotFound
	}

	return nodeFromRecord(result.Record())
}

// GetEdges fetches the edges incident to a node in either direction,
// optionally filtered by far endpoint labels, ordered by edge id.
func (s *Neo4jStore) GetEdges(ctx context.Context, id string, filter *model.EdgeFilter) ([]*model.Edge, error) {
	session := s.Driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeRead,
		DatabaseName: s.Database,
	})
	defer session.Close(ctx)

	var labels []string
	if filter != nil {
		labels = filter.Labels
	}

	result, err := session.Run(ctx,
		`MATCH (n {id: $id})-[r]-(m)
		 WHERE size($labels) = 0 OR any(l IN labels(m) WHERE l IN $labels)
		 WITH n, r, m, startNode(r) AS src, endNode(r) AS tgt
		 RETURN src.id AS source, tgt.id AS target, type(r) AS relation,
		        coalesce(r.description, '') AS description,
		        labels(src) AS source_labels, labels(tgt) AS target_labels
		 ORDER BY source + '__' + relation + '__' + target`,
		map[string]any{"id": id, "labels": labels},
	)
	if err != nil {
		return nil, &model.TransientError{Op: "neo4j get edges", Err: err}
	}

	var edges []*model.Edge
	for result.Next(ctx) {
		record := result.Record()
		edge := &model.Edge{
			Source:       stringValue(record, "source"),
			Target:       stringValue(record, "target"),
			Relation:     model.RelationType(stringValue(record, "relation")),
			Description:  stringValue(record, "description"),
			SourceLabels: stringsValue(record, "source_labels"),
			TargetLabels: stringsValue(record, "target_labels"),
		}
		edges = append(edges, edge)
	}
	if err := result.Err(); err != nil {
		return nil, &model.TransientError{Op: "neo4j get edges", Err: err}
	}

	return edges, nil
}

func nodeFromRecord(record *neo4j.Record) (*model.Node, error) {
	node := &model.Node{
		ID:          stringValue(record, "id"),
		Labels:      stringsValue(record, "labels"),
		Name:        stringValue(record, "name"),
		Description: stringValue(record, "description"),
	}
	if node.ID == "" {
		return nil, fmt.Errorf("neo4j node record missing id")
	}

	if raw, ok := record.Get("embedding"); ok && raw != nil {
		values, ok := raw.([]any)
		if !ok {
			return nil, fmt.Errorf("neo4j node %s has malformed embedding", node.ID)
		}
		embedding := make([]float32, 0, len(values))
		for _, v := range values {
			f, ok := v.(float64)
			if !ok {
				return nil, fmt.Errorf("neo4j node %s has malformed embedding", node.ID)
			}
			embedding = append(embedding, float32(f))
		}
		node.Embedding = embedding
	}

	return node, nil
}

func stringValue(record *neo4j.Record, key string) string {
	raw, ok := record.Get(key)
	if !ok || raw == nil {
		return ""
	}
	s, _ := raw.(string)
	return s
}

func stringsValue(record *neo4j.Record, key string) []string {
	raw, ok := record.Get(key)
	if !ok || raw == nil {
		return nil
	}
	values, ok := raw.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
