// Copyright (c) "Neo4j"
// Neo4j Sweden AB [http://neo4j.com]

// Package database runs generated statements against Neo4j once they have
// passed validation.
package database

//go:generate mockgen -destination=mocks/mock_database.go -package=mocks github.com/neo4j/cypher-agent/internal/database Service

import (
	"context"

	"github.com/neo4j/neo4j-go-driver/v6/neo4j"
)

// QueryExecutor runs read-only statements.
type QueryExecutor interface {
	// ExecuteReadQuery executes a read-only Cypher query and returns raw records
	ExecuteReadQuery(ctx context.Context, cypher string, params map[string]any) ([]*neo4j.Record, error)

	// GetQueryType classifies a statement with EXPLAIN without running it
	GetQueryType(ctx context.Context, cypher string, params map[string]any) (neo4j.StatementType, error)
}

// RecordFormatter defines the interface for formatting Neo4j records
type RecordFormatter interface {
	// Neo4jRecordsToJSON converts Neo4j records to JSON string
	Neo4jRecordsToJSON(records []*neo4j.Record) (string, error)
}

// Service combines query execution and record formatting
type Service interface {
	QueryExecutor
	RecordFormatter
	VerifyConnectivity(ctx context.Context) error
	Close(ctx context.Context) error
}
