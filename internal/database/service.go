// Copyright (c) "Neo4j"
// Neo4j Sweden AB [http://neo4j.com]

package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/neo4j/cypher-agent/internal/config"
	"github.com/neo4j/neo4j-go-driver/v6/neo4j"
)

var ErrDriverNotInitialized = errors.New("neo4j driver is not initialized")

// Neo4jService is the concrete implementation of Service
type Neo4jService struct {
	driver   neo4j.Driver
	database string
}

var _ Service = (*Neo4jService)(nil)

// NewNeo4jService creates a new Neo4jService instance
func NewNeo4jService(driver neo4j.Driver, database string) (*Neo4jService, error) {
	if driver == nil {
		return nil, fmt.Errorf("driver cannot be nil")
	}

	return &Neo4jService{
		driver:   driver,
		database: database,
	}, nil
}

// Open creates a driver from cfg and wraps it. The connection is not verified.
func Open(cfg *config.Config) (*Neo4jService, error) {
	driver, err := neo4j.NewDriver(cfg.Neo4jURI, neo4j.BasicAuth(cfg.Neo4jUsername, cfg.Neo4jPassword, ""))
	if err != nil {
		return nil, fmt.Errorf("failed to create Neo4j driver: %w", err)
	}
	return NewNeo4jService(driver, cfg.Neo4jDatabase)
}

// VerifyConnectivity checks the driver can establish a valid connection with a Neo4j instance
func (s *Neo4jService) VerifyConnectivity(ctx context.Context) error {
	if s.driver == nil {
		return ErrDriverNotInitialized
	}
	if err := s.driver.VerifyConnectivity(ctx); err != nil {
		return fmt.Errorf("failed to verify database connectivity: %w", err)
	}
	return nil
}

// Close releases the driver.
func (s *Neo4jService) Close(ctx context.Context) error {
	if s.driver == nil {
		return nil
	}
	return s.driver.Close(ctx)
}

// ExecuteReadQuery executes a read-only Cypher query and returns raw records
func (s *Neo4jService) ExecuteReadQuery(ctx context.Context, cypher string, params map[string]any) ([]*neo4j.Record, error) {
	if s.driver == nil {
		return nil, ErrDriverNotInitialized
	}
	res, err := neo4j.ExecuteQuery(ctx, s.driver, cypher, params, neo4j.EagerResultTransformer, s.queryOptions(neo4j.ExecuteQueryWithReadersRouting())...)
	if err != nil {
		return nil, fmt.Errorf("failed to execute read query: %w", err)
	}

	return res.Records, nil
}

// GetQueryType prefixes the provided query with EXPLAIN and returns the query type (e.g. 'r' for read, 'w' for write, 'rw' etc.)
func (s *Neo4jService) GetQueryType(ctx context.Context, cypher string, params map[string]any) (neo4j.StatementType, error) {
	if s.driver == nil {
		return neo4j.StatementTypeUnknown, ErrDriverNotInitialized
	}

	explainedQuery := strings.Join([]string{"EXPLAIN", cypher}, " ")
	res, err := neo4j.ExecuteQuery(ctx, s.driver, explainedQuery, params, neo4j.EagerResultTransformer, s.queryOptions()...)
	if err != nil {
		return neo4j.StatementTypeUnknown, fmt.Errorf("error during GetQueryType: %w", err)
	}

	if res.Summary == nil {
		return neo4j.StatementTypeUnknown, errors.New("error during GetQueryType: no summary returned for explained query")
	}

	return res.Summary.StatementType(), nil
}

// Neo4jRecordsToJSON converts Neo4j records to JSON string
func (s *Neo4jService) Neo4jRecordsToJSON(records []*neo4j.Record) (string, error) {
	return RecordsToJSON(records)
}

// RecordsToJSON renders records as an indented JSON array of key/value objects.
func RecordsToJSON(records []*neo4j.Record) (string, error) {
	results := make([]map[string]any, 0, len(records))
	for _, record := range records {
		results = append(results, record.AsMap())
	}

	formattedResponse, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to format records as JSON: %w", err)
	}

	return string(formattedResponse), nil
}

func (s *Neo4jService) queryOptions(extra ...neo4j.ExecuteQueryConfigurationOption) []neo4j.ExecuteQueryConfigurationOption {
	options := make([]neo4j.ExecuteQueryConfigurationOption, 0, len(extra)+1)
	if s.database != "" {
		options = append(options, neo4j.ExecuteQueryWithDatabase(s.database))
	}
	return append(options, extra...)
}

// IsReadOnly reports whether t can run without modifying the graph.
func IsReadOnly(t neo4j.StatementType) bool {
	return t == neo4j.StatementTypeReadOnly
}
