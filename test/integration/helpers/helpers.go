// Copyright (c) "Neo4j"
// Neo4j Sweden AB [http://neo4j.com]

//go:build integration

// Package helpers isolates integration tests from each other by giving every
// test its own labels.
package helpers

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/neo4j/cypher-agent/internal/database"
	"github.com/neo4j/cypher-agent/test/integration/containerrunner"
	"github.com/neo4j/neo4j-go-driver/v6/neo4j"
)

// UniqueLabel is a label suffixed with the ID of the test that created it.
type UniqueLabel string

func (ul UniqueLabel) String() string {
	return string(ul)
}

// TestContext holds the per-test database handles.
type TestContext struct {
	Ctx     context.Context
	T       *testing.T
	TestID  string
	Service *database.Neo4jService

	createdLabels map[string]bool
	labelMutex    sync.Mutex
}

// NewTestContext creates a test context whose data is removed on cleanup.
func NewTestContext(t *testing.T) *TestContext {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	tc := &TestContext{
		Ctx:           ctx,
		T:             t,
		TestID:        makeTestID(),
		createdLabels: make(map[string]bool),
	}
	t.Cleanup(func() {
		tc.Cleanup()
		cancel()
	})

	svc, err := database.NewNeo4jService(containerrunner.Driver(), containerrunner.Config().Neo4jDatabase)
	if err != nil {
		t.Fatalf("failed to create Neo4j service: %v", err)
	}
	tc.Service = svc
	return tc
}

// Cleanup deletes every node carrying a label created by this test.
func (tc *TestContext) Cleanup() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	tc.labelMutex.Lock()
	labels := make([]string, 0, len(tc.createdLabels))
	for label := range tc.createdLabels {
		labels = append(labels, label)
	}
	tc.labelMutex.Unlock()

	for _, label := range labels {
		query := fmt.Sprintf("MATCH (n:%s) DETACH DELETE n", label)
		if err := tc.write(ctx, query, nil); err != nil {
			log.Printf("Warning: cleanup failed for label=%s: %v", label, err)
		}
	}
}

// UniqueLabel returns the test-scoped form of label and tracks it for cleanup.
func (tc *TestContext) UniqueLabel(label string) UniqueLabel {
	unique := UniqueLabel(fmt.Sprintf("%s_%s", label, tc.TestID))

	tc.labelMutex.Lock()
	tc.createdLabels[string(unique)] = true
	tc.labelMutex.Unlock()

	return unique
}

// SeedNode creates a node with a test-scoped label and returns the label.
func (tc *TestContext) SeedNode(label string, props map[string]any) UniqueLabel {
	tc.T.Helper()

	unique := tc.UniqueLabel(label)
	query := fmt.Sprintf("CREATE (n:%s $props)", unique)
	if err := tc.write(tc.Ctx, query, map[string]any{"props": props}); err != nil {
		tc.T.Fatalf("failed to seed %s: %v", unique, err)
	}
	return unique
}

// Labels returns the labels currently present in the database.
func (tc *TestContext) Labels() []string {
	tc.T.Helper()

	res, err := neo4j.ExecuteQuery(tc.Ctx, containerrunner.Driver(),
		"CALL db.labels() YIELD label RETURN label ORDER BY label",
		nil, neo4j.EagerResultTransformer, tc.databaseOption())
	if err != nil {
		tc.T.Fatalf("failed to list labels: %v", err)
	}
	labels := make([]string, 0, len(res.Records))
	for _, record := range res.Records {
		label, _, err := neo4j.GetRecordValue[string](record, "label")
		if err != nil {
			tc.T.Fatalf("unexpected label record: %v", err)
		}
		labels = append(labels, label)
	}
	return labels
}

func (tc *TestContext) write(ctx context.Context, query string, params map[string]any) error {
	_, err := neo4j.ExecuteQuery(ctx, containerrunner.Driver(), query, params,
		neo4j.EagerResultTransformer, tc.databaseOption(), neo4j.ExecuteQueryWithWritersRouting())
	return err
}

func (tc *TestContext) databaseOption() neo4j.ExecuteQueryConfigurationOption {
	return neo4j.ExecuteQueryWithDatabase(containerrunner.Config().Neo4jDatabase)
}

// makeTestID returns a label-safe identifier.
func makeTestID() string {
	return "test_" + strings.ReplaceAll(uuid.NewString(), "-", "")
}
