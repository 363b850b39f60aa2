// Copyright (c) "Neo4j"
// Neo4j Sweden AB [http://neo4j.com]

//go:build integration

// Package containerrunner provides the Neo4j instance shared by the
// integration tests, either a testcontainer or an externally managed server.
package containerrunner

import (
	"context"
	"fmt"
	"io"
	"log"
	"sync"
	"time"

	"github.com/neo4j/cypher-agent/internal/config"
	"github.com/neo4j/neo4j-go-driver/v6/neo4j"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

var (
	container testcontainers.Container
	driver    neo4j.Driver
	cfg       *config.Config
	once      sync.Once
)

// useContainer is false when CYPHER_AGENT_USE_CONTAINER_FOR_INTEGRATION_TESTS
// is "false"; NEO4J_URI then points at a running server.
func useContainer() bool {
	return config.ParseBool(config.GetEnv("CYPHER_AGENT_USE_CONTAINER_FOR_INTEGRATION_TESTS"), true)
}

// Start initializes the shared database once.
func Start(ctx context.Context) {
	once.Do(func() {
		startOnce(ctx)
	})
}

// Driver returns the shared driver.
func Driver() neo4j.Driver {
	if driver == nil {
		log.Fatal("driver is not initialized")
	}
	return driver
}

// Config returns the database settings of the shared instance.
func Config() *config.Config {
	if cfg == nil {
		log.Fatal("config is not initialized")
	}
	return cfg
}

func startOnce(ctx context.Context) {
	cfg = &config.Config{
		Neo4jURI:      config.GetEnvWithDefault("NEO4J_URI", "bolt://localhost:7687"),
		Neo4jUsername: config.GetEnvWithDefault("NEO4J_USERNAME", "neo4j"),
		Neo4jPassword: config.GetEnvWithDefault("NEO4J_PASSWORD", "password"),
		Neo4jDatabase: config.GetEnvWithDefault("NEO4J_DATABASE", "neo4j"),
	}

	if useContainer() {
		ctr, boltURI, err := createNeo4jContainer(ctx)
		if err != nil {
			log.Fatalf("failed to start shared neo4j container: %v", err)
		}
		container = ctr
		cfg.Neo4jURI = boltURI
	}

	drv, err := neo4j.NewDriver(cfg.Neo4jURI, neo4j.BasicAuth(cfg.Neo4jUsername, cfg.Neo4jPassword, ""))
	if err != nil {
		terminate(ctx)
		log.Fatalf("failed to create driver: %v", err)
	}
	driver = drv

	if err := waitForConnectivity(ctx); err != nil {
		Close(ctx)
		log.Fatalf("failed to verify connectivity: %v", err)
	}
}

// Close releases the driver and the container, if one was started.
func Close(ctx context.Context) {
	if driver != nil {
		if err := driver.Close(ctx); err != nil {
			log.Printf("Warning: failed to close driver: %v", err)
		}
	}
	terminate(ctx)
}

func terminate(ctx context.Context) {
	if container == nil {
		return
	}
	if err := container.Terminate(ctx); err != nil {
		log.Printf("Warning: failed to terminate container: %v", err)
	}
}

func createNeo4jContainer(ctx context.Context) (testcontainers.Container, string, error) {
	req := testcontainers.ContainerRequest{
		Image:        config.GetEnvWithDefault("NEO4J_IMAGE", "neo4j:5.24.2-community"),
		ExposedPorts: []string{"7687/tcp"},
		Env: map[string]string{
			"NEO4J_AUTH": fmt.Sprintf("%s/%s", cfg.Neo4jUsername, cfg.Neo4jPassword),
		},
		WaitingFor: wait.ForListeningPort("7687/tcp").WithStartupTimeout(119 * time.Second),
	}

	ctr, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, "", err
	}

	host, err := ctr.Host(ctx)
	if err != nil {
		_ = ctr.Terminate(ctx)
		return nil, "", err
	}

	port, err := ctr.MappedPort(ctx, "7687/tcp")
	if err != nil {
		_ = ctr.Terminate(ctx)
		return nil, "", err
	}

	return ctr, fmt.Sprintf("bolt://%s:%s", host, port.Port()), nil
}

// waitForConnectivity retries with exponential backoff capped at two seconds.
func waitForConnectivity(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	backoff := 100 * time.Millisecond
	maxBackoff := 2 * time.Second

	var lastErr error
	for {
		err := driver.VerifyConnectivity(ctx)
		if err == nil {
			return nil
		}
		lastErr = err

		if ctx.Err() != nil {
			break
		}

		time.Sleep(backoff)
		backoff = min(backoff*2, maxBackoff)
	}

	if logs := containerLogs(); logs != "" {
		return fmt.Errorf("neo4j connectivity not ready: %w\ncontainer logs:\n%s", lastErr, logs)
	}
	return fmt.Errorf("neo4j connectivity not ready: %w", lastErr)
}

func containerLogs() string {
	if container == nil {
		return ""
	}
	rc, err := container.Logs(context.Background())
	if err != nil || rc == nil {
		return ""
	}
	defer rc.Close()
	b, err := io.ReadAll(rc)
	if err != nil {
		return ""
	}
	return string(b)
}
