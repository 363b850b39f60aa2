// Copyright (c) "Neo4j"
// Neo4j Sweden AB [http://neo4j.com]

package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/neo4j/cypher-agent/internal/cli"
	"github.com/neo4j/cypher-agent/internal/mcpclient"
)

// Set via ldflags at build time.
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mcpclient.ClientInfo.Version = version

	if err := cli.NewRootCmd(version).ExecuteContext(ctx); err != nil {
		stop()
		var exitErr *cli.ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}
