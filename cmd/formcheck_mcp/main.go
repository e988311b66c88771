// Package main runs the assessments MCP server over stdio (for local use in editors).
// The same MCP server is also mounted on the service at /mcp over HTTP.
package main

import (
	"context"
	"flag"
	"os"

	"github.com/2beens/formcheck/internal/assessment"
	assessmentmcp "github.com/2beens/formcheck/internal/assessment/mcp"
	"github.com/2beens/formcheck/internal/config"
	"github.com/2beens/formcheck/internal/db"
	"github.com/2beens/formcheck/internal/exercise"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	log "github.com/sirupsen/logrus"
)

func main() {
	env := flag.String("env", "development", "environment [prod | production | dev | development]")
	configPath := flag.String("config", "./config.toml", "path to TOML config file")
	flag.Parse()

	// stdout is the MCP transport
	log.SetOutput(os.Stderr)

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx := context.Background()
	dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost:         cfg.PostgresHost,
		DBPort:         cfg.PostgresPort,
		DBName:         cfg.PostgresDBName,
		DBPassword:     os.Getenv("FORMCHECK_DB_PASS"),
		TracingEnabled: false,
	})
	if err != nil {
		log.Fatalf("db pool: %v", err)
	}
	defer dbPool.Close()

	table, err := exercise.LoadTable(cfg.ReferenceMetricsPath)
	if err != nil {
		log.Fatalf("load reference metrics: %v", err)
	}

	service := assessment.NewService(assessment.ServiceParams{
		Repo:  assessment.NewRepo(dbPool),
		Table: table,
	})
	server := assessmentmcp.NewServer(dbPool, service)

	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil {
		log.Error(err)
	}
}
