// Package main runs the gym MCP server over stdio for local assistants.
// The backend mounts the same server at /mcp over HTTP.
// Tools take owner_id as an argument here, there is no proxy to set it.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/2beens/gymprogress/internal/config"
	"github.com/2beens/gymprogress/internal/db"
	"github.com/2beens/gymprogress/internal/docstore"
	"github.com/2beens/gymprogress/internal/docstore/pgstore"
	"github.com/2beens/gymprogress/internal/docstore/sqlitestore"
	"github.com/2beens/gymprogress/internal/gym"
	"github.com/2beens/gymprogress/internal/gym/catalog"
	"github.com/2beens/gymprogress/internal/gym/coverage"
	gymmcp "github.com/2beens/gymprogress/internal/gym/mcp"
	"github.com/2beens/gymprogress/internal/gym/plans"
	"github.com/2beens/gymprogress/internal/gym/sessions"
	"github.com/2beens/gymprogress/internal/gym/templates"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	log "github.com/sirupsen/logrus"
)

func main() {
	env := flag.String("env", "development", "environment [prod | production | dev | development]")
	configPath := flag.String("config", "./config.toml", "path to TOML config file")
	flag.Parse()

	// stdout belongs to the MCP transport
	log.SetOutput(os.Stderr)

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps := gymmcp.Deps{}
	var docs docstore.Store
	switch cfg.StoreBackend {
	case config.StorePostgres:
		dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
			DBHost:     cfg.PostgresHost,
			DBPort:     cfg.PostgresPort,
			DBName:     cfg.PostgresDBName,
			DBUser:     cfg.PostgresUser,
			DBPassword: os.Getenv("GYM_POSTGRES_PASS"),
		})
		if err != nil {
			log.Fatalf("db pool: %v", err)
		}
		defer dbPool.Close()
		docs = pgstore.New(dbPool, nil)
		deps.Schema = gymmcp.NewPoolSchemaRepo(dbPool)
	case config.StoreSQLite:
		store, err := sqlitestore.Open(cfg.SQLitePath, nil)
		if err != nil {
			log.Fatalf("sqlite store: %v", err)
		}
		defer store.Close()
		docs = store
	default:
		log.Fatalf("store backend %q keeps no data between processes", cfg.StoreBackend)
	}

	exercises, err := catalog.LoadExercises(cfg.CatalogPath)
	if err != nil {
		log.Fatalf("load exercise catalog: %v", err)
	}

	clock := gym.SystemClock{}
	sessionsRepo := sessions.NewRepo(docs)
	deps.Sessions = sessionsRepo
	deps.Coverage = coverage.NewService(sessionsRepo, clock, cfg.WeekLocation(), nil)
	deps.Templates = templates.NewStore(docs, clock, gym.NewID)
	deps.Plans = plans.NewRepo(docs, clock)
	deps.Catalog = catalog.New(exercises, cfg.CatalogCacheMB)

	server := gymmcp.NewServer(deps, gymmcp.TransportStdio)
	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil {
		log.Fatal(err)
	}
}
