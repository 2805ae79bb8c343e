package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dbsmedya/objectgraph/internal/database"
	"github.com/dbsmedya/objectgraph/internal/server"
)

var serveListen string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the discovery HTTP API",
	Long: `Serve starts the HTTP API until SIGINT or SIGTERM.

Endpoints:
  GET /api/getNetwork?type=&id=&depth_limit=&object_limit=&strategy=
  GET /api/getTypes
  GET /api/getObjectInfo?type=&id=
  GET /api/verify
  GET /healthz
  GET /metrics

Example:
  objectgraph serve --config objectgraph.yaml --listen :5000`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveListen, "listen", "",
		"Override listen address")

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if serveListen != "" {
		cfg.Server.Listen = serveListen
	}

	ctx, stop := database.ShutdownContext(context.Background(), func(sig os.Signal) {
		cmd.PrintErrf("Received %s, shutting down\n", sig)
	})
	defer stop()

	a, err := openApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	srv, err := server.New(server.Config{
		Builder:   a.builder,
		Backend:   a.store,
		Server:    cfg.Server,
		Traversal: cfg.Traversal,
		Logger:    a.log,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Serve(ctx)
}
