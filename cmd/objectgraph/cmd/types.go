package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dbsmedya/objectgraph/internal/database"
	"github.com/dbsmedya/objectgraph/internal/report"
)

var typesCmd = &cobra.Command{
	Use:   "types",
	Short: "List the record types in the store",
	Long: `Types lists every table of the store. Types declared by the schema edge
file are marked.

Example:
  objectgraph types --config objectgraph.yaml`,
	RunE: runTypes,
}

func init() {
	rootCmd.AddCommand(typesCmd)
}

func runTypes(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := database.ShutdownContext(context.Background(), nil)
	defer stop()
	a, err := openApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	tables, err := a.store.ListTypes(ctx)
	if err != nil {
		return fmt.Errorf("failed to list types: %w", err)
	}

	report.New(outputWriter, true).Types(tables, a.schema)
	return nil
}
