package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dbsmedya/objectgraph/internal/config"
	"github.com/dbsmedya/objectgraph/internal/database"
	"github.com/dbsmedya/objectgraph/internal/logger"
	"github.com/dbsmedya/objectgraph/internal/schema"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration, schema and store connectivity",
	Long: `Validate checks the configuration file, the schema edge file and the store
to ensure discovery can run.

Checks performed:
  - Configuration syntax and required fields
  - Schema edge file syntax
  - Store connectivity
  - Table existence for every type the schema declares

Example:
  objectgraph validate --config objectgraph.yaml`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	configFile := GetConfigFile()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	log, err := logger.New(&cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	log.Info("Starting validation checks...")

	fmt.Fprintf(outputWriter, "\n=== Configuration Validation ===\n")
	fmt.Fprintf(outputWriter, "Config file: %s\n", configFile)
	fmt.Fprintf(outputWriter, "Store: %s\n", cfg.Store.Driver)

	g, err := schema.Load(cfg.Schema.EdgeFile)
	if err != nil {
		fmt.Fprintf(outputWriter, "❌ Schema: %v\n", err)
		return fmt.Errorf("validation failed")
	}
	fmt.Fprintf(outputWriter, "✅ Schema: %d types, %d edges\n", len(g.Types()), g.EdgeCount())

	ctx := context.Background()
	missing, err := checkStore(ctx, &cfg.Store, g)
	if err != nil {
		fmt.Fprintf(outputWriter, "❌ Store: %v\n", err)
		return fmt.Errorf("validation failed")
	}
	fmt.Fprintf(outputWriter, "✅ Store connection\n")

	if len(missing) > 0 {
		for _, t := range missing {
			fmt.Fprintf(outputWriter, "⚠️  Type %q has no table; its edges will be skipped\n", t)
		}
	} else {
		fmt.Fprintf(outputWriter, "✅ Every schema type has a table\n")
	}

	fmt.Fprintln(outputWriter, "=== Validation Complete ===")
	return nil
}

// checkStore connects to the store and returns the schema types without a table.
func checkStore(ctx context.Context, cfg *config.StoreConfig, g *schema.Graph) ([]string, error) {
	dbManager := database.NewManager(cfg)
	if err := dbManager.Connect(ctx); err != nil {
		return nil, err
	}
	defer dbManager.Close()

	st, err := dbManager.Store()
	if err != nil {
		return nil, err
	}
	tables, err := st.ListTypes(ctx)
	if err != nil {
		return nil, err
	}
	return missingTypes(g, tables), nil
}

// missingTypes returns, sorted, the schema types absent from tables.
func missingTypes(g *schema.Graph, tables []string) []string {
	present := make(map[string]bool, len(tables))
	for _, t := range tables {
		present[t] = true
	}

	var missing []string
	for _, t := range g.Types() {
		if !present[t] {
			missing = append(missing, t)
		}
	}
	return missing
}
