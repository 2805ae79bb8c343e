package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dbsmedya/objectgraph/internal/database"
	"github.com/dbsmedya/objectgraph/internal/discovery"
	"github.com/dbsmedya/objectgraph/internal/report"
)

var (
	discoverType   string
	discoverID     string
	discoverOutput string
	discoverColor  bool
)

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Discover the records related to a seed record",
	Long: `Discover walks the store from one seed record, following every reference
declared by the schema edge file, and prints the indexed result graph.

Traversal stops when the object limit is reached, when nothing is left to
expand or, for breadth-first runs, after the depth limit.

Example:
  objectgraph discover --config objectgraph.yaml --type adunit --id 536873591
  objectgraph discover --type account --id 537237219 --strategy dfs --object-limit 500 --output json`,
	RunE: runDiscover,
}

func init() {
	discoverCmd.Flags().StringVarP(&discoverType, "type", "t", "",
		"Seed record type (required)")
	discoverCmd.Flags().StringVarP(&discoverID, "id", "i", "",
		"Seed record id (required)")
	discoverCmd.Flags().StringVarP(&discoverOutput, "output", "o", report.FormatTable,
		"Output format (table, json)")
	discoverCmd.Flags().BoolVar(&discoverColor, "color", true,
		"Colorize table output")
	discoverCmd.MarkFlagRequired("type")
	discoverCmd.MarkFlagRequired("id")

	rootCmd.AddCommand(discoverCmd)
}

func runDiscover(cmd *cobra.Command, args []string) error {
	if discoverOutput != report.FormatTable && discoverOutput != report.FormatJSON {
		return fmt.Errorf("unknown output format %q", discoverOutput)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	// The report owns stdout.
	if cfg.Logging.Output == "stdout" || cfg.Logging.Output == "" {
		cfg.Logging.Output = "stderr"
	}

	ctx, stop := database.ShutdownContext(context.Background(), nil)
	defer stop()

	a, err := openApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	rg, err := a.builder.Run(ctx, discovery.Request{
		Strategy:    cfg.Traversal.Strategy,
		SeedType:    discoverType,
		SeedID:      discoverID,
		DepthLimit:  cfg.Traversal.DepthLimit,
		ObjectLimit: cfg.Traversal.ObjectLimit,
	})
	if err != nil {
		return fmt.Errorf("discovery failed: %w", err)
	}

	return report.New(outputWriter, discoverColor).Render(rg, discoverOutput)
}
