package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dbsmedya/objectgraph/internal/database"
	"github.com/dbsmedya/objectgraph/internal/report"
	"github.com/dbsmedya/objectgraph/internal/types"
)

var (
	objectType string
	objectID   string
)

var objectCmd = &cobra.Command{
	Use:   "object",
	Short: "Print the stored document of one record",
	Long: `Object fetches one record by type and id and prints its JSON document.

Example:
  objectgraph object --type site --id 1610870269`,
	RunE: runObject,
}

func init() {
	objectCmd.Flags().StringVarP(&objectType, "type", "t", "",
		"Record type (required)")
	objectCmd.Flags().StringVarP(&objectID, "id", "i", "",
		"Record id (required)")
	objectCmd.MarkFlagRequired("type")
	objectCmd.MarkFlagRequired("id")

	rootCmd.AddCommand(objectCmd)
}

func runObject(cmd *cobra.Command, args []string) error {
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

	key := types.NodeKey{Type: objectType, ID: objectID}
	doc, err := a.store.Object(ctx, key)
	if err != nil {
		return fmt.Errorf("failed to fetch %s: %w", key, err)
	}

	return report.New(outputWriter, true).Object(key, doc)
}
