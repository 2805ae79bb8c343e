package cmd

import (
	"github.com/spf13/cobra"

	"github.com/dbsmedya/objectgraph/internal/config"
	"github.com/dbsmedya/objectgraph/internal/report"
	"github.com/dbsmedya/objectgraph/internal/schema"
)

var schemaFile string

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Show the type-level edges of the schema edge file",
	Long: `Schema parses the edge file and prints every declared edge and, per type,
the types it points to and is pointed to by. No store connection is made.

Example:
  objectgraph schema --file connections.txt`,
	RunE: runSchema,
}

func init() {
	schemaCmd.Flags().StringVarP(&schemaFile, "file", "f", "",
		"Schema edge file (defaults to schema.edge_file from the config)")

	rootCmd.AddCommand(schemaCmd)
}

func runSchema(cmd *cobra.Command, args []string) error {
	path := schemaFile
	if path == "" {
		cfg, err := config.Load(GetConfigFile())
		if err != nil {
			path = config.DefaultConfig().Schema.EdgeFile
		} else {
			path = cfg.Schema.EdgeFile
		}
	}

	g, err := schema.Load(path)
	if err != nil {
		return err
	}

	report.New(outputWriter, true).Schema(g)
	return nil
}
