package cmd

import (
	"io"
	"os"

	"github.com/spf13/cobra"
)

// Version information (set via ldflags at build time)
var (
	Version = "0.0.1-dev"
	Commit  = "unknown"
)

// CLI flags that override config file values
var (
	cfgFile     string
	logLevel    string
	logFormat   string
	strategy    string
	objectLimit int
	depthLimit  int
)

// outputWriter is used for printing reports, can be overridden in tests
var outputWriter io.Writer = os.Stdout

// setOutputWriter sets the output writer (used for testing)
func setOutputWriter(w io.Writer) {
	outputWriter = w
}

// resetOutputWriter resets output to stdout (used for testing)
func resetOutputWriter() {
	outputWriter = os.Stdout
}

var rootCmd = &cobra.Command{
	Use:   "objectgraph",
	Short: "Related-record discovery over JSON document stores",
	Long: `Discover the neighborhood of a record in a store whose relationships are
known only through a type-level edge file and field naming conventions.

Features:
  - Breadth-first and depth-first discovery with object and depth limits
  - MySQL and PostgreSQL document tables
  - Scalar, collection and reverse reference lookups
  - HTTP API with Prometheus metrics`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: false,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	// Config file flag
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "objectgraph.yaml",
		"Path to configuration file")

	// Logging overrides
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"Override log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "",
		"Override log format (json, text)")

	// Traversal overrides
	rootCmd.PersistentFlags().StringVar(&strategy, "strategy", "",
		"Override traversal strategy (bfs, dfs)")
	rootCmd.PersistentFlags().IntVar(&objectLimit, "object-limit", 0,
		"Override the maximum number of records discovered")
	rootCmd.PersistentFlags().IntVar(&depthLimit, "depth-limit", 0,
		"Override the maximum number of breadth-first layers")
}

// GetConfigFile returns the config file path
func GetConfigFile() string {
	return cfgFile
}

// CLIOverrides contains flag values that override config file settings
type CLIOverrides struct {
	LogLevel    string
	LogFormat   string
	Strategy    string
	ObjectLimit int
	DepthLimit  int
	// DepthLimitSet is true when --depth-limit was given, so 0 can override.
	DepthLimitSet bool
}

// GetCLIOverrides returns the CLI flag override values
func GetCLIOverrides() CLIOverrides {
	return CLIOverrides{
		LogLevel:    logLevel,
		LogFormat:   logFormat,
		Strategy:    strategy,
		ObjectLimit: objectLimit,
		DepthLimit:  depthLimit,

		DepthLimitSet: rootCmd.PersistentFlags().Changed("depth-limit"),
	}
}
