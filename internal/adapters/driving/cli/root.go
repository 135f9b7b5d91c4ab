// Package cli implements the loreseek command line interface.
package cli

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/loreseek/internal/adapters/driven/config/file"
	"github.com/custodia-labs/loreseek/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

var (
	flagConfig  string
	flagVerbose bool
)

var rootCmd = &cobra.Command{
	Use:   "loreseek",
	Short: "Hybrid retrieval over a game lore corpus",
	Long: `Loreseek builds and serves a hybrid retrieval engine over rendered
game lore text: keyword (BM25) and semantic (vector) search fused with
reciprocal rank fusion, partitioned per language.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		// API keys may live in a .env next to the binary; missing is fine.
		_ = godotenv.Load()
		logger.SetVerbose(flagVerbose)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "config file (default ~/.loreseek/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "verbose logging")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig resolves and loads the TOML configuration.
func loadConfig() (*file.Config, error) {
	path := flagConfig
	if path == "" {
		var err error
		path, err = file.DefaultPath()
		if err != nil {
			return nil, err
		}
	}
	return file.Load(path)
}
