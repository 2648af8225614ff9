package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"lifeexp/app"
	"lifeexp/internal"
	"lifeexp/internal/config"
	"lifeexp/internal/container"
)

var (
	// Global flags
	verbose       bool
	artifactsRoot string
	variantName   string

	logger *internal.Logger
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "lifeexp",
		Short: "Predict life expectancy from national health and economic indicators",
		Long: `lifeexp runs the trained life-expectancy models from the command line.

Artifacts are read from ARTIFACTS_ROOT (or --artifacts-root); run
"lifeexp fixtures DIR" to create a synthetic set for local use.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
				return fmt.Errorf("failed to read .env: %w", err)
			}
			level := internal.LogLevelWarn
			if verbose {
				level = internal.LogLevelDebug
			}
			logger = internal.NewLogger(level)
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				logger.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&artifactsRoot, "artifacts-root", "", "Directory holding the variant artifact folders (overrides ARTIFACTS_ROOT)")
	rootCmd.PersistentFlags().StringVar(&variantName, "variant", "", "Model variant to use (default: first configured)")

	rootCmd.AddCommand(
		newPredictCmd(),
		newBatchCmd(),
		newInfoCmd(),
		newTUICmd(),
		newFixturesCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadContainer builds the container from environment and global flags.
func loadContainer() (*container.Container, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if artifactsRoot != "" {
		cfg.Artifacts.Root = artifactsRoot
	}
	return container.New(cfg, logger)
}

// loadPredictor resolves --variant to a ready prediction service.
func loadPredictor(cmd *cobra.Command) (*app.PredictionService, error) {
	c, err := loadContainer()
	if err != nil {
		return nil, err
	}
	name := variantName
	if name == "" {
		if name, err = c.DefaultVariant(); err != nil {
			return nil, err
		}
	}
	return c.Predictor(cmd.Context(), name)
}
