package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"syllabi/config"
)

var (
	cfgFile string
	cfg     *config.Config
	baseDir string
	logger  *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "syllabi",
	Short: "Curriculum RAG - collect resources and retrieve grounded context",
	Long: `syllabi collects curriculum content from web pages and local files,
deduplicates and bounds it, and indexes it into a per-run vector store
for retrieval-augmented generation.

Example usage:
  syllabi collect --url https://example.org/intro --path ./notes
  syllabi ingest --run demo ./notes
  syllabi query --run demo -q "key concepts"
  syllabi context -f resources.json`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error

		if cfgFile != "" {
			cfg, err = config.Load(cfgFile)
		} else {
			wd, werr := os.Getwd()
			if werr != nil {
				return fmt.Errorf("failed to get working directory: %w", werr)
			}
			cfg, err = config.LoadFromDir(wd)
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		if baseDir != "" {
			cfg.RAG.BaseDir = baseDir
		}

		logger = newLogger(cfg.Logging.Level)
		return nil
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./syllabi.yaml)")
	rootCmd.PersistentFlags().StringVar(&baseDir, "base-dir", "", "base directory for run data (default from config)")
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
