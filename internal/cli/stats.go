package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var statsRun string

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show statistics for a run",
	Long: `Print document and chunk counts, configuration and query totals
for an existing run.

Example:
  syllabi stats --run demo`,
	RunE: runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
	statsCmd.Flags().StringVar(&statsRun, "run", "", "run identifier (required)")
	statsCmd.MarkFlagRequired("run")
}

func runStats(cmd *cobra.Command, args []string) error {
	eng, err := openEngine(cfg, statsRun, false)
	if err != nil {
		return err
	}
	defer eng.Close()

	stats, err := eng.Stats()
	if err != nil {
		return err
	}

	fmt.Printf("Run %s:\n", stats.RunID)
	fmt.Printf("  Documents:           %d\n", stats.DocumentCount)
	fmt.Printf("  Chunks:              %d\n", stats.ChunkCount)
	fmt.Printf("  Embedding model:     %s\n", stats.EmbeddingModel)
	fmt.Printf("  Embedding dimension: %d\n", stats.EmbeddingDimension)
	fmt.Printf("  Chunk size:          %d\n", stats.ChunkSize)
	fmt.Printf("  Queries performed:   %d\n", stats.QueryCount)
	fmt.Printf("  Created:             %s\n", eng.Config().CreatedTime().Format(time.RFC3339))
	return nil
}
