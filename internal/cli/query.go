package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	queryRun       string
	queryText      string
	queryTopK      int
	queryThreshold float64
	querySources   []string
	queryJSON      bool
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Retrieve relevant chunks from a run",
	Long: `Embed a query and return the most similar stored chunks, ranked by
cosine similarity.

Examples:
  syllabi query --run demo -q "matrix multiplication"
  syllabi query --run demo -q "syllabus outline" --top-k 10 --threshold 0.7
  syllabi query --run demo -q "reading list" --source /notes/week1.md`,
	RunE: runQuery,
}

func init() {
	rootCmd.AddCommand(queryCmd)
	queryCmd.Flags().StringVar(&queryRun, "run", "", "run identifier (required)")
	queryCmd.Flags().StringVarP(&queryText, "query", "q", "", "search query (required)")
	queryCmd.Flags().IntVarP(&queryTopK, "top-k", "k", 0, "number of results (default from config)")
	queryCmd.Flags().Float64Var(&queryThreshold, "threshold", -1, "minimum similarity score (default from config)")
	queryCmd.Flags().StringArrayVar(&querySources, "source", nil, "restrict to these source ids (repeatable)")
	queryCmd.Flags().BoolVar(&queryJSON, "json", false, "output as JSON")
	queryCmd.MarkFlagRequired("run")
	queryCmd.MarkFlagRequired("query")
}

func runQuery(cmd *cobra.Command, args []string) error {
	eng, err := openEngine(cfg, queryRun, false)
	if err != nil {
		return err
	}
	defer eng.Close()

	topK := cfg.RAG.TopK
	if queryTopK > 0 {
		topK = queryTopK
	}
	threshold := cfg.RAG.Threshold
	if queryThreshold >= 0 {
		threshold = queryThreshold
	}

	results, err := eng.Retrieve(queryText, topK, threshold, querySources)
	if err != nil {
		return fmt.Errorf("retrieval failed: %w", err)
	}

	if queryJSON {
		output, _ := json.MarshalIndent(results, "", "  ")
		fmt.Println(string(output))
		return nil
	}

	if len(results) == 0 {
		fmt.Println("No results found.")
		return nil
	}

	fmt.Printf("Found %d result(s) for: %s\n\n", len(results), queryText)
	for i, r := range results {
		source := r.Source
		if source == "" {
			source = "(no source)"
		}
		fmt.Printf("--- [%d] %s (score: %.3f) ---\n", i+1, source, r.Score)
		text := r.Text
		if len(text) > 500 {
			text = text[:500] + "..."
		}
		fmt.Println(text)
		fmt.Println()
	}
	return nil
}
