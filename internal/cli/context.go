package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"syllabi/internal/usecase"
)

var (
	contextFile     string
	contextRun      string
	contextQuery    string
	contextMaxItems int
)

var contextCmd = &cobra.Command{
	Use:   "context",
	Short: "Assemble a bounded context block for prompting",
	Long: `Format collected resources (or retrieval results) into a single
text block with Web Resources, Local Resources and Keywords sections.

Examples:
  syllabi context -f resources.json
  syllabi context --run demo -q "lesson plan" --max-items 3`,
	RunE: runContext,
}

func init() {
	rootCmd.AddCommand(contextCmd)
	contextCmd.Flags().StringVarP(&contextFile, "file", "f", "", "resource set JSON file")
	contextCmd.Flags().StringVar(&contextRun, "run", "", "run to retrieve from (with --query)")
	contextCmd.Flags().StringVarP(&contextQuery, "query", "q", "", "query for retrieval-based context")
	contextCmd.Flags().IntVar(&contextMaxItems, "max-items", 0, "max resources per section (default from config)")
}

func runContext(cmd *cobra.Command, args []string) error {
	maxItems := cfg.Collect.MaxContextItems
	if contextMaxItems > 0 {
		maxItems = contextMaxItems
	}
	assembler := usecase.NewContextAssembler(maxItems)

	switch {
	case contextRun != "" && contextQuery != "":
		eng, err := openEngine(cfg, contextRun, false)
		if err != nil {
			return err
		}
		defer eng.Close()

		results, err := eng.Retrieve(contextQuery, cfg.RAG.TopK, cfg.RAG.Threshold, nil)
		if err != nil {
			return fmt.Errorf("retrieval failed: %w", err)
		}
		fmt.Println(assembler.BuildFromResults(results))
		return nil

	case contextFile != "":
		set, err := usecase.LoadResourceSet(contextFile)
		if err != nil {
			return fmt.Errorf("failed to load resource set: %w", err)
		}
		fmt.Println(assembler.Build(set))
		return nil

	default:
		return fmt.Errorf("pass either -f <resources.json> or --run with -q")
	}
}
