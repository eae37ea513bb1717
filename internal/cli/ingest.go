package cli

import (
	"fmt"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"syllabi/internal/domain"
	"syllabi/internal/usecase"
)

var ingestRun string

var ingestCmd = &cobra.Command{
	Use:   "ingest [resource-set.json]",
	Short: "Index a collected resource set into a run",
	Long: `Chunk, embed and store the resources of a collected set into the
vector store of a run. The run is created if it does not exist yet.

Examples:
  syllabi ingest --run demo resources.json
  syllabi ingest --run demo    # uses resources.json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
	ingestCmd.Flags().StringVar(&ingestRun, "run", "", "run identifier (required)")
	ingestCmd.MarkFlagRequired("run")
}

func runIngest(cmd *cobra.Command, args []string) error {
	path := "resources.json"
	if len(args) > 0 {
		path = args[0]
	}

	set, err := usecase.LoadResourceSet(path)
	if err != nil {
		return fmt.Errorf("failed to load resource set: %w", err)
	}

	eng, err := openEngine(cfg, ingestRun, true)
	if err != nil {
		return fmt.Errorf("failed to open run: %w", err)
	}
	defer eng.Close()

	type item struct {
		res       *domain.Resource
		namespace string
	}
	var items []item
	for _, id := range set.URLOrder() {
		items = append(items, item{set.URLs[id], "url"})
	}
	for _, id := range set.FileOrder() {
		items = append(items, item{set.Files[id], "file"})
	}

	if len(items) == 0 {
		fmt.Println("Resource set is empty, nothing to ingest.")
		return nil
	}

	bar := progressbar.NewOptions(len(items),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("Ingesting"),
		progressbar.OptionOnCompletion(func() {
			fmt.Println()
		}),
	)

	var failed int
	for _, it := range items {
		metadata := map[string]string{
			"namespace": it.namespace,
			"title":     it.res.Title,
		}
		if _, err := eng.AddDocument(it.res.Content, metadata, it.res.ID); err != nil {
			logger.Error("failed to ingest resource", "id", it.res.ID, "error", err)
			failed++
		}
		bar.Add(1)
	}

	counters := eng.Counters()
	fmt.Printf("\nIngest complete:\n")
	fmt.Printf("  Run:             %s\n", eng.RunID())
	fmt.Printf("  Documents added: %d\n", counters.DocumentsAdded)
	fmt.Printf("  Chunks added:    %d\n", counters.ChunksAdded)
	if failed > 0 {
		fmt.Printf("  Failed:          %d\n", failed)
	}
	return nil
}
