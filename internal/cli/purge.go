package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	purgeRun string
	purgeYes bool
)

var purgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Delete all indexed data for a run",
	Long: `Remove every stored vector for a run and recreate an empty store.
This cannot be undone.

Example:
  syllabi purge --run demo --yes`,
	RunE: runPurge,
}

func init() {
	rootCmd.AddCommand(purgeCmd)
	purgeCmd.Flags().StringVar(&purgeRun, "run", "", "run identifier (required)")
	purgeCmd.Flags().BoolVar(&purgeYes, "yes", false, "confirm the purge")
	purgeCmd.MarkFlagRequired("run")
}

func runPurge(cmd *cobra.Command, args []string) error {
	if !purgeYes {
		return fmt.Errorf("purge is irreversible; re-run with --yes to confirm")
	}

	eng, err := openEngine(cfg, purgeRun, false)
	if err != nil {
		return err
	}
	defer eng.Close()

	if err := eng.Purge(); err != nil {
		return err
	}

	fmt.Printf("Run %s purged.\n", purgeRun)
	return nil
}
