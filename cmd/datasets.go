package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-fight-careers/internal/report"
)

var datasetsCmd = &cobra.Command{
	Use:   "datasets",
	Short: "List all imported datasets",
	Args:  cobra.NoArgs,
	RunE:  runDatasets,
}

var datasetsRmCmd = &cobra.Command{
	Use:   "rm <id-prefix>",
	Short: "Delete one imported dataset",
	Args:  cobra.ExactArgs(1),
	RunE:  runDatasetsRm,
}

func init() {
	datasetsCmd.AddCommand(datasetsRmCmd)
}

func runDatasets(cmd *cobra.Command, args []string) error {
	db, err := openStorage()
	if err != nil {
		return err
	}
	defer db.Close()

	sets, err := db.ListDatasets()
	if err != nil {
		return fmt.Errorf("list datasets: %w", err)
	}
	if len(sets) == 0 {
		fmt.Fprintln(os.Stdout, "No datasets stored yet. Run 'fightcareers import <bouts.csv>' to add one.")
		return nil
	}
	report.PrintDatasets(os.Stdout, sets)
	return nil
}

func runDatasetsRm(cmd *cobra.Command, args []string) error {
	db, err := openStorage()
	if err != nil {
		return err
	}
	defer db.Close()

	meta, err := db.GetDatasetByPrefix(args[0])
	if err != nil {
		return fmt.Errorf("find dataset: %w", err)
	}
	if meta == nil {
		return fmt.Errorf("no dataset with id prefix %q", args[0])
	}
	if _, err := db.DeleteDataset(meta.ID); err != nil {
		return fmt.Errorf("delete dataset %s: %w", meta.ID, err)
	}
	fmt.Fprintf(os.Stdout, "Deleted dataset %s (%s)\n", meta.ID, meta.Source)
	return nil
}
