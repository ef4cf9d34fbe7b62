package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pable/go-fight-careers/internal/dataset"
	"github.com/pable/go-fight-careers/internal/model"
	"github.com/pable/go-fight-careers/internal/report"
)

var importDelimiter string

var importCmd = &cobra.Command{
	Use:   "import <bouts.csv>",
	Short: "Import a two-sided bout CSV into the database",
	Long: `Read a bout CSV (one row per bout, every fighter attribute present twice
with fighter_1 / fighter_2 markers), check that its columns pair up, and
store it under a new dataset id. Later commands use the latest import
unless --dataset selects another.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	importCmd.Flags().StringVar(&importDelimiter, "delimiter", ",", "field delimiter")
}

func runImport(cmd *cobra.Command, args []string) error {
	path := args[0]

	opts := cfg.Dataset
	if importDelimiter != "" {
		r, size := utf8.DecodeRuneInString(importDelimiter)
		if size != len(importDelimiter) {
			return fmt.Errorf("delimiter must be a single character, got %q", importDelimiter)
		}
		opts.Delimiter = r
	}

	fmt.Fprintf(os.Stdout, "Reading %s...\n", path)
	t, err := dataset.ReadFile(path, opts)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	s, err := resolveSchema(t)
	if err != nil {
		return err
	}

	db, err := openStorage()
	if err != nil {
		return err
	}
	defer db.Close()

	meta := model.DatasetSummary{
		ID:         uuid.NewString(),
		Source:     filepath.Base(path),
		ImportedAt: time.Now().UTC().Format(time.RFC3339),
		Rows:       len(t.Rows),
		Columns:    len(t.Columns),
	}
	if err := db.InsertDataset(meta, t, dataset.Kinds(t)); err != nil {
		return fmt.Errorf("store dataset: %w", err)
	}
	logger.Info("dataset imported",
		zap.String("id", meta.ID),
		zap.String("source", meta.Source),
		zap.Int("rows", meta.Rows),
		zap.Int("pairs", len(s.Pairs)),
		zap.Int("unpaired", len(s.Unpaired)))

	report.PrintOverview(os.Stdout, overviewOf(&bouts{meta: meta, table: t, schema: s}))
	return nil
}
