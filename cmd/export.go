package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pable/go-fight-careers/internal/career"
	"github.com/pable/go-fight-careers/internal/report"
	"github.com/pable/go-fight-careers/internal/title"
)

var (
	exportOut     string
	exportColumns []string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export careers or title bout tables as CSV",
}

var exportCareerCmd = &cobra.Command{
	Use:   "career <fighter>",
	Short: "Write a fighter's career as CSV",
	Long: `Write every career row of the fighter, newest first, with all career
columns unless --columns narrows them. Missing values are empty fields.

Example:
  fightcareers export career "Jon Jones" --out jones.csv`,
	Args: cobra.ExactArgs(1),
	RunE: runExportCareer,
}

var exportTitlesCmd = &cobra.Command{
	Use:   "titles",
	Short: "Write contested.csv and vacant.csv into a directory",
	Args:  cobra.NoArgs,
	RunE:  runExportTitles,
}

func init() {
	exportCmd.PersistentFlags().StringVarP(&exportOut, "out", "o", "", "output file (career) or directory (titles); default stdout / .")
	exportCareerCmd.Flags().StringSliceVar(&exportColumns, "columns", nil, "comma-separated career columns")

	exportCmd.AddCommand(exportCareerCmd)
	exportCmd.AddCommand(exportTitlesCmd)
}

func runExportCareer(cmd *cobra.Command, args []string) error {
	return withBouts(func(b *bouts) error {
		rows, err := career.Build(b.table, b.schema, args[0], cfg.Career)
		if err != nil {
			return fighterError(err)
		}
		cols := rows.Columns
		if len(exportColumns) > 0 {
			if cols, err = careerView(rows, exportColumns, false); err != nil {
				return err
			}
		}
		return writeTo(exportOut, func(w io.Writer) error {
			return report.WriteCareerCSV(w, rows, cols)
		})
	})
}

func runExportTitles(cmd *cobra.Command, args []string) error {
	dir := exportOut
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	return withBouts(func(b *bouts) error {
		tb, err := title.Classify(b.table, b.schema, cfg.Titles)
		if err != nil {
			logConflicts(err)
			return fmt.Errorf("classify title bouts: %w", err)
		}
		contested := filepath.Join(dir, "contested.csv")
		if err := writeTo(contested, func(w io.Writer) error { return report.WriteContestedCSV(w, tb.Contested) }); err != nil {
			return err
		}
		vacant := filepath.Join(dir, "vacant.csv")
		if err := writeTo(vacant, func(w io.Writer) error { return report.WriteVacantCSV(w, tb.Vacant) }); err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "Wrote %s (%d bouts) and %s (%d bouts)\n", contested, len(tb.Contested), vacant, len(tb.Vacant))
		return nil
	})
}

// writeTo runs fn against path, or stdout when path is empty.
func writeTo(path string, fn func(w io.Writer) error) error {
	if path == "" {
		return fn(os.Stdout)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := fn(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	logger.Debug("export written", zap.String("path", path))
	return f.Close()
}
