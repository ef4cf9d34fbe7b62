package cmd

import (
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pable/go-fight-careers/internal/report"
)

var sqlCSV bool

var sqlCmd = &cobra.Command{
	Use:   "sql <query>",
	Short: "Run a raw SQL query against the bout database",
	Long: `Run an arbitrary SQL query against the bout database and print results as a table.

Schema overview:
  datasets(id, source, imported_at, row_count, column_count)
  bout_columns(dataset_id, position, name, kind)   kind: string | number | date
  bout_cells(dataset_id, row_idx, position, text_value, num_value)

Cells are stored sparsely: a missing value has no bout_cells row. Numbers
live in num_value, strings and dates (RFC 3339) in text_value.

Example:
  SELECT v.text_value, COUNT(*) FROM bout_cells v
  JOIN bout_columns c ON c.dataset_id = v.dataset_id AND c.position = v.position
  WHERE c.name = 'fighter_1' GROUP BY 1 ORDER BY 2 DESC LIMIT 10`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSQL,
}

func init() {
	sqlCmd.Flags().BoolVar(&sqlCSV, "csv", false, "write CSV instead of a table")
}

func runSQL(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")
	logger.Debug("raw query", zap.String("sql", query))
	db, err := openStorage()
	if err != nil {
		return err
	}
	defer db.Close()

	cols, rows, err := db.QueryRaw(query)
	if err != nil {
		return err
	}
	if sqlCSV {
		return report.WriteQueryCSV(os.Stdout, cols, rows)
	}
	report.PrintQueryResult(os.Stdout, cols, rows)
	return nil
}
