package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var dropForce bool

// dropCmd deletes the bout database file.
var dropCmd = &cobra.Command{
	Use:   "drop",
	Short: "Delete the bout database",
	Long:  "Permanently delete the SQLite bout database. Every imported dataset is lost; re-import your CSV files afterwards.",
	Args:  cobra.NoArgs,
	RunE:  runDrop,
}

func init() {
	dropCmd.Flags().BoolVarP(&dropForce, "force", "f", false, "skip confirmation prompt")
}

func runDrop(cmd *cobra.Command, args []string) error {
	path := cfg.Database
	if !dropForce {
		fmt.Fprintf(os.Stderr, "This will permanently delete: %s\n", path)
		fmt.Fprintf(os.Stderr, "Re-run with --force to confirm.\n")
		return nil
	}
	removed := false
	for _, p := range []string{path, path + "-wal", path + "-shm"} {
		if err := os.Remove(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("remove %s: %w", p, err)
		}
		removed = true
	}
	if !removed {
		fmt.Fprintln(os.Stdout, "Database does not exist, nothing to drop.")
		return nil
	}
	logger.Info("database dropped", zap.String("path", path))
	fmt.Fprintf(os.Stdout, "Deleted: %s\n", path)
	return nil
}
