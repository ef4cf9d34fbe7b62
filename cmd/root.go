package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/pable/go-fight-careers/internal/config"
)

var (
	dbPath        string
	configPath    string
	datasetPrefix string
	allowUnpaired bool
	verbose       bool

	cfg    *config.Config
	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "fightcareers",
	Short: "Fighter career and title bout tool",
	Long: `Import two-sided bout datasets and derive fighter-centric careers,
champion/contender title bout tables and per-fighter summaries.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zc := zap.NewProductionConfig()
		if verbose {
			zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		l, err := zc.Build()
		if err != nil {
			return fmt.Errorf("initialize logger: %w", err)
		}
		logger = l

		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("db") {
			cfg.Database = dbPath
		}
		if allowUnpaired {
			cfg.Columns.AllowUnpaired = true
		}
		logger.Debug("config loaded",
			zap.String("path", configPath),
			zap.String("database", cfg.Database),
			zap.Bool("allow_unpaired", cfg.Columns.AllowUnpaired))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&dbPath, "db", "", "path to SQLite database (default from config, ~/.fightcareers/bouts.db)")
	pf.StringVar(&configPath, "config", config.DefaultPath(), "path to YAML config")
	pf.StringVar(&datasetPrefix, "dataset", "", "dataset id prefix (default: latest import)")
	pf.BoolVar(&allowUnpaired, "allow-unpaired", false, "record one-sided fighter_1/fighter_2 columns instead of failing")
	pf.BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(datasetsCmd)
	rootCmd.AddCommand(dropCmd)
	rootCmd.AddCommand(fightersCmd)
	rootCmd.AddCommand(careerCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(titlesCmd)
	rootCmd.AddCommand(chartCmd)
	rootCmd.AddCommand(compareCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(overviewCmd)
	rootCmd.AddCommand(sqlCmd)
	rootCmd.AddCommand(shellCmd)
	rootCmd.AddCommand(analyzeCmd)
}
