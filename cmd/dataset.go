package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/pable/go-fight-careers/internal/model"
	"github.com/pable/go-fight-careers/internal/schema"
	"github.com/pable/go-fight-careers/internal/storage"
)

// bouts is a stored dataset loaded back into memory with its resolved schema.
type bouts struct {
	meta   model.DatasetSummary
	table  *model.BoutTable
	schema *schema.Schema
}

func openStorage() (*storage.DB, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.Database), 0755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := storage.Open(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	logger.Debug("store opened", zap.String("path", db.Path()))
	return db, nil
}

// loadBouts loads the dataset named by --dataset, or the latest import.
func loadBouts(db *storage.DB, prefix string) (*bouts, error) {
	var meta *model.DatasetSummary
	var err error
	if prefix != "" {
		meta, err = db.GetDatasetByPrefix(prefix)
	} else {
		meta, err = db.LatestDataset()
	}
	if err != nil {
		return nil, fmt.Errorf("find dataset: %w", err)
	}
	if meta == nil {
		if prefix != "" {
			return nil, fmt.Errorf("no dataset with id prefix %q", prefix)
		}
		return nil, fmt.Errorf("no datasets stored yet; run 'fightcareers import <bouts.csv>' first")
	}

	t, err := db.LoadBouts(meta.ID)
	if err != nil {
		return nil, fmt.Errorf("load dataset %s: %w", meta.ID, err)
	}
	s, err := resolveSchema(t)
	if err != nil {
		return nil, err
	}
	logger.Debug("dataset loaded",
		zap.String("id", meta.ID),
		zap.Int("rows", len(t.Rows)),
		zap.Int("pairs", len(s.Pairs)),
		zap.Int("shared", len(s.Shared)))
	return &bouts{meta: *meta, table: t, schema: s}, nil
}

func resolveSchema(t *model.BoutTable) (*schema.Schema, error) {
	s, err := schema.Resolve(t.Columns, cfg.Columns)
	if err != nil {
		return nil, fmt.Errorf("resolve columns: %w", err)
	}
	for _, c := range s.Unpaired {
		logger.Warn("unpaired column", zap.String("column", c.Name), zap.Int("index", c.Index))
	}
	return s, nil
}

// withBouts opens the store, loads the selected dataset and runs fn.
func withBouts(fn func(b *bouts) error) error {
	db, err := openStorage()
	if err != nil {
		return err
	}
	defer db.Close()

	b, err := loadBouts(db, datasetPrefix)
	if err != nil {
		return err
	}
	return fn(b)
}
