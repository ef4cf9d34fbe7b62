package career

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/pable/go-fight-careers/internal/model"
	"github.com/pable/go-fight-careers/internal/schema"
)

// BuildMany builds several careers concurrently over the same table. Results
// are returned in the order of fighters. The first failure cancels the rest.
func BuildMany(ctx context.Context, t *model.BoutTable, s *schema.Schema, fighters []string, opts Options) ([]*model.CareerRows, error) {
	out := make([]*model.CareerRows, len(fighters))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(4)

	for i, name := range fighters {
		i, name := i, name
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			rows, err := Build(t, s, name, opts)
			if err != nil {
				return fmt.Errorf("career %q: %w", name, err)
			}
			out[i] = rows
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
