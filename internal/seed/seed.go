// Package seed loads demo catalog rows from a YAML file and applies them
// once at startup when the store is still empty.
package seed

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/pazar-cloud/pazar/internal/domain"
)

// MarketWriter stores market aggregates.
type MarketWriter interface {
	Put(ctx context.Context, m domain.Market) error
	List(ctx context.Context) ([]domain.Market, error)
}

// ProductWriter stores product aggregates.
type ProductWriter interface {
	Put(ctx context.Context, p domain.Product) error
}

// ListingWriter stores listing aggregates.
type ListingWriter interface {
	Put(ctx context.Context, l *domain.Listing) error
}

// File is the on-disk seed format.
type File struct {
	Markets  []domain.Market  `yaml:"markets"`
	Products []domain.Product `yaml:"products"`
	Listings []domain.Listing `yaml:"listings"`
}

// Load reads and parses a seed file.
func Load(path string) (File, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return File{}, fmt.Errorf("read seed file %s: %w", path, err)
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return File{}, fmt.Errorf("parse seed file %s: %w", path, err)
	}
	return f, nil
}

// Apply writes the seed rows. A store that already holds markets is left
// untouched so restarts do not duplicate or overwrite live data.
func Apply(
	ctx context.Context,
	f File,
	markets MarketWriter,
	products ProductWriter,
	listings ListingWriter,
	logger *zap.Logger,
) error {
	existing, err := markets.List(ctx)
	if err != nil {
		return fmt.Errorf("check existing markets: %w", err)
	}
	if len(existing) > 0 {
		logger.Info("store already populated, skipping seed",
			zap.Int("markets", len(existing)))
		return nil
	}

	for _, m := range f.Markets {
		if m.Map2D == nil {
			m.Map2D = domain.DefaultMap2D()
		}
		if m.Map3D == nil {
			m.Map3D = domain.DefaultMap3D()
		}
		if err := markets.Put(ctx, m); err != nil {
			return fmt.Errorf("seed market %s: %w", m.ID, err)
		}
	}
	for _, p := range f.Products {
		if err := products.Put(ctx, p); err != nil {
			return fmt.Errorf("seed product %s: %w", p.ID, err)
		}
	}
	for i := range f.Listings {
		l := f.Listings[i]
		if err := listings.Put(ctx, &l); err != nil {
			return fmt.Errorf("seed listing %s: %w", l.ID, err)
		}
	}

	logger.Info("seed applied",
		zap.Int("markets", len(f.Markets)),
		zap.Int("products", len(f.Products)),
		zap.Int("listings", len(f.Listings)))
	return nil
}
