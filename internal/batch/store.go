package batch

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/lville-gis/internal/normalize"
	"github.com/lville-gis/internal/store"
)

// UpdateParcels decomposes every parcel's composite address and writes the
// routing fields back. Nothing is written if any step fails.
func (p *Processor) UpdateParcels(ctx context.Context, s store.ParcelStore) (Stats, error) {
	p.logger.Info("loading parcels")
	rows, err := s.LoadParcels(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("failed to load parcels: %w", err)
	}

	inputs := make([]string, len(rows))
	for i, r := range rows {
		inputs[i] = r.FullAddress
	}

	results, stats, err := p.DecomposeAll(ctx, inputs)
	if err != nil {
		return stats, err
	}

	updates := make([]store.ParcelUpdate, len(rows))
	for i, r := range rows {
		updates[i] = store.ParcelUpdate{ID: r.ID, Components: results[i]}
	}

	p.logger.Info("writing parcels", zap.Int("rows", len(updates)))
	stats.Updated, err = s.SaveParcels(ctx, updates)
	if err != nil {
		return stats, fmt.Errorf("failed to save parcels: %w", err)
	}

	p.logger.Info("parcels updated",
		zap.Int("total", stats.Total),
		zap.Int("updated", stats.Updated),
		zap.Int("cache_hits", stats.CacheHits),
		zap.Float64("rows_per_sec", stats.RowsPerSecond()))
	return stats, nil
}

// UpdateAddresses composes the full address of every address point and
// writes it back, optionally clearing the discrete source fields.
func (p *Processor) UpdateAddresses(ctx context.Context, s store.AddressStore, clearParts bool) (Stats, error) {
	p.logger.Info("loading addresses")
	rows, err := s.LoadAddresses(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("failed to load addresses: %w", err)
	}

	inputs := make([]normalize.AddressParts, len(rows))
	for i, r := range rows {
		inputs[i] = r.Parts
	}

	results, stats, err := p.ComposeAll(ctx, inputs)
	if err != nil {
		return stats, err
	}

	updates := make([]store.AddressUpdate, len(rows))
	for i, r := range rows {
		updates[i] = store.AddressUpdate{ID: r.ID, FullAddress: results[i]}
	}

	p.logger.Info("writing addresses", zap.Int("rows", len(updates)), zap.Bool("clear_parts", clearParts))
	stats.Updated, err = s.SaveAddresses(ctx, updates, clearParts)
	if err != nil {
		return stats, fmt.Errorf("failed to save addresses: %w", err)
	}

	p.logger.Info("addresses updated",
		zap.Int("total", stats.Total),
		zap.Int("updated", stats.Updated),
		zap.Float64("rows_per_sec", stats.RowsPerSecond()))
	return stats, nil
}
