package service

import (
	"context"
	"math/big"

	"github.com/arena-tracker/internal/adapter"
	"github.com/arena-tracker/internal/logging"
	"github.com/arena-tracker/internal/storage"
)

// FloorPriceSnapshot maps card type to its resolved floor price. A nil value
// means "no listings"; an absent key means resolution failed or is pending,
// which degrades to the same "no listings" answer during aggregation.
type FloorPriceSnapshot map[string]*big.Int

// FloorPriceResolver resolves per-card-type floor prices through a short-TTL
// cache so that repeated aggregation passes within one polling interval do
// not hammer the marketplace contract.
type FloorPriceResolver struct {
	chain adapter.ChainReader
	cache *storage.FloorPriceCache
}

// NewFloorPriceResolver creates a resolver. The cache may be nil, in which
// case every resolution goes to the chain.
func NewFloorPriceResolver(chain adapter.ChainReader, cache *storage.FloorPriceCache) *FloorPriceResolver {
	return &FloorPriceResolver{chain: chain, cache: cache}
}

// Resolve returns the floor price snapshot for a set of card types. Failed
// lookups are logged and left out of the snapshot; they never fail the
// aggregation pass.
func (r *FloorPriceResolver) Resolve(ctx context.Context, cardTypes []string) FloorPriceSnapshot {
	logger := logging.FromContext(ctx)
	snapshot := make(FloorPriceSnapshot, len(cardTypes))

	for _, cardType := range cardTypes {
		if _, seen := snapshot[cardType]; seen {
			continue
		}

		if r.cache != nil {
			price, found, err := r.cache.Get(ctx, cardType)
			if err != nil {
				logger.WithError(err).WithField("cardType", cardType).Warn("floor price cache read failed")
			} else if found {
				snapshot[cardType] = price
				continue
			}
		}

		price, err := r.chain.FloorPrice(ctx, cardType)
		if err != nil {
			logger.WithError(err).WithField("cardType", cardType).
				Warn("floor price lookup failed, treating as no listings")
			continue
		}

		snapshot[cardType] = price

		if r.cache != nil {
			if err := r.cache.Set(ctx, cardType, price); err != nil {
				logger.WithError(err).WithField("cardType", cardType).Warn("floor price cache write failed")
			}
		}
	}

	return snapshot
}
