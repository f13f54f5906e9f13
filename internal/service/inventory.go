package service

import (
	"context"
	"sort"

	"github.com/arena-tracker/internal/adapter"
	"github.com/arena-tracker/internal/logging"
	"github.com/arena-tracker/internal/models"
	"github.com/ethereum/go-ethereum/common"
)

// InventorySnapshot is an immutable view of the cards owned by one address
// at load time. Incomplete marks a snapshot whose underlying lookup failed;
// callers must not assume a non-empty result implies completeness.
type InventorySnapshot struct {
	Address    common.Address `json:"address"`
	Cards      []models.Card  `json:"cards"`
	Incomplete bool           `json:"incomplete"`
}

// InventoryLoader resolves the set of cards owned by an address.
type InventoryLoader struct {
	chain adapter.ChainReader
}

// NewInventoryLoader creates an inventory loader over a chain reader.
func NewInventoryLoader(chain adapter.ChainReader) *InventoryLoader {
	return &InventoryLoader{chain: chain}
}

// Load returns the owned-card snapshot for an address, sorted by rarity
// descending then token id ascending for deterministic display. The zero
// address means "disconnected" and yields an empty snapshot, not an error.
// A failed lookup degrades to an empty snapshot marked Incomplete.
func (l *InventoryLoader) Load(ctx context.Context, owner common.Address) InventorySnapshot {
	snapshot := InventorySnapshot{Address: owner, Cards: []models.Card{}}

	if owner == (common.Address{}) {
		return snapshot
	}

	cards, err := l.chain.CardsOwnedBy(ctx, owner)
	if err != nil {
		logging.FromContext(ctx).WithError(err).WithField("address", owner.Hex()).
			Warn("card inventory load failed, continuing with empty inventory")
		snapshot.Incomplete = true
		return snapshot
	}

	sort.Slice(cards, func(i, j int) bool {
		if cards[i].Rarity != cards[j].Rarity {
			return cards[i].Rarity > cards[j].Rarity
		}
		return cards[i].TokenID < cards[j].TokenID
	})

	snapshot.Cards = cards
	return snapshot
}
