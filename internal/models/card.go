// Package models defines the domain entities observed and derived by the
// arena tracker. Card and Tournament records are read-only snapshots of
// external on-chain truth; the analytics views are derived values recomputed
// on every aggregation pass.
package models

import (
	"math/big"

	"github.com/arena-tracker/internal/types"
)

// Card represents one owned card instance as read from the chain.
type Card struct {
	TokenID    uint64       `json:"tokenId"`
	TypeName   string       `json:"typeName"`
	Rarity     types.Rarity `json:"rarity"`
	Multiplier uint64       `json:"multiplier"` // scoring multiplier, always positive
	ImageURI   *string      `json:"imageUri,omitempty"`
}

// CardAnalytics is the per-card derived view. FloorPrice is nil when the
// card's type has no active marketplace listing.
type CardAnalytics struct {
	TokenID     uint64   `json:"tokenId"`
	Name        string   `json:"name"`
	TotalPoints uint64   `json:"totalPoints"`
	TodayPoints uint64   `json:"todayPoints"`
	FloorPrice  *big.Int `json:"floorPrice,omitempty"`
}

// PortfolioSummary is the portfolio-wide derived view.
//
// PortfolioValue is nil when the portfolio is non-empty but no owned card has
// a listing ("no market data"), and exactly zero only for an empty portfolio.
// Rank is nil when the address is absent from the ledger's ordering.
type PortfolioSummary struct {
	CardCount      int      `json:"cardCount"`
	PortfolioValue *big.Int `json:"portfolioValue,omitempty"`
	TotalScore     uint64   `json:"totalScore"`
	TodayScore     uint64   `json:"todayScore"`
	MultiplierSum  uint64   `json:"multiplierSum"`
	Rank           *int     `json:"rank,omitempty"`
	BestPerformer  *string  `json:"bestPerformer,omitempty"`
	WorstPerformer *string  `json:"worstPerformer,omitempty"`
}
