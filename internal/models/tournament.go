package models

import (
	"math/big"
	"time"

	"github.com/arena-tracker/internal/types"
)

// Tournament represents one on-chain tournament record. Ids are assigned
// monotonically on chain and never reused. The start <= end invariant is
// enforced at creation time by the admin facade, not re-validated here.
type Tournament struct {
	ID                uint64                 `json:"id"`
	Status            types.TournamentStatus `json:"status"`
	RegistrationStart time.Time              `json:"registrationStart"`
	StartTime         time.Time              `json:"startTime"`
	EndTime           time.Time              `json:"endTime"`
	PrizePool         *big.Int               `json:"prizePool"`
	EntryCount        uint64                 `json:"entryCount"`
}

// ContractBalance is a point-in-time monetary snapshot of one contract.
type ContractBalance struct {
	Name    string   `json:"name"`
	Address string   `json:"address"`
	Balance *big.Int `json:"balance"`
}

// AggregateStats are the global read aggregates shown on the admin console.
type AggregateStats struct {
	PacksSold          uint64   `json:"packsSold"`
	PackPrice          *big.Int `json:"packPrice"`
	TotalCardSupply    uint64   `json:"totalCardSupply"`
	ActiveTournamentID *uint64  `json:"activeTournamentId,omitempty"`
}
