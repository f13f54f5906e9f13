// Package adapter provides access to the external systems the tracker
// observes: the chain (card ownership, marketplace, tournament registry,
// sales contract) and the score ledger service.
package adapter

import (
	"context"
	"math/big"

	"github.com/arena-tracker/internal/models"
	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
)

// ChainReader provides read-only chain state snapshots.
type ChainReader interface {
	// CardsOwnedBy returns the cards currently owned by an address, in
	// contract order. Sorting for display is the caller's concern.
	CardsOwnedBy(ctx context.Context, owner common.Address) ([]models.Card, error)

	// FloorPrice returns the lowest active ask for a card type, or nil when
	// the type has no listings.
	FloorPrice(ctx context.Context, cardType string) (*big.Int, error)

	// Tournament returns one tournament record by id.
	Tournament(ctx context.Context, id uint64) (*models.Tournament, error)

	// Tournaments returns every tournament record, ascending by id.
	Tournaments(ctx context.Context) ([]models.Tournament, error)

	// ContractBalances returns the native balance of each tracked contract.
	ContractBalances(ctx context.Context) ([]models.ContractBalance, error)

	// AggregateStats returns the global sales and supply aggregates.
	AggregateStats(ctx context.Context) (*models.AggregateStats, error)
}

// Signer is the authenticated signing capability an administrator supplies
// for mutating operations. Callers without one cannot mutate.
type Signer interface {
	Address() common.Address
	SignTx(tx *ethtypes.Transaction, chainID *big.Int) (*ethtypes.Transaction, error)
}

// ChainWriter performs administrator mutations on chain. Every method blocks
// until the transaction is mined and returns an error carrying the chain's
// rejection reason when it fails.
type ChainWriter interface {
	Withdraw(ctx context.Context, signer Signer, to common.Address) (common.Hash, error)
	SetPackPrice(ctx context.Context, signer Signer, price *big.Int) (common.Hash, error)
	SetActiveTournament(ctx context.Context, signer Signer, id uint64) (common.Hash, error)
	CreateTournament(ctx context.Context, signer Signer, registrationStart, startTime, endTime uint64) (uint64, common.Hash, error)
	SetPaused(ctx context.Context, signer Signer, paused bool) (common.Hash, error)
}

// ScoreLedger provides read access to the external score ledger service.
type ScoreLedger interface {
	// ActiveTournamentID returns the globally active tournament id, or nil
	// when none is active.
	ActiveTournamentID(ctx context.Context) (*uint64, error)

	// ScoreHistory returns the full scoring snapshot for an address in a
	// tournament.
	ScoreHistory(ctx context.Context, address common.Address, tournamentID uint64) (*models.ScoreHistory, error)

	// TopEntrants returns the tournament's top entrants by points, ordered
	// descending.
	TopEntrants(ctx context.Context, tournamentID uint64, limit int) ([]models.LeaderboardEntry, error)
}
