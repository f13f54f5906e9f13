package service

import (
	"context"
	"fmt"
	"time"

	"github.com/arena-tracker/internal/adapter"
	"github.com/arena-tracker/internal/logging"
	"github.com/arena-tracker/internal/models"
	"github.com/arena-tracker/internal/money"
	"github.com/arena-tracker/internal/types"
	"github.com/ethereum/go-ethereum/common"
)

// TournamentView is a tournament record with its effective phase attached.
// Both the admin console and the player-facing endpoints read tournaments
// through this view so phase labels never diverge.
type TournamentView struct {
	models.Tournament
	Phase types.EffectivePhase `json:"phase"`
}

// MutationResult is the outcome of one admin mutation: a success flag plus
// either a human-readable failure reason or operation-specific result data.
type MutationResult struct {
	Success      bool    `json:"success"`
	Reason       string  `json:"reason,omitempty"`
	TxHash       string  `json:"txHash,omitempty"`
	TournamentID *uint64 `json:"tournamentId,omitempty"`
}

// AdminService is the orchestration facade for the administrator console.
// Every mutating operation requires the caller to supply a signing
// capability; without one the operation silently does not proceed (nil
// result, no error) so the facade stays side-effect-free for unsigned
// callers. Mutations never retry; the caller re-fetches the read aggregates
// afterward.
type AdminService struct {
	reader adapter.ChainReader
	writer adapter.ChainWriter
	now    func() time.Time
}

// NewAdminService creates the admin facade.
func NewAdminService(reader adapter.ChainReader, writer adapter.ChainWriter) *AdminService {
	return &AdminService{reader: reader, writer: writer, now: time.Now}
}

// ContractBalances returns the per-contract monetary snapshot.
func (s *AdminService) ContractBalances(ctx context.Context) ([]models.ContractBalance, error) {
	return s.reader.ContractBalances(ctx)
}

// AggregateStats returns the global sales and supply aggregates.
func (s *AdminService) AggregateStats(ctx context.Context) (*models.AggregateStats, error) {
	return s.reader.AggregateStats(ctx)
}

// ListTournaments returns every tournament with its effective phase.
func (s *AdminService) ListTournaments(ctx context.Context) ([]TournamentView, error) {
	tournaments, err := s.reader.Tournaments(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	views := make([]TournamentView, 0, len(tournaments))
	for _, t := range tournaments {
		views = append(views, TournamentView{
			Tournament: t,
			Phase:      ResolvePhase(&t, now),
		})
	}
	return views, nil
}

// GetTournament returns one tournament with its effective phase.
func (s *AdminService) GetTournament(ctx context.Context, id uint64) (*TournamentView, error) {
	tournament, err := s.reader.Tournament(ctx, id)
	if err != nil {
		return nil, err
	}
	return &TournamentView{
		Tournament: *tournament,
		Phase:      ResolvePhase(tournament, s.now()),
	}, nil
}

// Withdraw transfers the sales contract balance to the given address.
func (s *AdminService) Withdraw(ctx context.Context, signer adapter.Signer, to string) *MutationResult {
	if signer == nil {
		return nil
	}
	if !common.IsHexAddress(to) {
		return &MutationResult{Reason: fmt.Sprintf("invalid withdrawal address: %q", to)}
	}

	hash, err := s.writer.Withdraw(ctx, signer, common.HexToAddress(to))
	if err != nil {
		return s.failed(ctx, "withdraw", err)
	}
	return &MutationResult{Success: true, TxHash: hash.Hex()}
}

// SetPackPrice validates and applies a new pack price. The price arrives as
// a decimal display string and is rejected before any chain call unless it
// parses to a positive amount.
func (s *AdminService) SetPackPrice(ctx context.Context, signer adapter.Signer, price string) *MutationResult {
	if signer == nil {
		return nil
	}

	amount, err := money.ParsePositive(price)
	if err != nil {
		return &MutationResult{Reason: err.Error()}
	}

	hash, err := s.writer.SetPackPrice(ctx, signer, amount)
	if err != nil {
		return s.failed(ctx, "setPackPrice", err)
	}
	return &MutationResult{Success: true, TxHash: hash.Hex()}
}

// SetActiveTournament repoints the globally active tournament.
func (s *AdminService) SetActiveTournament(ctx context.Context, signer adapter.Signer, id uint64) *MutationResult {
	if signer == nil {
		return nil
	}

	hash, err := s.writer.SetActiveTournament(ctx, signer, id)
	if err != nil {
		return s.failed(ctx, "setActiveTournament", err)
	}
	return &MutationResult{Success: true, TxHash: hash.Hex()}
}

// CreateTournament validates the three timestamps and creates a tournament.
// Timestamps arrive as RFC 3339 strings; any that fails to parse, or an
// ordering violation, is rejected before any chain call.
func (s *AdminService) CreateTournament(ctx context.Context, signer adapter.Signer, registrationStart, startTime, endTime string) *MutationResult {
	if signer == nil {
		return nil
	}

	regStart, err := time.Parse(time.RFC3339, registrationStart)
	if err != nil {
		return &MutationResult{Reason: fmt.Sprintf("invalid registration start: %q", registrationStart)}
	}
	start, err := time.Parse(time.RFC3339, startTime)
	if err != nil {
		return &MutationResult{Reason: fmt.Sprintf("invalid start time: %q", startTime)}
	}
	end, err := time.Parse(time.RFC3339, endTime)
	if err != nil {
		return &MutationResult{Reason: fmt.Sprintf("invalid end time: %q", endTime)}
	}
	if regStart.After(start) {
		return &MutationResult{Reason: "registration start must not be after start time"}
	}
	if start.After(end) {
		return &MutationResult{Reason: "start time must not be after end time"}
	}

	id, hash, err := s.writer.CreateTournament(ctx, signer,
		uint64(regStart.Unix()), uint64(start.Unix()), uint64(end.Unix()))
	if err != nil {
		return s.failed(ctx, "createTournament", err)
	}
	return &MutationResult{Success: true, TxHash: hash.Hex(), TournamentID: &id}
}

// SetPaused pauses or resumes pack sales.
func (s *AdminService) SetPaused(ctx context.Context, signer adapter.Signer, paused bool) *MutationResult {
	if signer == nil {
		return nil
	}

	hash, err := s.writer.SetPaused(ctx, signer, paused)
	if err != nil {
		return s.failed(ctx, "setPaused", err)
	}
	return &MutationResult{Success: true, TxHash: hash.Hex()}
}

// failed builds the result for a chain-rejected mutation. The reported
// reason passes through verbatim; retrying is the caller's decision.
func (s *AdminService) failed(ctx context.Context, operation string, err error) *MutationResult {
	logging.FromContext(ctx).WithError(err).WithField("operation", operation).
		Warn("admin mutation rejected")
	return &MutationResult{Reason: err.Error()}
}
