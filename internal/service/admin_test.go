package service

import (
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/arena-tracker/internal/models"
	"github.com/arena-tracker/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAdmin(chain *mockChainReader, writer *mockChainWriter) *AdminService {
	svc := NewAdminService(chain, writer)
	svc.now = func() time.Time { return aggNow }
	return svc
}

func TestAdminMutationsWithoutSignerAreNoOps(t *testing.T) {
	writer := &mockChainWriter{}
	svc := newTestAdmin(newMockChainReader(), writer)
	ctx := context.Background()

	assert.Nil(t, svc.Withdraw(ctx, nil, "0x00000000000000000000000000000000000000aa"))
	assert.Nil(t, svc.SetPackPrice(ctx, nil, "5"))
	assert.Nil(t, svc.SetActiveTournament(ctx, nil, 1))
	assert.Nil(t, svc.CreateTournament(ctx, nil, "2026-08-01T00:00:00Z", "2026-08-03T00:00:00Z", "2026-08-10T00:00:00Z"))
	assert.Nil(t, svc.SetPaused(ctx, nil, true))

	assert.Empty(t, writer.lastOp, "no chain call may happen without a signer")
}

func TestAdminSetPackPrice(t *testing.T) {
	t.Run("valid prices reach the chain", func(t *testing.T) {
		for _, price := range []string{"5", "0.01"} {
			writer := &mockChainWriter{}
			svc := newTestAdmin(newMockChainReader(), writer)

			result := svc.SetPackPrice(context.Background(), mockSigner{}, price)

			require.NotNil(t, result)
			assert.True(t, result.Success, "price %q should be accepted", price)
			assert.Equal(t, "setPackPrice", writer.lastOp)
		}
	})

	t.Run("invalid prices rejected before any chain call", func(t *testing.T) {
		for _, price := range []string{"0", "-5", "abc"} {
			writer := &mockChainWriter{}
			svc := newTestAdmin(newMockChainReader(), writer)

			result := svc.SetPackPrice(context.Background(), mockSigner{}, price)

			require.NotNil(t, result)
			assert.False(t, result.Success, "price %q should be rejected", price)
			assert.NotEmpty(t, result.Reason)
			assert.Empty(t, writer.lastOp)
		}
	})

	t.Run("display units convert to native units", func(t *testing.T) {
		writer := &mockChainWriter{}
		svc := newTestAdmin(newMockChainReader(), writer)

		result := svc.SetPackPrice(context.Background(), mockSigner{}, "0.01")

		require.True(t, result.Success)
		assert.Equal(t, 0, writer.lastPrice.Cmp(big.NewInt(10_000_000_000_000_000)))
	})
}

func TestAdminCreateTournament(t *testing.T) {
	t.Run("returns the new tournament id", func(t *testing.T) {
		writer := &mockChainWriter{nextCreateID: 8}
		svc := newTestAdmin(newMockChainReader(), writer)

		result := svc.CreateTournament(context.Background(), mockSigner{},
			"2026-08-01T00:00:00Z", "2026-08-03T00:00:00Z", "2026-08-10T00:00:00Z")

		require.NotNil(t, result)
		require.True(t, result.Success)
		require.NotNil(t, result.TournamentID)
		assert.Equal(t, uint64(8), *result.TournamentID)
	})

	t.Run("unparseable timestamps rejected before any chain call", func(t *testing.T) {
		writer := &mockChainWriter{}
		svc := newTestAdmin(newMockChainReader(), writer)

		result := svc.CreateTournament(context.Background(), mockSigner{},
			"2026-08-01T00:00:00Z", "next tuesday", "2026-08-10T00:00:00Z")

		require.NotNil(t, result)
		assert.False(t, result.Success)
		assert.Contains(t, result.Reason, "next tuesday")
		assert.Empty(t, writer.lastOp)
	})

	t.Run("ordering violations rejected", func(t *testing.T) {
		writer := &mockChainWriter{}
		svc := newTestAdmin(newMockChainReader(), writer)

		result := svc.CreateTournament(context.Background(), mockSigner{},
			"2026-08-01T00:00:00Z", "2026-08-10T00:00:00Z", "2026-08-03T00:00:00Z")

		require.NotNil(t, result)
		assert.False(t, result.Success)
		assert.Empty(t, writer.lastOp)
	})
}

func TestAdminChainRejectionSurfacesReasonVerbatim(t *testing.T) {
	writer := &mockChainWriter{err: errors.New("execution reverted: sales paused")}
	svc := newTestAdmin(newMockChainReader(), writer)

	result := svc.SetPackPrice(context.Background(), mockSigner{}, "5")

	require.NotNil(t, result)
	assert.False(t, result.Success)
	assert.Equal(t, "execution reverted: sales paused", result.Reason)
}

func TestAdminWithdrawValidatesAddress(t *testing.T) {
	writer := &mockChainWriter{}
	svc := newTestAdmin(newMockChainReader(), writer)

	result := svc.Withdraw(context.Background(), mockSigner{}, "not-an-address")

	require.NotNil(t, result)
	assert.False(t, result.Success)
	assert.Empty(t, writer.lastOp)
}

func TestAdminListTournamentsAttachesPhases(t *testing.T) {
	chain := newMockChainReader()
	chain.tournaments[1] = models.Tournament{
		ID:                1,
		Status:            types.StatusActive,
		RegistrationStart: regStart,
		StartTime:         start,
		EndTime:           end,
		PrizePool:         big.NewInt(0),
	}
	chain.tournaments[2] = models.Tournament{
		ID:     2,
		Status: types.StatusCancelled,
	}
	svc := newTestAdmin(chain, &mockChainWriter{})

	views, err := svc.ListTournaments(context.Background())
	require.NoError(t, err)
	require.Len(t, views, 2)

	// aggNow falls between registration start and start time.
	assert.Equal(t, types.PhaseRegistering, views[0].Phase)
	assert.Equal(t, types.PhaseCancelled, views[1].Phase)
}

func TestAdminGetTournamentUsesSameResolver(t *testing.T) {
	chain := newMockChainReader()
	chain.tournaments[1] = models.Tournament{
		ID:                1,
		Status:            types.StatusActive,
		RegistrationStart: regStart,
		StartTime:         start,
		EndTime:           end,
	}
	svc := newTestAdmin(chain, &mockChainWriter{})

	view, err := svc.GetTournament(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, ResolvePhase(&view.Tournament, aggNow), view.Phase)
}
