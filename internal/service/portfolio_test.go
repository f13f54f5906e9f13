package service

import (
	"context"
	"math/big"
	"sync"
	"testing"
	"time"

	"github.com/arena-tracker/internal/models"
	"github.com/arena-tracker/internal/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	playerAddr = common.HexToAddress("0x1111111111111111111111111111111111111111")
	otherAddr  = common.HexToAddress("0x2222222222222222222222222222222222222222")
)

func newTestTracker(chain *mockChainReader, ledger *mockLedger) *PortfolioTracker {
	tracker := NewPortfolioTracker(
		NewInventoryLoader(chain),
		ledger,
		NewFloorPriceResolver(chain, nil),
		time.UTC,
	)
	tracker.now = func() time.Time { return aggNow }
	return tracker
}

func seededChain() *mockChainReader {
	chain := newMockChainReader()
	chain.cards[playerAddr] = []models.Card{
		card(2, "golem", types.RarityCommon, 1),
		card(1, "dragon", types.RarityLegendary, 5),
	}
	chain.floors["dragon"] = big.NewInt(1000)
	return chain
}

func seededLedger() *mockLedger {
	ledger := newMockLedger()
	active := uint64(3)
	ledger.activeID = &active
	rank := 2
	ledger.histories[playerAddr] = &models.ScoreHistory{
		TournamentID: 3,
		Daily: []models.DailyScorePoint{
			{Date: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC), Points: 120},
			{Date: time.Date(2026, 8, 2, 0, 0, 0, 0, time.UTC), Points: 80},
		},
		Contributions: []models.CardTypeContribution{
			{TypeName: "dragon", Points: 150},
			{TypeName: "golem", Points: 50},
		},
		TotalScore: 200,
		Rank:       &rank,
	}
	return ledger
}

func TestTrackerRefreshPublishesConsistentView(t *testing.T) {
	tracker := newTestTracker(seededChain(), seededLedger())

	view := tracker.SetAddress(context.Background(), playerAddr)

	require.NotNil(t, view)
	require.Len(t, view.Cards, 2)
	// Inventory sorted rarity descending.
	assert.Equal(t, uint64(1), view.Cards[0].TokenID)
	assert.Equal(t, "dragon", view.Cards[0].Name)
	assert.Equal(t, uint64(150), view.Cards[0].TotalPoints)
	assert.Equal(t, uint64(50), view.Cards[1].TotalPoints)

	assert.Equal(t, uint64(200), view.Summary.TotalScore)
	assert.Equal(t, uint64(80), view.Summary.TodayScore)
	require.NotNil(t, view.Summary.Rank)
	assert.Equal(t, 2, *view.Summary.Rank)
	require.NotNil(t, view.Summary.PortfolioValue)
	assert.Equal(t, "1000", view.Summary.PortfolioValue.String())
	require.NotNil(t, view.TournamentID)
	assert.Equal(t, uint64(3), *view.TournamentID)

	assert.Equal(t, view, tracker.View())
}

func TestTrackerDisconnectedAddressYieldsEmptyView(t *testing.T) {
	tracker := newTestTracker(seededChain(), seededLedger())

	view := tracker.SetAddress(context.Background(), common.Address{})

	require.NotNil(t, view)
	assert.Empty(t, view.Cards)
	assert.False(t, view.Incomplete)
	assert.Equal(t, 0, view.Summary.CardCount)
}

func TestTrackerDegradesPerSource(t *testing.T) {
	t.Run("inventory failure marks view incomplete", func(t *testing.T) {
		chain := seededChain()
		chain.cardsErr = assert.AnError
		tracker := newTestTracker(chain, seededLedger())

		view := tracker.SetAddress(context.Background(), playerAddr)

		assert.True(t, view.Incomplete)
		assert.Empty(t, view.Cards)
	})

	t.Run("ledger failure degrades to no history", func(t *testing.T) {
		ledger := seededLedger()
		ledger.historyErr = assert.AnError
		tracker := newTestTracker(seededChain(), ledger)

		view := tracker.SetAddress(context.Background(), playerAddr)

		require.Len(t, view.Cards, 2)
		assert.Equal(t, uint64(0), view.Summary.TotalScore)
		assert.Nil(t, view.Summary.Rank)
	})

	t.Run("floor price failure degrades to no listings", func(t *testing.T) {
		chain := seededChain()
		chain.floorErr = assert.AnError
		tracker := newTestTracker(chain, seededLedger())

		view := tracker.SetAddress(context.Background(), playerAddr)

		require.Len(t, view.Cards, 2)
		assert.Nil(t, view.Summary.PortfolioValue)
		assert.Equal(t, uint64(200), view.Summary.TotalScore)
	})

	t.Run("no active tournament yields no history", func(t *testing.T) {
		ledger := seededLedger()
		ledger.activeID = nil
		tracker := newTestTracker(seededChain(), ledger)

		view := tracker.SetAddress(context.Background(), playerAddr)

		assert.Nil(t, view.TournamentID)
		assert.Equal(t, uint64(0), view.Summary.TotalScore)
	})
}

func TestTrackerStaleRefreshDoesNotPublish(t *testing.T) {
	// Refresh A starts for one address, refresh B supersedes it for a new
	// address and completes; A then resolves late. Visible state must
	// reflect only B.
	chain := seededChain()
	chain.cards[otherAddr] = []models.Card{card(9, "wisp", types.RarityRare, 2)}

	ledger := seededLedger()
	gate := make(chan struct{})
	ledger.historyGate = gate

	tracker := newTestTracker(chain, ledger)
	tracker.SetAddress(context.Background(), playerAddr)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		tracker.Refresh(context.Background()) // fetch A, blocked on the ledger
	}()

	// Give A time to start, then supersede it with B for the new address.
	time.Sleep(20 * time.Millisecond)
	ledger.mu.Lock()
	ledger.historyGate = nil
	ledger.mu.Unlock()

	viewB := tracker.SetAddress(context.Background(), otherAddr)
	require.Len(t, viewB.Cards, 1)

	close(gate) // A resolves after B
	wg.Wait()

	visible := tracker.View()
	require.NotNil(t, visible)
	assert.Equal(t, otherAddr.Hex(), visible.Address)
	require.Len(t, visible.Cards, 1)
	assert.Equal(t, "wisp", visible.Cards[0].Name)
}

func TestTrackerCloseDiscardsLateResults(t *testing.T) {
	ledger := seededLedger()
	gate := make(chan struct{})
	ledger.historyGate = gate

	tracker := newTestTracker(seededChain(), ledger)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		tracker.SetAddress(context.Background(), playerAddr)
	}()

	time.Sleep(20 * time.Millisecond)
	tracker.Close()
	close(gate)
	wg.Wait()

	assert.Nil(t, tracker.View())
}
