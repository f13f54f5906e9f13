package service

import (
	"context"
	"fmt"
	"math/big"
	"sync"

	"github.com/arena-tracker/internal/adapter"
	"github.com/arena-tracker/internal/models"
	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
)

// Mock chain reader

type mockChainReader struct {
	mu          sync.Mutex
	cards       map[common.Address][]models.Card
	cardsErr    error
	floors      map[string]*big.Int // nil value = no listings
	floorErr    error
	tournaments map[uint64]models.Tournament
	balances    []models.ContractBalance
	stats       *models.AggregateStats
	readErr     error
}

func newMockChainReader() *mockChainReader {
	return &mockChainReader{
		cards:       make(map[common.Address][]models.Card),
		floors:      make(map[string]*big.Int),
		tournaments: make(map[uint64]models.Tournament),
	}
}

func (m *mockChainReader) CardsOwnedBy(ctx context.Context, owner common.Address) ([]models.Card, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cardsErr != nil {
		return nil, m.cardsErr
	}
	return m.cards[owner], nil
}

func (m *mockChainReader) FloorPrice(ctx context.Context, cardType string) (*big.Int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.floorErr != nil {
		return nil, m.floorErr
	}
	return m.floors[cardType], nil
}

func (m *mockChainReader) Tournament(ctx context.Context, id uint64) (*models.Tournament, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.readErr != nil {
		return nil, m.readErr
	}
	t, ok := m.tournaments[id]
	if !ok {
		return nil, fmt.Errorf("tournament %d not found", id)
	}
	return &t, nil
}

func (m *mockChainReader) Tournaments(ctx context.Context) ([]models.Tournament, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.readErr != nil {
		return nil, m.readErr
	}
	result := make([]models.Tournament, 0, len(m.tournaments))
	for id := uint64(1); id <= uint64(len(m.tournaments)); id++ {
		result = append(result, m.tournaments[id])
	}
	return result, nil
}

func (m *mockChainReader) ContractBalances(ctx context.Context) ([]models.ContractBalance, error) {
	if m.readErr != nil {
		return nil, m.readErr
	}
	return m.balances, nil
}

func (m *mockChainReader) AggregateStats(ctx context.Context) (*models.AggregateStats, error) {
	if m.readErr != nil {
		return nil, m.readErr
	}
	return m.stats, nil
}

// Mock score ledger

type mockLedger struct {
	mu         sync.Mutex
	activeID   *uint64
	activeErr  error
	histories  map[common.Address]*models.ScoreHistory
	historyErr error
	entries    []models.LeaderboardEntry
	entriesErr error

	// historyGate, when set, blocks ScoreHistory until released. Used to
	// order overlapping refreshes deterministically.
	historyGate chan struct{}

	topCalls int
}

func newMockLedger() *mockLedger {
	return &mockLedger{histories: make(map[common.Address]*models.ScoreHistory)}
}

func (m *mockLedger) ActiveTournamentID(ctx context.Context) (*uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.activeErr != nil {
		return nil, m.activeErr
	}
	return m.activeID, nil
}

func (m *mockLedger) ScoreHistory(ctx context.Context, address common.Address, tournamentID uint64) (*models.ScoreHistory, error) {
	m.mu.Lock()
	gate := m.historyGate
	m.mu.Unlock()
	if gate != nil {
		<-gate
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.historyErr != nil {
		return nil, m.historyErr
	}
	return m.histories[address], nil
}

func (m *mockLedger) TopEntrants(ctx context.Context, tournamentID uint64, limit int) ([]models.LeaderboardEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.topCalls++
	if m.entriesErr != nil {
		return nil, m.entriesErr
	}
	if limit < len(m.entries) {
		return m.entries[:limit], nil
	}
	return m.entries, nil
}

// Mock chain writer

type mockChainWriter struct {
	err          error
	lastOp       string
	lastPrice    *big.Int
	lastPaused   bool
	lastTourney  uint64
	nextCreateID uint64
}

var mockTxHash = common.HexToHash("0xabc123")

func (m *mockChainWriter) Withdraw(ctx context.Context, signer adapter.Signer, to common.Address) (common.Hash, error) {
	m.lastOp = "withdraw"
	if m.err != nil {
		return common.Hash{}, m.err
	}
	return mockTxHash, nil
}

func (m *mockChainWriter) SetPackPrice(ctx context.Context, signer adapter.Signer, price *big.Int) (common.Hash, error) {
	m.lastOp = "setPackPrice"
	m.lastPrice = price
	if m.err != nil {
		return common.Hash{}, m.err
	}
	return mockTxHash, nil
}

func (m *mockChainWriter) SetActiveTournament(ctx context.Context, signer adapter.Signer, id uint64) (common.Hash, error) {
	m.lastOp = "setActiveTournament"
	m.lastTourney = id
	if m.err != nil {
		return common.Hash{}, m.err
	}
	return mockTxHash, nil
}

func (m *mockChainWriter) CreateTournament(ctx context.Context, signer adapter.Signer, registrationStart, startTime, endTime uint64) (uint64, common.Hash, error) {
	m.lastOp = "createTournament"
	if m.err != nil {
		return 0, common.Hash{}, m.err
	}
	return m.nextCreateID, mockTxHash, nil
}

func (m *mockChainWriter) SetPaused(ctx context.Context, signer adapter.Signer, paused bool) (common.Hash, error) {
	m.lastOp = "setPaused"
	m.lastPaused = paused
	if m.err != nil {
		return common.Hash{}, m.err
	}
	return mockTxHash, nil
}

// Mock signer

type mockSigner struct{}

func (mockSigner) Address() common.Address {
	return common.HexToAddress("0x00000000000000000000000000000000000000aa")
}

func (mockSigner) SignTx(tx *ethtypes.Transaction, chainID *big.Int) (*ethtypes.Transaction, error) {
	return tx, nil
}
