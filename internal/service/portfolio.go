package service

import (
	"context"
	"sync"
	"time"

	"github.com/arena-tracker/internal/adapter"
	"github.com/arena-tracker/internal/logging"
	"github.com/arena-tracker/internal/models"
	"github.com/arena-tracker/internal/staleguard"
	"github.com/ethereum/go-ethereum/common"
)

// PortfolioView is the published analytics view for the tracked address.
// It is replaced whole on every refresh; Cards and Summary always describe
// the same inventory snapshot.
type PortfolioView struct {
	Address      string                  `json:"address"`
	TournamentID *uint64                 `json:"tournamentId,omitempty"`
	Cards        []models.CardAnalytics  `json:"cards"`
	Summary      models.PortfolioSummary `json:"summary"`
	Incomplete   bool                    `json:"incomplete"`
	LastUpdated  time.Time               `json:"lastUpdated"`
}

// PortfolioTracker merges the three independently-failing data sources into
// the portfolio analytics view. Overlapping refreshes for the same logical
// input are serialized by a stale-request guard: only the result of the
// most recently started refresh may reach the published view, and a refresh
// publishes exactly once, after all of its sources have settled, so partial
// arrivals never surface.
type PortfolioTracker struct {
	inventory *InventoryLoader
	ledger    adapter.ScoreLedger
	floors    *FloorPriceResolver
	dayLoc    *time.Location
	now       func() time.Time

	mu      sync.Mutex
	guard   staleguard.Guard
	address common.Address
	view    *PortfolioView
}

// NewPortfolioTracker creates a tracker. dayLoc is the ledger's score-day
// boundary timezone.
func NewPortfolioTracker(inventory *InventoryLoader, ledger adapter.ScoreLedger, floors *FloorPriceResolver, dayLoc *time.Location) *PortfolioTracker {
	return &PortfolioTracker{
		inventory: inventory,
		ledger:    ledger,
		floors:    floors,
		dayLoc:    dayLoc,
		now:       time.Now,
	}
}

// SetAddress switches the tracked address and refreshes. The zero address
// means "disconnected" and publishes an empty view.
func (t *PortfolioTracker) SetAddress(ctx context.Context, address common.Address) *PortfolioView {
	t.mu.Lock()
	t.address = address
	t.mu.Unlock()
	return t.Refresh(ctx)
}

// Refresh re-fetches all sources for the current address, aggregates and
// publishes. The returned view is the refresh's own result even when a
// newer trigger won the publish race; callers wanting the visible state use
// View.
func (t *PortfolioTracker) Refresh(ctx context.Context) *PortfolioView {
	t.mu.Lock()
	address := t.address
	token := t.guard.Next()
	t.mu.Unlock()

	view := t.buildView(ctx, address)

	t.mu.Lock()
	defer t.mu.Unlock()
	if token.Valid() {
		t.view = view
	}
	return view
}

// View returns the latest published view, or nil before the first refresh.
func (t *PortfolioTracker) View() *PortfolioView {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.view
}

// Close invalidates all in-flight refreshes so late results cannot publish.
func (t *PortfolioTracker) Close() {
	t.guard.Close()
}

// buildView fetches the three source snapshots and aggregates them. The
// inventory and the score history load concurrently; floor prices follow
// the inventory since they are keyed by the owned card types.
func (t *PortfolioTracker) buildView(ctx context.Context, address common.Address) *PortfolioView {
	logger := logging.FromContext(ctx)

	var (
		wg        sync.WaitGroup
		inv       InventorySnapshot
		floors    FloorPriceSnapshot
		history   *models.ScoreHistory
		ledgerTID *uint64
	)

	wg.Add(2)

	go func() {
		defer wg.Done()
		inv = t.inventory.Load(ctx, address)
		floors = t.floors.Resolve(ctx, cardTypeNames(inv.Cards))
	}()

	go func() {
		defer wg.Done()
		id, err := t.ledger.ActiveTournamentID(ctx)
		if err != nil {
			logger.WithError(err).Warn("active tournament lookup failed, score history unavailable")
			return
		}
		if id == nil || address == (common.Address{}) {
			return
		}
		ledgerTID = id

		h, err := t.ledger.ScoreHistory(ctx, address, *id)
		if err != nil {
			logger.WithError(err).WithField("tournamentId", *id).
				Warn("score history fetch failed, continuing without history")
			return
		}
		history = h
	}()

	wg.Wait()

	cards, summary := Aggregate(inv, history, floors, t.now(), t.dayLoc)

	return &PortfolioView{
		Address:      address.Hex(),
		TournamentID: ledgerTID,
		Cards:        cards,
		Summary:      summary,
		Incomplete:   inv.Incomplete,
		LastUpdated:  t.now().UTC(),
	}
}

func cardTypeNames(cards []models.Card) []string {
	seen := make(map[string]bool, len(cards))
	names := make([]string, 0, len(cards))
	for _, card := range cards {
		if !seen[card.TypeName] {
			seen[card.TypeName] = true
			names = append(names, card.TypeName)
		}
	}
	return names
}
