package service

import (
	"context"
	"sync"
	"time"

	"github.com/arena-tracker/internal/adapter"
	"github.com/arena-tracker/internal/logging"
	"github.com/arena-tracker/internal/models"
	"github.com/arena-tracker/internal/staleguard"
	"github.com/arena-tracker/internal/storage"
)

// LeaderboardView is the published top-entrants list for the active
// tournament.
type LeaderboardView struct {
	TournamentID *uint64                   `json:"tournamentId,omitempty"`
	Entries      []models.LeaderboardEntry `json:"entries"`
	UpdatedAt    time.Time                 `json:"updatedAt"`
}

// LeaderboardService keeps the active tournament's top entrants fresh on a
// fixed interval and on demand. The interval loop stops with its context so
// a torn-down owner never receives late updates.
type LeaderboardService struct {
	ledger   adapter.ScoreLedger
	cache    *storage.LeaderboardCache
	limit    int
	interval time.Duration
	now      func() time.Time

	mu    sync.Mutex
	guard staleguard.Guard
	view  *LeaderboardView
}

// NewLeaderboardService creates a leaderboard poller. The cache may be nil.
func NewLeaderboardService(ledger adapter.ScoreLedger, cache *storage.LeaderboardCache, limit int, interval time.Duration) *LeaderboardService {
	return &LeaderboardService{
		ledger:   ledger,
		cache:    cache,
		limit:    limit,
		interval: interval,
		now:      time.Now,
	}
}

// Start runs the polling loop until the context is cancelled. It refreshes
// once immediately so the first View call has data.
func (s *LeaderboardService) Start(ctx context.Context) {
	s.Refresh(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.guard.Close()
			return
		case <-ticker.C:
			s.Refresh(ctx)
		}
	}
}

// Refresh fetches the current top entrants and publishes them. A failed
// fetch keeps the previously published view; the caller-visible worst case
// is stale data, never an error.
func (s *LeaderboardService) Refresh(ctx context.Context) {
	logger := logging.FromContext(ctx)

	s.mu.Lock()
	token := s.guard.Next()
	s.mu.Unlock()

	id, err := s.ledger.ActiveTournamentID(ctx)
	if err != nil {
		logger.WithError(err).Warn("leaderboard refresh: active tournament lookup failed")
		return
	}

	view := &LeaderboardView{
		Entries:   []models.LeaderboardEntry{},
		UpdatedAt: s.now().UTC(),
	}

	if id != nil {
		view.TournamentID = id

		entries, found := s.cachedEntries(ctx, *id)
		if !found {
			entries, err = s.ledger.TopEntrants(ctx, *id, s.limit)
			if err != nil {
				logger.WithError(err).WithField("tournamentId", *id).
					Warn("leaderboard refresh: top entrants fetch failed")
				return
			}
			if s.cache != nil {
				if err := s.cache.Set(ctx, *id, entries); err != nil {
					logger.WithError(err).Warn("leaderboard cache write failed")
				}
			}
		}
		view.Entries = entries
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if token.Valid() {
		s.view = view
	}
}

func (s *LeaderboardService) cachedEntries(ctx context.Context, tournamentID uint64) ([]models.LeaderboardEntry, bool) {
	if s.cache == nil {
		return nil, false
	}
	entries, found, err := s.cache.Get(ctx, tournamentID)
	if err != nil {
		logging.FromContext(ctx).WithError(err).Warn("leaderboard cache read failed")
		return nil, false
	}
	return entries, found
}

// View returns the latest published leaderboard, or nil before the first
// successful refresh.
func (s *LeaderboardService) View() *LeaderboardView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view
}
