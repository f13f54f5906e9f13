package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/arena-tracker/internal/config"
	"github.com/arena-tracker/internal/models"
	"github.com/ethereum/go-ethereum/common"
)

// LedgerClient talks to the score ledger service over HTTP. The ledger is
// the system of record for per-address, per-tournament scoring history and
// rankings; this client only reads from it.
type LedgerClient struct {
	baseURL string
	client  *http.Client
}

// NewLedgerClient creates a score ledger client.
func NewLedgerClient(cfg *config.LedgerConfig) *LedgerClient {
	return &LedgerClient{
		baseURL: cfg.BaseURL,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

type activeTournamentResponse struct {
	TournamentID uint64 `json:"tournamentId"`
	Active       bool   `json:"active"`
}

type scoreHistoryResponse struct {
	Daily []struct {
		Date   string `json:"date"` // YYYY-MM-DD
		Points uint64 `json:"points"`
	} `json:"daily"`
	Contributions []models.CardTypeContribution `json:"contributions"`
	TotalScore    uint64                        `json:"totalScore"`
	Rank          *int                          `json:"rank"`
}

type leaderboardResponse struct {
	Entries []models.LeaderboardEntry `json:"entries"`
}

// ActiveTournamentID resolves the globally active tournament id, or nil when
// none is active.
func (c *LedgerClient) ActiveTournamentID(ctx context.Context) (*uint64, error) {
	var resp activeTournamentResponse
	if err := c.getJSON(ctx, "/api/tournaments/active", &resp); err != nil {
		return nil, err
	}
	if !resp.Active {
		return nil, nil
	}
	id := resp.TournamentID
	return &id, nil
}

// ScoreHistory returns the full scoring snapshot for an address in a
// tournament, daily series ordered ascending by date.
func (c *LedgerClient) ScoreHistory(ctx context.Context, address common.Address, tournamentID uint64) (*models.ScoreHistory, error) {
	path := fmt.Sprintf("/api/tournaments/%d/scores/%s", tournamentID, address.Hex())

	var resp scoreHistoryResponse
	if err := c.getJSON(ctx, path, &resp); err != nil {
		return nil, err
	}

	daily := make([]models.DailyScorePoint, 0, len(resp.Daily))
	for _, d := range resp.Daily {
		date, err := time.ParseInLocation("2006-01-02", d.Date, time.UTC)
		if err != nil {
			return nil, fmt.Errorf("malformed score date %q: %w", d.Date, err)
		}
		daily = append(daily, models.DailyScorePoint{Date: date, Points: d.Points})
	}

	return &models.ScoreHistory{
		TournamentID:  tournamentID,
		Daily:         daily,
		Contributions: resp.Contributions,
		TotalScore:    resp.TotalScore,
		Rank:          resp.Rank,
	}, nil
}

// TopEntrants returns the tournament's top entrants ordered descending by
// points.
func (c *LedgerClient) TopEntrants(ctx context.Context, tournamentID uint64, limit int) ([]models.LeaderboardEntry, error) {
	path := fmt.Sprintf("/api/tournaments/%d/leaderboard?limit=%d", tournamentID, limit)

	var resp leaderboardResponse
	if err := c.getJSON(ctx, path, &resp); err != nil {
		return nil, err
	}
	return resp.Entries, nil
}

// getJSON performs one GET against the ledger and decodes the JSON body.
func (c *LedgerClient) getJSON(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to build ledger request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("ledger request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("ledger returned status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("malformed ledger response: %w", err)
	}
	return nil
}
