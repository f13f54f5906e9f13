package models

import "time"

// DailyScorePoint is one (date, points) entry of an address's score series in
// a tournament. Closed days are immutable; the current day may still change
// until the tournament's daily cutoff.
type DailyScorePoint struct {
	Date   time.Time `json:"date"`
	Points uint64    `json:"points"`
}

// CardTypeContribution is the ledger's per-card-type share of an address's
// score in a tournament. The ledger is keyed by player and tournament, so
// per-card attribution starts from these records.
type CardTypeContribution struct {
	TypeName string `json:"typeName"`
	Points   uint64 `json:"points"`
}

// ScoreHistory is one address's full scoring snapshot for one tournament, as
// reported by the score ledger. A zero-value ScoreHistory is the degraded
// "no data" form used when the ledger is unreachable.
type ScoreHistory struct {
	TournamentID  uint64                 `json:"tournamentId"`
	Daily         []DailyScorePoint      `json:"daily"`
	Contributions []CardTypeContribution `json:"contributions"`
	TotalScore    uint64                 `json:"totalScore"`
	Rank          *int                   `json:"rank,omitempty"` // 1-based, nil when unranked
}

// LeaderboardEntry is one row of the ledger's top-entrants ordering.
type LeaderboardEntry struct {
	Name   string `json:"name"`
	Points uint64 `json:"points"`
}
