package service

import (
	"math/big"
	"time"

	"github.com/arena-tracker/internal/models"
)

// Aggregate combines one inventory snapshot, one score history snapshot and
// one floor price snapshot into the per-card analytics sequence and the
// portfolio summary. It is a pure function of its inputs: safe to recompute
// on every poll tick or manual refresh, no hidden accumulation state, and
// the returned summary always matches the returned card sequence.
//
// Each input may be partial or degraded: a nil history means the ledger was
// unreachable, an absent floor price means no market data. Both degrade to
// neutral values rather than failing the pass.
//
// now and dayLoc define the "today" cutoff for daily points; dayLoc must
// match the ledger's own day-boundary convention.
func Aggregate(inv InventorySnapshot, history *models.ScoreHistory, floors FloorPriceSnapshot, now time.Time, dayLoc *time.Location) ([]models.CardAnalytics, models.PortfolioSummary) {
	if history == nil {
		history = &models.ScoreHistory{}
	}
	if dayLoc == nil {
		dayLoc = time.UTC
	}

	cards := inv.Cards
	analytics := make([]models.CardAnalytics, len(cards))
	for i, card := range cards {
		analytics[i] = models.CardAnalytics{
			TokenID: card.TokenID,
			Name:    card.TypeName,
		}
	}

	attributePoints(cards, history, analytics)
	attributeTodayPoints(analytics, todayPoints(history.Daily, now, dayLoc))

	summary := models.PortfolioSummary{
		CardCount:  len(cards),
		TotalScore: history.TotalScore,
		TodayScore: todayPoints(history.Daily, now, dayLoc),
	}

	if history.Rank != nil {
		rank := *history.Rank
		summary.Rank = &rank
	}

	// Portfolio value: unlisted cards contribute zero, but a non-empty
	// portfolio where nothing is listed is "no market data", not zero.
	value := big.NewInt(0)
	anyListed := false
	for i, card := range cards {
		summary.MultiplierSum += card.Multiplier

		if price, ok := floors[card.TypeName]; ok && price != nil {
			analytics[i].FloorPrice = new(big.Int).Set(price)
			value.Add(value, price)
			anyListed = true
		}
	}
	if len(cards) == 0 || anyListed {
		summary.PortfolioValue = value
	}

	if len(analytics) >= 1 {
		best := 0
		for i := range analytics {
			if analytics[i].TotalPoints > analytics[best].TotalPoints {
				best = i
			}
		}
		summary.BestPerformer = &analytics[best].Name
	}
	if len(analytics) >= 2 {
		worst := 0
		for i := range analytics {
			if analytics[i].TotalPoints < analytics[worst].TotalPoints {
				worst = i
			}
		}
		summary.WorstPerformer = &analytics[worst].Name
	}

	return analytics, summary
}

// attributePoints distributes the ledger's per-card-type contributions onto
// the owned cards. Within a type, points split proportionally by multiplier;
// any remainder — integer division, contributions for types no longer owned,
// or ledger rounding — lands deterministically on the first card in display
// order, so that the per-card totals always sum to the player's reported
// tournament total.
func attributePoints(cards []models.Card, history *models.ScoreHistory, analytics []models.CardAnalytics) {
	if len(cards) == 0 {
		return
	}

	// Index owned cards by type, preserving display order within a type.
	byType := make(map[string][]int, len(cards))
	for i, card := range cards {
		byType[card.TypeName] = append(byType[card.TypeName], i)
	}

	for _, contribution := range history.Contributions {
		indices, owned := byType[contribution.TypeName]
		if !owned {
			// Unattributable (card type sold or transferred away); the
			// reconciliation pass below folds it into the total.
			continue
		}

		var multSum uint64
		for _, i := range indices {
			multSum += cards[i].Multiplier
		}

		var assigned uint64
		for _, i := range indices {
			var share uint64
			if multSum > 0 {
				share = contribution.Points * cards[i].Multiplier / multSum
			}
			analytics[i].TotalPoints += share
			assigned += share
		}
		// Integer-division remainder goes to the type's first card.
		analytics[indices[0]].TotalPoints += contribution.Points - assigned
	}

	// Reconcile against the ledger's reported total so the sums match
	// exactly.
	var sum uint64
	for i := range analytics {
		sum += analytics[i].TotalPoints
	}
	switch {
	case history.TotalScore > sum:
		analytics[0].TotalPoints += history.TotalScore - sum
	case history.TotalScore < sum:
		excess := sum - history.TotalScore
		for i := range analytics {
			if excess == 0 {
				break
			}
			take := analytics[i].TotalPoints
			if take > excess {
				take = excess
			}
			analytics[i].TotalPoints -= take
			excess -= take
		}
	}
}

// attributeTodayPoints splits the player's points for the current score day
// across cards proportionally to their totals, remainder to the first card.
func attributeTodayPoints(analytics []models.CardAnalytics, today uint64) {
	if len(analytics) == 0 || today == 0 {
		return
	}

	var totalSum uint64
	for i := range analytics {
		totalSum += analytics[i].TotalPoints
	}

	var assigned uint64
	if totalSum > 0 {
		for i := range analytics {
			share := today * analytics[i].TotalPoints / totalSum
			analytics[i].TodayPoints = share
			assigned += share
		}
	}
	analytics[0].TodayPoints += today - assigned
}

// todayPoints sums the daily series entries that fall on the current score
// day in the ledger's day-boundary timezone.
func todayPoints(daily []models.DailyScorePoint, now time.Time, dayLoc *time.Location) uint64 {
	nowY, nowM, nowD := now.In(dayLoc).Date()

	var sum uint64
	for _, point := range daily {
		// Series dates are day-granular labels; compare them as stored.
		y, m, d := point.Date.Date()
		if y == nowY && m == nowM && d == nowD {
			sum += point.Points
		}
	}
	return sum
}
