// Package service implements the analytics aggregation and tournament-state
// reconciliation core: pure aggregation over immutable source snapshots,
// phase reconciliation, the leaderboard poller and the admin facade.
package service

import (
	"time"

	"github.com/arena-tracker/internal/models"
	"github.com/arena-tracker/internal/types"
)

// ResolvePhase reconciles a tournament's on-chain status with its time
// windows into the single effective phase every view must use.
//
// Cancelled and Finalized are absorbing: they derive solely from the status
// and override any time-window computation. All other phases derive purely
// from comparing now against the three timestamps. A tournament whose play
// window has passed is Ended even while its status is still Active; only an
// explicit administrator finalization moves it to Finalized.
func ResolvePhase(t *models.Tournament, now time.Time) types.EffectivePhase {
	switch t.Status {
	case types.StatusCancelled:
		return types.PhaseCancelled
	case types.StatusFinalized:
		return types.PhaseFinalized
	}

	switch {
	case now.Before(t.RegistrationStart):
		return types.PhaseUpcomingRegistration
	case now.Before(t.StartTime):
		return types.PhaseRegistering
	case now.Before(t.EndTime):
		return types.PhaseRunning
	default:
		return types.PhaseEnded
	}
}
