// Package types provides common type definitions for the arena tracker system.
package types

// Rarity represents a card's rarity tier, ordered from least to most rare.
type Rarity int

const (
	// RarityCommon is the lowest rarity tier
	RarityCommon Rarity = iota
	// RarityRare is the second rarity tier
	RarityRare
	// RarityEpic is the third rarity tier
	RarityEpic
	// RarityEpicRare is the fourth rarity tier
	RarityEpicRare
	// RarityLegendary is the highest rarity tier
	RarityLegendary
)

// String returns the human-readable rarity name.
func (r Rarity) String() string {
	switch r {
	case RarityCommon:
		return "common"
	case RarityRare:
		return "rare"
	case RarityEpic:
		return "epic"
	case RarityEpicRare:
		return "epic_rare"
	case RarityLegendary:
		return "legendary"
	default:
		return "unknown"
	}
}

// TournamentStatus represents the administrator-controlled on-chain status enum.
type TournamentStatus uint8

const (
	// StatusCreated represents a tournament that exists but has not been activated
	StatusCreated TournamentStatus = iota
	// StatusActive represents a tournament accruing scores and prize pool
	StatusActive
	// StatusFinalized represents a tournament settled by an administrator
	StatusFinalized
	// StatusCancelled represents a tournament cancelled by an administrator
	StatusCancelled
)

// String returns the human-readable status name.
func (s TournamentStatus) String() string {
	switch s {
	case StatusCreated:
		return "created"
	case StatusActive:
		return "active"
	case StatusFinalized:
		return "finalized"
	case StatusCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// EffectivePhase is the single reconciled lifecycle label for a tournament,
// combining the on-chain status with wall-clock time windows. It is derived,
// never stored.
type EffectivePhase string

const (
	// PhaseUpcomingRegistration means registration has not yet opened
	PhaseUpcomingRegistration EffectivePhase = "upcoming_registration"
	// PhaseRegistering means registration is open but play has not started
	PhaseRegistering EffectivePhase = "registering"
	// PhaseRunning means the tournament is in its play window
	PhaseRunning EffectivePhase = "running"
	// PhaseEnded means the play window has passed but the tournament has not
	// been administratively finalized
	PhaseEnded EffectivePhase = "ended"
	// PhaseFinalized mirrors the absorbing on-chain Finalized status
	PhaseFinalized EffectivePhase = "finalized"
	// PhaseCancelled mirrors the absorbing on-chain Cancelled status
	PhaseCancelled EffectivePhase = "cancelled"
)

// UserTier represents the API service tier level
type UserTier string

const (
	// TierFree represents the free service tier with limited request rates
	TierFree UserTier = "free"
	// TierPaid represents the paid service tier with full request rates
	TierPaid UserTier = "paid"
)

// ServiceError represents a structured error response
type ServiceError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

func (e *ServiceError) Error() string {
	return e.Message
}
