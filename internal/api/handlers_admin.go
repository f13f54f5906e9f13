package api

import (
	"net/http"

	"github.com/arena-tracker/internal/adapter"
	"github.com/arena-tracker/internal/service"
)

// adminSigner builds the signing capability from the request, if present.
// No key header means no capability; mutations then do not proceed.
func adminSigner(r *http.Request) (adapter.Signer, error) {
	key := r.Header.Get("X-Admin-Key")
	if key == "" {
		return nil, nil
	}
	return adapter.NewPrivateKeySigner(key)
}

// respondMutation writes the outcome of an admin mutation. A nil result
// means the request carried no signing capability and nothing was done.
func respondMutation(w http.ResponseWriter, result *service.MutationResult) {
	if result == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if !result.Success {
		respondError(w, http.StatusUnprocessableEntity, "MUTATION_REJECTED", result.Reason, nil)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// handleGetBalances handles GET /api/admin/balances - per-contract balances
func (s *Server) handleGetBalances(w http.ResponseWriter, r *http.Request) {
	balances, err := s.adminService.ContractBalances(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, balances)
}

// handleGetStats handles GET /api/admin/stats - sales and supply aggregates
func (s *Server) handleGetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.adminService.AggregateStats(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, stats)
}

// handleWithdraw handles POST /api/admin/withdraw - sweep the sales balance
func (s *Server) handleWithdraw(w http.ResponseWriter, r *http.Request) {
	var req struct {
		To string `json:"to"`
	}

	if err := parseJSONBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}

	signer, err := adminSigner(r)
	if err != nil {
		respondError(w, http.StatusUnauthorized, ErrCodeUnauthorized, "Invalid admin key", nil)
		return
	}

	respondMutation(w, s.adminService.Withdraw(r.Context(), signer, req.To))
}

// handleSetPackPrice handles POST /api/admin/pack-price - set the pack price
func (s *Server) handleSetPackPrice(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Price string `json:"price"`
	}

	if err := parseJSONBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}

	signer, err := adminSigner(r)
	if err != nil {
		respondError(w, http.StatusUnauthorized, ErrCodeUnauthorized, "Invalid admin key", nil)
		return
	}

	respondMutation(w, s.adminService.SetPackPrice(r.Context(), signer, req.Price))
}

// handleCreateTournament handles POST /api/admin/tournaments - create a tournament
func (s *Server) handleCreateTournament(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RegistrationStart string `json:"registrationStart"`
		StartTime         string `json:"startTime"`
		EndTime           string `json:"endTime"`
	}

	if err := parseJSONBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}

	signer, err := adminSigner(r)
	if err != nil {
		respondError(w, http.StatusUnauthorized, ErrCodeUnauthorized, "Invalid admin key", nil)
		return
	}

	respondMutation(w, s.adminService.CreateTournament(r.Context(), signer,
		req.RegistrationStart, req.StartTime, req.EndTime))
}

// handleSetActiveTournament handles PUT /api/admin/tournaments/active
func (s *Server) handleSetActiveTournament(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TournamentID uint64 `json:"tournamentId"`
	}

	if err := parseJSONBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}

	signer, err := adminSigner(r)
	if err != nil {
		respondError(w, http.StatusUnauthorized, ErrCodeUnauthorized, "Invalid admin key", nil)
		return
	}

	respondMutation(w, s.adminService.SetActiveTournament(r.Context(), signer, req.TournamentID))
}

// handleSetPaused handles PUT /api/admin/paused - pause or resume pack sales
func (s *Server) handleSetPaused(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Paused bool `json:"paused"`
	}

	if err := parseJSONBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}

	signer, err := adminSigner(r)
	if err != nil {
		respondError(w, http.StatusUnauthorized, ErrCodeUnauthorized, "Invalid admin key", nil)
		return
	}

	respondMutation(w, s.adminService.SetPaused(r.Context(), signer, req.Paused))
}
