package api

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
)

// handleListTournaments handles GET /api/tournaments - all tournaments with phases
func (s *Server) handleListTournaments(w http.ResponseWriter, r *http.Request) {
	views, err := s.adminService.ListTournaments(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, views)
}

// handleGetTournament handles GET /api/tournaments/:id - one tournament with phase
func (s *Server) handleGetTournament(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id, err := strconv.ParseUint(vars["id"], 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeInvalidInput, "Invalid tournament ID", nil)
		return
	}

	view, err := s.adminService.GetTournament(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

// handleGetLeaderboard handles GET /api/leaderboard - active tournament top entrants
func (s *Server) handleGetLeaderboard(w http.ResponseWriter, r *http.Request) {
	view := s.leaderboardService.View()
	if view == nil {
		// First request before the poller's initial refresh completed.
		s.leaderboardService.Refresh(r.Context())
		view = s.leaderboardService.View()
	}
	if view == nil {
		respondError(w, http.StatusBadGateway, "PROVIDER_ERROR", "Leaderboard unavailable", nil)
		return
	}
	respondJSON(w, http.StatusOK, view)
}
