package api

import (
	"net/http"

	"github.com/ethereum/go-ethereum/common"
)

// handleGetPortfolio handles GET /api/portfolio - latest published view
func (s *Server) handleGetPortfolio(w http.ResponseWriter, r *http.Request) {
	view := s.portfolioService.View()
	if view == nil {
		respondError(w, http.StatusNotFound, ErrCodeNotFound, "No portfolio view published yet", nil)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

// handleSetAddress handles PUT /api/portfolio/address - switch tracked wallet
func (s *Server) handleSetAddress(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Address string `json:"address"`
	}

	if err := parseJSONBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}

	// An empty address disconnects the wallet and publishes an empty view.
	var address common.Address
	if req.Address != "" {
		if !common.IsHexAddress(req.Address) {
			respondError(w, http.StatusBadRequest, ErrCodeInvalidInput, "Invalid address format", map[string]interface{}{
				"address": req.Address,
			})
			return
		}
		address = common.HexToAddress(req.Address)
	}

	view := s.portfolioService.SetAddress(r.Context(), address)
	respondJSON(w, http.StatusOK, view)
}

// handleRefreshPortfolio handles POST /api/portfolio/refresh - manual refresh
func (s *Server) handleRefreshPortfolio(w http.ResponseWriter, r *http.Request) {
	view := s.portfolioService.Refresh(r.Context())
	respondJSON(w, http.StatusOK, view)
}
