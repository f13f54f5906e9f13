package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/arena-tracker/internal/models"
	"github.com/arena-tracker/internal/service"
	"github.com/ethereum/go-ethereum/common"
)

// Valid secp256k1 private key for admin endpoint tests.
const testAdminKey = "4c0883a69102937d6231471b5dbb6204fe512961708279b72e8a6bcf26a0f3a6"

// TestGetPortfolio_NoViewYet tests the portfolio endpoint before any refresh
func TestGetPortfolio_NoViewYet(t *testing.T) {
	server, _, _, _ := createTestServer()

	req := httptest.NewRequest("GET", "/api/portfolio", nil)
	w := httptest.NewRecorder()
	server.router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}
}

// TestSetAddress_Success tests switching the tracked wallet
func TestSetAddress_Success(t *testing.T) {
	server, portfolio, _, _ := createTestServer()

	body, _ := json.Marshal(map[string]string{
		"address": "0x1234567890123456789012345678901234567890",
	})

	req := httptest.NewRequest("PUT", "/api/portfolio/address", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	server.router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	if portfolio.lastAddress.Hex() != "0x1234567890123456789012345678901234567890" {
		t.Errorf("Expected tracked address to be updated, got %s", portfolio.lastAddress.Hex())
	}

	var view service.PortfolioView
	if err := json.NewDecoder(w.Body).Decode(&view); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if view.Address != "0x1234567890123456789012345678901234567890" {
		t.Errorf("Expected view for the new address, got %s", view.Address)
	}
}

// TestSetAddress_InvalidAddress tests rejection of malformed addresses
func TestSetAddress_InvalidAddress(t *testing.T) {
	server, portfolio, _, _ := createTestServer()

	body, _ := json.Marshal(map[string]string{"address": "not-an-address"})

	req := httptest.NewRequest("PUT", "/api/portfolio/address", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	server.router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}
	if portfolio.view != nil {
		t.Error("Expected no view change for a rejected address")
	}
}

// TestSetAddress_EmptyDisconnects tests that an empty address is the
// disconnect signal, not an error
func TestSetAddress_EmptyDisconnects(t *testing.T) {
	server, portfolio, _, _ := createTestServer()

	body, _ := json.Marshal(map[string]string{"address": ""})

	req := httptest.NewRequest("PUT", "/api/portfolio/address", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	server.router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	if portfolio.lastAddress != (common.Address{}) {
		t.Errorf("Expected zero address, got %s", portfolio.lastAddress.Hex())
	}
}

// TestRefreshPortfolio tests the manual refresh trigger
func TestRefreshPortfolio(t *testing.T) {
	server, _, _, _ := createTestServer()

	req := httptest.NewRequest("POST", "/api/portfolio/refresh", nil)
	w := httptest.NewRecorder()
	server.router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
}

// TestListTournaments tests the tournament listing with phases
func TestListTournaments(t *testing.T) {
	server, _, _, _ := createTestServer()

	req := httptest.NewRequest("GET", "/api/tournaments", nil)
	w := httptest.NewRecorder()
	server.router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var views []service.TournamentView
	if err := json.NewDecoder(w.Body).Decode(&views); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(views) != 1 {
		t.Fatalf("Expected 1 tournament, got %d", len(views))
	}
	if views[0].Phase != "running" {
		t.Errorf("Expected phase 'running', got '%s'", views[0].Phase)
	}
}

// TestGetTournament_InvalidID tests rejection of a non-numeric id
func TestGetTournament_InvalidID(t *testing.T) {
	server, _, _, _ := createTestServer()

	req := httptest.NewRequest("GET", "/api/tournaments/abc", nil)
	w := httptest.NewRecorder()
	server.router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}
}

// TestGetLeaderboard tests serving the published leaderboard
func TestGetLeaderboard(t *testing.T) {
	server, _, leaderboard, _ := createTestServer()

	id := uint64(3)
	leaderboard.view = &service.LeaderboardView{
		TournamentID: &id,
		Entries: []models.LeaderboardEntry{
			{Name: "alice", Points: 300},
			{Name: "bob", Points: 200},
		},
		UpdatedAt: time.Now().UTC(),
	}

	req := httptest.NewRequest("GET", "/api/leaderboard", nil)
	w := httptest.NewRecorder()
	server.router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var view service.LeaderboardView
	if err := json.NewDecoder(w.Body).Decode(&view); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(view.Entries) != 2 || view.Entries[0].Name != "alice" {
		t.Errorf("Unexpected leaderboard entries: %+v", view.Entries)
	}
	if leaderboard.refreshCalls != 0 {
		t.Errorf("Expected no on-demand refresh when a view exists, got %d", leaderboard.refreshCalls)
	}
}

// TestGetLeaderboard_TriggersRefreshWhenEmpty tests the on-demand fallback
func TestGetLeaderboard_TriggersRefreshWhenEmpty(t *testing.T) {
	server, _, leaderboard, _ := createTestServer()

	req := httptest.NewRequest("GET", "/api/leaderboard", nil)
	w := httptest.NewRecorder()
	server.router.ServeHTTP(w, req)

	if leaderboard.refreshCalls != 1 {
		t.Errorf("Expected one on-demand refresh, got %d", leaderboard.refreshCalls)
	}
	if w.Code != http.StatusBadGateway {
		t.Errorf("Expected status 502 when the refresh yields nothing, got %d", w.Code)
	}
}

// TestAdminBalances tests the admin balances read
func TestAdminBalances(t *testing.T) {
	server, _, _, _ := createTestServer()

	req := httptest.NewRequest("GET", "/api/admin/balances", nil)
	w := httptest.NewRecorder()
	server.router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
}

// TestAdminMutation_NoKey tests that a mutation without a signing key does
// nothing and reports no content
func TestAdminMutation_NoKey(t *testing.T) {
	server, _, _, admin := createTestServer()

	body, _ := json.Marshal(map[string]string{"price": "5"})
	req := httptest.NewRequest("POST", "/api/admin/pack-price", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	server.router.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Errorf("Expected status 204, got %d", w.Code)
	}
	if admin.lastSignerAddr != nil {
		t.Error("Expected no signer to reach the service")
	}
}

// TestAdminMutation_InvalidKey tests rejection of a malformed admin key
func TestAdminMutation_InvalidKey(t *testing.T) {
	server, _, _, admin := createTestServer()

	body, _ := json.Marshal(map[string]string{"price": "5"})
	req := httptest.NewRequest("POST", "/api/admin/pack-price", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Admin-Key", "zz-not-hex")
	w := httptest.NewRecorder()
	server.router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", w.Code)
	}
	if admin.lastMutation != "" {
		t.Error("Expected the service to not be called with an invalid key")
	}
}

// TestAdminMutation_Success tests a signed mutation end to end
func TestAdminMutation_Success(t *testing.T) {
	server, _, _, admin := createTestServer()

	body, _ := json.Marshal(map[string]string{"price": "5"})
	req := httptest.NewRequest("POST", "/api/admin/pack-price", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Admin-Key", testAdminKey)
	w := httptest.NewRecorder()
	server.router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	if admin.lastMutation != "setPackPrice" {
		t.Errorf("Expected setPackPrice call, got '%s'", admin.lastMutation)
	}
	if admin.lastSignerAddr == nil {
		t.Fatal("Expected a signer to reach the service")
	}

	var result service.MutationResult
	if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if !result.Success {
		t.Error("Expected a successful mutation result")
	}
}

// TestAdminMutation_Rejected tests the rejection path mapping
func TestAdminMutation_Rejected(t *testing.T) {
	server, _, _, admin := createTestServer()
	admin.mutationResult = &service.MutationResult{Reason: "execution reverted: sales paused"}

	body, _ := json.Marshal(map[string]string{"price": "5"})
	req := httptest.NewRequest("POST", "/api/admin/pack-price", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Admin-Key", testAdminKey)
	w := httptest.NewRecorder()
	server.router.ServeHTTP(w, req)

	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("Expected status 422, got %d", w.Code)
	}

	var response ErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if response.Error.Message != "execution reverted: sales paused" {
		t.Errorf("Expected the chain reason verbatim, got '%s'", response.Error.Message)
	}
}

// TestAdminMutation_InvalidJSON tests handling of malformed JSON
func TestAdminMutation_InvalidJSON(t *testing.T) {
	server, _, _, _ := createTestServer()

	req := httptest.NewRequest("POST", "/api/admin/withdraw", bytes.NewReader([]byte("invalid json")))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	server.router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}
}
