// Package api provides the HTTP API server implementation.
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/arena-tracker/internal/adapter"
	"github.com/arena-tracker/internal/logging"
	"github.com/arena-tracker/internal/models"
	"github.com/arena-tracker/internal/service"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gorilla/mux"
)

// Service interfaces for dependency injection and testing

// PortfolioServiceInterface defines the interface for portfolio operations
type PortfolioServiceInterface interface {
	SetAddress(ctx context.Context, address common.Address) *service.PortfolioView
	Refresh(ctx context.Context) *service.PortfolioView
	View() *service.PortfolioView
}

// LeaderboardServiceInterface defines the interface for leaderboard operations
type LeaderboardServiceInterface interface {
	Refresh(ctx context.Context)
	View() *service.LeaderboardView
}

// AdminServiceInterface defines the interface for admin console operations.
// Tournament reads are served from here for player-facing endpoints too, so
// phase labels come from a single resolver.
type AdminServiceInterface interface {
	ContractBalances(ctx context.Context) ([]models.ContractBalance, error)
	AggregateStats(ctx context.Context) (*models.AggregateStats, error)
	ListTournaments(ctx context.Context) ([]service.TournamentView, error)
	GetTournament(ctx context.Context, id uint64) (*service.TournamentView, error)
	Withdraw(ctx context.Context, signer adapter.Signer, to string) *service.MutationResult
	SetPackPrice(ctx context.Context, signer adapter.Signer, price string) *service.MutationResult
	SetActiveTournament(ctx context.Context, signer adapter.Signer, id uint64) *service.MutationResult
	CreateTournament(ctx context.Context, signer adapter.Signer, registrationStart, startTime, endTime string) *service.MutationResult
	SetPaused(ctx context.Context, signer adapter.Signer, paused bool) *service.MutationResult
}

// Server represents the HTTP API server.
type Server struct {
	router             *mux.Router
	httpServer         *http.Server
	portfolioService   PortfolioServiceInterface
	leaderboardService LeaderboardServiceInterface
	adminService       AdminServiceInterface
	config             *ServerConfig
}

// ServerConfig holds server configuration.
type ServerConfig struct {
	Host            string
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
	FreeTierRPS     int // Requests per second for free tier
	PaidTierRPS     int // Requests per second for paid tier
}

// NewServer creates a new API server instance.
func NewServer(
	config *ServerConfig,
	portfolioService PortfolioServiceInterface,
	leaderboardService LeaderboardServiceInterface,
	adminService AdminServiceInterface,
) *Server {
	s := &Server{
		router:             mux.NewRouter(),
		portfolioService:   portfolioService,
		leaderboardService: leaderboardService,
		adminService:       adminService,
		config:             config,
	}

	s.setupRouter()

	return s
}

// setupRouter configures the router with middleware and routes
func (s *Server) setupRouter() {
	rateLimiter := NewRateLimiter(s.config.FreeTierRPS, s.config.PaidTierRPS)

	// Set up middleware (order matters!)
	s.router.Use(RequestIDMiddleware)
	s.router.Use(LoggingMiddleware)
	s.router.Use(RecoveryMiddleware)
	s.router.Use(CORSMiddleware)
	s.router.Use(RateLimitMiddleware(rateLimiter))
	s.router.Use(CompressionMiddleware)

	s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%s", s.config.Host, s.config.Port),
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}
}

// setupRoutes configures all API routes.
func (s *Server) setupRoutes() {
	// Health check endpoint
	s.router.HandleFunc("/health", s.handleHealth).Methods("GET")

	// API v1 routes
	api := s.router.PathPrefix("/api").Subrouter()

	// Portfolio endpoints
	api.HandleFunc("/portfolio", s.handleGetPortfolio).Methods("GET")
	api.HandleFunc("/portfolio/address", s.handleSetAddress).Methods("PUT")
	api.HandleFunc("/portfolio/refresh", s.handleRefreshPortfolio).Methods("POST")

	// Tournament endpoints
	api.HandleFunc("/tournaments", s.handleListTournaments).Methods("GET")
	api.HandleFunc("/tournaments/{id}", s.handleGetTournament).Methods("GET")

	// Leaderboard endpoints
	api.HandleFunc("/leaderboard", s.handleGetLeaderboard).Methods("GET")

	// Admin endpoints
	admin := api.PathPrefix("/admin").Subrouter()
	admin.HandleFunc("/balances", s.handleGetBalances).Methods("GET")
	admin.HandleFunc("/stats", s.handleGetStats).Methods("GET")
	admin.HandleFunc("/withdraw", s.handleWithdraw).Methods("POST")
	admin.HandleFunc("/pack-price", s.handleSetPackPrice).Methods("POST")
	admin.HandleFunc("/tournaments", s.handleCreateTournament).Methods("POST")
	admin.HandleFunc("/tournaments/active", s.handleSetActiveTournament).Methods("PUT")
	admin.HandleFunc("/paused", s.handleSetPaused).Methods("PUT")
}

// handleHealth handles health check requests.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "arena-tracker",
	})
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	logging.GetGlobalLogger().WithField("addr", s.httpServer.Addr).Info("Starting API server")
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	logging.GetGlobalLogger().Info("Shutting down API server...")
	return s.httpServer.Shutdown(ctx)
}
