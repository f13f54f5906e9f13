// Package main provides the API server entry point for the arena tracker service.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/arena-tracker/internal/adapter"
	"github.com/arena-tracker/internal/api"
	"github.com/arena-tracker/internal/config"
	"github.com/arena-tracker/internal/logging"
	"github.com/arena-tracker/internal/service"
	"github.com/arena-tracker/internal/storage"
)

func main() {
	fmt.Println("Arena Tracker API Server")
	log.Println("Server starting...")

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize structured logging
	logLevel := logging.ParseLogLevel(cfg.Logging.Level)
	logFormat := logging.ParseLogFormat(cfg.Logging.Format)
	logging.InitGlobalLogger(logLevel, logFormat)

	logger := logging.GetGlobalLogger()
	logger.WithFields(map[string]interface{}{
		"level":  cfg.Logging.Level,
		"format": cfg.Logging.Format,
	}).Info("Structured logging initialized")

	// Connect to Redis. The tracker works without it, just with no caching
	// between refreshes.
	var floorCache *storage.FloorPriceCache
	var leaderboardCache *storage.LeaderboardCache
	redis, err := storage.NewRedisCache(&cfg.Redis)
	if err != nil {
		logger.WithError(err).Warn("Failed to connect to Redis, running without cache")
	} else {
		defer redis.Close()
		floorCache = storage.NewFloorPriceCache(redis, cfg.Cache.FloorPriceTTL)
		leaderboardCache = storage.NewLeaderboardCache(redis, cfg.Cache.LeaderboardTTL)
		logger.Info("Redis connection established")
	}

	// Initialize the chain adapter
	logger.Info("Initializing chain adapter...")
	chain, err := adapter.NewEthereumAdapter(&cfg.Chain)
	if err != nil {
		logger.WithError(err).Fatal("Failed to create chain adapter")
	}
	logger.WithField("rpc", cfg.Chain.RPCURL).Info("Chain adapter initialized")

	// Initialize the score ledger client
	ledger := adapter.NewLedgerClient(&cfg.Ledger)

	// Initialize services
	logger.Info("Initializing services...")

	inventory := service.NewInventoryLoader(chain)
	floors := service.NewFloorPriceResolver(chain, floorCache)
	portfolioTracker := service.NewPortfolioTracker(inventory, ledger, floors, cfg.ScoreDayLocation())
	defer portfolioTracker.Close()

	leaderboardService := service.NewLeaderboardService(
		ledger,
		leaderboardCache,
		cfg.Poll.LeaderboardLimit,
		cfg.Poll.LeaderboardInterval,
	)

	adminService := service.NewAdminService(chain, chain)

	// Start the leaderboard poller
	pollCtx, cancelPoll := context.WithCancel(context.Background())
	defer cancelPoll()
	go leaderboardService.Start(pollCtx)

	logger.Info("Services initialized")

	// Create server configuration
	serverConfig := &api.ServerConfig{
		Host:            cfg.Server.Host,
		Port:            cfg.Server.Port,
		ReadTimeout:     15 * time.Second,
		WriteTimeout:    15 * time.Second,
		IdleTimeout:     60 * time.Second,
		ShutdownTimeout: 10 * time.Second,
		FreeTierRPS:     cfg.RateLimit.FreeTierRPS,
		PaidTierRPS:     cfg.RateLimit.PaidTierRPS,
	}

	server := api.NewServer(serverConfig, portfolioTracker, leaderboardService, adminService)

	// Start server in a goroutine
	go func() {
		if err := server.Start(); err != nil {
			logger.WithError(err).Fatal("Server failed to start")
		}
	}()

	logger.WithFields(map[string]interface{}{
		"host": cfg.Server.Host,
		"port": cfg.Server.Port,
	}).Info("Server started successfully")

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	cancelPoll()

	ctx, cancel := context.WithTimeout(context.Background(), serverConfig.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.WithError(err).Fatal("Server forced to shutdown")
	}

	logger.Info("Server exited")
}
