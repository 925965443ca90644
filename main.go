package main

import (
	"fmt"
	"os"

	bidding "vintage-auction/internal/biddingService"
	"vintage-auction/internal/clock"
	"vintage-auction/internal/config"
	"vintage-auction/internal/events"
	"vintage-auction/internal/lifecycle"
	"vintage-auction/internal/repository"
	"vintage-auction/internal/server"
	handler "vintage-auction/services/auction/handler"
	"vintage-auction/utils"
)

func main() {
	cfg := config.Load()

	clk := clock.System()
	bus := events.NewBus()
	store := repository.NewMemoryStore(clk, bus)

	biddingSvc := bidding.NewBiddingService(store, clk).
		WithRetryPolicy(cfg.BidMaxAttempts, cfg.BidRetryDelay)
	listingSvc := bidding.NewListingService(store, clk)
	settler := lifecycle.NewSettler(store, clk)

	sweeper, err := lifecycle.NewSweeper(settler, cfg.SweepSchedule)
	if err != nil {
		utils.Fatal("invalid sweep schedule", map[string]any{"schedule": cfg.SweepSchedule, "error": err.Error()})
	}
	sweeper.Start()
	defer sweeper.Stop()

	auctionHandler := handler.NewAuctionHandler(biddingSvc, listingSvc, settler, clk, cfg.BidHistoryLimit)
	router := server.SetupRouter(auctionHandler)

	addr := fmt.Sprintf(":%s", cfg.ServerPort)
	fmt.Printf("Starting auction server on %s...\n", addr)
	if err := router.Run(addr); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start server: %v\n", err)
		os.Exit(1)
	}
}
