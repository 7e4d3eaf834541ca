package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"auction-bff/internal/auctionapi"
	bidding "auction-bff/internal/biddingService"
	"auction-bff/internal/config"
	"auction-bff/internal/countdown"
	"auction-bff/internal/highestbid"
	"auction-bff/internal/repository"
	"auction-bff/internal/server"
	"auction-bff/utils"

	"github.com/gin-gonic/gin"
	"github.com/jonboulle/clockwork"
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		utils.Debug("no .env file loaded", map[string]any{"error": err.Error()})
	}

	cfg, err := config.Load()
	if err != nil {
		utils.Fatal("invalid configuration", map[string]any{"error": err.Error()})
	}
	utils.SetLevel(cfg.LogLevel)
	gin.SetMode(gin.ReleaseMode)

	api := auctionapi.NewClient(cfg.AuctionAPIURL, cfg.APITimeout)
	if cfg.AuctionAPIToken != "" {
		api.SetHeader("Authorization", "Bearer "+cfg.AuctionAPIToken)
	}

	clock := clockwork.NewRealClock()
	ticker := countdown.NewTicker(clock)
	cache := highestbid.NewCache(api, clock, cfg.APITimeout)
	repo := repository.NewMemoryRepo()

	biddingSvc := bidding.NewBiddingService(api, ticker, cache, repo, clock, cfg.APITimeout)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// start even when the auction API is down; the periodic sync catches up
	if err := biddingSvc.Sync(ctx); err != nil {
		utils.Warn("initial catalog sync failed", map[string]any{"error": err.Error()})
	}
	go biddingSvc.RunCatalogSync(ctx, cfg.CatalogSync)

	streamCfg := server.DefaultStreamConfig()
	streamCfg.CheckOrigin = server.OriginChecker(cfg.AllowedOrigins)
	stream := server.NewCountdownStream(biddingSvc, streamCfg)

	router := server.SetupRouter(biddingSvc, stream)
	srv := server.NewHTTPServer(cfg.HTTPAddr, router, cfg.AllowedOrigins)

	go func() {
		utils.Info("starting auction server", map[string]any{
			"addr":        cfg.HTTPAddr,
			"auction_api": cfg.AuctionAPIURL,
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			utils.Fatal("failed to start server", map[string]any{"error": err.Error()})
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	utils.Info("shutting down", nil)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		utils.Warn("server shutdown failed", map[string]any{"error": err.Error()})
	}
	cancel()
	stream.Close()
	ticker.Close()
}
