package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/oatsaysai/lend-reminder/internal/api"
	"github.com/oatsaysai/lend-reminder/internal/app"
	"github.com/oatsaysai/lend-reminder/internal/config"
	"github.com/oatsaysai/lend-reminder/internal/discord"
	"github.com/oatsaysai/lend-reminder/internal/logger"
	"github.com/oatsaysai/lend-reminder/internal/utils"
	"go.uber.org/zap"
)

func main() {
	// Parse command-line flags
	configFile := flag.String("config", "", "Path to configuration file (default: ./config.yaml if present)")
	flag.Parse()

	// Initialize configuration
	cfg, err := config.Load(*configFile)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := logger.Init(cfg.Log.Development); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Log.Sync()

	// Set up graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize loan store
	store, closeStore, err := app.OpenStore(ctx, cfg)
	if err != nil {
		logger.Log.Fatal("failed to open loan store", zap.String("driver", cfg.Storage.Driver), zap.Error(err))
	}
	defer closeStore()
	svc := app.NewService(store, cfg)

	// Initialize Discord bot
	if cfg.DiscordBot.Token != "" {
		discord.SetLoanService(svc)
		discord.SetDefaultCurrency(cfg.DiscordBot.DefaultCurrency)
		if cfg.PromptPay.ID != "" {
			if !utils.PromptPayRegex.MatchString(cfg.PromptPay.ID) {
				logger.Log.Fatal("invalid PromptPay ID", zap.String("promptpay_id", cfg.PromptPay.ID))
			}
			discord.SetPromptPayID(cfg.PromptPay.ID)
		}
		if err := discord.Initialize(cfg.DiscordBot.Token); err != nil {
			logger.Log.Fatal("failed to initialize Discord bot", zap.Error(err))
		}
		defer discord.Close()
	}

	// Start HTTP API
	var srv *http.Server
	if cfg.Server.Enabled {
		srv = &http.Server{
			Addr:         ":" + cfg.Server.Port,
			Handler:      api.NewRoutes(svc, []byte(cfg.Auth.JWTSecret)),
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		}
		go func() {
			logger.Log.Info("HTTP server listening", zap.String("addr", srv.Addr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Log.Error("server error", zap.Error(err))
				stop()
			}
		}()
	}

	logger.Log.Info("lend reminder is now running, press CTRL+C to exit")
	// Keep the application running until context is cancelled
	<-ctx.Done()
	logger.Log.Info("shutting down gracefully...")

	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Log.Error("graceful shutdown failed", zap.Error(err))
		}
	}
	logger.Log.Info("lend reminder stopped")
}
