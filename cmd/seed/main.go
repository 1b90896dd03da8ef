package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/oatsaysai/lend-reminder/internal/app"
	"github.com/oatsaysai/lend-reminder/internal/config"
	"github.com/oatsaysai/lend-reminder/internal/logger"
	"github.com/oatsaysai/lend-reminder/internal/middleware"
	"github.com/oatsaysai/lend-reminder/internal/seed"
	"go.uber.org/zap"
)

func main() {
	configFile := flag.String("config", "", "Path to configuration file")
	owner := flag.String("owner", "", "Owner id (Discord user id) to create the demo loans for")
	token := flag.Bool("token", false, "Also print an API bearer token for the owner")
	ttl := flag.Duration("ttl", 24*time.Hour, "Lifetime of the printed token")
	flag.Parse()

	if *owner == "" {
		log.Fatal("-owner is required")
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := logger.Init(cfg.Log.Development); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Log.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	store, closeStore, err := app.OpenStore(ctx, cfg)
	if err != nil {
		logger.Log.Fatal("failed to open loan store", zap.Error(err))
	}
	defer closeStore()

	created := seed.Run(ctx, app.NewService(store, cfg), *owner)
	fmt.Printf("created %d demo loans for %s\n", len(created), *owner)

	if *token {
		tok, err := middleware.IssueToken([]byte(cfg.Auth.JWTSecret), *owner, *ttl)
		if err != nil {
			logger.Log.Fatal("failed to issue token", zap.Error(err))
		}
		fmt.Println(tok)
	}
}
