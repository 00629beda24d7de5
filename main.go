package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/bwmarrin/discordgo"

	"discord-archiver/archiver"
	"discord-archiver/config"
	"discord-archiver/utils/database/runlog"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}

	if err := os.MkdirAll("./data", os.ModePerm); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}
	db, err := runlog.Init("./data/archive_runs.db")
	if err != nil {
		log.Fatalf("Error initializing run database: %v", err)
	}
	defer db.Close()

	dg, err := discordgo.New("Bot " + cfg.BotToken)
	if err != nil {
		log.Fatalf("Error creating Discord session: %v", err)
	}
	dg.StateEnabled = false
	// Rate limits surface as errors so the paginator's own backoff policy
	// decides what to do with them.
	dg.ShouldRetryOnRateLimit = false

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	defer stop()

	a := archiver.New(cfg, dg, db)
	if err := a.Run(ctx); err != nil {
		log.Fatalf("Backup failed: %v", err)
	}
}
