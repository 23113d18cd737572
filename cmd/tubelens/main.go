package main

import (
	"context"
	"flag"
	"log"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"

	"github.com/tubelens/tubelens/internal/config"
	"github.com/tubelens/tubelens/internal/logger"
	"github.com/tubelens/tubelens/internal/mcptools"
	"github.com/tubelens/tubelens/internal/storage"
	"github.com/tubelens/tubelens/internal/telegram"
	"github.com/tubelens/tubelens/internal/tracker"
	"github.com/tubelens/tubelens/internal/youtube"
)

const version = "1.0.0"

var configPath = flag.String("config", "configs/config.yaml", "Path to configuration file")

func main() {
	flag.Parse()

	// Optional .env for local development, ignored when absent
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Setup logging with level support. Logs go to stderr because the
	// MCP transport owns stdout.
	logger.Init(cfg.Logging.Level, cfg.Logging.Format)
	logger.Info("Configuration loaded from %s", *configPath)

	// Initialize snapshot storage
	store, err := storage.New(
		cfg.Storage.MaxEntities,
		cfg.Storage.MaxSnapshotsPerEntity,
		cfg.Storage.DBPath,
	)
	if err != nil {
		logger.Fatal("Failed to initialize storage: %v", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("Failed to close storage: %v", err)
		}
	}()

	// Initialize YouTube Data API client
	ytClient := youtube.NewClient(cfg.YouTube.APIBaseURL, cfg.YouTube.APIKey, cfg.YouTube.Timeout)

	// Initialize Telegram client
	var telegramClient *telegram.Client
	if cfg.Telegram.Enabled {
		telegramClient, err = telegram.NewClient(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Telegram.MaxRetries, cfg.Telegram.RetryDelayBase)
		if err != nil {
			logger.Fatal("Failed to initialize Telegram client: %v", err)
		}
		logger.Info("Telegram client initialized successfully")
	} else {
		logger.Debug("Telegram notifications disabled")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Start the background tracker so trend tools can serve real history
	if cfg.Tracker.Enabled {
		var alerter tracker.Alerter
		if telegramClient != nil {
			alerter = telegramClient
		}
		trk := tracker.New(ytClient, store, alerter, tracker.Config{
			VideoIDs:          cfg.Tracker.VideoIDs,
			PollInterval:      cfg.Tracker.PollInterval,
			Window:            cfg.Tracker.Window,
			ViralViewsPerHour: cfg.Tracker.ViralViewsPerHour,
			AlertCooldown:     cfg.Tracker.AlertCooldown,
		})
		go trk.Run(ctx)
		logger.Info("Tracker started (videos: %d, interval: %v, window: %v)",
			len(cfg.Tracker.VideoIDs),
			cfg.Tracker.PollInterval,
			cfg.Tracker.Window,
		)
	} else {
		logger.Debug("Tracker disabled, trend tools will use synthetic history")
	}

	// Serve MCP tools over stdio. ServeStdio handles SIGINT/SIGTERM and
	// returns when the client disconnects.
	toolset := mcptools.New(ytClient, store)
	srv := mcptools.NewServer(version, toolset)

	logger.Info("Serving MCP tools over stdio (version %s)", version)
	if err := server.ServeStdio(srv); err != nil {
		logger.Error("Server stopped: %v", err)
	}
	logger.Info("Service stopped")
}
